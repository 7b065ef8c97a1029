package listener

import "github.com/google/wire"

var ProviderSet = wire.NewSet(
	NewConfig,
	NewListener,
)
