package relay

import "github.com/google/wire"

var ProviderSet = wire.NewSet(
	NewConfig,
	NewSender,
)
