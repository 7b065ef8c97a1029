package command

import (
	"runtime"

	"formrelay/config"

	"github.com/spf13/cobra"
)

type VersionHandler struct {
	name    string
	version string
}

func NewVersionHandler(conf *config.Configuration) *VersionHandler {
	return &VersionHandler{
		name:    conf.App.Name,
		version: conf.App.Version,
	}
}

func (handler *VersionHandler) Print(cmd *cobra.Command, _ []string) {
	cmd.Printf("%s %s (%s)\n", handler.name, handler.version, runtime.Version())
}
