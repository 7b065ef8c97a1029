package command

import (
	commandHandler "formrelay/internal/command/handler"
	"formrelay/internal/relay"

	"github.com/google/wire"
	"github.com/spf13/cobra"
)

var ProviderSet = wire.NewSet(
	NewCommand,
	commandHandler.NewSendHandler,
	commandHandler.NewStorageHandler,
	commandHandler.NewVersionHandler,
	wire.Bind(new(commandHandler.Sender), new(*relay.Sender)),
)

type Command struct {
	sendHandler    *commandHandler.SendHandler
	storageHandler *commandHandler.StorageHandler
	versionHandler *commandHandler.VersionHandler
}

// NewCommand .
func NewCommand(
	sendHandler *commandHandler.SendHandler,
	storageHandler *commandHandler.StorageHandler,
	versionHandler *commandHandler.VersionHandler,
) *Command {
	return &Command{
		sendHandler:    sendHandler,
		storageHandler: storageHandler,
		versionHandler: versionHandler,
	}
}

func Register(rootCmd *cobra.Command, newCmd func() (*Command, func(), error)) {
	var fields []string
	sendCmd := &cobra.Command{
		Use:     "send",
		Short:   "send one form submission to the listener",
		Example: "app send --field name=Alice --field msg=Hi",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			command, cleanup, err := newCmd()
			if err != nil {
				return err
			}
			defer cleanup()

			return command.sendHandler.Send(cmd, fields)
		},
	}
	sendCmd.Flags().StringArrayVarP(&fields, "field", "f", nil, "form field as key=value, repeatable")

	storageCmd := &cobra.Command{
		Use:   "storage",
		Short: "log document maintenance",
	}
	storageCmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "create the storage directory and an empty document",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			command, cleanup, err := newCmd()
			if err != nil {
				return err
			}
			defer cleanup()

			return command.storageHandler.Init(cmd, args)
		},
	})

	rootCmd.AddCommand(
		sendCmd,
		storageCmd,
		&cobra.Command{
			Use:   "version",
			Short: "print name and version",
			Run: func(cmd *cobra.Command, args []string) {
				command, cleanup, err := newCmd()
				if err != nil {
					panic(err)
				}
				defer cleanup()

				command.versionHandler.Print(cmd, args)
			},
		},
	)
}
