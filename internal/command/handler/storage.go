package command

import (
	"formrelay/config"
	"formrelay/internal/listener"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type StorageHandler struct {
	logger *zap.Logger
	path   string
}

func NewStorageHandler(logger *zap.Logger, conf *config.Configuration) *StorageHandler {
	return &StorageHandler{
		logger: logger,
		path:   conf.Storage.Path,
	}
}

// Init 建立儲存目錄與空白文件，已存在則不動
func (handler *StorageHandler) Init(cmd *cobra.Command, _ []string) error {
	if err := listener.EnsureStorage(handler.path, handler.logger); err != nil {
		return err
	}
	cmd.Println("storage ready:", handler.path)
	return nil
}
