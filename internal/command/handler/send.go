package command

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"formrelay/internal/submission"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var ErrNoFields = errors.New("at least one --field is required")

type Sender interface {
	Send(ctx context.Context, payload []byte) (int, error)
	Target() string
}

// SendHandler 從命令列組出一筆表單並以 datagram 送給 listener
type SendHandler struct {
	logger *zap.Logger
	sender Sender
}

func NewSendHandler(logger *zap.Logger, sender Sender) *SendHandler {
	return &SendHandler{
		logger: logger,
		sender: sender,
	}
}

// ParseFields 將 k=v 轉成 record，重複鍵以最後一個為準
func ParseFields(fields []string) (submission.Record, error) {
	if len(fields) == 0 {
		return nil, ErrNoFields
	}
	record := make(submission.Record, len(fields))
	for _, f := range fields {
		key, value, ok := strings.Cut(f, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid field %q, want key=value", f)
		}
		record[key] = value
	}
	return record, nil
}

func (handler *SendHandler) Send(cmd *cobra.Command, fields []string) error {
	record, err := ParseFields(fields)
	if err != nil {
		return err
	}
	payload := submission.Encode(record)
	n, err := handler.sender.Send(cmd.Context(), payload)
	if err != nil {
		return fmt.Errorf("send to %s: %w", handler.sender.Target(), err)
	}
	cmd.Printf("sent %d bytes to %s\n", n, handler.sender.Target())
	return nil
}
