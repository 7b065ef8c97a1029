// Package storage 管理 JSON log document。只有 listener 可以匯入，確保單一寫入者。
package storage

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"formrelay/internal/core"
	"formrelay/internal/submission"

	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

const filePerm = 0o644

// Document 頂層為 timestamp → record；既有值以 RawMessage 保留原樣
type Document map[string]json.RawMessage

type Writer struct {
	path   string
	now    func() time.Time
	logger *zap.Logger
}

type Option func(*Writer)

// WithClock 替換時間來源（測試用）
func WithClock(now func() time.Time) Option {
	return func(w *Writer) {
		w.now = now
	}
}

func NewWriter(path string, logger *zap.Logger, opts ...Option) *Writer {
	w := &Writer{
		path:   path,
		now:    time.Now,
		logger: logger,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

func (w *Writer) Path() string {
	return w.path
}

// Ensure 建立儲存目錄；檔案不存在時寫入空物件
func (w *Writer) Ensure() error {
	if dir := filepath.Dir(w.path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create storage dir: %w", err)
		}
	}
	_, err := os.Stat(w.path)
	if err == nil {
		return nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("stat storage file: %w", err)
	}
	if err := os.WriteFile(w.path, []byte("{}"), filePerm); err != nil {
		return fmt.Errorf("create storage file: %w", err)
	}
	w.logger.Info("storage document created", zap.String("path", w.path))
	return nil
}

// Append 讀取整份文件、加入一筆、整份覆寫。同一微秒的 key 會覆蓋舊值。
func (w *Writer) Append(record submission.Record) (string, error) {
	doc := w.load()

	value, err := json.Marshal(record)
	if err != nil {
		return "", fmt.Errorf("marshal record: %w", err)
	}
	key := w.now().Format(core.TimestampLayout)
	doc[key] = value

	out, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("marshal document: %w", err)
	}
	if err := os.WriteFile(w.path, out, filePerm); err != nil {
		return "", fmt.Errorf("write storage file: %w", err)
	}
	return key, nil
}

func (w *Writer) load() Document {
	raw, err := os.ReadFile(w.path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			w.logger.Warn("storage unreadable, starting fresh", zap.String("path", w.path), zap.Error(err))
		}
		return Document{}
	}
	var doc Document
	if err := json.Unmarshal(raw, &doc); err != nil || doc == nil {
		w.logger.Warn("storage is not a JSON object, starting fresh",
			zap.String("path", w.path),
			zap.Int("bytes", len(raw)),
			zap.Error(err),
		)
		return Document{}
	}
	return doc
}
