// Package listener 接收 gateway 轉送的 datagram，解碼後寫入 log document。
// 所有寫入都在同一個 goroutine 依接收順序執行。
package listener

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"formrelay/config"
	"formrelay/internal/core"
	"formrelay/internal/listener/internal/storage"
	"formrelay/internal/submission"
	"formrelay/internal/telemetry"

	"go.uber.org/zap"
)

var ErrNotStarted = errors.New("listener: not started")

type Config struct {
	Address         string
	MaxDatagramSize int
	StoragePath     string
	MirrorTimeout   time.Duration
}

func NewConfig(conf *config.Configuration) Config {
	return Config{
		Address:         conf.Listener.Addr(),
		MaxDatagramSize: conf.Listener.MaxDatagramSize,
		StoragePath:     conf.Storage.Path,
		MirrorTimeout:   conf.Listener.MirrorTimeoutDuration(),
	}
}

// Stats 自啟動以來的累計數
type Stats struct {
	Received      uint64 `json:"received"`
	Stored        uint64 `json:"stored"`
	DecodeErrors  uint64 `json:"decode_errors"`
	StorageErrors uint64 `json:"storage_errors"`
	MirrorErrors  uint64 `json:"mirror_errors"`
}

type counters struct {
	received      atomic.Uint64
	stored        atomic.Uint64
	decodeErrors  atomic.Uint64
	storageErrors atomic.Uint64
	mirrorErrors  atomic.Uint64
}

type Listener struct {
	conf    Config
	logger  *zap.Logger
	trace   *telemetry.Trace
	metric  *telemetry.Metric
	writer  *storage.Writer
	mirrors submission.Mirrors

	conn     *net.UDPConn
	wg       sync.WaitGroup
	stopOnce sync.Once
	stats    counters
}

func NewListener(
	conf Config,
	logger *zap.Logger,
	trace *telemetry.Trace,
	metric *telemetry.Metric,
	mirrors submission.Mirrors,
) *Listener {
	return newListener(conf, logger, trace, metric, mirrors)
}

func newListener(
	conf Config,
	logger *zap.Logger,
	trace *telemetry.Trace,
	metric *telemetry.Metric,
	mirrors submission.Mirrors,
	opts ...storage.Option,
) *Listener {
	if conf.MaxDatagramSize <= 0 {
		conf.MaxDatagramSize = 1024
	}
	logger = logger.Named("listener")
	return &Listener{
		conf:    conf,
		logger:  logger,
		trace:   trace,
		metric:  metric,
		writer:  storage.NewWriter(conf.StoragePath, logger, opts...),
		mirrors: mirrors,
	}
}

// EnsureStorage 建立儲存目錄與空白文件，不需啟動 listener
func EnsureStorage(path string, logger *zap.Logger) error {
	return storage.NewWriter(path, logger).Ensure()
}

// Prepare 確保 log document 存在
func (l *Listener) Prepare() error {
	return l.writer.Ensure()
}

// Start 綁定 UDP socket 並啟動接收 goroutine；綁定失敗直接回傳錯誤
func (l *Listener) Start() error {
	addr, err := net.ResolveUDPAddr("udp", l.conf.Address)
	if err != nil {
		return fmt.Errorf("resolve %s: %w", l.conf.Address, err)
	}
	conn, err := net.ListenUDP("udp", addr)
	if err != nil {
		return fmt.Errorf("listen udp %s: %w", l.conf.Address, err)
	}
	l.conn = conn
	l.logger.Info("listener started",
		zap.String("address", conn.LocalAddr().String()),
		zap.Int("max_datagram_size", l.conf.MaxDatagramSize),
		zap.String("storage", l.writer.Path()),
	)

	l.wg.Add(1)
	go l.serve()
	return nil
}

// Addr 實際綁定的位址（port 0 時可取得分配到的 port）
func (l *Listener) Addr() net.Addr {
	if l.conn == nil {
		return nil
	}
	return l.conn.LocalAddr()
}

// Stop 關閉 socket 並等待進行中的寫入完成
func (l *Listener) Stop() error {
	if l.conn == nil {
		return ErrNotStarted
	}
	var err error
	l.stopOnce.Do(func() {
		err = l.conn.Close()
		l.wg.Wait()
		s := l.Stats()
		l.logger.Info("listener stopped",
			zap.Uint64("received", s.Received),
			zap.Uint64("stored", s.Stored),
			zap.Uint64("decode_errors", s.DecodeErrors),
			zap.Uint64("storage_errors", s.StorageErrors),
			zap.Uint64("mirror_errors", s.MirrorErrors),
		)
	})
	return err
}

func (l *Listener) Stats() Stats {
	return Stats{
		Received:      l.stats.received.Load(),
		Stored:        l.stats.stored.Load(),
		DecodeErrors:  l.stats.decodeErrors.Load(),
		StorageErrors: l.stats.storageErrors.Load(),
		MirrorErrors:  l.stats.mirrorErrors.Load(),
	}
}

func (l *Listener) serve() {
	defer l.wg.Done()

	buf := make([]byte, l.conf.MaxDatagramSize)
	for {
		n, peer, err := l.conn.ReadFromUDP(buf)
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return
			}
			l.logger.Error("read datagram failed", zap.Error(err))
			continue
		}
		l.handle(buf[:n], peer)
	}
}

// handle 處理單一 datagram；任何錯誤都只影響這一筆
func (l *Listener) handle(payload []byte, peer *net.UDPAddr) {
	l.stats.received.Add(1)
	l.metric.DatagramsReceivedTotal.Inc()

	ctx, span, end := l.trace.WithSpan(context.Background(), string(core.SpanDatagram))
	meta := core.TraceDatagramMeta{
		Bytes:       len(payload),
		StoragePath: l.writer.Path(),
	}
	if peer != nil {
		meta.Peer = peer.String()
	}
	var spanErr error
	defer func() {
		if spanErr != nil {
			msg := spanErr.Error()
			meta.Error = &msg
		}
		l.trace.ApplyTraceAttributes(span, meta)
		end(spanErr)
	}()

	record, err := submission.Decode(payload)
	if err != nil {
		spanErr = err
		l.stats.decodeErrors.Add(1)
		l.metric.DecodeErrorsTotal.Inc()
		l.logger.Warn("datagram rejected",
			zap.String("peer", meta.Peer),
			zap.Int("bytes", len(payload)),
			zap.Error(err),
		)
		return
	}
	meta.Fields = len(record)

	_, _, storeEnd := l.trace.WithSpan(ctx, string(core.SpanStorageAppend))
	key, err := l.writer.Append(record)
	storeEnd(err)
	if err != nil {
		spanErr = err
		l.stats.storageErrors.Add(1)
		l.metric.StorageErrorsTotal.Inc()
		l.logger.Error("append submission failed", zap.String("path", l.writer.Path()), zap.Error(err))
		return
	}
	meta.Key = key
	l.stats.stored.Add(1)
	l.metric.SubmissionsStoredTotal.Inc()
	l.logger.Info("submission stored", zap.String("key", key), zap.Int("fields", len(record)))

	l.mirror(ctx, submission.Entry{Key: key, Record: record})
}

// mirror 依序送出副本；失敗只記錄，不影響已寫入的紀錄
func (l *Listener) mirror(ctx context.Context, entry submission.Entry) {
	for _, m := range l.mirrors {
		if m == nil {
			continue
		}
		mctx, span, end := l.trace.WithSpan(ctx, string(core.SpanMirror))
		cancel := func() {}
		if l.conf.MirrorTimeout > 0 {
			mctx, cancel = context.WithTimeout(mctx, l.conf.MirrorTimeout)
		}
		err := m.Mirror(mctx, entry)
		cancel()

		meta := core.TraceMirrorMeta{Mirror: m.Name(), Key: entry.Key}
		if err != nil {
			msg := err.Error()
			meta.Error = &msg
			l.stats.mirrorErrors.Add(1)
			l.metric.MirrorErrorsTotal.WithLabelValues(m.Name()).Inc()
			l.logger.Warn("mirror failed", zap.String("mirror", m.Name()), zap.String("key", entry.Key), zap.Error(err))
		}
		l.trace.ApplyTraceAttributes(span, meta)
		end(err)
	}
}
