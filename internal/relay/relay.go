// Package relay 將 gateway 收到的 POST body 以單一 UDP datagram 轉送給 listener。
package relay

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"formrelay/config"
	"formrelay/internal/core"
	"formrelay/internal/telemetry"

	"go.uber.org/zap"
)

var ErrShortWrite = errors.New("relay: datagram partially written")

// Config 轉送目標與限制
type Config struct {
	// listener 位址，例如 127.0.0.1:5000
	Target string
	// 超過此大小的 payload 會被 listener 截斷，只記錄與計數
	MaxDatagramSize int
	Timeout         time.Duration
}

func NewConfig(conf *config.Configuration) Config {
	return Config{
		Target:          conf.Listener.Addr(),
		MaxDatagramSize: conf.Listener.MaxDatagramSize,
		Timeout:         conf.Gateway.SendTimeoutDuration(),
	}
}

// Sender 每次送出都開一個短暫的 UDP socket，送完即關閉
type Sender struct {
	conf   Config
	logger *zap.Logger
	trace  *telemetry.Trace
	metric *telemetry.Metric
	dialer net.Dialer
}

func NewSender(conf Config, logger *zap.Logger, trace *telemetry.Trace, metric *telemetry.Metric) *Sender {
	return &Sender{
		conf:   conf,
		logger: logger.Named("relay"),
		trace:  trace,
		metric: metric,
	}
}

func (s *Sender) Target() string {
	return s.conf.Target
}

// Send 將 payload 原封不動送出，回傳實際寫出的位元組數
func (s *Sender) Send(ctx context.Context, payload []byte) (n int, err error) {
	ctx, span, end := s.trace.WithSpan(ctx, string(core.SpanRelaySend))
	defer func() { end(err) }()

	meta := core.TraceRelayMeta{
		Target:    s.conf.Target,
		BodyBytes: len(payload),
		Oversize:  s.conf.MaxDatagramSize > 0 && len(payload) > s.conf.MaxDatagramSize,
	}
	if meta.Oversize {
		s.logger.Warn("payload exceeds datagram limit, listener will truncate",
			zap.Int("bytes", len(payload)),
			zap.Int("limit", s.conf.MaxDatagramSize),
		)
		s.metric.ForwardOversizeTotal.Inc()
	}

	if s.conf.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.conf.Timeout)
		defer cancel()
	}

	conn, err := s.dialer.DialContext(ctx, "udp", s.conf.Target)
	if err != nil {
		s.metric.ForwardFailTotal.WithLabelValues("dial").Inc()
		return 0, fmt.Errorf("dial %s: %w", s.conf.Target, err)
	}
	defer conn.Close()

	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetWriteDeadline(deadline)
	}
	n, err = conn.Write(payload)
	meta.Sent = n
	s.trace.ApplyTraceAttributes(span, meta)
	if err != nil {
		s.metric.ForwardFailTotal.WithLabelValues("write").Inc()
		return n, fmt.Errorf("write %s: %w", s.conf.Target, err)
	}
	if n != len(payload) {
		s.metric.ForwardFailTotal.WithLabelValues("short_write").Inc()
		return n, ErrShortWrite
	}
	s.metric.ForwardSuccessTotal.Inc()
	s.logger.Debug("datagram sent", zap.String("target", s.conf.Target), zap.Int("bytes", n))
	return n, nil
}
