package middleware

import (
	"net"
	"strconv"
	"time"

	"formrelay/config"
	"formrelay/internal/core"
	"formrelay/internal/telemetry"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

type TraceEntry struct {
	trace  *telemetry.Trace
	metric *telemetry.Metric
	conf   *config.Configuration
}

func NewTraceEntry(trace *telemetry.Trace, metric *telemetry.Metric, conf *config.Configuration) *TraceEntry {
	return &TraceEntry{trace: trace, metric: metric, conf: conf}
}

// 未註冊的路由（靜態檔與 POST）以 method 分群，避免 label 爆量
func metricEndpoint(c *gin.Context) string {
	if endpoint := c.FullPath(); endpoint != "" {
		return endpoint
	}
	return c.Request.Method + " /*"
}

func (m *TraceEntry) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now().UTC()
		if _, exists := c.Get(ContextRequestStart); !exists {
			c.Set(ContextRequestStart, start)
		}
		endpoint := metricEndpoint(c)
		if skipPath(c.FullPath()) {
			c.Next()
			return
		}

		carrier := propagation.HeaderCarrier(c.Request.Header)
		ctx := otel.GetTextMapPropagator().Extract(c.Request.Context(), carrier)
		spanName := c.Request.Method + " " + c.Request.URL.Path
		ctx, span := m.trace.StartSpanForLayer(ctx, core.TraceSpanName(spanName), trace.WithSpanKind(trace.SpanKindServer))
		c.Request = c.Request.WithContext(ctx)
		c.Set(core.ContextTraceKey, ctx)

		// peer ip:port
		peerAddr, peerPort := "", 0
		if host, port, err := net.SplitHostPort(c.Request.RemoteAddr); err == nil {
			peerAddr = host
			if p, err2 := strconv.Atoi(port); err2 == nil {
				peerPort = p
			}
		} else {
			peerAddr = c.ClientIP()
		}

		meta := core.TraceHttpServerMeta{
			ClientAddr:        c.ClientIP(),
			HttpRequestMethod: c.Request.Method,
			HttpRoute:         endpoint,
			UrlPath:           c.Request.URL.Path,
			UrlScheme:         "http",
			UserAgent:         c.Request.UserAgent(),
			ServerAddress:     m.conf.App.Name,
			NetworkPeerAddr:   peerAddr,
			NetworkPeerPort:   peerPort,
			NetworkProtoVer:   c.Request.Proto,
			SpanKind:          "server",
			SpanTraceID:       span.SpanContext().TraceID().String(),
		}

		c.Next()

		// 回應狀態與指標
		statusCode := c.Writer.Status()
		meta.HttpStatusCode = statusCode
		m.trace.ApplyTraceAttributes(span, &meta)

		var spanErr error
		if statusCode >= 400 && len(c.Errors) > 0 {
			spanErr = c.Errors.Last().Err
		}
		m.trace.EndSpan(span, spanErr)

		m.metric.HttpRequestsTotal.WithLabelValues(endpoint, strconv.Itoa(statusCode)).Inc()
		m.metric.HttpRequestDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	}
}
