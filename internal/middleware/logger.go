package middleware

import (
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"formrelay/config"
	"formrelay/internal/core"
	"formrelay/internal/database/fluentd/model"
	"formrelay/internal/database/fluentd/repository"
	"formrelay/internal/telemetry"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// 只記錄與表單內容無關的標頭
var loggedHeaders = []string{"Content-Type", "Content-Length", "Accept-Encoding", "Referer"}

type Logger struct {
	logger            *zap.Logger
	trace             *telemetry.Trace
	config            *config.Configuration
	fluentdRepository *repository.LogRepository
}

func NewLogger(
	logger *zap.Logger,
	trace *telemetry.Trace,
	config *config.Configuration,
	fluentdRepository *repository.LogRepository,
) *Logger {
	return &Logger{
		logger:            logger.Named("access"),
		trace:             trace,
		config:            config,
		fluentdRepository: fluentdRepository,
	}
}

// LoggerHandler 記錄每個請求的 method、path、狀態與耗時。body 可能含個資，不記錄內容，只記錄長度。
func (m *Logger) LoggerHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if skipPath(c.FullPath()) {
			c.Next()
			return
		}

		requestTime := time.Now().UTC()
		if startTime, exists := c.Get(ContextRequestStart); exists {
			if t, ok := startTime.(time.Time); ok {
				requestTime = t
			}
		}

		ctx, span, end := m.trace.WithSpan(m.trace.GetTraceContext(c), string(core.SpanLoggerMiddleware))
		traceID := span.SpanContext().TraceID()
		spanID := span.SpanContext().SpanID()

		headerMap := make(map[string]string, len(loggedHeaders))
		for _, k := range loggedHeaders {
			if v := c.GetHeader(k); v != "" {
				headerMap[strings.ToLower(k)] = v
			}
		}
		m.trace.ApplyTraceAttributes(span, core.LoggerRequestMeta{
			Method:     c.Request.Method,
			Path:       c.Request.URL.Path,
			FullPath:   c.FullPath(),
			Query:      c.Request.URL.RawQuery,
			Scheme:     c.Request.URL.Scheme,
			Host:       c.Request.Host,
			UserAgent:  c.Request.UserAgent(),
			ContentLen: c.Request.ContentLength,
			Proto:      c.Request.Proto,
			ClientIP:   c.ClientIP(),
			Headers:    headerMap,
		})
		end(nil)

		c.Next()

		status := c.Writer.Status()
		latency := time.Since(requestTime)
		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", status),
			zap.Duration("latency", latency),
			zap.String("client_ip", c.ClientIP()),
			zap.Any("headers", headerMap),
			zap.String("spanId", fmt.Sprintf("%x", spanID[:])),
			zap.String("traceId", fmt.Sprintf("%x", traceID[:])),
		}
		if q := c.Request.URL.RawQuery; q != "" {
			fields = append(fields, zap.String("query", q))
		}
		switch {
		case status >= 500:
			m.logger.Error("[Request] handled", fields...)
		case status >= 400:
			m.logger.Warn("[Request] handled", fields...)
		default:
			m.logger.Info("[Request] handled", fields...)
		}

		// Fluentd
		if err := m.fluentdRepository.LogRequest(ctx, model.RequestLog{
			RequestID: fmt.Sprintf("%x", traceID[:]),
			Method:    c.Request.Method,
			Path:      c.Request.URL.Path,
			Status:    status,
			RequestTS: requestTime.Format(core.LoggedAtLayout),
			BodyBytes: c.Request.ContentLength,
			IPHash:    hashIP(c.ClientIP()),
			UserAgent: c.Request.UserAgent(),
		}); err != nil {
			m.logger.Warn("fluentd request log failed", zap.Error(err))
		}
	}
}

func hashIP(ip string) string {
	sum := sha256.Sum256([]byte(ip))
	return base64.RawStdEncoding.EncodeToString(sum[:12])
}
