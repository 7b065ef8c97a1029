package middleware

import (
	"encoding/base64"
	"fmt"
	"net/http"
	"runtime/debug"
	"time"
	"unicode/utf8"

	"formrelay/internal/core"
	cErr "formrelay/internal/pkg/error"
	res "formrelay/internal/pkg/response"
	"formrelay/internal/telemetry"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Recovery struct {
	logger *zap.Logger
	trace  *telemetry.Trace
}

func NewRecovery(logger *zap.Logger, trace *telemetry.Trace) *Recovery {
	return &Recovery{
		logger: logger,
		trace:  trace,
	}
}

func newRequestID() string {
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	return id.String()
}

func (middleware *Recovery) ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestTime := time.Now()
		if startTime, exists := c.Get(ContextRequestStart); exists {
			if t, ok := startTime.(time.Time); ok {
				requestTime = t
			}
		}
		requestID := newRequestID()
		c.Header(res.HeaderRequestID, requestID)

		// ---- panic recover 必須在 c.Next() 之前註冊 ----
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			duration := time.Since(requestTime)
			_, span, end := middleware.trace.WithSpan(middleware.trace.GetTraceContext(c), string(core.SpanRecoveryMiddleware))

			meta := core.TracePanicMeta{
				Path:       c.Request.URL.Path,
				Method:     c.Request.Method,
				ClientIP:   c.ClientIP(),
				UserAgent:  c.Request.UserAgent(),
				DurationMs: float64(duration.Milliseconds()),
				Message:    toSafeString(fmt.Sprint(rec)),
				Stack:      toSafeStack(debug.Stack()),
				Status:     http.StatusInternalServerError,
			}
			middleware.trace.ApplyTraceAttributes(span, meta)

			middleware.logger.Error("[PANIC] Recovered",
				zap.String("path", meta.Path),
				zap.String("method", meta.Method),
				zap.String("client_ip", meta.ClientIP),
				zap.Duration("duration", duration),
				zap.String("panic", meta.Message),
				zap.String("stacktrace", meta.Stack),
				zap.String("requestId", requestID),
			)

			err := cErr.InternalServer("unexpected panic")
			end(err)
			// 尚未回寫才輸出
			if !c.Writer.Written() {
				res.FailByErr(c, requestID, err)
			}
			c.Abort()
		}()

		// 執行下游
		c.Next()

		// ---- 統一處理非 panic 的 gin errors（若尚未回寫）----
		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		duration := time.Since(requestTime)
		_, span, end := middleware.trace.WithSpan(middleware.trace.GetTraceContext(c), string(core.SpanRecoveryMiddleware))

		// 找第一個 *cErr.Error
		for _, e := range c.Errors {
			appErr, ok := e.Err.(*cErr.Error)
			if !ok {
				continue
			}
			middleware.trace.ApplyTraceAttributes(span, core.TraceErrorMeta{
				Code:       appErr.ErrorCode(),
				Message:    appErr.Error(),
				Detail:     appErr.ErrorDesc(),
				DurationMs: float64(duration.Milliseconds()),
				Status:     appErr.HttpCode(),
			})
			middleware.logger.Warn(appErr.Error(),
				zap.Int("code", appErr.ErrorCode()),
				zap.String("data", appErr.ErrorDesc()),
				zap.Duration("duration", duration),
				zap.String("requestId", requestID),
			)
			end(appErr)
			res.FailByErr(c, requestID, appErr)
			return
		}

		// 其餘未知錯誤
		unknown := c.Errors.String()
		middleware.trace.ApplyTraceAttributes(span, core.TraceErrorMeta{
			Code:       cErr.INTERNAL_ERROR,
			Message:    "unknown-error",
			Detail:     toSafeString(unknown),
			DurationMs: float64(duration.Milliseconds()),
			Status:     http.StatusInternalServerError,
		})
		middleware.logger.Warn("[ERROR] unknown",
			zap.String("error", unknown),
			zap.Duration("duration", duration),
			zap.String("requestId", requestID),
		)
		end(c.Errors.Last().Err)
		res.Fail(c, requestID, http.StatusInternalServerError, cErr.INTERNAL_ERROR, "unknown-error", unknown)
	}
}

// ---- helpers ----

func toSafeString(s string) string {
	const max = 8000
	if utf8.ValidString(s) {
		if len(s) > max {
			return s[:max] + "…"
		}
		return s
	}
	b := []byte(s)
	if len(b) > max {
		b = b[:max]
	}
	return "b64:" + base64.StdEncoding.EncodeToString(b)
}

func toSafeStack(b []byte) string {
	const max = 16000
	if utf8.Valid(b) {
		if len(b) > max {
			return string(b[:max]) + "…"
		}
		return string(b)
	}
	if len(b) > max {
		b = b[:max]
	}
	return "b64:" + base64.StdEncoding.EncodeToString(b)
}
