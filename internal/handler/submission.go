package handler

import (
	"context"
	"errors"
	"io"
	"net/http"

	cErr "formrelay/internal/pkg/error"
	"formrelay/internal/pkg/response"
	"formrelay/internal/telemetry"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// UDP 單一 datagram 的 payload 上限
const maxDatagramPayload = 65507

// Sender 由 relay.Sender 實作
type Sender interface {
	Send(ctx context.Context, payload []byte) (int, error)
	Target() string
}

type SubmissionHandler struct {
	sender Sender
	trace  *telemetry.Trace
	logger *zap.Logger
}

func NewSubmissionHandler(sender Sender, trace *telemetry.Trace, logger *zap.Logger) *SubmissionHandler {
	return &SubmissionHandler{
		sender: sender,
		trace:  trace,
		logger: logger.Named("submission"),
	}
}

// Submit 任何路徑的 POST：讀取 Content-Length 指定的位元組，原樣轉送給 listener
// @Summary 送出表單
// @Tags Site
// @Accept application/x-www-form-urlencoded
// @Param body body string true "urlencoded form, e.g. name=Alice&msg=Hi"
// @Success 302 "Location: /"
// @Failure 400 {object} response.Response "Body shorter than Content-Length"
// @Failure 411 {object} response.Response "Missing Content-Length"
// @Failure 413 {object} response.Response "Body larger than a datagram"
// @Router /message [post]
func (h *SubmissionHandler) Submit(c *gin.Context) {
	ctx, span, end := h.trace.WithSpan(c)

	fail := func(err *cErr.Error) {
		end(err)
		response.AbortWithError(c, err)
	}

	length := c.Request.ContentLength
	span.SetAttributes(attribute.Int64("http.request_content_length", length))
	if length < 0 {
		fail(cErr.LengthRequired("Content-Length header is required"))
		return
	}
	if length > maxDatagramPayload {
		fail(cErr.PayloadTooLarge("body exceeds a single datagram"))
		return
	}

	body := make([]byte, length)
	if _, err := io.ReadFull(c.Request.Body, body); err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.EOF) {
			fail(cErr.IncompleteBody("body shorter than Content-Length"))
			return
		}
		fail(cErr.BadRequestBody(err.Error()))
		return
	}

	// 轉送失敗只記錄，使用者一律被導回首頁
	if _, err := h.sender.Send(ctx, body); err != nil {
		span.RecordError(err)
		h.logger.Warn("forward submission failed",
			zap.String("target", h.sender.Target()),
			zap.Int("bytes", len(body)),
			zap.Error(err),
		)
	}
	end(nil)
	c.Redirect(http.StatusFound, "/")
}
