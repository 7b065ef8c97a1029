package handler

import (
	"errors"
	"net/http"

	"formrelay/config"
	"formrelay/internal/service"
	"formrelay/internal/telemetry"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// 連 error page 都讀不到時的最後手段
var fallbackNotFound = []byte("<!DOCTYPE html><html><body><h1>404 Not Found</h1></body></html>")

type SiteHandler struct {
	site     *service.SiteService
	trace    *telemetry.Trace
	logger   *zap.Logger
	compress bool
}

func NewSiteHandler(
	conf *config.Configuration,
	site *service.SiteService,
	trace *telemetry.Trace,
	logger *zap.Logger,
) *SiteHandler {
	return &SiteHandler{
		site:     site,
		trace:    trace,
		logger:   logger.Named("site"),
		compress: conf.Gateway.Compression,
	}
}

// Home
// @Summary 首頁
// @Tags Site
// @Produce text/html
// @Success 200 {string} string "index.html"
// @Router / [get]
func (h *SiteHandler) Home(c *gin.Context) {
	h.page(c, service.PageHome)
}

// Message
// @Summary 留言表單
// @Tags Site
// @Produce text/html
// @Success 200 {string} string "message.html"
// @Router /message [get]
func (h *SiteHandler) Message(c *gin.Context) {
	h.page(c, service.PageMessage)
}

// Static 其餘 GET：site root 內的一般檔案，否則回 404 頁面
func (h *SiteHandler) Static(c *gin.Context) {
	_, span, end := h.trace.WithSpan(c)
	asset, err := h.site.Static(c.Request.URL.Path)
	if err != nil {
		if !errors.Is(err, service.ErrNotFound) {
			h.logger.Error("read static file failed", zap.String("path", c.Request.URL.Path), zap.Error(err))
			span.RecordError(err)
		}
		end(nil)
		h.NotFound(c)
		return
	}
	end(nil)
	h.write(c, http.StatusOK, asset)
}

func (h *SiteHandler) NotFound(c *gin.Context) {
	asset, err := h.site.Page(service.PageNotFound)
	if err != nil {
		h.logger.Warn("not found page unavailable", zap.Error(err))
		c.Data(http.StatusNotFound, service.ContentTypeHTML, fallbackNotFound)
		c.Abort()
		return
	}
	h.write(c, http.StatusNotFound, asset)
	c.Abort()
}

func (h *SiteHandler) page(c *gin.Context, page service.Page) {
	asset, err := h.site.Page(page)
	if err != nil {
		h.logger.Error("page unavailable", zap.String("page", string(page)), zap.Error(err))
		h.NotFound(c)
		return
	}
	h.write(c, http.StatusOK, asset)
}

func (h *SiteHandler) write(c *gin.Context, status int, asset *service.Asset) {
	body := asset.Body
	if !asset.ModTime.IsZero() {
		c.Header("Last-Modified", asset.ModTime.UTC().Format(http.TimeFormat))
	}
	if h.compress && compressible(asset.ContentType, len(body)) {
		c.Header("Vary", "Accept-Encoding")
		if enc := negotiateEncoding(c.GetHeader("Accept-Encoding")); enc != "" {
			encoded, err := encode(enc, body)
			if err == nil {
				c.Header("Content-Encoding", enc)
				body = encoded
			} else {
				h.logger.Warn("compress response failed", zap.String("encoding", enc), zap.Error(err))
			}
		}
	}
	c.Data(status, asset.ContentType, body)
}
