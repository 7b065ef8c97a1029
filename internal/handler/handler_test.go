package handler

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"formrelay/config"
	"formrelay/internal/middleware"
	"formrelay/internal/service"
	"formrelay/internal/telemetry"

	"github.com/andybalholm/brotli"
	"github.com/gin-gonic/gin"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"go.uber.org/zap/zaptest"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeSender struct {
	payloads [][]byte
	err      error
}

func (s *fakeSender) Send(_ context.Context, payload []byte) (int, error) {
	s.payloads = append(s.payloads, append([]byte(nil), payload...))
	if s.err != nil {
		return 0, s.err
	}
	return len(payload), nil
}

func (s *fakeSender) Target() string { return "127.0.0.1:5000" }

func noopTrace(t *testing.T) *telemetry.Trace {
	t.Helper()
	tr, cleanup, err := telemetry.NewTrace(nil)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(cleanup)
	return tr
}

func newSubmitEngine(t *testing.T, sender Sender) *gin.Engine {
	t.Helper()
	logger := zaptest.NewLogger(t)
	tr := noopTrace(t)
	h := NewSubmissionHandler(sender, tr, logger)

	r := gin.New()
	r.Use(middleware.NewRecovery(logger, tr).ErrorHandler())
	r.POST("/message", h.Submit)
	return r
}

func TestSubmitForwardsBody(t *testing.T) {
	sender := &fakeSender{}
	r := newSubmitEngine(t, sender)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/message", strings.NewReader("name=Alice&msg=Hi"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusFound || w.Header().Get("Location") != "/" {
		t.Fatalf("status = %d location = %q", w.Code, w.Header().Get("Location"))
	}
	if len(sender.payloads) != 1 || string(sender.payloads[0]) != "name=Alice&msg=Hi" {
		t.Fatalf("payloads = %q", sender.payloads)
	}
}

func TestSubmitRedirectsWhenSendFails(t *testing.T) {
	sender := &fakeSender{err: errors.New("connection refused")}
	r := newSubmitEngine(t, sender)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/message", strings.NewReader("a=1")))

	if w.Code != http.StatusFound {
		t.Fatalf("status = %d", w.Code)
	}
}

func TestSubmitRejects(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		length int64
		status int
	}{
		{"missing content length", "a=1", -1, http.StatusLengthRequired},
		{"short body", "a=1", 10, http.StatusBadRequest},
		{"larger than datagram", "", maxDatagramPayload + 1, http.StatusRequestEntityTooLarge},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sender := &fakeSender{}
			r := newSubmitEngine(t, sender)

			req := httptest.NewRequest(http.MethodPost, "/message", strings.NewReader(tt.body))
			req.ContentLength = tt.length
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != tt.status {
				t.Fatalf("status = %d, want %d (%s)", w.Code, tt.status, w.Body.String())
			}
			if len(sender.payloads) != 0 {
				t.Fatalf("nothing should be forwarded, got %q", sender.payloads)
			}
		})
	}
}

func TestSubmitEmptyBody(t *testing.T) {
	sender := &fakeSender{}
	r := newSubmitEngine(t, sender)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/message", strings.NewReader("")))

	if w.Code != http.StatusFound {
		t.Fatalf("status = %d", w.Code)
	}
	if len(sender.payloads) != 1 || len(sender.payloads[0]) != 0 {
		t.Fatalf("payloads = %q", sender.payloads)
	}
}

var testPage = "<!DOCTYPE html><html><body>" + strings.Repeat("<p>hello form relay</p>", 40) + "</body></html>"

func newSiteHandler(t *testing.T, compress bool) *SiteHandler {
	t.Helper()
	dir := t.TempDir()
	for name, body := range map[string]string{
		"index.html":   testPage,
		"message.html": "<form method=\"post\" action=\"/message\"></form>",
		"error.html":   "<h1>not here</h1>",
		"app.css":      "body{}",
	} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	conf := config.Default()
	conf.Site.Root = dir
	conf.Gateway.Compression = compress
	logger := zaptest.NewLogger(t)
	site, cleanup, err := service.NewSiteService(conf, service.NewRegistry(conf), logger)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(cleanup)
	return NewSiteHandler(conf, site, noopTrace(t), logger)
}

func serveSite(h *SiteHandler, req *http.Request) *httptest.ResponseRecorder {
	r := gin.New()
	r.GET("/", h.Home)
	r.GET("/message", h.Message)
	r.NoRoute(h.Static)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestSitePages(t *testing.T) {
	h := newSiteHandler(t, false)

	tests := []struct {
		path   string
		status int
		ctype  string
		body   string
	}{
		{"/", http.StatusOK, service.ContentTypeHTML, testPage},
		{"/message", http.StatusOK, service.ContentTypeHTML, "<form method=\"post\" action=\"/message\"></form>"},
		{"/app.css", http.StatusOK, "text/css", "body{}"},
		{"/does-not-exist-xyz", http.StatusNotFound, service.ContentTypeHTML, "<h1>not here</h1>"},
		{"/../index.html", http.StatusNotFound, service.ContentTypeHTML, "<h1>not here</h1>"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			w := serveSite(h, httptest.NewRequest(http.MethodGet, tt.path, nil))
			if w.Code != tt.status {
				t.Fatalf("status = %d, want %d", w.Code, tt.status)
			}
			if !strings.HasPrefix(w.Header().Get("Content-Type"), tt.ctype) {
				t.Fatalf("content-type = %q, want %q", w.Header().Get("Content-Type"), tt.ctype)
			}
			if w.Body.String() != tt.body {
				t.Fatalf("body = %q", w.Body.String())
			}
		})
	}
}

func TestSiteLastModified(t *testing.T) {
	h := newSiteHandler(t, false)
	w := serveSite(h, httptest.NewRequest(http.MethodGet, "/", nil))
	if _, err := http.ParseTime(w.Header().Get("Last-Modified")); err != nil {
		t.Fatalf("Last-Modified %q: %v", w.Header().Get("Last-Modified"), err)
	}
}

func TestSiteCompression(t *testing.T) {
	h := newSiteHandler(t, true)

	decoders := map[string]func(io.Reader) (io.Reader, error){
		"br": func(r io.Reader) (io.Reader, error) { return brotli.NewReader(r), nil },
		"zstd": func(r io.Reader) (io.Reader, error) {
			d, err := zstd.NewReader(r)
			if err != nil {
				return nil, err
			}
			return d.IOReadCloser(), nil
		},
		"gzip": func(r io.Reader) (io.Reader, error) { return gzip.NewReader(r) },
	}
	for enc, decode := range decoders {
		t.Run(enc, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.Header.Set("Accept-Encoding", enc)
			w := serveSite(h, req)

			if got := w.Header().Get("Content-Encoding"); got != enc {
				t.Fatalf("Content-Encoding = %q, want %q", got, enc)
			}
			if w.Header().Get("Vary") != "Accept-Encoding" {
				t.Fatalf("Vary = %q", w.Header().Get("Vary"))
			}
			rd, err := decode(bytes.NewReader(w.Body.Bytes()))
			if err != nil {
				t.Fatal(err)
			}
			plain, err := io.ReadAll(rd)
			if err != nil {
				t.Fatal(err)
			}
			if string(plain) != testPage {
				t.Fatal("decoded body differs from page")
			}
		})
	}

	// 小檔不壓縮
	req := httptest.NewRequest(http.MethodGet, "/app.css", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	if w := serveSite(h, req); w.Header().Get("Content-Encoding") != "" {
		t.Fatalf("small asset compressed with %q", w.Header().Get("Content-Encoding"))
	}
}

func TestNegotiateEncoding(t *testing.T) {
	tests := map[string]string{
		"":                      "",
		"identity":              "",
		"gzip":                  "gzip",
		"gzip, br":              "br",
		"gzip, zstd":            "zstd",
		"br;q=0.5, gzip;q=0.9":  "gzip",
		"br;q=0, gzip":          "gzip",
		"*":                     "br",
		"*;q=0.1, gzip;q=0.2":   "gzip",
		"deflate, compress":     "",
		"GZIP":                  "gzip",
		" br ; q=1 , zstd;q=1 ": "br",
	}
	for header, want := range tests {
		if got := negotiateEncoding(header); got != want {
			t.Errorf("negotiateEncoding(%q) = %q, want %q", header, got, want)
		}
	}
}

func TestCompressible(t *testing.T) {
	if compressible("image/png", 4096) {
		t.Error("png should not be compressed")
	}
	if !compressible("text/html; charset=utf-8", 4096) {
		t.Error("html should be compressed")
	}
	if compressible("text/html", 10) {
		t.Error("tiny body should not be compressed")
	}
}
