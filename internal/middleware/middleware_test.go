package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"formrelay/config"
	cErr "formrelay/internal/pkg/error"
	"formrelay/internal/pkg/response"
	"formrelay/internal/telemetry"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newEngine(t *testing.T) (*gin.Engine, *observer.ObservedLogs, *telemetry.Metric) {
	t.Helper()
	core, logs := observer.New(zap.DebugLevel)
	logger := zap.New(core)
	tr, cleanup, err := telemetry.NewTrace(nil)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(cleanup)
	conf := config.Default()
	metric := telemetry.NewMetric(conf)

	r := gin.New()
	r.Use(NewTraceEntry(tr, metric, conf).Handler())
	r.Use(NewRecovery(logger, tr).ErrorHandler())
	return r, logs, metric
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) response.Response {
	t.Helper()
	var body response.Response
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode %q: %v", w.Body.String(), err)
	}
	return body
}

func TestRecoveryRendersAppError(t *testing.T) {
	r, logs, _ := newEngine(t)
	r.POST("/submit", func(c *gin.Context) {
		response.AbortWithError(c, cErr.LengthRequired("Content-Length header is required"))
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/submit", nil))

	if w.Code != http.StatusLengthRequired {
		t.Fatalf("status = %d", w.Code)
	}
	body := decodeEnvelope(t, w)
	if body.Code != cErr.LENGTH_REQUIRED || body.Message != "length-required" || body.RequestID == "" {
		t.Errorf("envelope = %+v", body)
	}
	if w.Header().Get("X-Request-Id") != body.RequestID {
		t.Errorf("X-Request-Id %q != %q", w.Header().Get("X-Request-Id"), body.RequestID)
	}
	if logs.FilterMessage("length-required").Len() != 1 {
		t.Errorf("expected warning log, got %v", logs.All())
	}
}

func TestRecoveryHandlesPanic(t *testing.T) {
	r, logs, _ := newEngine(t)
	r.GET("/boom", func(c *gin.Context) {
		panic("boom")
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", w.Code)
	}
	if body := decodeEnvelope(t, w); body.Code != cErr.INTERNAL_ERROR {
		t.Errorf("envelope = %+v", body)
	}
	if logs.FilterMessage("[PANIC] Recovered").Len() != 1 {
		t.Error("expected panic log")
	}
}

func TestRecoveryUnknownError(t *testing.T) {
	r, _, _ := newEngine(t)
	r.GET("/plain", func(c *gin.Context) {
		_ = c.Error(http.ErrBodyNotAllowed)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/plain", nil))
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", w.Code)
	}
	if body := decodeEnvelope(t, w); body.Message != "unknown-error" {
		t.Errorf("envelope = %+v", body)
	}
}

func TestTraceEntryCountsRequests(t *testing.T) {
	r, _, metric := newEngine(t)
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, "ok") })

	for i := 0; i < 3; i++ {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	}
	families, err := metric.Registry.Gather()
	if err != nil {
		t.Fatal(err)
	}
	var total float64
	for _, mf := range families {
		if mf.GetName() == "formrelay_requests_total" {
			for _, m := range mf.GetMetric() {
				total += m.GetCounter().GetValue()
			}
		}
	}
	if total != 3 {
		t.Errorf("requests_total = %v, want 3", total)
	}
}

func TestCorsConfig(t *testing.T) {
	all := corsConfig([]string{"*"})
	if !all.AllowAllOrigins || all.AllowCredentials || len(all.AllowOrigins) != 0 {
		t.Errorf("wildcard config = %+v", all)
	}
	if empty := corsConfig(nil); !empty.AllowAllOrigins {
		t.Error("empty origins should allow all")
	}
	listed := corsConfig([]string{"https://example.com"})
	if listed.AllowAllOrigins || !listed.AllowCredentials || listed.AllowOrigins[0] != "https://example.com" {
		t.Errorf("listed config = %+v", listed)
	}
}

func TestSkipPath(t *testing.T) {
	for _, p := range []string{"/metrics", "/version", "/health-check/liveness", "/swagger/*any", "/debug/pprof/"} {
		if !skipPath(p) {
			t.Errorf("skipPath(%q) = false", p)
		}
	}
	for _, p := range []string{"/", "/message", ""} {
		if skipPath(p) {
			t.Errorf("skipPath(%q) = true", p)
		}
	}
}
