package middleware

import (
	"formrelay/config"
	"formrelay/internal/core"
	"formrelay/internal/telemetry"
	"slices"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type Cors struct {
	trace *telemetry.Trace
	cfg   cors.Config
}

func NewCors(trace *telemetry.Trace, conf *config.Configuration) *Cors {
	return &Cors{trace: trace, cfg: corsConfig(conf.Gateway.CorsOrigins)}
}

// 空清單或含 "*" 時允許全部來源（此時不可帶 credentials）
func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods: []string{"GET", "HEAD", "POST"},
		AllowHeaders: []string{"Content-Type", "Content-Length"},
	}
	if len(origins) == 0 || slices.Contains(origins, "*") {
		cfg.AllowAllOrigins = true
		return cfg
	}
	cfg.AllowOrigins = origins
	cfg.AllowCredentials = true
	return cfg
}

// CorsHandler 設定 CORS，並以 WithSpan 紀錄設定（跳過特定路徑的 tracing，但仍套用 CORS）
func (m *Cors) CorsHandler() gin.HandlerFunc {
	corsHandler := cors.New(m.cfg)

	type corsMeta struct {
		AllowAll     bool     `trace:"http.cors.allow_all"`
		AllowOrigins []string `trace:"http.cors.allow_origins,omitempty"`
		AllowMethods []string `trace:"http.cors.allow_methods"`
		AllowCreds   bool     `trace:"http.cors.allow_credentials"`
	}

	return func(c *gin.Context) {
		// 這些路徑：不做 tracing，但仍需套用 CORS（避免 preflight 失敗）
		if skipPath(c.FullPath()) {
			corsHandler(c)
			return
		}

		_, span, end := m.trace.WithSpan(m.trace.GetTraceContext(c), string(core.SpanCorsMiddleware))
		m.trace.ApplyTraceAttributes(span, corsMeta{
			AllowAll:     m.cfg.AllowAllOrigins,
			AllowOrigins: m.cfg.AllowOrigins,
			AllowMethods: m.cfg.AllowMethods,
			AllowCreds:   m.cfg.AllowCredentials,
		})
		end(nil)

		// 執行實際的 CORS middleware（其內部會呼叫 c.Next()）
		corsHandler(c)
	}
}
