package router

import (
	docs "formrelay/cmd/docs"
	"formrelay/config"
	"formrelay/internal/middleware"
	"formrelay/internal/telemetry"

	"github.com/gin-contrib/pprof"
	"github.com/gin-gonic/gin"
	"github.com/google/wire"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

var ProviderSet = wire.NewSet(
	NewRouter,
	NewSiteRouter,
	NewHealthRouter,
)

// 透過依賴注入將 middleware 與各 router 組成 gin.Engine
func NewRouter(
	config *config.Configuration,
	metric *telemetry.Metric,
	traceEntry *middleware.TraceEntry,
	recovery *middleware.Recovery,
	cors *middleware.Cors,
	logger *middleware.Logger,
	siteRouter *SiteRouter,
	healthRouter *HealthRouter,
) *gin.Engine {

	switch config.App.Env {
	case "production":
		gin.SetMode(gin.ReleaseMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.DebugMode)
	}
	router := gin.New()
	// 任何路徑的 POST 都要轉送，結尾斜線不做轉址
	router.RedirectTrailingSlash = false
	router.Use(traceEntry.Handler())
	router.Use(logger.LoggerHandler())
	router.Use(cors.CorsHandler())
	router.Use(recovery.ErrorHandler())
	router.Use(func(c *gin.Context) {
		if v := config.App.Version; v != "" {
			c.Header("X-App-Version", v)
		}
		c.Next()
	})

	healthRouter.RegisterRoutes(router)

	if metric.Enabled() {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(metric.Registry, promhttp.HandlerOpts{
			Registry: metric.Registry,
		})))
	}

	if config.App.SwaggerEnabled {
		router.GET("/swagger/*any", func(c *gin.Context) {
			docs.SwaggerInfo.Host = c.Request.Host
			if config.App.Env == "production" {
				docs.SwaggerInfo.Schemes = []string{"https"}
			}
		}, ginSwagger.WrapHandler(swaggerFiles.Handler))
	}
	if config.App.PprofEnabled {
		pprof.Register(router)
	}

	siteRouter.RegisterRoutes(router)
	return router
}
