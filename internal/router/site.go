package router

import (
	"net/http"

	"formrelay/internal/handler"
	cErr "formrelay/internal/pkg/error"
	"formrelay/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

type SiteRouter struct {
	siteHandler       *handler.SiteHandler
	submissionHandler *handler.SubmissionHandler
}

func NewSiteRouter(
	siteHandler *handler.SiteHandler,
	submissionHandler *handler.SubmissionHandler,
) *SiteRouter {
	return &SiteRouter{
		siteHandler:       siteHandler,
		submissionHandler: submissionHandler,
	}
}

var pageMethods = []string{http.MethodGet, http.MethodHead}

func (siteRouter *SiteRouter) RegisterRoutes(engine *gin.Engine) {
	engine.Match(pageMethods, "/", siteRouter.siteHandler.Home)
	engine.Match(pageMethods, "/message", siteRouter.siteHandler.Message)
	engine.POST("/", siteRouter.submissionHandler.Submit)
	engine.POST("/message", siteRouter.submissionHandler.Submit)

	// 其餘路徑：POST 一律視為表單送出，GET/HEAD 找靜態檔
	engine.NoRoute(siteRouter.dispatch)
}

func (siteRouter *SiteRouter) dispatch(c *gin.Context) {
	switch c.Request.Method {
	case http.MethodPost:
		siteRouter.submissionHandler.Submit(c)
	case http.MethodGet, http.MethodHead:
		siteRouter.siteHandler.Static(c)
	default:
		response.AbortWithError(c, cErr.MethodNotAllowed(c.Request.Method+" is not supported"))
	}
}
