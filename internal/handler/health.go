package handler

import (
	cErr "formrelay/internal/pkg/error"
	"formrelay/internal/pkg/response"
	"formrelay/internal/service"

	"github.com/gin-gonic/gin"
)

type HealthHandler struct {
	healthStatus *service.HealthService
}

func NewHealthHandler(status *service.HealthService) *HealthHandler {
	return &HealthHandler{healthStatus: status}
}

// Liveness
// @Summary 存活檢查
// @Tags Health
// @Produce application/json
// @Success 200 {object} response.Response
// @Failure 503 {object} response.Response
// @Router /health-check/liveness [get]
func (h *HealthHandler) Liveness(c *gin.Context) {
	if !h.healthStatus.IsLive() {
		response.AbortWithError(c, cErr.ServiceUnavailable("process is shutting down"))
		return
	}
	response.Success(c, gin.H{"status": "alive"})
}

// Readiness listener 與 gateway 都啟動後才回 200
// @Summary 就緒檢查
// @Tags Health
// @Produce application/json
// @Success 200 {object} response.Response
// @Failure 503 {object} response.Response
// @Router /health-check/readiness [get]
func (h *HealthHandler) Readiness(c *gin.Context) {
	status := h.healthStatus.Status()
	if !h.healthStatus.IsReady() {
		response.AbortWithError(c, cErr.ServiceUnavailable("listener or gateway not running"))
		return
	}
	response.Success(c, status)
}
