package handler

import (
	"net/http"
	"runtime"
	"time"

	"formrelay/config"

	"github.com/gin-gonic/gin"
)

type RuntimeInfo struct {
	Env       string        `json:"env"`
	Name      string        `json:"name"`
	Version   string        `json:"version"`
	GoVersion string        `json:"go_version"`
	StartAt   time.Time     `json:"start_at"`
	Uptime    time.Duration `json:"uptime"`
}

type VersionHandler struct {
	info RuntimeInfo
}

func NewVersionHandler(conf *config.Configuration) *VersionHandler {
	return &VersionHandler{
		info: RuntimeInfo{
			Env:       conf.App.Env,
			Name:      conf.App.Name,
			Version:   conf.App.Version,
			GoVersion: runtime.Version(),
			StartAt:   time.Now(),
		},
	}
}

func (h *VersionHandler) Info() RuntimeInfo {
	info := h.info
	info.Uptime = time.Since(h.info.StartAt)
	return info
}

// Version
// @Summary 版本與執行資訊
// @Tags System
// @Produce application/json
// @Success 200 {object} RuntimeInfo
// @Router /version [get]
func (h *VersionHandler) Version(c *gin.Context) {
	c.JSON(http.StatusOK, h.Info())
}
