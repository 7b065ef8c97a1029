package middleware

import (
	"strings"

	"github.com/google/wire"
)

var ProviderSet = wire.NewSet(
	NewCors,
	NewLogger,
	NewRecovery,
	NewTraceEntry,
)

const ContextRequestStart = "requestDuration"

// 系統路由不做 tracing 與存取紀錄
func skipPath(endpoint string) bool {
	return strings.HasPrefix(endpoint, "/swagger") ||
		strings.HasPrefix(endpoint, "/metrics") ||
		strings.HasPrefix(endpoint, "/version") ||
		strings.HasPrefix(endpoint, "/health-check") ||
		strings.HasPrefix(endpoint, "/debug/pprof")
}
