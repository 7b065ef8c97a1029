package core

// ─── Mirror Types ──────────────────────────────────────────────────────────────

// MirrorType 是 listener 寫入成功後的副本目的地
type MirrorType string

const (
	MirrorFluentd MirrorType = "fluentd"
	MirrorMongo   MirrorType = "mongo"
	MirrorRedis   MirrorType = "redis"
)

type FluentdSubTag string

// ─── Fluentd ───────────────────────────────────────────────────────────────────

const (
	FluentdRequest    FluentdSubTag = "request_log"
	FluentdSubmission FluentdSubTag = "submission_log"
)

// ─── Storage ───────────────────────────────────────────────────────────────────

// TimestampLayout 是 log document 的 key 格式（本地時間，微秒精度）
const TimestampLayout = "2006-01-02 15:04:05.000000"

// 寫入 fluentd / mongo 的時間欄位格式
const LoggedAtLayout = "2006-01-02 15:04:05.999999 UTC"
