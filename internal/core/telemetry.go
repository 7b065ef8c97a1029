package core

const ContextTraceKey = "telemetry_trace_ctx"

// ==== 型別安全 span name ====
// 專案全域建議都寫這裡，方便集中管理
type TraceSpanName string

const (
	SpanLoggerMiddleware   TraceSpanName = "logger_middleware"
	SpanRecoveryMiddleware TraceSpanName = "recovery_middleware"
	SpanCorsMiddleware     TraceSpanName = "cors_middleware"
	SpanRelaySend          TraceSpanName = "relay_send"
	SpanDatagram           TraceSpanName = "listener_datagram"
	SpanStorageAppend      TraceSpanName = "storage_append"
	SpanMirror             TraceSpanName = "submission_mirror"
)

// 指標名稱常數
type MetricName string

const (
	MetricHttpRequestsTotal      MetricName = "requests_total"
	MetricHttpRequestDuration    MetricName = "request_duration_seconds"
	MetricForwardSuccessTotal    MetricName = "forward_success_total"
	MetricForwardFailTotal       MetricName = "forward_fail_total"
	MetricForwardOversizeTotal   MetricName = "forward_oversize_total"
	MetricDatagramsReceivedTotal MetricName = "datagrams_received_total"
	MetricSubmissionsStoredTotal MetricName = "submissions_stored_total"
	MetricDecodeErrorsTotal      MetricName = "decode_errors_total"
	MetricStorageErrorsTotal     MetricName = "storage_errors_total"
	MetricMirrorErrorsTotal      MetricName = "mirror_errors_total"
)

// label name 常數
type MetricLabelName string

const (
	MetricLabelEndpoint MetricLabelName = "endpoint"
	MetricLabelStatus   MetricLabelName = "status"
	MetricLabelReason   MetricLabelName = "reason"
	MetricLabelMirror   MetricLabelName = "mirror"
)

type LoggerRequestMeta struct {
	Method     string            `trace:"request.method"`
	Path       string            `trace:"request.path"`
	FullPath   string            `trace:"request.full_path"`
	Query      string            `trace:"request.query"`
	Scheme     string            `trace:"http.scheme"`
	Host       string            `trace:"http.host"`
	UserAgent  string            `trace:"http.user_agent"`
	ContentLen int64             `trace:"http.request_content_length"`
	Proto      string            `trace:"http.flavor"`
	ClientIP   string            `trace:"net.peer.ip"`
	Headers    map[string]string `trace:"http.request.header"`
}

type TracePanicMeta struct {
	Path       string  `trace:"http.path"`
	Method     string  `trace:"http.method"`
	ClientIP   string  `trace:"net.peer.ip"`
	UserAgent  string  `trace:"http.user_agent"`
	DurationMs float64 `trace:"response.latency_ms"`
	Status     int     `trace:"http.status_code"`
	Message    string  `trace:"error.message"`
	Stack      string  `trace:"error.stack"`
}

type TraceErrorMeta struct {
	Code       int     `trace:"error.code"`
	Message    string  `trace:"error.message"`
	Detail     string  `trace:"error.detail"`
	Status     int     `trace:"http.status_code"`
	DurationMs float64 `trace:"response.latency_ms"`
}

type TraceHttpServerMeta struct {
	// request side
	ClientAddr        string `trace:"client.address"`
	HttpRequestMethod string `trace:"http.request.method"`
	HttpRoute         string `trace:"http.route"`
	UrlPath           string `trace:"http.request.path"`
	UrlScheme         string `trace:"http.request.url.scheme"`
	UserAgent         string `trace:"user_agent.original"`
	ServerAddress     string `trace:"server.address"`
	NetworkPeerAddr   string `trace:"network.peer.address"`
	NetworkPeerPort   int    `trace:"network.peer.port"`
	NetworkProtoVer   string `trace:"network.protocol.version"`
	SpanKind          string `trace:"span.kind"`
	SpanTraceID       string `trace:"span.trace_id"`
	HttpStatusCode    int    `trace:"http.response.status_code"`
}

// gateway 送出 datagram
type TraceRelayMeta struct {
	Target    string `trace:"relay.target"`
	BodyBytes int    `trace:"relay.body_bytes"`
	Sent      int    `trace:"relay.sent_bytes,omitempty"`
	Oversize  bool   `trace:"relay.oversize"`
}

// listener 處理單一 datagram
type TraceDatagramMeta struct {
	Peer        string  `trace:"net.peer.address"`
	Bytes       int     `trace:"datagram.bytes"`
	Fields      int     `trace:"submission.fields,omitempty"`
	Key         string  `trace:"storage.key,omitempty"`
	StoragePath string  `trace:"storage.path"`
	Error       *string `trace:"error,omitempty"`
}

type TraceMirrorMeta struct {
	Mirror string  `trace:"mirror.type"`
	Key    string  `trace:"storage.key"`
	Error  *string `trace:"error,omitempty"`
}
