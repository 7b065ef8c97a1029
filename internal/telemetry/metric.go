package telemetry

import (
	"formrelay/config"
	"formrelay/internal/core"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metric struct
type Metric struct {
	Registry *prometheus.Registry

	HttpRequestsTotal   *prometheus.CounterVec
	HttpRequestDuration *prometheus.HistogramVec

	// gateway → listener
	ForwardSuccessTotal  prometheus.Counter
	ForwardFailTotal     *prometheus.CounterVec
	ForwardOversizeTotal prometheus.Counter

	// listener
	DatagramsReceivedTotal prometheus.Counter
	SubmissionsStoredTotal prometheus.Counter
	DecodeErrorsTotal      prometheus.Counter
	StorageErrorsTotal     prometheus.Counter
	MirrorErrorsTotal      *prometheus.CounterVec

	enabled bool
}

// NewMetric 建立所有指標；每個實例都有自己的 registry，測試可重複建立
func NewMetric(conf *config.Configuration) *Metric {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	buckets := prometheus.DefBuckets
	prefix := "formrelay"
	enabled := false
	if conf != nil {
		if len(conf.Telemetry.Metric.Buckets) > 0 {
			buckets = conf.Telemetry.Metric.Buckets
		}
		if conf.App.Name != "" {
			prefix = conf.App.Name
		}
		enabled = conf.Telemetry.Metric.Enabled
	}
	if enabled {
		registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}
	name := func(n core.MetricName) string {
		return prefix + "_" + string(n)
	}

	return &Metric{
		Registry: registry,
		enabled:  enabled,
		HttpRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: name(core.MetricHttpRequestsTotal),
				Help: "Total received HTTP requests",
			},
			labelNames(core.MetricLabelEndpoint, core.MetricLabelStatus),
		),
		HttpRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    name(core.MetricHttpRequestDuration),
				Help:    "HTTP request duration (seconds)",
				Buckets: buckets,
			},
			labelNames(core.MetricLabelEndpoint),
		),
		ForwardSuccessTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: name(core.MetricForwardSuccessTotal),
			Help: "Submissions forwarded to the listener",
		}),
		ForwardFailTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: name(core.MetricForwardFailTotal),
				Help: "Submissions that could not be forwarded",
			},
			labelNames(core.MetricLabelReason),
		),
		ForwardOversizeTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: name(core.MetricForwardOversizeTotal),
			Help: "Submissions larger than the datagram limit",
		}),
		DatagramsReceivedTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: name(core.MetricDatagramsReceivedTotal),
			Help: "Datagrams received by the listener",
		}),
		SubmissionsStoredTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: name(core.MetricSubmissionsStoredTotal),
			Help: "Submissions appended to the log document",
		}),
		DecodeErrorsTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: name(core.MetricDecodeErrorsTotal),
			Help: "Datagrams rejected by the form decoder",
		}),
		StorageErrorsTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: name(core.MetricStorageErrorsTotal),
			Help: "Failed appends to the log document",
		}),
		MirrorErrorsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: name(core.MetricMirrorErrorsTotal),
				Help: "Failed mirror writes",
			},
			labelNames(core.MetricLabelMirror),
		),
	}
}

// Enabled 是否對外提供 /metrics
func (m *Metric) Enabled() bool {
	return m != nil && m.enabled
}

// labelNames helper: LabelName slice 轉成 []string
func labelNames(labels ...core.MetricLabelName) []string {
	strs := make([]string, len(labels))
	for i, l := range labels {
		strs[i] = string(l)
	}
	return strs
}
