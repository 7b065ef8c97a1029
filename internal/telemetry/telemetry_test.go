package telemetry

import (
	"context"
	"errors"
	"testing"

	"formrelay/config"
	"formrelay/internal/core"

	"go.opentelemetry.io/otel/attribute"
)

func TestPrettifyFuncName(t *testing.T) {
	tests := map[string]string{
		"formrelay/internal/handler.(*SubmissionHandler).Submit-fm":   "SubmissionHandler.Submit",
		"formrelay/internal/listener.(*Listener).serve.func1":         "Listener.serve",
		"formrelay/internal/service.(*SiteService[go.shape.int]).Get": "SiteService.Get",
		"main.main": "main",
	}
	for in, want := range tests {
		if got := prettifyFuncName(in); got != want {
			t.Errorf("prettifyFuncName(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestTraceAttributes(t *testing.T) {
	errMsg := "boom"
	meta := core.TraceDatagramMeta{
		Peer:        "127.0.0.1:1234",
		Bytes:       10,
		StoragePath: "storage/data.json",
		Error:       &errMsg,
	}
	attrs := traceAttributes(&meta)

	got := map[attribute.Key]attribute.Value{}
	for _, a := range attrs {
		got[a.Key] = a.Value
	}
	if got["net.peer.address"].AsString() != "127.0.0.1:1234" {
		t.Errorf("peer attribute = %v", got["net.peer.address"])
	}
	if got["datagram.bytes"].AsInt64() != 10 {
		t.Errorf("bytes attribute = %v", got["datagram.bytes"])
	}
	if got["error"].AsString() != "boom" {
		t.Errorf("error attribute = %v", got["error"])
	}
	// omitempty 欄位為零值時略過
	if _, ok := got["storage.key"]; ok {
		t.Error("empty storage.key should be omitted")
	}
	if _, ok := got["submission.fields"]; ok {
		t.Error("zero submission.fields should be omitted")
	}
}

func TestNoopTrace(t *testing.T) {
	tr, cleanup, err := NewTrace(config.Default())
	if err != nil {
		t.Fatalf("NewTrace: %v", err)
	}
	defer cleanup()

	ctx, span, end := tr.WithSpan(context.Background(), string(core.SpanDatagram))
	if ctx == nil || span == nil {
		t.Fatal("expected non-nil ctx and span")
	}
	tr.ApplyTraceAttributes(span, core.TraceMirrorMeta{Mirror: "redis"})
	end(errors.New("ignored by noop span"))
}

func TestNewMetric(t *testing.T) {
	conf := config.Default()
	m := NewMetric(conf)
	if !m.Enabled() {
		t.Fatal("metrics enabled by default")
	}
	m.DatagramsReceivedTotal.Inc()
	m.DatagramsReceivedTotal.Inc()
	if got := counterValue(t, m, "formrelay_datagrams_received_total"); got != 2 {
		t.Errorf("received = %v, want 2", got)
	}

	// 每個實例有獨立 registry，重複建立不會 panic
	conf.Telemetry.Metric.Enabled = false
	other := NewMetric(conf)
	if other.Enabled() {
		t.Error("metrics should report disabled")
	}
	if got := counterValue(t, other, "formrelay_datagrams_received_total"); got != 0 {
		t.Errorf("fresh registry counter = %v", got)
	}
}

func counterValue(t *testing.T, m *Metric, name string) float64 {
	t.Helper()
	families, err := m.Registry.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	for _, mf := range families {
		if mf.GetName() == name && len(mf.GetMetric()) > 0 {
			return mf.GetMetric()[0].GetCounter().GetValue()
		}
	}
	return 0
}
