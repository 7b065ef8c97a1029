package listener

import (
	"context"
	"errors"
	"net"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"formrelay/config"
	"formrelay/internal/listener/internal/storage"
	"formrelay/internal/submission"
	"formrelay/internal/telemetry"

	"github.com/goccy/go-json"
	"go.uber.org/zap/zaptest"
)

type recordingMirror struct {
	mu      sync.Mutex
	name    string
	err     error
	entries []submission.Entry
}

func (m *recordingMirror) Name() string { return m.name }

func (m *recordingMirror) Mirror(_ context.Context, entry submission.Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, entry)
	return m.err
}

func (m *recordingMirror) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

func tickingClock() func() time.Time {
	var mu sync.Mutex
	cur := time.Date(2024, 1, 1, 12, 0, 0, 0, time.Local)
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		cur = cur.Add(time.Microsecond)
		return cur
	}
}

func startListener(t *testing.T, mirrors submission.Mirrors) (*Listener, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "storage", "data.json")
	tr, cleanup, err := telemetry.NewTrace(nil)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(cleanup)

	l := newListener(Config{
		Address:         "127.0.0.1:0",
		MaxDatagramSize: 1024,
		StoragePath:     path,
		MirrorTimeout:   time.Second,
	}, zaptest.NewLogger(t), tr, telemetry.NewMetric(config.Default()), mirrors, storage.WithClock(tickingClock()))

	if err := l.Prepare(); err != nil {
		t.Fatalf("Prepare: %v", err)
	}
	if err := l.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	t.Cleanup(func() { _ = l.Stop() })
	return l, path
}

func send(t *testing.T, addr net.Addr, payload string) {
	t.Helper()
	conn, err := net.Dial("udp", addr.String())
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()
	if _, err := conn.Write([]byte(payload)); err != nil {
		t.Fatalf("write: %v", err)
	}
}

// waitFor 等待 listener 處理完指定數量的 datagram
func waitFor(t *testing.T, l *Listener, received uint64) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if l.Stats().Received >= received {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %d datagrams, stats %+v", received, l.Stats())
}

func readDoc(t *testing.T, path string) map[string]submission.Record {
	t.Helper()
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var doc map[string]submission.Record
	if err := json.Unmarshal(raw, &doc); err != nil {
		t.Fatalf("unmarshal %q: %v", raw, err)
	}
	return doc
}

func TestListenerStoresEachDatagram(t *testing.T) {
	l, path := startListener(t, nil)

	const n = 10
	for i := 0; i < n; i++ {
		send(t, l.Addr(), "name=Alice&msg=Hi")
		// 依序送出，避免 loopback 緩衝區重排或丟包
		waitFor(t, l, uint64(i+1))
	}
	if err := l.Stop(); err != nil {
		t.Fatalf("Stop: %v", err)
	}

	doc := readDoc(t, path)
	if len(doc) != n {
		t.Fatalf("entries = %d, want %d", len(doc), n)
	}
	for key, rec := range doc {
		if rec["name"] != "Alice" || rec["msg"] != "Hi" {
			t.Errorf("entry %s = %v", key, rec)
		}
	}
	if s := l.Stats(); s.Stored != n || s.DecodeErrors != 0 {
		t.Errorf("stats = %+v", s)
	}
}

func TestListenerSkipsMalformedDatagram(t *testing.T) {
	l, path := startListener(t, nil)

	send(t, l.Addr(), "broken")
	waitFor(t, l, 1)
	send(t, l.Addr(), "a=b=c")
	waitFor(t, l, 2)
	send(t, l.Addr(), "name=Bob")
	waitFor(t, l, 3)
	_ = l.Stop()

	s := l.Stats()
	if s.DecodeErrors != 2 || s.Stored != 1 {
		t.Errorf("stats = %+v", s)
	}
	doc := readDoc(t, path)
	if len(doc) != 1 {
		t.Fatalf("doc = %v", doc)
	}
	for _, rec := range doc {
		if rec["name"] != "Bob" {
			t.Errorf("record = %v", rec)
		}
	}
}

func TestListenerTruncatesOversizeDatagram(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.json")
	tr, _, _ := telemetry.NewTrace(nil)
	l := newListener(Config{
		Address:         "127.0.0.1:0",
		MaxDatagramSize: 8,
		StoragePath:     path,
	}, zaptest.NewLogger(t), tr, telemetry.NewMetric(nil), nil)
	if err := l.Start(); err != nil {
		t.Fatal(err)
	}
	defer l.Stop()

	send(t, l.Addr(), "msg=abcdefghijkl")
	waitFor(t, l, 1)
	_ = l.Stop()

	doc := readDoc(t, path)
	for _, rec := range doc {
		if rec["msg"] != "abcd" {
			t.Errorf("truncated record = %v, want msg=abcd", rec)
		}
	}
}

func TestListenerMirrors(t *testing.T) {
	ok := &recordingMirror{name: "ok"}
	failing := &recordingMirror{name: "failing", err: errors.New("unavailable")}
	l, path := startListener(t, submission.Mirrors{failing, ok})

	send(t, l.Addr(), "name=Carol")
	waitFor(t, l, 1)
	_ = l.Stop()

	if ok.count() != 1 || failing.count() != 1 {
		t.Fatalf("mirror calls: ok=%d failing=%d", ok.count(), failing.count())
	}
	if got := ok.entries[0].Record["name"]; got != "Carol" {
		t.Errorf("mirrored record = %v", ok.entries[0].Record)
	}
	if _, exists := readDoc(t, path)[ok.entries[0].Key]; !exists {
		t.Errorf("mirrored key %q not in document", ok.entries[0].Key)
	}
	if s := l.Stats(); s.MirrorErrors != 1 || s.Stored != 1 {
		t.Errorf("stats = %+v", s)
	}
}

func TestListenerStartBindError(t *testing.T) {
	l, _ := startListener(t, nil)

	tr, _, _ := telemetry.NewTrace(nil)
	other := NewListener(Config{
		Address:     l.Addr().String(),
		StoragePath: filepath.Join(t.TempDir(), "data.json"),
	}, zaptest.NewLogger(t), tr, telemetry.NewMetric(nil), nil)
	if err := other.Start(); err == nil {
		_ = other.Stop()
		t.Fatal("expected bind error on an address in use")
	}
}

func TestStopBeforeStart(t *testing.T) {
	tr, _, _ := telemetry.NewTrace(nil)
	l := NewListener(Config{StoragePath: "unused"}, zaptest.NewLogger(t), tr, telemetry.NewMetric(nil), nil)
	if err := l.Stop(); !errors.Is(err, ErrNotStarted) {
		t.Errorf("Stop = %v, want ErrNotStarted", err)
	}
}

func TestStopIsIdempotent(t *testing.T) {
	l, _ := startListener(t, nil)
	if err := l.Stop(); err != nil {
		t.Fatalf("first Stop: %v", err)
	}
	if err := l.Stop(); err != nil {
		t.Fatalf("second Stop: %v", err)
	}
}

func TestEnsureStorage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "data.json")
	if err := EnsureStorage(path, zaptest.NewLogger(t)); err != nil {
		t.Fatalf("EnsureStorage: %v", err)
	}
	if got := readDoc(t, path); len(got) != 0 {
		t.Errorf("doc = %v, want empty", got)
	}
}
