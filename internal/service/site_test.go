package service

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"formrelay/config"

	"go.uber.org/zap/zaptest"
)

func newTestSite(t *testing.T) (*SiteService, string) {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		"index.html":        "<h1>home</h1>",
		"message.html":      "<form></form>",
		"error.html":        "<h1>404</h1>",
		"style.css":         "body{}",
		"logo.xyz123":       "binary-ish",
		"README":            "plain",
		"assets/app.js":     "console.log(1)",
		".env":              "SECRET=1",
		"storage/data.json": "{}",
		"conf/config.yaml":  "app: {}",
	}
	for name, body := range files {
		p := filepath.Join(dir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	conf := config.Default()
	conf.Site.Root = dir
	site, cleanup, err := NewSiteService(conf, NewRegistry(conf), zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("NewSiteService: %v", err)
	}
	t.Cleanup(cleanup)
	return site, dir
}

func TestPage(t *testing.T) {
	site, _ := newTestSite(t)

	tests := map[Page]string{
		PageHome:     "<h1>home</h1>",
		PageMessage:  "<form></form>",
		PageNotFound: "<h1>404</h1>",
	}
	for page, want := range tests {
		asset, err := site.Page(page)
		if err != nil {
			t.Fatalf("Page(%s): %v", page, err)
		}
		if string(asset.Body) != want || asset.ContentType != ContentTypeHTML {
			t.Errorf("Page(%s) = %q %q", page, asset.Body, asset.ContentType)
		}
	}
	if _, err := site.Page(Page("unknown")); !errors.Is(err, ErrNotFound) {
		t.Errorf("unknown page err = %v", err)
	}
}

func TestStaticContentType(t *testing.T) {
	site, _ := newTestSite(t)

	tests := []struct {
		path   string
		prefix string
	}{
		{"/style.css", "text/css"},
		{"/index.html", "text/html"},
		{"/logo.xyz123", "text/plain"},
		{"/README", "text/plain"},
	}
	for _, tt := range tests {
		asset, err := site.Static(tt.path)
		if err != nil {
			t.Fatalf("Static(%s): %v", tt.path, err)
		}
		if !strings.HasPrefix(asset.ContentType, tt.prefix) {
			t.Errorf("Static(%s) content type = %q, want prefix %q", tt.path, asset.ContentType, tt.prefix)
		}
	}
}

func TestStaticRejects(t *testing.T) {
	site, dir := newTestSite(t)

	outside := filepath.Join(filepath.Dir(dir), "outside-"+filepath.Base(dir)+".txt")
	if err := os.WriteFile(outside, []byte("secret"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Remove(outside) })
	if err := os.Symlink(outside, filepath.Join(dir, "escape.txt")); err != nil {
		t.Fatal(err)
	}

	paths := []string{
		"/",
		"/does-not-exist-xyz",
		"/../" + filepath.Base(outside),
		"/assets/../../etc/passwd",
		"/./index.html",
		"/.env",
		"/assets/.hidden",
		"/storage/data.json",
		"/storage",
		"/conf/config.yaml",
		"/assets",
		"/assets/",
		"//index.html",
		"/escape.txt",
		"/a\\..\\index.html",
	}
	for _, p := range paths {
		if _, err := site.Static(p); !errors.Is(err, ErrNotFound) {
			t.Errorf("Static(%q) err = %v, want ErrNotFound", p, err)
		}
	}
}

func TestStaticIsStable(t *testing.T) {
	site, _ := newTestSite(t)
	first, err := site.Static("/style.css")
	if err != nil {
		t.Fatal(err)
	}
	second, err := site.Static("/style.css")
	if err != nil {
		t.Fatal(err)
	}
	if string(first.Body) != string(second.Body) {
		t.Error("repeated reads differ")
	}
}

func TestNewSiteServiceMissingRoot(t *testing.T) {
	conf := config.Default()
	conf.Site.Root = filepath.Join(t.TempDir(), "missing")
	if _, _, err := NewSiteService(conf, NewRegistry(conf), zaptest.NewLogger(t)); err == nil {
		t.Fatal("expected error for missing root")
	}
}

func TestHealthService(t *testing.T) {
	s := NewHealthService()
	if !s.IsLive() || s.IsReady() {
		t.Fatal("new service should be live and not ready")
	}
	s.SetListenerReady(true)
	if s.IsReady() {
		t.Error("ready requires gateway too")
	}
	s.SetGatewayReady(true)
	if !s.IsReady() {
		t.Error("should be ready once both units run")
	}
	s.SetReady(false)
	if s.IsReady() {
		t.Error("SetReady(false) should clear readiness")
	}
}
