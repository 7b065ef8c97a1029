package service

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"mime"
	"os"
	"path"
	"strings"
	"time"

	"formrelay/config"

	"go.uber.org/zap"
)

var ErrNotFound = errors.New("site: not found")

const (
	ContentTypeHTML  = "text/html; charset=utf-8"
	ContentTypePlain = "text/plain"
)

// Asset 讀取完成的檔案內容
type Asset struct {
	Name        string
	ContentType string
	ModTime     time.Time
	Body        []byte
}

// SiteService 以 os.Root 限制所有讀取都在 site root 之內
type SiteService struct {
	root     *os.Root
	registry *Registry
	hidden   []string
	logger   *zap.Logger
}

func NewSiteService(conf *config.Configuration, registry *Registry, logger *zap.Logger) (*SiteService, func(), error) {
	root, err := os.OpenRoot(conf.Site.Root)
	if err != nil {
		return nil, nil, fmt.Errorf("open site root %q: %w", conf.Site.Root, err)
	}
	hidden := make([]string, 0, len(conf.Site.Hidden))
	for _, h := range conf.Site.Hidden {
		h = strings.Trim(path.Clean("/"+h), "/")
		if h != "" {
			hidden = append(hidden, h)
		}
	}
	s := &SiteService{
		root:     root,
		registry: registry,
		hidden:   hidden,
		logger:   logger.Named("site"),
	}
	cleanup := func() {
		if err := root.Close(); err != nil {
			logger.Error("failed to close site root", zap.Error(err))
		}
	}
	return s, cleanup, nil
}

// Page 讀取固定頁面，一律以 text/html 回應
func (s *SiteService) Page(page Page) (*Asset, error) {
	file, ok := s.registry.Get(page)
	if !ok {
		return nil, fmt.Errorf("page %q: %w", page, ErrNotFound)
	}
	asset, err := s.read(file)
	if err != nil {
		return nil, err
	}
	asset.ContentType = ContentTypeHTML
	return asset, nil
}

// Static 依 URL path 讀取一般檔案；Content-Type 由副檔名推斷，無法推斷時為 text/plain
func (s *SiteService) Static(urlPath string) (*Asset, error) {
	rel, ok := s.resolve(urlPath)
	if !ok {
		return nil, ErrNotFound
	}
	asset, err := s.read(rel)
	if err != nil {
		return nil, err
	}
	asset.ContentType = ContentTypePlain
	if ct := mime.TypeByExtension(path.Ext(rel)); ct != "" {
		asset.ContentType = ct
	}
	return asset, nil
}

// resolve 回傳 root 內的相對路徑；拒絕 ".."、"." 開頭的片段、空片段與隱藏前綴
func (s *SiteService) resolve(urlPath string) (string, bool) {
	rel := strings.TrimPrefix(urlPath, "/")
	if rel == "" || strings.ContainsRune(rel, '\x00') || strings.ContainsRune(rel, '\\') {
		return "", false
	}
	for _, seg := range strings.Split(rel, "/") {
		if seg == "" || strings.HasPrefix(seg, ".") {
			return "", false
		}
	}
	for _, h := range s.hidden {
		if rel == h || strings.HasPrefix(rel, h+"/") {
			return "", false
		}
	}
	return rel, true
}

func (s *SiteService) read(rel string) (*Asset, error) {
	f, err := s.root.Open(rel)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNotFound
		}
		// os.Root 拒絕跳出 root 的 symlink 等情況
		s.logger.Debug("open failed", zap.String("path", rel), zap.Error(err))
		return nil, ErrNotFound
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", rel, err)
	}
	if !info.Mode().IsRegular() {
		return nil, ErrNotFound
	}
	body, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", rel, err)
	}
	return &Asset{
		Name:    info.Name(),
		ModTime: info.ModTime(),
		Body:    body,
	}, nil
}
