package service

import "formrelay/config"

// Page 固定路由對應的 HTML 文件
type Page string

const (
	PageHome     Page = "home"
	PageMessage  Page = "message"
	PageNotFound Page = "not_found"
)

type Registry struct {
	pages map[Page]string
}

func NewRegistry(conf *config.Configuration) *Registry {
	reg := &Registry{pages: make(map[Page]string)}
	reg.Register(PageHome, conf.Site.Home)
	reg.Register(PageMessage, conf.Site.Message)
	reg.Register(PageNotFound, conf.Site.NotFound)
	return reg
}

func (r *Registry) Register(page Page, file string) {
	r.pages[page] = file
}

func (r *Registry) Get(page Page) (string, bool) {
	file, ok := r.pages[page]
	return file, ok
}
