package app

import (
	cfgpkg "github.com/taoyao-code/blueplayer/internal/config"
	"github.com/taoyao-code/blueplayer/internal/httpserver"
)

// NewHTTPServer 根据配置创建 HTTP 服务器；未启用时返回 nil
func NewHTTPServer(cfg cfgpkg.HTTPConfig, opts httpserver.Options) *httpserver.Server {
	if !cfg.Enable {
		return nil
	}
	return httpserver.New(cfg, opts)
}
