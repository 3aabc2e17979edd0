package httpserver

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	cfgpkg "github.com/taoyao-code/blueplayer/internal/config"
	"github.com/taoyao-code/blueplayer/internal/health"
	"github.com/taoyao-code/blueplayer/internal/playback"
)

// StatusProvider 当前播放状态来源（*playback.State）
type StatusProvider interface {
	Snapshot() playback.Snapshot
}

// Options 可选路由
type Options struct {
	MetricsPath    string
	MetricsHandler http.Handler
	Ready          func() bool
	Status         StatusProvider
	Health         *health.Aggregator
}

// Server HTTP 服务封装
type Server struct {
	srv *http.Server
}

// New 创建并配置 Gin + HTTP Server，注册健康检查、指标与状态路由
func New(cfg cfgpkg.HTTPConfig, opts Options) *Server {
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/healthz", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})
	r.GET("/readyz", func(c *gin.Context) {
		if opts.Ready == nil || opts.Ready() {
			c.String(http.StatusOK, "ready")
			return
		}
		c.String(http.StatusServiceUnavailable, "not-ready")
	})
	metricsPath := opts.MetricsPath
	if metricsPath == "" {
		metricsPath = "/metrics"
	}
	if opts.MetricsHandler != nil {
		r.GET(metricsPath, gin.WrapH(opts.MetricsHandler))
	}

	api := r.Group("/api/v1")
	if opts.Status != nil {
		api.GET("/status", func(c *gin.Context) {
			c.JSON(http.StatusOK, opts.Status.Snapshot())
		})
	}
	if opts.Health != nil {
		health.RegisterHTTPRoutes(api, opts.Health)
	}

	srv := &http.Server{
		Addr:         cfg.Addr,
		Handler:      r,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
	return &Server{srv: srv}
}

// Start 启动 HTTP 服务（阻塞）
func (s *Server) Start() error {
	return s.srv.ListenAndServe()
}

// Shutdown 优雅关闭
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
