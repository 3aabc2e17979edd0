package bootstrap

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/taoyao-code/blueplayer/internal/app"
	"github.com/taoyao-code/blueplayer/internal/bridge"
	cfgpkg "github.com/taoyao-code/blueplayer/internal/config"
	"github.com/taoyao-code/blueplayer/internal/gateway"
	"github.com/taoyao-code/blueplayer/internal/health"
	"github.com/taoyao-code/blueplayer/internal/httpserver"
	"github.com/taoyao-code/blueplayer/internal/metrics"
	"github.com/taoyao-code/blueplayer/internal/playback"
)

var errSerialClosed = errors.New("serial link closed")

// Run 统一启动流程：D-Bus -> 串口 -> Redis -> 协议处理器 -> HTTP -> 主循环。
// SIGINT/SIGTERM 或串口读写失败时退出，所有已建立的资源都会被关闭。
func Run(cfg *cfgpkg.Config, log *zap.Logger) error {
	log.Info("starting blueplayer",
		zap.String("env", cfg.App.Env),
		zap.String("serial", cfg.Serial.Port))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// ========== 阶段1: 基础组件 ==========
	reg, appm := app.NewMetrics()
	ready := health.New()
	state := playback.New(nil)
	instance := app.GenerateInstanceID(cfg.App.Name)
	log = log.With(zap.String("instance", instance))

	// ========== 阶段2: 连接 BlueZ（失败直接返回）==========
	bluez, guarded, err := app.NewPlayer(cfg.Player, log)
	if err != nil {
		log.Error("connect system bus failed", zap.Error(err))
		return err
	}
	defer func() {
		_ = bluez.Close()
		log.Info("system bus closed")
	}()
	ready.SetBusReady(true)

	// ========== 阶段3: 打开串口 ==========
	conn, err := app.OpenSerial(cfg.Serial, log)
	if err != nil {
		log.Error("open serial failed", zap.Error(err))
		return err
	}
	defer func() {
		_ = conn.Close()
		log.Info("serial port closed")
	}()
	ready.SetSerialReady(true)

	// ========== 阶段4: Redis 与当前播放推送（可选）==========
	redisClient, err := app.NewRedisClient(cfg.Redis, log)
	if err != nil {
		log.Error("redis initialization failed", zap.Error(err))
		return err
	}
	if redisClient != nil {
		defer redisClient.Close()
	}
	publisher := app.NewNowPlayingPublisher(cfg.NowPlaying, redisClient, instance, appm, log)

	displays := bridge.Displays{bridge.LogDisplay{Logger: log}}
	if publisher != nil {
		displays = append(displays, publisher)
	}

	// ========== 阶段5: 协议处理器 ==========
	opts, err := app.BridgeOptions(cfg.Ipod, log)
	if err != nil {
		log.Error("load bridge options failed", zap.Error(err))
		return err
	}
	sender := gateway.NewFrameSender(conn, appm, log)
	br := bridge.New(state, guarded, sender, displays, appm, log.With(zap.String("component", "bridge")), opts)
	link := gateway.NewLink(br, appm, log.With(zap.String("component", "gateway")))

	// ========== 阶段6: HTTP（可选）==========
	healthAgg := app.NewHealthAggregator(cfg.Serial.Port, conn, state, guarded.Breaker())
	app.AddRedisChecker(healthAgg, redisClient)
	httpSrv := app.NewHTTPServer(cfg.HTTP, httpserver.Options{
		MetricsPath:    metricsPath(cfg.Metrics),
		MetricsHandler: metricsHandler(cfg.Metrics, reg),
		Ready:          ready.Ready,
		Status:         state,
		Health:         healthAgg,
	})

	// ========== 阶段7: 主循环 ==========
	g, gctx := errgroup.WithContext(ctx)

	if httpSrv != nil {
		g.Go(func() error {
			log.Info("http server started", zap.String("addr", cfg.HTTP.Addr))
			if err := httpSrv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			err := httpSrv.Shutdown(sctx)
			log.Info("http server stopped")
			return err
		})
	}

	if publisher != nil {
		g.Go(func() error {
			publisher.Run(gctx)
			return nil
		})
	}

	g.Go(func() error {
		return bluez.Run(gctx, br.OnPlayerEvent)
	})

	br.Start(gctx)
	defer br.Stop()

	g.Go(func() error {
		defer ready.SetSerialReady(false)
		err := link.Serve(gctx, conn)
		if err == nil && gctx.Err() == nil {
			err = errSerialClosed
		}
		return err
	})

	log.Info("all services ready, waiting for host")
	err = g.Wait()
	if err != nil && !errors.Is(err, context.Canceled) {
		log.Error("shutdown on error", zap.Error(err))
		return err
	}
	log.Info("shutdown complete")
	return nil
}

func metricsPath(cfg cfgpkg.MetricsConfig) string {
	if cfg.Path == "" {
		return "/metrics"
	}
	return cfg.Path
}

func metricsHandler(cfg cfgpkg.MetricsConfig, reg *prometheus.Registry) http.Handler {
	if !cfg.Enable {
		return nil
	}
	return metrics.Handler(reg)
}
