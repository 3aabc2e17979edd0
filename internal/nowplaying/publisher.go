package nowplaying

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/taoyao-code/blueplayer/internal/metrics"
	"github.com/taoyao-code/blueplayer/internal/playback"
)

// Store 事件落地（redis.NowPlayingStore）
type Store interface {
	Save(ctx context.Context, device string, v any) error
}

// Publisher 异步发布当前播放快照，作为 bridge.Display 挂在刷新链路上
type Publisher struct {
	store    Store
	instance string
	queue    chan playback.Snapshot
	timeout  time.Duration
	metrics  *metrics.AppMetrics
	logger   *zap.Logger
	now      func() time.Time

	last *playback.Snapshot // 仅 Run 协程访问
}

// NewPublisher 创建发布器
func NewPublisher(store Store, instance string, queueSize int, appm *metrics.AppMetrics, logger *zap.Logger) *Publisher {
	if queueSize <= 0 {
		queueSize = 32
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Publisher{
		store:    store,
		instance: instance,
		queue:    make(chan playback.Snapshot, queueSize),
		timeout:  3 * time.Second,
		metrics:  appm,
		logger:   logger,
		now:      time.Now,
	}
}

// Refresh 入队快照；队列满时丢弃，不阻塞调用方
func (p *Publisher) Refresh(snap playback.Snapshot) {
	select {
	case p.queue <- snap:
	default:
		p.count("dropped")
		p.logger.Warn("now playing queue full, snapshot dropped", zap.String("title", snap.Title))
	}
}

// Run 消费队列直至 ctx 取消
func (p *Publisher) Run(ctx context.Context) {
	p.logger.Info("now playing publisher started", zap.String("instance", p.instance))
	for {
		select {
		case <-ctx.Done():
			p.logger.Info("now playing publisher stopped")
			return
		case snap := <-p.queue:
			if err := p.publish(ctx, snap); err != nil {
				p.logger.Warn("publish now playing failed", zap.Error(err))
			}
		}
	}
}

func (p *Publisher) publish(ctx context.Context, snap playback.Snapshot) error {
	ev := NewEvent(Classify(p.last, snap), p.instance, snap, p.now())

	cctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()
	if err := p.store.Save(cctx, snap.Device, ev); err != nil {
		p.count("error")
		return err
	}
	p.count("ok")
	p.last = &snap
	p.logger.Debug("now playing published",
		zap.String("event_id", ev.EventID),
		zap.String("event_type", string(ev.EventType)),
	)
	return nil
}

func (p *Publisher) count(result string) {
	if p.metrics != nil {
		p.metrics.NowPlayingPublished.WithLabelValues(result).Inc()
	}
}
