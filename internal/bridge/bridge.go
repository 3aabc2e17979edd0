package bridge

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/taoyao-code/blueplayer/internal/metrics"
	"github.com/taoyao-code/blueplayer/internal/playback"
	"github.com/taoyao-code/blueplayer/internal/player"
	"github.com/taoyao-code/blueplayer/internal/protocol/ipod"
)

// Sender 下行帧发送
type Sender interface {
	Send(ctx context.Context, cmd ipod.Command) error
}

// Options 会话参数
type Options struct {
	IpodName     string        // 无设备别名时上报的 iPod 名称
	IpodType     uint16        // RES_IPOD_TYPE
	ScreenWidth  uint16        // RES_SCREEN_SIZE
	ScreenHeight uint16        // RES_SCREEN_SIZE
	PollInterval time.Duration // RES_TIME_ELAPSED 推送间隔
	Buttons      *ButtonMap
}

func (o *Options) normalize() {
	if o.IpodName == "" {
		o.IpodName = "Blueplayer"
	}
	if o.PollInterval <= 0 {
		o.PollInterval = 500 * time.Millisecond
	}
	if o.Buttons == nil {
		o.Buttons = DefaultButtonMap()
	}
}

// Bridge 协议处理器：把主机命令转换为播放器动作与应答帧，把播放器事件转换为状态变化
type Bridge struct {
	state   *playback.State
	player  player.Player
	sender  Sender
	display Display
	metrics *metrics.AppMetrics
	logger  *zap.Logger
	opts    Options

	mu         sync.Mutex
	root       context.Context
	flag       uint8 // NCU_0B 写入、NCU_09 读取
	pollCancel context.CancelFunc
	pollDone   chan struct{}
}

// New 创建协议处理器
func New(state *playback.State, p player.Player, sender Sender, display Display, appm *metrics.AppMetrics, logger *zap.Logger, opts Options) *Bridge {
	opts.normalize()
	if logger == nil {
		logger = zap.NewNop()
	}
	if display == nil {
		display = LogDisplay{Logger: logger}
	}
	return &Bridge{
		state:   state,
		player:  p,
		sender:  sender,
		display: display,
		metrics: appm,
		logger:  logger,
		opts:    opts,
		root:    context.Background(),
	}
}

// State 播放状态
func (b *Bridge) State() *playback.State { return b.state }

// Start 绑定生命周期上下文，并查找已连接的播放器
func (b *Bridge) Start(ctx context.Context) {
	b.mu.Lock()
	b.root = ctx
	b.mu.Unlock()

	if err := b.Sync(ctx); err != nil && !errors.Is(err, player.ErrNoPlayer) {
		b.logger.Warn("find player failed", zap.Error(err))
	}
	b.refresh()
}

// Stop 停止轮询
func (b *Bridge) Stop() { b.stopPolling() }

// Sync 重新查找播放器并以其全部属性刷新状态
func (b *Bridge) Sync(ctx context.Context) error {
	snap, err := b.player.FindPlayer(ctx)
	if err != nil {
		return err
	}
	b.state.SetConnected(true)
	b.state.SetAlias(snap.Alias)
	b.setConnectedGauge(true)
	b.logger.Info("media player found", zap.String("path", snap.Path), zap.String("device", snap.Alias))
	b.applyProperties(snap.Properties)
	return nil
}

func (b *Bridge) refresh() { b.display.Refresh(b.state.Snapshot()) }

func (b *Bridge) setConnectedGauge(on bool) {
	if b.metrics == nil {
		return
	}
	if on {
		b.metrics.PlayerConnected.Set(1)
	} else {
		b.metrics.PlayerConnected.Set(0)
	}
}

func (b *Bridge) reply(ctx context.Context, cmd ipod.Command) error {
	if err := b.sender.Send(ctx, cmd); err != nil {
		return fmt.Errorf("send %v: %w", cmd, err)
	}
	return nil
}

func (b *Bridge) feedback(ctx context.Context, id uint16, result uint8) error {
	return b.reply(ctx, ipod.Feedback(result, id))
}
