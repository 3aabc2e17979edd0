package gateway

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/taoyao-code/blueplayer/internal/metrics"
	"github.com/taoyao-code/blueplayer/internal/protocol/adapter"
	"github.com/taoyao-code/blueplayer/internal/protocol/ipod"
	"github.com/taoyao-code/blueplayer/internal/serialport"
)

// PacketHandler 上行帧处理器
type PacketHandler interface {
	HandlePacket(ctx context.Context, p *ipod.Packet) error
}

// Link 串口链路：原始字节 -> 流式解码 -> mode 路由 -> 处理器，并完成解析/路由指标上报
type Link struct {
	proto   adapter.Adapter
	handler PacketHandler
	metrics *metrics.AppMetrics
	logger  *zap.Logger

	mu     sync.Mutex
	ctx    context.Context
	synced bool // 复位后是否已收到首段字节
}

// NewLink 构建链路，所有 mode 统一交给 handler
func NewLink(handler PacketHandler, appm *metrics.AppMetrics, logger *zap.Logger) *Link {
	if logger == nil {
		logger = zap.NewNop()
	}
	a := ipod.NewAdapter()
	l := &Link{
		proto:   a,
		handler: handler,
		metrics: appm,
		logger:  logger,
		ctx:     context.Background(),
	}
	for _, mode := range []ipod.Mode{
		ipod.ModeSwitch,
		ipod.ModeVoiceRecorder,
		ipod.ModeSimpleRemote,
		ipod.ModeRequestModeStatus,
		ipod.ModeAir,
	} {
		a.Register(mode, l.route)
	}
	a.OnError(l.onDecodeError)
	return l
}

// Serve 绑定串口连接并阻塞运行读写循环
func (l *Link) Serve(ctx context.Context, conn *serialport.Conn) error {
	l.Reset()
	conn.SetOnRead(func(b []byte) { l.Feed(ctx, b) })
	if l.metrics != nil {
		conn.SetCounters(
			func(n int) { l.metrics.SerialBytesReceived.Add(float64(n)) },
			func(n int) { l.metrics.SerialBytesSent.Add(float64(n)) },
			l.metrics.SerialWriteDropped.Inc,
		)
	}
	l.logger.Info("serial link started")
	err := conn.Run(ctx)
	l.logger.Info("serial link stopped", zap.Error(err))
	return err
}

// Reset 丢弃半包，下一段字节重新做帧头探测
func (l *Link) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.proto.Reset()
	l.synced = false
}

// Feed 处理一段上行字节；处理器错误只记录，不影响后续帧
func (l *Link) Feed(ctx context.Context, b []byte) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.ctx = ctx
	if !l.synced && len(b) >= 2 {
		l.synced = true
		if !l.proto.Sniff(b) {
			l.logger.Info("stream starts mid-frame, resyncing", zap.String("prefix", hex.EncodeToString(b[:min(len(b), 8)])))
		}
	}
	if err := l.proto.ProcessBytes(b); err != nil {
		l.logger.Warn("packet handler error", zap.Error(err))
	}
}

func (l *Link) route(p *ipod.Packet) error {
	mode, cmd := CommandLabels(p.Command)
	if l.metrics != nil {
		l.metrics.FrameParseTotal.WithLabelValues("ok").Inc()
		l.metrics.FrameRouteTotal.WithLabelValues(mode, cmd).Inc()
	}
	l.logger.Debug("frame received",
		zap.String("mode", mode),
		zap.String("cmd", cmd),
		zap.String("raw", hex.EncodeToString(p.Raw)),
	)
	if l.handler == nil {
		return nil
	}
	return l.handler.HandlePacket(l.ctx, p)
}

func (l *Link) onDecodeError(raw []byte, err error) {
	result := ParseResult(err)
	if l.metrics != nil {
		l.metrics.FrameParseTotal.WithLabelValues(result).Inc()
	}
	l.logger.Warn("frame dropped",
		zap.String("result", result),
		zap.String("raw", hex.EncodeToString(raw)),
		zap.Error(err),
	)
}

// ParseResult 解码错误归类，用作 frame_parse_total 的 result 标签
func ParseResult(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ipod.ErrChecksumMismatch):
		return "checksum"
	case ipod.IsUnknownDiscriminant(err):
		return "unknown"
	case errors.Is(err, ipod.ErrTruncatedFrame):
		return "truncated"
	default:
		return "invalid"
	}
}

// CommandLabels 命令的 mode/cmd 指标标签
func CommandLabels(c ipod.Command) (mode, cmd string) {
	if c == nil {
		return "", ""
	}
	mode = fmt.Sprintf("%02X", uint8(c.Mode()))
	switch v := c.(type) {
	case *ipod.SwitchModeCommand:
		cmd = fmt.Sprintf("%04X", v.ID)
	case *ipod.VoiceRecorderCommand:
		cmd = fmt.Sprintf("%04X", v.ID)
	case *ipod.AirCommand:
		cmd = fmt.Sprintf("%04X", v.ID)
	case *ipod.SimpleRemoteCommand:
		cmd = "buttons"
	case *ipod.ModeStatusRequest:
		cmd = "status"
	}
	return mode, cmd
}
