package gateway

import (
	"context"
	"encoding/hex"
	"fmt"

	"go.uber.org/zap"

	"github.com/taoyao-code/blueplayer/internal/metrics"
	"github.com/taoyao-code/blueplayer/internal/protocol/ipod"
)

// Writer 下行字节写入（*serialport.Conn）
type Writer interface {
	Write(ctx context.Context, b []byte) error
}

// FrameSender 编码命令并写入串口
type FrameSender struct {
	w       Writer
	metrics *metrics.AppMetrics
	logger  *zap.Logger
}

// NewFrameSender 创建下行发送器
func NewFrameSender(w Writer, appm *metrics.AppMetrics, logger *zap.Logger) *FrameSender {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FrameSender{w: w, metrics: appm, logger: logger}
}

// Send 实现 bridge.Sender
func (s *FrameSender) Send(ctx context.Context, cmd ipod.Command) error {
	raw, err := ipod.Build(cmd)
	if err != nil {
		return fmt.Errorf("build frame: %w", err)
	}
	if err := s.w.Write(ctx, raw); err != nil {
		return err
	}
	mode, name := CommandLabels(cmd)
	if s.metrics != nil {
		s.metrics.FrameSentTotal.WithLabelValues(mode, name).Inc()
	}
	s.logger.Debug("frame sent",
		zap.String("mode", mode),
		zap.String("cmd", name),
		zap.String("raw", hex.EncodeToString(raw)),
	)
	return nil
}
