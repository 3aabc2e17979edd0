package bridge

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/taoyao-code/blueplayer/internal/protocol/ipod"
)

// Polling 是否正在推送 RES_TIME_ELAPSED
func (b *Bridge) Polling() bool { return b.state.Polling() }

func (b *Bridge) startPolling() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.pollCancel != nil {
		return
	}
	ctx, cancel := context.WithCancel(b.root)
	done := make(chan struct{})
	b.pollCancel = cancel
	b.pollDone = done
	b.state.SetPolling(true)
	go b.pollLoop(ctx, done)
}

func (b *Bridge) stopPolling() {
	b.mu.Lock()
	cancel, done := b.pollCancel, b.pollDone
	b.pollCancel, b.pollDone = nil, nil
	b.mu.Unlock()
	b.state.SetPolling(false)
	if cancel == nil {
		return
	}
	cancel()
	<-done
}

func (b *Bridge) pollLoop(ctx context.Context, done chan struct{}) {
	defer close(done)
	ticker := time.NewTicker(b.opts.PollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			elapsed := b.state.Elapsed()
			if err := b.reply(ctx, ipod.NewAir(ipod.AirResTimeElapsed, &ipod.Uint32Param{Value: elapsed})); err != nil {
				if ctx.Err() != nil {
					return
				}
				b.logger.Warn("send elapsed time failed", zap.Error(err))
			}
		}
	}
}
