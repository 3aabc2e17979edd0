package player

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
)

// Guarded 为播放器控制调用加上超时与熔断
type Guarded struct {
	Player
	breaker     *CircuitBreaker
	callTimeout time.Duration
	logger      *zap.Logger
}

// NewGuarded 包装播放器；breaker 为空时只做超时控制
func NewGuarded(p Player, breaker *CircuitBreaker, callTimeout time.Duration, logger *zap.Logger) *Guarded {
	if logger == nil {
		logger = zap.NewNop()
	}
	g := &Guarded{Player: p, breaker: breaker, callTimeout: callTimeout, logger: logger}
	if breaker != nil {
		breaker.SetStateChangeCallback(func(from, to BreakerState) {
			logger.Warn("player circuit breaker state changed",
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		})
	}
	return g
}

// Breaker 熔断器（可能为空）
func (g *Guarded) Breaker() *CircuitBreaker { return g.breaker }

func (g *Guarded) Play(ctx context.Context) error     { return g.guard(ctx, g.Player.Play) }
func (g *Guarded) Pause(ctx context.Context) error    { return g.guard(ctx, g.Player.Pause) }
func (g *Guarded) Next(ctx context.Context) error     { return g.guard(ctx, g.Player.Next) }
func (g *Guarded) Previous(ctx context.Context) error { return g.guard(ctx, g.Player.Previous) }
func (g *Guarded) FastForward(ctx context.Context) error {
	return g.guard(ctx, g.Player.FastForward)
}
func (g *Guarded) Rewind(ctx context.Context) error { return g.guard(ctx, g.Player.Rewind) }

func (g *Guarded) guard(ctx context.Context, fn func(context.Context) error) error {
	call := func() error {
		if g.callTimeout <= 0 {
			return fn(ctx)
		}
		cctx, cancel := context.WithTimeout(ctx, g.callTimeout)
		defer cancel()
		return fn(cctx)
	}
	if g.breaker == nil {
		return call()
	}
	// 没有播放器不是播放器故障
	return g.breaker.Call(call, func(err error) bool { return errors.Is(err, ErrNoPlayer) })
}
