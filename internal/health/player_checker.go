package health

import (
	"context"
	"time"

	"github.com/taoyao-code/blueplayer/internal/playback"
	"github.com/taoyao-code/blueplayer/internal/player"
)

// PlayerChecker 媒体播放器健康检查器
type PlayerChecker struct {
	state   *playback.State
	breaker *player.CircuitBreaker
}

// NewPlayerChecker 创建播放器健康检查器；breaker 可为空
func NewPlayerChecker(state *playback.State, breaker *player.CircuitBreaker) *PlayerChecker {
	return &PlayerChecker{state: state, breaker: breaker}
}

// Name 返回检查器名称
func (c *PlayerChecker) Name() string {
	return "player"
}

// Check 未连接播放器或熔断打开时降级；桥接仍可应答主机
func (c *PlayerChecker) Check(ctx context.Context) CheckResult {
	start := time.Now()

	snap := c.state.Snapshot()
	details := map[string]any{
		"connected": snap.Connected,
		"device":    snap.Device,
		"status":    snap.Status,
	}

	status := StatusHealthy
	message := "ok"
	if !snap.Connected {
		status = StatusDegraded
		message = "no media player connected"
	}

	if c.breaker != nil {
		stats := c.breaker.Stats()
		details["circuit_breaker_state"] = stats.State
		details["circuit_breaker_failures"] = stats.Failures
		details["circuit_breaker_trips"] = stats.TripCount
		if c.breaker.State() == player.BreakerOpen {
			status = StatusDegraded
			message = "player calls circuit open"
		}
	}

	return CheckResult{
		Status:  status,
		Message: message,
		Details: details,
		Latency: time.Since(start),
	}
}
