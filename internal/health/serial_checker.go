package health

import (
	"context"
	"time"

	"github.com/taoyao-code/blueplayer/internal/serialport"
)

// SerialLink 串口连接的只读视图（*serialport.Conn）
type SerialLink interface {
	Running() bool
	Limiter() *serialport.RateLimiter
}

// SerialChecker 串口健康检查器
type SerialChecker struct {
	port string
	link SerialLink
}

// NewSerialChecker 创建串口健康检查器
func NewSerialChecker(port string, link SerialLink) *SerialChecker {
	return &SerialChecker{port: port, link: link}
}

// Name 返回检查器名称
func (c *SerialChecker) Name() string {
	return "serial"
}

// Check 读写循环未运行即不健康
func (c *SerialChecker) Check(ctx context.Context) CheckResult {
	start := time.Now()

	details := map[string]any{"port": c.port}
	if c.link == nil || !c.link.Running() {
		return CheckResult{
			Status:  StatusUnhealthy,
			Message: "serial link not running",
			Details: details,
			Latency: time.Since(start),
		}
	}

	if l := c.link.Limiter(); l != nil {
		stats := l.Stats()
		details["write_rate"] = stats.RatePerSecond
		details["write_passed_total"] = stats.PassedTotal
		details["write_canceled_total"] = stats.CanceledTotal
	}

	return CheckResult{
		Status:  StatusHealthy,
		Message: "ok",
		Details: details,
		Latency: time.Since(start),
	}
}
