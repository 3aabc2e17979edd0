package serialport

import (
	"context"
	"sync/atomic"

	"golang.org/x/time/rate"
)

// RateLimiter 下行帧令牌桶限速，防止轮询/批量应答挤占主机串口缓冲
type RateLimiter struct {
	limiter    *rate.Limiter
	ratePerSec int
	burst      int
	waited     atomic.Int64
	canceled   atomic.Int64
}

// NewRateLimiter 创建限速器；ratePerSec<=0 时返回 nil（不限速）
func NewRateLimiter(ratePerSec, burst int) *RateLimiter {
	if ratePerSec <= 0 {
		return nil
	}
	if burst <= 0 {
		burst = ratePerSec
	}
	return &RateLimiter{
		limiter:    rate.NewLimiter(rate.Limit(ratePerSec), burst),
		ratePerSec: ratePerSec,
		burst:      burst,
	}
}

// Wait 阻塞直到获得一个令牌
func (l *RateLimiter) Wait(ctx context.Context) error {
	if l == nil {
		return nil
	}
	if err := l.limiter.Wait(ctx); err != nil {
		l.canceled.Add(1)
		return err
	}
	l.waited.Add(1)
	return nil
}

// Stats 统计信息
func (l *RateLimiter) Stats() RateLimiterStats {
	if l == nil {
		return RateLimiterStats{}
	}
	return RateLimiterStats{
		RatePerSecond: l.ratePerSec,
		Burst:         l.burst,
		PassedTotal:   l.waited.Load(),
		CanceledTotal: l.canceled.Load(),
	}
}

// RateLimiterStats 限速器统计信息
type RateLimiterStats struct {
	RatePerSecond int   `json:"rate_per_second"`
	Burst         int   `json:"burst"`
	PassedTotal   int64 `json:"passed_total"`
	CanceledTotal int64 `json:"canceled_total"`
}
