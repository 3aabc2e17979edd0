package player

import (
	"errors"
	"sync"
	"time"
)

// BreakerState 熔断器状态
type BreakerState int

const (
	BreakerClosed   BreakerState = iota // 正常，调用直达播放器
	BreakerOpen                         // 熔断，直接拒绝
	BreakerHalfOpen                     // 半开，放行少量试探调用
)

func (s BreakerState) String() string {
	switch s {
	case BreakerClosed:
		return "closed"
	case BreakerOpen:
		return "open"
	case BreakerHalfOpen:
		return "half_open"
	default:
		return "unknown"
	}
}

var (
	// ErrCircuitOpen 播放器连续失败，调用被熔断
	ErrCircuitOpen = errors.New("player circuit breaker is open")
	// ErrTooManyProbes 半开状态试探调用已满
	ErrTooManyProbes = errors.New("too many probe calls in half-open state")
)

// CircuitBreaker 连续失败熔断器：D-Bus 端卡死时避免每个按键都阻塞到超时
type CircuitBreaker struct {
	mu        sync.Mutex
	state     BreakerState
	failures  int // 连续失败次数
	probes    int // 半开状态已放行次数
	lastFail  time.Time
	lastState time.Time
	trips     int64

	threshold   int
	timeout     time.Duration
	halfOpenMax int
	now         func() time.Time

	onStateChange func(from, to BreakerState)
}

// NewCircuitBreaker 创建熔断器
func NewCircuitBreaker(threshold int, timeout time.Duration, halfOpenMax int) *CircuitBreaker {
	if threshold <= 0 {
		threshold = 5
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if halfOpenMax <= 0 {
		halfOpenMax = 1
	}
	return &CircuitBreaker{
		threshold:   threshold,
		timeout:     timeout,
		halfOpenMax: halfOpenMax,
		now:         time.Now,
		lastState:   time.Now(),
	}
}

// Call 执行 fn，受熔断器保护；ignore 判定为 true 的错误不计入失败
func (cb *CircuitBreaker) Call(fn func() error, ignore func(error) bool) error {
	if err := cb.before(); err != nil {
		return err
	}
	err := fn()
	failed := err != nil && (ignore == nil || !ignore(err))
	cb.after(failed)
	return err
}

func (cb *CircuitBreaker) before() error {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	switch cb.state {
	case BreakerOpen:
		if cb.now().Sub(cb.lastFail) < cb.timeout {
			return ErrCircuitOpen
		}
		cb.transitionTo(BreakerHalfOpen)
		cb.probes = 1
		return nil
	case BreakerHalfOpen:
		if cb.probes >= cb.halfOpenMax {
			return ErrTooManyProbes
		}
		cb.probes++
		return nil
	}
	return nil
}

func (cb *CircuitBreaker) after(failed bool) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	if !failed {
		cb.failures = 0
		if cb.state == BreakerHalfOpen {
			cb.transitionTo(BreakerClosed)
		}
		return
	}

	cb.failures++
	cb.lastFail = cb.now()
	switch cb.state {
	case BreakerClosed:
		if cb.failures >= cb.threshold {
			cb.transitionTo(BreakerOpen)
			cb.trips++
		}
	case BreakerHalfOpen:
		// 试探失败，重新熔断
		cb.transitionTo(BreakerOpen)
		cb.trips++
	}
}

func (cb *CircuitBreaker) transitionTo(to BreakerState) {
	if cb.state == to {
		return
	}
	from := cb.state
	cb.state = to
	cb.lastState = cb.now()
	if to != BreakerHalfOpen {
		cb.probes = 0
	}
	if cb.onStateChange != nil {
		go cb.onStateChange(from, to)
	}
}

// State 当前状态
func (cb *CircuitBreaker) State() BreakerState {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.state
}

// SetStateChangeCallback 设置状态变化回调（异步调用）
func (cb *CircuitBreaker) SetStateChangeCallback(fn func(from, to BreakerState)) {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	cb.onStateChange = fn
}

// Reset 手动恢复
func (cb *CircuitBreaker) Reset() {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	cb.transitionTo(BreakerClosed)
	cb.failures = 0
}

// Stats 统计信息
func (cb *CircuitBreaker) Stats() BreakerStats {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return BreakerStats{
		State:           cb.state.String(),
		Failures:        cb.failures,
		TripCount:       cb.trips,
		LastStateChange: cb.lastState,
	}
}

// BreakerStats 熔断器统计信息
type BreakerStats struct {
	State           string    `json:"state"`
	Failures        int       `json:"failures"`
	TripCount       int64     `json:"trip_count"`
	LastStateChange time.Time `json:"last_state_change"`
}
