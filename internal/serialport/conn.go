package serialport

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

var (
	// ErrClosed 连接已关闭
	ErrClosed = errors.New("serial connection closed")
	// ErrWriteQueueTimeout 写队列满且等待超时
	ErrWriteQueueTimeout = errors.New("write queue timeout")
)

// Conn 串口读/写循环：读到的原始字节交给回调，写入经队列与限速后落到串口
type Conn struct {
	port    io.ReadWriteCloser
	cfg     Config
	limiter *RateLimiter
	logger  *zap.Logger

	writeC    chan []byte
	closing   chan struct{}
	closeOnce sync.Once
	closed    atomic.Bool
	closeErr  error

	onRead  func([]byte)
	onRecv  func(n int)
	onSent  func(n int)
	onDrop  func()
	running atomic.Bool
}

// NewConn 基于已打开的端口创建连接
func NewConn(port io.ReadWriteCloser, cfg Config, logger *zap.Logger) *Conn {
	cfg.normalize()
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Conn{
		port:    port,
		cfg:     cfg,
		limiter: NewRateLimiter(cfg.WriteRate, cfg.WriteBurst),
		logger:  logger,
		writeC:  make(chan []byte, cfg.WriteQueue),
		closing: make(chan struct{}),
	}
}

// SetOnRead 安装读取回调（读循环内同步调用）
func (c *Conn) SetOnRead(h func([]byte)) { c.onRead = h }

// SetCounters 安装收发字节与丢弃计数回调
func (c *Conn) SetCounters(onRecv, onSent func(n int), onDrop func()) {
	c.onRecv, c.onSent, c.onDrop = onRecv, onSent, onDrop
}

// Running 读循环是否在运行
func (c *Conn) Running() bool { return c.running.Load() && !c.closed.Load() }

// Limiter 写限速器（可能为空）
func (c *Conn) Limiter() *RateLimiter { return c.limiter }

// Write 异步写入，受写队列与写超时影响
func (c *Conn) Write(ctx context.Context, b []byte) error {
	if c.closed.Load() {
		return ErrClosed
	}
	// 复制一份，避免调用方复用底层切片
	dup := make([]byte, len(b))
	copy(dup, b)

	timer := time.NewTimer(c.cfg.WriteTimeout)
	defer timer.Stop()
	select {
	case c.writeC <- dup:
		return nil
	case <-c.closing:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		if c.onDrop != nil {
			c.onDrop()
		}
		return ErrWriteQueueTimeout
	}
}

// Close 关闭端口并停止写循环
func (c *Conn) Close() error {
	c.closeOnce.Do(func() {
		c.closed.Store(true)
		close(c.closing)
		c.closeErr = c.port.Close()
	})
	return c.closeErr
}

// Run 启动读/写循环，阻塞直至 ctx 取消或端口出错。
// ctx 取消返回 nil；端口读写失败返回错误，调用方据此触发整体退出。
func (c *Conn) Run(ctx context.Context) error {
	c.running.Store(true)
	defer c.running.Store(false)
	defer c.Close()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// ctx 取消时关闭端口以打断阻塞中的 Read
	go func() {
		<-ctx.Done()
		_ = c.Close()
	}()

	writeErr := make(chan error, 1)
	go func() { writeErr <- c.writeLoop(ctx) }()

	readErr := c.readLoop()
	cancel()
	if werr := <-writeErr; werr != nil {
		return werr
	}
	if readErr != nil && !errors.Is(readErr, ErrClosed) {
		return readErr
	}
	return nil
}

func (c *Conn) readLoop() error {
	buf := make([]byte, 512)
	for {
		n, err := c.port.Read(buf)
		if n > 0 {
			if c.onRecv != nil {
				c.onRecv(n)
			}
			if c.onRead != nil {
				c.onRead(buf[:n])
			}
		}
		if err != nil {
			if c.closed.Load() {
				return ErrClosed
			}
			return fmt.Errorf("serial read: %w", err)
		}
		if c.closed.Load() {
			return ErrClosed
		}
	}
}

func (c *Conn) writeLoop(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg := <-c.writeC:
			if err := c.limiter.Wait(ctx); err != nil {
				return nil
			}
			n, err := c.port.Write(msg)
			if c.onSent != nil && n > 0 {
				c.onSent(n)
			}
			if err != nil {
				if c.closed.Load() {
					return nil
				}
				c.logger.Error("serial write failed", zap.Error(err))
				_ = c.Close()
				return fmt.Errorf("serial write: %w", err)
			}
		}
	}
}
