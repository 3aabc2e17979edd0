package ipod

import (
	"errors"
	"sync"
)

// Handler 按 mode 路由的帧处理器
type Handler func(p *Packet) error

// ErrorHandler 解码失败回调（被丢弃的字节与原因）
type ErrorHandler func(raw []byte, err error)

// Adapter iPod 附件协议适配器：流式解码 + mode 路由表
type Adapter struct {
	decoder *StreamDecoder

	mu       sync.RWMutex
	handlers map[Mode]Handler
	onError  ErrorHandler
}

// NewAdapter 创建适配器
func NewAdapter() *Adapter {
	return &Adapter{decoder: NewStreamDecoder(), handlers: make(map[Mode]Handler)}
}

// Register 注册 mode 处理器
func (a *Adapter) Register(mode Mode, h Handler) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.handlers[mode] = h
}

// OnError 设置解码失败回调
func (a *Adapter) OnError(h ErrorHandler) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.onError = h
}

// ProcessBytes 处理上行字节流。
// 解码错误只通过 OnError 上报，不中断后续帧；返回值为处理器错误的合并。
func (a *Adapter) ProcessBytes(p []byte) error {
	results := a.decoder.Feed(p)
	var errs []error
	for _, r := range results {
		if r.Err != nil {
			a.mu.RLock()
			cb := a.onError
			a.mu.RUnlock()
			if cb != nil {
				cb(r.Raw, r.Err)
			}
			continue
		}
		if err := a.route(r.Packet); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (a *Adapter) route(p *Packet) error {
	a.mu.RLock()
	h := a.handlers[p.Mode()]
	a.mu.RUnlock()
	if h == nil {
		return nil
	}
	return h(p)
}

// Sniff 判断前缀是否为 iPod 帧头
func (a *Adapter) Sniff(prefix []byte) bool {
	if len(prefix) < len(magic) {
		return false
	}
	return prefix[0] == magic[0] && prefix[1] == magic[1]
}

// Reset 丢弃解码器中的半包（链路重连时调用）
func (a *Adapter) Reset() { a.decoder.Reset() }
