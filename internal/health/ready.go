package health

import "sync/atomic"

// Readiness 就绪状态聚合（串口、D-Bus）
type Readiness struct {
	serialReady atomic.Bool
	busReady    atomic.Bool
}

func New() *Readiness { return &Readiness{} }

func (r *Readiness) SetSerialReady(v bool) { r.serialReady.Store(v) }
func (r *Readiness) SetBusReady(v bool)    { r.busReady.Store(v) }

// Ready 总体就绪：串口已打开且 D-Bus 已连接
func (r *Readiness) Ready() bool {
	return r.serialReady.Load() && r.busReady.Load()
}
