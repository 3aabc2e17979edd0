package adapter

// Adapter 链路协议适配器接口：网关按此接口把串口字节流交给协议实现
// - Sniff 判断前缀是否为本协议帧头
// - ProcessBytes 处理原始字节流（内部负责半包/粘包与重新同步）
// - Reset 丢弃半包，链路重新开始时调用
type Adapter interface {
	Sniff(prefix []byte) bool
	ProcessBytes(p []byte) error
	Reset()
}
