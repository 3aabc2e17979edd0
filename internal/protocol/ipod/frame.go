package ipod

// Packet iPod 附件协议帧
// 布局：magic[2] 0xFF 0x55 | length[1] | mode[1] | command[..] | checksum[1]
// length = len(mode + command)；checksum 覆盖 length 字节到 command 末字节
type Packet struct {
	Command Command
	Raw     []byte // 解码时的原始帧字节（编码构造时为空）
}

// Mode 返回命令所属模式
func (p *Packet) Mode() Mode {
	if p == nil || p.Command == nil {
		return 0
	}
	return p.Command.Mode()
}

// Air 若为 AiR 命令则返回之
func (p *Packet) Air() (*AirCommand, bool) {
	if p == nil {
		return nil, false
	}
	c, ok := p.Command.(*AirCommand)
	return c, ok
}

var magic = []byte{0xFF, 0x55}

const (
	headerLen     = 3 // magic + length
	checksumStart = 2 // 校验范围起点：length 字节
	maxBodyLen    = 0xFF
)
