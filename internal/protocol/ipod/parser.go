package ipod

import (
	"bytes"
	"errors"
	"fmt"
)

// Decode 解析 raw 开头的一帧，返回帧与消费的字节数。
// 字节不足时返回 ErrIncompleteFrame（调用方应补充数据后重试）；帧头不匹配返回 ErrInvalidFrame。
// 返回其它错误时 n 为该帧的完整长度，调用方可据此丢弃整帧。
func Decode(raw []byte) (*Packet, int, error) {
	if len(raw) < len(magic) {
		if !bytes.HasPrefix(magic, raw) {
			return nil, 0, fmt.Errorf("%w: bad header % X", ErrInvalidFrame, raw)
		}
		return nil, 0, ErrIncompleteFrame
	}
	if raw[0] != magic[0] || raw[1] != magic[1] {
		return nil, 0, fmt.Errorf("%w: bad header % X", ErrInvalidFrame, raw[:2])
	}
	if len(raw) < headerLen {
		return nil, 0, ErrIncompleteFrame
	}
	bodyLen := int(raw[2])
	if bodyLen == 0 {
		return nil, headerLen, fmt.Errorf("%w: zero length", ErrInvalidFrame)
	}
	total := headerLen + bodyLen + 1
	if len(raw) < total {
		return nil, 0, ErrIncompleteFrame
	}
	frame := raw[:total]
	want := ChecksumRange(frame, checksumStart, -1, 0)
	if got := frame[total-1]; got != want {
		return nil, total, fmt.Errorf("%w: want 0x%02X, got 0x%02X", ErrChecksumMismatch, want, got)
	}

	body := NewReader(frame[headerLen : total-1])
	mode, _ := body.Uint8()
	cmd, err := modeTable.Decode(Mode(mode), body)
	if err != nil {
		return nil, total, err
	}
	dup := make([]byte, total)
	copy(dup, frame)
	return &Packet{Command: cmd, Raw: dup}, total, nil
}

// Parse 严格解析恰好一帧（magic、长度、校验和、命令体均需合法，且无多余字节）
func Parse(raw []byte) (*Packet, error) {
	p, n, err := Decode(raw)
	if err != nil {
		return nil, err
	}
	if n != len(raw) {
		return nil, fmt.Errorf("%w: %d bytes after frame", ErrInvalidFrame, len(raw)-n)
	}
	return p, nil
}

// Decoded 流式解码的单条结果：成功时 Packet 非空，失败时 Err 非空且 Raw 为被丢弃的字节
type Decoded struct {
	Packet *Packet
	Raw    []byte
	Err    error
}

// StreamDecoder 处理半包/粘包的流式解码器。
// 帧头不匹配：上报一次 ErrInvalidFrame 并跳到下一个 FF 55；
// 校验失败：长度字节不可信，仅丢弃 magic 后重新同步；
// 其它解码失败：帧边界可信，整帧丢弃。
type StreamDecoder struct {
	buf []byte
}

// NewStreamDecoder 创建流式解码器
func NewStreamDecoder() *StreamDecoder { return &StreamDecoder{} }

// Buffered 当前缓存的未完成字节数
func (d *StreamDecoder) Buffered() int { return len(d.buf) }

// Reset 丢弃未完成的半包
func (d *StreamDecoder) Reset() { d.buf = d.buf[:0] }

// Feed 追加数据并尽可能解出多帧
func (d *StreamDecoder) Feed(p []byte) []Decoded {
	d.buf = append(d.buf, p...)
	var out []Decoded

	for len(d.buf) > 0 {
		start := indexMagic(d.buf)
		if start != 0 {
			skip := start
			if start < 0 {
				// 末尾单个 0xFF 可能是下一帧 magic 的前半部分
				skip = len(d.buf)
				if d.buf[len(d.buf)-1] == magic[0] {
					skip--
				}
			}
			if skip == 0 {
				return out
			}
			junk := append([]byte(nil), d.buf[:skip]...)
			out = append(out, Decoded{Raw: junk, Err: fmt.Errorf("%w: %d bytes before header", ErrInvalidFrame, skip)})
			d.buf = d.buf[skip:]
			continue
		}

		pkt, n, err := Decode(d.buf)
		switch {
		case err == nil:
			out = append(out, Decoded{Packet: pkt})
			d.buf = d.buf[n:]
		case errors.Is(err, ErrIncompleteFrame):
			return out
		case errors.Is(err, ErrChecksumMismatch):
			out = append(out, Decoded{Raw: append([]byte(nil), d.buf[:n]...), Err: err})
			d.buf = d.buf[len(magic):]
		default:
			if n <= 0 {
				n = len(magic)
			}
			out = append(out, Decoded{Raw: append([]byte(nil), d.buf[:n]...), Err: err})
			d.buf = d.buf[n:]
		}
	}
	return out
}

// indexMagic 返回缓冲区中下一个 magic 开始位置
func indexMagic(b []byte) int {
	return bytes.Index(b, magic)
}
