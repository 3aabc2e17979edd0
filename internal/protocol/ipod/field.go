package ipod

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// Reader 有界读游标：外层帧与内层字段共用，越界读取一律返回 ErrTruncatedFrame
type Reader struct {
	buf []byte
	off int
}

// NewReader 基于 b 创建读游标（不复制）
func NewReader(b []byte) *Reader { return &Reader{buf: b} }

// Len 剩余可读字节数
func (r *Reader) Len() int { return len(r.buf) - r.off }

// Offset 已消费字节数
func (r *Reader) Offset() int { return r.off }

func (r *Reader) need(n int, what string) error {
	if n < 0 || r.Len() < n {
		return fmt.Errorf("%w: %s needs %d bytes, %d left at offset %d", ErrTruncatedFrame, what, n, r.Len(), r.off)
	}
	return nil
}

// Uint8 读取1字节
func (r *Reader) Uint8() (uint8, error) {
	if err := r.need(1, "u8"); err != nil {
		return 0, err
	}
	v := r.buf[r.off]
	r.off++
	return v, nil
}

// Uint16 读取大端2字节
func (r *Reader) Uint16() (uint16, error) {
	if err := r.need(2, "u16"); err != nil {
		return 0, err
	}
	v := binary.BigEndian.Uint16(r.buf[r.off:])
	r.off += 2
	return v, nil
}

// Uint32 读取大端4字节
func (r *Reader) Uint32() (uint32, error) {
	if err := r.need(4, "u32"); err != nil {
		return 0, err
	}
	v := binary.BigEndian.Uint32(r.buf[r.off:])
	r.off += 4
	return v, nil
}

// Uint56 读取大端7字节
func (r *Reader) Uint56() (uint64, error) {
	if err := r.need(7, "u56"); err != nil {
		return 0, err
	}
	var v uint64
	for _, b := range r.buf[r.off : r.off+7] {
		v = v<<8 | uint64(b)
	}
	r.off += 7
	return v, nil
}

// Bytes 读取定长字节序列（返回副本）
func (r *Reader) Bytes(n int) ([]byte, error) {
	if err := r.need(n, "bytes"); err != nil {
		return nil, err
	}
	out := make([]byte, n)
	copy(out, r.buf[r.off:r.off+n])
	r.off += n
	return out, nil
}

// Rest 消费当前有界区域内剩余全部字节（payload 尾部）
func (r *Reader) Rest() []byte {
	out := make([]byte, r.Len())
	copy(out, r.buf[r.off:])
	r.off = len(r.buf)
	return out
}

// Magic 读取并比对固定字节
func (r *Reader) Magic(want []byte) error {
	if err := r.need(len(want), "magic"); err != nil {
		return err
	}
	got := r.buf[r.off : r.off+len(want)]
	if !bytes.Equal(got, want) {
		return fmt.Errorf("%w: magic % X, want % X", ErrInvalidFrame, got, want)
	}
	r.off += len(want)
	return nil
}

// CString 读取以 0x00 结尾的 ASCII 字符串，终止符被消费但不计入结果
func (r *Reader) CString() (string, error) {
	rest := r.buf[r.off:]
	i := bytes.IndexByte(rest, 0x00)
	if i < 0 {
		return "", fmt.Errorf("%w: string terminator not found within %d bytes", ErrTruncatedFrame, len(rest))
	}
	for _, c := range rest[:i] {
		if c > 0x7F {
			return "", fmt.Errorf("%w: non-ascii byte 0x%02X in string", ErrInvalidFrame, c)
		}
	}
	s := string(rest[:i])
	r.off += i + 1
	return s, nil
}

// Sub 切出长度为 n 的子区域并前移游标，子区域读取不会越过 n
func (r *Reader) Sub(n int) (*Reader, error) {
	if err := r.need(n, "region"); err != nil {
		return nil, err
	}
	sub := &Reader{buf: r.buf[r.off : r.off+n]}
	r.off += n
	return sub, nil
}

// Writer 大端字段写入器
type Writer struct {
	buf []byte
}

// NewWriter 创建写入器，capHint 为预估容量
func NewWriter(capHint int) *Writer { return &Writer{buf: make([]byte, 0, capHint)} }

// Bytes 返回已写入内容
func (w *Writer) Bytes() []byte { return w.buf }

// Len 已写入字节数
func (w *Writer) Len() int { return len(w.buf) }

func (w *Writer) PutUint8(v uint8) { w.buf = append(w.buf, v) }

func (w *Writer) PutUint16(v uint16) { w.buf = binary.BigEndian.AppendUint16(w.buf, v) }

func (w *Writer) PutUint32(v uint32) { w.buf = binary.BigEndian.AppendUint32(w.buf, v) }

// PutUint56 写入低56位（7字节大端）
func (w *Writer) PutUint56(v uint64) {
	for i := 6; i >= 0; i-- {
		w.buf = append(w.buf, byte(v>>(8*uint(i))))
	}
}

func (w *Writer) PutBytes(b []byte) { w.buf = append(w.buf, b...) }

// PutCString 写入 ASCII 字符串并追加 0x00 终止符
func (w *Writer) PutCString(s string) error {
	if err := ValidateText(s); err != nil {
		return err
	}
	w.buf = append(w.buf, s...)
	w.buf = append(w.buf, 0x00)
	return nil
}

// ValidateText 检查字符串可作为 StringField 编码：仅 ASCII 且不含 NUL
func ValidateText(s string) error {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == 0x00 {
			return fmt.Errorf("%w: embedded NUL at %d", ErrInvalidString, i)
		}
		if c > 0x7F {
			return fmt.Errorf("%w: non-ascii byte 0x%02X at %d", ErrInvalidString, c, i)
		}
	}
	return nil
}
