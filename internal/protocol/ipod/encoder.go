package ipod

import "fmt"

// Build 构造一帧下行数据（与 Parse 对应）。
// 编码前检查 mode/命令号已登记且参数变体与布局匹配，字符串字段须为不含 NUL 的 ASCII。
func Build(cmd Command) ([]byte, error) {
	if cmd == nil {
		return nil, fmt.Errorf("%w: nil command", ErrInvalidFrame)
	}
	if err := modeTable.Check(cmd.Mode(), cmd); err != nil {
		return nil, err
	}
	w := NewWriter(32)
	w.PutBytes(magic)
	w.PutUint8(0) // length 占位
	w.PutUint8(uint8(cmd.Mode()))
	if err := cmd.encode(w); err != nil {
		return nil, err
	}
	buf := w.Bytes()
	bodyLen := len(buf) - headerLen
	if bodyLen > maxBodyLen {
		return nil, fmt.Errorf("%w: body %d bytes exceeds %d", ErrInvalidFrame, bodyLen, maxBodyLen)
	}
	buf[2] = byte(bodyLen)
	buf = append(buf, ChecksumRange(buf, checksumStart, len(buf), 0))
	return buf, nil
}
