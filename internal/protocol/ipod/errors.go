package ipod

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidFrame 帧头不匹配、结构非法或存在多余字节
	ErrInvalidFrame = errors.New("invalid frame")
	// ErrChecksumMismatch 校验和与帧尾字节不一致
	ErrChecksumMismatch = errors.New("checksum mismatch")
	// ErrUnknownDiscriminant 模式或 AiR 命令号不在目录中
	ErrUnknownDiscriminant = errors.New("unknown discriminant")
	// ErrTruncatedFrame 有界区域内字段字节不足（如字符串缺少终止符）
	ErrTruncatedFrame = errors.New("truncated frame")
	// ErrIncompleteFrame 半包，需要更多字节才能组成完整帧
	ErrIncompleteFrame = errors.New("incomplete frame")
	// ErrInvalidString 待编码字符串包含 NUL 或非 ASCII 字符
	ErrInvalidString = errors.New("invalid string field")
)

// UnknownDiscriminantError 携带查表失败时的表名与判别值
type UnknownDiscriminantError struct {
	Table string
	Value uint16
}

func (e *UnknownDiscriminantError) Error() string {
	return fmt.Sprintf("%s: unknown %s 0x%04X", ErrUnknownDiscriminant, e.Table, e.Value)
}

func (e *UnknownDiscriminantError) Unwrap() error { return ErrUnknownDiscriminant }

// IsUnknownDiscriminant 判断错误链中是否为未知判别值
func IsUnknownDiscriminant(err error) bool {
	var ud *UnknownDiscriminantError
	return errors.As(err, &ud)
}
