package playback

import (
	"errors"
	"fmt"
)

// ErrInvalidStatus 状态赋值既不是已知标签也不是已知枚举值
var ErrInvalidStatus = errors.New("invalid status")

// Status 协议可见的播放状态，取值与 RES_TIME_STATUS 的 status 字节一致
type Status uint8

const (
	StatusStopped Status = 0x00
	StatusPlaying Status = 0x01
	StatusPaused  Status = 0x02
)

// 播放器上报的状态标签
const (
	LabelPlaying = "playing"
	LabelPaused  = "paused"
	LabelStopped = "stopped"
)

func (s Status) String() string {
	switch s {
	case StatusStopped:
		return LabelStopped
	case StatusPlaying:
		return LabelPlaying
	case StatusPaused:
		return LabelPaused
	default:
		return fmt.Sprintf("Status(%d)", uint8(s))
	}
}

// Valid 是否为已知枚举值
func (s Status) Valid() bool { return s <= StatusPaused }

// ParseLabel 标签 -> 枚举
func ParseLabel(label string) (Status, error) {
	switch label {
	case LabelPlaying:
		return StatusPlaying, nil
	case LabelPaused:
		return StatusPaused, nil
	case LabelStopped:
		return StatusStopped, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidStatus, label)
}
