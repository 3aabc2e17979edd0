package bridge

import (
	"context"
	"errors"
	"fmt"

	"github.com/taoyao-code/blueplayer/internal/playback"
)

// ErrUnknownAction 未定义的播放动作
var ErrUnknownAction = errors.New("unknown action")

// Action 主机侧按键/PLAYBACK_CONTROL 映射到的播放动作
type Action string

const (
	ActionNone        Action = "none"
	ActionPlay        Action = "play"
	ActionPause       Action = "pause"
	ActionPlayPause   Action = "play_pause"
	ActionStop        Action = "stop"
	ActionNext        Action = "next"
	ActionPrevious    Action = "previous"
	ActionFastForward Action = "fast_forward"
	ActionRewind      Action = "rewind"
	ActionStopFFRW    Action = "stop_ff_rw"
)

// Valid 是否为已定义动作
func (a Action) Valid() bool {
	switch a {
	case ActionNone, ActionPlay, ActionPause, ActionPlayPause, ActionStop,
		ActionNext, ActionPrevious, ActionFastForward, ActionRewind, ActionStopFFRW:
		return true
	}
	return false
}

// Do 执行播放动作。
// 播放器没有 stop 接口，stop 以 pause 代替；stop_ff_rw 即恢复播放；切歌后进度归零。
func (b *Bridge) Do(ctx context.Context, a Action) error {
	var err error
	switch a {
	case ActionNone:
		return nil
	case ActionPlay, ActionStopFFRW:
		err = b.player.Play(ctx)
	case ActionPause, ActionStop:
		err = b.player.Pause(ctx)
	case ActionPlayPause:
		if b.state.Status() == playback.StatusPlaying {
			err = b.player.Pause(ctx)
		} else {
			err = b.player.Play(ctx)
		}
	case ActionNext:
		if err = b.player.Next(ctx); err == nil {
			b.state.ResetElapsed()
		}
	case ActionPrevious:
		if err = b.player.Previous(ctx); err == nil {
			b.state.ResetElapsed()
		}
	case ActionFastForward:
		err = b.player.FastForward(ctx)
	case ActionRewind:
		err = b.player.Rewind(ctx)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownAction, string(a))
	}

	if b.metrics != nil {
		result := "ok"
		if err != nil {
			result = "error"
		}
		b.metrics.PlayerCallTotal.WithLabelValues(string(a), result).Inc()
	}
	if err != nil {
		return fmt.Errorf("player %s: %w", a, err)
	}
	return nil
}

// playbackActions PLAYBACK_CONTROL 子命令 -> 动作
var playbackActions = map[uint8]Action{
	0x01: ActionPlayPause,
	0x02: ActionStop,
	0x03: ActionNext,
	0x04: ActionPrevious,
	0x05: ActionFastForward,
	0x06: ActionRewind,
	0x07: ActionStopFFRW,
}
