package bridge

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/taoyao-code/blueplayer/internal/playback"
	"github.com/taoyao-code/blueplayer/internal/player"
	"github.com/taoyao-code/blueplayer/internal/protocol/ipod"
)

// OnPlayerEvent 处理播放器属性变更事件
func (b *Bridge) OnPlayerEvent(ctx context.Context, ev player.Event) {
	if b.metrics != nil {
		b.metrics.PlayerEventTotal.WithLabelValues(ev.Short()).Inc()
	}
	switch ev.Short() {
	case "Device1":
		if v, ok := ev.Changed[player.PropConnected].(bool); ok {
			b.setConnected(v)
		}
	case "MediaControl1":
		if v, ok := ev.Changed[player.PropConnected].(bool); ok {
			b.setConnected(v)
			if v {
				if err := b.Sync(ctx); err != nil && !errors.Is(err, player.ErrNoPlayer) {
					b.logger.Warn("find player failed", zap.Error(err))
				}
				b.refresh()
			}
		}
	case "MediaPlayer1":
		b.applyProperties(ev.Changed)
	}
}

func (b *Bridge) setConnected(on bool) {
	was := b.state.Connected()
	b.state.SetConnected(on)
	b.setConnectedGauge(on)
	if was && !on {
		b.logger.Info("media player disconnected")
		b.stopPolling()
		b.setStatusGauge()
		b.refresh()
	}
}

// applyProperties 按 Track -> Status -> Position -> 其余 的顺序应用一批属性，
// 整批应用完后若 Track 或 Status 有变化则刷新一次显示
func (b *Bridge) applyProperties(props map[string]any) {
	changed := false
	if track, ok := props[player.PropTrack].(map[string]any); ok {
		b.state.SetTrack(track)
		changed = true
	}
	if v, ok := props[player.PropStatus]; ok {
		label, _ := v.(string)
		if err := b.state.SetStatusLabel(label); err != nil {
			b.logInvalidStatus(label, v, err)
		} else {
			changed = true
		}
		b.setStatusGauge()
	}
	if v, ok := props[player.PropPosition]; ok {
		if ms, ok := playback.ToUint32(v); ok {
			b.state.SetPosition(ms)
		}
	}
	if v, ok := props[player.PropShuffle].(string); ok {
		b.state.SetShuffle(shuffleFromPlayer(v))
	}
	if v, ok := props[player.PropRepeat].(string); ok {
		b.state.SetRepeat(repeatFromPlayer(v))
	}
	if changed {
		b.refresh()
	}
}

// forward-seek / reverse-seek 是快进快退期间播放器的正常上报，状态保持不变
func (b *Bridge) logInvalidStatus(label string, raw any, err error) {
	switch label {
	case statusForwardSeek, statusReverseSeek:
		b.logger.Debug("player seeking, status unchanged", zap.String("status", label))
	default:
		b.logger.Error("player reported invalid status", zap.Any("status", raw), zap.Error(err))
	}
}

func (b *Bridge) setStatusGauge() {
	if b.metrics != nil {
		b.metrics.PlaybackStatus.Set(float64(b.state.Status()))
	}
}

const (
	statusForwardSeek = "forward-seek"
	statusReverseSeek = "reverse-seek"
)

// BlueZ Shuffle: off | alltracks | group
func shuffleFromPlayer(v string) uint8 {
	switch v {
	case "alltracks":
		return ipod.ShuffleSongs
	case "group":
		return ipod.ShuffleAlbums
	}
	return ipod.ShuffleOff
}

// BlueZ Repeat: off | singletrack | alltracks | group
func repeatFromPlayer(v string) uint8 {
	switch v {
	case "singletrack":
		return ipod.RepeatOne
	case "alltracks", "group":
		return ipod.RepeatAll
	}
	return ipod.RepeatOff
}
