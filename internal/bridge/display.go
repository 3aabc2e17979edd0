package bridge

import (
	"go.uber.org/zap"

	"github.com/taoyao-code/blueplayer/internal/playback"
)

// Display 曲目变化时刷新的展示端
type Display interface {
	Refresh(snap playback.Snapshot)
}

// Displays 多个展示端依次刷新
type Displays []Display

func (ds Displays) Refresh(snap playback.Snapshot) {
	for _, d := range ds {
		if d != nil {
			d.Refresh(snap)
		}
	}
}

// LogDisplay 以日志形式输出当前曲目
type LogDisplay struct {
	Logger *zap.Logger
}

func (d LogDisplay) Refresh(snap playback.Snapshot) {
	if d.Logger == nil {
		return
	}
	if !snap.Connected {
		d.Logger.Info("waiting for media player")
		return
	}
	d.Logger.Info("now playing",
		zap.String("device", snap.Device),
		zap.String("artist", snap.Artist),
		zap.String("title", snap.Title),
		zap.String("album", snap.Album),
		zap.String("status", snap.Status))
}
