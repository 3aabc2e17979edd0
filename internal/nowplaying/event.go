package nowplaying

import (
	"time"

	"github.com/google/uuid"

	"github.com/taoyao-code/blueplayer/internal/playback"
)

// EventType 事件类型
type EventType string

const (
	// EventPlayerConnected 播放器连接
	EventPlayerConnected EventType = "player.connected"
	// EventPlayerDisconnected 播放器断开
	EventPlayerDisconnected EventType = "player.disconnected"
	// EventTrackChanged 曲目变化
	EventTrackChanged EventType = "track.changed"
	// EventStatusChanged 播放状态变化
	EventStatusChanged EventType = "status.changed"
	// EventStateUpdated 其它状态刷新
	EventStateUpdated EventType = "state.updated"
)

// Event 当前播放事件
type Event struct {
	EventID   string            `json:"event_id"` // 事件唯一ID（用于去重）
	EventType EventType         `json:"event_type"`
	Instance  string            `json:"instance"`  // 实例ID
	Timestamp int64             `json:"timestamp"` // Unix毫秒
	Data      playback.Snapshot `json:"data"`
}

// NewEvent 创建事件
func NewEvent(t EventType, instance string, snap playback.Snapshot, now time.Time) *Event {
	return &Event{
		EventID:   uuid.NewString(),
		EventType: t,
		Instance:  instance,
		Timestamp: now.UnixMilli(),
		Data:      snap,
	}
}

// Classify 与上一次发布的快照比较得到事件类型；prev 为空视为首次
func Classify(prev *playback.Snapshot, cur playback.Snapshot) EventType {
	if prev == nil || prev.Connected != cur.Connected {
		if cur.Connected {
			return EventPlayerConnected
		}
		return EventPlayerDisconnected
	}
	if prev.Title != cur.Title || prev.Artist != cur.Artist || prev.Album != cur.Album || prev.LengthMs != cur.LengthMs {
		return EventTrackChanged
	}
	if prev.Status != cur.Status {
		return EventStatusChanged
	}
	return EventStateUpdated
}
