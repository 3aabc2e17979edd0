package player

import (
	"context"
	"errors"
	"strings"
)

// BlueZ 接口名
const (
	BluezService       = "org.bluez"
	IfaceDevice        = BluezService + ".Device1"
	IfaceMediaControl  = BluezService + ".MediaControl1"
	IfaceMediaPlayer   = BluezService + ".MediaPlayer1"
	ifaceProperties    = "org.freedesktop.DBus.Properties"
	ifaceObjectManager = "org.freedesktop.DBus.ObjectManager"
)

// MediaPlayer1 属性名
const (
	PropTrack     = "Track"
	PropStatus    = "Status"
	PropPosition  = "Position"
	PropShuffle   = "Shuffle"
	PropRepeat    = "Repeat"
	PropConnected = "Connected"
	PropDevice    = "Device"
	PropAlias     = "Alias"
)

// ErrNoPlayer 当前没有已连接的媒体播放器
var ErrNoPlayer = errors.New("no media player connected")

// Event 属性变更事件（PropertiesChanged）
type Event struct {
	Interface   string
	Path        string
	Changed     map[string]any
	Invalidated []string
}

// Short 接口短名（Device1 / MediaControl1 / MediaPlayer1）
func (e Event) Short() string {
	if i := strings.LastIndexByte(e.Interface, '.'); i >= 0 {
		return e.Interface[i+1:]
	}
	return e.Interface
}

// Snapshot 已连接播放器的属性快照
type Snapshot struct {
	Path       string
	Device     string
	Alias      string
	Properties map[string]any
}

// Controller 播放控制
type Controller interface {
	Play(ctx context.Context) error
	Pause(ctx context.Context) error
	Next(ctx context.Context) error
	Previous(ctx context.Context) error
	FastForward(ctx context.Context) error
	Rewind(ctx context.Context) error
}

// Player 播放器边界：控制 + 查询当前播放器
type Player interface {
	Controller
	// FindPlayer 查找当前已连接的播放器，没有时返回 ErrNoPlayer
	FindPlayer(ctx context.Context) (*Snapshot, error)
}
