package bridge

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/taoyao-code/blueplayer/internal/protocol/ipod"
)

// buttonCodes 简易遥控按键名 -> 按键位图
var buttonCodes = map[string][]byte{
	"play_pause":    ipod.ButtonPlayPause,
	"volume_up":     ipod.ButtonVolumeUp,
	"volume_down":   ipod.ButtonVolumeDown,
	"next_song":     ipod.ButtonNextSong,
	"prev_song":     ipod.ButtonPrevSong,
	"next_album":    ipod.ButtonNextAlbum,
	"prev_album":    ipod.ButtonPrevAlbum,
	"stop":          ipod.ButtonStop,
	"play":          ipod.ButtonPlay,
	"pause":         ipod.ButtonPause,
	"mute":          ipod.ButtonMute,
	"next_playlist": ipod.ButtonNextPlaylist,
	"prev_playlist": ipod.ButtonPrevPlaylist,
	"shuffle":       ipod.ButtonShuffle,
	"repeat":        ipod.ButtonRepeat,
	"ipod_off":      ipod.ButtonIpodOff,
	"ipod_on":       ipod.ButtonIpodOn,
	"menu":          ipod.ButtonMenu,
	"ok_select":     ipod.ButtonOKSelect,
}

// ButtonMap 简易遥控按键 -> 播放动作
type ButtonMap struct {
	Buttons map[string]Action `yaml:"buttons"`
}

// DefaultButtonMap 默认按键映射
func DefaultButtonMap() *ButtonMap {
	return &ButtonMap{
		Buttons: map[string]Action{
			"play_pause": ActionPlayPause,
			"play":       ActionPlay,
			"pause":      ActionPause,
			"stop":       ActionStop,
			"next_song":  ActionNext,
			"prev_song":  ActionPrevious,
			"next_album": ActionNext,
			"prev_album": ActionPrevious,
		},
	}
}

// LoadButtonMap 从 YAML 文件加载按键映射
func LoadButtonMap(path string) (*ButtonMap, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read button map: %w", err)
	}
	var m ButtonMap
	if err := yaml.Unmarshal(b, &m); err != nil {
		return nil, fmt.Errorf("unmarshal button map: %w", err)
	}
	if m.Buttons == nil {
		m.Buttons = make(map[string]Action)
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// Validate 检查按键名与动作均已定义
func (m *ButtonMap) Validate() error {
	for name, a := range m.Buttons {
		if _, ok := buttonCodes[name]; !ok {
			return fmt.Errorf("button map: unknown button %q", name)
		}
		if !a.Valid() {
			return fmt.Errorf("button map: %w: %q for %s", ErrUnknownAction, string(a), name)
		}
	}
	return nil
}

// Lookup 按键位图 -> 动作；全零（松开）返回 ActionNone
func (m *ButtonMap) Lookup(buttons []byte) (Action, bool) {
	pressed := bytes.TrimRight(buttons, "\x00")
	if len(pressed) == 0 {
		return ActionNone, true
	}
	if m == nil {
		return "", false
	}
	for name, a := range m.Buttons {
		if bytes.Equal(bytes.TrimRight(buttonCodes[name], "\x00"), pressed) {
			return a, true
		}
	}
	return "", false
}
