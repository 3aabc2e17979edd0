package playback

import (
	"fmt"
	"math"
	"sync"
	"time"
)

// Clock 单调时钟（time.Now 返回值携带单调读数，Sub 不受墙钟跳变影响）
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// ElapsedInfo 最近一次已知的播放进度（毫秒）与其对应的锚点时刻，Anchor 为零值表示未锚定
type ElapsedInfo struct {
	Last   uint32
	Anchor time.Time
}

// Anchored 是否需要外推
func (e ElapsedInfo) Anchored() bool { return !e.Anchor.IsZero() }

// State 播放状态机：状态、进度锚点、当前曲目以及 AiR 会话相关的镜像状态，全部由一把锁保护
type State struct {
	mu      sync.RWMutex
	clock   Clock
	status  Status
	elapsed ElapsedInfo
	track   map[string]any

	connected bool
	alias     string
	shuffle   uint8
	repeat    uint8
	polling   bool
	remote    bool
}

// New 创建状态机，clock 为空时使用系统时钟
func New(clock Clock) *State {
	if clock == nil {
		clock = systemClock{}
	}
	return &State{clock: clock, status: StatusStopped, track: map[string]any{}}
}

// Status 当前状态
func (s *State) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status
}

// SetStatusLabel 按播放器标签切换状态并维护进度锚点：
// playing 在未锚定时以当前外推值建立锚点；paused/stopped 在已锚定时冻结外推值并清除锚点。
func (s *State) SetStatusLabel(label string) error {
	next, err := ParseLabel(label)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.clock.Now()
	switch next {
	case StatusPlaying:
		if !s.elapsed.Anchored() {
			s.elapsed = ElapsedInfo{Last: s.elapsedAt(now), Anchor: now}
		}
	default:
		if s.elapsed.Anchored() {
			s.elapsed = ElapsedInfo{Last: s.elapsedAt(now)}
		}
	}
	s.status = next
	return nil
}

// SetStatus 直接写入枚举值，不触碰进度锚点
func (s *State) SetStatus(v Status) error {
	if !v.Valid() {
		return fmt.Errorf("%w: %d", ErrInvalidStatus, uint8(v))
	}
	s.mu.Lock()
	s.status = v
	s.mu.Unlock()
	return nil
}

// Elapsed 当前播放进度（毫秒），已锚定时按单调时钟外推
func (s *State) Elapsed() uint32 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.elapsedAt(s.clock.Now())
}

// ElapsedInfo 进度原始记录
func (s *State) ElapsedInfo() ElapsedInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.elapsed
}

func (s *State) elapsedAt(now time.Time) uint32 {
	if !s.elapsed.Anchored() {
		return s.elapsed.Last
	}
	d := now.Sub(s.elapsed.Anchor).Milliseconds()
	if d < 0 {
		d = 0
	}
	total := int64(s.elapsed.Last) + d
	if total > math.MaxUint32 {
		return math.MaxUint32
	}
	return uint32(total)
}

// SetPosition 播放器上报的进度：播放中以当前时刻为锚点，否则只更新冻结值
func (s *State) SetPosition(ms uint32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status == StatusPlaying {
		s.elapsed = ElapsedInfo{Last: ms, Anchor: s.clock.Now()}
		return
	}
	s.elapsed = ElapsedInfo{Last: ms}
}

// ResetElapsed 切歌后进度归零
func (s *State) ResetElapsed() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status == StatusPlaying {
		s.elapsed = ElapsedInfo{Anchor: s.clock.Now()}
		return
	}
	s.elapsed = ElapsedInfo{}
}

// SetConnected 更新播放器连接状态；断开时冻结进度并置为停止
func (s *State) SetConnected(connected bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.connected = connected
	if connected {
		return
	}
	if s.elapsed.Anchored() {
		s.elapsed = ElapsedInfo{Last: s.elapsedAt(s.clock.Now())}
	}
	s.status = StatusStopped
}

// Connected 播放器是否已连接
func (s *State) Connected() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.connected
}

// SetAlias 记录蓝牙设备别名
func (s *State) SetAlias(alias string) {
	s.mu.Lock()
	s.alias = alias
	s.mu.Unlock()
}

// Alias 蓝牙设备别名
func (s *State) Alias() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.alias
}
