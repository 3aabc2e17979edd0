package playback

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock { return &fakeClock{now: time.Unix(1_700_000_000, 0)} }

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func TestElapsed_ExtrapolateAndFreeze(t *testing.T) {
	clk := newFakeClock()
	s := New(clk)
	require.NoError(t, s.SetStatusLabel(LabelPlaying))
	s.SetPosition(10_000)
	t0 := clk.Now()
	assert.Equal(t, ElapsedInfo{Last: 10_000, Anchor: t0}, s.ElapsedInfo())

	clk.Advance(5 * time.Second)
	assert.Equal(t, uint32(15_000), s.Elapsed())

	require.NoError(t, s.SetStatusLabel(LabelPaused))
	assert.Equal(t, ElapsedInfo{Last: 15_000}, s.ElapsedInfo())

	clk.Advance(time.Minute)
	assert.Equal(t, uint32(15_000), s.Elapsed())
	assert.Equal(t, StatusPaused, s.Status())
}

func TestSetStatusLabel_Transitions(t *testing.T) {
	clk := newFakeClock()
	s := New(clk)
	assert.Equal(t, StatusStopped, s.Status())

	// Stopped -> Playing 建立锚点
	require.NoError(t, s.SetStatusLabel(LabelPlaying))
	first := s.ElapsedInfo()
	require.True(t, first.Anchored())
	assert.Equal(t, uint32(0), first.Last)

	// 再次 playing 不重置锚点
	clk.Advance(2 * time.Second)
	require.NoError(t, s.SetStatusLabel(LabelPlaying))
	assert.Equal(t, first, s.ElapsedInfo())
	assert.Equal(t, uint32(2_000), s.Elapsed())

	// Playing -> Stopped 冻结外推值
	clk.Advance(time.Second)
	require.NoError(t, s.SetStatusLabel(LabelStopped))
	assert.Equal(t, ElapsedInfo{Last: 3_000}, s.ElapsedInfo())
	assert.Equal(t, StatusStopped, s.Status())

	// Stopped -> Paused 无锚点，保持原值
	require.NoError(t, s.SetStatusLabel(LabelPaused))
	assert.Equal(t, ElapsedInfo{Last: 3_000}, s.ElapsedInfo())

	// Paused -> Playing 从冻结值继续
	require.NoError(t, s.SetStatusLabel(LabelPlaying))
	clk.Advance(500 * time.Millisecond)
	assert.Equal(t, uint32(3_500), s.Elapsed())
}

func TestSetStatus_Invalid(t *testing.T) {
	s := New(newFakeClock())
	require.NoError(t, s.SetStatusLabel(LabelPaused))

	assert.ErrorIs(t, s.SetStatusLabel("forward-seek"), ErrInvalidStatus)
	assert.ErrorIs(t, s.SetStatusLabel(""), ErrInvalidStatus)
	assert.ErrorIs(t, s.SetStatus(Status(7)), ErrInvalidStatus)
	assert.Equal(t, StatusPaused, s.Status(), "failed assignment leaves status untouched")
}

func TestSetStatus_PassThrough(t *testing.T) {
	clk := newFakeClock()
	s := New(clk)
	s.SetPosition(1_000)

	require.NoError(t, s.SetStatus(StatusPlaying))
	assert.Equal(t, StatusPlaying, s.Status())
	assert.Equal(t, ElapsedInfo{Last: 1_000}, s.ElapsedInfo(), "enum assignment does not touch elapsed info")
}

func TestSetPosition(t *testing.T) {
	clk := newFakeClock()
	s := New(clk)

	s.SetPosition(42_000)
	assert.Equal(t, ElapsedInfo{Last: 42_000}, s.ElapsedInfo())
	assert.Equal(t, StatusStopped, s.Status())

	require.NoError(t, s.SetStatusLabel(LabelPlaying))
	clk.Advance(time.Second)
	s.SetPosition(60_000)
	assert.Equal(t, ElapsedInfo{Last: 60_000, Anchor: clk.Now()}, s.ElapsedInfo())
}

func TestResetElapsed(t *testing.T) {
	clk := newFakeClock()
	s := New(clk)
	s.SetPosition(9_000)
	s.ResetElapsed()
	assert.Equal(t, ElapsedInfo{}, s.ElapsedInfo())

	require.NoError(t, s.SetStatusLabel(LabelPlaying))
	clk.Advance(4 * time.Second)
	s.ResetElapsed()
	clk.Advance(time.Second)
	assert.Equal(t, uint32(1_000), s.Elapsed())
}

func TestSetConnected_FreezesOnDisconnect(t *testing.T) {
	clk := newFakeClock()
	s := New(clk)
	s.SetConnected(true)
	require.NoError(t, s.SetStatusLabel(LabelPlaying))
	clk.Advance(7 * time.Second)

	s.SetConnected(false)
	assert.False(t, s.Connected())
	assert.Equal(t, StatusStopped, s.Status())
	assert.Equal(t, ElapsedInfo{Last: 7_000}, s.ElapsedInfo())
}

func TestElapsed_ClockGoingBackwards(t *testing.T) {
	clk := newFakeClock()
	s := New(clk)
	require.NoError(t, s.SetStatusLabel(LabelPlaying))
	s.SetPosition(500)
	clk.Advance(-time.Second)
	assert.Equal(t, uint32(500), s.Elapsed())
}

func TestAnchorInvariant_Concurrent(t *testing.T) {
	clk := newFakeClock()
	s := New(clk)
	labels := []string{LabelPlaying, LabelPaused, LabelStopped}

	var wg sync.WaitGroup
	for g := 0; g < 4; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 500; i++ {
				switch (g + i) % 4 {
				case 0, 1:
					_ = s.SetStatusLabel(labels[(g+i)%3])
				case 2:
					s.SetPosition(uint32(i * 100))
				default:
					s.ResetElapsed()
				}
				clk.Advance(time.Millisecond)
			}
		}(g)
	}
	for i := 0; i < 500; i++ {
		snap := s.Snapshot()
		assert.Equal(t, snap.Status == LabelPlaying, snap.Anchored, "anchor present iff playing")
	}
	wg.Wait()

	snap := s.Snapshot()
	assert.Equal(t, snap.Status == LabelPlaying, snap.Anchored)
}

func TestStatus_String(t *testing.T) {
	assert.Equal(t, "playing", StatusPlaying.String())
	assert.Equal(t, "Status(9)", Status(9).String())
	assert.True(t, StatusPaused.Valid())
	assert.False(t, Status(3).Valid())
}
