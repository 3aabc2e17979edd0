package bridge

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/taoyao-code/blueplayer/internal/playback"
	"github.com/taoyao-code/blueplayer/internal/player"
	"github.com/taoyao-code/blueplayer/internal/protocol/ipod"
)

func TestOnPlayerEvent_BatchOrder(t *testing.T) {
	f := newFixture(t)
	// 同一批中 Status 先于 Position 应用，Position 才能带上锚点
	f.playing(t, map[string]any{"Title": "A"}, 10_000)

	info := f.state.ElapsedInfo()
	assert.Equal(t, playback.StatusPlaying, f.state.Status())
	assert.Equal(t, uint32(10_000), info.Last)
	assert.True(t, info.Anchored())

	f.display.mu.Lock()
	require.NotEmpty(t, f.display.snaps)
	assert.Equal(t, "A", f.display.snaps[len(f.display.snaps)-1].Title)
	f.display.mu.Unlock()
}

func TestOnPlayerEvent_PositionWhilePaused(t *testing.T) {
	f := newFixture(t)
	f.bridge.OnPlayerEvent(context.Background(), player.Event{
		Interface: player.IfaceMediaPlayer,
		Changed:   map[string]any{player.PropStatus: "paused", player.PropPosition: uint32(42_000)},
	})
	assert.Equal(t, playback.ElapsedInfo{Last: 42_000}, f.state.ElapsedInfo())
	assert.Equal(t, playback.StatusPaused, f.state.Status())
}

func TestOnPlayerEvent_InvalidStatus(t *testing.T) {
	f := newFixture(t)
	f.bridge.OnPlayerEvent(context.Background(), player.Event{
		Interface: player.IfaceMediaPlayer,
		Changed:   map[string]any{player.PropStatus: "paused"},
	})
	f.bridge.OnPlayerEvent(context.Background(), player.Event{
		Interface: player.IfaceMediaPlayer,
		Changed:   map[string]any{player.PropStatus: "forward-seek"},
	})
	assert.Equal(t, playback.StatusPaused, f.state.Status())
}

func TestOnPlayerEvent_StatusOnlyRefreshesDisplay(t *testing.T) {
	f := newFixture(t)
	f.playing(t, map[string]any{"Title": "A"}, 0)
	f.bridge.OnPlayerEvent(context.Background(), player.Event{
		Interface: player.IfaceMediaPlayer,
		Changed:   map[string]any{player.PropStatus: "paused"},
	})

	f.display.mu.Lock()
	defer f.display.mu.Unlock()
	require.Len(t, f.display.snaps, 2)
	assert.Equal(t, "playing", f.display.snaps[0].Status)
	assert.Equal(t, "paused", f.display.snaps[1].Status)
	assert.Equal(t, "A", f.display.snaps[1].Title)
}

func TestOnPlayerEvent_SeekStatusNotRefreshed(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	state := playback.New(&fakeClock{now: time.Unix(1_700_000_000, 0)})
	display := &recordingDisplay{}
	br := New(state, &fakePlayer{}, &fakeSender{}, display, nil, zap.New(core), Options{})
	t.Cleanup(br.Stop)

	br.OnPlayerEvent(context.Background(), player.Event{
		Interface: player.IfaceMediaPlayer,
		Changed:   map[string]any{player.PropStatus: "playing"},
	})
	br.OnPlayerEvent(context.Background(), player.Event{
		Interface: player.IfaceMediaPlayer,
		Changed:   map[string]any{player.PropStatus: "forward-seek"},
	})
	br.OnPlayerEvent(context.Background(), player.Event{
		Interface: player.IfaceMediaPlayer,
		Changed:   map[string]any{player.PropStatus: "bogus"},
	})

	assert.Equal(t, playback.StatusPlaying, state.Status())
	display.mu.Lock()
	assert.Len(t, display.snaps, 1)
	display.mu.Unlock()
	assert.Equal(t, 1, logs.FilterLevelExact(zap.DebugLevel).FilterMessage("player seeking, status unchanged").Len())
	assert.Equal(t, 1, logs.FilterLevelExact(zap.ErrorLevel).FilterMessage("player reported invalid status").Len())
}

func TestOnPlayerEvent_Disconnect(t *testing.T) {
	f := newFixture(t)
	f.bridge.OnPlayerEvent(context.Background(), player.Event{
		Interface: player.IfaceDevice,
		Changed:   map[string]any{player.PropConnected: true},
	})
	f.playing(t, nil, 0)
	f.clock.Advance(3 * time.Second)
	require.NoError(t, f.air(t, ipod.AirSetPollingMode, &ipod.Uint8Param{Value: ipod.PollingStart}))

	f.bridge.OnPlayerEvent(context.Background(), player.Event{
		Interface: player.IfaceDevice,
		Changed:   map[string]any{player.PropConnected: false},
	})
	assert.False(t, f.state.Connected())
	assert.Equal(t, playback.StatusStopped, f.state.Status())
	assert.Equal(t, playback.ElapsedInfo{Last: 3_000}, f.state.ElapsedInfo())
	assert.False(t, f.bridge.Polling())
}

func TestOnPlayerEvent_MediaControlConnectFindsPlayer(t *testing.T) {
	f := newFixture(t)
	f.player.snap = &player.Snapshot{
		Path:  "/org/bluez/hci0/dev_AA/player0",
		Alias: "Pixel",
		Properties: map[string]any{
			player.PropStatus:   "paused",
			player.PropPosition: uint32(5_000),
			player.PropTrack:    map[string]any{"Title": "Hello"},
		},
	}
	f.bridge.OnPlayerEvent(context.Background(), player.Event{
		Interface: player.IfaceMediaControl,
		Changed:   map[string]any{player.PropConnected: true},
	})

	assert.Equal(t, 1, f.player.finds)
	snap := f.state.Snapshot()
	assert.True(t, snap.Connected)
	assert.Equal(t, "Pixel", snap.Device)
	assert.Equal(t, "Hello", snap.Title)
	assert.Equal(t, "paused", snap.Status)
	assert.Equal(t, uint32(5_000), snap.ElapsedMs)

	require.NoError(t, f.air(t, ipod.AirGetIpodName, nil))
	assert.Equal(t, ipod.NewAir(ipod.AirResIpodName, &ipod.StringParam{Text: "Pixel"}), f.sender.Last())
}

func TestStart_NoPlayer(t *testing.T) {
	f := newFixture(t)
	f.bridge.Start(context.Background())
	assert.Equal(t, 1, f.player.finds)
	assert.False(t, f.state.Connected())

	f.display.mu.Lock()
	defer f.display.mu.Unlock()
	require.Len(t, f.display.snaps, 1)
	assert.False(t, f.display.snaps[0].Connected)
}
