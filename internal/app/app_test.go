package app

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/taoyao-code/blueplayer/internal/bridge"
	cfgpkg "github.com/taoyao-code/blueplayer/internal/config"
	"github.com/taoyao-code/blueplayer/internal/httpserver"
)

func TestBridgeOptions(t *testing.T) {
	cfg := cfgpkg.IpodConfig{Name: "Car", Type: 11, ScreenWidth: 160, ScreenHeight: 128, PollInterval: time.Second}
	opts, err := BridgeOptions(cfg, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, "Car", opts.IpodName)
	assert.Equal(t, uint16(11), opts.IpodType)
	assert.Equal(t, time.Second, opts.PollInterval)
	assert.Nil(t, opts.Buttons)

	path := filepath.Join(t.TempDir(), "buttons.yaml")
	require.NoError(t, os.WriteFile(path, []byte("buttons:\n  play_pause: next\n"), 0o600))
	cfg.ButtonMap = path
	opts, err = BridgeOptions(cfg, zap.NewNop())
	require.NoError(t, err)
	require.NotNil(t, opts.Buttons)
	assert.Equal(t, bridge.ActionNext, opts.Buttons.Buttons["play_pause"])

	cfg.ButtonMap = filepath.Join(t.TempDir(), "missing.yaml")
	_, err = BridgeOptions(cfg, zap.NewNop())
	assert.Error(t, err)
}

func TestSerialConfig(t *testing.T) {
	got := SerialConfig(cfgpkg.SerialConfig{Port: "/dev/ttyUSB0", BaudRate: 57600, WriteQueue: 8, WriteRate: 50})
	assert.Equal(t, "/dev/ttyUSB0", got.Port)
	assert.Equal(t, 57600, got.BaudRate)
	assert.Equal(t, 8, got.WriteQueue)
	assert.Equal(t, 50, got.WriteRate)
}

func TestGenerateInstanceID(t *testing.T) {
	t.Setenv(EnvInstanceID, "")
	id := GenerateInstanceID("blueplayer")
	assert.True(t, strings.HasPrefix(id, "blueplayer-"))
	assert.NotEqual(t, id, GenerateInstanceID("blueplayer"))

	t.Setenv(EnvInstanceID, "car-1")
	assert.Equal(t, "car-1", GenerateInstanceID("blueplayer"))
}

func TestOptionalComponents(t *testing.T) {
	assert.Nil(t, NewHTTPServer(cfgpkg.HTTPConfig{Enable: false}, httpserver.Options{}))
	assert.NotNil(t, NewHTTPServer(cfgpkg.HTTPConfig{Enable: true, Addr: ":0"}, httpserver.Options{}))

	client, err := NewRedisClient(cfgpkg.RedisConfig{Enabled: false}, zap.NewNop())
	require.NoError(t, err)
	assert.Nil(t, client)

	assert.Nil(t, NewNowPlayingPublisher(cfgpkg.NowPlayingConfig{Enable: false}, nil, "id", nil, zap.NewNop()))
	assert.Nil(t, NewNowPlayingPublisher(cfgpkg.NowPlayingConfig{Enable: true}, nil, "id", nil, zap.NewNop()))
}
