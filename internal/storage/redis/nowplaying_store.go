package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	nowPlayingCurrentKey = "%s:current"   // 最新快照（String，带 TTL）
	nowPlayingDeviceKey  = "%s:device:%s" // 按设备别名保存的最新快照
)

// Cmdable 快照存储用到的 Redis 命令子集（*Client 满足）
type Cmdable interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd
}

// NowPlayingStore 当前播放快照：覆盖写入 + 频道广播
type NowPlayingStore struct {
	client    Cmdable
	keyPrefix string
	channel   string
	ttl       time.Duration
}

// NewNowPlayingStore 创建快照存储
func NewNowPlayingStore(client Cmdable, keyPrefix, channel string, ttl time.Duration) *NowPlayingStore {
	return &NowPlayingStore{client: client, keyPrefix: keyPrefix, channel: channel, ttl: ttl}
}

// CurrentKey 最新快照的键
func (s *NowPlayingStore) CurrentKey() string {
	return fmt.Sprintf(nowPlayingCurrentKey, s.keyPrefix)
}

// DeviceKey 指定设备快照的键
func (s *NowPlayingStore) DeviceKey(device string) string {
	return fmt.Sprintf(nowPlayingDeviceKey, s.keyPrefix, device)
}

// Save 序列化 v 写入当前键（及设备键），再发布到频道
func (s *NowPlayingStore) Save(ctx context.Context, device string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal now playing: %w", err)
	}

	if err := s.client.Set(ctx, s.CurrentKey(), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("set %s: %w", s.CurrentKey(), err)
	}
	if device != "" {
		if err := s.client.Set(ctx, s.DeviceKey(device), data, s.ttl).Err(); err != nil {
			return fmt.Errorf("set %s: %w", s.DeviceKey(device), err)
		}
	}
	if s.channel == "" {
		return nil
	}
	if err := s.client.Publish(ctx, s.channel, data).Err(); err != nil {
		return fmt.Errorf("publish %s: %w", s.channel, err)
	}
	return nil
}
