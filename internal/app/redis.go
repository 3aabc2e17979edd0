package app

import (
	"go.uber.org/zap"

	cfgpkg "github.com/taoyao-code/blueplayer/internal/config"
	"github.com/taoyao-code/blueplayer/internal/health"
	"github.com/taoyao-code/blueplayer/internal/metrics"
	"github.com/taoyao-code/blueplayer/internal/nowplaying"
	redisstorage "github.com/taoyao-code/blueplayer/internal/storage/redis"
)

// NewRedisClient 创建Redis客户端；未启用时返回 nil
func NewRedisClient(cfg cfgpkg.RedisConfig, logger *zap.Logger) (*redisstorage.Client, error) {
	if !cfg.Enabled {
		logger.Info("redis is disabled, skipping initialization")
		return nil, nil
	}

	client, err := redisstorage.NewClient(cfg)
	if err != nil {
		return nil, err
	}

	logger.Info("redis client initialized",
		zap.String("addr", cfg.Addr),
		zap.Int("pool_size", cfg.PoolSize))

	return client, nil
}

// NewNowPlayingPublisher 创建当前播放发布器；未启用或无 Redis 时返回 nil
func NewNowPlayingPublisher(
	cfg cfgpkg.NowPlayingConfig,
	client *redisstorage.Client,
	instance string,
	appm *metrics.AppMetrics,
	logger *zap.Logger,
) *nowplaying.Publisher {
	if !cfg.Enable {
		return nil
	}
	if client == nil {
		logger.Warn("now playing publisher disabled: redis client not available")
		return nil
	}
	store := redisstorage.NewNowPlayingStore(client, cfg.KeyPrefix, cfg.Channel, cfg.TTL)
	logger.Info("now playing publisher initialized",
		zap.String("key_prefix", cfg.KeyPrefix),
		zap.String("channel", cfg.Channel))
	return nowplaying.NewPublisher(store, instance, cfg.QueueSize, appm, logger.With(zap.String("component", "nowplaying")))
}

// AddRedisChecker 添加Redis检查器到聚合器
func AddRedisChecker(aggregator *health.Aggregator, redisClient *redisstorage.Client) {
	if redisClient != nil {
		aggregator.AddChecker(health.NewRedisChecker(redisClient))
	}
}
