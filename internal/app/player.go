package app

import (
	"go.uber.org/zap"

	cfgpkg "github.com/taoyao-code/blueplayer/internal/config"
	"github.com/taoyao-code/blueplayer/internal/player"
)

// NewPlayer 连接系统总线上的 BlueZ，并为控制调用加上超时与熔断
func NewPlayer(cfg cfgpkg.PlayerConfig, logger *zap.Logger) (*player.Bluez, *player.Guarded, error) {
	bluez, err := player.Dial(logger.With(zap.String("component", "bluez")))
	if err != nil {
		return nil, nil, err
	}

	var breaker *player.CircuitBreaker
	if cfg.Breaker.Enable {
		breaker = player.NewCircuitBreaker(cfg.Breaker.FailureThreshold, cfg.Breaker.Timeout, cfg.Breaker.HalfOpenRequests)
	}
	logger.Info("bluez connected",
		zap.Duration("call_timeout", cfg.CallTimeout),
		zap.Bool("breaker", breaker != nil))
	return bluez, player.NewGuarded(bluez, breaker, cfg.CallTimeout, logger), nil
}
