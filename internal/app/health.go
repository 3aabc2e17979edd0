package app

import (
	"github.com/taoyao-code/blueplayer/internal/health"
	"github.com/taoyao-code/blueplayer/internal/playback"
	"github.com/taoyao-code/blueplayer/internal/player"
)

// NewHealthAggregator 创建健康检查聚合器：串口 + 播放器
func NewHealthAggregator(port string, link health.SerialLink, state *playback.State, breaker *player.CircuitBreaker) *health.Aggregator {
	return health.NewAggregator(
		health.NewSerialChecker(port, link),
		health.NewPlayerChecker(state, breaker),
	)
}
