package app

import (
	"go.uber.org/zap"

	"github.com/taoyao-code/blueplayer/internal/bridge"
	cfgpkg "github.com/taoyao-code/blueplayer/internal/config"
)

// BridgeOptions 配置转换为协议处理器参数，配置了按键映射文件时加载之
func BridgeOptions(cfg cfgpkg.IpodConfig, logger *zap.Logger) (bridge.Options, error) {
	opts := bridge.Options{
		IpodName:     cfg.Name,
		IpodType:     cfg.Type,
		ScreenWidth:  cfg.ScreenWidth,
		ScreenHeight: cfg.ScreenHeight,
		PollInterval: cfg.PollInterval,
	}
	if cfg.ButtonMap != "" {
		bm, err := bridge.LoadButtonMap(cfg.ButtonMap)
		if err != nil {
			return opts, err
		}
		opts.Buttons = bm
		logger.Info("button map loaded", zap.String("path", cfg.ButtonMap))
	}
	return opts, nil
}
