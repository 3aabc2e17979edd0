package app

import (
	"go.uber.org/zap"

	cfgpkg "github.com/taoyao-code/blueplayer/internal/config"
	"github.com/taoyao-code/blueplayer/internal/serialport"
)

// SerialConfig 配置转换为串口参数
func SerialConfig(cfg cfgpkg.SerialConfig) serialport.Config {
	return serialport.Config{
		Port:         cfg.Port,
		BaudRate:     cfg.BaudRate,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		WriteQueue:   cfg.WriteQueue,
		WriteRate:    cfg.WriteRate,
		WriteBurst:   cfg.WriteBurst,
	}
}

// OpenSerial 打开主机串口并创建读写连接
func OpenSerial(cfg cfgpkg.SerialConfig, logger *zap.Logger) (*serialport.Conn, error) {
	scfg := SerialConfig(cfg)
	port, err := serialport.Open(scfg)
	if err != nil {
		return nil, err
	}
	logger.Info("serial port opened",
		zap.String("port", cfg.Port),
		zap.Int("baud_rate", cfg.BaudRate))
	return serialport.NewConn(port, scfg, logger.With(zap.String("component", "serial"))), nil
}
