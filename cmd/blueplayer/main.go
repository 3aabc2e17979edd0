package main

import (
	"errors"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/taoyao-code/blueplayer/internal/app/bootstrap"
	cfgpkg "github.com/taoyao-code/blueplayer/internal/config"
	"github.com/taoyao-code/blueplayer/internal/logging"
)

const usage = "usage: blueplayer [serial-device]"

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "blueplayer:", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	// 1) 解析参数：唯一可选的位置参数为串口设备
	port, err := parseArgs(args)
	if err != nil {
		return err
	}

	// 2) 加载配置
	cfg, err := cfgpkg.Load("")
	if err != nil {
		return err
	}
	if port != "" {
		cfg.Serial.Port = port
	}

	// 3) 初始化日志
	logger, err := logging.InitLogger(cfg.Logging)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()
	zap.ReplaceGlobals(logger)

	return bootstrap.Run(cfg, zap.L())
}

func parseArgs(args []string) (string, error) {
	switch len(args) {
	case 0:
		return "", nil
	case 1:
		if args[0] == "" || args[0][0] == '-' {
			return "", errors.New(usage)
		}
		return args[0], nil
	default:
		return "", errors.New(usage)
	}
}
