package serialport

import (
	"fmt"
	"time"

	"go.bug.st/serial"
)

// Config 串口参数
type Config struct {
	Port         string
	BaudRate     int
	ReadTimeout  time.Duration // 单次 Read 的最长阻塞时间
	WriteTimeout time.Duration // 写队列满时的等待上限
	WriteQueue   int
	WriteRate    int // 每秒下行帧数上限
	WriteBurst   int
}

func (c *Config) normalize() {
	if c.BaudRate <= 0 {
		c.BaudRate = 19200
	}
	if c.ReadTimeout <= 0 {
		c.ReadTimeout = 200 * time.Millisecond
	}
	if c.WriteTimeout <= 0 {
		c.WriteTimeout = 2 * time.Second
	}
	if c.WriteQueue <= 0 {
		c.WriteQueue = 64
	}
}

// Open 以 8N1 打开串口
func Open(cfg Config) (serial.Port, error) {
	cfg.normalize()
	mode := &serial.Mode{
		BaudRate: cfg.BaudRate,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}
	port, err := serial.Open(cfg.Port, mode)
	if err != nil {
		return nil, fmt.Errorf("open serial %s: %w", cfg.Port, err)
	}
	if err := port.SetReadTimeout(cfg.ReadTimeout); err != nil {
		_ = port.Close()
		return nil, fmt.Errorf("set read timeout %s: %w", cfg.Port, err)
	}
	return port, nil
}
