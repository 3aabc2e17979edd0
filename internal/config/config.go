package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvConfigPath 配置文件路径环境变量
const EnvConfigPath = "BLUEPLAYER_CONFIG"

// AppConfig 应用基础信息
type AppConfig struct {
	Name string `mapstructure:"name"`
	Env  string `mapstructure:"env"`
}

// HTTPConfig HTTP 状态服务配置
type HTTPConfig struct {
	Enable       bool          `mapstructure:"enable"`
	Addr         string        `mapstructure:"addr"`
	ReadTimeout  time.Duration `mapstructure:"readTimeout"`
	WriteTimeout time.Duration `mapstructure:"writeTimeout"`
}

// SerialConfig 主机串口配置（8N1）
type SerialConfig struct {
	Port         string        `mapstructure:"port"`
	BaudRate     int           `mapstructure:"baudRate"`
	ReadTimeout  time.Duration `mapstructure:"readTimeout"`
	WriteTimeout time.Duration `mapstructure:"writeTimeout"`
	WriteQueue   int           `mapstructure:"writeQueue"`
	WriteRate    int           `mapstructure:"writeRate"`
	WriteBurst   int           `mapstructure:"writeBurst"`
}

// PlayerConfig 蓝牙播放器（BlueZ）配置
type PlayerConfig struct {
	CallTimeout time.Duration        `mapstructure:"callTimeout"`
	Breaker     CircuitBreakerConfig `mapstructure:"breaker"`
}

// CircuitBreakerConfig 播放器调用熔断配置
type CircuitBreakerConfig struct {
	Enable           bool          `mapstructure:"enable"`
	FailureThreshold int           `mapstructure:"failureThreshold"`
	Timeout          time.Duration `mapstructure:"timeout"`
	HalfOpenRequests int           `mapstructure:"halfOpenRequests"`
}

// IpodConfig 对主机呈现的 iPod 参数
type IpodConfig struct {
	Name         string        `mapstructure:"name"`
	Type         uint16        `mapstructure:"type"`
	ScreenWidth  uint16        `mapstructure:"screenWidth"`
	ScreenHeight uint16        `mapstructure:"screenHeight"`
	PollInterval time.Duration `mapstructure:"pollInterval"`
	ButtonMap    string        `mapstructure:"buttonMap"`
}

// LumberjackConfig 日志滚动（lumberjack）配置
type LumberjackConfig struct {
	Filename   string `mapstructure:"filename"`
	MaxSizeMB  int    `mapstructure:"maxSize"`
	MaxBackups int    `mapstructure:"maxBackups"`
	MaxAgeDays int    `mapstructure:"maxAge"`
	Compress   bool   `mapstructure:"compress"`
}

// LoggingConfig 日志级别与输出配置
type LoggingConfig struct {
	Level  string           `mapstructure:"level"`
	Format string           `mapstructure:"format"`
	File   LumberjackConfig `mapstructure:"file"`
}

// MetricsConfig Prometheus 指标暴露配置
type MetricsConfig struct {
	Enable bool   `mapstructure:"enable"`
	Path   string `mapstructure:"path"`
}

// RedisConfig Redis 连接配置
type RedisConfig struct {
	Enabled      bool          `mapstructure:"enabled"`
	Addr         string        `mapstructure:"addr"`
	Password     string        `mapstructure:"password"`
	DB           int           `mapstructure:"db"`
	PoolSize     int           `mapstructure:"poolSize"`
	MinIdleConns int           `mapstructure:"minIdleConns"`
	DialTimeout  time.Duration `mapstructure:"dialTimeout"`
	ReadTimeout  time.Duration `mapstructure:"readTimeout"`
	WriteTimeout time.Duration `mapstructure:"writeTimeout"`
}

// NowPlayingConfig 当前播放快照发布配置（需启用 redis）
type NowPlayingConfig struct {
	Enable    bool          `mapstructure:"enable"`
	KeyPrefix string        `mapstructure:"keyPrefix"`
	Channel   string        `mapstructure:"channel"`
	TTL       time.Duration `mapstructure:"ttl"`
	QueueSize int           `mapstructure:"queueSize"`
}

// Config 顶层配置结构
type Config struct {
	App        AppConfig        `mapstructure:"app"`
	HTTP       HTTPConfig       `mapstructure:"http"`
	Serial     SerialConfig     `mapstructure:"serial"`
	Player     PlayerConfig     `mapstructure:"player"`
	Ipod       IpodConfig       `mapstructure:"ipod"`
	Logging    LoggingConfig    `mapstructure:"logging"`
	Metrics    MetricsConfig    `mapstructure:"metrics"`
	Redis      RedisConfig      `mapstructure:"redis"`
	NowPlaying NowPlayingConfig `mapstructure:"nowPlaying"`
}

// Load 从 YAML/TOML/JSON 文件与环境变量加载配置。
// 若 path 为空，则尝试从环境变量 BLUEPLAYER_CONFIG 读取；否则回退到 configs/example.yaml。
func Load(path string) (*Config, error) {
	v := viper.New()

	if path == "" {
		path = os.Getenv(EnvConfigPath)
	}

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.SetConfigName("example")
		v.SetConfigType("yaml")
	}

	// 默认值
	setDefaults(v)

	// 环境变量覆盖：前缀 BLUEPLAYER_，并将点号替换为下划线
	v.SetEnvPrefix("BLUEPLAYER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		// 未指定文件时允许缺少配置，依赖默认值与环境变量
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "blueplayer")
	v.SetDefault("app.env", "dev")

	v.SetDefault("http.enable", true)
	v.SetDefault("http.addr", ":8080")
	v.SetDefault("http.readTimeout", "5s")
	v.SetDefault("http.writeTimeout", "10s")

	v.SetDefault("serial.port", "/dev/ttyAMA0")
	v.SetDefault("serial.baudRate", 19200)
	v.SetDefault("serial.readTimeout", "200ms")
	v.SetDefault("serial.writeTimeout", "2s")
	v.SetDefault("serial.writeQueue", 64)
	v.SetDefault("serial.writeRate", 0)
	v.SetDefault("serial.writeBurst", 0)

	v.SetDefault("player.callTimeout", "3s")
	v.SetDefault("player.breaker.enable", true)
	v.SetDefault("player.breaker.failureThreshold", 5)
	v.SetDefault("player.breaker.timeout", "30s")
	v.SetDefault("player.breaker.halfOpenRequests", 1)

	v.SetDefault("ipod.name", "Blueplayer")
	v.SetDefault("ipod.type", 0)
	v.SetDefault("ipod.screenWidth", 0)
	v.SetDefault("ipod.screenHeight", 0)
	v.SetDefault("ipod.pollInterval", "500ms")
	v.SetDefault("ipod.buttonMap", "")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.file.filename", "")
	v.SetDefault("logging.file.maxSize", 20)
	v.SetDefault("logging.file.maxBackups", 3)
	v.SetDefault("logging.file.maxAge", 7)
	v.SetDefault("logging.file.compress", true)

	v.SetDefault("metrics.enable", true)
	v.SetDefault("metrics.path", "/metrics")

	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.poolSize", 4)
	v.SetDefault("redis.minIdleConns", 1)
	v.SetDefault("redis.dialTimeout", "5s")
	v.SetDefault("redis.readTimeout", "3s")
	v.SetDefault("redis.writeTimeout", "3s")

	v.SetDefault("nowPlaying.enable", false)
	v.SetDefault("nowPlaying.keyPrefix", "blueplayer:nowplaying")
	v.SetDefault("nowPlaying.channel", "blueplayer:events")
	v.SetDefault("nowPlaying.ttl", "10m")
	v.SetDefault("nowPlaying.queueSize", 32)
}
