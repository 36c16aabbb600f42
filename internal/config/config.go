package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Store   StoreConfig   `mapstructure:"store"`
	Stream  StreamConfig  `mapstructure:"stream"`
	Notify  NotifyConfig  `mapstructure:"notify"`
	Client  ClientConfig  `mapstructure:"client"`
	Logging LoggingConfig `mapstructure:"logging"`
}

type ServerConfig struct {
	Port               string  `mapstructure:"port"`
	ReadTimeoutSec     int     `mapstructure:"read_timeout_sec"`
	WriteTimeoutSec    int     `mapstructure:"write_timeout_sec"`
	ShutdownTimeoutSec int     `mapstructure:"shutdown_timeout_sec"`
	WriteRatePerSecond float64 `mapstructure:"write_rate_per_second"`
	WriteBurst         int     `mapstructure:"write_burst"`
}

type StoreConfig struct {
	Backend       string `mapstructure:"backend"`
	Path          string `mapstructure:"path"`
	RedisAddr     string `mapstructure:"redis_addr"`
	RedisPassword string `mapstructure:"redis_password"`
	RedisDB       int    `mapstructure:"redis_db"`
	RedisPrefix   string `mapstructure:"redis_prefix"`
}

type StreamConfig struct {
	QueueSize      int  `mapstructure:"queue_size"`
	Retention      int  `mapstructure:"retention"`
	WSEnabled      bool `mapstructure:"ws_enabled"`
	WSPingInterval int  `mapstructure:"ws_ping_interval_sec"`
}

type NotifyConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Server   string `mapstructure:"server"`
	Topic    string `mapstructure:"topic"`
	Priority string `mapstructure:"priority"`
	Tags     string `mapstructure:"tags"`
	Token    string `mapstructure:"token"`
}

type ClientConfig struct {
	BaseURL       string  `mapstructure:"base_url"`
	TimeoutSec    int     `mapstructure:"timeout_sec"`
	RetryCount    int     `mapstructure:"retry_count"`
	RetryDelaySec int     `mapstructure:"retry_delay_sec"`
	RatePerSecond float64 `mapstructure:"rate_per_second"`
	Workers       int     `mapstructure:"workers"`
}

type LoggingConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Directory string `mapstructure:"directory"`
	Level     string `mapstructure:"level"`
}

func (s ServerConfig) ReadTimeout() time.Duration {
	return time.Duration(s.ReadTimeoutSec) * time.Second
}

func (s ServerConfig) WriteTimeout() time.Duration {
	return time.Duration(s.WriteTimeoutSec) * time.Second
}

func (s ServerConfig) ShutdownTimeout() time.Duration {
	return time.Duration(s.ShutdownTimeoutSec) * time.Second
}

func (s StreamConfig) PingInterval() time.Duration {
	return time.Duration(s.WSPingInterval) * time.Second
}

func (c ClientConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSec) * time.Second
}

func (c ClientConfig) RetryDelay() time.Duration {
	return time.Duration(c.RetryDelaySec) * time.Second
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.read_timeout_sec", 30)
	v.SetDefault("server.write_timeout_sec", 30)
	v.SetDefault("server.shutdown_timeout_sec", 30)
	v.SetDefault("server.write_rate_per_second", 0)
	v.SetDefault("server.write_burst", 20)
	v.SetDefault("store.backend", StoreMemory)
	v.SetDefault("store.path", "")
	v.SetDefault("store.redis_addr", "localhost:6379")
	v.SetDefault("store.redis_db", 0)
	v.SetDefault("store.redis_prefix", "catalog")
	v.SetDefault("stream.queue_size", 256)
	v.SetDefault("stream.retention", 0)
	v.SetDefault("stream.ws_enabled", true)
	v.SetDefault("stream.ws_ping_interval_sec", 54)
	v.SetDefault("notify.enabled", false)
	v.SetDefault("notify.server", "https://ntfy.sh")
	v.SetDefault("notify.priority", "default")
	v.SetDefault("notify.tags", "clapper")
	v.SetDefault("client.base_url", "http://localhost:8080")
	v.SetDefault("client.timeout_sec", 30)
	v.SetDefault("client.retry_count", 3)
	v.SetDefault("client.retry_delay_sec", 1)
	v.SetDefault("client.rate_per_second", 10)
	v.SetDefault("client.workers", 4)
	v.SetDefault("logging.enabled", false)
	v.SetDefault("logging.directory", "logs")
	v.SetDefault("logging.level", "info")
}

// Load reads configuration from defaults, an optional YAML file and CATALOG_*
// environment variables, in increasing precedence.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	// Environment variable support
	v.SetEnvPrefix("CATALOG")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	// Keys without defaults are invisible to AutomaticEnv during Unmarshal.
	_ = v.BindEnv("store.redis_password", "CATALOG_STORE_REDIS_PASSWORD")
	_ = v.BindEnv("notify.topic", "CATALOG_NOTIFY_TOPIC")
	_ = v.BindEnv("notify.token", "CATALOG_NOTIFY_TOKEN")

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("catalog")
		v.SetConfigType("yaml")
		v.AddConfigPath("./configs")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return &cfg, nil
}
