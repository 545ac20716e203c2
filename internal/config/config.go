package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type Config struct {
	Mode           string        `mapstructure:"mode"`
	Port           int           `mapstructure:"port"`
	LogLevel       string        `mapstructure:"log_level"`
	GatewayAddr    string        `mapstructure:"gateway_addr"`
	LocalAddr      string        `mapstructure:"local_addr"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	ReadBuffer     int           `mapstructure:"read_buffer"`

	// Admin API guards
	ConnectLimit        int           `mapstructure:"connect_limit"`
	ConnectWindow       time.Duration `mapstructure:"connect_window"`
	MonitorBackpressure string        `mapstructure:"monitor_backpressure"`
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix("KNXIP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("mode", "release")
	v.SetDefault("port", 8080)
	v.SetDefault("log_level", "info")
	v.SetDefault("gateway_addr", "192.168.42.10:3671")
	v.SetDefault("local_addr", "0.0.0.0:0")
	v.SetDefault("request_timeout", "1s")
	v.SetDefault("read_buffer", 1024)
	v.SetDefault("connect_limit", 5)
	v.SetDefault("connect_window", "10s")
	v.SetDefault("monitor_backpressure", "drop")
	return v
}

// Load reads config/config.<CONFIG_ENV>.yaml (CONFIG_ENV defaults to dev).
// A missing file is not an error; defaults and KNXIP_* env vars apply.
func Load() (*Config, error) {
	env := os.Getenv("CONFIG_ENV")
	if env == "" {
		env = "dev"
	}
	return LoadFile(fmt.Sprintf("config/config.%s.yaml", env))
}

func LoadFile(fileName string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(fileName)

	if err := v.ReadInConfig(); err != nil {
		log.Warn().Str("module", "config").Str("file", fileName).Msg("config file not found, using defaults")
	} else {
		log.Info().Str("module", "config").Str("file", fileName).Msg("loaded config")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if cfg.RequestTimeout <= 0 {
		return nil, fmt.Errorf("request_timeout must be positive, got %s", cfg.RequestTimeout)
	}
	log.Info().
		Str("module", "config").
		Str("mode", cfg.Mode).
		Int("port", cfg.Port).
		Str("gateway", cfg.GatewayAddr).
		Dur("request_timeout", cfg.RequestTimeout).
		Msg("config ready")
	return &cfg, nil
}
