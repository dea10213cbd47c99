// Package config loads configs/config.yml with environment overrides.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes environment overrides, e.g. DASHBOARD_DEVICE_BASE_URL.
const EnvPrefix = "DASHBOARD"

// Config is the full process configuration.
type Config struct {
	Port      string          `mapstructure:"port"`
	LogLevel  string          `mapstructure:"log_level"`
	Device    DeviceConfig    `mapstructure:"device"`
	Push      PushConfig      `mapstructure:"push"`
	Poll      PollConfig      `mapstructure:"poll"`
	Series    SeriesConfig    `mapstructure:"series"`
	DB        DBConfig        `mapstructure:"db"`
	Journal   JournalConfig   `mapstructure:"journal"`
	Simulator SimulatorConfig `mapstructure:"simulator"`
}

type DeviceConfig struct {
	BaseURL        string        `mapstructure:"base_url"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
}

type PushConfig struct {
	Enabled          bool          `mapstructure:"enabled"`
	Reconnect        bool          `mapstructure:"reconnect"`
	MinBackoff       time.Duration `mapstructure:"min_backoff"`
	MaxBackoff       time.Duration `mapstructure:"max_backoff"`
	HandshakeTimeout time.Duration `mapstructure:"handshake_timeout"`
}

type PollConfig struct {
	Interval time.Duration `mapstructure:"interval"`
}

type SeriesConfig struct {
	Capacity int    `mapstructure:"capacity"`
	TimeZone string `mapstructure:"time_zone"`
}

type DBConfig struct {
	// Path of the sqlite journal; empty means in memory.
	Path string `mapstructure:"path"`
}

type JournalConfig struct {
	Retention time.Duration `mapstructure:"retention"`
}

// SimulatorConfig configures cmd/devicesim.
type SimulatorConfig struct {
	Port        string        `mapstructure:"port"`
	Tick        time.Duration `mapstructure:"tick"`
	HistorySize int           `mapstructure:"history_size"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", "8090")
	v.SetDefault("log_level", "info")

	v.SetDefault("device.base_url", "http://192.168.4.1")
	v.SetDefault("device.request_timeout", 10*time.Second)

	v.SetDefault("push.enabled", true)
	v.SetDefault("push.reconnect", true)
	v.SetDefault("push.min_backoff", time.Second)
	v.SetDefault("push.max_backoff", 30*time.Second)
	v.SetDefault("push.handshake_timeout", 10*time.Second)

	v.SetDefault("poll.interval", 60*time.Second)

	v.SetDefault("series.capacity", 60)
	v.SetDefault("series.time_zone", "Local")

	v.SetDefault("db.path", "")
	v.SetDefault("journal.retention", 24*time.Hour)

	v.SetDefault("simulator.port", "8081")
	v.SetDefault("simulator.tick", 5*time.Second)
	v.SetDefault("simulator.history_size", 60)
}

// Load reads config.yml from the given directories (configs/ when none are
// given). A missing file is not an error; defaults and environment
// overrides still apply.
func Load(paths ...string) (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if len(paths) == 0 {
		paths = []string{"configs"}
	}
	for _, p := range paths {
		v.AddConfigPath(p)
	}

	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Device.BaseURL == "" {
		return errors.New("config: device.base_url is required")
	}
	if c.Poll.Interval <= 0 {
		return fmt.Errorf("config: poll.interval must be positive, got %s", c.Poll.Interval)
	}
	if c.Series.Capacity <= 0 {
		return fmt.Errorf("config: series.capacity must be positive, got %d", c.Series.Capacity)
	}
	if c.Push.MinBackoff <= 0 || c.Push.MaxBackoff < c.Push.MinBackoff {
		return fmt.Errorf("config: invalid push backoff %s..%s", c.Push.MinBackoff, c.Push.MaxBackoff)
	}
	if c.Simulator.Tick <= 0 {
		return fmt.Errorf("config: simulator.tick must be positive, got %s", c.Simulator.Tick)
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

// Location resolves series.time_zone; "" and "Local" mean the host zone.
func (c *Config) Location() (*time.Location, error) {
	switch c.Series.TimeZone {
	case "", "Local":
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Series.TimeZone)
	if err != nil {
		return nil, fmt.Errorf("config: series.time_zone: %w", err)
	}
	return loc, nil
}
