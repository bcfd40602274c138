package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all friendgrow configuration. Values come from built-in
// defaults, .friendgrow.toml, FRIENDGROW_* env vars and CLI flags, in
// increasing precedence.
type Config struct {
	Database DatabaseConfig `mapstructure:"database"`
	Upcoming UpcomingConfig `mapstructure:"upcoming"`
	Friends  FriendsConfig  `mapstructure:"friends"`
	Server   ServerConfig   `mapstructure:"server"`
	Log      LogConfig      `mapstructure:"log"`
}

type DatabaseConfig struct {
	Path string `mapstructure:"path"` // empty: store.DefaultDBPath()
}

type UpcomingConfig struct {
	CutoffDays int `mapstructure:"cutoff_days"`
}

type FriendsConfig struct {
	DefaultFreqWeeks int `mapstructure:"default_freq_weeks"`
	MaxFreqWeeks     int `mapstructure:"max_freq_weeks"`
}

type ServerConfig struct {
	Bind string `mapstructure:"bind"`
	Port int    `mapstructure:"port"`
}

type LogConfig struct {
	Level string `mapstructure:"level"` // debug, info, warn, error
}

// EnvPrefix is the prefix of environment overrides, e.g. FRIENDGROW_UPCOMING_CUTOFF_DAYS.
const EnvPrefix = "FRIENDGROW"

// SetDefaults registers built-in defaults on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("database.path", "")
	v.SetDefault("upcoming.cutoff_days", 20)
	v.SetDefault("friends.default_freq_weeks", 10)
	v.SetDefault("friends.max_freq_weeks", 52)
	v.SetDefault("server.bind", "127.0.0.1")
	v.SetDefault("server.port", 37778)
	v.SetDefault("log.level", "info")
}

// Default returns a Config built from defaults alone.
func Default() Config {
	v := viper.New()
	SetDefaults(v)
	var cfg Config
	_ = v.Unmarshal(&cfg)
	return cfg
}

// Load reads configuration into a fresh viper instance. cfgFile may be
// empty, in which case .friendgrow.toml is looked up in the working
// directory and then the home directory; a missing file is not an error.
func Load(cfgFile string) (Config, error) {
	v := viper.New()
	return LoadWith(v, cfgFile)
}

// LoadWith is Load on a caller-supplied viper, so flags bound to v take part.
func LoadWith(v *viper.Viper, cfgFile string) (Config, error) {
	SetDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName(".friendgrow")
		v.SetConfigType("toml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks ranges the rest of the program relies on.
func (c *Config) Validate() error {
	if c.Upcoming.CutoffDays < 1 || c.Upcoming.CutoffDays > math.MaxUint16 {
		return fmt.Errorf("upcoming.cutoff_days must be between 1 and %d, got %d", math.MaxUint16, c.Upcoming.CutoffDays)
	}
	if c.Friends.MaxFreqWeeks < 1 {
		return fmt.Errorf("friends.max_freq_weeks must be positive, got %d", c.Friends.MaxFreqWeeks)
	}
	if c.Friends.DefaultFreqWeeks < 1 || c.Friends.DefaultFreqWeeks > c.Friends.MaxFreqWeeks {
		return fmt.Errorf("friends.default_freq_weeks must be between 1 and %d, got %d", c.Friends.MaxFreqWeeks, c.Friends.DefaultFreqWeeks)
	}
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535, got %d", c.Server.Port)
	}
	return nil
}

// CutoffDays returns the validated look-ahead cutoff.
func (c *Config) CutoffDays() uint16 {
	return uint16(c.Upcoming.CutoffDays)
}

// ListenAddr returns the bind:port address string.
func (c *Config) ListenAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Bind, c.Server.Port)
}
