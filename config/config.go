// Package config loads deckcore settings from an optional YAML file and
// DECKCORE_* environment variables.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/nathoo/deckcore/types"
)

// EnvPrefix prefixes every environment variable, e.g. DECKCORE_SEED.
const EnvPrefix = "DECKCORE"

// ErrInvalid is wrapped by every validation error.
var ErrInvalid = errors.New("invalid config")

// Config holds the settings shared by the binaries. Command-line flags
// override it after loading.
type Config struct {
	Script   string        `mapstructure:"script"`
	Seed     int64         `mapstructure:"seed"`
	Plain    bool          `mapstructure:"plain"`
	Trace    bool          `mapstructure:"trace"`
	AIDelay  time.Duration `mapstructure:"ai_delay"`
	LogFile  string        `mapstructure:"log_file"`
	LogLevel string        `mapstructure:"log_level"`
	SaveDir  string        `mapstructure:"save_dir"`
	Seat     int           `mapstructure:"seat"`
}

func defaults(v *viper.Viper) {
	v.SetDefault("script", "")
	v.SetDefault("seed", 0)
	v.SetDefault("plain", false)
	v.SetDefault("trace", false)
	v.SetDefault("ai_delay", "0s")
	v.SetDefault("log_file", "")
	v.SetDefault("log_level", "info")
	v.SetDefault("save_dir", ".")
	v.SetDefault("seat", 0)
}

// Load reads the config file at path, if path is not empty, then applies
// environment overrides and validates the result.
func Load(path string) (*Config, error) {
	v := viper.New()
	defaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	if c.Seat != 0 && c.Seat != 1 {
		return fmt.Errorf("%w: seat must be 0 or 1, got %d", ErrInvalid, c.Seat)
	}
	if c.AIDelay < 0 {
		return fmt.Errorf("%w: ai_delay must not be negative", ErrInvalid)
	}
	if _, err := zapcore.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: log_level %q", ErrInvalid, c.LogLevel)
	}
	return nil
}

// Logger builds the process logger: a no-op logger unless LogFile is set,
// else a JSON logger writing to LogFile at LogLevel.
func (c *Config) Logger() (*zap.Logger, error) {
	if c.LogFile == "" {
		return zap.NewNop(), nil
	}
	level, err := zapcore.ParseLevel(c.LogLevel)
	if err != nil {
		level = zapcore.InfoLevel
	}
	zapCfg := zap.NewProductionConfig()
	zapCfg.Level = zap.NewAtomicLevelAt(level)
	zapCfg.OutputPaths = []string{c.LogFile}
	zapCfg.ErrorOutputPaths = []string{c.LogFile}
	return zapCfg.Build()
}

// Apply fills the parts of def the config controls: the seed, unless def
// already has one, and the seats, unless def names them. The human takes
// seat Seat and the automated player the other.
func (c *Config) Apply(def types.GameDef) types.GameDef {
	if def.Seed == 0 {
		def.Seed = c.Seed
	}
	if def.Seats[0].Name == "" && def.Seats[1].Name == "" {
		def.Seats[c.Seat] = types.SeatDef{Name: "You"}
		def.Seats[1-c.Seat] = types.SeatDef{Name: "AI", AI: true}
	}
	return def
}
