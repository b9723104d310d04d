package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/meenmo/mcval/logging"
)

// Config holds library-wide valuation settings.
type Config struct {
	// GridTimeTolerance is the distance within which a queried time matches a simulation grid time.
	GridTimeTolerance float64 `mapstructure:"grid_time_tolerance"`

	// MaxParallelValuations bounds the number of products valued concurrently in a book.
	MaxParallelValuations int `mapstructure:"max_parallel_valuations"`

	// PriceDecimals is the number of decimals reported prices are rounded to.
	PriceDecimals int32 `mapstructure:"price_decimals"`

	Log logging.Config `mapstructure:"log"`
}

// DefaultConfig provides production-ready default values.
var DefaultConfig = Config{
	GridTimeTolerance:     1e-9,
	MaxParallelValuations: 4,
	PriceDecimals:         10,
	Log: logging.Config{
		Level:  "info",
		Format: "json",
	},
}

// cfg is the active configuration. Defaults to DefaultConfig.
var cfg = DefaultConfig

// SetConfig replaces the active configuration.
func SetConfig(c Config) {
	cfg = c
}

// GetConfig returns the active configuration.
func GetConfig() Config {
	return cfg
}

// Validate rejects settings the valuation code cannot work with.
func (c Config) Validate() error {
	if c.GridTimeTolerance < 0 {
		return fmt.Errorf("config: grid_time_tolerance must be non-negative, got %g", c.GridTimeTolerance)
	}
	if c.MaxParallelValuations <= 0 {
		return fmt.Errorf("config: max_parallel_valuations must be positive, got %d", c.MaxParallelValuations)
	}
	if c.PriceDecimals < 0 {
		return fmt.Errorf("config: price_decimals must be non-negative, got %d", c.PriceDecimals)
	}
	return nil
}

// Load reads path (YAML, JSON or TOML, by extension) on top of DefaultConfig and applies
// MCVAL_* environment overrides, e.g. MCVAL_LOG_LEVEL=debug. An empty path reads
// only defaults and environment.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetDefault("grid_time_tolerance", DefaultConfig.GridTimeTolerance)
	v.SetDefault("max_parallel_valuations", DefaultConfig.MaxParallelValuations)
	v.SetDefault("price_decimals", DefaultConfig.PriceDecimals)
	v.SetDefault("log.level", DefaultConfig.Log.Level)
	v.SetDefault("log.format", DefaultConfig.Log.Format)
	v.SetDefault("log.file", DefaultConfig.Log.File)
	v.SetDefault("log.max_size", DefaultConfig.Log.MaxSize)
	v.SetDefault("log.max_backups", DefaultConfig.Log.MaxBackups)
	v.SetDefault("log.max_age", DefaultConfig.Log.MaxAge)
	v.SetDefault("log.compress", DefaultConfig.Log.Compress)

	v.SetEnvPrefix("MCVAL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("config: read %s: %w", path, err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("config: decode: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}
