// Package config handles configuration management using Viper
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/drummonds/rasterx/internal/engine"
)

// Config represents the application configuration
type Config struct {
	// Display overrides $DISPLAY when non-empty
	Display string `mapstructure:"display"`

	// FlushOnDestroy flushes the connection after each destroy
	FlushOnDestroy bool `mapstructure:"flush_on_destroy"`

	Shm     ShmConfig     `mapstructure:"shm"`
	Logging LoggingConfig `mapstructure:"logging"`
	Window  WindowConfig  `mapstructure:"window"`
}

// ShmConfig controls the MIT-SHM fast path
type ShmConfig struct {
	Enabled bool `mapstructure:"enabled"` // false forces plain images
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	Level string `mapstructure:"level"` // Overrides LOG_LEVEL when set
}

// WindowConfig holds the demo window geometry
type WindowConfig struct {
	Width  int    `mapstructure:"width"`
	Height int    `mapstructure:"height"`
	Title  string `mapstructure:"title"`
}

// DefaultConfig provides sensible defaults
var DefaultConfig = Config{
	Display:        "",
	FlushOnDestroy: true,
	Shm:            ShmConfig{Enabled: true},
	Logging:        LoggingConfig{Level: ""},
	Window: WindowConfig{
		Width:  640,
		Height: 480,
		Title:  "rasterx",
	},
}

// Load reads the configuration. An explicit path must exist; otherwise
// rasterx.toml is searched in $HOME/.config/rasterx and the working
// directory, and a missing file yields the defaults.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("toml")

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("rasterx")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "rasterx"))
		}
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("RASTERX")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("display", DefaultConfig.Display)
	v.SetDefault("flush_on_destroy", DefaultConfig.FlushOnDestroy)
	v.SetDefault("shm.enabled", DefaultConfig.Shm.Enabled)
	v.SetDefault("logging.level", DefaultConfig.Logging.Level)
	v.SetDefault("window.width", DefaultConfig.Window.Width)
	v.SetDefault("window.height", DefaultConfig.Window.Height)
	v.SetDefault("window.title", DefaultConfig.Window.Title)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unable to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects geometry the X server could never accept.
func (c *Config) Validate() error {
	if c.Window.Width <= 0 || c.Window.Width > 0xFFFF {
		return fmt.Errorf("window.width %d out of range", c.Window.Width)
	}
	if c.Window.Height <= 0 || c.Window.Height > 0xFFFF {
		return fmt.Errorf("window.height %d out of range", c.Window.Height)
	}
	return nil
}

// EngineOptions maps the configuration onto connection options.
func (c *Config) EngineOptions() engine.Options {
	opts := engine.DefaultOptions()
	opts.Display = c.Display
	opts.DisableShm = !c.Shm.Enabled
	opts.FlushOnDestroy = c.FlushOnDestroy
	return opts
}
