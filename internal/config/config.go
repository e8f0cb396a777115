// Package config loads and validates scrl configuration via Viper.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/metcalfc/scrl/internal/storyteller"
)

// Config captures every knob loaded via Viper.
type Config struct {
	Storyteller storyteller.Config `mapstructure:"storyteller"`
	UI          UIConfig           `mapstructure:"ui"`
	Logging     LoggingConfig      `mapstructure:"logging"`
	Metrics     MetricsConfig      `mapstructure:"metrics"`
	State       StateConfig        `mapstructure:"state"`
}

// UIConfig controls the reading pane.
type UIConfig struct {
	// Easing shapes the progress bar fill.
	Easing      string `mapstructure:"easing"`
	ProgressBar bool   `mapstructure:"progress_bar"`
	// Width caps the text column; 0 uses the full terminal.
	Width int `mapstructure:"width"`
}

// LoggingConfig toggles zap development features and the log destination.
type LoggingConfig struct {
	Development bool   `mapstructure:"development"`
	File        string `mapstructure:"file"`
}

// MetricsConfig sets where Prometheus metrics are served, if anywhere.
type MetricsConfig struct {
	Addr string `mapstructure:"addr"`
}

// StateConfig toggles saving reading positions.
type StateConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// Load builds a Config from disk/environment. An empty path falls back to
// DefaultPath when that file exists.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("SCRL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path == "" {
		if p := DefaultPath(); p != "" {
			if _, err := os.Stat(p); err == nil {
				path = p
			}
		}
	}
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// DefaultPath returns XDG_CONFIG_HOME/scrl/config.yaml or
// ~/.config/scrl/config.yaml.
func DefaultPath() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "scrl", "config.yaml")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "scrl", "config.yaml")
}

func setDefaults(v *viper.Viper) {
	d := storyteller.DefaultConfig()
	v.SetDefault("storyteller.throttle", d.Throttle)
	v.SetDefault("storyteller.resize_debounce", d.ResizeDebounce)
	v.SetDefault("storyteller.offset_top", d.OffsetTop)
	v.SetDefault("storyteller.offset_bottom", d.OffsetBottom)
	v.SetDefault("storyteller.smooth_scroll", d.SmoothScroll)
	v.SetDefault("storyteller.run_straight_away", true)
	v.SetDefault("ui.easing", storyteller.EaseOutCubic.String())
	v.SetDefault("ui.progress_bar", true)
	v.SetDefault("ui.width", 80)
	v.SetDefault("logging.development", false)
	v.SetDefault("logging.file", "")
	v.SetDefault("metrics.addr", "")
	v.SetDefault("state.enabled", true)
}

// Validate enforces reasonable limits.
func (c Config) Validate() error {
	if err := c.Storyteller.Validate(); err != nil {
		return err
	}
	if _, err := storyteller.ParseEasing(c.UI.Easing); err != nil {
		return fmt.Errorf("ui.easing: %w", err)
	}
	if c.UI.Width < 0 {
		return errors.New("ui.width must be >= 0")
	}
	return nil
}

// Easing returns the parsed ui.easing value.
func (c Config) Easing() storyteller.Easing {
	e, err := storyteller.ParseEasing(c.UI.Easing)
	if err != nil {
		return storyteller.Linear
	}
	return e
}

