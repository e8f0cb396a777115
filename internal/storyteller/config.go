package storyteller

import (
	"fmt"
	"math"
	"time"
)

// Config tunes a Storyteller. It is copied at construction.
type Config struct {
	// Throttle is the minimum gap between processed scroll events.
	Throttle time.Duration `mapstructure:"throttle"`
	// ResizeDebounce is the minimum gap between processed resize events.
	ResizeDebounce time.Duration `mapstructure:"resize_debounce"`
	// OffsetTop and OffsetBottom are excluded from the measured viewport,
	// e.g. for sticky headers and footers.
	OffsetTop    float64 `mapstructure:"offset_top"`
	OffsetBottom float64 `mapstructure:"offset_bottom"`
	SmoothScroll bool    `mapstructure:"smooth_scroll"`
	// RunStraightAway delivers the initial progress to subscribers on the
	// next frame and evaluates range triggers at subscribe time.
	RunStraightAway bool `mapstructure:"run_straight_away"`
}

// DefaultConfig returns the stock tuning.
func DefaultConfig() Config {
	return Config{
		Throttle:       8 * time.Millisecond,
		ResizeDebounce: 250 * time.Millisecond,
		SmoothScroll:   true,
	}
}

// Validate checks the config for values the engine cannot use.
func (c Config) Validate() error {
	if c.Throttle < 0 {
		return fmt.Errorf("%w: throttle must be >= 0, got %s", ErrInvalidConfig, c.Throttle)
	}
	if c.ResizeDebounce < 0 {
		return fmt.Errorf("%w: resize_debounce must be >= 0, got %s", ErrInvalidConfig, c.ResizeDebounce)
	}
	if math.IsNaN(c.OffsetTop) || math.IsInf(c.OffsetTop, 0) {
		return fmt.Errorf("%w: offset_top must be finite", ErrInvalidConfig)
	}
	if math.IsNaN(c.OffsetBottom) || math.IsInf(c.OffsetBottom, 0) {
		return fmt.Errorf("%w: offset_bottom must be finite", ErrInvalidConfig)
	}
	return nil
}

func (c Config) behavior() Behavior {
	if c.SmoothScroll {
		return BehaviorSmooth
	}
	return BehaviorInstant
}
