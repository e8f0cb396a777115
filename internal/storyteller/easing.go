package storyteller

import (
	"fmt"
	"strings"
)

// Easing selects a reparameterization of linear progress.
type Easing int

const (
	Linear Easing = iota
	EaseIn
	EaseOut
	EaseInOut
	EaseInCubic
	EaseOutCubic
	EaseInOutCubic
)

var easingNames = [...]string{
	Linear:         "linear",
	EaseIn:         "ease-in",
	EaseOut:        "ease-out",
	EaseInOut:      "ease-in-out",
	EaseInCubic:    "ease-in-cubic",
	EaseOutCubic:   "ease-out-cubic",
	EaseInOutCubic: "ease-in-out-cubic",
}

// Easings lists every built-in curve.
func Easings() []Easing {
	return []Easing{Linear, EaseIn, EaseOut, EaseInOut, EaseInCubic, EaseOutCubic, EaseInOutCubic}
}

func (e Easing) String() string {
	if e < 0 || int(e) >= len(easingNames) {
		return fmt.Sprintf("Easing(%d)", int(e))
	}
	return easingNames[e]
}

// ParseEasing resolves a curve by name. Underscores and case are ignored.
func ParseEasing(s string) (Easing, error) {
	name := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "_", "-")
	for i, n := range easingNames {
		if n == name {
			return Easing(i), nil
		}
	}
	return Linear, fmt.Errorf("%w: %q", ErrUnknownEasing, s)
}

// Ease maps p in [0, 1] through the selected curve.
func Ease(e Easing, p float64) float64 {
	switch e {
	case EaseIn:
		return p * p
	case EaseOut:
		return 1 - (1-p)*(1-p)
	case EaseInOut:
		if p < 0.5 {
			return 2 * p * p
		}
		t := -2*p + 2
		return 1 - t*t/2
	case EaseInCubic:
		return p * p * p
	case EaseOutCubic:
		t := 1 - p
		return 1 - t*t*t
	case EaseInOutCubic:
		if p < 0.5 {
			return 4 * p * p * p
		}
		t := -2*p + 2
		return 1 - t*t*t/2
	default:
		return p
	}
}
