package storyteller

import "errors"

var (
	// ErrNoContainer is returned when a storyteller is built without a container.
	ErrNoContainer = errors.New("storyteller: no scroll container")
	// ErrNoHost is returned when the window/document host is unavailable.
	ErrNoHost = errors.New("storyteller: no host window")
	// ErrInvalidRange is returned for a progress range with from >= to.
	ErrInvalidRange = errors.New("storyteller: invalid progress range")
	// ErrUnknownEasing is returned by ParseEasing.
	ErrUnknownEasing = errors.New("storyteller: unknown easing")
	// ErrInvalidConfig is returned by Config.Validate.
	ErrInvalidConfig = errors.New("storyteller: invalid config")
)
