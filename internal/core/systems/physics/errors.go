package physics

import "errors"

var (
	ErrInvalidDimensions = errors.New("world width and height must be positive")
	ErrInvalidZoneSize   = errors.New("zone size must be positive")
	ErrNilBody           = errors.New("nil body")
	ErrNilDirection      = errors.New("nil direction")
	ErrNonPositiveSteps  = errors.New("steps must be positive")
	ErrBodyNotInWorld    = errors.New("body is not in the world")
)
