package config

import "errors"

var (
	ErrInvalidWorld       = errors.New("invalid world configuration")
	ErrInvalidServer      = errors.New("invalid server configuration")
	ErrMissingName        = errors.New("body name is required")
	ErrDuplicateBody      = errors.New("duplicate body name")
	ErrUnknownKind        = errors.New("unknown body kind")
	ErrInvalidSize        = errors.New("body width and height must be positive")
	ErrNegativeSpeed      = errors.New("body speed must not be negative")
	ErrConflictingHeading = errors.New("body sets both direction and toward")
)
