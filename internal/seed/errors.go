package seed

import "errors"

// Sentinel errors for the generator.
var (
	ErrInvalidConfig = errors.New("invalid seed config")
	ErrUnknownFormat = errors.New("unknown output format")
)
