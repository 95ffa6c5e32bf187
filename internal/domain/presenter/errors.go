package presenter

import "errors"

// Sentinel kinds for presenter errors.
var (
	ErrUnknownMode = errors.New("unknown display mode")
)
