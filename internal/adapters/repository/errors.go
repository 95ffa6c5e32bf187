package repository

import "errors"

// Sentinel kinds for snapshot store errors.
var (
	ErrNotLoaded  = errors.New("no snapshot loaded")
	ErrLoadFailed = errors.New("snapshot load failed")
)
