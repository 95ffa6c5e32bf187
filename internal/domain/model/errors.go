package model

import "errors"

// Sentinel kinds for snapshot validation.
var (
	ErrInvalidSnapshot = errors.New("invalid snapshot")
	ErrDuplicateID     = errors.New("duplicate id")
)
