package facet

import "errors"

// Sentinel kinds for facet errors.
var (
	ErrUnknownFacet    = errors.New("unknown facet")
	ErrUnknownRole     = errors.New("unknown role")
	ErrInvalidMutation = errors.New("invalid facet mutation")
)
