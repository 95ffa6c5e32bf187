// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults.
// - Loading layers defaults, an optional YAML file and FESTBOARD_* env vars.
// - Errors wrap this package's sentinels so callers can use errors.Is.
package config

import "time"

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level" validate:"oneof=debug info warn warning error"`

	// LogFormat selects the log encoding: text or json.
	LogFormat string `koanf:"log_format" validate:"oneof=text json"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr" validate:"required"`

	// SnapshotPath is the festival data file, YAML or JSON.
	SnapshotPath string `koanf:"snapshot_path" validate:"required"`

	// ReloadIntervalMS is how often the snapshot file is checked for
	// changes. Zero disables polling.
	ReloadIntervalMS int `koanf:"reload_interval_ms" validate:"gte=0"`

	// RotationIntervalMS is how long each display mode stays on screen.
	RotationIntervalMS int `koanf:"rotation_interval_ms" validate:"gte=100"`

	// RevealDelayMS is the unit delay between winner reveal steps.
	RevealDelayMS int `koanf:"reveal_delay_ms" validate:"gte=1"`

	// UpcomingLimit bounds the events on the upcoming slide.
	UpcomingLimit int `koanf:"upcoming_limit" validate:"gte=1"`

	// MaxLeaderboardLimit caps GET /leaderboard?limit.
	MaxLeaderboardLimit int `koanf:"max_leaderboard_limit" validate:"gte=1"`

	// StreamBuffer is the per-subscriber frame buffer of the display stream.
	StreamBuffer int `koanf:"stream_buffer" validate:"gte=1"`

	// AutostartDisplay starts the display rotation on boot.
	AutostartDisplay bool `koanf:"autostart_display"`
}

// New creates a Config holding the defaults.
func New() *Config {
	return &Config{
		LogLevel:            "info",
		LogFormat:           "text",
		Addr:                ":9080",
		SnapshotPath:        "festival.yaml",
		ReloadIntervalMS:    2000,
		RotationIntervalMS:  15000,
		RevealDelayMS:       1500,
		UpcomingLimit:       5,
		MaxLeaderboardLimit: 100,
		StreamBuffer:        16,
		AutostartDisplay:    true,
	}
}

// ReloadInterval returns ReloadIntervalMS as a duration.
func (c *Config) ReloadInterval() time.Duration {
	return time.Duration(c.ReloadIntervalMS) * time.Millisecond
}

// RotationInterval returns RotationIntervalMS as a duration.
func (c *Config) RotationInterval() time.Duration {
	return time.Duration(c.RotationIntervalMS) * time.Millisecond
}

// RevealDelay returns RevealDelayMS as a duration.
func (c *Config) RevealDelay() time.Duration {
	return time.Duration(c.RevealDelayMS) * time.Millisecond
}
