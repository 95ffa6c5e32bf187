package presenter

import (
	"fmt"
	"strings"

	"github.com/okian/festboard/internal/domain/model"
)

// Mode is the slide family on screen. Modes rotate in declaration order.
type Mode int

const (
	ModeResult Mode = iota
	ModeLeaderboard
	ModeStats
	ModeUpcoming

	modeCount
)

// Modes lists the rotation order.
var Modes = [...]Mode{ModeResult, ModeLeaderboard, ModeStats, ModeUpcoming}

// Next returns the mode after m, wrapping to ModeResult.
func (m Mode) Next() Mode {
	if m < 0 || m >= modeCount-1 {
		return ModeResult
	}
	return m + 1
}

func (m Mode) String() string {
	switch m {
	case ModeResult:
		return "result"
	case ModeLeaderboard:
		return "leaderboard"
	case ModeStats:
		return "stats"
	case ModeUpcoming:
		return "upcoming"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// MarshalText encodes m by name.
func (m Mode) MarshalText() ([]byte, error) { return []byte(m.String()), nil }

// ParseMode resolves a mode name.
func ParseMode(name string) (Mode, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	for _, m := range Modes {
		if m.String() == n {
			return m, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownMode, name)
}

// RevealStep counts the ranks disclosed on the result slide.
type RevealStep int

// MaxReveal is the step at which every rank is visible.
const MaxReveal RevealStep = 3

// revealUnits is the delay, in reveal units, from entering the result slide
// until each step. Index 0 is the entry itself.
var revealUnits = [...]int{0, 1, 2, 4}

// Visible lists the positions disclosed at step r, in reveal order.
func (r RevealStep) Visible() []model.Position {
	order := []model.Position{model.Third, model.Second, model.First}
	n := int(r)
	if n < 0 {
		n = 0
	}
	if n > len(order) {
		n = len(order)
	}
	return order[:n]
}
