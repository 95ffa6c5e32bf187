package facet

import (
	"fmt"
	"strings"
)

// Role is the kind of user driving the selections.
type Role string

const (
	RoleAdmin Role = "admin"
	// RoleTeamManager only ever sees a single team.
	RoleTeamManager Role = "team_manager"
)

// ParseRole resolves a role name; an empty name means admin.
func ParseRole(name string) (Role, error) {
	switch Role(strings.ToLower(strings.TrimSpace(name))) {
	case "", RoleAdmin:
		return RoleAdmin, nil
	case RoleTeamManager:
		return RoleTeamManager, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownRole, name)
	}
}

// ForRole returns the starting selections for role. A team manager gets the
// team facet pinned to teamID.
func ForRole(role Role, teamID string) Selections {
	s := New()
	if role == RoleTeamManager && teamID != "" {
		s = s.Pin(Team, teamID)
	}
	return s
}
