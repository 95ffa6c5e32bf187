package api

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/okian/festboard/internal/domain/facet"
)

// Request headers naming the caller's role and pinned team.
const (
	HeaderRole = "X-Festboard-Role"
	HeaderTeam = "X-Festboard-Team"
)

// versionParam carries the selections version a client last received.
const versionParam = "v"

// baseSelections returns the starting selections for the caller's role.
func baseSelections(r *http.Request) (facet.Selections, error) {
	role, err := facet.ParseRole(r.Header.Get(HeaderRole))
	if err != nil {
		return facet.Selections{}, err
	}
	team := strings.TrimSpace(r.Header.Get(HeaderTeam))
	if role == facet.RoleTeamManager && team == "" {
		return facet.Selections{}, fmt.Errorf("%s requires %s", facet.RoleTeamManager, HeaderTeam)
	}
	return facet.ForRole(role, team), nil
}

// selectionsFromQuery reads facet values from the query string. A facet may
// be repeated (?team=a&team=b) or comma separated (?team=a,b).
func selectionsFromQuery(r *http.Request) (facet.Selections, error) {
	base, err := baseSelections(r)
	if err != nil {
		return facet.Selections{}, err
	}
	q := r.URL.Query()

	var version uint64
	if raw := q.Get(versionParam); raw != "" {
		version, err = strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return facet.Selections{}, fmt.Errorf("invalid %s: %q", versionParam, raw)
		}
	}

	values := make(map[string][]string)
	for _, f := range facet.All {
		for _, raw := range q[f.String()] {
			values[f.String()] = append(values[f.String()], strings.Split(raw, ",")...)
		}
	}
	return facet.FromMap(base, version, values)
}
