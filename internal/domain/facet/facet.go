// Package facet implements multi-value filtering shared by every list and
// report.
//
// A Selections value holds the selected ids for each facet. Within a facet the
// test is OR (an empty facet matches everything); across facets it is AND.
// Selections are immutable: every mutation returns a new value with a higher
// version, so callers pass them explicitly into each computation.
package facet

import (
	"fmt"
	"slices"
	"strings"
)

// Facet is one filter dimension.
type Facet int

const (
	Team Facet = iota
	Category
	Item
	PerformanceType
	ResultStatus
	Date
	Stage
	ItemType

	facetCount
)

// All lists every facet in declaration order.
var All = [...]Facet{Team, Category, Item, PerformanceType, ResultStatus, Date, Stage, ItemType}

// String returns the wire name of f.
func (f Facet) String() string {
	switch f {
	case Team:
		return "team"
	case Category:
		return "category"
	case Item:
		return "item"
	case PerformanceType:
		return "performance_type"
	case ResultStatus:
		return "result_status"
	case Date:
		return "date"
	case Stage:
		return "stage"
	case ItemType:
		return "item_type"
	default:
		return fmt.Sprintf("facet(%d)", int(f))
	}
}

func (f Facet) valid() bool { return f >= 0 && f < facetCount }

// Parse resolves a wire name such as "performance_type".
func Parse(name string) (Facet, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	for _, f := range All {
		if f.String() == n {
			return f, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownFacet, name)
}

// Selections is the current value set of every facet.
type Selections struct {
	version uint64
	values  [facetCount][]string
	locked  [facetCount]bool
}

// New returns selections with every facet empty.
func New() Selections { return Selections{} }

// Version increases with every effective mutation.
func (s Selections) Version() uint64 { return s.version }

// Values returns a copy of the selected ids for f.
func (s Selections) Values(f Facet) []string {
	if !f.valid() {
		return nil
	}
	return slices.Clone(s.values[f])
}

// Locked reports whether f ignores mutation requests.
func (s Selections) Locked(f Facet) bool { return f.valid() && s.locked[f] }

// Empty reports whether no facet restricts anything.
func (s Selections) Empty() bool {
	for _, f := range All {
		if len(s.values[f]) > 0 {
			return false
		}
	}
	return true
}

// Active lists the facets that currently restrict.
func (s Selections) Active() []Facet {
	var out []Facet
	for _, f := range All {
		if len(s.values[f]) > 0 {
			out = append(out, f)
		}
	}
	return out
}

// Allows reports whether key passes facet f.
func (s Selections) Allows(f Facet, key string) bool {
	if !f.valid() || len(s.values[f]) == 0 {
		return true
	}
	_, found := slices.BinarySearch(s.values[f], key)
	return found
}

// AllowsAny reports whether any of keys passes facet f. An entity without
// keys only passes an unrestricted facet.
func (s Selections) AllowsAny(f Facet, keys []string) bool {
	if !f.valid() || len(s.values[f]) == 0 {
		return true
	}
	for _, k := range keys {
		if _, found := slices.BinarySearch(s.values[f], k); found {
			return true
		}
	}
	return false
}

// Set replaces the values of f. Calling it on a locked facet returns s
// unchanged. Changing the category selection clears the item selection,
// because items chosen under the previous categories no longer apply.
func (s Selections) Set(f Facet, values ...string) Selections {
	if !f.valid() || s.locked[f] {
		return s
	}
	next := normalize(values)
	if slices.Equal(next, s.values[f]) {
		return s
	}
	s.values[f] = next
	if f == Category && !s.locked[Item] {
		s.values[Item] = nil
	}
	s.version++
	return s
}

// Toggle adds value to f when absent and removes it when present.
func (s Selections) Toggle(f Facet, value string) Selections {
	if !f.valid() {
		return s
	}
	cur := s.values[f]
	if i, found := slices.BinarySearch(cur, value); found {
		return s.Set(f, slices.Delete(slices.Clone(cur), i, i+1)...)
	}
	return s.Set(f, append(slices.Clone(cur), value)...)
}

// Clear empties f.
func (s Selections) Clear(f Facet) Selections { return s.Set(f) }

// Reset empties every unlocked facet. Locked facets keep their pinned value.
func (s Selections) Reset() Selections {
	changed := false
	for _, f := range All {
		if s.locked[f] || len(s.values[f]) == 0 {
			continue
		}
		s.values[f] = nil
		changed = true
	}
	if changed {
		s.version++
	}
	return s
}

// Pin sets f to value and locks it against later mutation.
func (s Selections) Pin(f Facet, value string) Selections {
	if !f.valid() {
		return s
	}
	s.locked[f] = false
	s = s.Set(f, value)
	s.locked[f] = true
	return s
}

// Restore loads previously issued values and version, for example from a
// client round trip. Locked facets keep their pinned values and no cascade
// runs, since the values were consistent when they were issued.
func (s Selections) Restore(version uint64, values map[Facet][]string) Selections {
	for f, vs := range values {
		if !f.valid() || s.locked[f] {
			continue
		}
		s.values[f] = normalize(vs)
	}
	s.version = version
	return s
}

// Without returns s with f unrestricted. It is a read-side view: the version
// is kept and no cascade runs.
func (s Selections) Without(f Facet) Selections {
	if f.valid() {
		s.values[f] = nil
	}
	return s
}

// Map returns the non-empty facets keyed by wire name.
func (s Selections) Map() map[string][]string {
	out := make(map[string][]string)
	for _, f := range All {
		if len(s.values[f]) > 0 {
			out[f.String()] = slices.Clone(s.values[f])
		}
	}
	return out
}

func normalize(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	slices.Sort(out)
	out = slices.Compact(out)
	if len(out) == 0 {
		return nil
	}
	return out
}
