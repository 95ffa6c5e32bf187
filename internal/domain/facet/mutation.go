package facet

import (
	"fmt"
	"strings"
)

// Op names a selection change.
type Op string

const (
	OpSet    Op = "set"
	OpToggle Op = "toggle"
	OpClear  Op = "clear"
	OpReset  Op = "reset"
)

// Mutation is one user edit to a Selections value, as sent by clients.
type Mutation struct {
	Op     Op       `json:"op" validate:"oneof=set toggle clear reset"`
	Facet  string   `json:"facet,omitempty"`
	Values []string `json:"values,omitempty"`
}

// Apply returns sel changed by m. Reset ignores Facet; toggle takes exactly
// one value.
func (m Mutation) Apply(sel Selections) (Selections, error) {
	op := Op(strings.ToLower(strings.TrimSpace(string(m.Op))))
	if op == OpReset {
		return sel.Reset(), nil
	}

	f, err := Parse(m.Facet)
	if err != nil {
		return sel, err
	}
	switch op {
	case OpSet:
		return sel.Set(f, m.Values...), nil
	case OpClear:
		return sel.Clear(f), nil
	case OpToggle:
		if len(m.Values) != 1 {
			return sel, fmt.Errorf("%w: toggle takes one value, got %d", ErrInvalidMutation, len(m.Values))
		}
		return sel.Toggle(f, m.Values[0]), nil
	default:
		return sel, fmt.Errorf("%w: unknown op %q", ErrInvalidMutation, m.Op)
	}
}

// FromMap restores selections from wire names, keeping the locks of base.
func FromMap(base Selections, version uint64, values map[string][]string) (Selections, error) {
	restored := make(map[Facet][]string, len(values))
	for name, vs := range values {
		f, err := Parse(name)
		if err != nil {
			return base, err
		}
		restored[f] = vs
	}
	return base.Restore(version, restored), nil
}
