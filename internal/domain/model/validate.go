package model

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// Validate checks the structural shape of s: required ids, known enum values
// and unique ids per collection. Dangling references between collections are
// not errors; consumers treat them as data drift.
func Validate(s *Snapshot) error {
	if s == nil {
		return fmt.Errorf("%w: nil snapshot", ErrInvalidSnapshot)
	}
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.Struct(s); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidSnapshot, err)
	}

	checks := []struct {
		kind string
		ids  []string
	}{
		{"item", collectIDs(s.Items, func(it Item) string { return it.ID })},
		{"participant", collectIDs(s.Participants, func(p Participant) string { return p.ID })},
		{"team", collectIDs(s.Teams, func(t Team) string { return t.ID })},
		{"category", collectIDs(s.Categories, func(c Category) string { return c.ID })},
		{"result", collectIDs(s.Results, func(r Result) string { return r.ID })},
		{"single grade", collectIDs(s.GradePoints.Single, func(g Grade) string { return g.ID })},
		{"group grade", collectIDs(s.GradePoints.Group, func(g Grade) string { return g.ID })},
	}
	for _, c := range checks {
		if dup, ok := firstDuplicate(c.ids); ok {
			return fmt.Errorf("%w: %w: %s %q", ErrInvalidSnapshot, ErrDuplicateID, c.kind, dup)
		}
	}
	return nil
}

func collectIDs[T any](xs []T, id func(T) string) []string {
	out := make([]string, len(xs))
	for i, x := range xs {
		out[i] = id(x)
	}
	return out
}

func firstDuplicate(ids []string) (string, bool) {
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			return id, true
		}
		seen[id] = struct{}{}
	}
	return "", false
}
