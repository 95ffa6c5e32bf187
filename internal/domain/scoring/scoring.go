// Package scoring turns one winner of a declared result into points.
//
// Points have two components: the positional prize from the item and an
// optional grade bonus. The grade bonus comes from the grade table matching the
// item's type and may be overridden per item. Everything here is pure; the
// result depends only on the item, the winner and the grade tables.
package scoring

import "github.com/okian/festboard/internal/domain/model"

// Breakdown shows how a winner's points were earned.
type Breakdown struct {
	Positional int `json:"positional"`
	Grade      int `json:"grade"`
	// GradeFound is false when the winner had no grade or its id did not
	// resolve in the item's grade table.
	GradeFound bool `json:"grade_found"`
	// GradeName is the resolved grade's display name.
	GradeName string `json:"grade_name,omitempty"`
}

// Total is the sum of both components.
func (b Breakdown) Total() int { return b.Positional + b.Grade }

// Score computes the breakdown for winner w of item.
func Score(item model.Item, w model.Winner, grades model.GradeTables) Breakdown {
	b := Breakdown{Positional: nonNegative(item.Points.For(w.Position))}
	if w.GradeID == "" {
		return b
	}

	// Unknown grade ids are data drift and contribute nothing.
	g, ok := grades.Lookup(item.Type.Scope(), w.GradeID)
	if !ok {
		return b
	}
	pts := g.Points
	if override, ok := item.GradePointsOverride[w.GradeID]; ok {
		pts = override
	}
	b.Grade = nonNegative(pts)
	b.GradeFound = true
	b.GradeName = g.Name
	return b
}

// PointsForWinner returns the total points winner w earns for item.
func PointsForWinner(item model.Item, w model.Winner, grades model.GradeTables) int {
	return Score(item, w, grades).Total()
}

func nonNegative(n int) int {
	if n < 0 {
		return 0
	}
	return n
}
