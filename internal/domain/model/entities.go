// Package model contains the festival entities shared by every layer.
//
// Entities arrive as an immutable Snapshot from the data layer. Nothing in
// this module mutates a Snapshot after it has been loaded.
package model

// PrizePoints are the positional points an item awards.
type PrizePoints struct {
	First  int `yaml:"first" json:"first" validate:"min=0"`
	Second int `yaml:"second" json:"second" validate:"min=0"`
	Third  int `yaml:"third" json:"third" validate:"min=0"`
}

// For returns the points for position p, or 0 when p is not a prize position.
func (pp PrizePoints) For(p Position) int {
	switch p {
	case First:
		return pp.First
	case Second:
		return pp.Second
	case Third:
		return pp.Third
	default:
		return 0
	}
}

// Item is a competition item such as "Elocution" or "Group Song".
type Item struct {
	ID              string          `yaml:"id" json:"id" validate:"required"`
	Name            string          `yaml:"name" json:"name" validate:"required"`
	Type            ItemType        `yaml:"type" json:"type" validate:"oneof=single group"`
	PerformanceType PerformanceType `yaml:"performance_type" json:"performance_type" validate:"oneof=on_stage off_stage"`
	CategoryID      string          `yaml:"category_id" json:"category_id"`
	// Duration in minutes.
	Duration int         `yaml:"duration" json:"duration" validate:"min=0"`
	Points   PrizePoints `yaml:"points" json:"points"`
	// GradePointsOverride replaces a grade's default points for this item only.
	GradePointsOverride map[string]int `yaml:"grade_points_override,omitempty" json:"grade_points_override,omitempty"`
}

// Grade is a qualitative tier that carries bonus points.
type Grade struct {
	ID     string `yaml:"id" json:"id" validate:"required"`
	Name   string `yaml:"name" json:"name"`
	Points int    `yaml:"points" json:"points"`
}

// GradeTables holds the two independent grade tables.
type GradeTables struct {
	Single []Grade `yaml:"single" json:"single" validate:"dive"`
	Group  []Grade `yaml:"group" json:"group" validate:"dive"`
}

// Table returns the grade list for scope.
func (g GradeTables) Table(scope GradeScope) []Grade {
	switch scope {
	case ScopeGroup:
		return g.Group
	case ScopeSingle:
		return g.Single
	default:
		return nil
	}
}

// Lookup finds a grade by id in the table for scope.
func (g GradeTables) Lookup(scope GradeScope, id string) (Grade, bool) {
	for _, gr := range g.Table(scope) {
		if gr.ID == id {
			return gr, true
		}
	}
	return Grade{}, false
}

// Participant is a registered performer.
type Participant struct {
	ID          string   `yaml:"id" json:"id" validate:"required"`
	ChestNumber string   `yaml:"chest_number" json:"chest_number"`
	Name        string   `yaml:"name" json:"name"`
	TeamID      string   `yaml:"team_id" json:"team_id"`
	CategoryID  string   `yaml:"category_id" json:"category_id"`
	ItemIDs     []string `yaml:"item_ids,omitempty" json:"item_ids,omitempty"`
}

// EnrolledIn reports whether the participant is registered for itemID.
func (p Participant) EnrolledIn(itemID string) bool {
	for _, id := range p.ItemIDs {
		if id == itemID {
			return true
		}
	}
	return false
}

// Team groups participants and collects their points.
type Team struct {
	ID   string `yaml:"id" json:"id" validate:"required"`
	Name string `yaml:"name" json:"name"`
}

// Category is an age or class group items and participants belong to.
type Category struct {
	ID   string `yaml:"id" json:"id" validate:"required"`
	Name string `yaml:"name" json:"name"`
}

// Winner is one entry in a result.
type Winner struct {
	ParticipantID string   `yaml:"participant_id" json:"participant_id" validate:"required"`
	Position      Position `yaml:"position,omitempty" json:"position,omitempty" validate:"min=0"`
	GradeID       string   `yaml:"grade_id,omitempty" json:"grade_id,omitempty"`
	Mark          *float64 `yaml:"mark,omitempty" json:"mark,omitempty"`
}

// Result is the outcome recorded for one item. Only declared results count.
type Result struct {
	ID         string       `yaml:"id" json:"id" validate:"required"`
	ItemID     string       `yaml:"item_id" json:"item_id" validate:"required"`
	CategoryID string       `yaml:"category_id" json:"category_id"`
	Status     ResultStatus `yaml:"status" json:"status" validate:"oneof=not_uploaded uploaded declared"`
	Winners    []Winner     `yaml:"winners,omitempty" json:"winners,omitempty" validate:"dive"`
}

// Declared reports whether the result has been published.
func (r Result) Declared() bool { return r.Status == StatusDeclared }

// ScheduledEvent places an item on a stage at a date and time.
type ScheduledEvent struct {
	ItemID     string `yaml:"item_id" json:"item_id" validate:"required"`
	CategoryID string `yaml:"category_id" json:"category_id"`
	// Date uses 2006-01-02 and Time uses 15:04.
	Date  string `yaml:"date" json:"date"`
	Time  string `yaml:"time" json:"time"`
	Stage string `yaml:"stage" json:"stage"`
}
