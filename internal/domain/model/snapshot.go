package model

// Snapshot is a consistent read-only view of every festival collection.
type Snapshot struct {
	// Version increases every time the data layer publishes a new snapshot.
	Version      uint64           `yaml:"version" json:"version"`
	Items        []Item           `yaml:"items" json:"items" validate:"dive"`
	Participants []Participant    `yaml:"participants" json:"participants" validate:"dive"`
	Teams        []Team           `yaml:"teams" json:"teams" validate:"dive"`
	Categories   []Category       `yaml:"categories" json:"categories" validate:"dive"`
	GradePoints  GradeTables      `yaml:"grade_points" json:"grade_points"`
	Results      []Result         `yaml:"results" json:"results" validate:"dive"`
	Schedule     []ScheduledEvent `yaml:"schedule" json:"schedule" validate:"dive"`
}

// Index offers id lookups over a Snapshot. Build it once per computation.
type Index struct {
	items        map[string]Item
	participants map[string]Participant
	teams        map[string]Team
	categories   map[string]Category
}

// NewIndex builds lookup maps for s. A nil snapshot yields an empty index.
func NewIndex(s *Snapshot) *Index {
	idx := &Index{
		items:        make(map[string]Item),
		participants: make(map[string]Participant),
		teams:        make(map[string]Team),
		categories:   make(map[string]Category),
	}
	if s == nil {
		return idx
	}
	for _, it := range s.Items {
		idx.items[it.ID] = it
	}
	for _, p := range s.Participants {
		idx.participants[p.ID] = p
	}
	for _, t := range s.Teams {
		idx.teams[t.ID] = t
	}
	for _, c := range s.Categories {
		idx.categories[c.ID] = c
	}
	return idx
}

// Item returns the item with id.
func (x *Index) Item(id string) (Item, bool) {
	it, ok := x.items[id]
	return it, ok
}

// Participant returns the participant with id.
func (x *Index) Participant(id string) (Participant, bool) {
	p, ok := x.participants[id]
	return p, ok
}

// Team returns the team with id.
func (x *Index) Team(id string) (Team, bool) {
	t, ok := x.teams[id]
	return t, ok
}

// Category returns the category with id.
func (x *Index) Category(id string) (Category, bool) {
	c, ok := x.categories[id]
	return c, ok
}

// TeamName returns the team's display name, or "" when unknown.
func (x *Index) TeamName(id string) string { return x.teams[id].Name }

// CategoryName returns the category's display name, or "" when unknown.
func (x *Index) CategoryName(id string) string { return x.categories[id].Name }

// ResultCategory returns the category a result is filed under: its item's
// category, falling back to the result's own field only when the item has
// none or is gone.
func (x *Index) ResultCategory(r Result) string {
	if it, ok := x.items[r.ItemID]; ok && it.CategoryID != "" {
		return it.CategoryID
	}
	return r.CategoryID
}

// Orphaned reports whether r points at an item that no longer exists.
func (x *Index) Orphaned(r Result) bool {
	_, ok := x.items[r.ItemID]
	return !ok
}

// StatusRegressions lists the ids of results present in both snapshots whose
// status moved backwards from prev to next, in next's order.
func StatusRegressions(prev, next *Snapshot) []string {
	if prev == nil || next == nil {
		return nil
	}
	before := make(map[string]ResultStatus, len(prev.Results))
	for _, r := range prev.Results {
		before[r.ID] = r.Status
	}
	var out []string
	for _, r := range next.Results {
		if was, ok := before[r.ID]; ok && !was.CanAdvanceTo(r.Status) {
			out = append(out, r.ID)
		}
	}
	return out
}
