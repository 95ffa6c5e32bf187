package presenter

import (
	"sort"
	"time"

	"github.com/okian/festboard/internal/domain/model"
	"github.com/okian/festboard/internal/domain/standings"
)

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04"
)

// RankGroup is every winner sharing one position.
type RankGroup struct {
	Position model.Position          `json:"position"`
	Winners  []standings.WinnerEntry `json:"winners"`
}

// ResultSlide is the winner announcement for one declared result.
type ResultSlide struct {
	ResultID     string `json:"result_id"`
	ItemID       string `json:"item_id"`
	ItemName     string `json:"item_name"`
	CategoryName string `json:"category_name"`
	// Ranks are in reveal order: third, second, first.
	Ranks []RankGroup `json:"ranks"`
}

// Revealed returns a copy holding only the ranks disclosed at step.
func (r ResultSlide) Revealed(step RevealStep) ResultSlide {
	visible := make(map[model.Position]bool)
	for _, p := range step.Visible() {
		visible[p] = true
	}
	out := r
	out.Ranks = make([]RankGroup, 0, len(r.Ranks))
	for _, g := range r.Ranks {
		if visible[g.Position] {
			out.Ranks = append(out.Ranks, g)
		}
	}
	return out
}

// UpcomingEvent is one row of the upcoming slide.
type UpcomingEvent struct {
	ItemID       string    `json:"item_id"`
	ItemName     string    `json:"item_name"`
	CategoryName string    `json:"category_name"`
	Stage        string    `json:"stage"`
	StartsAt     time.Time `json:"starts_at"`
}

// Deck is the content every slide draws from, derived from one snapshot.
type Deck struct {
	Version     uint64                   `json:"version"`
	Latest      *ResultSlide             `json:"latest,omitempty"`
	Leaderboard []standings.TeamStanding `json:"leaderboard"`
	Stats       standings.Stats          `json:"stats"`
	Upcoming    []UpcomingEvent          `json:"upcoming"`
}

// LatestID identifies the result on the result slide, or "" when there is
// none.
func (d *Deck) LatestID() string {
	if d == nil || d.Latest == nil {
		return ""
	}
	return d.Latest.ResultID
}

// BuildDeck derives slide content from s. It returns nil when s is nil so the
// scheduler stays idle until data arrives.
func BuildDeck(s *model.Snapshot, agg standings.Aggregate, now time.Time, upcomingLimit int) *Deck {
	if s == nil {
		return nil
	}
	return &Deck{
		Version:     s.Version,
		Latest:      latestSlide(s, agg),
		Leaderboard: agg.Leaderboard(s.Teams),
		Stats:       standings.ComputeStats(s, agg),
		Upcoming:    upcoming(s, now, upcomingLimit),
	}
}

// latestSlide picks the last declared, non-orphaned result in declaration
// order and reads its winners from the item-wise table.
func latestSlide(s *model.Snapshot, agg standings.Aggregate) *ResultSlide {
	idx := model.NewIndex(s)
	var latest *model.Result
	for i := range s.Results {
		r := &s.Results[i]
		if r.Declared() && !idx.Orphaned(*r) {
			latest = r
		}
	}
	if latest == nil {
		return nil
	}

	for _, row := range agg.ItemWise {
		if row.ResultID != latest.ID {
			continue
		}
		slide := &ResultSlide{
			ResultID:     row.ResultID,
			ItemID:       row.ItemID,
			ItemName:     row.ItemName,
			CategoryName: row.CategoryName,
		}
		for _, p := range MaxReveal.Visible() {
			if ws := row.Winners[p]; len(ws) > 0 {
				slide.Ranks = append(slide.Ranks, RankGroup{Position: p, Winners: ws})
			}
		}
		return slide
	}
	return nil
}

// upcoming lists schedule entries starting at or after now. Entries whose date
// or time does not parse are skipped.
func upcoming(s *model.Snapshot, now time.Time, limit int) []UpcomingEvent {
	idx := model.NewIndex(s)
	out := make([]UpcomingEvent, 0)
	for _, e := range s.Schedule {
		at, err := time.ParseInLocation(dateLayout+" "+timeLayout, e.Date+" "+e.Time, now.Location())
		if err != nil || at.Before(now) {
			continue
		}
		it, _ := idx.Item(e.ItemID)
		categoryID := e.CategoryID
		if categoryID == "" {
			categoryID = it.CategoryID
		}
		out = append(out, UpcomingEvent{
			ItemID:       e.ItemID,
			ItemName:     it.Name,
			CategoryName: idx.CategoryName(categoryID),
			Stage:        e.Stage,
			StartsAt:     at,
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].StartsAt.Equal(out[j].StartsAt) {
			return out[i].StartsAt.Before(out[j].StartsAt)
		}
		return out[i].Stage < out[j].Stage
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
