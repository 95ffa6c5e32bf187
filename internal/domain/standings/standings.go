// Package standings folds declared results into team and participant totals.
//
// Only results with status declared whose item still exists take part.
// Winners are scored with the scoring package, so participant totals, team
// totals and the item-wise table always agree. Missing lookups drop the
// affected entry and never abort the fold.
package standings

import (
	"sort"

	"github.com/okian/festboard/internal/domain/model"
	"github.com/okian/festboard/internal/domain/scoring"
)

// SkipReason explains why part of a result was left out of the totals.
type SkipReason string

const (
	// SkipDraft marks results that are not declared yet.
	SkipDraft SkipReason = "draft"
	// SkipOrphan marks declared results whose item was deleted.
	SkipOrphan SkipReason = "orphan"
	// SkipParticipant marks placed winners whose participant is unknown.
	SkipParticipant SkipReason = "participant"
)

// ParticipantStanding is a participant's running total and placings.
type ParticipantStanding struct {
	ParticipantID string `json:"participant_id"`
	ChestNumber   string `json:"chest_number"`
	Name          string `json:"name"`
	TeamID        string `json:"team_id"`
	TeamName      string `json:"team_name"`
	CategoryID    string `json:"category_id"`
	Points        int    `json:"points"`
	// Wins lists item names per prize position.
	Wins map[model.Position][]string `json:"wins"`
}

// WinnerEntry is one placed winner in the item-wise table.
type WinnerEntry struct {
	ParticipantID string            `json:"participant_id"`
	ChestNumber   string            `json:"chest_number"`
	Name          string            `json:"name"`
	TeamID        string            `json:"team_id"`
	TeamName      string            `json:"team_name"`
	Position      model.Position    `json:"position"`
	Points        int               `json:"points"`
	Breakdown     scoring.Breakdown `json:"breakdown"`
}

// ItemWinners is one row of the item-wise table.
type ItemWinners struct {
	ResultID     string         `json:"result_id"`
	ItemID       string         `json:"item_id"`
	ItemName     string         `json:"item_name"`
	ItemType     model.ItemType `json:"item_type"`
	CategoryID   string         `json:"category_id"`
	CategoryName string         `json:"category_name"`
	// Winners groups placed winners by position.
	Winners map[model.Position][]WinnerEntry `json:"winners"`
}

// Points sums the points of every winner in the row.
func (r ItemWinners) Points() int {
	total := 0
	for _, ws := range r.Winners {
		for _, w := range ws {
			total += w.Points
		}
	}
	return total
}

// Aggregate is the outcome of folding a snapshot's results.
type Aggregate struct {
	PerParticipant map[string]*ParticipantStanding `json:"per_participant"`
	PerTeam        map[string]int                  `json:"per_team"`
	ItemWise       []ItemWinners                   `json:"item_wise"`

	// Counted is the number of declared results folded in.
	Counted int                `json:"counted"`
	Skipped map[SkipReason]int `json:"skipped"`
}

// Empty reports whether no declared result contributed.
func (a Aggregate) Empty() bool { return a.Counted == 0 }

// Consistent reports whether participant totals and the item-wise table
// account for the same points.
func (a Aggregate) Consistent() bool {
	byParticipant := 0
	for _, p := range a.PerParticipant {
		byParticipant += p.Points
	}
	byItem := 0
	for _, row := range a.ItemWise {
		byItem += row.Points()
	}
	return byParticipant == byItem
}

// Compute folds every declared, non-orphaned result in s. A nil snapshot
// yields an empty aggregate.
func Compute(s *model.Snapshot) Aggregate {
	agg := Aggregate{
		PerParticipant: make(map[string]*ParticipantStanding),
		PerTeam:        make(map[string]int),
		ItemWise:       []ItemWinners{},
		Skipped:        make(map[SkipReason]int),
	}
	if s == nil {
		return agg
	}
	idx := model.NewIndex(s)

	for _, r := range s.Results {
		if !r.Declared() {
			agg.Skipped[SkipDraft]++
			continue
		}
		item, ok := idx.Item(r.ItemID)
		if !ok {
			agg.Skipped[SkipOrphan]++
			continue
		}

		categoryID := idx.ResultCategory(r)
		row := ItemWinners{
			ResultID:     r.ID,
			ItemID:       item.ID,
			ItemName:     item.Name,
			ItemType:     item.Type,
			CategoryID:   categoryID,
			CategoryName: idx.CategoryName(categoryID),
			Winners:      make(map[model.Position][]WinnerEntry),
		}

		for _, w := range r.Winners {
			if !w.Position.Placed() {
				continue
			}
			p, ok := idx.Participant(w.ParticipantID)
			if !ok {
				agg.Skipped[SkipParticipant]++
				continue
			}

			b := scoring.Score(item, w, s.GradePoints)
			pts := b.Total()

			st := agg.standing(p, idx)
			st.Points += pts
			st.Wins[w.Position] = append(st.Wins[w.Position], item.Name)
			if p.TeamID != "" {
				agg.PerTeam[p.TeamID] += pts
			}

			row.Winners[w.Position] = append(row.Winners[w.Position], WinnerEntry{
				ParticipantID: p.ID,
				ChestNumber:   p.ChestNumber,
				Name:          p.Name,
				TeamID:        p.TeamID,
				TeamName:      idx.TeamName(p.TeamID),
				Position:      w.Position,
				Points:        pts,
				Breakdown:     b,
			})
		}

		agg.ItemWise = append(agg.ItemWise, row)
		agg.Counted++
	}

	sort.SliceStable(agg.ItemWise, func(i, j int) bool {
		a, b := agg.ItemWise[i], agg.ItemWise[j]
		if a.ItemName != b.ItemName {
			return a.ItemName < b.ItemName
		}
		return a.ItemID < b.ItemID
	})
	return agg
}

func (a *Aggregate) standing(p model.Participant, idx *model.Index) *ParticipantStanding {
	if st, ok := a.PerParticipant[p.ID]; ok {
		return st
	}
	st := &ParticipantStanding{
		ParticipantID: p.ID,
		ChestNumber:   p.ChestNumber,
		Name:          p.Name,
		TeamID:        p.TeamID,
		TeamName:      idx.TeamName(p.TeamID),
		CategoryID:    p.CategoryID,
		Wins:          make(map[model.Position][]string),
	}
	a.PerParticipant[p.ID] = st
	return st
}
