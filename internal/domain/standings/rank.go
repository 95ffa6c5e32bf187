package standings

import (
	"sort"

	"github.com/okian/festboard/internal/domain/model"
)

// TeamStanding is one leaderboard row.
type TeamStanding struct {
	Rank   int    `json:"rank"`
	TeamID string `json:"team_id"`
	Name   string `json:"name"`
	Points int    `json:"points"`
}

// Leaderboard ranks every team in teams by total points.
//
// Ordering: points DESC, then name ASC, then id ASC. Teams with equal points
// share a rank and the next distinct total takes the following rank.
func (a Aggregate) Leaderboard(teams []model.Team) []TeamStanding {
	out := make([]TeamStanding, 0, len(teams))
	for _, t := range teams {
		out = append(out, TeamStanding{TeamID: t.ID, Name: t.Name, Points: a.PerTeam[t.ID]})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Points != out[j].Points {
			return out[i].Points > out[j].Points
		}
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].TeamID < out[j].TeamID
	})
	assignRanksWithTies(out)
	return out
}

// assignRanksWithTies gives equal totals the same rank; ranks stay
// consecutive (1, 1, 2, ...).
func assignRanksWithTies(rows []TeamStanding) {
	rank := 0
	for i := range rows {
		if i == 0 || rows[i].Points != rows[i-1].Points {
			rank++
		}
		rows[i].Rank = rank
	}
}

// MeritList returns participants with at least one placing ordered by chest
// number, comparing embedded digits by value. keep filters participants by id;
// nil keeps everyone.
func (a Aggregate) MeritList(keep func(participantID string) bool) []ParticipantStanding {
	out := make([]ParticipantStanding, 0, len(a.PerParticipant))
	for id, st := range a.PerParticipant {
		if keep != nil && !keep(id) {
			continue
		}
		out = append(out, *st)
	}

	order := model.NewChestOrder()
	sort.SliceStable(out, func(i, j int) bool {
		if c := order.Compare(out[i].ChestNumber, out[j].ChestNumber); c != 0 {
			return c < 0
		}
		return out[i].ParticipantID < out[j].ParticipantID
	})
	return out
}

// ItemWiseFor returns the item-wise rows passing keep; nil keeps every row.
// Row order is preserved.
func (a Aggregate) ItemWiseFor(keep func(ItemWinners) bool) []ItemWinners {
	out := make([]ItemWinners, 0, len(a.ItemWise))
	for _, row := range a.ItemWise {
		if keep == nil || keep(row) {
			out = append(out, row)
		}
	}
	return out
}
