package service

import (
	"context"

	"github.com/okian/festboard/internal/domain/facet"
	"github.com/okian/festboard/internal/domain/model"
	"github.com/okian/festboard/internal/domain/standings"
	"github.com/okian/festboard/internal/domain/types"
	"github.com/okian/festboard/pkg/metrics"
)

// Leaderboard returns the team ranking, truncated to limit when limit > 0.
func (s *Service) Leaderboard(_ context.Context, limit int) ([]standings.TeamStanding, types.Meta) {
	v := s.view()
	board := v.agg.Leaderboard(v.snap.Teams)
	if limit > 0 && len(board) > limit {
		board = board[:limit]
	}
	return board, v.meta()
}

// Stats returns the dashboard counts.
func (s *Service) Stats(_ context.Context) (standings.Stats, types.Meta) {
	v := s.view()
	return v.stats, v.meta()
}

// MeritList returns placed participants matching sel in chest-number order.
func (s *Service) MeritList(_ context.Context, sel facet.Selections) ([]standings.ParticipantStanding, types.Meta) {
	v := s.view()
	c := facet.Participants(v.idx)
	metrics.RecordFilterEvaluation(c.Name())
	rows := v.agg.MeritList(func(id string) bool {
		p, ok := v.idx.Participant(id)
		return ok && c.Matches(p, sel)
	})
	return rows, v.meta()
}

// ItemWinners returns the item-wise result table. Rows follow the item
// facets; a team selection keeps rows where one of those teams placed.
func (s *Service) ItemWinners(_ context.Context, sel facet.Selections) ([]standings.ItemWinners, types.Meta) {
	v := s.view()
	c := facet.Items()
	metrics.RecordFilterEvaluation(c.Name())
	others := sel.Without(facet.Category)
	rows := v.agg.ItemWiseFor(func(row standings.ItemWinners) bool {
		it, ok := v.idx.Item(row.ItemID)
		return ok && sel.Allows(facet.Category, row.CategoryID) && c.Matches(it, others)
	})
	if len(sel.Values(facet.Team)) == 0 {
		return rows, v.meta()
	}

	out := rows[:0]
	for _, row := range rows {
		if rowHasTeam(row, sel) {
			out = append(out, row)
		}
	}
	return out, v.meta()
}

func rowHasTeam(row standings.ItemWinners, sel facet.Selections) bool {
	for _, ws := range row.Winners {
		for _, w := range ws {
			if sel.Allows(facet.Team, w.TeamID) {
				return true
			}
		}
	}
	return false
}

// Participants lists participants matching sel.
func (s *Service) Participants(_ context.Context, sel facet.Selections) ([]model.Participant, types.Meta) {
	v := s.view()
	return filter(v.snap.Participants, facet.Participants(v.idx), sel), v.meta()
}

// Items lists items matching sel.
func (s *Service) Items(_ context.Context, sel facet.Selections) ([]model.Item, types.Meta) {
	v := s.view()
	return filter(v.snap.Items, facet.Items(), sel), v.meta()
}

// Schedule lists schedule entries matching sel.
func (s *Service) Schedule(_ context.Context, sel facet.Selections) ([]model.ScheduledEvent, types.Meta) {
	v := s.view()
	return filter(v.snap.Schedule, facet.Schedule(v.idx), sel), v.meta()
}

// Results lists results matching sel, drafts included.
func (s *Service) Results(_ context.Context, sel facet.Selections) ([]model.Result, types.Meta) {
	v := s.view()
	return filter(v.snap.Results, facet.Results(v.idx), sel), v.meta()
}

func filter[T any](xs []T, c *facet.Consumer[T], sel facet.Selections) []T {
	metrics.RecordFilterEvaluation(c.Name())
	return facet.Filter(xs, c, sel)
}

// Options lists the values each facet offers under the other selections.
// Every facet is drawn from the collection that defines it.
func (s *Service) Options(_ context.Context, sel facet.Selections) (map[string][]string, types.Meta) {
	v := s.view()
	participants := facet.Participants(v.idx)
	items := facet.Items()
	schedule := facet.Schedule(v.idx)
	results := facet.Results(v.idx)

	out := map[string][]string{
		facet.Team.String():            facet.Options(v.snap.Participants, participants, sel, facet.Team),
		facet.Category.String():        facet.Options(v.snap.Items, items, sel, facet.Category),
		facet.Item.String():            facet.Options(v.snap.Items, items, sel, facet.Item),
		facet.PerformanceType.String(): facet.Options(v.snap.Items, items, sel, facet.PerformanceType),
		facet.ItemType.String():        facet.Options(v.snap.Items, items, sel, facet.ItemType),
		facet.ResultStatus.String():    facet.Options(v.snap.Results, results, sel, facet.ResultStatus),
		facet.Date.String():            facet.Options(v.snap.Schedule, schedule, sel, facet.Date),
		facet.Stage.String():           facet.Options(v.snap.Schedule, schedule, sel, facet.Stage),
	}
	return out, v.meta()
}
