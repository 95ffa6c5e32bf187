package standings

import "github.com/okian/festboard/internal/domain/model"

// ResultCounts tallies results by status. Orphaned results are counted on
// their own and excluded from the status buckets.
type ResultCounts struct {
	NotUploaded int `json:"not_uploaded"`
	Uploaded    int `json:"uploaded"`
	Declared    int `json:"declared"`
	Orphaned    int `json:"orphaned"`
}

// Stats feeds the dashboard and the STATS display slide.
type Stats struct {
	Items           int          `json:"items"`
	Participants    int          `json:"participants"`
	Teams           int          `json:"teams"`
	Categories      int          `json:"categories"`
	ScheduledEvents int          `json:"scheduled_events"`
	Results         ResultCounts `json:"results"`
	// DeclaredItems counts distinct items with at least one declared result.
	DeclaredItems int `json:"declared_items"`
	PendingItems  int `json:"pending_items"`
	PointsAwarded int `json:"points_awarded"`
	// Placed counts participants holding at least one placing.
	Placed int `json:"placed"`
	// Leader is the top team once any points have been awarded.
	Leader *TeamStanding `json:"leader,omitempty"`
}

// ComputeStats derives dashboard counts from s and its aggregate.
func ComputeStats(s *model.Snapshot, agg Aggregate) Stats {
	if s == nil {
		return Stats{}
	}
	idx := model.NewIndex(s)
	st := Stats{
		Items:           len(s.Items),
		Participants:    len(s.Participants),
		Teams:           len(s.Teams),
		Categories:      len(s.Categories),
		ScheduledEvents: len(s.Schedule),
		Placed:          len(agg.PerParticipant),
	}

	declared := make(map[string]struct{})
	for _, r := range s.Results {
		if idx.Orphaned(r) {
			st.Results.Orphaned++
			continue
		}
		switch r.Status {
		case model.StatusNotUploaded:
			st.Results.NotUploaded++
		case model.StatusUploaded:
			st.Results.Uploaded++
		case model.StatusDeclared:
			st.Results.Declared++
			declared[r.ItemID] = struct{}{}
		}
	}
	st.DeclaredItems = len(declared)
	st.PendingItems = st.Items - st.DeclaredItems

	for _, p := range agg.PerParticipant {
		st.PointsAwarded += p.Points
	}
	if board := agg.Leaderboard(s.Teams); len(board) > 0 && board[0].Points > 0 {
		leader := board[0]
		st.Leader = &leader
	}
	return st
}
