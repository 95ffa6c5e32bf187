package api

import (
	"context"
	"net/http"

	"github.com/okian/festboard/internal/domain/standings"
	"github.com/okian/festboard/internal/domain/types"
)

// StatsProvider defines the interface for getting service statistics.
type StatsProvider interface {
	GetStats() map[string]interface{}
}

// FestivalStats reads the dashboard counts.
type FestivalStats interface {
	Stats(ctx context.Context) (standings.Stats, types.Meta)
}

// StatsHandler handles stats requests.
type StatsHandler struct {
	statsProvider StatsProvider
	festival      FestivalStats
}

// NewStatsHandler creates a new stats handler.
func NewStatsHandler(statsProvider StatsProvider, festival FestivalStats) *StatsHandler {
	return &StatsHandler{statsProvider: statsProvider, festival: festival}
}

type statsResponse struct {
	types.Meta
	Festival standings.Stats       `json:"festival"`
	Service  map[string]interface{} `json:"service"`
}

// HandleStats handles GET /stats requests.
func (h *StatsHandler) HandleStats(w http.ResponseWriter, r *http.Request) {
	festival, meta := h.festival.Stats(r.Context())
	writeJSON(w, http.StatusOK, statsResponse{
		Meta:     meta,
		Festival: festival,
		Service:  h.statsProvider.GetStats(),
	})
}
