package api

import (
	"context"
	"net/http"

	"github.com/okian/festboard/internal/domain/facet"
	"github.com/okian/festboard/internal/domain/standings"
	"github.com/okian/festboard/internal/domain/types"
)

// ReportDependencies produces the merit list and the item-wise table.
type ReportDependencies interface {
	MeritList(ctx context.Context, sel facet.Selections) ([]standings.ParticipantStanding, types.Meta)
	ItemWinners(ctx context.Context, sel facet.Selections) ([]standings.ItemWinners, types.Meta)
}

// ReportHandler serves the report endpoints.
type ReportHandler struct {
	deps ReportDependencies
}

// NewReportHandler creates a new report handler.
func NewReportHandler(deps ReportDependencies) *ReportHandler {
	return &ReportHandler{deps: deps}
}

// HandleMerit handles GET /reports/merit.
func (h *ReportHandler) HandleMerit(w http.ResponseWriter, r *http.Request) {
	serveListing(w, r, "api.get_merit", h.deps.MeritList)
}

// HandleItems handles GET /reports/items.
func (h *ReportHandler) HandleItems(w http.ResponseWriter, r *http.Request) {
	serveListing(w, r, "api.get_item_winners", h.deps.ItemWinners)
}

// serveListing parses the caller's selections, runs query and writes the
// rows as a listing.
func serveListing[T any](
	w http.ResponseWriter,
	r *http.Request,
	op string,
	query func(context.Context, facet.Selections) ([]T, types.Meta),
) {
	sel, err := selectionsFromQuery(r)
	if err != nil {
		writeFailure(w, WrapKind(op, ErrBadRequest, err))
		return
	}
	rows, meta := query(r.Context(), sel)
	writeJSON(w, http.StatusOK, types.NewListing(meta, sel.Map(), sel.Version(), rows))
}
