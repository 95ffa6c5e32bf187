package api

import (
	"context"
	"net/http"

	"github.com/okian/festboard/internal/domain/facet"
	"github.com/okian/festboard/internal/domain/model"
	"github.com/okian/festboard/internal/domain/types"
)

// ListDependencies filters the snapshot collections.
type ListDependencies interface {
	Participants(ctx context.Context, sel facet.Selections) ([]model.Participant, types.Meta)
	Items(ctx context.Context, sel facet.Selections) ([]model.Item, types.Meta)
	Schedule(ctx context.Context, sel facet.Selections) ([]model.ScheduledEvent, types.Meta)
	Results(ctx context.Context, sel facet.Selections) ([]model.Result, types.Meta)
}

// ListHandler serves the filtered collection endpoints.
type ListHandler struct {
	deps ListDependencies
}

// NewListHandler creates a new list handler.
func NewListHandler(deps ListDependencies) *ListHandler {
	return &ListHandler{deps: deps}
}

// HandleParticipants handles GET /participants.
func (h *ListHandler) HandleParticipants(w http.ResponseWriter, r *http.Request) {
	serveListing(w, r, "api.list_participants", h.deps.Participants)
}

// HandleItems handles GET /items.
func (h *ListHandler) HandleItems(w http.ResponseWriter, r *http.Request) {
	serveListing(w, r, "api.list_items", h.deps.Items)
}

// HandleSchedule handles GET /schedule.
func (h *ListHandler) HandleSchedule(w http.ResponseWriter, r *http.Request) {
	serveListing(w, r, "api.list_schedule", h.deps.Schedule)
}

// HandleResults handles GET /results.
func (h *ListHandler) HandleResults(w http.ResponseWriter, r *http.Request) {
	serveListing(w, r, "api.list_results", h.deps.Results)
}
