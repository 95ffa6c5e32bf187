package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/okian/festboard/internal/domain/facet"
	"github.com/okian/festboard/internal/domain/types"
)

// FacetDependencies lists the values each facet currently offers.
type FacetDependencies interface {
	Options(ctx context.Context, sel facet.Selections) (map[string][]string, types.Meta)
}

// FacetHandler serves facet options and selection mutations.
type FacetHandler struct {
	deps     FacetDependencies
	validate *validator.Validate
}

// NewFacetHandler creates a new facet handler.
func NewFacetHandler(deps FacetDependencies, validate *validator.Validate) *FacetHandler {
	return &FacetHandler{deps: deps, validate: validate}
}

// applyRequest carries the selections a client holds and one change to them.
type applyRequest struct {
	Version    uint64              `json:"version"`
	Selections map[string][]string `json:"selections"`
	Mutation   facet.Mutation      `json:"mutation" validate:"required"`
}

type selectionsResponse struct {
	Version    uint64              `json:"version"`
	Selections map[string][]string `json:"selections"`
	Locked     []string            `json:"locked"`
}

func newSelectionsResponse(sel facet.Selections) selectionsResponse {
	locked := []string{}
	for _, f := range facet.All {
		if sel.Locked(f) {
			locked = append(locked, f.String())
		}
	}
	return selectionsResponse{Version: sel.Version(), Selections: sel.Map(), Locked: locked}
}

type optionsResponse struct {
	types.Meta
	selectionsResponse
	Options map[string][]string `json:"options"`
}

// HandleOptions handles GET /facets/options.
func (h *FacetHandler) HandleOptions(w http.ResponseWriter, r *http.Request) {
	const op = "api.facet_options"
	sel, err := selectionsFromQuery(r)
	if err != nil {
		writeFailure(w, WrapKind(op, ErrBadRequest, err))
		return
	}
	opts, meta := h.deps.Options(r.Context(), sel)
	for k, v := range opts {
		if v == nil {
			opts[k] = []string{}
		}
	}
	writeJSON(w, http.StatusOK, optionsResponse{
		Meta:               meta,
		selectionsResponse: newSelectionsResponse(sel),
		Options:            opts,
	})
}

// HandleApply handles POST /facets/apply. The caller's role locks are
// reapplied before the mutation, so a pinned team cannot be changed.
func (h *FacetHandler) HandleApply(w http.ResponseWriter, r *http.Request) {
	const op = "api.facet_apply"
	var req applyRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeFailure(w, WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeFailure(w, WrapKind(op, ErrBadRequest, err))
		return
	}

	base, err := baseSelections(r)
	if err != nil {
		writeFailure(w, WrapKind(op, ErrBadRequest, err))
		return
	}
	sel, err := facet.FromMap(base, req.Version, req.Selections)
	if err != nil {
		writeFailure(w, WrapKind(op, ErrBadRequest, err))
		return
	}
	next, err := req.Mutation.Apply(sel)
	if err != nil {
		writeFailure(w, WrapKind(op, ErrBadRequest, err))
		return
	}
	writeJSON(w, http.StatusOK, newSelectionsResponse(next))
}
