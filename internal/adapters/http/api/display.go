package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/okian/festboard/internal/adapters/mq/broker"
	"github.com/okian/festboard/internal/domain/presenter"
	"github.com/okian/festboard/pkg/logger"
)

// DisplayDependencies controls the projector display.
type DisplayDependencies interface {
	Frame() (presenter.Frame, bool)
	Subscribe() (broker.Subscription[presenter.Frame], error)
	Unsubscribe(id string)
	Pause() error
	Resume() error
	Jump(m presenter.Mode) error
}

// DisplayHandler serves the current frame, the frame stream and the
// display controls.
type DisplayHandler struct {
	deps         DisplayDependencies
	pingInterval time.Duration
	logger       logger.Logger
}

// NewDisplayHandler creates a new display handler.
func NewDisplayHandler(deps DisplayDependencies, pingInterval time.Duration, l logger.Logger) *DisplayHandler {
	return &DisplayHandler{deps: deps, pingInterval: pingInterval, logger: l}
}

type displayResponse struct {
	Available bool             `json:"available"`
	Frame     *presenter.Frame `json:"frame,omitempty"`
}

func (h *DisplayHandler) current() displayResponse {
	f, ok := h.deps.Frame()
	if !ok {
		return displayResponse{}
	}
	return displayResponse{Available: true, Frame: &f}
}

// HandleGet handles GET /display.
func (h *DisplayHandler) HandleGet(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.current())
}

// HandlePause handles POST /display/pause.
func (h *DisplayHandler) HandlePause(w http.ResponseWriter, _ *http.Request) {
	h.control(w, "api.display_pause", h.deps.Pause)
}

// HandleResume handles POST /display/resume.
func (h *DisplayHandler) HandleResume(w http.ResponseWriter, _ *http.Request) {
	h.control(w, "api.display_resume", h.deps.Resume)
}

// HandleMode handles POST /display/mode/{mode}.
func (h *DisplayHandler) HandleMode(w http.ResponseWriter, r *http.Request) {
	const op = "api.display_mode"
	m, err := presenter.ParseMode(chi.URLParam(r, "mode"))
	if err != nil {
		writeFailure(w, WrapKind(op, ErrBadRequest, err))
		return
	}
	h.control(w, op, func() error { return h.deps.Jump(m) })
}

func (h *DisplayHandler) control(w http.ResponseWriter, op string, fn func() error) {
	if err := fn(); err != nil {
		writeFailure(w, WrapKind(op, ErrUnavailable, err))
		return
	}
	writeJSON(w, http.StatusOK, h.current())
}

// HandleStream handles GET /display/stream as server-sent events. Every
// frame is sent as a "frame" event; idle connections receive a "ping".
func (h *DisplayHandler) HandleStream(w http.ResponseWriter, r *http.Request) {
	const op = "api.display_stream"
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeFailure(w, NewKind(op, ErrStreaming))
		return
	}

	sub, err := h.deps.Subscribe()
	if err != nil {
		writeFailure(w, WrapKind(op, ErrUnavailable, err))
		return
	}
	defer h.deps.Unsubscribe(sub.ID)

	// Streams outlive the server write timeout.
	_ = http.NewResponseController(w).SetWriteDeadline(time.Time{})

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	ctx := r.Context()
	ping := time.NewTicker(h.pingInterval)
	defer ping.Stop()

	h.logger.Debug(ctx, "display stream opened", logger.String("subscriber", sub.ID))
	defer h.logger.Debug(ctx, "display stream closed", logger.String("subscriber", sub.ID))

	for {
		select {
		case <-ctx.Done():
			return
		case f, ok := <-sub.C:
			if !ok {
				return
			}
			data, err := json.Marshal(f)
			if err != nil {
				h.logger.Error(ctx, "encode frame", logger.Error(err))
				continue
			}
			if _, err := fmt.Fprintf(w, "id: %d\nevent: frame\ndata: %s\n\n", f.Seq, data); err != nil {
				return
			}
			flusher.Flush()
		case <-ping.C:
			if _, err := fmt.Fprint(w, "event: ping\ndata: {}\n\n"); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}
