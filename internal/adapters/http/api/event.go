package api

import (
	"context"
	"net/http"
	"time"

	"github.com/okian/strongman/internal/domain/model"
)

// EventDependencies defines the engine operations behind /event.
type EventDependencies interface {
	CurrentEvent(ctx context.Context) (model.Event, bool)
	CreateEvent(ctx context.Context, name string, typ model.EventType) (model.Event, error)
	ResetEvent(ctx context.Context)
}

type createEventRequest struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

type eventResponse struct {
	Name      string    `json:"name"`
	Type      string    `json:"type"`
	TypeLabel string    `json:"type_label"`
	CreatedAt time.Time `json:"created_at"`
}

func toEventResponse(ev model.Event) eventResponse {
	return eventResponse{
		Name:      ev.Name,
		Type:      string(ev.Type),
		TypeLabel: ev.Type.Label(),
		CreatedAt: ev.CreatedAt,
	}
}

// EventHandler serves the event lifecycle.
type EventHandler struct {
	deps EventDependencies
}

// NewEventHandler creates a new event handler.
func NewEventHandler(deps EventDependencies) *EventHandler {
	return &EventHandler{deps: deps}
}

// HandleEvent handles GET, POST and DELETE /event.
func (h *EventHandler) HandleEvent(w http.ResponseWriter, r *http.Request) {
	const op = "api.event"
	switch r.Method {
	case http.MethodGet:
		ev, ok := h.deps.CurrentEvent(r.Context())
		if !ok {
			writeError(w, http.StatusNotFound, "no_active_event", Wrap(op, model.ErrNoActiveEvent))
			return
		}
		writeJSON(w, http.StatusOK, toEventResponse(ev))
	case http.MethodPost:
		var req createEventRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
			return
		}
		typ, err := model.ParseEventType(req.Type)
		if err != nil {
			writeEngineError(w, op, err)
			return
		}
		ev, err := h.deps.CreateEvent(r.Context(), req.Name, typ)
		if err != nil {
			writeEngineError(w, op, err)
			return
		}
		writeJSON(w, http.StatusCreated, toEventResponse(ev))
	case http.MethodDelete:
		h.deps.ResetEvent(r.Context())
		w.WriteHeader(http.StatusNoContent)
	default:
		methodNotAllowed(w, op, http.MethodGet, http.MethodPost, http.MethodDelete)
	}
}
