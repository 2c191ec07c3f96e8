package api

import (
	"context"
	"net/http"

	"github.com/okian/strongman/internal/domain/model"
	"github.com/okian/strongman/internal/domain/types"
)

// ParticipantDependencies defines the engine operations behind /participants.
type ParticipantDependencies interface {
	Participants(ctx context.Context) []model.Participant
	AddParticipant(ctx context.Context, name string) (model.Participant, error)
	RemoveParticipant(ctx context.Context, id string) bool
	Standing(ctx context.Context, participantID string) (types.Standing, error)
}

type addParticipantRequest struct {
	Name string `json:"name"`
}

type participantResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	TotalPoints int    `json:"total_points"`
}

func toParticipantResponse(p model.Participant) participantResponse {
	return participantResponse{ID: p.ID, Name: p.Name, TotalPoints: p.TotalPoints}
}

// ParticipantHandler serves participant registration and lookup.
type ParticipantHandler struct {
	deps ParticipantDependencies
}

// NewParticipantHandler creates a new participant handler.
func NewParticipantHandler(deps ParticipantDependencies) *ParticipantHandler {
	return &ParticipantHandler{deps: deps}
}

// HandleCollection handles GET and POST /participants.
func (h *ParticipantHandler) HandleCollection(w http.ResponseWriter, r *http.Request) {
	const op = "api.participants"
	switch r.Method {
	case http.MethodGet:
		participants := h.deps.Participants(r.Context())
		out := make([]participantResponse, len(participants))
		for i, p := range participants {
			out[i] = toParticipantResponse(p)
		}
		writeJSON(w, http.StatusOK, out)
	case http.MethodPost:
		var req addParticipantRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
			return
		}
		p, err := h.deps.AddParticipant(r.Context(), req.Name)
		if err != nil {
			writeEngineError(w, op, err)
			return
		}
		writeJSON(w, http.StatusCreated, toParticipantResponse(p))
	default:
		methodNotAllowed(w, op, http.MethodGet, http.MethodPost)
	}
}

// HandleItem handles GET and DELETE /participants/{id}.
func (h *ParticipantHandler) HandleItem(w http.ResponseWriter, r *http.Request) {
	const op = "api.participant"
	id, ok := pathID(r, "/participants/")
	if !ok {
		writeError(w, http.StatusNotFound, "not_found", NewKind(op, model.ErrNotFound))
		return
	}
	switch r.Method {
	case http.MethodGet:
		st, err := h.deps.Standing(r.Context(), id)
		if err != nil {
			writeEngineError(w, op, err)
			return
		}
		writeJSON(w, http.StatusOK, st)
	case http.MethodDelete:
		writeJSON(w, http.StatusOK, removedResponse{Removed: h.deps.RemoveParticipant(r.Context(), id)})
	default:
		methodNotAllowed(w, op, http.MethodGet, http.MethodDelete)
	}
}
