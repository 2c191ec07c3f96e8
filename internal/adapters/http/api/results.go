package api

import (
	"context"
	"net/http"

	"github.com/okian/strongman/internal/domain/model"
	"github.com/okian/strongman/internal/domain/types"
)

// ResultDependencies defines the engine operations behind /results.
type ResultDependencies interface {
	CurrentEvent(ctx context.Context) (model.Event, bool)
	RankedResults(ctx context.Context) []types.RankedResult
	SubmitResult(ctx context.Context, participantID string, timeSeconds, measurement float64) (model.Result, bool, error)
	RemoveResult(ctx context.Context, id string) bool
}

// submitResultRequest accepts the time either in seconds or as stopwatch
// parts. Exactly one of Distance and Reps must match the event type.
type submitResultRequest struct {
	ParticipantID string   `json:"participant_id"`
	TimeSeconds   *float64 `json:"time_seconds,omitempty"`
	Minutes       *int     `json:"minutes,omitempty"`
	Seconds       *int     `json:"seconds,omitempty"`
	Centis        *int     `json:"centis,omitempty"`
	Distance      *float64 `json:"distance,omitempty"`
	Reps          *float64 `json:"reps,omitempty"`
}

func (req submitResultRequest) timeSeconds() (float64, error) {
	hasParts := req.Minutes != nil || req.Seconds != nil || req.Centis != nil
	switch {
	case req.TimeSeconds != nil && hasParts:
		return 0, model.Invalid("time", "give time_seconds or minutes/seconds/centis, not both")
	case req.TimeSeconds != nil:
		return *req.TimeSeconds, nil
	case hasParts:
		return model.TimeFromParts(deref(req.Minutes), deref(req.Seconds), deref(req.Centis))
	default:
		return 0, model.Invalid("time", "required")
	}
}

func (req submitResultRequest) measurement(t model.EventType) (float64, error) {
	if t == model.EventTypeReps {
		if req.Distance != nil {
			return 0, model.Invalid("distance", "not used by repetition events")
		}
		if req.Reps == nil {
			return 0, model.Invalid("reps", "required")
		}
		return *req.Reps, nil
	}
	if req.Reps != nil {
		return 0, model.Invalid("reps", "not used by distance events")
	}
	if req.Distance == nil {
		return 0, model.Invalid("distance", "required")
	}
	return *req.Distance, nil
}

func deref(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}

type submitResultResponse struct {
	Status        string   `json:"status"`
	ID            string   `json:"id"`
	ParticipantID string   `json:"participant_id"`
	TimeSeconds   float64  `json:"time_seconds"`
	Time          string   `json:"time"`
	Distance      *float64 `json:"distance,omitempty"`
	Reps          *int     `json:"reps,omitempty"`
}

// ResultHandler serves result submission and the ranked results table.
type ResultHandler struct {
	deps ResultDependencies
}

// NewResultHandler creates a new result handler.
func NewResultHandler(deps ResultDependencies) *ResultHandler {
	return &ResultHandler{deps: deps}
}

// HandleCollection handles GET and POST /results.
func (h *ResultHandler) HandleCollection(w http.ResponseWriter, r *http.Request) {
	const op = "api.results"
	switch r.Method {
	case http.MethodGet:
		rows := h.deps.RankedResults(r.Context())
		if wantsCSV(r) {
			writeResultsCSV(w, rows)
			return
		}
		writeJSON(w, http.StatusOK, rows)
	case http.MethodPost:
		h.submit(w, r, op)
	default:
		methodNotAllowed(w, op, http.MethodGet, http.MethodPost)
	}
}

func (h *ResultHandler) submit(w http.ResponseWriter, r *http.Request, op string) {
	var req submitResultRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	ev, ok := h.deps.CurrentEvent(r.Context())
	if !ok {
		writeEngineError(w, op, model.ErrNoActiveEvent)
		return
	}
	seconds, err := req.timeSeconds()
	if err != nil {
		writeEngineError(w, op, err)
		return
	}
	measurement, err := req.measurement(ev.Type)
	if err != nil {
		writeEngineError(w, op, err)
		return
	}

	res, updated, err := h.deps.SubmitResult(r.Context(), req.ParticipantID, seconds, measurement)
	if err != nil {
		writeEngineError(w, op, err)
		return
	}

	resp := submitResultResponse{
		Status:        "registered",
		ID:            res.ID,
		ParticipantID: res.ParticipantID,
		TimeSeconds:   res.Time,
		Time:          model.FormatTime(res.Time),
	}
	if ev.Type == model.EventTypeReps {
		resp.Reps = &res.Reps
	} else {
		resp.Distance = &res.Distance
	}
	status := http.StatusCreated
	if updated {
		resp.Status = "updated"
		status = http.StatusOK
	}
	writeJSON(w, status, resp)
}

// HandleItem handles DELETE /results/{id}.
func (h *ResultHandler) HandleItem(w http.ResponseWriter, r *http.Request) {
	const op = "api.result"
	id, ok := pathID(r, "/results/")
	if !ok {
		writeError(w, http.StatusNotFound, "not_found", NewKind(op, model.ErrNotFound))
		return
	}
	if r.Method != http.MethodDelete {
		methodNotAllowed(w, op, http.MethodDelete)
		return
	}
	writeJSON(w, http.StatusOK, removedResponse{Removed: h.deps.RemoveResult(r.Context(), id)})
}
