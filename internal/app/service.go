// Package service provides the ranking engine: it owns the current event,
// its participants and results, and serves the commands and queries the
// HTTP API depends on.
package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	repository "github.com/okian/strongman/internal/adapters/repository"
	"github.com/okian/strongman/internal/domain/model"
	"github.com/okian/strongman/internal/domain/scoring"
	"github.com/okian/strongman/internal/domain/types"
	"github.com/okian/strongman/pkg/logger"
	"github.com/okian/strongman/pkg/metrics"
)

// Command names used for logging and metrics.
const (
	cmdCreateEvent       = "create_event"
	cmdResetEvent        = "reset_event"
	cmdAddParticipant    = "add_participant"
	cmdRemoveParticipant = "remove_participant"
	cmdSubmitResult      = "submit_result"
	cmdRemoveResult      = "remove_result"
)

// Service is the ranking engine. Commands are serialized: each one validates,
// mutates and recomputes points before the next is accepted.
type Service struct {
	mu    sync.RWMutex
	store repository.Store

	newID func() string
	now   func() time.Time

	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithIDGenerator replaces the UUID id source.
func WithIDGenerator(fn func() string) Option {
	return func(s *Service) {
		if fn != nil {
			s.newID = fn
		}
	}
}

// WithClock replaces time.Now for event timestamps.
func WithClock(fn func() time.Time) Option {
	return func(s *Service) {
		if fn != nil {
			s.now = fn
		}
	}
}

// WithStore replaces the in-memory record store.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// New constructs a ranking engine with no active event.
func New(opts ...Option) *Service {
	s := &Service{
		newID:  uuid.NewString,
		now:    time.Now,
		logger: logger.Nop(),
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.store == nil {
		s.store = repository.NewMemoryStore(repository.WithObserver(metrics.UpdateState))
	}
	return s
}

// CreateEvent starts a new event, discarding any previous event together
// with its participants and results.
func (s *Service) CreateEvent(ctx context.Context, name string, typ model.EventType) (model.Event, error) {
	name, err := model.NormalizeName("name", name)
	if err != nil {
		return model.Event{}, s.reject(ctx, cmdCreateEvent, err)
	}
	if !typ.Valid() {
		return model.Event{}, s.reject(ctx, cmdCreateEvent, model.Invalid("type", "must be distance or reps"))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ev := model.Event{Name: name, Type: typ, CreatedAt: s.now()}
	s.store.ReplaceEvent(ctx, ev)

	s.accept(ctx, cmdCreateEvent, logger.String("event", ev.Name), logger.String("type", string(ev.Type)))
	return ev, nil
}

// ResetEvent drops the event, participants and results. Callers confirm
// intent before calling; the operation cannot be undone.
func (s *Service) ResetEvent(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.store.Clear(ctx)
	s.accept(ctx, cmdResetEvent)
}

// AddParticipant registers a competitor in the current event.
func (s *Service) AddParticipant(ctx context.Context, name string) (model.Participant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.store.Event(ctx); !ok {
		return model.Participant{}, s.reject(ctx, cmdAddParticipant, model.ErrNoActiveEvent)
	}
	name, err := model.NormalizeName("name", name)
	if err != nil {
		return model.Participant{}, s.reject(ctx, cmdAddParticipant, err)
	}
	if existing, ok := s.store.FindByName(ctx, name); ok {
		return model.Participant{}, s.reject(ctx, cmdAddParticipant,
			fmt.Errorf("%w: %q is already registered", model.ErrDuplicateName, existing.Name))
	}

	p := model.Participant{ID: s.newID(), Name: name}
	s.store.AddParticipant(ctx, p)
	// N grows, so every existing placement is worth one more point
	s.recompute(ctx)

	p, _ = s.store.Participant(ctx, p.ID)
	s.accept(ctx, cmdAddParticipant, logger.String("participant", p.ID), logger.String("name", p.Name))
	return p, nil
}

// RemoveParticipant deletes a participant and its result. Unknown ids are
// a no-op and report false.
func (s *Service) RemoveParticipant(ctx context.Context, id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.store.RemoveParticipant(ctx, id) {
		s.noop(ctx, cmdRemoveParticipant, id)
		return false
	}
	s.recompute(ctx)
	s.accept(ctx, cmdRemoveParticipant, logger.String("participant", id))
	return true
}

// SubmitResult records the result of a participant, replacing an earlier
// one. measurement is the distance in meters or the repetition count,
// depending on the event type. updated reports whether a result was replaced.
func (s *Service) SubmitResult(ctx context.Context, participantID string, timeSeconds, measurement float64) (r model.Result, updated bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ev, ok := s.store.Event(ctx)
	if !ok {
		return model.Result{}, false, s.reject(ctx, cmdSubmitResult, model.ErrNoActiveEvent)
	}
	if _, ok := s.store.Participant(ctx, participantID); !ok {
		return model.Result{}, false, s.reject(ctx, cmdSubmitResult, model.Invalid("participant_id", "unknown participant"))
	}
	if err := model.ValidateTime(timeSeconds); err != nil {
		return model.Result{}, false, s.reject(ctx, cmdSubmitResult, err)
	}
	if err := model.ValidateMeasurement(ev.Type, measurement); err != nil {
		return model.Result{}, false, s.reject(ctx, cmdSubmitResult, err)
	}

	r = model.Result{ID: s.newID(), ParticipantID: participantID, Time: timeSeconds}
	if ev.Type == model.EventTypeReps {
		r.Reps = int(measurement)
	} else {
		r.Distance = measurement
	}

	updated = s.store.UpsertResult(ctx, r)
	s.recompute(ctx)

	s.accept(ctx, cmdSubmitResult,
		logger.String("participant", participantID),
		logger.String("result", r.ID),
		logger.Bool("updated", updated),
	)
	return r, updated, nil
}

// RemoveResult deletes a result. Unknown ids are a no-op and report false.
func (s *Service) RemoveResult(ctx context.Context, id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.store.RemoveResult(ctx, id) {
		s.noop(ctx, cmdRemoveResult, id)
		return false
	}
	s.recompute(ctx)
	s.accept(ctx, cmdRemoveResult, logger.String("result", id))
	return true
}

// CurrentEvent returns the active event, if any.
func (s *Service) CurrentEvent(ctx context.Context) (model.Event, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.store.Event(ctx)
}

// Participants returns the participants in registration order.
func (s *Service) Participants(ctx context.Context) []model.Participant {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.store.Participants(ctx)
}

// RankedResults returns the results best first with their points.
func (s *Service) RankedResults(ctx context.Context) []types.RankedResult {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ev, ok := s.store.Event(ctx)
	if !ok {
		return []types.RankedResult{}
	}
	participants := s.store.Participants(ctx)
	names := make(map[string]string, len(participants))
	for _, p := range participants {
		names[p.ID] = p.Name
	}

	outcome := s.rank(ctx, ev, len(participants))
	rows := make([]types.RankedResult, len(outcome.Placements))
	for i, pl := range outcome.Placements {
		row := types.RankedResult{
			Rank:            pl.Rank,
			Medal:           types.Medal(pl.Rank),
			ResultID:        pl.Result.ID,
			ParticipantID:   pl.Result.ParticipantID,
			ParticipantName: names[pl.Result.ParticipantID],
			Time:            pl.Result.Time,
			TimeDisplay:     model.FormatTime(pl.Result.Time),
			Points:          pl.Points,
		}
		if ev.Type == model.EventTypeReps {
			reps := pl.Result.Reps
			row.Reps = &reps
		} else {
			distance := pl.Result.Distance
			row.Distance = &distance
		}
		rows[i] = row
	}
	return rows
}

// Leaderboard returns participants ordered by total points. Equal totals
// keep registration order.
func (s *Service) Leaderboard(ctx context.Context) []types.Standing {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.leaderboard(ctx)
}

// Standing returns the leaderboard row of one participant.
func (s *Service) Standing(ctx context.Context, participantID string) (types.Standing, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, st := range s.leaderboard(ctx) {
		if st.ParticipantID == participantID {
			return st, nil
		}
	}
	return types.Standing{}, fmt.Errorf("participant %q: %w", participantID, model.ErrNotFound)
}

// GetStats returns engine statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	ev, active := s.store.Event(ctx)
	participants, results := s.store.Count(ctx)

	stats := map[string]interface{}{
		"eventActive":  active,
		"participants": participants,
		"results":      results,
	}
	if active {
		stats["eventName"] = ev.Name
		stats["eventType"] = string(ev.Type)
		stats["maxPoints"] = participants
	}
	return stats
}

func (s *Service) leaderboard(ctx context.Context) []types.Standing {
	participants := s.store.Participants(ctx)
	slices.SortStableFunc(participants, func(a, b model.Participant) int {
		return b.TotalPoints - a.TotalPoints
	})

	rows := make([]types.Standing, len(participants))
	for i, p := range participants {
		rows[i] = types.Standing{
			Rank:            i + 1,
			Medal:           types.Medal(i + 1),
			ParticipantID:   p.ID,
			ParticipantName: p.Name,
			TotalPoints:     p.TotalPoints,
		}
	}
	return rows
}

func (s *Service) rank(ctx context.Context, ev model.Event, participantCount int) scoring.Outcome {
	return scoring.Rank(scoring.Input{
		Type:             ev.Type,
		ParticipantCount: participantCount,
		Results:          s.store.Results(ctx),
	})
}

// recompute refreshes every participant's TotalPoints. Callers hold the write lock.
func (s *Service) recompute(ctx context.Context) {
	ev, ok := s.store.Event(ctx)
	if !ok {
		return
	}
	start := time.Now()
	participants, _ := s.store.Count(ctx)
	outcome := s.rank(ctx, ev, participants)
	s.store.SetPoints(ctx, outcome.Points)
	metrics.RecordRecompute(time.Since(start))
}

func (s *Service) accept(ctx context.Context, command string, fields ...logger.Field) {
	metrics.RecordCommand(command, "ok")
	s.logger.Info(ctx, command, fields...)
}

func (s *Service) noop(ctx context.Context, command, id string) {
	metrics.RecordCommand(command, "noop")
	s.logger.Debug(ctx, command+" ignored unknown id", logger.String("id", id))
}

func (s *Service) reject(ctx context.Context, command string, err error) error {
	metrics.RecordCommand(command, Outcome(err))
	s.logger.Debug(ctx, command+" rejected", logger.Error(err))
	return err
}

// Outcome classifies a command error for metrics and API responses.
func Outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, model.ErrValidation):
		return "validation_error"
	case errors.Is(err, model.ErrDuplicateName):
		return "duplicate_name"
	case errors.Is(err, model.ErrNoActiveEvent):
		return "no_active_event"
	case errors.Is(err, model.ErrNotFound):
		return "not_found"
	default:
		return "internal_error"
	}
}
