package repository

import (
	"context"
	"slices"

	"github.com/okian/strongman/internal/domain/model"
)

const defaultCapacity = 16

var _ Store = (*MemoryStore)(nil)

// MemoryStore is a slice-backed Store. It is not safe for concurrent use;
// the owning service serializes access.
type MemoryStore struct {
	event        *model.Event
	participants []model.Participant
	results      []model.Result

	capacity int
	observe  func(active bool, participants, results int)
}

// NewMemoryStore creates an empty store.
func NewMemoryStore(opts ...Option) *MemoryStore {
	s := &MemoryStore{capacity: defaultCapacity}
	for _, opt := range opts {
		opt(s)
	}
	s.reset()
	return s
}

func (s *MemoryStore) reset() {
	s.participants = make([]model.Participant, 0, s.capacity)
	s.results = make([]model.Result, 0, s.capacity)
}

func (s *MemoryStore) changed() {
	if s.observe != nil {
		s.observe(s.event != nil, len(s.participants), len(s.results))
	}
}

func (s *MemoryStore) Event(_ context.Context) (model.Event, bool) {
	if s.event == nil {
		return model.Event{}, false
	}
	return *s.event, true
}

func (s *MemoryStore) ReplaceEvent(_ context.Context, e model.Event) {
	s.event = &e
	s.reset()
	s.changed()
}

func (s *MemoryStore) Clear(_ context.Context) {
	s.event = nil
	s.reset()
	s.changed()
}

func (s *MemoryStore) Participants(_ context.Context) []model.Participant {
	return slices.Clone(s.participants)
}

func (s *MemoryStore) Participant(_ context.Context, id string) (model.Participant, bool) {
	i := slices.IndexFunc(s.participants, func(p model.Participant) bool { return p.ID == id })
	if i < 0 {
		return model.Participant{}, false
	}
	return s.participants[i], true
}

func (s *MemoryStore) FindByName(_ context.Context, name string) (model.Participant, bool) {
	i := slices.IndexFunc(s.participants, func(p model.Participant) bool { return model.SameName(p.Name, name) })
	if i < 0 {
		return model.Participant{}, false
	}
	return s.participants[i], true
}

func (s *MemoryStore) AddParticipant(_ context.Context, p model.Participant) {
	s.participants = append(s.participants, p)
	s.changed()
}

func (s *MemoryStore) RemoveParticipant(_ context.Context, id string) bool {
	before := len(s.participants)
	s.participants = slices.DeleteFunc(s.participants, func(p model.Participant) bool { return p.ID == id })
	if len(s.participants) == before {
		return false
	}
	s.results = slices.DeleteFunc(s.results, func(r model.Result) bool { return r.ParticipantID == id })
	s.changed()
	return true
}

func (s *MemoryStore) Results(_ context.Context) []model.Result {
	return slices.Clone(s.results)
}

func (s *MemoryStore) UpsertResult(_ context.Context, r model.Result) bool {
	i := slices.IndexFunc(s.results, func(existing model.Result) bool { return existing.ParticipantID == r.ParticipantID })
	if i >= 0 {
		s.results[i] = r
		s.changed()
		return true
	}
	s.results = append(s.results, r)
	s.changed()
	return false
}

func (s *MemoryStore) RemoveResult(_ context.Context, id string) bool {
	before := len(s.results)
	s.results = slices.DeleteFunc(s.results, func(r model.Result) bool { return r.ID == id })
	if len(s.results) == before {
		return false
	}
	s.changed()
	return true
}

func (s *MemoryStore) SetPoints(_ context.Context, points map[string]int) {
	for i := range s.participants {
		s.participants[i].TotalPoints = points[s.participants[i].ID]
	}
}

func (s *MemoryStore) Count(_ context.Context) (participants, results int) {
	return len(s.participants), len(s.results)
}
