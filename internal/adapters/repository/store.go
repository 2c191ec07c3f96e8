// Package repository holds the in-memory records of the current event.
package repository

import (
	"context"

	"github.com/okian/strongman/internal/domain/model"
)

// Store provides read/write access to the event, its participants and results.
// Implementations keep insertion order; ranking tie-breaks depend on it.
// Reads return copies, never aliases of internal state.
type Store interface {
	// Event returns the current event, if any.
	Event(ctx context.Context) (model.Event, bool)
	// ReplaceEvent installs e and drops all participants and results.
	ReplaceEvent(ctx context.Context, e model.Event)
	// Clear drops the event, participants and results.
	Clear(ctx context.Context)

	// Participants returns all participants in insertion order.
	Participants(ctx context.Context) []model.Participant
	// Participant looks up a participant by id.
	Participant(ctx context.Context, id string) (model.Participant, bool)
	// FindByName looks up a participant by case-insensitive name.
	FindByName(ctx context.Context, name string) (model.Participant, bool)
	// AddParticipant appends p.
	AddParticipant(ctx context.Context, p model.Participant)
	// RemoveParticipant deletes a participant and its result.
	// Returns false if the id is unknown.
	RemoveParticipant(ctx context.Context, id string) bool

	// Results returns all results in list order.
	Results(ctx context.Context) []model.Result
	// UpsertResult stores r as the result of r.ParticipantID. An existing
	// result is replaced at its position. Returns true on replacement.
	UpsertResult(ctx context.Context, r model.Result) bool
	// RemoveResult deletes a result by id. Returns false if the id is unknown.
	RemoveResult(ctx context.Context, id string) bool

	// SetPoints overwrites every participant's TotalPoints; absent ids get 0.
	SetPoints(ctx context.Context, points map[string]int)

	// Count returns the number of participants and results.
	Count(ctx context.Context) (participants, results int)
}
