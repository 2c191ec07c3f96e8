// Package model contains domain models passed between layers.
package model

import (
	"strings"
	"time"
)

// EventType selects how results of an event are measured and ranked.
type EventType string

// Supported event types. Values mirror the form values used by clients.
const (
	EventTypeDistance EventType = "distance" // distance + time, farther wins
	EventTypeReps     EventType = "reps"     // repetitions + time, more wins
)

// ParseEventType accepts "distance" or "reps" in any letter case.
func ParseEventType(s string) (EventType, error) {
	t := EventType(strings.ToLower(strings.TrimSpace(s)))
	if !t.Valid() {
		return "", Invalid("type", "must be distance or reps")
	}
	return t, nil
}

// Valid reports whether t is a known event type.
func (t EventType) Valid() bool {
	return t == EventTypeDistance || t == EventTypeReps
}

// Label is the human readable description of the measurement pair.
func (t EventType) Label() string {
	switch t {
	case EventTypeDistance:
		return "Distance + Time"
	case EventTypeReps:
		return "Repetitions + Time"
	default:
		return string(t)
	}
}

// Event is the single active competition.
type Event struct {
	Name      string
	Type      EventType
	CreatedAt time.Time
}

// Participant is a competitor of the current event. TotalPoints is derived
// from results and is rewritten on every ranking pass.
type Participant struct {
	ID          string
	Name        string
	TotalPoints int
}

// Result is a participant's performance in the current event.
// Exactly one of Distance (distance events) or Reps (reps events) is meaningful.
type Result struct {
	ID            string
	ParticipantID string
	Time          float64 // seconds
	Distance      float64 // meters
	Reps          int
}

// Measurement returns the primary ranking key of r for the given event type.
func (r Result) Measurement(t EventType) float64 {
	if t == EventTypeReps {
		return float64(r.Reps)
	}
	return r.Distance
}
