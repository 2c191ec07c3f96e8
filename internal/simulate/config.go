// Package simulate drives a complete competition against a running ranking
// server and checks the published results and leaderboard for consistency.
package simulate

import (
	"time"

	"github.com/okian/strongman/internal/domain/types"
)

// Config holds configuration for a simulated competition.
type Config struct {
	BaseURL      string        // Base URL of the service
	EventName    string        // Name of the event to create
	EventType    string        // distance or reps
	Participants int           // Number of participants to register
	Workers      int           // Number of concurrent workers
	Timeout      time.Duration // HTTP request timeout
	OutputFile   string        // Optional JSON dump of submitted performances
	Verbose      bool          // Log every request outcome
}

// Performance is one generated result as submitted to the service.
type Performance struct {
	ParticipantID string   `json:"participant_id"`
	TimeSeconds   float64  `json:"time_seconds"`
	Distance      *float64 `json:"distance,omitempty"`
	Reps          *int     `json:"reps,omitempty"`
}

type participant struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type eventRequest struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// Snapshot is what the service published after all submissions.
type Snapshot struct {
	Results     []types.RankedResult
	Leaderboard []types.Standing
}

// Stats holds run statistics.
type Stats struct {
	ParticipantsRegistered int
	ParticipantsFailed     int
	ResultsSubmitted       int
	ResultsFailed          int
	ResultsPublished       int
	LeaderboardEntries     int
	StartTime              time.Time
	EndTime                time.Time
	Duration               time.Duration
}
