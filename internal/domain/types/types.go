// Package types contains the read shapes returned by ranking queries.
package types

// Medal names for the podium places.
const (
	MedalGold   = "gold"
	MedalSilver = "silver"
	MedalBronze = "bronze"
)

// RankedResult is one row of the event results table.
type RankedResult struct {
	Rank            int      `json:"rank"`
	Medal           string   `json:"medal,omitempty"`
	ResultID        string   `json:"result_id"`
	ParticipantID   string   `json:"participant_id"`
	ParticipantName string   `json:"participant_name"`
	Time            float64  `json:"time_seconds"`
	TimeDisplay     string   `json:"time"`
	Distance        *float64 `json:"distance,omitempty"`
	Reps            *int     `json:"reps,omitempty"`
	Points          int      `json:"points"`
}

// Standing is one row of the leaderboard.
type Standing struct {
	Rank            int    `json:"rank"`
	Medal           string `json:"medal,omitempty"`
	ParticipantID   string `json:"participant_id"`
	ParticipantName string `json:"participant_name"`
	TotalPoints     int    `json:"total_points"`
}

// Medal returns the podium medal for a 1-based rank, or "" off the podium.
func Medal(rank int) string {
	switch rank {
	case 1:
		return MedalGold
	case 2:
		return MedalSilver
	case 3:
		return MedalBronze
	default:
		return ""
	}
}
