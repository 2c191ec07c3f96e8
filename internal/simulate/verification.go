package simulate

import (
	"fmt"

	"github.com/okian/strongman/internal/domain/model"
	"github.com/okian/strongman/internal/domain/scoring"
	"github.com/okian/strongman/internal/domain/types"
)

// verify checks the published snapshot against the submitted performances.
// Submission order among equal performances is not known to the client, so
// tied rows are checked for order only.
func verify(t model.EventType, participantCount int, submitted []Performance, snap Snapshot) error {
	if len(snap.Results) != len(submitted) {
		return fmt.Errorf("published %d results, submitted %d", len(snap.Results), len(submitted))
	}
	if len(snap.Leaderboard) != participantCount {
		return fmt.Errorf("leaderboard has %d rows, registered %d participants", len(snap.Leaderboard), participantCount)
	}

	byParticipant := make(map[string]Performance, len(submitted))
	for _, p := range submitted {
		byParticipant[p.ParticipantID] = p
	}

	points := make(map[string]int, len(snap.Results))
	var prev model.Result
	for i, row := range snap.Results {
		perf, ok := byParticipant[row.ParticipantID]
		if !ok {
			return fmt.Errorf("row %d: unexpected participant %s", i+1, row.ParticipantID)
		}
		got := publishedResult(row)
		if model.Hundredths(got.Time) != model.Hundredths(perf.TimeSeconds) ||
			model.Hundredths(got.Measurement(t)) != model.Hundredths(perf.measurement()) {
			return fmt.Errorf("row %d: published performance differs from the submitted one", i+1)
		}
		if row.Rank != i+1 {
			return fmt.Errorf("row %d: rank %d", i+1, row.Rank)
		}
		if want := participantCount - i; row.Points != want {
			return fmt.Errorf("row %d: %d points, want %d", i+1, row.Points, want)
		}
		if i > 0 && scoring.Compare(t, prev, got) > 0 {
			return fmt.Errorf("row %d ranks ahead of a better result", i)
		}
		prev = got
		points[row.ParticipantID] = row.Points
	}

	for i, st := range snap.Leaderboard {
		if st.TotalPoints != points[st.ParticipantID] {
			return fmt.Errorf("leaderboard: %s has %d points, results give %d",
				st.ParticipantName, st.TotalPoints, points[st.ParticipantID])
		}
		if i > 0 && st.TotalPoints > snap.Leaderboard[i-1].TotalPoints {
			return fmt.Errorf("leaderboard not sorted at row %d", i+1)
		}
	}
	return nil
}

func publishedResult(row types.RankedResult) model.Result {
	r := model.Result{ID: row.ResultID, ParticipantID: row.ParticipantID, Time: row.Time}
	if row.Distance != nil {
		r.Distance = *row.Distance
	}
	if row.Reps != nil {
		r.Reps = *row.Reps
	}
	return r
}
