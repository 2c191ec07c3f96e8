// Package scoring ranks event results and assigns points.
//
// The participant count N is the maximum point value of an event: the best
// result earns N points, the next N-1 and so on. Participants without a
// result earn nothing but still count towards N.
package scoring

import (
	"cmp"
	"slices"

	"github.com/okian/strongman/internal/domain/model"
)

// Input is everything a ranking pass needs.
type Input struct {
	Type             model.EventType
	ParticipantCount int
	// Results in submission order. Equal results keep this order.
	Results []model.Result
}

// Placement is a ranked result with its points.
type Placement struct {
	Rank   int
	Result model.Result
	Points int
}

// Outcome is the full ranking of an event.
type Outcome struct {
	Placements []Placement
	// Points by participant id. Participants without a result are absent.
	Points map[string]int
}

// PointsFor returns the points of a participant, 0 when it has no result.
func (o Outcome) PointsFor(participantID string) int {
	return o.Points[participantID]
}

// Compare orders a before b when it is the better performance: larger
// measurement first, then shorter time. Values are compared as entered.
func Compare(t model.EventType, a, b model.Result) int {
	if c := cmp.Compare(b.Measurement(t), a.Measurement(t)); c != 0 {
		return c
	}
	return cmp.Compare(a.Time, b.Time)
}

// Rank sorts results best first and assigns N - index points.
func Rank(in Input) Outcome {
	sorted := slices.Clone(in.Results)
	slices.SortStableFunc(sorted, func(a, b model.Result) int {
		return Compare(in.Type, a, b)
	})

	out := Outcome{
		Placements: make([]Placement, len(sorted)),
		Points:     make(map[string]int, len(sorted)),
	}
	for i, r := range sorted {
		// never negative while each participant has at most one result
		points := max(in.ParticipantCount-i, 0)
		out.Placements[i] = Placement{Rank: i + 1, Result: r, Points: points}
		out.Points[r.ParticipantID] = points
	}
	return out
}
