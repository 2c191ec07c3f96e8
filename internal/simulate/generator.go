package simulate

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"github.com/google/uuid"
	"github.com/okian/strongman/internal/domain/model"
)

// Ranges for generated performances, in hundredths where noted.
const (
	minTimeCentis     = 20_00
	timeSpreadCentis  = 70_00
	minDistanceCentis = 5_00
	distanceSpread    = 25_00
	maxReps           = 15
	// one in stalledOneIn distance attempts does not move the implement
	stalledOneIn = 10
)

func randInt(n int64) int64 {
	v, err := rand.Int(rand.Reader, big.NewInt(n))
	if err != nil {
		return 0
	}
	return v.Int64()
}

// participantName returns a unique display name for the i-th athlete.
func participantName(i int) string {
	return fmt.Sprintf("Athlete %03d %s", i+1, uuid.NewString()[:8])
}

// generatePerformance creates a plausible result for the event type. Values
// are whole hundredths so they survive the stopwatch precision untouched.
func generatePerformance(t model.EventType, participantID string) Performance {
	p := Performance{
		ParticipantID: participantID,
		TimeSeconds:   float64(minTimeCentis+randInt(timeSpreadCentis)) / 100,
	}
	if t == model.EventTypeReps {
		reps := int(1 + randInt(maxReps))
		p.Reps = &reps
		return p
	}
	distance := 0.0
	if randInt(stalledOneIn) != 0 {
		distance = float64(minDistanceCentis+randInt(distanceSpread)) / 100
	}
	p.Distance = &distance
	return p
}

// measurement returns the ranking key of p.
func (p Performance) measurement() float64 {
	if p.Reps != nil {
		return float64(*p.Reps)
	}
	if p.Distance != nil {
		return *p.Distance
	}
	return 0
}
