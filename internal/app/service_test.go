package service_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	repository "github.com/okian/strongman/internal/adapters/repository"
	service "github.com/okian/strongman/internal/app"
	"github.com/okian/strongman/internal/domain/model"
	"github.com/okian/strongman/internal/domain/scoring"
	"github.com/okian/strongman/internal/domain/types"
	"github.com/okian/strongman/pkg/metrics"
	. "github.com/smartystreets/goconvey/convey"
)

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
}

func newService() *service.Service {
	fixed := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	return service.New(
		service.WithIDGenerator(sequentialIDs()),
		service.WithClock(func() time.Time { return fixed }),
	)
}

func mustAdd(ctx context.Context, svc *service.Service, name string) model.Participant {
	p, err := svc.AddParticipant(ctx, name)
	So(err, ShouldBeNil)
	return p
}

func mustSubmit(ctx context.Context, svc *service.Service, id string, secs, measurement float64) model.Result {
	r, _, err := svc.SubmitResult(ctx, id, secs, measurement)
	So(err, ShouldBeNil)
	return r
}

func names(rows []types.RankedResult) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.ParticipantName
	}
	return out
}

// assertPointsConsistent checks that stored totals equal a fresh ranking.
func assertPointsConsistent(ctx context.Context, svc *service.Service) {
	ev, ok := svc.CurrentEvent(ctx)
	if !ok {
		So(svc.Participants(ctx), ShouldBeEmpty)
		return
	}
	participants := svc.Participants(ctx)
	var results []model.Result
	for _, row := range svc.RankedResults(ctx) {
		r := model.Result{ID: row.ResultID, ParticipantID: row.ParticipantID, Time: row.Time}
		if row.Distance != nil {
			r.Distance = *row.Distance
		}
		if row.Reps != nil {
			r.Reps = *row.Reps
		}
		results = append(results, r)
	}
	fresh := scoring.Rank(scoring.Input{Type: ev.Type, ParticipantCount: len(participants), Results: results})
	seen := map[string]int{}
	for _, p := range participants {
		So(p.TotalPoints, ShouldEqual, fresh.PointsFor(p.ID))
		So(p.TotalPoints, ShouldBeGreaterThanOrEqualTo, 0)
	}
	for _, r := range results {
		seen[r.ParticipantID]++
		So(seen[r.ParticipantID], ShouldEqual, 1)
	}
}

func TestService_EventLifecycle(t *testing.T) {
	Convey("Given a new engine", t, func() {
		ctx := context.Background()
		svc := newService()

		Convey("Then no event is active", func() {
			_, ok := svc.CurrentEvent(ctx)
			So(ok, ShouldBeFalse)
			So(svc.RankedResults(ctx), ShouldBeEmpty)
			So(svc.Leaderboard(ctx), ShouldBeEmpty)
			So(svc.GetStats()["eventActive"], ShouldEqual, false)
		})

		Convey("When creating an event with surrounding whitespace", func() {
			ev, err := svc.CreateEvent(ctx, "  Log Pull  ", model.EventTypeDistance)

			Convey("Then the name should be trimmed and the event active", func() {
				So(err, ShouldBeNil)
				So(ev.Name, ShouldEqual, "Log Pull")
				So(ev.CreatedAt.Equal(time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)), ShouldBeTrue)
				current, ok := svc.CurrentEvent(ctx)
				So(ok, ShouldBeTrue)
				So(current, ShouldResemble, ev)
			})
		})

		Convey("When creating an event with an empty name", func() {
			_, err := svc.CreateEvent(ctx, "   ", model.EventTypeDistance)

			Convey("Then it should be a validation error and nothing changes", func() {
				So(errors.Is(err, model.ErrValidation), ShouldBeTrue)
				_, ok := svc.CurrentEvent(ctx)
				So(ok, ShouldBeFalse)
			})
		})

		Convey("When creating an event with an unknown type", func() {
			_, err := svc.CreateEvent(ctx, "Yoke", model.EventType("weight"))

			Convey("Then it should be a validation error", func() {
				So(errors.Is(err, model.ErrValidation), ShouldBeTrue)
			})
		})

		Convey("When an event with records is replaced by a new one", func() {
			_, err := svc.CreateEvent(ctx, "Log Pull", model.EventTypeDistance)
			So(err, ShouldBeNil)
			a := mustAdd(ctx, svc, "Anna")
			mustSubmit(ctx, svc, a.ID, 12, 10)

			_, err = svc.CreateEvent(ctx, "Atlas Stones", model.EventTypeReps)
			So(err, ShouldBeNil)

			Convey("Then participants and results should be gone", func() {
				So(svc.Participants(ctx), ShouldBeEmpty)
				So(svc.RankedResults(ctx), ShouldBeEmpty)
				ev, _ := svc.CurrentEvent(ctx)
				So(ev.Type, ShouldEqual, model.EventTypeReps)
			})
		})

		Convey("When resetting an active event", func() {
			_, err := svc.CreateEvent(ctx, "Log Pull", model.EventTypeDistance)
			So(err, ShouldBeNil)
			mustAdd(ctx, svc, "Anna")
			svc.ResetEvent(ctx)

			Convey("Then the engine should be back to no event", func() {
				_, ok := svc.CurrentEvent(ctx)
				So(ok, ShouldBeFalse)
				So(svc.Participants(ctx), ShouldBeEmpty)
			})

			Convey("And participant commands should require an event again", func() {
				_, err := svc.AddParticipant(ctx, "Boris")
				So(errors.Is(err, model.ErrNoActiveEvent), ShouldBeTrue)
			})
		})
	})
}

func TestService_Participants(t *testing.T) {
	Convey("Given an engine without an event", t, func() {
		ctx := context.Background()
		svc := newService()

		Convey("When adding a participant", func() {
			_, err := svc.AddParticipant(ctx, "Anna")

			Convey("Then it should fail with no active event", func() {
				So(errors.Is(err, model.ErrNoActiveEvent), ShouldBeTrue)
			})
		})
	})

	Convey("Given an active event", t, func() {
		ctx := context.Background()
		svc := newService()
		_, err := svc.CreateEvent(ctx, "Farmers Walk", model.EventTypeDistance)
		So(err, ShouldBeNil)

		Convey("When adding a participant", func() {
			p, err := svc.AddParticipant(ctx, " Anna ")

			Convey("Then it should start with zero points and a fresh id", func() {
				So(err, ShouldBeNil)
				So(p.ID, ShouldNotBeEmpty)
				So(p.Name, ShouldEqual, "Anna")
				So(p.TotalPoints, ShouldEqual, 0)
			})
		})

		Convey("When adding the same name in another case", func() {
			mustAdd(ctx, svc, "alice")
			_, err := svc.AddParticipant(ctx, "Alice")

			Convey("Then it should fail with a duplicate name error", func() {
				So(errors.Is(err, model.ErrDuplicateName), ShouldBeTrue)
				So(svc.Participants(ctx), ShouldHaveLength, 1)
			})
		})

		Convey("When adding an empty name", func() {
			_, err := svc.AddParticipant(ctx, "  ")

			Convey("Then it should fail validation", func() {
				So(errors.Is(err, model.ErrValidation), ShouldBeTrue)
			})
		})

		Convey("When removing an unknown participant", func() {
			mustAdd(ctx, svc, "Anna")
			removed := svc.RemoveParticipant(ctx, "nope")

			Convey("Then it should be a no-op", func() {
				So(removed, ShouldBeFalse)
				So(svc.Participants(ctx), ShouldHaveLength, 1)
			})
		})

		Convey("When ids are generated by default", func() {
			svc := service.New()
			_, err := svc.CreateEvent(ctx, "Yoke", model.EventTypeDistance)
			So(err, ShouldBeNil)
			a := mustAdd(ctx, svc, "A")
			b := mustAdd(ctx, svc, "B")

			Convey("Then they should be distinct", func() {
				So(a.ID, ShouldNotEqual, b.ID)
			})
		})

		Convey("When adding a participant after results exist", func() {
			a := mustAdd(ctx, svc, "Anna")
			mustSubmit(ctx, svc, a.ID, 30, 20)
			So(svc.Leaderboard(ctx)[0].TotalPoints, ShouldEqual, 1)
			mustAdd(ctx, svc, "Boris")

			Convey("Then existing points should follow the new participant count", func() {
				So(svc.Leaderboard(ctx)[0].TotalPoints, ShouldEqual, 2)
				assertPointsConsistent(ctx, svc)
			})
		})
	})
}

func TestService_Scenarios(t *testing.T) {
	Convey("Given a distance event Log Pull with A, B and C", t, func() {
		ctx := context.Background()
		svc := newService()
		_, err := svc.CreateEvent(ctx, "Log Pull", model.EventTypeDistance)
		So(err, ShouldBeNil)
		a := mustAdd(ctx, svc, "A")
		b := mustAdd(ctx, svc, "B")
		c := mustAdd(ctx, svc, "C")
		mustSubmit(ctx, svc, a.ID, 12.5, 10)
		mustSubmit(ctx, svc, b.ID, 15, 12)
		mustSubmit(ctx, svc, c.ID, 10, 10)

		Convey("Then B, C and A should be ranked with 3, 2 and 1 points", func() {
			rows := svc.RankedResults(ctx)
			So(names(rows), ShouldResemble, []string{"B", "C", "A"})
			So(rows[0].Rank, ShouldEqual, 1)
			So(rows[0].Points, ShouldEqual, 3)
			So(rows[0].Medal, ShouldEqual, types.MedalGold)
			So(rows[1].Points, ShouldEqual, 2)
			So(rows[2].Rank, ShouldEqual, 3)
			So(rows[2].Points, ShouldEqual, 1)
			So(*rows[0].Distance, ShouldEqual, 12)
			So(rows[0].Reps, ShouldBeNil)
			So(rows[2].TimeDisplay, ShouldEqual, "0:12.50")
			assertPointsConsistent(ctx, svc)
		})

		Convey("And the leaderboard should agree", func() {
			board := svc.Leaderboard(ctx)
			So(board, ShouldHaveLength, 3)
			So(board[0].ParticipantName, ShouldEqual, "B")
			So(board[0].TotalPoints, ShouldEqual, 3)
			So(board[2].ParticipantName, ShouldEqual, "A")
			So(board[2].TotalPoints, ShouldEqual, 1)
		})

		Convey("And queries should be idempotent", func() {
			So(svc.RankedResults(ctx), ShouldResemble, svc.RankedResults(ctx))
			So(svc.Leaderboard(ctx), ShouldResemble, svc.Leaderboard(ctx))
		})

		Convey("When A is removed", func() {
			So(svc.RemoveParticipant(ctx, a.ID), ShouldBeTrue)

			Convey("Then only A's result should go and points drop to N=2", func() {
				rows := svc.RankedResults(ctx)
				So(names(rows), ShouldResemble, []string{"B", "C"})
				So(rows[0].Points, ShouldEqual, 2)
				So(rows[1].Points, ShouldEqual, 1)
				assertPointsConsistent(ctx, svc)
			})
		})

		Convey("When B submits again with worse values", func() {
			before := len(svc.RankedResults(ctx))
			r, updated, err := svc.SubmitResult(ctx, b.ID, 9, 8)

			Convey("Then the result should be replaced, not added", func() {
				So(err, ShouldBeNil)
				So(updated, ShouldBeTrue)
				rows := svc.RankedResults(ctx)
				So(rows, ShouldHaveLength, before)
				So(names(rows), ShouldResemble, []string{"C", "A", "B"})
				So(rows[2].ResultID, ShouldEqual, r.ID)
				assertPointsConsistent(ctx, svc)
			})
		})

		Convey("When a result is removed", func() {
			var cResult string
			for _, row := range svc.RankedResults(ctx) {
				if row.ParticipantID == c.ID {
					cResult = row.ResultID
				}
			}
			So(svc.RemoveResult(ctx, cResult), ShouldBeTrue)

			Convey("Then C should drop to zero and the rest re-rank", func() {
				st, err := svc.Standing(ctx, c.ID)
				So(err, ShouldBeNil)
				So(st.TotalPoints, ShouldEqual, 0)
				So(st.Rank, ShouldEqual, 3)
				rows := svc.RankedResults(ctx)
				So(names(rows), ShouldResemble, []string{"B", "A"})
				So(rows[1].Points, ShouldEqual, 2)
				assertPointsConsistent(ctx, svc)
			})

			Convey("And removing it again should be a no-op", func() {
				So(svc.RemoveResult(ctx, cResult), ShouldBeFalse)
			})
		})

		Convey("When an all-zero time is submitted", func() {
			before := svc.RankedResults(ctx)
			secs, err := model.TimeFromParts(0, 0, 0)
			So(err, ShouldBeNil)
			_, _, err = svc.SubmitResult(ctx, a.ID, secs, 20)

			Convey("Then it should fail validation without mutating state", func() {
				So(errors.Is(err, model.ErrValidation), ShouldBeTrue)
				So(svc.RankedResults(ctx), ShouldResemble, before)
			})
		})

		Convey("When results reference an unknown participant", func() {
			_, _, err := svc.SubmitResult(ctx, "ghost", 10, 10)

			Convey("Then it should fail validation", func() {
				So(errors.Is(err, model.ErrValidation), ShouldBeTrue)
				var fe *model.FieldError
				So(errors.As(err, &fe), ShouldBeTrue)
				So(fe.Field, ShouldEqual, "participant_id")
			})
		})

		Convey("When a distance of zero is submitted", func() {
			_, updated, err := svc.SubmitResult(ctx, a.ID, 5, 0)

			Convey("Then it should be accepted", func() {
				So(err, ShouldBeNil)
				So(updated, ShouldBeTrue)
				So(names(svc.RankedResults(ctx))[2], ShouldEqual, "A")
			})
		})

		Convey("When looking up an unknown standing", func() {
			_, err := svc.Standing(ctx, "ghost")

			Convey("Then it should be not found", func() {
				So(errors.Is(err, model.ErrNotFound), ShouldBeTrue)
			})
		})

		Convey("Then stats should describe the event", func() {
			stats := svc.GetStats()
			So(stats["eventActive"], ShouldEqual, true)
			So(stats["eventName"], ShouldEqual, "Log Pull")
			So(stats["participants"], ShouldEqual, 3)
			So(stats["results"], ShouldEqual, 3)
			So(stats["maxPoints"], ShouldEqual, 3)
		})
	})

	Convey("Given a reps event with a single participant D", t, func() {
		ctx := context.Background()
		svc := newService()
		_, err := svc.CreateEvent(ctx, "Axle Press", model.EventTypeReps)
		So(err, ShouldBeNil)
		d := mustAdd(ctx, svc, "D")

		Convey("When D submits 5 reps in 20 seconds", func() {
			_, updated, err := svc.SubmitResult(ctx, d.ID, 20, 5)
			So(err, ShouldBeNil)
			So(updated, ShouldBeFalse)

			Convey("Then D should lead with one point", func() {
				board := svc.Leaderboard(ctx)
				So(board, ShouldHaveLength, 1)
				So(board[0].Rank, ShouldEqual, 1)
				So(board[0].TotalPoints, ShouldEqual, 1)
				rows := svc.RankedResults(ctx)
				So(*rows[0].Reps, ShouldEqual, 5)
				So(rows[0].Distance, ShouldBeNil)
			})
		})

		Convey("When reps are not a whole number of at least one", func() {
			_, _, errFrac := svc.SubmitResult(ctx, d.ID, 20, 2.5)
			_, _, errZero := svc.SubmitResult(ctx, d.ID, 20, 0)

			Convey("Then both should fail validation", func() {
				So(errors.Is(errFrac, model.ErrValidation), ShouldBeTrue)
				So(errors.Is(errZero, model.ErrValidation), ShouldBeTrue)
				So(svc.RankedResults(ctx), ShouldBeEmpty)
			})
		})
	})

	Convey("Given no active event", t, func() {
		ctx := context.Background()
		svc := newService()

		Convey("When submitting a result", func() {
			_, _, err := svc.SubmitResult(ctx, "id-1", 10, 10)

			Convey("Then it should fail with no active event", func() {
				So(errors.Is(err, model.ErrNoActiveEvent), ShouldBeTrue)
			})
		})

		Convey("When removing records", func() {
			Convey("Then it should be a no-op", func() {
				So(svc.RemoveParticipant(ctx, "id-1"), ShouldBeFalse)
				So(svc.RemoveResult(ctx, "id-1"), ShouldBeFalse)
			})
		})
	})
}

func TestService_LeaderboardTies(t *testing.T) {
	Convey("Given participants with equal totals", t, func() {
		ctx := context.Background()
		svc := newService()
		_, err := svc.CreateEvent(ctx, "Car Deadlift", model.EventTypeReps)
		So(err, ShouldBeNil)
		mustAdd(ctx, svc, "First")
		mustAdd(ctx, svc, "Second")
		third := mustAdd(ctx, svc, "Third")
		mustSubmit(ctx, svc, third.ID, 40, 6)

		Convey("Then ties should keep registration order", func() {
			board := svc.Leaderboard(ctx)
			So(board[0].ParticipantName, ShouldEqual, "Third")
			So(board[1].ParticipantName, ShouldEqual, "First")
			So(board[2].ParticipantName, ShouldEqual, "Second")
			So(board[1].Rank, ShouldEqual, 2)
		})
	})
}

func TestService_Outcome(t *testing.T) {
	Convey("Given command errors", t, func() {
		So(service.Outcome(nil), ShouldEqual, "ok")
		So(service.Outcome(model.Invalid("name", "empty")), ShouldEqual, "validation_error")
		So(service.Outcome(fmt.Errorf("x: %w", model.ErrDuplicateName)), ShouldEqual, "duplicate_name")
		So(service.Outcome(model.ErrNoActiveEvent), ShouldEqual, "no_active_event")
		So(service.Outcome(model.ErrNotFound), ShouldEqual, "not_found")
		So(service.Outcome(errors.New("boom")), ShouldEqual, "internal_error")
	})
}

func gaugeValue(name string) float64 {
	families, err := metrics.GetRegistry().Gather()
	So(err, ShouldBeNil)
	for _, f := range families {
		if f.GetName() == name && len(f.GetMetric()) > 0 {
			return f.GetMetric()[0].GetGauge().GetValue()
		}
	}
	return -1
}

func TestQueriesHaveNoSideEffects(t *testing.T) {
	Convey("Given an engine whose store reports every mutation", t, func() {
		ctx := context.Background()
		observed := 0
		store := repository.NewMemoryStore(repository.WithObserver(func(bool, int, int) { observed++ }))
		svc := service.New(service.WithStore(store), service.WithIDGenerator(sequentialIDs()))

		_, err := svc.CreateEvent(ctx, "Yoke", model.EventTypeDistance)
		So(err, ShouldBeNil)
		mustAdd(ctx, svc, "Anna")
		before := observed

		Convey("When the gauges hold other values and every query runs", func() {
			metrics.UpdateState(true, 42, 7)

			_ = svc.GetStats()
			_, _ = svc.CurrentEvent(ctx)
			_ = svc.Participants(ctx)
			_ = svc.RankedResults(ctx)
			_ = svc.Leaderboard(ctx)

			Convey("Then neither the store nor the state gauges change", func() {
				So(observed, ShouldEqual, before)
				So(gaugeValue("strongman_ranking_participants"), ShouldEqual, 42)
				So(gaugeValue("strongman_ranking_results"), ShouldEqual, 7)
			})
		})
	})
}
