package types_test

import (
	"encoding/json"
	"testing"

	types "github.com/okian/strongman/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMedal(t *testing.T) {
	Convey("Given podium ranks", t, func() {
		So(types.Medal(1), ShouldEqual, types.MedalGold)
		So(types.Medal(2), ShouldEqual, types.MedalSilver)
		So(types.Medal(3), ShouldEqual, types.MedalBronze)

		Convey("Ranks off the podium get no medal", func() {
			So(types.Medal(0), ShouldEqual, "")
			So(types.Medal(4), ShouldEqual, "")
		})
	})
}

func TestRankedResultJSON(t *testing.T) {
	Convey("Given a distance result row", t, func() {
		distance := 0.0
		row := types.RankedResult{
			Rank:            1,
			Medal:           types.MedalGold,
			ResultID:        "r-1",
			ParticipantID:   "p-1",
			ParticipantName: "Anna",
			Time:            12.5,
			TimeDisplay:     "0:12.50",
			Distance:        &distance,
			Points:          3,
		}

		Convey("When encoding it", func() {
			raw, err := json.Marshal(row)
			So(err, ShouldBeNil)

			Convey("Then a zero distance is kept and reps is omitted", func() {
				So(string(raw), ShouldContainSubstring, `"distance":0`)
				So(string(raw), ShouldNotContainSubstring, `"reps"`)
				So(string(raw), ShouldContainSubstring, `"time":"0:12.50"`)
			})
		})
	})

	Convey("Given a standing off the podium", t, func() {
		raw, err := json.Marshal(types.Standing{Rank: 4, ParticipantID: "p-4", TotalPoints: 1})
		So(err, ShouldBeNil)
		So(string(raw), ShouldNotContainSubstring, `"medal"`)
		So(string(raw), ShouldContainSubstring, `"total_points":1`)
	})
}
