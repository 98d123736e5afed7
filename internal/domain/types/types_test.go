package types_test

import (
	"encoding/json"
	"testing"
	"time"

	types "github.com/dalmatianosrs/RuneTracker-Pro/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

func TestEntry(t *testing.T) {
	Convey("Given an Entry struct", t, func() {
		entry := types.Entry{Rank: 1, SkillID: 4, Name: "Ranged", Gain: 12340, Display: 1234}

		Convey("When encoding it for a client", func() {
			raw, err := json.Marshal(entry)
			So(err, ShouldBeNil)

			Convey("Then it uses snake case keys", func() {
				So(string(raw), ShouldContainSubstring, `"skill_id":4`)
				So(string(raw), ShouldContainSubstring, `"display":1234`)
			})
		})
	})
}

func TestSeriesPoint(t *testing.T) {
	Convey("Given a total-experience series point", t, func() {
		p := types.SeriesPoint{Timestamp: time.Unix(0, 0).UTC(), Value: 12.5}

		Convey("When encoding it", func() {
			raw, err := json.Marshal(p)
			So(err, ShouldBeNil)

			Convey("Then an absent level is omitted", func() {
				So(string(raw), ShouldNotContainSubstring, "level")
			})
		})
	})
}
