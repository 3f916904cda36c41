package plays

import (
	"errors"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func pts(n int) *int { return &n }

func TestClockRules(t *testing.T) {
	cfg := DefaultClassifierConfig()
	ev := Event{Quarter: "Q4", Clock: "garbage", Description: "Jump shot made", HomeScore: pts(80), AwayScore: pts(78)}

	Convey("The clock rules read the clock parsed for the event", t, func() {
		Convey("A parsed final-second clock fires both rules", func() {
			clock := gameClock{minutes: 0, seconds: 0}
			So(clutchPlay(cfg, ev, clock), ShouldBeTrue)
			So(buzzerBeater(ev, clock), ShouldBeTrue)
		})

		Convey("A parse failure disables both rules", func() {
			clock := readClock(ev.Clock)
			So(errors.Is(clock.err, ErrMalformedClock), ShouldBeTrue)
			So(clutchPlay(cfg, ev, clock), ShouldBeFalse)
			So(buzzerBeater(ev, clock), ShouldBeFalse)
		})

		Convey("Minutes outside the window are not clutch", func() {
			clock := readClock("02:00")
			So(clock.err, ShouldBeNil)
			So(clock.minutes, ShouldEqual, 2)
			So(clutchPlay(cfg, ev, clock), ShouldBeFalse)
			So(buzzerBeater(ev, clock), ShouldBeFalse)
		})

		Convey("Step parses malformed clocks once and still tracks the lead", func() {
			state := State{PreviousLead: LeadAway}
			_, hl := Step(cfg, state, ev)
			So(hl, ShouldNotBeNil)
			So(hl.Reasons, ShouldResemble, []string{ReasonLeadChange})
		})
	})
}
