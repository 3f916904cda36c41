package temporal_test

import (
	"math"
	"testing"

	"github.com/RyanBlaney/courtside/algorithms/temporal"
	. "github.com/smartystreets/goconvey/convey"
)

func TestEnergy(t *testing.T) {
	Convey("Given 4-sample frames with a hop of 2", t, func() {
		e := temporal.NewEnergy(4, 2)

		Convey("Frame counting drops trailing partial frames", func() {
			So(e.NumFrames(3), ShouldEqual, 0)
			So(e.NumFrames(4), ShouldEqual, 1)
			So(e.NumFrames(9), ShouldEqual, 3)
		})

		Convey("A constant signal has RMS equal to its amplitude", func() {
			rms := e.ComputeShortTimeEnergy([]float64{0.5, -0.5, 0.5, -0.5, 0.5, -0.5})
			So(rms, ShouldHaveLength, 2)
			So(rms[0], ShouldAlmostEqual, 0.5, 1e-12)
		})

		Convey("Silence maps to the dB floor", func() {
			db := e.ComputeLogEnergy(make([]float64, 4))
			So(db[0], ShouldAlmostEqual, 20*math.Log10(temporal.DefaultFloor), 1e-9)
			So(db[0], ShouldAlmostEqual, -200, 1e-9)
		})
	})
}

func TestFrameGrid(t *testing.T) {
	Convey("Given a hop that is not a whole number of samples", t, func() {
		g := temporal.NewFrameGrid(11025, 0.5, 0.1)

		Convey("Frames start on the nearest sample to i*hop", func() {
			So(g.FrameSize, ShouldEqual, 5512)
			So(g.Start(0), ShouldEqual, 0)
			So(g.Start(1), ShouldEqual, 1103)
			So(g.Start(2), ShouldEqual, 2205)
			So(g.Time(7), ShouldAlmostEqual, 0.7, 1e-12)
		})

		Convey("The count follows the duration formula without drifting", func() {
			So(g.Count(11025*10), ShouldEqual, 96)
			So(g.Count(11025*100), ShouldEqual, 996)
			So(g.Count(11025*1000), ShouldEqual, 9996)
		})

		Convey("Every counted frame fits inside the signal", func() {
			for _, n := range []int{5512, 5513, 6614, 6615, 110249, 110250} {
				c := g.Count(n)
				if c > 0 {
					So(g.Start(c-1)+g.FrameSize, ShouldBeLessThanOrEqualTo, n)
				}
			}
		})

		Convey("Signals shorter than a window have no frames", func() {
			So(g.Count(5511), ShouldEqual, 0)
			So(g.Count(0), ShouldEqual, 0)
		})
	})

	Convey("A hop that divides the rate matches sample framing", t, func() {
		g := temporal.NewFrameGrid(1000, 0.5, 0.1)
		e := temporal.NewEnergy(500, 100)
		for _, n := range []int{499, 500, 599, 600, 1000, 1234, 5000} {
			So(g.Count(n), ShouldEqual, e.NumFrames(n))
		}
	})
}
