package windowing_test

import (
	"testing"

	"github.com/RyanBlaney/courtside/algorithms/windowing"
	. "github.com/smartystreets/goconvey/convey"
)

func TestNew(t *testing.T) {
	Convey("Given the window factory", t, func() {
		Convey("A symmetric Hamming window has 0.08 at both ends and 1 at the centre", func() {
			w, err := windowing.New(windowing.TypeHamming, 5)
			So(err, ShouldBeNil)
			c := w.GetCoefficients()
			So(c[0], ShouldAlmostEqual, 0.08, 1e-12)
			So(c[4], ShouldAlmostEqual, 0.08, 1e-12)
			So(c[2], ShouldAlmostEqual, 1.0, 1e-12)
		})

		Convey("A single-sample window is a unit gain", func() {
			w, err := windowing.New(windowing.TypeHann, 1)
			So(err, ShouldBeNil)
			So(w.GetCoefficients(), ShouldResemble, []float64{1})
		})

		Convey("Apply does not touch the input", func() {
			w, _ := windowing.New(windowing.TypeHann, 3)
			in := []float64{1, 1, 1}
			out := w.Apply(in)
			So(in, ShouldResemble, []float64{1, 1, 1})
			So(out[0], ShouldAlmostEqual, 0, 1e-12)
			So(out[1], ShouldAlmostEqual, 1, 1e-12)
		})

		Convey("Mismatched lengths are rejected", func() {
			w, _ := windowing.New(windowing.TypeRectangular, 4)
			So(w.Apply([]float64{1}), ShouldBeNil)
			So(w.ApplyInPlace([]float64{1}), ShouldNotBeNil)
		})

		Convey("Unknown types and sizes fail", func() {
			_, err := windowing.New("triangle", 4)
			So(err, ShouldNotBeNil)
			_, err = windowing.New(windowing.TypeHamming, 0)
			So(err, ShouldNotBeNil)
		})
	})
}
