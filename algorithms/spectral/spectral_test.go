package spectral_test

import (
	"math"
	"testing"

	"github.com/RyanBlaney/courtside/algorithms/spectral"
	. "github.com/smartystreets/goconvey/convey"
)

func tone(freq float64, sampleRate, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.Sin(2 * math.Pi * freq * float64(i) / float64(sampleRate))
	}
	return out
}

func TestFFT(t *testing.T) {
	Convey("Given an 8 kHz FFT", t, func() {
		f := spectral.NewFFT(8000)

		Convey("Bin frequencies step by sampleRate/n", func() {
			freqs := f.BinFrequencies(8)
			So(freqs, ShouldResemble, []float64{0, 1000, 2000, 3000, 4000})
		})

		Convey("Magnitude has n/2+1 bins and peaks at the tone", func() {
			mags := f.Magnitude(tone(1000, 8000, 80))
			So(len(mags), ShouldEqual, 41)
			best := 0
			for k := range mags {
				if mags[k] > mags[best] {
					best = k
				}
			}
			So(best, ShouldEqual, 10)
		})

		Convey("Empty input gives empty output", func() {
			So(f.Magnitude(nil), ShouldBeEmpty)
			So(f.BinFrequencies(0), ShouldBeEmpty)
		})
	})
}

func TestBandRatio(t *testing.T) {
	Convey("Given a 2-4 kHz band", t, func() {
		b := spectral.NewBandRatio(2000, 4000)
		freqs := []float64{0, 1000, 2000, 3000, 4000, 5000}

		Convey("Edges are inclusive", func() {
			So(b.Compute([]float64{0, 0, 1, 0, 1, 0}, freqs), ShouldEqual, 1.0)
		})

		Convey("The ratio is the in-band share", func() {
			So(b.Compute([]float64{1, 1, 1, 1, 0, 0}, freqs), ShouldAlmostEqual, 0.5, 1e-12)
		})

		Convey("Silence yields zero", func() {
			So(b.Compute(make([]float64, 6), freqs), ShouldEqual, 0.0)
		})
	})
}
