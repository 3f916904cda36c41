package catalog

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/RyanBlaney/courtside/highlights"
	"github.com/RyanBlaney/courtside/plays"
	. "github.com/smartystreets/goconvey/convey"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "nested", "runs.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	clock := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	store.now = func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}
	return store
}

func TestStore(t *testing.T) {
	Convey("Given an empty catalog", t, func() {
		store := openTestStore(t)
		ctx := context.Background()

		Convey("Listing returns no runs", func() {
			runs, err := store.ListRuns(ctx, 10)
			So(err, ShouldBeNil)
			So(runs, ShouldBeEmpty)
		})

		Convey("Unknown ids are ErrNotFound", func() {
			_, err := store.RunHighlights(ctx, "missing")
			So(errors.Is(err, ErrNotFound), ShouldBeTrue)
		})

		Convey("When an audio run is saved", func() {
			sel := highlights.Selection{
				Threshold:  -9.5,
				Candidates: make([]highlights.PeakCandidate, 3),
				Whistles:   make([]highlights.PeakCandidate, 1),
				Highlights: []highlights.SelectedHighlight{
					{Time: 210.7, IntensityDB: -1.4},
					{Time: 30.7, IntensityDB: -2.1},
				},
			}
			run, err := store.SaveAudioRun(ctx, "game.mp4", sel, []string{"clips/highlight_1.mp4"})
			So(err, ShouldBeNil)
			So(run.ID, ShouldHaveLength, 36)

			Convey("Its highlights come back in rank order", func() {
				detail, err := store.RunHighlights(ctx, run.ID)
				So(err, ShouldBeNil)
				So(detail.Run.Kind, ShouldEqual, KindAudio)
				So(detail.Run.Source, ShouldEqual, "game.mp4")
				So(*detail.Run.ThresholdDB, ShouldEqual, -9.5)
				So(detail.Run.Candidates, ShouldEqual, 3)
				So(detail.Run.Whistles, ShouldEqual, 1)
				So(detail.Audio, ShouldHaveLength, 2)
				So(detail.Audio[0].Rank, ShouldEqual, 1)
				So(detail.Audio[0].Time, ShouldEqual, 210.7)
				So(detail.Audio[0].Clip, ShouldEqual, "clips/highlight_1.mp4")
				So(detail.Audio[1].Clip, ShouldBeEmpty)
				So(detail.Plays, ShouldBeEmpty)
			})

			Convey("And a play run after it", func() {
				hl := []plays.Highlight{{
					Quarter: "Q4", Clock: "00:00", Score: "72–71", Description: "Made layup",
					Reasons: []string{plays.ReasonLeadChange, plays.ReasonBuzzerBeater},
				}}
				playRun, err := store.SavePlayRun(ctx, "12345", hl)
				So(err, ShouldBeNil)

				Convey("Runs list newest first and honour the limit", func() {
					runs, err := store.ListRuns(ctx, 0)
					So(err, ShouldBeNil)
					So(runs, ShouldHaveLength, 2)
					So(runs[0].ID, ShouldEqual, playRun.ID)
					So(runs[0].ThresholdDB, ShouldBeNil)
					So(runs[1].ID, ShouldEqual, run.ID)
					So(runs[1].CreatedAt.Before(runs[0].CreatedAt), ShouldBeTrue)

					limited, err := store.ListRuns(ctx, 1)
					So(err, ShouldBeNil)
					So(limited, ShouldHaveLength, 1)
				})

				Convey("Play highlights keep their reasons", func() {
					detail, err := store.RunHighlights(ctx, playRun.ID)
					So(err, ShouldBeNil)
					So(detail.Plays, ShouldResemble, hl)
				})
			})
		})
	})
}

func TestReopen(t *testing.T) {
	Convey("Reopening a catalog keeps its runs and skips applied migrations", t, func() {
		path := filepath.Join(t.TempDir(), "runs.db")
		store, err := Open(path)
		So(err, ShouldBeNil)
		_, err = store.SavePlayRun(context.Background(), "1", nil)
		So(err, ShouldBeNil)
		So(store.Close(), ShouldBeNil)

		store, err = Open(path)
		So(err, ShouldBeNil)
		defer store.Close()
		runs, err := store.ListRuns(context.Background(), 10)
		So(err, ShouldBeNil)
		So(runs, ShouldHaveLength, 1)
		So(runs[0].Kind, ShouldEqual, KindPlays)
	})
}
