package scraper_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/RyanBlaney/courtside/plays"
	"github.com/RyanBlaney/courtside/scraper"
	. "github.com/smartystreets/goconvey/convey"
)

func fixture(t *testing.T) []byte {
	t.Helper()
	data, err := os.ReadFile("testdata/game.html")
	if err != nil {
		t.Fatal(err)
	}
	return data
}

func TestParse(t *testing.T) {
	Convey("Given a game page", t, func() {
		events, err := scraper.Parse(strings.NewReader(string(fixture(t))))
		So(err, ShouldBeNil)

		Convey("Rows without a time or team info are skipped", func() {
			So(events, ShouldHaveLength, 5)
		})

		Convey("Quarter ids are normalised", func() {
			So(events[0].Quarter, ShouldEqual, "Q1")
			So(events[4].Quarter, ShouldEqual, "OT1")
		})

		Convey("Unscored rows carry no scores", func() {
			So(events[0].Clock, ShouldEqual, "10:00")
			So(events[0].Team, ShouldEqual, plays.TeamHome)
			So(events[0].Scored(), ShouldBeFalse)
		})

		Convey("Scoring rows carry both scores, the player and clean text", func() {
			ev := events[2]
			So(ev.Team, ShouldEqual, plays.TeamAway)
			So(ev.Player, ShouldEqual, "G. Petrov")
			So(ev.Description, ShouldEqual, "G. Petrov Made 3pt shot")
			So(ev.Score(), ShouldEqual, "2–3")
		})

		Convey("A malformed score block yields no scores", func() {
			So(events[3].Clock, ShouldEqual, "08:50")
			So(events[3].Scored(), ShouldBeFalse)
		})

		Convey("The parsed feed classifies", func() {
			got := plays.Classify(events, plays.DefaultClassifierConfig())
			So(got, ShouldHaveLength, 2)
			So(got[0].Reasons, ShouldResemble, []string{plays.ReasonLeadChange})
			So(got[1].Reasons, ShouldContain, plays.ReasonBuzzerBeater)
		})
	})

	Convey("Given a page without play tables", t, func() {
		_, err := scraper.Parse(strings.NewReader("<html><body><p>moved</p></body></html>"))
		So(errors.Is(err, scraper.ErrNoQuarterTables), ShouldBeTrue)
	})
}

func TestQuarterName(t *testing.T) {
	Convey("Table ids map to quarter codes", t, func() {
		for id, want := range map[string]string{"q_1": "Q1", "q_4": "Q4", "q_OT": "OT", "q_OT2": "OT2"} {
			got, ok := scraper.QuarterName(id)
			So(ok, ShouldBeTrue)
			So(got, ShouldEqual, want)
		}
		_, ok := scraper.QuarterName("q_x")
		So(ok, ShouldBeFalse)
	})
}

func TestScrape(t *testing.T) {
	Convey("Given a server that fails once before answering", t, func() {
		page := fixture(t)
		var calls atomic.Int32
		var gotQuery, gotAgent string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if calls.Add(1) == 1 {
				http.Error(w, "busy", http.StatusServiceUnavailable)
				return
			}
			gotQuery = r.URL.Path + "?" + r.URL.RawQuery
			gotAgent = r.UserAgent()
			_, _ = w.Write(page)
		}))
		defer srv.Close()

		client, err := scraper.New(scraper.Config{BaseURL: srv.URL, UserAgent: "test", RetryDelay: -1})
		So(err, ShouldBeNil)

		events, err := client.Scrape(context.Background(), "12345")

		Convey("It retries and parses the page", func() {
			So(err, ShouldBeNil)
			So(events, ShouldHaveLength, 5)
			So(calls.Load(), ShouldEqual, 2)
			So(gotQuery, ShouldEqual, "/game_play.inc.php?g_id=12345")
			So(gotAgent, ShouldEqual, "test")
		})
	})

	Convey("Given a server that always fails", t, func() {
		var calls atomic.Int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			http.Error(w, "gone", http.StatusNotFound)
		}))
		defer srv.Close()

		client, _ := scraper.New(scraper.Config{BaseURL: srv.URL, Retries: 2, RetryDelay: -1})
		_, err := client.Scrape(context.Background(), "1")

		So(err, ShouldNotBeNil)
		So(calls.Load(), ShouldEqual, 2)
	})

	Convey("An empty game id is rejected", t, func() {
		client, _ := scraper.New(scraper.Config{})
		_, err := client.Scrape(context.Background(), " ")
		So(err, ShouldNotBeNil)
	})
}
