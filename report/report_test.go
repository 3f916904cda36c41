package report_test

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/RyanBlaney/courtside/highlights"
	"github.com/RyanBlaney/courtside/plays"
	"github.com/RyanBlaney/courtside/report"
	. "github.com/smartystreets/goconvey/convey"
)

func intp(n int) *int { return &n }

var sample = []plays.Highlight{
	{Quarter: "Q4", Clock: "01:30", Score: "70–68", Description: `Made 3pt "step-back"`, Reasons: []string{plays.ReasonClutchPlay}},
	{Quarter: "Q4", Clock: "00:00", Score: "72–71", Description: "Made layup", Reasons: []string{plays.ReasonLeadChange, plays.ReasonBuzzerBeater}},
}

func TestParseFormat(t *testing.T) {
	Convey("Format names parse case-insensitively", t, func() {
		f, err := report.ParseFormat("CSV")
		So(err, ShouldBeNil)
		So(f, ShouldEqual, report.FormatCSV)

		f, err = report.ParseFormat("")
		So(err, ShouldBeNil)
		So(f, ShouldEqual, report.FormatText)

		_, err = report.ParseFormat("xml")
		So(err, ShouldNotBeNil)
	})
}

func TestWriteHighlights(t *testing.T) {
	Convey("Given two play highlights", t, func() {
		var buf bytes.Buffer

		Convey("Text output has one block per highlight", func() {
			So(report.WriteHighlights(&buf, report.FormatText, sample), ShouldBeNil)
			want := "[Q4 - 01:30] Score: 70–68\n" +
				"Made 3pt \"step-back\"\n" +
				"Highlight reason: Clutch play\n" +
				strings.Repeat("-", 40) + "\n" +
				"[Q4 - 00:00] Score: 72–71\n" +
				"Made layup\n" +
				"Highlight reason: Lead change, Buzzer-beater\n" +
				strings.Repeat("-", 40) + "\n"
			So(buf.String(), ShouldEqual, want)
		})

		Convey("CSV output quotes where needed", func() {
			So(report.WriteHighlights(&buf, report.FormatCSV, sample), ShouldBeNil)
			lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
			So(lines, ShouldHaveLength, 3)
			So(lines[0], ShouldEqual, "Quarter,Time,Score,Description,Reason")
			So(lines[1], ShouldEqual, `Q4,01:30,70–68,"Made 3pt ""step-back""",Clutch play`)
			So(lines[2], ShouldEqual, `Q4,00:00,72–71,Made layup,"Lead change, Buzzer-beater"`)
		})

		Convey("JSON output carries the joined and listed reasons", func() {
			So(report.WriteHighlights(&buf, report.FormatJSON, sample), ShouldBeNil)
			var got []map[string]any
			So(json.Unmarshal(buf.Bytes(), &got), ShouldBeNil)
			So(got, ShouldHaveLength, 2)
			So(got[1]["reason"], ShouldEqual, "Lead change, Buzzer-beater")
			So(got[1]["time"], ShouldEqual, "00:00")
			So(got[1]["reasons"], ShouldHaveLength, 2)
		})

		Convey("Table output lists every highlight", func() {
			So(report.WriteHighlights(&buf, report.FormatTable, sample), ShouldBeNil)
			So(buf.String(), ShouldContainSubstring, "Quarter")
			So(buf.String(), ShouldContainSubstring, "Made layup")
			So(buf.String(), ShouldContainSubstring, "Clutch play")
		})
	})

	Convey("Given no highlights", t, func() {
		var buf bytes.Buffer

		So(report.WriteHighlights(&buf, report.FormatText, nil), ShouldBeNil)
		So(buf.String(), ShouldEqual, "No highlights found.\n")

		buf.Reset()
		So(report.WriteHighlights(&buf, report.FormatJSON, nil), ShouldBeNil)
		So(buf.String(), ShouldEqual, "[]\n")
	})

	Convey("Unknown formats are rejected", t, func() {
		So(report.WriteHighlights(&bytes.Buffer{}, report.Format("xml"), sample), ShouldNotBeNil)
	})
}

func TestEvents(t *testing.T) {
	events := []plays.Event{
		{Quarter: "Q1", Clock: "10:00", Team: plays.TeamHome, Description: "Jump ball"},
		{Quarter: "Q1", Clock: "09:41", Team: plays.TeamHome, Player: "I. Ivanov", Description: "Made 2pt", HomeScore: intp(2), AwayScore: intp(0)},
	}

	Convey("CSV export leaves missing scores blank", t, func() {
		var buf bytes.Buffer
		So(report.WriteEvents(&buf, report.FormatCSV, events), ShouldBeNil)
		lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
		So(lines[0], ShouldEqual, "quarter,time,team,player_name,description,home_score,away_score")
		So(lines[1], ShouldEqual, "Q1,10:00,home,,Jump ball,,")
		So(lines[2], ShouldEqual, "Q1,09:41,home,I. Ivanov,Made 2pt,2,0")
	})

	Convey("JSON export reads back into the same events", t, func() {
		var buf bytes.Buffer
		So(report.WriteEvents(&buf, report.FormatJSON, events), ShouldBeNil)
		So(buf.String(), ShouldContainSubstring, `"home_score": null`)

		got, err := report.ReadEvents(&buf)
		So(err, ShouldBeNil)
		So(got, ShouldResemble, events)
	})

	Convey("Text is not an event export format", t, func() {
		So(report.WriteEvents(&bytes.Buffer{}, report.FormatText, events), ShouldNotBeNil)
	})
}

func TestWriteAudio(t *testing.T) {
	sel := highlights.Selection{
		Threshold:  -12.5,
		Candidates: make([]highlights.PeakCandidate, 3),
		Whistles:   make([]highlights.PeakCandidate, 1),
		Highlights: []highlights.SelectedHighlight{
			{Time: 95.3, IntensityDB: -3.25},
			{Time: 30.75, IntensityDB: -4.5},
		},
	}

	Convey("Text output lists ranked peaks with clips", t, func() {
		var buf bytes.Buffer
		So(report.WriteAudio(&buf, report.FormatText, sel, []string{"a.mp4"}), ShouldBeNil)
		out := buf.String()
		So(out, ShouldStartWith, "Loudness threshold: -12.50 dB\nPeaks: 3, whistles skipped: 1\n")
		So(out, ShouldContainSubstring, "#1 at 1:35.3 (95.3s), intensity -3.25 dB -> a.mp4\n")
		So(out, ShouldContainSubstring, "#2 at 0:30.8 (30.8s), intensity -4.50 dB\n")
	})

	Convey("JSON output summarises the selection", t, func() {
		var buf bytes.Buffer
		So(report.WriteAudio(&buf, report.FormatJSON, sel, nil), ShouldBeNil)
		var got struct {
			Threshold  float64 `json:"threshold_db"`
			Whistles   int     `json:"whistles_skipped"`
			Highlights []struct {
				Rank int     `json:"rank"`
				Time float64 `json:"time"`
			} `json:"highlights"`
		}
		So(json.Unmarshal(buf.Bytes(), &got), ShouldBeNil)
		So(got.Threshold, ShouldEqual, -12.5)
		So(got.Whistles, ShouldEqual, 1)
		So(got.Highlights, ShouldHaveLength, 2)
		So(got.Highlights[1].Rank, ShouldEqual, 2)
	})

	Convey("CSV output has one row per highlight", t, func() {
		var buf bytes.Buffer
		So(report.WriteAudio(&buf, report.FormatCSV, sel, nil), ShouldBeNil)
		So(buf.String(), ShouldEqual, "rank,time,intensity_db,clip\n1,95.30,-3.25,\n2,30.75,-4.50,\n")
	})
}

func TestWriteFeatureTrack(t *testing.T) {
	Convey("Each frame becomes a csv row", t, func() {
		var buf bytes.Buffer
		frames := []highlights.EnergyFrame{
			{StartTime: 0, RMSDB: -200, WhistleRatio: 0},
			{StartTime: 0.1, RMSDB: -6.0206, WhistleRatio: 0.95},
		}
		So(report.WriteFeatureTrack(&buf, frames), ShouldBeNil)
		So(buf.String(), ShouldEqual, "time,rms_db,whistle_ratio\n0.000,-200.0000,0.0000\n0.100,-6.0206,0.9500\n")
	})
}

func TestTimestamp(t *testing.T) {
	Convey("Seconds format as m:ss.t", t, func() {
		So(report.Timestamp(0), ShouldEqual, "0:00.0")
		So(report.Timestamp(59.96), ShouldEqual, "1:00.0")
		So(report.Timestamp(3725.4), ShouldEqual, "62:05.4")
		So(report.Timestamp(-3), ShouldEqual, "0:00.0")
	})
}
