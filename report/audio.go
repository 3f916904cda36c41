package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/RyanBlaney/courtside/highlights"
)

type audioRecord struct {
	Rank        int     `json:"rank"`
	Time        float64 `json:"time"`
	Timestamp   string  `json:"timestamp"`
	IntensityDB float64 `json:"intensity_db"`
	Clip        string  `json:"clip,omitempty"`
}

type audioReport struct {
	ThresholdDB float64       `json:"threshold_db"`
	Candidates  int           `json:"candidates"`
	Whistles    int           `json:"whistles_skipped"`
	Highlights  []audioRecord `json:"highlights"`
}

func audioRecords(sel highlights.Selection, clips []string) []audioRecord {
	records := make([]audioRecord, 0, len(sel.Highlights))
	for i, h := range sel.Highlights {
		r := audioRecord{
			Rank:        i + 1,
			Time:        h.Time,
			Timestamp:   Timestamp(h.Time),
			IntensityDB: h.IntensityDB,
		}
		if i < len(clips) {
			r.Clip = clips[i]
		}
		records = append(records, r)
	}
	return records
}

// WriteAudio renders an audio selection. clips, when given, are the clip
// paths in highlight order.
func WriteAudio(w io.Writer, format Format, sel highlights.Selection, clips []string) error {
	records := audioRecords(sel, clips)

	switch format {
	case FormatJSON:
		return writeJSON(w, audioReport{
			ThresholdDB: sel.Threshold,
			Candidates:  len(sel.Candidates),
			Whistles:    len(sel.Whistles),
			Highlights:  records,
		})

	case FormatCSV:
		rows := make([][]string, 0, len(records))
		for _, r := range records {
			rows = append(rows, []string{
				strconv.Itoa(r.Rank),
				strconv.FormatFloat(r.Time, 'f', 2, 64),
				strconv.FormatFloat(r.IntensityDB, 'f', 2, 64),
				r.Clip,
			})
		}
		return writeCSV(w, []string{"rank", "time", "intensity_db", "clip"}, rows)

	case FormatTable:
		rows := make([][]string, 0, len(records))
		for _, r := range records {
			rows = append(rows, []string{
				strconv.Itoa(r.Rank),
				r.Timestamp,
				fmt.Sprintf("%.2f", r.IntensityDB),
				r.Clip,
			})
		}
		_, err := fmt.Fprintln(w, RenderTable(
			[]string{"#", "Time", "Intensity (dB)", "Clip"},
			rows,
			[]Alignment{AlignRight, AlignRight, AlignRight, AlignLeft},
		))
		return err

	case FormatText, "":
		var b strings.Builder
		fmt.Fprintf(&b, "Loudness threshold: %.2f dB\n", sel.Threshold)
		fmt.Fprintf(&b, "Peaks: %d, whistles skipped: %d\n", len(sel.Candidates), len(sel.Whistles))
		if len(records) == 0 {
			b.WriteString("No highlights found.\n")
		}
		for _, r := range records {
			fmt.Fprintf(&b, "#%d at %s (%.1fs), intensity %.2f dB", r.Rank, r.Timestamp, r.Time, r.IntensityDB)
			if r.Clip != "" {
				fmt.Fprintf(&b, " -> %s", r.Clip)
			}
			b.WriteByte('\n')
		}
		_, err := io.WriteString(w, b.String())
		return err

	default:
		return fmt.Errorf("unsupported audio format %q", format)
	}
}

// WriteFeatureTrack dumps the per-frame features as csv for plotting.
func WriteFeatureTrack(w io.Writer, frames []highlights.EnergyFrame) error {
	rows := make([][]string, 0, len(frames))
	for _, f := range frames {
		rows = append(rows, []string{
			strconv.FormatFloat(f.StartTime, 'f', 3, 64),
			strconv.FormatFloat(f.RMSDB, 'f', 4, 64),
			strconv.FormatFloat(f.WhistleRatio, 'f', 4, 64),
		})
	}
	return writeCSV(w, []string{"time", "rms_db", "whistle_ratio"}, rows)
}
