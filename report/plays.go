package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/RyanBlaney/courtside/plays"
)

const ruleWidth = 40

type highlightRecord struct {
	Quarter     string   `json:"quarter"`
	Time        string   `json:"time"`
	Score       string   `json:"score"`
	Description string   `json:"description"`
	Reason      string   `json:"reason"`
	Reasons     []string `json:"reasons"`
}

// WriteHighlights renders play-by-play highlights in the given format.
func WriteHighlights(w io.Writer, format Format, hl []plays.Highlight) error {
	switch format {
	case FormatJSON:
		records := make([]highlightRecord, 0, len(hl))
		for _, h := range hl {
			records = append(records, highlightRecord{
				Quarter:     h.Quarter,
				Time:        h.Clock,
				Score:       h.Score,
				Description: h.Description,
				Reason:      h.Reason(),
				Reasons:     h.Reasons,
			})
		}
		return writeJSON(w, records)

	case FormatCSV:
		rows := make([][]string, 0, len(hl))
		for _, h := range hl {
			rows = append(rows, []string{h.Quarter, h.Clock, h.Score, h.Description, h.Reason()})
		}
		return writeCSV(w, []string{"Quarter", "Time", "Score", "Description", "Reason"}, rows)

	case FormatTable:
		if len(hl) == 0 {
			_, err := fmt.Fprintln(w, "No highlights found.")
			return err
		}
		rows := make([][]string, 0, len(hl))
		for _, h := range hl {
			rows = append(rows, []string{h.Quarter, h.Clock, h.Score, h.Description, h.Reason()})
		}
		_, err := fmt.Fprintln(w, RenderTable(
			[]string{"Quarter", "Time", "Score", "Description", "Reason"},
			rows,
			[]Alignment{AlignLeft, AlignRight, AlignRight, AlignLeft, AlignLeft},
		))
		return err

	case FormatText, "":
		if len(hl) == 0 {
			_, err := fmt.Fprintln(w, "No highlights found.")
			return err
		}
		var b strings.Builder
		for _, h := range hl {
			fmt.Fprintf(&b, "[%s - %s] Score: %s\n", h.Quarter, h.Clock, h.Score)
			fmt.Fprintln(&b, h.Description)
			fmt.Fprintf(&b, "Highlight reason: %s\n", h.Reason())
			fmt.Fprintln(&b, strings.Repeat("-", ruleWidth))
		}
		_, err := io.WriteString(w, b.String())
		return err

	default:
		return fmt.Errorf("unsupported highlight format %q", format)
	}
}

// WriteEvents exports a scraped feed as json or csv.
func WriteEvents(w io.Writer, format Format, events []plays.Event) error {
	switch format {
	case FormatJSON:
		if events == nil {
			events = []plays.Event{}
		}
		return writeJSON(w, events)
	case FormatCSV:
		rows := make([][]string, 0, len(events))
		for _, ev := range events {
			rows = append(rows, []string{
				ev.Quarter, ev.Clock, string(ev.Team), ev.Player, ev.Description,
				optionalInt(ev.HomeScore), optionalInt(ev.AwayScore),
			})
		}
		return writeCSV(w, []string{"quarter", "time", "team", "player_name", "description", "home_score", "away_score"}, rows)
	default:
		return fmt.Errorf("unsupported event format %q", format)
	}
}

// ReadEvents loads a feed previously written by WriteEvents as json.
func ReadEvents(r io.Reader) ([]plays.Event, error) {
	var events []plays.Event
	if err := json.NewDecoder(r).Decode(&events); err != nil {
		return nil, fmt.Errorf("decode events: %w", err)
	}
	return events, nil
}

func optionalInt(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

func writeCSV(w io.Writer, header []string, rows [][]string) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return err
	}
	if err := cw.WriteAll(rows); err != nil {
		return err
	}
	return cw.Error()
}
