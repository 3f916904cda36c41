package scraper

import (
	"errors"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/RyanBlaney/courtside/logging"
	"github.com/RyanBlaney/courtside/plays"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ErrNoQuarterTables is returned when a page has no play tables, usually
// because the page layout changed.
var ErrNoQuarterTables = errors.New("no quarter tables found")

var quarterID = regexp.MustCompile(`^q_(\d+|OT\d*)$`)

// QuarterName maps a table id such as "q_1" or "q_OT1" to "Q1" or "OT1".
func QuarterName(id string) (string, bool) {
	m := quarterID.FindStringSubmatch(id)
	if m == nil {
		return "", false
	}
	if _, err := strconv.Atoi(m[1]); err == nil {
		return "Q" + m[1], true
	}
	return m[1], true
}

// Parse extracts events from a game page, quarter tables in page order.
func Parse(r io.Reader) ([]plays.Event, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	tables := findAll(doc, func(n *html.Node) bool {
		return n.DataAtom == atom.Table && hasClass(n, "tbl_play") && strings.HasPrefix(attr(n, "id"), "q_")
	})
	if len(tables) == 0 {
		return nil, ErrNoQuarterTables
	}

	events := []plays.Event{}
	for _, table := range tables {
		id := attr(table, "id")
		quarter, ok := QuarterName(id)
		if !ok {
			logging.Warn("Skipping table with unexpected id", logging.Fields{
				"component": "scraper",
				"id":        id,
			})
			continue
		}
		for _, row := range findAll(table, isElement(atom.Tr)) {
			if ev, ok := parseRow(row, quarter); ok {
				events = append(events, ev)
			}
		}
	}
	return events, nil
}

// parseRow returns false for header rows and rows with no team info.
func parseRow(row *html.Node, quarter string) (plays.Event, bool) {
	scoreCell := findFirst(row, cellWith("td_score"))
	if scoreCell == nil {
		return plays.Event{}, false
	}
	timeDiv := findFirst(scoreCell, divWith("time"))
	if timeDiv == nil {
		return plays.Event{}, false
	}

	ev := plays.Event{
		Quarter: quarter,
		Clock:   textContent(timeDiv),
	}

	var info *html.Node
	if home := findFirst(row, cellWith("td_info", "td_home")); home != nil {
		if info = findFirst(home, divWith("div_info")); info != nil {
			ev.Team = plays.TeamHome
		}
	}
	if info == nil {
		if away := findFirst(row, cellWith("td_info", "td_away")); away != nil {
			if info = findFirst(away, divWith("div_info")); info != nil {
				ev.Team = plays.TeamAway
			}
		}
	}
	if info == nil {
		return plays.Event{}, false
	}

	if link := findFirst(info, func(n *html.Node) bool {
		return n.DataAtom == atom.A && hasClass(n, "player_name")
	}); link != nil {
		ev.Player = textContent(link)
	}
	ev.Description = textContent(info)

	if hasClass(row, "tr_score") {
		if scoreDiv := findFirst(scoreCell, divWith("score")); scoreDiv != nil {
			ev.HomeScore, ev.AwayScore = parseScore(scoreDiv)
		}
	}
	return ev, true
}

// parseScore reads the two score spans; anything else yields no score.
func parseScore(div *html.Node) (home, away *int) {
	spans := findAll(div, isElement(atom.Span))
	if len(spans) != 2 {
		logging.Debug("Unexpected score layout", logging.Fields{
			"component": "scraper",
			"spans":     len(spans),
		})
		return nil, nil
	}
	h, err1 := strconv.Atoi(textContent(spans[0]))
	a, err2 := strconv.Atoi(textContent(spans[1]))
	if err1 != nil || err2 != nil {
		return nil, nil
	}
	return &h, &a
}
