// Package plays flags highlight moments in a play-by-play scoring feed.
package plays

import (
	"fmt"
	"strings"
)

// Team identifies the side credited with an event.
type Team string

const (
	TeamNone    Team = ""
	TeamHome    Team = "home"
	TeamAway    Team = "away"
	TeamUnknown Team = "unknown"
)

// Lead is the side ahead on the scoreboard.
type Lead string

const (
	LeadNone Lead = ""
	LeadHome Lead = "home"
	LeadAway Lead = "away"
	LeadTie  Lead = "tie"
)

// Event is one normalised play-by-play row. Scores are nil on rows that
// carry no scoreboard.
type Event struct {
	Quarter     string `json:"quarter"`
	Clock       string `json:"time"`
	Team        Team   `json:"team,omitempty"`
	Player      string `json:"player_name,omitempty"`
	Description string `json:"description"`
	HomeScore   *int   `json:"home_score"`
	AwayScore   *int   `json:"away_score"`
}

// Scored reports whether both scores are present.
func (e Event) Scored() bool {
	return e.HomeScore != nil && e.AwayScore != nil
}

// Score formats the scoreboard as "home–away", or "N/A" without scores.
func (e Event) Score() string {
	if !e.Scored() {
		return "N/A"
	}
	return fmt.Sprintf("%d–%d", *e.HomeScore, *e.AwayScore)
}

// Lead returns who is ahead. Unscored events have no lead.
func (e Event) Lead() Lead {
	switch {
	case !e.Scored():
		return LeadNone
	case *e.HomeScore > *e.AwayScore:
		return LeadHome
	case *e.AwayScore > *e.HomeScore:
		return LeadAway
	default:
		return LeadTie
	}
}

// Run counts consecutive unanswered points for one side.
type Run struct {
	Team   Team `json:"team"`
	Points int  `json:"points"`
}

// Highlight is a flagged event with the rules that fired, in rule order.
type Highlight struct {
	Quarter     string   `json:"quarter"`
	Clock       string   `json:"time"`
	Score       string   `json:"score"`
	Description string   `json:"description"`
	Reasons     []string `json:"reasons"`
}

// Reason joins the fired rules for single-column output.
func (h Highlight) Reason() string {
	return strings.Join(h.Reasons, ", ")
}

// Reason labels.
const (
	ReasonLeadChange   = "Lead change"
	ReasonClutchPlay   = "Clutch play"
	ReasonBuzzerBeater = "Buzzer-beater"
)

// RunReason formats the scoring-run label, e.g. "8-0 run".
func RunReason(points int) string {
	return fmt.Sprintf("%d-0 run", points)
}

// ClassifierConfig holds the rule thresholds.
type ClassifierConfig struct {
	ClutchWindowMinutes int `json:"clutch_window_minutes"`
	ClutchMarginPoints  int `json:"clutch_margin_points"`
	RunThresholdPoints  int `json:"run_threshold_points"`
	// FinalQuarter names the last regulation period; overtime periods
	// ("OT", "OT1", ...) always count as clutch time too.
	FinalQuarter string `json:"final_quarter"`
}

// DefaultClassifierConfig returns the NBA-style defaults: last two minutes of
// Q4 or overtime within five points, and runs of eight or more.
func DefaultClassifierConfig() ClassifierConfig {
	return ClassifierConfig{
		ClutchWindowMinutes: 2,
		ClutchMarginPoints:  5,
		RunThresholdPoints:  8,
		FinalQuarter:        "Q4",
	}
}
