package plays

import (
	"strings"

	"github.com/RyanBlaney/courtside/logging"
)

// State is what the scan carries from one event to the next.
type State struct {
	// PreviousLead is the lead after the last event that had both scores.
	PreviousLead Lead
	Run          Run
	// Previous is the event immediately before the next one, scored or not.
	// Run attribution compares against it.
	Previous *Event
}

func mentions(description string, needles ...string) bool {
	d := strings.ToLower(description)
	for _, n := range needles {
		if strings.Contains(d, n) {
			return true
		}
	}
	return false
}

func isMade(description string) bool {
	return mentions(description, "made")
}

// shotValue infers points from the play text.
func shotValue(description string) int {
	switch {
	case mentions(description, "3pt"):
		return 3
	case mentions(description, "free throw"):
		return 1
	default:
		return 2
	}
}

func sameScore(a, b *int) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// scoringTeam credits whichever side's score moved since prev, home first.
func scoringTeam(prev *Event, ev Event) Team {
	switch {
	case prev == nil:
		return TeamUnknown
	case !sameScore(prev.HomeScore, ev.HomeScore):
		return TeamHome
	case !sameScore(prev.AwayScore, ev.AwayScore):
		return TeamAway
	default:
		return TeamUnknown
	}
}

func leadChanged(previous, current Lead) bool {
	return previous != LeadNone && previous != LeadTie &&
		current != LeadTie && current != previous
}

// gameClock is an event clock parsed once per event. The clock rules do
// not apply when err is set.
type gameClock struct {
	minutes int
	seconds int
	err     error
}

func readClock(clock string) gameClock {
	minutes, seconds, err := ParseClock(clock)
	return gameClock{minutes: minutes, seconds: seconds, err: err}
}

func clutchPlay(cfg ClassifierConfig, ev Event, clock gameClock) bool {
	if clock.err != nil || !IsClutchPeriod(ev.Quarter, cfg.FinalQuarter) {
		return false
	}
	if clock.minutes >= cfg.ClutchWindowMinutes {
		return false
	}
	margin := *ev.HomeScore - *ev.AwayScore
	if margin < 0 {
		margin = -margin
	}
	return margin <= cfg.ClutchMarginPoints && mentions(ev.Description, "made", "3pt")
}

func buzzerBeater(ev Event, clock gameClock) bool {
	return clock.err == nil && clock.minutes == 0 && clock.seconds == 0 && isMade(ev.Description)
}

// advanceRun extends the run when the same side scores again and restarts
// it otherwise.
func advanceRun(run Run, team Team, points int) Run {
	if run.Team == team {
		return Run{Team: team, Points: run.Points + points}
	}
	return Run{Team: team, Points: points}
}

// Step applies the highlight rules to one event. It returns the state for
// the next event and the highlight, if any rule fired. Events without both
// scores only move State.Previous forward.
func Step(cfg ClassifierConfig, state State, ev Event) (State, *Highlight) {
	next := state
	current := ev
	next.Previous = &current

	if !ev.Scored() {
		return next, nil
	}

	lead := ev.Lead()
	var reasons []string

	if leadChanged(state.PreviousLead, lead) {
		reasons = append(reasons, ReasonLeadChange)
	}

	clock := readClock(ev.Clock)
	if clock.err != nil {
		logging.Debug("Skipping clock rules for event", logging.Fields{
			"component": "plays",
			"quarter":   ev.Quarter,
			"clock":     ev.Clock,
			"error":     clock.err.Error(),
		})
	}
	if clutchPlay(cfg, ev, clock) {
		reasons = append(reasons, ReasonClutchPlay)
	}
	if buzzerBeater(ev, clock) {
		reasons = append(reasons, ReasonBuzzerBeater)
	}

	if isMade(ev.Description) {
		next.Run = advanceRun(state.Run, scoringTeam(state.Previous, ev), shotValue(ev.Description))
		if next.Run.Points >= cfg.RunThresholdPoints {
			reasons = append(reasons, RunReason(next.Run.Points))
		}
	}

	next.PreviousLead = lead

	if len(reasons) == 0 {
		return next, nil
	}
	return next, &Highlight{
		Quarter:     ev.Quarter,
		Clock:       ev.Clock,
		Score:       ev.Score(),
		Description: ev.Description,
		Reasons:     reasons,
	}
}

// Classify scans events in order and returns the flagged highlights.
// The events must already be in ascending game order.
func Classify(events []Event, cfg ClassifierConfig) []Highlight {
	highlights := []Highlight{}
	var state State

	for _, ev := range events {
		var h *Highlight
		state, h = Step(cfg, state, ev)
		if h != nil {
			highlights = append(highlights, *h)
		}
	}

	logging.Debug("Play-by-play classified", logging.Fields{
		"component":  "plays",
		"function":   "Classify",
		"events":     len(events),
		"highlights": len(highlights),
	})

	return highlights
}
