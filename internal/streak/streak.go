// Package streak computes the consecutive-daily-draw counter.
package streak

import "time"

// DateLayout is the calendar-date form used for all persisted dates.
const DateLayout = "2006-01-02"

// State is the persisted streak position.
type State struct {
	LastDraw string // local calendar date, yyyy-MM-dd; empty means never drawn
	Days     int
}

// DateOf renders t as a local calendar date string.
func DateOf(t time.Time) string {
	return t.Format(DateLayout)
}

// Advance applies one recorded daily draw at time now. Three transitions:
// the previous draw was yesterday (streak continues), the previous draw was
// today (re-entrant call, counter unchanged), or anything else (streak
// restarts at 1). LastDraw always ends up at today.
func Advance(s State, now time.Time) State {
	today := DateOf(now)
	yesterday := DateOf(now.AddDate(0, 0, -1))

	switch s.LastDraw {
	case today:
		// Already recorded today; must not double-increment.
	case yesterday:
		s.Days++
	default:
		s.Days = 1
	}
	s.LastDraw = today
	return s
}

// DrawnOn reports whether the state already records a draw on now's date.
func DrawnOn(s State, now time.Time) bool {
	return s.LastDraw == DateOf(now)
}
