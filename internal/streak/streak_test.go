package streak

import (
	"testing"
	"time"
)

func TestAdvance(t *testing.T) {
	now := time.Date(2026, 3, 10, 14, 30, 0, 0, time.Local)
	today := DateOf(now)
	yesterday := DateOf(now.AddDate(0, 0, -1))
	threeDaysAgo := DateOf(now.AddDate(0, 0, -3))

	t.Run("continues streak from yesterday", func(t *testing.T) {
		next := Advance(State{LastDraw: yesterday, Days: 4}, now)
		if next.Days != 5 {
			t.Errorf("Expected days to be 5, but got %d", next.Days)
		}
		if next.LastDraw != today {
			t.Errorf("Expected last draw to be %s, but got %s", today, next.LastDraw)
		}
	})

	t.Run("restarts broken streak", func(t *testing.T) {
		next := Advance(State{LastDraw: threeDaysAgo, Days: 9}, now)
		if next.Days != 1 {
			t.Errorf("Expected days to reset to 1, but got %d", next.Days)
		}
	})

	t.Run("first draw ever starts at 1", func(t *testing.T) {
		next := Advance(State{}, now)
		if next.Days != 1 {
			t.Errorf("Expected days to be 1, but got %d", next.Days)
		}
	})

	t.Run("same-day re-entry does not double-increment", func(t *testing.T) {
		first := Advance(State{LastDraw: yesterday, Days: 4}, now)
		second := Advance(first, now)
		if second.Days != first.Days {
			t.Errorf("Expected days to stay %d, but got %d", first.Days, second.Days)
		}
		if second.LastDraw != today {
			t.Errorf("Expected last draw to stay %s, but got %s", today, second.LastDraw)
		}
	})
}

func TestDrawnOn(t *testing.T) {
	now := time.Date(2026, 3, 10, 8, 0, 0, 0, time.Local)

	if DrawnOn(State{}, now) {
		t.Error("Expected empty state to report no draw today")
	}
	if !DrawnOn(State{LastDraw: DateOf(now), Days: 1}, now) {
		t.Error("Expected state drawn today to report true")
	}
	if DrawnOn(State{LastDraw: DateOf(now.AddDate(0, 0, -1)), Days: 1}, now) {
		t.Error("Expected state drawn yesterday to report false")
	}
}
