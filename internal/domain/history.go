package domain

// HistoryEntry is one draw session: the question asked, the cards drawn,
// and the reading text once the gateway has produced it.
type HistoryEntry struct {
	ID        string      `json:"id"`
	Question  string      `json:"question"`
	Timestamp float64     `json:"timestamp"`
	Cards     []DrawnCard `json:"cards"`
	Reading   *string     `json:"reading"`
}

// StreakState tracks consecutive daily draws. LastDraw is a local calendar
// date in yyyy-MM-dd form, not a timestamp.
type StreakState struct {
	LastDraw string `json:"last_draw"`
	Days     int    `json:"days"`
}

// DailyRecord is the per-date bookkeeping for the daily single-card draw.
type DailyRecord struct {
	Date    string      `json:"date"`
	Cards   []DrawnCard `json:"cards"`
	Reading *string     `json:"reading"`
	Skipped bool        `json:"skipped"`
}
