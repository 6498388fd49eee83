package storage

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/conorfennell/arcana/internal/streak"
)

// Streak returns the persisted streak state. A store with no recorded draws
// yields the zero state.
func (db *DB) Streak() (streak.State, error) {
	return streakState(db.conn.QueryRow(`SELECT last_draw, days FROM streak WHERE id = 1`))
}

// HasDrawnToday reports whether a daily draw is already recorded for now's
// local calendar date.
func (db *DB) HasDrawnToday(now time.Time) (bool, error) {
	s, err := db.Streak()
	if err != nil {
		return false, err
	}
	return streak.DrawnOn(s, now), nil
}

// RecordDailyDraw advances the streak for a draw happening at now and
// returns the updated consecutive-day count. The transition runs in a
// transaction; calling it twice on the same day does not double-increment.
func (db *DB) RecordDailyDraw(now time.Time) (int, error) {
	tx, err := db.conn.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin streak update: %w", err)
	}
	defer tx.Rollback()

	s, err := streakState(tx.QueryRow(`SELECT last_draw, days FROM streak WHERE id = 1`))
	if err != nil {
		return 0, err
	}

	next := streak.Advance(s, now)

	_, err = tx.Exec(`
		INSERT INTO streak (id, last_draw, days) VALUES (1, ?, ?)
		ON CONFLICT(id) DO UPDATE SET last_draw = excluded.last_draw, days = excluded.days
	`, next.LastDraw, next.Days)
	if err != nil {
		return 0, fmt.Errorf("failed to store streak: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit streak update: %w", err)
	}
	return next.Days, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func streakState(row rowScanner) (streak.State, error) {
	var s streak.State
	err := row.Scan(&s.LastDraw, &s.Days)
	if err == sql.ErrNoRows {
		return streak.State{}, nil
	}
	if err != nil {
		return streak.State{}, fmt.Errorf("failed to read streak: %w", err)
	}
	return s, nil
}
