package storage

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/conorfennell/arcana/internal/domain"
	"github.com/conorfennell/arcana/internal/streak"
)

// SaveDailyRecord stores the daily draw for its date, replacing any earlier
// record for the same date.
func (db *DB) SaveDailyRecord(rec domain.DailyRecord) error {
	blob, err := encodeCards(rec.Cards)
	if err != nil {
		return err
	}

	var reading sql.NullString
	if rec.Reading != nil {
		reading = sql.NullString{String: *rec.Reading, Valid: true}
	}

	_, err = db.conn.Exec(`
		INSERT INTO daily_records (date, cards, reading, skipped)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(date) DO UPDATE SET
			cards = excluded.cards,
			reading = excluded.reading,
			skipped = excluded.skipped
	`, rec.Date, string(blob), reading, rec.Skipped)
	if err != nil {
		return fmt.Errorf("failed to save daily record for %s: %w", rec.Date, err)
	}
	return nil
}

// DailyRecord fetches the record for a calendar date (yyyy-MM-dd).
func (db *DB) DailyRecord(date string) (domain.DailyRecord, error) {
	var (
		rec     domain.DailyRecord
		blob    sql.NullString
		reading sql.NullString
	)
	err := db.conn.QueryRow(`
		SELECT date, cards, reading, skipped FROM daily_records WHERE date = ?
	`, date).Scan(&rec.Date, &blob, &reading, &rec.Skipped)
	if err == sql.ErrNoRows {
		return domain.DailyRecord{}, ErrNotFound
	}
	if err != nil {
		return domain.DailyRecord{}, fmt.Errorf("failed to read daily record for %s: %w", date, err)
	}
	if blob.Valid && blob.String != "" {
		if rec.Cards, err = db.decodeCards([]byte(blob.String)); err != nil {
			return domain.DailyRecord{}, fmt.Errorf("daily record %s: %w", date, err)
		}
	}
	if reading.Valid {
		rec.Reading = &reading.String
	}
	return rec, nil
}

// SkipToday marks now's date as deliberately skipped without touching any
// cards already recorded for it.
func (db *DB) SkipToday(now time.Time) error {
	date := streak.DateOf(now)
	_, err := db.conn.Exec(`
		INSERT INTO daily_records (date, skipped) VALUES (?, 1)
		ON CONFLICT(date) DO UPDATE SET skipped = 1
	`, date)
	if err != nil {
		return fmt.Errorf("failed to mark %s skipped: %w", date, err)
	}
	return nil
}

// IsSkippedToday reports whether the user chose to skip today's daily draw.
func (db *DB) IsSkippedToday(now time.Time) (bool, error) {
	var skipped bool
	err := db.conn.QueryRow(`
		SELECT skipped FROM daily_records WHERE date = ?
	`, streak.DateOf(now)).Scan(&skipped)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read skip state: %w", err)
	}
	return skipped, nil
}
