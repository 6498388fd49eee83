package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/conorfennell/arcana/internal/domain"
	"github.com/google/uuid"
)

// storedCard is the persisted shape of a drawn card. Only the id and
// orientation are stored; meaning text is resolved against the catalog.
type storedCard struct {
	CardID    int  `json:"card_id"`
	IsUpright bool `json:"is_upright"`
}

func encodeCards(cards []domain.DrawnCard) ([]byte, error) {
	stored := make([]storedCard, len(cards))
	for i, c := range cards {
		stored[i] = storedCard{CardID: c.ID, IsUpright: c.IsUpright}
	}
	blob, err := json.Marshal(stored)
	if err != nil {
		return nil, fmt.Errorf("encode drawn cards: %w", err)
	}
	return blob, nil
}

func (db *DB) decodeCards(blob []byte) ([]domain.DrawnCard, error) {
	var stored []storedCard
	if err := json.Unmarshal(blob, &stored); err != nil {
		return nil, fmt.Errorf("decode drawn cards: %w", err)
	}
	cards := make([]domain.DrawnCard, len(stored))
	for i, s := range stored {
		card, ok := db.cards.ByID(s.CardID)
		if !ok {
			// The deck changed since this entry was written; keep the id so
			// the entry remains addressable.
			card = domain.Card{ID: s.CardID}
		}
		cards[i] = domain.DrawnCard{Card: card, IsUpright: s.IsUpright}
	}
	return cards, nil
}

// SaveEntry persists a new history entry and returns its id. The write is
// committed before the id is returned. Inserting an id that already exists
// replaces the whole entry rather than appending a duplicate.
func (db *DB) SaveEntry(question string, cards []domain.DrawnCard) (string, error) {
	blob, err := encodeCards(cards)
	if err != nil {
		return "", err
	}

	id := uuid.NewString()
	ts := float64(time.Now().UnixMilli()) / 1000.0

	_, err = db.conn.Exec(`
		INSERT INTO history (id, question, timestamp, cards, reading)
		VALUES (?, ?, ?, ?, NULL)
		ON CONFLICT(id) DO UPDATE SET
			question = excluded.question,
			timestamp = excluded.timestamp,
			cards = excluded.cards,
			reading = excluded.reading
	`, id, question, ts, string(blob))
	if err != nil {
		return "", fmt.Errorf("failed to save history entry: %w", err)
	}
	return id, nil
}

// UpdateReading replaces the reading text for an entry. Question and
// timestamp are untouched. Last write wins, so repeating an update is safe.
func (db *DB) UpdateReading(id, text string) error {
	res, err := db.conn.Exec(`
		UPDATE history SET reading = ? WHERE id = ?
	`, text, id)
	if err != nil {
		return fmt.Errorf("failed to update reading for %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected for %s: %w", id, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// RecentEntries returns up to limit entries, most recent first. Entries with
// equal timestamps fall back to insertion order, later insert first.
func (db *DB) RecentEntries(limit int) ([]domain.HistoryEntry, error) {
	rows, err := db.conn.Query(`
		SELECT id, question, timestamp, cards, reading
		FROM history
		ORDER BY timestamp DESC, rowid DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()

	var entries []domain.HistoryEntry
	for rows.Next() {
		var (
			e       domain.HistoryEntry
			blob    []byte
			reading sql.NullString
		)
		if err := rows.Scan(&e.ID, &e.Question, &e.Timestamp, &blob, &reading); err != nil {
			return nil, fmt.Errorf("failed to scan history row: %w", err)
		}
		if e.Cards, err = db.decodeCards(blob); err != nil {
			return nil, fmt.Errorf("history entry %s: %w", e.ID, err)
		}
		if reading.Valid {
			e.Reading = &reading.String
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Entry fetches a single history entry by id.
func (db *DB) Entry(id string) (domain.HistoryEntry, error) {
	var (
		e       domain.HistoryEntry
		blob    []byte
		reading sql.NullString
	)
	err := db.conn.QueryRow(`
		SELECT id, question, timestamp, cards, reading
		FROM history WHERE id = ?
	`, id).Scan(&e.ID, &e.Question, &e.Timestamp, &blob, &reading)
	if err == sql.ErrNoRows {
		return domain.HistoryEntry{}, ErrNotFound
	}
	if err != nil {
		return domain.HistoryEntry{}, fmt.Errorf("failed to fetch entry %s: %w", id, err)
	}
	if e.Cards, err = db.decodeCards(blob); err != nil {
		return domain.HistoryEntry{}, fmt.Errorf("history entry %s: %w", id, err)
	}
	if reading.Valid {
		e.Reading = &reading.String
	}
	return e, nil
}

// DeleteEntry removes an entry by id. A missing id reports ErrNotFound.
func (db *DB) DeleteEntry(id string) error {
	res, err := db.conn.Exec(`DELETE FROM history WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete entry %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected for %s: %w", id, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
