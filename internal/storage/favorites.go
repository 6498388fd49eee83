package storage

import (
	"fmt"
	"time"
)

// ToggleFavorite flips the favorited state of a card and returns the new
// membership. The read and write happen in one transaction so rapid repeated
// toggles cannot lose updates.
func (db *DB) ToggleFavorite(cardID int) (bool, error) {
	tx, err := db.conn.Begin()
	if err != nil {
		return false, fmt.Errorf("failed to begin toggle: %w", err)
	}
	defer tx.Rollback()

	var exists bool
	err = tx.QueryRow(`
		SELECT EXISTS(SELECT 1 FROM favorites WHERE card_id = ?)
	`, cardID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check favorite %d: %w", cardID, err)
	}

	if exists {
		if _, err := tx.Exec(`DELETE FROM favorites WHERE card_id = ?`, cardID); err != nil {
			return false, fmt.Errorf("failed to remove favorite %d: %w", cardID, err)
		}
	} else {
		if _, err := tx.Exec(`
			INSERT INTO favorites (card_id, added_at) VALUES (?, ?)
		`, cardID, time.Now()); err != nil {
			return false, fmt.Errorf("failed to add favorite %d: %w", cardID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("failed to commit toggle: %w", err)
	}
	return !exists, nil
}

// IsFavorite reports whether a card is currently favorited.
func (db *DB) IsFavorite(cardID int) (bool, error) {
	var exists bool
	err := db.conn.QueryRow(`
		SELECT EXISTS(SELECT 1 FROM favorites WHERE card_id = ?)
	`, cardID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check favorite %d: %w", cardID, err)
	}
	return exists, nil
}

// Favorites returns all favorited card ids in the order they were added.
func (db *DB) Favorites() ([]int, error) {
	rows, err := db.conn.Query(`
		SELECT card_id FROM favorites ORDER BY added_at, card_id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query favorites: %w", err)
	}
	defer rows.Close()

	var ids []int
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan favorite row: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// FavoriteCount returns the number of favorited cards.
func (db *DB) FavoriteCount() (int, error) {
	var n int
	if err := db.conn.QueryRow(`SELECT COUNT(*) FROM favorites`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count favorites: %w", err)
	}
	return n, nil
}
