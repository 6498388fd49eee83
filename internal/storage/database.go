package storage

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/conorfennell/arcana/internal/domain"
	_ "modernc.org/sqlite" // Registers the sqlite driver
)

// ErrNotFound is returned when an operation references an id that is not in
// the store. Callers treating deletes as idempotent may ignore it.
var ErrNotFound = errors.New("storage: not found")

// CardResolver maps stored card ids back to full catalog cards when reading
// persisted entries.
type CardResolver interface {
	ByID(id int) (domain.Card, bool)
}

// DB wraps the SQL database connection and the card resolver.
type DB struct {
	conn  *sql.DB
	cards CardResolver
}

// Open creates a new database connection, ensures the schema is up to date,
// and wires the card resolver used when reading history and favorites.
func Open(dsn string, cards CardResolver) (*DB, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// A single connection serialises all store operations, so readers never
	// observe a partially written entry.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	return &DB{conn: db, cards: cards}, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}
