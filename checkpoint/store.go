// Package checkpoint persists the last processed message identity in a
// sqlite file so a restart does not requote the newest message. It is an
// optional drop-in for the watcher's in-memory slot.
package checkpoint

import (
	"database/sql"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS checkpoint (
	id INTEGER PRIMARY KEY CHECK (id = 1),
	message_id TEXT NOT NULL
);`

// Store is a single-slot persistent memory backed by sqlite.
type Store struct {
	db *sql.DB
}

func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open checkpoint db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize checkpoint schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Last returns the stored message id, or empty when nothing has been
// processed yet.
func (s *Store) Last() (string, error) {
	var id string
	err := s.db.QueryRow(`SELECT message_id FROM checkpoint WHERE id = 1`).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read checkpoint: %w", err)
	}
	return id, nil
}

// Mark overwrites the slot with the given message id.
func (s *Store) Mark(id string) error {
	_, err := s.db.Exec(`
		INSERT INTO checkpoint (id, message_id) VALUES (1, ?)
		ON CONFLICT (id) DO UPDATE SET message_id = excluded.message_id`, id)
	if err != nil {
		return fmt.Errorf("failed to write checkpoint: %w", err)
	}
	return nil
}

func (s *Store) Close() error {
	return s.db.Close()
}
