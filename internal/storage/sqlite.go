package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
)

// SQLiteSlot stores the slot as one row of a key-value table in a SQLite database.
type SQLiteSlot struct {
	db   *sql.DB
	name string
}

// OpenSQLiteSlot opens (creating if needed) the database at dbPath and returns
// the slot called name inside it.
func OpenSQLiteSlot(dbPath, name string) (*SQLiteSlot, error) {
	if dbPath == "" {
		return nil, errors.New("empty database path")
	}

	if dir := filepath.Dir(dbPath); dir != "." && dir != "" {
		//nolint:gosec // G301: 0755 is appropriate for user-accessible data directory
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}

	conn, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?_busy_timeout=5000", dbPath))
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	conn.SetMaxOpenConns(1)
	conn.SetConnMaxLifetime(0)

	s := &SQLiteSlot{db: conn, name: name}
	if err := s.migrate(); err != nil {
		_ = conn.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLiteSlot) migrate() error {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS slots (
            name TEXT PRIMARY KEY,
            value BLOB NOT NULL,
            updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
        );`)
	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	return nil
}

// Name returns the slot name.
func (s *SQLiteSlot) Name() string {
	return s.name
}

// Read returns the stored value.
func (s *SQLiteSlot) Read() ([]byte, error) {
	var value []byte
	err := s.db.QueryRow(`SELECT value FROM slots WHERE name = ?`, s.name).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSlotEmpty
	}
	if err != nil {
		return nil, fmt.Errorf("read slot: %w", err)
	}
	return value, nil
}

// Write upserts the value.
func (s *SQLiteSlot) Write(data []byte) error {
	_, err := s.db.Exec(`INSERT INTO slots(name, value) VALUES(?, ?)
        ON CONFLICT(name) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP`, s.name, data)
	if err != nil {
		return fmt.Errorf("write slot: %w", err)
	}
	return nil
}

// Close releases the database resources.
func (s *SQLiteSlot) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}
