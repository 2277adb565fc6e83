package persona

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteStore implements Store over a single-file SQLite database. The full
// persona record is kept as JSON in one column; only the ID is indexed, which
// is all the Store contract needs.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (creating if needed) the database at dbPath.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	// WAL keeps concurrent readers out of the writer's way.
	dsn := dbPath + "?_journal=WAL&_busy_timeout=5000"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(4)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.initSchema(); err != nil {
		return nil, fmt.Errorf("initialize schema: %w", err)
	}
	return s, nil
}

func (s *SQLiteStore) initSchema() error {
	query := `
	CREATE TABLE IF NOT EXISTS personas (
		id TEXT PRIMARY KEY,
		record_json TEXT NOT NULL,
		updated_at INTEGER NOT NULL
	);`
	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Get(ctx context.Context, id string) (*Persona, error) {
	row := s.db.QueryRowContext(ctx, `SELECT record_json FROM personas WHERE id = ?`, id)

	var raw string
	err := row.Scan(&raw)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("persona %q: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("scan persona %q: %w", id, err)
	}

	var p Persona
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return nil, fmt.Errorf("parse persona %q: %w", id, err)
	}
	if p.ID == "" {
		p.ID = id
	}
	return &p, nil
}

func (s *SQLiteStore) Put(ctx context.Context, id string, p *Persona) error {
	cp := *p
	cp.ID = id
	data, err := json.Marshal(&cp)
	if err != nil {
		return fmt.Errorf("marshal persona %q: %w", id, err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO personas (id, record_json, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET record_json = excluded.record_json, updated_at = excluded.updated_at`,
		id, string(data), time.Now().Unix())
	if err != nil {
		return fmt.Errorf("store persona %q: %w", id, err)
	}
	return nil
}

func (s *SQLiteStore) ListIDs(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id FROM personas ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list personas: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan persona id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// Close releases the underlying database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
