package session

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

const sessionTable = "agentlink_sessions"

// SQLiteStore persists session snapshots in a SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens (or creates) a SQLite database at path. Use ":memory:"
// for an ephemeral store.
func OpenSQLite(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	return db, nil
}

// NewSQLiteStore creates a SQLite-backed session store and ensures schema.
func NewSQLiteStore(db *sql.DB) (*SQLiteStore, error) {
	if db == nil {
		return nil, fmt.Errorf("db is nil")
	}
	stmt := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
		id TEXT PRIMARY KEY,
		updated_at INTEGER NOT NULL,
		state_json BLOB NOT NULL
	);`, sessionTable)
	if _, err := db.Exec(stmt); err != nil {
		return nil, err
	}
	return &SQLiteStore{db: db}, nil
}

// Save upserts the state for the session ID.
func (s *SQLiteStore) Save(ctx context.Context, sessionID string, state Snapshot) error {
	if sessionID == "" {
		return fmt.Errorf("session id is required")
	}
	payload, err := json.Marshal(state)
	if err != nil {
		return err
	}
	now := time.Now().UTC().UnixMilli()
	_, err = s.db.ExecContext(ctx,
		fmt.Sprintf(`INSERT INTO %s (id, updated_at, state_json) VALUES (?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET updated_at = excluded.updated_at, state_json = excluded.state_json`, sessionTable),
		sessionID, now, payload)
	return err
}

// Load returns the stored state or ErrNotFound.
func (s *SQLiteStore) Load(ctx context.Context, sessionID string) (Snapshot, error) {
	var payload []byte
	err := s.db.QueryRowContext(ctx,
		fmt.Sprintf("SELECT state_json FROM %s WHERE id = ?", sessionTable),
		sessionID).Scan(&payload)
	if err != nil {
		if err == sql.ErrNoRows {
			return Snapshot{}, ErrNotFound
		}
		return Snapshot{}, err
	}
	var state Snapshot
	if err := json.Unmarshal(payload, &state); err != nil {
		return Snapshot{}, err
	}
	return state, nil
}

var _ Store = (*SQLiteStore)(nil)
