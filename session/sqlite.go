package session

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/hazyhaar/introveil/idgen"
)

// Schema is the session storage schema.
const Schema = `
CREATE TABLE IF NOT EXISTS session_kv (
	session_id TEXT NOT NULL,
	key        TEXT NOT NULL,
	value      TEXT NOT NULL,
	updated_at INTEGER NOT NULL DEFAULT (unixepoch()),
	PRIMARY KEY (session_id, key)
);
`

// production-safe pragmas, applied via EXEC (driver-agnostic).
var pragmas = []string{
	"PRAGMA foreign_keys = ON",
	"PRAGMA journal_mode = WAL",
	"PRAGMA busy_timeout = 10000",
	"PRAGMA synchronous = NORMAL",
}

// SQLite is a Store persisting one browsing session's keys in a SQLite
// database. Rows are scoped by session ID: reopening the same database
// with the same session ID (a page reload) sees the same keys, while End
// (session teardown) deletes them.
type SQLite struct {
	db        *sql.DB
	sessionID string
}

// Open opens (or creates) the session database at path. An empty
// sessionID starts a fresh session with a generated ID. The caller must
// blank-import a driver registered as "sqlite":
//
//	import _ "modernc.org/sqlite"
func Open(path, sessionID string) (*SQLite, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("session: mkdir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("session: open: %w", err)
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("session: %s: %w", p, err)
		}
	}
	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("session: schema: %w", err)
	}

	if sessionID == "" {
		sessionID = idgen.NewSession()
	}
	return &SQLite{db: db, sessionID: sessionID}, nil
}

// OpenMemory opens an in-memory session store for testing. MaxOpenConns
// is pinned to 1 so every query hits the same in-memory database, and
// t.Cleanup closes it.
func OpenMemory(t testing.TB) *SQLite {
	t.Helper()
	s, err := Open(":memory:", "")
	if err != nil {
		t.Fatalf("session.OpenMemory: %v", err)
	}
	s.db.SetMaxOpenConns(1)
	t.Cleanup(func() { s.Close() })
	return s
}

// SessionID returns the session this store is scoped to.
func (s *SQLite) SessionID() string { return s.sessionID }

func (s *SQLite) Get(key string) (string, bool, error) {
	var v string
	err := s.db.QueryRow(`
		SELECT value FROM session_kv
		WHERE session_id = ? AND key = ?`, s.sessionID, key).Scan(&v)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("session: get %s: %w", key, err)
	}
	return v, true, nil
}

func (s *SQLite) Set(key, value string) error {
	_, err := s.db.Exec(`
		INSERT INTO session_kv (session_id, key, value)
		VALUES (?, ?, ?)
		ON CONFLICT (session_id, key) DO UPDATE SET
			value = excluded.value,
			updated_at = unixepoch()`, s.sessionID, key, value)
	if err != nil {
		return fmt.Errorf("session: set %s: %w", key, err)
	}
	return nil
}

func (s *SQLite) Delete(key string) error {
	_, err := s.db.Exec(`
		DELETE FROM session_kv
		WHERE session_id = ? AND key = ?`, s.sessionID, key)
	if err != nil {
		return fmt.Errorf("session: delete %s: %w", key, err)
	}
	return nil
}

// End deletes every key of this session. Page reloads keep the rows;
// only session teardown reaches here.
func (s *SQLite) End() error {
	_, err := s.db.Exec(`
		DELETE FROM session_kv WHERE session_id = ?`, s.sessionID)
	if err != nil {
		return fmt.Errorf("session: end: %w", err)
	}
	return nil
}

// Close closes the database without clearing session rows.
func (s *SQLite) Close() error {
	return s.db.Close()
}
