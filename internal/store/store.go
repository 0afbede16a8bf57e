// Package store persists conversation transcripts to a local SQLite
// database, one row per chat message keyed by session.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// Record is one persisted chat message.
type Record struct {
	ID        string
	SessionID string
	Role      string
	Content   string
	CreatedAt time.Time
}

// SessionSummary aggregates one stored session.
type SessionSummary struct {
	SessionID string
	StartedAt time.Time
	Messages  int
}

// Store owns the transcript database.
type Store struct {
	db     *sql.DB
	dbPath string
}

// New creates or opens the transcript store at dbPath.
func New(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	s := &Store{db: db, dbPath: dbPath}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.dbPath
}

func (s *Store) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS messages (
		id TEXT PRIMARY KEY,
		session_id TEXT NOT NULL,
		role TEXT NOT NULL,
		content TEXT NOT NULL,
		created_at DATETIME NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_messages_session ON messages(session_id, created_at);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Append stores one message under the given session.
func (s *Store) Append(sessionID, role, content string) error {
	_, err := s.db.Exec(
		`INSERT INTO messages (id, session_id, role, content, created_at) VALUES (?, ?, ?, ?, ?)`,
		uuid.NewString(), sessionID, role, content, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to append message: %w", err)
	}
	return nil
}

// Messages returns one session's transcript in insertion order.
func (s *Store) Messages(sessionID string) ([]Record, error) {
	rows, err := s.db.Query(
		`SELECT id, session_id, role, content, created_at FROM messages
		 WHERE session_id = ? ORDER BY created_at, id`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query messages: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var r Record
		if err := rows.Scan(&r.ID, &r.SessionID, &r.Role, &r.Content, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

// Sessions lists the most recent sessions, newest first.
func (s *Store) Sessions(limit int) ([]SessionSummary, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := s.db.Query(
		`SELECT session_id, MIN(created_at), COUNT(*) FROM messages
		 GROUP BY session_id ORDER BY MIN(created_at) DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query sessions: %w", err)
	}
	defer rows.Close()

	var sessions []SessionSummary
	for rows.Next() {
		var sum SessionSummary
		// MIN(created_at) is an expression, so the driver cannot see the
		// column's DATETIME declared type and returns the raw text; parse
		// it with the same layout the driver uses for stored time.Time.
		var started string
		if err := rows.Scan(&sum.SessionID, &started, &sum.Messages); err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		t, err := time.Parse("2006-01-02 15:04:05.999999999 -0700 MST", started)
		if err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		sum.StartedAt = t
		sessions = append(sessions, sum)
	}
	return sessions, rows.Err()
}
