// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package journal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// =============================================================================
// ERRORS
// =============================================================================

var (
	ErrClosed      = errors.New("journal closed")
	ErrInvalidType = errors.New("invalid entry type")
)

// =============================================================================
// ENTRY
// =============================================================================

// Type identifies a session event.
type Type string

const (
	TypeLogin           Type = "LOGIN"
	TypeLogout          Type = "LOGOUT"
	TypeIdleWarning     Type = "IDLE_WARNING"
	TypeIdleLogout      Type = "IDLE_LOGOUT"
	TypeSessionExtended Type = "SESSION_EXTENDED"
)

// Entry is one journal record.
type Entry struct {
	ID        string
	At        time.Time
	Type      Type
	SessionID string
	Username  string
	Detail    string
}

// String formats the entry as a log line.
func (e Entry) String() string {
	var sb strings.Builder
	sb.WriteString(e.At.UTC().Format("2006-01-02 15:04:05 UTC"))
	sb.WriteString(" | ")
	sb.WriteString(string(e.Type))
	sb.WriteString(" | session=")
	sb.WriteString(e.SessionID)
	if e.Username != "" {
		sb.WriteString(" user=")
		sb.WriteString(e.Username)
	}
	if e.Detail != "" {
		sb.WriteString(" ")
		sb.WriteString(e.Detail)
	}
	return sb.String()
}

// =============================================================================
// JOURNAL
// =============================================================================

// Journal is an append-only SQLite event log.
type Journal struct {
	db  *sql.DB
	mu  sync.Mutex
	now func() time.Time
}

// Open opens (creating if needed) the journal at path.
func Open(path string) (*Journal, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
			return nil, fmt.Errorf("failed to create journal directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open journal: %w", err)
	}

	// SQLite only supports one writer at a time
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA busy_timeout=5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to set pragma: %w", err)
		}
	}

	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	if _, err := db.Exec(InitMetadata); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize metadata: %w", err)
	}

	if path != ":memory:" {
		// Tighten permissions; the journal holds usernames.
		_ = os.Chmod(path, 0600)
	}

	return &Journal{db: db, now: time.Now}, nil
}

// Record appends an entry. ID and At are filled in when empty. The stored
// entry is returned and echoed to the log.
func (j *Journal) Record(ctx context.Context, e Entry) (Entry, error) {
	if e.Type == "" {
		return Entry{}, ErrInvalidType
	}

	j.mu.Lock()
	defer j.mu.Unlock()
	if j.db == nil {
		return Entry{}, ErrClosed
	}

	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	if e.At.IsZero() {
		e.At = j.now()
	}
	e.At = e.At.UTC()

	_, err := j.db.ExecContext(ctx,
		`INSERT INTO entries (id, at, type, session_id, username, detail) VALUES (?, ?, ?, ?, ?, ?)`,
		e.ID, e.At.UnixNano(), string(e.Type), e.SessionID, e.Username, e.Detail)
	if err != nil {
		return Entry{}, fmt.Errorf("failed to record %s: %w", e.Type, err)
	}

	log.Print(e.String())
	return e, nil
}

// Recent returns up to limit entries, newest first.
func (j *Journal) Recent(ctx context.Context, limit int) ([]Entry, error) {
	return j.query(ctx, `SELECT id, at, type, session_id, username, detail FROM entries ORDER BY at DESC, seq DESC LIMIT ?`, limit)
}

// Session returns every entry of one session, oldest first.
func (j *Journal) Session(ctx context.Context, sessionID string) ([]Entry, error) {
	return j.query(ctx, `SELECT id, at, type, session_id, username, detail FROM entries WHERE session_id = ? ORDER BY at ASC, seq ASC`, sessionID)
}

func (j *Journal) query(ctx context.Context, q string, args ...any) ([]Entry, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.db == nil {
		return nil, ErrClosed
	}

	rows, err := j.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query journal: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		var at int64
		var typ string
		if err := rows.Scan(&e.ID, &at, &typ, &e.SessionID, &e.Username, &e.Detail); err != nil {
			return nil, fmt.Errorf("failed to scan entry: %w", err)
		}
		e.At = time.Unix(0, at).UTC()
		e.Type = Type(typ)
		out = append(out, e)
	}
	return out, rows.Err()
}

// Count returns the number of stored entries.
func (j *Journal) Count(ctx context.Context) (int, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.db == nil {
		return 0, ErrClosed
	}
	var n int
	err := j.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM entries").Scan(&n)
	return n, err
}

// Close closes the database. It is safe to call more than once.
func (j *Journal) Close() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.db == nil {
		return nil
	}
	err := j.db.Close()
	j.db = nil
	return err
}
