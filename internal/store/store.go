// Package store persists dialogue sessions and turns in SQLite.
package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// ErrNotFound is returned when a session has no matching row.
var ErrNotFound = errors.New("store: not found")

type DB struct{ *sql.DB }

// Session is one persona-bound conversation.
type Session struct {
	ID        string
	Emotion   string
	Persona   string
	CreatedAt time.Time
}

// Turn is one doctor line and the relative response produced for it.
type Turn struct {
	TurnID    string
	SessionID string
	Seq       int
	Doctor    string
	Raw       string
	Response  string
	CreatedAt time.Time
}

func Open(path string) (*DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	if err := migrate(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &DB{DB: db}, nil
}

func migrate(db *sql.DB) error {
	stmts := []string{
		`PRAGMA journal_mode=WAL;`,
		`CREATE TABLE IF NOT EXISTS sessions (
			id TEXT PRIMARY KEY,
			emotion TEXT NOT NULL,
			persona TEXT NOT NULL,
			created_at TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS turns (
			turn_id TEXT PRIMARY KEY,
			session_id TEXT NOT NULL,
			seq INTEGER NOT NULL,
			doctor TEXT NOT NULL,
			raw TEXT NOT NULL,
			response TEXT NOT NULL,
			created_at TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_turns_session ON turns(session_id, seq);`,
	}
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			return err
		}
	}
	return nil
}

// CreateSession inserts s. Creating an existing session is a no-op.
func (db *DB) CreateSession(ctx context.Context, s Session) error {
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now()
	}
	_, err := db.ExecContext(ctx,
		`INSERT OR IGNORE INTO sessions(id, emotion, persona, created_at) VALUES(?, ?, ?, ?)`,
		s.ID, s.Emotion, s.Persona, s.CreatedAt.UTC().Format(time.RFC3339Nano),
	)
	return err
}

// SaveTurn inserts or replaces t.
func (db *DB) SaveTurn(ctx context.Context, t Turn) error {
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now()
	}
	_, err := db.ExecContext(ctx,
		`INSERT OR REPLACE INTO turns(turn_id, session_id, seq, doctor, raw, response, created_at)
		 VALUES(?, ?, ?, ?, ?, ?, ?)`,
		t.TurnID, t.SessionID, t.Seq, t.Doctor, t.Raw, t.Response, t.CreatedAt.UTC().Format(time.RFC3339Nano),
	)
	return err
}

// ListSessions returns up to limit sessions, newest first.
func (db *DB) ListSessions(ctx context.Context, limit int) ([]Session, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := db.QueryContext(ctx,
		`SELECT id, emotion, persona, created_at FROM sessions ORDER BY created_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Session
	for rows.Next() {
		var s Session
		var ts string
		if err := rows.Scan(&s.ID, &s.Emotion, &s.Persona, &ts); err != nil {
			return nil, err
		}
		s.CreatedAt, _ = time.Parse(time.RFC3339Nano, ts)
		out = append(out, s)
	}
	return out, rows.Err()
}

// Turns returns the turns of a session in order.
func (db *DB) Turns(ctx context.Context, sessionID string) ([]Turn, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT turn_id, session_id, seq, doctor, raw, response, created_at
		 FROM turns WHERE session_id = ? ORDER BY seq ASC`, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Turn
	for rows.Next() {
		t, err := scanTurn(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// LastTurn returns the highest-numbered turn of a session, or ErrNotFound.
func (db *DB) LastTurn(ctx context.Context, sessionID string) (Turn, error) {
	row := db.QueryRowContext(ctx,
		`SELECT turn_id, session_id, seq, doctor, raw, response, created_at
		 FROM turns WHERE session_id = ? ORDER BY seq DESC LIMIT 1`, sessionID)
	t, err := scanTurn(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Turn{}, ErrNotFound
	}
	return t, err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTurn(s scanner) (Turn, error) {
	var t Turn
	var ts string
	if err := s.Scan(&t.TurnID, &t.SessionID, &t.Seq, &t.Doctor, &t.Raw, &t.Response, &ts); err != nil {
		return Turn{}, err
	}
	t.CreatedAt, _ = time.Parse(time.RFC3339Nano, ts)
	return t, nil
}
