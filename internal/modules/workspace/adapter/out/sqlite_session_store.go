package out

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"actograph/internal/modules/workspace/domain"
	workspaceout "actograph/internal/modules/workspace/port/out"

	_ "modernc.org/sqlite"
)

// SQLiteSessionStore persists sessions and their event logs in a local
// SQLite database. Concurrent writers are reconciled with last-writer-wins
// on updated_at; the upsert refuses to clobber a newer row.
type SQLiteSessionStore struct {
	db *sql.DB
}

func NewSQLiteSessionStore(dbPath string) (*SQLiteSessionStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	store := &SQLiteSessionStore{db: db}
	if err := store.ensureSchema(context.Background()); err != nil {
		return nil, err
	}
	return store, nil
}

func (s *SQLiteSessionStore) ensureSchema(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS sessions (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  created_at INTEGER NOT NULL,
  updated_at INTEGER NOT NULL,
  video_ref TEXT,
  notes TEXT,
  status TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS events (
  id TEXT NOT NULL,
  session_id TEXT NOT NULL REFERENCES sessions(id) ON DELETE CASCADE,
  seq INTEGER NOT NULL,
  activity_id TEXT NOT NULL,
  activity_name TEXT NOT NULL,
  timestamp_ms INTEGER NOT NULL,
  duration_ms INTEGER,
  PRIMARY KEY (session_id, seq)
);
`
	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create session tables: %w", err)
	}
	return nil
}

func (s *SQLiteSessionStore) Put(ctx context.Context, session domain.Session) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin put session: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	const upsert = `
INSERT INTO sessions (id, name, created_at, updated_at, video_ref, notes, status)
VALUES (?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
  name=excluded.name,
  created_at=excluded.created_at,
  updated_at=excluded.updated_at,
  video_ref=excluded.video_ref,
  notes=excluded.notes,
  status=excluded.status
WHERE excluded.updated_at >= sessions.updated_at;
`
	if _, err := tx.ExecContext(ctx, upsert,
		session.ID, session.Name, session.CreatedAt, session.UpdatedAt,
		session.VideoRef, session.Notes, string(session.Status),
	); err != nil {
		return fmt.Errorf("upsert session: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM events WHERE session_id = ?`, session.ID); err != nil {
		return fmt.Errorf("clear session events: %w", err)
	}
	const insertEvent = `
INSERT INTO events (id, session_id, seq, activity_id, activity_name, timestamp_ms, duration_ms)
VALUES (?, ?, ?, ?, ?, ?, ?);
`
	for seq, event := range session.Events {
		var duration any
		if event.Duration != nil {
			duration = *event.Duration
		}
		if _, err := tx.ExecContext(ctx, insertEvent,
			event.ID, session.ID, seq, event.ActivityID, event.ActivityName, event.Timestamp, duration,
		); err != nil {
			return fmt.Errorf("insert event %s: %w", event.ID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit put session: %w", err)
	}
	return nil
}

func (s *SQLiteSessionStore) Delete(ctx context.Context, sessionID string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete session: %w", err)
	}
	defer func() { _ = tx.Rollback() }()
	if _, err := tx.ExecContext(ctx, `DELETE FROM events WHERE session_id = ?`, sessionID); err != nil {
		return fmt.Errorf("delete session events: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, sessionID); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit delete session: %w", err)
	}
	return nil
}

func (s *SQLiteSessionStore) ListAll(ctx context.Context) ([]domain.Session, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT id, name, created_at, updated_at, COALESCE(video_ref, ''), COALESCE(notes, ''), status
FROM sessions ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	sessions := []domain.Session{}
	for rows.Next() {
		session := domain.Session{Events: []domain.ActivityEvent{}}
		var status string
		if err := rows.Scan(&session.ID, &session.Name, &session.CreatedAt, &session.UpdatedAt, &session.VideoRef, &session.Notes, &status); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		session.Status = domain.Status(status)
		sessions = append(sessions, session)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sessions: %w", err)
	}
	for i := range sessions {
		events, err := s.listEvents(ctx, sessions[i].ID)
		if err != nil {
			return nil, err
		}
		sessions[i].Events = events
	}
	return sessions, nil
}

func (s *SQLiteSessionStore) listEvents(ctx context.Context, sessionID string) ([]domain.ActivityEvent, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT id, session_id, activity_id, activity_name, timestamp_ms, duration_ms
FROM events WHERE session_id = ? ORDER BY seq`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("list events for %s: %w", sessionID, err)
	}
	defer rows.Close()

	events := []domain.ActivityEvent{}
	for rows.Next() {
		event := domain.ActivityEvent{}
		var duration sql.NullInt64
		if err := rows.Scan(&event.ID, &event.SessionID, &event.ActivityID, &event.ActivityName, &event.Timestamp, &duration); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		if duration.Valid {
			d := duration.Int64
			event.Duration = &d
		}
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate events: %w", err)
	}
	return events, nil
}

func (s *SQLiteSessionStore) Close() error {
	return s.db.Close()
}

var _ workspaceout.SessionStore = (*SQLiteSessionStore)(nil)
