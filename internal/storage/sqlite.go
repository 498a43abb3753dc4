package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/questbro/questbro/internal/game"
)

// SQLiteRunStore implements RunStore using SQLite.
type SQLiteRunStore struct {
	mu sync.RWMutex
	db *sql.DB
}

// NewSQLiteRunStore opens (or creates) a SQLite-backed run store.
// Use ":memory:" for an in-memory database.
func NewSQLiteRunStore(path string) (*SQLiteRunStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %q: %w", path, err)
	}

	// Enable WAL mode for better concurrent read performance.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		name         TEXT PRIMARY KEY,
		game_id      TEXT NOT NULL,
		game_version TEXT NOT NULL,
		data         BLOB NOT NULL,
		goals_text   TEXT NOT NULL DEFAULT '',
		completed    INTEGER NOT NULL DEFAULT 0,
		goals        INTEGER NOT NULL DEFAULT 0,
		created_at   TEXT NOT NULL,
		updated_at   TEXT NOT NULL
	);
	CREATE VIRTUAL TABLE IF NOT EXISTS runs_fts USING fts5(
		name, goals_text, content='runs', content_rowid='rowid'
	);
	CREATE TRIGGER IF NOT EXISTS runs_ai AFTER INSERT ON runs BEGIN
		INSERT INTO runs_fts(rowid, name, goals_text) VALUES (new.rowid, new.name, new.goals_text);
	END;
	CREATE TRIGGER IF NOT EXISTS runs_ad AFTER DELETE ON runs BEGIN
		INSERT INTO runs_fts(runs_fts, rowid, name, goals_text) VALUES ('delete', old.rowid, old.name, old.goals_text);
	END;
	CREATE TRIGGER IF NOT EXISTS runs_au AFTER UPDATE ON runs BEGIN
		INSERT INTO runs_fts(runs_fts, rowid, name, goals_text) VALUES ('delete', old.rowid, old.name, old.goals_text);
		INSERT INTO runs_fts(rowid, name, goals_text) VALUES (new.rowid, new.name, new.goals_text);
	END;`

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &SQLiteRunStore{db: db}, nil
}

// LoadRun retrieves a run by name.
func (s *SQLiteRunStore) LoadRun(ctx context.Context, name string) (*game.GameRun, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var data []byte
	err := s.db.QueryRowContext(ctx,
		"SELECT data FROM runs WHERE name = ?", name,
	).Scan(&data)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load run %q: %w", name, err)
	}

	var run game.GameRun
	if err := json.Unmarshal(data, &run); err != nil {
		return nil, fmt.Errorf("decode run %q: %w", name, err)
	}
	return &run, nil
}

// SaveRun stores or updates a run.
func (s *SQLiteRunStore) SaveRun(ctx context.Context, run *game.GameRun) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	if run.CreatedAt.IsZero() {
		run.CreatedAt = now
	}
	run.LastModified = now

	data, err := json.Marshal(run)
	if err != nil {
		return fmt.Errorf("encode run %q: %w", run.RunName, err)
	}

	var goalTexts []string
	for _, g := range run.Goals {
		goalTexts = append(goalTexts, g.TargetID, g.Description)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO runs (name, game_id, game_version, data, goals_text, completed, goals, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			game_id = excluded.game_id,
			game_version = excluded.game_version,
			data = excluded.data,
			goals_text = excluded.goals_text,
			completed = excluded.completed,
			goals = excluded.goals,
			updated_at = excluded.updated_at`,
		run.RunName, run.GameID, run.GameVersion, data,
		strings.Join(goalTexts, " "),
		len(run.Completed), len(run.Goals),
		run.CreatedAt.Format(time.RFC3339), now.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("save run %q: %w", run.RunName, err)
	}
	return nil
}

// DeleteRun removes a run by name.
func (s *SQLiteRunStore) DeleteRun(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, "DELETE FROM runs WHERE name = ?", name)
	if err != nil {
		return fmt.Errorf("delete run %q: %w", name, err)
	}
	return nil
}

// ListRuns returns summaries of all runs, most recently updated first.
func (s *SQLiteRunStore) ListRuns(ctx context.Context) ([]RunSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT name, game_id, game_version, completed, goals, created_at, updated_at
		FROM runs ORDER BY updated_at DESC, name`)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	return scanSummaries(rows)
}

// SearchRuns performs full-text search over run names and goal descriptions.
func (s *SQLiteRunStore) SearchRuns(ctx context.Context, query string, limit int) ([]RunSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = 50
	}

	// Quote terms individually so bare words work as FTS5 input.
	terms := strings.Fields(query)
	for i, t := range terms {
		terms[i] = `"` + strings.ReplaceAll(t, `"`, `""`) + `"`
	}
	ftsQuery := strings.Join(terms, " ")
	if ftsQuery == "" {
		return nil, nil
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT r.name, r.game_id, r.game_version, r.completed, r.goals, r.created_at, r.updated_at
		FROM runs_fts f
		JOIN runs r ON r.rowid = f.rowid
		WHERE runs_fts MATCH ?
		ORDER BY rank LIMIT ?`, ftsQuery, limit)
	if err != nil {
		return nil, fmt.Errorf("search runs %q: %w", query, err)
	}
	defer rows.Close()

	return scanSummaries(rows)
}

// Count returns the total number of stored runs.
func (s *SQLiteRunStore) Count(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM runs").Scan(&n); err != nil {
		return 0, fmt.Errorf("count runs: %w", err)
	}
	return n, nil
}

// Close shuts down the store.
func (s *SQLiteRunStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}

func scanSummaries(rows *sql.Rows) ([]RunSummary, error) {
	var out []RunSummary
	for rows.Next() {
		var sum RunSummary
		var createdAt, updatedAt string
		if err := rows.Scan(&sum.RunName, &sum.GameID, &sum.GameVersion,
			&sum.Completed, &sum.Goals, &createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("scan run row: %w", err)
		}
		sum.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		sum.LastModified, _ = time.Parse(time.RFC3339, updatedAt)
		out = append(out, sum)
	}
	return out, rows.Err()
}
