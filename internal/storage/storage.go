// Package storage persists game catalogues and runs.
//
// The reasoning kernel takes fully constructed values and performs no I/O;
// this package is the adapter layer in front of it. Catalogues are JSON
// files (files.go). Runs can live either as JSON files or in a SQLite store
// (sqlite.go) backed by pure-Go SQLite (modernc.org/sqlite).
package storage

import (
	"context"
	"time"

	"github.com/questbro/questbro/internal/game"
)

// RunSummary is the listing view of a stored run.
type RunSummary struct {
	RunName      string    `json:"run_name"`
	GameID       string    `json:"game_id"`
	GameVersion  string    `json:"game_version"`
	Completed    int       `json:"completed"`
	Goals        int       `json:"goals"`
	CreatedAt    time.Time `json:"created_at"`
	LastModified time.Time `json:"last_modified"`
}

// RunStore is the persistent run storage interface.
type RunStore interface {
	// LoadRun retrieves a run by name. Returns nil if not found.
	LoadRun(ctx context.Context, name string) (*game.GameRun, error)

	// SaveRun stores a run (upsert) and refreshes its LastModified stamp.
	SaveRun(ctx context.Context, run *game.GameRun) error

	// DeleteRun removes a run by name.
	DeleteRun(ctx context.Context, name string) error

	// ListRuns returns summaries of all stored runs, newest first.
	ListRuns(ctx context.Context) ([]RunSummary, error)

	// SearchRuns performs full-text search over run names and goal
	// descriptions. Returns matching summaries.
	SearchRuns(ctx context.Context, query string, limit int) ([]RunSummary, error)

	// Close shuts down the store.
	Close() error
}
