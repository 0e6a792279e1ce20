// Package journal records each crawl run and its candidates in SQLite.
package journal

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/qepting91/reddit-spider/internal/crawler"
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id TEXT PRIMARY KEY,
	seed TEXT NOT NULL,
	target INTEGER NOT NULL,
	started_at TIMESTAMP NOT NULL,
	finished_at TIMESTAMP,
	approved INTEGER DEFAULT 0,
	processed INTEGER DEFAULT 0,
	visited INTEGER DEFAULT 0
);
CREATE TABLE IF NOT EXISTS candidates (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	run_id TEXT NOT NULL REFERENCES runs(id),
	name TEXT NOT NULL,
	approved BOOLEAN NOT NULL,
	score INTEGER,
	reason TEXT,
	harvested BOOLEAN DEFAULT FALSE,
	records INTEGER DEFAULT 0,
	attempts INTEGER DEFAULT 0,
	links TEXT,
	queued INTEGER DEFAULT 0,
	processed_at TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_candidates_run ON candidates(run_id);
`

// Journal is an append-only audit trail. It is never read back into a
// crawl.
type Journal struct {
	db *sql.DB
}

// Open creates or opens the journal at path.
func Open(path string) (*Journal, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create journal dir: %w", err)
		}
	}
	slog.Debug("Initializing journal", "path", path)
	db, err := sql.Open("sqlite", path) // Use "sqlite" driver name
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create journal tables: %w", err)
	}
	return &Journal{db: db}, nil
}

func (j *Journal) Close() error {
	return j.db.Close()
}

func (j *Journal) StartRun(ctx context.Context, run crawler.Run) error {
	_, err := j.db.ExecContext(ctx,
		`INSERT INTO runs (id, seed, target, started_at) VALUES (?, ?, ?, ?)`,
		run.ID, run.Seed, run.Target, run.StartedAt.UTC())
	return err
}

func (j *Journal) RecordCandidate(ctx context.Context, o crawler.Outcome) error {
	var (
		reason    string
		harvested bool
		records   int
		attempts  int
		found     string
	)
	if !o.Verdict.Accepted {
		reason = o.Verdict.Reason.String()
	}
	if h := o.Harvest; h != nil {
		harvested = h.Success
		records = h.Records
		attempts = h.Attempts
		found = strings.Join(h.Links, ",")
		if h.Err != nil {
			reason = h.Err.Error()
		}
	}
	var score sql.NullInt64
	if o.Verdict.Scored {
		score = sql.NullInt64{Int64: int64(o.Verdict.Score), Valid: true}
	}
	_, err := j.db.ExecContext(ctx, `
		INSERT INTO candidates (run_id, name, approved, score, reason, harvested, records, attempts, links, queued, processed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		o.RunID, o.Name, o.Verdict.Accepted, score, reason, harvested, records, attempts, found, o.Queued, o.ProcessedAt.UTC())
	return err
}

func (j *Journal) FinishRun(ctx context.Context, s crawler.Summary) error {
	_, err := j.db.ExecContext(ctx,
		`UPDATE runs SET finished_at = ?, approved = ?, processed = ?, visited = ? WHERE id = ?`,
		s.FinishedAt.UTC(), len(s.Approved), s.Processed, s.Visited, s.RunID)
	return err
}

// RunStats summarises one run.
type RunStats struct {
	ID          string
	Seed        string
	Target      int
	StartedAt   time.Time
	Finished    bool
	Approved    int
	Processed   int
	Visited     int
	Harvested   int
	Records     int
	Communities []string
}

// Runs returns the most recent runs first.
func (j *Journal) Runs(ctx context.Context, limit int) ([]RunStats, error) {
	rows, err := j.db.QueryContext(ctx, `
		SELECT r.id, r.seed, r.target, r.started_at, r.finished_at IS NOT NULL,
		       r.approved, r.processed, r.visited,
		       COALESCE(SUM(CASE WHEN c.harvested THEN 1 ELSE 0 END), 0),
		       COALESCE(SUM(c.records), 0)
		FROM runs r LEFT JOIN candidates c ON c.run_id = r.id
		GROUP BY r.id
		ORDER BY r.started_at DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stats []RunStats
	for rows.Next() {
		var s RunStats
		if err := rows.Scan(&s.ID, &s.Seed, &s.Target, &s.StartedAt, &s.Finished,
			&s.Approved, &s.Processed, &s.Visited, &s.Harvested, &s.Records); err != nil {
			return nil, err
		}
		stats = append(stats, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range stats {
		if stats[i].Communities, err = j.approved(ctx, stats[i].ID); err != nil {
			return nil, err
		}
	}
	return stats, nil
}

func (j *Journal) approved(ctx context.Context, runID string) ([]string, error) {
	rows, err := j.db.QueryContext(ctx,
		`SELECT name FROM candidates WHERE run_id = ? AND approved ORDER BY id`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var names []string
	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			return nil, err
		}
		names = append(names, n)
	}
	return names, rows.Err()
}
