// Package history keeps a queryable SQLite record of assessment outcomes.
// Like the audit log it stores the input digest and the outcome only.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/ppiankov/churnwatch/internal/audit"
	"github.com/ppiankov/churnwatch/internal/model"
	"github.com/ppiankov/churnwatch/internal/scoring"
)

const schema = `
CREATE TABLE IF NOT EXISTS assessments (
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	assessment_id TEXT NOT NULL,
	ts            TEXT NOT NULL,
	source        TEXT NOT NULL,
	input_digest  TEXT NOT NULL DEFAULT '',
	score         INTEGER NOT NULL DEFAULT 0,
	level         TEXT NOT NULL DEFAULT '',
	error         TEXT NOT NULL DEFAULT '',
	weights_hash  TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_assessments_level ON assessments(level);
`

// Store is an assessment history backed by a single SQLite file.
type Store struct {
	db   *sql.DB
	path string
}

// LevelCount is the number of recorded assessments at one risk level.
type LevelCount struct {
	Level model.RiskLevel `json:"level"`
	Count int             `json:"count"`
}

// Open opens (or creates) the history database and applies the schema.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return nil, fmt.Errorf("history: create directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("history: open %s: %w", path, err)
	}
	// SQLite allows one writer; serialize through a single connection.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("history: apply schema: %w", err)
	}
	return &Store{db: db, path: path}, nil
}

// Path returns the database file.
func (s *Store) Path() string { return s.path }

// Record inserts one assessment outcome. Timestamp and AssessmentID are
// filled when empty.
func (s *Store) Record(ctx context.Context, e audit.Entry) error {
	if e.Timestamp == "" {
		e.Timestamp = time.Now().UTC().Format(audit.TimestampFormat)
	}
	if e.AssessmentID == "" {
		e.AssessmentID = uuid.NewString()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO assessments (assessment_id, ts, source, input_digest, score, level, error, weights_hash)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		e.AssessmentID, e.Timestamp, e.Source, e.InputDigest, e.Score, e.Level, e.Error, e.WeightsHash)
	if err != nil {
		return fmt.Errorf("history: insert: %w", err)
	}
	return nil
}

// Recent returns up to limit assessments, newest first.
// A non-positive limit returns everything.
func (s *Store) Recent(ctx context.Context, limit int) ([]audit.Entry, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT assessment_id, ts, source, input_digest, score, level, error, weights_hash
		FROM assessments ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("history: query recent: %w", err)
	}
	defer rows.Close()

	var entries []audit.Entry
	for rows.Next() {
		var e audit.Entry
		if err := rows.Scan(&e.AssessmentID, &e.Timestamp, &e.Source, &e.InputDigest,
			&e.Score, &e.Level, &e.Error, &e.WeightsHash); err != nil {
			return nil, fmt.Errorf("history: scan: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("history: iterate: %w", err)
	}
	return entries, nil
}

// CountByLevel returns per-level counts of successful assessments,
// most severe level first. Failed assessments are not counted.
func (s *Store) CountByLevel(ctx context.Context) ([]LevelCount, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT level, COUNT(*) FROM assessments
		WHERE error = '' AND level != ''
		GROUP BY level`)
	if err != nil {
		return nil, fmt.Errorf("history: count by level: %w", err)
	}
	defer rows.Close()

	var counts []LevelCount
	for rows.Next() {
		var lc LevelCount
		if err := rows.Scan(&lc.Level, &lc.Count); err != nil {
			return nil, fmt.Errorf("history: scan: %w", err)
		}
		counts = append(counts, lc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("history: iterate: %w", err)
	}

	sort.Slice(counts, func(i, j int) bool {
		return scoring.LevelRank(counts[i].Level) > scoring.LevelRank(counts[j].Level)
	})
	return counts, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}
