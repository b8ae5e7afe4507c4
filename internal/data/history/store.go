// Package history persists accumulated scan summaries in SQLite.
package history

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

const (
	driverName  = "sqlite"
	maxAttempts = 5

	// Fixed width so that ts_utc sorts lexically in time order.
	timestampLayout = "2006-01-02T15:04:05.000000000Z07:00"
)

type Store struct {
	path string
	db   *sql.DB
	mu   sync.Mutex
}

func Open(path string) (*Store, error) {
	cleanPath := strings.TrimSpace(path)
	if cleanPath == "" {
		return nil, fmt.Errorf("history path must not be empty")
	}
	if info, err := os.Stat(cleanPath); err == nil && info.IsDir() {
		return nil, fmt.Errorf("history path %q is a directory, expected file", cleanPath)
	}

	dir := filepath.Dir(cleanPath)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create history directory %q: %w", dir, err)
		}
	}

	// busy_timeout + WAL reduce lock conflicts during watch-mode churn.
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(2000)&_pragma=journal_mode(WAL)&_pragma=foreign_keys(ON)", cleanPath)
	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite history %q: %w", cleanPath, err)
	}
	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(0)
	db.SetConnMaxIdleTime(0)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite history %q: %w", cleanPath, err)
	}
	if err := EnsureSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize sqlite schema %q: %w", cleanPath, err)
	}

	return &Store{path: cleanPath, db: db}, nil
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// SaveRun stores run and its summaries in one transaction. A missing ID or
// timestamp is filled in; the stored run is returned.
func (s *Store) SaveRun(run Run) (Run, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	run.Project = strings.TrimSpace(run.Project)
	if run.Project == "" {
		run.Project = "default"
	}
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.Timestamp.IsZero() {
		run.Timestamp = time.Now().UTC()
	}

	payloads := make([]string, len(run.Summaries))
	for i, summary := range run.Summaries {
		categories := summary.Categories
		if categories == nil {
			categories = map[string]int{}
		}
		data, err := json.Marshal(categories)
		if err != nil {
			return Run{}, fmt.Errorf("encode categories for %s: %w", summary.Metric, err)
		}
		payloads[i] = string(data)
	}

	err := s.withRetry("save run", func() error {
		tx, err := s.db.Begin()
		if err != nil {
			return err
		}
		if _, err := tx.Exec(
			`INSERT INTO runs (id, project_key, schema_version, ts_utc, file_count, function_count) VALUES (?, ?, ?, ?, ?, ?)`,
			run.ID, run.Project, SchemaVersion, run.Timestamp.UTC().Format(timestampLayout), run.Files, run.Functions,
		); err != nil {
			_ = tx.Rollback()
			return err
		}
		for i, summary := range run.Summaries {
			if _, err := tx.Exec(
				`INSERT INTO run_summaries (run_id, position, metric, strategy, observations, average, sum, sum_is_int, categories_json)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
				run.ID, i, summary.Metric, summary.Strategy, summary.Count, summary.Average, summary.Sum, summary.SumIsInt, payloads[i],
			); err != nil {
				_ = tx.Rollback()
				return err
			}
		}
		return tx.Commit()
	})
	if err != nil {
		return Run{}, err
	}
	return run, nil
}

// LoadRuns returns the runs of project since the given time, oldest first,
// with their summaries.
func (s *Store) LoadRuns(project string, since time.Time) ([]Run, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	project = strings.TrimSpace(project)
	if project == "" {
		project = "default"
	}

	query := `SELECT id, project_key, ts_utc, file_count, function_count FROM runs WHERE project_key = ?`
	args := []any{project}
	if !since.IsZero() {
		query += " AND ts_utc >= ?"
		args = append(args, since.UTC().Format(timestampLayout))
	}
	query += " ORDER BY ts_utc ASC, id ASC"

	var runs []Run
	err := s.withRetry("load runs", func() error {
		rows, err := s.db.Query(query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()

		runs = runs[:0]
		for rows.Next() {
			var (
				run   Run
				tsRaw string
			)
			if err := rows.Scan(&run.ID, &run.Project, &tsRaw, &run.Files, &run.Functions); err != nil {
				return fmt.Errorf("scan run row: %w", err)
			}
			ts, err := time.Parse(time.RFC3339Nano, tsRaw)
			if err != nil {
				return fmt.Errorf("parse run timestamp %q: %w", tsRaw, err)
			}
			run.Timestamp = ts.UTC()
			runs = append(runs, run)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}

	for i := range runs {
		summaries, err := s.loadSummaries(runs[i].ID)
		if err != nil {
			return nil, err
		}
		runs[i].Summaries = summaries
	}
	return runs, nil
}

// Latest returns the most recent run of project, or false when none exists.
func (s *Store) Latest(project string) (Run, bool, error) {
	runs, err := s.LoadRuns(project, time.Time{})
	if err != nil || len(runs) == 0 {
		return Run{}, false, err
	}
	return runs[len(runs)-1], true, nil
}

func (s *Store) loadSummaries(runID string) ([]MetricSummary, error) {
	var summaries []MetricSummary
	err := s.withRetry("load summaries", func() error {
		rows, err := s.db.Query(`
SELECT metric, strategy, observations, average, sum, sum_is_int, categories_json
FROM run_summaries WHERE run_id = ? ORDER BY position ASC`, runID)
		if err != nil {
			return err
		}
		defer rows.Close()

		summaries = summaries[:0]
		for rows.Next() {
			var (
				summary MetricSummary
				payload string
			)
			if err := rows.Scan(&summary.Metric, &summary.Strategy, &summary.Count, &summary.Average,
				&summary.Sum, &summary.SumIsInt, &payload); err != nil {
				return fmt.Errorf("scan summary row: %w", err)
			}
			if err := json.Unmarshal([]byte(payload), &summary.Categories); err != nil {
				return fmt.Errorf("decode categories for %s: %w", summary.Metric, err)
			}
			summaries = append(summaries, summary)
		}
		return rows.Err()
	})
	return summaries, err
}

func (s *Store) withRetry(op string, fn func() error) error {
	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		err := fn()
		if err == nil {
			return nil
		}
		lastErr = err
		if !isLockError(err) || attempt == maxAttempts {
			break
		}
		time.Sleep(time.Duration(attempt*25) * time.Millisecond)
	}
	return fmt.Errorf("%s: %w", op, lastErr)
}

func isLockError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "database is locked") || strings.Contains(msg, "busy")
}

func (s *Store) Path() string {
	if s == nil {
		return ""
	}
	return s.path
}

func IsCorruptError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "malformed") || strings.Contains(msg, "not a database") || errors.Is(err, os.ErrInvalid)
}
