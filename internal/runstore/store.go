// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package runstore keeps the history of pipeline runs and the cost ledger of
// their completion calls in SQLite.
package runstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/section-writer/internal/costs"
)

// timeLayout stores timestamps at fixed width so that text order is time
// order.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// ErrNotFound is returned by GetRun for an unknown run ID.
var ErrNotFound = errors.New("run not found")

// RunRecord summarizes one completed pipeline run.
type RunRecord struct {
	ID            string       `json:"id" yaml:"id"`
	CreatedAt     time.Time    `json:"created_at" yaml:"created_at"`
	Section       string       `json:"section" yaml:"section"`
	WordLimit     int          `json:"word_limit" yaml:"word_limit"`
	Model         string       `json:"model" yaml:"model"`
	Candidates    int          `json:"candidates" yaml:"candidates"`
	SelectedIndex int          `json:"selected_index" yaml:"selected_index"`
	SelectedScore float64      `json:"selected_score" yaml:"selected_score"`
	WordCount     int          `json:"word_count" yaml:"word_count"`
	CitationCount int          `json:"citation_count" yaml:"citation_count"`
	IsValid       bool         `json:"is_valid" yaml:"is_valid"`
	Issues        []string     `json:"issues" yaml:"issues"`
	Warnings      []string     `json:"warnings" yaml:"warnings"`
	ArtifactPath  string       `json:"artifact_path,omitempty" yaml:"artifact_path,omitempty"`
	TotalCost     float64      `json:"total_cost" yaml:"total_cost"`
	Calls         []costs.Call `json:"calls,omitempty" yaml:"calls,omitempty"`
}

// OperationCost aggregates the ledger for one operation.
type OperationCost struct {
	Operation    string  `json:"operation" yaml:"operation"`
	Calls        int     `json:"calls" yaml:"calls"`
	InputTokens  int     `json:"input_tokens" yaml:"input_tokens"`
	OutputTokens int     `json:"output_tokens" yaml:"output_tokens"`
	Cost         float64 `json:"cost" yaml:"cost"`
}

// Store manages the run-history SQLite database.
type Store struct {
	db *sql.DB
}

// Open opens or creates the database at path, creating its directory and
// schema when missing.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			created_at TEXT NOT NULL,
			section TEXT,
			word_limit INTEGER,
			model TEXT,
			candidates INTEGER,
			selected_index INTEGER,
			selected_score REAL,
			word_count INTEGER,
			citation_count INTEGER,
			is_valid INTEGER,
			issues TEXT,
			warnings TEXT,
			artifact_path TEXT,
			total_cost REAL
		)`,
		`CREATE TABLE IF NOT EXISTS calls (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
			timestamp TEXT,
			operation TEXT NOT NULL,
			model TEXT,
			input_tokens INTEGER,
			output_tokens INTEGER,
			cost REAL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_created_at ON runs(created_at)`,
		`CREATE INDEX IF NOT EXISTS idx_calls_run_id ON calls(run_id)`,
		`CREATE INDEX IF NOT EXISTS idx_calls_operation ON calls(operation)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// SaveRun records run and its calls in one transaction. Saving the same ID
// again replaces the run and its ledger.
func (s *Store) SaveRun(ctx context.Context, run RunRecord) error {
	if run.ID == "" {
		return errors.New("run ID is required")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	issuesJSON, _ := json.Marshal(nonNil(run.Issues))
	warningsJSON, _ := json.Marshal(nonNil(run.Warnings))
	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (id, created_at, section, word_limit, model, candidates, selected_index,
			selected_score, word_count, citation_count, is_valid, issues, warnings, artifact_path, total_cost)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			created_at=excluded.created_at, section=excluded.section, word_limit=excluded.word_limit,
			model=excluded.model, candidates=excluded.candidates, selected_index=excluded.selected_index,
			selected_score=excluded.selected_score, word_count=excluded.word_count,
			citation_count=excluded.citation_count, is_valid=excluded.is_valid, issues=excluded.issues,
			warnings=excluded.warnings, artifact_path=excluded.artifact_path, total_cost=excluded.total_cost`,
		run.ID, run.CreatedAt.UTC().Format(timeLayout), run.Section, run.WordLimit, run.Model,
		run.Candidates, run.SelectedIndex, run.SelectedScore, run.WordCount, run.CitationCount,
		run.IsValid, string(issuesJSON), string(warningsJSON), run.ArtifactPath, run.TotalCost,
	)
	if err != nil {
		return fmt.Errorf("upserting run: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM calls WHERE run_id = ?`, run.ID); err != nil {
		return fmt.Errorf("deleting old calls: %w", err)
	}
	if err := insertCalls(ctx, tx, run.ID, run.Calls); err != nil {
		return err
	}

	return tx.Commit()
}

func insertCalls(ctx context.Context, tx *sql.Tx, runID string, calls []costs.Call) error {
	if len(calls) == 0 {
		return nil
	}
	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO calls (run_id, timestamp, operation, model, input_tokens, output_tokens, cost)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, c := range calls {
		_, err := stmt.ExecContext(ctx,
			runID, c.Timestamp.UTC().Format(timeLayout), c.Operation, c.Model,
			c.InputTokens, c.OutputTokens, c.Cost,
		)
		if err != nil {
			return fmt.Errorf("inserting %s call for run %s: %w", c.Operation, runID, err)
		}
	}
	return nil
}

const runColumns = `id, created_at, section, word_limit, model, candidates, selected_index,
	selected_score, word_count, citation_count, is_valid, issues, warnings, artifact_path, total_cost`

// ListRuns returns up to limit runs, newest first. A non-positive limit
// returns every run. Calls are not loaded.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]RunRecord, error) {
	query := `SELECT ` + runColumns + ` FROM runs ORDER BY created_at DESC, id`
	var args []any
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []RunRecord
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// GetRun returns the run with the given ID and its calls in recording order.
func (s *Store) GetRun(ctx context.Context, id string) (RunRecord, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM runs WHERE id = ?`, id)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return RunRecord{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return RunRecord{}, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT timestamp, operation, model, input_tokens, output_tokens, cost
		 FROM calls WHERE run_id = ? ORDER BY rowid`, id)
	if err != nil {
		return RunRecord{}, fmt.Errorf("querying calls: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			c  costs.Call
			ts string
		)
		if err := rows.Scan(&ts, &c.Operation, &c.Model, &c.InputTokens, &c.OutputTokens, &c.Cost); err != nil {
			return RunRecord{}, fmt.Errorf("scanning call: %w", err)
		}
		if c.Timestamp, err = time.Parse(timeLayout, ts); err != nil {
			return RunRecord{}, fmt.Errorf("parsing call timestamp for run %s: %w", id, err)
		}
		run.Calls = append(run.Calls, c)
	}
	return run, rows.Err()
}

// CostByOperation aggregates the whole ledger per operation, ordered by
// operation name.
func (s *Store) CostByOperation(ctx context.Context) ([]OperationCost, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT operation, count(*), coalesce(sum(input_tokens), 0), coalesce(sum(output_tokens), 0), coalesce(sum(cost), 0)
		 FROM calls GROUP BY operation ORDER BY operation`)
	if err != nil {
		return nil, fmt.Errorf("querying costs: %w", err)
	}
	defer rows.Close()

	var out []OperationCost
	for rows.Next() {
		var oc OperationCost
		if err := rows.Scan(&oc.Operation, &oc.Calls, &oc.InputTokens, &oc.OutputTokens, &oc.Cost); err != nil {
			return nil, fmt.Errorf("scanning cost row: %w", err)
		}
		out = append(out, oc)
	}
	return out, rows.Err()
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanRun(sc scanner) (RunRecord, error) {
	var (
		run                     RunRecord
		createdAt               string
		issuesJSON, warningJSON string
		artifact                sql.NullString
	)
	err := sc.Scan(&run.ID, &createdAt, &run.Section, &run.WordLimit, &run.Model, &run.Candidates,
		&run.SelectedIndex, &run.SelectedScore, &run.WordCount, &run.CitationCount, &run.IsValid,
		&issuesJSON, &warningJSON, &artifact, &run.TotalCost)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return RunRecord{}, err
		}
		return RunRecord{}, fmt.Errorf("scanning run: %w", err)
	}
	if run.CreatedAt, err = time.Parse(timeLayout, createdAt); err != nil {
		return RunRecord{}, fmt.Errorf("parsing created_at of run %s: %w", run.ID, err)
	}
	run.ArtifactPath = artifact.String
	if err := json.Unmarshal([]byte(issuesJSON), &run.Issues); err != nil {
		return RunRecord{}, fmt.Errorf("decoding issues of run %s: %w", run.ID, err)
	}
	if err := json.Unmarshal([]byte(warningJSON), &run.Warnings); err != nil {
		return RunRecord{}, fmt.Errorf("decoding warnings of run %s: %w", run.ID, err)
	}
	return run, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
