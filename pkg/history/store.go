package history

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite" // SQLite driver

	"sweepworks/pagesweep/pkg/retention"
)

//go:embed migrations/*.sql
var migrations embed.FS

// timeLayout is fixed width so text comparison matches time order.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// ErrRunNotFound is returned when a run id is unknown.
var ErrRunNotFound = errors.New("history: run not found")

// Run is one recorded invocation.
type Run struct {
	ID                    string    `json:"id"`
	Project               string    `json:"project"`
	StartedAt             time.Time `json:"started_at"`
	FinishedAt            time.Time `json:"finished_at"`
	Mode                  string    `json:"mode"`
	PreviewKeep           int       `json:"preview_keep"`
	ProductionKeep        int       `json:"production_keep"`
	DryRun                bool      `json:"dry_run"`
	Branches              int       `json:"branches"`
	Deployments           int       `json:"deployments"`
	DeletedPreview        int       `json:"deleted_preview"`
	DeletedProduction     int       `json:"deleted_production"`
	WouldDeletePreview    int       `json:"would_delete_preview"`
	WouldDeleteProduction int       `json:"would_delete_production"`
	Kept                  int       `json:"kept"`
	Failed                int       `json:"failed"`
	Error                 string    `json:"error,omitempty"`
}

// Duration returns how long the run took.
func (r Run) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}

// OutcomeRow is one recorded outcome of a run.
type OutcomeRow struct {
	Seq          int       `json:"seq"`
	DeploymentID string    `json:"deployment_id"`
	Environment  string    `json:"environment"`
	Branch       string    `json:"branch,omitempty"`
	Commit       string    `json:"commit,omitempty"`
	CreatedOn    time.Time `json:"created_on"`
	Action       string    `json:"action"`
	Reason       string    `json:"reason"`
	Status       string    `json:"status"`
	Error        string    `json:"error,omitempty"`
}

// Store is a SQLite-backed run history.
type Store struct {
	db     *sql.DB
	logger *slog.Logger
	now    func() time.Time
}

// Open opens (or creates) the database at path and runs all pending
// migrations. Use ":memory:" for a throwaway database.
func Open(path string) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("history: db path cannot be empty")
	}
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("history: create directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// SQLite supports a single writer; one connection also keeps an
	// in-memory database alive and shared.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys=ON",
		"PRAGMA busy_timeout=5000",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("%s: %w", pragma, err)
		}
	}

	goose.SetBaseFS(migrations)
	goose.SetLogger(migrationLogger{})
	if err := goose.SetDialect("sqlite3"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set goose dialect: %w", err)
	}
	if err := goose.Up(db, "migrations"); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Store{
		db:     db,
		logger: slog.Default().With("component", "history.store"),
		now:    time.Now,
	}, nil
}

// migrationLogger silences goose's per-migration output.
type migrationLogger struct{}

func (migrationLogger) Printf(string, ...any) {}

func (migrationLogger) Fatalf(format string, v ...any) {
	panic(fmt.Sprintf(format, v...))
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// RecordRun stores a run and its outcomes in one transaction and returns
// the stored row. runErr is the error that ended the run early, if any.
func (s *Store) RecordRun(ctx context.Context, project string, res retention.Result, runErr error) (Run, error) {
	run := Run{
		ID:                    uuid.NewString(),
		Project:               project,
		StartedAt:             res.StartedAt,
		FinishedAt:            res.FinishedAt,
		Mode:                  string(res.Policy.Mode),
		PreviewKeep:           res.Policy.PreviewKeep,
		ProductionKeep:        res.Policy.ProductionKeep,
		DryRun:                res.Policy.Simulate,
		Branches:              res.Snapshot.Branches.Len(),
		Deployments:           len(res.Snapshot.Deployments),
		DeletedPreview:        res.Report.DeletedPreview,
		DeletedProduction:     res.Report.DeletedProduction,
		WouldDeletePreview:    res.Report.WouldDeletePreview,
		WouldDeleteProduction: res.Report.WouldDeleteProduction,
		Kept:                  len(res.Report.Kept),
		Failed:                len(res.Report.Failed),
	}
	if run.StartedAt.IsZero() {
		run.StartedAt = s.now()
	}
	if run.FinishedAt.IsZero() {
		run.FinishedAt = run.StartedAt
	}
	if runErr != nil {
		run.Error = runErr.Error()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Run{}, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs (
			id, project, started_at, finished_at, mode, preview_keep, production_keep,
			dry_run, branches, deployments, deleted_preview, deleted_production,
			would_delete_preview, would_delete_production, kept, failed, error
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.Project, formatTime(run.StartedAt), formatTime(run.FinishedAt),
		run.Mode, run.PreviewKeep, run.ProductionKeep, run.DryRun,
		run.Branches, run.Deployments, run.DeletedPreview, run.DeletedProduction,
		run.WouldDeletePreview, run.WouldDeleteProduction, run.Kept, run.Failed, run.Error,
	)
	if err != nil {
		return Run{}, fmt.Errorf("insert run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO outcomes (
			run_id, seq, deployment_id, environment, branch, commit_hash,
			created_on, action, reason, status, error
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return Run{}, fmt.Errorf("prepare outcome insert: %w", err)
	}
	defer stmt.Close()

	for i, o := range res.Report.Outcomes {
		d := o.Decision.Deployment
		branch, _ := d.Branch()
		commit, _ := d.Commit()
		errText := ""
		if o.Err != nil {
			errText = o.Err.Error()
		}
		if _, err := stmt.ExecContext(ctx,
			run.ID, i, d.ID, string(d.Environment), branch, commit,
			formatTime(d.CreatedAt), string(o.Decision.Action), string(o.Decision.Reason),
			string(o.Status), errText,
		); err != nil {
			return Run{}, fmt.Errorf("insert outcome %s: %w", d.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return Run{}, fmt.Errorf("commit: %w", err)
	}

	s.logger.Debug("run recorded",
		"run_id", run.ID,
		"outcomes", len(res.Report.Outcomes),
	)
	return run, nil
}

const runColumns = `id, project, started_at, finished_at, mode, preview_keep, production_keep,
	dry_run, branches, deployments, deleted_preview, deleted_production,
	would_delete_preview, would_delete_production, kept, failed, error`

// ListRuns returns the most recent runs, newest first. limit <= 0 means all.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	query := `SELECT ` + runColumns + ` FROM runs ORDER BY started_at DESC, id`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// GetRun returns one run by id.
func (s *Store) GetRun(ctx context.Context, id string) (Run, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM runs WHERE id = ?`, id)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, ErrRunNotFound
	}
	return run, err
}

// Outcomes returns the outcomes of a run in processing order.
func (s *Store) Outcomes(ctx context.Context, runID string) ([]OutcomeRow, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT seq, deployment_id, environment, branch, commit_hash, created_on,
			action, reason, status, error
		FROM outcomes WHERE run_id = ? ORDER BY seq`, runID)
	if err != nil {
		return nil, fmt.Errorf("query outcomes: %w", err)
	}
	defer rows.Close()

	var out []OutcomeRow
	for rows.Next() {
		var (
			o       OutcomeRow
			created string
		)
		if err := rows.Scan(&o.Seq, &o.DeploymentID, &o.Environment, &o.Branch, &o.Commit,
			&created, &o.Action, &o.Reason, &o.Status, &o.Error); err != nil {
			return nil, fmt.Errorf("scan outcome: %w", err)
		}
		if o.CreatedOn, err = parseTime(created); err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(sc scanner) (Run, error) {
	var (
		r                 Run
		started, finished string
	)
	err := sc.Scan(&r.ID, &r.Project, &started, &finished, &r.Mode, &r.PreviewKeep,
		&r.ProductionKeep, &r.DryRun, &r.Branches, &r.Deployments, &r.DeletedPreview,
		&r.DeletedProduction, &r.WouldDeletePreview, &r.WouldDeleteProduction,
		&r.Kept, &r.Failed, &r.Error)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Run{}, err
		}
		return Run{}, fmt.Errorf("scan run: %w", err)
	}
	if r.StartedAt, err = parseTime(started); err != nil {
		return Run{}, err
	}
	if r.FinishedAt, err = parseTime(finished); err != nil {
		return Run{}, err
	}
	return r, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse stored time %q: %w", s, err)
	}
	return t, nil
}
