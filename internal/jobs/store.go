package jobs

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"

	_ "modernc.org/sqlite"

	"beholder/internal/config"
)

// ErrNotFound is returned when no record exists for a job id.
var ErrNotFound = errors.New("jobs: record not found")

// Store is the job-record collaborator surface.
type Store interface {
	Get(ctx context.Context, jobID string) (*Record, error)
	SetStatus(ctx context.Context, jobID string, status Status) error
	Upsert(ctx context.Context, rec *Record) error
	Close() error
}

type sqliteStore struct {
	db   *sql.DB
	path string
}

const schema = `
CREATE TABLE IF NOT EXISTS jobs (
    id           TEXT PRIMARY KEY,
    status       TEXT NOT NULL,
    creator_kind TEXT NOT NULL DEFAULT 'other',
    creator_ref  TEXT NOT NULL DEFAULT ''
)`

// Open initializes or connects to the job-record database.
func Open(cfg *config.Config) (Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}
	return OpenPath(filepath.Join(cfg.StateDir, "jobs.db"))
}

// OpenPath opens the job-record database at an explicit path.
func OpenPath(dbPath string) (Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return &sqliteStore{db: db, path: dbPath}, nil
}

func (s *sqliteStore) Get(ctx context.Context, jobID string) (*Record, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, status, creator_kind, creator_ref FROM jobs WHERE id = ?`, jobID)

	var rec Record
	var status, kind string
	if err := row.Scan(&rec.ID, &status, &kind, &rec.CreatorRef); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("select job %s: %w", jobID, err)
	}
	rec.Status = Status(status)
	rec.CreatorKind = CreatorKind(kind)
	return &rec, nil
}

func (s *sqliteStore) SetStatus(ctx context.Context, jobID string, status Status) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE jobs SET status = ? WHERE id = ?`, string(status), jobID)
	if err != nil {
		return fmt.Errorf("update job %s status: %w", jobID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		// Status events can arrive before the pipeline registered the job.
		_, err = s.db.ExecContext(ctx,
			`INSERT INTO jobs (id, status, creator_kind, creator_ref) VALUES (?, ?, 'other', '')`,
			jobID, string(status))
		if err != nil {
			return fmt.Errorf("insert job %s: %w", jobID, err)
		}
	}
	return nil
}

func (s *sqliteStore) Upsert(ctx context.Context, rec *Record) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO jobs (id, status, creator_kind, creator_ref) VALUES (?, ?, ?, ?)
         ON CONFLICT(id) DO UPDATE SET status = excluded.status,
             creator_kind = excluded.creator_kind, creator_ref = excluded.creator_ref`,
		rec.ID, string(rec.Status), string(rec.CreatorKind), rec.CreatorRef)
	if err != nil {
		return fmt.Errorf("upsert job %s: %w", rec.ID, err)
	}
	return nil
}

func (s *sqliteStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}
