package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/transcribeflow/tflow/internal/api"
	"github.com/transcribeflow/tflow/internal/db"
)

// ErrNotFound is returned when no job has the requested filename.
var ErrNotFound = errors.New("job not found")

// Job is a locally recorded upload and its latest known state.
type Job struct {
	ID         string
	Filename   string
	SourcePath string
	SizeBytes  int64
	Status     api.Status
	Progress   int
	Message    string
	Transcript string
	Summary    string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Store records uploads so results can be viewed and downloaded later.
type Store struct {
	db *db.DB
}

// NewStore creates a Store backed by the given database.
func NewStore(database *db.DB) *Store {
	return &Store{db: database}
}

// Create records a freshly uploaded job. If j.ID is empty a UUID is generated.
func (s *Store) Create(ctx context.Context, j *Job) error {
	if j.ID == "" {
		j.ID = uuid.New().String()
	}
	if j.Status == "" {
		j.Status = api.StatusProcessing
	}
	now := time.Now().UTC().Truncate(time.Second)
	j.CreatedAt, j.UpdatedAt = now, now

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO jobs (id, filename, source_path, size_bytes, status, progress, message, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		j.ID, j.Filename, j.SourcePath, j.SizeBytes, string(j.Status), j.Progress, j.Message,
		now.Format(time.DateTime), now.Format(time.DateTime),
	)
	if err != nil {
		return fmt.Errorf("inserting job: %w", err)
	}
	return nil
}

// Get returns the job with the given server filename.
func (s *Store) Get(ctx context.Context, filename string) (*Job, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, filename, source_path, size_bytes, status, progress, message, transcript, summary, created_at, updated_at
		FROM jobs WHERE filename = ?`, filename)
	j, err := scanJob(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", filename, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("reading job: %w", err)
	}
	return j, nil
}

// List returns jobs newest first. A limit of zero returns all of them.
func (s *Store) List(ctx context.Context, limit int) ([]Job, error) {
	query := `SELECT id, filename, source_path, size_bytes, status, progress, message, transcript, summary, created_at, updated_at
		FROM jobs ORDER BY created_at DESC, rowid DESC`
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit)
	}

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying jobs: %w", err)
	}
	defer rows.Close()

	var jobs []Job
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning job: %w", err)
		}
		jobs = append(jobs, *j)
	}
	return jobs, rows.Err()
}

// UpdateProgress stores an intermediate status report.
func (s *Store) UpdateProgress(ctx context.Context, filename string, progress int, message string) error {
	return s.update(ctx, filename, `UPDATE jobs SET progress = ?, message = ?, updated_at = ? WHERE filename = ?`,
		progress, message, now(), filename)
}

// SaveResult marks the job completed with its transcript and summary.
func (s *Store) SaveResult(ctx context.Context, filename, transcript, summary string) error {
	return s.update(ctx, filename, `
		UPDATE jobs SET status = 'completed', progress = 100, message = '', transcript = ?, summary = ?, updated_at = ?
		WHERE filename = ?`,
		transcript, summary, now(), filename)
}

// MarkFailed marks the job as errored with the server's message.
func (s *Store) MarkFailed(ctx context.Context, filename, message string) error {
	return s.update(ctx, filename, `UPDATE jobs SET status = 'error', message = ?, updated_at = ? WHERE filename = ?`,
		message, now(), filename)
}

// Delete removes a single job.
func (s *Store) Delete(ctx context.Context, filename string) error {
	return s.update(ctx, filename, `DELETE FROM jobs WHERE filename = ?`, filename)
}

// Clear removes every job and returns how many were deleted.
func (s *Store) Clear(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM jobs`)
	if err != nil {
		return 0, fmt.Errorf("clearing jobs: %w", err)
	}
	return res.RowsAffected()
}

func (s *Store) update(ctx context.Context, filename, query string, args ...any) error {
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("updating job %s: %w", filename, err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return fmt.Errorf("%s: %w", filename, ErrNotFound)
	}
	return nil
}

func now() string {
	return time.Now().UTC().Format(time.DateTime)
}

// scanner is implemented by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanJob(sc scanner) (*Job, error) {
	var (
		j                Job
		status           string
		created, updated string
	)
	err := sc.Scan(&j.ID, &j.Filename, &j.SourcePath, &j.SizeBytes, &status, &j.Progress,
		&j.Message, &j.Transcript, &j.Summary, &created, &updated)
	if err != nil {
		return nil, err
	}
	j.Status = api.Status(status)
	j.CreatedAt = parseTime(created)
	j.UpdatedAt = parseTime(updated)
	return &j, nil
}

func parseTime(s string) time.Time {
	if t, err := time.Parse(time.DateTime, s); err == nil {
		return t
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t
	}
	return time.Time{}
}
