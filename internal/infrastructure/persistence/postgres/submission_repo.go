package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/campus-hub/registration-hub/internal/domain/catalog"
	"github.com/campus-hub/registration-hub/internal/domain/registration"
	"github.com/campus-hub/registration-hub/internal/domain/shared"
)

// SubmissionRepository implements registration.Repository on PostgreSQL.
// The duplicate-active guard is the partial unique index on
// (student_id, semester, academic_year) WHERE status <> 'Rejected'; the
// version column carries the optimistic concurrency check.
type SubmissionRepository struct {
	conn *Connection
}

// NewSubmissionRepository creates a repository over conn.
func NewSubmissionRepository(conn *Connection) *SubmissionRepository {
	return &SubmissionRepository{conn: conn}
}

const submissionColumns = `id, student_id, student_name, faculty, semester,
	academic_year, modules, status, submitted_at, approval_history, version`

// Create implements registration.Repository.
func (r *SubmissionRepository) Create(ctx context.Context, sub *registration.Submission) error {
	modules, history, err := marshalAggregates(sub)
	if err != nil {
		return err
	}

	_, err = r.conn.Exec(ctx, `
		INSERT INTO submissions (`+submissionColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		sub.ID, sub.StudentID, sub.StudentName, string(sub.Faculty),
		sub.Semester, sub.AcademicYear, modules, string(sub.Status),
		sub.SubmittedAt, history, sub.Version,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			if pgErr.ConstraintName == "submissions_pkey" {
				return shared.WrapError("registration", "Create", shared.ErrAlreadyExists,
					"submission id already exists", err)
			}
			return shared.ErrDuplicateSubmission
		}
		return fmt.Errorf("insert submission: %w", err)
	}
	return nil
}

// GetByID implements registration.Repository.
func (r *SubmissionRepository) GetByID(ctx context.Context, id string) (*registration.Submission, error) {
	row := r.conn.QueryRow(ctx, `
		SELECT `+submissionColumns+`
		FROM submissions
		WHERE id = $1`, id)
	return scanSubmission(row)
}

// GetByStudent implements registration.Repository. The most recent submission
// by submitted_at wins, with id as the deterministic tie-break.
func (r *SubmissionRepository) GetByStudent(ctx context.Context, studentID string) (*registration.Submission, error) {
	row := r.conn.QueryRow(ctx, `
		SELECT `+submissionColumns+`
		FROM submissions
		WHERE student_id = $1
		ORDER BY submitted_at DESC, id DESC
		LIMIT 1`, studentID)
	return scanSubmission(row)
}

// Update implements registration.Repository. The WHERE clause on version makes
// the compare-and-swap atomic; a raced update affects zero rows.
func (r *SubmissionRepository) Update(ctx context.Context, sub *registration.Submission, expectedVersion int64) error {
	modules, history, err := marshalAggregates(sub)
	if err != nil {
		return err
	}

	tag, err := r.conn.Exec(ctx, `
		UPDATE submissions
		SET status = $1,
		    modules = $2,
		    approval_history = $3,
		    version = $4,
		    updated_at = NOW()
		WHERE id = $5 AND version = $6`,
		string(sub.Status), modules, history, expectedVersion+1,
		sub.ID, expectedVersion,
	)
	if err != nil {
		return fmt.Errorf("update submission: %w", err)
	}

	if tag.RowsAffected() == 0 {
		var exists bool
		if err := r.conn.QueryRow(ctx,
			`SELECT EXISTS (SELECT 1 FROM submissions WHERE id = $1)`, sub.ID,
		).Scan(&exists); err != nil {
			return fmt.Errorf("check submission existence: %w", err)
		}
		if !exists {
			return shared.ErrSubmissionNotFound
		}
		return shared.ErrVersionConflict
	}

	sub.Version = expectedVersion + 1
	return nil
}

// ListByStatus implements registration.Repository.
func (r *SubmissionRepository) ListByStatus(ctx context.Context, statuses ...registration.Status) ([]*registration.Submission, error) {
	wanted := make([]string, len(statuses))
	for i, s := range statuses {
		wanted[i] = string(s)
	}

	rows, err := r.conn.Query(ctx, `
		SELECT `+submissionColumns+`
		FROM submissions
		WHERE status = ANY($1)
		ORDER BY submitted_at ASC, id ASC`, wanted)
	if err != nil {
		return nil, fmt.Errorf("list submissions: %w", err)
	}
	defer rows.Close()

	var out []*registration.Submission
	for rows.Next() {
		sub, err := scanSubmission(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, sub)
	}
	return out, rows.Err()
}

func marshalAggregates(sub *registration.Submission) (modules, history []byte, err error) {
	modules, err = json.Marshal(sub.Modules)
	if err != nil {
		return nil, nil, fmt.Errorf("marshal modules: %w", err)
	}
	history, err = json.Marshal(sub.History())
	if err != nil {
		return nil, nil, fmt.Errorf("marshal approval history: %w", err)
	}
	return modules, history, nil
}

func scanSubmission(row pgx.Row) (*registration.Submission, error) {
	var (
		sub         registration.Submission
		faculty     string
		status      string
		submittedAt time.Time
		modules     []byte
		history     []byte
	)

	err := row.Scan(&sub.ID, &sub.StudentID, &sub.StudentName, &faculty,
		&sub.Semester, &sub.AcademicYear, &modules, &status, &submittedAt,
		&history, &sub.Version)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrSubmissionNotFound
		}
		return nil, fmt.Errorf("scan submission: %w", err)
	}

	sub.Faculty = catalog.Faculty(faculty)
	sub.Status = registration.Status(status)
	sub.SubmittedAt = submittedAt

	if err := json.Unmarshal(modules, &sub.Modules); err != nil {
		return nil, fmt.Errorf("unmarshal modules: %w", err)
	}
	if err := json.Unmarshal(history, &sub.ApprovalHistory); err != nil {
		return nil, fmt.Errorf("unmarshal approval history: %w", err)
	}

	return &sub, nil
}
