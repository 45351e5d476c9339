package registration

import (
	"context"
)

// Repository defines the submission store contract. The workflow engine is
// the sole writer; implementations live in infrastructure/persistence.
//
// All mutating methods are atomic per submission id. Update uses optimistic
// versioning: a caller that read Version N may only commit against Version N,
// so two racing transitions can never both apply.
type Repository interface {
	// Create persists a new submission. Returns shared.ErrDuplicateSubmission
	// when a non-rejected submission already exists for the same student and
	// term; the duplicate guard is atomic with the insert.
	Create(ctx context.Context, submission *Submission) error

	// GetByID returns the submission with the given id.
	// Returns shared.ErrSubmissionNotFound if absent.
	GetByID(ctx context.Context, id string) (*Submission, error)

	// GetByStudent returns the submission currently associated with the
	// student: the most recent by SubmittedAt when the store holds more than
	// one. Returns shared.ErrSubmissionNotFound if the student has none.
	GetByStudent(ctx context.Context, studentID string) (*Submission, error)

	// Update commits a transition read at expectedVersion. Returns
	// shared.ErrVersionConflict when the stored version has moved on, and
	// shared.ErrSubmissionNotFound for an unknown id. On success the stored
	// submission carries Version expectedVersion+1.
	Update(ctx context.Context, submission *Submission, expectedVersion int64) error

	// ListByStatus returns all submissions whose status is one of the given
	// statuses, ordered by SubmittedAt ascending.
	ListByStatus(ctx context.Context, statuses ...Status) ([]*Submission, error)
}
