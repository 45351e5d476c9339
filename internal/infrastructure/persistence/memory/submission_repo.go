// Package memory implements the submission store in process memory. Suitable
// for single-instance deployments and tests; the postgres repository replaces
// it in production.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/campus-hub/registration-hub/internal/domain/registration"
	"github.com/campus-hub/registration-hub/internal/domain/shared"
)

// SubmissionRepository implements registration.Repository backed by a map.
// A single mutex serializes transitions, which gives the per-submission
// atomicity the workflow requires; the version check on Update preserves the
// same contract the postgres implementation enforces, so command handlers
// behave identically against either store.
type SubmissionRepository struct {
	mu   sync.RWMutex
	byID map[string]*registration.Submission
}

// NewSubmissionRepository creates an empty in-memory submission store.
func NewSubmissionRepository() *SubmissionRepository {
	return &SubmissionRepository{
		byID: make(map[string]*registration.Submission),
	}
}

// Create implements registration.Repository. The duplicate-active guard is
// atomic with the insert.
func (r *SubmissionRepository) Create(_ context.Context, sub *registration.Submission) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[sub.ID]; exists {
		return shared.WrapError("registration", "Create", shared.ErrAlreadyExists,
			"submission id already exists", nil)
	}
	for _, existing := range r.byID {
		if existing.StudentID != sub.StudentID {
			continue
		}
		if existing.Semester != sub.Semester || existing.AcademicYear != sub.AcademicYear {
			continue
		}
		// A rejected attempt does not block resubmission for the same term.
		if existing.Status != registration.StatusRejected {
			return shared.ErrDuplicateSubmission
		}
	}

	r.byID[sub.ID] = sub.Clone()
	return nil
}

// GetByID implements registration.Repository.
func (r *SubmissionRepository) GetByID(_ context.Context, id string) (*registration.Submission, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	sub, ok := r.byID[id]
	if !ok {
		return nil, shared.ErrSubmissionNotFound
	}
	return sub.Clone(), nil
}

// GetByStudent implements registration.Repository. The most recent submission
// by SubmittedAt wins; ties break on id so the lookup stays deterministic.
func (r *SubmissionRepository) GetByStudent(_ context.Context, studentID string) (*registration.Submission, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var best *registration.Submission
	for _, sub := range r.byID {
		if sub.StudentID != studentID {
			continue
		}
		if best == nil ||
			sub.SubmittedAt.After(best.SubmittedAt) ||
			(sub.SubmittedAt.Equal(best.SubmittedAt) && sub.ID > best.ID) {
			best = sub
		}
	}
	if best == nil {
		return nil, shared.ErrSubmissionNotFound
	}
	return best.Clone(), nil
}

// Update implements registration.Repository. On success the passed
// submission's Version is advanced to the committed value.
func (r *SubmissionRepository) Update(_ context.Context, sub *registration.Submission, expectedVersion int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.byID[sub.ID]
	if !ok {
		return shared.ErrSubmissionNotFound
	}
	if existing.Version != expectedVersion {
		return shared.ErrVersionConflict
	}

	committed := sub.Clone()
	committed.Version = expectedVersion + 1
	r.byID[sub.ID] = committed
	sub.Version = committed.Version
	return nil
}

// ListByStatus implements registration.Repository.
func (r *SubmissionRepository) ListByStatus(_ context.Context, statuses ...registration.Status) ([]*registration.Submission, error) {
	wanted := make(map[registration.Status]struct{}, len(statuses))
	for _, s := range statuses {
		wanted[s] = struct{}{}
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*registration.Submission
	for _, sub := range r.byID {
		if _, ok := wanted[sub.Status]; ok {
			out = append(out, sub.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].SubmittedAt.Equal(out[j].SubmittedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].SubmittedAt.Before(out[j].SubmittedAt)
	})
	return out, nil
}
