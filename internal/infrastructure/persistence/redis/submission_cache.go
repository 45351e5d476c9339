package redis

import (
	"context"
	"errors"
	"log/slog"

	"github.com/campus-hub/registration-hub/internal/domain/registration"
)

// CachedSubmissionRepository decorates a registration.Repository with Redis
// caching of single-submission reads. Queue listings always hit the store;
// queues change with every transition, so caching them buys little.
//
// Writes invalidate the affected keys after the store commits. A racing
// reader can repopulate the cache with the pre-write state for at most
// TTLSubmission, which is acceptable for reads; the version check on Update
// runs against the store, so stale cache never breaks the concurrency
// contract.
type CachedSubmissionRepository struct {
	inner  registration.Repository
	cache  *Cache
	logger *slog.Logger
}

// NewCachedSubmissionRepository wraps inner with the cache.
func NewCachedSubmissionRepository(inner registration.Repository, cache *Cache, logger *slog.Logger) *CachedSubmissionRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &CachedSubmissionRepository{
		inner:  inner,
		cache:  cache,
		logger: logger.With("component", "submission_cache"),
	}
}

func submissionKey(id string) string {
	return PrefixSubmission + id
}

func studentKey(studentID string) string {
	return PrefixStudentSubmission + studentID
}

// Create implements registration.Repository.
func (r *CachedSubmissionRepository) Create(ctx context.Context, sub *registration.Submission) error {
	if err := r.inner.Create(ctx, sub); err != nil {
		return err
	}
	// The student's "latest submission" pointer changed.
	r.invalidate(ctx, studentKey(sub.StudentID))
	return nil
}

// GetByID implements registration.Repository.
func (r *CachedSubmissionRepository) GetByID(ctx context.Context, id string) (*registration.Submission, error) {
	var cached registration.Submission
	err := r.cache.Get(ctx, submissionKey(id), &cached)
	if err == nil {
		return &cached, nil
	}
	if !errors.Is(err, ErrCacheMiss) {
		r.logger.Warn("cache read failed", "key", submissionKey(id), "error", err)
	}

	sub, err := r.inner.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := r.cache.Set(ctx, submissionKey(id), sub, TTLSubmission); err != nil {
		r.logger.Warn("cache write failed", "key", submissionKey(id), "error", err)
	}
	return sub, nil
}

// GetByStudent implements registration.Repository.
func (r *CachedSubmissionRepository) GetByStudent(ctx context.Context, studentID string) (*registration.Submission, error) {
	var cached registration.Submission
	err := r.cache.Get(ctx, studentKey(studentID), &cached)
	if err == nil {
		return &cached, nil
	}
	if !errors.Is(err, ErrCacheMiss) {
		r.logger.Warn("cache read failed", "key", studentKey(studentID), "error", err)
	}

	sub, err := r.inner.GetByStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}

	if err := r.cache.Set(ctx, studentKey(studentID), sub, TTLSubmission); err != nil {
		r.logger.Warn("cache write failed", "key", studentKey(studentID), "error", err)
	}
	return sub, nil
}

// Update implements registration.Repository.
func (r *CachedSubmissionRepository) Update(ctx context.Context, sub *registration.Submission, expectedVersion int64) error {
	if err := r.inner.Update(ctx, sub, expectedVersion); err != nil {
		return err
	}
	r.invalidate(ctx, submissionKey(sub.ID), studentKey(sub.StudentID))
	return nil
}

// ListByStatus implements registration.Repository, passing straight through.
func (r *CachedSubmissionRepository) ListByStatus(ctx context.Context, statuses ...registration.Status) ([]*registration.Submission, error) {
	return r.inner.ListByStatus(ctx, statuses...)
}

func (r *CachedSubmissionRepository) invalidate(ctx context.Context, keys ...string) {
	if err := r.cache.Delete(ctx, keys...); err != nil {
		r.logger.Warn("cache invalidation failed", "keys", keys, "error", err)
	}
}
