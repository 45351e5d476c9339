// Package query contains the read operations of the submission lifecycle
// engine (CQRS query side). Queries are side-effect free and observe only
// committed state.
package query

import (
	"context"

	"github.com/campus-hub/registration-hub/internal/domain/registration"
)

// GetStudentSubmissionHandler returns the submission currently associated
// with a student. When the store retains more than one record (a rejected
// attempt followed by a resubmission), the most recent by SubmittedAt wins.
type GetStudentSubmissionHandler struct {
	repo registration.Repository
}

// NewGetStudentSubmissionHandler creates a new GetStudentSubmissionHandler.
func NewGetStudentSubmissionHandler(repo registration.Repository) *GetStudentSubmissionHandler {
	return &GetStudentSubmissionHandler{repo: repo}
}

// Handle returns the student's submission, or shared.ErrSubmissionNotFound
// when the student has never submitted.
func (h *GetStudentSubmissionHandler) Handle(ctx context.Context, studentID string) (*registration.Submission, error) {
	return h.repo.GetByStudent(ctx, studentID)
}
