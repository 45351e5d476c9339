package query

import (
	"context"

	"github.com/campus-hub/registration-hub/internal/domain/registration"
)

// GetSubmissionHandler loads one submission by its identifier.
type GetSubmissionHandler struct {
	repo registration.Repository
}

// NewGetSubmissionHandler creates the handler.
func NewGetSubmissionHandler(repo registration.Repository) *GetSubmissionHandler {
	return &GetSubmissionHandler{repo: repo}
}

// Handle returns the submission, or shared.ErrSubmissionNotFound.
func (h *GetSubmissionHandler) Handle(ctx context.Context, submissionID string) (*registration.Submission, error) {
	return h.repo.GetByID(ctx, submissionID)
}
