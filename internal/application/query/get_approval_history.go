package query

import (
	"context"

	"github.com/campus-hub/registration-hub/internal/domain/registration"
)

// GetApprovalHistoryHandler returns a submission's approval ledger verbatim,
// in the order the entries were appended.
type GetApprovalHistoryHandler struct {
	repo registration.Repository
}

// NewGetApprovalHistoryHandler creates a new GetApprovalHistoryHandler.
func NewGetApprovalHistoryHandler(repo registration.Repository) *GetApprovalHistoryHandler {
	return &GetApprovalHistoryHandler{repo: repo}
}

// Handle returns a copy of the ledger; callers can never mutate the stored
// history through the result.
func (h *GetApprovalHistoryHandler) Handle(ctx context.Context, submissionID string) ([]registration.ApprovalEntry, error) {
	sub, err := h.repo.GetByID(ctx, submissionID)
	if err != nil {
		return nil, err
	}
	return sub.History(), nil
}
