package query

import (
	"context"

	"github.com/campus-hub/registration-hub/internal/domain/registration"
	"github.com/campus-hub/registration-hub/internal/domain/shared"
)

// ListPendingForRoleHandler drives the staff dashboard queue: all submissions
// currently waiting on the given role. Terminal submissions never appear
// because each role gates exactly one pending stage.
type ListPendingForRoleHandler struct {
	repo registration.Repository
}

// NewListPendingForRoleHandler creates a new ListPendingForRoleHandler.
func NewListPendingForRoleHandler(repo registration.Repository) *ListPendingForRoleHandler {
	return &ListPendingForRoleHandler{repo: repo}
}

// Handle returns the role's queue ordered by submission time. Roles outside
// the approval pipeline get shared.ErrUnknownRole.
func (h *ListPendingForRoleHandler) Handle(ctx context.Context, role registration.Role) ([]*registration.Submission, error) {
	status, ok := registration.StatusForRole(role)
	if !ok {
		return nil, shared.ErrUnknownRole
	}
	return h.repo.ListByStatus(ctx, status)
}
