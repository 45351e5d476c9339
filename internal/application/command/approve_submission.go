package command

import (
	"context"
	"log/slog"

	"github.com/campus-hub/registration-hub/internal/domain/registration"
	"github.com/campus-hub/registration-hub/internal/domain/shared"
)

// ApproveSubmissionCommand advances a submission one stage along the approval
// pipeline on behalf of the acting approver.
type ApproveSubmissionCommand struct {
	SubmissionID string
	ActingRole   registration.Role
	ActingUser   string
	Comments     string
}

// Validate checks the command carries the acting identity.
func (c ApproveSubmissionCommand) Validate() error {
	if c.SubmissionID == "" || c.ActingUser == "" || c.ActingRole == "" {
		return shared.ErrMissingField
	}
	return nil
}

// ApproveSubmissionHandler applies a role-gated advance transition. The
// read-validate-write cycle runs under optimistic versioning: when a
// concurrent transition wins the race, the re-read observes the new status
// and the caller gets a terminal or authorization error instead of a silent
// double apply.
type ApproveSubmissionHandler struct {
	repo   registration.Repository
	bus    shared.EventBus
	clock  Clock
	logger *slog.Logger
}

// NewApproveSubmissionHandler creates a new ApproveSubmissionHandler.
func NewApproveSubmissionHandler(repo registration.Repository, bus shared.EventBus, clock Clock, logger *slog.Logger) *ApproveSubmissionHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ApproveSubmissionHandler{
		repo:   repo,
		bus:    bus,
		clock:  clock,
		logger: logger,
	}
}

// Handle executes the command and returns the updated submission.
func (h *ApproveSubmissionHandler) Handle(ctx context.Context, cmd ApproveSubmissionCommand) (*registration.Submission, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	var lastErr error
	for attempt := 0; attempt < transitionRetries; attempt++ {
		sub, err := h.repo.GetByID(ctx, cmd.SubmissionID)
		if err != nil {
			return nil, err
		}

		from := sub.Status
		if err := sub.Approve(cmd.ActingRole, cmd.ActingUser, cmd.Comments, h.clock.Now()); err != nil {
			return nil, err
		}

		if err := h.repo.Update(ctx, sub, sub.Version); err != nil {
			if shared.IsConflict(err) {
				// Lost the race; re-read and re-validate against the new state.
				lastErr = err
				continue
			}
			return nil, err
		}

		h.logger.Info("submission advanced",
			"submission_id", sub.ID,
			"from_status", from,
			"to_status", sub.Status,
			"acting_role", cmd.ActingRole,
		)

		h.publish(registration.NewSubmissionAdvancedEvent(sub, from, cmd.ActingRole, cmd.ActingUser))

		return sub, nil
	}

	return nil, lastErr
}

func (h *ApproveSubmissionHandler) publish(event shared.Event) {
	if h.bus == nil {
		return
	}
	if err := h.bus.Publish(event); err != nil {
		h.logger.Error("failed to publish event", "event_type", event.EventType(), "error", err)
	}
}
