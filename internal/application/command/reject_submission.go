package command

import (
	"context"
	"log/slog"

	"github.com/campus-hub/registration-hub/internal/domain/registration"
	"github.com/campus-hub/registration-hub/internal/domain/shared"
)

// RejectSubmissionCommand rejects a submission at its current stage.
// Rejection is final: the submission never re-enters the pipeline.
type RejectSubmissionCommand struct {
	SubmissionID string
	ActingRole   registration.Role
	ActingUser   string
	Reason       string
}

// Validate checks the command carries the acting identity.
func (c RejectSubmissionCommand) Validate() error {
	if c.SubmissionID == "" || c.ActingUser == "" || c.ActingRole == "" {
		return shared.ErrMissingField
	}
	return nil
}

// RejectSubmissionHandler applies a role-gated reject transition under the
// same optimistic-versioning discipline as approval.
type RejectSubmissionHandler struct {
	repo   registration.Repository
	bus    shared.EventBus
	clock  Clock
	logger *slog.Logger
}

// NewRejectSubmissionHandler creates a new RejectSubmissionHandler.
func NewRejectSubmissionHandler(repo registration.Repository, bus shared.EventBus, clock Clock, logger *slog.Logger) *RejectSubmissionHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &RejectSubmissionHandler{
		repo:   repo,
		bus:    bus,
		clock:  clock,
		logger: logger,
	}
}

// Handle executes the command and returns the rejected submission.
func (h *RejectSubmissionHandler) Handle(ctx context.Context, cmd RejectSubmissionCommand) (*registration.Submission, error) {
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
		if err := sub.Reject(cmd.ActingRole, cmd.ActingUser, cmd.Reason, h.clock.Now()); err != nil {
			return nil, err
		}

		if err := h.repo.Update(ctx, sub, sub.Version); err != nil {
			if shared.IsConflict(err) {
				lastErr = err
				continue
			}
			return nil, err
		}

		h.logger.Info("submission rejected",
			"submission_id", sub.ID,
			"from_status", from,
			"acting_role", cmd.ActingRole,
			"reason", cmd.Reason,
		)

		h.publish(registration.NewSubmissionRejectedEvent(sub, from, cmd.ActingRole, cmd.ActingUser, cmd.Reason))

		return sub, nil
	}

	return nil, lastErr
}

func (h *RejectSubmissionHandler) publish(event shared.Event) {
	if h.bus == nil {
		return
	}
	if err := h.bus.Publish(event); err != nil {
		h.logger.Error("failed to publish event", "event_type", event.EventType(), "error", err)
	}
}
