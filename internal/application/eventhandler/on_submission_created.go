// Package eventhandler contains the subscribers that react to submission
// lifecycle events with side effects such as notifications. Handlers run
// after the state change is committed; their failures are logged by the bus
// and never affect the transition itself.
package eventhandler

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/campus-hub/registration-hub/internal/domain/notification"
	"github.com/campus-hub/registration-hub/internal/domain/registration"
	"github.com/campus-hub/registration-hub/internal/domain/shared"
)

// OnSubmissionCreatedHandler notifies the first-stage approvers that a new
// submission entered their queue.
type OnSubmissionCreatedHandler struct {
	sender notification.Sender
	logger *slog.Logger
}

// NewOnSubmissionCreatedHandler creates the handler.
func NewOnSubmissionCreatedHandler(sender notification.Sender, logger *slog.Logger) *OnSubmissionCreatedHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &OnSubmissionCreatedHandler{
		sender: sender,
		logger: logger.With("handler", "on_submission_created"),
	}
}

// Handle implements shared.EventHandler.
func (h *OnSubmissionCreatedHandler) Handle(event shared.Event) error {
	created, ok := event.(registration.SubmissionCreatedEvent)
	if !ok {
		h.logger.Warn("unexpected event type", "event_type", event.EventType())
		return nil
	}

	sub := created.Submission
	role, ok := registration.RoleForStatus(sub.Status)
	if !ok {
		return nil
	}

	n := notification.Notification{
		Recipient: string(role),
		Role:      role,
		Subject:   "New registration submission awaiting review",
		Body: fmt.Sprintf("%s (%s) submitted a module selection for %s %s.",
			sub.StudentName, sub.StudentID, sub.Semester, sub.AcademicYear),
	}

	if err := h.sender.Send(context.Background(), n); err != nil {
		return fmt.Errorf("notify %s: %w", role, err)
	}

	h.logger.Info("queue notification sent",
		"submission_id", sub.ID,
		"role", role,
	)
	return nil
}
