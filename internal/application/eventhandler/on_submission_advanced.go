package eventhandler

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/campus-hub/registration-hub/internal/domain/notification"
	"github.com/campus-hub/registration-hub/internal/domain/registration"
	"github.com/campus-hub/registration-hub/internal/domain/shared"
)

// OnSubmissionAdvancedHandler notifies the student of the stage change and,
// when the submission is still pending, tells the next stage's approvers
// about the new item in their queue.
type OnSubmissionAdvancedHandler struct {
	sender notification.Sender
	logger *slog.Logger
}

// NewOnSubmissionAdvancedHandler creates the handler.
func NewOnSubmissionAdvancedHandler(sender notification.Sender, logger *slog.Logger) *OnSubmissionAdvancedHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &OnSubmissionAdvancedHandler{
		sender: sender,
		logger: logger.With("handler", "on_submission_advanced"),
	}
}

// Handle implements shared.EventHandler.
func (h *OnSubmissionAdvancedHandler) Handle(event shared.Event) error {
	advanced, ok := event.(registration.SubmissionAdvancedEvent)
	if !ok {
		h.logger.Warn("unexpected event type", "event_type", event.EventType())
		return nil
	}

	ctx := context.Background()
	sub := advanced.Submission

	studentBody := fmt.Sprintf("Your submission was approved by %s (%s) and moved from %q to %q.",
		advanced.ActedBy, advanced.ActingRole, advanced.FromStatus, advanced.ToStatus)
	if sub.Status == registration.StatusApproved {
		studentBody = fmt.Sprintf("Your registration for %s %s is fully approved.",
			sub.Semester, sub.AcademicYear)
	}

	student := notification.Notification{
		Recipient: sub.StudentID,
		Role:      registration.RoleStudent,
		Subject:   "Registration submission update",
		Body:      studentBody,
	}
	if err := h.sender.Send(ctx, student); err != nil {
		return fmt.Errorf("notify student %s: %w", sub.StudentID, err)
	}

	if role, ok := registration.RoleForStatus(sub.Status); ok {
		next := notification.Notification{
			Recipient: string(role),
			Role:      role,
			Subject:   "Registration submission awaiting review",
			Body: fmt.Sprintf("%s (%s) is now waiting on %s.",
				sub.StudentName, sub.StudentID, role),
		}
		if err := h.sender.Send(ctx, next); err != nil {
			return fmt.Errorf("notify %s: %w", role, err)
		}
	}

	h.logger.Info("stage change notifications sent",
		"submission_id", sub.ID,
		"to_status", advanced.ToStatus,
	)
	return nil
}
