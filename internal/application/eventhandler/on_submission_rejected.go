package eventhandler

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/campus-hub/registration-hub/internal/domain/notification"
	"github.com/campus-hub/registration-hub/internal/domain/registration"
	"github.com/campus-hub/registration-hub/internal/domain/shared"
)

// OnSubmissionRejectedHandler tells the student their submission was rejected
// and why, so they can correct the selection and resubmit.
type OnSubmissionRejectedHandler struct {
	sender notification.Sender
	logger *slog.Logger
}

// NewOnSubmissionRejectedHandler creates the handler.
func NewOnSubmissionRejectedHandler(sender notification.Sender, logger *slog.Logger) *OnSubmissionRejectedHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &OnSubmissionRejectedHandler{
		sender: sender,
		logger: logger.With("handler", "on_submission_rejected"),
	}
}

// Handle implements shared.EventHandler.
func (h *OnSubmissionRejectedHandler) Handle(event shared.Event) error {
	rejected, ok := event.(registration.SubmissionRejectedEvent)
	if !ok {
		h.logger.Warn("unexpected event type", "event_type", event.EventType())
		return nil
	}

	sub := rejected.Submission

	body := fmt.Sprintf("Your submission was rejected by %s (%s).",
		rejected.ActedBy, rejected.ActingRole)
	if rejected.Reason != "" {
		body = fmt.Sprintf("%s Reason: %s", body, rejected.Reason)
	}
	body += " You may submit a corrected module selection."

	n := notification.Notification{
		Recipient: sub.StudentID,
		Role:      registration.RoleStudent,
		Subject:   "Registration submission rejected",
		Body:      body,
	}

	if err := h.sender.Send(context.Background(), n); err != nil {
		return fmt.Errorf("notify student %s: %w", sub.StudentID, err)
	}

	h.logger.Info("rejection notification sent",
		"submission_id", sub.ID,
		"student_id", sub.StudentID,
	)
	return nil
}
