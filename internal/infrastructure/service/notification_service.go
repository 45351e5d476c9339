// Package service hosts infrastructure implementations of the domain's
// outbound ports.
package service

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/campus-hub/registration-hub/internal/domain/notification"
)

// LogNotificationSender writes notifications to the structured log and keeps
// a bounded in-memory outbox. It stands in for the campus mail gateway in
// development and single-instance deployments.
type LogNotificationSender struct {
	logger *slog.Logger

	mu      sync.RWMutex
	outbox  []notification.Notification
	maxKept int
}

// NewLogNotificationSender creates a sender retaining the last maxKept
// notifications for inspection. maxKept <= 0 selects a default of 256.
func NewLogNotificationSender(logger *slog.Logger, maxKept int) *LogNotificationSender {
	if logger == nil {
		logger = slog.Default()
	}
	if maxKept <= 0 {
		maxKept = 256
	}
	return &LogNotificationSender{
		logger:  logger.With("component", "notification_sender"),
		maxKept: maxKept,
	}
}

// Send implements notification.Sender. Missing ID and CreatedAt are stamped
// here so callers do not need an ID source of their own.
func (s *LogNotificationSender) Send(ctx context.Context, n notification.Notification) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now()
	}

	s.mu.Lock()
	s.outbox = append(s.outbox, n)
	if len(s.outbox) > s.maxKept {
		s.outbox = s.outbox[len(s.outbox)-s.maxKept:]
	}
	s.mu.Unlock()

	s.logger.Info("notification sent",
		"notification_id", n.ID,
		"recipient", n.Recipient,
		"role", n.Role,
		"subject", n.Subject,
	)
	return nil
}

// Outbox returns a copy of the retained notifications, oldest first.
func (s *LogNotificationSender) Outbox() []notification.Notification {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]notification.Notification, len(s.outbox))
	copy(out, s.outbox)
	return out
}
