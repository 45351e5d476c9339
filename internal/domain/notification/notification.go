// Package notification defines the outbound notification model. Delivery
// transports (email, campus portal inbox) live in infrastructure; the domain
// only knows that a message is addressed to a person acting in a role.
package notification

import (
	"context"
	"time"

	"github.com/campus-hub/registration-hub/internal/domain/registration"
)

// Notification is a single message to one recipient.
type Notification struct {
	ID        string
	Recipient string
	Role      registration.Role
	Subject   string
	Body      string
	CreatedAt time.Time
}

// Sender delivers notifications. Implementations must be safe for concurrent
// use; delivery failures are reported, never retried here.
type Sender interface {
	Send(ctx context.Context, n Notification) error
}
