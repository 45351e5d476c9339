package eventhandler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campus-hub/registration-hub/internal/domain/catalog"
	"github.com/campus-hub/registration-hub/internal/domain/notification"
	"github.com/campus-hub/registration-hub/internal/domain/registration"
)

type captureSender struct {
	sent []notification.Notification
	err  error
}

func (s *captureSender) Send(_ context.Context, n notification.Notification) error {
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, n)
	return nil
}

func pendingSubmission(t *testing.T) *registration.Submission {
	t.Helper()
	modules, err := catalog.NewStaticCatalog().ModulesForFaculty(context.Background(), catalog.FacultyInformationTech)
	require.NoError(t, err)

	sub, err := registration.NewSubmission("sub-1", "LIM240001", "Alex Rivera",
		catalog.FacultyInformationTech, "Semester 1", "2026/2027",
		modules, modules, time.Date(2026, 2, 10, 9, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	return sub
}

func TestOnSubmissionCreated_NotifiesFirstStage(t *testing.T) {
	sender := &captureSender{}
	h := NewOnSubmissionCreatedHandler(sender, nil)

	sub := pendingSubmission(t)
	require.NoError(t, h.Handle(registration.NewSubmissionCreatedEvent(sub)))

	require.Len(t, sender.sent, 1)
	assert.Equal(t, registration.RoleYearLeader, sender.sent[0].Role)
	assert.Contains(t, sender.sent[0].Body, "LIM240001")
}

func TestOnSubmissionAdvanced_NotifiesStudentAndNextStage(t *testing.T) {
	sender := &captureSender{}
	h := NewOnSubmissionAdvancedHandler(sender, nil)

	sub := pendingSubmission(t)
	from := sub.Status
	require.NoError(t, sub.Approve(registration.RoleYearLeader, "Dr. Aminah", "", time.Now()))

	event := registration.NewSubmissionAdvancedEvent(sub, from, registration.RoleYearLeader, "Dr. Aminah")
	require.NoError(t, h.Handle(event))

	require.Len(t, sender.sent, 2)
	assert.Equal(t, "LIM240001", sender.sent[0].Recipient)
	assert.Equal(t, registration.RoleFacultyAdmin, sender.sent[1].Role)
}

func TestOnSubmissionAdvanced_FinalApprovalNotifiesStudentOnly(t *testing.T) {
	sender := &captureSender{}
	h := NewOnSubmissionAdvancedHandler(sender, nil)

	sub := pendingSubmission(t)
	require.NoError(t, sub.Approve(registration.RoleYearLeader, "Dr. Aminah", "", time.Now()))
	require.NoError(t, sub.Approve(registration.RoleFacultyAdmin, "Mr. Tan", "", time.Now()))
	require.NoError(t, sub.Approve(registration.RoleFinanceOfficer, "Ms. Devi", "", time.Now()))
	from := sub.Status
	require.NoError(t, sub.Approve(registration.RoleRegistrar, "Mr. Osei", "", time.Now()))

	event := registration.NewSubmissionAdvancedEvent(sub, from, registration.RoleRegistrar, "Mr. Osei")
	require.NoError(t, h.Handle(event))

	require.Len(t, sender.sent, 1)
	assert.Equal(t, "LIM240001", sender.sent[0].Recipient)
	assert.Contains(t, sender.sent[0].Body, "fully approved")
}

func TestOnSubmissionRejected_IncludesReason(t *testing.T) {
	sender := &captureSender{}
	h := NewOnSubmissionRejectedHandler(sender, nil)

	sub := pendingSubmission(t)
	from := sub.Status
	require.NoError(t, sub.Reject(registration.RoleYearLeader, "Dr. Aminah", "module cap exceeded", time.Now()))

	event := registration.NewSubmissionRejectedEvent(sub, from, registration.RoleYearLeader, "Dr. Aminah", "module cap exceeded")
	require.NoError(t, h.Handle(event))

	require.Len(t, sender.sent, 1)
	assert.Contains(t, sender.sent[0].Body, "module cap exceeded")
}

func TestHandlers_SenderFailureSurfaces(t *testing.T) {
	sender := &captureSender{err: errors.New("smtp down")}
	h := NewOnSubmissionCreatedHandler(sender, nil)

	err := h.Handle(registration.NewSubmissionCreatedEvent(pendingSubmission(t)))
	assert.Error(t, err)
}

func TestHandlers_IgnoreForeignEventTypes(t *testing.T) {
	sender := &captureSender{}
	created := NewOnSubmissionCreatedHandler(sender, nil)
	advanced := NewOnSubmissionAdvancedHandler(sender, nil)
	rejected := NewOnSubmissionRejectedHandler(sender, nil)

	sub := pendingSubmission(t)
	event := registration.NewSubmissionCreatedEvent(sub)

	// The created event is foreign to the other two handlers.
	assert.NoError(t, advanced.Handle(event))
	assert.NoError(t, rejected.Handle(event))
	assert.NoError(t, created.Handle(event))
	assert.Len(t, sender.sent, 1)
}
