package registration

import (
	"github.com/campus-hub/registration-hub/internal/domain/shared"
)

// Snapshot is the event-carried view of a submission. Events embed the full
// snapshot so subscribers never need a follow-up store read.
type Snapshot struct {
	ID              string          `json:"id"`
	StudentID       string          `json:"student_id"`
	StudentName     string          `json:"student_name"`
	Faculty         string          `json:"faculty"`
	Semester        string          `json:"semester"`
	AcademicYear    string          `json:"academic_year"`
	Status          Status          `json:"status"`
	SubmittedAt     string          `json:"submitted_at"`
	ApprovalHistory []ApprovalEntry `json:"approval_history"`
}

// SnapshotOf captures the submission's current state for event payloads.
func SnapshotOf(s *Submission) Snapshot {
	return Snapshot{
		ID:              s.ID,
		StudentID:       s.StudentID,
		StudentName:     s.StudentName,
		Faculty:         s.Faculty.String(),
		Semester:        s.Semester,
		AcademicYear:    s.AcademicYear,
		Status:          s.Status,
		SubmittedAt:     s.SubmittedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
		ApprovalHistory: s.History(),
	}
}

// SubmissionCreatedEvent is emitted when a student's submission enters the
// pipeline.
type SubmissionCreatedEvent struct {
	shared.BaseEvent
	Submission Snapshot `json:"submission"`
}

// Payload implements shared.Event.
func (e SubmissionCreatedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"submission": e.Submission,
		"status":     string(e.Submission.Status),
	}
}

// NewSubmissionCreatedEvent creates a new SubmissionCreatedEvent.
func NewSubmissionCreatedEvent(s *Submission) SubmissionCreatedEvent {
	return SubmissionCreatedEvent{
		BaseEvent:  shared.NewBaseEvent(shared.EventSubmissionCreated, s.ID),
		Submission: SnapshotOf(s),
	}
}

// SubmissionAdvancedEvent is emitted when an approver moves a submission to
// the next stage, including the final move into Approved.
type SubmissionAdvancedEvent struct {
	shared.BaseEvent
	Submission Snapshot `json:"submission"`
	FromStatus Status   `json:"from_status"`
	ToStatus   Status   `json:"to_status"`
	ActedBy    string   `json:"acted_by"`
	ActingRole Role     `json:"acting_role"`
}

// Payload implements shared.Event.
func (e SubmissionAdvancedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"submission":  e.Submission,
		"from_status": string(e.FromStatus),
		"to_status":   string(e.ToStatus),
		"acted_by":    e.ActedBy,
		"acting_role": string(e.ActingRole),
	}
}

// NewSubmissionAdvancedEvent creates a new SubmissionAdvancedEvent.
func NewSubmissionAdvancedEvent(s *Submission, from Status, role Role, actedBy string) SubmissionAdvancedEvent {
	return SubmissionAdvancedEvent{
		BaseEvent:  shared.NewBaseEvent(shared.EventSubmissionAdvanced, s.ID),
		Submission: SnapshotOf(s),
		FromStatus: from,
		ToStatus:   s.Status,
		ActedBy:    actedBy,
		ActingRole: role,
	}
}

// SubmissionRejectedEvent is emitted when an approver rejects a submission.
type SubmissionRejectedEvent struct {
	shared.BaseEvent
	Submission Snapshot `json:"submission"`
	FromStatus Status   `json:"from_status"`
	Reason     string   `json:"reason,omitempty"`
	ActedBy    string   `json:"acted_by"`
	ActingRole Role     `json:"acting_role"`
}

// Payload implements shared.Event.
func (e SubmissionRejectedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"submission":  e.Submission,
		"from_status": string(e.FromStatus),
		"reason":      e.Reason,
		"acted_by":    e.ActedBy,
		"acting_role": string(e.ActingRole),
	}
}

// NewSubmissionRejectedEvent creates a new SubmissionRejectedEvent.
func NewSubmissionRejectedEvent(s *Submission, from Status, role Role, actedBy, reason string) SubmissionRejectedEvent {
	return SubmissionRejectedEvent{
		BaseEvent:  shared.NewBaseEvent(shared.EventSubmissionRejected, s.ID),
		Submission: SnapshotOf(s),
		FromStatus: from,
		Reason:     reason,
		ActedBy:    actedBy,
		ActingRole: role,
	}
}
