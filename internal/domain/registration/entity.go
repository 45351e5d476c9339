// Package registration contains the submission lifecycle engine: the
// RegistrationSubmission aggregate, the ordered approval pipeline, the
// role-gated transition rules, and the append-only approval ledger.
// This is the core business logic and has no infrastructure dependencies.
package registration

import (
	"time"

	"github.com/campus-hub/registration-hub/internal/domain/catalog"
	"github.com/campus-hub/registration-hub/internal/domain/shared"
)

// RequiredModuleCount is the number of distinct modules a semester
// registration must carry.
const RequiredModuleCount = 6

// ApprovalEntry is one immutable record in a submission's approval ledger.
// A rejection is recorded the same way, under the role that rejected.
type ApprovalEntry struct {
	Role       Role      `json:"role"`
	ApprovedBy string    `json:"approved_by"`
	Date       time.Time `json:"date"`
	Comments   string    `json:"comments,omitempty"`
}

// Submission is the aggregate root of the registration workflow. Identity,
// term, and module selection are fixed at creation; only Status,
// ApprovalHistory, and Version change afterwards, and only through Approve
// and Reject.
type Submission struct {
	ID           string
	StudentID    string
	StudentName  string
	Faculty      catalog.Faculty
	Semester     string
	AcademicYear string
	Modules      []catalog.Module

	Status          Status
	SubmittedAt     time.Time
	ApprovalHistory []ApprovalEntry

	// Version is the optimistic concurrency token owned by the repository.
	// Every committed transition increments it.
	Version int64
}

// NewSubmission validates the input and builds a submission sitting at the
// first pipeline stage with an empty approval ledger. The offered slice is the
// faculty's catalog; every selected module must come from it.
func NewSubmission(id, studentID, studentName string, faculty catalog.Faculty, semester, academicYear string, selected, offered []catalog.Module, now time.Time) (*Submission, error) {
	if id == "" || studentID == "" || studentName == "" || semester == "" || academicYear == "" {
		return nil, shared.ErrMissingField
	}
	if !faculty.IsValid() {
		return nil, shared.ErrFacultyUnknown
	}
	if err := ValidateModuleSelection(selected, offered); err != nil {
		return nil, err
	}

	modules := make([]catalog.Module, len(selected))
	copy(modules, selected)

	return &Submission{
		ID:              id,
		StudentID:       studentID,
		StudentName:     studentName,
		Faculty:         faculty,
		Semester:        semester,
		AcademicYear:    academicYear,
		Modules:         modules,
		Status:          InitialStatus(),
		SubmittedAt:     now,
		ApprovalHistory: []ApprovalEntry{},
	}, nil
}

// ValidateModuleSelection enforces the module selection rules: exactly
// RequiredModuleCount modules, all distinct, all drawn from the faculty's
// offering.
func ValidateModuleSelection(selected, offered []catalog.Module) error {
	if len(selected) != RequiredModuleCount {
		return shared.ErrModuleCount
	}

	offeredByID := make(map[string]struct{}, len(offered))
	for _, m := range offered {
		offeredByID[m.ID] = struct{}{}
	}

	seen := make(map[string]struct{}, len(selected))
	for _, m := range selected {
		if _, dup := seen[m.ID]; dup {
			return shared.ErrDuplicateModule
		}
		seen[m.ID] = struct{}{}
		if _, ok := offeredByID[m.ID]; !ok {
			return shared.ErrModuleNotOffered
		}
	}
	return nil
}

// authorize checks the transition preconditions shared by Approve and Reject:
// the submission must not be terminal, and the acting role must be the one
// gating the current stage.
func (s *Submission) authorize(actingRole Role) error {
	if IsTerminal(s.Status) {
		return shared.ErrTerminalState
	}
	required, ok := RoleForStatus(s.Status)
	if !ok {
		// A persisted submission outside the pipeline and not terminal is a
		// store corruption, not a caller mistake.
		return shared.WrapError("registration", "Transition", shared.ErrInvalidState,
			"submission status is not a pipeline stage", nil)
	}
	if actingRole != required {
		return shared.ErrUnauthorizedTransition
	}
	return nil
}

// Approve records the acting role's sign-off and moves the submission to the
// next pipeline stage; from the last stage it becomes Approved. The ledger
// gains exactly one entry.
func (s *Submission) Approve(actingRole Role, actingUser, comments string, now time.Time) error {
	if err := s.authorize(actingRole); err != nil {
		return err
	}
	next, _ := NextStatus(s.Status)

	s.ApprovalHistory = append(s.ApprovalHistory, ApprovalEntry{
		Role:       actingRole,
		ApprovedBy: actingUser,
		Date:       now,
		Comments:   comments,
	})
	s.Status = next
	return nil
}

// Reject records the acting role's rejection and moves the submission to the
// terminal Rejected state. Only the role gating the current stage may reject;
// a later-stage approver cannot reject on behalf of a stage already passed.
func (s *Submission) Reject(actingRole Role, actingUser, reason string, now time.Time) error {
	if err := s.authorize(actingRole); err != nil {
		return err
	}

	s.ApprovalHistory = append(s.ApprovalHistory, ApprovalEntry{
		Role:       actingRole,
		ApprovedBy: actingUser,
		Date:       now,
		Comments:   reason,
	})
	s.Status = StatusRejected
	return nil
}

// CurrentStageRole returns the role whose action the submission is waiting on,
// or false when the submission is terminal.
func (s *Submission) CurrentStageRole() (Role, bool) {
	return RoleForStatus(s.Status)
}

// IsTerminal reports whether the submission permits no further transitions.
func (s *Submission) IsTerminal() bool {
	return IsTerminal(s.Status)
}

// TotalCredits sums the credit weight of the selected modules.
func (s *Submission) TotalCredits() int {
	total := 0
	for _, m := range s.Modules {
		total += m.Credits
	}
	return total
}

// History returns a defensive copy of the approval ledger.
func (s *Submission) History() []ApprovalEntry {
	out := make([]ApprovalEntry, len(s.ApprovalHistory))
	copy(out, s.ApprovalHistory)
	return out
}

// Clone returns a deep copy of the submission. Stores hand out clones so
// callers can never mutate persisted state in place.
func (s *Submission) Clone() *Submission {
	if s == nil {
		return nil
	}
	clone := *s
	clone.Modules = make([]catalog.Module, len(s.Modules))
	copy(clone.Modules, s.Modules)
	clone.ApprovalHistory = make([]ApprovalEntry, len(s.ApprovalHistory))
	copy(clone.ApprovalHistory, s.ApprovalHistory)
	return &clone
}
