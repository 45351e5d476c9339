package registration

// Role identifies an actor in the registration workflow. Role values match the
// identity service's display names; the engine trusts the role handed to it.
type Role string

const (
	RoleStudent        Role = "Student"
	RoleYearLeader     Role = "Year Leader"
	RoleFacultyAdmin   Role = "Faculty Admin"
	RoleFinanceOfficer Role = "Finance Officer"
	RoleRegistrar      Role = "Registrar"
	RoleSystemAdmin    Role = "System Admin"
)

// Status is the lifecycle state of a registration submission.
type Status string

const (
	// StatusNotStarted is a pre-submission placeholder. It is never the
	// status of a persisted submission.
	StatusNotStarted Status = "Not Started"

	StatusPendingYearLeader   Status = "Pending Year Leader"
	StatusPendingFacultyAdmin Status = "Pending Faculty Admin"
	StatusPendingFinance      Status = "Pending Finance"
	StatusPendingRegistrar    Status = "Pending Registrar"
	StatusApproved            Status = "Approved"
	StatusRejected            Status = "Rejected"
)

// Stage pairs a pending status with the single role authorized to act on it.
type Stage struct {
	Status Status
	Role   Role
}

// pipeline is the single source of truth for the approval path: the stage
// order and the role gating each stage. Adding or removing a stage is one
// change here; both advancement and authorization derive from this table.
var pipeline = []Stage{
	{Status: StatusPendingYearLeader, Role: RoleYearLeader},
	{Status: StatusPendingFacultyAdmin, Role: RoleFacultyAdmin},
	{Status: StatusPendingFinance, Role: RoleFinanceOfficer},
	{Status: StatusPendingRegistrar, Role: RoleRegistrar},
}

// Stages returns a copy of the ordered approval pipeline.
func Stages() []Stage {
	out := make([]Stage, len(pipeline))
	copy(out, pipeline)
	return out
}

// InitialStatus returns the first pipeline stage a new submission enters.
func InitialStatus() Status {
	return pipeline[0].Status
}

// RoleForStatus returns the role authorized to act while the submission sits
// at the given status, or false when the status is not a pending stage.
func RoleForStatus(status Status) (Role, bool) {
	for _, stage := range pipeline {
		if stage.Status == status {
			return stage.Role, true
		}
	}
	return "", false
}

// StatusForRole returns the pending status gated by the given role, or false
// when the role does not appear in the pipeline.
func StatusForRole(role Role) (Status, bool) {
	for _, stage := range pipeline {
		if stage.Role == role {
			return stage.Status, true
		}
	}
	return "", false
}

// NextStatus returns the status following the given pending stage. From the
// last pipeline stage the next status is StatusApproved.
func NextStatus(status Status) (Status, bool) {
	for i, stage := range pipeline {
		if stage.Status != status {
			continue
		}
		if i == len(pipeline)-1 {
			return StatusApproved, true
		}
		return pipeline[i+1].Status, true
	}
	return "", false
}

// StageIndex returns the position of a status along the pipeline order, with
// StatusApproved one past the last pending stage. Rejections sit outside the
// order and report -1, as do unknown statuses.
func StageIndex(status Status) int {
	for i, stage := range pipeline {
		if stage.Status == status {
			return i
		}
	}
	if status == StatusApproved {
		return len(pipeline)
	}
	return -1
}

// IsTerminal reports whether a submission in this status permits no further
// transitions.
func IsTerminal(status Status) bool {
	return status == StatusApproved || status == StatusRejected
}

// IsPending reports whether the status is one of the pipeline's pending stages.
func IsPending(status Status) bool {
	_, ok := RoleForStatus(status)
	return ok
}

// PendingStatuses returns all pending stage statuses in pipeline order.
func PendingStatuses() []Status {
	out := make([]Status, len(pipeline))
	for i, stage := range pipeline {
		out[i] = stage.Status
	}
	return out
}
