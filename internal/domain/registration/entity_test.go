package registration

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campus-hub/registration-hub/internal/domain/catalog"
	"github.com/campus-hub/registration-hub/internal/domain/shared"
)

var testNow = time.Date(2026, 2, 10, 9, 30, 0, 0, time.UTC)

func itModules(t *testing.T) []catalog.Module {
	t.Helper()
	modules, err := catalog.NewStaticCatalog().ModulesForFaculty(context.Background(), catalog.FacultyInformationTech)
	require.NoError(t, err)
	require.Len(t, modules, RequiredModuleCount)
	return modules
}

func newTestSubmission(t *testing.T) *Submission {
	t.Helper()
	modules := itModules(t)
	sub, err := NewSubmission(
		"sub-1", "LIM240001", "Alex Rivera",
		catalog.FacultyInformationTech, "Semester 1", "2026/2027",
		modules, modules, testNow,
	)
	require.NoError(t, err)
	return sub
}

func TestNewSubmission(t *testing.T) {
	sub := newTestSubmission(t)

	assert.Equal(t, StatusPendingYearLeader, sub.Status)
	assert.Empty(t, sub.ApprovalHistory)
	assert.Equal(t, testNow, sub.SubmittedAt)
	assert.Equal(t, 22, sub.TotalCredits())
}

func TestNewSubmission_MissingFields(t *testing.T) {
	modules := itModules(t)

	_, err := NewSubmission("", "LIM240001", "Alex Rivera",
		catalog.FacultyInformationTech, "Semester 1", "2026/2027", modules, modules, testNow)
	assert.ErrorIs(t, err, shared.ErrMissingField)

	_, err = NewSubmission("sub-1", "LIM240001", "Alex Rivera",
		catalog.Faculty("Faculty of Alchemy"), "Semester 1", "2026/2027", modules, modules, testNow)
	assert.ErrorIs(t, err, shared.ErrFacultyUnknown)
}

func TestValidateModuleSelection(t *testing.T) {
	offered := itModules(t)

	t.Run("exactly six valid modules", func(t *testing.T) {
		assert.NoError(t, ValidateModuleSelection(offered, offered))
	})

	t.Run("five modules rejected", func(t *testing.T) {
		err := ValidateModuleSelection(offered[:5], offered)
		assert.ErrorIs(t, err, shared.ErrModuleCount)
		assert.ErrorIs(t, err, shared.ErrValidation)
	})

	t.Run("seven modules rejected", func(t *testing.T) {
		extra := append(append([]catalog.Module{}, offered...), catalog.Module{ID: "99", Code: "BIT299", Name: "Extra", Credits: 3})
		err := ValidateModuleSelection(extra, offered)
		assert.ErrorIs(t, err, shared.ErrModuleCount)
	})

	t.Run("duplicate module rejected", func(t *testing.T) {
		dup := append(append([]catalog.Module{}, offered[:5]...), offered[0])
		err := ValidateModuleSelection(dup, offered)
		assert.ErrorIs(t, err, shared.ErrDuplicateModule)
	})

	t.Run("module from another faculty rejected", func(t *testing.T) {
		foreign := append(append([]catalog.Module{}, offered[:5]...),
			catalog.Module{ID: "7", Code: "BDI101", Name: "Visual Communication", Credits: 4})
		err := ValidateModuleSelection(foreign, offered)
		assert.ErrorIs(t, err, shared.ErrModuleNotOffered)
	})
}

func TestApprove_FullPath(t *testing.T) {
	sub := newTestSubmission(t)

	steps := []struct {
		role Role
		user string
		want Status
	}{
		{RoleYearLeader, "Dr. Aminah", StatusPendingFacultyAdmin},
		{RoleFacultyAdmin, "Mr. Tan", StatusPendingFinance},
		{RoleFinanceOfficer, "Ms. Devi", StatusPendingRegistrar},
		{RoleRegistrar, "Mr. Osei", StatusApproved},
	}

	for i, step := range steps {
		require.NoError(t, sub.Approve(step.role, step.user, "", testNow.Add(time.Duration(i)*time.Hour)))
		assert.Equal(t, step.want, sub.Status)
		require.Len(t, sub.ApprovalHistory, i+1)
		assert.Equal(t, step.role, sub.ApprovalHistory[i].Role)
		assert.Equal(t, step.user, sub.ApprovalHistory[i].ApprovedBy)
	}

	assert.True(t, sub.IsTerminal())
	_, waiting := sub.CurrentStageRole()
	assert.False(t, waiting)
}

func TestApprove_WrongRole(t *testing.T) {
	sub := newTestSubmission(t)
	require.NoError(t, sub.Approve(RoleYearLeader, "Dr. Aminah", "", testNow))
	require.NoError(t, sub.Approve(RoleFacultyAdmin, "Mr. Tan", "", testNow))

	// Submission now sits at Pending Finance; the faculty admin has already
	// had their turn.
	err := sub.Approve(RoleFacultyAdmin, "Mr. Tan", "", testNow)
	assert.ErrorIs(t, err, shared.ErrUnauthorizedTransition)
	assert.Equal(t, StatusPendingFinance, sub.Status)
	assert.Len(t, sub.ApprovalHistory, 2)
}

func TestApprove_Terminal(t *testing.T) {
	sub := newTestSubmission(t)
	require.NoError(t, sub.Reject(RoleYearLeader, "Dr. Aminah", "incomplete documents", testNow))

	err := sub.Approve(RoleYearLeader, "Dr. Aminah", "", testNow)
	assert.ErrorIs(t, err, shared.ErrTerminalState)

	err = sub.Reject(RoleRegistrar, "Mr. Osei", "", testNow)
	assert.ErrorIs(t, err, shared.ErrTerminalState)
}

func TestReject(t *testing.T) {
	sub := newTestSubmission(t)
	require.NoError(t, sub.Approve(RoleYearLeader, "Dr. Aminah", "", testNow))

	err := sub.Reject(RoleFacultyAdmin, "Mr. Tan", "module cap exceeded", testNow)
	require.NoError(t, err)

	assert.Equal(t, StatusRejected, sub.Status)
	require.Len(t, sub.ApprovalHistory, 2)
	last := sub.ApprovalHistory[1]
	assert.Equal(t, RoleFacultyAdmin, last.Role)
	assert.Equal(t, "module cap exceeded", last.Comments)
}

func TestReject_OnlyCurrentStageRole(t *testing.T) {
	sub := newTestSubmission(t)
	require.NoError(t, sub.Approve(RoleYearLeader, "Dr. Aminah", "", testNow))

	// The year leader already passed this submission on; they cannot reject it
	// retroactively.
	err := sub.Reject(RoleYearLeader, "Dr. Aminah", "changed my mind", testNow)
	assert.ErrorIs(t, err, shared.ErrUnauthorizedTransition)
	assert.Equal(t, StatusPendingFacultyAdmin, sub.Status)
}

func TestStudentRoleCannotTransition(t *testing.T) {
	sub := newTestSubmission(t)

	assert.ErrorIs(t, sub.Approve(RoleStudent, "Alex Rivera", "", testNow), shared.ErrUnauthorizedTransition)
	assert.ErrorIs(t, sub.Reject(RoleStudent, "Alex Rivera", "", testNow), shared.ErrUnauthorizedTransition)
	assert.Empty(t, sub.ApprovalHistory)
}

func TestHistoryIsDefensiveCopy(t *testing.T) {
	sub := newTestSubmission(t)
	require.NoError(t, sub.Approve(RoleYearLeader, "Dr. Aminah", "", testNow))

	history := sub.History()
	history[0].ApprovedBy = "tampered"

	assert.Equal(t, "Dr. Aminah", sub.ApprovalHistory[0].ApprovedBy)
}

func TestClone(t *testing.T) {
	sub := newTestSubmission(t)
	require.NoError(t, sub.Approve(RoleYearLeader, "Dr. Aminah", "", testNow))

	clone := sub.Clone()
	require.NoError(t, clone.Approve(RoleFacultyAdmin, "Mr. Tan", "", testNow))

	assert.Equal(t, StatusPendingFacultyAdmin, sub.Status)
	assert.Equal(t, StatusPendingFinance, clone.Status)
	assert.Len(t, sub.ApprovalHistory, 1)
	assert.Len(t, clone.ApprovalHistory, 2)
}

func TestSnapshotCarriesFullState(t *testing.T) {
	sub := newTestSubmission(t)
	require.NoError(t, sub.Approve(RoleYearLeader, "Dr. Aminah", "all good", testNow))

	event := NewSubmissionAdvancedEvent(sub, StatusPendingYearLeader, RoleYearLeader, "Dr. Aminah")

	assert.Equal(t, shared.EventSubmissionAdvanced, event.EventType())
	assert.Equal(t, sub.ID, event.AggregateID())
	assert.Equal(t, StatusPendingYearLeader, event.FromStatus)
	assert.Equal(t, StatusPendingFacultyAdmin, event.ToStatus)
	require.Len(t, event.Submission.ApprovalHistory, 1)
	assert.Equal(t, "all good", event.Submission.ApprovalHistory[0].Comments)
}
