package registration

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPipelineOrder(t *testing.T) {
	stages := Stages()
	require.Len(t, stages, 4)

	assert.Equal(t, StatusPendingYearLeader, stages[0].Status)
	assert.Equal(t, StatusPendingFacultyAdmin, stages[1].Status)
	assert.Equal(t, StatusPendingFinance, stages[2].Status)
	assert.Equal(t, StatusPendingRegistrar, stages[3].Status)

	assert.Equal(t, RoleYearLeader, stages[0].Role)
	assert.Equal(t, RoleFacultyAdmin, stages[1].Role)
	assert.Equal(t, RoleFinanceOfficer, stages[2].Role)
	assert.Equal(t, RoleRegistrar, stages[3].Role)
}

func TestNextStatus(t *testing.T) {
	tests := []struct {
		name    string
		current Status
		want    Status
		ok      bool
	}{
		{"year leader to faculty admin", StatusPendingYearLeader, StatusPendingFacultyAdmin, true},
		{"faculty admin to finance", StatusPendingFacultyAdmin, StatusPendingFinance, true},
		{"finance to registrar", StatusPendingFinance, StatusPendingRegistrar, true},
		{"registrar to approved", StatusPendingRegistrar, StatusApproved, true},
		{"approved has no next", StatusApproved, "", false},
		{"rejected has no next", StatusRejected, "", false},
		{"not started has no next", StatusNotStarted, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next, ok := NextStatus(tt.current)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, next)
			}
		})
	}
}

func TestRoleForStatus(t *testing.T) {
	role, ok := RoleForStatus(StatusPendingFinance)
	require.True(t, ok)
	assert.Equal(t, RoleFinanceOfficer, role)

	_, ok = RoleForStatus(StatusApproved)
	assert.False(t, ok)

	_, ok = RoleForStatus(StatusRejected)
	assert.False(t, ok)
}

func TestStatusForRole(t *testing.T) {
	status, ok := StatusForRole(RoleRegistrar)
	require.True(t, ok)
	assert.Equal(t, StatusPendingRegistrar, status)

	_, ok = StatusForRole(RoleStudent)
	assert.False(t, ok)

	_, ok = StatusForRole(RoleSystemAdmin)
	assert.False(t, ok)
}

func TestStageIndexIsMonotonic(t *testing.T) {
	// Walking the pipeline with NextStatus must strictly increase the index.
	current := InitialStatus()
	prev := StageIndex(current)
	require.Equal(t, 0, prev)

	for {
		next, ok := NextStatus(current)
		if !ok {
			break
		}
		idx := StageIndex(next)
		assert.Greater(t, idx, prev)
		prev = idx
		current = next
	}

	assert.Equal(t, StatusApproved, current)
	assert.Equal(t, len(Stages()), StageIndex(StatusApproved))
	assert.Equal(t, -1, StageIndex(StatusRejected))
}

func TestIsTerminal(t *testing.T) {
	assert.True(t, IsTerminal(StatusApproved))
	assert.True(t, IsTerminal(StatusRejected))

	for _, status := range PendingStatuses() {
		assert.False(t, IsTerminal(status), "pending status %q must not be terminal", status)
	}
}

func TestPendingStatuses(t *testing.T) {
	pending := PendingStatuses()
	require.Len(t, pending, 4)
	for _, status := range pending {
		assert.True(t, IsPending(status))
	}
	assert.False(t, IsPending(StatusApproved))
	assert.False(t, IsPending(StatusNotStarted))
}
