package command

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campus-hub/registration-hub/internal/domain/catalog"
	"github.com/campus-hub/registration-hub/internal/domain/registration"
	"github.com/campus-hub/registration-hub/internal/domain/shared"
	"github.com/campus-hub/registration-hub/internal/infrastructure/persistence/memory"
)

// recordingBus captures published events for assertions.
type recordingBus struct {
	mu     sync.Mutex
	events []shared.Event
}

func (b *recordingBus) Subscribe(shared.EventType, shared.EventHandler) error { return nil }
func (b *recordingBus) SubscribeAll(shared.EventHandler) error                { return nil }
func (b *recordingBus) Close() error                                          { return nil }

func (b *recordingBus) Publish(event shared.Event) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, event)
	return nil
}

func (b *recordingBus) byType(et shared.EventType) []shared.Event {
	b.mu.Lock()
	defer b.mu.Unlock()
	var out []shared.Event
	for _, e := range b.events {
		if e.EventType() == et {
			out = append(out, e)
		}
	}
	return out
}

// seqIDs hands out deterministic ids.
type seqIDs struct {
	mu sync.Mutex
	n  int
}

func (g *seqIDs) NewID() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n++
	return fmt.Sprintf("sub-%d", g.n)
}

type fixture struct {
	repo    *memory.SubmissionRepository
	bus     *recordingBus
	create  *CreateSubmissionHandler
	approve *ApproveSubmissionHandler
	reject  *RejectSubmissionHandler
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	repo := memory.NewSubmissionRepository()
	bus := &recordingBus{}
	cat := catalog.NewStaticCatalog()
	clock := ClockFunc(func() time.Time {
		return time.Date(2026, 2, 10, 9, 30, 0, 0, time.UTC)
	})

	return &fixture{
		repo:    repo,
		bus:     bus,
		create:  NewCreateSubmissionHandler(repo, cat, bus, &seqIDs{}, clock, nil),
		approve: NewApproveSubmissionHandler(repo, bus, clock, nil),
		reject:  NewRejectSubmissionHandler(repo, bus, clock, nil),
	}
}

func itModuleIDs(t *testing.T) []string {
	t.Helper()
	modules, err := catalog.NewStaticCatalog().ModulesForFaculty(context.Background(), catalog.FacultyInformationTech)
	require.NoError(t, err)
	ids := make([]string, len(modules))
	for i, m := range modules {
		ids[i] = m.ID
	}
	return ids
}

func validCreateCommand(t *testing.T) CreateSubmissionCommand {
	return CreateSubmissionCommand{
		StudentID:    "LIM240001",
		StudentName:  "Alex Rivera",
		Faculty:      catalog.FacultyInformationTech,
		Semester:     "Semester 1",
		AcademicYear: "2026/2027",
		ModuleIDs:    itModuleIDs(t),
	}
}

func TestCreateSubmission(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	sub, err := f.create.Handle(ctx, validCreateCommand(t))
	require.NoError(t, err)

	assert.Equal(t, registration.StatusPendingYearLeader, sub.Status)
	assert.Empty(t, sub.ApprovalHistory)
	assert.Len(t, sub.Modules, registration.RequiredModuleCount)
	assert.Len(t, f.bus.byType(shared.EventSubmissionCreated), 1)

	// Round-trip: the store immediately serves the new submission.
	stored, err := f.repo.GetByStudent(ctx, "LIM240001")
	require.NoError(t, err)
	assert.Equal(t, sub.ID, stored.ID)
	assert.Equal(t, registration.StatusPendingYearLeader, stored.Status)
	assert.Empty(t, stored.ApprovalHistory)
}

func TestCreateSubmission_FiveModules(t *testing.T) {
	f := newFixture(t)

	cmd := validCreateCommand(t)
	cmd.ModuleIDs = cmd.ModuleIDs[:5]

	_, err := f.create.Handle(context.Background(), cmd)
	assert.ErrorIs(t, err, shared.ErrModuleCount)
	assert.Empty(t, f.bus.events)
}

func TestCreateSubmission_ForeignModule(t *testing.T) {
	f := newFixture(t)

	cmd := validCreateCommand(t)
	cmd.ModuleIDs[5] = "7" // BDI101, Faculty of Design Innovation

	_, err := f.create.Handle(context.Background(), cmd)
	assert.ErrorIs(t, err, shared.ErrModuleNotOffered)
}

func TestCreateSubmission_DuplicateModule(t *testing.T) {
	f := newFixture(t)

	cmd := validCreateCommand(t)
	cmd.ModuleIDs[5] = cmd.ModuleIDs[0]

	_, err := f.create.Handle(context.Background(), cmd)
	assert.ErrorIs(t, err, shared.ErrDuplicateModule)
}

func TestCreateSubmission_DoubleSubmissionGuard(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.create.Handle(ctx, validCreateCommand(t))
	require.NoError(t, err)

	_, err = f.create.Handle(ctx, validCreateCommand(t))
	assert.ErrorIs(t, err, shared.ErrDuplicateSubmission)
	assert.Len(t, f.bus.byType(shared.EventSubmissionCreated), 1)
}

func TestCreateSubmission_MissingFields(t *testing.T) {
	f := newFixture(t)

	cmd := validCreateCommand(t)
	cmd.StudentID = ""
	_, err := f.create.Handle(context.Background(), cmd)
	assert.ErrorIs(t, err, shared.ErrMissingField)

	cmd = validCreateCommand(t)
	cmd.Faculty = "Faculty of Alchemy"
	_, err = f.create.Handle(context.Background(), cmd)
	assert.ErrorIs(t, err, shared.ErrFacultyUnknown)
}

// TestApprovalChain walks a submission through the full pipeline and checks
// status and ledger length at every step.
func TestApprovalChain(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	sub, err := f.create.Handle(ctx, validCreateCommand(t))
	require.NoError(t, err)

	steps := []struct {
		role registration.Role
		user string
		want registration.Status
	}{
		{registration.RoleYearLeader, "Dr. Aminah", registration.StatusPendingFacultyAdmin},
		{registration.RoleFacultyAdmin, "Mr. Tan", registration.StatusPendingFinance},
		{registration.RoleFinanceOfficer, "Ms. Devi", registration.StatusPendingRegistrar},
		{registration.RoleRegistrar, "Mr. Osei", registration.StatusApproved},
	}

	for i, step := range steps {
		updated, err := f.approve.Handle(ctx, ApproveSubmissionCommand{
			SubmissionID: sub.ID,
			ActingRole:   step.role,
			ActingUser:   step.user,
		})
		require.NoError(t, err, "step %d (%s)", i, step.role)
		assert.Equal(t, step.want, updated.Status)
		assert.Len(t, updated.ApprovalHistory, i+1)
		assert.Equal(t, step.role, updated.ApprovalHistory[i].Role)
	}

	assert.Len(t, f.bus.byType(shared.EventSubmissionAdvanced), 4)
}

func TestApprove_WrongRoleForStage(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	sub, err := f.create.Handle(ctx, validCreateCommand(t))
	require.NoError(t, err)

	for _, role := range []registration.Role{registration.RoleYearLeader, registration.RoleFacultyAdmin} {
		_, err = f.approve.Handle(ctx, ApproveSubmissionCommand{SubmissionID: sub.ID, ActingRole: role, ActingUser: "staff"})
		require.NoError(t, err)
	}

	// Submission sits at Pending Finance; the faculty admin is no longer
	// authorized.
	_, err = f.approve.Handle(ctx, ApproveSubmissionCommand{
		SubmissionID: sub.ID,
		ActingRole:   registration.RoleFacultyAdmin,
		ActingUser:   "Mr. Tan",
	})
	assert.ErrorIs(t, err, shared.ErrUnauthorizedTransition)

	stored, err := f.repo.GetByID(ctx, sub.ID)
	require.NoError(t, err)
	assert.Equal(t, registration.StatusPendingFinance, stored.Status)
	assert.Len(t, stored.ApprovalHistory, 2)
}

func TestReject_ThenNoFurtherTransitions(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	sub, err := f.create.Handle(ctx, validCreateCommand(t))
	require.NoError(t, err)

	_, err = f.approve.Handle(ctx, ApproveSubmissionCommand{
		SubmissionID: sub.ID, ActingRole: registration.RoleYearLeader, ActingUser: "Dr. Aminah"})
	require.NoError(t, err)

	rejected, err := f.reject.Handle(ctx, RejectSubmissionCommand{
		SubmissionID: sub.ID,
		ActingRole:   registration.RoleFacultyAdmin,
		ActingUser:   "Mr. Tan",
		Reason:       "module cap exceeded",
	})
	require.NoError(t, err)
	assert.Equal(t, registration.StatusRejected, rejected.Status)
	require.Len(t, rejected.ApprovalHistory, 2)
	assert.Equal(t, registration.RoleFacultyAdmin, rejected.ApprovalHistory[1].Role)

	// Rejection is final for every role.
	_, err = f.approve.Handle(ctx, ApproveSubmissionCommand{
		SubmissionID: sub.ID, ActingRole: registration.RoleRegistrar, ActingUser: "Mr. Osei"})
	assert.ErrorIs(t, err, shared.ErrTerminalState)

	_, err = f.reject.Handle(ctx, RejectSubmissionCommand{
		SubmissionID: sub.ID, ActingRole: registration.RoleRegistrar, ActingUser: "Mr. Osei"})
	assert.ErrorIs(t, err, shared.ErrTerminalState)

	rejectedEvents := f.bus.byType(shared.EventSubmissionRejected)
	require.Len(t, rejectedEvents, 1)
	event, ok := rejectedEvents[0].(registration.SubmissionRejectedEvent)
	require.True(t, ok)
	assert.Equal(t, "module cap exceeded", event.Reason)
}

// TestApprove_Idempotence: the same role approving twice in sequence succeeds
// once; the second call observes the advanced stage and fails.
func TestApprove_Idempotence(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	sub, err := f.create.Handle(ctx, validCreateCommand(t))
	require.NoError(t, err)

	cmd := ApproveSubmissionCommand{
		SubmissionID: sub.ID,
		ActingRole:   registration.RoleYearLeader,
		ActingUser:   "Dr. Aminah",
	}

	_, err = f.approve.Handle(ctx, cmd)
	require.NoError(t, err)

	_, err = f.approve.Handle(ctx, cmd)
	assert.ErrorIs(t, err, shared.ErrUnauthorizedTransition)

	stored, err := f.repo.GetByID(ctx, sub.ID)
	require.NoError(t, err)
	assert.Len(t, stored.ApprovalHistory, 1)
}

func TestApprove_UnknownSubmission(t *testing.T) {
	f := newFixture(t)

	_, err := f.approve.Handle(context.Background(), ApproveSubmissionCommand{
		SubmissionID: "ghost",
		ActingRole:   registration.RoleYearLeader,
		ActingUser:   "Dr. Aminah",
	})
	assert.ErrorIs(t, err, shared.ErrSubmissionNotFound)
}

// TestApprove_ConcurrentRace: two authorized approvers race on the same
// stage; exactly one advance applies and exactly one history entry lands.
func TestApprove_ConcurrentRace(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	sub, err := f.create.Handle(ctx, validCreateCommand(t))
	require.NoError(t, err)

	const callers = 2
	var wg sync.WaitGroup
	errs := make(chan error, callers)

	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_, err := f.approve.Handle(ctx, ApproveSubmissionCommand{
				SubmissionID: sub.ID,
				ActingRole:   registration.RoleYearLeader,
				ActingUser:   fmt.Sprintf("Dr. Aminah (%d)", n),
			})
			errs <- err
		}(i)
	}
	wg.Wait()
	close(errs)

	wins := 0
	for err := range errs {
		if err == nil {
			wins++
			continue
		}
		loserErr := errors.Is(err, shared.ErrUnauthorizedTransition) ||
			errors.Is(err, shared.ErrTerminalState)
		assert.True(t, loserErr, "unexpected loser error: %v", err)
	}
	assert.Equal(t, 1, wins)

	stored, err := f.repo.GetByID(ctx, sub.ID)
	require.NoError(t, err)
	assert.Equal(t, registration.StatusPendingFacultyAdmin, stored.Status)
	assert.Len(t, stored.ApprovalHistory, 1)
	assert.Len(t, f.bus.byType(shared.EventSubmissionAdvanced), 1)
}
