package command

import (
	"context"
	"log/slog"

	"github.com/campus-hub/registration-hub/internal/domain/catalog"
	"github.com/campus-hub/registration-hub/internal/domain/registration"
	"github.com/campus-hub/registration-hub/internal/domain/shared"
)

// CreateSubmissionCommand carries a student's semester registration request.
type CreateSubmissionCommand struct {
	StudentID    string
	StudentName  string
	Faculty      catalog.Faculty
	Semester     string
	AcademicYear string

	// ModuleIDs are the catalog ids of the selected modules. Exactly six
	// distinct ids from the student's faculty catalog are required.
	ModuleIDs []string
}

// Validate checks the command carries the fields the engine cannot default.
func (c CreateSubmissionCommand) Validate() error {
	if c.StudentID == "" || c.StudentName == "" || c.Semester == "" || c.AcademicYear == "" {
		return shared.ErrMissingField
	}
	if !c.Faculty.IsValid() {
		return shared.ErrFacultyUnknown
	}
	return nil
}

// CreateSubmissionHandler validates a registration request against the module
// catalog and places the submission at the first pipeline stage.
type CreateSubmissionHandler struct {
	repo    registration.Repository
	catalog catalog.Catalog
	bus     shared.EventBus
	ids     IDGenerator
	clock   Clock
	logger  *slog.Logger
}

// NewCreateSubmissionHandler creates a new CreateSubmissionHandler.
func NewCreateSubmissionHandler(repo registration.Repository, cat catalog.Catalog, bus shared.EventBus, ids IDGenerator, clock Clock, logger *slog.Logger) *CreateSubmissionHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &CreateSubmissionHandler{
		repo:    repo,
		catalog: cat,
		bus:     bus,
		ids:     ids,
		clock:   clock,
		logger:  logger,
	}
}

// Handle executes the command. On success the created submission sits at the
// first pipeline stage with an empty approval ledger, and a
// submission.created event is published.
func (h *CreateSubmissionHandler) Handle(ctx context.Context, cmd CreateSubmissionCommand) (*registration.Submission, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	offered, err := h.catalog.ModulesForFaculty(ctx, cmd.Faculty)
	if err != nil {
		return nil, err
	}

	selected := resolveModules(cmd.ModuleIDs, offered)

	sub, err := registration.NewSubmission(
		h.ids.NewID(),
		cmd.StudentID, cmd.StudentName,
		cmd.Faculty, cmd.Semester, cmd.AcademicYear,
		selected, offered,
		h.clock.Now(),
	)
	if err != nil {
		return nil, err
	}

	if err := h.repo.Create(ctx, sub); err != nil {
		return nil, err
	}

	h.logger.Info("submission created",
		"submission_id", sub.ID,
		"student_id", sub.StudentID,
		"faculty", sub.Faculty,
		"status", sub.Status,
	)

	h.publish(registration.NewSubmissionCreatedEvent(sub))

	return sub, nil
}

// publish fires an event after the store write committed. Event delivery is
// best-effort; a failing subscriber never rolls back a transition.
func (h *CreateSubmissionHandler) publish(event shared.Event) {
	if h.bus == nil {
		return
	}
	if err := h.bus.Publish(event); err != nil {
		h.logger.Error("failed to publish event", "event_type", event.EventType(), "error", err)
	}
}

// resolveModules maps selected ids onto the faculty's offering. Unknown ids
// pass through as bare placeholders so the domain validation reports them as
// not offered rather than silently shrinking the selection.
func resolveModules(ids []string, offered []catalog.Module) []catalog.Module {
	byID := make(map[string]catalog.Module, len(offered))
	for _, m := range offered {
		byID[m.ID] = m
	}

	selected := make([]catalog.Module, 0, len(ids))
	for _, id := range ids {
		if m, ok := byID[id]; ok {
			selected = append(selected, m)
			continue
		}
		selected = append(selected, catalog.Module{ID: id})
	}
	return selected
}
