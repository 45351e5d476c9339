package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/campus-hub/registration-hub/internal/application/command"
	"github.com/campus-hub/registration-hub/internal/domain/catalog"
	"github.com/campus-hub/registration-hub/internal/domain/registration"
	"github.com/campus-hub/registration-hub/internal/domain/shared"
)

// Acting identity headers. Authentication happens upstream (the campus SSO
// gateway); these carry the already-authenticated identity into the workflow.
const (
	headerActingRole = "X-Acting-Role"
	headerActingUser = "X-Acting-User"
)

type jsonResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *apiError   `json:"error,omitempty"`
}

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(jsonResponse{
		Success: status >= 200 && status < 300,
		Data:    data,
	})
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(jsonResponse{
		Success: false,
		Error:   &apiError{Code: code, Message: message},
	})
}

// writeDomainError maps workflow errors onto HTTP statuses.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, shared.ErrSubmissionNotFound):
		writeError(w, http.StatusNotFound, "submission_not_found", err.Error())
	case errors.Is(err, shared.ErrDuplicateSubmission):
		writeError(w, http.StatusConflict, "duplicate_submission", err.Error())
	case errors.Is(err, shared.ErrTerminalState):
		writeError(w, http.StatusConflict, "terminal_state", err.Error())
	case errors.Is(err, shared.ErrUnauthorizedTransition):
		writeError(w, http.StatusForbidden, "unauthorized_transition", err.Error())
	case errors.Is(err, shared.ErrVersionConflict):
		writeError(w, http.StatusConflict, "version_conflict", err.Error())
	case errors.Is(err, shared.ErrUnknownRole):
		writeError(w, http.StatusBadRequest, "unknown_role", err.Error())
	case errors.Is(err, shared.ErrFacultyUnknown):
		writeError(w, http.StatusBadRequest, "unknown_faculty", err.Error())
	case shared.IsValidation(err):
		writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
	case shared.IsNotFound(err):
		writeError(w, http.StatusNotFound, "not_found", err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal_error",
			"an unexpected error occurred")
	}
}

// submissionView is the wire representation of a submission.
type submissionView struct {
	ID              string                       `json:"id"`
	StudentID       string                       `json:"student_id"`
	StudentName     string                       `json:"student_name"`
	Faculty         string                       `json:"faculty"`
	Semester        string                       `json:"semester"`
	AcademicYear    string                       `json:"academic_year"`
	Modules         []catalog.Module             `json:"modules"`
	TotalCredits    int                          `json:"total_credits"`
	Status          string                       `json:"status"`
	PendingRole     string                       `json:"pending_role,omitempty"`
	SubmittedAt     time.Time                    `json:"submitted_at"`
	ApprovalHistory []registration.ApprovalEntry `json:"approval_history"`
	Version         int64                        `json:"version"`
}

func viewOf(sub *registration.Submission) submissionView {
	view := submissionView{
		ID:              sub.ID,
		StudentID:       sub.StudentID,
		StudentName:     sub.StudentName,
		Faculty:         sub.Faculty.String(),
		Semester:        sub.Semester,
		AcademicYear:    sub.AcademicYear,
		Modules:         sub.Modules,
		TotalCredits:    sub.TotalCredits(),
		Status:          string(sub.Status),
		SubmittedAt:     sub.SubmittedAt,
		ApprovalHistory: sub.History(),
		Version:         sub.Version,
	}
	if role, ok := sub.CurrentStageRole(); ok {
		view.PendingRole = string(role)
	}
	return view
}

type createSubmissionRequest struct {
	StudentID    string   `json:"student_id"`
	StudentName  string   `json:"student_name"`
	Faculty      string   `json:"faculty"`
	Semester     string   `json:"semester"`
	AcademicYear string   `json:"academic_year"`
	ModuleIDs    []string `json:"module_ids"`
}

func (s *Server) handleCreateSubmission(w http.ResponseWriter, r *http.Request) {
	var req createSubmissionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "request body is not valid JSON")
		return
	}

	sub, err := s.deps.CreateSubmission.Handle(r.Context(), command.CreateSubmissionCommand{
		StudentID:    req.StudentID,
		StudentName:  req.StudentName,
		Faculty:      catalog.Faculty(req.Faculty),
		Semester:     req.Semester,
		AcademicYear: req.AcademicYear,
		ModuleIDs:    req.ModuleIDs,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, viewOf(sub))
}

func (s *Server) handleGetSubmission(w http.ResponseWriter, r *http.Request) {
	sub, err := s.deps.GetSubmission.Handle(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, viewOf(sub))
}

func (s *Server) handleGetStudentSubmission(w http.ResponseWriter, r *http.Request) {
	sub, err := s.deps.GetStudentSubmission.Handle(r.Context(), chi.URLParam(r, "studentID"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, viewOf(sub))
}

func (s *Server) handleGetHistory(w http.ResponseWriter, r *http.Request) {
	history, err := s.deps.GetApprovalHistory.Handle(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if history == nil {
		history = []registration.ApprovalEntry{}
	}
	writeJSON(w, http.StatusOK, history)
}

func (s *Server) handleGetQueue(w http.ResponseWriter, r *http.Request) {
	role := registration.Role(chi.URLParam(r, "role"))

	subs, err := s.deps.ListPendingForRole.Handle(r.Context(), role)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	views := make([]submissionView, len(subs))
	for i, sub := range subs {
		views[i] = viewOf(sub)
	}
	writeJSON(w, http.StatusOK, views)
}

type transitionRequest struct {
	Comments string `json:"comments,omitempty"`
	Reason   string `json:"reason,omitempty"`
}

// actingIdentity reads the approver identity from headers.
func actingIdentity(r *http.Request) (registration.Role, string, bool) {
	role := strings.TrimSpace(r.Header.Get(headerActingRole))
	user := strings.TrimSpace(r.Header.Get(headerActingUser))
	if role == "" || user == "" {
		return "", "", false
	}
	return registration.Role(role), user, true
}

func (s *Server) handleApprove(w http.ResponseWriter, r *http.Request) {
	role, user, ok := actingIdentity(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "missing_identity",
			"X-Acting-Role and X-Acting-User headers are required")
		return
	}

	var req transitionRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_json", "request body is not valid JSON")
			return
		}
	}

	sub, err := s.deps.ApproveSubmission.Handle(r.Context(), command.ApproveSubmissionCommand{
		SubmissionID: chi.URLParam(r, "id"),
		ActingRole:   role,
		ActingUser:   user,
		Comments:     req.Comments,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, viewOf(sub))
}

func (s *Server) handleReject(w http.ResponseWriter, r *http.Request) {
	role, user, ok := actingIdentity(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "missing_identity",
			"X-Acting-Role and X-Acting-User headers are required")
		return
	}

	var req transitionRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_json", "request body is not valid JSON")
			return
		}
	}

	sub, err := s.deps.RejectSubmission.Handle(r.Context(), command.RejectSubmissionCommand{
		SubmissionID: chi.URLParam(r, "id"),
		ActingRole:   role,
		ActingUser:   user,
		Reason:       req.Reason,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, viewOf(sub))
}
