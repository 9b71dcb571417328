package http

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/school-journal/journal/internal/application/command"
	"github.com/school-journal/journal/internal/application/query"
	"github.com/school-journal/journal/internal/domain/shared"
	"github.com/school-journal/journal/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// HEALTH & STATUS HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

// handleRoot serves basic API information.
func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"name":    s.deps.Name,
		"version": s.deps.Version,
		"endpoints": map[string]string{
			"health":   "/health",
			"token":    "/token",
			"students": "/students/",
			"subjects": "/subjects/",
			"grades":   "/grades/",
		},
	})
}

// handleHealth runs every registered check.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.deps.HealthChecker == nil {
		writeJSON(w, http.StatusOK, map[string]any{
			"healthy": true,
			"uptime":  s.Uptime().String(),
			"version": s.deps.Version,
		})
		return
	}

	status := s.deps.HealthChecker.Check(r.Context())
	status.Uptime = s.Uptime().String()
	if !status.Healthy {
		writeJSON(w, http.StatusServiceUnavailable, status)
		return
	}
	writeJSON(w, http.StatusOK, status)
}

// handleReady is the readiness probe.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.deps.HealthChecker != nil && !s.deps.HealthChecker.Check(r.Context()).Ready {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "not_ready"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

// handleLive is the liveness probe.
func (s *Server) handleLive(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "alive"})
}

// ══════════════════════════════════════════════════════════════════════════════
// AUTHENTICATION HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

// handleRegister creates a teacher account.
func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, r, err)
		return
	}

	t, err := s.deps.RegisterTeacher.Handle(r.Context(), command.RegisterTeacherCommand{
		Email:    *req.Email,
		FullName: *req.FullName,
		Password: *req.Password,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	logger.FromContext(r.Context()).Info("teacher registered", logger.Email(t.Email.String()))
	writeJSON(w, http.StatusCreated, teacherResponse(t))
}

// handleToken exchanges form-encoded credentials for an access token.
// The "username" field carries the email.
func (s *Server) handleToken(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeError(w, r, invalidRequest("malformed form body"))
		return
	}

	username := r.PostForm.Get("username")
	password := r.PostForm.Get("password")
	if err := missing(map[string]bool{
		"username": r.PostForm.Has("username"),
		"password": r.PostForm.Has("password"),
	}); err != nil {
		writeError(w, r, err)
		return
	}

	res, err := s.deps.Login.Handle(r.Context(), command.LoginCommand{Email: username, Password: password})
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, TokenResponse{
		AccessToken: res.Token.Value,
		TokenType:   res.Token.TokenType,
	})
}

// handleCurrentTeacher returns the authenticated teacher.
func (s *Server) handleCurrentTeacher(w http.ResponseWriter, r *http.Request) {
	t, ok := teacherFrom(r.Context())
	if !ok {
		writeError(w, r, shared.ErrCouldNotValidate)
		return
	}
	writeJSON(w, http.StatusOK, teacherResponse(t))
}

// ══════════════════════════════════════════════════════════════════════════════
// STUDENT HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

func (s *Server) handleCreateStudent(w http.ResponseWriter, r *http.Request) {
	var req StudentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, r, err)
		return
	}

	st, err := s.deps.Students.Create(r.Context(), command.CreateStudentCommand{
		FullName:   *req.FullName,
		ClassGroup: *req.ClassGroup,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, studentResponse(st))
}

func (s *Server) handleListStudents(w http.ResponseWriter, r *http.Request) {
	page, err := pageQuery(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	students, err := s.deps.Journal.ListStudents(r.Context(), page)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mapSlice(students, studentResponse))
}

func (s *Server) handleGetStudent(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	st, err := s.deps.Journal.GetStudent(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, studentResponse(st))
}

func (s *Server) handleUpdateStudent(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var req StudentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, r, err)
		return
	}

	st, err := s.deps.Students.Update(r.Context(), command.UpdateStudentCommand{
		StudentID: id,
		Update:    req.update(),
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, studentResponse(st))
}

func (s *Server) handleDeleteStudent(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	if err := s.deps.Students.Delete(r.Context(), command.DeleteStudentCommand{StudentID: id}); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageResponse{Message: "Student deleted successfully"})
}

// handleStudentStats returns the student's averages, or a message when
// the student has no grades yet.
func (s *Server) handleStudentStats(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	stats, err := s.deps.StudentStats.Handle(r.Context(), query.GetStudentStatsQuery{StudentID: id})
	if err != nil {
		writeError(w, r, err)
		return
	}

	if !stats.HasGrades {
		writeJSON(w, http.StatusOK, MessageResponse{Message: stats.Message})
		return
	}

	writeJSON(w, http.StatusOK, StatsResponse{
		StudentID:    stats.StudentID.Int64(),
		FullName:     stats.FullName,
		ClassGroup:   stats.ClassGroup,
		AverageGrade: stats.AverageGrade,
		Subjects:     stats.Subjects,
	})
}

// ══════════════════════════════════════════════════════════════════════════════
// SUBJECT HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

func (s *Server) handleCreateSubject(w http.ResponseWriter, r *http.Request) {
	var req SubjectRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, r, err)
		return
	}

	sub, err := s.deps.Subjects.Create(r.Context(), command.CreateSubjectCommand{Name: *req.Name})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, subjectResponse(sub))
}

func (s *Server) handleListSubjects(w http.ResponseWriter, r *http.Request) {
	page, err := pageQuery(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	subjects, err := s.deps.Journal.ListSubjects(r.Context(), page)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mapSlice(subjects, subjectResponse))
}

func (s *Server) handleGetSubject(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	sub, err := s.deps.Journal.GetSubject(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, subjectResponse(sub))
}

func (s *Server) handleUpdateSubject(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var req SubjectRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, r, err)
		return
	}

	sub, err := s.deps.Subjects.Update(r.Context(), command.UpdateSubjectCommand{
		SubjectID: id,
		Update:    req.update(),
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, subjectResponse(sub))
}

func (s *Server) handleDeleteSubject(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	if err := s.deps.Subjects.Delete(r.Context(), command.DeleteSubjectCommand{SubjectID: id}); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageResponse{Message: "Subject deleted successfully"})
}

// ══════════════════════════════════════════════════════════════════════════════
// GRADE HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

func (s *Server) handleCreateGrade(w http.ResponseWriter, r *http.Request) {
	var req GradeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	u, err := req.update()
	if err != nil {
		writeError(w, r, err)
		return
	}

	g, err := s.deps.Grades.Create(r.Context(), command.CreateGradeCommand{Grade: u})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, gradeResponse(g))
}

// handleListGrades supports student_id, subject_id, start_date and end_date
// filters combined with AND.
func (s *Server) handleListGrades(w http.ResponseWriter, r *http.Request) {
	f, err := gradeFilter(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	page, err := pageQuery(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	grades, err := s.deps.Journal.ListGrades(r.Context(), query.ListGradesQuery{
		StudentID: f.StudentID,
		SubjectID: f.SubjectID,
		StartDate: f.StartDate,
		EndDate:   f.EndDate,
		Page:      page,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mapSlice(grades, gradeResponse))
}

func (s *Server) handleGetGrade(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	g, err := s.deps.Journal.GetGrade(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, gradeResponse(g))
}

func (s *Server) handleUpdateGrade(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var req GradeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	u, err := req.update()
	if err != nil {
		writeError(w, r, err)
		return
	}

	g, err := s.deps.Grades.Update(r.Context(), command.UpdateGradeCommand{GradeID: id, Update: u})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, gradeResponse(g))
}

func (s *Server) handleDeleteGrade(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	if err := s.deps.Grades.Delete(r.Context(), command.DeleteGradeCommand{GradeID: id}); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageResponse{Message: "Grade deleted successfully"})
}

// handleExportGrades streams the filtered journal as a spreadsheet.
// The document is rendered into memory first so failures still produce a
// JSON error instead of a truncated file.
func (s *Server) handleExportGrades(w http.ResponseWriter, r *http.Request) {
	f, err := gradeFilter(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var buf bytes.Buffer
	if err := s.deps.ExportGrades.Handle(r.Context(), query.ExportGradesQuery{Filter: f}, &buf); err != nil {
		writeError(w, r, err)
		return
	}

	filename := fmt.Sprintf("grades_%s%s", time.Now().UTC().Format("20060102_150405"), s.deps.ExportGrades.FileExtension())
	w.Header().Set("Content-Type", s.deps.ExportGrades.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}
