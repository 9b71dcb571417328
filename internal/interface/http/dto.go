package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/school-journal/journal/internal/application/query"
	"github.com/school-journal/journal/internal/domain/grade"
	"github.com/school-journal/journal/internal/domain/shared"
	"github.com/school-journal/journal/internal/domain/student"
	"github.com/school-journal/journal/internal/domain/subject"
	"github.com/school-journal/journal/internal/domain/teacher"
	"github.com/school-journal/journal/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// REQUEST DECODING
// ══════════════════════════════════════════════════════════════════════════════

// invalidRequest builds a 422 error with a client-facing message.
func invalidRequest(format string, args ...any) error {
	return shared.NewDomainError("request", "Decode", shared.ErrInvalidFormat, fmt.Sprintf(format, args...))
}

// decodeJSON decodes the request body into dst.
func decodeJSON(r *http.Request, dst any) error {
	if r.Body == nil {
		return invalidRequest("request body is required")
	}

	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		var syntaxErr *json.SyntaxError
		var typeErr *json.UnmarshalTypeError
		var maxErr *http.MaxBytesError
		switch {
		case errors.Is(err, io.EOF):
			return invalidRequest("request body is required")
		case errors.As(err, &maxErr):
			return fmt.Errorf("decode body: %w", err)
		case errors.As(err, &syntaxErr):
			return invalidRequest("malformed JSON at offset %d", syntaxErr.Offset)
		case errors.As(err, &typeErr):
			return invalidRequest("field %s must be of type %s", typeErr.Field, typeErr.Type)
		default:
			return invalidRequest("malformed JSON body")
		}
	}
	return nil
}

// missing reports the first required field that is nil.
func missing(fields map[string]bool) error {
	names := make([]string, 0, len(fields))
	for name, present := range fields {
		if !present {
			names = append(names, name)
		}
	}
	if len(names) == 0 {
		return nil
	}
	slices.Sort(names)
	return invalidRequest("field required: %s", strings.Join(names, ", "))
}

// pathID parses the {id} path parameter.
func pathID(r *http.Request) (shared.ID, error) {
	raw := r.PathValue("id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, invalidRequest("id must be an integer, got %q", raw)
	}
	return shared.ID(id), nil
}

// queryInt parses an optional integer query parameter.
func queryInt(r *http.Request, key string, def int) (int, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, invalidRequest("%s must be an integer", key)
	}
	return v, nil
}

// queryID parses an optional ID query parameter. Zero means absent.
func queryID(r *http.Request, key string) (shared.ID, error) {
	v, err := queryInt(r, key, 0)
	return shared.ID(v), err
}

// queryDate parses an optional YYYY-MM-DD query parameter.
func queryDate(r *http.Request, key string) (time.Time, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return time.Time{}, nil
	}
	d, err := timeutil.ParseDate(raw)
	if err != nil {
		return time.Time{}, invalidRequest("%s must be a date in YYYY-MM-DD format", key)
	}
	return d, nil
}

// pageQuery parses skip and limit.
func pageQuery(r *http.Request) (query.PageQuery, error) {
	q := query.DefaultPageQuery()
	var err error
	if q.Skip, err = queryInt(r, "skip", q.Skip); err != nil {
		return query.PageQuery{}, err
	}
	if q.Limit, err = queryInt(r, "limit", q.Limit); err != nil {
		return query.PageQuery{}, err
	}
	return q, nil
}

// gradeFilter parses the grade list filters.
func gradeFilter(r *http.Request) (grade.Filter, error) {
	var (
		f   grade.Filter
		err error
	)
	if f.StudentID, err = queryID(r, "student_id"); err != nil {
		return f, err
	}
	if f.SubjectID, err = queryID(r, "subject_id"); err != nil {
		return f, err
	}
	if f.StartDate, err = queryDate(r, "start_date"); err != nil {
		return f, err
	}
	if f.EndDate, err = queryDate(r, "end_date"); err != nil {
		return f, err
	}
	return f, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// REQUEST BODIES
// ══════════════════════════════════════════════════════════════════════════════

// RegisterRequest is the body of POST /register/.
type RegisterRequest struct {
	Email    *string `json:"email"`
	FullName *string `json:"full_name"`
	Password *string `json:"password"`
}

func (req RegisterRequest) validate() error {
	return missing(map[string]bool{
		"email":     req.Email != nil,
		"full_name": req.FullName != nil,
		"password":  req.Password != nil,
	})
}

// StudentRequest is the body of student create and update.
type StudentRequest struct {
	FullName   *string `json:"full_name"`
	ClassGroup *string `json:"class_group"`
}

func (req StudentRequest) validate() error {
	return missing(map[string]bool{
		"full_name":   req.FullName != nil,
		"class_group": req.ClassGroup != nil,
	})
}

func (req StudentRequest) update() student.Update {
	return student.Update{FullName: *req.FullName, ClassGroup: *req.ClassGroup}
}

// SubjectRequest is the body of subject create and update.
type SubjectRequest struct {
	Name *string `json:"name"`
}

func (req SubjectRequest) validate() error {
	return missing(map[string]bool{"name": req.Name != nil})
}

func (req SubjectRequest) update() subject.Update {
	return subject.Update{Name: *req.Name}
}

// GradeRequest is the body of grade create and update.
type GradeRequest struct {
	StudentID *int64  `json:"student_id"`
	SubjectID *int64  `json:"subject_id"`
	Grade     *int    `json:"grade"`
	Date      *string `json:"date"`
}

func (req GradeRequest) update() (grade.Update, error) {
	if err := missing(map[string]bool{
		"student_id": req.StudentID != nil,
		"subject_id": req.SubjectID != nil,
		"grade":      req.Grade != nil,
		"date":       req.Date != nil,
	}); err != nil {
		return grade.Update{}, err
	}

	day, err := timeutil.ParseDate(*req.Date)
	if err != nil {
		return grade.Update{}, invalidRequest("date must be a date in YYYY-MM-DD format")
	}

	return grade.Update{
		StudentID: shared.ID(*req.StudentID),
		SubjectID: shared.ID(*req.SubjectID),
		Value:     *req.Grade,
		Date:      day,
	}, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// RESPONSE BODIES
// ══════════════════════════════════════════════════════════════════════════════

// TeacherResponse is the public view of a teacher.
type TeacherResponse struct {
	ID       int64  `json:"id"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	IsActive bool   `json:"is_active"`
}

func teacherResponse(t *teacher.Teacher) TeacherResponse {
	return TeacherResponse{
		ID:       t.ID.Int64(),
		Email:    t.Email.String(),
		FullName: t.FullName,
		IsActive: t.IsActive,
	}
}

// TokenResponse is the body of POST /token.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// StudentResponse is the public view of a student.
type StudentResponse struct {
	ID         int64  `json:"id"`
	FullName   string `json:"full_name"`
	ClassGroup string `json:"class_group"`
}

func studentResponse(s *student.Student) StudentResponse {
	return StudentResponse{ID: s.ID.Int64(), FullName: s.FullName, ClassGroup: s.ClassGroup}
}

// SubjectResponse is the public view of a subject.
type SubjectResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

func subjectResponse(s *subject.Subject) SubjectResponse {
	return SubjectResponse{ID: s.ID.Int64(), Name: s.Name}
}

// GradeResponse is the public view of a grade.
type GradeResponse struct {
	ID        int64  `json:"id"`
	StudentID int64  `json:"student_id"`
	SubjectID int64  `json:"subject_id"`
	Grade     int    `json:"grade"`
	Date      string `json:"date"`
}

func gradeResponse(g *grade.Grade) GradeResponse {
	return GradeResponse{
		ID:        g.ID.Int64(),
		StudentID: g.StudentID.Int64(),
		SubjectID: g.SubjectID.Int64(),
		Grade:     int(g.Value),
		Date:      timeutil.FormatDate(g.Date),
	}
}

// StatsResponse is the body of GET /students/{id}/stats.
type StatsResponse struct {
	StudentID    int64              `json:"student_id"`
	FullName     string             `json:"full_name"`
	ClassGroup   string             `json:"class_group"`
	AverageGrade float64            `json:"average_grade"`
	Subjects     map[string]float64 `json:"subjects"`
}

func mapSlice[T, R any](items []T, fn func(T) R) []R {
	out := make([]R, len(items))
	for i, item := range items {
		out[i] = fn(item)
	}
	return out
}
