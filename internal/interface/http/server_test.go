package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"golang.org/x/crypto/bcrypt"

	"github.com/school-journal/journal/config"
	"github.com/school-journal/journal/internal/application/command"
	"github.com/school-journal/journal/internal/application/query"
	"github.com/school-journal/journal/internal/infrastructure/export"
	"github.com/school-journal/journal/internal/infrastructure/persistence/memory"
	"github.com/school-journal/journal/internal/infrastructure/security"
	"github.com/school-journal/journal/internal/interface/http/handlers"
)

// ══════════════════════════════════════════════════════════════════════════════
// TEST HARNESS
// ══════════════════════════════════════════════════════════════════════════════

type testAPI struct {
	t        *testing.T
	handler  http.Handler
	features *config.FeatureFlags
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()

	store := memory.NewStore()
	hasher := security.NewBcryptHasher(bcrypt.MinCost)
	tokens, err := security.NewJWTService(security.TokenConfig{Secret: "test-secret", TTL: 30 * time.Minute})
	require.NoError(t, err)

	features := config.LoadFeatureFlags()
	require.NoError(t, features.SetEnabled(config.FeatureAuthProtectJournal, false))
	require.NoError(t, features.SetEnabled(config.FeatureGradesExport, true))
	require.NoError(t, features.SetEnabled(config.FeatureStatsRoundSubjectAverages, false))

	health := handlers.NewCompositeHealthChecker("test")
	health.AddCheck("database", handlers.PingCheck(store))

	cfg := DefaultConfig()
	cfg.MaxBodyBytes = 4 << 10

	srv := NewServer(cfg, Dependencies{
		RegisterTeacher: command.NewRegisterTeacherHandler(store.Teachers(), hasher),
		Login:           command.NewLoginHandler(store.Teachers(), hasher, tokens),
		Students:        command.NewStudentHandler(store.Students()),
		Subjects:        command.NewSubjectHandler(store.Subjects()),
		Grades:          command.NewGradeHandler(store.Grades(), store.Students(), store.Subjects()),
		CurrentTeacher:  query.NewGetCurrentTeacherHandler(tokens, store.Teachers(), nil, nil),
		Journal:         query.NewJournalReader(store.Students(), store.Subjects(), store.Grades()),
		StudentStats: query.NewGetStudentStatsHandler(store.Students(), store.Subjects(), store.Grades(), func() bool {
			return features.IsEnabled(config.FeatureStatsRoundSubjectAverages)
		}),
		ExportGrades:  query.NewExportGradesHandler(store.Grades(), store.Students(), store.Subjects(), export.NewXLSXWriter()),
		Features:      features,
		HealthChecker: health,
		Version:       "test",
	})

	return &testAPI{t: t, handler: srv.Handler(), features: features}
}

func (a *testAPI) do(method, path string, body io.Reader, header http.Header) *httptest.ResponseRecorder {
	a.t.Helper()
	req := httptest.NewRequest(method, path, body)
	for k, v := range header {
		req.Header[k] = v
	}
	rec := httptest.NewRecorder()
	a.handler.ServeHTTP(rec, req)
	return rec
}

func (a *testAPI) json(method, path string, body any) *httptest.ResponseRecorder {
	a.t.Helper()
	var r io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(a.t, err)
		r = bytes.NewReader(raw)
	}
	return a.do(method, path, r, http.Header{"Content-Type": {"application/json"}})
}

func (a *testAPI) authJSON(method, path, token string, body any) *httptest.ResponseRecorder {
	a.t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(a.t, err)
	return a.do(method, path, bytes.NewReader(raw), http.Header{
		"Content-Type":  {"application/json"},
		"Authorization": {"Bearer " + token},
	})
}

func (a *testAPI) token(email, password string) *httptest.ResponseRecorder {
	a.t.Helper()
	form := url.Values{"username": {email}, "password": {password}}
	return a.do(http.MethodPost, "/token", strings.NewReader(form.Encode()), http.Header{
		"Content-Type": {"application/x-www-form-urlencoded"},
	})
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	return decode[ErrorResponse](t, rec).Error.Code
}

func (a *testAPI) createStudent(name, group string) StudentResponse {
	a.t.Helper()
	rec := a.json(http.MethodPost, "/students/", map[string]string{"full_name": name, "class_group": group})
	require.Equal(a.t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode[StudentResponse](a.t, rec)
}

func (a *testAPI) createSubject(name string) SubjectResponse {
	a.t.Helper()
	rec := a.json(http.MethodPost, "/subjects/", map[string]string{"name": name})
	require.Equal(a.t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode[SubjectResponse](a.t, rec)
}

func (a *testAPI) createGrade(studentID, subjectID int64, value int, date string) GradeResponse {
	a.t.Helper()
	rec := a.json(http.MethodPost, "/grades/", map[string]any{
		"student_id": studentID, "subject_id": subjectID, "grade": value, "date": date,
	})
	require.Equal(a.t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode[GradeResponse](a.t, rec)
}

// ══════════════════════════════════════════════════════════════════════════════
// AUTHENTICATION
// ══════════════════════════════════════════════════════════════════════════════

func TestAuthFlow(t *testing.T) {
	api := newTestAPI(t)

	rec := api.json(http.MethodPost, "/register/", map[string]string{
		"email": "Teacher@School.kz", "full_name": "Aigerim Nurlanova", "password": "secret",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode[TeacherResponse](t, rec)
	assert.Equal(t, "teacher@school.kz", created.Email)
	assert.True(t, created.IsActive)
	assert.NotContains(t, rec.Body.String(), "password")

	rec = api.json(http.MethodPost, "/register", map[string]string{
		"email": "teacher@school.kz", "full_name": "Someone Else", "password": "x",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "already_exists", errorCode(t, rec))

	rec = api.token("teacher@school.kz", "secret")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	tok := decode[TokenResponse](t, rec)
	assert.Equal(t, "bearer", tok.TokenType)
	assert.NotEmpty(t, tok.AccessToken)
	assert.Equal(t, "no-store, no-cache, must-revalidate, max-age=0", rec.Header().Get("Cache-Control"))

	rec = api.do(http.MethodGet, "/teachers/me/", nil, http.Header{"Authorization": {"Bearer " + tok.AccessToken}})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, created, decode[TeacherResponse](t, rec))
}

func TestToken_Failures(t *testing.T) {
	api := newTestAPI(t)
	rec := api.json(http.MethodPost, "/register/", map[string]string{
		"email": "t@school.kz", "full_name": "T", "password": "secret",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	wrongPassword := api.token("t@school.kz", "nope")
	unknownEmail := api.token("ghost@school.kz", "secret")

	for _, rec := range []*httptest.ResponseRecorder{wrongPassword, unknownEmail} {
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "Bearer", rec.Header().Get("WWW-Authenticate"))
	}
	assert.Equal(t, wrongPassword.Body.String(), unknownEmail.Body.String())

	rec = api.do(http.MethodPost, "/token", strings.NewReader("username=t@school.kz"), http.Header{
		"Content-Type": {"application/x-www-form-urlencoded"},
	})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestCurrentTeacher_Unauthorized(t *testing.T) {
	api := newTestAPI(t)

	tests := []struct {
		name   string
		header http.Header
	}{
		{"no header", nil},
		{"wrong scheme", http.Header{"Authorization": {"Basic abc"}}},
		{"garbage token", http.Header{"Authorization": {"Bearer not-a-jwt"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := api.do(http.MethodGet, "/teachers/me", nil, tt.header)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Equal(t, "unauthorized", errorCode(t, rec))
		})
	}
}

func TestRegister_Validation(t *testing.T) {
	api := newTestAPI(t)

	tests := []struct {
		name string
		body any
	}{
		{"missing password", map[string]string{"email": "a@b.kz", "full_name": "A"}},
		{"invalid email", map[string]string{"email": "nope", "full_name": "A", "password": "x"}},
		{"blank name", map[string]string{"email": "a@b.kz", "full_name": "  ", "password": "x"}},
		{"wrong type", map[string]any{"email": 1, "full_name": "A", "password": "x"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := api.json(http.MethodPost, "/register", tt.body)
			assert.Equal(t, http.StatusUnprocessableEntity, rec.Code, rec.Body.String())
			assert.Equal(t, "validation_error", errorCode(t, rec))
		})
	}

	rec := api.do(http.MethodPost, "/register", strings.NewReader("{"), nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestTeacherRouteAliases(t *testing.T) {
	api := newTestAPI(t)

	rec := api.json(http.MethodPost, "/teachers/register/", map[string]string{
		"email": "alias@school.kz", "full_name": "Alias", "password": "secret",
	})
	assert.Equal(t, http.StatusCreated, rec.Code)

	require.NoError(t, api.features.SetEnabled(config.FeatureAPITeacherRoutes, false))
	rec = api.json(http.MethodPost, "/teachers/register/", map[string]string{
		"email": "other@school.kz", "full_name": "Other", "password": "secret",
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

// ══════════════════════════════════════════════════════════════════════════════
// STUDENTS & SUBJECTS
// ══════════════════════════════════════════════════════════════════════════════

func TestStudentCRUD(t *testing.T) {
	api := newTestAPI(t)

	st := api.createStudent("Ivan Petrov", "10A")
	assert.Equal(t, "10A", st.ClassGroup)

	path := fmt.Sprintf("/students/%d", st.ID)

	rec := api.json(http.MethodGet, path, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, st, decode[StudentResponse](t, rec))

	rec = api.json(http.MethodPut, path+"/", map[string]string{"full_name": "Ivan Petrov", "class_group": "11B"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "11B", decode[StudentResponse](t, rec).ClassGroup)

	rec = api.json(http.MethodPut, path, map[string]string{"full_name": "Ivan Petrov"})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = api.json(http.MethodDelete, path, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Student deleted successfully", decode[MessageResponse](t, rec).Message)

	rec = api.json(http.MethodGet, path, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Student not found", decode[ErrorResponse](t, rec).Error.Message)

	rec = api.json(http.MethodGet, "/students/abc", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestListStudents_Pagination(t *testing.T) {
	api := newTestAPI(t)
	for i := 0; i < 3; i++ {
		api.createStudent(fmt.Sprintf("Student %d", i), "9A")
	}

	rec := api.json(http.MethodGet, "/students/?skip=1&limit=1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	page := decode[[]StudentResponse](t, rec)
	require.Len(t, page, 1)
	assert.Equal(t, "Student 1", page[0].FullName)

	rec = api.json(http.MethodGet, "/students?skip=10", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())

	for _, q := range []string{"skip=-1", "limit=0", "limit=x"} {
		rec = api.json(http.MethodGet, "/students?"+q, nil)
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code, q)
	}
}

func TestSubjects(t *testing.T) {
	api := newTestAPI(t)

	math := api.createSubject("Math")

	rec := api.json(http.MethodPost, "/subjects", map[string]string{"name": "Math"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Subject already exists", decode[ErrorResponse](t, rec).Error.Message)

	st := api.createStudent("Ivan", "10A")
	api.createGrade(st.ID, math.ID, 5, "2024-01-10")

	rec = api.json(http.MethodDelete, fmt.Sprintf("/subjects/%d", math.ID), nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decode[ErrorResponse](t, rec).Error.Message, "Delete grades first")

	physics := api.createSubject("Physics")
	rec = api.json(http.MethodPut, fmt.Sprintf("/subjects/%d", physics.ID), map[string]string{"name": "Math"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = api.json(http.MethodDelete, fmt.Sprintf("/subjects/%d", physics.ID), nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = api.json(http.MethodDelete, "/subjects/999", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

// ══════════════════════════════════════════════════════════════════════════════
// GRADES
// ══════════════════════════════════════════════════════════════════════════════

func TestGrades(t *testing.T) {
	api := newTestAPI(t)
	st := api.createStudent("Ivan", "10A")
	sub := api.createSubject("Math")

	g := api.createGrade(st.ID, sub.ID, 4, "2024-01-10")
	assert.Equal(t, "2024-01-10", g.Date)

	tests := []struct {
		name   string
		body   map[string]any
		status int
	}{
		{"out of range", map[string]any{"student_id": st.ID, "subject_id": sub.ID, "grade": 6, "date": "2024-01-10"}, http.StatusBadRequest},
		{"unknown student", map[string]any{"student_id": 999, "subject_id": sub.ID, "grade": 3, "date": "2024-01-10"}, http.StatusNotFound},
		{"unknown subject", map[string]any{"student_id": st.ID, "subject_id": 999, "grade": 3, "date": "2024-01-10"}, http.StatusNotFound},
		{"bad date", map[string]any{"student_id": st.ID, "subject_id": sub.ID, "grade": 3, "date": "10.01.2024"}, http.StatusUnprocessableEntity},
		{"missing grade", map[string]any{"student_id": st.ID, "subject_id": sub.ID, "date": "2024-01-10"}, http.StatusUnprocessableEntity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := api.json(http.MethodPost, "/grades", tt.body)
			assert.Equal(t, tt.status, rec.Code, rec.Body.String())
		})
	}

	path := fmt.Sprintf("/grades/%d", g.ID)
	rec := api.json(http.MethodPut, path, map[string]any{
		"student_id": st.ID, "subject_id": sub.ID, "grade": 5, "date": "2024-01-11",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 5, decode[GradeResponse](t, rec).Grade)

	rec = api.json(http.MethodPut, "/grades/999", map[string]any{
		"student_id": 999, "subject_id": sub.ID, "grade": 5, "date": "2024-01-11",
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Grade not found", decode[ErrorResponse](t, rec).Error.Message)

	rec = api.json(http.MethodDelete, path, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	rec = api.json(http.MethodGet, path, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListGrades_Filters(t *testing.T) {
	api := newTestAPI(t)
	a := api.createStudent("A", "10A")
	b := api.createStudent("B", "10A")
	math := api.createSubject("Math")
	art := api.createSubject("Art")

	api.createGrade(a.ID, math.ID, 5, "2024-01-01")
	api.createGrade(a.ID, art.ID, 4, "2024-01-15")
	api.createGrade(b.ID, math.ID, 3, "2024-02-01")

	tests := []struct {
		query string
		want  int
	}{
		{"", 3},
		{fmt.Sprintf("student_id=%d", a.ID), 2},
		{fmt.Sprintf("subject_id=%d", math.ID), 2},
		{fmt.Sprintf("student_id=%d&subject_id=%d", a.ID, math.ID), 1},
		{"start_date=2024-01-10", 2},
		{"end_date=2024-01-15", 2},
		{"start_date=2024-01-15&end_date=2024-01-15", 1},
		{"start_date=2024-03-01&end_date=2024-01-01", 0},
		{"limit=1", 1},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			rec := api.json(http.MethodGet, "/grades/?"+tt.query, nil)
			require.Equal(t, http.StatusOK, rec.Code)
			assert.Len(t, decode[[]GradeResponse](t, rec), tt.want)
		})
	}

	rec := api.json(http.MethodGet, "/grades?start_date=yesterday", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestDeleteStudent_CascadesGrades(t *testing.T) {
	api := newTestAPI(t)
	st := api.createStudent("Ivan", "10A")
	sub := api.createSubject("Math")
	api.createGrade(st.ID, sub.ID, 5, "2024-01-10")

	rec := api.json(http.MethodDelete, fmt.Sprintf("/students/%d", st.ID), nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = api.json(http.MethodGet, "/grades", nil)
	assert.JSONEq(t, "[]", rec.Body.String())

	rec = api.json(http.MethodDelete, fmt.Sprintf("/subjects/%d", sub.ID), nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

// ══════════════════════════════════════════════════════════════════════════════
// STATISTICS & EXPORT
// ══════════════════════════════════════════════════════════════════════════════

func TestStudentStats(t *testing.T) {
	api := newTestAPI(t)
	st := api.createStudent("Ivan", "10A")
	math := api.createSubject("Math")
	art := api.createSubject("Art")

	path := fmt.Sprintf("/students/%d/stats", st.ID)

	rec := api.json(http.MethodGet, path, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"No grades found for this student"}`, rec.Body.String())

	api.createGrade(st.ID, math.ID, 5, "2024-01-10")
	api.createGrade(st.ID, math.ID, 4, "2024-01-11")
	api.createGrade(st.ID, art.ID, 5, "2024-01-12")

	rec = api.json(http.MethodGet, path+"/", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	stats := decode[StatsResponse](t, rec)
	assert.Equal(t, 4.67, stats.AverageGrade)
	assert.Equal(t, map[string]float64{"Math": 4.5, "Art": 5}, stats.Subjects)
	assert.Equal(t, "10A", stats.ClassGroup)

	rec = api.json(http.MethodGet, "/students/999/stats", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestExportGrades(t *testing.T) {
	api := newTestAPI(t)
	st := api.createStudent("Ivan", "10A")
	sub := api.createSubject("Math")
	api.createGrade(st.ID, sub.ID, 5, "2024-01-10")

	rec := api.json(http.MethodGet, "/grades/export", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, export.ContentType, rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), ".xlsx")

	f, err := excelize.OpenReader(rec.Body)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(export.SheetName)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"2024-01-10", "Ivan", "10A", "Math", "5"}, rows[1])

	require.NoError(t, api.features.SetEnabled(config.FeatureGradesExport, false))
	rec = api.json(http.MethodGet, "/grades/export", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

// ══════════════════════════════════════════════════════════════════════════════
// PROTECTION & INFRASTRUCTURE
// ══════════════════════════════════════════════════════════════════════════════

func TestProtectJournal(t *testing.T) {
	api := newTestAPI(t)
	require.NoError(t, api.features.SetEnabled(config.FeatureAuthProtectJournal, true))

	rec := api.json(http.MethodGet, "/students", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = api.json(http.MethodPost, "/register", map[string]string{
		"email": "t@school.kz", "full_name": "T", "password": "secret",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	tok := decode[TokenResponse](t, api.token("t@school.kz", "secret"))

	rec = api.authJSON(http.MethodPost, "/students", tok.AccessToken, map[string]string{
		"full_name": "Ivan", "class_group": "10A",
	})
	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestMiddleware(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(http.MethodGet, "/live", nil, http.Header{"X-Request-Id": {"req-1"}})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "req-1", rec.Header().Get("X-Request-ID"))
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))

	rec = api.do(http.MethodGet, "/live", nil, nil)
	assert.Len(t, rec.Header().Get("X-Request-ID"), 36)

	big := strings.Repeat("x", 8<<10)
	rec = api.json(http.MethodPost, "/subjects", map[string]string{"name": big})
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestHealthAndMetrics(t *testing.T) {
	api := newTestAPI(t)

	rec := api.json(http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	status := decode[handlers.HealthStatus](t, rec)
	assert.True(t, status.Healthy)
	assert.Contains(t, status.Checks, "database")

	rec = api.json(http.MethodGet, "/ready", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	api.json(http.MethodGet, "/students/", nil)

	rec = api.json(http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "journal_http_requests_total")
	assert.Contains(t, body, `route="GET /students/{$}"`)
}

func TestMetrics_InFlightReleasedOnAbort(t *testing.T) {
	srv := NewServer(DefaultConfig(), Dependencies{})
	aborting := srv.observeMiddleware(srv.recoveryMiddleware(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic(http.ErrAbortHandler)
	})))

	for range 3 {
		assert.PanicsWithValue(t, http.ErrAbortHandler, func() {
			aborting.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/students/", nil))
		})
	}

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	// Only the scrape itself is in flight.
	assert.Contains(t, rec.Body.String(), "journal_http_requests_in_flight 1\n")
}

func TestRoot(t *testing.T) {
	api := newTestAPI(t)

	rec := api.json(http.MethodGet, "/", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "/students/")

	rec = api.json(http.MethodGet, "/nowhere", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
