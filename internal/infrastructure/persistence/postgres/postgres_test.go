package postgres

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/school-journal/journal/internal/domain/grade"
	"github.com/school-journal/journal/internal/domain/shared"
	"github.com/school-journal/journal/pkg/retry"
	"github.com/school-journal/journal/pkg/timeutil"
)

func TestBuildGradeFilter(t *testing.T) {
	from := timeutil.Date(2024, 9, 1)
	to := timeutil.Date(2024, 9, 30)

	tests := []struct {
		name      string
		filter    grade.Filter
		wantWhere string
		wantArgs  []any
	}{
		{"empty", grade.Filter{}, "", nil},
		{"student", grade.Filter{StudentID: 7}, " WHERE student_id = $1", []any{int64(7)}},
		{"subject", grade.Filter{SubjectID: 3}, " WHERE subject_id = $1", []any{int64(3)}},
		{"end date only", grade.Filter{EndDate: to}, " WHERE date <= $1", []any{to}},
		{
			"all conditions",
			grade.Filter{StudentID: 7, SubjectID: 3, StartDate: from, EndDate: to},
			" WHERE student_id = $1 AND subject_id = $2 AND date >= $3 AND date <= $4",
			[]any{int64(7), int64(3), from, to},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			where, args := buildGradeFilter(tt.filter)
			assert.Equal(t, tt.wantWhere, where)
			assert.Equal(t, tt.wantArgs, args)
		})
	}
}

func TestGradePageQuery(t *testing.T) {
	tests := []struct {
		name      string
		filter    grade.Filter
		page      shared.Page
		wantQuery string
		wantArgs  []any
	}{
		{
			"no filter",
			grade.Filter{},
			shared.Page{Skip: 0, Limit: 100},
			"SELECT " + gradeColumns + " FROM grades ORDER BY id OFFSET $1 LIMIT $2",
			[]any{0, 100},
		},
		{
			"paging follows filter placeholders",
			grade.Filter{StudentID: 2, SubjectID: 5},
			shared.Page{Skip: 10, Limit: 5},
			"SELECT " + gradeColumns + " FROM grades WHERE student_id = $1 AND subject_id = $2 ORDER BY id OFFSET $3 LIMIT $4",
			[]any{int64(2), int64(5), 10, 5},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			query, args := gradePageQuery(tt.filter, tt.page)
			assert.Equal(t, tt.wantQuery, query)
			assert.Equal(t, tt.wantArgs, args)
		})
	}
}

func TestMapGradeWriteError(t *testing.T) {
	subjectFK := &pgconn.PgError{Code: codeForeignKeyViolation, ConstraintName: "grades_subject_id_fkey"}
	studentFK := &pgconn.PgError{Code: codeForeignKeyViolation, ConstraintName: "grades_student_id_fkey"}
	rangeCheck := &pgconn.PgError{Code: codeCheckViolation, ConstraintName: "grades_value_range"}

	assert.ErrorIs(t, mapGradeWriteError("create", subjectFK), shared.ErrSubjectNotFound)
	assert.ErrorIs(t, mapGradeWriteError("create", studentFK), shared.ErrStudentNotFound)
	assert.ErrorIs(t, mapGradeWriteError("update", fmt.Errorf("exec: %w", studentFK)), shared.ErrStudentNotFound)
	assert.ErrorIs(t, mapGradeWriteError("update", rangeCheck), shared.ErrGradeOutOfRange)

	base := errors.New("connection reset")
	err := mapGradeWriteError("create", base)
	assert.ErrorIs(t, err, base)
	assert.EqualError(t, err, "failed to create grade: connection reset")
}

func TestIsFatalConnectError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"invalid url", fmt.Errorf("%w: bad port", ErrInvalidURL), true},
		{"wrong password", &pgconn.PgError{Code: codeInvalidPassword}, true},
		{"unknown role", fmt.Errorf("connect: %w", &pgconn.PgError{Code: codeInvalidAuthorization}), true},
		{"missing database", &pgconn.PgError{Code: codeInvalidCatalogName}, true},
		{"too many connections", &pgconn.PgError{Code: "53300"}, false},
		{"network", errors.New("dial tcp: connection refused"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsFatalConnectError(tt.err))
		})
	}
}

func TestConnectWithRetry_StopsOnInvalidURL(t *testing.T) {
	retries := 0
	r := retry.StartupRetrier(5, func(int, error, time.Duration) { retries++ })

	conn, err := ConnectWithRetry(context.Background(), r, "postgres://journal@localhost/journal?sslmode=bogus", PoolSettings{})
	require.Error(t, err)
	assert.Nil(t, conn)
	assert.ErrorIs(t, err, ErrInvalidURL)
	assert.False(t, retry.IsPermanent(err))
	assert.Zero(t, retries)
}
