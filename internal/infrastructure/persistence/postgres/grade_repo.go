package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/school-journal/journal/internal/domain/grade"
	"github.com/school-journal/journal/internal/domain/shared"
)

// GradeRepository implements grade.Repository for PostgreSQL.
type GradeRepository struct {
	conn *Connection
}

var _ grade.Repository = (*GradeRepository)(nil)

// NewGradeRepository creates a new GradeRepository.
func NewGradeRepository(conn *Connection) *GradeRepository {
	return &GradeRepository{conn: conn}
}

const gradeColumns = `id, student_id, subject_id, grade, date, created_at, updated_at`

// Create inserts a grade and sets its ID.
func (r *GradeRepository) Create(ctx context.Context, g *grade.Grade) error {
	query := `
		INSERT INTO grades (student_id, subject_id, grade, date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`

	var id int64
	err := r.conn.QueryRow(ctx, query,
		g.StudentID.Int64(),
		g.SubjectID.Int64(),
		int16(g.Value),
		g.Date,
		g.CreatedAt,
		g.UpdatedAt,
	).Scan(&id)
	if err != nil {
		return mapGradeWriteError("create", err)
	}

	g.ID = shared.ID(id)
	return nil
}

// GetByID returns a grade by ID.
func (r *GradeRepository) GetByID(ctx context.Context, id shared.ID) (*grade.Grade, error) {
	query := `SELECT ` + gradeColumns + ` FROM grades WHERE id = $1`
	return scanGrade(r.conn.QueryRow(ctx, query, id.Int64()))
}

// List returns a filtered page of grades ordered by ID.
func (r *GradeRepository) List(ctx context.Context, filter grade.Filter, page shared.Page) ([]*grade.Grade, error) {
	query, args := gradePageQuery(filter, page)
	return r.queryGrades(ctx, query, args...)
}

// ListAll returns every grade matching the filter ordered by ID.
func (r *GradeRepository) ListAll(ctx context.Context, filter grade.Filter) ([]*grade.Grade, error) {
	where, args := buildGradeFilter(filter)
	query := `SELECT ` + gradeColumns + ` FROM grades` + where + ` ORDER BY id`
	return r.queryGrades(ctx, query, args...)
}

// ListByStudent returns all grades of a student.
func (r *GradeRepository) ListByStudent(ctx context.Context, studentID shared.ID) ([]*grade.Grade, error) {
	return r.ListAll(ctx, grade.Filter{StudentID: studentID})
}

// Update saves a grade.
func (r *GradeRepository) Update(ctx context.Context, g *grade.Grade) error {
	query := `
		UPDATE grades SET
			student_id = $1,
			subject_id = $2,
			grade = $3,
			date = $4,
			updated_at = $5
		WHERE id = $6
	`

	tag, err := r.conn.Exec(ctx, query,
		g.StudentID.Int64(),
		g.SubjectID.Int64(),
		int16(g.Value),
		g.Date,
		g.UpdatedAt,
		g.ID.Int64(),
	)
	if err != nil {
		return mapGradeWriteError("update", err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrGradeNotFound
	}

	return nil
}

// Delete removes a grade.
func (r *GradeRepository) Delete(ctx context.Context, id shared.ID) error {
	tag, err := r.conn.Exec(ctx, `DELETE FROM grades WHERE id = $1`, id.Int64())
	if err != nil {
		return fmt.Errorf("failed to delete grade: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrGradeNotFound
	}
	return nil
}

func (r *GradeRepository) queryGrades(ctx context.Context, query string, args ...any) ([]*grade.Grade, error) {
	rows, err := r.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list grades: %w", err)
	}
	defer rows.Close()

	var grades []*grade.Grade
	for rows.Next() {
		g, err := scanGrade(rows)
		if err != nil {
			return nil, err
		}
		grades = append(grades, g)
	}

	return grades, rows.Err()
}

// buildGradeFilter renders the WHERE clause for a filter. Conditions are ANDed.
func buildGradeFilter(f grade.Filter) (string, []any) {
	var (
		conds []string
		args  []any
	)
	add := func(cond string, arg any) {
		args = append(args, arg)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}

	if f.StudentID.IsValid() {
		add("student_id = $%d", f.StudentID.Int64())
	}
	if f.SubjectID.IsValid() {
		add("subject_id = $%d", f.SubjectID.Int64())
	}
	if !f.StartDate.IsZero() {
		add("date >= $%d", f.StartDate)
	}
	if !f.EndDate.IsZero() {
		add("date <= $%d", f.EndDate)
	}

	if len(conds) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// gradePageQuery appends OFFSET and LIMIT placeholders after the filter's own.
func gradePageQuery(filter grade.Filter, page shared.Page) (string, []any) {
	where, args := buildGradeFilter(filter)
	args = append(args, page.Skip, page.Limit)

	query := fmt.Sprintf(`SELECT %s FROM grades%s ORDER BY id OFFSET $%d LIMIT $%d`,
		gradeColumns, where, len(args)-1, len(args))
	return query, args
}

// mapGradeWriteError translates constraint violations into domain errors.
func mapGradeWriteError(op string, err error) error {
	switch {
	case IsForeignKeyViolation(err):
		if strings.Contains(ConstraintName(err), "subject") {
			return shared.ErrSubjectNotFound
		}
		return shared.ErrStudentNotFound
	case IsCheckViolation(err):
		return shared.ErrGradeOutOfRange
	default:
		return fmt.Errorf("failed to %s grade: %w", op, err)
	}
}

func scanGrade(row pgx.Row) (*grade.Grade, error) {
	var (
		g                    grade.Grade
		id, studentID, subID int64
		value                int16
		date                 time.Time
	)

	err := row.Scan(&id, &studentID, &subID, &value, &date, &g.CreatedAt, &g.UpdatedAt)
	if err != nil {
		if IsNoRows(err) {
			return nil, shared.ErrGradeNotFound
		}
		return nil, fmt.Errorf("failed to scan grade: %w", err)
	}

	g.ID = shared.ID(id)
	g.StudentID = shared.ID(studentID)
	g.SubjectID = shared.ID(subID)
	g.Value = grade.Value(value)
	g.Date = date.UTC()
	return &g, nil
}
