package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/school-journal/journal/internal/domain/shared"
	"github.com/school-journal/journal/internal/domain/student"
)

// ══════════════════════════════════════════════════════════════════════════════
// STUDENT REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// StudentRepository implements student.Repository for PostgreSQL.
type StudentRepository struct {
	conn *Connection
}

var _ student.Repository = (*StudentRepository)(nil)

// NewStudentRepository creates a new StudentRepository.
func NewStudentRepository(conn *Connection) *StudentRepository {
	return &StudentRepository{conn: conn}
}

const studentColumns = `id, full_name, class_group, created_at, updated_at`

// Create inserts a student and sets its ID.
func (r *StudentRepository) Create(ctx context.Context, s *student.Student) error {
	query := `
		INSERT INTO students (full_name, class_group, created_at, updated_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`

	var id int64
	if err := r.conn.QueryRow(ctx, query, s.FullName, s.ClassGroup, s.CreatedAt, s.UpdatedAt).Scan(&id); err != nil {
		return fmt.Errorf("failed to create student: %w", err)
	}

	s.ID = shared.ID(id)
	return nil
}

// GetByID returns a student by ID.
func (r *StudentRepository) GetByID(ctx context.Context, id shared.ID) (*student.Student, error) {
	query := `SELECT ` + studentColumns + ` FROM students WHERE id = $1`
	return r.scanStudent(r.conn.QueryRow(ctx, query, id.Int64()))
}

// GetByIDs returns the students with the given IDs in one query.
func (r *StudentRepository) GetByIDs(ctx context.Context, ids []shared.ID) (map[shared.ID]*student.Student, error) {
	result := make(map[shared.ID]*student.Student, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	raw := make([]int64, len(ids))
	for i, id := range ids {
		raw[i] = id.Int64()
	}

	query := `SELECT ` + studentColumns + ` FROM students WHERE id = ANY($1)`
	rows, err := r.conn.Query(ctx, query, raw)
	if err != nil {
		return nil, fmt.Errorf("failed to get students: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		s, err := r.scanStudent(rows)
		if err != nil {
			return nil, err
		}
		result[s.ID] = s
	}

	return result, rows.Err()
}

// List returns a page of students ordered by ID.
func (r *StudentRepository) List(ctx context.Context, page shared.Page) ([]*student.Student, error) {
	query := `SELECT ` + studentColumns + ` FROM students ORDER BY id OFFSET $1 LIMIT $2`

	rows, err := r.conn.Query(ctx, query, page.Skip, page.Limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list students: %w", err)
	}
	defer rows.Close()

	students := make([]*student.Student, 0, page.Limit)
	for rows.Next() {
		s, err := r.scanStudent(rows)
		if err != nil {
			return nil, err
		}
		students = append(students, s)
	}

	return students, rows.Err()
}

// Update saves a student's mutable fields.
func (r *StudentRepository) Update(ctx context.Context, s *student.Student) error {
	query := `
		UPDATE students SET
			full_name = $1,
			class_group = $2,
			updated_at = $3
		WHERE id = $4
	`

	tag, err := r.conn.Exec(ctx, query, s.FullName, s.ClassGroup, s.UpdatedAt, s.ID.Int64())
	if err != nil {
		return fmt.Errorf("failed to update student: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrStudentNotFound
	}

	return nil
}

// Delete removes the student's grades and then the student in one transaction.
func (r *StudentRepository) Delete(ctx context.Context, id shared.ID) error {
	return r.conn.WithTx(ctx, DefaultTxOptions(), func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM grades WHERE student_id = $1`, id.Int64()); err != nil {
			return fmt.Errorf("failed to delete student grades: %w", err)
		}

		tag, err := tx.Exec(ctx, `DELETE FROM students WHERE id = $1`, id.Int64())
		if err != nil {
			return fmt.Errorf("failed to delete student: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return shared.ErrStudentNotFound
		}
		return nil
	})
}

// Exists checks if a student exists.
func (r *StudentRepository) Exists(ctx context.Context, id shared.ID) (bool, error) {
	var exists bool
	err := r.conn.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM students WHERE id = $1)`, id.Int64()).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check student existence: %w", err)
	}
	return exists, nil
}

// scanStudent scans a row into a Student.
func (r *StudentRepository) scanStudent(row pgx.Row) (*student.Student, error) {
	var (
		s  student.Student
		id int64
	)

	err := row.Scan(&id, &s.FullName, &s.ClassGroup, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if IsNoRows(err) {
			return nil, shared.ErrStudentNotFound
		}
		return nil, fmt.Errorf("failed to scan student: %w", err)
	}

	s.ID = shared.ID(id)
	return &s, nil
}
