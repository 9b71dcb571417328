package postgres

import (
	"context"
	"fmt"

	"github.com/school-journal/journal/internal/domain/shared"
	"github.com/school-journal/journal/internal/domain/teacher"
)

// ══════════════════════════════════════════════════════════════════════════════
// TEACHER REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// TeacherRepository implements teacher.Repository for PostgreSQL.
type TeacherRepository struct {
	conn *Connection
}

var _ teacher.Repository = (*TeacherRepository)(nil)

// NewTeacherRepository creates a new TeacherRepository.
func NewTeacherRepository(conn *Connection) *TeacherRepository {
	return &TeacherRepository{conn: conn}
}

// Create inserts a teacher and sets its ID.
func (r *TeacherRepository) Create(ctx context.Context, t *teacher.Teacher) error {
	query := `
		INSERT INTO teachers (email, full_name, password_hash, is_active, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`

	var id int64
	err := r.conn.QueryRow(ctx, query,
		t.Email.String(),
		t.FullName,
		t.PasswordHash,
		t.IsActive,
		t.CreatedAt,
	).Scan(&id)
	if err != nil {
		if IsUniqueViolation(err) {
			return shared.ErrEmailAlreadyExists
		}
		return fmt.Errorf("failed to create teacher: %w", err)
	}

	t.ID = shared.ID(id)
	return nil
}

// GetByEmail returns a teacher by normalized email.
func (r *TeacherRepository) GetByEmail(ctx context.Context, email teacher.Email) (*teacher.Teacher, error) {
	query := `
		SELECT id, email, full_name, password_hash, is_active, created_at
		FROM teachers
		WHERE email = $1
	`

	var (
		t    teacher.Teacher
		id   int64
		addr string
	)
	err := r.conn.QueryRow(ctx, query, email.String()).Scan(
		&id, &addr, &t.FullName, &t.PasswordHash, &t.IsActive, &t.CreatedAt,
	)
	if err != nil {
		if IsNoRows(err) {
			return nil, shared.ErrTeacherNotFound
		}
		return nil, fmt.Errorf("failed to get teacher: %w", err)
	}

	t.ID = shared.ID(id)
	t.Email = teacher.Email(addr)
	return &t, nil
}

// ExistsByEmail checks whether the email is taken.
func (r *TeacherRepository) ExistsByEmail(ctx context.Context, email teacher.Email) (bool, error) {
	var exists bool
	err := r.conn.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM teachers WHERE email = $1)`, email.String()).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check teacher existence: %w", err)
	}
	return exists, nil
}
