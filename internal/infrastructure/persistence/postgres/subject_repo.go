package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/school-journal/journal/internal/domain/shared"
	"github.com/school-journal/journal/internal/domain/subject"
)

// SubjectRepository implements subject.Repository for PostgreSQL.
type SubjectRepository struct {
	conn *Connection
}

var _ subject.Repository = (*SubjectRepository)(nil)

// NewSubjectRepository creates a new SubjectRepository.
func NewSubjectRepository(conn *Connection) *SubjectRepository {
	return &SubjectRepository{conn: conn}
}

const subjectColumns = `id, name, created_at, updated_at`

// Create inserts a subject and sets its ID.
func (r *SubjectRepository) Create(ctx context.Context, s *subject.Subject) error {
	query := `
		INSERT INTO subjects (name, created_at, updated_at)
		VALUES ($1, $2, $3)
		RETURNING id
	`

	var id int64
	if err := r.conn.QueryRow(ctx, query, s.Name, s.CreatedAt, s.UpdatedAt).Scan(&id); err != nil {
		if IsUniqueViolation(err) {
			return shared.ErrSubjectAlreadyExists
		}
		return fmt.Errorf("failed to create subject: %w", err)
	}

	s.ID = shared.ID(id)
	return nil
}

// GetByID returns a subject by ID.
func (r *SubjectRepository) GetByID(ctx context.Context, id shared.ID) (*subject.Subject, error) {
	query := `SELECT ` + subjectColumns + ` FROM subjects WHERE id = $1`
	return scanSubject(r.conn.QueryRow(ctx, query, id.Int64()))
}

// GetByIDs returns the subjects with the given IDs in one query.
func (r *SubjectRepository) GetByIDs(ctx context.Context, ids []shared.ID) (map[shared.ID]*subject.Subject, error) {
	result := make(map[shared.ID]*subject.Subject, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	raw := make([]int64, len(ids))
	for i, id := range ids {
		raw[i] = id.Int64()
	}

	query := `SELECT ` + subjectColumns + ` FROM subjects WHERE id = ANY($1)`
	rows, err := r.conn.Query(ctx, query, raw)
	if err != nil {
		return nil, fmt.Errorf("failed to get subjects: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		s, err := scanSubject(rows)
		if err != nil {
			return nil, err
		}
		result[s.ID] = s
	}

	return result, rows.Err()
}

// List returns a page of subjects ordered by ID.
func (r *SubjectRepository) List(ctx context.Context, page shared.Page) ([]*subject.Subject, error) {
	query := `SELECT ` + subjectColumns + ` FROM subjects ORDER BY id OFFSET $1 LIMIT $2`

	rows, err := r.conn.Query(ctx, query, page.Skip, page.Limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list subjects: %w", err)
	}
	defer rows.Close()

	subjects := make([]*subject.Subject, 0, page.Limit)
	for rows.Next() {
		s, err := scanSubject(rows)
		if err != nil {
			return nil, err
		}
		subjects = append(subjects, s)
	}

	return subjects, rows.Err()
}

// Update saves a subject's name.
func (r *SubjectRepository) Update(ctx context.Context, s *subject.Subject) error {
	query := `UPDATE subjects SET name = $1, updated_at = $2 WHERE id = $3`

	tag, err := r.conn.Exec(ctx, query, s.Name, s.UpdatedAt, s.ID.Int64())
	if err != nil {
		if IsUniqueViolation(err) {
			return shared.ErrSubjectAlreadyExists
		}
		return fmt.Errorf("failed to update subject: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrSubjectNotFound
	}

	return nil
}

// Delete removes a subject unless grades reference it.
// The grade check runs first, so a referenced subject reports ErrSubjectHasGrades.
func (r *SubjectRepository) Delete(ctx context.Context, id shared.ID) error {
	return r.conn.WithTx(ctx, DefaultTxOptions(), func(tx pgx.Tx) error {
		var hasGrades bool
		err := tx.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM grades WHERE subject_id = $1)`, id.Int64()).Scan(&hasGrades)
		if err != nil {
			return fmt.Errorf("failed to check subject grades: %w", err)
		}
		if hasGrades {
			return shared.ErrSubjectHasGrades
		}

		tag, err := tx.Exec(ctx, `DELETE FROM subjects WHERE id = $1`, id.Int64())
		if err != nil {
			// A grade inserted concurrently still blocks the delete.
			if IsForeignKeyViolation(err) {
				return shared.ErrSubjectHasGrades
			}
			return fmt.Errorf("failed to delete subject: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return shared.ErrSubjectNotFound
		}
		return nil
	})
}

// Exists checks if a subject exists.
func (r *SubjectRepository) Exists(ctx context.Context, id shared.ID) (bool, error) {
	var exists bool
	err := r.conn.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM subjects WHERE id = $1)`, id.Int64()).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check subject existence: %w", err)
	}
	return exists, nil
}

func scanSubject(row pgx.Row) (*subject.Subject, error) {
	var (
		s  subject.Subject
		id int64
	)

	if err := row.Scan(&id, &s.Name, &s.CreatedAt, &s.UpdatedAt); err != nil {
		if IsNoRows(err) {
			return nil, shared.ErrSubjectNotFound
		}
		return nil, fmt.Errorf("failed to scan subject: %w", err)
	}

	s.ID = shared.ID(id)
	return &s, nil
}
