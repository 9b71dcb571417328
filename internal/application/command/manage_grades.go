package command

import (
	"context"
	"fmt"

	"github.com/school-journal/journal/internal/domain/grade"
	"github.com/school-journal/journal/internal/domain/shared"
	"github.com/school-journal/journal/internal/domain/student"
	"github.com/school-journal/journal/internal/domain/subject"
)

// ══════════════════════════════════════════════════════════════════════════════
// GRADE COMMANDS
// Grades reference an existing student and subject at write time.
// Checks run in a fixed order: value range, grade row, student, subject.
// ══════════════════════════════════════════════════════════════════════════════

// CreateGradeCommand contains the new grade.
type CreateGradeCommand struct {
	Grade grade.Update
}

// UpdateGradeCommand replaces all fields of a grade.
type UpdateGradeCommand struct {
	GradeID shared.ID
	Update  grade.Update
}

// DeleteGradeCommand deletes a grade.
type DeleteGradeCommand struct {
	GradeID shared.ID
}

// GradeHandler handles grade write commands.
type GradeHandler struct {
	grades   grade.Repository
	students student.Repository
	subjects subject.Repository
}

// NewGradeHandler creates a new GradeHandler.
func NewGradeHandler(grades grade.Repository, students student.Repository, subjects subject.Repository) *GradeHandler {
	return &GradeHandler{
		grades:   grades,
		students: students,
		subjects: subjects,
	}
}

// Create records a grade.
func (h *GradeHandler) Create(ctx context.Context, cmd CreateGradeCommand) (*grade.Grade, error) {
	g, err := grade.NewGrade(cmd.Grade)
	if err != nil {
		return nil, err
	}

	if err := h.checkReferences(ctx, cmd.Grade); err != nil {
		return nil, err
	}

	if err := h.grades.Create(ctx, g); err != nil {
		return nil, fmt.Errorf("create_grade: %w", err)
	}
	return g, nil
}

// Update replaces the grade's fields.
func (h *GradeHandler) Update(ctx context.Context, cmd UpdateGradeCommand) (*grade.Grade, error) {
	if err := cmd.Update.Validate(); err != nil {
		return nil, err
	}

	g, err := h.grades.GetByID(ctx, cmd.GradeID)
	if err != nil {
		return nil, err
	}

	if err := h.checkReferences(ctx, cmd.Update); err != nil {
		return nil, err
	}

	if err := g.Apply(cmd.Update); err != nil {
		return nil, err
	}

	if err := h.grades.Update(ctx, g); err != nil {
		return nil, fmt.Errorf("update_grade: %w", err)
	}
	return g, nil
}

// Delete removes the grade.
func (h *GradeHandler) Delete(ctx context.Context, cmd DeleteGradeCommand) error {
	if err := h.grades.Delete(ctx, cmd.GradeID); err != nil {
		return fmt.Errorf("delete_grade: %w", err)
	}
	return nil
}

func (h *GradeHandler) checkReferences(ctx context.Context, u grade.Update) error {
	ok, err := h.students.Exists(ctx, u.StudentID)
	if err != nil {
		return fmt.Errorf("grade: failed to check student: %w", err)
	}
	if !ok {
		return shared.ErrStudentNotFound
	}

	ok, err = h.subjects.Exists(ctx, u.SubjectID)
	if err != nil {
		return fmt.Errorf("grade: failed to check subject: %w", err)
	}
	if !ok {
		return shared.ErrSubjectNotFound
	}
	return nil
}
