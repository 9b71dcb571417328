package command

import (
	"context"
	"fmt"

	"github.com/school-journal/journal/internal/domain/shared"
	"github.com/school-journal/journal/internal/domain/student"
)

// ══════════════════════════════════════════════════════════════════════════════
// STUDENT COMMANDS
// Create, replace and delete students. Deleting a student removes its grades.
// ══════════════════════════════════════════════════════════════════════════════

// CreateStudentCommand contains the new student's fields.
type CreateStudentCommand struct {
	FullName   string
	ClassGroup string
}

// UpdateStudentCommand replaces all mutable fields of a student.
type UpdateStudentCommand struct {
	StudentID shared.ID
	Update    student.Update
}

// DeleteStudentCommand deletes a student and its grades.
type DeleteStudentCommand struct {
	StudentID shared.ID
}

// StudentHandler handles student write commands.
type StudentHandler struct {
	students student.Repository
}

// NewStudentHandler creates a new StudentHandler.
func NewStudentHandler(students student.Repository) *StudentHandler {
	return &StudentHandler{students: students}
}

// Create adds a student.
func (h *StudentHandler) Create(ctx context.Context, cmd CreateStudentCommand) (*student.Student, error) {
	s, err := student.NewStudent(cmd.FullName, cmd.ClassGroup)
	if err != nil {
		return nil, err
	}

	if err := h.students.Create(ctx, s); err != nil {
		return nil, fmt.Errorf("create_student: %w", err)
	}
	return s, nil
}

// Update replaces the student's fields.
func (h *StudentHandler) Update(ctx context.Context, cmd UpdateStudentCommand) (*student.Student, error) {
	if err := cmd.Update.Validate(); err != nil {
		return nil, err
	}

	s, err := h.students.GetByID(ctx, cmd.StudentID)
	if err != nil {
		return nil, err
	}

	if err := s.Apply(cmd.Update); err != nil {
		return nil, err
	}

	if err := h.students.Update(ctx, s); err != nil {
		return nil, fmt.Errorf("update_student: %w", err)
	}
	return s, nil
}

// Delete removes the student together with its grades.
func (h *StudentHandler) Delete(ctx context.Context, cmd DeleteStudentCommand) error {
	if err := h.students.Delete(ctx, cmd.StudentID); err != nil {
		return fmt.Errorf("delete_student: %w", err)
	}
	return nil
}
