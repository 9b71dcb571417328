package command

import (
	"context"
	"fmt"

	"github.com/school-journal/journal/internal/domain/shared"
	"github.com/school-journal/journal/internal/domain/subject"
)

// ══════════════════════════════════════════════════════════════════════════════
// SUBJECT COMMANDS
// A subject cannot be deleted while grades reference it.
// ══════════════════════════════════════════════════════════════════════════════

// CreateSubjectCommand contains the new subject's name.
type CreateSubjectCommand struct {
	Name string
}

// UpdateSubjectCommand replaces the subject's name.
type UpdateSubjectCommand struct {
	SubjectID shared.ID
	Update    subject.Update
}

// DeleteSubjectCommand deletes a subject without grades.
type DeleteSubjectCommand struct {
	SubjectID shared.ID
}

// SubjectHandler handles subject write commands.
type SubjectHandler struct {
	subjects subject.Repository
}

// NewSubjectHandler creates a new SubjectHandler.
func NewSubjectHandler(subjects subject.Repository) *SubjectHandler {
	return &SubjectHandler{subjects: subjects}
}

// Create adds a subject. Names are unique.
func (h *SubjectHandler) Create(ctx context.Context, cmd CreateSubjectCommand) (*subject.Subject, error) {
	s, err := subject.NewSubject(cmd.Name)
	if err != nil {
		return nil, err
	}

	if err := h.subjects.Create(ctx, s); err != nil {
		return nil, fmt.Errorf("create_subject: %w", err)
	}
	return s, nil
}

// Update renames the subject.
func (h *SubjectHandler) Update(ctx context.Context, cmd UpdateSubjectCommand) (*subject.Subject, error) {
	if err := cmd.Update.Validate(); err != nil {
		return nil, err
	}

	s, err := h.subjects.GetByID(ctx, cmd.SubjectID)
	if err != nil {
		return nil, err
	}

	if err := s.Apply(cmd.Update); err != nil {
		return nil, err
	}

	if err := h.subjects.Update(ctx, s); err != nil {
		return nil, fmt.Errorf("update_subject: %w", err)
	}
	return s, nil
}

// Delete removes the subject. Fails with ErrSubjectHasGrades before checking
// that the subject exists.
func (h *SubjectHandler) Delete(ctx context.Context, cmd DeleteSubjectCommand) error {
	if err := h.subjects.Delete(ctx, cmd.SubjectID); err != nil {
		return fmt.Errorf("delete_subject: %w", err)
	}
	return nil
}
