// Package command contains write operations (CQRS - Commands).
// Commands are responsible for changing the state of the journal.
package command

import (
	"context"
	"fmt"

	"github.com/school-journal/journal/internal/domain/shared"
	"github.com/school-journal/journal/internal/domain/teacher"
)

// ══════════════════════════════════════════════════════════════════════════════
// REGISTER TEACHER COMMAND
// Creates a teacher account. Teachers are never updated or deleted afterwards.
// ══════════════════════════════════════════════════════════════════════════════

// RegisterTeacherCommand contains the registration form.
type RegisterTeacherCommand struct {
	Email    string
	FullName string
	Password string
}

// RegisterTeacherHandler handles RegisterTeacherCommand.
type RegisterTeacherHandler struct {
	teachers teacher.Repository
	hasher   teacher.PasswordHasher
}

// NewRegisterTeacherHandler creates a new RegisterTeacherHandler.
func NewRegisterTeacherHandler(teachers teacher.Repository, hasher teacher.PasswordHasher) *RegisterTeacherHandler {
	return &RegisterTeacherHandler{
		teachers: teachers,
		hasher:   hasher,
	}
}

// Handle registers the teacher and returns its profile.
func (h *RegisterTeacherHandler) Handle(ctx context.Context, cmd RegisterTeacherCommand) (*teacher.Teacher, error) {
	email, err := teacher.NewEmail(cmd.Email)
	if err != nil {
		return nil, err
	}

	exists, err := h.teachers.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("register_teacher: failed to check email: %w", err)
	}
	if exists {
		return nil, shared.ErrEmailAlreadyExists
	}

	hash, err := h.hasher.Hash(cmd.Password)
	if err != nil {
		return nil, err
	}

	t, err := teacher.NewTeacher(teacher.NewTeacherParams{
		Email:        email,
		FullName:     cmd.FullName,
		PasswordHash: hash,
	})
	if err != nil {
		return nil, err
	}

	// A concurrent registration may still win the race; the store reports
	// it as ErrEmailAlreadyExists.
	if err := h.teachers.Create(ctx, t); err != nil {
		if shared.IsAlreadyExists(err) {
			return nil, err
		}
		return nil, fmt.Errorf("register_teacher: failed to save teacher: %w", err)
	}

	return t.Profile(), nil
}
