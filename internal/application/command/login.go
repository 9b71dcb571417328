package command

import (
	"context"
	"fmt"
	"sync"

	"github.com/school-journal/journal/internal/domain/shared"
	"github.com/school-journal/journal/internal/domain/teacher"
)

// ══════════════════════════════════════════════════════════════════════════════
// LOGIN COMMAND
// Exchanges email and password for a bearer token.
// ══════════════════════════════════════════════════════════════════════════════

// LoginCommand contains the credentials from the token form.
type LoginCommand struct {
	// Email is taken from the "username" form field.
	Email    string
	Password string
}

// LoginResult contains the issued token.
type LoginResult struct {
	Token   teacher.AccessToken
	Teacher *teacher.Teacher
}

// LoginHandler authenticates teachers and issues access tokens.
type LoginHandler struct {
	teachers teacher.Repository
	hasher   teacher.PasswordHasher
	tokens   teacher.TokenService

	dummyOnce sync.Once
	dummyHash string
}

// NewLoginHandler creates a new LoginHandler.
func NewLoginHandler(teachers teacher.Repository, hasher teacher.PasswordHasher, tokens teacher.TokenService) *LoginHandler {
	return &LoginHandler{
		teachers: teachers,
		hasher:   hasher,
		tokens:   tokens,
	}
}

// Handle authenticates the teacher and issues a token.
// Unknown email and wrong password fail with the same ErrInvalidCredentials.
func (h *LoginHandler) Handle(ctx context.Context, cmd LoginCommand) (*LoginResult, error) {
	t, err := h.Authenticate(ctx, cmd.Email, cmd.Password)
	if err != nil {
		return nil, err
	}

	token, err := h.tokens.Issue(t.Email)
	if err != nil {
		return nil, fmt.Errorf("login: failed to issue token: %w", err)
	}

	return &LoginResult{Token: token, Teacher: t.Profile()}, nil
}

// Authenticate returns the teacher whose password matches.
func (h *LoginHandler) Authenticate(ctx context.Context, rawEmail, password string) (*teacher.Teacher, error) {
	email := teacher.NormalizeEmail(rawEmail)

	t, err := h.teachers.GetByEmail(ctx, email)
	if err != nil {
		if !shared.IsNotFound(err) {
			return nil, fmt.Errorf("login: failed to load teacher: %w", err)
		}
		// Burn the same bcrypt work as a real comparison.
		_ = h.hasher.Compare(h.dummy(), password)
		return nil, shared.ErrInvalidCredentials
	}

	if err := h.hasher.Compare(t.PasswordHash, password); err != nil {
		return nil, shared.ErrInvalidCredentials
	}

	return t, nil
}

func (h *LoginHandler) dummy() string {
	h.dummyOnce.Do(func() {
		h.dummyHash, _ = h.hasher.Hash("journal-dummy-password")
	})
	return h.dummyHash
}
