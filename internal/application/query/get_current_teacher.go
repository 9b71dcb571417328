// Package query contains read operations (CQRS - Queries).
package query

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/school-journal/journal/internal/domain/shared"
	"github.com/school-journal/journal/internal/domain/teacher"
	"github.com/school-journal/journal/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// GET CURRENT TEACHER QUERY
// Resolves a bearer token to the teacher it was issued for.
// ══════════════════════════════════════════════════════════════════════════════

// GetCurrentTeacherQuery contains the raw bearer token.
type GetCurrentTeacherQuery struct {
	Token string
}

// TeacherCache caches teacher profiles by email. Implementations must not
// store password hashes.
type TeacherCache interface {
	// Get returns found=false on a cache miss.
	Get(ctx context.Context, email teacher.Email) (*teacher.Teacher, bool, error)
	Set(ctx context.Context, t *teacher.Teacher) error
}

// GetCurrentTeacherHandler handles GetCurrentTeacherQuery.
type GetCurrentTeacherHandler struct {
	tokens   teacher.TokenService
	teachers teacher.Repository
	cache    TeacherCache
	log      *slog.Logger
}

// NewGetCurrentTeacherHandler creates a new GetCurrentTeacherHandler.
// cache may be nil.
func NewGetCurrentTeacherHandler(
	tokens teacher.TokenService,
	teachers teacher.Repository,
	cache TeacherCache,
	log *slog.Logger,
) *GetCurrentTeacherHandler {
	if log == nil {
		log = logger.Discard()
	}
	return &GetCurrentTeacherHandler{
		tokens:   tokens,
		teachers: teachers,
		cache:    cache,
		log:      log.With(logger.Component("current_teacher")),
	}
}

// Handle validates the token and returns the teacher's profile.
// Every failure that is not a storage error is ErrUnauthorized.
func (h *GetCurrentTeacherHandler) Handle(ctx context.Context, q GetCurrentTeacherQuery) (*teacher.Teacher, error) {
	if q.Token == "" {
		return nil, shared.ErrCouldNotValidate
	}

	email, err := h.tokens.Parse(q.Token)
	if err != nil {
		return nil, err
	}

	t, err := h.lookup(ctx, email)
	if err != nil {
		return nil, err
	}

	if !t.IsActive {
		return nil, shared.ErrTeacherInactive
	}
	return t.Profile(), nil
}

func (h *GetCurrentTeacherHandler) lookup(ctx context.Context, email teacher.Email) (*teacher.Teacher, error) {
	if h.cache != nil {
		t, found, err := h.cache.Get(ctx, email)
		if err != nil {
			h.log.Warn("teacher cache read failed", logger.Email(email.String()), logger.Err(err))
		} else if found {
			return t, nil
		}
	}

	t, err := h.teachers.GetByEmail(ctx, email)
	if err != nil {
		if shared.IsNotFound(err) {
			return nil, shared.ErrCouldNotValidate
		}
		return nil, fmt.Errorf("current_teacher: failed to load teacher: %w", err)
	}

	if h.cache != nil {
		if err := h.cache.Set(ctx, t.Profile()); err != nil {
			h.log.Warn("teacher cache write failed", logger.Email(email.String()), logger.Err(err))
		}
	}
	return t, nil
}
