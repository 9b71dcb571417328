package http

import (
	"context"
	"net/http"
	"strings"

	"github.com/school-journal/journal/config"
	"github.com/school-journal/journal/internal/application/query"
	"github.com/school-journal/journal/internal/domain/shared"
	"github.com/school-journal/journal/internal/domain/teacher"
)

// ══════════════════════════════════════════════════════════════════════════════
// BEARER AUTHENTICATION
// ══════════════════════════════════════════════════════════════════════════════

// bearerToken extracts the token from "Authorization: Bearer <token>".
func bearerToken(r *http.Request) string {
	scheme, token, ok := strings.Cut(r.Header.Get("Authorization"), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

// requireTeacher rejects requests without a valid bearer token and stores
// the authenticated teacher in the request context.
func (s *Server) requireTeacher(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			writeError(w, r, shared.ErrCouldNotValidate)
			return
		}

		t, err := s.deps.CurrentTeacher.Handle(r.Context(), query.GetCurrentTeacherQuery{Token: token})
		if err != nil {
			writeError(w, r, err)
			return
		}

		ctx := context.WithValue(r.Context(), contextKeyTeacher, t)
		next(w, r.WithContext(ctx))
	}
}

// protect requires a teacher only while auth.protect_journal is on.
func (s *Server) protect(next http.HandlerFunc) http.HandlerFunc {
	authed := s.requireTeacher(next)
	return func(w http.ResponseWriter, r *http.Request) {
		if s.deps.Features.IsEnabled(config.FeatureAuthProtectJournal) {
			authed(w, r)
			return
		}
		next(w, r)
	}
}

// teacherFrom returns the authenticated teacher, if any.
func teacherFrom(ctx context.Context) (*teacher.Teacher, bool) {
	t, ok := ctx.Value(contextKeyTeacher).(*teacher.Teacher)
	return t, ok && t != nil
}
