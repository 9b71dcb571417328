package teacher

import (
	"context"
	"time"
)

// ══════════════════════════════════════════════════════════════════════════════
// REPOSITORY INTERFACES
// Реализации находятся в infrastructure/persistence.
// ══════════════════════════════════════════════════════════════════════════════

// Repository определяет хранилище учётных данных учителей.
type Repository interface {
	// Create сохраняет нового учителя и заполняет teacher.ID.
	// Возвращает ErrEmailAlreadyExists, если адрес уже занят.
	Create(ctx context.Context, teacher *Teacher) error

	// GetByEmail возвращает учителя по нормализованному адресу.
	// Возвращает ErrTeacherNotFound, если учитель не найден.
	GetByEmail(ctx context.Context, email Email) (*Teacher, error)

	// ExistsByEmail проверяет, занят ли адрес.
	ExistsByEmail(ctx context.Context, email Email) (bool, error)
}

// ══════════════════════════════════════════════════════════════════════════════
// SECURITY PORTS
// ══════════════════════════════════════════════════════════════════════════════

// PasswordHasher хеширует и проверяет пароли.
type PasswordHasher interface {
	// Hash возвращает хеш пароля.
	Hash(password string) (string, error)

	// Compare возвращает ошибку, если пароль не соответствует хешу.
	Compare(hash, password string) error
}

// AccessToken - подписанный токен доступа. В хранилище не сохраняется.
type AccessToken struct {
	Value     string
	TokenType string
	ExpiresAt time.Time
}

// TokenService выпускает и проверяет токены доступа.
type TokenService interface {
	// Issue выпускает токен с subject = email.
	Issue(email Email) (AccessToken, error)

	// Parse проверяет подпись и срок действия и возвращает subject.
	Parse(token string) (Email, error)
}
