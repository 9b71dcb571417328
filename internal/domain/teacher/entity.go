// Package teacher содержит доменную модель учителя, единственного
// пользователя журнала, который проходит аутентификацию.
// Это ядро бизнес-логики - здесь нет внешних зависимостей.
package teacher

import (
	"strings"
	"time"

	"github.com/school-journal/journal/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// VALUE OBJECTS
// ══════════════════════════════════════════════════════════════════════════════

// Email представляет адрес электронной почты учителя.
// Хранится в нормализованном виде: без пробелов по краям, в нижнем регистре.
type Email string

// NormalizeEmail приводит адрес к канонической форме без проверки.
func NormalizeEmail(raw string) Email {
	return Email(strings.ToLower(strings.TrimSpace(raw)))
}

// NewEmail нормализует и проверяет адрес.
// Адрес должен содержать ровно один "@" с непустыми частями по обе стороны.
func NewEmail(raw string) (Email, error) {
	e := NormalizeEmail(raw)
	if !e.IsValid() {
		return "", shared.ErrInvalidEmail
	}
	return e, nil
}

// IsValid проверяет формат адреса.
func (e Email) IsValid() bool {
	s := string(e)
	if len(s) > 255 || strings.ContainsAny(s, " \t\n\r") {
		return false
	}
	local, domain, ok := strings.Cut(s, "@")
	if !ok || local == "" || domain == "" {
		return false
	}
	return !strings.Contains(domain, "@")
}

// String возвращает строковое представление адреса.
func (e Email) String() string {
	return string(e)
}

// ══════════════════════════════════════════════════════════════════════════════
// TEACHER ENTITY
// ══════════════════════════════════════════════════════════════════════════════

// Teacher - учитель, зарегистрированный в журнале.
// После регистрации запись не изменяется и не удаляется.
type Teacher struct {
	// ID - идентификатор, назначаемый хранилищем.
	ID shared.ID

	// Email - уникальный (без учёта регистра) адрес.
	Email Email

	// FullName - имя учителя.
	FullName string

	// PasswordHash - bcrypt-хеш пароля. Никогда не покидает сервис.
	PasswordHash string

	// IsActive - активна ли учётная запись.
	IsActive bool

	// CreatedAt - время регистрации.
	CreatedAt time.Time
}

// NewTeacherParams содержит параметры для создания учителя.
type NewTeacherParams struct {
	Email        Email
	FullName     string
	PasswordHash string
	CreatedAt    time.Time
}

// NewTeacher создаёт нового активного учителя с валидацией.
func NewTeacher(params NewTeacherParams) (*Teacher, error) {
	if !params.Email.IsValid() {
		return nil, shared.ErrInvalidEmail
	}
	name := strings.TrimSpace(params.FullName)
	if name == "" {
		return nil, shared.ErrInvalidTeacherFields
	}
	if params.PasswordHash == "" {
		return nil, shared.ErrEmptyPassword
	}
	createdAt := params.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	return &Teacher{
		Email:        params.Email,
		FullName:     name,
		PasswordHash: params.PasswordHash,
		IsActive:     true,
		CreatedAt:    createdAt,
	}, nil
}

// Profile возвращает копию учителя без хеша пароля.
// Используется для кэширования и ответов API.
func (t *Teacher) Profile() *Teacher {
	p := *t
	p.PasswordHash = ""
	return &p
}
