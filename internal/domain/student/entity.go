package student

import (
	"strings"
	"time"

	"github.com/school-journal/journal/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// STUDENT ENTITY
// ══════════════════════════════════════════════════════════════════════════════

// Student - ученик, которому выставляются оценки.
type Student struct {
	// ID - идентификатор, назначаемый хранилищем.
	ID shared.ID

	// FullName - полное имя ученика.
	FullName string

	// ClassGroup - класс, например "10A".
	ClassGroup string

	// CreatedAt - время создания записи.
	CreatedAt time.Time

	// UpdatedAt - время последнего обновления.
	UpdatedAt time.Time
}

// Update содержит изменяемые поля ученика.
// PUT заменяет все поля целиком, поэтому указатели не используются.
type Update struct {
	FullName   string
	ClassGroup string
}

// Validate проверяет, что поля не пустые.
func (u Update) Validate() error {
	if strings.TrimSpace(u.FullName) == "" {
		return shared.ErrInvalidStudentName
	}
	if strings.TrimSpace(u.ClassGroup) == "" {
		return shared.ErrInvalidStudentGroup
	}
	return nil
}

// NewStudent создаёт нового ученика с валидацией.
func NewStudent(fullName, classGroup string) (*Student, error) {
	u := Update{FullName: fullName, ClassGroup: classGroup}
	if err := u.Validate(); err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	return &Student{
		FullName:   strings.TrimSpace(fullName),
		ClassGroup: strings.TrimSpace(classGroup),
		CreatedAt:  now,
		UpdatedAt:  now,
	}, nil
}

// Apply применяет обновление к ученику.
func (s *Student) Apply(u Update) error {
	if err := u.Validate(); err != nil {
		return err
	}
	s.FullName = strings.TrimSpace(u.FullName)
	s.ClassGroup = strings.TrimSpace(u.ClassGroup)
	s.UpdatedAt = time.Now().UTC()
	return nil
}
