// Package grade содержит доменную модель оценки и расчёт статистики успеваемости.
// Это ядро бизнес-логики - здесь нет внешних зависимостей.
package grade

import (
	"time"

	"github.com/school-journal/journal/internal/domain/shared"
	"github.com/school-journal/journal/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// VALUE OBJECTS
// ══════════════════════════════════════════════════════════════════════════════

// Value представляет значение оценки по пятибалльной шкале.
type Value int

const (
	// MinValue - минимальная допустимая оценка.
	MinValue Value = 1

	// MaxValue - максимальная допустимая оценка.
	MaxValue Value = 5
)

// IsValid проверяет, что оценка в диапазоне [1, 5].
func (v Value) IsValid() bool {
	return v >= MinValue && v <= MaxValue
}

// NewValue создаёт оценку с проверкой диапазона.
func NewValue(v int) (Value, error) {
	if !Value(v).IsValid() {
		return 0, shared.ErrGradeOutOfRange
	}
	return Value(v), nil
}

// ══════════════════════════════════════════════════════════════════════════════
// GRADE ENTITY
// ══════════════════════════════════════════════════════════════════════════════

// Grade - оценка ученика по предмету за определённый день.
type Grade struct {
	ID        shared.ID
	StudentID shared.ID
	SubjectID shared.ID
	Value     Value

	// Date - календарный день (полночь UTC).
	Date time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Update содержит изменяемые поля оценки. PUT заменяет все поля.
type Update struct {
	StudentID shared.ID
	SubjectID shared.ID
	Value     int
	Date      time.Time
}

// Validate проверяет только значение и дату.
// Существование ученика и предмета проверяет слой приложения.
func (u Update) Validate() error {
	if _, err := NewValue(u.Value); err != nil {
		return err
	}
	if u.Date.IsZero() {
		return shared.ErrInvalidGradeDate
	}
	return nil
}

// NewGrade создаёт новую оценку с валидацией.
func NewGrade(u Update) (*Grade, error) {
	if err := u.Validate(); err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	return &Grade{
		StudentID: u.StudentID,
		SubjectID: u.SubjectID,
		Value:     Value(u.Value),
		Date:      timeutil.StartOfDay(u.Date),
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// Apply применяет обновление к оценке.
func (g *Grade) Apply(u Update) error {
	if err := u.Validate(); err != nil {
		return err
	}
	g.StudentID = u.StudentID
	g.SubjectID = u.SubjectID
	g.Value = Value(u.Value)
	g.Date = timeutil.StartOfDay(u.Date)
	g.UpdatedAt = time.Now().UTC()
	return nil
}
