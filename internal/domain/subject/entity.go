// Package subject содержит доменную модель учебного предмета.
// Название предмета уникально. Предмет нельзя удалить, пока на него
// ссылается хотя бы одна оценка.
package subject

import (
	"context"
	"strings"
	"time"

	"github.com/school-journal/journal/internal/domain/shared"
)

// Subject - учебный предмет.
type Subject struct {
	ID        shared.ID
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Update содержит изменяемые поля предмета.
type Update struct {
	Name string
}

// Validate проверяет название.
func (u Update) Validate() error {
	if strings.TrimSpace(u.Name) == "" {
		return shared.ErrInvalidSubjectName
	}
	return nil
}

// NewSubject создаёт новый предмет с валидацией.
func NewSubject(name string) (*Subject, error) {
	if err := (Update{Name: name}).Validate(); err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	return &Subject{
		Name:      strings.TrimSpace(name),
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// Apply применяет обновление к предмету.
func (s *Subject) Apply(u Update) error {
	if err := u.Validate(); err != nil {
		return err
	}
	s.Name = strings.TrimSpace(u.Name)
	s.UpdatedAt = time.Now().UTC()
	return nil
}

// Repository определяет операции хранилища для предметов.
type Repository interface {
	// Create сохраняет предмет и заполняет subject.ID.
	// Возвращает ErrSubjectAlreadyExists при дубликате названия.
	Create(ctx context.Context, subject *Subject) error

	// GetByID возвращает предмет или ErrSubjectNotFound.
	GetByID(ctx context.Context, id shared.ID) (*Subject, error)

	// GetByIDs возвращает предметы по списку ID. Отсутствующие ID пропускаются.
	GetByIDs(ctx context.Context, ids []shared.ID) (map[shared.ID]*Subject, error)

	// List возвращает предметы в порядке возрастания ID.
	List(ctx context.Context, page shared.Page) ([]*Subject, error)

	// Update сохраняет предмет. Возвращает ErrSubjectNotFound или
	// ErrSubjectAlreadyExists.
	Update(ctx context.Context, subject *Subject) error

	// Delete удаляет предмет. Возвращает ErrSubjectHasGrades, если на предмет
	// ссылаются оценки, иначе ErrSubjectNotFound, если предмета нет.
	Delete(ctx context.Context, id shared.ID) error

	// Exists проверяет существование предмета по ID.
	Exists(ctx context.Context, id shared.ID) (bool, error)
}
