package student

import (
	"context"

	"github.com/school-journal/journal/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// REPOSITORY INTERFACES
// Эти интерфейсы определяют контракт для работы с хранилищем данных.
// Реализации находятся в infrastructure/persistence.
// ══════════════════════════════════════════════════════════════════════════════

// Repository определяет основные операции CRUD для учеников.
type Repository interface {
	// Create сохраняет ученика и заполняет student.ID.
	Create(ctx context.Context, student *Student) error

	// GetByID возвращает ученика по ID.
	// Возвращает ErrStudentNotFound, если ученик не найден.
	GetByID(ctx context.Context, id shared.ID) (*Student, error)

	// GetByIDs возвращает найденных учеников одним запросом. Отсутствующие ID пропускаются.
	GetByIDs(ctx context.Context, ids []shared.ID) (map[shared.ID]*Student, error)

	// List возвращает учеников в порядке возрастания ID.
	List(ctx context.Context, page shared.Page) ([]*Student, error)

	// Update сохраняет изменённые поля ученика.
	// Возвращает ErrStudentNotFound, если ученик не найден.
	Update(ctx context.Context, student *Student) error

	// Delete удаляет все оценки ученика, затем самого ученика, атомарно.
	// Возвращает ErrStudentNotFound, если ученик не найден.
	Delete(ctx context.Context, id shared.ID) error

	// Exists проверяет существование ученика по ID.
	Exists(ctx context.Context, id shared.ID) (bool, error)
}
