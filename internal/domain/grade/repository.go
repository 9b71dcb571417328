package grade

import (
	"context"
	"time"

	"github.com/school-journal/journal/internal/domain/shared"
	"github.com/school-journal/journal/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// REPOSITORY INTERFACES
// ══════════════════════════════════════════════════════════════════════════════

// Repository определяет операции хранилища для оценок.
type Repository interface {
	// Create сохраняет оценку и заполняет grade.ID.
	Create(ctx context.Context, grade *Grade) error

	// GetByID возвращает оценку или ErrGradeNotFound.
	GetByID(ctx context.Context, id shared.ID) (*Grade, error)

	// List возвращает оценки, удовлетворяющие фильтру, в порядке возрастания ID.
	List(ctx context.Context, filter Filter, page shared.Page) ([]*Grade, error)

	// ListAll возвращает все оценки по фильтру без пагинации (для выгрузки).
	ListAll(ctx context.Context, filter Filter) ([]*Grade, error)

	// ListByStudent возвращает все оценки ученика.
	ListByStudent(ctx context.Context, studentID shared.ID) ([]*Grade, error)

	// Update сохраняет оценку. Возвращает ErrGradeNotFound.
	Update(ctx context.Context, grade *Grade) error

	// Delete удаляет оценку. Возвращает ErrGradeNotFound.
	Delete(ctx context.Context, id shared.ID) error
}

// ══════════════════════════════════════════════════════════════════════════════
// FILTER
// ══════════════════════════════════════════════════════════════════════════════

// Filter содержит необязательные условия выборки оценок.
// Нулевые значения означают отсутствие условия; условия объединяются по И.
// Если StartDate позже EndDate, выборка просто пуста.
type Filter struct {
	StudentID shared.ID
	SubjectID shared.ID

	// StartDate и EndDate - границы включительно.
	StartDate time.Time
	EndDate   time.Time
}

// Matches проверяет, удовлетворяет ли оценка фильтру.
func (f Filter) Matches(g *Grade) bool {
	if f.StudentID.IsValid() && g.StudentID != f.StudentID {
		return false
	}
	if f.SubjectID.IsValid() && g.SubjectID != f.SubjectID {
		return false
	}
	return timeutil.InRange(g.Date, f.StartDate, f.EndDate)
}
