package query

import (
	"context"
	"fmt"

	"github.com/school-journal/journal/internal/domain/grade"
	"github.com/school-journal/journal/internal/domain/shared"
	"github.com/school-journal/journal/internal/domain/student"
	"github.com/school-journal/journal/internal/domain/subject"
)

// ══════════════════════════════════════════════════════════════════════════════
// GET STUDENT STATS QUERY
// Средний балл ученика: общий и по каждому предмету.
// ══════════════════════════════════════════════════════════════════════════════

// NoGradesMessage возвращается вместо статистики, если у ученика нет оценок.
const NoGradesMessage = "No grades found for this student"

// GetStudentStatsQuery содержит ID ученика.
type GetStudentStatsQuery struct {
	StudentID shared.ID
}

// StudentStatsDTO - статистика успеваемости ученика.
type StudentStatsDTO struct {
	StudentID  shared.ID
	FullName   string
	ClassGroup string

	// HasGrades - false, если оценок нет; тогда заполнено только Message.
	HasGrades bool
	Message   string

	// AverageGrade - общий средний балл, округлённый до 2 знаков.
	AverageGrade float64

	// Subjects - средний балл по названию предмета.
	Subjects map[string]float64
}

// RoundingPolicy сообщает, нужно ли округлять средние по предметам.
type RoundingPolicy func() bool

// GetStudentStatsHandler обрабатывает GetStudentStatsQuery.
type GetStudentStatsHandler struct {
	students student.Repository
	subjects subject.Repository
	grades   grade.Repository
	rounding RoundingPolicy
}

// NewGetStudentStatsHandler создаёт обработчик. rounding может быть nil.
func NewGetStudentStatsHandler(
	students student.Repository,
	subjects subject.Repository,
	grades grade.Repository,
	rounding RoundingPolicy,
) *GetStudentStatsHandler {
	if rounding == nil {
		rounding = func() bool { return false }
	}
	return &GetStudentStatsHandler{
		students: students,
		subjects: subjects,
		grades:   grades,
		rounding: rounding,
	}
}

// Handle считает статистику. Возвращает ErrStudentNotFound для неизвестного ученика.
func (h *GetStudentStatsHandler) Handle(ctx context.Context, q GetStudentStatsQuery) (*StudentStatsDTO, error) {
	s, err := h.students.GetByID(ctx, q.StudentID)
	if err != nil {
		return nil, err
	}

	grades, err := h.grades.ListByStudent(ctx, s.ID)
	if err != nil {
		return nil, fmt.Errorf("student_stats: failed to load grades: %w", err)
	}

	if len(grades) == 0 {
		return &StudentStatsDTO{
			StudentID:  s.ID,
			FullName:   s.FullName,
			ClassGroup: s.ClassGroup,
			Message:    NoGradesMessage,
		}, nil
	}

	names, err := h.subjectNames(ctx, grades)
	if err != nil {
		return nil, err
	}

	summary, _ := grade.ComputeStats(grades, names, grade.StatsOptions{
		RoundSubjectAverages: h.rounding(),
	})

	return &StudentStatsDTO{
		StudentID:    s.ID,
		FullName:     s.FullName,
		ClassGroup:   s.ClassGroup,
		HasGrades:    true,
		AverageGrade: summary.Average,
		Subjects:     summary.Subjects,
	}, nil
}

// subjectNames загружает названия всех предметов одним запросом.
func (h *GetStudentStatsHandler) subjectNames(ctx context.Context, grades []*grade.Grade) (map[shared.ID]string, error) {
	subjects, err := h.subjects.GetByIDs(ctx, uniqueIDs(grades, func(g *grade.Grade) shared.ID { return g.SubjectID }))
	if err != nil {
		return nil, fmt.Errorf("student_stats: failed to load subjects: %w", err)
	}

	names := make(map[shared.ID]string, len(subjects))
	for id, sub := range subjects {
		names[id] = sub.Name
	}
	return names, nil
}

func uniqueIDs(grades []*grade.Grade, key func(*grade.Grade) shared.ID) []shared.ID {
	seen := make(map[shared.ID]struct{}, len(grades))
	ids := make([]shared.ID, 0, len(grades))
	for _, g := range grades {
		id := key(g)
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids
}
