package query

import (
	"context"
	"fmt"
	"time"

	"github.com/school-journal/journal/internal/domain/grade"
	"github.com/school-journal/journal/internal/domain/shared"
	"github.com/school-journal/journal/internal/domain/student"
	"github.com/school-journal/journal/internal/domain/subject"
)

// ══════════════════════════════════════════════════════════════════════════════
// JOURNAL READS
// Get-by-id and paginated lists for students, subjects and grades.
// Lists are ordered by ID so skip/limit pagination is stable.
// ══════════════════════════════════════════════════════════════════════════════

// PageQuery holds raw pagination parameters.
type PageQuery struct {
	Skip  int
	Limit int
}

// DefaultPageQuery returns the first page with the default limit.
func DefaultPageQuery() PageQuery {
	p := shared.DefaultPage()
	return PageQuery{Skip: p.Skip, Limit: p.Limit}
}

func (q PageQuery) page() (shared.Page, error) {
	return shared.NewPage(q.Skip, q.Limit)
}

// ListGradesQuery filters grades. Zero values disable a condition.
type ListGradesQuery struct {
	StudentID shared.ID
	SubjectID shared.ID
	StartDate time.Time
	EndDate   time.Time
	Page      PageQuery
}

// Filter converts the query into a repository filter.
func (q ListGradesQuery) Filter() grade.Filter {
	return grade.Filter{
		StudentID: q.StudentID,
		SubjectID: q.SubjectID,
		StartDate: q.StartDate,
		EndDate:   q.EndDate,
	}
}

// JournalReader serves read queries over the journal.
type JournalReader struct {
	students student.Repository
	subjects subject.Repository
	grades   grade.Repository
}

// NewJournalReader creates a new JournalReader.
func NewJournalReader(students student.Repository, subjects subject.Repository, grades grade.Repository) *JournalReader {
	return &JournalReader{
		students: students,
		subjects: subjects,
		grades:   grades,
	}
}

// GetStudent returns a student or ErrStudentNotFound.
func (r *JournalReader) GetStudent(ctx context.Context, id shared.ID) (*student.Student, error) {
	return r.students.GetByID(ctx, id)
}

// ListStudents returns a page of students.
func (r *JournalReader) ListStudents(ctx context.Context, q PageQuery) ([]*student.Student, error) {
	page, err := q.page()
	if err != nil {
		return nil, err
	}

	students, err := r.students.List(ctx, page)
	if err != nil {
		return nil, fmt.Errorf("list_students: %w", err)
	}
	return students, nil
}

// GetSubject returns a subject or ErrSubjectNotFound.
func (r *JournalReader) GetSubject(ctx context.Context, id shared.ID) (*subject.Subject, error) {
	return r.subjects.GetByID(ctx, id)
}

// ListSubjects returns a page of subjects.
func (r *JournalReader) ListSubjects(ctx context.Context, q PageQuery) ([]*subject.Subject, error) {
	page, err := q.page()
	if err != nil {
		return nil, err
	}

	subjects, err := r.subjects.List(ctx, page)
	if err != nil {
		return nil, fmt.Errorf("list_subjects: %w", err)
	}
	return subjects, nil
}

// GetGrade returns a grade or ErrGradeNotFound.
func (r *JournalReader) GetGrade(ctx context.Context, id shared.ID) (*grade.Grade, error) {
	return r.grades.GetByID(ctx, id)
}

// ListGrades returns a page of grades matching the filter.
func (r *JournalReader) ListGrades(ctx context.Context, q ListGradesQuery) ([]*grade.Grade, error) {
	page, err := q.Page.page()
	if err != nil {
		return nil, err
	}

	grades, err := r.grades.List(ctx, q.Filter(), page)
	if err != nil {
		return nil, fmt.Errorf("list_grades: %w", err)
	}
	return grades, nil
}
