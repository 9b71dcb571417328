package query

import (
	"context"
	"fmt"
	"io"

	"github.com/school-journal/journal/internal/domain/grade"
	"github.com/school-journal/journal/internal/domain/shared"
	"github.com/school-journal/journal/internal/domain/student"
	"github.com/school-journal/journal/internal/domain/subject"
)

// ══════════════════════════════════════════════════════════════════════════════
// EXPORT GRADES QUERY
// Renders every grade matching a filter as a downloadable document.
// ══════════════════════════════════════════════════════════════════════════════

// ExportGradesQuery uses the grade list filters without pagination.
type ExportGradesQuery struct {
	Filter grade.Filter
}

// JournalWriter renders journal entries into a document.
type JournalWriter interface {
	Write(w io.Writer, entries []grade.JournalEntry) error
	ContentType() string
	FileExtension() string
}

// ExportGradesHandler handles ExportGradesQuery.
type ExportGradesHandler struct {
	grades   grade.Repository
	students student.Repository
	subjects subject.Repository
	writer   JournalWriter
}

// NewExportGradesHandler creates a new ExportGradesHandler.
func NewExportGradesHandler(
	grades grade.Repository,
	students student.Repository,
	subjects subject.Repository,
	writer JournalWriter,
) *ExportGradesHandler {
	return &ExportGradesHandler{
		grades:   grades,
		students: students,
		subjects: subjects,
		writer:   writer,
	}
}

// ContentType returns the MIME type of the exported document.
func (h *ExportGradesHandler) ContentType() string {
	return h.writer.ContentType()
}

// FileExtension returns the extension of the exported document.
func (h *ExportGradesHandler) FileExtension() string {
	return h.writer.FileExtension()
}

// Entries loads the grades and resolves student and subject names.
func (h *ExportGradesHandler) Entries(ctx context.Context, q ExportGradesQuery) ([]grade.JournalEntry, error) {
	grades, err := h.grades.ListAll(ctx, q.Filter)
	if err != nil {
		return nil, fmt.Errorf("export_grades: failed to load grades: %w", err)
	}

	students, err := h.students.GetByIDs(ctx, uniqueIDs(grades, func(g *grade.Grade) shared.ID { return g.StudentID }))
	if err != nil {
		return nil, fmt.Errorf("export_grades: failed to load students: %w", err)
	}

	subjects, err := h.subjects.GetByIDs(ctx, uniqueIDs(grades, func(g *grade.Grade) shared.ID { return g.SubjectID }))
	if err != nil {
		return nil, fmt.Errorf("export_grades: failed to load subjects: %w", err)
	}

	entries := make([]grade.JournalEntry, 0, len(grades))
	for _, g := range grades {
		e := grade.JournalEntry{Grade: g}
		if s, ok := students[g.StudentID]; ok {
			e.StudentName = s.FullName
			e.ClassGroup = s.ClassGroup
		}
		if sub, ok := subjects[g.SubjectID]; ok {
			e.SubjectName = sub.Name
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// Handle writes the exported document to w.
func (h *ExportGradesHandler) Handle(ctx context.Context, q ExportGradesQuery, w io.Writer) error {
	entries, err := h.Entries(ctx, q)
	if err != nil {
		return err
	}

	if err := h.writer.Write(w, entries); err != nil {
		return fmt.Errorf("export_grades: %w", err)
	}
	return nil
}
