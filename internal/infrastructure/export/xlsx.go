// Package export renders the grade journal into spreadsheet workbooks.
package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/school-journal/journal/internal/domain/grade"
	"github.com/school-journal/journal/pkg/timeutil"
)

const (
	// SheetName is the only sheet of an exported journal.
	SheetName = "Grades"

	// ContentType is the MIME type of .xlsx files.
	ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// Headers lists the journal columns in order.
var Headers = []string{"Date", "Student", "Class", "Subject", "Grade"}

// XLSXWriter writes journal entries as an Excel workbook.
type XLSXWriter struct{}

// NewXLSXWriter creates a new XLSXWriter.
func NewXLSXWriter() *XLSXWriter {
	return &XLSXWriter{}
}

// ContentType returns the MIME type of the produced document.
func (XLSXWriter) ContentType() string {
	return ContentType
}

// FileExtension returns the file extension including the dot.
func (XLSXWriter) FileExtension() string {
	return ".xlsx"
}

// Write renders entries into a workbook and writes it to w.
func (XLSXWriter) Write(w io.Writer, entries []grade.JournalEntry) error {
	f := excelize.NewFile()
	defer f.Close()

	// NewFile starts with "Sheet1"; renaming keeps the workbook single-sheet.
	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		return fmt.Errorf("export: rename sheet: %w", err)
	}

	for i, header := range Headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return fmt.Errorf("export: header cell: %w", err)
		}
		if err := f.SetCellValue(SheetName, cell, header); err != nil {
			return fmt.Errorf("export: write header: %w", err)
		}
	}

	for i, e := range entries {
		row := []any{
			timeutil.FormatDate(e.Grade.Date),
			e.StudentName,
			e.ClassGroup,
			e.SubjectName,
			int(e.Grade.Value),
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("export: row cell: %w", err)
		}
		if err := f.SetSheetRow(SheetName, cell, &row); err != nil {
			return fmt.Errorf("export: write row %d: %w", i+1, err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("export: write workbook: %w", err)
	}
	return nil
}
