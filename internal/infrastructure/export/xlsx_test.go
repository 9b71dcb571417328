package export

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/school-journal/journal/internal/domain/grade"
	"github.com/school-journal/journal/pkg/timeutil"
)

func TestXLSXWriter_RoundTrip(t *testing.T) {
	entries := []grade.JournalEntry{
		{
			Grade:       &grade.Grade{ID: 1, Value: 5, Date: timeutil.Date(2024, 9, 2)},
			StudentName: "Aruzhan Sadykova",
			ClassGroup:  "10A",
			SubjectName: "Math",
		},
		{
			Grade:       &grade.Grade{ID: 2, Value: 4, Date: timeutil.Date(2024, 9, 3)},
			StudentName: "Aruzhan Sadykova",
			ClassGroup:  "10A",
			SubjectName: "Science",
		},
	}

	var buf bytes.Buffer
	require.NoError(t, NewXLSXWriter().Write(&buf, entries))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SheetName}, f.GetSheetList())

	rows, err := f.GetRows(SheetName)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, Headers, rows[0])
	assert.Equal(t, []string{"2024-09-02", "Aruzhan Sadykova", "10A", "Math", "5"}, rows[1])
	assert.Equal(t, []string{"2024-09-03", "Aruzhan Sadykova", "10A", "Science", "4"}, rows[2])
}

func TestXLSXWriter_EmptyJournal(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewXLSXWriter().Write(&buf, nil))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(SheetName)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, Headers, rows[0])
}
