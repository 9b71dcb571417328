package grade

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/school-journal/journal/internal/domain/shared"
	"github.com/school-journal/journal/pkg/timeutil"
)

func TestNewValue_Range(t *testing.T) {
	for _, v := range []int{0, 6, -1, 100} {
		_, err := NewValue(v)
		assert.True(t, errors.Is(err, shared.ErrGradeOutOfRange), "value %d", v)
		assert.True(t, errors.Is(err, shared.ErrValueOutOfRange), "value %d", v)
	}
	for v := 1; v <= 5; v++ {
		got, err := NewValue(v)
		require.NoError(t, err)
		assert.Equal(t, Value(v), got)
	}
}

func TestNewGrade_NormalizesDate(t *testing.T) {
	g, err := NewGrade(Update{
		StudentID: 1,
		SubjectID: 2,
		Value:     4,
		Date:      time.Date(2024, 9, 1, 15, 30, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	assert.Equal(t, timeutil.Date(2024, 9, 1), g.Date)
	assert.Equal(t, Value(4), g.Value)
}

func TestNewGrade_RequiresDate(t *testing.T) {
	_, err := NewGrade(Update{StudentID: 1, SubjectID: 1, Value: 3})
	assert.ErrorIs(t, err, shared.ErrInvalidGradeDate)
}

func TestGrade_Apply(t *testing.T) {
	g, err := NewGrade(Update{StudentID: 1, SubjectID: 1, Value: 3, Date: timeutil.Date(2024, 1, 1)})
	require.NoError(t, err)

	err = g.Apply(Update{StudentID: 2, SubjectID: 3, Value: 6, Date: timeutil.Date(2024, 1, 2)})
	assert.ErrorIs(t, err, shared.ErrGradeOutOfRange)
	assert.Equal(t, shared.ID(1), g.StudentID, "failed update must not change the grade")

	require.NoError(t, g.Apply(Update{StudentID: 2, SubjectID: 3, Value: 5, Date: timeutil.Date(2024, 1, 2)}))
	assert.Equal(t, shared.ID(2), g.StudentID)
	assert.Equal(t, shared.ID(3), g.SubjectID)
	assert.Equal(t, Value(5), g.Value)
}

func TestFilter_Matches(t *testing.T) {
	g := &Grade{StudentID: 1, SubjectID: 2, Value: 5, Date: timeutil.Date(2024, 9, 10)}

	tests := []struct {
		name   string
		filter Filter
		want   bool
	}{
		{"empty", Filter{}, true},
		{"student match", Filter{StudentID: 1}, true},
		{"student mismatch", Filter{StudentID: 2}, false},
		{"subject mismatch", Filter{SubjectID: 9}, false},
		{"inclusive start", Filter{StartDate: timeutil.Date(2024, 9, 10)}, true},
		{"inclusive end", Filter{EndDate: timeutil.Date(2024, 9, 10)}, true},
		{"before start", Filter{StartDate: timeutil.Date(2024, 9, 11)}, false},
		{"after end", Filter{EndDate: timeutil.Date(2024, 9, 9)}, false},
		{"inverted range", Filter{StartDate: timeutil.Date(2024, 9, 11), EndDate: timeutil.Date(2024, 9, 1)}, false},
		{"all conditions", Filter{StudentID: 1, SubjectID: 2, StartDate: timeutil.Date(2024, 9, 1), EndDate: timeutil.Date(2024, 9, 30)}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.filter.Matches(g))
		})
	}
}
