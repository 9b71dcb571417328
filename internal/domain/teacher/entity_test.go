package teacher

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/school-journal/journal/internal/domain/shared"
)

func TestNewEmail(t *testing.T) {
	tests := []struct {
		raw   string
		want  Email
		valid bool
	}{
		{"teacher@school.kz", "teacher@school.kz", true},
		{"  Teacher@School.KZ ", "teacher@school.kz", true},
		{"no-at-sign", "", false},
		{"@school.kz", "", false},
		{"teacher@", "", false},
		{"a@b@c", "", false},
		{"with space@school.kz", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, err := NewEmail(tt.raw)
		if !tt.valid {
			assert.ErrorIs(t, err, shared.ErrInvalidFormat, "raw %q", tt.raw)
			continue
		}
		require.NoError(t, err, "raw %q", tt.raw)
		assert.Equal(t, tt.want, got)
	}
}

func TestNewTeacher(t *testing.T) {
	tc, err := NewTeacher(NewTeacherParams{
		Email:        "t@school.kz",
		FullName:     "  Aigerim Sadykova ",
		PasswordHash: "hash",
	})
	require.NoError(t, err)
	assert.True(t, tc.IsActive)
	assert.Equal(t, "Aigerim Sadykova", tc.FullName)
	assert.False(t, tc.CreatedAt.IsZero())

	_, err = NewTeacher(NewTeacherParams{Email: "t@school.kz", FullName: " ", PasswordHash: "hash"})
	assert.ErrorIs(t, err, shared.ErrInvalidTeacherFields)

	_, err = NewTeacher(NewTeacherParams{Email: "bad", FullName: "X", PasswordHash: "hash"})
	assert.ErrorIs(t, err, shared.ErrInvalidEmail)
}

func TestTeacher_ProfileDropsHash(t *testing.T) {
	tc := &Teacher{ID: 1, Email: "t@school.kz", PasswordHash: "secret"}
	p := tc.Profile()
	assert.Empty(t, p.PasswordHash)
	assert.Equal(t, "secret", tc.PasswordHash)
	assert.Equal(t, tc.Email, p.Email)
}
