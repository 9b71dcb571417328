package postgres

// ══════════════════════════════════════════════════════════════════════════════
// MIGRATION 001: CREATE TEACHERS
// ══════════════════════════════════════════════════════════════════════════════

const migration001Up = `
-- Migration: Create teachers table
-- Version: 001

CREATE TABLE IF NOT EXISTS teachers (
    id BIGSERIAL PRIMARY KEY,
    email VARCHAR(255) NOT NULL,
    full_name VARCHAR(255) NOT NULL,
    password_hash VARCHAR(255) NOT NULL,
    is_active BOOLEAN NOT NULL DEFAULT TRUE,
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),

    -- Emails are stored lowercased; the index enforces case-insensitive uniqueness
    CONSTRAINT teachers_email_lower CHECK (email = lower(email))
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_teachers_email ON teachers(email);
`

const migration001Down = `
DROP TABLE IF EXISTS teachers;
`

// ══════════════════════════════════════════════════════════════════════════════
// MIGRATION 002: CREATE JOURNAL
// ══════════════════════════════════════════════════════════════════════════════

const migration002Up = `
-- Migration: Create students, subjects and grades
-- Version: 002

CREATE TABLE IF NOT EXISTS students (
    id BIGSERIAL PRIMARY KEY,
    full_name VARCHAR(255) NOT NULL,
    class_group VARCHAR(50) NOT NULL,
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_students_class_group ON students(class_group);

CREATE TABLE IF NOT EXISTS subjects (
    id BIGSERIAL PRIMARY KEY,
    name VARCHAR(255) NOT NULL,
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),

    CONSTRAINT subjects_name_key UNIQUE (name)
);

-- Grades of a student are deleted by the repository in the same transaction
-- as the student row.
CREATE TABLE IF NOT EXISTS grades (
    id BIGSERIAL PRIMARY KEY,
    student_id BIGINT NOT NULL REFERENCES students(id) ON DELETE RESTRICT,
    subject_id BIGINT NOT NULL REFERENCES subjects(id) ON DELETE RESTRICT,
    grade SMALLINT NOT NULL,
    date DATE NOT NULL,
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),

    CONSTRAINT grades_value_range CHECK (grade BETWEEN 1 AND 5)
);

CREATE INDEX IF NOT EXISTS idx_grades_student_id ON grades(student_id);
CREATE INDEX IF NOT EXISTS idx_grades_subject_id ON grades(subject_id);
CREATE INDEX IF NOT EXISTS idx_grades_date ON grades(date);
`

const migration002Down = `
DROP TABLE IF EXISTS grades;
DROP TABLE IF EXISTS subjects;
DROP TABLE IF EXISTS students;
`

// GetMigrations returns all embedded migrations in version order.
func GetMigrations() []Migration {
	return []Migration{
		{
			Version: 1,
			Name:    "create_teachers",
			UpSQL:   migration001Up,
			DownSQL: migration001Down,
		},
		{
			Version: 2,
			Name:    "create_journal",
			UpSQL:   migration002Up,
			DownSQL: migration002Down,
		},
	}
}
