// Package memory implements the journal repositories in process memory.
// It backs development runs without PostgreSQL and the application and HTTP
// tests. One Store holds every table so that cross-table rules (student
// cascade, subject delete guard) are checked under a single lock.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/school-journal/journal/internal/domain/grade"
	"github.com/school-journal/journal/internal/domain/shared"
	"github.com/school-journal/journal/internal/domain/student"
	"github.com/school-journal/journal/internal/domain/subject"
	"github.com/school-journal/journal/internal/domain/teacher"
)

// Store is an in-memory journal database.
type Store struct {
	mu sync.RWMutex

	teachers map[teacher.Email]*teacher.Teacher
	students map[shared.ID]*student.Student
	subjects map[shared.ID]*subject.Subject
	grades   map[shared.ID]*grade.Grade

	teacherSeq shared.ID
	studentSeq shared.ID
	subjectSeq shared.ID
	gradeSeq   shared.ID
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		teachers: make(map[teacher.Email]*teacher.Teacher),
		students: make(map[shared.ID]*student.Student),
		subjects: make(map[shared.ID]*subject.Subject),
		grades:   make(map[shared.ID]*grade.Grade),
	}
}

// Teachers returns the teacher repository view of the store.
func (s *Store) Teachers() *TeacherRepository { return &TeacherRepository{s: s} }

// Students returns the student repository view of the store.
func (s *Store) Students() *StudentRepository { return &StudentRepository{s: s} }

// Subjects returns the subject repository view of the store.
func (s *Store) Subjects() *SubjectRepository { return &SubjectRepository{s: s} }

// Grades returns the grade repository view of the store.
func (s *Store) Grades() *GradeRepository { return &GradeRepository{s: s} }

// Ping always succeeds; it lets the store stand in for a database health check.
func (s *Store) Ping(ctx context.Context) error {
	return ctx.Err()
}

// sortedIDs returns map keys in ascending order.
func sortedIDs[T any](m map[shared.ID]T) []shared.ID {
	ids := make([]shared.ID, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// ══════════════════════════════════════════════════════════════════════════════
// TEACHERS
// ══════════════════════════════════════════════════════════════════════════════

// TeacherRepository implements teacher.Repository.
type TeacherRepository struct{ s *Store }

var _ teacher.Repository = (*TeacherRepository)(nil)

func (r *TeacherRepository) Create(ctx context.Context, t *teacher.Teacher) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.teachers[t.Email]; ok {
		return shared.ErrEmailAlreadyExists
	}
	r.s.teacherSeq++
	t.ID = r.s.teacherSeq
	cp := *t
	r.s.teachers[t.Email] = &cp
	return nil
}

func (r *TeacherRepository) GetByEmail(ctx context.Context, email teacher.Email) (*teacher.Teacher, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	t, ok := r.s.teachers[email]
	if !ok {
		return nil, shared.ErrTeacherNotFound
	}
	cp := *t
	return &cp, nil
}

func (r *TeacherRepository) ExistsByEmail(ctx context.Context, email teacher.Email) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	_, ok := r.s.teachers[email]
	return ok, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// STUDENTS
// ══════════════════════════════════════════════════════════════════════════════

// StudentRepository implements student.Repository.
type StudentRepository struct{ s *Store }

var _ student.Repository = (*StudentRepository)(nil)

func (r *StudentRepository) Create(ctx context.Context, st *student.Student) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	r.s.studentSeq++
	st.ID = r.s.studentSeq
	cp := *st
	r.s.students[st.ID] = &cp
	return nil
}

func (r *StudentRepository) GetByID(ctx context.Context, id shared.ID) (*student.Student, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	st, ok := r.s.students[id]
	if !ok {
		return nil, shared.ErrStudentNotFound
	}
	cp := *st
	return &cp, nil
}

func (r *StudentRepository) GetByIDs(ctx context.Context, ids []shared.ID) (map[shared.ID]*student.Student, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make(map[shared.ID]*student.Student, len(ids))
	for _, id := range ids {
		if st, ok := r.s.students[id]; ok {
			cp := *st
			out[id] = &cp
		}
	}
	return out, nil
}

func (r *StudentRepository) List(ctx context.Context, page shared.Page) ([]*student.Student, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	ids := sortedIDs(r.s.students)
	start, end := page.Bounds(len(ids))

	out := make([]*student.Student, 0, end-start)
	for _, id := range ids[start:end] {
		cp := *r.s.students[id]
		out = append(out, &cp)
	}
	return out, nil
}

func (r *StudentRepository) Update(ctx context.Context, st *student.Student) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.students[st.ID]; !ok {
		return shared.ErrStudentNotFound
	}
	cp := *st
	r.s.students[st.ID] = &cp
	return nil
}

func (r *StudentRepository) Delete(ctx context.Context, id shared.ID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.students[id]; !ok {
		return shared.ErrStudentNotFound
	}
	for gid, g := range r.s.grades {
		if g.StudentID == id {
			delete(r.s.grades, gid)
		}
	}
	delete(r.s.students, id)
	return nil
}

func (r *StudentRepository) Exists(ctx context.Context, id shared.ID) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	_, ok := r.s.students[id]
	return ok, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// SUBJECTS
// ══════════════════════════════════════════════════════════════════════════════

// SubjectRepository implements subject.Repository.
type SubjectRepository struct{ s *Store }

var _ subject.Repository = (*SubjectRepository)(nil)

// nameTaken must be called with the lock held.
func (r *SubjectRepository) nameTaken(name string, except shared.ID) bool {
	for id, sub := range r.s.subjects {
		if id != except && sub.Name == name {
			return true
		}
	}
	return false
}

func (r *SubjectRepository) Create(ctx context.Context, sub *subject.Subject) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if r.nameTaken(sub.Name, 0) {
		return shared.ErrSubjectAlreadyExists
	}
	r.s.subjectSeq++
	sub.ID = r.s.subjectSeq
	cp := *sub
	r.s.subjects[sub.ID] = &cp
	return nil
}

func (r *SubjectRepository) GetByID(ctx context.Context, id shared.ID) (*subject.Subject, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	sub, ok := r.s.subjects[id]
	if !ok {
		return nil, shared.ErrSubjectNotFound
	}
	cp := *sub
	return &cp, nil
}

func (r *SubjectRepository) GetByIDs(ctx context.Context, ids []shared.ID) (map[shared.ID]*subject.Subject, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make(map[shared.ID]*subject.Subject, len(ids))
	for _, id := range ids {
		if sub, ok := r.s.subjects[id]; ok {
			cp := *sub
			out[id] = &cp
		}
	}
	return out, nil
}

func (r *SubjectRepository) List(ctx context.Context, page shared.Page) ([]*subject.Subject, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	ids := sortedIDs(r.s.subjects)
	start, end := page.Bounds(len(ids))

	out := make([]*subject.Subject, 0, end-start)
	for _, id := range ids[start:end] {
		cp := *r.s.subjects[id]
		out = append(out, &cp)
	}
	return out, nil
}

func (r *SubjectRepository) Update(ctx context.Context, sub *subject.Subject) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.subjects[sub.ID]; !ok {
		return shared.ErrSubjectNotFound
	}
	if r.nameTaken(sub.Name, sub.ID) {
		return shared.ErrSubjectAlreadyExists
	}
	cp := *sub
	r.s.subjects[sub.ID] = &cp
	return nil
}

func (r *SubjectRepository) Delete(ctx context.Context, id shared.ID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, g := range r.s.grades {
		if g.SubjectID == id {
			return shared.ErrSubjectHasGrades
		}
	}
	if _, ok := r.s.subjects[id]; !ok {
		return shared.ErrSubjectNotFound
	}
	delete(r.s.subjects, id)
	return nil
}

func (r *SubjectRepository) Exists(ctx context.Context, id shared.ID) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	_, ok := r.s.subjects[id]
	return ok, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// GRADES
// ══════════════════════════════════════════════════════════════════════════════

// GradeRepository implements grade.Repository.
type GradeRepository struct{ s *Store }

var _ grade.Repository = (*GradeRepository)(nil)

// checkRefs must be called with the lock held.
func (r *GradeRepository) checkRefs(g *grade.Grade) error {
	if _, ok := r.s.students[g.StudentID]; !ok {
		return shared.ErrStudentNotFound
	}
	if _, ok := r.s.subjects[g.SubjectID]; !ok {
		return shared.ErrSubjectNotFound
	}
	return nil
}

func (r *GradeRepository) Create(ctx context.Context, g *grade.Grade) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if err := r.checkRefs(g); err != nil {
		return err
	}
	r.s.gradeSeq++
	g.ID = r.s.gradeSeq
	cp := *g
	r.s.grades[g.ID] = &cp
	return nil
}

func (r *GradeRepository) GetByID(ctx context.Context, id shared.ID) (*grade.Grade, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	g, ok := r.s.grades[id]
	if !ok {
		return nil, shared.ErrGradeNotFound
	}
	cp := *g
	return &cp, nil
}

// filtered must be called with the lock held.
func (r *GradeRepository) filtered(f grade.Filter) []*grade.Grade {
	var out []*grade.Grade
	for _, id := range sortedIDs(r.s.grades) {
		g := r.s.grades[id]
		if f.Matches(g) {
			cp := *g
			out = append(out, &cp)
		}
	}
	return out
}

func (r *GradeRepository) List(ctx context.Context, f grade.Filter, page shared.Page) ([]*grade.Grade, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	all := r.filtered(f)
	start, end := page.Bounds(len(all))
	return all[start:end], nil
}

func (r *GradeRepository) ListAll(ctx context.Context, f grade.Filter) ([]*grade.Grade, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	return r.filtered(f), nil
}

func (r *GradeRepository) ListByStudent(ctx context.Context, studentID shared.ID) ([]*grade.Grade, error) {
	return r.ListAll(ctx, grade.Filter{StudentID: studentID})
}

func (r *GradeRepository) Update(ctx context.Context, g *grade.Grade) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.grades[g.ID]; !ok {
		return shared.ErrGradeNotFound
	}
	if err := r.checkRefs(g); err != nil {
		return err
	}
	cp := *g
	r.s.grades[g.ID] = &cp
	return nil
}

func (r *GradeRepository) Delete(ctx context.Context, id shared.ID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.grades[id]; !ok {
		return shared.ErrGradeNotFound
	}
	delete(r.s.grades, id)
	return nil
}
