package services

import (
	"context"
	"sort"
	"strings"
	"sync"

	"gorm.io/gorm"

	"github.com/SAP-F-2025/records-service/internal/models"
	"github.com/SAP-F-2025/records-service/internal/repositories"
)

// mockRepository is an in-memory Repository for service tests. It enforces
// the same uniqueness invariants as the real store (email, user_id, the
// enrollment pair) and surfaces violations as gorm.ErrDuplicatedKey.
// WithTransaction serializes on the store mutex and restores a snapshot
// when fn fails, so rollback behavior is observable in tests.
type mockRepository struct {
	mu sync.Mutex

	users       map[string]*models.User
	students    map[uint]*models.Student
	lecturers   map[uint]*models.Lecturer
	admins      map[uint]*models.Admin
	departments map[uint]*models.Department
	majors      map[uint]*models.Major
	courses     map[uint]*models.Course
	enrollments map[uint]*models.Enrollment

	nextID uint

	// set when bound to an open transaction
	inTx bool
}

func newMockRepository() *mockRepository {
	return &mockRepository{
		users:       make(map[string]*models.User),
		students:    make(map[uint]*models.Student),
		lecturers:   make(map[uint]*models.Lecturer),
		admins:      make(map[uint]*models.Admin),
		departments: make(map[uint]*models.Department),
		majors:      make(map[uint]*models.Major),
		courses:     make(map[uint]*models.Course),
		enrollments: make(map[uint]*models.Enrollment),
	}
}

func (m *mockRepository) lock() {
	if !m.inTx {
		m.mu.Lock()
	}
}

func (m *mockRepository) unlock() {
	if !m.inTx {
		m.mu.Unlock()
	}
}

func (m *mockRepository) nextSeq() uint {
	m.nextID++
	return m.nextID
}

func (m *mockRepository) User() repositories.UserRepository             { return &mockUserRepo{m} }
func (m *mockRepository) Student() repositories.StudentRepository       { return &mockStudentRepo{m} }
func (m *mockRepository) Lecturer() repositories.LecturerRepository     { return &mockLecturerRepo{m} }
func (m *mockRepository) Admin() repositories.AdminRepository           { return &mockAdminRepo{m} }
func (m *mockRepository) Department() repositories.DepartmentRepository { return &mockDepartmentRepo{m} }
func (m *mockRepository) Major() repositories.MajorRepository           { return &mockMajorRepo{m} }
func (m *mockRepository) Course() repositories.CourseRepository         { return &mockCourseRepo{m} }
func (m *mockRepository) Enrollment() repositories.EnrollmentRepository { return &mockEnrollmentRepo{m} }

func (m *mockRepository) WithTransaction(ctx context.Context, fn func(repositories.Repository) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	snapshot := m.snapshot()
	tx := &mockRepository{
		users:       m.users,
		students:    m.students,
		lecturers:   m.lecturers,
		admins:      m.admins,
		departments: m.departments,
		majors:      m.majors,
		courses:     m.courses,
		enrollments: m.enrollments,
		nextID:      m.nextID,
		inTx:        true,
	}

	if err := fn(tx); err != nil {
		m.restore(snapshot)
		return err
	}
	m.nextID = tx.nextID
	return nil
}

func (m *mockRepository) Ping(ctx context.Context) error { return nil }
func (m *mockRepository) Close() error                   { return nil }

type repoSnapshot struct {
	users       map[string]*models.User
	students    map[uint]*models.Student
	lecturers   map[uint]*models.Lecturer
	admins      map[uint]*models.Admin
	departments map[uint]*models.Department
	majors      map[uint]*models.Major
	courses     map[uint]*models.Course
	enrollments map[uint]*models.Enrollment
	nextID      uint
}

func (m *mockRepository) snapshot() repoSnapshot {
	s := repoSnapshot{
		users:       make(map[string]*models.User, len(m.users)),
		students:    make(map[uint]*models.Student, len(m.students)),
		lecturers:   make(map[uint]*models.Lecturer, len(m.lecturers)),
		admins:      make(map[uint]*models.Admin, len(m.admins)),
		departments: make(map[uint]*models.Department, len(m.departments)),
		majors:      make(map[uint]*models.Major, len(m.majors)),
		courses:     make(map[uint]*models.Course, len(m.courses)),
		enrollments: make(map[uint]*models.Enrollment, len(m.enrollments)),
		nextID:      m.nextID,
	}
	for k, v := range m.users {
		u := *v
		s.users[k] = &u
	}
	for k, v := range m.students {
		st := *v
		s.students[k] = &st
	}
	for k, v := range m.lecturers {
		l := *v
		s.lecturers[k] = &l
	}
	for k, v := range m.admins {
		a := *v
		s.admins[k] = &a
	}
	for k, v := range m.departments {
		d := *v
		s.departments[k] = &d
	}
	for k, v := range m.majors {
		mj := *v
		s.majors[k] = &mj
	}
	for k, v := range m.courses {
		c := *v
		s.courses[k] = &c
	}
	for k, v := range m.enrollments {
		e := *v
		s.enrollments[k] = &e
	}
	return s
}

func (m *mockRepository) restore(s repoSnapshot) {
	clearMap(m.users, s.users)
	clearMap(m.students, s.students)
	clearMap(m.lecturers, s.lecturers)
	clearMap(m.admins, s.admins)
	clearMap(m.departments, s.departments)
	clearMap(m.majors, s.majors)
	clearMap(m.courses, s.courses)
	clearMap(m.enrollments, s.enrollments)
	m.nextID = s.nextID
}

func clearMap[K comparable, V any](dst, src map[K]V) {
	for k := range dst {
		delete(dst, k)
	}
	for k, v := range src {
		dst[k] = v
	}
}

// ===== USER =====

type mockUserRepo struct{ m *mockRepository }

func (r *mockUserRepo) Create(ctx context.Context, user *models.User) error {
	r.m.lock()
	defer r.m.unlock()

	for _, u := range r.m.users {
		if strings.EqualFold(u.Email, user.Email) {
			return gorm.ErrDuplicatedKey
		}
	}
	u := *user
	r.m.users[user.ID] = &u
	return nil
}

func (r *mockUserRepo) Update(ctx context.Context, user *models.User) error {
	r.m.lock()
	defer r.m.unlock()

	if _, ok := r.m.users[user.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	u := *user
	r.m.users[user.ID] = &u
	return nil
}

func (r *mockUserRepo) Delete(ctx context.Context, id string) error {
	r.m.lock()
	defer r.m.unlock()

	if _, ok := r.m.users[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.m.users, id)
	return nil
}

func (r *mockUserRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	r.m.lock()
	defer r.m.unlock()

	u, ok := r.m.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	out := *u
	return &out, nil
}

func (r *mockUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	r.m.lock()
	defer r.m.unlock()

	for _, u := range r.m.users {
		if strings.EqualFold(u.Email, email) {
			out := *u
			return &out, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *mockUserRepo) List(ctx context.Context, filters repositories.UserFilters) ([]*models.User, int64, error) {
	r.m.lock()
	defer r.m.unlock()

	var users []*models.User
	for _, u := range r.m.users {
		if filters.Role != nil && u.Role != *filters.Role {
			continue
		}
		if filters.Query != "" &&
			!strings.Contains(strings.ToLower(u.FullName), strings.ToLower(filters.Query)) &&
			!strings.Contains(strings.ToLower(u.Email), strings.ToLower(filters.Query)) {
			continue
		}
		out := *u
		users = append(users, &out)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].Email < users[j].Email })
	return users, int64(len(users)), nil
}

func (r *mockUserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	r.m.lock()
	defer r.m.unlock()

	for _, u := range r.m.users {
		if strings.EqualFold(u.Email, email) {
			return true, nil
		}
	}
	return false, nil
}

// ===== STUDENT =====

type mockStudentRepo struct{ m *mockRepository }

func (r *mockStudentRepo) Create(ctx context.Context, student *models.Student) error {
	r.m.lock()
	defer r.m.unlock()

	for _, s := range r.m.students {
		if s.UserID == student.UserID {
			return gorm.ErrDuplicatedKey
		}
	}
	student.ID = r.m.nextSeq()
	s := *student
	r.m.students[student.ID] = &s
	return nil
}

func (r *mockStudentRepo) Delete(ctx context.Context, id uint) error {
	r.m.lock()
	defer r.m.unlock()

	if _, ok := r.m.students[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.m.students, id)
	return nil
}

func (r *mockStudentRepo) GetByID(ctx context.Context, id uint) (*models.Student, error) {
	r.m.lock()
	defer r.m.unlock()

	s, ok := r.m.students[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	out := *s
	return &out, nil
}

func (r *mockStudentRepo) GetByUserID(ctx context.Context, userID string) (*models.Student, error) {
	r.m.lock()
	defer r.m.unlock()

	for _, s := range r.m.students {
		if s.UserID == userID {
			out := *s
			return &out, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *mockStudentRepo) UpdateMajor(ctx context.Context, id uint, majorID uint) error {
	r.m.lock()
	defer r.m.unlock()

	s, ok := r.m.students[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	s.MajorID = majorID
	return nil
}

// ===== LECTURER =====

type mockLecturerRepo struct{ m *mockRepository }

func (r *mockLecturerRepo) Create(ctx context.Context, lecturer *models.Lecturer) error {
	r.m.lock()
	defer r.m.unlock()

	for _, l := range r.m.lecturers {
		if l.UserID == lecturer.UserID {
			return gorm.ErrDuplicatedKey
		}
	}
	lecturer.ID = r.m.nextSeq()
	l := *lecturer
	r.m.lecturers[lecturer.ID] = &l
	return nil
}

func (r *mockLecturerRepo) Delete(ctx context.Context, id uint) error {
	r.m.lock()
	defer r.m.unlock()

	if _, ok := r.m.lecturers[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.m.lecturers, id)
	return nil
}

func (r *mockLecturerRepo) GetByUserID(ctx context.Context, userID string) (*models.Lecturer, error) {
	r.m.lock()
	defer r.m.unlock()

	for _, l := range r.m.lecturers {
		if l.UserID == userID {
			out := *l
			return &out, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

// ===== ADMIN =====

type mockAdminRepo struct{ m *mockRepository }

func (r *mockAdminRepo) Create(ctx context.Context, admin *models.Admin) error {
	r.m.lock()
	defer r.m.unlock()

	for _, a := range r.m.admins {
		if a.UserID == admin.UserID {
			return gorm.ErrDuplicatedKey
		}
	}
	admin.ID = r.m.nextSeq()
	a := *admin
	r.m.admins[admin.ID] = &a
	return nil
}

func (r *mockAdminRepo) Delete(ctx context.Context, id uint) error {
	r.m.lock()
	defer r.m.unlock()

	if _, ok := r.m.admins[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.m.admins, id)
	return nil
}

func (r *mockAdminRepo) GetByUserID(ctx context.Context, userID string) (*models.Admin, error) {
	r.m.lock()
	defer r.m.unlock()

	for _, a := range r.m.admins {
		if a.UserID == userID {
			out := *a
			return &out, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

// ===== DEPARTMENT =====

type mockDepartmentRepo struct{ m *mockRepository }

func (r *mockDepartmentRepo) Create(ctx context.Context, department *models.Department) error {
	r.m.lock()
	defer r.m.unlock()

	department.ID = r.m.nextSeq()
	d := *department
	r.m.departments[department.ID] = &d
	return nil
}

func (r *mockDepartmentRepo) GetByID(ctx context.Context, id uint) (*models.Department, error) {
	r.m.lock()
	defer r.m.unlock()

	d, ok := r.m.departments[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	out := *d
	return &out, nil
}

func (r *mockDepartmentRepo) List(ctx context.Context) ([]*models.Department, error) {
	r.m.lock()
	defer r.m.unlock()

	var out []*models.Department
	for _, d := range r.m.departments {
		dd := *d
		out = append(out, &dd)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// ===== MAJOR =====

type mockMajorRepo struct{ m *mockRepository }

func (r *mockMajorRepo) Create(ctx context.Context, major *models.Major) error {
	r.m.lock()
	defer r.m.unlock()

	if major.ID == 0 {
		major.ID = r.m.nextSeq()
	}
	mj := *major
	r.m.majors[major.ID] = &mj
	return nil
}

func (r *mockMajorRepo) GetByID(ctx context.Context, id uint) (*models.Major, error) {
	r.m.lock()
	defer r.m.unlock()

	mj, ok := r.m.majors[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	out := *mj
	return &out, nil
}

func (r *mockMajorRepo) List(ctx context.Context) ([]*models.Major, error) {
	r.m.lock()
	defer r.m.unlock()

	var out []*models.Major
	for _, mj := range r.m.majors {
		mm := *mj
		out = append(out, &mm)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *mockMajorRepo) GetFirst(ctx context.Context) (*models.Major, error) {
	r.m.lock()
	defer r.m.unlock()

	var first *models.Major
	for _, mj := range r.m.majors {
		if first == nil || mj.ID < first.ID {
			first = mj
		}
	}
	if first == nil {
		return nil, gorm.ErrRecordNotFound
	}
	out := *first
	return &out, nil
}

func (r *mockMajorRepo) Count(ctx context.Context) (int64, error) {
	r.m.lock()
	defer r.m.unlock()
	return int64(len(r.m.majors)), nil
}

// ===== COURSE =====

type mockCourseRepo struct{ m *mockRepository }

func (r *mockCourseRepo) Create(ctx context.Context, course *models.Course) error {
	r.m.lock()
	defer r.m.unlock()

	if course.ID == 0 {
		course.ID = r.m.nextSeq()
	}
	c := *course
	r.m.courses[course.ID] = &c
	return nil
}

func (r *mockCourseRepo) GetByID(ctx context.Context, id uint) (*models.Course, error) {
	r.m.lock()
	defer r.m.unlock()

	c, ok := r.m.courses[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	out := *c
	return &out, nil
}

func (r *mockCourseRepo) List(ctx context.Context) ([]*models.Course, error) {
	r.m.lock()
	defer r.m.unlock()

	var out []*models.Course
	for _, c := range r.m.courses {
		cc := *c
		out = append(out, &cc)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// ===== ENROLLMENT =====

type mockEnrollmentRepo struct{ m *mockRepository }

func (r *mockEnrollmentRepo) Create(ctx context.Context, enrollment *models.Enrollment) error {
	r.m.lock()
	defer r.m.unlock()

	for _, e := range r.m.enrollments {
		if e.StudentID == enrollment.StudentID && e.CourseID == enrollment.CourseID {
			return gorm.ErrDuplicatedKey
		}
	}
	enrollment.ID = r.m.nextSeq()
	e := *enrollment
	r.m.enrollments[enrollment.ID] = &e
	return nil
}

func (r *mockEnrollmentRepo) GetByPair(ctx context.Context, studentID, courseID uint) (*models.Enrollment, error) {
	r.m.lock()
	defer r.m.unlock()

	for _, e := range r.m.enrollments {
		if e.StudentID == studentID && e.CourseID == courseID {
			out := *e
			return &out, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *mockEnrollmentRepo) DeleteByPair(ctx context.Context, studentID, courseID uint) (bool, error) {
	r.m.lock()
	defer r.m.unlock()

	for id, e := range r.m.enrollments {
		if e.StudentID == studentID && e.CourseID == courseID {
			delete(r.m.enrollments, id)
			return true, nil
		}
	}
	return false, nil
}

func (r *mockEnrollmentRepo) DeleteByStudent(ctx context.Context, studentID uint) error {
	r.m.lock()
	defer r.m.unlock()

	for id, e := range r.m.enrollments {
		if e.StudentID == studentID {
			delete(r.m.enrollments, id)
		}
	}
	return nil
}

func (r *mockEnrollmentRepo) ListByStudent(ctx context.Context, studentID uint) ([]*models.Enrollment, error) {
	r.m.lock()
	defer r.m.unlock()

	var out []*models.Enrollment
	for _, e := range r.m.enrollments {
		if e.StudentID == studentID {
			ee := *e
			out = append(out, &ee)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *mockEnrollmentRepo) ListByCourse(ctx context.Context, courseID uint) ([]*models.Enrollment, error) {
	r.m.lock()
	defer r.m.unlock()

	var out []*models.Enrollment
	for _, e := range r.m.enrollments {
		if e.CourseID == courseID {
			ee := *e
			if s, ok := r.m.students[e.StudentID]; ok {
				ss := *s
				if u, ok := r.m.users[s.UserID]; ok {
					uu := *u
					ss.User = &uu
				}
				ee.Student = &ss
			}
			out = append(out, &ee)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *mockEnrollmentRepo) CountByCourse(ctx context.Context, courseID uint) (int64, error) {
	r.m.lock()
	defer r.m.unlock()

	var count int64
	for _, e := range r.m.enrollments {
		if e.CourseID == courseID {
			count++
		}
	}
	return count, nil
}
