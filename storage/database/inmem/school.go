package inmemdb

import (
	"context"

	"github.com/trezcool/masomo-bulletin/core"
	"github.com/trezcool/masomo-bulletin/core/school"
)

type schoolRepository struct {
	db *DB
}

var _ school.Repository = (*schoolRepository)(nil) // interface compliance check

func NewSchoolRepository(db *DB) *schoolRepository {
	return &schoolRepository{db: db}
}

func (repo *schoolRepository) CreateClass(_ context.Context, class school.Class, _ ...core.DBExecutor) (school.Class, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	class.ID = newID()
	repo.db.classes.insert(class.ID, class)
	return class, nil
}

func (repo *schoolRepository) GetClass(_ context.Context, id string, _ ...core.DBExecutor) (school.Class, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	if class, ok := repo.db.classes.get(id); ok {
		return class, nil
	}
	return school.Class{}, school.ErrClassNotFound
}

func (repo *schoolRepository) ClassStudents(_ context.Context, classID string, _ ...core.DBExecutor) ([]school.Student, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	if _, ok := repo.db.classes.get(classID); !ok {
		return nil, school.ErrClassNotFound
	}
	students := make([]school.Student, 0)
	for _, s := range repo.db.students.all() {
		if s.ClassID == classID {
			students = append(students, s)
		}
	}
	return students, nil
}

func (repo *schoolRepository) CreateStudent(_ context.Context, student school.Student, _ ...core.DBExecutor) (school.Student, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	for _, s := range repo.db.students.all() {
		if s.Matricule == student.Matricule {
			return school.Student{}, core.NewFieldError("matricule", "a student with this matricule already exists")
		}
	}
	student.ID = newID()
	repo.db.students.insert(student.ID, student)
	return student, nil
}

func (repo *schoolRepository) GetStudent(_ context.Context, id string, _ ...core.DBExecutor) (school.Student, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	if s, ok := repo.db.students.get(id); ok {
		return s, nil
	}
	return school.Student{}, school.ErrStudentNotFound
}

func (repo *schoolRepository) GetStudentByUserID(_ context.Context, userID string, _ ...core.DBExecutor) (school.Student, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	for _, s := range repo.db.students.all() {
		if userID != "" && s.UserID == userID {
			return s, nil
		}
	}
	return school.Student{}, school.ErrStudentNotFound
}

func (repo *schoolRepository) DeleteStudent(_ context.Context, id string, _ ...core.DBExecutor) error {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	repo.db.students.delete(id)
	return nil
}

func (repo *schoolRepository) CreateSubject(_ context.Context, subject school.Subject, _ ...core.DBExecutor) (school.Subject, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	subject.ID = newID()
	repo.db.subjects.insert(subject.ID, subject)
	return subject, nil
}

func (repo *schoolRepository) GetSubject(_ context.Context, id string, _ ...core.DBExecutor) (school.Subject, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	if s, ok := repo.db.subjects.get(id); ok {
		return s, nil
	}
	return school.Subject{}, school.ErrSubjectNotFound
}
