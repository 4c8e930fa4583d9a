package inmemdb

import (
	"context"

	"github.com/trezcool/masomo-bulletin/core"
	"github.com/trezcool/masomo-bulletin/core/grade"
	"github.com/trezcool/masomo-bulletin/core/school"
)

type gradeRepository struct {
	db *DB
}

var _ grade.Repository = (*gradeRepository)(nil) // interface compliance check

func NewGradeRepository(db *DB) *gradeRepository {
	return &gradeRepository{db: db}
}

func (repo *gradeRepository) CreateGrade(_ context.Context, g grade.Grade, _ ...core.DBExecutor) (grade.Grade, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	g.ID = newID()
	g.SubjectName = ""
	repo.db.grades.insert(g.ID, g)
	return g, nil
}

func (repo *gradeRepository) StudentGrades(_ context.Context, studentID string, period school.Period, _ ...core.DBExecutor) ([]grade.Grade, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	grades := make([]grade.Grade, 0)
	for _, g := range repo.db.grades.all() {
		if g.StudentID == studentID && g.Period == period {
			if subject, ok := repo.db.subjects.get(g.SubjectID); ok {
				g.SubjectName = subject.Name
			}
			grades = append(grades, g)
		}
	}
	return grades, nil
}

func (repo *gradeRepository) DeleteStudentGrades(_ context.Context, studentID string, _ ...core.DBExecutor) error {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	repo.db.grades.deleteWhere(func(g grade.Grade) bool { return g.StudentID == studentID })
	return nil
}
