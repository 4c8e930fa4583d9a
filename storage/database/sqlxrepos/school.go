package sqlxrepos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/masomo-bulletin/core"
	"github.com/trezcool/masomo-bulletin/core/school"
	"github.com/trezcool/masomo-bulletin/storage/database"
)

const (
	studentColumns = "id, user_id, class_id, full_name, matricule, created_at"
	subjectColumns = "id, name, class_id, teacher_id, created_at"
)

type studentRow struct {
	ID        string      `db:"id"`
	UserID    null.String `db:"user_id"`
	ClassID   null.String `db:"class_id"`
	FullName  string      `db:"full_name"`
	Matricule string      `db:"matricule"`
	CreatedAt time.Time   `db:"created_at"`
}

func (row studentRow) student() school.Student {
	return school.Student{
		ID:        row.ID,
		UserID:    row.UserID.String,
		ClassID:   row.ClassID.String,
		FullName:  row.FullName,
		Matricule: row.Matricule,
		CreatedAt: row.CreatedAt.UTC(),
	}
}

type subjectRow struct {
	ID        string      `db:"id"`
	Name      string      `db:"name"`
	ClassID   null.String `db:"class_id"`
	TeacherID null.String `db:"teacher_id"`
	CreatedAt time.Time   `db:"created_at"`
}

func (row subjectRow) subject() school.Subject {
	return school.Subject{
		ID:        row.ID,
		Name:      row.Name,
		ClassID:   row.ClassID.String,
		TeacherID: row.TeacherID.String,
		CreatedAt: row.CreatedAt.UTC(),
	}
}

func nullID(id string) null.String {
	return null.NewString(id, id != "")
}

type schoolRepository struct {
	repository
}

var _ school.Repository = (*schoolRepository)(nil) // interface compliance check

func NewSchoolRepository(exec core.DBExecutor) *schoolRepository {
	return &schoolRepository{repository{exec: exec}}
}

func (repo schoolRepository) CreateClass(ctx context.Context, class school.Class, exec ...core.DBExecutor) (school.Class, error) {
	class.ID = uuid.New().String()
	class.CreatedAt = class.CreatedAt.UTC()
	_, err := repo.execute(ctx, exec, "INSERT INTO classes (id, name, created_at) VALUES (?, ?, ?)", class.ID, class.Name, class.CreatedAt)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return school.Class{}, core.NewFieldError("name", "a class with this name already exists")
		}
		return school.Class{}, errors.Wrap(err, "inserting class")
	}
	return class, nil
}

func (repo schoolRepository) GetClass(ctx context.Context, id string, exec ...core.DBExecutor) (school.Class, error) {
	var class struct {
		ID        string    `db:"id"`
		Name      string    `db:"name"`
		CreatedAt time.Time `db:"created_at"`
	}
	if err := repo.get(ctx, exec, &class, "SELECT id, name, created_at FROM classes WHERE id = ?", id); err != nil {
		return school.Class{}, trapNoRowsErr(err, school.ErrClassNotFound, "finding class")
	}
	return school.Class{ID: class.ID, Name: class.Name, CreatedAt: class.CreatedAt.UTC()}, nil
}

func (repo schoolRepository) ClassStudents(ctx context.Context, classID string, exec ...core.DBExecutor) ([]school.Student, error) {
	if _, err := repo.GetClass(ctx, classID, exec...); err != nil {
		return nil, err
	}
	var rows []studentRow
	err := repo.selekt(ctx, exec, &rows, "SELECT "+studentColumns+" FROM students WHERE class_id = ? ORDER BY created_at, id", classID)
	if err != nil {
		return nil, errors.Wrap(err, "querying class students")
	}
	students := make([]school.Student, 0, len(rows))
	for _, row := range rows {
		students = append(students, row.student())
	}
	return students, nil
}

func (repo schoolRepository) CreateStudent(ctx context.Context, student school.Student, exec ...core.DBExecutor) (school.Student, error) {
	student.ID = uuid.New().String()
	student.CreatedAt = student.CreatedAt.UTC()
	_, err := repo.execute(
		ctx, exec,
		"INSERT INTO students ("+studentColumns+") VALUES (?, ?, ?, ?, ?, ?)",
		student.ID, nullID(student.UserID), nullID(student.ClassID), student.FullName, student.Matricule, student.CreatedAt,
	)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return school.Student{}, core.NewFieldError("matricule", "a student with this matricule already exists")
		}
		return school.Student{}, errors.Wrap(err, "inserting student")
	}
	return student, nil
}

func (repo schoolRepository) GetStudent(ctx context.Context, id string, exec ...core.DBExecutor) (school.Student, error) {
	var row studentRow
	if err := repo.get(ctx, exec, &row, "SELECT "+studentColumns+" FROM students WHERE id = ?", id); err != nil {
		return school.Student{}, trapNoRowsErr(err, school.ErrStudentNotFound, "finding student")
	}
	return row.student(), nil
}

func (repo schoolRepository) GetStudentByUserID(ctx context.Context, userID string, exec ...core.DBExecutor) (school.Student, error) {
	if userID == "" {
		return school.Student{}, school.ErrStudentNotFound
	}
	var row studentRow
	if err := repo.get(ctx, exec, &row, "SELECT "+studentColumns+" FROM students WHERE user_id = ? LIMIT 1", userID); err != nil {
		return school.Student{}, trapNoRowsErr(err, school.ErrStudentNotFound, "finding student by user")
	}
	return row.student(), nil
}

func (repo schoolRepository) DeleteStudent(ctx context.Context, id string, exec ...core.DBExecutor) error {
	if _, err := repo.execute(ctx, exec, "DELETE FROM students WHERE id = ?", id); err != nil {
		return errors.Wrap(err, "deleting student")
	}
	return nil
}

func (repo schoolRepository) CreateSubject(ctx context.Context, subject school.Subject, exec ...core.DBExecutor) (school.Subject, error) {
	subject.ID = uuid.New().String()
	subject.CreatedAt = subject.CreatedAt.UTC()
	_, err := repo.execute(
		ctx, exec,
		"INSERT INTO subjects ("+subjectColumns+") VALUES (?, ?, ?, ?, ?)",
		subject.ID, subject.Name, nullID(subject.ClassID), nullID(subject.TeacherID), subject.CreatedAt,
	)
	if err != nil {
		return school.Subject{}, errors.Wrap(err, "inserting subject")
	}
	return subject, nil
}

func (repo schoolRepository) GetSubject(ctx context.Context, id string, exec ...core.DBExecutor) (school.Subject, error) {
	var row subjectRow
	if err := repo.get(ctx, exec, &row, "SELECT "+subjectColumns+" FROM subjects WHERE id = ?", id); err != nil {
		return school.Subject{}, trapNoRowsErr(err, school.ErrSubjectNotFound, "finding subject")
	}
	return row.subject(), nil
}
