package school

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/trezcool/masomo-bulletin/core"
)

var (
	// errors
	ErrClassNotFound   = errors.New("class not found")
	ErrStudentNotFound = errors.New("student not found")
	ErrSubjectNotFound = errors.New("subject not found")

	NowFunc = time.Now // mockable
)

type (
	Repository interface {
		CreateClass(ctx context.Context, class Class, exec ...core.DBExecutor) (Class, error)
		GetClass(ctx context.Context, id string, exec ...core.DBExecutor) (Class, error)
		// ClassStudents returns the roster of a class in enrolment order.
		ClassStudents(ctx context.Context, classID string, exec ...core.DBExecutor) ([]Student, error)

		CreateStudent(ctx context.Context, student Student, exec ...core.DBExecutor) (Student, error)
		GetStudent(ctx context.Context, id string, exec ...core.DBExecutor) (Student, error)
		GetStudentByUserID(ctx context.Context, userID string, exec ...core.DBExecutor) (Student, error)
		DeleteStudent(ctx context.Context, id string, exec ...core.DBExecutor) error

		CreateSubject(ctx context.Context, subject Subject, exec ...core.DBExecutor) (Subject, error)
		GetSubject(ctx context.Context, id string, exec ...core.DBExecutor) (Subject, error)
	}

	// StudentRecordsRemover deletes the records that reference a student.
	StudentRecordsRemover interface {
		DeleteForStudent(ctx context.Context, studentID string) error
	}

	Service struct {
		repo     Repository
		validate *validator.Validate
		removers []StudentRecordsRemover
	}
)

// NewService returns a school Service. removers are run in order before a student is deleted.
func NewService(repo Repository, validate *validator.Validate, removers ...StudentRecordsRemover) *Service {
	return &Service{repo: repo, validate: validate, removers: removers}
}

func (svc *Service) CreateClass(ctx context.Context, name string) (Class, error) {
	name = core.CleanString(name)
	if name == "" {
		return Class{}, core.NewFieldError("name", "this field is required")
	}
	return svc.repo.CreateClass(ctx, Class{Name: name, CreatedAt: NowFunc().UTC()})
}

func (svc *Service) GetClass(ctx context.Context, id string) (Class, error) {
	return svc.repo.GetClass(ctx, id)
}

func (svc *Service) ClassStudents(ctx context.Context, classID string) ([]Student, error) {
	return svc.repo.ClassStudents(ctx, classID)
}

func (svc *Service) Enrol(ctx context.Context, ns NewStudent) (Student, error) {
	if err := ns.Validate(svc.validate); err != nil {
		return Student{}, err
	}
	if ns.ClassID != "" {
		if _, err := svc.repo.GetClass(ctx, ns.ClassID); err != nil {
			return Student{}, err
		}
	}
	return svc.repo.CreateStudent(ctx, Student{
		UserID:    ns.UserID,
		ClassID:   ns.ClassID,
		FullName:  ns.FullName,
		Matricule: ns.Matricule,
		CreatedAt: NowFunc().UTC(),
	})
}

func (svc *Service) GetStudent(ctx context.Context, id string) (Student, error) {
	return svc.repo.GetStudent(ctx, id)
}

func (svc *Service) GetStudentByUserID(ctx context.Context, userID string) (Student, error) {
	return svc.repo.GetStudentByUserID(ctx, userID)
}

func (svc *Service) CreateSubject(ctx context.Context, name, classID, teacherID string) (Subject, error) {
	name = core.CleanString(name)
	if name == "" {
		return Subject{}, core.NewFieldError("name", "this field is required")
	}
	return svc.repo.CreateSubject(ctx, Subject{
		Name:      name,
		ClassID:   classID,
		TeacherID: teacherID,
		CreatedAt: NowFunc().UTC(),
	})
}

func (svc *Service) GetSubject(ctx context.Context, id string) (Subject, error) {
	return svc.repo.GetSubject(ctx, id)
}

// RegisterRemovers appends removers to the ones run before a student is deleted.
func (svc *Service) RegisterRemovers(removers ...StudentRecordsRemover) {
	svc.removers = append(svc.removers, removers...)
}

// RemoveStudent deletes a student after its dependent records (report cards, grades...).
// Nothing is cascaded by the storage: each remover runs explicitly, in order.
func (svc *Service) RemoveStudent(ctx context.Context, id string) error {
	if _, err := svc.repo.GetStudent(ctx, id); err != nil {
		return err
	}
	for _, rm := range svc.removers {
		if err := rm.DeleteForStudent(ctx, id); err != nil {
			return errors.Wrap(err, "deleting student records")
		}
	}
	return errors.Wrap(svc.repo.DeleteStudent(ctx, id), "deleting student")
}
