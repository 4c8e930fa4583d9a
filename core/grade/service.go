package grade

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/trezcool/masomo-bulletin/core"
	"github.com/trezcool/masomo-bulletin/core/notification"
	"github.com/trezcool/masomo-bulletin/core/school"
	"github.com/trezcool/masomo-bulletin/core/user"
)

var (
	// errors
	ErrUnauthorizedSubject = errors.New("you are not allowed to grade this subject")

	NowFunc = time.Now // mockable
)

type (
	Repository interface {
		CreateGrade(ctx context.Context, g Grade, exec ...core.DBExecutor) (Grade, error)
		// StudentGrades returns the grades of a student for a period, oldest first, with their subject name.
		StudentGrades(ctx context.Context, studentID string, period school.Period, exec ...core.DBExecutor) ([]Grade, error)
		DeleteStudentGrades(ctx context.Context, studentID string, exec ...core.DBExecutor) error
	}

	SchoolService interface {
		GetStudent(ctx context.Context, id string) (school.Student, error)
		GetSubject(ctx context.Context, id string) (school.Subject, error)
	}

	Notifier interface {
		Send(ctx context.Context, nn notification.NewNotification) (notification.Notification, error)
	}

	Service struct {
		repo      Repository
		schoolSvc SchoolService
		notifier  Notifier
		validate  *validator.Validate
	}
)

func NewService(repo Repository, schoolSvc SchoolService, notifier Notifier, validate *validator.Validate) *Service {
	return &Service{
		repo:      repo,
		schoolSvc: schoolSvc,
		notifier:  notifier,
		validate:  validate,
	}
}

// Record stores a grade given by the teacher of the subject and notifies the student.
func (svc *Service) Record(ctx context.Context, actor user.User, ng NewGrade) (Grade, error) {
	if err := ng.Validate(svc.validate); err != nil {
		return Grade{}, err
	}

	subject, err := svc.schoolSvc.GetSubject(ctx, ng.SubjectID)
	if err != nil {
		return Grade{}, err
	}
	if !subject.IsTaughtBy(actor.ID) {
		return Grade{}, ErrUnauthorizedSubject
	}
	student, err := svc.schoolSvc.GetStudent(ctx, ng.StudentID)
	if err != nil {
		return Grade{}, err
	}

	g, err := svc.repo.CreateGrade(ctx, Grade{
		StudentID:  student.ID,
		SubjectID:  subject.ID,
		Period:     ng.Period,
		Value:      ng.Value,
		Kind:       ng.Kind,
		Comment:    ng.Comment,
		RecordedBy: actor.ID,
		RecordedAt: NowFunc().UTC(),
	})
	if err != nil {
		return Grade{}, errors.Wrap(err, "creating grade")
	}
	g.SubjectName = subject.Name

	if student.HasAccount() {
		_, err = svc.notifier.Send(ctx, notification.NewNotification{
			RecipientID: student.UserID,
			ActorID:     actor.ID,
			Title:       "Nouvelle note ajoutée",
			Body:        fmt.Sprintf("Une note de %.2f/20 a été ajoutée en %s.", g.Value, subject.Name),
			Category:    notification.CategoryNote,
			Priority:    notification.PriorityNormal,
			Payload: map[string]interface{}{
				"valeur":  g.Value,
				"matiere": subject.Name,
				"note_id": g.ID,
			},
			Link: "/notes/" + g.ID,
		})
		if err != nil {
			return g, errors.Wrap(err, "notifying student")
		}
	}
	return g, nil
}

func (svc *Service) StudentGrades(ctx context.Context, studentID string, period school.Period) ([]Grade, error) {
	return svc.repo.StudentGrades(ctx, studentID, period)
}

// DeleteForStudent removes every grade of a student.
func (svc *Service) DeleteForStudent(ctx context.Context, studentID string) error {
	return svc.repo.DeleteStudentGrades(ctx, studentID)
}
