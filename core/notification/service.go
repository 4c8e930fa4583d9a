package notification

import (
	"context"
	"encoding/json"
	"net/mail"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/trezcool/masomo-bulletin/core"
	"github.com/trezcool/masomo-bulletin/core/user"
)

var (
	// errors
	ErrNotFound = errors.New("notification not found")

	NowFunc = time.Now // mockable
)

const emailTemplate = "notification"

type (
	Repository interface {
		CreateNotification(ctx context.Context, n Notification, exec ...core.DBExecutor) (Notification, error)
		GetNotification(ctx context.Context, id string, exec ...core.DBExecutor) (Notification, error)
		// QueryNotifications returns the notifications of a recipient, newest first.
		QueryNotifications(ctx context.Context, recipientID string, filter QueryFilter, exec ...core.DBExecutor) ([]Notification, error)
		MarkRead(ctx context.Context, id string, exec ...core.DBExecutor) error
		CountUnread(ctx context.Context, recipientID string, exec ...core.DBExecutor) (int, error)
	}

	UserGetter interface {
		GetByID(ctx context.Context, id string) (user.User, error)
	}

	Service struct {
		repo     Repository
		users    UserGetter
		mailSvc  core.EmailService
		validate *validator.Validate
	}
)

func NewService(repo Repository, users UserGetter, mailSvc core.EmailService, validate *validator.Validate) *Service {
	return &Service{
		repo:     repo,
		users:    users,
		mailSvc:  mailSvc,
		validate: validate,
	}
}

// Send stores a notification for its recipient and emails it when the recipient has an email address.
func (svc *Service) Send(ctx context.Context, nn NewNotification) (Notification, error) {
	if err := svc.validate.Struct(nn); err != nil {
		return Notification{}, err
	}

	rcpt, err := svc.users.GetByID(ctx, nn.RecipientID)
	if err != nil {
		return Notification{}, errors.Wrap(err, "finding recipient")
	}

	n := Notification{
		RecipientID: nn.RecipientID,
		ActorID:     nn.ActorID,
		Title:       nn.Title,
		Body:        nn.Body,
		Category:    nn.Category,
		Priority:    nn.Priority,
		Link:        nn.Link,
		CreatedAt:   NowFunc().UTC(),
	}
	if nn.Payload != nil {
		if n.Payload, err = json.Marshal(nn.Payload); err != nil {
			return Notification{}, errors.Wrap(err, "marshalling payload")
		}
	}

	if n, err = svc.repo.CreateNotification(ctx, n); err != nil {
		return Notification{}, errors.Wrap(err, "creating notification")
	}

	if rcpt.Email != "" {
		svc.mailSvc.SendMessages(&core.EmailMessage{
			To:           []mail.Address{{Name: rcpt.Name, Address: rcpt.Email}},
			Subject:      n.Title,
			Category:     n.Category,
			TemplateName: emailTemplate,
			TemplateData: n,
		})
	}
	return n, nil
}

func (svc *Service) Query(ctx context.Context, recipientID string, filter QueryFilter) ([]Notification, error) {
	return svc.repo.QueryNotifications(ctx, recipientID, filter)
}

// MarkRead marks one of the recipient's notifications as read.
func (svc *Service) MarkRead(ctx context.Context, recipientID, id string) (Notification, error) {
	n, err := svc.repo.GetNotification(ctx, id)
	if err != nil {
		return Notification{}, err
	}
	if n.RecipientID != recipientID {
		return Notification{}, ErrNotFound
	}
	if n.IsRead {
		return n, nil
	}
	if err = svc.repo.MarkRead(ctx, id); err != nil {
		return Notification{}, errors.Wrap(err, "marking notification as read")
	}
	n.IsRead = true
	return n, nil
}

func (svc *Service) CountUnread(ctx context.Context, recipientID string) (int, error) {
	return svc.repo.CountUnread(ctx, recipientID)
}
