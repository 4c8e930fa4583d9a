package bulletin

import (
	"context"
	"fmt"

	"github.com/pkg/errors"

	"github.com/trezcool/masomo-bulletin/core/notification"
	"github.com/trezcool/masomo-bulletin/core/user"
)

const publishedTitle = "Nouveau bulletin disponible"

// Publish makes a report card visible to its student and notifies them.
// Publishing an already published report card notifies the student again.
func (svc *Service) Publish(ctx context.Context, actor user.User, id string) (ReportCard, error) {
	rc, err := svc.repo.GetReportCard(ctx, id)
	if err != nil {
		return ReportCard{}, err
	}

	if !rc.Published {
		rc.Published = true
		rc.UpdatedAt = NowFunc().UTC()
		if rc, err = svc.repo.UpdateReportCard(ctx, rc); err != nil {
			return ReportCard{}, errors.Wrap(err, "publishing report card")
		}
	}

	student, err := svc.roster.GetStudent(ctx, rc.StudentID)
	if err != nil {
		return rc, errors.Wrap(err, "finding student")
	}
	if !student.HasAccount() {
		svc.logger.Warn(fmt.Sprintf("report card %s published: student %s has no account to notify", rc.ID, student.ID), actor)
		return rc, nil
	}

	_, err = svc.notifier.Send(ctx, notification.NewNotification{
		RecipientID: student.UserID,
		ActorID:     actor.ID,
		Title:       publishedTitle,
		Body:        fmt.Sprintf("Le bulletin du %s est maintenant disponible.", rc.Period.Label()),
		Category:    notification.CategoryBulletin,
		Priority:    notification.PriorityNormal,
		Link:        "/bulletins/" + rc.ID,
	})
	if err != nil {
		return rc, errors.Wrap(err, "notifying student")
	}
	return rc, nil
}
