package sqlxrepos

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/masomo-bulletin/core"
	"github.com/trezcool/masomo-bulletin/core/notification"
)

const notificationColumns = "id, recipient_id, actor_id, title, body, category, priority, payload, link, is_read, created_at"

type notificationRow struct {
	ID          string      `db:"id"`
	RecipientID string      `db:"recipient_id"`
	ActorID     null.String `db:"actor_id"`
	Title       string      `db:"title"`
	Body        string      `db:"body"`
	Category    string      `db:"category"`
	Priority    string      `db:"priority"`
	Payload     null.String `db:"payload"`
	Link        null.String `db:"link"`
	IsRead      bool        `db:"is_read"`
	CreatedAt   time.Time   `db:"created_at"`
}

func (row notificationRow) notification() notification.Notification {
	n := notification.Notification{
		ID:          row.ID,
		RecipientID: row.RecipientID,
		ActorID:     row.ActorID.String,
		Title:       row.Title,
		Body:        row.Body,
		Category:    row.Category,
		Priority:    row.Priority,
		Link:        row.Link.String,
		IsRead:      row.IsRead,
		CreatedAt:   row.CreatedAt.UTC(),
	}
	if row.Payload.Valid {
		n.Payload = json.RawMessage(row.Payload.String)
	}
	return n
}

type notificationRepository struct {
	repository
}

var _ notification.Repository = (*notificationRepository)(nil) // interface compliance check

func NewNotificationRepository(exec core.DBExecutor) *notificationRepository {
	return &notificationRepository{repository{exec: exec}}
}

func (repo notificationRepository) CreateNotification(ctx context.Context, n notification.Notification, exec ...core.DBExecutor) (notification.Notification, error) {
	n.ID = uuid.New().String()
	n.CreatedAt = n.CreatedAt.UTC()
	_, err := repo.execute(
		ctx, exec,
		"INSERT INTO notifications ("+notificationColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
		n.ID, n.RecipientID, nullID(n.ActorID), n.Title, n.Body, n.Category, n.Priority,
		null.NewString(string(n.Payload), len(n.Payload) > 0), null.NewString(n.Link, n.Link != ""), n.IsRead, n.CreatedAt,
	)
	if err != nil {
		return notification.Notification{}, errors.Wrap(err, "inserting notification")
	}
	return n, nil
}

func (repo notificationRepository) GetNotification(ctx context.Context, id string, exec ...core.DBExecutor) (notification.Notification, error) {
	var row notificationRow
	if err := repo.get(ctx, exec, &row, "SELECT "+notificationColumns+" FROM notifications WHERE id = ?", id); err != nil {
		return notification.Notification{}, trapNoRowsErr(err, notification.ErrNotFound, "finding notification")
	}
	return row.notification(), nil
}

func (repo notificationRepository) QueryNotifications(ctx context.Context, recipientID string, filter notification.QueryFilter, exec ...core.DBExecutor) ([]notification.Notification, error) {
	query := "SELECT " + notificationColumns + " FROM notifications WHERE recipient_id = ?"
	args := []interface{}{recipientID}
	if filter.IsRead != nil {
		query += " AND is_read = ?"
		args = append(args, *filter.IsRead)
	}
	query += " ORDER BY created_at DESC, id DESC"

	var rows []notificationRow
	if err := repo.selekt(ctx, exec, &rows, query, args...); err != nil {
		return nil, errors.Wrap(err, "querying notifications")
	}
	notifs := make([]notification.Notification, 0, len(rows))
	for _, row := range rows {
		notifs = append(notifs, row.notification())
	}
	return notifs, nil
}

func (repo notificationRepository) MarkRead(ctx context.Context, id string, exec ...core.DBExecutor) error {
	res, err := repo.execute(ctx, exec, "UPDATE notifications SET is_read = ? WHERE id = ?", true, id)
	if err != nil {
		return errors.Wrap(err, "marking notification as read")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return notification.ErrNotFound
	}
	return nil
}

func (repo notificationRepository) CountUnread(ctx context.Context, recipientID string, exec ...core.DBExecutor) (int, error) {
	var count int
	err := repo.get(ctx, exec, &count, "SELECT COUNT(*) FROM notifications WHERE recipient_id = ? AND is_read = ?", recipientID, false)
	if err != nil {
		return 0, errors.Wrap(err, "counting unread notifications")
	}
	return count, nil
}
