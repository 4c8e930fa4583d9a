package inmemdb

import (
	"context"

	"github.com/trezcool/masomo-bulletin/core"
	"github.com/trezcool/masomo-bulletin/core/notification"
)

type notificationRepository struct {
	db *DB
}

var _ notification.Repository = (*notificationRepository)(nil) // interface compliance check

func NewNotificationRepository(db *DB) *notificationRepository {
	return &notificationRepository{db: db}
}

func (repo *notificationRepository) CreateNotification(_ context.Context, n notification.Notification, _ ...core.DBExecutor) (notification.Notification, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	n.ID = newID()
	repo.db.notifications.insert(n.ID, n)
	return n, nil
}

func (repo *notificationRepository) GetNotification(_ context.Context, id string, _ ...core.DBExecutor) (notification.Notification, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	if n, ok := repo.db.notifications.get(id); ok {
		return n, nil
	}
	return notification.Notification{}, notification.ErrNotFound
}

func (repo *notificationRepository) QueryNotifications(_ context.Context, recipientID string, filter notification.QueryFilter, _ ...core.DBExecutor) ([]notification.Notification, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	all := repo.db.notifications.all()
	notifs := make([]notification.Notification, 0)
	for i := len(all) - 1; i >= 0; i-- { // newest first
		n := all[i]
		if n.RecipientID != recipientID || (filter.IsRead != nil && n.IsRead != *filter.IsRead) {
			continue
		}
		notifs = append(notifs, n)
	}
	return notifs, nil
}

func (repo *notificationRepository) MarkRead(_ context.Context, id string, _ ...core.DBExecutor) error {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	n, ok := repo.db.notifications.get(id)
	if !ok {
		return notification.ErrNotFound
	}
	n.IsRead = true
	repo.db.notifications.insert(id, n)
	return nil
}

func (repo *notificationRepository) CountUnread(_ context.Context, recipientID string, _ ...core.DBExecutor) (int, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	var count int
	for _, n := range repo.db.notifications.all() {
		if n.RecipientID == recipientID && !n.IsRead {
			count++
		}
	}
	return count, nil
}
