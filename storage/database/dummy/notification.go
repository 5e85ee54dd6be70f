package dummydb

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/progress-uz/backend/core/notification"
)

type notificationRepository struct {
	db *notificationTable
}

var _ notification.Repository = (*notificationRepository)(nil)

func NewNotificationRepository(db *DB) notification.Repository {
	return &notificationRepository{db: db.notification}
}

func (repo *notificationRepository) CreateNotification(_ context.Context, ntf notification.Notification) (notification.Notification, error) {
	repo.db.Lock()
	defer repo.db.Unlock()
	ntf.ID = uuid.New().String()
	repo.db.table[ntf.ID] = &ntf
	return ntf, nil
}

func (repo *notificationRepository) GetNotificationByID(_ context.Context, id string) (notification.Notification, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if ntf, ok := repo.db.table[id]; ok {
		return *ntf, nil
	}
	return notification.Notification{}, notification.ErrNotFound
}

func (repo *notificationRepository) QueryNotificationsForUser(_ context.Context, userID string, limit int) ([]notification.Notification, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	var ntfs []notification.Notification
	for _, ntf := range repo.db.table {
		if ntf.RecipientID == "" || ntf.RecipientID == userID {
			ntfs = append(ntfs, *ntf)
		}
	}
	sort.Slice(ntfs, func(i, j int) bool { return ntfs[i].CreatedAt.After(ntfs[j].CreatedAt) })
	if len(ntfs) > limit {
		ntfs = ntfs[:limit]
	}
	return ntfs, nil
}

func (repo *notificationRepository) MarkNotificationRead(_ context.Context, id, userID string) (notification.Notification, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	ntf, ok := repo.db.table[id]
	if !ok {
		return notification.Notification{}, notification.ErrNotFound
	}
	if !ntf.IsReadBy(userID) {
		ntf.ReadBy = append(ntf.ReadBy, userID)
	}
	return *ntf, nil
}
