package notification

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/progress-uz/backend/core"
)

var ErrNotFound = errors.New("notification not found")

// Latest notifications returned per user.
const listLimit = 50

type (
	Repository interface {
		CreateNotification(ctx context.Context, ntf Notification) (Notification, error)
		GetNotificationByID(ctx context.Context, id string) (Notification, error)
		// QueryNotificationsForUser returns broadcast notifications plus
		// those addressed to userID, newest first, capped at limit.
		QueryNotificationsForUser(ctx context.Context, userID string, limit int) ([]Notification, error)
		MarkNotificationRead(ctx context.Context, id, userID string) (Notification, error)
	}

	ServiceInterface interface {
		Create(ctx context.Context, nn NewNotification) (Notification, error)
		ListForUser(ctx context.Context, userID string) ([]UserNotification, error)
		MarkRead(ctx context.Context, id, userID string) (UserNotification, error)
	}

	service struct {
		repo        Repository
		broadcaster core.Broadcaster
	}
)

var _ ServiceInterface = (*service)(nil)

// NewService returns the notification service. broadcaster may be nil.
func NewService(repo Repository, broadcaster core.Broadcaster) ServiceInterface {
	return &service{repo: repo, broadcaster: broadcaster}
}

// Create persists the notification and pushes it to connected clients:
// personal notifications go to the recipient's room, everything else is
// broadcast.
func (svc *service) Create(ctx context.Context, nn NewNotification) (Notification, error) {
	ntf := Notification{
		Type:        nn.Type,
		Message:     nn.Message,
		Link:        nn.Link,
		RecipientID: nn.RecipientID,
		ReadBy:      []string{},
		CreatedAt:   time.Now().UTC(),
	}
	ntf, err := svc.repo.CreateNotification(ctx, ntf)
	if err != nil {
		return Notification{}, err
	}

	if svc.broadcaster != nil {
		if ntf.Type == TypePersonal && ntf.RecipientID != "" {
			svc.broadcaster.PublishTo(ntf.RecipientID, "notification", ntf)
		} else {
			svc.broadcaster.Publish("notification", ntf)
		}
	}
	return ntf, nil
}

func (svc *service) ListForUser(ctx context.Context, userID string) ([]UserNotification, error) {
	ntfs, err := svc.repo.QueryNotificationsForUser(ctx, userID, listLimit)
	if err != nil {
		return nil, err
	}
	res := make([]UserNotification, len(ntfs))
	for i, ntf := range ntfs {
		res[i] = UserNotification{Notification: ntf, IsRead: ntf.IsReadBy(userID)}
	}
	return res, nil
}

func (svc *service) MarkRead(ctx context.Context, id, userID string) (UserNotification, error) {
	ntf, err := svc.repo.MarkNotificationRead(ctx, id, userID)
	if err != nil {
		return UserNotification{}, err
	}
	return UserNotification{Notification: ntf, IsRead: true}, nil
}
