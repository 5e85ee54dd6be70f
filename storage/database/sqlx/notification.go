package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/progress-uz/backend/core/notification"
)

type notificationRow struct {
	ID          string         `db:"id"`
	Type        string         `db:"type"`
	Message     string         `db:"message"`
	Link        null.String    `db:"link"`
	RecipientID null.String    `db:"recipient_id"`
	ReadBy      pq.StringArray `db:"read_by"`
	CreatedAt   time.Time      `db:"created_at"`
}

func unpackNotification(row notificationRow) notification.Notification {
	return notification.Notification{
		ID:          row.ID,
		Type:        row.Type,
		Message:     row.Message,
		Link:        row.Link.String,
		RecipientID: row.RecipientID.String,
		ReadBy:      []string(row.ReadBy),
		CreatedAt:   row.CreatedAt,
	}
}

type notificationRepository struct {
	db *sqlx.DB
}

var _ notification.Repository = (*notificationRepository)(nil)

func NewNotificationRepository(db *sqlx.DB) *notificationRepository {
	return &notificationRepository{db: db}
}

func (repo notificationRepository) CreateNotification(ctx context.Context, ntf notification.Notification) (notification.Notification, error) {
	ntf.ID = uuid.New().String()
	row := notificationRow{
		ID:          ntf.ID,
		Type:        ntf.Type,
		Message:     ntf.Message,
		Link:        null.NewString(ntf.Link, ntf.Link != ""),
		RecipientID: null.NewString(ntf.RecipientID, ntf.RecipientID != ""),
		ReadBy:      pq.StringArray(ntf.ReadBy),
		CreatedAt:   ntf.CreatedAt.UTC(),
	}
	_, err := repo.db.NamedExecContext(ctx,
		`INSERT INTO notification (id, type, message, link, recipient_id, read_by, created_at)
		 VALUES (:id, :type, :message, :link, :recipient_id, :read_by, :created_at)`,
		row)
	if err != nil {
		return notification.Notification{}, errors.Wrap(err, "inserting notification")
	}
	return unpackNotification(row), nil
}

func (repo notificationRepository) GetNotificationByID(ctx context.Context, id string) (notification.Notification, error) {
	var row notificationRow
	if err := repo.db.GetContext(ctx, &row, `SELECT * FROM notification WHERE id = $1`, id); err != nil {
		if errors.Cause(err) == sql.ErrNoRows {
			return notification.Notification{}, notification.ErrNotFound
		}
		return notification.Notification{}, errors.Wrap(err, "getting notification")
	}
	return unpackNotification(row), nil
}

func (repo notificationRepository) QueryNotificationsForUser(ctx context.Context, userID string, limit int) ([]notification.Notification, error) {
	var rows []notificationRow
	err := repo.db.SelectContext(ctx, &rows,
		`SELECT * FROM notification
		 WHERE recipient_id IS NULL OR recipient_id = '' OR recipient_id = $1
		 ORDER BY created_at DESC
		 LIMIT $2`,
		userID, limit)
	if err != nil {
		return nil, errors.Wrap(err, "querying notifications")
	}
	ntfs := make([]notification.Notification, 0, len(rows))
	for _, row := range rows {
		ntfs = append(ntfs, unpackNotification(row))
	}
	return ntfs, nil
}

func (repo notificationRepository) MarkNotificationRead(ctx context.Context, id, userID string) (notification.Notification, error) {
	var row notificationRow
	err := repo.db.GetContext(ctx, &row,
		`UPDATE notification
		 SET read_by = array_append(read_by, $2)
		 WHERE id = $1 AND NOT ($2 = ANY(read_by))
		 RETURNING *`,
		id, userID)
	if errors.Cause(err) == sql.ErrNoRows {
		// already read, or missing
		return repo.GetNotificationByID(ctx, id)
	}
	if err != nil {
		return notification.Notification{}, errors.Wrap(err, "marking notification read")
	}
	return unpackNotification(row), nil
}
