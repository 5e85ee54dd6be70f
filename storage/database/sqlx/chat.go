package sqlxrepos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/progress-uz/backend/core/chat"
)

type messageRow struct {
	ID         string    `db:"id"`
	SenderID   string    `db:"sender_id"`
	ReceiverID string    `db:"receiver_id"`
	Body       string    `db:"body"`
	CreatedAt  time.Time `db:"created_at"`
}

type chatRepository struct {
	db *sqlx.DB
}

var _ chat.Repository = (*chatRepository)(nil)

func NewChatRepository(db *sqlx.DB) *chatRepository {
	return &chatRepository{db: db}
}

func unpackMessage(row messageRow) chat.Message {
	return chat.Message{
		ID:         row.ID,
		SenderID:   row.SenderID,
		ReceiverID: row.ReceiverID,
		Body:       row.Body,
		CreatedAt:  row.CreatedAt,
	}
}

func (repo chatRepository) CreateMessage(ctx context.Context, msg chat.Message) (chat.Message, error) {
	msg.ID = uuid.New().String()
	row := messageRow{
		ID:         msg.ID,
		SenderID:   msg.SenderID,
		ReceiverID: msg.ReceiverID,
		Body:       msg.Body,
		CreatedAt:  msg.CreatedAt.UTC(),
	}
	_, err := repo.db.NamedExecContext(ctx,
		`INSERT INTO message (id, sender_id, receiver_id, body, created_at)
		 VALUES (:id, :sender_id, :receiver_id, :body, :created_at)`,
		row)
	if err != nil {
		return chat.Message{}, errors.Wrap(err, "inserting message")
	}
	return unpackMessage(row), nil
}

func (repo chatRepository) QueryConversation(ctx context.Context, userA, userB string) ([]chat.Message, error) {
	var rows []messageRow
	err := repo.db.SelectContext(ctx, &rows,
		`SELECT * FROM message
		 WHERE (sender_id = $1 AND receiver_id = $2) OR (sender_id = $2 AND receiver_id = $1)
		 ORDER BY created_at`,
		userA, userB)
	if err != nil {
		return nil, errors.Wrap(err, "querying conversation")
	}
	msgs := make([]chat.Message, 0, len(rows))
	for _, row := range rows {
		msgs = append(msgs, unpackMessage(row))
	}
	return msgs, nil
}
