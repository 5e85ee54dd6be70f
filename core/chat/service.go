package chat

import (
	"context"
	"time"

	"github.com/progress-uz/backend/core"
)

type (
	Repository interface {
		CreateMessage(ctx context.Context, msg Message) (Message, error)
		// QueryConversation returns messages exchanged between the two
		// users in either direction, oldest first.
		QueryConversation(ctx context.Context, userA, userB string) ([]Message, error)
	}

	ServiceInterface interface {
		Send(ctx context.Context, senderID, receiverID string, nm NewMessage) (Message, error)
		Conversation(ctx context.Context, userA, userB string) ([]Message, error)
	}

	service struct {
		repo        Repository
		broadcaster core.Broadcaster
	}
)

var _ ServiceInterface = (*service)(nil)

// NewService returns the chat service. broadcaster may be nil; messages are
// then persisted without live delivery.
func NewService(repo Repository, broadcaster core.Broadcaster) ServiceInterface {
	return &service{repo: repo, broadcaster: broadcaster}
}

// Send persists the message, then pushes it to the receiver's room. Delivery
// is best effort; the message is already durable when Publish runs.
func (svc *service) Send(ctx context.Context, senderID, receiverID string, nm NewMessage) (Message, error) {
	msg := Message{
		SenderID:   senderID,
		ReceiverID: receiverID,
		Body:       nm.Body,
		CreatedAt:  time.Now().UTC(),
	}
	msg, err := svc.repo.CreateMessage(ctx, msg)
	if err != nil {
		return Message{}, err
	}
	if svc.broadcaster != nil {
		svc.broadcaster.PublishTo(receiverID, "message", msg)
	}
	return msg, nil
}

func (svc *service) Conversation(ctx context.Context, userA, userB string) ([]Message, error) {
	return svc.repo.QueryConversation(ctx, userA, userB)
}
