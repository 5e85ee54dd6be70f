package chat

import (
	"time"

	"github.com/progress-uz/backend/core"
)

type Message struct {
	ID         string    `json:"id"`
	SenderID   string    `json:"sender_id"`
	ReceiverID string    `json:"receiver_id"`
	Body       string    `json:"body"`
	CreatedAt  time.Time `json:"created_at"`
}

type NewMessage struct {
	Body string `json:"body" validate:"required"`
}

func (nm *NewMessage) Validate() error {
	nm.Body = core.CleanString(nm.Body)
	if err := core.Validate.Struct(nm); err != nil {
		return core.NewValidationError(err)
	}
	return nil
}
