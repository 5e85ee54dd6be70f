package comment

import (
	"time"

	"github.com/progress-uz/backend/core"
)

type Comment struct {
	ID        string    `json:"id"`
	LessonID  string    `json:"lesson_id"`
	UserID    string    `json:"user_id"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

type NewComment struct {
	Text string `json:"text" validate:"required"`
}

func (nc *NewComment) Validate() error {
	nc.Text = core.CleanString(nc.Text)
	if err := core.Validate.Struct(nc); err != nil {
		return core.NewValidationError(err)
	}
	return nil
}
