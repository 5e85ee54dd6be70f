package notification

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/progress-uz/backend/core"
)

const (
	TypeGlobal    = "global"
	TypePersonal  = "personal"
	TypeNewLesson = "new_lesson"
	TypeNewPost   = "new_post"
)

var AllTypes = []string{TypeGlobal, TypePersonal, TypeNewLesson, TypeNewPost}

func init() {
	if err := core.Validate.RegisterValidation("notificationtype", func(fl validator.FieldLevel) bool {
		val := fl.Field().String()
		for _, t := range AllTypes {
			if val == t {
				return true
			}
		}
		return false
	}); err != nil {
		panic(err)
	}
	core.RegisterCustomTranslation("notificationtype", "{0} must be one of: global, personal, new_lesson, new_post.")
}

type Notification struct {
	ID          string    `json:"id"`
	Type        string    `json:"type"`
	Message     string    `json:"message"`
	Link        string    `json:"link,omitempty"`
	RecipientID string    `json:"recipient_id,omitempty"` // empty for broadcast types
	ReadBy      []string  `json:"-"`                      // user IDs; surfaced per user as is_read
	CreatedAt   time.Time `json:"created_at"`
}

// ReadBy reports whether uid has marked the notification read.
func (n *Notification) IsReadBy(uid string) bool {
	for _, id := range n.ReadBy {
		if id == uid {
			return true
		}
	}
	return false
}

// UserNotification is a Notification as seen by one user.
type UserNotification struct {
	Notification
	IsRead bool `json:"is_read"`
}

type NewNotification struct {
	Type        string `json:"type" validate:"omitempty,notificationtype"`
	Message     string `json:"message" validate:"required"`
	Link        string `json:"link"`
	RecipientID string `json:"recipient_id"`
}

func (nn *NewNotification) Validate() error {
	nn.Message = core.CleanString(nn.Message)
	if nn.Type == "" {
		nn.Type = TypePersonal
	}
	if err := core.Validate.Struct(nn); err != nil {
		return core.NewValidationError(err)
	}
	return nil
}
