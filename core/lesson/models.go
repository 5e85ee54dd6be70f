package lesson

import (
	"time"

	"github.com/progress-uz/backend/core"
)

const (
	CategoryProgramming  = "programming"
	CategoryEnglish      = "english"
	CategoryProductivity = "productivity"
	CategoryDesign       = "design"
	CategoryOther        = "other"
)

var AllCategories = []string{
	CategoryProgramming, CategoryEnglish, CategoryProductivity,
	CategoryDesign, CategoryOther,
}

type Lesson struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description,omitempty"`
	VideoURL     string    `json:"video_url"`
	Duration     int       `json:"duration"` // minutes
	Category     string    `json:"category"`
	Tags         []string  `json:"tags"`
	Likes        []string  `json:"likes"` // user IDs
	InstructorID string    `json:"instructor_id"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// LikedBy reports whether uid is in the like set.
func (l *Lesson) LikedBy(uid string) bool {
	for _, id := range l.Likes {
		if id == uid {
			return true
		}
	}
	return false
}

type NewLesson struct {
	Title        string   `json:"title" validate:"required"`
	Description  string   `json:"description"`
	VideoURL     string   `json:"video_url" validate:"required,url"`
	Duration     int      `json:"duration" validate:"required,gt=0"`
	Category     string   `json:"category" validate:"omitempty,lessoncategory"`
	Tags         []string `json:"tags"`
	InstructorID string   `json:"instructor_id"`
}

func (nl *NewLesson) Validate() error {
	nl.Title = core.CleanString(nl.Title)
	nl.Description = core.CleanString(nl.Description)
	nl.VideoURL = core.CleanString(nl.VideoURL)
	if nl.Category == "" {
		nl.Category = CategoryOther
	}
	if err := core.Validate.Struct(nl); err != nil {
		return core.NewValidationError(err)
	}
	return nil
}

type UpdateLesson struct {
	Title       *string  `json:"title" validate:"omitempty,min=1"`
	Description *string  `json:"description"`
	VideoURL    *string  `json:"video_url" validate:"omitempty,url"`
	Duration    *int     `json:"duration" validate:"omitempty,gt=0"`
	Category    *string  `json:"category" validate:"omitempty,lessoncategory"`
	Tags        []string `json:"tags"`
}

func (ul *UpdateLesson) Validate() error {
	if err := core.Validate.Struct(ul); err != nil {
		return core.NewValidationError(err)
	}
	return nil
}

// Apply copies the provided fields onto l.
func (ul *UpdateLesson) Apply(l *Lesson) {
	if ul.Title != nil {
		l.Title = core.CleanString(*ul.Title)
	}
	if ul.Description != nil {
		l.Description = core.CleanString(*ul.Description)
	}
	if ul.VideoURL != nil {
		l.VideoURL = core.CleanString(*ul.VideoURL)
	}
	if ul.Duration != nil {
		l.Duration = *ul.Duration
	}
	if ul.Category != nil {
		l.Category = *ul.Category
	}
	if ul.Tags != nil {
		l.Tags = ul.Tags
	}
	l.UpdatedAt = time.Now().UTC()
}
