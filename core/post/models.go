package post

import (
	"time"

	"github.com/progress-uz/backend/core"
)

const (
	CategoryTech      = "tech"
	CategoryLifestyle = "lifestyle"
	CategoryEducation = "education"
	CategoryNews      = "news"
)

var AllCategories = []string{CategoryTech, CategoryLifestyle, CategoryEducation, CategoryNews}

type Post struct {
	ID         string    `json:"id"`
	Title      string    `json:"title,omitempty"`
	Content    string    `json:"content"`
	AuthorID   string    `json:"author_id"`
	Category   string    `json:"category"`
	CoverImage string    `json:"cover_image,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type NewPost struct {
	Title      string `json:"title"`
	Content    string `json:"content" validate:"required"`
	Category   string `json:"category" validate:"omitempty,postcategory"`
	CoverImage string `json:"cover_image"`
}

func (np *NewPost) Validate() error {
	np.Title = core.CleanString(np.Title)
	np.Content = core.CleanString(np.Content)
	if np.Category == "" {
		np.Category = CategoryTech
	}
	if err := core.Validate.Struct(np); err != nil {
		return core.NewValidationError(err)
	}
	return nil
}

type UpdatePost struct {
	Title      *string `json:"title"`
	Content    *string `json:"content" validate:"omitempty,min=1"`
	Category   *string `json:"category" validate:"omitempty,postcategory"`
	CoverImage *string `json:"cover_image"`
}

func (up *UpdatePost) Validate() error {
	if err := core.Validate.Struct(up); err != nil {
		return core.NewValidationError(err)
	}
	return nil
}

func (up *UpdatePost) Apply(p *Post) {
	if up.Title != nil {
		p.Title = core.CleanString(*up.Title)
	}
	if up.Content != nil {
		p.Content = core.CleanString(*up.Content)
	}
	if up.Category != nil {
		p.Category = *up.Category
	}
	if up.CoverImage != nil {
		p.CoverImage = *up.CoverImage
	}
	p.UpdatedAt = time.Now().UTC()
}
