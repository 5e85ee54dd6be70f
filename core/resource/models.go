package resource

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/progress-uz/backend/core"
)

const (
	TypePDF   = "pdf"
	TypeLink  = "link"
	TypeVideo = "video"
	TypeGuide = "guide"
)

var AllTypes = []string{TypePDF, TypeLink, TypeVideo, TypeGuide}

func init() {
	if err := core.Validate.RegisterValidation("resourcetype", func(fl validator.FieldLevel) bool {
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
	core.RegisterCustomTranslation("resourcetype", "{0} must be one of: pdf, link, video, guide.")
}

type Resource struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Type        string    `json:"type"`
	URL         string    `json:"url"`
	Category    string    `json:"category"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type NewResource struct {
	Title       string `json:"title" validate:"required"`
	Type        string `json:"type" validate:"omitempty,resourcetype"`
	URL         string `json:"url" validate:"required,url"`
	Category    string `json:"category" validate:"required"`
	Description string `json:"description"`
}

func (nr *NewResource) Validate() error {
	nr.Title = core.CleanString(nr.Title)
	nr.URL = core.CleanString(nr.URL)
	nr.Category = core.CleanString(nr.Category, true /* lower */)
	if nr.Type == "" {
		nr.Type = TypeLink
	}
	if err := core.Validate.Struct(nr); err != nil {
		return core.NewValidationError(err)
	}
	return nil
}

type UpdateResource struct {
	Title       *string `json:"title" validate:"omitempty,min=1"`
	Type        *string `json:"type" validate:"omitempty,resourcetype"`
	URL         *string `json:"url" validate:"omitempty,url"`
	Category    *string `json:"category" validate:"omitempty,min=1"`
	Description *string `json:"description"`
}

func (ur *UpdateResource) Validate() error {
	if err := core.Validate.Struct(ur); err != nil {
		return core.NewValidationError(err)
	}
	return nil
}

func (ur *UpdateResource) Apply(res *Resource) {
	if ur.Title != nil {
		res.Title = core.CleanString(*ur.Title)
	}
	if ur.Type != nil {
		res.Type = *ur.Type
	}
	if ur.URL != nil {
		res.URL = core.CleanString(*ur.URL)
	}
	if ur.Category != nil {
		res.Category = core.CleanString(*ur.Category, true /* lower */)
	}
	if ur.Description != nil {
		res.Description = *ur.Description
	}
	res.UpdatedAt = time.Now().UTC()
}
