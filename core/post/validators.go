package post

import (
	"github.com/go-playground/validator/v10"

	"github.com/progress-uz/backend/core"
)

func init() {
	if err := core.Validate.RegisterValidation("postcategory", func(fl validator.FieldLevel) bool {
		val := fl.Field().String()
		for _, c := range AllCategories {
			if val == c {
				return true
			}
		}
		return false
	}); err != nil {
		panic(err)
	}
	core.RegisterCustomTranslation("postcategory", "{0} must be one of: tech, lifestyle, education, news.")
}
