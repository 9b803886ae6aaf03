// Package validation checks request bodies against their field constraints.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"agora/internal/models"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report json field names rather than Go field names.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	_ = v.RegisterValidation("category", func(fl validator.FieldLevel) bool {
		return models.PostCategory(fl.Field().String()).Valid()
	})
	return v
}

// Struct validates s and returns a ValidationFailure describing the first
// violated constraint, or nil.
func Struct(s interface{}) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return models.NewValidationError(err.Error())
	}
	return models.NewValidationError(describe(fieldErrs[0]))
}

func describe(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must not exceed %s characters", field, fe.Param())
	case "email":
		return fmt.Sprintf("%s must be a valid email address", field)
	case "category":
		return fmt.Sprintf("%s must be one of %s", field, categoryList())
	default:
		return fmt.Sprintf("%s failed %s validation", field, fe.Tag())
	}
}

func categoryList() string {
	names := make([]string, len(models.PostCategories))
	for i, c := range models.PostCategories {
		names[i] = string(c)
	}
	return strings.Join(names, ", ")
}
