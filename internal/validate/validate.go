// Package validate runs the client-side pre-submit checks. Violations never
// reach the network; they surface in the same field-error form the backend's
// validation responses are normalized to.
package validate

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/pybo-board/pybo-client/internal/api"
)

type Validator struct {
	validate *validator.Validate
}

func New() *Validator {
	v := validator.New()

	// "required" alone accepts all-whitespace strings.
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})

	return &Validator{validate: v}
}

// Check validates a form struct. A violation comes back as an *api.APIError
// of kind fieldErrors, one entry per failing field.
func (cv *Validator) Check(form any) error {
	err := cv.validate.Struct(form)
	if err == nil {
		return nil
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return &api.APIError{Kind: api.KindMessage, Message: err.Error()}
	}

	fields := make([]api.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, api.FieldError{
			Field: strings.ToLower(fe.Field()),
			Text:  message(fe),
		})
	}
	return &api.APIError{Kind: api.KindFieldErrors, Fields: fields}
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "notblank":
		return "is required"
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "eqfield":
		if fe.Param() == "Password1" {
			return "passwords do not match"
		}
		return "must match " + strings.ToLower(fe.Param())
	case "email":
		return "must be a valid email address"
	default:
		return "is invalid"
	}
}
