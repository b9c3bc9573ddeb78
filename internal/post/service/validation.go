package service

import (
	"errors"

	"github.com/go-playground/validator/v10"

	commonerrors "github.com/lifepost/lifepost/internal/common/errors"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

type FieldError struct {
	Param string `json:"param"`
	Msg   string `json:"msg"`
}

type postForm struct {
	Title       string `validate:"required"`
	Description string `validate:"required"`
}

func validatePost(title, description string) error {
	err := validate.Struct(postForm{Title: title, Description: description})
	if err == nil {
		return nil
	}

	var violations validator.ValidationErrors
	if !errors.As(err, &violations) {
		return ErrValidation.WithCause(err)
	}

	fields := make([]FieldError, 0, len(violations))
	for _, v := range violations {
		switch v.Field() {
		case "Title":
			fields = append(fields, FieldError{Param: "title", Msg: "Title is required"})
		case "Description":
			fields = append(fields, FieldError{Param: "description", Msg: "Description is required"})
		}
	}

	return ErrValidation.WithDetails(map[string]any{"fields": fields})
}

// ValidationFields extracts the collected field errors from a validation
// failure.
func ValidationFields(err error) ([]FieldError, bool) {
	de, ok := commonerrors.AsDomainError(err)
	if !ok || de.Code() != ErrValidation.Code() {
		return nil, false
	}
	fields, ok := de.Details()["fields"].([]FieldError)
	return fields, ok
}
