package service

import (
	"errors"

	"github.com/go-playground/validator/v10"

	commonerrors "github.com/lifepost/lifepost/internal/common/errors"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// FieldError mirrors the shape the registration form renders: the offending
// parameter and a human-readable message.
type FieldError struct {
	Param string `json:"param"`
	Msg   string `json:"msg"`
}

type registrationForm struct {
	Name            string `validate:"required"`
	Email           string `validate:"required,email"`
	Username        string `validate:"required"`
	Password        string `validate:"required,min=6"`
	PasswordConfirm string `validate:"eqfield=Password"`
}

// validateRegistration collects every violation rather than stopping at the
// first, so the form can present all errors at once.
func validateRegistration(input RegisterInput) error {
	form := registrationForm{
		Name:            input.Name,
		Email:           input.Email,
		Username:        input.Username,
		Password:        input.Password,
		PasswordConfirm: input.PasswordConfirm,
	}

	err := validate.Struct(form)
	if err == nil {
		return nil
	}

	var violations validator.ValidationErrors
	if !errors.As(err, &violations) {
		return ErrValidation.WithCause(err)
	}

	fields := make([]FieldError, 0, len(violations))
	for _, v := range violations {
		fields = append(fields, FieldError{
			Param: fieldParam(v.Field()),
			Msg:   fieldMessage(v),
		})
	}

	return ErrValidation.WithDetails(map[string]any{"fields": fields})
}

func fieldParam(field string) string {
	switch field {
	case "Name":
		return "name"
	case "Email":
		return "email"
	case "Username":
		return "username"
	case "Password":
		return "password"
	case "PasswordConfirm":
		return "password2"
	}
	return field
}

func fieldMessage(v validator.FieldError) string {
	switch v.Field() {
	case "Name":
		return "Name is required"
	case "Email":
		if v.Tag() == "email" {
			return "Email is not valid"
		}
		return "Email is required"
	case "Username":
		return "Username is required"
	case "Password":
		if v.Tag() == "min" {
			return "Password should be at least 6 characters"
		}
		return "Password is required"
	case "PasswordConfirm":
		return "Passwords do not match"
	}
	return "Invalid value"
}

// ValidationFields extracts the collected field errors from a validation
// failure, for callers that need to inspect them.
func ValidationFields(err error) ([]FieldError, bool) {
	de, ok := commonerrors.AsDomainError(err)
	if !ok || de.Code() != ErrValidation.Code() {
		return nil, false
	}
	fields, ok := de.Details()["fields"].([]FieldError)
	return fields, ok
}
