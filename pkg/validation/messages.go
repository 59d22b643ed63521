package validation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Translate turns a binding error into a field-to-message map the client
// can render next to each form input. Non-validator errors collapse into
// a single generic entry.
func Translate(err error) map[string]string {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return map[string]string{"request": "malformed request body"}
	}

	messages := make(map[string]string, len(validationErrors))
	for _, fieldErr := range validationErrors {
		field := fieldErr.Field()
		if custom, ok := customMessages[field][fieldErr.Tag()]; ok {
			messages[strings.ToLower(field)] = custom
			continue
		}
		messages[strings.ToLower(field)] = defaultMessage(field, fieldErr.Tag())
	}
	return messages
}

// customMessages carries per-field overrides for the marketplace forms.
var customMessages = map[string]map[string]string{
	"Phone": {
		"required": "phone number is required",
		"kwphone":  "phone must be exactly 8 digits",
	},
	"Password": {
		"required": "password is required",
		"min":      "password must be at least 6 characters",
	},
	"PasswordConfirmation": {
		"required": "password confirmation is required",
	},
	"FullName": {
		"required": "full name is required",
		"min":      "full name is too short",
		"max":      "full name is too long",
	},
	"Provider": {
		"required": "provider is required",
		"oneof":    "provider must be apple or google",
	},
	"PlanID": {
		"required": "plan id is required",
	},
	"TitleEn": {
		"required": "English title is required",
	},
	"TitleAr": {
		"required": "Arabic title is required",
	},
}

func defaultMessage(field, tag string) string {
	field = strings.ToLower(field)

	switch tag {
	case "required", "required_without":
		return fmt.Sprintf("%s is required", field)
	case "email":
		return fmt.Sprintf("%s must be a valid email address", field)
	case "numeric":
		return fmt.Sprintf("%s must be numeric", field)
	case "min":
		return fmt.Sprintf("%s is below the minimum length or value", field)
	case "max":
		return fmt.Sprintf("%s exceeds the maximum length or value", field)
	case "len":
		return fmt.Sprintf("%s has the wrong length", field)
	case "oneof":
		return fmt.Sprintf("%s is not one of the allowed values", field)
	case "url":
		return fmt.Sprintf("%s must be a valid URL", field)
	case "lowercase":
		return fmt.Sprintf("%s must be lowercase", field)
	case "kwphone":
		return fmt.Sprintf("%s must be an 8 digit Kuwaiti number", field)
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}
