package validation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// FieldLabels maps struct field names to user-friendly labels
var FieldLabels = map[string]string{
	// Auth
	"Email":    "Email",
	"Password": "Password",
	"Name":     "Name",
	"UserType": "User type",
	"Skills":   "Skills",
	"Course":   "Course",

	// Company
	"CompanyName":        "Company name",
	"CompanyDescription": "Company description",
	"Industry":           "Industry",
	"CompanySize":        "Company size",
	"CompanyWebsite":     "Company website",

	// Profile
	"Phone":            "Phone number",
	"Introduction":     "Introduction",
	"SelfIntroduction": "Self introduction",
	"Portfolio":        "Portfolio URL",
	"Blog":             "Blog URL",
	"Github":           "GitHub URL",

	// Resume entries
	"Company":     "Company",
	"Position":    "Position",
	"Title":       "Title",
	"Description": "Description",
	"StartDate":   "Start date",
	"EndDate":     "End date",
	"TechStack":   "Tech stack",
	"School":      "School",
	"Major":       "Major",
	"Degree":      "Degree",

	// Board
	"Content": "Content",

	// Match
	"ReceiverID": "Receiver",
	"Response":   "Response",
}

// FormatValidationErrors converts validator.ValidationErrors to user-friendly messages
func FormatValidationErrors(err error) []string {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return []string{err.Error()}
	}

	messages := make([]string, 0, len(validationErrors))
	for _, e := range validationErrors {
		messages = append(messages, formatSingleError(e))
	}
	return messages
}

// Message joins FormatValidationErrors into a single line for error responses.
func Message(err error) string {
	return strings.Join(FormatValidationErrors(err), "; ")
}

func formatSingleError(e validator.FieldError) string {
	label := getFieldLabel(e.Field())
	param := e.Param()

	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", label)
	case "min":
		if e.Kind().String() == "string" {
			return fmt.Sprintf("%s must be at least %s characters", label, param)
		}
		if e.Kind().String() == "slice" {
			return fmt.Sprintf("%s must contain at least %s item(s)", label, param)
		}
		return fmt.Sprintf("%s must be at least %s", label, param)
	case "max":
		if e.Kind().String() == "string" {
			return fmt.Sprintf("%s must be at most %s characters", label, param)
		}
		return fmt.Sprintf("%s must be at most %s", label, param)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", label, strings.ReplaceAll(param, " ", ", "))
	case "email":
		return fmt.Sprintf("%s is not a valid email address", label)
	case "url":
		return fmt.Sprintf("%s is not a valid URL", label)
	case "valid_name":
		return fmt.Sprintf("%s may only contain letters, spaces and common punctuation", label)
	case "valid_phone":
		return fmt.Sprintf("%s is not a valid phone number", label)
	case "no_emoji":
		return fmt.Sprintf("%s must not contain emoji or symbols", label)
	case "strong_password":
		return fmt.Sprintf("%s must be 8 to %d bytes long and include a letter, a digit and a special character", label, MaxPasswordBytes)
	case "iso_date":
		return fmt.Sprintf("%s must be a date in YYYY-MM-DD format", label)
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", label, param)
	case "dive":
		return fmt.Sprintf("%s contains an invalid item", label)
	default:
		return fmt.Sprintf("%s is invalid (%s)", label, e.Tag())
	}
}

func getFieldLabel(fieldName string) string {
	if label, ok := FieldLabels[fieldName]; ok {
		return label
	}
	return fieldName
}
