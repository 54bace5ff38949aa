package usecase

import (
	"fmt"
	"net/mail"
	"strings"

	"github.com/outreachd/outreach/internal/entity"
)

type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func IsValidEmail(email string) bool {
	email = strings.TrimSpace(email)
	if email == "" {
		return false
	}
	addr, err := mail.ParseAddress(email)
	if err != nil {
		return false
	}
	// ParseAddress accepts "Name <a@b>"; only bare addresses are valid here.
	return addr.Address == email
}

func ValidateCreateContactInput(input CreateContactInput) []ValidationError {
	var errors []ValidationError

	if strings.TrimSpace(input.FirstName) == "" {
		errors = append(errors, ValidationError{"first_name", "is required"})
	} else if len(input.FirstName) > 100 {
		errors = append(errors, ValidationError{"first_name", "must not exceed 100 characters"})
	}

	if len(input.LastName) > 100 {
		errors = append(errors, ValidationError{"last_name", "must not exceed 100 characters"})
	}

	if strings.TrimSpace(input.Email) != "" && !IsValidEmail(input.Email) {
		errors = append(errors, ValidationError{"email", "is invalid"})
	}

	if len(input.Company) > 255 {
		errors = append(errors, ValidationError{"company", "must not exceed 255 characters"})
	}

	return errors
}

func ValidateUpdateContactInput(input UpdateContactInput) []ValidationError {
	var errors []ValidationError

	if input.FirstName != nil {
		if strings.TrimSpace(*input.FirstName) == "" {
			errors = append(errors, ValidationError{"first_name", "must not be empty"})
		} else if len(*input.FirstName) > 100 {
			errors = append(errors, ValidationError{"first_name", "must not exceed 100 characters"})
		}
	}
	if input.LastName != nil && len(*input.LastName) > 100 {
		errors = append(errors, ValidationError{"last_name", "must not exceed 100 characters"})
	}
	if input.Email != nil && strings.TrimSpace(*input.Email) != "" && !IsValidEmail(*input.Email) {
		errors = append(errors, ValidationError{"email", "is invalid"})
	}
	if input.Company != nil && len(*input.Company) > 255 {
		errors = append(errors, ValidationError{"company", "must not exceed 255 characters"})
	}
	if input.Status != nil && !entity.IsKnownContactStatus(*input.Status) {
		errors = append(errors, ValidationError{"status", "must be one of " + strings.Join(entity.ContactStatuses, ", ")})
	}

	return errors
}

func ValidateRunCampaignInput(input RunCampaignInput) []ValidationError {
	var errors []ValidationError

	if input.Mode != ModeDraft && input.Mode != ModeSend {
		errors = append(errors, ValidationError{"mode", "must be draft or send"})
	}
	if input.Limit < 0 {
		errors = append(errors, ValidationError{"limit", "must not be negative"})
	}
	if strings.TrimSpace(input.EmailFilter) != "" && !IsValidEmail(input.EmailFilter) {
		errors = append(errors, ValidationError{"email", "is invalid"})
	}

	return errors
}

func ValidateTemplateInput(input TemplateInput) []ValidationError {
	var errors []ValidationError

	if strings.TrimSpace(input.Name) == "" {
		errors = append(errors, ValidationError{"name", "is required"})
	} else if len(input.Name) > 255 {
		errors = append(errors, ValidationError{"name", "must not exceed 255 characters"})
	}
	if strings.TrimSpace(input.UserPromptTemplate) == "" {
		errors = append(errors, ValidationError{"user_prompt_template", "is required"})
	}

	return errors
}

func validationDomainError(errs []ValidationError) *DomainError {
	parts := make([]string, 0, len(errs))
	for _, e := range errs {
		parts = append(parts, e.Field+" ("+e.Message+")")
	}
	return &DomainError{
		Code:    "VALIDATION_ERROR",
		Message: "validation failed: " + strings.Join(parts, ", "),
	}
}
