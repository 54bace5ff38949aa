package usecase

import (
	"context"
	"errors"
	"strings"

	"github.com/outreachd/outreach/internal/entity"
)

type GenerateEmailInput struct {
	ContactID  string `json:"contact_id,omitempty"`
	Email      string `json:"email,omitempty"`
	TemplateID string `json:"template_id,omitempty"`
}

type GenerateEmailOutput struct {
	To       string `json:"to"`
	Subject  string `json:"subject"`
	Body     string `json:"body"`
	Fallback bool   `json:"fallback"`
}

// GenerateEmailUseCase previews the message for one contact. Nothing is
// logged to the ledger and nothing is delivered.
type GenerateEmailUseCase struct {
	Contacts  ContactRepository
	Templates TemplateSource
	Profiles  ProfileSource
	Generator *ContentGenerator
}

func NewGenerateEmailUseCase(contacts ContactRepository, templates TemplateSource, profiles ProfileSource, generator *ContentGenerator) *GenerateEmailUseCase {
	return &GenerateEmailUseCase{
		Contacts:  contacts,
		Templates: templates,
		Profiles:  profiles,
		Generator: generator,
	}
}

func (uc *GenerateEmailUseCase) Execute(ctx context.Context, tenantID string, input GenerateEmailInput) (*GenerateEmailOutput, error) {
	contact, err := uc.findContact(ctx, tenantID, input)
	if err != nil {
		return nil, err
	}

	tmpl, err := resolveTemplate(ctx, uc.Templates, tenantID, input.TemplateID)
	if err != nil {
		return nil, err
	}

	var profile *entity.SenderProfile
	if uc.Profiles != nil {
		if profile, err = uc.Profiles.FindProfile(ctx, tenantID); err != nil {
			return nil, &TechnicalError{Code: "PROFILE_LOAD_FAILED", Message: "could not load sender profile", Err: err}
		}
	}

	generator := uc.Generator
	if generator == nil {
		generator = NewContentGenerator(nil, nil)
	}
	outcome := generator.Generate(ctx, contact, profile, tmpl)

	return &GenerateEmailOutput{
		To:       contact.Email,
		Subject:  outcome.Result.Subject,
		Body:     outcome.Result.Body,
		Fallback: outcome.FellBack,
	}, nil
}

func (uc *GenerateEmailUseCase) findContact(ctx context.Context, tenantID string, input GenerateEmailInput) (*entity.Contact, error) {
	var (
		contact *entity.Contact
		err     error
	)
	switch {
	case strings.TrimSpace(input.ContactID) != "":
		contact, err = uc.Contacts.FindByID(ctx, tenantID, strings.TrimSpace(input.ContactID))
	case strings.TrimSpace(input.Email) != "":
		contact, err = uc.Contacts.FindByEmail(ctx, tenantID, entity.NormalizeEmail(input.Email))
	default:
		return nil, &DomainError{Code: "VALIDATION_ERROR", Message: "contact_id or email is required"}
	}

	if errors.Is(err, entity.ErrContactNotFound) || (err == nil && contact == nil) {
		return nil, &DomainError{Code: "CONTACT_NOT_FOUND", Message: "contact not found"}
	}
	if err != nil {
		return nil, &TechnicalError{Code: "DATABASE_ERROR", Message: "could not load contact", Err: err}
	}
	return contact, nil
}
