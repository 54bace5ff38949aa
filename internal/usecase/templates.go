package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/outreachd/outreach/internal/entity"
)

// TemplateService manages a tenant's prompt templates.
type TemplateService struct {
	Repo   entity.TemplateRepository
	Logger *slog.Logger
}

func NewTemplateService(repo entity.TemplateRepository, logger *slog.Logger) *TemplateService {
	return &TemplateService{Repo: repo, Logger: loggerOrDefault(logger)}
}

func (s *TemplateService) List(ctx context.Context, tenantID, category string, activeOnly bool) ([]*entity.Template, error) {
	templates, err := s.Repo.List(ctx, tenantID, category, activeOnly)
	if err != nil {
		return nil, &TechnicalError{Code: "DATABASE_ERROR", Message: "could not list templates", Err: err}
	}
	return templates, nil
}

func (s *TemplateService) Get(ctx context.Context, tenantID, id string) (*entity.Template, error) {
	t, err := s.Repo.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, templateLookupError(err)
	}
	return t, nil
}

func (s *TemplateService) Create(ctx context.Context, tenantID string, input TemplateInput) (*entity.Template, error) {
	if errs := ValidateTemplateInput(input); len(errs) > 0 {
		return nil, validationDomainError(errs)
	}

	t, err := entity.NewTemplate(tenantID, input.Name, input.Category, input.SystemPrompt, input.UserPromptTemplate)
	if err != nil {
		return nil, &DomainError{Code: "INVALID_TEMPLATE", Message: err.Error()}
	}
	t.Description = input.Description
	if input.IsActive != nil {
		t.IsActive = *input.IsActive
	}

	if err := s.Repo.Create(ctx, t); err != nil {
		return nil, &TechnicalError{Code: "DATABASE_ERROR", Message: "could not save template", Err: err}
	}
	if input.IsDefault {
		if err := s.Repo.SetDefault(ctx, tenantID, t.ID); err != nil {
			return nil, &TechnicalError{Code: "DATABASE_ERROR", Message: "could not mark template as default", Err: err}
		}
		t.IsDefault = true
	}

	s.Logger.Info("[TEMPLATES] template created", "tenant_id", tenantID, "template_id", t.ID, "default", t.IsDefault)
	return t, nil
}

func (s *TemplateService) Update(ctx context.Context, tenantID, id string, input TemplateInput) (*entity.Template, error) {
	if errs := ValidateTemplateInput(input); len(errs) > 0 {
		return nil, validationDomainError(errs)
	}

	t, err := s.Repo.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, templateLookupError(err)
	}

	t.Name = strings.TrimSpace(input.Name)
	t.Description = input.Description
	t.Category = input.Category
	t.SystemPrompt = input.SystemPrompt
	t.UserPromptTemplate = input.UserPromptTemplate
	if input.IsActive != nil {
		t.IsActive = *input.IsActive
	}
	t.UpdatedAt = time.Now()

	if err := s.Repo.Update(ctx, t); err != nil {
		return nil, templateLookupError(err)
	}
	if input.IsDefault && !t.IsDefault {
		if err := s.Repo.SetDefault(ctx, tenantID, t.ID); err != nil {
			return nil, &TechnicalError{Code: "DATABASE_ERROR", Message: "could not mark template as default", Err: err}
		}
		t.IsDefault = true
	}
	return t, nil
}

func (s *TemplateService) Delete(ctx context.Context, tenantID, id string) error {
	if err := s.Repo.Delete(ctx, tenantID, id); err != nil {
		return templateLookupError(err)
	}
	s.Logger.Info("[TEMPLATES] template deleted", "tenant_id", tenantID, "template_id", id)
	return nil
}

// Duplicate copies a template under newName, or "<name> (Copy)". The copy is
// never the default.
func (s *TemplateService) Duplicate(ctx context.Context, tenantID, id, newName string) (*entity.Template, error) {
	original, err := s.Repo.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, templateLookupError(err)
	}

	name := strings.TrimSpace(newName)
	if name == "" {
		name = original.Name + " (Copy)"
	}

	dup, err := entity.NewTemplate(tenantID, name, original.Category, original.SystemPrompt, original.UserPromptTemplate)
	if err != nil {
		return nil, &DomainError{Code: "INVALID_TEMPLATE", Message: err.Error()}
	}
	dup.Description = original.Description

	if err := s.Repo.Create(ctx, dup); err != nil {
		return nil, &TechnicalError{Code: "DATABASE_ERROR", Message: "could not save template", Err: err}
	}
	return dup, nil
}

// CreateDefaults seeds the built-in templates. The first one becomes the
// tenant default.
func (s *TemplateService) CreateDefaults(ctx context.Context, tenantID string) ([]*entity.Template, error) {
	created := make([]*entity.Template, 0, len(DefaultTemplates))
	for i, def := range DefaultTemplates {
		t, err := entity.NewTemplate(tenantID, def.Name, def.Category, def.SystemPrompt, def.UserPromptTemplate)
		if err != nil {
			return nil, &DomainError{Code: "INVALID_TEMPLATE", Message: err.Error()}
		}
		t.Description = def.Description

		if err := s.Repo.Create(ctx, t); err != nil {
			return nil, &TechnicalError{Code: "DATABASE_ERROR", Message: "could not save template", Err: err}
		}
		if i == 0 {
			if err := s.Repo.SetDefault(ctx, tenantID, t.ID); err != nil {
				return nil, &TechnicalError{Code: "DATABASE_ERROR", Message: "could not mark template as default", Err: err}
			}
			t.IsDefault = true
		}
		created = append(created, t)
	}
	s.Logger.Info("[TEMPLATES] default templates created", "tenant_id", tenantID, "count", len(created))
	return created, nil
}

func (s *TemplateService) SetDefault(ctx context.Context, tenantID, id string) error {
	if err := s.Repo.SetDefault(ctx, tenantID, id); err != nil {
		return templateLookupError(err)
	}
	return nil
}

func templateLookupError(err error) error {
	if errors.Is(err, entity.ErrTemplateNotFound) {
		return &DomainError{Code: "TEMPLATE_NOT_FOUND", Message: "template not found"}
	}
	return &TechnicalError{Code: "DATABASE_ERROR", Message: "template operation failed", Err: err}
}
