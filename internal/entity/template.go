package entity

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var ErrTemplateNotFound = errors.New("template not found")

// Template bundles the prompts used to generate one kind of message.
type Template struct {
	ID                 string    `json:"id"`
	TenantID           string    `json:"tenant_id"`
	Name               string    `json:"name"`
	Description        string    `json:"description,omitempty"`
	Category           string    `json:"category,omitempty"`
	SystemPrompt       string    `json:"system_prompt,omitempty"`
	UserPromptTemplate string    `json:"user_prompt_template,omitempty"`
	IsDefault          bool      `json:"is_default"`
	IsActive           bool      `json:"is_active"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

func NewTemplate(tenantID, name, category, systemPrompt, userPrompt string) (*Template, error) {
	if strings.TrimSpace(name) == "" {
		return nil, errors.New("template name is required")
	}
	return &Template{
		ID:                 uuid.New().String(),
		TenantID:           tenantID,
		Name:               strings.TrimSpace(name),
		Category:           category,
		SystemPrompt:       systemPrompt,
		UserPromptTemplate: userPrompt,
		IsActive:           true,
		CreatedAt:          time.Now(),
		UpdatedAt:          time.Now(),
	}, nil
}

// TemplateRepository stores the templates of every tenant. Implementations
// keep at most one default template per tenant.
type TemplateRepository interface {
	Create(ctx context.Context, t *Template) error
	Update(ctx context.Context, t *Template) error
	Delete(ctx context.Context, tenantID, id string) error
	FindByID(ctx context.Context, tenantID, id string) (*Template, error)
	FindDefault(ctx context.Context, tenantID string) (*Template, error)
	List(ctx context.Context, tenantID, category string, activeOnly bool) ([]*Template, error)
	SetDefault(ctx context.Context, tenantID, id string) error
}
