package usecase

import "github.com/outreachd/outreach/internal/entity"

const (
	ModeDraft = "draft"
	ModeSend  = "send"
)

type RunCampaignInput struct {
	TenantID    string `json:"tenant_id"`
	Mode        string `json:"mode"`
	Limit       int    `json:"limit"`
	EmailFilter string `json:"email,omitempty"`
	TemplateID  string `json:"template_id,omitempty"`
}

// ContactOutcome is the terminal result of one contact in a run.
type ContactOutcome struct {
	Email     string `json:"email"`
	Recipient string `json:"recipient"`
	Company   string `json:"company,omitempty"`
	Status    string `json:"status"`
	Subject   string `json:"subject,omitempty"`
	Body      string `json:"body,omitempty"`
	DraftKey  string `json:"draft_key,omitempty"`
	Fallback  bool   `json:"fallback"`
	Error     string `json:"error,omitempty"`
}

type RunReport struct {
	Mode      string           `json:"mode"`
	Selected  int              `json:"selected"`
	Skipped   int              `json:"skipped"`
	Processed int              `json:"processed"`
	Sent      int              `json:"sent"`
	Drafted   int              `json:"drafted"`
	Failed    int              `json:"failed"`
	Cancelled bool             `json:"cancelled"`
	Outcomes  []ContactOutcome `json:"outcomes"`
	Errors    []string         `json:"errors"`
}

func (r *RunReport) record(o ContactOutcome) {
	r.Processed++
	r.Outcomes = append(r.Outcomes, o)
	switch o.Status {
	case entity.LedgerStatusSent:
		r.Sent++
	case entity.LedgerStatusDryRun:
		r.Drafted++
	case entity.LedgerStatusError:
		r.Failed++
	}
	if o.Error != "" {
		r.Errors = append(r.Errors, o.Email+": "+o.Error)
	}
}

type CreateContactInput struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Company   string `json:"company"`
	JobTitle  string `json:"job_title"`
	City      string `json:"city"`
	State     string `json:"state"`
	Phone     string `json:"phone"`
	Notes     string `json:"notes"`
}

// UpdateContactInput changes only the fields that are set.
type UpdateContactInput struct {
	FirstName *string `json:"first_name,omitempty"`
	LastName  *string `json:"last_name,omitempty"`
	Email     *string `json:"email,omitempty"`
	Company   *string `json:"company,omitempty"`
	JobTitle  *string `json:"job_title,omitempty"`
	City      *string `json:"city,omitempty"`
	State     *string `json:"state,omitempty"`
	Phone     *string `json:"phone,omitempty"`
	Notes     *string `json:"notes,omitempty"`
	Status    *string `json:"status,omitempty"`
}

type TemplateInput struct {
	Name               string `json:"name"`
	Description        string `json:"description"`
	Category           string `json:"category"`
	SystemPrompt       string `json:"system_prompt"`
	UserPromptTemplate string `json:"user_prompt_template"`
	IsDefault          bool   `json:"is_default"`
	IsActive           *bool  `json:"is_active,omitempty"`
}

type ImportReport struct {
	Imported int      `json:"imported"`
	Skipped  int      `json:"skipped"`
	Errors   []string `json:"errors,omitempty"`
}
