package entity

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	ContactStatusNoEmail       = "no-email"
	ContactStatusPending       = "pending"
	ContactStatusSent          = "sent"
	ContactStatusReplied       = "replied"
	ContactStatusNotInterested = "not-interested"
)

// ContactStatuses lists every status a contact can carry.
var ContactStatuses = []string{
	ContactStatusNoEmail,
	ContactStatusPending,
	ContactStatusSent,
	ContactStatusReplied,
	ContactStatusNotInterested,
}

func IsKnownContactStatus(status string) bool {
	for _, s := range ContactStatuses {
		if s == status {
			return true
		}
	}
	return false
}

var (
	ErrContactNotFound    = errors.New("contact not found")
	ErrEmailAlreadyExists = errors.New("a contact with this email already exists")
)

// Contact is one recipient of the outreach pool.
type Contact struct {
	ID       string `json:"id"`
	TenantID string `json:"tenant_id"`

	FirstName string `json:"first_name"`
	LastName  string `json:"last_name,omitempty"`
	Email     string `json:"email,omitempty"`

	Company     string `json:"company,omitempty"`
	JobTitle    string `json:"job_title,omitempty"`
	City        string `json:"city,omitempty"`
	State       string `json:"state,omitempty"`
	Country     string `json:"country,omitempty"`
	Phone       string `json:"phone,omitempty"`
	LinkedInURL string `json:"linkedin_url,omitempty"`
	Notes       string `json:"notes,omitempty"`

	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewContact builds a validated contact. The status starts as pending, or
// no-email when there is nothing to deliver to.
func NewContact(tenantID, firstName, lastName, email, company, jobTitle string) (*Contact, error) {
	c := &Contact{
		ID:        uuid.New().String(),
		TenantID:  tenantID,
		FirstName: strings.TrimSpace(firstName),
		LastName:  strings.TrimSpace(lastName),
		Email:     strings.TrimSpace(email),
		Company:   strings.TrimSpace(company),
		JobTitle:  strings.TrimSpace(jobTitle),
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	c.Status = ContactStatusPending
	if c.Email == "" {
		c.Status = ContactStatusNoEmail
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Contact) Validate() error {
	if strings.TrimSpace(c.FirstName) == "" {
		return errors.New("first name is required")
	}
	return nil
}

// SyncEmailStatus keeps pending and no-email in line with the email after it
// changed. Other statuses are left alone.
func (c *Contact) SyncEmailStatus() {
	switch {
	case !c.HasEmail() && c.Status == ContactStatusPending:
		c.Status = ContactStatusNoEmail
	case c.HasEmail() && c.Status == ContactStatusNoEmail:
		c.Status = ContactStatusPending
	}
}

// NormalizedEmail is the identity used for deduplication.
func (c *Contact) NormalizedEmail() string {
	return NormalizeEmail(c.Email)
}

func (c *Contact) HasEmail() bool {
	return c.NormalizedEmail() != ""
}

func (c *Contact) FullName() string {
	name := strings.TrimSpace(strings.TrimSpace(c.FirstName) + " " + strings.TrimSpace(c.LastName))
	if name == "" {
		return "Unknown"
	}
	return name
}

// draftKeyReplacer keeps keys usable as a single file name.
var draftKeyReplacer = strings.NewReplacer(" ", "_", "/", "-", "\\", "-")

// DraftKey is the stable per-contact identifier of the draft store. It never
// contains a path separator.
func (c *Contact) DraftKey() string {
	first := orDefault(c.FirstName, "Unknown")
	last := orDefault(c.LastName, "Unknown")
	company := orDefault(c.Company, "Company")
	return strings.Join([]string{
		draftKeyReplacer.Replace(first),
		draftKeyReplacer.Replace(last),
		draftKeyReplacer.Replace(company),
	}, "_")
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func orDefault(value, fallback string) string {
	if v := strings.TrimSpace(value); v != "" {
		return v
	}
	return fallback
}

// ContactFilter narrows a contact listing. Company and Search match
// case-insensitive substrings; Search looks at names, email and company.
type ContactFilter struct {
	Status  string
	Company string
	Search  string
	Skip    int
	Limit   int
}

// Matches applies the status, company and search criteria. Paging is left to
// the caller.
func (f ContactFilter) Matches(c *Contact) bool {
	if f.Status != "" && c.Status != f.Status {
		return false
	}
	if f.Company != "" && !containsFold(c.Company, f.Company) {
		return false
	}
	if f.Search != "" &&
		!containsFold(c.FirstName, f.Search) &&
		!containsFold(c.LastName, f.Search) &&
		!containsFold(c.Email, f.Search) &&
		!containsFold(c.Company, f.Search) {
		return false
	}
	return true
}

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(strings.TrimSpace(sub)))
}

type ContactStats struct {
	Total        int            `json:"total"`
	ByStatus     map[string]int `json:"by_status"`
	WithEmail    int            `json:"with_email"`
	WithoutEmail int            `json:"without_email"`
}
