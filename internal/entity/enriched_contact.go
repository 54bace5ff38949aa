package entity

import "strings"

// EnrichedContact is the provider-agnostic shape every enrichment provider
// returns.
type EnrichedContact struct {
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Email       string `json:"email,omitempty"`
	Company     string `json:"company,omitempty"`
	JobTitle    string `json:"job_title,omitempty"`
	LinkedInURL string `json:"linkedin_url,omitempty"`
	Phone       string `json:"phone,omitempty"`
	City        string `json:"city,omitempty"`
	State       string `json:"state,omitempty"`
	Source      string `json:"source"`
}

// ToContact converts the record into a pool contact.
func (e EnrichedContact) ToContact(tenantID string) (*Contact, error) {
	c, err := NewContact(tenantID, e.FirstName, e.LastName, e.Email, e.Company, e.JobTitle)
	if err != nil {
		return nil, err
	}
	c.City = strings.TrimSpace(e.City)
	c.State = strings.TrimSpace(e.State)
	c.Phone = strings.TrimSpace(e.Phone)
	c.LinkedInURL = strings.TrimSpace(e.LinkedInURL)
	c.Notes = "source: " + e.Source
	return c, nil
}
