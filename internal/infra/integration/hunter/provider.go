package hunter

import (
	"context"
	"strings"

	"github.com/outreachd/outreach/internal/entity"
	"github.com/outreachd/outreach/internal/usecase"
)

const ProviderName = "hunter"

type Provider struct {
	client *Client
}

func NewProvider(client *Client) *Provider {
	return &Provider{client: client}
}

func (p *Provider) Name() string { return ProviderName }

func (p *Provider) Configured() bool {
	return strings.TrimSpace(p.client.apiKey) != ""
}

// SearchContacts needs a company; Hunter searches by domain only.
func (p *Provider) SearchContacts(ctx context.Context, criteria usecase.SearchCriteria) ([]entity.EnrichedContact, error) {
	company := strings.TrimSpace(criteria.Company)
	if company == "" {
		return nil, nil
	}

	result, _, err := p.client.DomainSearch(ctx, CompanyDomain(company), criteria.Limit, 0)
	if err != nil {
		return nil, err
	}

	org := result.Organization
	if org == "" {
		org = company
	}
	contacts := make([]entity.EnrichedContact, 0, len(result.Emails))
	for _, e := range result.Emails {
		contacts = append(contacts, entity.EnrichedContact{
			FirstName:   e.FirstName,
			LastName:    e.LastName,
			Email:       e.Value,
			Company:     org,
			JobTitle:    e.Position,
			LinkedInURL: e.LinkedIn,
			Phone:       e.PhoneNumber,
			Source:      ProviderName,
		})
	}
	return contacts, nil
}

func (p *Provider) EnrichContact(ctx context.Context, email string) (*entity.EnrichedContact, error) {
	person, err := p.client.FindPerson(ctx, email)
	if err != nil || person == nil {
		return nil, err
	}
	c := &entity.EnrichedContact{
		FirstName: person.Name.GivenName,
		LastName:  person.Name.FamilyName,
		Email:     email,
		Company:   person.Employment.Name,
		JobTitle:  person.Employment.Title,
		City:      person.Geo.City,
		State:     person.Geo.State,
		Source:    ProviderName,
	}
	if h := person.LinkedIn.Handle; h != "" {
		c.LinkedInURL = "https://www.linkedin.com/" + strings.TrimPrefix(h, "/")
	}
	return c, nil
}

func (p *Provider) FindEmail(ctx context.Context, firstName, lastName, domain string) (string, error) {
	result, err := p.client.FindEmail(ctx, firstName, lastName, CompanyDomain(domain))
	if err != nil || result == nil {
		return "", err
	}
	return result.Email, nil
}

// CompanyDomain turns a company name into a guessed domain. Values that
// already contain a dot are used as they are.
func CompanyDomain(company string) string {
	company = strings.TrimSpace(company)
	if company == "" || strings.Contains(company, ".") {
		return company
	}
	return strings.ToLower(strings.Join(strings.Fields(company), "")) + ".com"
}
