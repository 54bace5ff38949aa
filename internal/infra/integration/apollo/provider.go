package apollo

import (
	"context"
	"strings"

	"github.com/outreachd/outreach/internal/entity"
	"github.com/outreachd/outreach/internal/usecase"
)

const ProviderName = "apollo"

// Provider adapts the client to the enrichment chain.
type Provider struct {
	client *Client
	apiKey string
}

func NewProvider(client *Client) *Provider {
	return &Provider{client: client, apiKey: client.apiKey}
}

func (p *Provider) Name() string { return ProviderName }

func (p *Provider) Configured() bool {
	return strings.TrimSpace(p.apiKey) != ""
}

func (p *Provider) SearchContacts(ctx context.Context, criteria usecase.SearchCriteria) ([]entity.EnrichedContact, error) {
	params := SearchParams{
		CompanyName: strings.TrimSpace(criteria.Company),
		Limit:       criteria.Limit,
	}
	if t := strings.TrimSpace(criteria.JobTitle); t != "" {
		params.JobTitles = []string{t}
	}
	if l := strings.TrimSpace(criteria.Location); l != "" {
		params.PersonLocations = []string{l}
	}

	people, _, err := p.client.SearchPeople(ctx, params)
	if err != nil {
		return nil, err
	}

	contacts := make([]entity.EnrichedContact, 0, len(people))
	for _, person := range people {
		contacts = append(contacts, toEnriched(person))
	}
	return contacts, nil
}

func (p *Provider) EnrichContact(ctx context.Context, email string) (*entity.EnrichedContact, error) {
	person, err := p.client.MatchPerson(ctx, MatchParams{Email: email})
	if err != nil || person == nil {
		return nil, err
	}
	enriched := toEnriched(*person)
	if enriched.Email == "" {
		enriched.Email = email
	}
	return &enriched, nil
}

// FindEmail accepts a company domain or a company name.
func (p *Provider) FindEmail(ctx context.Context, firstName, lastName, domain string) (string, error) {
	person, err := p.client.MatchPerson(ctx, MatchParams{
		FirstName:        firstName,
		LastName:         lastName,
		OrganizationName: domain,
	})
	if err != nil || person == nil {
		return "", err
	}
	return person.Email, nil
}

func toEnriched(person Person) entity.EnrichedContact {
	c := entity.EnrichedContact{
		FirstName:   person.FirstName,
		LastName:    person.LastName,
		Email:       person.Email,
		JobTitle:    person.Title,
		LinkedInURL: person.LinkedInURL,
		City:        person.City,
		State:       person.State,
		Source:      ProviderName,
	}
	if person.Organization != nil {
		c.Company = person.Organization.Name
	}
	if len(person.PhoneNumbers) > 0 {
		c.Phone = person.PhoneNumbers[0].RawNumber
	}
	return c
}
