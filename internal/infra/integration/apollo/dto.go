package apollo

type SearchParams struct {
	CompanyName     string
	JobTitles       []string
	PersonLocations []string
	Seniorities     []string
	Limit           int
	Page            int
}

type MatchParams struct {
	Email            string
	FirstName        string
	LastName         string
	OrganizationName string
	LinkedInURL      string
}

type searchRequest struct {
	PerPage           int      `json:"per_page"`
	Page              int      `json:"page"`
	OrganizationName  string   `json:"q_organization_name,omitempty"`
	PersonTitles      []string `json:"person_titles,omitempty"`
	PersonLocations   []string `json:"person_locations,omitempty"`
	PersonSeniorities []string `json:"person_seniorities,omitempty"`
}

type bulkMatchRequest struct {
	IDs []string `json:"ids"`
}

type matchRequest struct {
	Email            string `json:"email,omitempty"`
	FirstName        string `json:"first_name,omitempty"`
	LastName         string `json:"last_name,omitempty"`
	OrganizationName string `json:"organization_name,omitempty"`
	LinkedInURL      string `json:"linkedin_url,omitempty"`
}

type Organization struct {
	Name        string `json:"name"`
	WebsiteURL  string `json:"website_url"`
	LinkedInURL string `json:"linkedin_url"`
	Industry    string `json:"industry"`
}

type PhoneNumber struct {
	RawNumber string `json:"raw_number"`
}

type Person struct {
	ID           string        `json:"id"`
	FirstName    string        `json:"first_name"`
	LastName     string        `json:"last_name"`
	Email        string        `json:"email"`
	Title        string        `json:"title"`
	LinkedInURL  string        `json:"linkedin_url"`
	City         string        `json:"city"`
	State        string        `json:"state"`
	Country      string        `json:"country"`
	Headline     string        `json:"headline"`
	Organization *Organization `json:"organization"`
	PhoneNumbers []PhoneNumber `json:"phone_numbers"`
}

type pagination struct {
	TotalEntries int `json:"total_entries"`
}

type peopleResponse struct {
	People     []Person    `json:"people"`
	Pagination *pagination `json:"pagination"`
}

type matchResponse struct {
	Person *Person `json:"person"`
}
