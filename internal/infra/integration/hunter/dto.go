package hunter

type Email struct {
	Value       string `json:"value"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Position    string `json:"position"`
	Department  string `json:"department"`
	LinkedIn    string `json:"linkedin"`
	PhoneNumber string `json:"phone_number"`
	Confidence  int    `json:"confidence"`
}

type DomainSearchResult struct {
	Domain       string  `json:"domain"`
	Organization string  `json:"organization"`
	Emails       []Email `json:"emails"`
}

type domainSearchResponse struct {
	Data DomainSearchResult `json:"data"`
	Meta struct {
		Results int `json:"results"`
	} `json:"meta"`
}

type EmailFinderResult struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Score     int    `json:"score"`
	Domain    string `json:"domain"`
	Company   string `json:"company"`
	Position  string `json:"position"`
	LinkedIn  string `json:"linkedin_url"`
}

type emailFinderResponse struct {
	Data EmailFinderResult `json:"data"`
}

type PersonResult struct {
	Name struct {
		GivenName  string `json:"givenName"`
		FamilyName string `json:"familyName"`
	} `json:"name"`
	Email      string `json:"email"`
	Location   string `json:"location"`
	Employment struct {
		Name  string `json:"name"`
		Title string `json:"title"`
	} `json:"employment"`
	LinkedIn struct {
		Handle string `json:"handle"`
	} `json:"linkedin"`
	Geo struct {
		City  string `json:"city"`
		State string `json:"state"`
	} `json:"geo"`
}

type personResponse struct {
	Data *PersonResult `json:"data"`
}

type AccountInfo struct {
	Configured             bool   `json:"configured"`
	Email                  string `json:"email,omitempty"`
	Plan                   string `json:"plan,omitempty"`
	SearchesUsed           int    `json:"searches_used"`
	SearchesAvailable      int    `json:"searches_available"`
	VerificationsUsed      int    `json:"verifications_used"`
	VerificationsAvailable int    `json:"verifications_available"`
}

type usage struct {
	Used      int `json:"used"`
	Available int `json:"available"`
}

type accountResponse struct {
	Data struct {
		Email    string `json:"email"`
		PlanName string `json:"plan_name"`
		Requests struct {
			Searches      usage `json:"searches"`
			Verifications usage `json:"verifications"`
		} `json:"requests"`
	} `json:"data"`
}

type errorResponse struct {
	Errors []struct {
		ID      string `json:"id"`
		Details string `json:"details"`
	} `json:"errors"`
}
