package apollo

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

const DefaultBaseURL = "https://api.apollo.io/v1"

// StatusError is a non-2xx answer from the Apollo API.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("apollo API error (status %d)", e.StatusCode)
}

type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
	logger  *slog.Logger
}

func NewClient(apiKey, baseURL string, logger *slog.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		http:    &http.Client{Timeout: 30 * time.Second},
		logger:  logger,
	}
}

// SearchPeople runs the two-step search: api_search for IDs, then
// bulk_match for the full records. When bulk_match fails the basic search
// data is returned. A 422 from the search means no results.
func (c *Client) SearchPeople(ctx context.Context, params SearchParams) ([]Person, int, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = 25
	}
	page := params.Page
	if page <= 0 {
		page = 1
	}

	payload := searchRequest{
		PerPage:           min(limit, 100),
		Page:              page,
		OrganizationName:  params.CompanyName,
		PersonTitles:      params.JobTitles,
		PersonLocations:   params.PersonLocations,
		PersonSeniorities: params.Seniorities,
	}

	var search peopleResponse
	if err := c.post(ctx, "mixed_people/api_search", payload, &search); err != nil {
		var statusErr *StatusError
		if errors.As(err, &statusErr) && statusErr.StatusCode == http.StatusUnprocessableEntity {
			c.logger.Warn("[Apollo] search rejected, returning no results", "body", statusErr.Body)
			return []Person{}, 0, nil
		}
		return nil, 0, err
	}

	people := search.People
	ids := make([]string, 0, len(people))
	for _, p := range people {
		if p.ID != "" {
			ids = append(ids, p.ID)
		}
	}
	if len(ids) > limit {
		ids = ids[:limit]
	}

	if len(ids) > 0 {
		var enriched peopleResponse
		if err := c.post(ctx, "people/bulk_match", bulkMatchRequest{IDs: ids}, &enriched); err != nil {
			c.logger.Warn("[Apollo] bulk_match failed, using basic data", "error", err)
		} else if len(enriched.People) > 0 {
			people = enriched.People
		}
	}

	total := len(people)
	if search.Pagination != nil {
		total = search.Pagination.TotalEntries
	}
	return people, total, nil
}

// MatchPerson enriches one person. It returns nil when Apollo has no match.
func (c *Client) MatchPerson(ctx context.Context, params MatchParams) (*Person, error) {
	payload := matchRequest{
		Email:            params.Email,
		FirstName:        params.FirstName,
		LastName:         params.LastName,
		OrganizationName: params.OrganizationName,
		LinkedInURL:      params.LinkedInURL,
	}
	if payload == (matchRequest{}) {
		return nil, nil
	}

	var response matchResponse
	if err := c.post(ctx, "people/match", payload, &response); err != nil {
		var statusErr *StatusError
		if errors.As(err, &statusErr) && (statusErr.StatusCode == http.StatusNotFound || statusErr.StatusCode == http.StatusUnprocessableEntity) {
			return nil, nil
		}
		return nil, err
	}
	return response.Person, nil
}

func (c *Client) post(ctx context.Context, endpoint string, payload, out any) error {
	url := fmt.Sprintf("%s/%s", c.baseURL, endpoint)

	jsonBody, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal apollo request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonBody))
	if err != nil {
		return err
	}
	c.setHeaders(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("apollo request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		c.logger.Error("[Apollo] ❌ API error", "endpoint", endpoint, "status", resp.StatusCode, "body", string(body))
		return &StatusError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode apollo response: %w", err)
	}
	return nil
}

// setHeaders sends the key as a header, not in the body.
func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Cache-Control", "no-cache")
	req.Header.Set("User-Agent", "outreach/1.0")
}
