package hunter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const DefaultBaseURL = "https://api.hunter.io/v2"

var (
	ErrRateLimited = errors.New("hunter API rate limit exceeded")
	errNotFound    = errors.New("hunter: not found")
)

// StatusError is a non-2xx answer from the Hunter API.
type StatusError struct {
	StatusCode int
	Details    string
}

func (e *StatusError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("hunter API error (status %d): %s", e.StatusCode, e.Details)
	}
	return fmt.Sprintf("hunter API error (status %d)", e.StatusCode)
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

// DomainSearch lists the addresses Hunter knows for a domain.
func (c *Client) DomainSearch(ctx context.Context, domain string, limit, offset int) (*DomainSearchResult, int, error) {
	if limit <= 0 {
		limit = 10
	}
	params := url.Values{}
	params.Set("domain", domain)
	params.Set("limit", strconv.Itoa(min(limit, 100)))
	params.Set("offset", strconv.Itoa(offset))

	var response domainSearchResponse
	if err := c.get(ctx, "domain-search", params, &response); err != nil {
		return nil, 0, err
	}

	total := response.Meta.Results
	if total == 0 {
		total = len(response.Data.Emails)
	}
	return &response.Data, total, nil
}

// FindEmail returns nil when Hunter cannot find the person.
func (c *Client) FindEmail(ctx context.Context, firstName, lastName, domain string) (*EmailFinderResult, error) {
	params := url.Values{}
	params.Set("first_name", firstName)
	params.Set("last_name", lastName)
	params.Set("domain", domain)

	var response emailFinderResponse
	if err := c.get(ctx, "email-finder", params, &response); err != nil {
		if errors.Is(err, errNotFound) {
			return nil, nil
		}
		return nil, err
	}
	if response.Data.Email == "" {
		return nil, nil
	}
	return &response.Data, nil
}

// FindPerson looks up the person behind an email address.
func (c *Client) FindPerson(ctx context.Context, email string) (*PersonResult, error) {
	params := url.Values{}
	params.Set("email", email)

	var response personResponse
	if err := c.get(ctx, "people/find", params, &response); err != nil {
		if errors.Is(err, errNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return response.Data, nil
}

func (c *Client) Account(ctx context.Context) (*AccountInfo, error) {
	var response accountResponse
	if err := c.get(ctx, "account", url.Values{}, &response); err != nil {
		return nil, err
	}
	d := response.Data
	return &AccountInfo{
		Configured:             true,
		Email:                  d.Email,
		Plan:                   d.PlanName,
		SearchesUsed:           d.Requests.Searches.Used,
		SearchesAvailable:      d.Requests.Searches.Available,
		VerificationsUsed:      d.Requests.Verifications.Used,
		VerificationsAvailable: d.Requests.Verifications.Available,
	}, nil
}

func (c *Client) get(ctx context.Context, endpoint string, params url.Values, out any) error {
	params.Set("api_key", c.apiKey)
	reqURL := fmt.Sprintf("%s/%s?%s", c.baseURL, endpoint, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", "outreach/1.0")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("hunter request: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return errNotFound
	case resp.StatusCode == http.StatusTooManyRequests:
		c.logger.Warn("[Hunter] rate limit exceeded", "endpoint", endpoint)
		return ErrRateLimited
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		details := errorDetails(body)
		c.logger.Error("[Hunter] ❌ API error", "endpoint", endpoint, "status", resp.StatusCode, "details", details)
		return &StatusError{StatusCode: resp.StatusCode, Details: details}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode hunter response: %w", err)
	}
	return nil
}

func errorDetails(body []byte) string {
	var parsed errorResponse
	if err := json.Unmarshal(body, &parsed); err == nil && len(parsed.Errors) > 0 {
		return parsed.Errors[0].Details
	}
	return strings.TrimSpace(string(body))
}
