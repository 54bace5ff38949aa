package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/outreachd/outreach/internal/entity"
)

const (
	DefaultSearchLimit     = 25
	DefaultProviderTimeout = 30 * time.Second
)

type SearchCriteria struct {
	Company  string `json:"company,omitempty"`
	JobTitle string `json:"job_title,omitempty"`
	Location string `json:"location,omitempty"`
	Limit    int    `json:"limit,omitempty"`
}

// Provider is one external contact-data source. A provider reports "no
// result" with a nil record or an empty string, and failures with an error.
type Provider interface {
	Name() string
	Configured() bool
	SearchContacts(ctx context.Context, criteria SearchCriteria) ([]entity.EnrichedContact, error)
	EnrichContact(ctx context.Context, email string) (*entity.EnrichedContact, error)
	FindEmail(ctx context.Context, firstName, lastName, domain string) (string, error)
}

type ProviderAttempt struct {
	Provider string `json:"provider"`
	Returned int    `json:"returned"`
	Kept     int    `json:"kept"`
	Error    string `json:"error,omitempty"`
}

type SearchReport struct {
	Contacts []entity.EnrichedContact `json:"contacts"`
	Attempts []ProviderAttempt        `json:"attempts"`
}

// EnrichmentChain tries providers in priority order. No provider failure is
// fatal to the chain.
type EnrichmentChain struct {
	providers []Provider
	timeout   time.Duration
	logger    *slog.Logger
	Observer  Observer
}

// NewEnrichmentChain keeps only the providers that have credentials, in the
// given order.
func NewEnrichmentChain(providers []Provider, timeout time.Duration, logger *slog.Logger) *EnrichmentChain {
	active := make([]Provider, 0, len(providers))
	for _, p := range providers {
		if p != nil && p.Configured() {
			active = append(active, p)
		}
	}
	if timeout <= 0 {
		timeout = DefaultProviderTimeout
	}
	return &EnrichmentChain{
		providers: active,
		timeout:   timeout,
		logger:    loggerOrDefault(logger),
		Observer:  noopObserver{},
	}
}

func (c *EnrichmentChain) IsConfigured() bool {
	return len(c.providers) > 0
}

func (c *EnrichmentChain) ProviderNames() []string {
	names := make([]string, 0, len(c.providers))
	for _, p := range c.providers {
		names = append(names, p.Name())
	}
	return names
}

// Search merges the results of every provider until limit contacts are
// collected. Each email is kept once, from the first provider that returned
// it; contacts without an email are dropped.
func (c *EnrichmentChain) Search(ctx context.Context, criteria SearchCriteria) (*SearchReport, error) {
	if criteria.Limit <= 0 {
		criteria.Limit = DefaultSearchLimit
	}
	report := &SearchReport{
		Contacts: []entity.EnrichedContact{},
		Attempts: []ProviderAttempt{},
	}
	if !c.IsConfigured() {
		return report, ErrNoProviders
	}

	seen := make(map[string]struct{})
	for _, p := range c.providers {
		if len(report.Contacts) >= criteria.Limit {
			break
		}
		if ctx.Err() != nil {
			break
		}

		attempt := ProviderAttempt{Provider: p.Name()}
		found, err := callProvider(ctx, c, p, func(ctx context.Context) ([]entity.EnrichedContact, error) {
			return p.SearchContacts(ctx, criteria)
		})
		if err != nil {
			attempt.Error = err.Error()
			report.Attempts = append(report.Attempts, attempt)
			continue
		}

		attempt.Returned = len(found)
		for _, contact := range found {
			email := entity.NormalizeEmail(contact.Email)
			if email == "" {
				continue
			}
			if _, dup := seen[email]; dup {
				continue
			}
			seen[email] = struct{}{}
			if contact.Source == "" {
				contact.Source = p.Name()
			}
			report.Contacts = append(report.Contacts, contact)
			attempt.Kept++
		}
		report.Attempts = append(report.Attempts, attempt)
	}

	if len(report.Contacts) > criteria.Limit {
		report.Contacts = report.Contacts[:criteria.Limit]
	}
	return report, nil
}

// Enrich returns the first provider's non-empty record for email, or nil.
func (c *EnrichmentChain) Enrich(ctx context.Context, email string) (*entity.EnrichedContact, error) {
	if !c.IsConfigured() {
		return nil, ErrNoProviders
	}
	email = strings.TrimSpace(email)
	for _, p := range c.providers {
		if ctx.Err() != nil {
			break
		}
		found, err := callProvider(ctx, c, p, func(ctx context.Context) (*entity.EnrichedContact, error) {
			return p.EnrichContact(ctx, email)
		})
		if err != nil || found == nil {
			continue
		}
		if found.Source == "" {
			found.Source = p.Name()
		}
		return found, nil
	}
	return nil, nil
}

// FindEmail returns the first non-empty address any provider finds, or "".
func (c *EnrichmentChain) FindEmail(ctx context.Context, firstName, lastName, domain string) (string, error) {
	if !c.IsConfigured() {
		return "", ErrNoProviders
	}
	for _, p := range c.providers {
		if ctx.Err() != nil {
			break
		}
		email, err := callProvider(ctx, c, p, func(ctx context.Context) (string, error) {
			return p.FindEmail(ctx, firstName, lastName, domain)
		})
		if err != nil {
			continue
		}
		if email = strings.TrimSpace(email); email != "" {
			return email, nil
		}
	}
	return "", nil
}

// callProvider bounds one provider call with the chain timeout and turns a
// panic into an error.
func callProvider[T any](ctx context.Context, c *EnrichmentChain, p Provider, fn func(context.Context) (T, error)) (result T, err error) {
	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("provider %s panicked: %v", p.Name(), r)
		}
		if err != nil {
			c.logger.Warn("[ENRICHMENT] provider failed, trying next", "provider", p.Name(), "error", err)
			observerOrNoop(c.Observer).ProviderFailed(p.Name())
		}
	}()

	return fn(callCtx)
}
