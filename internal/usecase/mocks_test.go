package usecase_test

import (
	"context"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/outreachd/outreach/internal/entity"
	"github.com/outreachd/outreach/internal/usecase"
)

// memContacts is an in-memory contact pool.
type memContacts struct {
	mu       sync.Mutex
	contacts []*entity.Contact
	listErr  error
}

func newMemContacts(contacts ...*entity.Contact) *memContacts {
	return &memContacts{contacts: contacts}
}

func (m *memContacts) ListByTenant(_ context.Context, _ string) ([]*entity.Contact, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.listErr != nil {
		return nil, m.listErr
	}
	return append([]*entity.Contact(nil), m.contacts...), nil
}

func (m *memContacts) FindByEmail(_ context.Context, _ string, email string) (*entity.Contact, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.contacts {
		if c.NormalizedEmail() == entity.NormalizeEmail(email) {
			return c, nil
		}
	}
	return nil, entity.ErrContactNotFound
}

func (m *memContacts) FindByID(_ context.Context, _ string, id string) (*entity.Contact, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.contacts {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, entity.ErrContactNotFound
}

func (m *memContacts) Create(_ context.Context, c *entity.Contact) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.contacts = append(m.contacts, c)
	return nil
}

func (m *memContacts) List(_ context.Context, _ string, filter entity.ContactFilter) ([]*entity.Contact, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*entity.Contact
	for i := len(m.contacts) - 1; i >= 0; i-- {
		if filter.Matches(m.contacts[i]) {
			out = append(out, m.contacts[i])
		}
	}
	if filter.Skip >= len(out) {
		return nil, nil
	}
	out = out[filter.Skip:]
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (m *memContacts) Update(_ context.Context, c *entity.Contact) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, existing := range m.contacts {
		if existing.ID == c.ID {
			m.contacts[i] = c
			return nil
		}
	}
	return entity.ErrContactNotFound
}

func (m *memContacts) Delete(_ context.Context, _ string, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, c := range m.contacts {
		if c.ID == id {
			m.contacts = append(m.contacts[:i], m.contacts[i+1:]...)
			return nil
		}
	}
	return entity.ErrContactNotFound
}

// memLedger is an append-only in-memory ledger. With honorContext set,
// Append fails on a done context the way a database store does.
type memLedger struct {
	mu           sync.Mutex
	entries      []entity.LedgerEntry
	appendErr    error
	honorContext bool
}

func (m *memLedger) History(_ context.Context, _ string) ([]entity.LedgerEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]entity.LedgerEntry(nil), m.entries...), nil
}

func (m *memLedger) Append(ctx context.Context, e entity.LedgerEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.honorContext && ctx.Err() != nil {
		return ctx.Err()
	}
	if m.appendErr != nil {
		return m.appendErr
	}
	m.entries = append(m.entries, e)
	return nil
}

func (m *memLedger) statuses() map[string]string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]string, len(m.entries))
	for _, e := range m.entries {
		out[e.Email] = e.Status
	}
	return out
}

type memDrafts struct {
	mu     sync.Mutex
	drafts map[string]entity.Draft
}

func newMemDrafts() *memDrafts {
	return &memDrafts{drafts: map[string]entity.Draft{}}
}

func (m *memDrafts) SaveDraft(_ context.Context, d entity.Draft) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.drafts[d.Key] = d
	return nil
}

type staticProfile struct {
	profile *entity.SenderProfile
}

func (s staticProfile) FindProfile(context.Context, string) (*entity.SenderProfile, error) {
	return s.profile, nil
}

// MockContentProvider
type MockContentProvider struct {
	mock.Mock
}

func (m *MockContentProvider) Complete(ctx context.Context, systemPrompt, userPrompt string, temperature float64) (string, error) {
	args := m.Called(ctx, systemPrompt, userPrompt, temperature)
	return args.String(0), args.Error(1)
}

// MockDeliveryChannel
type MockDeliveryChannel struct {
	mock.Mock
}

func (m *MockDeliveryChannel) Send(ctx context.Context, msg entity.OutboundMessage) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

// MockTemplateRepository
type MockTemplateRepository struct {
	mock.Mock
}

func (m *MockTemplateRepository) Create(ctx context.Context, t *entity.Template) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}

func (m *MockTemplateRepository) Update(ctx context.Context, t *entity.Template) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}

func (m *MockTemplateRepository) Delete(ctx context.Context, tenantID, id string) error {
	args := m.Called(ctx, tenantID, id)
	return args.Error(0)
}

func (m *MockTemplateRepository) FindByID(ctx context.Context, tenantID, id string) (*entity.Template, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Template), args.Error(1)
}

func (m *MockTemplateRepository) FindDefault(ctx context.Context, tenantID string) (*entity.Template, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Template), args.Error(1)
}

func (m *MockTemplateRepository) List(ctx context.Context, tenantID, category string, activeOnly bool) ([]*entity.Template, error) {
	args := m.Called(ctx, tenantID, category, activeOnly)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Template), args.Error(1)
}

func (m *MockTemplateRepository) SetDefault(ctx context.Context, tenantID, id string) error {
	args := m.Called(ctx, tenantID, id)
	return args.Error(0)
}

// countingObserver records pipeline events.
type countingObserver struct {
	mu        sync.Mutex
	statuses  []string
	fallbacks int
	failures  []string
}

func (o *countingObserver) MessageRecorded(status string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.statuses = append(o.statuses, status)
}

func (o *countingObserver) GenerationFellBack() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.fallbacks++
}

func (o *countingObserver) ProviderFailed(provider string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.failures = append(o.failures, provider)
}

// recordingSleeper captures requested pauses without blocking.
type recordingSleeper struct {
	mu     sync.Mutex
	delays []time.Duration
}

func (r *recordingSleeper) Sleep(_ context.Context, d time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.delays = append(r.delays, d)
	return nil
}

func contact(first, email, company string) *entity.Contact {
	c, err := entity.NewContact("tenant-1", first, "", email, company, "Engineer")
	if err != nil {
		panic(err)
	}
	return c
}

func completeProfile() *entity.SenderProfile {
	return &entity.SenderProfile{FullName: "Sam Sender", Email: "sam@sender.io", Organization: "State University"}
}

func newGenerator(provider usecase.ContentProvider) *usecase.ContentGenerator {
	return usecase.NewContentGenerator(provider, nil)
}
