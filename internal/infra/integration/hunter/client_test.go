package hunter

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/outreachd/outreach/internal/usecase"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient("hunter-test-key", srv.URL, nil)
}

func TestCompanyDomain(t *testing.T) {
	assert.Equal(t, "acme.com", CompanyDomain("Acme"))
	assert.Equal(t, "acmerobotics.com", CompanyDomain(" Acme Robotics "))
	assert.Equal(t, "acme.io", CompanyDomain("acme.io"))
	assert.Equal(t, "", CompanyDomain(""))
}

func TestProviderSearchContacts(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/domain-search", r.URL.Path)
		assert.Equal(t, "hunter-test-key", r.URL.Query().Get("api_key"))
		assert.Equal(t, "acme.com", r.URL.Query().Get("domain"))
		assert.Equal(t, "5", r.URL.Query().Get("limit"))
		_, _ = w.Write([]byte(`{"data":{"domain":"acme.com","organization":"Acme Inc","emails":[
			{"value":"ann@acme.com","first_name":"Ann","last_name":"Lee","position":"CTO","confidence":94},
			{"value":"bo@acme.com","first_name":"Bo"}]},"meta":{"results":2}}`))
	})
	p := NewProvider(client)

	contacts, err := p.SearchContacts(context.Background(), usecase.SearchCriteria{Company: "Acme", Limit: 5})
	require.NoError(t, err)

	require.Len(t, contacts, 2)
	assert.Equal(t, "ann@acme.com", contacts[0].Email)
	assert.Equal(t, "Acme Inc", contacts[0].Company)
	assert.Equal(t, "CTO", contacts[0].JobTitle)
	assert.Equal(t, "hunter", contacts[1].Source)
}

func TestProviderSearchContacts_NoCompany(t *testing.T) {
	p := NewProvider(NewClient("hunter-test-key", "http://127.0.0.1:0", nil))

	contacts, err := p.SearchContacts(context.Background(), usecase.SearchCriteria{JobTitle: "CTO"})
	require.NoError(t, err)
	assert.Empty(t, contacts)
}

func TestRateLimit(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	})

	_, _, err := client.DomainSearch(context.Background(), "acme.com", 10, 0)
	assert.ErrorIs(t, err, ErrRateLimited)
}

func TestStatusErrorDetails(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"errors":[{"id":"wrong_params","details":"You are missing the domain parameter"}]}`))
	})

	_, _, err := client.DomainSearch(context.Background(), "", 10, 0)
	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, "You are missing the domain parameter", statusErr.Details)
}

func TestFindEmail(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		switch q.Get("last_name") {
		case "Lee":
			assert.Equal(t, "acme.com", q.Get("domain"))
			_, _ = w.Write([]byte(`{"data":{"first_name":"Ann","last_name":"Lee","email":"ann@acme.com","score":91}}`))
		case "Empty":
			_, _ = w.Write([]byte(`{"data":{"email":null}}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})
	p := NewProvider(client)
	ctx := context.Background()

	email, err := p.FindEmail(ctx, "Ann", "Lee", "Acme")
	require.NoError(t, err)
	assert.Equal(t, "ann@acme.com", email)

	email, err = p.FindEmail(ctx, "Ann", "Empty", "acme.com")
	require.NoError(t, err)
	assert.Empty(t, email)

	email, err = p.FindEmail(ctx, "Ann", "Nobody", "acme.com")
	require.NoError(t, err)
	assert.Empty(t, email)
}

func TestEnrichContact(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/people/find", r.URL.Path)
		if r.URL.Query().Get("email") != "ann@acme.com" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte(`{"data":{"name":{"givenName":"Ann","familyName":"Lee"},"email":"ann@acme.com",
			"employment":{"name":"Acme","title":"CTO"},"linkedin":{"handle":"in/annlee"},"geo":{"city":"Austin","state":"Texas"}}}`))
	})
	p := NewProvider(client)

	got, err := p.EnrichContact(context.Background(), "ann@acme.com")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Ann", got.FirstName)
	assert.Equal(t, "Acme", got.Company)
	assert.Equal(t, "https://www.linkedin.com/in/annlee", got.LinkedInURL)
	assert.Equal(t, "Texas", got.State)

	missing, err := p.EnrichContact(context.Background(), "ghost@acme.com")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestAccount(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/account", r.URL.Path)
		_, _ = w.Write([]byte(`{"data":{"email":"me@x.com","plan_name":"Free","requests":{"searches":{"used":3,"available":25},"verifications":{"used":1,"available":50}}}}`))
	})

	info, err := client.Account(context.Background())
	require.NoError(t, err)
	assert.Equal(t, &AccountInfo{
		Configured: true, Email: "me@x.com", Plan: "Free",
		SearchesUsed: 3, SearchesAvailable: 25, VerificationsUsed: 1, VerificationsAvailable: 50,
	}, info)
}
