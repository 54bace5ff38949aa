package usecase_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/outreachd/outreach/internal/entity"
	"github.com/outreachd/outreach/internal/usecase"
)

func TestCreateContact(t *testing.T) {
	ctx := context.Background()

	t.Run("without email is no-email", func(t *testing.T) {
		repo := newMemContacts()
		c, err := usecase.NewCreateContactUseCase(repo, nil).Execute(ctx, "tenant-1", usecase.CreateContactInput{FirstName: "Ann", Company: "Acme"})
		require.NoError(t, err)
		assert.Equal(t, entity.ContactStatusNoEmail, c.Status)
		assert.Len(t, repo.contacts, 1)
	})

	t.Run("with email is pending", func(t *testing.T) {
		repo := newMemContacts()
		c, err := usecase.NewCreateContactUseCase(repo, nil).Execute(ctx, "tenant-1", usecase.CreateContactInput{FirstName: "Ann", Email: "ann@acme.com"})
		require.NoError(t, err)
		assert.Equal(t, entity.ContactStatusPending, c.Status)
	})

	t.Run("duplicate email is rejected case-insensitively", func(t *testing.T) {
		repo := newMemContacts(contact("Ann", "ann@acme.com", "Acme"))
		_, err := usecase.NewCreateContactUseCase(repo, nil).Execute(ctx, "tenant-1", usecase.CreateContactInput{FirstName: "Ann", Email: "ANN@acme.com"})
		require.Error(t, err)
		assert.True(t, usecase.IsDomainError(err))
	})

	t.Run("validation", func(t *testing.T) {
		_, err := usecase.NewCreateContactUseCase(newMemContacts(), nil).Execute(ctx, "tenant-1", usecase.CreateContactInput{Email: "not-an-email"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "first_name")
		assert.Contains(t, err.Error(), "email")
	})
}

func TestImportEnriched(t *testing.T) {
	repo := newMemContacts(contact("Ann", "ann@acme.com", "Acme"))
	uc := usecase.NewImportEnrichedUseCase(repo, nil)

	report, err := uc.Execute(context.Background(), "tenant-1", []entity.EnrichedContact{
		{FirstName: "Ann", Email: "Ann@Acme.com", Source: "apollo"},
		{FirstName: "Bo", Email: "bo@acme.com", Company: "Acme", Source: "hunter"},
		{FirstName: "Bo", Email: "BO@acme.com", Source: "hunter"},
		{FirstName: "", Email: "anon@acme.com", Source: "hunter"},
		{FirstName: "Cy", Source: "apollo"},
	})
	require.NoError(t, err)

	assert.Equal(t, 1, report.Imported)
	assert.Equal(t, 4, report.Skipped)
	assert.Len(t, report.Errors, 1)
	require.Len(t, repo.contacts, 2)
	assert.Equal(t, "source: hunter", repo.contacts[1].Notes)
}

func ptr(s string) *string { return &s }

func TestUpdateContact(t *testing.T) {
	ctx := context.Background()

	t.Run("manual statuses", func(t *testing.T) {
		ann := contact("Ann", "ann@acme.com", "Acme")
		repo := newMemContacts(ann)
		uc := usecase.NewUpdateContactUseCase(repo, nil)

		c, err := uc.Execute(ctx, "tenant-1", ann.ID, usecase.UpdateContactInput{Status: ptr(entity.ContactStatusReplied)})
		require.NoError(t, err)
		assert.Equal(t, entity.ContactStatusReplied, c.Status)

		c, err = uc.Execute(ctx, "tenant-1", ann.ID, usecase.UpdateContactInput{Status: ptr(entity.ContactStatusNotInterested), Notes: ptr("  asked not to be contacted ")})
		require.NoError(t, err)
		assert.Equal(t, entity.ContactStatusNotInterested, repo.contacts[0].Status)
		assert.Equal(t, "asked not to be contacted", c.Notes)
	})

	t.Run("unknown status", func(t *testing.T) {
		ann := contact("Ann", "ann@acme.com", "Acme")
		_, err := usecase.NewUpdateContactUseCase(newMemContacts(ann), nil).
			Execute(ctx, "tenant-1", ann.ID, usecase.UpdateContactInput{Status: ptr("bounced")})
		var de *usecase.DomainError
		require.ErrorAs(t, err, &de)
		assert.Equal(t, "VALIDATION_ERROR", de.Code)
	})

	t.Run("adding an email makes the contact pending", func(t *testing.T) {
		cy := contact("Cy", "", "Bolt")
		c, err := usecase.NewUpdateContactUseCase(newMemContacts(cy), nil).
			Execute(ctx, "tenant-1", cy.ID, usecase.UpdateContactInput{Email: ptr(" Cy@Bolt.io ")})
		require.NoError(t, err)
		assert.Equal(t, "cy@bolt.io", c.Email)
		assert.Equal(t, entity.ContactStatusPending, c.Status)
	})

	t.Run("pending without email", func(t *testing.T) {
		cy := contact("Cy", "", "Bolt")
		_, err := usecase.NewUpdateContactUseCase(newMemContacts(cy), nil).
			Execute(ctx, "tenant-1", cy.ID, usecase.UpdateContactInput{Status: ptr(entity.ContactStatusPending)})
		var de *usecase.DomainError
		require.ErrorAs(t, err, &de)
		assert.Equal(t, "INVALID_STATUS", de.Code)
	})

	t.Run("email taken by another contact", func(t *testing.T) {
		ann := contact("Ann", "ann@acme.com", "Acme")
		bo := contact("Bo", "bo@acme.com", "Acme")
		uc := usecase.NewUpdateContactUseCase(newMemContacts(ann, bo), nil)

		_, err := uc.Execute(ctx, "tenant-1", bo.ID, usecase.UpdateContactInput{Email: ptr("ANN@acme.com")})
		var de *usecase.DomainError
		require.ErrorAs(t, err, &de)
		assert.Equal(t, "EMAIL_ALREADY_EXISTS", de.Code)

		_, err = uc.Execute(ctx, "tenant-1", ann.ID, usecase.UpdateContactInput{Email: ptr("Ann@Acme.com")})
		assert.NoError(t, err, "keeping the own email is not a conflict")
	})

	t.Run("not found", func(t *testing.T) {
		_, err := usecase.NewUpdateContactUseCase(newMemContacts(), nil).
			Execute(ctx, "tenant-1", "missing", usecase.UpdateContactInput{Notes: ptr("x")})
		var de *usecase.DomainError
		require.ErrorAs(t, err, &de)
		assert.Equal(t, "CONTACT_NOT_FOUND", de.Code)
	})
}

func TestDeleteContact(t *testing.T) {
	ann := contact("Ann", "ann@acme.com", "Acme")
	repo := newMemContacts(ann)
	uc := usecase.NewDeleteContactUseCase(repo, nil)

	require.NoError(t, uc.Execute(context.Background(), "tenant-1", ann.ID))
	assert.Empty(t, repo.contacts)

	var de *usecase.DomainError
	require.ErrorAs(t, uc.Execute(context.Background(), "tenant-1", ann.ID), &de)
	assert.Equal(t, "CONTACT_NOT_FOUND", de.Code)
}

func TestContactQueries(t *testing.T) {
	ctx := context.Background()
	ann := contact("Ann", "ann@acme.com", "Acme")
	bo := contact("Bo", "bo@bolt.io", "Bolt")
	bo.Status = entity.ContactStatusReplied
	cy := contact("Cy", "", "Acme Labs")
	q := usecase.NewContactQueries(newMemContacts(ann, bo, cy))

	all, err := q.List(ctx, "tenant-1", entity.ContactFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "Cy", all[0].FirstName, "newest first")

	acme, err := q.List(ctx, "tenant-1", entity.ContactFilter{Company: "acme"})
	require.NoError(t, err)
	assert.Len(t, acme, 2)

	replied, err := q.List(ctx, "tenant-1", entity.ContactFilter{Status: entity.ContactStatusReplied})
	require.NoError(t, err)
	require.Len(t, replied, 1)
	assert.Equal(t, "Bo", replied[0].FirstName)

	page, err := q.List(ctx, "tenant-1", entity.ContactFilter{Skip: 1, Limit: 1})
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "Bo", page[0].FirstName)

	none, err := q.List(ctx, "tenant-1", entity.ContactFilter{Search: "zed"})
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)

	_, err = q.List(ctx, "tenant-1", entity.ContactFilter{Status: "bounced"})
	assert.True(t, usecase.IsDomainError(err))

	stats, err := q.Stats(ctx, "tenant-1")
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Total)
	assert.Equal(t, 2, stats.WithEmail)
	assert.Equal(t, 1, stats.WithoutEmail)
	assert.Equal(t, map[string]int{
		entity.ContactStatusPending: 1,
		entity.ContactStatusReplied: 1,
		entity.ContactStatusNoEmail: 1,
	}, stats.ByStatus)
}

func TestImportContacts(t *testing.T) {
	repo := newMemContacts(contact("Ann", "ann@acme.com", "Acme"))
	uc := usecase.NewImportContactsUseCase(repo, nil)

	report, err := uc.Execute(context.Background(), "tenant-1", []*entity.Contact{
		contact("Ann", "ANN@acme.com", "Acme"),
		contact("Bo", "bo@bolt.io", "Bolt"),
		contact("Bo", "bo@bolt.io", "Bolt"),
		contact("Cy", "", "Acme"),
	})
	require.NoError(t, err)

	assert.Equal(t, 2, report.Imported)
	assert.Equal(t, 2, report.Skipped)
	assert.Empty(t, report.Errors)
	assert.Len(t, repo.contacts, 3)
}
