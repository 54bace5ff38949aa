package database

import (
	"context"
	"database/sql"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/outreachd/outreach/internal/entity"
)

// openTestDB connects to TEST_DATABASE_URL and migrates it. Each test uses a
// fresh tenant ID so runs never see each other's rows.
func openTestDB(t *testing.T) (*sql.DB, string) {
	t.Helper()
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	db, err := NewDBConnection(url)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, Migrate(context.Background(), db))
	return db, "test-" + uuid.NewString()
}

func TestNullString(t *testing.T) {
	assert.Nil(t, nullString(""))
	require.NotNil(t, nullString("x"))
	assert.Equal(t, "x", *nullString("x"))
}

func TestContactRepository(t *testing.T) {
	db, tenant := openTestDB(t)
	ctx := context.Background()
	repo := NewContactRepository(db)

	c, err := entity.NewContact(tenant, "Ann", "Lee", "Ann@Acme.com", "Acme", "CTO")
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, c))

	dup, err := entity.NewContact(tenant, "Ann", "Other", "ann@acme.com", "Acme", "")
	require.NoError(t, err)
	assert.ErrorIs(t, repo.Create(ctx, dup), entity.ErrEmailAlreadyExists)

	found, err := repo.FindByEmail(ctx, tenant, "ANN@acme.com")
	require.NoError(t, err)
	assert.Equal(t, c.ID, found.ID)

	_, err = repo.FindByID(ctx, tenant, uuid.NewString())
	assert.ErrorIs(t, err, entity.ErrContactNotFound)

	list, err := repo.ListByTenant(ctx, tenant)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestLikePattern(t *testing.T) {
	assert.Equal(t, "%acme%", likePattern(" acme "))
	assert.Equal(t, `%100\%\_off%`, likePattern("100%_off"))
}

func TestContactRepository_Lifecycle(t *testing.T) {
	db, tenant := openTestDB(t)
	ctx := context.Background()
	repo := NewContactRepository(db)

	mk := func(first, email, company string) *entity.Contact {
		c, err := entity.NewContact(tenant, first, "", email, company, "")
		require.NoError(t, err)
		require.NoError(t, repo.Create(ctx, c))
		return c
	}
	ann := mk("Ann", "ann@acme.com", "Acme")
	bo := mk("Bo", "bo@bolt.io", "Bolt")
	mk("Cy", "", "Acme Labs")

	acme, err := repo.List(ctx, tenant, entity.ContactFilter{Company: "ACME"})
	require.NoError(t, err)
	assert.Len(t, acme, 2)

	found, err := repo.List(ctx, tenant, entity.ContactFilter{Search: "bolt"})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, bo.ID, found[0].ID)

	page, err := repo.List(ctx, tenant, entity.ContactFilter{Limit: 2})
	require.NoError(t, err)
	assert.Len(t, page, 2)

	ann.Status = entity.ContactStatusNotInterested
	ann.Notes = "unsubscribed"
	ann.UpdatedAt = time.Now()
	require.NoError(t, repo.Update(ctx, ann))

	got, err := repo.FindByID(ctx, tenant, ann.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.ContactStatusNotInterested, got.Status)
	assert.Equal(t, "unsubscribed", got.Notes)

	notInterested, err := repo.List(ctx, tenant, entity.ContactFilter{Status: entity.ContactStatusNotInterested})
	require.NoError(t, err)
	assert.Len(t, notInterested, 1)

	bo.Email = "ANN@acme.com"
	assert.ErrorIs(t, repo.Update(ctx, bo), entity.ErrEmailAlreadyExists)

	require.NoError(t, repo.Delete(ctx, tenant, ann.ID))
	assert.ErrorIs(t, repo.Delete(ctx, tenant, ann.ID), entity.ErrContactNotFound)
	ghost := *ann
	assert.ErrorIs(t, repo.Update(ctx, &ghost), entity.ErrContactNotFound)
}

func TestLedgerAndStatusSync(t *testing.T) {
	db, tenant := openTestDB(t)
	ctx := context.Background()
	contacts := NewContactRepository(db)
	ledger := NewLedgerRepository(db)

	history, err := ledger.History(ctx, tenant)
	require.NoError(t, err)
	assert.Empty(t, history)

	c, err := entity.NewContact(tenant, "Ann", "", "ann@acme.com", "Acme", "")
	require.NoError(t, err)
	require.NoError(t, contacts.Create(ctx, c))

	first := entity.NewLedgerEntry(tenant, c, entity.LedgerStatusError, "Hi", "smtp down")
	second := entity.NewLedgerEntry(tenant, c, entity.LedgerStatusSent, "Hi", "")
	second.Timestamp = first.Timestamp.Add(-time.Hour)
	require.NoError(t, ledger.Append(ctx, first))
	require.NoError(t, ledger.Append(ctx, second))

	history, err = ledger.History(ctx, tenant)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, entity.LedgerStatusError, history[0].Status, "insertion order, not timestamp order")

	updated, err := contacts.SyncSentStatuses(ctx)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, updated, 1)

	synced, err := contacts.FindByID(ctx, tenant, c.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.ContactStatusSent, synced.Status)
}

func TestTemplateRepository_SingleDefault(t *testing.T) {
	db, tenant := openTestDB(t)
	ctx := context.Background()
	repo := NewTemplateRepository(db)

	a, _ := entity.NewTemplate(tenant, "A", "sales", "sys", "user")
	b, _ := entity.NewTemplate(tenant, "B", "sales", "sys", "user")
	require.NoError(t, repo.Create(ctx, a))
	require.NoError(t, repo.Create(ctx, b))

	_, err := repo.FindDefault(ctx, tenant)
	assert.ErrorIs(t, err, entity.ErrTemplateNotFound)

	require.NoError(t, repo.SetDefault(ctx, tenant, a.ID))
	require.NoError(t, repo.SetDefault(ctx, tenant, b.ID))

	def, err := repo.FindDefault(ctx, tenant)
	require.NoError(t, err)
	assert.Equal(t, b.ID, def.ID)

	list, err := repo.List(ctx, tenant, "sales", true)
	require.NoError(t, err)
	defaults := 0
	for _, tpl := range list {
		if tpl.IsDefault {
			defaults++
		}
	}
	assert.Equal(t, 1, defaults)

	assert.ErrorIs(t, repo.Delete(ctx, tenant, uuid.NewString()), entity.ErrTemplateNotFound)
}

func TestProfileRepository(t *testing.T) {
	db, tenant := openTestDB(t)
	ctx := context.Background()
	repo := NewProfileRepository(db)

	p, err := repo.FindProfile(ctx, tenant)
	require.NoError(t, err)
	assert.Nil(t, p)

	require.NoError(t, repo.SaveProfile(ctx, tenant, &entity.SenderProfile{FullName: "Sam", Email: "sam@x.io"}))
	p, err = repo.FindProfile(ctx, tenant)
	require.NoError(t, err)
	assert.Equal(t, "Sam", p.FullName)
	assert.Empty(t, p.Phone)
}
