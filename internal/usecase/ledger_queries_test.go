package usecase_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/outreachd/outreach/internal/entity"
	"github.com/outreachd/outreach/internal/usecase"
)

func TestLedgerQueries_Recent(t *testing.T) {
	ledger := &memLedger{entries: []entity.LedgerEntry{
		{Email: "a@x.com"}, {Email: "b@x.com"}, {Email: "c@x.com"}, {Email: "d@x.com"},
	}}
	q := usecase.NewLedgerQueries(ledger)
	ctx := context.Background()

	got, err := q.Recent(ctx, "tenant-1", 1, 2)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "c@x.com", got[0].Email)
	assert.Equal(t, "b@x.com", got[1].Email)

	got, err = q.Recent(ctx, "tenant-1", 10, 2)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestSummarizeLedger(t *testing.T) {
	stats := usecase.SummarizeLedger([]entity.LedgerEntry{
		{Status: entity.LedgerStatusSent},
		{Status: entity.LedgerStatusSent},
		{Status: entity.LedgerStatusError},
		{Status: entity.LedgerStatusDryRun},
	})

	assert.Equal(t, entity.LedgerStats{Sent: 2, Failed: 1, Drafts: 1, SuccessRate: 66.7}, stats)
	assert.Equal(t, entity.LedgerStats{}, usecase.SummarizeLedger(nil))
}
