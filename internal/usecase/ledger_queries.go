package usecase

import (
	"context"
	"math"

	"github.com/outreachd/outreach/internal/entity"
)

const DefaultLogPageSize = 100

type LedgerQueries struct {
	Store LedgerStore
}

func NewLedgerQueries(store LedgerStore) *LedgerQueries {
	return &LedgerQueries{Store: store}
}

// Recent returns entries newest first.
func (q *LedgerQueries) Recent(ctx context.Context, tenantID string, skip, limit int) ([]entity.LedgerEntry, error) {
	history, err := q.Store.History(ctx, tenantID)
	if err != nil {
		return nil, &TechnicalError{Code: "LEDGER_READ_FAILED", Message: "could not read ledger", Err: err}
	}
	if skip < 0 {
		skip = 0
	}
	if limit <= 0 {
		limit = DefaultLogPageSize
	}

	out := make([]entity.LedgerEntry, 0, min(limit, len(history)))
	for i := len(history) - 1 - skip; i >= 0 && len(out) < limit; i-- {
		out = append(out, history[i])
	}
	return out, nil
}

func (q *LedgerQueries) Stats(ctx context.Context, tenantID string) (entity.LedgerStats, error) {
	history, err := q.Store.History(ctx, tenantID)
	if err != nil {
		return entity.LedgerStats{}, &TechnicalError{Code: "LEDGER_READ_FAILED", Message: "could not read ledger", Err: err}
	}
	return SummarizeLedger(history), nil
}

// SummarizeLedger counts statuses. SuccessRate is the percentage of
// deliveries that were sent, rounded to one decimal.
func SummarizeLedger(entries []entity.LedgerEntry) entity.LedgerStats {
	var stats entity.LedgerStats
	for _, e := range entries {
		switch e.Status {
		case entity.LedgerStatusSent:
			stats.Sent++
		case entity.LedgerStatusError:
			stats.Failed++
		case entity.LedgerStatusDryRun:
			stats.Drafts++
		}
	}
	if attempts := stats.Sent + stats.Failed; attempts > 0 {
		stats.SuccessRate = math.Round(float64(stats.Sent)/float64(attempts)*1000) / 10
	}
	return stats
}
