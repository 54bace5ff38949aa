package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/outreachd/outreach/internal/entity"
)

// ContactedEmails returns the normalized emails that have at least one
// terminal-success entry. Entries without an email or with an unknown status
// are skipped.
func ContactedEmails(entries []entity.LedgerEntry) map[string]struct{} {
	contacted := make(map[string]struct{})
	for _, e := range entries {
		email := entity.NormalizeEmail(e.Email)
		if email == "" {
			continue
		}
		e.Status = strings.ToUpper(strings.TrimSpace(e.Status))
		if !entity.IsKnownLedgerStatus(e.Status) {
			continue
		}
		if e.IsTerminalSuccess() {
			contacted[email] = struct{}{}
		}
	}
	return contacted
}

// LedgerReader snapshots a tenant's ledger once per run.
type LedgerReader struct {
	store LedgerStore
}

func NewLedgerReader(store LedgerStore) *LedgerReader {
	return &LedgerReader{store: store}
}

func (r *LedgerReader) Contacted(ctx context.Context, tenantID string) (map[string]struct{}, error) {
	if r.store == nil {
		return map[string]struct{}{}, nil
	}
	history, err := r.store.History(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("read ledger history: %w", err)
	}
	return ContactedEmails(history), nil
}
