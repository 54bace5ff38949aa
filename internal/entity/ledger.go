package entity

import (
	"time"

	"github.com/google/uuid"
)

const (
	LedgerStatusSent   = "SENT"
	LedgerStatusDryRun = "DRY_RUN"
	LedgerStatusError  = "ERROR"
)

// LedgerEntry records one attempt against one recipient. Entries are never
// rewritten once appended.
type LedgerEntry struct {
	ID        string    `json:"id"`
	TenantID  string    `json:"tenant_id"`
	Timestamp time.Time `json:"timestamp"`
	Email     string    `json:"email"`
	Company   string    `json:"company"`
	Status    string    `json:"status"`
	Subject   string    `json:"subject"`
	Error     string    `json:"error,omitempty"`
}

func NewLedgerEntry(tenantID string, c *Contact, status, subject, errMsg string) LedgerEntry {
	return LedgerEntry{
		ID:        uuid.New().String(),
		TenantID:  tenantID,
		Timestamp: time.Now(),
		Email:     c.Email,
		Company:   c.Company,
		Status:    status,
		Subject:   subject,
		Error:     errMsg,
	}
}

// IsTerminalSuccess reports whether the entry excludes its recipient from
// future selection. ERROR leaves the recipient eligible for retry.
func (e LedgerEntry) IsTerminalSuccess() bool {
	return e.Status == LedgerStatusSent || e.Status == LedgerStatusDryRun
}

func IsKnownLedgerStatus(status string) bool {
	switch status {
	case LedgerStatusSent, LedgerStatusDryRun, LedgerStatusError:
		return true
	}
	return false
}

// LedgerStats summarizes a tenant's ledger.
type LedgerStats struct {
	Sent        int     `json:"sent"`
	Failed      int     `json:"failed"`
	Drafts      int     `json:"drafts"`
	SuccessRate float64 `json:"success_rate"`
}
