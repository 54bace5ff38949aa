package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/outreachd/outreach/internal/entity"
)

// LedgerRepository is the append-only ledger. Rows are never updated.
type LedgerRepository struct {
	DB *sql.DB
}

func NewLedgerRepository(db *sql.DB) *LedgerRepository {
	return &LedgerRepository{DB: db}
}

func (r *LedgerRepository) Append(ctx context.Context, e entity.LedgerEntry) error {
	query := `
		INSERT INTO ledger_entries (id, tenant_id, created_at, email, company, status, subject, error)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.DB.ExecContext(ctx, query,
		e.ID,
		e.TenantID,
		e.Timestamp,
		e.Email,
		nullString(e.Company),
		e.Status,
		nullString(e.Subject),
		nullString(e.Error),
	)
	if err != nil {
		return fmt.Errorf("append ledger entry: %w", err)
	}
	return nil
}

// History returns the tenant's entries in insertion order.
func (r *LedgerRepository) History(ctx context.Context, tenantID string) ([]entity.LedgerEntry, error) {
	query := `
		SELECT id, tenant_id, created_at, email, COALESCE(company, ''), status,
			COALESCE(subject, ''), COALESCE(error, '')
		FROM ledger_entries
		WHERE tenant_id = $1
		ORDER BY seq
	`
	rows, err := r.DB.QueryContext(ctx, query, tenantID)
	if err != nil {
		return nil, fmt.Errorf("read ledger: %w", err)
	}
	defer rows.Close()

	out := []entity.LedgerEntry{}
	for rows.Next() {
		var e entity.LedgerEntry
		if err := rows.Scan(&e.ID, &e.TenantID, &e.Timestamp, &e.Email, &e.Company,
			&e.Status, &e.Subject, &e.Error); err != nil {
			return nil, fmt.Errorf("scan ledger entry: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
