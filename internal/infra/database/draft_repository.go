package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/outreachd/outreach/internal/entity"
)

type DraftRepository struct {
	DB *sql.DB
}

func NewDraftRepository(db *sql.DB) *DraftRepository {
	return &DraftRepository{DB: db}
}

// SaveDraft keeps one draft per contact key; a rerun overwrites it.
func (r *DraftRepository) SaveDraft(ctx context.Context, d entity.Draft) error {
	query := `
		INSERT INTO drafts (tenant_id, key, email, subject, body, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		ON CONFLICT (tenant_id, key)
		DO UPDATE SET
			email = EXCLUDED.email,
			subject = EXCLUDED.subject,
			body = EXCLUDED.body,
			updated_at = NOW()
	`
	if _, err := r.DB.ExecContext(ctx, query, d.TenantID, d.Key, d.Email, d.Subject, d.Body); err != nil {
		return fmt.Errorf("save draft: %w", err)
	}
	return nil
}
