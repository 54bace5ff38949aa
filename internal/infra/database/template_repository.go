package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/outreachd/outreach/internal/entity"
)

const templateColumns = `id, tenant_id, name, COALESCE(description, ''), COALESCE(category, ''),
	COALESCE(system_prompt, ''), COALESCE(user_prompt_template, ''), is_default, is_active,
	created_at, updated_at`

type TemplateRepository struct {
	DB *sql.DB
}

func NewTemplateRepository(db *sql.DB) *TemplateRepository {
	return &TemplateRepository{DB: db}
}

func (r *TemplateRepository) Create(ctx context.Context, t *entity.Template) error {
	query := `
		INSERT INTO templates (id, tenant_id, name, description, category, system_prompt,
			user_prompt_template, is_default, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, FALSE, $8, $9, $10)
	`
	_, err := r.DB.ExecContext(ctx, query,
		t.ID,
		t.TenantID,
		t.Name,
		nullString(t.Description),
		nullString(t.Category),
		nullString(t.SystemPrompt),
		nullString(t.UserPromptTemplate),
		t.IsActive,
		t.CreatedAt,
		t.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert template: %w", err)
	}
	return nil
}

// Update never touches is_default; SetDefault owns that column.
func (r *TemplateRepository) Update(ctx context.Context, t *entity.Template) error {
	query := `
		UPDATE templates
		SET name = $3, description = $4, category = $5, system_prompt = $6,
			user_prompt_template = $7, is_active = $8, updated_at = $9
		WHERE tenant_id = $1 AND id = $2
	`
	res, err := r.DB.ExecContext(ctx, query,
		t.TenantID, t.ID, t.Name,
		nullString(t.Description),
		nullString(t.Category),
		nullString(t.SystemPrompt),
		nullString(t.UserPromptTemplate),
		t.IsActive,
		t.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update template: %w", err)
	}
	return requireAffected(res)
}

func (r *TemplateRepository) Delete(ctx context.Context, tenantID, id string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM templates WHERE tenant_id = $1 AND id = $2`, tenantID, id)
	if err != nil {
		return fmt.Errorf("delete template: %w", err)
	}
	return requireAffected(res)
}

func (r *TemplateRepository) FindByID(ctx context.Context, tenantID, id string) (*entity.Template, error) {
	row := r.DB.QueryRowContext(ctx,
		`SELECT `+templateColumns+` FROM templates WHERE tenant_id = $1 AND id = $2`, tenantID, id)
	return templateOrNotFound(row)
}

func (r *TemplateRepository) FindDefault(ctx context.Context, tenantID string) (*entity.Template, error) {
	row := r.DB.QueryRowContext(ctx,
		`SELECT `+templateColumns+` FROM templates
		 WHERE tenant_id = $1 AND is_default AND is_active
		 ORDER BY updated_at DESC LIMIT 1`, tenantID)
	return templateOrNotFound(row)
}

func (r *TemplateRepository) List(ctx context.Context, tenantID, category string, activeOnly bool) ([]*entity.Template, error) {
	var (
		sb   strings.Builder
		args = []any{tenantID}
	)
	sb.WriteString(`SELECT ` + templateColumns + ` FROM templates WHERE tenant_id = $1`)
	if category != "" {
		args = append(args, category)
		fmt.Fprintf(&sb, " AND category = $%d", len(args))
	}
	if activeOnly {
		sb.WriteString(" AND is_active")
	}
	sb.WriteString(" ORDER BY is_default DESC, name")

	rows, err := r.DB.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("list templates: %w", err)
	}
	defer rows.Close()

	out := []*entity.Template{}
	for rows.Next() {
		t, err := scanTemplate(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// SetDefault unsets every other default of the tenant in the same
// transaction, so a tenant never has two defaults.
func (r *TemplateRepository) SetDefault(ctx context.Context, tenantID, id string) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`UPDATE templates SET is_default = FALSE, updated_at = NOW() WHERE tenant_id = $1 AND is_default AND id <> $2`,
		tenantID, id); err != nil {
		return fmt.Errorf("unset defaults: %w", err)
	}

	res, err := tx.ExecContext(ctx,
		`UPDATE templates SET is_default = TRUE, updated_at = NOW() WHERE tenant_id = $1 AND id = $2`,
		tenantID, id)
	if err != nil {
		return fmt.Errorf("set default: %w", err)
	}
	if err := requireAffected(res); err != nil {
		return err
	}

	return tx.Commit()
}

func scanTemplate(s scanner) (*entity.Template, error) {
	var t entity.Template
	err := s.Scan(&t.ID, &t.TenantID, &t.Name, &t.Description, &t.Category,
		&t.SystemPrompt, &t.UserPromptTemplate, &t.IsDefault, &t.IsActive,
		&t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func templateOrNotFound(row *sql.Row) (*entity.Template, error) {
	t, err := scanTemplate(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, entity.ErrTemplateNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find template: %w", err)
	}
	return t, nil
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return entity.ErrTemplateNotFound
	}
	return nil
}
