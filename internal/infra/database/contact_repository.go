package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/outreachd/outreach/internal/entity"
)

const contactColumns = `id, tenant_id, first_name, COALESCE(last_name, ''), COALESCE(email, ''),
	COALESCE(company, ''), COALESCE(job_title, ''), COALESCE(city, ''), COALESCE(state, ''),
	COALESCE(country, ''), COALESCE(phone, ''), COALESCE(linkedin_url, ''), COALESCE(notes, ''),
	status, created_at, updated_at`

type ContactRepository struct {
	DB *sql.DB
}

func NewContactRepository(db *sql.DB) *ContactRepository {
	return &ContactRepository{DB: db}
}

func (r *ContactRepository) Create(ctx context.Context, c *entity.Contact) error {
	query := `
		INSERT INTO contacts (id, tenant_id, first_name, last_name, email, company, job_title,
			city, state, country, phone, linkedin_url, notes, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	`

	_, err := r.DB.ExecContext(ctx, query,
		c.ID,
		c.TenantID,
		c.FirstName,
		nullString(c.LastName),
		nullString(c.Email),
		nullString(c.Company),
		nullString(c.JobTitle),
		nullString(c.City),
		nullString(c.State),
		nullString(c.Country),
		nullString(c.Phone),
		nullString(c.LinkedInURL),
		nullString(c.Notes),
		c.Status,
		c.CreatedAt,
		c.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return entity.ErrEmailAlreadyExists
		}
		slog.Error("[DB] insert contact failed", "error", err)
		return fmt.Errorf("insert contact: %w", err)
	}
	return nil
}

// ListByTenant returns the pool in insertion order.
func (r *ContactRepository) ListByTenant(ctx context.Context, tenantID string) ([]*entity.Contact, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT `+contactColumns+` FROM contacts WHERE tenant_id = $1 ORDER BY created_at, id`, tenantID)
	if err != nil {
		return nil, fmt.Errorf("list contacts: %w", err)
	}
	defer rows.Close()

	var out []*entity.Contact
	for rows.Next() {
		c, err := scanContact(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *ContactRepository) FindByEmail(ctx context.Context, tenantID, email string) (*entity.Contact, error) {
	row := r.DB.QueryRowContext(ctx,
		`SELECT `+contactColumns+` FROM contacts WHERE tenant_id = $1 AND LOWER(email) = $2`,
		tenantID, entity.NormalizeEmail(email))
	return contactOrNotFound(row)
}

func (r *ContactRepository) FindByID(ctx context.Context, tenantID, id string) (*entity.Contact, error) {
	row := r.DB.QueryRowContext(ctx,
		`SELECT `+contactColumns+` FROM contacts WHERE tenant_id = $1 AND id = $2`, tenantID, id)
	return contactOrNotFound(row)
}

// List filters in SQL, newest first.
func (r *ContactRepository) List(ctx context.Context, tenantID string, filter entity.ContactFilter) ([]*entity.Contact, error) {
	conds := []string{"tenant_id = $1"}
	args := []any{tenantID}
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.Status != "" {
		conds = append(conds, "status = "+arg(filter.Status))
	}
	if filter.Company != "" {
		conds = append(conds, "company ILIKE "+arg(likePattern(filter.Company)))
	}
	if filter.Search != "" {
		p := arg(likePattern(filter.Search))
		conds = append(conds, "(first_name ILIKE "+p+" OR last_name ILIKE "+p+" OR email ILIKE "+p+" OR company ILIKE "+p+")")
	}

	query := `SELECT ` + contactColumns + ` FROM contacts WHERE ` + strings.Join(conds, " AND ") +
		` ORDER BY created_at DESC, id DESC`
	if filter.Limit > 0 {
		query += " LIMIT " + arg(filter.Limit)
	}
	if filter.Skip > 0 {
		query += " OFFSET " + arg(filter.Skip)
	}

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list contacts: %w", err)
	}
	defer rows.Close()

	var out []*entity.Contact
	for rows.Next() {
		c, err := scanContact(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *ContactRepository) Update(ctx context.Context, c *entity.Contact) error {
	query := `
		UPDATE contacts
		SET
			first_name = $3,
			last_name = $4,
			email = $5,
			company = $6,
			job_title = $7,
			city = $8,
			state = $9,
			country = $10,
			phone = $11,
			linkedin_url = $12,
			notes = $13,
			status = $14,
			updated_at = $15
		WHERE tenant_id = $1 AND id = $2
	`

	res, err := r.DB.ExecContext(ctx, query,
		c.TenantID,
		c.ID,
		c.FirstName,
		nullString(c.LastName),
		nullString(c.Email),
		nullString(c.Company),
		nullString(c.JobTitle),
		nullString(c.City),
		nullString(c.State),
		nullString(c.Country),
		nullString(c.Phone),
		nullString(c.LinkedInURL),
		nullString(c.Notes),
		c.Status,
		c.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return entity.ErrEmailAlreadyExists
		}
		return fmt.Errorf("update contact: %w", err)
	}
	return contactAffected(res)
}

func (r *ContactRepository) Delete(ctx context.Context, tenantID, id string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM contacts WHERE tenant_id = $1 AND id = $2`, tenantID, id)
	if err != nil {
		return fmt.Errorf("delete contact: %w", err)
	}
	return contactAffected(res)
}

func contactAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return entity.ErrContactNotFound
	}
	return nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

// likePattern matches s as a literal substring.
func likePattern(s string) string {
	return "%" + likeEscaper.Replace(strings.TrimSpace(s)) + "%"
}

// SyncSentStatuses moves pending contacts to sent once the ledger holds a
// SENT entry for their email.
func (r *ContactRepository) SyncSentStatuses(ctx context.Context) (int, error) {
	query := `
		UPDATE contacts c
		SET
			status = $1,
			updated_at = NOW()
		WHERE
			c.status = $2
			AND c.email IS NOT NULL
			AND EXISTS (
				SELECT 1 FROM ledger_entries l
				WHERE l.tenant_id = c.tenant_id
					AND LOWER(l.email) = LOWER(c.email)
					AND l.status = $3
			)
		RETURNING c.id
	`

	rows, err := r.DB.QueryContext(ctx, query,
		entity.ContactStatusSent, entity.ContactStatusPending, entity.LedgerStatusSent)
	if err != nil {
		return 0, fmt.Errorf("sync contact statuses: %w", err)
	}
	defer rows.Close()

	updated := 0
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return updated, fmt.Errorf("scan synced contact: %w", err)
		}
		updated++
	}
	return updated, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanContact(s scanner) (*entity.Contact, error) {
	var c entity.Contact
	err := s.Scan(
		&c.ID, &c.TenantID, &c.FirstName, &c.LastName, &c.Email,
		&c.Company, &c.JobTitle, &c.City, &c.State,
		&c.Country, &c.Phone, &c.LinkedInURL, &c.Notes,
		&c.Status, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func contactOrNotFound(row *sql.Row) (*entity.Contact, error) {
	c, err := scanContact(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, entity.ErrContactNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find contact: %w", err)
	}
	return c, nil
}
