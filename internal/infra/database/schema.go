package database

import (
	"context"
	"database/sql"
	"fmt"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS contacts (
		id           UUID PRIMARY KEY,
		tenant_id    TEXT NOT NULL,
		first_name   TEXT NOT NULL,
		last_name    TEXT,
		email        TEXT,
		company      TEXT,
		job_title    TEXT,
		city         TEXT,
		state        TEXT,
		country      TEXT,
		phone        TEXT,
		linkedin_url TEXT,
		notes        TEXT,
		status       TEXT NOT NULL DEFAULT 'pending',
		created_at   TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at   TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS contacts_tenant_email_idx
		ON contacts (tenant_id, LOWER(email)) WHERE email IS NOT NULL`,
	`CREATE TABLE IF NOT EXISTS ledger_entries (
		seq        BIGSERIAL PRIMARY KEY,
		id         UUID NOT NULL UNIQUE,
		tenant_id  TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL,
		email      TEXT NOT NULL,
		company    TEXT,
		status     TEXT NOT NULL,
		subject    TEXT,
		error      TEXT
	)`,
	`CREATE INDEX IF NOT EXISTS ledger_entries_tenant_idx ON ledger_entries (tenant_id, seq)`,
	`CREATE TABLE IF NOT EXISTS drafts (
		tenant_id  TEXT NOT NULL,
		key        TEXT NOT NULL,
		email      TEXT NOT NULL,
		subject    TEXT NOT NULL,
		body       TEXT NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		PRIMARY KEY (tenant_id, key)
	)`,
	`CREATE TABLE IF NOT EXISTS templates (
		id                   UUID PRIMARY KEY,
		tenant_id            TEXT NOT NULL,
		name                 TEXT NOT NULL,
		description          TEXT,
		category             TEXT,
		system_prompt        TEXT,
		user_prompt_template TEXT,
		is_default           BOOLEAN NOT NULL DEFAULT FALSE,
		is_active            BOOLEAN NOT NULL DEFAULT TRUE,
		created_at           TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at           TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS sender_profiles (
		tenant_id          TEXT PRIMARY KEY,
		full_name          TEXT,
		email              TEXT,
		phone              TEXT,
		title              TEXT,
		organization       TEXT,
		department         TEXT,
		major              TEXT,
		graduation_year    TEXT,
		pitch              TEXT,
		target_goal        TEXT,
		skills             TEXT,
		experience         TEXT,
		signature_template TEXT,
		updated_at         TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
}

// Migrate creates every table the API needs. It is safe to run on each boot.
func Migrate(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}
