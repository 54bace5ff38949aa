package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/outreachd/outreach/internal/entity"
)

type ProfileRepository struct {
	DB *sql.DB
}

func NewProfileRepository(db *sql.DB) *ProfileRepository {
	return &ProfileRepository{DB: db}
}

// FindProfile returns nil without error when the tenant never saved a profile.
func (r *ProfileRepository) FindProfile(ctx context.Context, tenantID string) (*entity.SenderProfile, error) {
	query := `
		SELECT COALESCE(full_name, ''), COALESCE(email, ''), COALESCE(phone, ''), COALESCE(title, ''),
			COALESCE(organization, ''), COALESCE(department, ''), COALESCE(major, ''),
			COALESCE(graduation_year, ''), COALESCE(pitch, ''), COALESCE(target_goal, ''),
			COALESCE(skills, ''), COALESCE(experience, ''), COALESCE(signature_template, '')
		FROM sender_profiles WHERE tenant_id = $1
	`
	var p entity.SenderProfile
	err := r.DB.QueryRowContext(ctx, query, tenantID).Scan(
		&p.FullName, &p.Email, &p.Phone, &p.Title,
		&p.Organization, &p.Department, &p.Major,
		&p.GraduationYear, &p.Pitch, &p.TargetGoal,
		&p.Skills, &p.Experience, &p.SignatureTemplate,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find sender profile: %w", err)
	}
	return &p, nil
}

func (r *ProfileRepository) SaveProfile(ctx context.Context, tenantID string, p *entity.SenderProfile) error {
	query := `
		INSERT INTO sender_profiles (tenant_id, full_name, email, phone, title, organization, department,
			major, graduation_year, pitch, target_goal, skills, experience, signature_template, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, NOW())
		ON CONFLICT (tenant_id)
		DO UPDATE SET
			full_name = EXCLUDED.full_name,
			email = EXCLUDED.email,
			phone = EXCLUDED.phone,
			title = EXCLUDED.title,
			organization = EXCLUDED.organization,
			department = EXCLUDED.department,
			major = EXCLUDED.major,
			graduation_year = EXCLUDED.graduation_year,
			pitch = EXCLUDED.pitch,
			target_goal = EXCLUDED.target_goal,
			skills = EXCLUDED.skills,
			experience = EXCLUDED.experience,
			signature_template = EXCLUDED.signature_template,
			updated_at = NOW()
	`
	_, err := r.DB.ExecContext(ctx, query, tenantID,
		nullString(p.FullName), nullString(p.Email), nullString(p.Phone), nullString(p.Title),
		nullString(p.Organization), nullString(p.Department), nullString(p.Major),
		nullString(p.GraduationYear), nullString(p.Pitch), nullString(p.TargetGoal),
		nullString(p.Skills), nullString(p.Experience), nullString(p.SignatureTemplate),
	)
	if err != nil {
		return fmt.Errorf("save sender profile: %w", err)
	}
	return nil
}
