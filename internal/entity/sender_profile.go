package entity

import (
	"errors"
	"strings"
)

// SenderProfile describes the person a campaign is sent as. Every field is
// optional for generation; delivery needs FullName and Email.
type SenderProfile struct {
	FullName          string `json:"full_name" yaml:"full_name"`
	Email             string `json:"email" yaml:"email"`
	Phone             string `json:"phone,omitempty" yaml:"phone"`
	Title             string `json:"title,omitempty" yaml:"title"`
	Organization      string `json:"organization,omitempty" yaml:"organization"`
	Department        string `json:"department,omitempty" yaml:"department"`
	Major             string `json:"major,omitempty" yaml:"major"`
	GraduationYear    string `json:"graduation_year,omitempty" yaml:"graduation_year"`
	Pitch             string `json:"pitch,omitempty" yaml:"pitch"`
	TargetGoal        string `json:"target_goal,omitempty" yaml:"target_goal"`
	Skills            string `json:"skills,omitempty" yaml:"skills"`
	Experience        string `json:"experience,omitempty" yaml:"experience"`
	SignatureTemplate string `json:"signature_template,omitempty" yaml:"signature_template"`
}

func (p *SenderProfile) Validate() error {
	if p == nil {
		return errors.New("sender profile is missing")
	}
	if strings.TrimSpace(p.FullName) == "" {
		return errors.New("sender name is required")
	}
	if strings.TrimSpace(p.Email) == "" {
		return errors.New("sender email is required")
	}
	return nil
}
