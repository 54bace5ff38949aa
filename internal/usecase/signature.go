package usecase

import (
	"strings"

	"github.com/outreachd/outreach/internal/entity"
)

// BuildSignature renders the sign-off appended to every body. A custom
// signature template replaces the generated block.
func BuildSignature(p *entity.SenderProfile) string {
	if p == nil {
		return "Best,"
	}
	if custom := strings.TrimSpace(p.SignatureTemplate); custom != "" {
		return custom
	}

	lines := []string{"Best,"}
	email := strings.TrimSpace(p.Email)
	if name := strings.TrimSpace(p.FullName); name != "" {
		lines = append(lines, name)
	} else if email != "" {
		lines = append(lines, email)
		email = ""
	}

	if title := strings.TrimSpace(p.Title); title != "" {
		lines = append(lines, title)
	}

	if org := joinNonEmpty(" | ", p.Organization, p.Department); org != "" {
		lines = append(lines, org)
	}

	if major := strings.TrimSpace(p.Major); major != "" {
		degree := "B.S. " + major
		if year := strings.TrimSpace(p.GraduationYear); year != "" {
			degree += ", Class of " + year
		}
		lines = append(lines, degree)
	}

	if contact := joinNonEmpty(" | ", email, p.Phone); contact != "" {
		lines = append(lines, contact)
	}

	return strings.Join(lines, "\n")
}

func joinNonEmpty(sep string, parts ...string) string {
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		if v := strings.TrimSpace(p); v != "" {
			kept = append(kept, v)
		}
	}
	return strings.Join(kept, sep)
}
