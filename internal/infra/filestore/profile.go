package filestore

import (
	"context"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/outreachd/outreach/internal/entity"
)

// LoadProfile parses a YAML sender profile. A missing file yields nil.
func LoadProfile(path string) (*entity.SenderProfile, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read profile %s: %w", path, err)
	}

	var p entity.SenderProfile
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parse profile %s: %w", path, err)
	}
	return &p, nil
}

// ProfileFile serves the same YAML profile to every tenant.
type ProfileFile struct {
	Path string
}

func NewProfileFile(path string) *ProfileFile {
	return &ProfileFile{Path: path}
}

func (p *ProfileFile) FindProfile(ctx context.Context, tenantID string) (*entity.SenderProfile, error) {
	return LoadProfile(p.Path)
}
