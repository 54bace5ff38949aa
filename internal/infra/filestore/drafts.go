package filestore

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/outreachd/outreach/internal/entity"
)

// DraftDir writes one <key>.txt per contact for manual review.
type DraftDir struct {
	Dir string
}

func NewDraftDir(dir string) *DraftDir {
	return &DraftDir{Dir: dir}
}

// SaveDraft refuses keys that are not a plain file name.
func (d *DraftDir) SaveDraft(ctx context.Context, draft entity.Draft) error {
	key := strings.TrimSpace(draft.Key)
	if key == "" || key == "." || key == ".." || strings.ContainsAny(key, `/\`) {
		return fmt.Errorf("invalid draft key %q", draft.Key)
	}
	if err := os.MkdirAll(d.Dir, 0o755); err != nil {
		return fmt.Errorf("create drafts dir: %w", err)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "TO: %s\n", draft.Email)
	fmt.Fprintf(&sb, "SUBJECT: %s\n", draft.Subject)
	sb.WriteString(strings.Repeat("-", 40) + "\n\n")
	sb.WriteString(draft.Body)

	path := filepath.Join(d.Dir, key+".txt")
	if err := os.WriteFile(path, []byte(sb.String()), 0o644); err != nil {
		return fmt.Errorf("write draft %s: %w", path, err)
	}
	return nil
}
