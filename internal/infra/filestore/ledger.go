package filestore

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/outreachd/outreach/internal/entity"
)

var ledgerHeader = []string{"Timestamp", "Email", "Company", "Status", "Subject", "Error"}

// timestampLayouts covers RFC 3339 and naive ISO timestamps without a zone.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05",
}

var utf8BOM = []byte("\ufeff")

// CSVLedger is an append-only ledger file shared by every run on this host.
// The tenant argument is ignored; a file holds one sender's history.
type CSVLedger struct {
	Path   string
	Logger *slog.Logger

	mu sync.Mutex
}

func NewCSVLedger(path string, logger *slog.Logger) *CSVLedger {
	if logger == nil {
		logger = slog.Default()
	}
	return &CSVLedger{Path: path, Logger: logger}
}

// History returns the entries in file order. A missing file is an empty
// history; malformed rows are skipped.
func (l *CSVLedger) History(ctx context.Context, tenantID string) ([]entity.LedgerEntry, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	data, err := os.ReadFile(l.Path)
	if errors.Is(err, os.ErrNotExist) {
		return []entity.LedgerEntry{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read ledger %s: %w", l.Path, err)
	}

	r := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(data, utf8BOM)))
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if errors.Is(err, io.EOF) {
		return []entity.LedgerEntry{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read ledger header: %w", err)
	}
	cols := columnIndex(header)

	entries := []entity.LedgerEntry{}
	for line := 2; ; line++ {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			l.Logger.Warn("[LEDGER] skipping malformed row", "line", line, "error", err)
			continue
		}
		entry := entity.LedgerEntry{
			TenantID: tenantID,
			Email:    field(rec, cols, "email"),
			Company:  field(rec, cols, "company"),
			Status:   strings.ToUpper(field(rec, cols, "status")),
			Subject:  field(rec, cols, "subject"),
			Error:    field(rec, cols, "error"),
		}
		if entry.Email == "" && entry.Status == "" {
			continue
		}
		entry.Timestamp = parseTimestamp(field(rec, cols, "timestamp"))
		entries = append(entries, entry)
	}
	return entries, nil
}

// Append writes one row, adding the header when the file is new.
func (l *CSVLedger) Append(ctx context.Context, e entity.LedgerEntry) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	info, statErr := os.Stat(l.Path)
	isNew := errors.Is(statErr, os.ErrNotExist) || (statErr == nil && info.Size() == 0)

	f, err := os.OpenFile(l.Path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open ledger %s: %w", l.Path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if isNew {
		if err := w.Write(ledgerHeader); err != nil {
			return fmt.Errorf("write ledger header: %w", err)
		}
	}

	ts := e.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}
	if err := w.Write([]string{ts.Format(time.RFC3339), e.Email, e.Company, e.Status, e.Subject, e.Error}); err != nil {
		return fmt.Errorf("write ledger row: %w", err)
	}
	w.Flush()
	return w.Error()
}

func columnIndex(header []string) map[string]int {
	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.ToLower(strings.TrimSpace(h))] = i
	}
	return cols
}

func field(rec []string, cols map[string]int, name string) string {
	i, ok := cols[name]
	if !ok || i >= len(rec) {
		return ""
	}
	return strings.TrimSpace(rec[i])
}

func parseTimestamp(s string) time.Time {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
