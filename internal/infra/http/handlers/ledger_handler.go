package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/outreachd/outreach/internal/entity"
)

type LedgerQuerier interface {
	Recent(ctx context.Context, tenantID string, skip, limit int) ([]entity.LedgerEntry, error)
	Stats(ctx context.Context, tenantID string) (entity.LedgerStats, error)
}

type LedgerHandler struct {
	Ledger LedgerQuerier
	Logger *slog.Logger
}

func NewLedgerHandler(ledger LedgerQuerier, logger *slog.Logger) *LedgerHandler {
	return &LedgerHandler{Ledger: ledger, Logger: loggerOrDefault(logger)}
}

// HandleLogs returns ledger entries newest first. Supports ?skip= and ?limit=.
func (h *LedgerHandler) HandleLogs(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	skip, _ := strconv.Atoi(q.Get("skip"))
	limit, _ := strconv.Atoi(q.Get("limit"))

	entries, err := h.Ledger.Recent(r.Context(), tenantID(r), skip, limit)
	if err != nil {
		writeUseCaseError(w, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

func (h *LedgerHandler) HandleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Ledger.Stats(r.Context(), tenantID(r))
	if err != nil {
		writeUseCaseError(w, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
