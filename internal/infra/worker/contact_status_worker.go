package worker

import (
	"context"
	"log/slog"
	"time"

	"github.com/outreachd/outreach/internal/usecase"
)

const DefaultSyncInterval = time.Minute

// ContactStatusWorker keeps contact statuses in line with the ledger: a
// pending contact with a SENT entry is marked sent.
type ContactStatusWorker struct {
	syncer       usecase.ContactStatusSyncer
	tickInterval time.Duration
	logger       *slog.Logger
}

func NewContactStatusWorker(syncer usecase.ContactStatusSyncer, interval time.Duration, logger *slog.Logger) *ContactStatusWorker {
	if interval <= 0 {
		interval = DefaultSyncInterval
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ContactStatusWorker{
		syncer:       syncer,
		tickInterval: interval,
		logger:       logger,
	}
}

func (w *ContactStatusWorker) Start(ctx context.Context) {
	w.logger.Info("🕒 [STATUS-SYNC] worker started", "interval", w.tickInterval)

	ticker := time.NewTicker(w.tickInterval)
	defer ticker.Stop()

	w.sync(ctx)

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("⚠️ [STATUS-SYNC] worker stopped")
			return
		case <-ticker.C:
			w.sync(ctx)
		}
	}
}

func (w *ContactStatusWorker) sync(ctx context.Context) int {
	updated, err := w.syncer.SyncSentStatuses(ctx)
	if err != nil {
		w.logger.Error("❌ [STATUS-SYNC] sync failed", "error", err)
		return 0
	}
	if updated > 0 {
		w.logger.Info("✅ [STATUS-SYNC] contacts marked sent", "count", updated)
	}
	return updated
}
