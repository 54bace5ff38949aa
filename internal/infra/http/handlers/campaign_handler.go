package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/outreachd/outreach/internal/infra/queue"
	"github.com/outreachd/outreach/internal/usecase"
)

type CampaignRunner interface {
	Execute(ctx context.Context, input usecase.RunCampaignInput) (*usecase.RunReport, error)
}

type CampaignRequest struct {
	Limit      int    `json:"limit"`
	Email      string `json:"email,omitempty"`
	TemplateID string `json:"template_id,omitempty"`
}

type QueuedRunResponse struct {
	RunID   string `json:"run_id"`
	Status  string `json:"status"`
	Message string `json:"message"`
}

type CampaignHandler struct {
	Runner    CampaignRunner
	Publisher queue.CampaignRunPublisher
	Logger    *slog.Logger
}

func NewCampaignHandler(runner CampaignRunner, publisher queue.CampaignRunPublisher, logger *slog.Logger) *CampaignHandler {
	return &CampaignHandler{Runner: runner, Publisher: publisher, Logger: loggerOrDefault(logger)}
}

// DryRun generates drafts synchronously and returns the run report.
func (h *CampaignHandler) DryRun(w http.ResponseWriter, r *http.Request) {
	var req CampaignRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	input := usecase.RunCampaignInput{
		TenantID:    tenantID(r),
		Mode:        usecase.ModeDraft,
		Limit:       req.Limit,
		EmailFilter: req.Email,
		TemplateID:  req.TemplateID,
	}
	if errs := usecase.ValidateRunCampaignInput(input); len(errs) > 0 {
		writeErrorResponse(w, http.StatusBadRequest, "VALIDATION_ERROR", errs[0].Error())
		return
	}

	report, err := h.Runner.Execute(r.Context(), input)
	if err != nil {
		writeUseCaseError(w, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// Send queues a send-mode run. Sends are paced over minutes, so the request
// returns as soon as the run is accepted.
func (h *CampaignHandler) Send(w http.ResponseWriter, r *http.Request) {
	if h.Publisher == nil {
		writeErrorResponse(w, http.StatusServiceUnavailable, "QUEUE_UNAVAILABLE", "send runs need a message queue")
		return
	}

	var req CampaignRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	input := usecase.RunCampaignInput{
		TenantID:    tenantID(r),
		Mode:        usecase.ModeSend,
		Limit:       req.Limit,
		EmailFilter: req.Email,
		TemplateID:  req.TemplateID,
	}
	if errs := usecase.ValidateRunCampaignInput(input); len(errs) > 0 {
		writeErrorResponse(w, http.StatusBadRequest, "VALIDATION_ERROR", errs[0].Error())
		return
	}

	runID, err := h.Publisher.PublishCampaignRun(r.Context(), queue.CampaignRunMessage{
		TenantID:    input.TenantID,
		Limit:       input.Limit,
		EmailFilter: input.EmailFilter,
		TemplateID:  input.TemplateID,
	})
	if err != nil {
		h.Logger.Error("❌ [API] could not queue campaign run", "tenant_id", input.TenantID, "error", err)
		writeErrorResponse(w, http.StatusServiceUnavailable, "QUEUE_UNAVAILABLE", "could not queue the run")
		return
	}

	h.Logger.Info("📤 [API] campaign run queued", "tenant_id", input.TenantID, "run_id", runID)
	writeJSON(w, http.StatusAccepted, QueuedRunResponse{
		RunID:   runID,
		Status:  "queued",
		Message: "run accepted; results are recorded in the ledger",
	})
}
