package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/outreachd/outreach/internal/entity"
	"github.com/outreachd/outreach/internal/infra/integration/hunter"
	"github.com/outreachd/outreach/internal/usecase"
)

type Enricher interface {
	IsConfigured() bool
	ProviderNames() []string
	Search(ctx context.Context, criteria usecase.SearchCriteria) (*usecase.SearchReport, error)
	Enrich(ctx context.Context, email string) (*entity.EnrichedContact, error)
	FindEmail(ctx context.Context, firstName, lastName, domain string) (string, error)
}

type ContactImporter interface {
	Execute(ctx context.Context, tenantID string, records []entity.EnrichedContact) (*usecase.ImportReport, error)
}

type AccountFetcher interface {
	Account(ctx context.Context) (*hunter.AccountInfo, error)
}

type FindEmailRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Domain    string `json:"domain"`
}

type ProvidersResponse struct {
	Configured bool                `json:"configured"`
	Providers  []string            `json:"providers"`
	Hunter     *hunter.AccountInfo `json:"hunter,omitempty"`
}

type EnrichmentHandler struct {
	Chain    Enricher
	Importer ContactImporter
	Hunter   AccountFetcher
	Logger   *slog.Logger
}

func NewEnrichmentHandler(chain Enricher, importer ContactImporter, hunterAccount AccountFetcher, logger *slog.Logger) *EnrichmentHandler {
	return &EnrichmentHandler{Chain: chain, Importer: importer, Hunter: hunterAccount, Logger: loggerOrDefault(logger)}
}

func (h *EnrichmentHandler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	var criteria usecase.SearchCriteria
	if !decodeJSON(w, r, &criteria) {
		return
	}
	if strings.TrimSpace(criteria.Company) == "" && strings.TrimSpace(criteria.JobTitle) == "" {
		writeErrorResponse(w, http.StatusBadRequest, "MISSING_FIELDS", "company or job_title is required")
		return
	}

	report, err := h.Chain.Search(r.Context(), criteria)
	if err != nil {
		writeUseCaseError(w, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (h *EnrichmentHandler) HandleFindEmail(w http.ResponseWriter, r *http.Request) {
	var req FindEmailRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.FirstName == "" || req.LastName == "" || req.Domain == "" {
		writeErrorResponse(w, http.StatusBadRequest, "MISSING_FIELDS", "first_name, last_name and domain are required")
		return
	}

	email, err := h.Chain.FindEmail(r.Context(), req.FirstName, req.LastName, req.Domain)
	if err != nil {
		writeUseCaseError(w, h.Logger, err)
		return
	}
	if email == "" {
		writeErrorResponse(w, http.StatusNotFound, "EMAIL_NOT_FOUND", "no provider found an email")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"email": email})
}

func (h *EnrichmentHandler) HandleEnrich(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if !usecase.IsValidEmail(req.Email) {
		writeErrorResponse(w, http.StatusBadRequest, "VALIDATION_ERROR", "a valid email is required")
		return
	}

	found, err := h.Chain.Enrich(r.Context(), req.Email)
	if err != nil {
		writeUseCaseError(w, h.Logger, err)
		return
	}
	if found == nil {
		writeErrorResponse(w, http.StatusNotFound, "CONTACT_NOT_FOUND", "no provider knows this email")
		return
	}
	writeJSON(w, http.StatusOK, found)
}

func (h *EnrichmentHandler) HandleImport(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Contacts []entity.EnrichedContact `json:"contacts"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	report, err := h.Importer.Execute(r.Context(), tenantID(r), req.Contacts)
	if err != nil {
		writeUseCaseError(w, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// HandleProviders lists the configured providers in priority order, plus the
// Hunter account usage when Hunter is wired.
func (h *EnrichmentHandler) HandleProviders(w http.ResponseWriter, r *http.Request) {
	resp := ProvidersResponse{
		Configured: h.Chain.IsConfigured(),
		Providers:  h.Chain.ProviderNames(),
	}
	if h.Hunter != nil {
		account, err := h.Hunter.Account(r.Context())
		if err != nil {
			h.Logger.Warn("⚠️ [API] hunter account lookup failed", "error", err)
		} else {
			resp.Hunter = account
		}
	}
	writeJSON(w, http.StatusOK, resp)
}
