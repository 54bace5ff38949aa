package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/outreachd/outreach/internal/entity"
	"github.com/outreachd/outreach/internal/usecase"
)

type ProfileStore interface {
	FindProfile(ctx context.Context, tenantID string) (*entity.SenderProfile, error)
	SaveProfile(ctx context.Context, tenantID string, p *entity.SenderProfile) error
}

type ProfileHandler struct {
	Profiles ProfileStore
	Logger   *slog.Logger
}

func NewProfileHandler(profiles ProfileStore, logger *slog.Logger) *ProfileHandler {
	return &ProfileHandler{Profiles: profiles, Logger: loggerOrDefault(logger)}
}

func (h *ProfileHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	p, err := h.Profiles.FindProfile(r.Context(), tenantID(r))
	if err != nil {
		h.Logger.Error("❌ [API] load profile failed", "error", err)
		writeErrorResponse(w, http.StatusInternalServerError, "DATABASE_ERROR", "could not load profile")
		return
	}
	if p == nil {
		writeErrorResponse(w, http.StatusNotFound, "PROFILE_NOT_FOUND", "no sender profile saved")
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// HandlePut replaces the profile. Name and a valid email are required since
// a profile without them cannot send.
func (h *ProfileHandler) HandlePut(w http.ResponseWriter, r *http.Request) {
	var p entity.SenderProfile
	if !decodeJSON(w, r, &p) {
		return
	}
	if err := p.Validate(); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}
	if !usecase.IsValidEmail(p.Email) {
		writeErrorResponse(w, http.StatusBadRequest, "VALIDATION_ERROR", "sender email is invalid")
		return
	}

	if err := h.Profiles.SaveProfile(r.Context(), tenantID(r), &p); err != nil {
		h.Logger.Error("❌ [API] save profile failed", "error", err)
		writeErrorResponse(w, http.StatusInternalServerError, "DATABASE_ERROR", "could not save profile")
		return
	}
	writeJSON(w, http.StatusOK, p)
}
