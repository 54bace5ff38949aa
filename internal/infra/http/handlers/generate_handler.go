package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/outreachd/outreach/internal/usecase"
)

type EmailGenerator interface {
	Execute(ctx context.Context, tenantID string, input usecase.GenerateEmailInput) (*usecase.GenerateEmailOutput, error)
}

type GenerateHandler struct {
	Generator EmailGenerator
	Logger    *slog.Logger
}

func NewGenerateHandler(generator EmailGenerator, logger *slog.Logger) *GenerateHandler {
	return &GenerateHandler{Generator: generator, Logger: loggerOrDefault(logger)}
}

func (h *GenerateHandler) Handle(w http.ResponseWriter, r *http.Request) {
	var input usecase.GenerateEmailInput
	if !decodeJSON(w, r, &input) {
		return
	}
	if input.ContactID == "" && input.Email == "" {
		writeErrorResponse(w, http.StatusBadRequest, "MISSING_FIELDS", "contact_id or email is required")
		return
	}

	out, err := h.Generator.Execute(r.Context(), tenantID(r), input)
	if err != nil {
		writeUseCaseError(w, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}
