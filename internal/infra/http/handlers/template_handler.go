package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/outreachd/outreach/internal/entity"
	"github.com/outreachd/outreach/internal/usecase"
)

type TemplateManager interface {
	List(ctx context.Context, tenantID, category string, activeOnly bool) ([]*entity.Template, error)
	Get(ctx context.Context, tenantID, id string) (*entity.Template, error)
	Create(ctx context.Context, tenantID string, input usecase.TemplateInput) (*entity.Template, error)
	Update(ctx context.Context, tenantID, id string, input usecase.TemplateInput) (*entity.Template, error)
	Delete(ctx context.Context, tenantID, id string) error
	Duplicate(ctx context.Context, tenantID, id, newName string) (*entity.Template, error)
	CreateDefaults(ctx context.Context, tenantID string) ([]*entity.Template, error)
	SetDefault(ctx context.Context, tenantID, id string) error
}

type TemplateHandler struct {
	Templates TemplateManager
	Logger    *slog.Logger
}

func NewTemplateHandler(templates TemplateManager, logger *slog.Logger) *TemplateHandler {
	return &TemplateHandler{Templates: templates, Logger: loggerOrDefault(logger)}
}

// HandleList supports ?category= and ?active=false to include inactive ones.
func (h *TemplateHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	activeOnly := q.Get("active") != "false"

	templates, err := h.Templates.List(r.Context(), tenantID(r), q.Get("category"), activeOnly)
	if err != nil {
		writeUseCaseError(w, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, templates)
}

func (h *TemplateHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	t, err := h.Templates.Get(r.Context(), tenantID(r), chi.URLParam(r, "id"))
	if err != nil {
		writeUseCaseError(w, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (h *TemplateHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var input usecase.TemplateInput
	if !decodeJSON(w, r, &input) {
		return
	}
	t, err := h.Templates.Create(r.Context(), tenantID(r), input)
	if err != nil {
		writeUseCaseError(w, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, t)
}

func (h *TemplateHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var input usecase.TemplateInput
	if !decodeJSON(w, r, &input) {
		return
	}
	t, err := h.Templates.Update(r.Context(), tenantID(r), chi.URLParam(r, "id"), input)
	if err != nil {
		writeUseCaseError(w, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (h *TemplateHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.Templates.Delete(r.Context(), tenantID(r), chi.URLParam(r, "id")); err != nil {
		writeUseCaseError(w, h.Logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *TemplateHandler) HandleDuplicate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	t, err := h.Templates.Duplicate(r.Context(), tenantID(r), chi.URLParam(r, "id"), req.Name)
	if err != nil {
		writeUseCaseError(w, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, t)
}

func (h *TemplateHandler) HandleSetDefault(w http.ResponseWriter, r *http.Request) {
	if err := h.Templates.SetDefault(r.Context(), tenantID(r), chi.URLParam(r, "id")); err != nil {
		writeUseCaseError(w, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *TemplateHandler) HandleCreateDefaults(w http.ResponseWriter, r *http.Request) {
	created, err := h.Templates.CreateDefaults(r.Context(), tenantID(r))
	if err != nil {
		writeUseCaseError(w, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}
