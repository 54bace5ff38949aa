package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/outreachd/outreach/internal/entity"
	"github.com/outreachd/outreach/internal/infra/filestore"
	"github.com/outreachd/outreach/internal/usecase"
)

// maxImportBytes bounds a CSV upload.
const maxImportBytes = 8 << 20

type ContactCreator interface {
	Execute(ctx context.Context, tenantID string, input usecase.CreateContactInput) (*entity.Contact, error)
}

type ContactUpdater interface {
	Execute(ctx context.Context, tenantID, id string, input usecase.UpdateContactInput) (*entity.Contact, error)
}

type ContactDeleter interface {
	Execute(ctx context.Context, tenantID, id string) error
}

type ContactQuerier interface {
	List(ctx context.Context, tenantID string, filter entity.ContactFilter) ([]*entity.Contact, error)
	All(ctx context.Context, tenantID string) ([]*entity.Contact, error)
	Stats(ctx context.Context, tenantID string) (entity.ContactStats, error)
}

type CSVImporter interface {
	Execute(ctx context.Context, tenantID string, contacts []*entity.Contact) (*usecase.ImportReport, error)
}

// ContactUseCases are the operations behind /api/contacts.
type ContactUseCases struct {
	Create  ContactCreator
	Update  ContactUpdater
	Delete  ContactDeleter
	Import  CSVImporter
	Queries ContactQuerier
}

type ContactHandler struct {
	ContactUseCases
	Logger *slog.Logger
}

// ImportCSVRequest is the JSON form of a CSV upload.
type ImportCSVRequest struct {
	CSV string `json:"csv"`
}

func NewContactHandler(uc ContactUseCases, logger *slog.Logger) *ContactHandler {
	return &ContactHandler{ContactUseCases: uc, Logger: loggerOrDefault(logger)}
}

func (h *ContactHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var input usecase.CreateContactInput
	if !decodeJSON(w, r, &input) {
		return
	}

	contact, err := h.Create.Execute(r.Context(), tenantID(r), input)
	if err != nil {
		writeUseCaseError(w, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, contact)
}

// HandleList supports ?status=, ?company=, ?search=, ?skip= and ?limit=.
func (h *ContactHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	skip, _ := strconv.Atoi(q.Get("skip"))
	limit, _ := strconv.Atoi(q.Get("limit"))
	filter := entity.ContactFilter{
		Status:  strings.TrimSpace(q.Get("status")),
		Company: strings.TrimSpace(q.Get("company")),
		Search:  strings.TrimSpace(q.Get("search")),
		Skip:    skip,
		Limit:   limit,
	}

	contacts, err := h.Queries.List(r.Context(), tenantID(r), filter)
	if err != nil {
		writeUseCaseError(w, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, contacts)
}

func (h *ContactHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var input usecase.UpdateContactInput
	if !decodeJSON(w, r, &input) {
		return
	}

	contact, err := h.Update.Execute(r.Context(), tenantID(r), chi.URLParam(r, "id"), input)
	if err != nil {
		writeUseCaseError(w, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, contact)
}

func (h *ContactHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.Delete.Execute(r.Context(), tenantID(r), chi.URLParam(r, "id")); err != nil {
		writeUseCaseError(w, h.Logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *ContactHandler) HandleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Queries.Stats(r.Context(), tenantID(r))
	if err != nil {
		writeUseCaseError(w, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// HandleExport streams the pool as CSV in the layout HandleImport reads.
func (h *ContactHandler) HandleExport(w http.ResponseWriter, r *http.Request) {
	contacts, err := h.Queries.All(r.Context(), tenantID(r))
	if err != nil {
		writeUseCaseError(w, h.Logger, err)
		return
	}

	var buf bytes.Buffer
	if err := filestore.WriteContacts(&buf, contacts); err != nil {
		h.Logger.Error("❌ [API] export contacts failed", "error", err)
		writeErrorResponse(w, http.StatusInternalServerError, "EXPORT_ERROR", "could not export contacts")
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", "attachment; filename=contacts.csv")
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

// HandleImport takes a text/csv body, or JSON {"csv": "..."}. Rows that do
// not parse are reported alongside the import totals.
func (h *ContactHandler) HandleImport(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxImportBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeErrorResponse(w, http.StatusRequestEntityTooLarge, "PAYLOAD_TOO_LARGE", "CSV upload is too large")
			return
		}
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_BODY", "could not read body")
		return
	}

	if mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type")); mediaType == "application/json" {
		var req ImportCSVRequest
		if err := json.Unmarshal(body, &req); err != nil {
			writeErrorResponse(w, http.StatusBadRequest, "INVALID_JSON", "invalid JSON body")
			return
		}
		body = []byte(req.CSV)
	}
	if len(bytes.TrimSpace(body)) == 0 {
		writeErrorResponse(w, http.StatusBadRequest, "VALIDATION_ERROR", "CSV content is required")
		return
	}

	tenant := tenantID(r)
	contacts, rowErrors, err := filestore.ReadContacts(bytes.NewReader(body), tenant)
	if err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_CSV", err.Error())
		return
	}

	report, err := h.Import.Execute(r.Context(), tenant, contacts)
	if err != nil {
		writeUseCaseError(w, h.Logger, err)
		return
	}
	report.Skipped += len(rowErrors)
	report.Errors = append(rowErrors, report.Errors...)
	writeJSON(w, http.StatusOK, report)
}
