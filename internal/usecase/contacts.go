package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/outreachd/outreach/internal/entity"
)

type CreateContactUseCase struct {
	Repo   ContactRepository
	Logger *slog.Logger
}

func NewCreateContactUseCase(repo ContactRepository, logger *slog.Logger) *CreateContactUseCase {
	return &CreateContactUseCase{Repo: repo, Logger: loggerOrDefault(logger)}
}

func (uc *CreateContactUseCase) Execute(ctx context.Context, tenantID string, input CreateContactInput) (*entity.Contact, error) {
	if errs := ValidateCreateContactInput(input); len(errs) > 0 {
		return nil, validationDomainError(errs)
	}

	if email := entity.NormalizeEmail(input.Email); email != "" {
		existing, err := uc.Repo.FindByEmail(ctx, tenantID, email)
		if err != nil && !errors.Is(err, entity.ErrContactNotFound) {
			return nil, &TechnicalError{Code: "DATABASE_ERROR", Message: "could not check existing contact", Err: err}
		}
		if existing != nil {
			return nil, &DomainError{Code: "EMAIL_ALREADY_EXISTS", Message: "a contact with this email already exists"}
		}
	}

	contact, err := entity.NewContact(tenantID, input.FirstName, input.LastName, input.Email, input.Company, input.JobTitle)
	if err != nil {
		return nil, &DomainError{Code: "INVALID_CONTACT", Message: err.Error()}
	}
	contact.City = strings.TrimSpace(input.City)
	contact.State = strings.TrimSpace(input.State)
	contact.Phone = strings.TrimSpace(input.Phone)
	contact.Notes = strings.TrimSpace(input.Notes)

	if err := uc.Repo.Create(ctx, contact); err != nil {
		if errors.Is(err, entity.ErrEmailAlreadyExists) {
			return nil, &DomainError{Code: "EMAIL_ALREADY_EXISTS", Message: "a contact with this email already exists"}
		}
		return nil, &TechnicalError{Code: "DATABASE_ERROR", Message: "could not save contact", Err: err}
	}

	uc.Logger.Info("[CONTACTS] contact created", "tenant_id", tenantID, "contact_id", contact.ID, "status", contact.Status)
	return contact, nil
}

// UpdateContactUseCase edits a contact, including the manual statuses
// replied and not-interested.
type UpdateContactUseCase struct {
	Repo   ContactRepository
	Logger *slog.Logger
}

func NewUpdateContactUseCase(repo ContactRepository, logger *slog.Logger) *UpdateContactUseCase {
	return &UpdateContactUseCase{Repo: repo, Logger: loggerOrDefault(logger)}
}

func (uc *UpdateContactUseCase) Execute(ctx context.Context, tenantID, id string, input UpdateContactInput) (*entity.Contact, error) {
	if errs := ValidateUpdateContactInput(input); len(errs) > 0 {
		return nil, validationDomainError(errs)
	}

	contact, err := uc.Repo.FindByID(ctx, tenantID, id)
	if errors.Is(err, entity.ErrContactNotFound) {
		return nil, errContactNotFound(id)
	}
	if err != nil {
		return nil, &TechnicalError{Code: "DATABASE_ERROR", Message: "could not load contact", Err: err}
	}

	if input.Email != nil {
		email := entity.NormalizeEmail(*input.Email)
		if email != "" && email != contact.NormalizedEmail() {
			existing, err := uc.Repo.FindByEmail(ctx, tenantID, email)
			if err != nil && !errors.Is(err, entity.ErrContactNotFound) {
				return nil, &TechnicalError{Code: "DATABASE_ERROR", Message: "could not check existing contact", Err: err}
			}
			if existing != nil && existing.ID != contact.ID {
				return nil, errEmailTaken()
			}
		}
		contact.Email = email
	}

	setTrimmed(&contact.FirstName, input.FirstName)
	setTrimmed(&contact.LastName, input.LastName)
	setTrimmed(&contact.Company, input.Company)
	setTrimmed(&contact.JobTitle, input.JobTitle)
	setTrimmed(&contact.City, input.City)
	setTrimmed(&contact.State, input.State)
	setTrimmed(&contact.Phone, input.Phone)
	setTrimmed(&contact.Notes, input.Notes)

	if input.Status != nil {
		contact.Status = *input.Status
	} else {
		contact.SyncEmailStatus()
	}
	if contact.Status == entity.ContactStatusPending && !contact.HasEmail() {
		return nil, &DomainError{Code: "INVALID_STATUS", Message: "a contact without an email cannot be pending"}
	}
	contact.UpdatedAt = time.Now()

	if err := uc.Repo.Update(ctx, contact); err != nil {
		switch {
		case errors.Is(err, entity.ErrContactNotFound):
			return nil, errContactNotFound(id)
		case errors.Is(err, entity.ErrEmailAlreadyExists):
			return nil, errEmailTaken()
		}
		return nil, &TechnicalError{Code: "DATABASE_ERROR", Message: "could not update contact", Err: err}
	}

	uc.Logger.Info("[CONTACTS] contact updated", "tenant_id", tenantID, "contact_id", id, "status", contact.Status)
	return contact, nil
}

type DeleteContactUseCase struct {
	Repo   ContactRepository
	Logger *slog.Logger
}

func NewDeleteContactUseCase(repo ContactRepository, logger *slog.Logger) *DeleteContactUseCase {
	return &DeleteContactUseCase{Repo: repo, Logger: loggerOrDefault(logger)}
}

// Execute removes the contact. Its ledger entries stay.
func (uc *DeleteContactUseCase) Execute(ctx context.Context, tenantID, id string) error {
	err := uc.Repo.Delete(ctx, tenantID, id)
	if errors.Is(err, entity.ErrContactNotFound) {
		return errContactNotFound(id)
	}
	if err != nil {
		return &TechnicalError{Code: "DATABASE_ERROR", Message: "could not delete contact", Err: err}
	}
	uc.Logger.Info("[CONTACTS] contact deleted", "tenant_id", tenantID, "contact_id", id)
	return nil
}

const (
	DefaultContactPageSize = 100
	MaxContactPageSize     = 1000
)

// ContactQueries serves contact listings, exports and stats.
type ContactQueries struct {
	Repo ContactRepository
}

func NewContactQueries(repo ContactRepository) *ContactQueries {
	return &ContactQueries{Repo: repo}
}

func (q *ContactQueries) List(ctx context.Context, tenantID string, filter entity.ContactFilter) ([]*entity.Contact, error) {
	if filter.Status != "" && !entity.IsKnownContactStatus(filter.Status) {
		return nil, validationDomainError([]ValidationError{{"status", "must be one of " + strings.Join(entity.ContactStatuses, ", ")}})
	}
	if filter.Skip < 0 {
		filter.Skip = 0
	}
	if filter.Limit <= 0 {
		filter.Limit = DefaultContactPageSize
	}
	filter.Limit = min(filter.Limit, MaxContactPageSize)

	contacts, err := q.Repo.List(ctx, tenantID, filter)
	if err != nil {
		return nil, &TechnicalError{Code: "DATABASE_ERROR", Message: "could not list contacts", Err: err}
	}
	if contacts == nil {
		contacts = []*entity.Contact{}
	}
	return contacts, nil
}

// All returns the whole pool in insertion order, for exports.
func (q *ContactQueries) All(ctx context.Context, tenantID string) ([]*entity.Contact, error) {
	contacts, err := q.Repo.ListByTenant(ctx, tenantID)
	if err != nil {
		return nil, &TechnicalError{Code: "DATABASE_ERROR", Message: "could not list contacts", Err: err}
	}
	return contacts, nil
}

func (q *ContactQueries) Stats(ctx context.Context, tenantID string) (entity.ContactStats, error) {
	contacts, err := q.Repo.ListByTenant(ctx, tenantID)
	if err != nil {
		return entity.ContactStats{}, &TechnicalError{Code: "DATABASE_ERROR", Message: "could not load contacts", Err: err}
	}
	return SummarizeContacts(contacts), nil
}

func SummarizeContacts(contacts []*entity.Contact) entity.ContactStats {
	stats := entity.ContactStats{ByStatus: map[string]int{}}
	for _, c := range contacts {
		stats.Total++
		stats.ByStatus[c.Status]++
		if c.HasEmail() {
			stats.WithEmail++
		}
	}
	stats.WithoutEmail = stats.Total - stats.WithEmail
	return stats
}

// ImportContactsUseCase adds parsed contacts, such as the rows of an
// uploaded spreadsheet, skipping emails the pool already holds.
type ImportContactsUseCase struct {
	Repo   ContactRepository
	Logger *slog.Logger
}

func NewImportContactsUseCase(repo ContactRepository, logger *slog.Logger) *ImportContactsUseCase {
	return &ImportContactsUseCase{Repo: repo, Logger: loggerOrDefault(logger)}
}

func (uc *ImportContactsUseCase) Execute(ctx context.Context, tenantID string, contacts []*entity.Contact) (*ImportReport, error) {
	report := &ImportReport{}
	if err := importContacts(ctx, uc.Repo, tenantID, contacts, report); err != nil {
		return nil, err
	}
	uc.Logger.Info("[CONTACTS] import finished",
		"tenant_id", tenantID, "imported", report.Imported, "skipped", report.Skipped, "errors", len(report.Errors))
	return report, nil
}

// ImportEnrichedUseCase adds enrichment results to the pool, skipping
// emails that are already known.
type ImportEnrichedUseCase struct {
	Repo   ContactRepository
	Logger *slog.Logger
}

func NewImportEnrichedUseCase(repo ContactRepository, logger *slog.Logger) *ImportEnrichedUseCase {
	return &ImportEnrichedUseCase{Repo: repo, Logger: loggerOrDefault(logger)}
}

func (uc *ImportEnrichedUseCase) Execute(ctx context.Context, tenantID string, records []entity.EnrichedContact) (*ImportReport, error) {
	report := &ImportReport{}
	contacts := make([]*entity.Contact, 0, len(records))
	for _, rec := range records {
		email := entity.NormalizeEmail(rec.Email)
		if email == "" {
			report.Skipped++
			continue
		}
		contact, err := rec.ToContact(tenantID)
		if err != nil {
			report.Skipped++
			report.Errors = append(report.Errors, fmt.Sprintf("%s: %v", email, err))
			continue
		}
		contacts = append(contacts, contact)
	}

	if err := importContacts(ctx, uc.Repo, tenantID, contacts, report); err != nil {
		return nil, err
	}

	uc.Logger.Info("[CONTACTS] enrichment import finished",
		"tenant_id", tenantID, "imported", report.Imported, "skipped", report.Skipped, "errors", len(report.Errors))
	return report, nil
}

// importContacts creates each contact whose email is not yet in the pool.
// Contacts without an email are always added.
func importContacts(ctx context.Context, repo ContactRepository, tenantID string, contacts []*entity.Contact, report *ImportReport) error {
	existing, err := repo.ListByTenant(ctx, tenantID)
	if err != nil {
		return &TechnicalError{Code: "DATABASE_ERROR", Message: "could not load contacts", Err: err}
	}

	known := make(map[string]struct{}, len(existing))
	for _, c := range existing {
		if email := c.NormalizedEmail(); email != "" {
			known[email] = struct{}{}
		}
	}

	for _, contact := range contacts {
		contact.TenantID = tenantID
		email := contact.NormalizedEmail()
		if email != "" {
			if _, dup := known[email]; dup {
				report.Skipped++
				continue
			}
		}

		if err := repo.Create(ctx, contact); err != nil {
			if errors.Is(err, entity.ErrEmailAlreadyExists) {
				report.Skipped++
				known[email] = struct{}{}
				continue
			}
			report.Errors = append(report.Errors, fmt.Sprintf("%s: %v", contact.FullName(), err))
			continue
		}

		if email != "" {
			known[email] = struct{}{}
		}
		report.Imported++
	}
	return nil
}

func setTrimmed(dst *string, v *string) {
	if v != nil {
		*dst = strings.TrimSpace(*v)
	}
}

func errContactNotFound(id string) *DomainError {
	return &DomainError{Code: "CONTACT_NOT_FOUND", Message: "contact " + id + " not found"}
}

func errEmailTaken() *DomainError {
	return &DomainError{Code: "EMAIL_ALREADY_EXISTS", Message: "a contact with this email already exists"}
}
