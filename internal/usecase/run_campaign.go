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

const (
	// MaxContactsPerRun bounds every run regardless of the requested limit.
	MaxContactsPerRun = 50

	// LedgerWriteTimeout bounds the append that records an outcome. The
	// append does not inherit cancellation from the run: a message that went
	// out must be recorded or the next run sends it again.
	LedgerWriteTimeout = 5 * time.Second
)

type RunCampaignUseCase struct {
	Contacts  ContactSource
	Ledger    LedgerStore
	Drafts    DraftStore
	Templates TemplateSource
	Profiles  ProfileSource
	Generator *ContentGenerator
	Delivery  DeliveryChannel

	Pacer     Pacer
	Sleep     Sleeper
	MaxPerRun int
	Logger    *slog.Logger
	Observer  Observer
}

func NewRunCampaignUseCase(
	contacts ContactSource,
	ledger LedgerStore,
	drafts DraftStore,
	templates TemplateSource,
	profiles ProfileSource,
	generator *ContentGenerator,
	delivery DeliveryChannel,
	logger *slog.Logger,
) *RunCampaignUseCase {
	return &RunCampaignUseCase{
		Contacts:  contacts,
		Ledger:    ledger,
		Drafts:    drafts,
		Templates: templates,
		Profiles:  profiles,
		Generator: generator,
		Delivery:  delivery,
		Pacer:     NewRandomPacer(DefaultMinDelay, DefaultMaxDelay),
		Sleep:     ContextSleep,
		MaxPerRun: MaxContactsPerRun,
		Logger:    loggerOrDefault(logger),
		Observer:  noopObserver{},
	}
}

// Execute runs one campaign pass. Per-contact failures are recorded in the
// ledger and the report; an error is returned only when the run cannot
// start.
func (uc *RunCampaignUseCase) Execute(ctx context.Context, input RunCampaignInput) (*RunReport, error) {
	if input.Mode == "" {
		input.Mode = ModeDraft
	}
	if errs := ValidateRunCampaignInput(input); len(errs) > 0 {
		return nil, validationDomainError(errs)
	}

	logger := uc.Logger.With("tenant_id", input.TenantID, "mode", input.Mode)

	selected, skipped, err := uc.selectContacts(ctx, input)
	if err != nil {
		return nil, err
	}

	report := &RunReport{
		Mode:     input.Mode,
		Selected: len(selected),
		Skipped:  skipped,
		Outcomes: []ContactOutcome{},
		Errors:   []string{},
	}
	if len(selected) == 0 {
		logger.Info("[RUNNER] no contacts to process", "skipped", skipped)
		return report, nil
	}

	tmpl, err := resolveTemplate(ctx, uc.Templates, input.TenantID, input.TemplateID)
	if err != nil {
		return nil, err
	}

	var profile *entity.SenderProfile
	if uc.Profiles != nil {
		profile, err = uc.Profiles.FindProfile(ctx, input.TenantID)
		if err != nil {
			return nil, &TechnicalError{Code: "PROFILE_LOAD_FAILED", Message: "could not load sender profile", Err: err}
		}
	}

	generator := uc.Generator
	if generator == nil {
		generator = NewContentGenerator(nil, uc.Logger)
	}

	logger.Info("[RUNNER] 🚀 starting run", "selected", len(selected), "skipped", skipped)

	for i, contact := range selected {
		if ctx.Err() != nil {
			report.Cancelled = true
			logger.Warn("[RUNNER] run cancelled", "processed", report.Processed, "remaining", len(selected)-i)
			break
		}

		outcome := uc.processContact(ctx, input, contact, profile, tmpl, generator)
		report.record(outcome)

		if input.Mode == ModeSend && i < len(selected)-1 {
			if err := uc.pause(ctx, i+1); err != nil {
				report.Cancelled = true
				logger.Warn("[RUNNER] run cancelled during pacing", "processed", report.Processed)
				break
			}
		}
	}

	logger.Info("[RUNNER] ✅ run finished",
		"processed", report.Processed, "sent", report.Sent,
		"drafted", report.Drafted, "failed", report.Failed)
	return report, nil
}

func (uc *RunCampaignUseCase) selectContacts(ctx context.Context, input RunCampaignInput) ([]*entity.Contact, int, error) {
	pool, err := uc.Contacts.ListByTenant(ctx, input.TenantID)
	if err != nil {
		return nil, 0, &TechnicalError{Code: "CONTACTS_LOAD_FAILED", Message: "could not load contacts", Err: err}
	}

	candidates := make([]*entity.Contact, 0, len(pool))
	for _, c := range pool {
		if c != nil && c.HasEmail() {
			candidates = append(candidates, c)
		}
	}

	var selected []*entity.Contact
	skipped := 0

	if filter := entity.NormalizeEmail(input.EmailFilter); filter != "" {
		for _, c := range candidates {
			if c.NormalizedEmail() == filter {
				selected = append(selected, c)
				break
			}
		}
	} else {
		contacted, err := NewLedgerReader(uc.Ledger).Contacted(ctx, input.TenantID)
		if err != nil {
			return nil, 0, &TechnicalError{Code: "LEDGER_READ_FAILED", Message: "could not read ledger", Err: err}
		}
		seen := make(map[string]struct{}, len(candidates))
		for _, c := range candidates {
			email := c.NormalizedEmail()
			if _, done := contacted[email]; done {
				skipped++
				continue
			}
			if _, dup := seen[email]; dup {
				continue
			}
			seen[email] = struct{}{}
			selected = append(selected, c)
		}
	}

	if limit := uc.effectiveLimit(input.Limit); len(selected) > limit {
		selected = selected[:limit]
	}
	return selected, skipped, nil
}

// effectiveLimit applies the hard ceiling. Zero means "up to the ceiling".
func (uc *RunCampaignUseCase) effectiveLimit(requested int) int {
	return EffectiveLimit(requested, uc.MaxPerRun)
}

// EffectiveLimit caps a requested batch size by the configured per-run
// maximum and by MaxContactsPerRun. Zero or negative means "as many as allowed".
func EffectiveLimit(requested, maxPerRun int) int {
	ceiling := maxPerRun
	if ceiling <= 0 || ceiling > MaxContactsPerRun {
		ceiling = MaxContactsPerRun
	}
	if requested <= 0 || requested > ceiling {
		return ceiling
	}
	return requested
}

// resolveTemplate picks the explicit template, else the tenant default. A
// nil template means the built-in prompt.
func resolveTemplate(ctx context.Context, templates TemplateSource, tenantID, templateID string) (*entity.Template, error) {
	if templates == nil {
		return nil, nil
	}

	if id := strings.TrimSpace(templateID); id != "" {
		t, err := templates.FindByID(ctx, tenantID, id)
		if errors.Is(err, entity.ErrTemplateNotFound) {
			return nil, &DomainError{Code: "TEMPLATE_NOT_FOUND", Message: "template " + id + " not found"}
		}
		if err != nil {
			return nil, &TechnicalError{Code: "TEMPLATE_LOAD_FAILED", Message: "could not load template", Err: err}
		}
		return t, nil
	}

	t, err := templates.FindDefault(ctx, tenantID)
	if errors.Is(err, entity.ErrTemplateNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, &TechnicalError{Code: "TEMPLATE_LOAD_FAILED", Message: "could not load default template", Err: err}
	}
	return t, nil
}

func (uc *RunCampaignUseCase) processContact(
	ctx context.Context,
	input RunCampaignInput,
	contact *entity.Contact,
	profile *entity.SenderProfile,
	tmpl *entity.Template,
	generator *ContentGenerator,
) ContactOutcome {
	generated := generator.Generate(ctx, contact, profile, tmpl)

	outcome := ContactOutcome{
		Email:     contact.Email,
		Recipient: contact.FullName(),
		Company:   contact.Company,
		Subject:   generated.Result.Subject,
		Body:      generated.Result.Body,
		Fallback:  generated.FellBack,
	}

	var deliveryErr error
	if input.Mode == ModeDraft {
		outcome.DraftKey = contact.DraftKey()
		deliveryErr = uc.saveDraft(ctx, input.TenantID, contact, generated.Result)
		outcome.Status = entity.LedgerStatusDryRun
	} else {
		deliveryErr = uc.deliver(ctx, contact, profile, generated.Result)
		outcome.Status = entity.LedgerStatusSent
	}

	if deliveryErr != nil {
		outcome.Status = entity.LedgerStatusError
		outcome.Error = deliveryErr.Error()
		uc.Logger.Error("[RUNNER] ❌ contact failed", "email", contact.Email, "error", deliveryErr)
	} else {
		uc.Logger.Info("[RUNNER] contact processed", "email", contact.Email, "status", outcome.Status, "fallback", outcome.Fallback)
	}

	entry := entity.NewLedgerEntry(input.TenantID, contact, outcome.Status, outcome.Subject, outcome.Error)
	if uc.Ledger != nil {
		if err := uc.appendLedger(ctx, entry); err != nil {
			// The message may already be out; the next run will not know.
			uc.Logger.Error("[RUNNER] 🚨 ledger append failed", "email", contact.Email, "status", outcome.Status, "error", err)
			if outcome.Error != "" {
				outcome.Error += "; "
			}
			outcome.Error += "ledger append failed: " + err.Error()
		}
	}
	observerOrNoop(uc.Observer).MessageRecorded(outcome.Status)

	return outcome
}

func (uc *RunCampaignUseCase) appendLedger(ctx context.Context, entry entity.LedgerEntry) error {
	writeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), LedgerWriteTimeout)
	defer cancel()
	return uc.Ledger.Append(writeCtx, entry)
}

func (uc *RunCampaignUseCase) saveDraft(ctx context.Context, tenantID string, c *entity.Contact, result entity.GenerationResult) error {
	if uc.Drafts == nil {
		return nil
	}
	err := uc.Drafts.SaveDraft(ctx, entity.Draft{
		Key:       c.DraftKey(),
		TenantID:  tenantID,
		Email:     c.Email,
		Subject:   result.Subject,
		Body:      result.Body,
		UpdatedAt: time.Now(),
	})
	if err != nil {
		return fmt.Errorf("save draft: %w", err)
	}
	return nil
}

func (uc *RunCampaignUseCase) deliver(ctx context.Context, c *entity.Contact, profile *entity.SenderProfile, result entity.GenerationResult) error {
	if uc.Delivery == nil {
		return ErrDeliveryUnavailable
	}
	msg, err := BuildOutboundMessage(profile, c, result)
	if err != nil {
		return err
	}
	// A run cancelled while generating must not start a send.
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("delivery: %w", err)
	}
	if err := uc.Delivery.Send(ctx, msg); err != nil {
		return fmt.Errorf("delivery: %w", err)
	}
	return nil
}

func (uc *RunCampaignUseCase) pause(ctx context.Context, attempt int) error {
	pacer := uc.Pacer
	if pacer == nil {
		pacer = NoPacer
	}
	sleep := uc.Sleep
	if sleep == nil {
		sleep = ContextSleep
	}
	d := pacer.Delay(attempt)
	if d > 0 {
		uc.Logger.Debug("[RUNNER] pacing before next send", "delay", d)
	}
	return sleep(ctx, d)
}

// BuildOutboundMessage addresses a generated message from the sender to the
// contact.
func BuildOutboundMessage(profile *entity.SenderProfile, c *entity.Contact, result entity.GenerationResult) (entity.OutboundMessage, error) {
	if err := profile.Validate(); err != nil {
		return entity.OutboundMessage{}, fmt.Errorf("%w: %v", ErrSenderIncomplete, err)
	}
	return entity.OutboundMessage{
		SenderName:  strings.TrimSpace(profile.FullName),
		SenderEmail: strings.TrimSpace(profile.Email),
		To:          strings.TrimSpace(c.Email),
		Subject:     result.Subject,
		Body:        result.Body,
	}, nil
}
