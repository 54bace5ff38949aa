package usecase

import (
	"context"

	"github.com/outreachd/outreach/internal/entity"
)

// ContactSource is the read side of the contact pool.
type ContactSource interface {
	ListByTenant(ctx context.Context, tenantID string) ([]*entity.Contact, error)
	FindByEmail(ctx context.Context, tenantID, email string) (*entity.Contact, error)
}

type ContactRepository interface {
	ContactSource
	Create(ctx context.Context, c *entity.Contact) error
	FindByID(ctx context.Context, tenantID, id string) (*entity.Contact, error)
	// List returns matching contacts newest first, paged by filter.Skip and
	// filter.Limit.
	List(ctx context.Context, tenantID string, filter entity.ContactFilter) ([]*entity.Contact, error)
	Update(ctx context.Context, c *entity.Contact) error
	Delete(ctx context.Context, tenantID, id string) error
}

// ContactStatusSyncer marks pending contacts as sent when the ledger holds a
// SENT entry for them. It returns how many contacts changed.
type ContactStatusSyncer interface {
	SyncSentStatuses(ctx context.Context) (int, error)
}

// LedgerStore is the append-only activity log. History returns entries in
// insertion order and an empty slice when nothing was recorded yet.
type LedgerStore interface {
	History(ctx context.Context, tenantID string) ([]entity.LedgerEntry, error)
	Append(ctx context.Context, entry entity.LedgerEntry) error
}

type DraftStore interface {
	SaveDraft(ctx context.Context, d entity.Draft) error
}

type ProfileSource interface {
	FindProfile(ctx context.Context, tenantID string) (*entity.SenderProfile, error)
}

type TemplateSource interface {
	FindByID(ctx context.Context, tenantID, id string) (*entity.Template, error)
	FindDefault(ctx context.Context, tenantID string) (*entity.Template, error)
}

// ContentProvider is the generative model. It returns free text that is
// expected to hold the {"subject","body"} JSON contract.
type ContentProvider interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string, temperature float64) (string, error)
}

// DeliveryChannel performs exactly one send attempt per call.
type DeliveryChannel interface {
	Send(ctx context.Context, msg entity.OutboundMessage) error
}

// Observer receives pipeline events for metrics.
type Observer interface {
	MessageRecorded(status string)
	GenerationFellBack()
	ProviderFailed(provider string)
}

type noopObserver struct{}

func (noopObserver) MessageRecorded(string) {}
func (noopObserver) GenerationFellBack()    {}
func (noopObserver) ProviderFailed(string)  {}

func observerOrNoop(o Observer) Observer {
	if o == nil {
		return noopObserver{}
	}
	return o
}
