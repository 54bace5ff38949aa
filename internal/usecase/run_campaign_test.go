package usecase_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/outreachd/outreach/internal/entity"
	"github.com/outreachd/outreach/internal/usecase"
)

type runnerFixture struct {
	contacts *memContacts
	ledger   *memLedger
	drafts   *memDrafts
	delivery *MockDeliveryChannel
	sleeper  *recordingSleeper
	observer *countingObserver
	uc       *usecase.RunCampaignUseCase
}

func newRunnerFixture(contacts ...*entity.Contact) *runnerFixture {
	f := &runnerFixture{
		contacts: newMemContacts(contacts...),
		ledger:   &memLedger{},
		drafts:   newMemDrafts(),
		delivery: new(MockDeliveryChannel),
		sleeper:  &recordingSleeper{},
		observer: &countingObserver{},
	}
	f.uc = usecase.NewRunCampaignUseCase(
		f.contacts, f.ledger, f.drafts, nil,
		staticProfile{profile: completeProfile()},
		newGenerator(nil), f.delivery, nil,
	)
	f.uc.Sleep = f.sleeper.Sleep
	f.uc.Observer = f.observer
	return f
}

func TestRunCampaign_DraftScenarioIsIdempotent(t *testing.T) {
	ctx := context.Background()
	f := newRunnerFixture(contact("Ann", "ann@x.com", "X"), contact("Bo", "bo@x.com", "X"))

	report, err := f.uc.Execute(ctx, usecase.RunCampaignInput{TenantID: "tenant-1", Mode: usecase.ModeDraft, Limit: 5})
	require.NoError(t, err)

	assert.Equal(t, 2, report.Processed)
	assert.Equal(t, 2, report.Drafted)
	assert.Empty(t, report.Errors)
	assert.Len(t, f.ledger.entries, 2)
	for _, e := range f.ledger.entries {
		assert.Equal(t, entity.LedgerStatusDryRun, e.Status)
	}
	require.Len(t, f.drafts.drafts, 2)
	assert.Contains(t, f.drafts.drafts["Ann_Unknown_X"].Body, "Hi Ann,")
	assert.Contains(t, f.drafts.drafts["Bo_Unknown_X"].Body, "Hi Bo,")
	assert.Empty(t, f.sleeper.delays, "draft runs never pace")

	again, err := f.uc.Execute(ctx, usecase.RunCampaignInput{TenantID: "tenant-1", Mode: usecase.ModeDraft, Limit: 5})
	require.NoError(t, err)
	assert.Equal(t, 0, again.Selected)
	assert.Equal(t, 0, again.Processed)
	assert.Equal(t, 2, again.Skipped)
	assert.Len(t, f.ledger.entries, 2)
}

func TestRunCampaign_PartialFailureContinues(t *testing.T) {
	f := newRunnerFixture(
		contact("Ann", "ann@x.com", "X"),
		contact("Bo", "bo@x.com", "X"),
		contact("Cy", "cy@x.com", "X"),
	)
	f.delivery.On("Send", mock.Anything, mock.MatchedBy(func(m entity.OutboundMessage) bool { return m.To == "bo@x.com" })).
		Return(errors.New("smtp 550"))
	f.delivery.On("Send", mock.Anything, mock.Anything).Return(nil)

	report, err := f.uc.Execute(context.Background(), usecase.RunCampaignInput{TenantID: "tenant-1", Mode: usecase.ModeSend})
	require.NoError(t, err)

	assert.Equal(t, 3, report.Processed)
	assert.Equal(t, 2, report.Sent)
	assert.Equal(t, 1, report.Failed)
	require.Len(t, report.Errors, 1)
	assert.Contains(t, report.Errors[0], "smtp 550")

	statuses := f.ledger.statuses()
	assert.Equal(t, entity.LedgerStatusSent, statuses["ann@x.com"])
	assert.Equal(t, entity.LedgerStatusError, statuses["bo@x.com"])
	assert.Equal(t, entity.LedgerStatusSent, statuses["cy@x.com"])
	assert.Equal(t, []string{"SENT", "ERROR", "SENT"}, f.observer.statuses)

	// Pauses follow every attempt except the last.
	assert.Len(t, f.sleeper.delays, 2)
	f.delivery.AssertNumberOfCalls(t, "Send", 3)
}

func TestRunCampaign_FailedContactIsRetriedNextRun(t *testing.T) {
	f := newRunnerFixture(contact("Ann", "ann@x.com", "X"))
	f.ledger.entries = []entity.LedgerEntry{{Email: "ann@x.com", Status: entity.LedgerStatusError}}
	f.delivery.On("Send", mock.Anything, mock.Anything).Return(nil)

	report, err := f.uc.Execute(context.Background(), usecase.RunCampaignInput{TenantID: "tenant-1", Mode: usecase.ModeSend})
	require.NoError(t, err)
	assert.Equal(t, 1, report.Sent)
}

func TestRunCampaign_CapEnforcement(t *testing.T) {
	var pool []*entity.Contact
	for i := 0; i < 70; i++ {
		pool = append(pool, contact(fmt.Sprintf("P%d", i), fmt.Sprintf("p%d@x.com", i), "X"))
	}

	tests := []struct {
		name  string
		limit int
		want  int
	}{
		{"above ceiling", 500, usecase.MaxContactsPerRun},
		{"zero means ceiling", 0, usecase.MaxContactsPerRun},
		{"below ceiling", 7, 7},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newRunnerFixture(pool...)
			report, err := f.uc.Execute(context.Background(), usecase.RunCampaignInput{TenantID: "tenant-1", Mode: usecase.ModeDraft, Limit: tt.limit})
			require.NoError(t, err)
			assert.Equal(t, tt.want, report.Processed)
		})
	}

	t.Run("configured ceiling cannot exceed hard ceiling", func(t *testing.T) {
		f := newRunnerFixture(pool...)
		f.uc.MaxPerRun = 1000
		report, err := f.uc.Execute(context.Background(), usecase.RunCampaignInput{TenantID: "tenant-1", Mode: usecase.ModeDraft, Limit: 1000})
		require.NoError(t, err)
		assert.Equal(t, usecase.MaxContactsPerRun, report.Processed)
	})
}

func TestRunCampaign_SkipsContactsWithoutEmail(t *testing.T) {
	f := newRunnerFixture(contact("Ann", "", "X"), contact("Bo", "  ", "X"), contact("Cy", "cy@x.com", "X"))

	report, err := f.uc.Execute(context.Background(), usecase.RunCampaignInput{TenantID: "tenant-1", Mode: usecase.ModeDraft})
	require.NoError(t, err)
	assert.Equal(t, 1, report.Processed)
	assert.Equal(t, "cy@x.com", report.Outcomes[0].Email)
}

func TestRunCampaign_EmailFilter(t *testing.T) {
	f := newRunnerFixture(contact("Ann", "ann@x.com", "X"), contact("Bo", "Bo@X.com", "X"))
	f.ledger.entries = []entity.LedgerEntry{{Email: "bo@x.com", Status: entity.LedgerStatusSent}}

	report, err := f.uc.Execute(context.Background(), usecase.RunCampaignInput{
		TenantID: "tenant-1", Mode: usecase.ModeDraft, EmailFilter: "BO@x.com",
	})
	require.NoError(t, err)
	require.Equal(t, 1, report.Processed)
	assert.Equal(t, "Bo@X.com", report.Outcomes[0].Email)

	none, err := f.uc.Execute(context.Background(), usecase.RunCampaignInput{
		TenantID: "tenant-1", Mode: usecase.ModeDraft, EmailFilter: "nobody@x.com",
	})
	require.NoError(t, err)
	assert.Equal(t, 0, none.Processed)
}

func TestRunCampaign_DuplicateEmailsInPoolProcessedOnce(t *testing.T) {
	f := newRunnerFixture(contact("Ann", "ann@x.com", "X"), contact("Annie", "ANN@x.com", "Y"))

	report, err := f.uc.Execute(context.Background(), usecase.RunCampaignInput{TenantID: "tenant-1", Mode: usecase.ModeDraft})
	require.NoError(t, err)
	assert.Equal(t, 1, report.Processed)
}

func TestRunCampaign_SenderIncompleteIsPerContact(t *testing.T) {
	f := newRunnerFixture(contact("Ann", "ann@x.com", "X"), contact("Bo", "bo@x.com", "X"))
	f.uc.Profiles = staticProfile{profile: &entity.SenderProfile{FullName: "Sam"}}

	report, err := f.uc.Execute(context.Background(), usecase.RunCampaignInput{TenantID: "tenant-1", Mode: usecase.ModeSend})
	require.NoError(t, err)

	assert.Equal(t, 2, report.Failed)
	assert.Len(t, f.ledger.entries, 2)
	assert.Contains(t, f.ledger.entries[0].Error, usecase.ErrSenderIncomplete.Error())
	f.delivery.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
}

func TestRunCampaign_NoDeliveryChannel(t *testing.T) {
	f := newRunnerFixture(contact("Ann", "ann@x.com", "X"))
	f.uc.Delivery = nil

	report, err := f.uc.Execute(context.Background(), usecase.RunCampaignInput{TenantID: "tenant-1", Mode: usecase.ModeSend})
	require.NoError(t, err)
	assert.Equal(t, 1, report.Failed)
	assert.Equal(t, usecase.ErrDeliveryUnavailable.Error(), f.ledger.entries[0].Error)
}

func TestRunCampaign_PacingWithinBounds(t *testing.T) {
	f := newRunnerFixture(contact("Ann", "ann@x.com", "X"), contact("Bo", "bo@x.com", "X"), contact("Cy", "cy@x.com", "X"))
	f.uc.Pacer = usecase.NewRandomPacer(15*time.Second, 45*time.Second)
	f.delivery.On("Send", mock.Anything, mock.Anything).Return(nil)

	_, err := f.uc.Execute(context.Background(), usecase.RunCampaignInput{TenantID: "tenant-1", Mode: usecase.ModeSend})
	require.NoError(t, err)

	require.Len(t, f.sleeper.delays, 2)
	for _, d := range f.sleeper.delays {
		assert.GreaterOrEqual(t, d, 15*time.Second)
		assert.LessOrEqual(t, d, 45*time.Second)
	}
}

func TestRunCampaign_CancellationStopsBetweenContacts(t *testing.T) {
	f := newRunnerFixture(contact("Ann", "ann@x.com", "X"), contact("Bo", "bo@x.com", "X"))
	ctx, cancel := context.WithCancel(context.Background())
	f.delivery.On("Send", mock.Anything, mock.Anything).Run(func(mock.Arguments) { cancel() }).Return(nil)
	f.uc.Sleep = usecase.ContextSleep

	report, err := f.uc.Execute(ctx, usecase.RunCampaignInput{TenantID: "tenant-1", Mode: usecase.ModeSend})
	require.NoError(t, err)

	assert.True(t, report.Cancelled)
	assert.Equal(t, 1, report.Processed)
	assert.Len(t, f.ledger.entries, 1)
}

func TestRunCampaign_SendIsRecordedWhenCancelledMidDelivery(t *testing.T) {
	f := newRunnerFixture(contact("Ann", "ann@x.com", "X"))
	f.ledger.honorContext = true
	ctx, cancel := context.WithCancel(context.Background())
	f.delivery.On("Send", mock.Anything, mock.Anything).Run(func(mock.Arguments) { cancel() }).Return(nil).Once()

	report, err := f.uc.Execute(ctx, usecase.RunCampaignInput{TenantID: "tenant-1", Mode: usecase.ModeSend})
	require.NoError(t, err)
	assert.Equal(t, 1, report.Sent)
	assert.Empty(t, report.Errors)
	require.Len(t, f.ledger.entries, 1)
	assert.Equal(t, entity.LedgerStatusSent, f.ledger.entries[0].Status)

	again, err := f.uc.Execute(context.Background(), usecase.RunCampaignInput{TenantID: "tenant-1", Mode: usecase.ModeSend})
	require.NoError(t, err)
	assert.Equal(t, 0, again.Selected)
	assert.Equal(t, 1, again.Skipped)
	f.delivery.AssertNumberOfCalls(t, "Send", 1)
}

func TestRunCampaign_CancelledBeforeDeliveryDoesNotSend(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	provider := new(MockContentProvider)
	provider.On("Complete", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Run(func(mock.Arguments) { cancel() }).
		Return("", context.Canceled)

	f := newRunnerFixture(contact("Ann", "ann@x.com", "X"))
	f.uc.Generator = newGenerator(provider)

	report, err := f.uc.Execute(ctx, usecase.RunCampaignInput{TenantID: "tenant-1", Mode: usecase.ModeSend})
	require.NoError(t, err)
	assert.Equal(t, 1, report.Failed)
	f.delivery.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
	require.Len(t, f.ledger.entries, 1)
	assert.Equal(t, entity.LedgerStatusError, f.ledger.entries[0].Status, "the contact stays eligible for the next run")
}

func TestRunCampaign_LedgerAppendFailureIsReported(t *testing.T) {
	f := newRunnerFixture(contact("Ann", "ann@x.com", "X"))
	f.ledger.appendErr = errors.New("read-only filesystem")
	f.delivery.On("Send", mock.Anything, mock.Anything).Return(nil)

	report, err := f.uc.Execute(context.Background(), usecase.RunCampaignInput{TenantID: "tenant-1", Mode: usecase.ModeSend})
	require.NoError(t, err)

	assert.Equal(t, 1, report.Sent)
	require.Len(t, report.Errors, 1)
	assert.Contains(t, report.Errors[0], "ledger append failed")
}

func TestRunCampaign_TemplateResolution(t *testing.T) {
	ctx := context.Background()

	t.Run("explicit template not found", func(t *testing.T) {
		f := newRunnerFixture(contact("Ann", "ann@x.com", "X"))
		repo := new(MockTemplateRepository)
		repo.On("FindByID", ctx, "tenant-1", "tpl-9").Return(nil, entity.ErrTemplateNotFound)
		f.uc.Templates = repo

		_, err := f.uc.Execute(ctx, usecase.RunCampaignInput{TenantID: "tenant-1", Mode: usecase.ModeDraft, TemplateID: "tpl-9"})
		require.Error(t, err)
		assert.True(t, usecase.IsDomainError(err))
	})

	t.Run("missing default uses built-in prompt", func(t *testing.T) {
		f := newRunnerFixture(contact("Ann", "ann@x.com", "X"))
		repo := new(MockTemplateRepository)
		repo.On("FindDefault", ctx, "tenant-1").Return(nil, entity.ErrTemplateNotFound)
		f.uc.Templates = repo

		report, err := f.uc.Execute(ctx, usecase.RunCampaignInput{TenantID: "tenant-1", Mode: usecase.ModeDraft})
		require.NoError(t, err)
		assert.Equal(t, 1, report.Drafted)
	})
}

func TestRunCampaign_InvalidInput(t *testing.T) {
	f := newRunnerFixture()

	_, err := f.uc.Execute(context.Background(), usecase.RunCampaignInput{TenantID: "tenant-1", Mode: "blast"})
	require.Error(t, err)
	assert.True(t, usecase.IsDomainError(err))
}

func TestRunCampaign_ContactSourceFailure(t *testing.T) {
	f := newRunnerFixture()
	f.contacts.listErr = errors.New("connection refused")

	_, err := f.uc.Execute(context.Background(), usecase.RunCampaignInput{TenantID: "tenant-1", Mode: usecase.ModeDraft})
	require.Error(t, err)
	assert.True(t, usecase.IsTechnicalError(err))
}
