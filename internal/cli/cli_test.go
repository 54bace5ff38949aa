package cli

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/outreachd/outreach/internal/config"
	"github.com/outreachd/outreach/internal/entity"
	"github.com/outreachd/outreach/internal/infra/filestore"
	"github.com/outreachd/outreach/internal/usecase"
)

type recordingDelivery struct {
	mu   sync.Mutex
	sent []entity.OutboundMessage
}

func (r *recordingDelivery) Send(_ context.Context, msg entity.OutboundMessage) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, msg)
	return nil
}

func testApp(t *testing.T, withProfile bool) (*App, *bytes.Buffer) {
	t.Helper()
	dir := t.TempDir()

	contacts := "First Name,Last Name,Email Address,Company,Job Title\n" +
		"Ann,Lee,ann@acme.com,Acme,CTO\n" +
		"Bo,Ng,bo@bolt.io,Bolt,Engineer\n" +
		"Cy,,,NoMail,\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "contacts.csv"), []byte(contacts), 0o644))

	if withProfile {
		profile := "full_name: Sam Sender\nemail: sam@sender.io\norganization: State University\n"
		require.NoError(t, os.WriteFile(filepath.Join(dir, "profile.yaml"), []byte(profile), 0o644))
	}

	out := &bytes.Buffer{}
	app := &App{
		Config: config.Config{
			LLMProvider:         "openai",
			ContactsFile:        filepath.Join(dir, "contacts.csv"),
			LedgerFile:          filepath.Join(dir, "outreach_log.csv"),
			DraftsDir:           filepath.Join(dir, "drafts"),
			SenderProfileFile:   filepath.Join(dir, "profile.yaml"),
			MaxEmailsPerRun:     50,
			EnrichmentProviders: []string{"apollo", "hunter"},
		},
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		Out:    out,
		In:     strings.NewReader(""),
		Pacer:  usecase.NoPacer,
	}
	return app, out
}

func execute(app *App, args ...string) error {
	root := NewRootCommand(app)
	root.SetArgs(args)
	return root.ExecuteContext(context.Background())
}

func ledgerStatuses(t *testing.T, app *App) []string {
	t.Helper()
	history, err := filestore.NewCSVLedger(app.Config.LedgerFile, nil).History(context.Background(), localTenant)
	require.NoError(t, err)
	var out []string
	for _, e := range history {
		out = append(out, e.Email+"="+e.Status)
	}
	return out
}

func TestRun_DryRunWritesDraftsAndLedger(t *testing.T) {
	app, out := testApp(t, true)

	require.NoError(t, execute(app, "run", "--limit", "1"))
	assert.Equal(t, []string{"ann@acme.com=DRY_RUN"}, ledgerStatuses(t, app))
	assert.FileExists(t, filepath.Join(app.Config.DraftsDir, "Ann_Lee_Acme.txt"))
	assert.Contains(t, out.String(), "drafted 1")

	require.NoError(t, execute(app, "run"))
	assert.Equal(t, []string{"ann@acme.com=DRY_RUN", "bo@bolt.io=DRY_RUN"}, ledgerStatuses(t, app),
		"second run skips contacts already drafted")

	out.Reset()
	require.NoError(t, execute(app, "run"))
	assert.Contains(t, out.String(), "No pending contacts")
}

func TestRun_SendRequiresSMTP(t *testing.T) {
	app, _ := testApp(t, true)
	err := execute(app, "run", "--send", "--yes")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SMTP_HOST")
}

func TestRun_SendRequiresProfile(t *testing.T) {
	app, _ := testApp(t, false)
	app.Delivery = &recordingDelivery{}
	err := execute(app, "run", "--send", "--yes")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sender profile")
}

func TestRun_SendConfirmation(t *testing.T) {
	app, out := testApp(t, true)
	delivery := &recordingDelivery{}
	app.Delivery = delivery
	app.In = strings.NewReader("n\n")

	require.NoError(t, execute(app, "run", "--send"))
	assert.Contains(t, out.String(), "Cancelled.")
	assert.Empty(t, delivery.sent)
	assert.Empty(t, ledgerStatuses(t, app))
}

func TestRun_SendDelivers(t *testing.T) {
	app, _ := testApp(t, true)
	delivery := &recordingDelivery{}
	app.Delivery = delivery
	app.In = strings.NewReader("yes\n")

	require.NoError(t, execute(app, "run", "--send", "--email", "BO@bolt.io"))
	require.Len(t, delivery.sent, 1)
	assert.Equal(t, "bo@bolt.io", delivery.sent[0].To)
	assert.Equal(t, "Sam Sender", delivery.sent[0].SenderName)
	assert.Equal(t, []string{"bo@bolt.io=SENT"}, ledgerStatuses(t, app))
}

func TestRun_DryRunAndSendExclusive(t *testing.T) {
	app, _ := testApp(t, true)
	assert.Error(t, execute(app, "run", "--dry-run", "--send"))
}

func TestStats(t *testing.T) {
	app, out := testApp(t, true)
	require.NoError(t, execute(app, "run"))

	out.Reset()
	require.NoError(t, execute(app, "stats"))
	assert.Contains(t, out.String(), "Drafts: 2")
}

func TestEnrich_NoProviders(t *testing.T) {
	app, _ := testApp(t, true)
	err := execute(app, "enrich", "search", "--company", "Acme")
	assert.ErrorIs(t, err, usecase.ErrNoProviders)

	err = execute(app, "enrich", "find-email", "--first", "Ann")
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	app, out := testApp(t, false)
	require.NoError(t, execute(app, "validate"))
	assert.Contains(t, out.String(), "OPENAI_API_KEY")
	assert.Contains(t, out.String(), "sender profile is missing")
}
