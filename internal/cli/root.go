// Package cli provides the local command-line interface: campaigns run
// against a contacts CSV with an append-only CSV ledger.
package cli

import (
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/outreachd/outreach/internal/config"
	"github.com/outreachd/outreach/internal/usecase"
)

// Version is set at build time.
var Version = "0.1.0"

// localTenant tags ledger entries written by the CLI.
const localTenant = "local"

// App carries what every command needs. Delivery and Pacer override the
// ones built from Config when set.
type App struct {
	Config config.Config
	Logger *slog.Logger
	In     io.Reader
	Out    io.Writer

	Delivery usecase.DeliveryChannel
	Pacer    usecase.Pacer
}

func (a *App) logger() *slog.Logger {
	if a.Logger == nil {
		return slog.Default()
	}
	return a.Logger
}

func (a *App) in() io.Reader {
	if a.In == nil {
		return os.Stdin
	}
	return a.In
}

func (a *App) out() io.Writer {
	if a.Out == nil {
		return os.Stdout
	}
	return a.Out
}

func NewRootCommand(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:   "outreach",
		Short: "Personalized outreach campaigns from a contacts file",
		Long: `Outreach generates a personalized message for every contact that has not
been reached yet, then saves it as a draft or sends it over SMTP.

Every attempt is appended to the ledger file, so reruns skip contacts that
were already drafted or sent.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(app.out())
	root.SetIn(app.in())

	root.AddCommand(newRunCommand(app))
	root.AddCommand(newEnrichCommand(app))
	root.AddCommand(newStatsCommand(app))
	root.AddCommand(newValidateCommand(app))
	return root
}
