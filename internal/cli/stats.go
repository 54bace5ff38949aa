package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/outreachd/outreach/internal/infra/filestore"
	"github.com/outreachd/outreach/internal/usecase"
)

func newStatsCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Summarize the ledger",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			q := usecase.NewLedgerQueries(filestore.NewCSVLedger(app.Config.LedgerFile, app.logger()))
			stats, err := q.Stats(cmd.Context(), localTenant)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Sent: %d\nFailed: %d\nDrafts: %d\nSuccess rate: %.1f%%\n",
				stats.Sent, stats.Failed, stats.Drafts, stats.SuccessRate)
			return nil
		},
	}
}
