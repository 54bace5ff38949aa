package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/outreachd/outreach/internal/infra/filestore"
)

func newValidateCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check the configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			problems := app.Config.Validate()

			profile, err := filestore.LoadProfile(app.Config.SenderProfileFile)
			if err != nil {
				problems = append(problems, err.Error())
			} else if err := profile.Validate(); err != nil {
				problems = append(problems, fmt.Sprintf("%s: %v", app.Config.SenderProfileFile, err))
			}

			if len(problems) == 0 {
				fmt.Fprintln(out, "Configuration OK.")
				return nil
			}
			for _, p := range problems {
				fmt.Fprintln(out, "- "+p)
			}
			return nil
		},
	}
}
