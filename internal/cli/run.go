package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/outreachd/outreach/internal/bootstrap"
	"github.com/outreachd/outreach/internal/infra/filestore"
	"github.com/outreachd/outreach/internal/usecase"
)

type runOptions struct {
	dryRun   bool
	send     bool
	limit    int
	email    string
	template string
	yes      bool
}

func newRunCommand(app *App) *cobra.Command {
	opts := &runOptions{}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Generate drafts or send messages to pending contacts",
		Long: `Run processes pending contacts one at a time.

--dry-run (the default) writes each message to the drafts directory.
--send delivers over SMTP with a random pause between messages and asks for
confirmation unless --yes is given.

Examples:
  outreach run --limit 5
  outreach run --email ann@acme.com
  outreach run --send --limit 20 --yes`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCampaign(cmd, app, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "save drafts instead of sending (default)")
	cmd.Flags().BoolVar(&opts.send, "send", false, "deliver messages over SMTP")
	cmd.Flags().IntVarP(&opts.limit, "limit", "n", 0, "maximum contacts to process")
	cmd.Flags().StringVar(&opts.email, "email", "", "process only this contact")
	cmd.Flags().StringVarP(&opts.template, "template", "t", "", "built-in template name")
	cmd.Flags().BoolVarP(&opts.yes, "yes", "y", false, "skip the send confirmation")
	cmd.MarkFlagsMutuallyExclusive("dry-run", "send")

	return cmd
}

func runCampaign(cmd *cobra.Command, app *App, opts *runOptions) error {
	cfg := app.Config
	logger := app.logger()
	out := cmd.OutOrStdout()

	mode := usecase.ModeDraft
	if opts.send {
		mode = usecase.ModeSend
	}

	profiles := filestore.NewProfileFile(cfg.SenderProfileFile)
	generator := bootstrap.NewGenerator(cfg, logger, nil)

	delivery := app.Delivery
	if delivery == nil {
		delivery = bootstrap.NewDelivery(cfg)
	}

	if mode == usecase.ModeSend {
		if delivery == nil {
			return errors.New("send mode needs SMTP_HOST to be configured")
		}
		profile, err := profiles.FindProfile(cmd.Context(), localTenant)
		if err != nil {
			return err
		}
		if err := profile.Validate(); err != nil {
			return fmt.Errorf("send mode needs a complete sender profile in %s: %w", cfg.SenderProfileFile, err)
		}
		if !opts.yes {
			ok, err := confirm(cmd.InOrStdin(), out, fmt.Sprintf(
				"About to send up to %d messages as %s <%s>.", usecase.EffectiveLimit(opts.limit, cfg.MaxEmailsPerRun), profile.FullName, profile.Email))
			if err != nil {
				return err
			}
			if !ok {
				fmt.Fprintln(out, "Cancelled.")
				return nil
			}
		}
	}

	uc := usecase.NewRunCampaignUseCase(
		filestore.NewCSVContacts(cfg.ContactsFile),
		filestore.NewCSVLedger(cfg.LedgerFile, logger),
		filestore.NewDraftDir(cfg.DraftsDir),
		usecase.NewBuiltinTemplates(""),
		profiles,
		generator,
		delivery,
		logger,
	)
	bootstrap.ConfigureRunner(uc, cfg, nil)
	if app.Pacer != nil {
		uc.Pacer = app.Pacer
	}

	report, err := uc.Execute(cmd.Context(), usecase.RunCampaignInput{
		TenantID:    localTenant,
		Mode:        mode,
		Limit:       opts.limit,
		EmailFilter: opts.email,
		TemplateID:  opts.template,
	})
	if err != nil {
		return err
	}

	printReport(out, report)
	return nil
}

func confirm(in io.Reader, out io.Writer, prompt string) (bool, error) {
	fmt.Fprintln(out, prompt)
	fmt.Fprint(out, "\nContinue? [y/N]: ")

	response, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, fmt.Errorf("read input: %w", err)
	}
	response = strings.TrimSpace(strings.ToLower(response))
	return response == "y" || response == "yes", nil
}

func printReport(out io.Writer, r *usecase.RunReport) {
	if r.Selected == 0 {
		fmt.Fprintf(out, "No pending contacts (%d already contacted).\n", r.Skipped)
		return
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "STATUS\tEMAIL\tSUBJECT\tNOTE")
	for _, o := range r.Outcomes {
		note := o.Error
		if note == "" && o.Fallback {
			note = "fallback template"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", o.Status, o.Email, o.Subject, note)
	}
	tw.Flush()

	fmt.Fprintf(out, "\nProcessed %d of %d (sent %d, drafted %d, failed %d, skipped %d)\n",
		r.Processed, r.Selected, r.Sent, r.Drafted, r.Failed, r.Skipped)
	if r.Cancelled {
		fmt.Fprintln(out, "Run was cancelled before finishing.")
	}
}
