package cli

import (
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/outreachd/outreach/internal/bootstrap"
	"github.com/outreachd/outreach/internal/usecase"
)

func newEnrichCommand(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "enrich",
		Short: "Find contacts and emails through the enrichment providers",
	}
	cmd.AddCommand(newEnrichSearchCommand(app))
	cmd.AddCommand(newFindEmailCommand(app))
	return cmd
}

func newEnrichSearchCommand(app *App) *cobra.Command {
	var criteria usecase.SearchCriteria

	cmd := &cobra.Command{
		Use:   "search",
		Short: "Search people by company, title and location",
		Long: `Search asks each configured provider in ENRICHMENT_PROVIDERS order until
the limit is reached. Results without an email are dropped.

Examples:
  outreach enrich search --company "Acme" --title "CTO"
  outreach enrich search --company acme.com --limit 10`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if criteria.Company == "" && criteria.JobTitle == "" {
				return errors.New("--company or --title is required")
			}

			e := bootstrap.NewEnrichment(app.Config, app.logger(), nil)
			report, err := e.Chain.Search(cmd.Context(), criteria)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "NAME\tEMAIL\tTITLE\tCOMPANY\tSOURCE")
			for _, c := range report.Contacts {
				fmt.Fprintf(tw, "%s %s\t%s\t%s\t%s\t%s\n", c.FirstName, c.LastName, c.Email, c.JobTitle, c.Company, c.Source)
			}
			tw.Flush()

			for _, a := range report.Attempts {
				if a.Error != "" {
					fmt.Fprintf(out, "%s failed: %s\n", a.Provider, a.Error)
				}
			}
			fmt.Fprintf(out, "\n%d contacts found\n", len(report.Contacts))
			return nil
		},
	}

	cmd.Flags().StringVar(&criteria.Company, "company", "", "company name or domain")
	cmd.Flags().StringVar(&criteria.JobTitle, "title", "", "job title")
	cmd.Flags().StringVar(&criteria.Location, "location", "", "location")
	cmd.Flags().IntVarP(&criteria.Limit, "limit", "n", usecase.DefaultSearchLimit, "maximum results")
	return cmd
}

func newFindEmailCommand(app *App) *cobra.Command {
	var first, last, domain string

	cmd := &cobra.Command{
		Use:   "find-email",
		Short: "Find the email of a person at a domain",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if first == "" || last == "" || domain == "" {
				return errors.New("--first, --last and --domain are required")
			}

			e := bootstrap.NewEnrichment(app.Config, app.logger(), nil)
			email, err := e.Chain.FindEmail(cmd.Context(), first, last, domain)
			if err != nil {
				return err
			}
			if email == "" {
				fmt.Fprintln(cmd.OutOrStdout(), "No email found.")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), email)
			return nil
		},
	}

	cmd.Flags().StringVar(&first, "first", "", "first name")
	cmd.Flags().StringVar(&last, "last", "", "last name")
	cmd.Flags().StringVar(&domain, "domain", "", "company domain")
	return cmd
}
