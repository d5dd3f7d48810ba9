package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/alexanderramin/timesplit/internal/cli/formatter"
	"github.com/alexanderramin/timesplit/internal/contract"
	"github.com/alexanderramin/timesplit/internal/domain"
	"github.com/spf13/cobra"
)

func newResultsCmd(app *App) *cobra.Command {
	var role, team, search string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "results",
		Short: "Show aggregated results for one role",
		RunE: func(cmd *cobra.Command, args []string) error {
			req := contract.NewReportRequest()
			if role != "" {
				req.Role = domain.NormalizeRole(role)
			}
			req.Team = team
			req.Search = search

			report, err := app.Reports.Report(cmd.Context(), req)
			if err != nil {
				return err
			}

			if asJSON {
				return writeJSON(cmd.OutOrStdout(), report)
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatReport(report))
			return nil
		},
	}

	cmd.Flags().StringVar(&role, "role", "", "role to report on (default server)")
	cmd.Flags().StringVar(&team, "team", "", "only count responses from this team")
	cmd.Flags().StringVar(&search, "search", "", "filter the response rows by name")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the report as JSON")

	return cmd
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
