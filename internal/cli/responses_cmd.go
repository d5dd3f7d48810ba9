package cli

import (
	"fmt"
	"os"

	"github.com/alexanderramin/timesplit/internal/cli/formatter"
	"github.com/alexanderramin/timesplit/internal/contract"
	"github.com/alexanderramin/timesplit/internal/domain"
	"github.com/alexanderramin/timesplit/internal/importer"
	"github.com/spf13/cobra"
)

func newResponsesCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "responses",
		Aliases: []string{"r"},
		Short:   "Manage stored responses",
	}

	cmd.AddCommand(
		newResponsesListCmd(app),
		newResponsesShowCmd(app),
		newResponsesRemoveCmd(app),
		newResponsesExportCmd(app),
	)

	return cmd
}

func listRequest(role, team, query string) contract.ListRequest {
	req := contract.ListRequest{Team: team, Query: query}
	if role != "" {
		req.Role = domain.NormalizeRole(role)
	}
	return req
}

func newResponsesListCmd(app *App) *cobra.Command {
	var role, team, query string
	var asJSON bool

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List responses, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			responses, err := app.Survey.List(cmd.Context(), listRequest(role, team, query))
			if err != nil {
				return err
			}

			if asJSON {
				views := make([]contract.ResponseView, len(responses))
				for i, r := range responses {
					views[i] = contract.NewResponseView(r)
				}
				return writeJSON(cmd.OutOrStdout(), views)
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatResponseList(responses))
			return nil
		},
	}

	cmd.Flags().StringVar(&role, "role", "", "filter by role")
	cmd.Flags().StringVar(&team, "team", "", "filter by team")
	cmd.Flags().StringVarP(&query, "query", "q", "", "filter by name substring")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")

	return cmd
}

func newResponsesShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show NAME",
		Short: "Show one response",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := app.Survey.Get(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("response %q: %w", args[0], err)
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatResponseDetail(r, app.Catalog.Resolve(r.Role)))
			return nil
		},
	}
}

func newResponsesRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "remove NAME",
		Aliases: []string{"rm"},
		Short:   "Delete a response",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Survey.Delete(cmd.Context(), args[0]); err != nil {
				return fmt.Errorf("response %q: %w", args[0], err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed response for %s.\n", args[0])
			return nil
		},
	}
}

func newResponsesExportCmd(app *App) *cobra.Command {
	var role, team, output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export responses as an importable JSON file",
		RunE: func(cmd *cobra.Command, args []string) error {
			schema, err := app.Import.Export(cmd.Context(), listRequest(role, team, ""))
			if err != nil {
				return err
			}

			if output == "" || output == "-" {
				return importer.EncodeImportSchema(cmd.OutOrStdout(), schema)
			}

			f, err := os.Create(output)
			if err != nil {
				return fmt.Errorf("creating %s: %w", output, err)
			}
			if err := importer.EncodeImportSchema(f, schema); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return fmt.Errorf("writing %s: %w", output, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %s to %s.\n", formatter.Count(len(schema.Responses), "response"), output)
			return nil
		},
	}

	cmd.Flags().StringVar(&role, "role", "", "only export this role")
	cmd.Flags().StringVar(&team, "team", "", "only export this team")
	cmd.Flags().StringVarP(&output, "output", "o", "", "file to write (default stdout)")

	return cmd
}
