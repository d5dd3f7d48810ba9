package cli

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/timesplit/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newImportCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "import FILE",
		Short: "Import responses from a JSON file",
		Long: `Import responses from a JSON file shaped like the output of
"responses export". Every entry is checked first; if any entry is
invalid nothing is written. Entries replace stored responses with the
same name.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := app.Import.ImportResponses(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Imported %s (%d new, %d replaced).\n",
				formatter.Count(result.Imported, "response"), result.Created, result.Replaced)
			if len(result.Names) > 0 {
				fmt.Fprintln(out, formatter.Dim(strings.Join(result.Names, ", ")))
			}
			return nil
		},
	}
}
