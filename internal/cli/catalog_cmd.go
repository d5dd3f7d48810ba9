package cli

import (
	"fmt"

	"github.com/alexanderramin/timesplit/internal/catalog"
	"github.com/alexanderramin/timesplit/internal/cli/formatter"
	"github.com/alexanderramin/timesplit/internal/domain"
	"github.com/spf13/cobra"
)

func newCatalogCmd(app *App) *cobra.Command {
	var asYAML bool

	cmd := &cobra.Command{
		Use:   "catalog [ROLE]",
		Short: "Show the roles and their categories",
		Long: `Without ROLE, list every role. With ROLE, show its category groups
and teams. --yaml prints the whole catalog in the format TIMESPLIT_CATALOG
accepts, which is a starting point for a custom catalog.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			if asYAML {
				data, err := catalog.Marshal(app.Catalog)
				if err != nil {
					return err
				}
				_, err = out.Write(data)
				return err
			}

			if len(args) == 0 {
				fmt.Fprint(out, formatter.FormatCatalog(app.Catalog.Roles(), app.Catalog.DefaultRole()))
				return nil
			}

			spec, ok := app.Catalog.Lookup(domain.NormalizeRole(args[0]))
			if !ok {
				return fmt.Errorf("unknown role %q", args[0])
			}
			fmt.Fprint(out, formatter.FormatRole(spec))
			return nil
		},
	}

	cmd.Flags().BoolVar(&asYAML, "yaml", false, "print the catalog as YAML")
	return cmd
}
