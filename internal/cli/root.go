package cli

import (
	"log/slog"
	"net/http"

	"github.com/alexanderramin/timesplit/internal/allocation"
	"github.com/alexanderramin/timesplit/internal/catalog"
	"github.com/alexanderramin/timesplit/internal/service"
	"github.com/spf13/cobra"
)

// App holds the services and settings the CLI commands run against.
type App struct {
	Survey     service.SurveyService
	Reports    service.ReportService
	Import     service.ImportService
	Allocation service.AllocationService
	Catalog    *catalog.Catalog

	// Strategy is the default rebalancing strategy of the survey form.
	Strategy allocation.Strategy

	// IsInteractive reports whether stdin is a terminal. Nil means no.
	IsInteractive func() bool

	// Handler serves the HTTP API for `timesplit serve`.
	Handler http.Handler
	Port    int
	Logger  *slog.Logger
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}

func (a *App) logger() *slog.Logger {
	if a.Logger == nil {
		return slog.Default()
	}
	return a.Logger
}

// NewRootCmd creates the top-level "timesplit" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "timesplit",
		Short:         "Time allocation survey",
		Long:          "Collect how people split their working time across categories and report on the answers.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newSurveyCmd(app),
		newSubmitCmd(app),
		newResultsCmd(app),
		newResponsesCmd(app),
		newImportCmd(app),
		newCatalogCmd(app),
		newServeCmd(app),
	)

	return root
}
