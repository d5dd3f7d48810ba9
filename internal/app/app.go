package app

import (
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/alexanderramin/timesplit/internal/allocation"
	"github.com/alexanderramin/timesplit/internal/catalog"
	"github.com/alexanderramin/timesplit/internal/config"
	"github.com/alexanderramin/timesplit/internal/db"
	"github.com/alexanderramin/timesplit/internal/httpapi"
	"github.com/alexanderramin/timesplit/internal/repository"
	"github.com/alexanderramin/timesplit/internal/service"
)

// Services is the wired application: storage, catalog and every service
// the transports use.
type Services struct {
	Config     config.Config
	Catalog    *catalog.Catalog
	Strategy   allocation.Strategy
	Survey     service.SurveyService
	Reports    service.ReportService
	Import     service.ImportService
	Allocation service.AllocationService
	Logger     *slog.Logger

	db *sql.DB
}

// Open connects to the configured database, loads the catalog and wires
// the services. Close releases the database.
func Open(cfg config.Config, logger *slog.Logger) (*Services, error) {
	cat, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		return nil, err
	}
	strategy, err := allocation.ParseStrategy(cfg.Strategy)
	if err != nil {
		return nil, err
	}

	dialect := cfg.Dialect()
	database, err := db.Open(dialect, cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	return Wire(database, dialect, cat, strategy, cfg, logger), nil
}

// Wire builds the services over an open, migrated database.
func Wire(database *sql.DB, dialect db.Dialect, cat *catalog.Catalog, strategy allocation.Strategy, cfg config.Config, logger *slog.Logger) *Services {
	if logger == nil {
		logger = slog.Default()
	}
	var observer service.UseCaseObserver = service.NoopUseCaseObserver{}
	if cfg.LogUseCases {
		observer = service.NewLogUseCaseObserver(logger)
	}

	responses := repository.NewSQLResponseRepo(db.Wrap(database, dialect))
	uow := db.NewUnitOfWork(database, dialect)

	return &Services{
		Config:     cfg,
		Catalog:    cat,
		Strategy:   strategy,
		Survey:     service.NewSurveyService(responses, uow, cat, observer),
		Reports:    service.NewReportService(responses, cat, observer),
		Import:     service.NewImportService(responses, uow, cat, observer),
		Allocation: service.NewAllocationService(cat, observer),
		Logger:     logger,
		db:         database,
	}
}

// Handler returns the HTTP API over s.
func (s *Services) Handler() http.Handler {
	return httpapi.NewRouter(httpapi.Deps{
		Catalog:    s.Catalog,
		Survey:     s.Survey,
		Reports:    s.Reports,
		Allocation: s.Allocation,
		Logger:     s.Logger,
		CORSOrigin: s.Config.CORSOrigin,
	})
}

func (s *Services) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}
