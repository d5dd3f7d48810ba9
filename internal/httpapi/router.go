package httpapi

import (
	"log/slog"
	"net/http"

	"github.com/alexanderramin/timesplit/internal/catalog"
	"github.com/alexanderramin/timesplit/internal/service"
)

// Deps are the collaborators the router needs.
type Deps struct {
	Catalog    *catalog.Catalog
	Survey     service.SurveyService
	Reports    service.ReportService
	Allocation service.AllocationService
	Logger     *slog.Logger
	CORSOrigin string
}

func NewRouter(d Deps) http.Handler {
	logger := d.Logger
	if logger == nil {
		logger = slog.Default()
	}
	h := &Handler{
		catalog:    d.Catalog,
		survey:     d.Survey,
		reports:    d.Reports,
		allocation: d.Allocation,
		logger:     logger,
	}
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Catalog
	mux.HandleFunc("GET /catalog", WithLogging(logger, h.ListRoles))
	mux.HandleFunc("GET /catalog/{role}", WithLogging(logger, h.GetRole))

	// Stateless allocation forms
	mux.HandleFunc("POST /allocations/init", WithLogging(logger, h.InitAllocation))
	mux.HandleFunc("POST /allocations/edit", WithLogging(logger, h.EditAllocation))
	mux.HandleFunc("POST /allocations/auto-adjust", WithLogging(logger, h.AutoAdjust))

	// Responses
	mux.HandleFunc("POST /responses", WithLogging(logger, h.SubmitResponse))
	mux.HandleFunc("GET /responses", WithLogging(logger, h.ListResponses))
	mux.HandleFunc("GET /responses/{name}", WithLogging(logger, h.GetResponse))
	mux.HandleFunc("DELETE /responses/{name}", WithLogging(logger, h.DeleteResponse))

	mux.HandleFunc("GET /results", WithLogging(logger, h.Results))

	return CORS(d.CORSOrigin, mux)
}
