package httpapi

import (
	"log/slog"
	"net/http"

	"github.com/alexanderramin/timesplit/internal/catalog"
	"github.com/alexanderramin/timesplit/internal/contract"
	"github.com/alexanderramin/timesplit/internal/domain"
	"github.com/alexanderramin/timesplit/internal/service"
)

// Handler serves the survey API.
type Handler struct {
	catalog    *catalog.Catalog
	survey     service.SurveyService
	reports    service.ReportService
	allocation service.AllocationService
	logger     *slog.Logger
}

func (h *Handler) ListRoles(w http.ResponseWriter, r *http.Request) {
	JSONResponse(w, http.StatusOK, map[string]any{
		"default_role": h.catalog.DefaultRole(),
		"roles":        h.catalog.Roles(),
	})
}

// GetRole handles GET /catalog/{role}.
func (h *Handler) GetRole(w http.ResponseWriter, r *http.Request) {
	spec, ok := h.catalog.Lookup(domain.Role(r.PathValue("role")))
	if !ok {
		ErrorResponse(w, http.StatusNotFound, "unknown role "+r.PathValue("role"))
		return
	}
	JSONResponse(w, http.StatusOK, spec)
}

func (h *Handler) InitAllocation(w http.ResponseWriter, r *http.Request) {
	var req contract.InitAllocationRequest
	if err := ParseJSONBody(w, r, &req); err != nil {
		ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}
	resp, err := h.allocation.Init(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	JSONResponse(w, http.StatusOK, resp)
}

func (h *Handler) EditAllocation(w http.ResponseWriter, r *http.Request) {
	var req contract.EditAllocationRequest
	if err := ParseJSONBody(w, r, &req); err != nil {
		ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}
	resp, err := h.allocation.Edit(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	JSONResponse(w, http.StatusOK, resp)
}

// AutoAdjust handles POST /allocations/auto-adjust. Lock budget problems
// are reported as 422 and the caller's state stays as it was.
func (h *Handler) AutoAdjust(w http.ResponseWriter, r *http.Request) {
	var req contract.AutoAdjustRequest
	if err := ParseJSONBody(w, r, &req); err != nil {
		ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}
	resp, err := h.allocation.AutoAdjust(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	JSONResponse(w, http.StatusOK, resp)
}

func (h *Handler) SubmitResponse(w http.ResponseWriter, r *http.Request) {
	var req contract.SubmitRequest
	if err := ParseJSONBody(w, r, &req); err != nil {
		ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}
	resp, err := h.survey.Submit(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	status := http.StatusCreated
	if resp.Replaced {
		status = http.StatusOK
	}
	JSONResponse(w, status, resp)
}

func (h *Handler) ListResponses(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	list, err := h.survey.List(r.Context(), contract.ListRequest{
		Role:  domain.Role(q.Get("role")),
		Team:  q.Get("team"),
		Query: q.Get("q"),
	})
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	views := make([]contract.ResponseView, 0, len(list))
	for _, resp := range list {
		views = append(views, contract.NewResponseView(resp))
	}
	JSONResponse(w, http.StatusOK, map[string]any{"responses": views})
}

func (h *Handler) GetResponse(w http.ResponseWriter, r *http.Request) {
	resp, err := h.survey.Get(r.Context(), r.PathValue("name"))
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	JSONResponse(w, http.StatusOK, contract.NewResponseView(resp))
}

func (h *Handler) DeleteResponse(w http.ResponseWriter, r *http.Request) {
	if err := h.survey.Delete(r.Context(), r.PathValue("name")); err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Results handles GET /results?role=&team=&q=.
func (h *Handler) Results(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	req := contract.NewReportRequest()
	if role := q.Get("role"); role != "" {
		req.Role = domain.NormalizeRole(role)
	}
	req.Team = q.Get("team")
	req.Search = q.Get("q")

	report, err := h.reports.Report(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	JSONResponse(w, http.StatusOK, report)
}
