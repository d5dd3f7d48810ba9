package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/alexanderramin/timesplit/internal/allocation"
	"github.com/alexanderramin/timesplit/internal/catalog"
	"github.com/alexanderramin/timesplit/internal/contract"
	"github.com/alexanderramin/timesplit/internal/domain"
	"github.com/alexanderramin/timesplit/internal/repository"
)

type reportService struct {
	responses repository.ResponseRepo
	catalog   *catalog.Catalog
	observer  UseCaseObserver
}

func NewReportService(responses repository.ResponseRepo, cat *catalog.Catalog, observers ...UseCaseObserver) ReportService {
	return &reportService{
		responses: responses,
		catalog:   cat,
		observer:  useCaseObserverOrNoop(observers),
	}
}

func (s *reportService) Report(ctx context.Context, req contract.ReportRequest) (_ *contract.ReportResponse, err error) {
	startedAt := time.Now()
	spec := s.catalog.Resolve(req.Role)
	fields := map[string]any{"role": string(spec.Role)}
	defer func() { observe(ctx, s.observer, "report.build", startedAt, fields, err) }()

	team := strings.TrimSpace(req.Team)
	list, err := s.responses.List(ctx, repository.ResponseFilter{Role: spec.Role, Team: team})
	if err != nil {
		return nil, fmt.Errorf("loading responses: %w", err)
	}
	counts, err := s.responses.CountByRole(ctx)
	if err != nil {
		return nil, fmt.Errorf("counting responses: %w", err)
	}
	fields["responses"] = len(list)

	devKeys := spec.GroupKeys(catalog.DevelopmentProcess)
	dailyKeys := spec.GroupKeys(catalog.DailyTasks)

	out := &contract.ReportResponse{
		Role:          spec.Role,
		RoleLabel:     spec.Label,
		FieldAverages: []contract.GroupAverages{},
		Teams:         []contract.TeamStat{},
		RoleCounts:    roleCounts(s.catalog, counts),
		Rows:          []contract.ReportRow{},
	}
	if len(list) == 0 {
		return out, nil
	}

	n := float64(len(list))
	var devTotal, dailyTotal float64
	for _, r := range list {
		devTotal += r.SumOf(devKeys)
		dailyTotal += r.SumOf(dailyKeys)
	}
	out.Stats = &contract.ReportStats{
		TotalResponses: len(list),
		AvgDevelopment: devTotal / n,
		AvgDaily:       dailyTotal / n,
	}
	out.FieldAverages = fieldAverages(spec, list)
	out.Teams = teamStats(list, devKeys, dailyKeys)

	keys := spec.Keys()
	query := strings.ToLower(strings.TrimSpace(req.Search))
	for _, r := range list {
		if query != "" && !strings.Contains(strings.ToLower(r.Name), query) {
			continue
		}
		values := make(map[string]float64, len(keys))
		for _, k := range keys {
			values[k] = r.Allocation[k]
		}
		out.Rows = append(out.Rows, contract.ReportRow{
			Name:        r.Name,
			Team:        r.Team,
			Development: r.SumOf(devKeys),
			Daily:       r.SumOf(dailyKeys),
			Total:       r.SumOf(keys),
			Complete:    allocation.IsComplete(values, keys),
			Allocation:  values,
			UpdatedAt:   r.UpdatedAt,
		})
	}
	return out, nil
}

func fieldAverages(spec catalog.RoleSpec, list []*domain.Response) []contract.GroupAverages {
	n := float64(len(list))
	out := make([]contract.GroupAverages, 0, len(spec.Groups))
	for _, g := range spec.Groups {
		ga := contract.GroupAverages{Group: g.ID, Title: g.Title}
		for _, f := range g.Fields {
			var total float64
			for _, r := range list {
				total += r.Allocation[f.Key]
			}
			ga.Fields = append(ga.Fields, contract.FieldAverage{Key: f.Key, Label: f.Label, Average: total / n})
		}
		out = append(out, ga)
	}
	return out
}

func teamStats(list []*domain.Response, devKeys, dailyKeys []string) []contract.TeamStat {
	type acc struct {
		count      int
		dev, daily float64
	}
	byTeam := make(map[string]*acc)
	for _, r := range list {
		a, ok := byTeam[r.Team]
		if !ok {
			a = &acc{}
			byTeam[r.Team] = a
		}
		a.count++
		a.dev += r.SumOf(devKeys)
		a.daily += r.SumOf(dailyKeys)
	}

	out := make([]contract.TeamStat, 0, len(byTeam))
	for team, a := range byTeam {
		out = append(out, contract.TeamStat{
			Team:           team,
			Count:          a.count,
			AvgDevelopment: a.dev / float64(a.count),
			AvgDaily:       a.daily / float64(a.count),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Team < out[j].Team
	})
	return out
}

// roleCounts lists catalog roles in definition order, then any stored role
// the catalog no longer defines.
func roleCounts(cat *catalog.Catalog, counts map[domain.Role]int) []contract.RoleCount {
	var out []contract.RoleCount
	seen := make(map[domain.Role]bool)
	for _, spec := range cat.Roles() {
		seen[spec.Role] = true
		out = append(out, contract.RoleCount{Role: spec.Role, Label: spec.Label, Count: counts[spec.Role]})
	}
	var extra []domain.Role
	for role := range counts {
		if !seen[role] {
			extra = append(extra, role)
		}
	}
	sort.Slice(extra, func(i, j int) bool { return extra[i] < extra[j] })
	for _, role := range extra {
		out = append(out, contract.RoleCount{Role: role, Label: string(role), Count: counts[role]})
	}
	return out
}
