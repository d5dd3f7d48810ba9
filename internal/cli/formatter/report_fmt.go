package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/timesplit/internal/contract"
)

// FormatReport renders the results view: summary, role counts, team
// table, per-field averages and the response rows.
func FormatReport(r *contract.ReportResponse) string {
	var b strings.Builder

	b.WriteString(Header(fmt.Sprintf("Results: %s", r.RoleLabel)))
	b.WriteString("\n")

	counts := make([]string, 0, len(r.RoleCounts))
	for _, rc := range r.RoleCounts {
		counts = append(counts, fmt.Sprintf("%s %d", rc.Label, rc.Count))
	}
	b.WriteString(Dim("Responses by role: " + strings.Join(counts, " · ")))
	b.WriteString("\n\n")

	if r.Stats == nil {
		b.WriteString(Dim("No responses yet."))
		b.WriteString("\n")
		return b.String()
	}

	summary := fmt.Sprintf("%s\nDevelopment process  %s\nDaily tasks          %s",
		Bold(Count(r.Stats.TotalResponses, "response")),
		Percent(r.Stats.AvgDevelopment),
		Percent(r.Stats.AvgDaily),
	)
	b.WriteString(RenderBox("Averages", summary))
	b.WriteString("\n\n")

	b.WriteString(Header("Teams"))
	b.WriteString("\n")
	teamRows := make([][]string, 0, len(r.Teams))
	for _, t := range r.Teams {
		teamRows = append(teamRows, []string{t.Team, fmt.Sprint(t.Count), Percent(t.AvgDevelopment), Percent(t.AvgDaily)})
	}
	b.WriteString(RenderTable([]string{"TEAM", "COUNT", "DEV", "DAILY"}, teamRows, 1, 2, 3))
	b.WriteString("\n")

	for _, g := range r.FieldAverages {
		b.WriteString(Header(g.Title))
		b.WriteString("\n")
		rows := make([][]string, 0, len(g.Fields))
		for _, f := range g.Fields {
			rows = append(rows, []string{f.Label, PercentBar(f.Average, 20, false), Percent(f.Average)})
		}
		b.WriteString(RenderTable([]string{"CATEGORY", "", "AVG"}, rows, 2))
		b.WriteString("\n")
	}

	b.WriteString(Header("Responses"))
	b.WriteString("\n")
	if len(r.Rows) == 0 {
		b.WriteString(Dim("No response matches the search."))
		b.WriteString("\n")
		return b.String()
	}
	rows := make([][]string, 0, len(r.Rows))
	for _, row := range r.Rows {
		rows = append(rows, []string{
			row.Name,
			row.Team,
			Percent(row.Development),
			Percent(row.Daily),
			CompleteMark(row.Complete),
			Dim(HumanTime(row.UpdatedAt)),
		})
	}
	b.WriteString(RenderTable([]string{"NAME", "TEAM", "DEV", "DAILY", "OK", "UPDATED"}, rows, 2, 3))
	return b.String()
}
