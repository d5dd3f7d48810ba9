package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/timesplit/internal/allocation"
	"github.com/alexanderramin/timesplit/internal/catalog"
	"github.com/alexanderramin/timesplit/internal/domain"
)

// FormatResponseList renders stored responses as a table.
func FormatResponseList(responses []*domain.Response) string {
	if len(responses) == 0 {
		return Dim("No responses found.") + "\n"
	}
	rows := make([][]string, 0, len(responses))
	for _, r := range responses {
		keys := r.Keys()
		rows = append(rows, []string{
			r.Name,
			r.Team,
			string(r.Role),
			CompleteMark(allocation.IsComplete(r.Allocation, keys)),
			Dim(HumanTime(r.UpdatedAt)),
		})
	}
	return RenderTable([]string{"NAME", "TEAM", "ROLE", "OK", "UPDATED"}, rows) +
		Dim(Count(len(responses), "response")) + "\n"
}

// FormatResponseDetail renders one response grouped by the role's catalog.
// Keys the catalog no longer knows are listed under "Other".
func FormatResponseDetail(r *domain.Response, spec catalog.RoleSpec) string {
	var b strings.Builder

	meta := fmt.Sprintf("%s  %s\n%s  %s\n%s  %s\n%s  %s",
		Dim("Team   "), r.Team,
		Dim("Role   "), spec.Label,
		Dim("Created"), r.CreatedAt.Format("2006-01-02 15:04"),
		Dim("Updated"), fmt.Sprintf("%s (%s)", r.UpdatedAt.Format("2006-01-02 15:04"), HumanTime(r.UpdatedAt)),
	)
	b.WriteString(RenderBox(r.Name, meta))
	b.WriteString("\n\n")

	for _, g := range spec.Groups {
		b.WriteString(Header(fmt.Sprintf("%s (%s)", g.Title, Percent(r.SumOf(g.Keys())))))
		b.WriteString("\n")
		rows := make([][]string, 0, len(g.Fields))
		for _, f := range g.Fields {
			v := r.Allocation[f.Key]
			rows = append(rows, []string{f.Label, PercentBar(v, 20, false), Percent(v)})
		}
		b.WriteString(RenderTable([]string{"CATEGORY", "", "SHARE"}, rows, 2))
		b.WriteString("\n")
	}

	var extra [][]string
	for _, k := range r.Keys() {
		if !spec.HasKey(k) {
			extra = append(extra, []string{k, Percent(r.Allocation[k])})
		}
	}
	if len(extra) > 0 {
		b.WriteString(Header("Other"))
		b.WriteString("\n")
		b.WriteString(RenderTable([]string{"KEY", "SHARE"}, extra, 1))
		b.WriteString("\n")
	}

	keys := spec.Keys()
	b.WriteString(BalanceLine(allocation.Measure(r.Allocation, keys)))
	b.WriteString("\n")
	return b.String()
}
