package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/timesplit/internal/catalog"
	"github.com/alexanderramin/timesplit/internal/domain"
)

// FormatCatalog lists every role with its category and team counts.
func FormatCatalog(roles []catalog.RoleSpec, defaultRole domain.Role) string {
	rows := make([][]string, 0, len(roles))
	for _, spec := range roles {
		name := string(spec.Role)
		if spec.Role == defaultRole {
			name += Dim(" (default)")
		}
		rows = append(rows, []string{
			name,
			spec.Label,
			fmt.Sprint(len(spec.GroupKeys(catalog.DevelopmentProcess))),
			fmt.Sprint(len(spec.GroupKeys(catalog.DailyTasks))),
			fmt.Sprint(len(spec.Teams)),
		})
	}
	return RenderTable([]string{"ROLE", "LABEL", "DEV", "DAILY", "TEAMS"}, rows, 2, 3, 4)
}

// FormatRole renders one role's groups, fields and teams.
func FormatRole(spec catalog.RoleSpec) string {
	var b strings.Builder
	b.WriteString(Header(fmt.Sprintf("%s (%s)", spec.Label, spec.Role)))
	b.WriteString("\n")
	for _, g := range spec.Groups {
		b.WriteString("\n")
		b.WriteString(Bold(g.Title))
		b.WriteString("\n")
		for _, f := range g.Fields {
			line := fmt.Sprintf("  %-32s %s", f.Key, Dim(f.Label))
			if v, ok := spec.Preset[f.Key]; ok {
				line += StyleBlue.Render(fmt.Sprintf("  preset %s", Percent(v)))
			}
			b.WriteString(line)
			b.WriteString("\n")
		}
	}
	b.WriteString("\n")
	b.WriteString(Bold("Teams"))
	b.WriteString("\n")
	for _, t := range spec.Teams {
		b.WriteString("  " + t + "\n")
	}
	return b.String()
}
