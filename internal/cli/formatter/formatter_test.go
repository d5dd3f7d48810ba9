package formatter

import (
	"strings"
	"testing"
	"time"

	"github.com/alexanderramin/timesplit/internal/allocation"
	"github.com/alexanderramin/timesplit/internal/catalog"
	"github.com/alexanderramin/timesplit/internal/contract"
	"github.com/alexanderramin/timesplit/internal/domain"
	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
)

func TestPercent(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{100, "100%"},
		{4.7619, "4.8%"},
		{33.333, "33.3%"},
		{49.98, "50%"},
		{-0.01, "0%"},
		{0, "0%"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Percent(tt.in), "Percent(%v)", tt.in)
	}
}

func TestPercentBar(t *testing.T) {
	tests := []struct {
		name       string
		pct        float64
		width      int
		wantFilled int
	}{
		{"zero", 0, 10, 0},
		{"half", 50, 10, 5},
		{"full", 100, 10, 10},
		{"over clamps", 150, 10, 10},
		{"negative clamps", -5, 10, 0},
		{"tiny value shows a cell", 0.5, 10, 1},
		{"tiny width clamps to 2", 50, 1, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PercentBar(tt.pct, tt.width, false)
			assert.Equal(t, tt.wantFilled, strings.Count(got, filledBlock))
			assert.Equal(t, max(tt.width, 2), lipgloss.Width(got))
		})
	}
}

func TestRenderTable_Alignment(t *testing.T) {
	out := RenderTable([]string{"NAME", "PCT"}, [][]string{
		{"Ada", "5%"},
		{"Grace", "100%"},
	}, 1)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	assert.Len(t, lines, 4)
	assert.Equal(t, lipgloss.Width(lines[2]), lipgloss.Width(lines[3]), "right-aligned rows share a width")
	assert.True(t, strings.HasSuffix(lines[2], "  5%"))
	assert.Empty(t, RenderTable(nil, nil))
}

func TestHumanTimeFrom(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, "just now", HumanTimeFrom(now.Add(-10*time.Second), now))
	assert.Equal(t, "3 hours ago", HumanTimeFrom(now.Add(-3*time.Hour), now))
	assert.Equal(t, "2 days ago", HumanTimeFrom(now.Add(-48*time.Hour), now))
	assert.Equal(t, "never", HumanTimeFrom(time.Time{}, now))
}

func TestCount(t *testing.T) {
	assert.Equal(t, "1 response", Count(1, "response"))
	assert.Equal(t, "1,204 responses", Count(1204, "response"))
}

func TestBalanceLine(t *testing.T) {
	keys := []string{"a", "b"}
	assert.Contains(t, BalanceLine(allocation.Measure(allocation.State{"a": 60, "b": 40}, keys)), "ready to submit")
	assert.Contains(t, BalanceLine(allocation.Measure(allocation.State{"a": 60, "b": 50}, keys)), "10% over")
	assert.Contains(t, BalanceLine(allocation.Measure(allocation.State{"a": 60, "b": 37.5}, keys)), "2.5% left")
}

func TestFormatReport(t *testing.T) {
	empty := FormatReport(&contract.ReportResponse{
		RoleLabel:  "Server",
		RoleCounts: []contract.RoleCount{{Role: domain.RoleServer, Label: "Server"}},
	})
	assert.Contains(t, empty, "RESULTS: SERVER")
	assert.Contains(t, empty, "No responses yet.")

	full := FormatReport(&contract.ReportResponse{
		RoleLabel: "QA",
		Stats:     &contract.ReportStats{TotalResponses: 2, AvgDevelopment: 62.5, AvgDaily: 37.5},
		Teams:     []contract.TeamStat{{Team: "Content Quality", Count: 2, AvgDevelopment: 62.5, AvgDaily: 37.5}},
		FieldAverages: []contract.GroupAverages{{
			Title:  "Daily tasks",
			Fields: []contract.FieldAverage{{Key: "qa_bugbash", Label: "Bug bash", Average: 37.5}},
		}},
		Rows: []contract.ReportRow{{Name: "Ada", Team: "Content Quality", Development: 62.5, Daily: 37.5, Complete: true, UpdatedAt: time.Now()}},
	})
	assert.Contains(t, full, "2 responses")
	assert.Contains(t, full, "62.5%")
	assert.Contains(t, full, "Content Quality")
	assert.Contains(t, full, "Bug bash")
	assert.Contains(t, full, "Ada")
}

func TestFormatResponseDetail(t *testing.T) {
	spec := catalog.Default().Resolve(domain.RoleServer)
	resp := &domain.Response{
		Name: "Ada", Team: "Membership", Role: domain.RoleServer,
		Allocation: map[string]float64{"bugfix": 70, "meetings": 30, "retired_key": 5},
		CreatedAt:  time.Now(), UpdatedAt: time.Now(),
	}

	out := FormatResponseDetail(resp, spec)
	assert.Contains(t, out, "ADA")
	assert.Contains(t, out, "DEVELOPMENT PROCESS (70%)")
	assert.Contains(t, out, "DAILY TASKS (30%)")
	assert.Contains(t, out, "retired_key")
	assert.Contains(t, out, "ready to submit")
}

func TestFormatCatalog(t *testing.T) {
	cat := catalog.Default()

	out := FormatCatalog(cat.Roles(), cat.DefaultRole())
	assert.Contains(t, out, "server (default)")
	assert.Contains(t, out, "frontend")
	assert.Contains(t, out, "13")

	role := FormatRole(cat.Resolve(domain.RoleQA))
	assert.Contains(t, role, "qa_bugbash")
	assert.Contains(t, role, "Content Quality")
}

func TestFormatResponseList(t *testing.T) {
	assert.Contains(t, FormatResponseList(nil), "No responses found.")

	out := FormatResponseList([]*domain.Response{
		{Name: "Ada", Team: "Membership", Role: domain.RoleServer, Allocation: map[string]float64{"bugfix": 100}, UpdatedAt: time.Now()},
	})
	assert.Contains(t, out, "Ada")
	assert.Contains(t, out, "1 response")
}
