package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/timesplit/internal/allocation"
	"github.com/charmbracelet/lipgloss"
)

// Gruvbox palette shared by the tables, the report and the slider form.
var (
	ColorGreen  = lipgloss.Color("#8ec07c")
	ColorYellow = lipgloss.Color("#fabd2f")
	ColorRed    = lipgloss.Color("#fb4934")
	ColorBlue   = lipgloss.Color("#83a598")
	ColorPurple = lipgloss.Color("#d3869b")
	ColorDim    = lipgloss.Color("#928374")
	ColorFg     = lipgloss.Color("#ebdbb2")
	ColorHeader = lipgloss.Color("#fe8019")
)

// Base styles, one per palette color.
var (
	StyleGreen  = lipgloss.NewStyle().Foreground(ColorGreen)
	StyleYellow = lipgloss.NewStyle().Foreground(ColorYellow)
	StyleRed    = lipgloss.NewStyle().Foreground(ColorRed)
	StyleBlue   = lipgloss.NewStyle().Foreground(ColorBlue)
	StylePurple = lipgloss.NewStyle().Foreground(ColorPurple)
	StyleDim    = lipgloss.NewStyle().Foreground(ColorDim)
	StyleFg     = lipgloss.NewStyle().Foreground(ColorFg)
	StyleHeader = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	StyleBold   = lipgloss.NewStyle().Foreground(ColorFg).Bold(true)
)

// Slider form styles.
var (
	StyleCursor = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	StyleGroup  = lipgloss.NewStyle().Foreground(ColorPurple).Bold(true)
	StyleLocked = StyleBlue
)

// BalanceStyle colors a running total: green when complete, red when over
// 100 and yellow when short.
func BalanceStyle(b allocation.Balance) lipgloss.Style {
	switch {
	case b.Complete:
		return StyleGreen
	case b.Over():
		return StyleRed
	default:
		return StyleYellow
	}
}

// BalanceLine renders "Total 97.5%  (2.5% left)" in the balance color.
func BalanceLine(b allocation.Balance) string {
	total := BalanceStyle(b).Render(fmt.Sprintf("Total %s", Percent(b.Total)))
	switch {
	case b.Complete:
		return total + "  " + StyleGreen.Render("✔ ready to submit")
	case b.Over():
		return total + "  " + StyleRed.Render(fmt.Sprintf("(%s over)", Percent(b.Difference)))
	default:
		return total + "  " + StyleYellow.Render(fmt.Sprintf("(%s left)", Percent(-b.Difference)))
	}
}

// CompleteMark returns a check or cross for a completeness flag.
func CompleteMark(complete bool) string {
	if complete {
		return StyleGreen.Render("✔")
	}
	return StyleRed.Render("✖")
}

// Header renders a section header with the orange header style and an underline.
func Header(text string) string {
	upper := strings.ToUpper(text)
	line := strings.Repeat("─", lipgloss.Width(upper))
	return fmt.Sprintf("%s\n%s", StyleHeader.Render(upper), StyleDim.Render(line))
}

// Dim renders text in the muted/dim color.
func Dim(text string) string {
	return StyleDim.Render(text)
}

// Bold renders text in bold with the foreground color.
func Bold(text string) string {
	return StyleBold.Render(text)
}
