package formatter

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
)

var boxStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(ColorDim).
	Padding(1, 2)

// RenderBox draws content inside a rounded border, headed by title when it
// is not empty.
func RenderBox(title, content string) string {
	if title == "" {
		return boxStyle.Render(content)
	}
	return boxStyle.Render(StyleHeader.Render(strings.ToUpper(title)) + "\n\n" + content)
}

// Percent formats v with one decimal and a percent sign. Values that are
// within rounding of an integer drop the decimal.
func Percent(v float64) string {
	if r := math.Round(v); math.Abs(v-r) < 0.05 {
		if r == 0 {
			r = 0 // drop the sign of -0
		}
		return fmt.Sprintf("%.0f%%", r)
	}
	return fmt.Sprintf("%.1f%%", v)
}

// HumanTime renders t relative to now, e.g. "3 hours ago".
func HumanTime(t time.Time) string {
	return HumanTimeFrom(t, time.Now())
}

// HumanTimeFrom renders t relative to now.
func HumanTimeFrom(t, now time.Time) string {
	if t.IsZero() {
		return "never"
	}
	if d := now.Sub(t); d >= 0 && d < time.Minute {
		return "just now"
	}
	return humanize.RelTime(t, now, "ago", "from now")
}

// Count renders n with thousands separators and a pluralized noun.
func Count(n int, noun string) string {
	if n != 1 {
		noun += "s"
	}
	return humanize.Comma(int64(n)) + " " + noun
}
