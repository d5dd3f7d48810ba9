package formatter

import (
	"strings"
)

const (
	filledBlock = "█"
	emptyBlock  = "░"
)

// PercentBar renders pct (0-100) as a bar of width cells. Locked bars are
// drawn in blue so they stand out from the adjustable ones.
func PercentBar(pct float64, width int, locked bool) string {
	if width < 2 {
		width = 2
	}
	pct = max(0, min(100, pct))

	filled := int(pct/100*float64(width) + 0.5)
	filled = min(filled, width)
	if pct > 0 && filled == 0 {
		filled = 1
	}

	style := StyleGreen
	if locked {
		style = StyleLocked
	}
	return style.Render(strings.Repeat(filledBlock, filled)) + StyleDim.Render(strings.Repeat(emptyBlock, width-filled))
}
