package formatter

import (
	"fmt"
	"strings"
)

const (
	filledBlock = "█"
	emptyBlock  = "░"

	// ShareWidth is the bar width used in the per-feature budget table.
	ShareWidth = 10
)

// RenderShare renders a part of a whole as a bar like [████░░░░░░]  40%.
// A non-positive whole renders an empty bar with N/A.
// Shares above 50% are highlighted so the dominant feature stands out.
func RenderShare(part, whole float64, width int) string {
	if width < 2 {
		width = 2
	}
	if whole <= 0 {
		return fmt.Sprintf("[%s] %4s", strings.Repeat(emptyBlock, width), NotAvailable)
	}

	pct := part / whole
	if pct < 0 {
		pct = 0
	}
	if pct > 1 {
		pct = 1
	}

	filled := int(pct*float64(width) + 0.5)
	if filled > width {
		filled = width
	}
	bar := strings.Repeat(filledBlock, filled) + strings.Repeat(emptyBlock, width-filled)

	style := StyleBlue
	if pct > 0.5 {
		style = StyleYellow
	}
	return fmt.Sprintf("[%s] %3.0f%%", style.Render(bar), pct*100)
}
