package formatter

import (
	"strconv"
	"strings"

	"github.com/alexanderramin/scopewise/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

// NotAvailable is shown for values the model did not provide.
const NotAvailable = "N/A"

// RenderBox wraps content in a rounded-border box with an optional title.
func RenderBox(title string, content string) string {
	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorDim).
		PaddingLeft(2).
		PaddingRight(2).
		PaddingTop(1).
		PaddingBottom(1)

	if title != "" {
		titleRendered := StyleHeader.Render(strings.ToUpper(title))
		inner := titleRendered + "\n\n" + content
		return boxStyle.Render(inner)
	}

	return boxStyle.Render(content)
}

// Truncate shortens s to at most max runes, appending "..." when cut.
func Truncate(s string, max int) string {
	r := []rune(s)
	if max <= 0 || len(r) <= max {
		return s
	}
	return string(r[:max]) + "..."
}

// FormatNumber prints v rounded to cents without trailing zeros.
func FormatNumber(v float64) string {
	return strconv.FormatFloat(domain.Round2(v), 'f', -1, 64)
}

// FormatHours renders an hour value, or N/A when absent.
func FormatHours(h domain.Hours) string {
	if !h.Present {
		return NotAvailable
	}
	return FormatNumber(h.Value)
}

// FormatMoney renders v as dollars with thousands separators, e.g. "$12,345.60".
func FormatMoney(v float64) string {
	neg := v < 0
	if neg {
		v = -v
	}
	s := strconv.FormatFloat(domain.Round2(v), 'f', 2, 64)
	intPart, frac := s[:len(s)-3], s[len(s)-3:]

	var b strings.Builder
	for i, c := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(c)
	}

	out := "$" + b.String() + frac
	if neg {
		return "-" + out
	}
	return out
}

// FormatOptionalMoney renders a possibly missing amount.
func FormatOptionalMoney(v *float64) string {
	if v == nil {
		return NotAvailable
	}
	return FormatMoney(*v)
}

// OrNA returns s, or N/A when s is blank.
func OrNA(s string) string {
	if strings.TrimSpace(s) == "" {
		return NotAvailable
	}
	return s
}
