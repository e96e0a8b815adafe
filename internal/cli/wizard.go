package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alexanderramin/scopewise/internal/cli/formatter"
	"github.com/alexanderramin/scopewise/internal/domain"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// scopewiseHuhTheme returns a custom huh theme using the Gruvbox palette.
func scopewiseHuhTheme() *huh.Theme {
	t := huh.ThemeBase()

	// Focused state: orange accent
	t.Focused.Title = lipgloss.NewStyle().Foreground(formatter.ColorHeader).Bold(true)
	t.Focused.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorGreen)
	t.Focused.SelectedPrefix = lipgloss.NewStyle().Foreground(formatter.ColorGreen).SetString("[x] ")
	t.Focused.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.UnselectedPrefix = lipgloss.NewStyle().Foreground(formatter.ColorDim).SetString("[ ] ")
	t.Focused.FocusedButton = lipgloss.NewStyle().Foreground(formatter.ColorFg).Background(formatter.ColorHeader).Padding(0, 1)
	t.Focused.BlurredButton = lipgloss.NewStyle().Foreground(formatter.ColorDim).Padding(0, 1)
	t.Focused.TextInput.Cursor = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.TextInput.Placeholder = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.Description = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.ErrorMessage = t.Focused.ErrorMessage.Foreground(formatter.ColorRed)

	// Blurred state: dimmed
	t.Blurred.Title = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	return t
}

// briefFormValues backs the interactive brief form. Fields are strings so
// huh inputs can bind to them directly.
type briefFormValues struct {
	Title          string
	Description    string
	ProductLevel   domain.ProductLevel
	UILevel        domain.UILevel
	Platforms      []domain.Platform
	TargetAudience string
	Competitors    string
	Budget         string
	FeatureCount   string
}

// newBriefFormValues seeds the form from flag values so flags act as defaults.
func newBriefFormValues(f *briefFlags) *briefFormValues {
	b := f.brief()
	v := &briefFormValues{
		Title:          b.Title,
		Description:    b.Description,
		ProductLevel:   b.ProductLevel,
		UILevel:        b.UILevel,
		Platforms:      b.CanonicalPlatforms(),
		TargetAudience: b.TargetAudience,
		Competitors:    b.Competitors,
		Budget:         b.BudgetRaw,
	}
	if b.FeatureCount > 0 {
		v.FeatureCount = strconv.Itoa(b.FeatureCount)
	}
	if len(v.Platforms) == 0 {
		v.Platforms = []domain.Platform{domain.PlatformWeb}
	}
	return v
}

func (v *briefFormValues) brief() domain.ProjectBrief {
	return domain.ProjectBrief{
		Title:          strings.TrimSpace(v.Title),
		Description:    strings.TrimSpace(v.Description),
		ProductLevel:   v.ProductLevel,
		UILevel:        v.UILevel,
		Platforms:      v.Platforms,
		TargetAudience: strings.TrimSpace(v.TargetAudience),
		Competitors:    strings.TrimSpace(v.Competitors),
		BudgetRaw:      strings.TrimSpace(v.Budget),
		FeatureCount:   parsePositiveInt(v.FeatureCount, 0),
	}
}

// parsePositiveInt parses s as a positive integer, returning fallback if s is
// empty, non-numeric, or non-positive.
func parsePositiveInt(s string, fallback int) int {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}

// validateNonNegativeInt accepts empty or a non-negative integer.
func validateNonNegativeInt(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	v, err := strconv.Atoi(s)
	if err != nil || v < 0 {
		return fmt.Errorf("enter a non-negative number")
	}
	return nil
}

// validateRequired rejects blank input.
func validateRequired(field string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", field)
		}
		return nil
	}
}
