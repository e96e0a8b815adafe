package cli

import (
	"github.com/alexanderramin/scopewise/internal/domain"
	"github.com/charmbracelet/huh"
)

func productLevelOptions() []huh.Option[domain.ProductLevel] {
	opts := make([]huh.Option[domain.ProductLevel], 0, len(domain.ProductLevels))
	for _, l := range domain.ProductLevels {
		opts = append(opts, huh.NewOption(string(l), l))
	}
	return opts
}

func uiLevelOptions() []huh.Option[domain.UILevel] {
	opts := make([]huh.Option[domain.UILevel], 0, len(domain.UILevels))
	for _, l := range domain.UILevels {
		opts = append(opts, huh.NewOption(string(l), l))
	}
	return opts
}

func platformOptions(selected []domain.Platform) []huh.Option[domain.Platform] {
	isSelected := make(map[domain.Platform]bool, len(selected))
	for _, p := range selected {
		isSelected[p] = true
	}
	opts := make([]huh.Option[domain.Platform], 0, len(domain.Platforms))
	for _, p := range domain.Platforms {
		opts = append(opts, huh.NewOption(string(p), p).Selected(isSelected[p]))
	}
	return opts
}

// briefForm returns the themed form that collects a project brief.
func briefForm(v *briefFormValues) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Project Title").
				Placeholder("optional").
				Value(&v.Title),
			huh.NewText().
				Title("Project Description").
				Description("What should the product do, and for whom?").
				Lines(5).
				Value(&v.Description).
				Validate(validateRequired("description")),
		),
		huh.NewGroup(
			huh.NewSelect[domain.ProductLevel]().
				Title("Product Level").
				Options(productLevelOptions()...).
				Value(&v.ProductLevel),
			huh.NewSelect[domain.UILevel]().
				Title("UI Level").
				Options(uiLevelOptions()...).
				Value(&v.UILevel),
			huh.NewMultiSelect[domain.Platform]().
				Title("Platforms").
				Options(platformOptions(v.Platforms)...).
				Value(&v.Platforms),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Target Audience").
				Placeholder("optional").
				Value(&v.TargetAudience),
			huh.NewInput().
				Title("Competitors").
				Placeholder("optional").
				Value(&v.Competitors),
			huh.NewInput().
				Title("Budget").
				Placeholder("e.g. $20,000 (optional)").
				Value(&v.Budget),
			huh.NewInput().
				Title("Number of Features").
				Placeholder("blank lets the model decide").
				Value(&v.FeatureCount).
				Validate(validateNonNegativeInt),
		),
	).WithTheme(scopewiseHuhTheme()).WithShowHelp(false)
}
