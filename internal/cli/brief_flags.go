package cli

import (
	"strings"

	"github.com/alexanderramin/scopewise/internal/domain"
	"github.com/spf13/pflag"
)

// briefFlags holds the raw flag values that make up a ProjectBrief.
type briefFlags struct {
	title        string
	description  string
	productLevel string
	uiLevel      string
	platforms    []string
	audience     string
	competitors  string
	budget       string
	featureCount int
}

func addBriefFlags(fs *pflag.FlagSet, f *briefFlags) {
	fs.StringVar(&f.title, "title", "", "Project title")
	fs.StringVarP(&f.description, "description", "d", "", "Project description (required)")
	fs.StringVar(&f.productLevel, "product-level", string(domain.ProductMVP), "POC, MVP or \"Full Product\"")
	fs.StringVar(&f.uiLevel, "ui-level", string(domain.UISimple), "Simple or Polished")
	fs.StringSliceVarP(&f.platforms, "platform", "p", nil, "Target platform (Web, iOS, Android, Desktop); repeatable")
	fs.StringVar(&f.audience, "audience", "", "Target audience")
	fs.StringVar(&f.competitors, "competitors", "", "Known competitors")
	fs.StringVar(&f.budget, "budget", "", "Budget, free text (e.g. \"$20,000\")")
	fs.IntVar(&f.featureCount, "features", 0, "Requested number of features (0 lets the model decide)")
}

// brief converts flag values to a ProjectBrief. Known enum spellings are
// canonicalized; anything else is passed through unchanged.
func (f *briefFlags) brief() domain.ProjectBrief {
	b := domain.ProjectBrief{
		Title:          f.title,
		Description:    f.description,
		ProductLevel:   domain.ProductLevel(strings.TrimSpace(f.productLevel)),
		UILevel:        domain.UILevel(strings.TrimSpace(f.uiLevel)),
		TargetAudience: f.audience,
		Competitors:    f.competitors,
		BudgetRaw:      f.budget,
	}
	if lvl, ok := domain.ParseProductLevel(f.productLevel); ok {
		b.ProductLevel = lvl
	}
	if lvl, ok := domain.ParseUILevel(f.uiLevel); ok {
		b.UILevel = lvl
	}
	for _, raw := range f.platforms {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		if p, ok := domain.ParsePlatform(raw); ok {
			b.Platforms = append(b.Platforms, p)
		} else {
			b.Platforms = append(b.Platforms, domain.Platform(raw))
		}
	}
	if f.featureCount > 0 {
		b.FeatureCount = f.featureCount
	}
	return b
}
