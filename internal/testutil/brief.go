package testutil

import "github.com/alexanderramin/scopewise/internal/domain"

// Brief options
type BriefOption func(*domain.ProjectBrief)

func WithTitle(title string) BriefOption {
	return func(b *domain.ProjectBrief) {
		b.Title = title
	}
}

func WithProductLevel(l domain.ProductLevel) BriefOption {
	return func(b *domain.ProjectBrief) {
		b.ProductLevel = l
	}
}

func WithUILevel(l domain.UILevel) BriefOption {
	return func(b *domain.ProjectBrief) {
		b.UILevel = l
	}
}

// WithPlatforms replaces the default platform set. No arguments means none.
func WithPlatforms(ps ...domain.Platform) BriefOption {
	return func(b *domain.ProjectBrief) {
		b.Platforms = ps
	}
}

func WithAudience(audience string) BriefOption {
	return func(b *domain.ProjectBrief) {
		b.TargetAudience = audience
	}
}

func WithCompetitors(competitors string) BriefOption {
	return func(b *domain.ProjectBrief) {
		b.Competitors = competitors
	}
}

func WithBudget(raw string) BriefOption {
	return func(b *domain.ProjectBrief) {
		b.BudgetRaw = raw
	}
}

func WithFeatureCount(n int) BriefOption {
	return func(b *domain.ProjectBrief) {
		b.FeatureCount = n
	}
}

// NewTestBrief returns a valid brief for a simple web MVP.
func NewTestBrief(description string, opts ...BriefOption) domain.ProjectBrief {
	b := domain.ProjectBrief{
		Title:        "Test Project",
		Description:  description,
		ProductLevel: domain.ProductMVP,
		UILevel:      domain.UISimple,
		Platforms:    []domain.Platform{domain.PlatformWeb},
	}
	for _, opt := range opts {
		opt(&b)
	}
	return b
}
