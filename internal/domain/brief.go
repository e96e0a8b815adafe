package domain

import (
	"errors"
	"strings"
)

// ErrDescriptionRequired is returned when a brief has no usable description.
var ErrDescriptionRequired = errors.New("project description is required")

// ProjectBrief is the user-supplied input for one estimation request.
// Only Description is required; every other field is passed through as-is.
type ProjectBrief struct {
	Title          string
	Description    string
	ProductLevel   ProductLevel
	UILevel        UILevel
	Platforms      []Platform
	TargetAudience string
	Competitors    string
	BudgetRaw      string
	FeatureCount   int // 0 means "let the model decide"
}

// Validate checks the only local precondition: a non-blank description.
func (b ProjectBrief) Validate() error {
	if strings.TrimSpace(b.Description) == "" {
		return ErrDescriptionRequired
	}
	return nil
}

// CanonicalPlatforms returns the platform set deduplicated and in the order
// of Platforms. Unknown values keep their first-seen order after the known ones.
// The result is never nil.
func (b ProjectBrief) CanonicalPlatforms() []Platform {
	seen := make(map[Platform]bool, len(b.Platforms))
	for _, p := range b.Platforms {
		seen[p] = true
	}

	out := make([]Platform, 0, len(seen))
	for _, p := range Platforms {
		if seen[p] {
			out = append(out, p)
			delete(seen, p)
		}
	}
	for _, p := range b.Platforms {
		if seen[p] {
			out = append(out, p)
			delete(seen, p)
		}
	}
	return out
}
