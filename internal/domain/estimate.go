package domain

// TimelineTask is one row of a feature's reported timeline.
type TimelineTask struct {
	HourRange       string
	ResponsibleRole string
	Summary         string
}

// Feature is one planned feature as reported by the model, together with the
// locally recomputed duration and cost.
type Feature struct {
	Name               string
	Description        string
	AcceptanceCriteria []string
	UserStory          string
	Dependencies       string
	Deliverables       []string
	Phase              string
	Tasks              []TimelineTask
	Hours              RoleHours

	// Reported by the model; nil when missing or not numeric.
	ReportedDuration  *float64
	ReportedRoleCosts map[string]float64
	ReportedTotal     *float64

	// Recomputed from Hours and the rate table.
	RoleCosts map[string]float64
	TotalCost float64
	Duration  float64

	DurationMismatch bool
	CostMismatch     bool
}

// ResourceCount is a staffing line. Count is never negative.
type ResourceCount struct {
	Role  string
	Count int
}

// FeatureCost is one per-feature line of the budget summary.
type FeatureCost struct {
	FeatureName string
	Cost        *float64
}

// BudgetSummary is the model's budget object after lenient decoding.
type BudgetSummary struct {
	Currency         string
	PerFeature       []FeatureCost
	ReportedTotal    *float64
	ReportedTotalRaw string // verbatim when the model sent a non-numeric total
	BudgetProvided   *string
	WithinBudget     TriState
	RoleTotals       RoleHours // project-wide hours for non-costed roles
	CostsExcluded    bool
	Notes            string
}

// Warning is a non-fatal reconciliation finding. It always accompanies a
// best-effort Estimate and never replaces it.
type Warning struct {
	Kind        WarningKind
	Message     string
	Reported    float64
	Local       float64
	MissingKeys []string
	Names       []string
}

// Estimate is the successfully parsed reply for one generation call.
type Estimate struct {
	Features  []Feature
	Resources []ResourceCount
	Tech      []string
	Budget    *BudgetSummary // nil when the reply had no usable budget object

	Rates      RateTable
	LocalTotal float64
	Warnings   []Warning
	Preamble   string // prose the model wrote before the JSON, trimmed
	Raw        string
}

// HasWarning reports whether a warning of the given kind was raised.
func (e *Estimate) HasWarning(kind WarningKind) bool {
	for _, w := range e.Warnings {
		if w.Kind == kind {
			return true
		}
	}
	return false
}
