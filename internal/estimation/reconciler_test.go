package estimation

import (
	"encoding/json"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/alexanderramin/scopewise/internal/domain"
	"github.com/alexanderramin/scopewise/internal/llm"
	"github.com/alexanderramin/scopewise/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const pureReply = `{
  "features": [
    {
      "feature_name": "Authentication",
      "description": "Email and social sign-in",
      "acceptance_criteria": ["Users can register", "Users can log in", "Passwords can be reset"],
      "user_story": "As a seller I want an account",
      "dependencies": "None",
      "deliverables": ["Login screen", "Auth API"],
      "resources": [
        {"role": "fullstack", "hours": 20},
        {"role": "ai", "hours": "N/A"},
        {"role": "ui_ux", "hours": 10}
      ],
      "timeline": {
        "phase": "Foundation",
        "duration_hours": 30,
        "tasks": [{"hour_range": "0-20", "responsible_role": "fullstack", "tasks_summary": "API and screens"}]
      },
      "cost_estimate": {"fullstack_cost_usd": 500, "ui_ux_cost_usd": 300, "total_feature_cost_usd": 800}
    },
    {
      "feature_name": "Listings",
      "description": "Create and browse listings",
      "acceptance_criteria": ["Sellers can post", "Buyers can search", "Listings show photos"],
      "user_story": "As a buyer I want to browse items",
      "dependencies": "Authentication",
      "deliverables": "Listing pages",
      "resources": [
        {"role": "fullstack", "hours": 40},
        {"role": "ai", "hours": 10},
        {"role": "ui_ux", "hours": 12}
      ],
      "timeline": {"phase": "Core", "duration_hours": 62, "tasks": []},
      "cost_estimate": {"fullstack_cost_usd": 1000, "ai_cost_usd": 300, "ui_ux_cost_usd": 360, "total_feature_cost_usd": 1660}
    }
  ],
  "resources": [
    {"role": "fullstack", "count": 2},
    {"role": "ai", "count": 1},
    {"role": "ui_ux", "count": 1},
    {"role": "pm", "count": 1},
    {"role": "qa", "count": 1}
  ],
  "tech": ["Go", "PostgreSQL", "React"],
  "budget": {
    "currency": "USD",
    "per_feature": [
      {"feature_name": "Authentication", "total_feature_cost_usd": 800},
      {"feature_name": "Listings", "total_feature_cost_usd": 1660}
    ],
    "total_estimated_cost_usd": 2460,
    "budget_provided": "$20,000",
    "within_budget": true,
    "pm_total_hours": 10,
    "qa_total_hours": "8-10",
    "pm_qa_costs_excluded": true,
    "notes": "PM and QA excluded from costs."
  }
}`

func newTestReconciler() *Reconciler {
	return NewReconciler(domain.DefaultRates(), DefaultTolerance, DefaultMarker)
}

// replyWithTotal returns a minimal reply with one fullstack-only feature.
func replyWithTotal(hours float64, reported string) string {
	return testutil.NewTestReply(
		testutil.WithFeature("Core", testutil.RoleHours{domain.RoleFullstack: hours}),
		testutil.WithReportedTotal(reported),
	)
}

func TestReconcile_PureJSON(t *testing.T) {
	est, err := newTestReconciler().Reconcile(pureReply)
	require.NoError(t, err)

	assert.Empty(t, est.Warnings)
	require.Len(t, est.Features, 2)
	assert.Equal(t, 2460.0, est.LocalTotal)
	require.NotNil(t, est.Budget)
	require.NotNil(t, est.Budget.ReportedTotal)
	assert.Equal(t, est.LocalTotal, *est.Budget.ReportedTotal)

	auth := est.Features[0]
	assert.Equal(t, "Authentication", auth.Name)
	assert.Equal(t, 800.0, auth.TotalCost)
	assert.Equal(t, 30.0, auth.Duration)
	assert.False(t, auth.Hours[domain.RoleAI].Present)
	assert.False(t, auth.DurationMismatch)
	assert.False(t, auth.CostMismatch)
	assert.Equal(t, "Foundation", auth.Phase)
	require.Len(t, auth.Tasks, 1)
	assert.Equal(t, "0-20", auth.Tasks[0].HourRange)
	assert.Equal(t, []string{"Login screen", "Auth API"}, auth.Deliverables)
	assert.Equal(t, 500.0, auth.ReportedRoleCosts[domain.RoleFullstack])

	listings := est.Features[1]
	assert.Equal(t, 1660.0, listings.TotalCost)
	assert.Equal(t, []string{"Listing pages"}, listings.Deliverables)

	assert.Len(t, est.Resources, 5)
	assert.Equal(t, []string{"Go", "PostgreSQL", "React"}, est.Tech)

	b := est.Budget
	assert.Equal(t, "USD", b.Currency)
	require.NotNil(t, b.BudgetProvided)
	assert.Equal(t, "$20,000", *b.BudgetProvided)
	assert.Equal(t, domain.Yes, b.WithinBudget)
	assert.True(t, b.CostsExcluded)
	assert.Equal(t, domain.HoursOf(10), b.RoleTotals[domain.RolePM])
	assert.Equal(t, domain.HoursOf(9), b.RoleTotals[domain.RoleQA])
	assert.Len(t, b.PerFeature, 2)
	assert.Empty(t, est.Preamble)
	assert.Equal(t, pureReply, est.Raw)
}

func TestReconcile_FencedWithTrailingProse(t *testing.T) {
	raw := "Here is your estimate:\n```json\n" + pureReply + "\n```\nLet me know if you need changes. {not json}"

	est, err := newTestReconciler().Reconcile(raw)
	require.NoError(t, err)

	assert.Empty(t, est.Warnings)
	assert.Len(t, est.Features, 2)
	assert.Equal(t, "Here is your estimate:", est.Preamble)
}

func TestReconcile_RangeHoursUseMidpoint(t *testing.T) {
	raw := `{"features":[{"feature_name":"Matching","resources":[{"role":"ai","hours":"20-30"}]}],
"resources":[],"tech":[],"budget":{}}`

	est, err := newTestReconciler().Reconcile(raw)
	require.NoError(t, err)

	require.Len(t, est.Features, 1)
	assert.Equal(t, domain.HoursOf(25), est.Features[0].Hours[domain.RoleAI])
	assert.Equal(t, 750.0, est.Features[0].TotalCost)
	assert.Equal(t, 25.0, est.Features[0].Duration)
}

func TestReconcile_NotApplicableHoursContributeNothing(t *testing.T) {
	raw := `{"features":[{"feature_name":"Admin","resources":[
{"role":"fullstack","hours":8},{"role":"pm","hours":"N/A"}]}],
"resources":[],"tech":[],"budget":{}}`

	est, err := newTestReconciler().Reconcile(raw)
	require.NoError(t, err)

	f := est.Features[0]
	assert.False(t, f.Hours[domain.RolePM].Present)
	assert.Equal(t, 8.0, f.Duration)
	assert.Equal(t, 200.0, f.TotalCost)
}

func TestReconcile_TotalMismatchWarns(t *testing.T) {
	// 380 fullstack hours at 25 = 9500.
	est, err := newTestReconciler().Reconcile(replyWithTotal(380, "10000"))
	require.NoError(t, err)

	assert.Equal(t, 9500.0, est.LocalTotal)
	require.Len(t, est.Warnings, 1)
	w := est.Warnings[0]
	assert.Equal(t, domain.WarnTotalMismatch, w.Kind)
	assert.Equal(t, 10000.0, w.Reported)
	assert.Equal(t, 9500.0, w.Local)
	assert.Contains(t, w.Message, "10000.00")
	assert.Contains(t, w.Message, "9500.00")
	require.NotNil(t, est.Budget.ReportedTotal)
	assert.Equal(t, 10000.0, *est.Budget.ReportedTotal)
}

func TestReconcile_ToleranceBoundary(t *testing.T) {
	tests := []struct {
		name     string
		reported string
		warnings int
	}{
		{"exact", "9500", 0},
		{"within", "9500.5", 0},
		{"at tolerance", "9501", 0},
		{"at tolerance below", "9499", 0},
		{"just over", "9501.01", 1},
		{"just under", "9498.99", 1},
		{"string total", `"$9,700.00"`, 1},
		{"unparseable total skips check", `"about ten grand"`, 0},
		{"null total skips check", "null", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			est, err := newTestReconciler().Reconcile(replyWithTotal(380, tt.reported))
			require.NoError(t, err)
			assert.Len(t, est.Warnings, tt.warnings)
		})
	}
}

func TestReconcile_UnparseableTotalKeptVerbatim(t *testing.T) {
	est, err := newTestReconciler().Reconcile(replyWithTotal(10, `"TBD"`))
	require.NoError(t, err)
	assert.Nil(t, est.Budget.ReportedTotal)
	assert.Equal(t, "TBD", est.Budget.ReportedTotalRaw)
}

func TestReconcile_NoBraceIsMalformed(t *testing.T) {
	raw := "Sorry, I cannot produce an estimate for this project."

	est, err := newTestReconciler().Reconcile(raw)
	require.Error(t, err)
	assert.Nil(t, est)

	var mre *MalformedResponseError
	require.True(t, errors.As(err, &mre))
	assert.Equal(t, raw, mre.Raw)
	assert.Contains(t, mre.Diagnostic, "scanned offsets 0-")
	assert.True(t, errors.Is(err, ErrMalformedResponse))
	assert.True(t, errors.Is(err, llm.ErrInvalidOutput))
}

func TestReconcile_UnbalancedObjectIsMalformed(t *testing.T) {
	raw := `{"features": [ {"feature_name": "Auth"`

	_, err := newTestReconciler().Reconcile(raw)
	var mre *MalformedResponseError
	require.True(t, errors.As(err, &mre))
	assert.Equal(t, raw, mre.Raw)
}

func TestReconcile_MissingKeysWarnButContinue(t *testing.T) {
	raw := `{"features":[{"feature_name":"Core","resources":[{"role":"fullstack","hours":4}]}]}`

	est, err := newTestReconciler().Reconcile(raw)
	require.NoError(t, err)

	require.Len(t, est.Warnings, 1)
	assert.Equal(t, domain.WarnMissingKeys, est.Warnings[0].Kind)
	assert.Equal(t, []string{"resources", "tech", "budget"}, est.Warnings[0].MissingKeys)
	assert.Nil(t, est.Budget)
	assert.Len(t, est.Features, 1)
	assert.Equal(t, 100.0, est.LocalTotal)
}

func TestReconcile_WrongTypedFieldsDegrade(t *testing.T) {
	raw := `{
  "features": [
    "not an object",
    {"feature_name": 42, "resources": "lots", "timeline": "soon", "cost_estimate": [1, 2]},
    {"feature_name": "Chat", "resources": {"fullstack": "10 hrs", "UI/UX": 4}}
  ],
  "resources": [{"role": "fullstack", "count": "two"}, {"role": "ai", "count": 1.7}, {"role": "qa", "count": -3}],
  "tech": "Go",
  "budget": {"within_budget": "maybe", "currency": null, "per_feature": "none"}
}`

	est, err := newTestReconciler().Reconcile(raw)
	require.NoError(t, err)
	assert.Empty(t, est.Warnings)

	require.Len(t, est.Features, 2)
	assert.Equal(t, "42", est.Features[0].Name)
	assert.Empty(t, est.Features[0].Hours)
	assert.Nil(t, est.Features[0].ReportedTotal)
	assert.Equal(t, 0.0, est.Features[0].TotalCost)

	chat := est.Features[1]
	assert.Equal(t, domain.HoursOf(10), chat.Hours[domain.RoleFullstack])
	assert.Equal(t, domain.HoursOf(4), chat.Hours[domain.RoleUIUX])
	assert.Equal(t, 370.0, chat.TotalCost)

	require.Len(t, est.Resources, 3)
	assert.Equal(t, 0, est.Resources[0].Count)
	assert.Equal(t, 1, est.Resources[1].Count)
	assert.Equal(t, 0, est.Resources[2].Count)
	assert.Equal(t, []string{"Go"}, est.Tech)

	require.NotNil(t, est.Budget)
	assert.Equal(t, domain.Unknown, est.Budget.WithinBudget)
	assert.Equal(t, "USD", est.Budget.Currency)
	assert.Empty(t, est.Budget.PerFeature)
	assert.Nil(t, est.Budget.BudgetProvided)
}

func TestReconcile_FullCostingIncludesPMAndQA(t *testing.T) {
	rates := domain.DefaultRates().WithCosted(true, domain.RolePM, domain.RoleQA)
	r := NewReconciler(rates, DefaultTolerance, "")
	raw := `{"features":[{"feature_name":"Core","resources":[
{"role":"fullstack","hours":10},{"role":"pm","hours":2},{"role":"qa","hours":4}]}],
"resources":[],"tech":[],"budget":{"total_estimated_cost_usd":410}}`

	est, err := r.Reconcile(raw)
	require.NoError(t, err)

	// 10*25 + 2*30 + 4*25
	assert.Equal(t, 410.0, est.LocalTotal)
	assert.Empty(t, est.Warnings)
	assert.False(t, est.Budget.CostsExcluded)
}

func TestReconcile_UncostedHoursCountTowardDurationOnly(t *testing.T) {
	raw := `{"features":[{"feature_name":"Core","resources":[
{"role":"fullstack","hours":10},{"role":"qa","hours":4},{"role":"devops","hours":3}]}],
"resources":[],"tech":[],"budget":{}}`

	est, err := newTestReconciler().Reconcile(raw)
	require.NoError(t, err)

	f := est.Features[0]
	assert.Equal(t, 14.0, f.Duration)
	assert.Equal(t, 250.0, f.TotalCost)
	assert.NotContains(t, f.RoleCosts, domain.RoleQA)
}

func TestReconcile_RoundsCostsToCents(t *testing.T) {
	raw := `{"features":[{"feature_name":"Core","resources":[
{"role":"fullstack","hours":0.3333},{"role":"ai","hours":"1.111"}]}],
"resources":[],"tech":[],"budget":{}}`

	est, err := newTestReconciler().Reconcile(raw)
	require.NoError(t, err)

	f := est.Features[0]
	assert.Equal(t, 8.33, f.RoleCosts[domain.RoleFullstack])
	assert.Equal(t, 33.33, f.RoleCosts[domain.RoleAI])
	assert.Equal(t, 41.66, f.TotalCost)
}

func TestReconcile_FeatureLevelMismatchFlags(t *testing.T) {
	raw := `{"features":[{"feature_name":"Core","resources":[{"role":"fullstack","hours":10}],
"timeline":{"duration_hours":12},"cost_estimate":{"total_feature_cost_usd":"$300"}}],
"resources":[],"tech":[],"budget":{"total_estimated_cost_usd":250}}`

	est, err := newTestReconciler().Reconcile(raw)
	require.NoError(t, err)

	f := est.Features[0]
	assert.True(t, f.DurationMismatch)
	assert.True(t, f.CostMismatch)
	require.NotNil(t, f.ReportedTotal)
	assert.Equal(t, 300.0, *f.ReportedTotal)
	assert.Empty(t, est.Warnings)
}

func TestReconcile_DuplicatePerFeatureNames(t *testing.T) {
	raw := `{"features":[],"resources":[],"tech":[],"budget":{"per_feature":[
{"feature_name":"Search","total_feature_cost_usd":100},
{"feature_name":"Chat","total_feature_cost_usd":50},
{"feature_name":"search ","total_feature_cost_usd":120},
{"feature_name":"Chat","total_feature_cost_usd":50}]}}`

	est, err := newTestReconciler().Reconcile(raw)
	require.NoError(t, err)

	require.Len(t, est.Warnings, 1)
	w := est.Warnings[0]
	assert.Equal(t, domain.WarnDuplicateFeature, w.Kind)
	assert.Equal(t, []string{"Search", "Chat"}, w.Names)
	assert.Len(t, est.Budget.PerFeature, 4)
}

func TestReconcile_MarkerVariantKeepsPreamble(t *testing.T) {
	raw := "## Plan\n- Two features\n- Small team {approx}\n\n" + DefaultMarker + "\n" + pureReply

	est, err := newTestReconciler().Reconcile(raw)
	require.NoError(t, err)

	assert.Equal(t, "## Plan\n- Two features\n- Small team {approx}", est.Preamble)
	assert.Len(t, est.Features, 2)
}

func TestReconcile_CostsExcludedFlag(t *testing.T) {
	tests := []struct {
		name   string
		budget string
		want   bool
	}{
		{"default from rate table", `{}`, true},
		{"costs_excluded false", `{"costs_excluded": false}`, false},
		{"legacy key", `{"pm_qa_costs_excluded": "no"}`, false},
		{"costs_excluded wins", `{"costs_excluded": true, "pm_qa_costs_excluded": false}`, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := `{"features":[],"resources":[],"tech":[],"budget":` + tt.budget + `}`
			est, err := newTestReconciler().Reconcile(raw)
			require.NoError(t, err)
			assert.Equal(t, tt.want, est.Budget.CostsExcluded)
		})
	}
}

func TestReconcile_BudgetProvidedShapes(t *testing.T) {
	tests := []struct {
		value string
		want  *string
	}{
		{`null`, nil},
		{`"15k"`, strPtr("15k")},
		{`15000`, strPtr("15000")},
		{`{"amount": 1}`, strPtr(`{"amount":1}`)},
	}
	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			raw := `{"features":[],"resources":[],"tech":[],"budget":{"budget_provided":` + tt.value + `}}`
			est, err := newTestReconciler().Reconcile(raw)
			require.NoError(t, err)
			assert.Equal(t, tt.want, est.Budget.BudgetProvided)
		})
	}
}

func TestReconcile_IsDeterministic(t *testing.T) {
	r := newTestReconciler()
	a, err := r.Reconcile(pureReply)
	require.NoError(t, err)
	b, err := r.Reconcile(pureReply)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestPreamble(t *testing.T) {
	assert.Equal(t, "", preamble("  \n```json\n", DefaultMarker))
	assert.Equal(t, "Summary", preamble("Summary\n"+DefaultMarker+"\n```\n", DefaultMarker))
	assert.Equal(t, "Plain", preamble("Plain\n", ""))
	assert.True(t, strings.HasPrefix(preamble("Intro text ", ""), "Intro"))
}

func strPtr(s string) *string { return &s }

func TestReconcile_HugeValuesStayFinite(t *testing.T) {
	raw := testutil.NewTestReply(
		testutil.WithFeature("Core", testutil.RoleHours{domain.RoleFullstack: 1e308, domain.RoleUIUX: 4}),
		testutil.WithResource(domain.RoleQA, json.RawMessage("1e20")),
		testutil.WithReportedTotal("120"),
	)

	est, err := newTestReconciler().Reconcile(raw)
	require.NoError(t, err)

	require.Len(t, est.Features, 1)
	core := est.Features[0]
	assert.False(t, core.Hours[domain.RoleFullstack].Present)
	assert.Equal(t, 120.0, core.TotalCost)
	assert.Equal(t, 4.0, core.Duration)
	assert.Equal(t, 120.0, est.LocalTotal)
	assert.Empty(t, est.Warnings)

	require.Len(t, est.Resources, 1)
	assert.Equal(t, 0, est.Resources[0].Count)
}

func TestReconcile_LocalTotalNeverOverflows(t *testing.T) {
	raw := testutil.NewTestReply(
		testutil.WithFeature("A", testutil.RoleHours{domain.RoleFullstack: 7e306}),
		testutil.WithFeature("B", testutil.RoleHours{domain.RoleFullstack: 7e306}),
	)

	est, err := newTestReconciler().Reconcile(raw)
	require.NoError(t, err)

	require.Len(t, est.Features, 2)
	for _, f := range est.Features {
		assert.False(t, math.IsInf(f.TotalCost, 0), f.Name)
	}
	assert.False(t, math.IsInf(est.LocalTotal, 0))
	assert.Equal(t, est.Features[0].TotalCost, est.LocalTotal)
}
