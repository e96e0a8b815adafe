package formatter

import (
	"strings"
	"testing"

	"github.com/alexanderramin/scopewise/internal/domain"
	"github.com/stretchr/testify/assert"
)

func sampleEstimate() *domain.Estimate {
	provided := "$20,000"
	return &domain.Estimate{
		Features:  sampleFeatures(),
		Resources: []domain.ResourceCount{{Role: "fullstack", Count: 2}},
		Tech:      []string{"Go", "PostgreSQL"},
		Budget: &domain.BudgetSummary{
			Currency: "USD",
			PerFeature: []domain.FeatureCost{
				{FeatureName: "Authentication", Cost: floatPtr(800)},
				{FeatureName: "Listings", Cost: floatPtr(1600)},
			},
			ReportedTotal:  floatPtr(10000),
			BudgetProvided: &provided,
			WithinBudget:   domain.Yes,
			RoleTotals:     domain.RoleHours{domain.RolePM: domain.HoursOf(10), domain.RoleQA: domain.Absent},
			CostsExcluded:  true,
			Notes:          "PM and QA excluded.",
		},
		Rates:      domain.DefaultRates(),
		LocalTotal: 2475,
		Warnings: []domain.Warning{{
			Kind:     domain.WarnTotalMismatch,
			Message:  "reported total 10000.00 differs from recomputed total 2475.00 by 7525.00",
			Reported: 10000,
			Local:    2475,
		}},
		Preamble: "## Plan\nTwo features.",
	}
}

func TestFormatEstimate_Sections(t *testing.T) {
	out := stripANSI(FormatEstimate(sampleEstimate()))

	for _, want := range []string{
		"SUMMARY", "## Plan\nTwo features.",
		"FEATURES", "Authentication", "Listings",
		"RESOURCES", "TECH STACK", "PostgreSQL",
		"BUDGET", "$10,000.00", "$2,475.00", "$20,000",
		"● yes", "pm total hours:", "Costs excluded:", "yes",
		"Reported cost", "Share", "[███░░░░░░░]  33%", "[███████░░░]  67%",
		"Notes: PM and QA excluded.",
		"⚠ reported total 10000.00 differs from recomputed total 2475.00",
		"[total_mismatch]",
	} {
		assert.Contains(t, out, want)
	}
	assert.Less(t, strings.Index(out, "FEATURES"), strings.Index(out, "BUDGET"))
	assert.Less(t, strings.Index(out, "BUDGET"), strings.Index(out, "⚠"))
}

func TestFormatEstimate_NoBudgetOrFeatures(t *testing.T) {
	est := &domain.Estimate{Rates: domain.DefaultRates()}
	out := stripANSI(FormatEstimate(est))

	assert.Contains(t, out, "No features reported.")
	assert.Contains(t, out, "No resources reported.")
	assert.Contains(t, out, "No tech stack reported.")
	assert.Contains(t, out, "Budget not available.")
	assert.Contains(t, out, "Recomputed total: $0.00")
	assert.NotContains(t, out, "SUMMARY")
	assert.NotContains(t, out, "⚠")
}

func TestFormatBudget_NullAndRawTotal(t *testing.T) {
	out := stripANSI(FormatBudget(&domain.BudgetSummary{ReportedTotalRaw: "TBD"}, 12.5))

	assert.Contains(t, out, `"TBD" (not a number)`)
	assert.Contains(t, out, "null")
	assert.Contains(t, out, "○ unknown")
	assert.Contains(t, out, "$12.50")
	assert.Contains(t, out, "N/A")
}

func TestFormatFeatures_TruncatesDescription(t *testing.T) {
	long := strings.Repeat("é", DescriptionLimit+20)
	out := stripANSI(FormatFeatures([]domain.Feature{{Name: "Long", Description: long}}, domain.DefaultRates()))

	assert.Contains(t, out, strings.Repeat("é", DescriptionLimit)+"...")
	assert.NotContains(t, out, strings.Repeat("é", DescriptionLimit+1))
	assert.NotContains(t, out, "differs from the locally recomputed value")
}

func TestFormatMalformed_ShowsRawVerbatim(t *testing.T) {
	raw := "Sorry,\n  I can't help with that."
	out := stripANSI(FormatMalformed(raw, "no JSON object found in response (scanned offsets 0-26, 0 candidate positions tried)"))

	assert.Contains(t, out, raw+"\n")
	assert.Contains(t, out, "RAW RESPONSE")
	assert.Contains(t, out, "scanned offsets 0-26")
}

func TestFormatCheck(t *testing.T) {
	ok := stripANSI(FormatCheck("ollama", "llama3.2", "http://localhost:11434", true))
	assert.Contains(t, ok, "● reachable")
	assert.Contains(t, ok, "llama3.2")

	down := stripANSI(FormatCheck("gemini", "gemini-2.5-flash", "", false))
	assert.Contains(t, down, "● unreachable")
	assert.Contains(t, down, "Endpoint:  N/A")
}
