package estimation

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alexanderramin/scopewise/internal/domain"
)

// BriefPlaceholder is the single position in the instruction template where
// the serialized brief is substituted.
const BriefPlaceholder = "{{brief_json}}"

// DefaultMarker introduces the JSON block when the model is asked to write a
// short markdown summary first.
const DefaultMarker = "Structured estimate JSON:"

// SystemPrompt returns the fixed system instruction for the estimate task.
func SystemPrompt(rates domain.RateTable) string {
	var b strings.Builder
	b.WriteString("You are a strict JSON generator for software project estimations. ")
	b.WriteString("Return exactly one valid JSON object with top-level keys: features, resources, tech, budget. ")
	b.WriteString("Follow the prompt instructions exactly.")
	if uncosted := rates.UncostedRoles(); len(uncosted) > 0 {
		names := strings.Join(uncosted, ", ")
		fmt.Fprintf(&b, " Hours for %s must NOT appear per feature; report them as project totals under budget. ", names)
		fmt.Fprintf(&b, "Costs for %s must be excluded from every budget total.", names)
	}
	return b.String()
}

// buildTemplate renders the instruction template for rates. The result
// contains BriefPlaceholder exactly once.
func buildTemplate(rates domain.RateTable, withSummary bool, marker string) string {
	costed := rates.CostedRoles()
	uncosted := rates.UncostedRoles()

	var b strings.Builder
	b.WriteString(`Act as a senior product strategist and software architect. Plan and estimate the software product described in the INPUT block below.

------------------------------------------------------------
OBJECTIVE:
`)
	if withSummary {
		fmt.Fprintf(&b, "First write a short markdown summary of the plan (at most 10 lines). Then write the line %q on its own. Then write one JSON object with exactly four top-level keys: features, resources, tech, budget. Nothing may follow the JSON object.\n", marker)
	} else {
		b.WriteString("Produce one pure JSON object (no markdown, no prose) with exactly four top-level keys: features, resources, tech, budget.\n")
	}

	b.WriteString(`
------------------------------------------------------------
INPUT FIELDS:
- project_title (optional)
- project_description (required)
- product_level ("POC", "MVP" or "Full Product")
- ui_level ("Simple" or "Polished")
- platforms (array, e.g. ["Web","iOS"])
- target_audience (optional)
- competitors (optional)
- budget (optional, free text)
- feature_count (optional integer; honor it unless infeasible)

INPUT:
`)
	b.WriteString(BriefPlaceholder)
	b.WriteString(`

------------------------------------------------------------
FEATURE OBJECT FORMAT:
{
  "feature_name": "<string>",
  "description": "<string>",
  "acceptance_criteria": ["<string>", "<string>", "<string>"],
  "user_story": "<string>",
  "dependencies": "<string>",
  "deliverables": "<string or array>",
  "resources": [
`)
	for i, role := range costed {
		sep := ","
		if i == len(costed)-1 {
			sep = ""
		}
		fmt.Fprintf(&b, "    {\"role\": %q, \"hours\": <number or \"N/A\">}%s\n", role, sep)
	}
	b.WriteString(`  ],
  "timeline": {
    "phase": "<string>",
    "duration_hours": <number, MUST equal the sum of the role hours above>,
    "tasks": [{"hour_range": "<e.g. 8-24>", "responsible_role": "<role>", "tasks_summary": "<string>"}]
  },
  "cost_estimate": {
`)
	for _, role := range costed {
		fmt.Fprintf(&b, "    \"%s_cost_usd\": <number>,\n", role)
	}
	b.WriteString(`    "total_feature_cost_usd": <number>
  }
}

------------------------------------------------------------
RESOURCES FORMAT:
[
`)
	roles := rates.Roles()
	for i, role := range roles {
		sep := ","
		if i == len(roles)-1 {
			sep = ""
		}
		fmt.Fprintf(&b, "  {\"role\": %q, \"count\": <int>}%s\n", role, sep)
	}
	b.WriteString(`]

------------------------------------------------------------
TECH FORMAT:
["<tech_string_1>", "<tech_string_2>", "<tech_string_3>"]

------------------------------------------------------------
BUDGET FORMAT:
{
  "currency": "USD",
  "per_feature": [{"feature_name": "<string>", "total_feature_cost_usd": <number>}],
  "total_estimated_cost_usd": <number, sum of feature costs only>,
  "budget_provided": <original budget value or null>,
  "within_budget": <true|false|null>,
`)
	for _, role := range uncosted {
		fmt.Fprintf(&b, "  \"%s_total_hours\": <number, cumulative %s hours for the whole project>,\n", role, role)
	}
	fmt.Fprintf(&b, "  \"costs_excluded\": %t,\n", len(uncosted) > 0)
	b.WriteString(`  "notes": "<string>"
}

------------------------------------------------------------
HOURLY RATES (USD):
`)
	for _, r := range rates {
		state := "costed"
		if !r.Costed {
			state = "hours only, cost excluded from every total"
		}
		fmt.Fprintf(&b, "- %s = %s (%s)\n", r.Role, formatRate(r.Rate), state)
	}
	b.WriteString(`
------------------------------------------------------------
RULES:
- Derive the number of features from scope, product level and budget. Always include authentication, the core workflow and an admin surface when the product needs them. Do not invent advanced flows the description does not ask for.
- Distribute each feature's hours across the costed roles only.
- Each feature's timeline.duration_hours equals the sum of its role hours.
- Feature cost per role = hours x hourly rate. total_feature_cost_usd is the sum over costed roles.
- total_estimated_cost_usd is the sum of every total_feature_cost_usd.
`)
	if len(uncosted) > 0 {
		fmt.Fprintf(&b, "- Compute project-wide totals for %s (roughly 10%% of total feature hours each, at least 8%% for QA on tiny projects) and report them only under budget.\n", strings.Join(uncosted, ", "))
	}
	b.WriteString(`- If a numeric budget is provided, within_budget is true when the budget covers total_estimated_cost_usd, otherwise false. Use null when no budget is given.
- Scale resource headcounts to scope and budget, rounding up to whole people.
- Low budget: prefer a managed, lower-cost stack. High budget: prefer a scalable, enterprise-grade stack.
- Keys in snake_case. Durations in hours. Costs are plain numbers without currency symbols.
- Explain any correction you make in budget.notes.
`)
	return b.String()
}

func formatRate(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
