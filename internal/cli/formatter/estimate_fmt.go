package formatter

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/alexanderramin/scopewise/internal/domain"
)

// DescriptionLimit is the number of runes of a feature description shown in
// the features table.
const DescriptionLimit = 250

// FormatEstimate renders a reconciled estimate: summary, features, resources,
// tech stack, budget and warnings.
func FormatEstimate(est *domain.Estimate) string {
	var b strings.Builder

	if est.Preamble != "" {
		b.WriteString(Header("Summary"))
		b.WriteString("\n")
		b.WriteString(est.Preamble)
		b.WriteString("\n\n")
	}

	b.WriteString(Header("Features"))
	b.WriteString("\n")
	b.WriteString(FormatFeatures(est.Features, est.Rates))
	b.WriteString("\n")

	b.WriteString(Header("Resources"))
	b.WriteString("\n")
	b.WriteString(FormatResources(est.Resources))
	b.WriteString("\n")

	b.WriteString(Header("Tech Stack"))
	b.WriteString("\n")
	b.WriteString(FormatTech(est.Tech))
	b.WriteString("\n")

	b.WriteString(Header("Budget"))
	b.WriteString("\n")
	b.WriteString(FormatBudget(est.Budget, est.LocalTotal))

	if len(est.Warnings) > 0 {
		b.WriteString("\n")
		b.WriteString(FormatWarnings(est.Warnings))
	}
	return b.String()
}

// FormatFeatures renders one row per feature with per-role hours from the
// rate table, the recomputed cost and the cost the model reported.
func FormatFeatures(features []domain.Feature, rates domain.RateTable) string {
	if len(features) == 0 {
		return Dim("No features reported.") + "\n"
	}

	roles := rates.Roles()
	headers := []string{"Feature", "Description", "Phase", "Hours"}
	aligns := []Align{AlignLeft, AlignLeft, AlignLeft, AlignRight}
	for _, role := range roles {
		headers = append(headers, role)
		aligns = append(aligns, AlignRight)
	}
	headers = append(headers, "Cost", "Reported")
	aligns = append(aligns, AlignRight, AlignRight)

	rows := make([][]string, 0, len(features))
	for _, f := range features {
		duration := FormatNumber(f.Duration)
		if f.DurationMismatch {
			duration = StyleYellow.Render(duration + "*")
		}
		row := []string{
			OrNA(f.Name),
			OrNA(Truncate(f.Description, DescriptionLimit)),
			OrNA(f.Phase),
			duration,
		}
		for _, role := range roles {
			row = append(row, FormatHours(f.Hours[role]))
		}
		reported := FormatOptionalMoney(f.ReportedTotal)
		if f.CostMismatch {
			reported = StyleYellow.Render(reported + "*")
		}
		row = append(row, FormatMoney(f.TotalCost), reported)
		rows = append(rows, row)
	}

	out := RenderAlignedTable(headers, rows, aligns)
	if hasMismatch(features) {
		out += Dim("* differs from the locally recomputed value") + "\n"
	}
	return out
}

func hasMismatch(features []domain.Feature) bool {
	for _, f := range features {
		if f.DurationMismatch || f.CostMismatch {
			return true
		}
	}
	return false
}

// FormatResources renders the staffing plan.
func FormatResources(resources []domain.ResourceCount) string {
	if len(resources) == 0 {
		return Dim("No resources reported.") + "\n"
	}
	rows := make([][]string, 0, len(resources))
	for _, r := range resources {
		rows = append(rows, []string{OrNA(r.Role), strconv.Itoa(r.Count)})
	}
	return RenderAlignedTable([]string{"Role", "Count"}, rows, []Align{AlignLeft, AlignRight})
}

// FormatTech renders the proposed technologies, one per row.
func FormatTech(tech []string) string {
	if len(tech) == 0 {
		return Dim("No tech stack reported.") + "\n"
	}
	rows := make([][]string, 0, len(tech))
	for i, t := range tech {
		rows = append(rows, []string{strconv.Itoa(i + 1), t})
	}
	return RenderAlignedTable([]string{"#", "Technology"}, rows, []Align{AlignRight})
}

// FormatBudget renders the budget summary box followed by the per-feature
// costs and notes. local is the recomputed grand total.
func FormatBudget(budget *domain.BudgetSummary, local float64) string {
	if budget == nil {
		return Dim("Budget not available.") + "\n" +
			fmt.Sprintf("%s %s\n", Dim("Recomputed total:"), FormatMoney(local))
	}

	reported := FormatOptionalMoney(budget.ReportedTotal)
	if budget.ReportedTotal == nil && budget.ReportedTotalRaw != "" {
		reported = fmt.Sprintf("%q %s", budget.ReportedTotalRaw, Dim("(not a number)"))
	}
	provided := "null"
	if budget.BudgetProvided != nil {
		provided = *budget.BudgetProvided
	}

	lines := []string{
		fmt.Sprintf("%s  %s", Dim("Currency:         "), OrNA(budget.Currency)),
		fmt.Sprintf("%s  %s", Dim("Reported total:   "), reported),
		fmt.Sprintf("%s  %s", Dim("Recomputed total: "), Bold(FormatMoney(local))),
		fmt.Sprintf("%s  %s", Dim("Budget provided:  "), provided),
		fmt.Sprintf("%s  %s", Dim("Within budget:    "), WithinBudgetPill(budget.WithinBudget)),
	}
	if len(budget.RoleTotals) > 0 {
		roles := make([]string, 0, len(budget.RoleTotals))
		for role := range budget.RoleTotals {
			roles = append(roles, role)
		}
		sort.Strings(roles)
		for _, role := range roles {
			label := fmt.Sprintf("%-18s", role+" total hours:")
			lines = append(lines, fmt.Sprintf("%s  %s", Dim(label), FormatHours(budget.RoleTotals[role])))
		}
	}
	excluded := "no"
	if budget.CostsExcluded {
		excluded = "yes"
	}
	lines = append(lines, fmt.Sprintf("%s  %s", Dim("Costs excluded:   "), excluded))

	var b strings.Builder
	b.WriteString(RenderBox("", strings.Join(lines, "\n")))
	b.WriteString("\n")

	if len(budget.PerFeature) > 0 {
		var listed float64
		for _, pf := range budget.PerFeature {
			if pf.Cost != nil {
				listed += *pf.Cost
			}
		}
		rows := make([][]string, 0, len(budget.PerFeature))
		for _, pf := range budget.PerFeature {
			share := ""
			if pf.Cost != nil {
				share = RenderShare(*pf.Cost, listed, ShareWidth)
			}
			rows = append(rows, []string{OrNA(pf.FeatureName), FormatOptionalMoney(pf.Cost), share})
		}
		b.WriteString("\n")
		b.WriteString(RenderAlignedTable(
			[]string{"Feature", "Reported cost", "Share"},
			rows,
			[]Align{AlignLeft, AlignRight, AlignLeft},
		))
	}
	if budget.Notes != "" {
		b.WriteString("\n")
		b.WriteString(Dim("Notes: ") + budget.Notes + "\n")
	}
	return b.String()
}

// FormatWarnings renders reconciliation warnings, one per line.
func FormatWarnings(warnings []domain.Warning) string {
	var b strings.Builder
	for _, w := range warnings {
		b.WriteString(WarningLine(w))
		b.WriteString("\n")
	}
	return b.String()
}

// FormatMalformed renders a reply with no usable JSON object. The raw text
// is shown unmodified.
func FormatMalformed(raw, diagnostic string) string {
	var b strings.Builder
	b.WriteString(StyleYellow.Render("⚠ The model reply did not contain a JSON object; showing it as received."))
	b.WriteString("\n")
	if diagnostic != "" {
		b.WriteString(Dim(diagnostic))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(Header("Raw Response"))
	b.WriteString("\n")
	b.WriteString(raw)
	if !strings.HasSuffix(raw, "\n") {
		b.WriteString("\n")
	}
	return b.String()
}

// FormatRates renders the active rate table.
func FormatRates(rates domain.RateTable) string {
	rows := make([][]string, 0, len(rates))
	for _, r := range rates {
		costed := StyleGreen.Render("yes")
		if !r.Costed {
			costed = Dim("hours only")
		}
		rows = append(rows, []string{r.Role, FormatMoney(r.Rate), costed})
	}
	return RenderAlignedTable([]string{"Role", "Rate/h", "Costed"}, rows, []Align{AlignLeft, AlignRight})
}

// FormatCheck renders the result of a provider reachability probe.
func FormatCheck(provider, model, endpoint string, ok bool) string {
	status := StyleGreen.Render("● reachable")
	if !ok {
		status = StyleRed.Render("● unreachable")
	}
	lines := []string{
		fmt.Sprintf("%s  %s", Dim("Provider:"), provider),
		fmt.Sprintf("%s  %s", Dim("Model:   "), OrNA(model)),
		fmt.Sprintf("%s  %s", Dim("Endpoint:"), OrNA(endpoint)),
		fmt.Sprintf("%s  %s", Dim("Status:  "), status),
	}
	return strings.Join(lines, "\n") + "\n"
}
