package estimation

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/alexanderramin/scopewise/internal/domain"
	"github.com/alexanderramin/scopewise/internal/llm"
)

// DefaultTolerance is the largest difference, in currency units, between the
// reported and recomputed grand totals that does not raise a warning.
const DefaultTolerance = 1.0

// durationEpsilon absorbs float noise when comparing hour sums.
const durationEpsilon = 0.01

var requiredKeys = []string{"features", "resources", "tech", "budget"}

// Reconciler turns a raw model reply into an Estimate and cross-checks the
// model's arithmetic against the rate table.
type Reconciler struct {
	rates     domain.RateTable
	tolerance float64
	marker    string
}

// NewReconciler returns a Reconciler. A negative tolerance selects
// DefaultTolerance; an empty marker disables the marker fast path.
func NewReconciler(rates domain.RateTable, tolerance float64, marker string) *Reconciler {
	if tolerance < 0 {
		tolerance = DefaultTolerance
	}
	return &Reconciler{rates: rates, tolerance: tolerance, marker: marker}
}

// Reconcile extracts the first JSON object from raw and decodes it leniently.
// The only error is *MalformedResponseError, returned when no object can be
// found. Every other problem is reported as a Warning on the result.
func (r *Reconciler) Reconcile(raw string) (*domain.Estimate, error) {
	ext, err := llm.ExtractFirstJSON(raw, r.marker)
	if err != nil {
		return nil, &MalformedResponseError{Raw: raw, Diagnostic: err.Error(), cause: err}
	}

	var top map[string]json.RawMessage
	if err := json.Unmarshal(ext.JSON, &top); err != nil {
		return nil, &MalformedResponseError{Raw: raw, Diagnostic: fmt.Sprintf("decoding top-level object: %v", err), cause: err}
	}

	est := &domain.Estimate{Rates: r.rates, Raw: raw}

	if missing := missingKeys(top); len(missing) > 0 {
		est.Warnings = append(est.Warnings, domain.Warning{
			Kind:        domain.WarnMissingKeys,
			Message:     "reply is missing top-level keys: " + strings.Join(missing, ", "),
			MissingKeys: missing,
		})
	}

	est.Features = r.decodeFeatures(top["features"])
	est.Resources = decodeResources(top["resources"])
	est.Tech = decodeTech(top["tech"])
	est.Budget = r.decodeBudget(top["budget"])

	var local float64
	for _, f := range est.Features {
		if sum := local + f.TotalCost; !math.IsInf(sum, 0) {
			local = sum
		}
	}
	est.LocalTotal = domain.Round2(local)

	if w, ok := r.checkTotal(est); ok {
		est.Warnings = append(est.Warnings, w)
	}
	if w, ok := duplicateFeatures(est.Budget); ok {
		est.Warnings = append(est.Warnings, w)
	}
	if !ext.Sanitized {
		est.Preamble = preamble(raw[:ext.Start], r.marker)
	}
	return est, nil
}

func missingKeys(top map[string]json.RawMessage) []string {
	var missing []string
	for _, k := range requiredKeys {
		if _, ok := top[k]; !ok {
			missing = append(missing, k)
		}
	}
	return missing
}

func (r *Reconciler) decodeFeatures(data json.RawMessage) []domain.Feature {
	if data == nil {
		return nil
	}
	var list lenientList[replyFeature]
	_ = list.UnmarshalJSON(data)

	out := make([]domain.Feature, 0, len(list))
	for _, rf := range list {
		out = append(out, r.feature(rf))
	}
	return out
}

func (r *Reconciler) feature(rf replyFeature) domain.Feature {
	f := domain.Feature{
		Name:               domain.CoalesceStr(string(rf.Name), string(rf.AltName)),
		Description:        string(rf.Description),
		AcceptanceCriteria: []string(rf.AcceptanceCriteria),
		UserStory:          string(rf.UserStory),
		Dependencies:       string(rf.Dependencies),
		Deliverables:       []string(rf.Deliverables),
		Hours:              rf.Resources.hours(),
	}

	if rf.Timeline.OK {
		tl := rf.Timeline.V
		f.Phase = string(tl.Phase)
		f.ReportedDuration = tl.Duration.ptr()
		for _, t := range tl.Tasks {
			f.Tasks = append(f.Tasks, domain.TimelineTask{
				HourRange:       string(t.HourRange),
				ResponsibleRole: string(t.ResponsibleRole),
				Summary:         string(t.Summary),
			})
		}
	}

	if rf.CostEstimate.OK {
		for key, n := range rf.CostEstimate.V {
			key = strings.ToLower(strings.TrimSpace(key))
			switch {
			case key == totalCostKey:
				f.ReportedTotal = n.ptr()
			case strings.HasSuffix(key, costSuffix) && n.OK:
				if f.ReportedRoleCosts == nil {
					f.ReportedRoleCosts = make(map[string]float64)
				}
				f.ReportedRoleCosts[domain.NormalizeRole(strings.TrimSuffix(key, costSuffix))] = n.Value
			}
		}
	}

	r.recompute(&f)
	return f
}

// recompute fills the locally derived cost and duration fields. Costs use
// costed roles only; duration uses every rate-table role with present hours.
func (r *Reconciler) recompute(f *domain.Feature) {
	f.RoleCosts = make(map[string]float64)
	var total, duration float64
	for _, rr := range r.rates {
		h := f.Hours[rr.Role]
		var cost float64
		if rr.Costed {
			cost = domain.Round2(h.OrZero() * rr.Rate)
		}
		// Hours too large to cost or sum are unreadable.
		if math.IsInf(cost, 0) || math.IsInf(total+cost, 0) || math.IsInf(duration+h.OrZero(), 0) {
			f.Hours[rr.Role] = domain.Absent
			h, cost = domain.Absent, 0
		}
		duration += h.OrZero()
		if !rr.Costed {
			continue
		}
		f.RoleCosts[rr.Role] = cost
		total += cost
	}
	f.TotalCost = domain.Round2(total)
	f.Duration = duration

	if f.ReportedDuration != nil {
		f.DurationMismatch = math.Abs(*f.ReportedDuration-f.Duration) > durationEpsilon
	}
	if f.ReportedTotal != nil {
		f.CostMismatch = domain.Round2(math.Abs(*f.ReportedTotal-f.TotalCost)) > r.tolerance
	}
}

func decodeResources(data json.RawMessage) []domain.ResourceCount {
	if data == nil {
		return nil
	}
	var list lenientList[replyResource]
	_ = list.UnmarshalJSON(data)

	out := make([]domain.ResourceCount, 0, len(list))
	for _, rr := range list {
		out = append(out, domain.ResourceCount{Role: string(rr.Role), Count: int(rr.Count)})
	}
	return out
}

func decodeTech(data json.RawMessage) []string {
	if data == nil {
		return nil
	}
	var tech flexStrings
	_ = tech.UnmarshalJSON(data)
	return []string(tech)
}

func (r *Reconciler) decodeBudget(data json.RawMessage) *domain.BudgetSummary {
	if data == nil {
		return nil
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil
	}
	var rb replyBudget
	if err := json.Unmarshal(data, &rb); err != nil {
		return nil
	}

	b := &domain.BudgetSummary{
		Currency:       domain.CoalesceStr(string(rb.Currency), "USD"),
		ReportedTotal:  rb.Total.ptr(),
		BudgetProvided: rb.BudgetProvided.Value,
		WithinBudget:   domain.TriState(rb.WithinBudget),
		Notes:          string(rb.Notes),
		CostsExcluded:  len(r.rates.UncostedRoles()) > 0,
	}
	if !rb.Total.OK {
		b.ReportedTotalRaw = rb.Total.Raw
	}
	for _, pf := range rb.PerFeature {
		b.PerFeature = append(b.PerFeature, domain.FeatureCost{
			FeatureName: string(pf.FeatureName),
			Cost:        pf.Cost.ptr(),
		})
	}
	switch {
	case rb.CostsExcluded != nil && domain.TriState(*rb.CostsExcluded) != domain.Unknown:
		b.CostsExcluded = domain.TriState(*rb.CostsExcluded) == domain.Yes
	case rb.PMQAExcluded != nil && domain.TriState(*rb.PMQAExcluded) != domain.Unknown:
		b.CostsExcluded = domain.TriState(*rb.PMQAExcluded) == domain.Yes
	}

	for key, val := range fields {
		key = strings.ToLower(strings.TrimSpace(key))
		if !strings.HasSuffix(key, totalHoursSuffix) {
			continue
		}
		role := domain.NormalizeRole(strings.TrimSuffix(key, totalHoursSuffix))
		if role == "" {
			continue
		}
		var h domain.Hours
		_ = h.UnmarshalJSON(val)
		if b.RoleTotals == nil {
			b.RoleTotals = make(domain.RoleHours)
		}
		b.RoleTotals[role] = h
	}
	return b
}

// checkTotal compares the reported grand total with the recomputed one. The
// check is skipped when the reported total is missing or not numeric.
func (r *Reconciler) checkTotal(est *domain.Estimate) (domain.Warning, bool) {
	if est.Budget == nil || est.Budget.ReportedTotal == nil {
		return domain.Warning{}, false
	}
	reported := *est.Budget.ReportedTotal
	diff := domain.Round2(math.Abs(reported - est.LocalTotal))
	if diff <= r.tolerance {
		return domain.Warning{}, false
	}
	return domain.Warning{
		Kind: domain.WarnTotalMismatch,
		Message: fmt.Sprintf("reported total %.2f differs from recomputed total %.2f by %.2f",
			reported, est.LocalTotal, diff),
		Reported: reported,
		Local:    est.LocalTotal,
	}, true
}

// duplicateFeatures names per_feature entries that appear more than once,
// compared case-insensitively. Entries themselves are left as listed.
func duplicateFeatures(b *domain.BudgetSummary) (domain.Warning, bool) {
	if b == nil {
		return domain.Warning{}, false
	}
	counts := make(map[string]int)
	first := make(map[string]int)
	for i, pf := range b.PerFeature {
		key := strings.ToLower(strings.TrimSpace(pf.FeatureName))
		if key == "" {
			continue
		}
		if _, ok := first[key]; !ok {
			first[key] = i
		}
		counts[key]++
	}

	var names []string
	for key, n := range counts {
		if n > 1 {
			names = append(names, b.PerFeature[first[key]].FeatureName)
		}
	}
	if len(names) == 0 {
		return domain.Warning{}, false
	}
	sort.SliceStable(names, func(i, j int) bool {
		return first[strings.ToLower(strings.TrimSpace(names[i]))] < first[strings.ToLower(strings.TrimSpace(names[j]))]
	})
	return domain.Warning{
		Kind:    domain.WarnDuplicateFeature,
		Message: "budget lists these features more than once: " + strings.Join(names, ", "),
		Names:   names,
	}, true
}

// preamble returns the prose before the JSON object with the marker line and
// any opening code fence removed.
func preamble(before, marker string) string {
	s := strings.TrimSpace(before)
	s = strings.TrimSuffix(s, "```json")
	s = strings.TrimSuffix(s, "```JSON")
	s = strings.TrimSuffix(s, "```")
	s = strings.TrimSpace(s)
	if marker != "" {
		s = strings.TrimSpace(strings.TrimSuffix(s, marker))
	}
	return s
}
