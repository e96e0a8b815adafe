package estimation

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/alexanderramin/scopewise/internal/domain"
)

// The reply types below decode model output field by field. None of their
// UnmarshalJSON methods return an error: a field of the wrong shape decodes
// to its zero value and the rest of the object is still read.

// lenient decodes T when it can and records whether it did.
type lenient[T any] struct {
	V  T
	OK bool
}

func (l *lenient[T]) UnmarshalJSON(data []byte) error {
	var v T
	if err := json.Unmarshal(data, &v); err == nil {
		l.V, l.OK = v, true
	}
	return nil
}

// lenientList decodes an array element by element, dropping elements that
// do not decode. Anything other than an array yields an empty list.
type lenientList[T any] []T

func (l *lenientList[T]) UnmarshalJSON(data []byte) error {
	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		*l = nil
		return nil
	}
	out := make([]T, 0, len(items))
	for _, item := range items {
		var v T
		if err := json.Unmarshal(item, &v); err != nil {
			continue
		}
		out = append(out, v)
	}
	*l = out
	return nil
}

// flexString accepts strings, numbers, booleans and arrays of those.
type flexString string

func (s *flexString) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		*s = ""
		return nil
	}
	*s = flexString(stringify(v))
	return nil
}

func stringify(v any) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	case []any:
		parts := make([]string, 0, len(t))
		for _, e := range t {
			if s := stringify(e); s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, ", ")
	default:
		return ""
	}
}

// flexStrings accepts an array of scalars or a single scalar.
type flexStrings []string

func (s *flexStrings) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		*s = nil
		return nil
	}
	switch t := v.(type) {
	case []any:
		out := make([]string, 0, len(t))
		for _, e := range t {
			if str := stringify(e); str != "" {
				out = append(out, str)
			}
		}
		*s = out
	default:
		if str := stringify(t); str != "" {
			*s = flexStrings{str}
		} else {
			*s = nil
		}
	}
	return nil
}

// flexNumber accepts a number or a numeric string. Currency symbols,
// thousands separators and a USD suffix are tolerated. Raw keeps a string
// that could not be read as a number.
type flexNumber struct {
	Value float64
	OK    bool
	Raw   string
}

func (n *flexNumber) UnmarshalJSON(data []byte) error {
	*n = flexNumber{}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return nil
	}
	switch t := v.(type) {
	case float64:
		n.Value, n.OK = t, true
	case string:
		if f, ok := parseMoney(t); ok {
			n.Value, n.OK = f, true
		} else {
			n.Raw = strings.TrimSpace(t)
		}
	}
	return nil
}

func (n flexNumber) ptr() *float64 {
	if !n.OK {
		return nil
	}
	v := n.Value
	return &v
}

var moneyReplacer = strings.NewReplacer("$", "", ",", "", "usd", "", " ", "", "\u00a0", "")

func parseMoney(s string) (float64, bool) {
	s = moneyReplacer.Replace(strings.ToLower(strings.TrimSpace(s)))
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// flexInt is a non-negative headcount. Fractions are truncated; anything
// unreadable or too large for an int32 becomes 0.
type flexInt int

func (n *flexInt) UnmarshalJSON(data []byte) error {
	var num flexNumber
	_ = num.UnmarshalJSON(data)
	if !num.OK || num.Value < 0 || !(num.Value < math.MaxInt32) {
		*n = 0
		return nil
	}
	*n = flexInt(int(num.Value))
	return nil
}

// triState reads true/false, "yes"/"no" and their string forms. Anything
// else, including null, is Unknown.
type triState domain.TriState

func (t *triState) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		*t = triState(domain.Unknown)
		return nil
	}
	switch x := v.(type) {
	case bool:
		if x {
			*t = triState(domain.Yes)
		} else {
			*t = triState(domain.No)
		}
	case string:
		switch strings.ToLower(strings.TrimSpace(x)) {
		case "true", "yes":
			*t = triState(domain.Yes)
		case "false", "no":
			*t = triState(domain.No)
		default:
			*t = triState(domain.Unknown)
		}
	default:
		*t = triState(domain.Unknown)
	}
	return nil
}

// flexRaw keeps a value verbatim for display: strings unquoted, null as
// unset, anything else as compact JSON.
type flexRaw struct {
	Value *string
}

func (r *flexRaw) UnmarshalJSON(data []byte) error {
	r.Value = nil
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil
	}
	var s string
	if err := json.Unmarshal(trimmed, &s); err == nil {
		r.Value = &s
		return nil
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, trimmed); err != nil {
		return nil
	}
	v := buf.String()
	r.Value = &v
	return nil
}

type replyRoleHours struct {
	Role  flexString   `json:"role"`
	Hours domain.Hours `json:"hours"`
}

// featureResources accepts the documented [{role, hours}] list and also a
// {"role": hours} object.
type featureResources []replyRoleHours

func (f *featureResources) UnmarshalJSON(data []byte) error {
	var list lenientList[replyRoleHours]
	_ = list.UnmarshalJSON(data)
	if len(list) > 0 {
		*f = featureResources(list)
		return nil
	}
	var obj map[string]domain.Hours
	if err := json.Unmarshal(data, &obj); err != nil {
		*f = nil
		return nil
	}
	out := make(featureResources, 0, len(obj))
	for role, h := range obj {
		out = append(out, replyRoleHours{Role: flexString(role), Hours: h})
	}
	*f = out
	return nil
}

// hours folds the list into RoleHours keyed by normalized role. A role listed
// twice keeps its last value.
func (f featureResources) hours() domain.RoleHours {
	out := make(domain.RoleHours, len(f))
	for _, r := range f {
		role := domain.NormalizeRole(string(r.Role))
		if role == "" {
			continue
		}
		out[role] = r.Hours
	}
	return out
}

type replyTask struct {
	HourRange       flexString `json:"hour_range"`
	ResponsibleRole flexString `json:"responsible_role"`
	Summary         flexString `json:"tasks_summary"`
}

type replyTimeline struct {
	Phase    flexString             `json:"phase"`
	Duration flexNumber             `json:"duration_hours"`
	Tasks    lenientList[replyTask] `json:"tasks"`
}

type replyFeature struct {
	Name               flexString                     `json:"feature_name"`
	AltName            flexString                     `json:"name"`
	Description        flexString                     `json:"description"`
	AcceptanceCriteria flexStrings                    `json:"acceptance_criteria"`
	UserStory          flexString                     `json:"user_story"`
	Dependencies       flexString                     `json:"dependencies"`
	Deliverables       flexStrings                    `json:"deliverables"`
	Resources          featureResources               `json:"resources"`
	Timeline           lenient[replyTimeline]         `json:"timeline"`
	CostEstimate       lenient[map[string]flexNumber] `json:"cost_estimate"`
}

type replyResource struct {
	Role  flexString `json:"role"`
	Count flexInt    `json:"count"`
}

type replyFeatureCost struct {
	FeatureName flexString `json:"feature_name"`
	Cost        flexNumber `json:"total_feature_cost_usd"`
}

type replyBudget struct {
	Currency       flexString                    `json:"currency"`
	PerFeature     lenientList[replyFeatureCost] `json:"per_feature"`
	Total          flexNumber                    `json:"total_estimated_cost_usd"`
	BudgetProvided flexRaw                       `json:"budget_provided"`
	WithinBudget   triState                      `json:"within_budget"`
	CostsExcluded  *triState                     `json:"costs_excluded"`
	PMQAExcluded   *triState                     `json:"pm_qa_costs_excluded"`
	Notes          flexString                    `json:"notes"`
}

const (
	costSuffix       = "_cost_usd"
	totalCostKey     = "total_feature_cost_usd"
	totalHoursSuffix = "_total_hours"
)
