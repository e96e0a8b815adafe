package testutil

import (
	"encoding/json"
	"sort"
)

// Reply options
type ReplyOption func(*replyDoc)

type replyDoc struct {
	features  []map[string]any
	resources []map[string]any
	tech      []string
	budget    map[string]any
	omit      map[string]bool
}

// RoleHours maps a role name to the value sent as its hours. Values are
// written as-is, so strings like "N/A" or "12 hrs" are allowed.
type RoleHours map[string]any

// WithFeature appends a feature whose resources list carries the given
// hours, ordered by role name.
func WithFeature(name string, hours RoleHours) ReplyOption {
	return func(d *replyDoc) {
		d.features = append(d.features, map[string]any{
			"feature_name": name,
			"resources":    resourceList(hours),
		})
	}
}

// WithFeatureField sets an extra key on the most recently added feature.
func WithFeatureField(key string, value any) ReplyOption {
	return func(d *replyDoc) {
		if len(d.features) == 0 {
			return
		}
		d.features[len(d.features)-1][key] = value
	}
}

func WithResource(role string, count any) ReplyOption {
	return func(d *replyDoc) {
		d.resources = append(d.resources, map[string]any{"role": role, "count": count})
	}
}

func WithTech(tech ...string) ReplyOption {
	return func(d *replyDoc) {
		d.tech = append(d.tech, tech...)
	}
}

// WithReportedTotal sets budget.total_estimated_cost_usd to raw JSON text,
// so callers can send numbers, strings, or null.
func WithReportedTotal(raw string) ReplyOption {
	return WithBudgetField("total_estimated_cost_usd", json.RawMessage(raw))
}

func WithBudgetField(key string, value any) ReplyOption {
	return func(d *replyDoc) {
		d.budget[key] = value
	}
}

// WithoutSection drops a top-level key such as "tech" or "budget".
func WithoutSection(key string) ReplyOption {
	return func(d *replyDoc) {
		d.omit[key] = true
	}
}

// NewTestReply renders a model reply as a bare JSON object with all four
// top-level sections present unless omitted.
func NewTestReply(opts ...ReplyOption) string {
	d := &replyDoc{
		features:  []map[string]any{},
		resources: []map[string]any{},
		tech:      []string{},
		budget:    map[string]any{},
		omit:      map[string]bool{},
	}
	for _, opt := range opts {
		opt(d)
	}

	doc := map[string]any{
		"features":  d.features,
		"resources": d.resources,
		"tech":      d.tech,
		"budget":    d.budget,
	}
	for key := range d.omit {
		delete(doc, key)
	}

	out, err := json.Marshal(doc)
	if err != nil {
		panic("testutil: marshal reply: " + err.Error())
	}
	return string(out)
}

func resourceList(hours RoleHours) []map[string]any {
	roles := make([]string, 0, len(hours))
	for role := range hours {
		roles = append(roles, role)
	}
	sort.Strings(roles)

	out := make([]map[string]any, 0, len(roles))
	for _, role := range roles {
		out = append(out, map[string]any{"role": role, "hours": hours[role]})
	}
	return out
}
