package domain

import (
	"fmt"
	"strings"
)

// Canonical role names used in model replies and the rate table.
const (
	RoleFullstack = "fullstack"
	RoleAI        = "ai"
	RoleUIUX      = "ui_ux"
	RolePM        = "pm"
	RoleQA        = "qa"
)

// RoleRate is one row of the hourly rate table. Roles with Costed=false still
// count toward durations but never toward money.
type RoleRate struct {
	Role   string
	Rate   float64
	Costed bool
}

// RateTable is the ordered set of roles the estimator understands.
type RateTable []RoleRate

// Rate variants select which roles are costed.
const (
	VariantPMQAExcluded = "pm-qa-excluded"
	VariantFullCosting  = "full-costing"
)

// DefaultRates returns the table where PM and QA hours are reported but not costed.
func DefaultRates() RateTable {
	return RateTable{
		{Role: RoleFullstack, Rate: 25, Costed: true},
		{Role: RoleAI, Rate: 30, Costed: true},
		{Role: RoleUIUX, Rate: 30, Costed: true},
		{Role: RolePM, Rate: 30, Costed: false},
		{Role: RoleQA, Rate: 25, Costed: false},
	}
}

// Lookup returns the row for role, matched case-insensitively.
func (t RateTable) Lookup(role string) (RoleRate, bool) {
	role = NormalizeRole(role)
	for _, r := range t {
		if r.Role == role {
			return r, true
		}
	}
	return RoleRate{}, false
}

// Roles returns role names in table order.
func (t RateTable) Roles() []string {
	out := make([]string, len(t))
	for i, r := range t {
		out[i] = r.Role
	}
	return out
}

// CostedRoles returns the roles whose hours translate into money.
func (t RateTable) CostedRoles() []string {
	var out []string
	for _, r := range t {
		if r.Costed {
			out = append(out, r.Role)
		}
	}
	return out
}

// UncostedRoles returns roles that are tracked only as hours.
func (t RateTable) UncostedRoles() []string {
	var out []string
	for _, r := range t {
		if !r.Costed {
			out = append(out, r.Role)
		}
	}
	return out
}

// WithCosted returns a copy of t where the named roles have Costed set to v.
func (t RateTable) WithCosted(v bool, roles ...string) RateTable {
	out := make(RateTable, len(t))
	copy(out, t)
	for _, role := range roles {
		role = NormalizeRole(role)
		for i := range out {
			if out[i].Role == role {
				out[i].Costed = v
			}
		}
	}
	return out
}

// Validate rejects duplicate roles and negative rates.
func (t RateTable) Validate() error {
	seen := make(map[string]bool, len(t))
	for _, r := range t {
		if r.Role == "" {
			return fmt.Errorf("rate table: empty role name")
		}
		if seen[r.Role] {
			return fmt.Errorf("rate table: duplicate role %q", r.Role)
		}
		if r.Rate < 0 {
			return fmt.Errorf("rate table: negative rate %.2f for %q", r.Rate, r.Role)
		}
		seen[r.Role] = true
	}
	return nil
}

// NormalizeRole lower-cases a role name and folds common spellings
// ("UI/UX", "ui-ux", "Full Stack") onto the canonical keys.
func NormalizeRole(role string) string {
	r := strings.ToLower(strings.TrimSpace(role))
	r = strings.NewReplacer("/", "_", "-", "_", " ", "_").Replace(r)
	switch r {
	case "full_stack":
		return RoleFullstack
	case "uiux", "ux_ui", "ux":
		return RoleUIUX
	}
	return r
}
