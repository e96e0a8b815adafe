package domain

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Hours is an effort value that may be explicitly absent. Absent is distinct
// from zero: it marks a role the feature does not use.
type Hours struct {
	Value   float64
	Present bool
}

// HoursOf returns a present Hours value.
func HoursOf(v float64) Hours { return Hours{Value: v, Present: true} }

// Absent is the "no effort" marker.
var Absent = Hours{}

// OrZero returns the value, treating absent as zero.
func (h Hours) OrZero() float64 {
	if !h.Present {
		return 0
	}
	return h.Value
}

// UnmarshalJSON never fails: anything that is not a usable hour count
// decodes to Absent.
func (h *Hours) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		*h = Absent
		return nil
	}
	*h = ParseHours(v)
	return nil
}

// RoleHours maps a lower-case role name to its hours.
type RoleHours map[string]Hours

// Sum adds every present value.
func (r RoleHours) Sum() float64 {
	var total float64
	for _, h := range r {
		total += h.OrZero()
	}
	return total
}

var absentSentinels = map[string]bool{
	"":     true,
	"n/a":  true,
	"na":   true,
	"-":    true,
	"none": true,
	"null": true,
}

var hourSuffixes = []string{"hours", "hour", "hrs", "hr", "h"}

// ParseHours normalizes a loosely typed hour value from model output.
// It is total: numbers pass through, "A-B" ranges become their midpoint,
// sentinels such as "N/A" and everything unparseable become Absent.
// Negative and non-finite values are treated as Absent.
func ParseHours(v any) Hours {
	switch n := v.(type) {
	case nil:
		return Absent
	case float64:
		return finiteHours(n)
	case float32:
		return finiteHours(float64(n))
	case int:
		return finiteHours(float64(n))
	case int64:
		return finiteHours(float64(n))
	case int32:
		return finiteHours(float64(n))
	case uint:
		return finiteHours(float64(n))
	case uint64:
		return finiteHours(float64(n))
	case json.Number:
		return parseHoursString(n.String())
	case Hours:
		return n
	case string:
		return parseHoursString(n)
	default:
		return Absent
	}
}

func parseHoursString(raw string) Hours {
	s := strings.ToLower(strings.TrimSpace(raw))
	if absentSentinels[s] {
		return Absent
	}
	s = strings.ReplaceAll(s, "–", "-")
	s = strings.ReplaceAll(s, "—", "-")
	s = trimHourSuffix(s)

	if n, ok := parseNumber(s); ok {
		return finiteHours(n)
	}
	if strings.Contains(s, "-") {
		parts := strings.SplitN(s, "-", 2)
		a, okA := parseNumber(parts[0])
		b, okB := parseNumber(parts[1])
		if !okA || !okB {
			return Absent
		}
		return finiteHours((a + b) / 2)
	}
	return Absent
}

func trimHourSuffix(s string) string {
	for _, suf := range hourSuffixes {
		if strings.HasSuffix(s, suf) {
			return strings.TrimSpace(strings.TrimSuffix(s, suf))
		}
	}
	return s
}

func parseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(trimHourSuffix(strings.TrimSpace(s)))
	s = strings.ReplaceAll(s, ",", "")
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func finiteHours(f float64) Hours {
	if math.IsNaN(f) || math.IsInf(f, 0) || f < 0 {
		return Absent
	}
	return HoursOf(f)
}
