package domain

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseHours(t *testing.T) {
	cases := []struct {
		name string
		in   any
		want Hours
	}{
		{"float", 12.5, HoursOf(12.5)},
		{"int", 40, HoursOf(40)},
		{"zero is present", 0, HoursOf(0)},
		{"json number", json.Number("16"), HoursOf(16)},
		{"numeric string", "  24 ", HoursOf(24)},
		{"range midpoint", "20-30", HoursOf(25)},
		{"range with spaces", "8 - 24", HoursOf(16)},
		{"range en dash", "10–20", HoursOf(15)},
		{"range with unit", "20-30 hrs", HoursOf(25)},
		{"unit suffix", "12h", HoursOf(12)},
		{"thousands separator", "1,200", HoursOf(1200)},
		{"negative exponent", "1e-3", HoursOf(0.001)},
		{"negative number string", "-5", Absent},
		{"sentinel N/A", "N/A", Absent},
		{"sentinel na", "na", Absent},
		{"sentinel dash", "-", Absent},
		{"sentinel empty", "", Absent},
		{"sentinel none", "None", Absent},
		{"half range", "20-", Absent},
		{"garbage range", "abc-def", Absent},
		{"three part range", "1-2-3", Absent},
		{"garbage", "about a week", Absent},
		{"nil", nil, Absent},
		{"bool", true, Absent},
		{"map", map[string]any{"h": 1}, Absent},
		{"slice", []any{1, 2}, Absent},
		{"negative", -5.0, Absent},
		{"negative string", "-5", Absent},
		{"nan", math.NaN(), Absent},
		{"inf string", "Inf", Absent},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ParseHours(tc.in))
		})
	}
}

func TestParseHours_NeverPanicsAndNeverNegative(t *testing.T) {
	inputs := []any{
		"", " ", "--", "-1-2", "1e400", "0x10", "½", "\x00", "20-30-", "∞",
		struct{}{}, []string{"1"}, json.Number("abc"), float32(3), int64(-1), uint(7),
	}
	for _, in := range inputs {
		require.NotPanics(t, func() {
			h := ParseHours(in)
			if h.Present {
				assert.GreaterOrEqual(t, h.Value, 0.0, "input %#v", in)
			}
		})
	}
}

func TestHours_UnmarshalJSON(t *testing.T) {
	var got struct {
		A Hours `json:"a"`
		B Hours `json:"b"`
		C Hours `json:"c"`
		D Hours `json:"d"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"a":10,"b":"20-30","c":"N/A","d":{"x":1}}`), &got))
	assert.Equal(t, HoursOf(10), got.A)
	assert.Equal(t, HoursOf(25), got.B)
	assert.Equal(t, Absent, got.C)
	assert.Equal(t, Absent, got.D)
}

func TestRoleHours_Sum_SkipsAbsent(t *testing.T) {
	r := RoleHours{"fullstack": HoursOf(40), "ai": Absent, "pm": HoursOf(4.5)}
	assert.Equal(t, 44.5, r.Sum())
}
