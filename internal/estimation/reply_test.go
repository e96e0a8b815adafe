package estimation

import (
	"encoding/json"
	"testing"

	"github.com/alexanderramin/scopewise/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlexNumber(t *testing.T) {
	tests := []struct {
		in   string
		want float64
		ok   bool
		raw  string
	}{
		{`1200`, 1200, true, ""},
		{`"1,200.50"`, 1200.5, true, ""},
		{`"$9,700"`, 9700, true, ""},
		{`"9700 USD"`, 9700, true, ""},
		{`"n/a"`, 0, false, "n/a"},
		{`null`, 0, false, ""},
		{`true`, 0, false, ""},
		{`[1]`, 0, false, ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			var n flexNumber
			require.NoError(t, json.Unmarshal([]byte(tt.in), &n))
			assert.Equal(t, tt.ok, n.OK)
			assert.Equal(t, tt.want, n.Value)
			assert.Equal(t, tt.raw, n.Raw)
		})
	}
}

func TestFlexInt(t *testing.T) {
	tests := []struct {
		in   string
		want flexInt
	}{
		{`3`, 3},
		{`"2"`, 2},
		{`2.9`, 2},
		{`-1`, 0},
		{`1e20`, 0},
		{`"1e20"`, 0},
		{`2147483647`, 0},
		{`"many"`, 0},
		{`null`, 0},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			var n flexInt
			require.NoError(t, json.Unmarshal([]byte(tt.in), &n))
			assert.Equal(t, tt.want, n)
		})
	}
}

func TestFlexStrings(t *testing.T) {
	var s flexStrings
	require.NoError(t, json.Unmarshal([]byte(`["a", 2, "", true, {"x":1}]`), &s))
	assert.Equal(t, flexStrings{"a", "2", "true"}, s)

	require.NoError(t, json.Unmarshal([]byte(`"single"`), &s))
	assert.Equal(t, flexStrings{"single"}, s)

	require.NoError(t, json.Unmarshal([]byte(`{"x":1}`), &s))
	assert.Nil(t, s)
}

func TestTriState(t *testing.T) {
	for in, want := range map[string]domain.TriState{
		`true`:    domain.Yes,
		`false`:   domain.No,
		`"Yes"`:   domain.Yes,
		`"false"`: domain.No,
		`null`:    domain.Unknown,
		`"maybe"`: domain.Unknown,
		`1`:       domain.Unknown,
	} {
		var ts triState
		require.NoError(t, json.Unmarshal([]byte(in), &ts))
		assert.Equal(t, want, domain.TriState(ts), in)
	}
}

func TestFeatureResources_LastDuplicateWins(t *testing.T) {
	var fr featureResources
	require.NoError(t, json.Unmarshal([]byte(`[
{"role":"Fullstack","hours":5},{"role":"full-stack","hours":"7"},{"role":"","hours":3},"junk"]`), &fr))

	hours := fr.hours()
	assert.Len(t, hours, 1)
	assert.Equal(t, domain.HoursOf(7), hours[domain.RoleFullstack])
}

func TestReplyFeature_NeverFails(t *testing.T) {
	inputs := []string{
		`{}`,
		`{"feature_name": null, "resources": null, "timeline": null, "cost_estimate": null}`,
		`{"feature_name": {"nested": true}, "acceptance_criteria": 7, "deliverables": false}`,
	}
	for _, in := range inputs {
		var f replyFeature
		assert.NoError(t, json.Unmarshal([]byte(in), &f), in)
	}
}
