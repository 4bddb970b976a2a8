package dataset

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSalary(t *testing.T) {
	tests := []struct {
		input string
		want  *float64
	}{
		{"$131,450", ptr(131450)},
		{"$239,200 or more", ptr(239200)},
		{"48000", ptr(48000)},
		{"$45,760.50", ptr(45760.5)},
		{"", nil},
		{"  ", nil},
		{"N/A", nil},
		{"-", nil},
		{"unknown", nil},
		{"$" + strings.Repeat("9", 400), nil},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assertFloatPtr(t, tt.want, parseSalary(tt.input))
		})
	}
}

func TestParseJobs(t *testing.T) {
	tests := []struct {
		input string
		want  *int64
	}{
		{"1897100", i64(1897100)},
		{"1,897,100", i64(1897100)},
		{"1897100.0", i64(1897100)},
		{"", nil},
		{"nan", nil},
		{"lots", nil},
		{"inf", nil},
		{"-Infinity", nil},
		{"1e19", nil},
		{"-1e19", nil},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := parseJobs(tt.input)
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, *tt.want, *got)
		})
	}
}

func TestParseGrowth(t *testing.T) {
	tests := []struct {
		input string
		want  *float64
	}{
		{"15% (Much faster than average)", ptr(15)},
		{"-3% (Decline)", ptr(-3)},
		{"0% (Little or no change)", ptr(0)},
		{"4.5%", ptr(4.5)},
		{"7", ptr(7)},
		{"", nil},
		{"Average", nil},
		{"inf", nil},
		{"Infinity%", nil},
		{"NaN%", nil},
		{"1e400", nil},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assertFloatPtr(t, tt.want, parseGrowth(tt.input))
		})
	}
}

func TestNormalizeCol(t *testing.T) {
	assert.Equal(t, "occupation_name", normalizeCol("Occupation Name"))
	assert.Equal(t, "entry_level_education", normalizeCol(" entry-level education "))
	assert.Equal(t, "what_they_do", normalizeCol("\ufeffWHAT_THEY_DO"))
}

func TestMapColumns_FirstWins(t *testing.T) {
	m := mapColumns([]string{"a", "b", "A"})
	assert.Equal(t, 0, m["a"])
	assert.Equal(t, 1, m["b"])
}

func TestGetCol(t *testing.T) {
	rec := []string{` "quoted" `, "plain"}
	assert.Equal(t, "quoted", getCol(rec, 0))
	assert.Equal(t, "plain", getCol(rec, 1))
	assert.Equal(t, "", getCol(rec, 2))
	assert.Equal(t, "", getCol(rec, -1))
}

func ptr(v float64) *float64 { return &v }

func i64(v int64) *int64 { return &v }

func assertFloatPtr(t *testing.T, want, got *float64) {
	t.Helper()
	if want == nil {
		assert.Nil(t, got)
		return
	}
	require.NotNil(t, got)
	assert.InDelta(t, *want, *got, 0.0001)
}
