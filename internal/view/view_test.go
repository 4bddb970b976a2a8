package view

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/career-explorer/internal/apperr"
	"github.com/sells-group/career-explorer/internal/mapping"
	"github.com/sells-group/career-explorer/internal/model"
)

func summaries() map[string]model.MajorSummary {
	return map[string]model.MajorSummary{
		"Biology":          {Major: "Biology", AverageSalary: 50000, MinSalary: 40000, MaxSalary: 60000, TotalJobs: 300, AverageGrowth: 5, CareerCount: 7},
		"Computer Science": {Major: "Computer Science", AverageSalary: 90000, MinSalary: 60000, MaxSalary: 140000, TotalJobs: 900, AverageGrowth: 12, CareerCount: 10},
		"Nursing":          {Major: "Nursing", AverageSalary: 70000, MinSalary: 30000, MaxSalary: 200000, TotalJobs: 900, AverageGrowth: 12, CareerCount: 5},
	}
}

func majorsOf(rows []model.MajorSummary) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.Major
	}
	return out
}

func TestSelect_AverageSalaryDescending(t *testing.T) {
	rows, err := Select(summaries(), []string{"Biology", "Computer Science", "Nursing"}, SortAverageSalary, true)
	require.NoError(t, err)

	salaries := make([]float64, len(rows))
	for i, r := range rows {
		salaries[i] = r.AverageSalary
	}
	assert.Equal(t, []float64{90000, 70000, 50000}, salaries)
}

func TestSelect_AllKeys(t *testing.T) {
	all := []string{"Biology", "Computer Science", "Nursing"}
	tests := []struct {
		key  SortKey
		desc bool
		want []string
	}{
		{SortAverageSalary, false, []string{"Biology", "Nursing", "Computer Science"}},
		{SortMinSalary, false, []string{"Nursing", "Biology", "Computer Science"}},
		{SortMaxSalary, true, []string{"Nursing", "Computer Science", "Biology"}},
		{SortCareerCount, true, []string{"Computer Science", "Biology", "Nursing"}},
		{SortMajor, true, []string{"Nursing", "Computer Science", "Biology"}},
		{SortMajor, false, []string{"Biology", "Computer Science", "Nursing"}},
	}
	for _, tt := range tests {
		t.Run(string(tt.key), func(t *testing.T) {
			rows, err := Select(summaries(), all, tt.key, tt.desc)
			require.NoError(t, err)
			assert.Equal(t, tt.want, majorsOf(rows))
		})
	}
}

func TestSelect_StableTiesStayAlphabetical(t *testing.T) {
	all := []string{"Nursing", "Computer Science", "Biology"}

	rows, err := Select(summaries(), all, SortTotalJobs, true)
	require.NoError(t, err)
	assert.Equal(t, []string{"Computer Science", "Nursing", "Biology"}, majorsOf(rows))

	rows, err = Select(summaries(), all, SortAverageGrowth, false)
	require.NoError(t, err)
	assert.Equal(t, []string{"Biology", "Computer Science", "Nursing"}, majorsOf(rows))
}

func TestSelect_EmptyChoiceShowsNone(t *testing.T) {
	rows, err := Select(summaries(), nil, SortAverageSalary, true)
	require.NoError(t, err)
	assert.NotNil(t, rows)
	assert.Empty(t, rows)
}

func TestSelect_SkipsMajorsWithoutSummary(t *testing.T) {
	rows, err := Select(summaries(), []string{"Nursing", "Alchemy", "Nursing"}, SortAverageSalary, true)
	require.NoError(t, err)
	assert.Equal(t, []string{"Nursing"}, majorsOf(rows))
}

func TestSelect_UnknownSortKey(t *testing.T) {
	input := summaries()
	before := summaries()

	rows, err := Select(input, []string{"Nursing"}, SortKey("bogus"), true)
	require.Error(t, err)
	assert.True(t, apperr.IsInvalidArgument(err))
	assert.Nil(t, rows)
	assert.Equal(t, before, input)
}

func TestParseSortKey(t *testing.T) {
	for _, k := range SortKeys {
		got, err := ParseSortKey(string(k))
		require.NoError(t, err)
		assert.Equal(t, k, got)
	}

	got, err := ParseSortKey("TOTALJOBS")
	require.NoError(t, err)
	assert.Equal(t, SortTotalJobs, got)

	_, err = ParseSortKey("bogus")
	require.Error(t, err)
	assert.True(t, apperr.IsInvalidArgument(err))
}

func TestQuickSelect(t *testing.T) {
	tbl := mapping.Default()

	all, err := QuickSelect(tbl, "all")
	require.NoError(t, err)
	assert.Equal(t, tbl.AllMajors(), all)

	top, err := QuickSelect(tbl, "top15")
	require.NoError(t, err)
	assert.Equal(t, tbl.DefaultMajors(), top)
	assert.Len(t, top, 15)

	_, err = QuickSelect(tbl, "top10")
	require.Error(t, err)
	assert.True(t, apperr.IsInvalidArgument(err))
}

type listerStub struct{ all, defaults []string }

func (l listerStub) AllMajors() []string     { return l.all }
func (l listerStub) DefaultMajors() []string { return l.defaults }

func TestQuickSelect_CapsAtFifteen(t *testing.T) {
	defaults := make([]string, 20)
	for i := range defaults {
		defaults[i] = string(rune('A' + i))
	}
	top, err := QuickSelect(listerStub{defaults: defaults}, "TOP15")
	require.NoError(t, err)
	assert.Equal(t, defaults[:15], top)
}

func TestComputeSuperlatives(t *testing.T) {
	rows, err := Select(summaries(), []string{"Biology", "Computer Science", "Nursing"}, SortMajor, false)
	require.NoError(t, err)

	s := ComputeSuperlatives(rows)
	require.True(t, s.OK)
	assert.Equal(t, Leader{"Computer Science", 90000}, s.HighestSalary)
	// Tie at 900 jobs and 12% growth: first encountered wins.
	assert.Equal(t, Leader{"Computer Science", 900}, s.MostJobs)
	assert.Equal(t, Leader{"Computer Science", 12}, s.FastestGrowth)
	assert.Equal(t, Leader{"Computer Science", 10}, s.MostCareerPaths)
}

func TestComputeSuperlatives_Empty(t *testing.T) {
	s := ComputeSuperlatives(nil)
	assert.False(t, s.OK)
	assert.Equal(t, Superlatives{}, s)
}

func TestCompare_SuperlativeTiesIgnoreDisplayOrder(t *testing.T) {
	all := []string{"Biology", "Computer Science", "Nursing"}

	c, err := Compare(summaries(), all, SortMajor, true)
	require.NoError(t, err)
	assert.Equal(t, []string{"Nursing", "Computer Science", "Biology"}, majorsOf(c.Rows))
	assert.Equal(t, SortMajor, c.SortKey)
	assert.True(t, c.Descending)
	assert.Equal(t, "Computer Science", c.Superlatives.MostJobs.Major)
	assert.Equal(t, "Computer Science", c.Superlatives.FastestGrowth.Major)
}

func TestCompare_UnknownKey(t *testing.T) {
	_, err := Compare(summaries(), []string{"Nursing"}, "bogus", false)
	assert.True(t, apperr.IsInvalidArgument(err))
}
