package marketdata

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(s string) time.Time {
	d, err := time.Parse(dateLayout, s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestSeriesTable_JoinsAndDropsIncomplete(t *testing.T) {
	s := make(series)
	s.add("1Y", day("2024-01-03"), 0.048)
	s.add("1Y", day("2024-01-02"), 0.047)
	s.add("1Y", day("2024-01-04"), 0.049)
	s.add("10Y", day("2024-01-02"), 0.039)
	s.add("10Y", day("2024-01-04"), 0.041)

	tbl := s.table([]string{"1Y", "10Y"})
	require.Len(t, tbl.Rows, 2)
	assert.Equal(t, day("2024-01-02"), tbl.Rows[0].Date)
	assert.Equal(t, day("2024-01-04"), tbl.Rows[1].Date)
	assert.Equal(t, 0.041, tbl.Rows[1].Yields["10Y"])
}

func TestTable_Latest(t *testing.T) {
	_, err := (&Table{}).Latest()
	assert.ErrorIs(t, err, ErrNoData)

	var nilTable *Table
	_, err = nilTable.Latest()
	assert.ErrorIs(t, err, ErrNoData)

	tbl := &Table{Rows: []Row{
		{Date: day("2024-01-02"), Yields: map[string]float64{"1Y": 0.04}},
		{Date: day("2024-01-03"), Yields: map[string]float64{"1Y": 0.05}},
	}}
	row, err := tbl.Latest()
	require.NoError(t, err)
	assert.Equal(t, day("2024-01-03"), row.Date)
}

func TestTable_Curve(t *testing.T) {
	tbl := &Table{Rows: []Row{{
		Date:   day("2024-01-03"),
		Yields: map[string]float64{"1Y": 0.05, "5Y": 0.045, "10Y": 0.044},
	}}}

	yc, date, err := tbl.Curve()
	require.NoError(t, err)
	assert.Equal(t, day("2024-01-03"), date)
	assert.InDelta(t, 0.045, yc.Rate(5), 1e-12)
}

func TestInWindow(t *testing.T) {
	d := day("2024-06-01")
	assert.True(t, inWindow(d, time.Time{}, time.Time{}))
	assert.True(t, inWindow(d, day("2024-06-01"), day("2024-06-01")))
	assert.False(t, inWindow(d, day("2024-06-02"), time.Time{}))
	assert.False(t, inWindow(d, time.Time{}, day("2024-05-31")))
}

func TestTable_DailyChangesBP(t *testing.T) {
	tbl := &Table{
		Labels: []string{"10Y"},
		Rows: []Row{
			{Date: day("2024-01-02"), Yields: map[string]float64{"10Y": 0.0400}},
			{Date: day("2024-01-03"), Yields: map[string]float64{"10Y": 0.0410}},
			{Date: day("2024-01-04"), Yields: map[string]float64{"10Y": 0.0405}},
		},
	}

	got, err := tbl.DailyChangesBP("10Y")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.InDelta(t, 10, got[0], 1e-9)
	assert.InDelta(t, -5, got[1], 1e-9)

	_, err = tbl.DailyChangesBP("30Y")
	assert.ErrorIs(t, err, ErrNoData)

	_, err = (&Table{Rows: tbl.Rows[:1]}).DailyChangesBP("10Y")
	assert.ErrorIs(t, err, ErrNoData)
}
