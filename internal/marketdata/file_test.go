package marketdata

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleCSV = `date,1M,3M,1Y,10Y
2024-01-02,5.55,5.46,4.80,3.95
2024-01-03,5.54,5.48,., 3.91
2024-01-04,5.56,5.48,4.85,3.99
`

func TestReadCSV(t *testing.T) {
	tbl, err := ReadCSV(strings.NewReader(sampleCSV), time.Time{}, time.Time{})
	require.NoError(t, err)

	assert.Equal(t, []string{"1M", "3M", "1Y", "10Y"}, tbl.Labels)
	require.Len(t, tbl.Rows, 2, "row with a missing value is dropped")

	row, err := tbl.Latest()
	require.NoError(t, err)
	assert.Equal(t, day("2024-01-04"), row.Date)
	assert.InDelta(t, 0.0485, row.Yields["1Y"], 1e-12)
	assert.InDelta(t, 0.0399, row.Yields["10Y"], 1e-12)
}

func TestReadCSV_Window(t *testing.T) {
	tbl, err := ReadCSV(strings.NewReader(sampleCSV), day("2024-01-01"), day("2024-01-03"))
	require.NoError(t, err)
	require.Len(t, tbl.Rows, 1)
	assert.Equal(t, day("2024-01-02"), tbl.Rows[0].Date)
}

func TestReadCSV_Errors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr error
	}{
		{"empty", "", ErrNoData},
		{"no date column", "when,1Y,10Y\n2024-01-02,1,2\n", ErrMalformedData},
		{"unknown label", "date,1Y,7Y\n2024-01-02,1,2\n", ErrMalformedData},
		{"bad value", "date,1Y,10Y\n2024-01-02,abc,2\n", ErrMalformedData},
		{"bad date", "date,1Y,10Y\n01/02/2024,1,2\n", ErrMalformedData},
		{"no complete row", "date,1Y,10Y\n2024-01-02,.,2\n", ErrNoData},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadCSV(strings.NewReader(tt.input), time.Time{}, time.Time{})
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestFileProvider(t *testing.T) {
	path := filepath.Join(t.TempDir(), "yields.csv")
	require.NoError(t, os.WriteFile(path, []byte(sampleCSV), 0o644))

	tbl, err := NewFileProvider(path).Fetch(context.Background(), time.Time{}, time.Time{})
	require.NoError(t, err)
	assert.Len(t, tbl.Rows, 2)

	_, err = NewFileProvider(filepath.Join(t.TempDir(), "missing.csv")).Fetch(context.Background(), time.Time{}, time.Time{})
	assert.Error(t, err)
}

func TestFlatProvider(t *testing.T) {
	p := NewFlatProvider(0.05)
	p.Now = func() time.Time { return time.Date(2024, 3, 15, 13, 0, 0, 0, time.UTC) }

	tbl, err := p.Fetch(context.Background(), time.Time{}, time.Time{})
	require.NoError(t, err)
	require.Len(t, tbl.Rows, 1)
	assert.Equal(t, day("2024-03-15"), tbl.Rows[0].Date)
	assert.Len(t, tbl.Rows[0].Yields, 8)

	yc, _, err := tbl.Curve()
	require.NoError(t, err)
	assert.InDelta(t, 0.05, yc.Rate(7), 1e-12)

	_, err = NewFlatProvider(-0.01).Fetch(context.Background(), time.Time{}, time.Time{})
	assert.ErrorIs(t, err, ErrMalformedData)
}
