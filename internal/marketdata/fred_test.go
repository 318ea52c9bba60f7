package marketdata

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/bondlab/pkg/config"
	"github.com/wonny/bondlab/pkg/httputil"
	"github.com/wonny/bondlab/pkg/logger"
)

func newFREDTestClient(t *testing.T, handler http.HandlerFunc) *FREDClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := &config.Config{
		HTTPTimeout: 5 * time.Second,
		FRED: config.FREDConfig{
			APIKey:    "test-key",
			BaseURL:   srv.URL + "/fred/",
			RateLimit: 1000,
		},
	}
	client := httputil.New(cfg, logger.Nop()).DisableRetry()
	return NewFREDClient(cfg, client, logger.Nop())
}

func TestFREDClient_Fetch(t *testing.T) {
	var seen []string
	f := newFREDTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/fred/series/observations", r.URL.Path)
		assert.Equal(t, "test-key", r.URL.Query().Get("api_key"))
		assert.Equal(t, "json", r.URL.Query().Get("file_type"))
		assert.Equal(t, "2024-01-01", r.URL.Query().Get("observation_start"))

		id := r.URL.Query().Get("series_id")
		seen = append(seen, id)

		obs := []fredObservation{
			{Date: "2024-01-02", Value: "4.00"},
			{Date: "2024-01-03", Value: "4.10"},
		}
		// one series is missing the last day
		if id == "DGS10" {
			obs[1].Value = "."
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(fredObservationsResponse{Observations: obs})
	})

	tbl, err := f.Fetch(context.Background(), day("2024-01-01"), time.Time{})
	require.NoError(t, err)

	assert.Len(t, seen, len(TreasuryTickers))
	require.Len(t, tbl.Rows, 1)
	row, err := tbl.Latest()
	require.NoError(t, err)
	assert.Equal(t, day("2024-01-02"), row.Date)
	assert.InDelta(t, 0.04, row.Yields["30Y"], 1e-12)
}

func TestFREDClient_HTTPError(t *testing.T) {
	f := newFREDTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad api key", http.StatusBadRequest)
	})

	_, err := f.Fetch(context.Background(), time.Time{}, time.Time{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "400")
}

func TestFREDClient_MalformedValue(t *testing.T) {
	f := newFREDTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(fredObservationsResponse{
			Observations: []fredObservation{{Date: "2024-01-02", Value: "n/a"}},
		})
	})

	_, err := f.Fetch(context.Background(), time.Time{}, time.Time{})
	assert.ErrorIs(t, err, ErrMalformedData)
}

func TestFREDClient_NoCompleteRow(t *testing.T) {
	f := newFREDTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(fredObservationsResponse{
			Observations: []fredObservation{{Date: "2024-01-02", Value: "."}},
		})
	})

	_, err := f.Fetch(context.Background(), time.Time{}, time.Time{})
	assert.ErrorIs(t, err, ErrNoData)
}

func TestTreasuryTickers_CoverCanonicalLabels(t *testing.T) {
	f := newFREDTestClient(t, func(w http.ResponseWriter, r *http.Request) {})
	for _, l := range f.labels {
		assert.Contains(t, TreasuryTickers, l)
	}
}
