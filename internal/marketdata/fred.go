package marketdata

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/wonny/bondlab/internal/curve"
	"github.com/wonny/bondlab/pkg/config"
	"github.com/wonny/bondlab/pkg/httputil"
	"github.com/wonny/bondlab/pkg/logger"
)

// TreasuryTickers maps canonical maturity labels to FRED constant-maturity
// Treasury series.
// ⭐ SSOT: 만기 라벨 → FRED 시리즈 ID 매핑은 여기서만
var TreasuryTickers = map[string]string{
	"1M":  "DGS1MO",
	"3M":  "DGS3MO",
	"6M":  "DGS6MO",
	"1Y":  "DGS1",
	"2Y":  "DGS2",
	"5Y":  "DGS5",
	"10Y": "DGS10",
	"30Y": "DGS30",
}

// fredMissing marks a missing observation in FRED responses.
const fredMissing = "."

type fredObservationsResponse struct {
	ObservationStart string            `json:"observation_start"`
	ObservationEnd   string            `json:"observation_end"`
	Count            int               `json:"count"`
	Observations     []fredObservation `json:"observations"`
}

type fredObservation struct {
	Date  string `json:"date"`
	Value string `json:"value"`
}

// FREDClient fetches Treasury yields from the FRED series/observations API.
type FREDClient struct {
	client  *httputil.Client
	logger  *logger.Logger
	baseURL string
	apiKey  string
	labels  []string
}

// NewFREDClient creates a client for every canonical maturity. The shared
// HTTP client is rate limited to cfg.FRED.RateLimit requests per second.
func NewFREDClient(cfg *config.Config, client *httputil.Client, log *logger.Logger) *FREDClient {
	if cfg.FRED.RateLimit > 0 {
		client.WithRateLimit(cfg.FRED.RateLimit, 1)
	}
	return &FREDClient{
		client:  client,
		logger:  log,
		baseURL: strings.TrimRight(cfg.FRED.BaseURL, "/"),
		apiKey:  cfg.FRED.APIKey,
		labels:  curve.Labels(),
	}
}

// Fetch implements Provider. One request is made per maturity label.
func (f *FREDClient) Fetch(ctx context.Context, start, end time.Time) (*Table, error) {
	obs := make(series)

	for _, label := range f.labels {
		id, ok := TreasuryTickers[label]
		if !ok {
			return nil, fmt.Errorf("%w: no FRED series for %s", ErrMalformedData, label)
		}

		var resp fredObservationsResponse
		if err := f.client.GetJSON(ctx, f.observationsURL(id, start, end), &resp); err != nil {
			return nil, fmt.Errorf("fred %s: %w", id, err)
		}

		kept := 0
		for _, o := range resp.Observations {
			if o.Value == fredMissing || o.Value == "" {
				continue
			}
			date, err := time.Parse(dateLayout, o.Date)
			if err != nil {
				return nil, fmt.Errorf("%w: fred %s date %q", ErrMalformedData, id, o.Date)
			}
			v, err := strconv.ParseFloat(o.Value, 64)
			if err != nil {
				return nil, fmt.Errorf("%w: fred %s value %q on %s", ErrMalformedData, id, o.Value, o.Date)
			}
			obs.add(label, date, percentToDecimal(v))
			kept++
		}

		f.logger.WithFields(map[string]interface{}{
			"series":       id,
			"label":        label,
			"observations": kept,
		}).Debug("FRED series fetched")
	}

	t := obs.table(f.labels)
	if len(t.Rows) == 0 {
		return nil, fmt.Errorf("%w: no date with all %d maturities", ErrNoData, len(f.labels))
	}

	f.logger.WithFields(map[string]interface{}{
		"rows":   len(t.Rows),
		"latest": t.Rows[len(t.Rows)-1].Date.Format(dateLayout),
	}).Info("Treasury yields loaded from FRED")

	return t, nil
}

func (f *FREDClient) observationsURL(seriesID string, start, end time.Time) string {
	q := url.Values{}
	q.Set("series_id", seriesID)
	q.Set("api_key", f.apiKey)
	q.Set("file_type", "json")
	if !start.IsZero() {
		q.Set("observation_start", start.Format(dateLayout))
	}
	if !end.IsZero() {
		q.Set("observation_end", end.Format(dateLayout))
	}
	return f.baseURL + "/series/observations?" + q.Encode()
}
