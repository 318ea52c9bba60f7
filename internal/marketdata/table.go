// Package marketdata supplies dated Treasury yield observations to the
// curve builder: a FRED client, a CSV file provider and a flat provider.
// All providers return yields as decimals.
package marketdata

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/wonny/bondlab/internal/curve"
)

var (
	// ErrNoData is returned when no complete observation row is available.
	ErrNoData = errors.New("no yield data")
	// ErrMalformedData is returned for unparseable source data.
	ErrMalformedData = errors.New("malformed yield data")
)

const dateLayout = "2006-01-02"

// Provider fetches yield observations between start and end (inclusive).
// A zero end means "up to the latest observation".
type Provider interface {
	Fetch(ctx context.Context, start, end time.Time) (*Table, error)
}

// Row is one dated set of decimal yields keyed by maturity label.
type Row struct {
	Date   time.Time          `json:"date"`
	Yields map[string]float64 `json:"yields"`
}

// Table holds complete rows sorted by date.
type Table struct {
	Labels []string `json:"labels"`
	Rows   []Row    `json:"rows"`
}

// Latest returns the last row.
func (t *Table) Latest() (Row, error) {
	if t == nil || len(t.Rows) == 0 {
		return Row{}, ErrNoData
	}
	return t.Rows[len(t.Rows)-1], nil
}

// Curve builds a yield curve from the latest row.
func (t *Table) Curve() (*curve.YieldCurve, time.Time, error) {
	row, err := t.Latest()
	if err != nil {
		return nil, time.Time{}, err
	}
	yc, err := curve.NewYieldCurve(row.Yields)
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("curve for %s: %w", row.Date.Format(dateLayout), err)
	}
	return yc, row.Date, nil
}

// DailyChangesBP returns consecutive-row changes of label in basis points.
func (t *Table) DailyChangesBP(label string) ([]float64, error) {
	if t == nil || len(t.Rows) < 2 {
		return nil, ErrNoData
	}
	out := make([]float64, 0, len(t.Rows)-1)
	for i := 1; i < len(t.Rows); i++ {
		prev, ok1 := t.Rows[i-1].Yields[label]
		cur, ok2 := t.Rows[i].Yields[label]
		if !ok1 || !ok2 {
			return nil, fmt.Errorf("%w: label %q missing on %s", ErrNoData, label, t.Rows[i].Date.Format(dateLayout))
		}
		out = append(out, (cur-prev)*1e4)
	}
	return out, nil
}

// series collects per-label observations keyed by date.
type series map[string]map[time.Time]float64

func (s series) add(label string, date time.Time, value float64) {
	if s[label] == nil {
		s[label] = make(map[time.Time]float64)
	}
	s[label][date] = value
}

// table joins the series on date, keeping only dates where every label has
// a value, and sorts the result by date.
func (s series) table(labels []string) *Table {
	t := &Table{Labels: append([]string(nil), labels...)}
	if len(labels) == 0 {
		return t
	}

	for date := range s[labels[0]] {
		row := Row{Date: date, Yields: make(map[string]float64, len(labels))}
		complete := true
		for _, l := range labels {
			v, ok := s[l][date]
			if !ok {
				complete = false
				break
			}
			row.Yields[l] = v
		}
		if complete {
			t.Rows = append(t.Rows, row)
		}
	}

	sort.Slice(t.Rows, func(i, j int) bool { return t.Rows[i].Date.Before(t.Rows[j].Date) })
	return t
}

// inWindow reports whether d falls in [start, end]; zero bounds are open.
func inWindow(d, start, end time.Time) bool {
	if !start.IsZero() && d.Before(start) {
		return false
	}
	if !end.IsZero() && d.After(end) {
		return false
	}
	return true
}

// percentToDecimal converts a quoted percentage yield.
func percentToDecimal(v float64) float64 {
	return v / 100.0
}
