package marketdata

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/wonny/bondlab/internal/curve"
)

// FileProvider reads yields from a CSV file with a header
// "date,<label>,<label>,..." and percentage values. Empty cells and "."
// count as missing.
type FileProvider struct {
	Path string
}

// NewFileProvider creates a provider for path.
func NewFileProvider(path string) *FileProvider {
	return &FileProvider{Path: path}
}

// Fetch implements Provider.
func (p *FileProvider) Fetch(_ context.Context, start, end time.Time) (*Table, error) {
	f, err := os.Open(p.Path)
	if err != nil {
		return nil, fmt.Errorf("open yield file: %w", err)
	}
	defer f.Close()

	return ReadCSV(f, start, end)
}

// ReadCSV parses percentage yields from r, keeping rows in [start, end].
func ReadCSV(r io.Reader, start, end time.Time) (*Table, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty file", ErrNoData)
		}
		return nil, fmt.Errorf("%w: header: %v", ErrMalformedData, err)
	}
	if len(header) < 3 || !strings.EqualFold(strings.TrimSpace(header[0]), "date") {
		return nil, fmt.Errorf("%w: header must be date followed by at least two maturity labels", ErrMalformedData)
	}

	labels := make([]string, 0, len(header)-1)
	for _, h := range header[1:] {
		label := strings.ToUpper(strings.TrimSpace(h))
		if _, err := curve.LabelYears(label); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedData, err)
		}
		labels = append(labels, label)
	}

	obs := make(series)
	line := 1
	for {
		rec, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrMalformedData, line, err)
		}

		date, err := time.Parse(dateLayout, strings.TrimSpace(rec[0]))
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: date %q", ErrMalformedData, line, rec[0])
		}
		if !inWindow(date, start, end) {
			continue
		}

		for i, label := range labels {
			cell := strings.TrimSpace(rec[i+1])
			if cell == "" || cell == fredMissing {
				continue
			}
			v, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				return nil, fmt.Errorf("%w: line %d: %s value %q", ErrMalformedData, line, label, cell)
			}
			obs.add(label, date, percentToDecimal(v))
		}
	}

	t := obs.table(labels)
	if len(t.Rows) == 0 {
		return nil, fmt.Errorf("%w: no complete row", ErrNoData)
	}
	return t, nil
}
