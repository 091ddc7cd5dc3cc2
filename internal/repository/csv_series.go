package repository

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"sort"
	"strings"

	"SIPScope/internal/domain/models"
	domrepo "SIPScope/internal/domain/repository"
	"SIPScope/pkg/logger"
	"SIPScope/pkg/util"
)

// CSVSeriesSource reads a daily OHLC history from a CSV file with a
// Date,Open,High,Low,Close header (column order free, extra columns
// ignored). It owns the ingestion duties the core assumes done:
// date parsing, numeric coercion, dropping invalid rows, ascending
// sort and date deduplication.
type CSVSeriesSource struct {
	path   string
	symbol string
	log    *logger.Logger
}

// NewCSVSeriesSource creates a CSV series source.
func NewCSVSeriesSource(path, symbol string) *CSVSeriesSource {
	return &CSVSeriesSource{path: path, symbol: symbol}
}

// SetLogger attaches a logger for ingestion diagnostics.
func (s *CSVSeriesSource) SetLogger(l *logger.Logger) { s.log = l }

// Load reads, validates and orders the series.
func (s *CSVSeriesSource) Load(ctx context.Context) (models.Series, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return models.Series{}, fmt.Errorf("open series file: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		return models.Series{}, fmt.Errorf("read series file: %w", err)
	}
	if len(rows) < 1 {
		return models.Series{}, fmt.Errorf("series file %s is empty", s.path)
	}

	cols, err := headerIndex(rows[0])
	if err != nil {
		return models.Series{}, fmt.Errorf("series file %s: %w", s.path, err)
	}

	bars := make([]models.PriceBar, 0, len(rows)-1)
	dropped := 0
	for _, row := range rows[1:] {
		if err := ctx.Err(); err != nil {
			return models.Series{}, err
		}
		bar, ok := parseBar(row, cols)
		if !ok {
			dropped++
			continue
		}
		bars = append(bars, bar)
	}

	// Stable keeps file order within one date, so dedupe keeps the
	// last row the file had for it.
	sort.SliceStable(bars, func(i, j int) bool { return bars[i].Date.Before(bars[j].Date) })
	bars = dedupeByDate(bars)

	if s.log != nil {
		s.log.Info("series loaded",
			logger.String("file", s.path),
			logger.String("symbol", s.symbol),
			logger.Int("rows", len(bars)),
			logger.Int("dropped", dropped),
		)
	}
	return models.Series{Symbol: s.symbol, Bars: bars}, nil
}

func headerIndex(header []string) (map[string]int, error) {
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, required := range []string{"date", "open", "high", "low", "close"} {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("missing column %q", required)
		}
	}
	return cols, nil
}

func parseBar(row []string, cols map[string]int) (models.PriceBar, bool) {
	field := func(name string) (string, bool) {
		idx := cols[name]
		if idx >= len(row) {
			return "", false
		}
		return strings.TrimSpace(row[idx]), true
	}

	raw, ok := field("date")
	if !ok {
		return models.PriceBar{}, false
	}
	date, ok := util.ParseDate(raw)
	if !ok {
		return models.PriceBar{}, false
	}

	var bar models.PriceBar
	bar.Date = date
	for _, p := range []struct {
		name string
		dst  *float64
	}{
		{"open", &bar.Open},
		{"high", &bar.High},
		{"low", &bar.Low},
		{"close", &bar.Close},
	} {
		raw, ok := field(p.name)
		if !ok {
			return models.PriceBar{}, false
		}
		v, ok := util.ParsePrice(raw)
		if !ok {
			return models.PriceBar{}, false
		}
		*p.dst = v
	}
	return bar, true
}

// dedupeByDate keeps the last row per date; input must be sorted.
func dedupeByDate(bars []models.PriceBar) []models.PriceBar {
	if len(bars) < 2 {
		return bars
	}
	out := bars[:1]
	for _, b := range bars[1:] {
		if b.Date.Equal(out[len(out)-1].Date) {
			out[len(out)-1] = b
			continue
		}
		out = append(out, b)
	}
	return out
}

var _ domrepo.SeriesSource = (*CSVSeriesSource)(nil)
