package repository

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"SIPScope/internal/domain/models"
	domrepo "SIPScope/internal/domain/repository"
)

// rankingFiles maps each grouping dimension to its output file name,
// matching the names downstream tooling expects.
var rankingFiles = map[models.Dimension]string{
	models.DimWeekday:     "sip_best_weekdays.csv",
	models.DimDayOfMonth:  "sip_best_days.csv",
	models.DimWeekOfMonth: "sip_best_weeks.csv",
	models.DimMonth:       "sip_best_months.csv",
}

// CSVTableSink writes ranking tables and pivots as CSV files into one
// output directory.
type CSVTableSink struct {
	dir string
}

// NewCSVTableSink creates a sink writing into dir.
func NewCSVTableSink(dir string) *CSVTableSink {
	return &CSVTableSink{dir: dir}
}

// Write serializes the four ranking tables and every pivot.
func (s *CSVTableSink) Write(ctx context.Context, a *models.Analysis) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	for dim, name := range rankingFiles {
		table := a.Table(dim)
		if table == nil {
			continue
		}
		if err := s.writeTable(filepath.Join(s.dir, name), table); err != nil {
			return err
		}
	}
	for i := range a.Pivots {
		p := &a.Pivots[i]
		name := "sip_pivot_" + p.Name + ".csv"
		if err := s.writePivot(filepath.Join(s.dir, name), p); err != nil {
			return err
		}
	}
	return nil
}

func (s *CSVTableSink) writeTable(path string, t *models.RankingTable) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	header := []string{string(t.Dimension), "count", "drop_prob", "avg_return"}
	if t.Dimension == models.DimWeekday {
		header = append(header, "avg_drawdown")
	}
	header = append(header, "sip_score")
	if err := w.Write(header); err != nil {
		return err
	}
	for _, b := range t.Buckets {
		row := []string{b.Key, strconv.Itoa(b.Count), formatOpt(b.DropProbability), formatOpt(b.AvgReturn)}
		if t.Dimension == models.DimWeekday {
			row = append(row, formatOpt(b.AvgDrawdown))
		}
		row = append(row, formatOpt(b.AvgSIPScore))
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func (s *CSVTableSink) writePivot(path string, p *models.Pivot) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(append([]string{""}, p.ColKeys...)); err != nil {
		return err
	}
	for i, key := range p.RowKeys {
		row := make([]string, 0, len(p.ColKeys)+1)
		row = append(row, key)
		for _, v := range p.Values[i] {
			row = append(row, formatOpt(v))
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// formatOpt renders an optional value; undefined cells stay empty.
func formatOpt(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', 6, 64)
}

var _ domrepo.TableSink = (*CSVTableSink)(nil)
