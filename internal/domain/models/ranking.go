package models

import "time"

// Dimension identifies one calendar grouping of the ranking engine.
type Dimension string

const (
	DimWeekday     Dimension = "weekday"
	DimDayOfMonth  Dimension = "day"
	DimWeekOfMonth Dimension = "week"
	DimMonth       Dimension = "month"
)

// Dimensions lists every supported grouping.
var Dimensions = []Dimension{DimWeekday, DimDayOfMonth, DimWeekOfMonth, DimMonth}

// Bucket aggregates the records sharing one calendar key. Each statistic
// skips records where its own input is undefined; a statistic with no
// defined inputs at all stays nil.
type Bucket struct {
	Key             string   `json:"key"`
	Count           int      `json:"count"`
	DropProbability *float64 `json:"drop_probability"`
	AvgReturn       *float64 `json:"avg_return"`
	AvgDrawdown     *float64 `json:"avg_drawdown,omitempty"` // weekday grouping only
	AvgSIPScore     *float64 `json:"avg_sip_score"`
}

// RankingTable holds the buckets of one grouping dimension sorted
// descending by AvgSIPScore. Ties keep the canonical key order (the
// sort is stable), so rankings are reproducible run to run.
type RankingTable struct {
	Dimension Dimension `json:"dimension"`
	Buckets   []Bucket  `json:"buckets"`
}

// Pivot is a two-dimensional aggregate table for heatmap rendering.
// Values is indexed [row][col]; nil cells had no defined inputs.
type Pivot struct {
	Name    string       `json:"name"`
	RowKeys []string     `json:"row_keys"`
	ColKeys []string     `json:"col_keys"`
	Values  [][]*float64 `json:"values"`
}

// Analysis is the complete output of one pipeline run: the per-day
// derived table, the four ranking tables, and the heatmap pivots.
type Analysis struct {
	Symbol      string                     `json:"symbol"`
	From        time.Time                  `json:"from"`
	To          time.Time                  `json:"to"`
	GeneratedAt time.Time                  `json:"generated_at"`
	Records     []DerivedRecord            `json:"records"`
	Tables      map[Dimension]RankingTable `json:"tables"`
	Pivots      []Pivot                    `json:"pivots"`
}

// Table returns the ranking table for dim, or nil.
func (a *Analysis) Table(dim Dimension) *RankingTable {
	if a == nil || a.Tables == nil {
		return nil
	}
	if t, ok := a.Tables[dim]; ok {
		return &t
	}
	return nil
}

// Pivot returns the named pivot, or nil.
func (a *Analysis) Pivot(name string) *Pivot {
	if a == nil {
		return nil
	}
	for i := range a.Pivots {
		if a.Pivots[i].Name == name {
			return &a.Pivots[i]
		}
	}
	return nil
}
