// Package derive computes the per-day feature columns of the SIP timing
// pipeline. Passes are split in two phases: causal passes that only look
// backward from each record, and whole-series passes (volatility regime,
// panic threshold, z-score) that need the full distribution and may only
// run once every causal pass has finished.
package derive

import (
	"errors"
	"fmt"

	"SIPScope/internal/domain/models"
)

var (
	// ErrInsufficientHistory means a whole-series statistic has no
	// defined source values at all: the series is shorter than the
	// smallest lookback that would produce one.
	ErrInsufficientHistory = errors.New("insufficient history")

	// ErrDegenerateDistribution means a whole-series column has too few
	// distinct values (or zero variance) to classify or normalize.
	ErrDegenerateDistribution = errors.New("degenerate distribution")
)

// NewRecords seeds one DerivedRecord per bar, copying the immutable
// price fields. Every derived field starts undefined.
func NewRecords(s models.Series) []models.DerivedRecord {
	recs := make([]models.DerivedRecord, len(s.Bars))
	for i, b := range s.Bars {
		recs[i] = models.DerivedRecord{
			Date:  b.Date,
			Open:  b.Open,
			High:  b.High,
			Low:   b.Low,
			Close: b.Close,
		}
	}
	return recs
}

// insufficientErr builds an ErrInsufficientHistory naming the violated
// precondition, per the no-silent-all-undefined policy.
func insufficientErr(column string, need, have int) error {
	return fmt.Errorf("%w: column %s needs at least %d observations, series has %d",
		ErrInsufficientHistory, column, need, have)
}

// degenerateErr builds an ErrDegenerateDistribution naming the column
// and the failed requirement.
func degenerateErr(column, requirement string) error {
	return fmt.Errorf("%w: column %s %s", ErrDegenerateDistribution, column, requirement)
}

// definedVals collects the defined values of an optional column in
// record order.
func definedVals(recs []models.DerivedRecord, get func(*models.DerivedRecord) *float64) []float64 {
	out := make([]float64, 0, len(recs))
	for i := range recs {
		if v := get(&recs[i]); v != nil {
			out = append(out, *v)
		}
	}
	return out
}

// distinctCount counts distinct values in vals.
func distinctCount(vals []float64) int {
	seen := make(map[float64]struct{}, len(vals))
	for _, v := range vals {
		seen[v] = struct{}{}
	}
	return len(seen)
}
