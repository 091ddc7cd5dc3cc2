package derive

import (
	"sort"

	"gonum.org/v1/gonum/stat"

	"SIPScope/internal/domain/models"
)

// panicQuantile is the whole-series vol_20 quantile above which a >=1%
// drop counts as a panic day.
const panicQuantile = 0.75

// ApplyMovingAverages fills the trailing simple moving averages and the
// trend flags. ma_k needs k closes including the current day, so it is
// first defined at index k-1. Trend flags compare the close against
// ma_50 and stay undefined until ma_50 exists; they never default.
func ApplyMovingAverages(recs []models.DerivedRecord) {
	for _, k := range models.MAWindows {
		applyMAWindow(recs, k)
	}
	for i := range recs {
		r := &recs[i]
		if r.MA50 == nil {
			continue
		}
		r.TrendUp = models.Bool(r.Close > *r.MA50)
		r.TrendDown = models.Bool(r.Close < *r.MA50)
	}
}

func applyMAWindow(recs []models.DerivedRecord, k int) {
	sum := 0.0
	for i := range recs {
		sum += recs[i].Close
		if i >= k {
			sum -= recs[i-k].Close
		}
		if i < k-1 {
			continue
		}
		ma := sum / float64(k)
		r := &recs[i]
		switch k {
		case 20:
			r.MA20 = models.Float64(ma)
		case 50:
			r.MA50 = models.Float64(ma)
		case 100:
			r.MA100 = models.Float64(ma)
		case 200:
			r.MA200 = models.Float64(ma)
		}
	}
}

// ApplyZScore standardizes the defined ma_20 column to mean 0 and unit
// variance (population denominator) across the whole series. Records
// without ma_20 keep z_20 undefined. A flat ma_20 column has nothing to
// normalize and fails the run.
func ApplyZScore(recs []models.DerivedRecord) error {
	vals := definedVals(recs, func(r *models.DerivedRecord) *float64 { return r.MA20 })
	if len(vals) == 0 {
		return insufficientErr("ma_20", 20, len(recs))
	}
	mean := stat.Mean(vals, nil)
	sigma := stat.PopStdDev(vals, nil)
	if sigma == 0 {
		return degenerateErr("ma_20", "has zero variance, z-score undefined")
	}
	for i := range recs {
		r := &recs[i]
		if r.MA20 == nil {
			continue
		}
		r.Z20 = models.Float64((*r.MA20 - mean) / sigma)
	}
	return nil
}

// ApplyPanicFlags marks panic days: a >=1% drop while trailing 20-day
// volatility sits above its whole-series 75th percentile. The threshold
// is computed once over all defined vol_20 values, never rolling. The
// flag needs both drop_1 and vol_20 defined; otherwise it stays
// undefined.
func ApplyPanicFlags(recs []models.DerivedRecord) error {
	vals := definedVals(recs, func(r *models.DerivedRecord) *float64 { return r.Vol20 })
	if len(vals) == 0 {
		return insufficientErr("vol_20", 21, len(recs))
	}
	if distinctCount(vals) < 3 {
		return degenerateErr("vol_20", "needs at least 3 distinct values for percentile threshold")
	}
	sort.Float64s(vals)
	threshold := stat.Quantile(panicQuantile, stat.LinInterp, vals, nil)

	for i := range recs {
		r := &recs[i]
		if r.Drop1 == nil || r.Vol20 == nil {
			continue
		}
		r.PanicDay = models.Bool(*r.Drop1 && *r.Vol20 > threshold)
	}
	return nil
}
