package derive

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"SIPScope/internal/domain/models"
)

// tradingDaysPerYear annualizes daily volatility.
const tradingDaysPerYear = 252

// ApplyVolatility fills the rolling volatility columns and the intraday
// range.
//
// vol_w at index i is the sample (n-1 denominator) standard deviation of
// the w log returns ending at i, times sqrt(252). The first log return
// lives at index 1, so vol_w is first defined at record index w; any gap
// in the log-return column (zero previous close) restarts the window.
// Intraday range is (high-low)/open and undefined when open is zero.
func ApplyVolatility(recs []models.DerivedRecord) {
	for i := range recs {
		r := &recs[i]
		if r.Open != 0 {
			r.IntradayRange = models.Float64((r.High - r.Low) / r.Open)
		}
	}

	for _, w := range models.VolWindows {
		applyVolWindow(recs, w)
	}
}

func applyVolWindow(recs []models.DerivedRecord, w int) {
	window := make([]float64, 0, w)
	for i := range recs {
		r := &recs[i]
		if r.LogReturn == nil {
			window = window[:0]
			continue
		}
		window = append(window, *r.LogReturn)
		if len(window) > w {
			window = window[1:]
		}
		if len(window) < w {
			continue
		}
		sigma := stat.StdDev(window, nil) * math.Sqrt(tradingDaysPerYear)
		switch w {
		case 5:
			r.Vol5 = models.Float64(sigma)
		case 10:
			r.Vol10 = models.Float64(sigma)
		case 20:
			r.Vol20 = models.Float64(sigma)
		case 60:
			r.Vol60 = models.Float64(sigma)
		}
	}
}

// ClassifyVolRegime partitions the defined vol_20 column into three
// equal-population buckets and labels every record that has a defined
// vol_20 with its bucket. This is a whole-series pass: it must run after
// every rolling pass has finished.
//
// Fewer than three distinct vol_20 values make an equal-population split
// meaningless, so that fails the run instead of recovering silently.
func ClassifyVolRegime(recs []models.DerivedRecord) error {
	vals := definedVals(recs, func(r *models.DerivedRecord) *float64 { return r.Vol20 })
	if len(vals) == 0 {
		return insufficientErr("vol_20", 21, len(recs))
	}
	if distinctCount(vals) < 3 {
		return degenerateErr("vol_20", "needs at least 3 distinct values for tertile split")
	}

	sort.Float64s(vals)
	lo := stat.Quantile(1.0/3.0, stat.LinInterp, vals, nil)
	hi := stat.Quantile(2.0/3.0, stat.LinInterp, vals, nil)

	for i := range recs {
		r := &recs[i]
		if r.Vol20 == nil {
			continue
		}
		regime := models.RegimeHigh
		switch {
		case *r.Vol20 <= lo:
			regime = models.RegimeLow
		case *r.Vol20 <= hi:
			regime = models.RegimeMedium
		}
		r.VolRegime = &regime
	}
	return nil
}
