package derive

import (
	"math"

	"SIPScope/internal/domain/models"
)

// Drop thresholds, as fractions of the previous close.
const (
	dropHalfPct = -0.005
	dropOnePct  = -0.01
	dropTwoPct  = -0.02
)

// ApplyReturns fills the metric columns: simple and log return, the
// four drop flags, the running close maximum and the drawdown.
//
// Index 0 has no prior close, so its return, log return and drop flags
// stay undefined and propagate as such downstream; they are never
// coerced to zero or false. A zero previous close also leaves the
// record undefined (zero denominator). Cumulative max and drawdown are
// defined from index 0 onward, with drawdown_0 = 0.
func ApplyReturns(recs []models.DerivedRecord) {
	cumMax := math.Inf(-1)
	for i := range recs {
		r := &recs[i]

		if r.Close > cumMax {
			cumMax = r.Close
		}
		r.CumMax = cumMax
		if cumMax != 0 {
			r.Drawdown = (r.Close - cumMax) / cumMax
		}

		if i == 0 {
			continue
		}
		prev := recs[i-1].Close
		if prev == 0 {
			continue
		}

		ret := r.Close/prev - 1
		r.Return = models.Float64(ret)
		if r.Close > 0 && prev > 0 {
			r.LogReturn = models.Float64(math.Log(r.Close / prev))
		}

		r.Drop = models.Bool(ret < 0)
		r.Drop05 = models.Bool(ret <= dropHalfPct)
		r.Drop1 = models.Bool(ret <= dropOnePct)
		r.Drop2 = models.Bool(ret <= dropTwoPct)
	}
}
