package derive

import (
	"math"

	"SIPScope/internal/domain/models"
)

// The composite score treats its boolean inputs asymmetrically: the
// drop flag is a hard gate (an up day scores zero no matter what),
// while gap-down and panic are bonus multipliers that double the score
// when set. The conversions are named so that asymmetry stays visible.

// gateFactor converts the drop gate: false kills the score.
func gateFactor(flag bool) float64 {
	if flag {
		return 1
	}
	return 0
}

// bonusFactor converts a bonus flag: 1+flag in the source formula.
func bonusFactor(flag bool) float64 {
	if flag {
		return 2
	}
	return 1
}

// ApplyScores fills the SIP opportunity score:
//
//	sip_score = drop * (1+vol_20) * (1+|drawdown|) * (1+gap_down) * (1+panic_day)
//
// The score is defined only when drop, vol_20, gap_down and panic_day
// are all defined (drawdown always is). An undefined input leaves the
// score undefined rather than zero, so early-history buckets whose
// lookback windows have not filled never drag averages down.
func ApplyScores(recs []models.DerivedRecord) {
	for i := range recs {
		r := &recs[i]
		if r.Drop == nil || r.Vol20 == nil || r.GapDown == nil || r.PanicDay == nil {
			continue
		}
		score := gateFactor(*r.Drop) *
			(1 + *r.Vol20) *
			(1 + math.Abs(r.Drawdown)) *
			bonusFactor(*r.GapDown) *
			bonusFactor(*r.PanicDay)
		r.SIPScore = models.Float64(score)
	}
}
