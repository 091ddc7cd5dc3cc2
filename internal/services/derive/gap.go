package derive

import "SIPScope/internal/domain/models"

// bigGapThreshold marks an overnight gap of -1% or worse.
const bigGapThreshold = -0.01

// ApplyGaps fills the overnight gap column and its down flags. The gap
// at index 0 is undefined (no prior close), as is any gap over a zero
// previous close. No lookback beyond one bar.
func ApplyGaps(recs []models.DerivedRecord) {
	for i := 1; i < len(recs); i++ {
		r := &recs[i]
		prev := recs[i-1].Close
		if prev == 0 {
			continue
		}
		gap := (r.Open - prev) / prev
		r.Gap = models.Float64(gap)
		r.GapDown = models.Bool(gap < 0)
		r.BigGapDown = models.Bool(gap <= bigGapThreshold)
	}
}
