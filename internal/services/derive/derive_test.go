package derive

import (
	"time"

	"SIPScope/internal/domain/models"
)

// barSeries builds a series of consecutive weekday bars where open,
// high and low track the close unless a test overrides them.
func barSeries(closes ...float64) models.Series {
	bars := make([]models.PriceBar, len(closes))
	d := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC) // a Monday
	for i, c := range closes {
		bars[i] = models.PriceBar{Date: d, Open: c, High: c, Low: c, Close: c}
		d = nextWeekday(d)
	}
	return models.Series{Symbol: "TEST", Bars: bars}
}

func nextWeekday(d time.Time) time.Time {
	d = d.AddDate(0, 0, 1)
	for d.Weekday() == time.Saturday || d.Weekday() == time.Sunday {
		d = d.AddDate(0, 0, 1)
	}
	return d
}

// trendingCloses produces n strictly increasing closes so rolling
// windows always have nonzero variance.
func trendingCloses(n int) []float64 {
	out := make([]float64, n)
	price := 100.0
	for i := range out {
		// alternate small down days and larger up days
		if i%3 == 2 {
			price *= 0.988
		} else {
			price *= 1.004 + 0.0007*float64(i%7)
		}
		out[i] = price
	}
	return out
}
