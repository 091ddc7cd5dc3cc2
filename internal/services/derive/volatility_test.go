package derive

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/stat"

	"SIPScope/internal/domain/models"
)

func TestApplyVolatilityFirstDefinedIndex(t *testing.T) {
	recs := NewRecords(barSeries(trendingCloses(12)...))
	ApplyReturns(recs)
	ApplyVolatility(recs)

	// The first log return is at index 1, so a 5-day window fills at
	// index 5, not 4.
	for i := 0; i < 5; i++ {
		require.Nil(t, recs[i].Vol5, "index %d", i)
	}
	require.NotNil(t, recs[5].Vol5)
	require.Nil(t, recs[9].Vol10)
	require.NotNil(t, recs[10].Vol10)
}

func TestApplyVolatilityMatchesSampleStdDev(t *testing.T) {
	recs := NewRecords(barSeries(trendingCloses(8)...))
	ApplyReturns(recs)
	ApplyVolatility(recs)

	logs := make([]float64, 0, 5)
	for i := 1; i <= 5; i++ {
		logs = append(logs, *recs[i].LogReturn)
	}
	want := stat.StdDev(logs, nil) * math.Sqrt(252)
	require.InDelta(t, want, *recs[5].Vol5, 1e-12)
}

func TestApplyVolatilityWindowResetsOnGap(t *testing.T) {
	closes := trendingCloses(14)
	closes[6] = 0 // kills log returns at 6 and 7
	recs := NewRecords(barSeries(closes...))
	ApplyReturns(recs)
	ApplyVolatility(recs)

	require.NotNil(t, recs[5].Vol5)
	// Window restarts after the gap: five fresh log returns needed.
	for i := 6; i < 12; i++ {
		require.Nil(t, recs[i].Vol5, "index %d", i)
	}
	require.NotNil(t, recs[12].Vol5)
}

func TestIntradayRange(t *testing.T) {
	s := barSeries(100)
	s.Bars[0].High = 104
	s.Bars[0].Low = 98
	recs := NewRecords(s)
	ApplyVolatility(recs)
	require.InDelta(t, 0.06, *recs[0].IntradayRange, 1e-12)

	s.Bars[0].Open = 0
	recs = NewRecords(s)
	ApplyVolatility(recs)
	require.Nil(t, recs[0].IntradayRange)
}

func TestHighLowOnlyChangeAffectsIntradayRangeOnly(t *testing.T) {
	closes := trendingCloses(30)
	a := barSeries(closes...)
	b := barSeries(closes...)
	b.Bars[10].High = closes[10] * 1.02
	b.Bars[10].Low = closes[10] * 0.97

	causal := func(s models.Series) []models.DerivedRecord {
		recs := NewRecords(s)
		ApplyReturns(recs)
		ApplyVolatility(recs)
		ApplyGaps(recs)
		ApplyCalendar(recs)
		ApplyMovingAverages(recs)
		return recs
	}
	ra, rb := causal(a), causal(b)

	require.NotEqual(t, *ra[10].IntradayRange, *rb[10].IntradayRange)

	// With the high/low and intraday range aligned, nothing else differs.
	rb[10].High = ra[10].High
	rb[10].Low = ra[10].Low
	rb[10].IntradayRange = ra[10].IntradayRange
	require.Equal(t, ra, rb)
}

func TestClassifyVolRegimeTertiles(t *testing.T) {
	recs := make([]models.DerivedRecord, 9)
	for i := range recs {
		recs[i].Vol20 = models.Float64(float64(i + 1))
	}
	require.NoError(t, ClassifyVolRegime(recs))

	counts := map[models.VolRegime]int{}
	for i := range recs {
		require.NotNil(t, recs[i].VolRegime)
		counts[*recs[i].VolRegime]++
	}
	require.Equal(t, 3, counts[models.RegimeLow])
	require.Equal(t, 3, counts[models.RegimeMedium])
	require.Equal(t, 3, counts[models.RegimeHigh])

	// Ordering: smallest values are Low, largest High.
	require.Equal(t, models.RegimeLow, *recs[0].VolRegime)
	require.Equal(t, models.RegimeHigh, *recs[8].VolRegime)
}

func TestClassifyVolRegimeSkipsUndefined(t *testing.T) {
	recs := make([]models.DerivedRecord, 6)
	for i := 0; i < 3; i++ {
		recs[i].Vol20 = models.Float64(float64(i + 1))
	}
	require.NoError(t, ClassifyVolRegime(recs))
	for i := 3; i < 6; i++ {
		require.Nil(t, recs[i].VolRegime)
	}
}

func TestClassifyVolRegimeErrors(t *testing.T) {
	recs := make([]models.DerivedRecord, 5)
	err := ClassifyVolRegime(recs)
	require.ErrorIs(t, err, ErrInsufficientHistory)

	for i := range recs {
		recs[i].Vol20 = models.Float64(0.2)
	}
	err = ClassifyVolRegime(recs)
	require.ErrorIs(t, err, ErrDegenerateDistribution)
}
