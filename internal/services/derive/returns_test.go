package derive

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestApplyReturnsThreeBars(t *testing.T) {
	recs := NewRecords(barSeries(100, 99, 100.98))
	ApplyReturns(recs)

	// Index 0: no prior close, everything except drawdown undefined.
	require.Nil(t, recs[0].Return)
	require.Nil(t, recs[0].LogReturn)
	require.Nil(t, recs[0].Drop)
	require.Nil(t, recs[0].Drop05)
	require.Nil(t, recs[0].Drop1)
	require.Nil(t, recs[0].Drop2)
	require.Equal(t, 100.0, recs[0].CumMax)
	require.Equal(t, 0.0, recs[0].Drawdown)

	// Index 1: -1% day.
	require.NotNil(t, recs[1].Return)
	require.InDelta(t, -0.01, *recs[1].Return, 1e-12)
	require.True(t, *recs[1].Drop)
	require.True(t, *recs[1].Drop05)
	require.True(t, *recs[1].Drop1)
	require.False(t, *recs[1].Drop2)
	require.Equal(t, 100.0, recs[1].CumMax)
	require.InDelta(t, -0.01, recs[1].Drawdown, 1e-12)

	// Index 2: +2% day, new high, drawdown back to zero.
	require.InDelta(t, 0.02, *recs[2].Return, 1e-12)
	require.False(t, *recs[2].Drop)
	require.False(t, *recs[2].Drop05)
	require.Equal(t, 100.98, recs[2].CumMax)
	require.InDelta(t, 0.0, recs[2].Drawdown, 1e-12)
}

func TestApplyReturnsSharpDropThenRecovery(t *testing.T) {
	recs := NewRecords(barSeries(100, 95, 110))
	ApplyReturns(recs)

	// -5% day trips every drop flag and matches the drawdown.
	require.InDelta(t, -0.05, *recs[1].Return, 1e-12)
	require.True(t, *recs[1].Drop)
	require.True(t, *recs[1].Drop05)
	require.True(t, *recs[1].Drop1)
	require.True(t, *recs[1].Drop2)
	require.Equal(t, 100.0, recs[1].CumMax)
	require.InDelta(t, -0.05, recs[1].Drawdown, 1e-12)

	// Recovery above the old high resets the drawdown to zero.
	require.InDelta(t, 110.0/95.0-1, *recs[2].Return, 1e-12)
	require.False(t, *recs[2].Drop)
	require.Equal(t, 110.0, recs[2].CumMax)
	require.InDelta(t, 0.0, recs[2].Drawdown, 1e-12)
}

func TestApplyReturnsZeroPrevClose(t *testing.T) {
	recs := NewRecords(barSeries(100, 0, 50))
	ApplyReturns(recs)

	// Return over a zero close is undefined, not infinite.
	require.NotNil(t, recs[1].Return)
	require.Nil(t, recs[2].Return)
	require.Nil(t, recs[2].LogReturn)
	require.Nil(t, recs[2].Drop)
}

func TestApplyReturnsDropThresholdBoundaries(t *testing.T) {
	// Exactly -0.5% trips drop_0_5 but not drop_1.
	recs := NewRecords(barSeries(1000, 995))
	ApplyReturns(recs)
	require.True(t, *recs[1].Drop)
	require.True(t, *recs[1].Drop05)
	require.False(t, *recs[1].Drop1)
	require.False(t, *recs[1].Drop2)

	// Exactly -2% trips everything.
	recs = NewRecords(barSeries(1000, 980))
	ApplyReturns(recs)
	require.True(t, *recs[1].Drop2)
}

func TestApplyReturnsDrawdownTracksRunningMax(t *testing.T) {
	recs := NewRecords(barSeries(100, 110, 99, 104.5))
	ApplyReturns(recs)

	require.Equal(t, 110.0, recs[2].CumMax)
	require.InDelta(t, -0.1, recs[2].Drawdown, 1e-12)
	require.Equal(t, 110.0, recs[3].CumMax)
	require.InDelta(t, -0.05, recs[3].Drawdown, 1e-12)
}
