package derive

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestApplyGaps(t *testing.T) {
	s := barSeries(100, 99, 101)
	s.Bars[1].Open = 98.9 // opens -1.1% below prior close
	s.Bars[2].Open = 99.5 // opens +0.505% above prior close

	recs := NewRecords(s)
	ApplyGaps(recs)

	require.Nil(t, recs[0].Gap)
	require.Nil(t, recs[0].GapDown)

	require.InDelta(t, -0.011, *recs[1].Gap, 1e-12)
	require.True(t, *recs[1].GapDown)
	require.True(t, *recs[1].BigGapDown)

	require.InDelta(t, 0.5/99, *recs[2].Gap, 1e-12)
	require.False(t, *recs[2].GapDown)
	require.False(t, *recs[2].BigGapDown)
}

func TestApplyGapsBigGapBoundary(t *testing.T) {
	s := barSeries(100, 99)
	s.Bars[1].Open = 99 // exactly -1%
	recs := NewRecords(s)
	ApplyGaps(recs)
	require.True(t, *recs[1].BigGapDown)
}

func TestApplyGapsZeroPrevClose(t *testing.T) {
	s := barSeries(100, 0, 50)
	recs := NewRecords(s)
	ApplyGaps(recs)
	require.NotNil(t, recs[1].Gap)
	require.Nil(t, recs[2].Gap)
	require.Nil(t, recs[2].GapDown)
}
