package rank

import (
	"testing"

	"github.com/stretchr/testify/require"

	"SIPScope/internal/domain/models"
)

func TestBuildPivotsNamesAndOrder(t *testing.T) {
	pivots := BuildPivots([]models.DerivedRecord{rec("Monday", 1, 1, 1, nil)})
	require.Len(t, pivots, 3)
	require.Equal(t, PivotDropDayMonth, pivots[0].Name)
	require.Equal(t, PivotDropWeekdayRegime, pivots[1].Name)
	require.Equal(t, PivotSIPWeekWeekday, pivots[2].Name)
}

func TestDropByDayMonthPivot(t *testing.T) {
	a := rec("Monday", 1, 1, 2, nil)
	a.Drop = models.Bool(true)
	b := rec("Tuesday", 1, 1, 2, nil)
	b.Drop = models.Bool(false)
	c := rec("Monday", 15, 3, 7, nil)
	c.Drop = models.Bool(true)

	p := BuildPivots([]models.DerivedRecord{a, b, c})[0]

	require.Equal(t, []string{"1", "15"}, p.RowKeys)
	require.Equal(t, []string{"2", "7"}, p.ColKeys)

	// Day 1 x February: one drop out of two defined.
	require.InDelta(t, 0.5, *p.Values[0][0], 1e-12)
	// Day 1 x July: no records, cell undefined.
	require.Nil(t, p.Values[0][1])
	require.InDelta(t, 1.0, *p.Values[1][1], 1e-12)
}

func TestDropByWeekdayRegimePivot(t *testing.T) {
	low := models.RegimeLow
	a := rec("Monday", 1, 1, 1, nil)
	a.Drop = models.Bool(true)
	a.VolRegime = &low
	b := rec("Monday", 8, 2, 1, nil)
	b.Drop = models.Bool(true)
	// b has no regime and lands in no column.

	p := BuildPivots([]models.DerivedRecord{a, b})[1]

	require.Equal(t, []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday"}, p.RowKeys)
	require.Equal(t, []string{"Low", "Medium", "High"}, p.ColKeys)
	require.InDelta(t, 1.0, *p.Values[0][0], 1e-12)
	require.Nil(t, p.Values[0][1])
	require.Nil(t, p.Values[1][0])
}

func TestSIPByWeekWeekdayPivot(t *testing.T) {
	a := rec("Monday", 1, 1, 1, models.Float64(2))
	b := rec("Monday", 2, 1, 1, models.Float64(4))
	c := rec("Friday", 12, 2, 1, nil)

	p := BuildPivots([]models.DerivedRecord{a, b, c})[2]

	require.Equal(t, []string{"1", "2"}, p.RowKeys)
	require.Len(t, p.Values, 2)
	require.Len(t, p.Values[0], 5)

	require.InDelta(t, 3.0, *p.Values[0][0], 1e-12)
	// Friday record exists but has no defined score.
	require.Nil(t, p.Values[1][4])
}
