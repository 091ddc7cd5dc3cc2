package rank

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"

	"SIPScope/internal/domain/models"
)

// rec builds a derived record with the calendar keys and the
// aggregated inputs set directly.
func rec(weekday string, day, week, month int, score *float64) models.DerivedRecord {
	return models.DerivedRecord{
		Weekday:     weekday,
		Day:         day,
		WeekOfMonth: week,
		Month:       month,
		MonthName:   monthName(month),
		SIPScore:    score,
		Drop:        models.Bool(score != nil && *score > 0),
		Return:      models.Float64(0.001),
	}
}

func monthName(m int) string {
	names := []string{"January", "February", "March", "April", "May", "June",
		"July", "August", "September", "October", "November", "December"}
	return names[m-1]
}

func TestWeekdayTableAlwaysFiveBuckets(t *testing.T) {
	// Only two weekdays present in the data.
	recs := []models.DerivedRecord{
		rec("Monday", 1, 1, 1, models.Float64(2)),
		rec("Tuesday", 2, 1, 1, models.Float64(1)),
	}
	table := BuildTables(recs)[models.DimWeekday]

	require.Len(t, table.Buckets, 5)
	keys := map[string]bool{}
	for _, b := range table.Buckets {
		keys[b.Key] = true
	}
	for _, wd := range []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday"} {
		require.True(t, keys[wd], wd)
	}

	// Empty weekdays carry zero count and nil statistics.
	for _, b := range table.Buckets {
		if b.Key == "Wednesday" {
			require.Equal(t, 0, b.Count)
			require.Nil(t, b.AvgSIPScore)
			require.Nil(t, b.DropProbability)
		}
	}
}

func TestWeekdayTableSortsByScoreDescending(t *testing.T) {
	recs := []models.DerivedRecord{
		rec("Monday", 1, 1, 1, models.Float64(1)),
		rec("Wednesday", 3, 1, 1, models.Float64(5)),
		rec("Friday", 5, 1, 1, models.Float64(3)),
	}
	table := BuildTables(recs)[models.DimWeekday]

	require.Equal(t, "Wednesday", table.Buckets[0].Key)
	require.Equal(t, "Friday", table.Buckets[1].Key)
	require.Equal(t, "Monday", table.Buckets[2].Key)
	// Scoreless weekdays rank last.
	require.Nil(t, table.Buckets[3].AvgSIPScore)
	require.Nil(t, table.Buckets[4].AvgSIPScore)
}

func TestWeekdayTableStableTieOrder(t *testing.T) {
	recs := []models.DerivedRecord{
		rec("Thursday", 4, 1, 1, models.Float64(2)),
		rec("Monday", 1, 1, 1, models.Float64(2)),
	}
	table := BuildTables(recs)[models.DimWeekday]

	// Exact ties keep canonical Monday-first order.
	require.Equal(t, "Monday", table.Buckets[0].Key)
	require.Equal(t, "Thursday", table.Buckets[1].Key)
}

func TestWeekdayTableHasDrawdown(t *testing.T) {
	r := rec("Monday", 1, 1, 1, models.Float64(2))
	r.Drawdown = -0.04
	table := BuildTables([]models.DerivedRecord{r})[models.DimWeekday]

	for _, b := range table.Buckets {
		if b.Key == "Monday" {
			require.NotNil(t, b.AvgDrawdown)
			require.InDelta(t, -0.04, *b.AvgDrawdown, 1e-12)
		}
	}
}

func TestDayTableTruncatesToTen(t *testing.T) {
	var recs []models.DerivedRecord
	for day := 1; day <= 15; day++ {
		recs = append(recs, rec("Monday", day, (day-1)/7+1, 1, models.Float64(float64(day))))
	}
	table := BuildTables(recs)[models.DimDayOfMonth]

	require.Len(t, table.Buckets, 10)
	// Best day first; the five worst fell off.
	require.Equal(t, "15", table.Buckets[0].Key)
	require.Equal(t, "6", table.Buckets[9].Key)
}

func TestDayTableOmitsAbsentDays(t *testing.T) {
	recs := []models.DerivedRecord{
		rec("Monday", 1, 1, 1, models.Float64(1)),
		rec("Tuesday", 17, 3, 1, models.Float64(2)),
	}
	table := BuildTables(recs)[models.DimDayOfMonth]
	require.Len(t, table.Buckets, 2)
}

func TestWeekTable(t *testing.T) {
	recs := []models.DerivedRecord{
		rec("Monday", 1, 1, 1, models.Float64(1)),
		rec("Monday", 8, 2, 1, models.Float64(4)),
		rec("Monday", 15, 3, 1, nil),
	}
	table := BuildTables(recs)[models.DimWeekOfMonth]

	require.Len(t, table.Buckets, 3)
	require.Equal(t, "2", table.Buckets[0].Key)
	require.Equal(t, "1", table.Buckets[1].Key)
	// Week 3 has a record but no defined score, so it ranks last.
	require.Equal(t, "3", table.Buckets[2].Key)
	require.Equal(t, 1, table.Buckets[2].Count)
	require.Nil(t, table.Buckets[2].AvgSIPScore)
}

func TestMonthTableUsesNames(t *testing.T) {
	recs := []models.DerivedRecord{
		rec("Monday", 1, 1, 3, models.Float64(1)),
		rec("Monday", 1, 1, 11, models.Float64(2)),
	}
	table := BuildTables(recs)[models.DimMonth]

	require.Len(t, table.Buckets, 2)
	require.Equal(t, "November", table.Buckets[0].Key)
	require.Equal(t, "March", table.Buckets[1].Key)
}

func TestBucketSkipsUndefinedPerStatistic(t *testing.T) {
	// One record has a score, the other only a return: each average
	// uses its own defined subset.
	a := rec("Monday", 1, 1, 1, models.Float64(4))
	b := rec("Monday", 8, 2, 1, nil)
	b.Return = models.Float64(0.01)
	b.Drop = nil

	table := BuildTables([]models.DerivedRecord{a, b})[models.DimWeekday]
	for _, bk := range table.Buckets {
		if bk.Key != "Monday" {
			continue
		}
		require.Equal(t, 2, bk.Count)
		require.InDelta(t, 4.0, *bk.AvgSIPScore, 1e-12)
		require.InDelta(t, (0.001+0.01)/2, *bk.AvgReturn, 1e-12)
		require.InDelta(t, 1.0, *bk.DropProbability, 1e-12) // one defined drop, true
	}
}

func TestDayTableKeysAreNumeric(t *testing.T) {
	recs := []models.DerivedRecord{rec("Monday", 9, 2, 1, models.Float64(1))}
	table := BuildTables(recs)[models.DimDayOfMonth]
	_, err := strconv.Atoi(table.Buckets[0].Key)
	require.NoError(t, err)
}
