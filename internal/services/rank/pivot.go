package rank

import (
	"strconv"

	"SIPScope/internal/domain/models"
)

// Pivot names served to the heatmap collaborators.
const (
	PivotDropDayMonth      = "drop_by_day_month"
	PivotDropWeekdayRegime = "drop_by_weekday_regime"
	PivotSIPWeekWeekday    = "sip_by_week_weekday"
)

var volRegimes = []models.VolRegime{models.RegimeLow, models.RegimeMedium, models.RegimeHigh}

// BuildPivots produces the three heatmap pivots: drop probability by
// day x month, drop probability by weekday x volatility regime, and
// mean SIP score by week-of-month x weekday. Cells without defined
// inputs stay nil.
func BuildPivots(recs []models.DerivedRecord) []models.Pivot {
	return []models.Pivot{
		dropByDayMonth(recs),
		dropByWeekdayRegime(recs),
		sipByWeekWeekday(recs),
	}
}

func dropByDayMonth(recs []models.DerivedRecord) models.Pivot {
	rows := presentInts(recs, 1, 31, func(r *models.DerivedRecord) int { return r.Day })
	cols := presentInts(recs, 1, 12, func(r *models.DerivedRecord) int { return r.Month })

	values := make([][]*float64, len(rows))
	for i, day := range rows {
		values[i] = make([]*float64, len(cols))
		for j, month := range cols {
			group := filter(recs, func(r *models.DerivedRecord) bool {
				return r.Day == day && r.Month == month
			})
			values[i][j] = meanBool(group, func(r *models.DerivedRecord) *bool { return r.Drop })
		}
	}
	return models.Pivot{
		Name:    PivotDropDayMonth,
		RowKeys: intKeys(rows),
		ColKeys: intKeys(cols),
		Values:  values,
	}
}

func dropByWeekdayRegime(recs []models.DerivedRecord) models.Pivot {
	cols := make([]string, len(volRegimes))
	values := make([][]*float64, len(tradingWeekdays))
	for j, regime := range volRegimes {
		cols[j] = string(regime)
	}
	for i, wd := range tradingWeekdays {
		values[i] = make([]*float64, len(volRegimes))
		for j, regime := range volRegimes {
			group := filter(recs, func(r *models.DerivedRecord) bool {
				return r.Weekday == wd && r.VolRegime != nil && *r.VolRegime == regime
			})
			values[i][j] = meanBool(group, func(r *models.DerivedRecord) *bool { return r.Drop })
		}
	}
	return models.Pivot{
		Name:    PivotDropWeekdayRegime,
		RowKeys: append([]string(nil), tradingWeekdays...),
		ColKeys: cols,
		Values:  values,
	}
}

func sipByWeekWeekday(recs []models.DerivedRecord) models.Pivot {
	rows := presentInts(recs, 1, 5, func(r *models.DerivedRecord) int { return r.WeekOfMonth })

	values := make([][]*float64, len(rows))
	for i, week := range rows {
		values[i] = make([]*float64, len(tradingWeekdays))
		for j, wd := range tradingWeekdays {
			group := filter(recs, func(r *models.DerivedRecord) bool {
				return r.WeekOfMonth == week && r.Weekday == wd
			})
			values[i][j] = meanFloat(group, func(r *models.DerivedRecord) *float64 { return r.SIPScore })
		}
	}
	return models.Pivot{
		Name:    PivotSIPWeekWeekday,
		RowKeys: intKeys(rows),
		ColKeys: append([]string(nil), tradingWeekdays...),
		Values:  values,
	}
}

// presentInts returns the values in [lo, hi] that occur in the records,
// ascending.
func presentInts(recs []models.DerivedRecord, lo, hi int, get func(*models.DerivedRecord) int) []int {
	seen := make(map[int]bool)
	for i := range recs {
		seen[get(&recs[i])] = true
	}
	var out []int
	for v := lo; v <= hi; v++ {
		if seen[v] {
			out = append(out, v)
		}
	}
	return out
}

func intKeys(vals []int) []string {
	out := make([]string, len(vals))
	for i, v := range vals {
		out[i] = strconv.Itoa(v)
	}
	return out
}
