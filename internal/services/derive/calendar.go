package derive

import (
	"time"

	"SIPScope/internal/domain/models"
)

// earlyMonthLastDay is the last day-of-month still counted as "early".
const earlyMonthLastDay = 5

// ApplyCalendar fills the calendar columns. These are pure functions of
// the date and always defined.
//
// WeekOfMonth is the fixed 7-day floor division ((day-1)/7 + 1), giving
// buckets 1-5 with a short fifth bucket. This is deliberate SIP
// scheduling arithmetic, not an ISO week calculation.
func ApplyCalendar(recs []models.DerivedRecord) {
	for i := range recs {
		r := &recs[i]
		d := r.Date

		r.Weekday = d.Weekday().String()
		r.WeekdayNum = weekdayNum(d.Weekday())
		r.Day = d.Day()
		r.Month = int(d.Month())
		r.MonthName = d.Month().String()
		r.Year = d.Year()
		r.WeekOfMonth = (r.Day-1)/7 + 1
		r.IsMonthEnd = d.AddDate(0, 0, 1).Day() == 1
		r.IsEarlyMonth = r.Day <= earlyMonthLastDay
	}
}

// weekdayNum maps Go's Sunday-based weekday to the Monday=0 convention
// the rest of the pipeline uses.
func weekdayNum(wd time.Weekday) int {
	return (int(wd) + 6) % 7
}
