// Package rank groups finished derived records by calendar key and
// produces the ranking tables and heatmap pivots. It is the terminal
// consumer of the pipeline and reads the records strictly read-only.
package rank

import (
	"sort"
	"strconv"
	"time"

	"gonum.org/v1/gonum/stat"

	"SIPScope/internal/domain/models"
)

// dayTableLimit truncates the day-of-month ranking to its best entries.
const dayTableLimit = 10

// tradingWeekdays is the canonical display order of the weekday table.
// Weekend records (holiday-session quirks in some exchanges) are not
// part of the weekday view, mirroring the Monday-Friday reindex of the
// source analysis.
var tradingWeekdays = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday"}

// BuildTables produces the four ranking tables, each sorted descending
// by mean SIP score. The sort is stable, so exact ties keep the
// canonical key order and reruns are byte-identical.
func BuildTables(recs []models.DerivedRecord) map[models.Dimension]models.RankingTable {
	return map[models.Dimension]models.RankingTable{
		models.DimWeekday:     weekdayTable(recs),
		models.DimDayOfMonth:  dayTable(recs),
		models.DimWeekOfMonth: weekTable(recs),
		models.DimMonth:       monthTable(recs),
	}
}

func weekdayTable(recs []models.DerivedRecord) models.RankingTable {
	buckets := make([]models.Bucket, 0, len(tradingWeekdays))
	for _, wd := range tradingWeekdays {
		group := filter(recs, func(r *models.DerivedRecord) bool { return r.Weekday == wd })
		b := newBucket(wd, group)
		b.AvgDrawdown = meanFloat(group, func(r *models.DerivedRecord) *float64 {
			return models.Float64(r.Drawdown)
		})
		buckets = append(buckets, b)
	}
	return sorted(models.DimWeekday, buckets)
}

func dayTable(recs []models.DerivedRecord) models.RankingTable {
	var buckets []models.Bucket
	for day := 1; day <= 31; day++ {
		group := filter(recs, func(r *models.DerivedRecord) bool { return r.Day == day })
		if len(group) == 0 {
			continue
		}
		buckets = append(buckets, newBucket(strconv.Itoa(day), group))
	}
	t := sorted(models.DimDayOfMonth, buckets)
	if len(t.Buckets) > dayTableLimit {
		t.Buckets = t.Buckets[:dayTableLimit]
	}
	return t
}

func weekTable(recs []models.DerivedRecord) models.RankingTable {
	var buckets []models.Bucket
	for week := 1; week <= 5; week++ {
		group := filter(recs, func(r *models.DerivedRecord) bool { return r.WeekOfMonth == week })
		if len(group) == 0 {
			continue
		}
		buckets = append(buckets, newBucket(strconv.Itoa(week), group))
	}
	return sorted(models.DimWeekOfMonth, buckets)
}

func monthTable(recs []models.DerivedRecord) models.RankingTable {
	var buckets []models.Bucket
	for m := time.January; m <= time.December; m++ {
		name := m.String()
		group := filter(recs, func(r *models.DerivedRecord) bool { return r.MonthName == name })
		if len(group) == 0 {
			continue
		}
		buckets = append(buckets, newBucket(name, group))
	}
	return sorted(models.DimMonth, buckets)
}

// newBucket aggregates one calendar group. Each statistic skips records
// where its own input is undefined; with no defined inputs it stays nil.
func newBucket(key string, group []*models.DerivedRecord) models.Bucket {
	return models.Bucket{
		Key:             key,
		Count:           len(group),
		DropProbability: meanBool(group, func(r *models.DerivedRecord) *bool { return r.Drop }),
		AvgReturn:       meanFloat(group, func(r *models.DerivedRecord) *float64 { return r.Return }),
		AvgSIPScore:     meanFloat(group, func(r *models.DerivedRecord) *float64 { return r.SIPScore }),
	}
}

// sorted orders buckets descending by mean SIP score with a stable
// sort. Buckets without a score rank below every scored bucket.
func sorted(dim models.Dimension, buckets []models.Bucket) models.RankingTable {
	sort.SliceStable(buckets, func(i, j int) bool {
		si, sj := buckets[i].AvgSIPScore, buckets[j].AvgSIPScore
		switch {
		case si == nil:
			return false
		case sj == nil:
			return true
		default:
			return *si > *sj
		}
	})
	return models.RankingTable{Dimension: dim, Buckets: buckets}
}

func filter(recs []models.DerivedRecord, keep func(*models.DerivedRecord) bool) []*models.DerivedRecord {
	var out []*models.DerivedRecord
	for i := range recs {
		if keep(&recs[i]) {
			out = append(out, &recs[i])
		}
	}
	return out
}

// meanFloat averages the defined values of an optional column.
func meanFloat(group []*models.DerivedRecord, get func(*models.DerivedRecord) *float64) *float64 {
	var vals []float64
	for _, r := range group {
		if v := get(r); v != nil {
			vals = append(vals, *v)
		}
	}
	if len(vals) == 0 {
		return nil
	}
	return models.Float64(stat.Mean(vals, nil))
}

// meanBool averages an optional flag column as the fraction of true
// values among defined ones.
func meanBool(group []*models.DerivedRecord, get func(*models.DerivedRecord) *bool) *float64 {
	defined, hits := 0, 0
	for _, r := range group {
		v := get(r)
		if v == nil {
			continue
		}
		defined++
		if *v {
			hits++
		}
	}
	if defined == 0 {
		return nil
	}
	return models.Float64(float64(hits) / float64(defined))
}
