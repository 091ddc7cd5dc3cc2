package models

import "time"

// VolRegime is the whole-series tertile bucket of trailing 20-day volatility.
type VolRegime string

const (
	RegimeLow    VolRegime = "Low"
	RegimeMedium VolRegime = "Medium"
	RegimeHigh   VolRegime = "High"
)

// Rolling windows used by the volatility and trend passes.
var (
	VolWindows = []int{5, 10, 20, 60}
	MAWindows  = []int{20, 50, 100, 200}
)

// DerivedRecord carries every per-day metric derived from one PriceBar.
// Fields that can be unknown (missing lookback, zero denominator) are
// pointers; nil means undefined and is never conflated with zero. Each
// pipeline pass owns the fields it computes and touches nothing else.
type DerivedRecord struct {
	Date  time.Time `json:"date"`
	Open  float64   `json:"open"`
	High  float64   `json:"high"`
	Low   float64   `json:"low"`
	Close float64   `json:"close"`

	// Returns and drops (metric pass).
	Return    *float64 `json:"return"`
	LogReturn *float64 `json:"log_return"`
	Drop      *bool    `json:"drop"`
	Drop05    *bool    `json:"drop_0_5"`
	Drop1     *bool    `json:"drop_1"`
	Drop2     *bool    `json:"drop_2"`
	CumMax    float64  `json:"cum_max"`
	Drawdown  float64  `json:"drawdown"`

	// Volatility pass.
	Vol5          *float64   `json:"vol_5"`
	Vol10         *float64   `json:"vol_10"`
	Vol20         *float64   `json:"vol_20"`
	Vol60         *float64   `json:"vol_60"`
	VolRegime     *VolRegime `json:"vol_regime"`
	IntradayRange *float64   `json:"intraday_range"`

	// Gap pass.
	Gap        *float64 `json:"gap"`
	GapDown    *bool    `json:"gap_down"`
	BigGapDown *bool    `json:"big_gap_down"`

	// Calendar pass. Always defined: pure functions of the date.
	Weekday      string `json:"weekday"`
	WeekdayNum   int    `json:"weekday_num"`
	Day          int    `json:"day"`
	Month        int    `json:"month"`
	MonthName    string `json:"month_name"`
	Year         int    `json:"year"`
	WeekOfMonth  int    `json:"week_of_month"`
	IsMonthEnd   bool   `json:"is_month_end"`
	IsEarlyMonth bool   `json:"is_early_month"`

	// Trend pass.
	MA20      *float64 `json:"ma_20"`
	MA50      *float64 `json:"ma_50"`
	MA100     *float64 `json:"ma_100"`
	MA200     *float64 `json:"ma_200"`
	TrendUp   *bool    `json:"trend_up"`
	TrendDown *bool    `json:"trend_down"`
	Z20       *float64 `json:"z_20"`
	PanicDay  *bool    `json:"panic_day"`

	// Scoring pass.
	SIPScore *float64 `json:"sip_score"`
}

// Vol returns the rolling volatility for window w, or nil for an
// unsupported window.
func (r *DerivedRecord) Vol(w int) *float64 {
	switch w {
	case 5:
		return r.Vol5
	case 10:
		return r.Vol10
	case 20:
		return r.Vol20
	case 60:
		return r.Vol60
	}
	return nil
}

// MA returns the trailing moving average for window k, or nil for an
// unsupported window.
func (r *DerivedRecord) MA(k int) *float64 {
	switch k {
	case 20:
		return r.MA20
	case 50:
		return r.MA50
	case 100:
		return r.MA100
	case 200:
		return r.MA200
	}
	return nil
}

// Float64 returns a pointer to v. Convenience for optional fields.
func Float64(v float64) *float64 { return &v }

// Bool returns a pointer to v.
func Bool(v bool) *bool { return &v }
