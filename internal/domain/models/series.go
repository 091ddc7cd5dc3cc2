package models

import "time"

// PriceBar is one daily OHLC observation for the analyzed index.
// Bars are externally supplied and treated as immutable by the core.
type PriceBar struct {
	Date  time.Time
	Open  float64
	High  float64
	Low   float64
	Close float64
}

// Series is an ordered daily price history: unique dates, ascending.
// Missing trading days are permitted and never filled.
type Series struct {
	Symbol string
	Bars   []PriceBar
}

// Len returns the number of bars.
func (s Series) Len() int { return len(s.Bars) }

// From returns the first bar date, or the zero time for an empty series.
func (s Series) From() time.Time {
	if len(s.Bars) == 0 {
		return time.Time{}
	}
	return s.Bars[0].Date
}

// To returns the last bar date, or the zero time for an empty series.
func (s Series) To() time.Time {
	if len(s.Bars) == 0 {
		return time.Time{}
	}
	return s.Bars[len(s.Bars)-1].Date
}
