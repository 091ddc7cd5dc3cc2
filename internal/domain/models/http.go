package models

import "time"

// RecordsRequest filters the derived record listing. Dates are
// ISO 8601 (2006-01-02); empty means unbounded.
type RecordsRequest struct {
	From  string `query:"from" validate:"omitempty,datetime=2006-01-02"`
	To    string `query:"to" validate:"omitempty,datetime=2006-01-02"`
	Limit int    `query:"limit" default:"500" validate:"gte=0,lte=10000"`
}

// SummaryResponse describes the latest finished analysis.
type SummaryResponse struct {
	Symbol      string    `json:"symbol"`
	From        time.Time `json:"from"`
	To          time.Time `json:"to"`
	GeneratedAt time.Time `json:"generated_at"`
	Records     int       `json:"records"`
	Dimensions  []string  `json:"dimensions"`
	Pivots      []string  `json:"pivots"`
}

// HealthResponse reports service readiness.
type HealthResponse struct {
	Status  string `json:"status"`
	HasData bool   `json:"has_data"`
	Symbol  string `json:"symbol,omitempty"`
	Records int    `json:"records,omitempty"`
}
