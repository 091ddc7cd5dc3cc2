package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"SIPScope/internal/domain/models"
	domrepo "SIPScope/internal/domain/repository"
)

// ClickHouseResultStore persists derived records and ranking tables to
// ClickHouse for ad-hoc querying and heatmap tooling.
type ClickHouseResultStore struct {
	db       *sql.DB
	database string
}

// NewClickHouseResultStore creates a ClickHouse result store.
func NewClickHouseResultStore(db *sql.DB, database string) domrepo.ResultStore {
	return &ClickHouseResultStore{db: db, database: database}
}

// Init ensures the analysis tables exist (idempotent).
func (s *ClickHouseResultStore) Init(ctx context.Context) error {
	stmts := []string{
		fmt.Sprintf("CREATE DATABASE IF NOT EXISTS %s", s.database),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s.sip_derived_daily (
			symbol String, date Date,
			open Float64, high Float64, low Float64, close Float64,
			` + "`return`" + ` Nullable(Float64), log_return Nullable(Float64),
			` + "`drop`" + ` Nullable(UInt8), drop_1 Nullable(UInt8),
			drawdown Float64,
			vol_20 Nullable(Float64), vol_regime Nullable(String),
			intraday_range Nullable(Float64),
			gap Nullable(Float64), gap_down Nullable(UInt8),
			weekday String, day UInt8, month UInt8, week_of_month UInt8,
			ma_50 Nullable(Float64), trend_up Nullable(UInt8),
			z_20 Nullable(Float64), panic_day Nullable(UInt8),
			sip_score Nullable(Float64)
		) ENGINE=ReplacingMergeTree ORDER BY (symbol, date)`, s.database),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s.sip_rankings (
			symbol String, generated_at DateTime, dimension String, rank UInt8,
			key String, bucket_count UInt32,
			drop_prob Nullable(Float64), avg_return Nullable(Float64),
			avg_drawdown Nullable(Float64), sip_score Nullable(Float64)
		) ENGINE=MergeTree ORDER BY (symbol, dimension, generated_at, rank)`, s.database),
	}
	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("init analysis schema: %w", err)
		}
	}
	return nil
}

// StoreDerived inserts the per-day derived table. Undefined fields map
// to SQL NULL, never to zero.
func (s *ClickHouseResultStore) StoreDerived(ctx context.Context, a *models.Analysis) error {
	const chunkSize = 2000
	const cols = 25

	table := s.database + ".sip_derived_daily"
	recs := a.Records
	for start := 0; start < len(recs); start += chunkSize {
		end := min(start+chunkSize, len(recs))

		values := make([]string, 0, end-start)
		args := make([]interface{}, 0, (end-start)*cols)
		for i := start; i < end; i++ {
			r := &recs[i]
			values = append(values, "("+placeholders(cols)+")")
			args = append(args,
				a.Symbol, r.Date,
				r.Open, r.High, r.Low, r.Close,
				optFloat(r.Return), optFloat(r.LogReturn),
				optBool(r.Drop), optBool(r.Drop1),
				r.Drawdown,
				optFloat(r.Vol20), optRegime(r.VolRegime),
				optFloat(r.IntradayRange),
				optFloat(r.Gap), optBool(r.GapDown),
				r.Weekday, r.Day, r.Month, r.WeekOfMonth,
				optFloat(r.MA50), optBool(r.TrendUp),
				optFloat(r.Z20), optBool(r.PanicDay),
				optFloat(r.SIPScore),
			)
		}
		q := fmt.Sprintf(
			"INSERT INTO %s (symbol, date, open, high, low, close, `return`, log_return, `drop`, drop_1, drawdown, vol_20, vol_regime, intraday_range, gap, gap_down, weekday, day, month, week_of_month, ma_50, trend_up, z_20, panic_day, sip_score) VALUES %s",
			table, strings.Join(values, ","))
		if _, err := s.db.ExecContext(ctx, q, args...); err != nil {
			return fmt.Errorf("store derived rows: %w", err)
		}
	}
	return nil
}

// StoreRankings inserts every ranking table row with its final rank.
func (s *ClickHouseResultStore) StoreRankings(ctx context.Context, a *models.Analysis) error {
	table := s.database + ".sip_rankings"
	var values []string
	var args []interface{}
	for _, dim := range models.Dimensions {
		t := a.Table(dim)
		if t == nil {
			continue
		}
		for rankIdx, b := range t.Buckets {
			values = append(values, "("+placeholders(10)+")")
			args = append(args,
				a.Symbol, a.GeneratedAt, string(dim), rankIdx+1,
				b.Key, b.Count,
				optFloat(b.DropProbability), optFloat(b.AvgReturn),
				optFloat(b.AvgDrawdown), optFloat(b.AvgSIPScore),
			)
		}
	}
	if len(values) == 0 {
		return nil
	}
	q := fmt.Sprintf(
		"INSERT INTO %s (symbol, generated_at, dimension, rank, key, bucket_count, drop_prob, avg_return, avg_drawdown, sip_score) VALUES %s",
		table, strings.Join(values, ","))
	if _, err := s.db.ExecContext(ctx, q, args...); err != nil {
		return fmt.Errorf("store rankings: %w", err)
	}
	return nil
}

func (s *ClickHouseResultStore) Health(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close releases the connection pool. The store is the pool's only
// consumer, so it owns the close.
func (s *ClickHouseResultStore) Close() error {
	return s.db.Close()
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

func optFloat(v *float64) interface{} {
	if v == nil {
		return nil
	}
	return *v
}

func optBool(v *bool) interface{} {
	if v == nil {
		return nil
	}
	if *v {
		return uint8(1)
	}
	return uint8(0)
}

func optRegime(v *models.VolRegime) interface{} {
	if v == nil {
		return nil
	}
	return string(*v)
}
