package repository

import (
	"context"

	"SIPScope/internal/domain/models"
)

// SeriesSource supplies the validated, date-sorted price series the
// pipeline consumes. Deduplication and numeric coercion happen here,
// before the core ever sees a bar.
type SeriesSource interface {
	Load(ctx context.Context) (models.Series, error)
}

// TableSink serializes a finished analysis (ranking tables, pivots) to
// tabular files for downstream consumers.
type TableSink interface {
	Write(ctx context.Context, a *models.Analysis) error
}

// ResultStore persists derived records and ranking tables to durable
// storage.
type ResultStore interface {
	Init(ctx context.Context) error // ensure tables exist
	StoreDerived(ctx context.Context, a *models.Analysis) error
	StoreRankings(ctx context.Context, a *models.Analysis) error
	Health(ctx context.Context) error
	Close() error
}

// Publisher broadcasts finished ranking tables to external consumers.
type Publisher interface {
	PublishRankings(ctx context.Context, a *models.Analysis) error
	Close() error
}

// Metrics records pipeline and serving instrumentation.
type Metrics interface {
	RecordRowsProcessed(symbol string, n int)
	RecordError(kind string)
	RecordLastClose(symbol string, price float64)
	RecordLatency(op string, seconds float64)
}
