package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"SIPScope/internal/domain/models"
	domrepo "SIPScope/internal/domain/repository"
	"SIPScope/internal/services/derive"
	"SIPScope/internal/services/rank"
	"SIPScope/pkg/logger"
)

// Pipeline runs the full feature-derivation and ranking batch over one
// price series. Phase 1 (causal passes) fans out across goroutines that
// write disjoint record fields; a single barrier precedes phase 2, the
// whole-series statistics, which need every rolling column finalized.
type Pipeline struct {
	log     *logger.Logger
	metrics domrepo.Metrics
}

// NewPipeline creates a pipeline.
func NewPipeline(log *logger.Logger, metrics domrepo.Metrics) *Pipeline {
	return &Pipeline{log: log, metrics: metrics}
}

// Derive runs the causal phase only: returns, drops, drawdown, rolling
// volatility, gaps, calendar and moving averages. It succeeds on any
// non-empty series; fields whose lookback has not filled simply stay
// undefined. Whole-series fields (vol_regime, z_20, panic_day,
// sip_score) are not touched here.
func (p *Pipeline) Derive(s models.Series) ([]models.DerivedRecord, error) {
	if s.Len() == 0 {
		return nil, fmt.Errorf("derive: empty series for %q", s.Symbol)
	}
	recs := derive.NewRecords(s)

	// Volatility consumes the log-return column, so it stays on the
	// returns worker. Everything else reads only raw bar fields.
	passes := []func([]models.DerivedRecord){
		func(r []models.DerivedRecord) {
			derive.ApplyReturns(r)
			derive.ApplyVolatility(r)
		},
		derive.ApplyGaps,
		derive.ApplyCalendar,
		derive.ApplyMovingAverages,
	}

	var wg sync.WaitGroup
	for _, pass := range passes {
		wg.Add(1)
		go func(fn func([]models.DerivedRecord)) {
			defer wg.Done()
			fn(recs)
		}(pass)
	}
	wg.Wait() // barrier: whole-series passes may run after this

	return recs, nil
}

// Run executes both phases and aggregation, producing the complete
// analysis. A whole-series precondition failure (insufficient history,
// degenerate distribution) fails the run with no partial tables.
func (p *Pipeline) Run(ctx context.Context, s models.Series) (*models.Analysis, error) {
	start := time.Now()

	recs, err := p.Derive(s)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if err := derive.ClassifyVolRegime(recs); err != nil {
		p.metrics.RecordError("vol_regime")
		return nil, fmt.Errorf("volatility regime: %w", err)
	}
	if err := derive.ApplyZScore(recs); err != nil {
		p.metrics.RecordError("z_score")
		return nil, fmt.Errorf("z-score: %w", err)
	}
	if err := derive.ApplyPanicFlags(recs); err != nil {
		p.metrics.RecordError("panic_threshold")
		return nil, fmt.Errorf("panic threshold: %w", err)
	}
	derive.ApplyScores(recs)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	a := &models.Analysis{
		Symbol:      s.Symbol,
		From:        s.From(),
		To:          s.To(),
		GeneratedAt: time.Now(),
		Records:     recs,
		Tables:      rank.BuildTables(recs),
		Pivots:      rank.BuildPivots(recs),
	}

	p.metrics.RecordRowsProcessed(s.Symbol, len(recs))
	p.metrics.RecordLatency("pipeline_run", time.Since(start).Seconds())
	if n := len(recs); n > 0 {
		p.metrics.RecordLastClose(s.Symbol, recs[n-1].Close)
	}
	p.log.Info("pipeline complete",
		logger.String("symbol", s.Symbol),
		logger.Int("rows", len(recs)),
		logger.String("from", a.From.Format("2006-01-02")),
		logger.String("to", a.To.Format("2006-01-02")),
		logger.Duration("took", time.Since(start)),
	)
	return a, nil
}
