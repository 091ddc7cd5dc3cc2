package usecase

import (
	"context"
	"math"
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"SIPScope/internal/domain/models"
	"SIPScope/internal/services/derive"
	"SIPScope/pkg/logger"
)

type nopMetrics struct{}

func (nopMetrics) RecordRowsProcessed(string, int) {}
func (nopMetrics) RecordError(string)              {}
func (nopMetrics) RecordLastClose(string, float64) {}
func (nopMetrics) RecordLatency(string, float64)   {}

func testPipeline(t *testing.T) *Pipeline {
	t.Helper()
	l, err := logger.New(&logger.Config{Level: "error", Format: "console", Output: "stderr"})
	require.NoError(t, err)
	return NewPipeline(l, nopMetrics{})
}

// makeSeries builds a deterministic synthetic price history over
// consecutive weekdays.
func makeSeries(n int) models.Series {
	bars := make([]models.PriceBar, n)
	d := time.Date(2022, 1, 3, 0, 0, 0, 0, time.UTC) // a Monday
	price := 1000.0
	for i := range bars {
		drift := 0.002 * math.Sin(float64(i)/3.7)
		price *= 1.0005 + drift
		spread := price * 0.01
		bars[i] = models.PriceBar{
			Date:  d,
			Open:  price - spread/4,
			High:  price + spread,
			Low:   price - spread,
			Close: price,
		}
		d = d.AddDate(0, 0, 1)
		for d.Weekday() == time.Saturday || d.Weekday() == time.Sunday {
			d = d.AddDate(0, 0, 1)
		}
	}
	return models.Series{Symbol: "SYNTH", Bars: bars}
}

func TestPipelineRunIsDeterministic(t *testing.T) {
	p := testPipeline(t)
	s := makeSeries(300)

	a1, err := p.Run(context.Background(), s)
	require.NoError(t, err)
	a2, err := p.Run(context.Background(), s)
	require.NoError(t, err)

	// Everything except the generation timestamp must be identical,
	// regardless of goroutine scheduling in the causal phase.
	require.True(t, reflect.DeepEqual(a1.Records, a2.Records))
	require.True(t, reflect.DeepEqual(a1.Tables, a2.Tables))
	require.True(t, reflect.DeepEqual(a1.Pivots, a2.Pivots))
}

func TestPipelineRunProducesAllOutputs(t *testing.T) {
	p := testPipeline(t)
	a, err := p.Run(context.Background(), makeSeries(300))
	require.NoError(t, err)

	require.Equal(t, "SYNTH", a.Symbol)
	require.Len(t, a.Records, 300)
	require.Len(t, a.Tables, 4)
	require.Len(t, a.Pivots, 3)
	require.True(t, a.From.Before(a.To))

	// Whole-series passes ran: late records carry regime and score
	// inputs.
	last := a.Records[len(a.Records)-1]
	require.NotNil(t, last.Vol20)
	require.NotNil(t, last.VolRegime)
	require.NotNil(t, last.Z20)
	require.NotNil(t, last.PanicDay)
	require.NotNil(t, last.SIPScore)
}

func TestDeriveSingleBar(t *testing.T) {
	p := testPipeline(t)
	recs, err := p.Derive(makeSeries(1))
	require.NoError(t, err)
	require.Len(t, recs, 1)

	// Calendar is always defined; lookback columns are not.
	require.NotEmpty(t, recs[0].Weekday)
	require.Nil(t, recs[0].Return)
	require.Nil(t, recs[0].Vol5)
	require.Nil(t, recs[0].MA20)
}

func TestDeriveEmptySeries(t *testing.T) {
	p := testPipeline(t)
	_, err := p.Derive(models.Series{Symbol: "EMPTY"})
	require.Error(t, err)
}

func TestRunShortSeriesFailsLoudly(t *testing.T) {
	p := testPipeline(t)
	// Ten bars cannot fill a 20-day volatility window; the run must
	// fail rather than emit tables built on an all-undefined column.
	_, err := p.Run(context.Background(), makeSeries(10))
	require.ErrorIs(t, err, derive.ErrInsufficientHistory)
}

func TestRunCanceledContext(t *testing.T) {
	p := testPipeline(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := p.Run(ctx, makeSeries(50))
	require.ErrorIs(t, err, context.Canceled)
}
