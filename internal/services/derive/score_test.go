package derive

import (
	"testing"

	"github.com/stretchr/testify/require"

	"SIPScope/internal/domain/models"
)

func scoredRecord(drop, gapDown, panic bool, vol20, drawdown float64) models.DerivedRecord {
	return models.DerivedRecord{
		Drop:     models.Bool(drop),
		GapDown:  models.Bool(gapDown),
		PanicDay: models.Bool(panic),
		Vol20:    models.Float64(vol20),
		Drawdown: drawdown,
	}
}

func TestApplyScoresFormula(t *testing.T) {
	recs := []models.DerivedRecord{
		scoredRecord(true, true, false, 0.2, -0.1),
	}
	ApplyScores(recs)
	// 1 * 1.2 * 1.1 * 2 * 1
	require.InDelta(t, 2.64, *recs[0].SIPScore, 1e-12)
}

func TestApplyScoresDropGate(t *testing.T) {
	recs := []models.DerivedRecord{
		scoredRecord(false, true, true, 0.5, -0.3),
	}
	ApplyScores(recs)
	// An up day scores zero regardless of the bonus flags.
	require.Equal(t, 0.0, *recs[0].SIPScore)
}

func TestApplyScoresPanicDoubles(t *testing.T) {
	base := []models.DerivedRecord{scoredRecord(true, false, false, 0.2, -0.1)}
	boosted := []models.DerivedRecord{scoredRecord(true, false, true, 0.2, -0.1)}
	ApplyScores(base)
	ApplyScores(boosted)
	require.InDelta(t, 2*(*base[0].SIPScore), *boosted[0].SIPScore, 1e-12)
}

func TestApplyScoresUndefinedInputPropagates(t *testing.T) {
	r := scoredRecord(true, true, true, 0.2, -0.1)
	r.Vol20 = nil
	recs := []models.DerivedRecord{r}
	ApplyScores(recs)
	require.Nil(t, recs[0].SIPScore)

	r = scoredRecord(true, true, true, 0.2, -0.1)
	r.PanicDay = nil
	recs = []models.DerivedRecord{r}
	ApplyScores(recs)
	require.Nil(t, recs[0].SIPScore)
}
