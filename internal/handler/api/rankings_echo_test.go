package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"SIPScope/internal/domain/models"
	"SIPScope/internal/usecase"
	"SIPScope/pkg/cache"
	xlogger "SIPScope/pkg/logger"
)

func testHandler(t *testing.T, a *models.Analysis) *RankingsEchoHandler {
	t.Helper()
	l, err := xlogger.New(&xlogger.Config{Level: "error", Format: "console", Output: "stderr"})
	require.NoError(t, err)
	svc := usecase.NewAnalysisService()
	if a != nil {
		svc.Set(a)
	}
	return NewRankingsEchoHandler(l, svc)
}

func testAnalysis() *models.Analysis {
	return &models.Analysis{
		Symbol:      "NIFTY50",
		From:        time.Date(2023, 1, 2, 0, 0, 0, 0, time.UTC),
		To:          time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
		GeneratedAt: time.Now(),
		Records: []models.DerivedRecord{
			{Date: time.Date(2023, 1, 2, 0, 0, 0, 0, time.UTC), Close: 100},
			{Date: time.Date(2023, 1, 3, 0, 0, 0, 0, time.UTC), Close: 101},
		},
		Tables: map[models.Dimension]models.RankingTable{
			models.DimWeekday: {
				Dimension: models.DimWeekday,
				Buckets:   []models.Bucket{{Key: "Monday", Count: 1, AvgSIPScore: models.Float64(2)}},
			},
		},
		Pivots: []models.Pivot{
			{Name: "sip_by_week_weekday", RowKeys: []string{"1"}, ColKeys: []string{"Monday"}, Values: [][]*float64{{nil}}},
		},
	}
}

// do runs one request through a fresh echo instance with the handler's
// routes registered and decodes the wrapper envelope.
func do(t *testing.T, h *RankingsEchoHandler, path string) (int, map[string]interface{}) {
	t.Helper()
	e := echo.New()
	h.RegisterRoutes(e)

	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return rec.Code, body
}

func TestHealthBeforeFirstRun(t *testing.T) {
	h := testHandler(t, nil)
	code, body := do(t, h, "/api/health")
	require.Equal(t, http.StatusOK, code)

	data := body["data"].(map[string]interface{})
	require.Equal(t, "waiting", data["status"])
	require.Equal(t, false, data["has_data"])
}

func TestHealthReady(t *testing.T) {
	h := testHandler(t, testAnalysis())
	_, body := do(t, h, "/api/health")
	data := body["data"].(map[string]interface{})
	require.Equal(t, "ready", data["status"])
	require.Equal(t, "NIFTY50", data["symbol"])
}

func TestSummary(t *testing.T) {
	h := testHandler(t, testAnalysis())
	_, body := do(t, h, "/api/summary")
	require.EqualValues(t, http.StatusOK, body["status"])

	data := body["data"].(map[string]interface{})
	require.Equal(t, "NIFTY50", data["symbol"])
	require.EqualValues(t, 2, data["records"])
}

func TestSummaryWithoutAnalysis(t *testing.T) {
	h := testHandler(t, nil)
	_, body := do(t, h, "/api/summary")
	require.EqualValues(t, http.StatusNotFound, body["status"])
}

func TestRankings(t *testing.T) {
	h := testHandler(t, testAnalysis())
	_, body := do(t, h, "/api/rankings/weekday")
	require.EqualValues(t, http.StatusOK, body["status"])

	data := body["data"].(map[string]interface{})
	require.Equal(t, "weekday", data["dimension"])
	buckets := data["buckets"].([]interface{})
	require.Len(t, buckets, 1)
}

func TestRankingsUnknownDimension(t *testing.T) {
	h := testHandler(t, testAnalysis())
	_, body := do(t, h, "/api/rankings/fortnight")
	require.EqualValues(t, http.StatusBadRequest, body["status"])
}

func TestRankingsUsesCache(t *testing.T) {
	h := testHandler(t, testAnalysis())
	mem := cache.NewMemoryCache()
	t.Cleanup(func() { _ = mem.Close() })
	h.SetCache(mem)

	_, body := do(t, h, "/api/rankings/weekday")
	require.EqualValues(t, http.StatusOK, body["status"])

	// Swap the analysis out; the cached table must still be served.
	h.svc.Set(&models.Analysis{})
	_, body = do(t, h, "/api/rankings/weekday")
	require.EqualValues(t, http.StatusOK, body["status"])
	data := body["data"].(map[string]interface{})
	require.Equal(t, "weekday", data["dimension"])
}

func TestRecords(t *testing.T) {
	h := testHandler(t, testAnalysis())
	_, body := do(t, h, "/api/records?from=2023-01-03&limit=10")
	require.EqualValues(t, http.StatusOK, body["status"])

	data := body["data"].(map[string]interface{})
	require.EqualValues(t, 1, data["total"])
}

func TestRecordsInvalidDate(t *testing.T) {
	h := testHandler(t, testAnalysis())
	_, body := do(t, h, "/api/records?from=garbage")
	require.EqualValues(t, http.StatusBadRequest, body["status"])
}

func TestPivots(t *testing.T) {
	h := testHandler(t, testAnalysis())
	_, body := do(t, h, "/api/pivots/sip_by_week_weekday")
	require.EqualValues(t, http.StatusOK, body["status"])

	data := body["data"].(map[string]interface{})
	require.Equal(t, "sip_by_week_weekday", data["name"])
}

func TestPivotsUnknownName(t *testing.T) {
	h := testHandler(t, testAnalysis())
	_, body := do(t, h, "/api/pivots/nope")
	require.EqualValues(t, http.StatusNotFound, body["status"])
}
