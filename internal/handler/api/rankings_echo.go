package api

import (
	"time"

	models "SIPScope/internal/domain/models"
	"SIPScope/internal/usecase"
	"SIPScope/pkg/cache"
	xhttp "SIPScope/pkg/http"
	xlogger "SIPScope/pkg/logger"
	"SIPScope/pkg/util"

	"github.com/labstack/echo/v4"
)

const rankingsCacheTTL = 60 * time.Second

// RankingsEchoHandler serves the latest analysis over HTTP.
type RankingsEchoHandler struct {
	logger *xlogger.Logger
	svc    *usecase.AnalysisService
	cache  cache.Service
}

func NewRankingsEchoHandler(logger *xlogger.Logger, svc *usecase.AnalysisService) *RankingsEchoHandler {
	return &RankingsEchoHandler{logger: logger, svc: svc}
}

// SetCache injects a response cache.
func (h *RankingsEchoHandler) SetCache(c cache.Service) { h.cache = c }

func (h *RankingsEchoHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.GET("/health", h.Health)
	g.GET("/summary", h.Summary)
	g.GET("/records", h.Records)
	g.GET("/rankings/:dimension", h.Rankings)
	g.GET("/pivots/:name", h.Pivots)
}

func (h *RankingsEchoHandler) Health(c echo.Context) error {
	a := h.svc.Latest()
	res := &models.HealthResponse{Status: "waiting"}
	if a != nil {
		res.Status = "ready"
		res.HasData = true
		res.Symbol = a.Symbol
		res.Records = len(a.Records)
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *RankingsEchoHandler) Summary(c echo.Context) error {
	a := h.svc.Latest()
	if a == nil {
		return xhttp.AppErrorResponse(c, xhttp.NotFoundError("no analysis available yet"))
	}

	dims := make([]string, 0, len(models.Dimensions))
	for _, d := range models.Dimensions {
		dims = append(dims, string(d))
	}
	pivots := make([]string, 0, len(a.Pivots))
	for i := range a.Pivots {
		pivots = append(pivots, a.Pivots[i].Name)
	}

	return xhttp.SuccessResponse(c, &models.SummaryResponse{
		Symbol:      a.Symbol,
		From:        a.From,
		To:          a.To,
		GeneratedAt: a.GeneratedAt,
		Records:     len(a.Records),
		Dimensions:  dims,
		Pivots:      pivots,
	})
}

func (h *RankingsEchoHandler) Records(c echo.Context) error {
	req := &models.RecordsRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	var from, to time.Time
	if req.From != "" {
		var ok bool
		if from, ok = util.ParseDate(req.From); !ok {
			return xhttp.AppErrorResponse(c, xhttp.BadRequestErrorf("invalid from date: %s", req.From))
		}
	}
	if req.To != "" {
		var ok bool
		if to, ok = util.ParseDate(req.To); !ok {
			return xhttp.AppErrorResponse(c, xhttp.BadRequestErrorf("invalid to date: %s", req.To))
		}
	}

	if h.svc.Latest() == nil {
		return xhttp.AppErrorResponse(c, xhttp.NotFoundError("no analysis available yet"))
	}

	rows := h.svc.Records(from, to, req.Limit)
	return xhttp.ListResponse(c, rows, int64(len(rows)))
}

func (h *RankingsEchoHandler) Rankings(c echo.Context) error {
	dim := models.Dimension(c.Param("dimension"))
	if !validDimension(dim) {
		return xhttp.AppErrorResponse(c, xhttp.BadRequestErrorf("unknown dimension: %s", dim))
	}

	cacheKey := "rankings:" + string(dim)
	if h.cache != nil {
		var cached models.RankingTable
		if err := h.cache.Get(c.Request().Context(), cacheKey, &cached); err == nil {
			return xhttp.SuccessResponse(c, &cached)
		}
	}

	table := h.svc.Latest().Table(dim)
	if table == nil {
		return xhttp.AppErrorResponse(c, xhttp.NotFoundError("no analysis available yet"))
	}

	if h.cache != nil {
		if err := h.cache.Set(c.Request().Context(), cacheKey, table, rankingsCacheTTL); err != nil {
			h.logger.Warn("rankings cache set failed", xlogger.Error(err))
		}
	}
	return xhttp.SuccessResponse(c, table)
}

func (h *RankingsEchoHandler) Pivots(c echo.Context) error {
	name := c.Param("name")

	cacheKey := "pivots:" + name
	if h.cache != nil {
		var cached models.Pivot
		if err := h.cache.Get(c.Request().Context(), cacheKey, &cached); err == nil {
			return xhttp.SuccessResponse(c, &cached)
		}
	}

	a := h.svc.Latest()
	if a == nil {
		return xhttp.AppErrorResponse(c, xhttp.NotFoundError("no analysis available yet"))
	}
	pivot := a.Pivot(name)
	if pivot == nil {
		return xhttp.AppErrorResponse(c, xhttp.NotFoundErrorf("unknown pivot: %s", name))
	}

	if h.cache != nil {
		if err := h.cache.Set(c.Request().Context(), cacheKey, pivot, rankingsCacheTTL); err != nil {
			h.logger.Warn("pivots cache set failed", xlogger.Error(err))
		}
	}
	return xhttp.SuccessResponse(c, pivot)
}

func validDimension(dim models.Dimension) bool {
	for _, d := range models.Dimensions {
		if d == dim {
			return true
		}
	}
	return false
}
