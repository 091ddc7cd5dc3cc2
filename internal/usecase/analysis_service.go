package usecase

import (
	"sync"
	"time"

	"SIPScope/internal/domain/models"
)

// AnalysisService holds the latest finished analysis for the API layer.
// The pipeline writes it once per run; handlers read it concurrently.
type AnalysisService struct {
	mu     sync.RWMutex
	latest *models.Analysis
}

// NewAnalysisService creates an empty service.
func NewAnalysisService() *AnalysisService {
	return &AnalysisService{}
}

// Set stores a finished analysis.
func (s *AnalysisService) Set(a *models.Analysis) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.latest = a
}

// Latest returns the current analysis, or nil before the first run.
func (s *AnalysisService) Latest() *models.Analysis {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.latest
}

// Records returns derived records filtered to [from, to] (zero times
// mean unbounded), capped at limit.
func (s *AnalysisService) Records(from, to time.Time, limit int) []models.DerivedRecord {
	a := s.Latest()
	if a == nil {
		return nil
	}
	out := make([]models.DerivedRecord, 0, limit)
	for _, r := range a.Records {
		if !from.IsZero() && r.Date.Before(from) {
			continue
		}
		if !to.IsZero() && r.Date.After(to) {
			break
		}
		out = append(out, r)
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out
}
