package usecase

import (
	"sync"

	"jobradar-backend/internal/report/domain"
)

// Store keeps run reports in memory for the API. The newest report per date
// wins; only a bounded window of dates is retained.
type Store struct {
	mu      sync.RWMutex
	byDate  map[string]*domain.DailyRunReport
	order   []string
	maxDays int
}

// NewStore creates a report store retaining up to maxDays dates
func NewStore(maxDays int) *Store {
	if maxDays <= 0 {
		maxDays = 30
	}
	return &Store{
		byDate:  make(map[string]*domain.DailyRunReport),
		maxDays: maxDays,
	}
}

// Put stores a report, replacing any earlier report for the same date
func (s *Store) Put(report *domain.DailyRunReport) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byDate[report.Date]; !exists {
		s.order = append(s.order, report.Date)
		if len(s.order) > s.maxDays {
			oldest := s.order[0]
			s.order = s.order[1:]
			delete(s.byDate, oldest)
		}
	}
	s.byDate[report.Date] = report
}

// Latest returns the most recently stored report, nil when no run has
// completed yet
func (s *Store) Latest() *domain.DailyRunReport {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.order) == 0 {
		return nil
	}
	return s.byDate[s.order[len(s.order)-1]]
}

// ByDate returns the report for one date, nil when absent
func (s *Store) ByDate(date string) *domain.DailyRunReport {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.byDate[date]
}
