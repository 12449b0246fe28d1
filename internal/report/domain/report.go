package domain

import (
	"time"

	assignmentusecase "jobradar-backend/internal/assignment/usecase"
	messagedomain "jobradar-backend/internal/message/domain"
)

// SkippedGroup records one group the run could not ingest, with the reason.
// Skips are annotations on the report, never run failures.
type SkippedGroup struct {
	Identity  string `json:"identity"`
	GroupID   string `json:"group_id"`
	GroupName string `json:"group_name"`
	Reason    string `json:"reason"`
}

// DailyRunReport is the output of one full run: the day's allocation, what
// was ingested, and the resulting channel ranking. A completed run always
// produces a report, annotated with any partial-fill or skipped-group
// conditions.
type DailyRunReport struct {
	Date        string    `json:"date"`
	GeneratedAt time.Time `json:"generated_at"`

	Plan []*assignmentusecase.PlanEntry `json:"plan"`

	// Counts are scoped to this run; re-ingested duplicates do not count
	MessagesIngested int64 `json:"messages_ingested"`
	JobMessages      int64 `json:"job_messages"`

	Ranked  []*messagedomain.RankedGroup `json:"ranked_channels"`
	Skipped []SkippedGroup               `json:"skipped_groups,omitempty"`
}

// TotalShortfall sums the per-identity allocation shortfalls
func (r *DailyRunReport) TotalShortfall() int {
	total := 0
	for _, entry := range r.Plan {
		total += entry.Shortfall
	}
	return total
}
