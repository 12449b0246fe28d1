package domain

import "time"

// Priority represents a group's allocation priority tier
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Rank returns the sort rank of a priority tier. High sorts first; unknown
// values fall back to low.
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 0
	case PriorityMedium:
		return 1
	case PriorityLow:
		return 2
	}
	return 2
}

// Group is a monitorable message channel with static metadata. Created once,
// never mutated afterwards except for activity bookkeeping.
type Group struct {
	ID        string    `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"not null"`
	Link      string    `json:"link" gorm:"uniqueIndex;not null"`
	Category  string    `json:"category"`
	Priority  Priority  `json:"priority" gorm:"default:low"`
	Source    string    `json:"source,omitempty"` // seed or discovery
	CreatedAt time.Time `json:"created_at"`
	// Seq preserves catalog insertion order, the deterministic tiebreaker
	// within a priority tier.
	Seq int64 `json:"-" gorm:"autoIncrement;uniqueIndex"`
}

// SeedGroup is the JSON shape of one catalog seed file entry
type SeedGroup struct {
	Name     string   `json:"name"`
	Link     string   `json:"link"`
	Category string   `json:"category"`
	Priority Priority `json:"priority"`
}
