package domain

import "time"

// AssignmentStatus represents the current state of an assignment
type AssignmentStatus string

const (
	StatusActive   AssignmentStatus = "active"
	StatusInactive AssignmentStatus = "inactive"
	StatusLeft     AssignmentStatus = "left"
)

// HistoryAction is the kind of event recorded in the assignment history
type HistoryAction string

const (
	ActionJoined     HistoryAction = "joined"
	ActionLeft       HistoryAction = "left"
	ActionReassigned HistoryAction = "reassigned"
)

// Identity is a worker account used to join groups and fetch messages. The
// roster comes from configuration; only the quota is tunable.
type Identity struct {
	Name       string
	DailyQuota int
}

// Assignment binds one group to one identity. A group has at most one active
// holder at any time; the same group may be re-assigned across dates once
// released.
type Assignment struct {
	ID         string           `json:"id" gorm:"primaryKey"`
	IdentityID string           `json:"identity_id" gorm:"index;not null"`
	GroupID    string           `json:"group_id" gorm:"index;not null"`
	AssignedAt time.Time        `json:"assigned_at"`
	// AssignedOn is the calendar date (YYYY-MM-DD) the assignment was made
	// on, used by the daily assignment mode.
	AssignedOn string           `json:"assigned_on" gorm:"index"`
	Status     AssignmentStatus `json:"status" gorm:"index;default:active"`
	UpdatedAt  time.Time        `json:"updated_at"`
}

// HistoryEntry is one append-only record of an assignment action. Entries are
// never mutated or deleted; they are the source of truth for auditing and for
// rebuilding assignment state.
type HistoryEntry struct {
	ID         string        `json:"id" gorm:"primaryKey"`
	IdentityID string        `json:"identity_id" gorm:"index;not null"`
	GroupID    string        `json:"group_id" gorm:"index;not null"`
	Action     HistoryAction `json:"action" gorm:"not null"`
	Timestamp  time.Time     `json:"timestamp"`
	Reason     string        `json:"reason,omitempty"`
}

// TableName keeps the audit log table name explicit
func (HistoryEntry) TableName() string {
	return "assignment_history"
}
