package repository

import (
	"context"

	"jobradar-backend/internal/message/domain"
)

// MessageRepository persists messages, their scores, and the per-group
// rolling statistics
type MessageRepository interface {
	// StoreClassified stores a message with its score and bumps the group's
	// counters, all in one transaction. Re-storing an already known message
	// ID is a no-op and reports created=false; the counters are only
	// touched when the message is new, so a message contributes to the
	// statistics exactly once.
	StoreClassified(ctx context.Context, msg *domain.Message, score *domain.JobScore) (created bool, err error)

	// FindByID finds a message by ID; returns nil when absent
	FindByID(ctx context.Context, id string) (*domain.Message, error)

	// ListByGroup returns the most recent messages of a group, newest first
	ListByGroup(ctx context.Context, groupID string, limit int) ([]*domain.Message, error)

	// Search returns job-classified messages whose text matches the query,
	// newest first
	Search(ctx context.Context, query string, limit, offset int) ([]*domain.Message, int64, error)

	// GroupStats returns the rolling stats row for one group, nil if the
	// group has no messages yet
	GroupStats(ctx context.Context, groupID string) (*domain.GroupStats, error)

	// Rank returns groups with at least minJobCount job messages, ordered
	// by job count desc, job percentage desc, then group name asc
	Rank(ctx context.Context, minJobCount int64) ([]*domain.RankedGroup, error)

	// RecountStats rebuilds every group_stats row from the stored messages.
	// Used as a consistency repair; the incremental counters must already
	// equal this at any point.
	RecountStats(ctx context.Context) error

	// Totals returns overall message and job-message counts
	Totals(ctx context.Context) (total int64, jobs int64, err error)
}
