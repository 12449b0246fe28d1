package repository

import (
	"context"

	"jobradar-backend/internal/catalog/domain"
)

// GroupRepository defines the interface for catalog data access
type GroupRepository interface {
	// ListByPriority returns all groups ordered by priority tier, then by
	// insertion order within a tier
	ListByPriority(ctx context.Context) ([]*domain.Group, error)

	// FindByID finds a group by its ID; returns nil when absent
	FindByID(ctx context.Context, id string) (*domain.Group, error)

	// FindByLink finds a group by its unique link; returns nil when absent
	FindByLink(ctx context.Context, link string) (*domain.Group, error)

	// BulkInsert inserts groups that are not yet present, keyed by link.
	// Returns the number of newly inserted groups.
	BulkInsert(ctx context.Context, groups []*domain.Group) (int, error)

	// Count returns the total number of catalog entries
	Count(ctx context.Context) (int64, error)
}
