package repository

import (
	"context"
	"errors"

	"jobradar-backend/internal/assignment/domain"
)

// ErrAlreadyAssigned is returned by Assign when the group is actively held by
// a different identity. It is the expected outcome of an allocation race, not
// an operator-visible failure.
var ErrAlreadyAssigned = errors.New("group already assigned to another identity")

// ErrStoreUnavailable wraps any storage fault. The scheduler halts allocation
// for the affected identity instead of proceeding with partial data.
var ErrStoreUnavailable = errors.New("assignment store unavailable")

// AssignmentRepository is the durable record of which identity owns which
// group, plus the append-only history log
type AssignmentRepository interface {
	// CurrentAssignments returns the groups actively held by the identity,
	// in assignment order
	CurrentAssignments(ctx context.Context, identityID string) ([]*domain.Assignment, error)

	// AllAssignedGroupIDs returns the set of group IDs with an active
	// assignment across all identities
	AllAssignedGroupIDs(ctx context.Context) (map[string]struct{}, error)

	// Assign creates an active assignment and its joined history entry in
	// one transaction. Fails with ErrAlreadyAssigned when the group is
	// actively held by a different identity; assigning a group the identity
	// already holds returns the existing assignment unchanged.
	Assign(ctx context.Context, identityID, groupID, reason string) (*domain.Assignment, error)

	// Release marks the identity's active assignment for the group as the
	// given terminal status and appends a left history entry, atomically.
	Release(ctx context.Context, identityID, groupID string, status domain.AssignmentStatus, reason string) error

	// DailySnapshot returns identity -> group IDs assigned on the given
	// date (YYYY-MM-DD), regardless of current status
	DailySnapshot(ctx context.Context, date string) (map[string][]string, error)

	// History returns the most recent history entries for an identity,
	// newest first. identityID may be empty to list across identities.
	History(ctx context.Context, identityID string, limit int) ([]*domain.HistoryEntry, error)

	// ActiveHolder returns the identity actively holding the group, or ""
	ActiveHolder(ctx context.Context, groupID string) (string, error)
}
