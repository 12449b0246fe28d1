package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"jobradar-backend/internal/assignment/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// gormAssignmentRepository implements AssignmentRepository using GORM
type gormAssignmentRepository struct {
	db *gorm.DB
}

// NewGormAssignmentRepository creates a new GORM-based AssignmentRepository.
// It installs the partial unique index that enforces the one-active-holder
// invariant at the database level.
func NewGormAssignmentRepository(db *gorm.DB) (AssignmentRepository, error) {
	err := db.Exec(
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_assignments_active_group
		 ON assignments (group_id) WHERE status = 'active'`,
	).Error
	if err != nil {
		return nil, fmt.Errorf("creating active-group index: %w", err)
	}
	return &gormAssignmentRepository{db: db}, nil
}

func (r *gormAssignmentRepository) CurrentAssignments(ctx context.Context, identityID string) ([]*domain.Assignment, error) {
	var assignments []*domain.Assignment
	err := r.db.WithContext(ctx).
		Where("identity_id = ? AND status = ?", identityID, domain.StatusActive).
		Order("assigned_at ASC").
		Find(&assignments).Error
	if err != nil {
		return nil, storeErr(err)
	}
	return assignments, nil
}

func (r *gormAssignmentRepository) AllAssignedGroupIDs(ctx context.Context) (map[string]struct{}, error) {
	var groupIDs []string
	err := r.db.WithContext(ctx).
		Model(&domain.Assignment{}).
		Where("status = ?", domain.StatusActive).
		Pluck("group_id", &groupIDs).Error
	if err != nil {
		return nil, storeErr(err)
	}
	set := make(map[string]struct{}, len(groupIDs))
	for _, id := range groupIDs {
		set[id] = struct{}{}
	}
	return set, nil
}

func (r *gormAssignmentRepository) Assign(ctx context.Context, identityID, groupID, reason string) (*domain.Assignment, error) {
	var assignment *domain.Assignment

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// The partial unique index on (group_id) WHERE status='active' is
		// what actually serializes racing claims; this lookup only gives
		// callers a precise answer for the common non-racing path.
		var existing domain.Assignment
		err := tx.Where("group_id = ? AND status = ?", groupID, domain.StatusActive).
			First(&existing).Error
		switch {
		case err == nil:
			if existing.IdentityID == identityID {
				assignment = &existing
				return nil
			}
			return ErrAlreadyAssigned
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return err
		}

		now := time.Now()
		assignment = &domain.Assignment{
			ID:         uuid.New().String(),
			IdentityID: identityID,
			GroupID:    groupID,
			AssignedAt: now,
			AssignedOn: now.Format("2006-01-02"),
			Status:     domain.StatusActive,
			UpdatedAt:  now,
		}
		if err := tx.Create(assignment).Error; err != nil {
			return err
		}

		// The assignment and its history entry are one atomic unit
		return tx.Create(&domain.HistoryEntry{
			ID:         uuid.New().String(),
			IdentityID: identityID,
			GroupID:    groupID,
			Action:     domain.ActionJoined,
			Timestamp:  now,
			Reason:     reason,
		}).Error
	})
	if err != nil {
		if errors.Is(err, ErrAlreadyAssigned) || errors.Is(err, gorm.ErrDuplicatedKey) {
			// Two identities raced for the group and the other one won
			return nil, ErrAlreadyAssigned
		}
		return nil, storeErr(err)
	}
	return assignment, nil
}

func (r *gormAssignmentRepository) Release(ctx context.Context, identityID, groupID string, status domain.AssignmentStatus, reason string) error {
	if status != domain.StatusLeft && status != domain.StatusInactive {
		return fmt.Errorf("release with non-terminal status %q", status)
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&domain.Assignment{}).
			Where("identity_id = ? AND group_id = ? AND status = ?", identityID, groupID, domain.StatusActive).
			Updates(map[string]interface{}{
				"status":     status,
				"updated_at": time.Now(),
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			// Nothing to release; keep the call idempotent
			return nil
		}

		return tx.Create(&domain.HistoryEntry{
			ID:         uuid.New().String(),
			IdentityID: identityID,
			GroupID:    groupID,
			Action:     domain.ActionLeft,
			Timestamp:  time.Now(),
			Reason:     reason,
		}).Error
	})
	if err != nil {
		return storeErr(err)
	}
	return nil
}

func (r *gormAssignmentRepository) DailySnapshot(ctx context.Context, date string) (map[string][]string, error) {
	var assignments []*domain.Assignment
	err := r.db.WithContext(ctx).
		Where("assigned_on = ?", date).
		Order("assigned_at ASC").
		Find(&assignments).Error
	if err != nil {
		return nil, storeErr(err)
	}

	snapshot := make(map[string][]string)
	for _, a := range assignments {
		snapshot[a.IdentityID] = append(snapshot[a.IdentityID], a.GroupID)
	}
	return snapshot, nil
}

func (r *gormAssignmentRepository) History(ctx context.Context, identityID string, limit int) ([]*domain.HistoryEntry, error) {
	query := r.db.WithContext(ctx).Model(&domain.HistoryEntry{})
	if identityID != "" {
		query = query.Where("identity_id = ?", identityID)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}

	var entries []*domain.HistoryEntry
	if err := query.Order("timestamp DESC").Find(&entries).Error; err != nil {
		return nil, storeErr(err)
	}
	return entries, nil
}

func (r *gormAssignmentRepository) ActiveHolder(ctx context.Context, groupID string) (string, error) {
	var assignment domain.Assignment
	err := r.db.WithContext(ctx).
		Where("group_id = ? AND status = ?", groupID, domain.StatusActive).
		First(&assignment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil
		}
		return "", storeErr(err)
	}
	return assignment.IdentityID, nil
}

func storeErr(err error) error {
	return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
}
