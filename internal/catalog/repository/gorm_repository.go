package repository

import (
	"context"
	"errors"
	"time"

	"jobradar-backend/internal/catalog/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// gormGroupRepository implements GroupRepository using GORM
type gormGroupRepository struct {
	db *gorm.DB
}

// NewGormGroupRepository creates a new GORM-based GroupRepository
func NewGormGroupRepository(db *gorm.DB) GroupRepository {
	return &gormGroupRepository{db: db}
}

func (r *gormGroupRepository) ListByPriority(ctx context.Context) ([]*domain.Group, error) {
	var groups []*domain.Group
	err := r.db.WithContext(ctx).
		Order("CASE priority WHEN 'high' THEN 0 WHEN 'medium' THEN 1 ELSE 2 END, seq ASC").
		Find(&groups).Error
	if err != nil {
		return nil, err
	}
	return groups, nil
}

func (r *gormGroupRepository) FindByID(ctx context.Context, id string) (*domain.Group, error) {
	var group domain.Group
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&group).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &group, nil
}

func (r *gormGroupRepository) FindByLink(ctx context.Context, link string) (*domain.Group, error) {
	var group domain.Group
	err := r.db.WithContext(ctx).Where("link = ?", link).First(&group).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &group, nil
}

func (r *gormGroupRepository) BulkInsert(ctx context.Context, groups []*domain.Group) (int, error) {
	if len(groups) == 0 {
		return 0, nil
	}

	now := time.Now()
	for _, group := range groups {
		if group.ID == "" {
			group.ID = uuid.New().String()
		}
		if group.CreatedAt.IsZero() {
			group.CreatedAt = now
		}
	}

	// Existing links are skipped so re-loading a seed file is a no-op
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "link"}},
			DoNothing: true,
		}).
		Create(&groups)
	if result.Error != nil {
		return 0, result.Error
	}
	return int(result.RowsAffected), nil
}

func (r *gormGroupRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Group{}).Count(&count).Error
	return count, err
}
