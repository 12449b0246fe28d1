package repository

import (
	"context"
	"errors"
	"time"

	"jobradar-backend/internal/message/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// gormMessageRepository implements MessageRepository using GORM
type gormMessageRepository struct {
	db *gorm.DB
}

// NewGormMessageRepository creates a new GORM-based MessageRepository
func NewGormMessageRepository(db *gorm.DB) MessageRepository {
	return &gormMessageRepository{db: db}
}

func (r *gormMessageRepository) StoreClassified(ctx context.Context, msg *domain.Message, score *domain.JobScore) (bool, error) {
	created := false

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if msg.CreatedAt.IsZero() {
			msg.CreatedAt = time.Now()
		}

		// Conflict on the message ID means this message was already
		// ingested; the whole call becomes a no-op.
		result := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(msg)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return nil
		}
		created = true

		score.MessageID = msg.ID
		score.GroupID = msg.GroupID
		score.CreatedAt = msg.CreatedAt
		if err := tx.Create(score).Error; err != nil {
			return err
		}

		jobIncrement := 0
		if score.IsJobPost {
			jobIncrement = 1
		}

		// Counter bump rides in the same transaction as the insert, so the
		// rolling stats always equal a full recount.
		stats := &domain.GroupStats{
			GroupID:           msg.GroupID,
			JobMessageCount:   int64(jobIncrement),
			TotalMessageCount: 1,
			LastActivity:      msg.Timestamp,
			UpdatedAt:         time.Now(),
		}
		return tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "group_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"total_message_count": gorm.Expr("group_stats.total_message_count + 1"),
				"job_message_count":   gorm.Expr("group_stats.job_message_count + ?", jobIncrement),
				"last_activity": gorm.Expr(
					"CASE WHEN excluded.last_activity > group_stats.last_activity THEN excluded.last_activity ELSE group_stats.last_activity END"),
				"updated_at": time.Now(),
			}),
		}).Create(stats).Error
	})
	if err != nil {
		return false, err
	}
	return created, nil
}

func (r *gormMessageRepository) FindByID(ctx context.Context, id string) (*domain.Message, error) {
	var msg domain.Message
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&msg).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &msg, nil
}

func (r *gormMessageRepository) ListByGroup(ctx context.Context, groupID string, limit int) ([]*domain.Message, error) {
	var messages []*domain.Message
	query := r.db.WithContext(ctx).
		Where("group_id = ?", groupID).
		Order("timestamp DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	err := query.Find(&messages).Error
	return messages, err
}

func (r *gormMessageRepository) Search(ctx context.Context, query string, limit, offset int) ([]*domain.Message, int64, error) {
	base := r.db.WithContext(ctx).
		Model(&domain.Message{}).
		Joins("JOIN job_scores ON job_scores.message_id = messages.id").
		Where("job_scores.is_job_post = ?", true).
		Where("messages.text LIKE ?", "%"+query+"%")

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var messages []*domain.Message
	err := base.Order("messages.timestamp DESC").
		Limit(limit).Offset(offset).
		Find(&messages).Error
	return messages, total, err
}

func (r *gormMessageRepository) GroupStats(ctx context.Context, groupID string) (*domain.GroupStats, error) {
	var stats domain.GroupStats
	err := r.db.WithContext(ctx).Where("group_id = ?", groupID).First(&stats).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &stats, nil
}

func (r *gormMessageRepository) Rank(ctx context.Context, minJobCount int64) ([]*domain.RankedGroup, error) {
	var ranked []*domain.RankedGroup
	err := r.db.WithContext(ctx).Raw(`
		SELECT gs.group_id,
		       g.name,
		       g.link,
		       gs.job_message_count,
		       gs.total_message_count,
		       CASE WHEN gs.total_message_count > 0
		            THEN gs.job_message_count * 100.0 / gs.total_message_count
		            ELSE 0 END AS job_percentage,
		       gs.last_activity,
		       COALESCE(a.identity_id, '') AS owned_by
		FROM group_stats gs
		JOIN groups g ON g.id = gs.group_id
		LEFT JOIN assignments a ON a.group_id = gs.group_id AND a.status = 'active'
		WHERE gs.job_message_count >= ?
		ORDER BY gs.job_message_count DESC, job_percentage DESC, g.name ASC`,
		minJobCount,
	).Scan(&ranked).Error
	return ranked, err
}

func (r *gormMessageRepository) RecountStats(ctx context.Context) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(`DELETE FROM group_stats`).Error; err != nil {
			return err
		}
		return tx.Exec(`
			INSERT INTO group_stats (group_id, job_message_count, total_message_count, last_activity, updated_at)
			SELECT m.group_id,
			       COALESCE(SUM(CASE WHEN s.is_job_post THEN 1 ELSE 0 END), 0),
			       COUNT(m.id),
			       MAX(m.timestamp),
			       ?
			FROM messages m
			LEFT JOIN job_scores s ON s.message_id = m.id
			GROUP BY m.group_id`,
			time.Now(),
		).Error
	})
}

func (r *gormMessageRepository) Totals(ctx context.Context) (int64, int64, error) {
	var total, jobs int64
	if err := r.db.WithContext(ctx).Model(&domain.Message{}).Count(&total).Error; err != nil {
		return 0, 0, err
	}
	err := r.db.WithContext(ctx).Model(&domain.JobScore{}).
		Where("is_job_post = ?", true).
		Count(&jobs).Error
	return total, jobs, err
}
