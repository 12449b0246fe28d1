package usecase

import (
	"context"
	"encoding/json"

	"jobradar-backend/internal/classifier"
	"jobradar-backend/internal/message/domain"
	"jobradar-backend/internal/message/repository"

	"go.uber.org/zap"
)

// Aggregator folds per-message scores into per-group rolling statistics and
// exposes the channel ranking
type Aggregator interface {
	// Record stores a classified message and updates the group's counters.
	// A message ID that was already recorded contributes nothing; the
	// returned bool reports whether the message was new.
	Record(ctx context.Context, msg *domain.Message, score classifier.Score) (bool, error)

	// Rank returns high-value channels: groups with at least minJobCount
	// job messages, ordered by job count desc, job percentage desc, group
	// name asc
	Rank(ctx context.Context, minJobCount int64) ([]*domain.RankedGroup, error)

	// Recount rebuilds the rolling statistics from stored messages
	Recount(ctx context.Context) error

	// Totals returns overall message and job-message counts
	Totals(ctx context.Context) (total int64, jobs int64, err error)
}

type aggregator struct {
	messageRepo repository.MessageRepository
	log         *zap.SugaredLogger
}

// NewAggregator creates the channel aggregator
func NewAggregator(messageRepo repository.MessageRepository, log *zap.SugaredLogger) Aggregator {
	return &aggregator{
		messageRepo: messageRepo,
		log:         log.Named("aggregator"),
	}
}

func (a *aggregator) Record(ctx context.Context, msg *domain.Message, score classifier.Score) (bool, error) {
	categoryScores, err := json.Marshal(score.CategoryScores)
	if err != nil {
		return false, err
	}
	tags, err := json.Marshal(score.Tags)
	if err != nil {
		return false, err
	}

	stored := &domain.JobScore{
		MessageID:      msg.ID,
		GroupID:        msg.GroupID,
		Confidence:     score.Confidence,
		IsJobPost:      score.IsJobPost,
		CategoryScores: string(categoryScores),
		Tags:           string(tags),
	}
	return a.messageRepo.StoreClassified(ctx, msg, stored)
}

func (a *aggregator) Rank(ctx context.Context, minJobCount int64) ([]*domain.RankedGroup, error) {
	return a.messageRepo.Rank(ctx, minJobCount)
}

func (a *aggregator) Recount(ctx context.Context) error {
	a.log.Info("rebuilding group statistics from stored messages")
	return a.messageRepo.RecountStats(ctx)
}

func (a *aggregator) Totals(ctx context.Context) (int64, int64, error) {
	return a.messageRepo.Totals(ctx)
}
