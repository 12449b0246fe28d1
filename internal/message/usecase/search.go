package usecase

import (
	"context"
	"errors"
	"sort"
	"strings"

	"jobradar-backend/internal/message/domain"
	"jobradar-backend/internal/message/repository"
	"jobradar-backend/pkg/fuzzy"
)

// ErrSemanticSearchUnavailable is returned when no vector search backend is
// configured
var ErrSemanticSearchUnavailable = errors.New("semantic search not available")

// VectorSearchService is the vector store used for semantic message search
type VectorSearchService interface {
	SemanticSearch(ctx context.Context, query string, limit int) ([]string, error)
	UpsertMessageEmbedding(ctx context.Context, messageID, groupID, text string) error
}

// SearchUsecase finds job messages by text
type SearchUsecase interface {
	// FuzzySearch matches stored job messages against the query with typo
	// tolerance, most relevant first
	FuzzySearch(ctx context.Context, query string, limit, offset int) ([]*domain.Message, int64, error)

	// SemanticSearch finds job messages by embedding similarity
	SemanticSearch(ctx context.Context, query string, limit int) ([]*domain.Message, error)
}

type searchUsecase struct {
	messageRepo repository.MessageRepository
	vectorSvc   VectorSearchService
}

// NewSearchUsecase creates the search usecase. vectorSvc may be nil, in which
// case only fuzzy search is available.
func NewSearchUsecase(messageRepo repository.MessageRepository, vectorSvc VectorSearchService) SearchUsecase {
	return &searchUsecase{
		messageRepo: messageRepo,
		vectorSvc:   vectorSvc,
	}
}

type scoredMessage struct {
	message *domain.Message
	score   float64
}

func (u *searchUsecase) FuzzySearch(ctx context.Context, query string, limit, offset int) ([]*domain.Message, int64, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []*domain.Message{}, 0, nil
	}
	if limit <= 0 {
		limit = 20
	}

	// The database narrows candidates with a substring match; the fuzzy
	// scorer orders them and admits near-misses
	candidates, _, err := u.messageRepo.Search(ctx, query, 500, 0)
	if err != nil {
		return nil, 0, err
	}

	scored := make([]scoredMessage, 0, len(candidates))
	for _, msg := range candidates {
		if !fuzzy.MatchMessage(query, msg.Sender, msg.Text) {
			continue
		}
		scored = append(scored, scoredMessage{
			message: msg,
			score:   fuzzy.ScoreMessage(query, msg.Sender, msg.Text),
		})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].score > scored[j].score
	})

	total := int64(len(scored))
	if offset >= len(scored) {
		return []*domain.Message{}, total, nil
	}
	end := offset + limit
	if end > len(scored) {
		end = len(scored)
	}

	results := make([]*domain.Message, 0, end-offset)
	for _, s := range scored[offset:end] {
		results = append(results, s.message)
	}
	return results, total, nil
}

func (u *searchUsecase) SemanticSearch(ctx context.Context, query string, limit int) ([]*domain.Message, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []*domain.Message{}, nil
	}
	if u.vectorSvc == nil {
		return nil, ErrSemanticSearchUnavailable
	}
	if limit <= 0 {
		limit = 20
	}

	ids, err := u.vectorSvc.SemanticSearch(ctx, query, limit)
	if err != nil {
		return nil, err
	}

	messages := make([]*domain.Message, 0, len(ids))
	for _, id := range ids {
		msg, err := u.messageRepo.FindByID(ctx, id)
		if err != nil || msg == nil {
			continue
		}
		messages = append(messages, msg)
	}
	return messages, nil
}
