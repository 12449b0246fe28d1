package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"jobradar-backend/internal/catalog/domain"
	"jobradar-backend/internal/catalog/repository"

	"go.uber.org/zap"
)

// ErrCatalogUnavailable means the catalog cannot be read at all. Callers must
// treat this as fatal for the run, never as an empty catalog.
var ErrCatalogUnavailable = errors.New("group catalog unavailable")

const (
	SourceSeed      = "seed"
	SourceDiscovery = "discovery"
)

// Catalog is the canonical list of candidate groups
type Catalog interface {
	// ListAvailable returns all groups ordered by priority tier (high first),
	// stable insertion order within a tier
	ListAvailable(ctx context.Context) ([]*domain.Group, error)

	// AddDiscovered merges externally discovered groups into the catalog,
	// deduplicated by link. Returns the number of new entries.
	AddDiscovered(ctx context.Context, groups []*domain.Group) (int, error)

	// EnsureSeeded loads the seed file into an empty catalog
	EnsureSeeded(ctx context.Context) error
}

type catalogUsecase struct {
	groupRepo repository.GroupRepository
	seedFile  string
	log       *zap.SugaredLogger
}

// NewCatalogUsecase creates the catalog backed by the group repository and a
// JSON seed file
func NewCatalogUsecase(groupRepo repository.GroupRepository, seedFile string, log *zap.SugaredLogger) Catalog {
	return &catalogUsecase{
		groupRepo: groupRepo,
		seedFile:  seedFile,
		log:       log.Named("catalog"),
	}
}

func (u *catalogUsecase) ListAvailable(ctx context.Context) ([]*domain.Group, error) {
	groups, err := u.groupRepo.ListByPriority(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCatalogUnavailable, err)
	}
	return groups, nil
}

func (u *catalogUsecase) AddDiscovered(ctx context.Context, groups []*domain.Group) (int, error) {
	for _, group := range groups {
		group.Source = SourceDiscovery
		if group.Priority == "" {
			group.Priority = domain.PriorityLow
		}
	}
	added, err := u.groupRepo.BulkInsert(ctx, groups)
	if err != nil {
		return 0, err
	}
	if added > 0 {
		u.log.Infow("added discovered groups to catalog", "count", added)
	}
	return added, nil
}

func (u *catalogUsecase) EnsureSeeded(ctx context.Context) error {
	count, err := u.groupRepo.Count(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrCatalogUnavailable, err)
	}
	if count > 0 {
		return nil
	}

	data, err := os.ReadFile(u.seedFile)
	if err != nil {
		return fmt.Errorf("%w: reading seed file %s: %v", ErrCatalogUnavailable, u.seedFile, err)
	}

	var seeds []domain.SeedGroup
	if err := json.Unmarshal(data, &seeds); err != nil {
		return fmt.Errorf("%w: parsing seed file %s: %v", ErrCatalogUnavailable, u.seedFile, err)
	}

	groups := make([]*domain.Group, 0, len(seeds))
	for _, seed := range seeds {
		if seed.Link == "" {
			continue
		}
		priority := seed.Priority
		if priority == "" {
			priority = domain.PriorityLow
		}
		groups = append(groups, &domain.Group{
			Name:     seed.Name,
			Link:     seed.Link,
			Category: seed.Category,
			Priority: priority,
			Source:   SourceSeed,
		})
	}

	added, err := u.groupRepo.BulkInsert(ctx, groups)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrCatalogUnavailable, err)
	}
	u.log.Infow("seeded group catalog", "file", u.seedFile, "groups", added)
	return nil
}
