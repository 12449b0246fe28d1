package usecase_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"jobradar-backend/internal/catalog/domain"
	"jobradar-backend/internal/catalog/repository"
	"jobradar-backend/internal/catalog/usecase"

	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const seedJSON = `[
	{"name": "TechJobsOccean", "link": "https://t.me/techjobsoccean", "category": "programming", "priority": "high"},
	{"name": "Remote Work Hub", "link": "https://t.me/remoteworkhub", "category": "remote", "priority": "medium"},
	{"name": "Dev Chatter", "link": "https://t.me/devchatter", "category": "general", "priority": "low"},
	{"name": "Go Hiring", "link": "https://t.me/gohiring", "category": "programming", "priority": "high"}
]`

func setupCatalog(t *testing.T, seed string) usecase.Catalog {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("opening sqlite: %v", err)
	}
	if err := db.AutoMigrate(&domain.Group{}); err != nil {
		t.Fatalf("migrating: %v", err)
	}

	seedFile := filepath.Join(t.TempDir(), "groups.json")
	if err := os.WriteFile(seedFile, []byte(seed), 0o644); err != nil {
		t.Fatalf("writing seed file: %v", err)
	}

	repo := repository.NewGormGroupRepository(db)
	return usecase.NewCatalogUsecase(repo, seedFile, zap.NewNop().Sugar())
}

func TestEnsureSeededLoadsOnce(t *testing.T) {
	catalog := setupCatalog(t, seedJSON)
	ctx := context.Background()

	if err := catalog.EnsureSeeded(ctx); err != nil {
		t.Fatalf("EnsureSeeded failed: %v", err)
	}
	groups, err := catalog.ListAvailable(ctx)
	if err != nil {
		t.Fatalf("ListAvailable failed: %v", err)
	}
	if len(groups) != 4 {
		t.Fatalf("catalog size = %d, want 4", len(groups))
	}

	// Seeding again must not duplicate anything
	if err := catalog.EnsureSeeded(ctx); err != nil {
		t.Fatalf("second EnsureSeeded failed: %v", err)
	}
	groups, err = catalog.ListAvailable(ctx)
	if err != nil {
		t.Fatalf("ListAvailable failed: %v", err)
	}
	if len(groups) != 4 {
		t.Errorf("catalog size after reseed = %d, want 4", len(groups))
	}
}

func TestListAvailableOrdersByPriorityThenInsertion(t *testing.T) {
	catalog := setupCatalog(t, seedJSON)
	ctx := context.Background()

	if err := catalog.EnsureSeeded(ctx); err != nil {
		t.Fatalf("EnsureSeeded failed: %v", err)
	}
	groups, err := catalog.ListAvailable(ctx)
	if err != nil {
		t.Fatalf("ListAvailable failed: %v", err)
	}

	want := []string{"TechJobsOccean", "Go Hiring", "Remote Work Hub", "Dev Chatter"}
	if len(groups) != len(want) {
		t.Fatalf("catalog size = %d, want %d", len(groups), len(want))
	}
	for i, name := range want {
		if groups[i].Name != name {
			t.Errorf("position %d = %q, want %q", i, groups[i].Name, name)
		}
	}
}

func TestAddDiscoveredDeduplicatesByLink(t *testing.T) {
	catalog := setupCatalog(t, seedJSON)
	ctx := context.Background()

	if err := catalog.EnsureSeeded(ctx); err != nil {
		t.Fatalf("EnsureSeeded failed: %v", err)
	}

	added, err := catalog.AddDiscovered(ctx, []*domain.Group{
		{Name: "TechJobsOccean Copy", Link: "https://t.me/techjobsoccean"},
		{Name: "Fresh Finds", Link: "https://t.me/freshfinds"},
	})
	if err != nil {
		t.Fatalf("AddDiscovered failed: %v", err)
	}
	if added != 1 {
		t.Errorf("added = %d, want 1 (duplicate link skipped)", added)
	}

	groups, err := catalog.ListAvailable(ctx)
	if err != nil {
		t.Fatalf("ListAvailable failed: %v", err)
	}
	if len(groups) != 5 {
		t.Fatalf("catalog size = %d, want 5", len(groups))
	}

	// Discovered groups default to the low tier and keep their source
	last := groups[len(groups)-1]
	if last.Name != "Fresh Finds" {
		t.Errorf("last group = %q, want Fresh Finds", last.Name)
	}
	if last.Priority != domain.PriorityLow {
		t.Errorf("discovered priority = %q, want low", last.Priority)
	}
	if last.Source != usecase.SourceDiscovery {
		t.Errorf("discovered source = %q, want %q", last.Source, usecase.SourceDiscovery)
	}
}

func TestEnsureSeededMissingFile(t *testing.T) {
	broken := usecase.NewCatalogUsecase(
		repositoryFrom(t), "/nonexistent/groups.json", zap.NewNop().Sugar())
	err := broken.EnsureSeeded(context.Background())
	if err == nil {
		t.Fatal("expected error for missing seed file")
	}

	stillEmpty, listErr := broken.ListAvailable(context.Background())
	if listErr != nil {
		t.Fatalf("ListAvailable failed: %v", listErr)
	}
	if len(stillEmpty) != 0 {
		t.Errorf("catalog size = %d, want 0 after failed seed", len(stillEmpty))
	}
}

func repositoryFrom(t *testing.T) repository.GroupRepository {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("opening sqlite: %v", err)
	}
	if err := db.AutoMigrate(&domain.Group{}); err != nil {
		t.Fatalf("migrating: %v", err)
	}
	return repository.NewGormGroupRepository(db)
}
