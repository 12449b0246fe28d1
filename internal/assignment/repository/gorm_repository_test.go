package repository_test

import (
	"context"
	"errors"
	"testing"

	"jobradar-backend/internal/assignment/domain"
	"jobradar-backend/internal/assignment/repository"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupRepo(t *testing.T) repository.AssignmentRepository {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("opening sqlite: %v", err)
	}
	if err := db.AutoMigrate(&domain.Assignment{}, &domain.HistoryEntry{}); err != nil {
		t.Fatalf("migrating: %v", err)
	}

	repo, err := repository.NewGormAssignmentRepository(db)
	if err != nil {
		t.Fatalf("creating repository: %v", err)
	}
	return repo
}

func TestAssignAndConflict(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	first, err := repo.Assign(ctx, "account1", "g1", "daily allocation")
	if err != nil {
		t.Fatalf("first assign failed: %v", err)
	}
	if first.Status != domain.StatusActive {
		t.Errorf("status = %s, want active", first.Status)
	}

	if _, err := repo.Assign(ctx, "account2", "g1", "daily allocation"); !errors.Is(err, repository.ErrAlreadyAssigned) {
		t.Fatalf("second assign err = %v, want ErrAlreadyAssigned", err)
	}

	holder, err := repo.ActiveHolder(ctx, "g1")
	if err != nil {
		t.Fatalf("ActiveHolder failed: %v", err)
	}
	if holder != "account1" {
		t.Errorf("active holder = %q, want account1", holder)
	}
}

func TestAssignSameIdentityIsIdempotent(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	first, err := repo.Assign(ctx, "account1", "g1", "daily allocation")
	if err != nil {
		t.Fatalf("assign failed: %v", err)
	}
	second, err := repo.Assign(ctx, "account1", "g1", "daily allocation")
	if err != nil {
		t.Fatalf("re-assign failed: %v", err)
	}
	if second.ID != first.ID {
		t.Errorf("re-assign created a new row: %s vs %s", second.ID, first.ID)
	}

	history, err := repo.History(ctx, "account1", 0)
	if err != nil {
		t.Fatalf("History failed: %v", err)
	}
	if len(history) != 1 {
		t.Errorf("history entries = %d, want 1 joined entry", len(history))
	}
}

func TestReleaseAndReassign(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	if _, err := repo.Assign(ctx, "account1", "g1", "daily allocation"); err != nil {
		t.Fatalf("assign failed: %v", err)
	}
	if err := repo.Release(ctx, "account1", "g1", domain.StatusLeft, "access denied"); err != nil {
		t.Fatalf("release failed: %v", err)
	}

	// The group is free again
	if _, err := repo.Assign(ctx, "account2", "g1", "daily allocation"); err != nil {
		t.Fatalf("reassign after release failed: %v", err)
	}

	history, err := repo.History(ctx, "", 0)
	if err != nil {
		t.Fatalf("History failed: %v", err)
	}
	if len(history) != 3 {
		t.Fatalf("history entries = %d, want 3 (joined, left, joined)", len(history))
	}

	actions := map[domain.HistoryAction]int{}
	for _, h := range history {
		actions[h.Action]++
	}
	if actions[domain.ActionJoined] != 2 || actions[domain.ActionLeft] != 1 {
		t.Errorf("history actions = %v, want 2 joined and 1 left", actions)
	}
}

func TestReleaseIsIdempotent(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	if _, err := repo.Assign(ctx, "account1", "g1", "daily allocation"); err != nil {
		t.Fatalf("assign failed: %v", err)
	}
	if err := repo.Release(ctx, "account1", "g1", domain.StatusInactive, "daily assignment expired"); err != nil {
		t.Fatalf("release failed: %v", err)
	}
	if err := repo.Release(ctx, "account1", "g1", domain.StatusInactive, "daily assignment expired"); err != nil {
		t.Fatalf("repeated release failed: %v", err)
	}

	history, err := repo.History(ctx, "account1", 0)
	if err != nil {
		t.Fatalf("History failed: %v", err)
	}
	if len(history) != 2 {
		t.Errorf("history entries = %d, want 2 (second release is a no-op)", len(history))
	}
}

func TestReleaseRejectsNonTerminalStatus(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	if _, err := repo.Assign(ctx, "account1", "g1", "daily allocation"); err != nil {
		t.Fatalf("assign failed: %v", err)
	}
	if err := repo.Release(ctx, "account1", "g1", domain.StatusActive, ""); err == nil {
		t.Fatal("release with status active must fail")
	}
}

func TestCurrentAssignmentsAndSnapshot(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	for _, groupID := range []string{"g1", "g2", "g3"} {
		if _, err := repo.Assign(ctx, "account1", groupID, "daily allocation"); err != nil {
			t.Fatalf("assign %s failed: %v", groupID, err)
		}
	}
	if _, err := repo.Assign(ctx, "account2", "g4", "daily allocation"); err != nil {
		t.Fatalf("assign g4 failed: %v", err)
	}
	if err := repo.Release(ctx, "account1", "g2", domain.StatusLeft, "access denied"); err != nil {
		t.Fatalf("release failed: %v", err)
	}

	current, err := repo.CurrentAssignments(ctx, "account1")
	if err != nil {
		t.Fatalf("CurrentAssignments failed: %v", err)
	}
	if len(current) != 2 {
		t.Errorf("active assignments = %d, want 2", len(current))
	}

	all, err := repo.AllAssignedGroupIDs(ctx)
	if err != nil {
		t.Fatalf("AllAssignedGroupIDs failed: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("assigned set size = %d, want 3", len(all))
	}
	if _, ok := all["g2"]; ok {
		t.Error("released group g2 must not be in the assigned set")
	}

	// The snapshot covers everything assigned today regardless of status
	snapshot, err := repo.DailySnapshot(ctx, current[0].AssignedOn)
	if err != nil {
		t.Fatalf("DailySnapshot failed: %v", err)
	}
	if len(snapshot["account1"]) != 3 {
		t.Errorf("snapshot for account1 = %v, want 3 groups", snapshot["account1"])
	}
	if len(snapshot["account2"]) != 1 {
		t.Errorf("snapshot for account2 = %v, want 1 group", snapshot["account2"])
	}
}
