package usecase_test

import (
	"fmt"
	"testing"

	"jobradar-backend/internal/report/domain"
	"jobradar-backend/internal/report/usecase"
)

func report(date string) *domain.DailyRunReport {
	return &domain.DailyRunReport{Date: date}
}

func TestStorePutAndLookup(t *testing.T) {
	store := usecase.NewStore(7)

	if store.Latest() != nil {
		t.Fatal("empty store must report no latest run")
	}

	store.Put(report("2026-08-29"))
	store.Put(report("2026-08-30"))

	latest := store.Latest()
	if latest == nil || latest.Date != "2026-08-30" {
		t.Errorf("latest = %+v, want 2026-08-30", latest)
	}
	if got := store.ByDate("2026-08-29"); got == nil || got.Date != "2026-08-29" {
		t.Errorf("ByDate(2026-08-29) = %+v", got)
	}
	if got := store.ByDate("2026-01-01"); got != nil {
		t.Errorf("ByDate for an unknown date = %+v, want nil", got)
	}
}

func TestStoreReplacesSameDate(t *testing.T) {
	store := usecase.NewStore(7)

	first := report("2026-08-30")
	first.MessagesIngested = 10
	second := report("2026-08-30")
	second.MessagesIngested = 25

	store.Put(first)
	store.Put(second)

	got := store.ByDate("2026-08-30")
	if got.MessagesIngested != 25 {
		t.Errorf("ingested = %d, want the re-run's 25", got.MessagesIngested)
	}
}

func TestStoreEvictsOldestDate(t *testing.T) {
	store := usecase.NewStore(3)

	for day := 1; day <= 4; day++ {
		store.Put(report(fmt.Sprintf("2026-08-%02d", day)))
	}

	if got := store.ByDate("2026-08-01"); got != nil {
		t.Errorf("oldest date still present: %+v", got)
	}
	for day := 2; day <= 4; day++ {
		date := fmt.Sprintf("2026-08-%02d", day)
		if store.ByDate(date) == nil {
			t.Errorf("date %s evicted too early", date)
		}
	}
}
