package usecase_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	assignmentdomain "jobradar-backend/internal/assignment/domain"
	assignmentusecase "jobradar-backend/internal/assignment/usecase"
	catalogdomain "jobradar-backend/internal/catalog/domain"
	"jobradar-backend/internal/classifier"
	"jobradar-backend/internal/ingest/usecase"
	messagedomain "jobradar-backend/internal/message/domain"

	"go.uber.org/zap"
)

// fixedScheduler hands back a pre-built plan
type fixedScheduler struct {
	plan *assignmentusecase.DayPlan
}

func (s *fixedScheduler) PlanDay(ctx context.Context, date string) (*assignmentusecase.DayPlan, error) {
	return s.plan, nil
}

// fakeSource serves canned messages or errors per group
type fakeSource struct {
	messages map[string][]usecase.RawMessage
	errs     map[string]error
}

func (s *fakeSource) FetchRecent(ctx context.Context, identity string, group *catalogdomain.Group, limit int) ([]usecase.RawMessage, error) {
	if err, ok := s.errs[group.ID]; ok {
		return nil, err
	}
	return s.messages[group.ID], nil
}

// memAggregator deduplicates by message ID like the real store
type memAggregator struct {
	seen map[string]bool
	jobs int64
}

func (a *memAggregator) Record(ctx context.Context, msg *messagedomain.Message, score classifier.Score) (bool, error) {
	if a.seen[msg.ID] {
		return false, nil
	}
	a.seen[msg.ID] = true
	if score.IsJobPost {
		a.jobs++
	}
	return true, nil
}

func (a *memAggregator) Rank(ctx context.Context, minJobCount int64) ([]*messagedomain.RankedGroup, error) {
	return nil, nil
}

func (a *memAggregator) Recount(ctx context.Context) error { return nil }

func (a *memAggregator) Totals(ctx context.Context) (int64, int64, error) {
	return int64(len(a.seen)), a.jobs, nil
}

// releaseRecorder only tracks Release calls; the runner never assigns
type releaseRecorder struct {
	released []string
	statuses []assignmentdomain.AssignmentStatus
}

func (r *releaseRecorder) CurrentAssignments(ctx context.Context, identityID string) ([]*assignmentdomain.Assignment, error) {
	return nil, nil
}

func (r *releaseRecorder) AllAssignedGroupIDs(ctx context.Context) (map[string]struct{}, error) {
	return map[string]struct{}{}, nil
}

func (r *releaseRecorder) Assign(ctx context.Context, identityID, groupID, reason string) (*assignmentdomain.Assignment, error) {
	return nil, nil
}

func (r *releaseRecorder) Release(ctx context.Context, identityID, groupID string, status assignmentdomain.AssignmentStatus, reason string) error {
	r.released = append(r.released, groupID)
	r.statuses = append(r.statuses, status)
	return nil
}

func (r *releaseRecorder) DailySnapshot(ctx context.Context, date string) (map[string][]string, error) {
	return nil, nil
}

func (r *releaseRecorder) History(ctx context.Context, identityID string, limit int) ([]*assignmentdomain.HistoryEntry, error) {
	return nil, nil
}

func (r *releaseRecorder) ActiveHolder(ctx context.Context, groupID string) (string, error) {
	return "", nil
}

func group(id string) *catalogdomain.Group {
	return &catalogdomain.Group{ID: id, Name: "Group " + id, Link: "https://t.me/" + id}
}

func planFor(entries ...*assignmentusecase.PlanEntry) *assignmentusecase.DayPlan {
	return &assignmentusecase.DayPlan{Date: "2026-08-31", Entries: entries}
}

func rawMessages(groupID string, n int, text string) []usecase.RawMessage {
	msgs := make([]usecase.RawMessage, 0, n)
	for i := 0; i < n; i++ {
		msgs = append(msgs, usecase.RawMessage{
			ID:        fmt.Sprintf("%s:%d", groupID, i),
			Text:      text,
			Timestamp: time.Now(),
		})
	}
	return msgs
}

func newRunner(sched *fixedScheduler, src *fakeSource, agg *memAggregator, repo *releaseRecorder) *usecase.Runner {
	cls := classifier.New(classifier.DefaultLexicon(), 12)
	return usecase.NewRunner(sched, src, cls, agg, repo, nil, 100, 1, zap.NewNop().Sugar())
}

func TestRunDayCountsIngestedAndJobs(t *testing.T) {
	sched := &fixedScheduler{plan: planFor(
		&assignmentusecase.PlanEntry{Identity: "account1", Groups: []*catalogdomain.Group{group("g1")}},
	)}
	src := &fakeSource{messages: map[string][]usecase.RawMessage{
		"g1": append(
			rawMessages("g1", 3, "We are hiring a python developer, apply now"),
			usecase.RawMessage{ID: "g1:chat", Text: "lovely weather today", Timestamp: time.Now()},
		),
	}}
	agg := &memAggregator{seen: map[string]bool{}}
	repo := &releaseRecorder{}

	report, err := newRunner(sched, src, agg, repo).RunDay(context.Background(), "2026-08-31")
	if err != nil {
		t.Fatalf("RunDay failed: %v", err)
	}
	if report.MessagesIngested != 4 {
		t.Errorf("ingested = %d, want 4", report.MessagesIngested)
	}
	if report.JobMessages != 3 {
		t.Errorf("job messages = %d, want 3", report.JobMessages)
	}
	if len(report.Skipped) != 0 {
		t.Errorf("skipped = %d, want 0", len(report.Skipped))
	}
}

func TestRunDayDuplicatesNotCounted(t *testing.T) {
	sched := &fixedScheduler{plan: planFor(
		&assignmentusecase.PlanEntry{Identity: "account1", Groups: []*catalogdomain.Group{group("g1")}},
	)}
	src := &fakeSource{messages: map[string][]usecase.RawMessage{
		"g1": rawMessages("g1", 5, "hiring golang developer"),
	}}
	agg := &memAggregator{seen: map[string]bool{}}
	repo := &releaseRecorder{}
	runner := newRunner(sched, src, agg, repo)

	first, err := runner.RunDay(context.Background(), "2026-08-31")
	if err != nil {
		t.Fatalf("first RunDay failed: %v", err)
	}
	if first.MessagesIngested != 5 {
		t.Fatalf("first run ingested = %d, want 5", first.MessagesIngested)
	}

	second, err := runner.RunDay(context.Background(), "2026-08-31")
	if err != nil {
		t.Fatalf("second RunDay failed: %v", err)
	}
	if second.MessagesIngested != 0 {
		t.Errorf("second run ingested = %d, want 0 (all duplicates)", second.MessagesIngested)
	}
	if second.JobMessages != 0 {
		t.Errorf("second run job messages = %d, want 0", second.JobMessages)
	}
}

func TestRunDayAccessDeniedReleasesGroup(t *testing.T) {
	sched := &fixedScheduler{plan: planFor(
		&assignmentusecase.PlanEntry{Identity: "account1", Groups: []*catalogdomain.Group{
			group("g1"), group("g2"), group("g3"),
		}},
	)}
	src := &fakeSource{
		messages: map[string][]usecase.RawMessage{
			"g1": rawMessages("g1", 2, "hiring java developer"),
			"g3": rawMessages("g3", 2, "hiring php developer"),
		},
		errs: map[string]error{"g2": usecase.ErrAccessDenied},
	}
	agg := &memAggregator{seen: map[string]bool{}}
	repo := &releaseRecorder{}

	report, err := newRunner(sched, src, agg, repo).RunDay(context.Background(), "2026-08-31")
	if err != nil {
		t.Fatalf("RunDay failed: %v", err)
	}

	if len(repo.released) != 1 || repo.released[0] != "g2" {
		t.Fatalf("released = %v, want [g2]", repo.released)
	}
	if repo.statuses[0] != assignmentdomain.StatusLeft {
		t.Errorf("release status = %q, want left", repo.statuses[0])
	}
	if len(report.Skipped) != 1 || report.Skipped[0].GroupID != "g2" {
		t.Errorf("skipped = %+v, want g2 only", report.Skipped)
	}
	// Siblings are unaffected by the denied group
	if report.MessagesIngested != 4 {
		t.Errorf("ingested = %d, want 4", report.MessagesIngested)
	}
}

func TestRunDaySourceUnavailableSkipsWithoutRelease(t *testing.T) {
	sched := &fixedScheduler{plan: planFor(
		&assignmentusecase.PlanEntry{Identity: "account1", Groups: []*catalogdomain.Group{
			group("g1"), group("g2"),
		}},
	)}
	src := &fakeSource{
		messages: map[string][]usecase.RawMessage{
			"g2": rawMessages("g2", 3, "hiring react developer"),
		},
		errs: map[string]error{"g1": usecase.ErrSourceUnavailable},
	}
	agg := &memAggregator{seen: map[string]bool{}}
	repo := &releaseRecorder{}

	report, err := newRunner(sched, src, agg, repo).RunDay(context.Background(), "2026-08-31")
	if err != nil {
		t.Fatalf("RunDay failed: %v", err)
	}

	if len(repo.released) != 0 {
		t.Errorf("released = %v, want none for a transient source fault", repo.released)
	}
	if len(report.Skipped) != 1 || report.Skipped[0].GroupID != "g1" {
		t.Errorf("skipped = %+v, want g1 only", report.Skipped)
	}
	if report.MessagesIngested != 3 {
		t.Errorf("ingested = %d, want 3 from the healthy group", report.MessagesIngested)
	}
}

func TestRunDaySkipsFailedPlanEntries(t *testing.T) {
	sched := &fixedScheduler{plan: planFor(
		&assignmentusecase.PlanEntry{Identity: "account1", Error: "assignment store unavailable"},
		&assignmentusecase.PlanEntry{Identity: "account2", Groups: []*catalogdomain.Group{group("g1")}},
	)}
	src := &fakeSource{messages: map[string][]usecase.RawMessage{
		"g1": rawMessages("g1", 2, "hiring devops engineer"),
	}}
	agg := &memAggregator{seen: map[string]bool{}}
	repo := &releaseRecorder{}

	report, err := newRunner(sched, src, agg, repo).RunDay(context.Background(), "2026-08-31")
	if err != nil {
		t.Fatalf("RunDay failed: %v", err)
	}
	if report.MessagesIngested != 2 {
		t.Errorf("ingested = %d, want 2 (only the healthy identity ran)", report.MessagesIngested)
	}
	if len(report.Plan) != 2 {
		t.Errorf("plan entries = %d, want 2 (failed entry stays on the report)", len(report.Plan))
	}
}
