package usecase

import (
	"context"
	"errors"
	"sync"
	"time"

	assignmentdomain "jobradar-backend/internal/assignment/domain"
	assignmentrepo "jobradar-backend/internal/assignment/repository"
	assignmentusecase "jobradar-backend/internal/assignment/usecase"
	catalogdomain "jobradar-backend/internal/catalog/domain"
	"jobradar-backend/internal/classifier"
	messagedomain "jobradar-backend/internal/message/domain"
	reportdomain "jobradar-backend/internal/report/domain"
	statsusecase "jobradar-backend/internal/stats/usecase"

	"go.uber.org/zap"
)

// Embedder receives stored message text for semantic indexing. Optional;
// indexing failures never affect ingestion.
type Embedder interface {
	UpsertMessageEmbedding(ctx context.Context, messageID, groupID, text string) error
}

// Runner executes one full fetch-and-classify run: plan the day, then walk
// every identity's assigned groups. Identities run as parallel workers; all
// workers share the assignment store and the aggregator.
type Runner struct {
	scheduler        assignmentusecase.Scheduler
	source           MessageSource
	classifier       *classifier.Classifier
	aggregator       statsusecase.Aggregator
	assignmentRepo   assignmentrepo.AssignmentRepository
	embedder         Embedder
	messagesPerGroup int
	minJobMessages   int64
	log              *zap.SugaredLogger
}

// identityResult collects one worker's contribution to the run report
type identityResult struct {
	ingested int64
	jobs     int64
	skipped  []reportdomain.SkippedGroup
}

// NewRunner creates the ingest runner. embedder may be nil.
func NewRunner(
	scheduler assignmentusecase.Scheduler,
	source MessageSource,
	cls *classifier.Classifier,
	aggregator statsusecase.Aggregator,
	assignmentRepo assignmentrepo.AssignmentRepository,
	embedder Embedder,
	messagesPerGroup int,
	minJobMessages int,
	log *zap.SugaredLogger,
) *Runner {
	if messagesPerGroup <= 0 {
		messagesPerGroup = 100
	}
	return &Runner{
		scheduler:        scheduler,
		source:           source,
		classifier:       cls,
		aggregator:       aggregator,
		assignmentRepo:   assignmentRepo,
		embedder:         embedder,
		messagesPerGroup: messagesPerGroup,
		minJobMessages:   int64(minJobMessages),
		log:              log.Named("ingest"),
	}
}

// RunDay plans and executes the run for one calendar date. Only catalog or
// full-store faults abort the run; everything else is isolated to a single
// group or identity and annotated on the report.
func (r *Runner) RunDay(ctx context.Context, date string) (*reportdomain.DailyRunReport, error) {
	plan, err := r.scheduler.PlanDay(ctx, date)
	if err != nil {
		return nil, err
	}

	results := make([]identityResult, len(plan.Entries))
	var wg sync.WaitGroup
	for i, entry := range plan.Entries {
		if entry.Error != "" {
			continue
		}
		wg.Add(1)
		go func(slot int, entry *assignmentusecase.PlanEntry) {
			defer wg.Done()
			results[slot] = r.runIdentity(ctx, entry)
		}(i, entry)
	}
	wg.Wait()

	report := &reportdomain.DailyRunReport{
		Date:        date,
		GeneratedAt: time.Now(),
		Plan:        plan.Entries,
	}
	for _, res := range results {
		report.MessagesIngested += res.ingested
		report.JobMessages += res.jobs
		report.Skipped = append(report.Skipped, res.skipped...)
	}

	ranked, err := r.aggregator.Rank(ctx, r.minJobMessages)
	if err != nil {
		// The run itself succeeded; ship the report without a ranking
		// rather than aborting after all the ingestion work.
		r.log.Errorw("ranking failed", "error", err)
	} else {
		report.Ranked = ranked
	}
	return report, nil
}

// runIdentity walks one identity's groups sequentially. The loop is
// abortable between groups; a single group never aborts its siblings.
func (r *Runner) runIdentity(ctx context.Context, entry *assignmentusecase.PlanEntry) identityResult {
	var res identityResult
	log := r.log.With("identity", entry.Identity)

	for _, group := range entry.Groups {
		if ctx.Err() != nil {
			log.Warnw("run cancelled", "remaining_groups", len(entry.Groups))
			return res
		}

		ingested, jobs, err := r.ingestGroup(ctx, entry.Identity, group)
		res.ingested += ingested
		res.jobs += jobs
		if err == nil {
			continue
		}

		switch {
		case errors.Is(err, ErrAccessDenied):
			// The group is gone for this identity; give it back so it can
			// be offered to another identity later.
			log.Warnw("access denied, releasing group", "group", group.Name)
			releaseErr := r.assignmentRepo.Release(ctx, entry.Identity, group.ID, assignmentdomain.StatusLeft, "access denied")
			if releaseErr != nil {
				log.Errorw("release after access denial failed", "group", group.Name, "error", releaseErr)
			}
			res.skipped = append(res.skipped, reportdomain.SkippedGroup{
				Identity:  entry.Identity,
				GroupID:   group.ID,
				GroupName: group.Name,
				Reason:    "access denied, assignment released",
			})
		default:
			log.Warnw("skipping group", "group", group.Name, "error", err)
			res.skipped = append(res.skipped, reportdomain.SkippedGroup{
				Identity:  entry.Identity,
				GroupID:   group.ID,
				GroupName: group.Name,
				Reason:    err.Error(),
			})
		}
	}
	return res
}

func (r *Runner) ingestGroup(ctx context.Context, identity string, group *catalogdomain.Group) (int64, int64, error) {
	raw, err := r.source.FetchRecent(ctx, identity, group, r.messagesPerGroup)
	if err != nil {
		return 0, 0, err
	}

	var ingested, jobs int64
	for _, m := range raw {
		if m.ID == "" {
			continue
		}
		score := r.classifier.Classify(m.Text)
		msg := &messagedomain.Message{
			ID:        m.ID,
			GroupID:   group.ID,
			FetchedBy: identity,
			Sender:    m.Sender,
			Text:      m.Text,
			Timestamp: m.Timestamp,
		}
		created, err := r.aggregator.Record(ctx, msg, score)
		if err != nil {
			r.log.Errorw("storing message failed", "group", group.Name, "message_id", m.ID, "error", err)
			continue
		}
		if !created {
			// Already ingested on a previous run; counters untouched
			continue
		}
		ingested++
		if score.IsJobPost {
			jobs++
		}
		if r.embedder != nil {
			if err := r.embedder.UpsertMessageEmbedding(ctx, msg.ID, group.ID, m.Text); err != nil {
				r.log.Debugw("embedding upsert failed", "message_id", m.ID, "error", err)
			}
		}
	}
	return ingested, jobs, nil
}
