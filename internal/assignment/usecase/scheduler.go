package usecase

import (
	"context"
	"errors"

	catalogdomain "jobradar-backend/internal/catalog/domain"
	catalogusecase "jobradar-backend/internal/catalog/usecase"
	"jobradar-backend/internal/assignment/domain"
	"jobradar-backend/internal/assignment/repository"
	"jobradar-backend/pkg/config"

	"go.uber.org/zap"
)

// PlanEntry is one identity's allocation for the day
type PlanEntry struct {
	Identity      string                  `json:"identity"`
	Groups        []*catalogdomain.Group  `json:"groups"`
	NewlyAssigned int                     `json:"newly_assigned"`
	// Shortfall counts how far the identity fell short of its daily limit
	// because the catalog ran out of unassigned groups. A partial fill is
	// reported, never raised as an error.
	Shortfall int `json:"shortfall"`
	// Error is set when allocation for this identity was halted by a store
	// fault. Other identities are unaffected.
	Error string `json:"error,omitempty"`
}

// DayPlan is the full allocation produced for one calendar date
type DayPlan struct {
	Date    string       `json:"date"`
	Entries []*PlanEntry `json:"entries"`
}

// Scheduler computes each identity's group set for a day
type Scheduler interface {
	// PlanDay allocates up to the daily limit of groups to every configured
	// identity for the given date (YYYY-MM-DD). Identities are processed in
	// configured order so contention for scarce high-priority groups
	// resolves deterministically.
	PlanDay(ctx context.Context, date string) (*DayPlan, error)
}

type scheduler struct {
	catalog        catalogusecase.Catalog
	assignmentRepo repository.AssignmentRepository
	identities     []string
	dailyLimit     int
	mode           config.AssignmentMode
	log            *zap.SugaredLogger
}

// NewScheduler creates the assignment scheduler. identities must be in the
// configured allocation order.
func NewScheduler(
	catalog catalogusecase.Catalog,
	assignmentRepo repository.AssignmentRepository,
	identities []string,
	dailyLimit int,
	mode config.AssignmentMode,
	log *zap.SugaredLogger,
) Scheduler {
	if dailyLimit <= 0 {
		dailyLimit = 10
	}
	return &scheduler{
		catalog:        catalog,
		assignmentRepo: assignmentRepo,
		identities:     identities,
		dailyLimit:     dailyLimit,
		mode:           mode,
		log:            log.Named("scheduler"),
	}
}

func (s *scheduler) PlanDay(ctx context.Context, date string) (*DayPlan, error) {
	groups, err := s.catalog.ListAvailable(ctx)
	if err != nil {
		// No catalog, nothing to allocate for anyone
		return nil, err
	}
	groupsByID := make(map[string]*catalogdomain.Group, len(groups))
	for _, g := range groups {
		groupsByID[g.ID] = g
	}

	assigned, err := s.assignmentRepo.AllAssignedGroupIDs(ctx)
	if err != nil {
		// A full-store fault is run-fatal; per-identity faults below are not
		return nil, err
	}

	plan := &DayPlan{Date: date}
	for _, identity := range s.identities {
		entry := s.planIdentity(ctx, identity, date, groups, groupsByID, assigned)
		plan.Entries = append(plan.Entries, entry)
	}
	return plan, nil
}

func (s *scheduler) planIdentity(
	ctx context.Context,
	identity, date string,
	catalog []*catalogdomain.Group,
	groupsByID map[string]*catalogdomain.Group,
	assigned map[string]struct{},
) *PlanEntry {
	entry := &PlanEntry{Identity: identity}

	current, err := s.assignmentRepo.CurrentAssignments(ctx, identity)
	if err != nil {
		s.log.Errorw("halting allocation for identity", "identity", identity, "error", err)
		entry.Error = err.Error()
		return entry
	}

	held := make(map[string]struct{})
	for _, a := range current {
		if s.mode == config.ModeDaily && a.AssignedOn != date {
			// Daily mode scopes assignments to their calendar date; stale
			// ones are released so other identities can pick the group up.
			releaseErr := s.assignmentRepo.Release(ctx, identity, a.GroupID, domain.StatusInactive, "daily assignment expired")
			if releaseErr != nil {
				s.log.Errorw("halting allocation for identity", "identity", identity, "error", releaseErr)
				entry.Error = releaseErr.Error()
				return entry
			}
			delete(assigned, a.GroupID)
			continue
		}
		held[a.GroupID] = struct{}{}
		if g, ok := groupsByID[a.GroupID]; ok {
			entry.Groups = append(entry.Groups, g)
		}
	}

	// Top up the gap from unassigned catalog entries, priority tier first,
	// catalog insertion order as the tiebreaker
	for _, g := range catalog {
		if len(entry.Groups) >= s.dailyLimit {
			break
		}
		if _, ok := held[g.ID]; ok {
			continue
		}
		if _, ok := assigned[g.ID]; ok {
			continue
		}

		_, err := s.assignmentRepo.Assign(ctx, identity, g.ID, "daily allocation")
		if errors.Is(err, repository.ErrAlreadyAssigned) {
			// Lost the race for this group; take the next candidate
			assigned[g.ID] = struct{}{}
			continue
		}
		if err != nil {
			s.log.Errorw("halting allocation for identity", "identity", identity, "error", err)
			entry.Error = err.Error()
			return entry
		}

		assigned[g.ID] = struct{}{}
		entry.Groups = append(entry.Groups, g)
		entry.NewlyAssigned++
	}

	if len(entry.Groups) < s.dailyLimit {
		entry.Shortfall = s.dailyLimit - len(entry.Groups)
		s.log.Infow("partial fill for identity",
			"identity", identity, "assigned", len(entry.Groups), "shortfall", entry.Shortfall)
	}
	return entry
}
