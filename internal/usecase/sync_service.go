package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/footpanel/matchsync/internal/domain/match"
	"github.com/footpanel/matchsync/internal/domain/team"
	"github.com/footpanel/matchsync/internal/platform/id"
	"github.com/footpanel/matchsync/internal/platform/logging"
)

const kickoffClockLayout = "15:04"

// MatchIdentityResolver locates the stored match a feed record refers
// to. Implementations choose what "the same fixture" means.
type MatchIdentityResolver interface {
	Resolve(ctx context.Context, repo match.Repository, homeTeamID, awayTeamID string, dayStart time.Time) (match.Match, bool, error)
}

// CompositeDayIdentity treats the (home team, away team, calendar day)
// triple as the fixture identity. When several stored rows share the
// triple it picks the earliest-created one and flags the ambiguity.
type CompositeDayIdentity struct {
	logger *logging.Logger
}

func NewCompositeDayIdentity(logger *logging.Logger) *CompositeDayIdentity {
	if logger == nil {
		logger = logging.Default()
	}

	return &CompositeDayIdentity{logger: logger}
}

func (r *CompositeDayIdentity) Resolve(ctx context.Context, repo match.Repository, homeTeamID, awayTeamID string, dayStart time.Time) (match.Match, bool, error) {
	rows, err := repo.ListByTeamsOnDay(ctx, homeTeamID, awayTeamID, dayStart)
	if err != nil {
		return match.Match{}, false, fmt.Errorf("list matches by teams on day: %w", err)
	}
	if len(rows) == 0 {
		return match.Match{}, false, nil
	}
	if len(rows) > 1 {
		r.logger.WarnContext(ctx,
			"multiple stored matches share one fixture identity, updating the first",
			"home_team_id", homeTeamID,
			"away_team_id", awayTeamID,
			"day", dayStart.Format("2006-01-02"),
			"count", len(rows),
		)
	}

	return rows[0], true, nil
}

// SyncResult summarizes one reconciliation pass.
type SyncResult struct {
	Synced  int
	Skipped int
}

// MatchSyncService pulls feed records for a day and reconciles them
// into the local store.
type MatchSyncService struct {
	provider  MatchFeedProvider
	teamRepo  team.Repository
	matchRepo match.Repository
	identity  MatchIdentityResolver
	ids       id.Generator
	logger    *logging.Logger

	maxWorkers int

	mu       sync.Mutex
	dayLocks map[string]*sync.Mutex
}

// SetMaxWorkers sets the worker count SyncRange falls back to when the
// caller does not pick one.
func (s *MatchSyncService) SetMaxWorkers(n int) {
	s.maxWorkers = n
}

func NewMatchSyncService(
	provider MatchFeedProvider,
	teamRepo team.Repository,
	matchRepo match.Repository,
	identity MatchIdentityResolver,
	ids id.Generator,
	logger *logging.Logger,
) *MatchSyncService {
	if logger == nil {
		logger = logging.Default()
	}
	if identity == nil {
		identity = NewCompositeDayIdentity(logger)
	}
	if ids == nil {
		ids = id.NewRandomGenerator()
	}

	return &MatchSyncService{
		provider:  provider,
		teamRepo:  teamRepo,
		matchRepo: matchRepo,
		identity:  identity,
		ids:       ids,
		logger:    logger,
		dayLocks:  map[string]*sync.Mutex{},
	}
}

// SyncDay reconciles the feed's view of one calendar day into the
// store. A feed failure aborts the pass; a failure on one record skips
// that record and continues with the rest. Passes for the same day are
// serialized so concurrent triggers cannot double-insert a fixture.
func (s *MatchSyncService) SyncDay(ctx context.Context, date time.Time) (SyncResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchSyncService.SyncDay")
	defer span.End()

	if s.provider == nil || s.teamRepo == nil || s.matchRepo == nil {
		return SyncResult{}, fmt.Errorf("%w: match sync is not fully configured", ErrDependencyUnavailable)
	}

	dayStart := match.DayStart(date)
	dayLock := s.lockForDay(dayStart)
	dayLock.Lock()
	defer dayLock.Unlock()

	groups, err := s.provider.MatchesForDate(ctx, dayStart)
	if err != nil {
		return SyncResult{}, fmt.Errorf("fetch feed matches date=%s: %w", dayStart.Format("2006-01-02"), err)
	}

	var result SyncResult
	for _, group := range groups {
		for _, fm := range group.Matches {
			if err := s.syncOne(ctx, dayStart, group.League, fm); err != nil {
				result.Skipped++
				s.logger.WarnContext(ctx,
					"skip feed match",
					"feed_match_id", fm.ExternalID,
					"home_team", fm.HomeTeam.Name,
					"away_team", fm.AwayTeam.Name,
					"error", err,
				)
				continue
			}
			result.Synced++
		}
	}

	s.logger.InfoContext(ctx,
		"match sync finished",
		"date", dayStart.Format("2006-01-02"),
		"synced", result.Synced,
		"skipped", result.Skipped,
	)

	return result, nil
}

// SyncRange runs SyncDay for every day in [from, to] on a bounded
// worker pool. Per-day results are collected, per-day failures are
// logged and folded into the aggregate skip count.
func (s *MatchSyncService) SyncRange(ctx context.Context, from, to time.Time, maxWorkers int) (SyncResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchSyncService.SyncRange")
	defer span.End()

	start := match.DayStart(from)
	end := match.DayStart(to)
	if end.Before(start) {
		return SyncResult{}, fmt.Errorf("%w: sync range end is before start", ErrInvalidInput)
	}
	if maxWorkers <= 0 {
		maxWorkers = s.maxWorkers
	}
	if maxWorkers <= 0 {
		maxWorkers = 4
	}

	pool, err := ants.NewPool(maxWorkers)
	if err != nil {
		return SyncResult{}, fmt.Errorf("create sync worker pool: %w", err)
	}
	defer pool.Release()

	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		total  SyncResult
		failed int
	)
	for day := start; !day.After(end); day = day.Add(24 * time.Hour) {
		day := day
		wg.Add(1)
		submitErr := pool.Submit(func() {
			defer wg.Done()

			res, err := s.SyncDay(ctx, day)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				failed++
				s.logger.WarnContext(ctx, "sync day failed", "date", day.Format("2006-01-02"), "error", err)
				return
			}
			total.Synced += res.Synced
			total.Skipped += res.Skipped
		})
		if submitErr != nil {
			wg.Done()
			mu.Lock()
			failed++
			mu.Unlock()
		}
	}
	wg.Wait()

	if failed > 0 {
		return total, fmt.Errorf("%w: %d day(s) failed to sync", ErrDependencyUnavailable, failed)
	}

	return total, nil
}

func (s *MatchSyncService) syncOne(ctx context.Context, dayStart time.Time, league FeedLeague, fm FeedMatch) error {
	if fm.HomeTeam.Name == "" || fm.AwayTeam.Name == "" {
		return fmt.Errorf("%w: feed match is missing a team name", ErrInvalidInput)
	}

	home, err := s.ensureTeam(ctx, fm.HomeTeam)
	if err != nil {
		return fmt.Errorf("ensure home team %q: %w", fm.HomeTeam.Name, err)
	}
	away, err := s.ensureTeam(ctx, fm.AwayTeam)
	if err != nil {
		return fmt.Errorf("ensure away team %q: %w", fm.AwayTeam.Name, err)
	}

	status := match.Status(fm.Status)
	if _, ok := match.AllStatuses[status]; !ok {
		return fmt.Errorf("%w: unknown feed status %q", ErrInvalidInput, fm.Status)
	}

	competition := fm.Competition
	if competition == "" {
		competition = league.Name
	}

	existing, found, err := s.identity.Resolve(ctx, s.matchRepo, home.ID, away.ID, dayStart)
	if err != nil {
		return err
	}

	if found {
		existing.HomeScore = scoreOrZero(fm.HomeScore)
		existing.AwayScore = scoreOrZero(fm.AwayScore)
		existing.Status = status
		existing.Minute = fm.Minute
		existing.Competition = competition
		existing.StartTime = kickoffTime(dayStart, fm.StartTime)
		// Stream URLs and venues are operator-entered and have no feed
		// counterpart, so updates leave them alone.
		if err := s.matchRepo.Update(ctx, existing); err != nil {
			return fmt.Errorf("update match id=%s: %w", existing.ID, err)
		}
		return nil
	}

	matchID, err := s.ids.NewID()
	if err != nil {
		return fmt.Errorf("generate match id: %w", err)
	}

	created := match.Match{
		ID:          matchID,
		HomeTeam:    home,
		AwayTeam:    away,
		HomeScore:   scoreOrZero(fm.HomeScore),
		AwayScore:   scoreOrZero(fm.AwayScore),
		Status:      status,
		Minute:      fm.Minute,
		Competition: competition,
		StartTime:   kickoffTime(dayStart, fm.StartTime),
		Origin:      match.OriginStore,
	}
	if err := created.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if err := s.matchRepo.Insert(ctx, created); err != nil {
		return fmt.Errorf("insert match id=%s: %w", created.ID, err)
	}

	return nil
}

// ensureTeam looks a team up by its exact feed name, creating it on
// first sight. Existing rows are never touched, so a stored logo
// survives feed churn.
func (s *MatchSyncService) ensureTeam(ctx context.Context, ft FeedTeam) (team.Team, error) {
	found, ok, err := s.teamRepo.GetByName(ctx, ft.Name)
	if err != nil {
		return team.Team{}, fmt.Errorf("get team by name: %w", err)
	}
	if ok {
		return found, nil
	}

	teamID, err := s.ids.NewID()
	if err != nil {
		return team.Team{}, fmt.Errorf("generate team id: %w", err)
	}

	created := team.Team{
		ID:      teamID,
		Name:    ft.Name,
		Short:   ft.Short,
		LogoURL: ft.LogoURL,
	}
	if err := created.Validate(); err != nil {
		return team.Team{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if err := s.teamRepo.Insert(ctx, created); err != nil {
		return team.Team{}, fmt.Errorf("insert team name=%q: %w", ft.Name, err)
	}

	return created, nil
}

func (s *MatchSyncService) lockForDay(dayStart time.Time) *sync.Mutex {
	key := dayStart.Format("2006-01-02")

	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.dayLocks[key]
	if !ok {
		lock = &sync.Mutex{}
		s.dayLocks[key] = lock
	}

	return lock
}

// kickoffTime combines the requested day with the feed's wall-clock
// kickoff. A missing or malformed clock falls back to midnight so the
// record stays on the day it was fetched for.
func kickoffTime(dayStart time.Time, clock string) time.Time {
	if clock == "" {
		return dayStart
	}
	parsed, err := time.Parse(kickoffClockLayout, clock)
	if err != nil {
		return dayStart
	}

	return dayStart.Add(time.Duration(parsed.Hour())*time.Hour + time.Duration(parsed.Minute())*time.Minute)
}

func scoreOrZero(score *int) int {
	if score == nil {
		return 0
	}

	return *score
}
