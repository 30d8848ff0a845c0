package usecase

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/sourcegraph/conc"

	"github.com/footpanel/matchsync/internal/domain/match"
	"github.com/footpanel/matchsync/internal/domain/team"
	"github.com/footpanel/matchsync/internal/platform/logging"
)

// MatchViewService assembles the combined store-plus-feed view that
// readers see for a day.
type MatchViewService struct {
	provider  MatchFeedProvider
	matchRepo match.Repository
	logger    *logging.Logger
}

func NewMatchViewService(provider MatchFeedProvider, matchRepo match.Repository, logger *logging.Logger) *MatchViewService {
	if logger == nil {
		logger = logging.Default()
	}

	return &MatchViewService{
		provider:  provider,
		matchRepo: matchRepo,
		logger:    logger,
	}
}

// ViewForDay merges stored matches with the feed's schedule for the
// day. Stored rows always win: a feed record whose home side already
// appears in the store on that day is suppressed. A feed outage
// degrades the view to store-only; a store outage fails the call.
func (s *MatchViewService) ViewForDay(ctx context.Context, date time.Time) ([]match.Match, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchViewService.ViewForDay")
	defer span.End()

	if s.matchRepo == nil {
		return nil, fmt.Errorf("%w: match view is not fully configured", ErrDependencyUnavailable)
	}

	dayStart, dayEnd := match.DayWindow(date)

	var (
		stored   []match.Match
		storeErr error
		groups   []TournamentGroup
		feedErr  error
	)
	var wg conc.WaitGroup
	wg.Go(func() {
		stored, storeErr = s.matchRepo.List(ctx)
	})
	if s.provider != nil {
		wg.Go(func() {
			groups, feedErr = s.provider.MatchesForDate(ctx, dayStart)
		})
	}
	wg.Wait()

	if storeErr != nil {
		return nil, fmt.Errorf("list stored matches: %w", storeErr)
	}
	if feedErr != nil {
		s.logger.WarnContext(ctx,
			"feed unavailable, serving stored matches only",
			"date", dayStart.Format("2006-01-02"),
			"error", feedErr,
		)
		groups = nil
	}

	suppressed := make(map[string]struct{})
	view := make([]match.Match, 0, len(stored))
	for _, m := range stored {
		if m.StartTime.Before(dayStart) || !m.StartTime.Before(dayEnd) {
			continue
		}
		m.Origin = match.OriginStore
		view = append(view, m)
		suppressed[match.DedupKey(m.HomeTeam.Name, dayStart)] = struct{}{}
	}

	for _, group := range groups {
		for _, fm := range group.Matches {
			if _, dup := suppressed[match.DedupKey(fm.HomeTeam.Name, dayStart)]; dup {
				continue
			}
			view = append(view, feedMatchToView(dayStart, group.League, fm))
		}
	}

	sort.SliceStable(view, func(i, j int) bool {
		return view[i].StartTime.Before(view[j].StartTime)
	})

	return view, nil
}

// ListLive returns the feed's in-play matches as-is. Live records are
// ephemeral and never merged against the store.
func (s *MatchViewService) ListLive(ctx context.Context) ([]TournamentGroup, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchViewService.ListLive")
	defer span.End()

	if s.provider == nil {
		return nil, fmt.Errorf("%w: live feed is not configured", ErrDependencyUnavailable)
	}

	groups, err := s.provider.LiveMatches(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch live matches: %w", err)
	}

	return groups, nil
}

func feedMatchToView(dayStart time.Time, league FeedLeague, fm FeedMatch) match.Match {
	competition := fm.Competition
	if competition == "" {
		competition = league.Name
	}

	status := match.Status(fm.Status)
	if _, ok := match.AllStatuses[status]; !ok {
		status = match.StatusUpcoming
	}

	return match.Match{
		ID:          "feed-" + fm.ExternalID,
		HomeTeam:    feedTeamToView(fm.HomeTeam),
		AwayTeam:    feedTeamToView(fm.AwayTeam),
		HomeScore:   scoreOrZero(fm.HomeScore),
		AwayScore:   scoreOrZero(fm.AwayScore),
		Status:      status,
		Minute:      fm.Minute,
		Competition: competition,
		StartTime:   kickoffTime(dayStart, fm.StartTime),
		Origin:      match.OriginFeed,
	}
}

func feedTeamToView(ft FeedTeam) team.Team {
	return team.Team{
		ID:      "feed-" + ft.ExternalID,
		Name:    ft.Name,
		Short:   ft.Short,
		LogoURL: ft.LogoURL,
	}
}
