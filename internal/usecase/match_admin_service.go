package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/footpanel/matchsync/internal/domain/match"
	"github.com/footpanel/matchsync/internal/domain/team"
	"github.com/footpanel/matchsync/internal/platform/id"
	"github.com/footpanel/matchsync/internal/platform/logging"
)

// CreateMatchInput is an operator-entered fixture. Teams are named,
// not referenced, and are created on first use just like feed teams.
type CreateMatchInput struct {
	HomeTeamName string
	AwayTeamName string
	HomeScore    int
	AwayScore    int
	Status       match.Status
	Minute       *int
	Competition  string
	StartTime    time.Time
	StreamURL    string
	Venue        string
}

// UpdateMatchInput mutates a stored fixture. Nil fields are left
// unchanged.
type UpdateMatchInput struct {
	HomeScore   *int
	AwayScore   *int
	Status      *match.Status
	Minute      *int
	ClearMinute bool
	Competition *string
	StartTime   *time.Time
	StreamURL   *string
	Venue       *string
}

// MatchAdminService covers the operator-facing mutations that bypass
// the feed entirely.
type MatchAdminService struct {
	teamRepo  team.Repository
	matchRepo match.Repository
	ids       id.Generator
	logger    *logging.Logger
}

func NewMatchAdminService(teamRepo team.Repository, matchRepo match.Repository, ids id.Generator, logger *logging.Logger) *MatchAdminService {
	if logger == nil {
		logger = logging.Default()
	}
	if ids == nil {
		ids = id.NewRandomGenerator()
	}

	return &MatchAdminService{
		teamRepo:  teamRepo,
		matchRepo: matchRepo,
		ids:       ids,
		logger:    logger,
	}
}

func (s *MatchAdminService) CreateMatch(ctx context.Context, in CreateMatchInput) (match.Match, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchAdminService.CreateMatch")
	defer span.End()

	if in.HomeTeamName == "" || in.AwayTeamName == "" {
		return match.Match{}, fmt.Errorf("%w: both team names are required", ErrInvalidInput)
	}
	if in.Status == "" {
		in.Status = match.StatusUpcoming
	}

	home, err := s.ensureTeamByName(ctx, in.HomeTeamName)
	if err != nil {
		return match.Match{}, err
	}
	away, err := s.ensureTeamByName(ctx, in.AwayTeamName)
	if err != nil {
		return match.Match{}, err
	}

	matchID, err := s.ids.NewID()
	if err != nil {
		return match.Match{}, fmt.Errorf("generate match id: %w", err)
	}

	created := match.Match{
		ID:          matchID,
		HomeTeam:    home,
		AwayTeam:    away,
		HomeScore:   in.HomeScore,
		AwayScore:   in.AwayScore,
		Status:      in.Status,
		Minute:      in.Minute,
		Competition: in.Competition,
		StartTime:   in.StartTime,
		StreamURL:   in.StreamURL,
		Venue:       in.Venue,
		Origin:      match.OriginStore,
	}
	if err := created.Validate(); err != nil {
		return match.Match{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if err := s.matchRepo.Insert(ctx, created); err != nil {
		return match.Match{}, fmt.Errorf("insert match: %w", err)
	}

	s.logger.InfoContext(ctx, "match created", "match_id", created.ID, "home_team", home.Name, "away_team", away.Name)

	return created, nil
}

func (s *MatchAdminService) UpdateMatch(ctx context.Context, matchID string, in UpdateMatchInput) (match.Match, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchAdminService.UpdateMatch")
	defer span.End()

	existing, found, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		return match.Match{}, fmt.Errorf("get match id=%s: %w", matchID, err)
	}
	if !found {
		return match.Match{}, fmt.Errorf("%w: match id=%s", ErrNotFound, matchID)
	}

	if in.HomeScore != nil {
		existing.HomeScore = *in.HomeScore
	}
	if in.AwayScore != nil {
		existing.AwayScore = *in.AwayScore
	}
	if in.Status != nil {
		existing.Status = *in.Status
	}
	if in.ClearMinute {
		existing.Minute = nil
	} else if in.Minute != nil {
		existing.Minute = in.Minute
	}
	if in.Competition != nil {
		existing.Competition = *in.Competition
	}
	if in.StartTime != nil {
		existing.StartTime = *in.StartTime
	}
	if in.StreamURL != nil {
		existing.StreamURL = *in.StreamURL
	}
	if in.Venue != nil {
		existing.Venue = *in.Venue
	}

	if err := existing.Validate(); err != nil {
		return match.Match{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if err := s.matchRepo.Update(ctx, existing); err != nil {
		return match.Match{}, fmt.Errorf("update match id=%s: %w", matchID, err)
	}

	return existing, nil
}

func (s *MatchAdminService) DeleteMatch(ctx context.Context, matchID string) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchAdminService.DeleteMatch")
	defer span.End()

	_, found, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		return fmt.Errorf("get match id=%s: %w", matchID, err)
	}
	if !found {
		return fmt.Errorf("%w: match id=%s", ErrNotFound, matchID)
	}
	if err := s.matchRepo.Delete(ctx, matchID); err != nil {
		return fmt.Errorf("delete match id=%s: %w", matchID, err)
	}

	s.logger.InfoContext(ctx, "match deleted", "match_id", matchID)

	return nil
}

func (s *MatchAdminService) ListTeams(ctx context.Context) ([]team.Team, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchAdminService.ListTeams")
	defer span.End()

	teams, err := s.teamRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list teams: %w", err)
	}

	return teams, nil
}

func (s *MatchAdminService) ensureTeamByName(ctx context.Context, name string) (team.Team, error) {
	found, ok, err := s.teamRepo.GetByName(ctx, name)
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

	created := team.Team{ID: teamID, Name: name}
	if err := s.teamRepo.Insert(ctx, created); err != nil {
		return team.Team{}, fmt.Errorf("insert team name=%q: %w", name, err)
	}

	return created, nil
}
