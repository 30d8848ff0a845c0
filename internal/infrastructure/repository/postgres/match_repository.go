package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/footpanel/matchsync/internal/domain/match"
	"github.com/footpanel/matchsync/internal/domain/team"
	qb "github.com/footpanel/matchsync/internal/platform/querybuilder"
)

const matchesJoined = "matches m JOIN teams h ON h.public_id = m.home_team_public_id JOIN teams a ON a.public_id = m.away_team_public_id"

var matchJoinedColumns = []string{
	"m.id", "m.public_id", "m.home_team_public_id", "m.away_team_public_id",
	"m.home_score", "m.away_score", "m.status", "m.minute", "m.competition",
	"m.start_time", "m.stream_url", "m.venue", "m.created_at", "m.updated_at",
	"h.name AS home_team_name", "h.short AS home_team_short", "h.logo_url AS home_team_logo",
	"a.name AS away_team_name", "a.short AS away_team_short", "a.logo_url AS away_team_logo",
}

type MatchRepository struct {
	db *sqlx.DB
}

func NewMatchRepository(db *sqlx.DB) *MatchRepository {
	return &MatchRepository{db: db}
}

func (r *MatchRepository) List(ctx context.Context) ([]match.Match, error) {
	query, args, err := qb.Select(matchJoinedColumns...).From(matchesJoined).
		OrderBy("m.start_time", "m.id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select matches query: %w", err)
	}

	var rows []matchJoinedModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select matches: %w", err)
	}

	out := make([]match.Match, 0, len(rows))
	for _, row := range rows {
		out = append(out, matchFromRow(row))
	}

	return out, nil
}

func (r *MatchRepository) GetByID(ctx context.Context, id string) (match.Match, bool, error) {
	query, args, err := qb.Select(matchJoinedColumns...).From(matchesJoined).
		Where(qb.Eq("m.public_id", id)).
		Limit(1).
		ToSQL()
	if err != nil {
		return match.Match{}, false, fmt.Errorf("build select match by id query: %w", err)
	}

	var row matchJoinedModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return match.Match{}, false, nil
		}
		return match.Match{}, false, fmt.Errorf("select match by id: %w", err)
	}

	return matchFromRow(row), true, nil
}

func (r *MatchRepository) ListByTeamsOnDay(ctx context.Context, homeTeamID, awayTeamID string, dayStart time.Time) ([]match.Match, error) {
	query, args, err := qb.Select(matchJoinedColumns...).From(matchesJoined).
		Where(
			qb.Eq("m.home_team_public_id", homeTeamID),
			qb.Eq("m.away_team_public_id", awayTeamID),
			qb.Gte("m.start_time", dayStart),
			qb.Lt("m.start_time", dayStart.Add(24*time.Hour)),
		).
		OrderBy("m.id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select matches by teams on day query: %w", err)
	}

	var rows []matchJoinedModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select matches by teams on day: %w", err)
	}

	out := make([]match.Match, 0, len(rows))
	for _, row := range rows {
		out = append(out, matchFromRow(row))
	}

	return out, nil
}

func (r *MatchRepository) Insert(ctx context.Context, m match.Match) error {
	model := matchInsertModel{
		PublicID:    m.ID,
		HomeTeamID:  m.HomeTeam.ID,
		AwayTeamID:  m.AwayTeam.ID,
		HomeScore:   m.HomeScore,
		AwayScore:   m.AwayScore,
		Status:      string(m.Status),
		Minute:      nullableInt(m.Minute),
		Competition: m.Competition,
		StartTime:   m.StartTime,
		StreamURL:   m.StreamURL,
		Venue:       m.Venue,
	}

	query, args, err := qb.InsertModel("matches", model, "")
	if err != nil {
		return fmt.Errorf("build insert match query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert match: %w", err)
	}

	return nil
}

func (r *MatchRepository) Update(ctx context.Context, m match.Match) error {
	query, args, err := qb.Update("matches").
		Set("home_team_public_id", m.HomeTeam.ID).
		Set("away_team_public_id", m.AwayTeam.ID).
		Set("home_score", m.HomeScore).
		Set("away_score", m.AwayScore).
		Set("status", string(m.Status)).
		Set("minute", nullableInt(m.Minute)).
		Set("competition", m.Competition).
		Set("start_time", m.StartTime).
		Set("stream_url", m.StreamURL).
		Set("venue", m.Venue).
		SetExpr("updated_at", "NOW()").
		Where(qb.Eq("public_id", m.ID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update match query: %w", err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update match: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("read update match result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("match %s not found", m.ID)
	}

	return nil
}

func (r *MatchRepository) Delete(ctx context.Context, id string) error {
	query, args, err := qb.DeleteFrom("matches").Where(qb.Eq("public_id", id)).ToSQL()
	if err != nil {
		return fmt.Errorf("build delete match query: %w", err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("delete match: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("read delete match result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("match %s not found", id)
	}

	return nil
}

func matchFromRow(row matchJoinedModel) match.Match {
	return match.Match{
		ID: row.PublicID,
		HomeTeam: team.Team{
			ID:      row.HomeTeamID,
			Name:    row.HomeTeamName,
			Short:   row.HomeTeamShort,
			LogoURL: row.HomeTeamLogo,
		},
		AwayTeam: team.Team{
			ID:      row.AwayTeamID,
			Name:    row.AwayTeamName,
			Short:   row.AwayTeamShort,
			LogoURL: row.AwayTeamLogo,
		},
		HomeScore:   row.HomeScore,
		AwayScore:   row.AwayScore,
		Status:      match.Status(row.Status),
		Minute:      intPointer(row.Minute),
		Competition: row.Competition,
		StartTime:   row.StartTime,
		StreamURL:   row.StreamURL,
		Venue:       row.Venue,
		Origin:      match.OriginStore,
	}
}
