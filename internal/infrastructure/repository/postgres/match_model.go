package postgres

import (
	"database/sql"
	"time"
)

// matchJoinedModel flattens a match row joined against both team rows.
type matchJoinedModel struct {
	ID          int64         `db:"id"`
	PublicID    string        `db:"public_id"`
	HomeTeamID  string        `db:"home_team_public_id"`
	AwayTeamID  string        `db:"away_team_public_id"`
	HomeScore   int           `db:"home_score"`
	AwayScore   int           `db:"away_score"`
	Status      string        `db:"status"`
	Minute      sql.NullInt64 `db:"minute"`
	Competition string        `db:"competition"`
	StartTime   time.Time     `db:"start_time"`
	StreamURL   string        `db:"stream_url"`
	Venue       string        `db:"venue"`
	CreatedAt   time.Time     `db:"created_at"`
	UpdatedAt   time.Time     `db:"updated_at"`

	HomeTeamName  string `db:"home_team_name"`
	HomeTeamShort string `db:"home_team_short"`
	HomeTeamLogo  string `db:"home_team_logo"`
	AwayTeamName  string `db:"away_team_name"`
	AwayTeamShort string `db:"away_team_short"`
	AwayTeamLogo  string `db:"away_team_logo"`
}

type matchInsertModel struct {
	PublicID    string        `db:"public_id"`
	HomeTeamID  string        `db:"home_team_public_id"`
	AwayTeamID  string        `db:"away_team_public_id"`
	HomeScore   int           `db:"home_score"`
	AwayScore   int           `db:"away_score"`
	Status      string        `db:"status"`
	Minute      sql.NullInt64 `db:"minute"`
	Competition string        `db:"competition"`
	StartTime   time.Time     `db:"start_time"`
	StreamURL   string        `db:"stream_url"`
	Venue       string        `db:"venue"`
}
