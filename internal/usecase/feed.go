package usecase

import (
	"context"
	"time"
)

// MatchFeedProvider is the contract a remote score feed must satisfy.
// Implementations return already-normalized records grouped by league.
type MatchFeedProvider interface {
	// MatchesForDate fetches the feed schedule for the calendar day
	// containing date.
	MatchesForDate(ctx context.Context, date time.Time) ([]TournamentGroup, error)
	// LiveMatches fetches whatever the feed currently reports as in
	// play. Implementations may return an empty slice when the feed is
	// unreachable.
	LiveMatches(ctx context.Context) ([]TournamentGroup, error)
}

// FeedLeague is a competition as the feed describes it.
type FeedLeague struct {
	ID      string
	Name    string
	Country string
	LogoURL string
	URL     string
}

// TournamentGroup bundles the matches a feed returned for one league.
type TournamentGroup struct {
	League  FeedLeague
	Matches []FeedMatch
}

// FeedTeam carries the feed's view of one side of a fixture.
type FeedTeam struct {
	ExternalID string
	Name       string
	Short      string
	LogoURL    string
}

// FeedMatch is a normalized feed record. Score pointers are nil when
// the feed omitted them, which is routine for matches that have not
// kicked off.
type FeedMatch struct {
	ExternalID          string
	HomeTeam            FeedTeam
	AwayTeam            FeedTeam
	HomeScore           *int
	AwayScore           *int
	HomeHalfScore       *int
	AwayHalfScore       *int
	HomeSecondHalfScore *int
	AwaySecondHalfScore *int
	Status              string
	Minute              *int
	Competition         string
	// StartTime is the local kickoff clock in "15:04" form, or empty
	// when the feed record carried no timestamp.
	StartTime string
	Country   string
}
