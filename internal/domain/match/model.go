package match

import (
	"fmt"
	"time"

	"github.com/footpanel/matchsync/internal/domain/team"
)

// Status is the internal state of a match. Feed stage strings collapse
// into these three values during normalization.
type Status string

const (
	StatusUpcoming Status = "upcoming"
	StatusLive     Status = "live"
	StatusFinished Status = "finished"
)

var AllStatuses = map[Status]struct{}{
	StatusUpcoming: {},
	StatusLive:     {},
	StatusFinished: {},
}

// Origin reports where a match record came from when store and feed
// views are merged for display.
type Origin string

const (
	OriginStore Origin = "store"
	OriginFeed  Origin = "feed"
)

// Match is a single fixture between two teams.
type Match struct {
	ID          string
	HomeTeam    team.Team
	AwayTeam    team.Team
	HomeScore   int
	AwayScore   int
	Status      Status
	Minute      *int
	Competition string
	StartTime   time.Time
	StreamURL   string
	Venue       string
	Origin      Origin
}

func (m Match) Validate() error {
	if m.ID == "" {
		return fmt.Errorf("match id is required")
	}
	if m.HomeTeam.ID == "" {
		return fmt.Errorf("match home team is required")
	}
	if m.AwayTeam.ID == "" {
		return fmt.Errorf("match away team is required")
	}
	if _, ok := AllStatuses[m.Status]; !ok {
		return fmt.Errorf("invalid match status: %s", m.Status)
	}
	if m.StartTime.IsZero() {
		return fmt.Errorf("match start time is required")
	}

	return nil
}
