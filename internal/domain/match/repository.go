package match

import (
	"context"
	"time"
)

// Repository describes match persistence needs from use cases.
type Repository interface {
	List(ctx context.Context) ([]Match, error)
	GetByID(ctx context.Context, id string) (Match, bool, error)
	// ListByTeamsOnDay returns matches between the given teams whose
	// start time falls inside [dayStart, dayStart+24h).
	ListByTeamsOnDay(ctx context.Context, homeTeamID, awayTeamID string, dayStart time.Time) ([]Match, error)
	Insert(ctx context.Context, m Match) error
	Update(ctx context.Context, m Match) error
	Delete(ctx context.Context, id string) error
}
