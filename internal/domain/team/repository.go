package team

import "context"

// Repository describes team persistence needs from use cases.
type Repository interface {
	List(ctx context.Context) ([]Team, error)
	// GetByName matches on the exact stored name. The second return
	// reports whether a team was found.
	GetByName(ctx context.Context, name string) (Team, bool, error)
	Insert(ctx context.Context, t Team) error
}
