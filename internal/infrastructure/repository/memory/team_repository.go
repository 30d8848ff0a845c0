package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/footpanel/matchsync/internal/domain/team"
)

// TeamRepository keeps teams in process memory. It backs local
// development and tests where no database is wired up.
type TeamRepository struct {
	mu    sync.RWMutex
	teams []team.Team
}

func NewTeamRepository(teams []team.Team) *TeamRepository {
	return &TeamRepository{teams: append([]team.Team(nil), teams...)}
}

func (r *TeamRepository) List(_ context.Context) ([]team.Team, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := append([]team.Team(nil), r.teams...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })

	return out, nil
}

func (r *TeamRepository) GetByName(_ context.Context, name string) (team.Team, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, item := range r.teams {
		if item.Name == name {
			return item, true, nil
		}
	}

	return team.Team{}, false, nil
}

func (r *TeamRepository) Insert(_ context.Context, t team.Team) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, item := range r.teams {
		if item.Name == t.Name {
			return fmt.Errorf("team %q already exists", t.Name)
		}
	}
	r.teams = append(r.teams, t)

	return nil
}
