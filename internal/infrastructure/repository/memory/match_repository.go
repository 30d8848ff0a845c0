package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/footpanel/matchsync/internal/domain/match"
)

// MatchRepository keeps matches in process memory.
type MatchRepository struct {
	mu      sync.RWMutex
	matches []match.Match
}

func NewMatchRepository(matches []match.Match) *MatchRepository {
	return &MatchRepository{matches: append([]match.Match(nil), matches...)}
}

func (r *MatchRepository) List(_ context.Context) ([]match.Match, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := append([]match.Match(nil), r.matches...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].StartTime.Before(out[j].StartTime) })

	return out, nil
}

func (r *MatchRepository) GetByID(_ context.Context, id string) (match.Match, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, item := range r.matches {
		if item.ID == id {
			return item, true, nil
		}
	}

	return match.Match{}, false, nil
}

func (r *MatchRepository) ListByTeamsOnDay(_ context.Context, homeTeamID, awayTeamID string, dayStart time.Time) ([]match.Match, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	dayEnd := dayStart.Add(24 * time.Hour)
	var out []match.Match
	for _, item := range r.matches {
		if item.HomeTeam.ID != homeTeamID || item.AwayTeam.ID != awayTeamID {
			continue
		}
		if item.StartTime.Before(dayStart) || !item.StartTime.Before(dayEnd) {
			continue
		}
		out = append(out, item)
	}

	return out, nil
}

func (r *MatchRepository) Insert(_ context.Context, m match.Match) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, item := range r.matches {
		if item.ID == m.ID {
			return fmt.Errorf("match %s already exists", m.ID)
		}
	}
	r.matches = append(r.matches, m)

	return nil
}

func (r *MatchRepository) Update(_ context.Context, m match.Match) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.matches {
		if r.matches[i].ID == m.ID {
			r.matches[i] = m
			return nil
		}
	}

	return fmt.Errorf("match %s not found", m.ID)
}

func (r *MatchRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.matches {
		if r.matches[i].ID == id {
			r.matches = append(r.matches[:i], r.matches[i+1:]...)
			return nil
		}
	}

	return fmt.Errorf("match %s not found", id)
}
