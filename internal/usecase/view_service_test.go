package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/footpanel/matchsync/internal/domain/match"
	"github.com/footpanel/matchsync/internal/domain/team"
	"github.com/footpanel/matchsync/internal/platform/logging"
)

func TestViewForDaySuppressesDuplicateFeedRows(t *testing.T) {
	t.Parallel()

	day := time.Date(2025, 3, 9, 0, 0, 0, 0, time.UTC)
	stored := match.Match{
		ID:        "m-1",
		HomeTeam:  team.Team{ID: "h", Name: "Arsenal"},
		AwayTeam:  team.Team{ID: "a", Name: "Chelsea"},
		Status:    match.StatusLive,
		StartTime: day.Add(17 * time.Hour),
		StreamURL: "https://stream.example/arsenal",
	}

	duplicate := arsenalChelsea()
	duplicate.HomeTeam.Name = "ARSENAL" // suppression ignores case
	fresh := FeedMatch{
		ExternalID: "fm-9",
		HomeTeam:   FeedTeam{ExternalID: "t-9", Name: "Everton"},
		AwayTeam:   FeedTeam{ExternalID: "t-10", Name: "Fulham"},
		Status:     string(match.StatusUpcoming),
		StartTime:  "20:00",
	}
	provider := &stubFeedProvider{groups: []TournamentGroup{premierLeagueGroup(duplicate, fresh)}}

	svc := NewMatchViewService(provider, &stubMatchRepo{matches: []match.Match{stored}}, logging.NewNop())
	view, err := svc.ViewForDay(context.Background(), day)
	if err != nil {
		t.Fatalf("ViewForDay: %v", err)
	}

	if len(view) != 2 {
		t.Fatalf("view = %d rows, want stored Arsenal row plus feed Everton row", len(view))
	}
	if view[0].ID != "m-1" || view[0].Origin != match.OriginStore {
		t.Fatalf("first row = %+v, want the stored match", view[0])
	}
	if view[0].StreamURL != "https://stream.example/arsenal" {
		t.Fatalf("stored row lost its stream url: %+v", view[0])
	}
	if view[1].HomeTeam.Name != "Everton" || view[1].Origin != match.OriginFeed {
		t.Fatalf("second row = %+v, want the Everton feed match", view[1])
	}
}

func TestViewForDayDegradesWhenFeedFails(t *testing.T) {
	t.Parallel()

	day := time.Date(2025, 3, 9, 0, 0, 0, 0, time.UTC)
	stored := match.Match{
		ID:        "m-1",
		HomeTeam:  team.Team{ID: "h", Name: "Arsenal"},
		AwayTeam:  team.Team{ID: "a", Name: "Chelsea"},
		Status:    match.StatusUpcoming,
		StartTime: day.Add(15 * time.Hour),
	}
	provider := &stubFeedProvider{err: errors.New("timeout")}

	svc := NewMatchViewService(provider, &stubMatchRepo{matches: []match.Match{stored}}, logging.NewNop())
	view, err := svc.ViewForDay(context.Background(), day)
	if err != nil {
		t.Fatalf("ViewForDay should degrade, got %v", err)
	}
	if len(view) != 1 || view[0].ID != "m-1" {
		t.Fatalf("view = %+v, want the stored row only", view)
	}
}

func TestViewForDayFiltersStoredRowsToTheDay(t *testing.T) {
	t.Parallel()

	day := time.Date(2025, 3, 9, 0, 0, 0, 0, time.UTC)
	inDay := match.Match{
		ID:        "m-1",
		HomeTeam:  team.Team{ID: "h", Name: "Arsenal"},
		AwayTeam:  team.Team{ID: "a", Name: "Chelsea"},
		Status:    match.StatusUpcoming,
		StartTime: day.Add(15 * time.Hour),
	}
	nextDay := inDay
	nextDay.ID = "m-2"
	nextDay.StartTime = day.Add(26 * time.Hour)

	svc := NewMatchViewService(&stubFeedProvider{}, &stubMatchRepo{matches: []match.Match{inDay, nextDay}}, logging.NewNop())
	view, err := svc.ViewForDay(context.Background(), day)
	if err != nil {
		t.Fatalf("ViewForDay: %v", err)
	}
	if len(view) != 1 || view[0].ID != "m-1" {
		t.Fatalf("view = %+v, want only the same-day row", view)
	}
}

func TestViewForDaySortsByKickoff(t *testing.T) {
	t.Parallel()

	day := time.Date(2025, 3, 9, 0, 0, 0, 0, time.UTC)
	late := FeedMatch{
		ExternalID: "fm-late",
		HomeTeam:   FeedTeam{Name: "Everton"},
		AwayTeam:   FeedTeam{Name: "Fulham"},
		Status:     string(match.StatusUpcoming),
		StartTime:  "21:00",
	}
	early := FeedMatch{
		ExternalID: "fm-early",
		HomeTeam:   FeedTeam{Name: "Brighton"},
		AwayTeam:   FeedTeam{Name: "Wolves"},
		Status:     string(match.StatusUpcoming),
		StartTime:  "12:30",
	}
	provider := &stubFeedProvider{groups: []TournamentGroup{premierLeagueGroup(late, early)}}

	svc := NewMatchViewService(provider, &stubMatchRepo{}, logging.NewNop())
	view, err := svc.ViewForDay(context.Background(), day)
	if err != nil {
		t.Fatalf("ViewForDay: %v", err)
	}
	if len(view) != 2 || view[0].HomeTeam.Name != "Brighton" {
		t.Fatalf("view order = %+v, want Brighton first", view)
	}
}

func TestListLivePassesFeedThrough(t *testing.T) {
	t.Parallel()

	provider := &stubFeedProvider{live: []TournamentGroup{premierLeagueGroup(arsenalChelsea())}}
	svc := NewMatchViewService(provider, &stubMatchRepo{}, logging.NewNop())

	groups, err := svc.ListLive(context.Background())
	if err != nil {
		t.Fatalf("ListLive: %v", err)
	}
	if len(groups) != 1 || len(groups[0].Matches) != 1 {
		t.Fatalf("groups = %+v", groups)
	}

	provider.liveErr = errors.New("upstream down")
	if _, err := svc.ListLive(context.Background()); err == nil {
		t.Fatal("expected live fetch error to propagate")
	}
}
