package usecase

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/footpanel/matchsync/internal/domain/match"
	"github.com/footpanel/matchsync/internal/domain/team"
	"github.com/footpanel/matchsync/internal/platform/logging"
)

type stubFeedProvider struct {
	mu        sync.Mutex
	groups    []TournamentGroup
	live      []TournamentGroup
	err       error
	liveErr   error
	dateCalls []time.Time
}

func (p *stubFeedProvider) MatchesForDate(_ context.Context, date time.Time) ([]TournamentGroup, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.dateCalls = append(p.dateCalls, date)
	if p.err != nil {
		return nil, p.err
	}
	return p.groups, nil
}

func (p *stubFeedProvider) LiveMatches(context.Context) ([]TournamentGroup, error) {
	if p.liveErr != nil {
		return nil, p.liveErr
	}
	return p.live, nil
}

type stubTeamRepo struct {
	mu        sync.Mutex
	teams     map[string]team.Team
	insertErr map[string]error
}

func newStubTeamRepo() *stubTeamRepo {
	return &stubTeamRepo{teams: map[string]team.Team{}, insertErr: map[string]error{}}
}

func (r *stubTeamRepo) List(context.Context) ([]team.Team, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]team.Team, 0, len(r.teams))
	for _, t := range r.teams {
		out = append(out, t)
	}
	return out, nil
}

func (r *stubTeamRepo) GetByName(_ context.Context, name string) (team.Team, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.teams[name]
	return t, ok, nil
}

func (r *stubTeamRepo) Insert(_ context.Context, t team.Team) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.insertErr[t.Name]; err != nil {
		return err
	}
	r.teams[t.Name] = t
	return nil
}

type stubMatchRepo struct {
	mu        sync.Mutex
	matches   []match.Match
	insertErr error
}

func (r *stubMatchRepo) List(context.Context) ([]match.Match, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]match.Match(nil), r.matches...), nil
}

func (r *stubMatchRepo) GetByID(_ context.Context, id string) (match.Match, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range r.matches {
		if m.ID == id {
			return m, true, nil
		}
	}
	return match.Match{}, false, nil
}

func (r *stubMatchRepo) ListByTeamsOnDay(_ context.Context, homeTeamID, awayTeamID string, dayStart time.Time) ([]match.Match, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	dayEnd := dayStart.Add(24 * time.Hour)
	var out []match.Match
	for _, m := range r.matches {
		if m.HomeTeam.ID != homeTeamID || m.AwayTeam.ID != awayTeamID {
			continue
		}
		if m.StartTime.Before(dayStart) || !m.StartTime.Before(dayEnd) {
			continue
		}
		out = append(out, m)
	}
	return out, nil
}

func (r *stubMatchRepo) Insert(_ context.Context, m match.Match) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.insertErr != nil {
		return r.insertErr
	}
	r.matches = append(r.matches, m)
	return nil
}

func (r *stubMatchRepo) Update(_ context.Context, m match.Match) error {
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

func (r *stubMatchRepo) Delete(_ context.Context, id string) error {
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

type sequenceIDs struct {
	mu   sync.Mutex
	next int
}

func (g *sequenceIDs) NewID() (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.next++
	return "id-" + strconv.Itoa(g.next), nil
}

func intPtr(v int) *int { return &v }

func premierLeagueGroup(matches ...FeedMatch) TournamentGroup {
	return TournamentGroup{
		League:  FeedLeague{ID: "premier-league", Name: "Premier League", Country: "England"},
		Matches: matches,
	}
}

func arsenalChelsea() FeedMatch {
	return FeedMatch{
		ExternalID: "fm-1",
		HomeTeam:   FeedTeam{ExternalID: "t-1", Name: "Arsenal", Short: "ARS", LogoURL: "https://cdn/ars.png"},
		AwayTeam:   FeedTeam{ExternalID: "t-2", Name: "Chelsea", Short: "CHE", LogoURL: "https://cdn/che.png"},
		HomeScore:  intPtr(1),
		AwayScore:  intPtr(0),
		Status:     string(match.StatusLive),
		Minute:     intPtr(60),
		StartTime:  "17:30",
	}
}

func TestSyncDayCreatesTeamsAndMatch(t *testing.T) {
	t.Parallel()

	provider := &stubFeedProvider{groups: []TournamentGroup{premierLeagueGroup(arsenalChelsea())}}
	teamRepo := newStubTeamRepo()
	matchRepo := &stubMatchRepo{}
	svc := NewMatchSyncService(provider, teamRepo, matchRepo, nil, &sequenceIDs{}, logging.NewNop())

	day := time.Date(2025, 3, 9, 10, 0, 0, 0, time.UTC)
	res, err := svc.SyncDay(context.Background(), day)
	if err != nil {
		t.Fatalf("SyncDay: %v", err)
	}
	if res.Synced != 1 || res.Skipped != 0 {
		t.Fatalf("result = %+v, want 1 synced 0 skipped", res)
	}

	if len(teamRepo.teams) != 2 {
		t.Fatalf("teams = %d, want 2", len(teamRepo.teams))
	}
	if len(matchRepo.matches) != 1 {
		t.Fatalf("matches = %d, want 1", len(matchRepo.matches))
	}

	got := matchRepo.matches[0]
	if got.HomeTeam.Name != "Arsenal" || got.AwayTeam.Name != "Chelsea" {
		t.Fatalf("teams = %s vs %s", got.HomeTeam.Name, got.AwayTeam.Name)
	}
	if got.HomeScore != 1 || got.AwayScore != 0 {
		t.Fatalf("score = %d-%d, want 1-0", got.HomeScore, got.AwayScore)
	}
	if got.Status != match.StatusLive {
		t.Fatalf("status = %s, want live", got.Status)
	}
	if got.Minute == nil || *got.Minute != 60 {
		t.Fatalf("minute = %v, want 60", got.Minute)
	}
	if got.Competition != "Premier League" {
		t.Fatalf("competition = %q", got.Competition)
	}
	want := time.Date(2025, 3, 9, 17, 30, 0, 0, time.UTC)
	if !got.StartTime.Equal(want) {
		t.Fatalf("start time = %v, want %v", got.StartTime, want)
	}
}

func TestSyncDayIsIdempotent(t *testing.T) {
	t.Parallel()

	provider := &stubFeedProvider{groups: []TournamentGroup{premierLeagueGroup(arsenalChelsea())}}
	teamRepo := newStubTeamRepo()
	matchRepo := &stubMatchRepo{}
	svc := NewMatchSyncService(provider, teamRepo, matchRepo, nil, &sequenceIDs{}, logging.NewNop())

	day := time.Date(2025, 3, 9, 0, 0, 0, 0, time.UTC)
	if _, err := svc.SyncDay(context.Background(), day); err != nil {
		t.Fatalf("first sync: %v", err)
	}

	// The second pass reports the match finished 2-0 with a corrected
	// kickoff time.
	fm := arsenalChelsea()
	fm.HomeScore = intPtr(2)
	fm.Status = string(match.StatusFinished)
	fm.Minute = nil
	fm.StartTime = "20:00"
	provider.groups = []TournamentGroup{premierLeagueGroup(fm)}

	if _, err := svc.SyncDay(context.Background(), day); err != nil {
		t.Fatalf("second sync: %v", err)
	}

	if len(matchRepo.matches) != 1 {
		t.Fatalf("matches = %d, want 1 after re-sync", len(matchRepo.matches))
	}
	got := matchRepo.matches[0]
	if got.HomeScore != 2 || got.Status != match.StatusFinished {
		t.Fatalf("updated match = %d-%d %s", got.HomeScore, got.AwayScore, got.Status)
	}
	if got.Minute != nil {
		t.Fatalf("minute should clear when feed drops it, got %v", *got.Minute)
	}
	wantKickoff := time.Date(2025, 3, 9, 20, 0, 0, 0, time.UTC)
	if !got.StartTime.Equal(wantKickoff) {
		t.Fatalf("start time = %v, want corrected kickoff %v", got.StartTime, wantKickoff)
	}
	if len(teamRepo.teams) != 2 {
		t.Fatalf("teams = %d, want 2 after re-sync", len(teamRepo.teams))
	}
}

func TestSyncDayPreservesStreamURLOnUpdate(t *testing.T) {
	t.Parallel()

	provider := &stubFeedProvider{groups: []TournamentGroup{premierLeagueGroup(arsenalChelsea())}}
	teamRepo := newStubTeamRepo()
	matchRepo := &stubMatchRepo{}
	svc := NewMatchSyncService(provider, teamRepo, matchRepo, nil, &sequenceIDs{}, logging.NewNop())

	day := time.Date(2025, 3, 9, 0, 0, 0, 0, time.UTC)
	if _, err := svc.SyncDay(context.Background(), day); err != nil {
		t.Fatalf("first sync: %v", err)
	}

	matchRepo.mu.Lock()
	matchRepo.matches[0].StreamURL = "https://stream.example/arsenal"
	matchRepo.mu.Unlock()

	if _, err := svc.SyncDay(context.Background(), day); err != nil {
		t.Fatalf("second sync: %v", err)
	}
	if got := matchRepo.matches[0].StreamURL; got != "https://stream.example/arsenal" {
		t.Fatalf("stream url = %q, want operator value preserved", got)
	}
}

func TestSyncDaySkipsRecordWhenTeamInsertFails(t *testing.T) {
	t.Parallel()

	other := FeedMatch{
		ExternalID: "fm-2",
		HomeTeam:   FeedTeam{Name: "Everton", Short: "EVE"},
		AwayTeam:   FeedTeam{Name: "Fulham", Short: "FUL"},
		Status:     string(match.StatusUpcoming),
		StartTime:  "20:00",
	}
	provider := &stubFeedProvider{groups: []TournamentGroup{premierLeagueGroup(arsenalChelsea(), other)}}
	teamRepo := newStubTeamRepo()
	teamRepo.insertErr["Chelsea"] = errors.New("unique violation")
	matchRepo := &stubMatchRepo{}
	svc := NewMatchSyncService(provider, teamRepo, matchRepo, nil, &sequenceIDs{}, logging.NewNop())

	res, err := svc.SyncDay(context.Background(), time.Date(2025, 3, 9, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("SyncDay: %v", err)
	}
	if res.Synced != 1 || res.Skipped != 1 {
		t.Fatalf("result = %+v, want 1 synced 1 skipped", res)
	}
	if len(matchRepo.matches) != 1 || matchRepo.matches[0].HomeTeam.Name != "Everton" {
		t.Fatalf("only the Everton match should land, got %+v", matchRepo.matches)
	}
}

func TestSyncDayFeedFailureAborts(t *testing.T) {
	t.Parallel()

	provider := &stubFeedProvider{err: errors.New("upstream 503")}
	svc := NewMatchSyncService(provider, newStubTeamRepo(), &stubMatchRepo{}, nil, &sequenceIDs{}, logging.NewNop())

	if _, err := svc.SyncDay(context.Background(), time.Now()); err == nil {
		t.Fatal("expected error when the feed is down")
	}
}

func TestSyncRangeCoversEveryDay(t *testing.T) {
	t.Parallel()

	provider := &stubFeedProvider{}
	svc := NewMatchSyncService(provider, newStubTeamRepo(), &stubMatchRepo{}, nil, &sequenceIDs{}, logging.NewNop())

	from := time.Date(2025, 3, 9, 0, 0, 0, 0, time.UTC)
	to := from.Add(48 * time.Hour)
	if _, err := svc.SyncRange(context.Background(), from, to, 2); err != nil {
		t.Fatalf("SyncRange: %v", err)
	}

	provider.mu.Lock()
	defer provider.mu.Unlock()
	if len(provider.dateCalls) != 3 {
		t.Fatalf("feed calls = %d, want 3", len(provider.dateCalls))
	}
	seen := map[string]struct{}{}
	for _, d := range provider.dateCalls {
		seen[d.Format("2006-01-02")] = struct{}{}
	}
	for _, want := range []string{"2025-03-09", "2025-03-10", "2025-03-11"} {
		if _, ok := seen[want]; !ok {
			t.Fatalf("day %s was not synced", want)
		}
	}
}

func TestCompositeDayIdentityPicksFirstOfDuplicates(t *testing.T) {
	t.Parallel()

	day := time.Date(2025, 3, 9, 0, 0, 0, 0, time.UTC)
	repo := &stubMatchRepo{matches: []match.Match{
		{ID: "m-1", HomeTeam: team.Team{ID: "h"}, AwayTeam: team.Team{ID: "a"}, Status: match.StatusUpcoming, StartTime: day.Add(12 * time.Hour)},
		{ID: "m-2", HomeTeam: team.Team{ID: "h"}, AwayTeam: team.Team{ID: "a"}, Status: match.StatusUpcoming, StartTime: day.Add(20 * time.Hour)},
	}}

	got, found, err := NewCompositeDayIdentity(logging.NewNop()).Resolve(context.Background(), repo, "h", "a", day)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if !found || got.ID != "m-1" {
		t.Fatalf("resolved = %+v found=%v, want m-1", got, found)
	}
}
