package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/footpanel/matchsync/internal/domain/match"
	"github.com/footpanel/matchsync/internal/platform/logging"
)

func TestCreateMatchReusesExistingTeams(t *testing.T) {
	t.Parallel()

	teamRepo := newStubTeamRepo()
	matchRepo := &stubMatchRepo{}
	svc := NewMatchAdminService(teamRepo, matchRepo, &sequenceIDs{}, logging.NewNop())

	kickoff := time.Date(2025, 3, 9, 17, 30, 0, 0, time.UTC)
	first, err := svc.CreateMatch(context.Background(), CreateMatchInput{
		HomeTeamName: "Arsenal",
		AwayTeamName: "Chelsea",
		StartTime:    kickoff,
		StreamURL:    "https://stream.example/1",
	})
	if err != nil {
		t.Fatalf("CreateMatch: %v", err)
	}
	if first.Status != match.StatusUpcoming {
		t.Fatalf("status = %s, want default upcoming", first.Status)
	}

	second, err := svc.CreateMatch(context.Background(), CreateMatchInput{
		HomeTeamName: "Chelsea",
		AwayTeamName: "Arsenal",
		StartTime:    kickoff.Add(7 * 24 * time.Hour),
	})
	if err != nil {
		t.Fatalf("CreateMatch reverse fixture: %v", err)
	}
	if len(teamRepo.teams) != 2 {
		t.Fatalf("teams = %d, want the two clubs shared", len(teamRepo.teams))
	}
	if second.HomeTeam.ID != first.AwayTeam.ID {
		t.Fatal("reverse fixture should reuse the stored Chelsea row")
	}
}

func TestUpdateMatchAppliesPartialInput(t *testing.T) {
	t.Parallel()

	teamRepo := newStubTeamRepo()
	matchRepo := &stubMatchRepo{}
	svc := NewMatchAdminService(teamRepo, matchRepo, &sequenceIDs{}, logging.NewNop())

	created, err := svc.CreateMatch(context.Background(), CreateMatchInput{
		HomeTeamName: "Arsenal",
		AwayTeamName: "Chelsea",
		Status:       match.StatusLive,
		Minute:       intPtr(60),
		StartTime:    time.Date(2025, 3, 9, 17, 30, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("CreateMatch: %v", err)
	}

	finished := match.StatusFinished
	score := 2
	updated, err := svc.UpdateMatch(context.Background(), created.ID, UpdateMatchInput{
		HomeScore:   &score,
		Status:      &finished,
		ClearMinute: true,
	})
	if err != nil {
		t.Fatalf("UpdateMatch: %v", err)
	}
	if updated.HomeScore != 2 || updated.Status != match.StatusFinished {
		t.Fatalf("updated = %+v", updated)
	}
	if updated.Minute != nil {
		t.Fatalf("minute should be cleared, got %v", *updated.Minute)
	}
	if updated.AwayScore != 0 || !updated.StartTime.Equal(created.StartTime) {
		t.Fatal("untouched fields should keep their values")
	}
}

func TestUpdateMatchUnknownIDIsNotFound(t *testing.T) {
	t.Parallel()

	svc := NewMatchAdminService(newStubTeamRepo(), &stubMatchRepo{}, &sequenceIDs{}, logging.NewNop())
	if _, err := svc.UpdateMatch(context.Background(), "missing", UpdateMatchInput{}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
	if err := svc.DeleteMatch(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("delete err = %v, want ErrNotFound", err)
	}
}

func TestDeleteMatchRemovesRow(t *testing.T) {
	t.Parallel()

	svc := NewMatchAdminService(newStubTeamRepo(), &stubMatchRepo{}, &sequenceIDs{}, logging.NewNop())
	created, err := svc.CreateMatch(context.Background(), CreateMatchInput{
		HomeTeamName: "Arsenal",
		AwayTeamName: "Chelsea",
		StartTime:    time.Now(),
	})
	if err != nil {
		t.Fatalf("CreateMatch: %v", err)
	}
	if err := svc.DeleteMatch(context.Background(), created.ID); err != nil {
		t.Fatalf("DeleteMatch: %v", err)
	}
	if _, found, _ := (&stubMatchRepo{}).GetByID(context.Background(), created.ID); found {
		t.Fatal("match should be gone")
	}
}
