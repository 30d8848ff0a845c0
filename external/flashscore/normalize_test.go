package flashscore

import (
	"testing"

	"github.com/footpanel/matchsync/internal/usecase"
)

func TestDeriveStatus(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		status *rawMatchStatus
		hint   string
		want   string
	}{
		{"nil status keeps hint", nil, statusLive, statusLive},
		{"not started", &rawMatchStatus{}, statusLive, statusUpcoming},
		{"cancelled reports finished", &rawMatchStatus{IsCancelled: true}, statusUpcoming, statusFinished},
		{"postponed reports finished", &rawMatchStatus{IsPostponed: true}, statusUpcoming, statusFinished},
		{"in progress wins over cancelled", &rawMatchStatus{IsCancelled: true, IsInProgress: true, IsStarted: true}, statusUpcoming, statusLive},
		{"finished wins over in progress", &rawMatchStatus{IsStarted: true, IsInProgress: true, IsFinished: true}, statusUpcoming, statusFinished},
		{"finished", &rawMatchStatus{IsStarted: true, IsFinished: true}, statusUpcoming, statusFinished},
		{"in progress", &rawMatchStatus{IsStarted: true, IsInProgress: true}, statusUpcoming, statusLive},
		{"started with no other flag keeps upcoming hint", &rawMatchStatus{IsStarted: true}, statusUpcoming, statusUpcoming},
		{"started with no other flag keeps live hint", &rawMatchStatus{IsStarted: true}, statusLive, statusLive},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := deriveStatus(tc.status, tc.hint); got != tc.want {
				t.Fatalf("deriveStatus = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestDeriveMinute(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name     string
		liveTime string
		want     *int
	}{
		{"plain minute", "67", intPtr(67)},
		{"minute with tick", "23'", intPtr(23)},
		{"half time pins to 45", "Half Time", intPtr(45)},
		{"half time any case", "half time", intPtr(45)},
		{"stoppage label has no minute", "HT+2", nil},
		{"penalties label has no minute", "Penalties", nil},
		{"empty", "", nil},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := deriveMinute(&rawMatchStatus{LiveTime: tc.liveTime})
			if (got == nil) != (tc.want == nil) {
				t.Fatalf("deriveMinute(%q) = %v, want %v", tc.liveTime, got, tc.want)
			}
			if got != nil && *got != *tc.want {
				t.Fatalf("deriveMinute(%q) = %d, want %d", tc.liveTime, *got, *tc.want)
			}
		})
	}
}

func TestTransformMatchMinuteOnlyWhileLive(t *testing.T) {
	t.Parallel()

	league := usecase.FeedLeague{Name: "Premier League"}

	finished := transformMatch(rawMatch{
		MatchID:     "m-1",
		MatchStatus: &rawMatchStatus{IsStarted: true, IsFinished: true, LiveTime: "90'"},
	}, league, statusUpcoming)
	if finished.Minute != nil {
		t.Fatalf("finished match minute = %d, want none despite stale clock", *finished.Minute)
	}

	live := transformMatch(rawMatch{
		MatchID:     "m-2",
		MatchStatus: &rawMatchStatus{IsStarted: true, IsInProgress: true, LiveTime: "67"},
	}, league, statusUpcoming)
	if live.Minute == nil || *live.Minute != 67 {
		t.Fatalf("live match minute = %v, want 67", live.Minute)
	}
}

func TestTransformTeamFallbacks(t *testing.T) {
	t.Parallel()

	got := transformTeam(nil)
	if got.Name != "Unknown Team" || got.Short != "UNK" {
		t.Fatalf("nil team = %+v", got)
	}

	got = transformTeam(&rawTeam{TeamID: "t-1", Name: "Arsenal"})
	if got.Short != "ARS" {
		t.Fatalf("short = %q, want first three letters uppercased", got.Short)
	}

	got = transformTeam(&rawTeam{Name: "Arsenal", ShortName: "AFC"})
	if got.Short != "AFC" {
		t.Fatalf("short = %q, want provider value kept", got.Short)
	}

	got = transformTeam(&rawTeam{TeamID: "t-2", Name: "Örebro"})
	if got.Short != "ÖRE" {
		t.Fatalf("short = %q, want rune-aware prefix", got.Short)
	}
}

func TestTransformTeamLogoPriority(t *testing.T) {
	t.Parallel()

	raw := &rawTeam{
		Name:            "Arsenal",
		SmaillImagePath: "https://cdn/smaill.png",
		SmallImagePath:  "https://cdn/small.png",
		ImagePath:       "https://cdn/full.png",
	}
	if got := transformTeam(raw).LogoURL; got != "https://cdn/smaill.png" {
		t.Fatalf("logo = %q, want the misspelled key to win", got)
	}

	raw.SmaillImagePath = ""
	if got := transformTeam(raw).LogoURL; got != "https://cdn/small.png" {
		t.Fatalf("logo = %q, want small_image_path next", got)
	}

	raw.SmallImagePath = ""
	if got := transformTeam(raw).LogoURL; got != "https://cdn/full.png" {
		t.Fatalf("logo = %q, want image_path last", got)
	}
}

func TestSlugify(t *testing.T) {
	t.Parallel()

	if got := slugify("England Premier League"); got != "england-premier-league" {
		t.Fatalf("slugify = %q", got)
	}
	if got := slugify("  Süper Lig! "); got != "sper-lig" {
		t.Fatalf("slugify = %q", got)
	}
}

func intPtr(v int) *int { return &v }
