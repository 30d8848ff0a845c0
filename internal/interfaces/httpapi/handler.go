package httpapi

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/footpanel/matchsync/internal/domain/match"
	"github.com/footpanel/matchsync/internal/domain/team"
	"github.com/footpanel/matchsync/internal/usecase"
)

type Handler struct {
	syncService  *usecase.MatchSyncService
	viewService  *usecase.MatchViewService
	adminService *usecase.MatchAdminService
	logger       *slog.Logger
	validator    *validator.Validate
}

func NewHandler(
	syncService *usecase.MatchSyncService,
	viewService *usecase.MatchViewService,
	adminService *usecase.MatchAdminService,
	logger *slog.Logger,
) *Handler {
	if logger == nil {
		logger = slog.Default()
	}

	return &Handler{
		syncService:  syncService,
		viewService:  viewService,
		adminService: adminService,
		logger:       logger,
		validator:    validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}

// parseDateParam reads a YYYY-MM-DD query parameter, defaulting to
// today when absent.
func parseDateParam(r *http.Request, name string) (time.Time, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return time.Now(), nil
	}

	parsed, err := time.ParseInLocation("2006-01-02", raw, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: invalid %s parameter %q, expected YYYY-MM-DD", usecase.ErrInvalidInput, name, raw)
	}

	return parsed, nil
}

type teamDTO struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Short   string `json:"short,omitempty"`
	LogoURL string `json:"logo_url,omitempty"`
}

type matchDTO struct {
	ID          string  `json:"id"`
	HomeTeam    teamDTO `json:"home_team"`
	AwayTeam    teamDTO `json:"away_team"`
	HomeScore   int     `json:"home_score"`
	AwayScore   int     `json:"away_score"`
	Status      string  `json:"status"`
	Minute      *int    `json:"minute,omitempty"`
	Competition string  `json:"competition,omitempty"`
	StartTime   string  `json:"start_time"`
	StreamURL   string  `json:"stream_url,omitempty"`
	Venue       string  `json:"venue,omitempty"`
	Origin      string  `json:"origin"`
}

type leagueDTO struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Country string `json:"country,omitempty"`
	LogoURL string `json:"logo_url,omitempty"`
}

type liveMatchDTO struct {
	ID                  string  `json:"id"`
	HomeTeam            teamDTO `json:"home_team"`
	AwayTeam            teamDTO `json:"away_team"`
	HomeScore           *int    `json:"home_score,omitempty"`
	AwayScore           *int    `json:"away_score,omitempty"`
	HomeHalfScore       *int    `json:"home_1st_half,omitempty"`
	AwayHalfScore       *int    `json:"away_1st_half,omitempty"`
	HomeSecondHalfScore *int    `json:"home_2nd_half,omitempty"`
	AwaySecondHalfScore *int    `json:"away_2nd_half,omitempty"`
	Status              string  `json:"status"`
	Minute              *int    `json:"minute,omitempty"`
	Kickoff             string  `json:"kickoff,omitempty"`
}

type liveGroupDTO struct {
	League  leagueDTO      `json:"league"`
	Matches []liveMatchDTO `json:"matches"`
}

type syncResultDTO struct {
	Synced  int `json:"synced"`
	Skipped int `json:"skipped"`
}

func teamToDTO(t team.Team) teamDTO {
	return teamDTO{
		ID:      t.ID,
		Name:    t.Name,
		Short:   t.Short,
		LogoURL: t.LogoURL,
	}
}

func matchToDTO(m match.Match) matchDTO {
	return matchDTO{
		ID:          m.ID,
		HomeTeam:    teamToDTO(m.HomeTeam),
		AwayTeam:    teamToDTO(m.AwayTeam),
		HomeScore:   m.HomeScore,
		AwayScore:   m.AwayScore,
		Status:      string(m.Status),
		Minute:      m.Minute,
		Competition: m.Competition,
		StartTime:   m.StartTime.Format(time.RFC3339),
		StreamURL:   m.StreamURL,
		Venue:       m.Venue,
		Origin:      string(m.Origin),
	}
}

func liveGroupsToDTO(groups []usecase.TournamentGroup) []liveGroupDTO {
	out := make([]liveGroupDTO, 0, len(groups))
	for _, group := range groups {
		matches := make([]liveMatchDTO, 0, len(group.Matches))
		for _, fm := range group.Matches {
			matches = append(matches, liveMatchDTO{
				ID: fm.ExternalID,
				HomeTeam: teamDTO{
					ID:      fm.HomeTeam.ExternalID,
					Name:    fm.HomeTeam.Name,
					Short:   fm.HomeTeam.Short,
					LogoURL: fm.HomeTeam.LogoURL,
				},
				AwayTeam: teamDTO{
					ID:      fm.AwayTeam.ExternalID,
					Name:    fm.AwayTeam.Name,
					Short:   fm.AwayTeam.Short,
					LogoURL: fm.AwayTeam.LogoURL,
				},
				HomeScore:           fm.HomeScore,
				AwayScore:           fm.AwayScore,
				HomeHalfScore:       fm.HomeHalfScore,
				AwayHalfScore:       fm.AwayHalfScore,
				HomeSecondHalfScore: fm.HomeSecondHalfScore,
				AwaySecondHalfScore: fm.AwaySecondHalfScore,
				Status:              fm.Status,
				Minute:              fm.Minute,
				Kickoff:             fm.StartTime,
			})
		}
		out = append(out, liveGroupDTO{
			League: leagueDTO{
				ID:      group.League.ID,
				Name:    group.League.Name,
				Country: group.League.Country,
				LogoURL: group.League.LogoURL,
			},
			Matches: matches,
		})
	}

	return out
}
