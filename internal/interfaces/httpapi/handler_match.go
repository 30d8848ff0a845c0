package httpapi

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"

	"github.com/footpanel/matchsync/internal/domain/match"
	"github.com/footpanel/matchsync/internal/usecase"
)

type createMatchRequest struct {
	HomeTeamName string `json:"home_team_name" validate:"required,max=120"`
	AwayTeamName string `json:"away_team_name" validate:"required,max=120"`
	HomeScore    int    `json:"home_score" validate:"gte=0"`
	AwayScore    int    `json:"away_score" validate:"gte=0"`
	Status       string `json:"status" validate:"omitempty,oneof=upcoming live finished"`
	Minute       *int   `json:"minute" validate:"omitempty,gte=0,lte=150"`
	Competition  string `json:"competition" validate:"max=120"`
	StartTime    string `json:"start_time" validate:"required"`
	StreamURL    string `json:"stream_url" validate:"omitempty,url"`
	Venue        string `json:"venue" validate:"max=120"`
}

type updateMatchRequest struct {
	HomeScore   *int    `json:"home_score" validate:"omitempty,gte=0"`
	AwayScore   *int    `json:"away_score" validate:"omitempty,gte=0"`
	Status      *string `json:"status" validate:"omitempty,oneof=upcoming live finished"`
	Minute      *int    `json:"minute" validate:"omitempty,gte=0,lte=150"`
	ClearMinute bool    `json:"clear_minute"`
	Competition *string `json:"competition" validate:"omitempty,max=120"`
	StartTime   *string `json:"start_time"`
	StreamURL   *string `json:"stream_url" validate:"omitempty,url"`
	Venue       *string `json:"venue" validate:"omitempty,max=120"`
}

func (h *Handler) ListMatches(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListMatches")
	defer span.End()

	date, err := parseDateParam(r, "date")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	matches, err := h.viewService.ViewForDay(ctx, date)
	if err != nil {
		h.logger.ErrorContext(ctx, "list matches failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	out := make([]matchDTO, 0, len(matches))
	for _, m := range matches {
		out = append(out, matchToDTO(m))
	}

	writeSuccess(ctx, w, http.StatusOK, out)
}

func (h *Handler) ListLiveMatches(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListLiveMatches")
	defer span.End()

	groups, err := h.viewService.ListLive(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "list live matches failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, liveGroupsToDTO(groups))
}

func (h *Handler) ListTeams(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListTeams")
	defer span.End()

	teams, err := h.adminService.ListTeams(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "list teams failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	out := make([]teamDTO, 0, len(teams))
	for _, t := range teams {
		out = append(out, teamToDTO(t))
	}

	writeSuccess(ctx, w, http.StatusOK, out)
}

func (h *Handler) CreateMatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CreateMatch")
	defer span.End()

	var req createMatchRequest
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err))
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	startTime, err := parseTimestamp(req.StartTime)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	created, err := h.adminService.CreateMatch(ctx, usecase.CreateMatchInput{
		HomeTeamName: req.HomeTeamName,
		AwayTeamName: req.AwayTeamName,
		HomeScore:    req.HomeScore,
		AwayScore:    req.AwayScore,
		Status:       match.Status(req.Status),
		Minute:       req.Minute,
		Competition:  req.Competition,
		StartTime:    startTime,
		StreamURL:    req.StreamURL,
		Venue:        req.Venue,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "create match failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, matchToDTO(created))
}

func (h *Handler) UpdateMatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.UpdateMatch")
	defer span.End()

	matchID := strings.TrimSpace(r.PathValue("matchID"))
	if matchID == "" {
		writeError(ctx, w, fmt.Errorf("%w: match id is required", usecase.ErrInvalidInput))
		return
	}

	var req updateMatchRequest
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err))
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	in := usecase.UpdateMatchInput{
		HomeScore:   req.HomeScore,
		AwayScore:   req.AwayScore,
		Minute:      req.Minute,
		ClearMinute: req.ClearMinute,
		Competition: req.Competition,
		StreamURL:   req.StreamURL,
		Venue:       req.Venue,
	}
	if req.Status != nil {
		status := match.Status(*req.Status)
		in.Status = &status
	}
	if req.StartTime != nil {
		startTime, err := parseTimestamp(*req.StartTime)
		if err != nil {
			writeError(ctx, w, err)
			return
		}
		in.StartTime = &startTime
	}

	updated, err := h.adminService.UpdateMatch(ctx, matchID, in)
	if err != nil {
		h.logger.WarnContext(ctx, "update match failed", "match_id", matchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, matchToDTO(updated))
}

func (h *Handler) DeleteMatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.DeleteMatch")
	defer span.End()

	matchID := strings.TrimSpace(r.PathValue("matchID"))
	if matchID == "" {
		writeError(ctx, w, fmt.Errorf("%w: match id is required", usecase.ErrInvalidInput))
		return
	}

	if err := h.adminService.DeleteMatch(ctx, matchID); err != nil {
		h.logger.WarnContext(ctx, "delete match failed", "match_id", matchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"deleted": matchID})
}

func parseTimestamp(raw string) (time.Time, error) {
	parsed, err := time.Parse(time.RFC3339, strings.TrimSpace(raw))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: invalid timestamp %q, expected RFC3339", usecase.ErrInvalidInput, raw)
	}

	return parsed, nil
}
