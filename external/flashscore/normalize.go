package flashscore

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/footpanel/matchsync/internal/usecase"
)

const (
	statusUpcoming = "upcoming"
	statusLive     = "live"
	statusFinished = "finished"

	placeholderTeamName  = "Unknown Team"
	placeholderTeamShort = "UNK"

	kickoffLayout = "15:04"
	halfTimeLabel = "half time"
	halfTimeMark  = 45
)

var leadingDigitsRegex = regexp.MustCompile(`^\d+`)

func transformTeam(raw *rawTeam) usecase.FeedTeam {
	if raw == nil {
		return usecase.FeedTeam{Name: placeholderTeamName, Short: placeholderTeamShort}
	}

	name := strings.TrimSpace(raw.Name)
	if name == "" {
		name = placeholderTeamName
	}

	short := strings.TrimSpace(raw.ShortName)
	if short == "" {
		if runes := []rune(name); name != placeholderTeamName && len(runes) >= 3 {
			short = strings.ToUpper(string(runes[:3]))
		} else {
			short = placeholderTeamShort
		}
	}

	logo := raw.SmaillImagePath
	if logo == "" {
		logo = raw.SmallImagePath
	}
	if logo == "" {
		logo = raw.ImagePath
	}

	return usecase.FeedTeam{
		ExternalID: raw.TeamID,
		Name:       name,
		Short:      short,
		LogoURL:    logo,
	}
}

// deriveStatus collapses the provider's flag set into the three
// internal states. The flags are checked in priority order: a finished
// flag beats an in-progress one, which beats cancelled/postponed.
// Cancelled and postponed fixtures report as finished, which keeps
// them off live views at the cost of conflating them with played
// matches. A record carrying no decisive flag keeps the hint of the
// endpoint it came from.
func deriveStatus(status *rawMatchStatus, hint string) string {
	if status == nil {
		return hint
	}

	switch {
	case status.IsFinished:
		return statusFinished
	case status.IsInProgress:
		return statusLive
	case status.IsCancelled || status.IsPostponed:
		return statusFinished
	case !status.IsStarted:
		return statusUpcoming
	default:
		return hint
	}
}

// deriveMinute reads the match clock out of the provider's free-form
// live time. "Half Time" pins to 45; anything without leading digits
// ("HT+2", "Penalties") yields no minute at all.
func deriveMinute(status *rawMatchStatus) *int {
	if status == nil {
		return nil
	}

	liveTime := strings.TrimSpace(status.LiveTime)
	if liveTime == "" {
		return nil
	}
	if strings.EqualFold(liveTime, halfTimeLabel) {
		mark := halfTimeMark
		return &mark
	}

	digits := leadingDigitsRegex.FindString(liveTime)
	if digits == "" {
		return nil
	}
	minute, err := strconv.Atoi(digits)
	if err != nil {
		return nil
	}

	return &minute
}

func transformMatch(raw rawMatch, league usecase.FeedLeague, statusHint string) usecase.FeedMatch {
	fm := usecase.FeedMatch{
		ExternalID:  raw.MatchID,
		HomeTeam:    transformTeam(raw.HomeTeam),
		AwayTeam:    transformTeam(raw.AwayTeam),
		Status:      deriveStatus(raw.MatchStatus, statusHint),
		Competition: league.Name,
		Country:     league.Country,
	}

	// The match clock only means anything for an in-play record; a
	// finished match can still carry a stale live_time.
	if fm.Status == statusLive {
		fm.Minute = deriveMinute(raw.MatchStatus)
	}

	if raw.Scores != nil {
		fm.HomeScore = raw.Scores.Home
		fm.AwayScore = raw.Scores.Away
		fm.HomeHalfScore = raw.Scores.HomeFirstHalf
		fm.AwayHalfScore = raw.Scores.AwayFirstHalf
		fm.HomeSecondHalfScore = raw.Scores.HomeSecondHalf
		fm.AwaySecondHalfScore = raw.Scores.AwaySecondHalf
	}

	if raw.Timestamp > 0 {
		fm.StartTime = time.Unix(raw.Timestamp, 0).Local().Format(kickoffLayout)
	}

	return fm
}

// slugify builds a stable grouping key for tournaments the provider
// returns without a URL.
func slugify(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ' || r == '-' || r == '_':
			b.WriteByte('-')
		}
	}

	return b.String()
}
