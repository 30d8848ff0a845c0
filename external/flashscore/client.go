package flashscore

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"

	"github.com/footpanel/matchsync/internal/platform/cache"
	"github.com/footpanel/matchsync/internal/platform/logging"
	"github.com/footpanel/matchsync/internal/platform/resilience"
	"github.com/footpanel/matchsync/internal/usecase"
)

const (
	defaultBaseURL = "https://flashscore.p.rapidapi.com"

	listByDayPath  = "/api/flashscore/v2/matches/list"
	listByDatePath = "/api/flashscore/v2/matches/list-by-date"
	liveListPath   = "/api/flashscore/v2/matches/live"

	soccerSportID = "1"

	// The day-offset endpoint only understands a window around today;
	// anything further out has to go through the explicit-date one.
	dayOffsetWindow = 7

	defaultLiveTTL        = 3 * time.Second
	defaultDateTTL        = 30 * time.Second
	defaultCacheRetention = time.Minute
)

var errFlashscoreTransient = crerr.New("flashscore transient failure")

type ClientConfig struct {
	HTTPClient     *http.Client
	BaseURL        string
	Host           string
	APIKey         string
	Timeout        time.Duration
	MaxRetries     int
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
	LiveTTL        time.Duration
	DateTTL        time.Duration
	CacheRetention time.Duration
	Now            func() time.Time
}

// Client speaks the provider's REST surface and hands back normalized
// tournament groups. Responses are memoized so bursts of identical
// lookups cost one upstream call.
type Client struct {
	httpClient     *http.Client
	baseURL        string
	host           string
	apiKey         string
	maxRetries     int
	logger         *logging.Logger
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
	responses      *cache.Store
	liveTTL        time.Duration
	dateTTL        time.Duration
	now            func() time.Time
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = 15 * time.Second
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	host := strings.TrimSpace(cfg.Host)
	if host == "" {
		if parsed, err := url.Parse(baseURL); err == nil {
			host = parsed.Host
		}
	}

	liveTTL := cfg.LiveTTL
	if liveTTL <= 0 {
		liveTTL = defaultLiveTTL
	}
	dateTTL := cfg.DateTTL
	if dateTTL <= 0 {
		dateTTL = defaultDateTTL
	}
	retention := cfg.CacheRetention
	if retention <= 0 {
		retention = defaultCacheRetention
	}

	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)

	return &Client{
		httpClient:     httpClient,
		baseURL:        baseURL,
		host:           host,
		apiKey:         strings.TrimSpace(cfg.APIKey),
		maxRetries:     maxInt(cfg.MaxRetries, 0),
		logger:         logger,
		breaker:        resilience.NewCircuitBreaker(breakerCfg.FailureThreshold, breakerCfg.OpenTimeout, breakerCfg.HalfOpenMaxReq),
		circuitEnabled: breakerCfg.Enabled,
		responses:      cache.NewStore(retention),
		liveTTL:        liveTTL,
		dateTTL:        dateTTL,
		now:            now,
	}
}

// MatchesForDate fetches the schedule for one calendar day. Dates
// within a week of today use the provider's day-offset listing, which
// its CDN caches far more aggressively than the explicit-date one.
func (c *Client) MatchesForDate(ctx context.Context, date time.Time) ([]usecase.TournamentGroup, error) {
	ctx, span := startClientSpan(ctx, "flashscore.Client.MatchesForDate")
	defer span.End()

	target := midnight(date)
	today := midnight(c.now())
	diffDays := int(math.Round(target.Sub(today).Hours() / 24))

	path := listByDatePath
	query := url.Values{"sport_id": {soccerSportID}}
	if diffDays >= -dayOffsetWindow && diffDays <= dayOffsetWindow {
		path = listByDayPath
		query.Set("day", strconv.Itoa(diffDays))
	} else {
		query.Set("date", target.Format("2006-01-02"))
	}

	groups, err := c.fetchGroups(ctx, path, query, c.dateTTL, statusUpcoming, false)
	if err != nil {
		return nil, fmt.Errorf("fetch matches for date=%s: %w", target.Format("2006-01-02"), err)
	}

	return groups, nil
}

// LiveMatches fetches everything currently in play. The live board is
// decoration rather than source of record, so an upstream failure
// degrades to an empty list instead of an error.
func (c *Client) LiveMatches(ctx context.Context) ([]usecase.TournamentGroup, error) {
	ctx, span := startClientSpan(ctx, "flashscore.Client.LiveMatches")
	defer span.End()

	query := url.Values{"sport_id": {soccerSportID}}
	groups, err := c.fetchGroups(ctx, liveListPath, query, c.liveTTL, statusLive, true)
	if err != nil {
		c.logger.WarnContext(ctx, "live match fetch failed, serving empty board", "error", err)
		return []usecase.TournamentGroup{}, nil
	}

	return groups, nil
}

func (c *Client) fetchGroups(ctx context.Context, path string, query url.Values, ttl time.Duration, statusHint string, liveOnly bool) ([]usecase.TournamentGroup, error) {
	key := path + "?" + query.Encode()
	out, err := c.responses.GetOrLoad(ctx, key, ttl, func(ctx context.Context) (any, error) {
		raw, err := c.doRequest(ctx, path, query)
		if err != nil {
			return nil, err
		}
		return c.decodeGroups(ctx, raw, statusHint, liveOnly)
	})
	if err != nil {
		return nil, err
	}

	groups, ok := out.([]usecase.TournamentGroup)
	if !ok {
		return nil, fmt.Errorf("unexpected cached payload type %T", out)
	}

	return groups, nil
}

func (c *Client) doRequest(ctx context.Context, path string, query url.Values) ([]byte, error) {
	if c.circuitEnabled {
		if err := c.breaker.Allow(); err != nil {
			c.logger.WarnContext(ctx, "flashscore circuit breaker rejected request", "state", c.breaker.State())
			return nil, fmt.Errorf("%w: score feed is temporarily unavailable", usecase.ErrDependencyUnavailable)
		}
	}

	fullURL := c.baseURL + path
	if encoded := query.Encode(); encoded != "" {
		fullURL += "?" + encoded
	}

	raw, err := c.executeRequest(ctx, fullURL)
	if c.circuitEnabled {
		if err != nil && isFlashscoreCircuitFailure(err) {
			c.breaker.RecordFailure()
		} else {
			c.breaker.RecordSuccess()
		}
	}

	return raw, err
}

func (c *Client) executeRequest(ctx context.Context, fullURL string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("accept", "application/json")
		req.Header.Set("x-rapidapi-host", c.host)
		req.Header.Set("x-rapidapi-key", c.apiKey)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("%w: send request: %v", errFlashscoreTransient, err)
		} else {
			raw, readErr := io.ReadAll(io.LimitReader(resp.Body, 6<<20))
			_ = resp.Body.Close()
			if readErr != nil {
				lastErr = fmt.Errorf("%w: read response body: %v", errFlashscoreTransient, readErr)
			} else if resp.StatusCode >= 200 && resp.StatusCode < 300 {
				return raw, nil
			} else if isRetryableStatus(resp.StatusCode) {
				lastErr = fmt.Errorf("%w: provider status=%d body=%s", errFlashscoreTransient, resp.StatusCode, abbreviateBody(raw))
			} else {
				return nil, fmt.Errorf("provider status=%d body=%s", resp.StatusCode, abbreviateBody(raw))
			}
		}

		if attempt == c.maxRetries {
			break
		}
		backoff := time.Duration(attempt+1) * time.Second
		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("provider request failed")
	}
	c.logger.WarnContext(ctx, "flashscore request failed", "url", fullURL, "error", lastErr)
	return nil, lastErr
}

// decodeGroups turns the provider's tournament list into groups keyed
// by tournament URL. Tournaments and matches that fail to decode are
// skipped with a warning; the rest of the payload still goes through.
// statusHint is the state a record without decisive flags defaults to;
// liveOnly additionally drops everything that did not derive as live.
func (c *Client) decodeGroups(ctx context.Context, raw []byte, statusHint string, liveOnly bool) ([]usecase.TournamentGroup, error) {
	var tournaments []json.RawMessage
	if err := sonic.Unmarshal(raw, &tournaments); err != nil {
		return nil, fmt.Errorf("decode provider payload: %w", err)
	}

	groups := make([]usecase.TournamentGroup, 0, len(tournaments))
	index := make(map[string]int, len(tournaments))
	for i, item := range tournaments {
		var t rawTournament
		if err := sonic.Unmarshal(item, &t); err != nil {
			c.logger.WarnContext(ctx, "skip malformed tournament", "position", i, "error", err)
			continue
		}

		league := usecase.FeedLeague{
			ID:      t.TournamentURL,
			Name:    t.Name,
			Country: t.CountryName,
			LogoURL: t.ImagePath,
			URL:     t.TournamentURL,
		}
		groupKey := t.TournamentURL
		if groupKey == "" {
			groupKey = slugify(t.CountryName + " " + t.Name)
			league.ID = groupKey
		}

		matches := make([]usecase.FeedMatch, 0, len(t.Matches))
		for j, rawItem := range t.Matches {
			var m rawMatch
			if err := sonic.Unmarshal(rawItem, &m); err != nil {
				c.logger.WarnContext(ctx, "skip malformed match", "tournament", t.Name, "position", j, "error", err)
				continue
			}
			fm := transformMatch(m, league, statusHint)
			if liveOnly && fm.Status != statusLive {
				continue
			}
			matches = append(matches, fm)
		}
		if len(matches) == 0 {
			continue
		}

		if at, ok := index[groupKey]; ok {
			groups[at].Matches = append(groups[at].Matches, matches...)
			continue
		}
		index[groupKey] = len(groups)
		groups = append(groups, usecase.TournamentGroup{League: league, Matches: matches})
	}

	return groups, nil
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func isFlashscoreCircuitFailure(err error) bool {
	if err == nil {
		return false
	}
	return stderrors.Is(err, errFlashscoreTransient)
}

func isRetryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}

func abbreviateBody(body []byte) string {
	text := strings.TrimSpace(string(body))
	if len(text) <= 240 {
		return text
	}
	return text[:240] + "..."
}

func maxInt(left, right int) int {
	if left > right {
		return left
	}
	return right
}
