package footballdata

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/riskibarqy/football-data-pipeline/internal/domain/match"
	"github.com/riskibarqy/football-data-pipeline/internal/domain/source"
	"github.com/riskibarqy/football-data-pipeline/internal/platform/cache"
	"github.com/riskibarqy/football-data-pipeline/internal/platform/httpfetch"
	"github.com/riskibarqy/football-data-pipeline/internal/platform/logging"
	"github.com/riskibarqy/football-data-pipeline/internal/platform/resilience"
)

const (
	Name           = source.ProviderFootballData
	defaultBaseURL = "https://api.football-data.org/v4"
)

type ClientConfig struct {
	HTTPClient     *http.Client
	BaseURL        string
	Token          string
	Timeout        time.Duration
	MaxRetries     int
	RateLimit      time.Duration
	Cache          *cache.FileStore
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

var _ source.Collector = (*Client)(nil)

// Client collects fixtures and full-time scores from football-data.org.
type Client struct {
	http   *httpfetch.Client
	logger *logging.Logger
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	baseURL := strings.TrimSpace(cfg.BaseURL)
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	token := strings.TrimSpace(cfg.Token)
	if token == "" {
		logger.Warn("football-data token not configured, requests will be rate limited or rejected")
	}

	headers := map[string]string{}
	if token != "" {
		headers["X-Auth-Token"] = token
	}

	return &Client{
		http: httpfetch.New(httpfetch.Config{
			Name:           Name,
			HTTPClient:     cfg.HTTPClient,
			BaseURL:        baseURL,
			Headers:        headers,
			Secrets:        []string{token},
			Timeout:        cfg.Timeout,
			MaxRetries:     cfg.MaxRetries,
			RateLimit:      cfg.RateLimit,
			Cache:          cfg.Cache,
			CircuitBreaker: cfg.CircuitBreaker,
			Logger:         logger,
		}),
		logger: logger,
	}
}

func (c *Client) Name() string {
	return Name
}

func (c *Client) ListCompetitions(ctx context.Context) ([]source.Competition, error) {
	var env competitionsEnvelope
	if _, err := c.http.GetJSON(ctx, "/competitions", nil, &env); err != nil {
		return nil, fmt.Errorf("fetch competitions: %w", err)
	}

	out := make([]source.Competition, 0, len(env.Competitions))
	for _, item := range env.Competitions {
		if item.ID <= 0 || strings.TrimSpace(item.Name) == "" {
			continue
		}
		out = append(out, source.Competition{
			Name:        strings.TrimSpace(item.Name),
			Country:     strings.TrimSpace(item.Area.Name),
			ProviderIDs: map[string]string{Name: strconv.FormatInt(item.ID, 10)},
		})
	}
	return out, nil
}

func (c *Client) ListMatches(ctx context.Context, competitionID, season string) ([]match.RawRecord, error) {
	competitionID = strings.TrimSpace(competitionID)
	if competitionID == "" {
		return nil, fmt.Errorf("competition id is required")
	}

	query := url.Values{}
	if year := source.SeasonStartYear(season); year != "" {
		query.Set("season", year)
	}

	var env matchesEnvelope
	path := "/competitions/" + url.PathEscape(competitionID) + "/matches"
	if _, err := c.http.GetJSON(ctx, path, query, &env); err != nil {
		return nil, fmt.Errorf("fetch matches competition=%s season=%s: %w", competitionID, season, err)
	}

	out := make([]match.RawRecord, 0, len(env.Matches))
	skipped := 0
	for _, item := range env.Matches {
		if item.Competition.ID == 0 {
			item.Competition = env.Competition
		}
		rec, ok := toRecord(item, competitionID, seasonOf(item, query.Get("season")))
		if !ok {
			skipped++
			continue
		}
		out = append(out, rec)
	}
	if skipped > 0 {
		c.logger.WarnContext(ctx, "football-data matches skipped for missing fields", "competition_id", competitionID, "skipped", skipped)
	}
	return out, nil
}

func (c *Client) MatchDetails(ctx context.Context, matchID string) (match.RawRecord, error) {
	matchID = strings.TrimSpace(matchID)
	if matchID == "" {
		return nil, fmt.Errorf("match id is required")
	}

	var item matchItem
	if _, err := c.http.GetJSON(ctx, "/matches/"+url.PathEscape(matchID), nil, &item); err != nil {
		return nil, fmt.Errorf("fetch match %s: %w", matchID, err)
	}
	rec, ok := toRecord(item, strconv.FormatInt(item.Competition.ID, 10), seasonOf(item, ""))
	if !ok {
		return nil, fmt.Errorf("match %s: incomplete payload", matchID)
	}
	return rec, nil
}

func seasonOf(item matchItem, fallback string) string {
	if len(item.Season.StartDate) >= 4 {
		return item.Season.StartDate[:4]
	}
	return fallback
}

func toRecord(item matchItem, competitionID, season string) (match.RawRecord, bool) {
	if item.ID <= 0 || item.UTCDate == "" || item.HomeTeam.Name == "" || item.AwayTeam.Name == "" {
		return nil, false
	}

	rec := match.RawRecord{
		match.FieldMatchID:  strconv.FormatInt(item.ID, 10),
		match.FieldDate:     item.UTCDate,
		match.FieldHomeTeam: item.HomeTeam.Name,
		match.FieldAwayTeam: item.AwayTeam.Name,
		"competition_id":    competitionID,
		"status":            item.Status,
	}
	if item.Competition.Name != "" {
		rec[match.FieldCompetition] = item.Competition.Name
	}
	if season != "" {
		rec[match.FieldSeason] = season
	}
	if item.Matchday != nil {
		rec["matchday"] = *item.Matchday
	}
	if item.Score.FullTime.Home != nil && item.Score.FullTime.Away != nil {
		rec[match.FieldHomeScore] = *item.Score.FullTime.Home
		rec[match.FieldAwayScore] = *item.Score.FullTime.Away
	}
	if item.Odds.HomeWin != nil && item.Odds.Draw != nil && item.Odds.AwayWin != nil {
		rec[match.FieldHomeOdds] = *item.Odds.HomeWin
		rec[match.FieldDrawOdds] = *item.Odds.Draw
		rec[match.FieldAwayOdds] = *item.Odds.AwayWin
	}
	return rec, true
}
