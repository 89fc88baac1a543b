package understat

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
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
	Name             = source.ProviderUnderstat
	defaultBaseURL   = "https://understat.com"
	defaultRateLimit = 2 * time.Second
)

type ClientConfig struct {
	HTTPClient     *http.Client
	BaseURL        string
	Timeout        time.Duration
	MaxRetries     int
	RateLimit      time.Duration
	Cache          *cache.FileStore
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

var _ source.Collector = (*Client)(nil)

// Client collects per-match expected goals from Understat league pages.
type Client struct {
	http         *httpfetch.Client
	logger       *logging.Logger
	competitions []source.Competition
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
	rateLimit := cfg.RateLimit
	if rateLimit <= 0 {
		rateLimit = defaultRateLimit
	}

	competitions := make([]source.Competition, 0)
	for _, item := range source.DefaultCompetitions() {
		if _, ok := item.ProviderID(Name); ok {
			competitions = append(competitions, item)
		}
	}

	return &Client{
		http: httpfetch.New(httpfetch.Config{
			Name:       Name,
			HTTPClient: cfg.HTTPClient,
			BaseURL:    baseURL,
			Headers: map[string]string{
				"X-Requested-With": "XMLHttpRequest",
			},
			Timeout:        cfg.Timeout,
			MaxRetries:     cfg.MaxRetries,
			RateLimit:      rateLimit,
			Cache:          cfg.Cache,
			CircuitBreaker: cfg.CircuitBreaker,
			Logger:         logger,
		}),
		logger:       logger,
		competitions: competitions,
	}
}

func (c *Client) Name() string {
	return Name
}

// ListCompetitions returns the leagues Understat covers. The provider has no
// listing endpoint.
func (c *Client) ListCompetitions(_ context.Context) ([]source.Competition, error) {
	out := make([]source.Competition, len(c.competitions))
	copy(out, c.competitions)
	return out, nil
}

func (c *Client) ListMatches(ctx context.Context, competitionID, season string) ([]match.RawRecord, error) {
	competitionID = strings.TrimSpace(competitionID)
	if competitionID == "" {
		return nil, fmt.Errorf("league code is required")
	}
	year := source.SeasonStartYear(season)
	if year == "" {
		return nil, fmt.Errorf("season is required for understat")
	}

	var data leagueData
	path := "/getLeagueData/" + url.PathEscape(competitionID) + "/" + url.PathEscape(year)
	if _, err := c.http.GetJSON(ctx, path, nil, &data); err != nil {
		return nil, fmt.Errorf("fetch league data league=%s season=%s: %w", competitionID, year, err)
	}

	competition := competitionID
	for _, item := range c.competitions {
		if id, _ := item.ProviderID(Name); id == competitionID {
			competition = item.Name
			break
		}
	}

	out := make([]match.RawRecord, 0, len(data.Dates))
	skipped := 0
	for _, item := range data.Dates {
		rec, ok := toRecord(item, competition, year)
		if !ok {
			skipped++
			continue
		}
		out = append(out, rec)
	}
	if skipped > 0 {
		c.logger.WarnContext(ctx, "understat matches skipped for missing fields", "league", competitionID, "skipped", skipped)
	}
	return out, nil
}

func (c *Client) MatchDetails(_ context.Context, matchID string) (match.RawRecord, error) {
	return nil, fmt.Errorf("understat match %s: %w", matchID, source.ErrUnsupported)
}

func toRecord(item matchItem, competition, season string) (match.RawRecord, bool) {
	home := strings.TrimSpace(item.Home.Title)
	away := strings.TrimSpace(item.Away.Title)
	if item.ID == "" || home == "" || away == "" {
		return nil, false
	}

	rec := match.RawRecord{
		match.FieldMatchID:     item.ID,
		match.FieldDate:        item.Datetime,
		match.FieldHomeTeam:    home,
		match.FieldAwayTeam:    away,
		match.FieldCompetition: competition,
		match.FieldSeason:      season,
		"is_result":            item.IsResult,
	}
	if item.IsResult {
		setPair(rec, match.FieldHomeScore, match.FieldAwayScore, item.Goals)
		setPair(rec, match.FieldHomeXG, match.FieldAwayXG, item.XG)
	}
	if item.Forecast != nil {
		rec["forecast_home_win"] = item.Forecast.Win
		rec["forecast_draw"] = item.Forecast.Draw
		rec["forecast_away_win"] = item.Forecast.Loss
	}
	return rec, true
}

func setPair(rec match.RawRecord, homeField, awayField string, pair sidePair) {
	if pair.Home == nil || pair.Away == nil {
		return
	}
	rec[homeField] = *pair.Home
	rec[awayField] = *pair.Away
}
