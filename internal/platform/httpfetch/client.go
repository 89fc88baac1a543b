package httpfetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/valyala/bytebufferpool"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/riskibarqy/football-data-pipeline/internal/platform/cache"
	"github.com/riskibarqy/football-data-pipeline/internal/platform/logging"
	"github.com/riskibarqy/football-data-pipeline/internal/platform/resilience"
)

const (
	defaultTimeout      = 30 * time.Second
	defaultMaxBodyBytes = 16 << 20
	defaultRetryAfter   = 60 * time.Second
	maxRetryAfter       = 5 * time.Minute
)

var (
	// ErrTransient marks failures worth retrying: network errors, 429 and 5xx.
	ErrTransient = crerr.New("provider transient failure")
	// ErrUnavailable is returned while the provider's circuit is open.
	ErrUnavailable = crerr.New("provider temporarily unavailable")
)

// StatusError is a non-2xx provider response.
type StatusError struct {
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("provider status=%d body=%s", e.Status, e.Body)
}

// IsNotFound reports whether err is a provider 404.
func IsNotFound(err error) bool {
	var statusErr *StatusError
	return errors.As(err, &statusErr) && statusErr.Status == http.StatusNotFound
}

type Config struct {
	// Name identifies the provider in logs.
	Name         string
	HTTPClient   *http.Client
	BaseURL      string
	Headers      map[string]string
	Secrets      []string
	Timeout      time.Duration
	MaxRetries   int
	BaseBackoff  time.Duration
	RateLimit    time.Duration
	MaxBodyBytes int64

	Cache          *cache.FileStore
	CircuitBreaker resilience.CircuitBreakerConfig
	Logger         *logging.Logger
}

// Client is a rate-limited, cached GET client for JSON provider APIs.
type Client struct {
	name         string
	httpClient   *http.Client
	baseURL      string
	headers      map[string]string
	secrets      []string
	maxRetries   int
	baseBackoff  time.Duration
	maxBodyBytes int64

	cache    *cache.FileStore
	throttle *resilience.Throttle
	breaker  *resilience.CircuitBreaker
	flight   resilience.Group[[]byte]
	logger   *logging.Logger
}

func New(cfg Config) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		transport := otelhttp.NewTransport(http.DefaultTransport,
			otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
				return "provider." + cfg.Name + " " + r.Method + " " + r.URL.Path
			}),
		)
		httpClient = &http.Client{Timeout: cfg.Timeout, Transport: transport}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = defaultTimeout
	}

	baseBackoff := cfg.BaseBackoff
	if baseBackoff <= 0 {
		baseBackoff = time.Second
	}
	maxBody := cfg.MaxBodyBytes
	if maxBody <= 0 {
		maxBody = defaultMaxBodyBytes
	}

	secrets := make([]string, 0, len(cfg.Secrets))
	for _, s := range cfg.Secrets {
		if s = strings.TrimSpace(s); s != "" {
			secrets = append(secrets, s)
		}
	}

	breaker := resilience.NewCircuitBreakerFromConfig(cfg.CircuitBreaker)

	return &Client{
		name:         cfg.Name,
		httpClient:   httpClient,
		baseURL:      strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
		headers:      cfg.Headers,
		secrets:      secrets,
		maxRetries:   max(cfg.MaxRetries, 0),
		baseBackoff:  baseBackoff,
		maxBodyBytes: maxBody,
		cache:        cfg.Cache,
		throttle:     resilience.NewThrottle(cfg.RateLimit),
		breaker:      breaker,
		logger:       logger.With("provider", cfg.Name),
	}
}

// GetJSON fetches path with query and decodes the body into target. The raw
// body is returned for callers that keep provider payloads.
func (c *Client) GetJSON(ctx context.Context, path string, query url.Values, target any) ([]byte, error) {
	raw, err := c.Get(ctx, path, query)
	if err != nil {
		return nil, err
	}
	if target == nil {
		return raw, nil
	}
	if err := sonic.Unmarshal(raw, target); err != nil {
		return nil, fmt.Errorf("decode %s payload: %w", c.name, err)
	}
	return raw, nil
}

// Get returns the response body for path, served from the cache when fresh.
func (c *Client) Get(ctx context.Context, path string, query url.Values) ([]byte, error) {
	fullURL := c.baseURL + path
	if encoded := query.Encode(); encoded != "" {
		fullURL += "?" + encoded
	}

	fetched := false
	raw, err := c.cache.GetOrLoad(ctx, fullURL, func(ctx context.Context) ([]byte, error) {
		fetched = true
		if err := c.breaker.Allow(); err != nil {
			c.logger.WarnContext(ctx, "provider circuit breaker rejected request", "state", c.breaker.State())
			return nil, crerr.Wrapf(ErrUnavailable, "%s", c.name)
		}
		body, err, _ := c.flight.Do(fullURL, func() ([]byte, error) {
			body, reqErr := c.executeRequest(ctx, fullURL)
			c.breaker.Record(reqErr, isCircuitFailure)
			return body, reqErr
		})
		return body, err
	})
	if raw != nil {
		if err != nil {
			c.logger.WarnContext(ctx, "provider cache write failed", "path", path, "error", err)
		}
		if !fetched {
			c.logger.DebugContext(ctx, "provider cache hit", "path", path)
		}
		return raw, nil
	}
	return nil, err
}

func (c *Client) executeRequest(ctx context.Context, fullURL string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if err := c.throttle.Wait(ctx); err != nil {
			return nil, err
		}

		body, wait, err := c.do(ctx, fullURL)
		if err == nil {
			return body, nil
		}
		lastErr = err
		if !errors.Is(err, ErrTransient) || attempt == c.maxRetries {
			break
		}

		if wait > 0 {
			c.logger.WarnContext(ctx, "provider rate limit hit", "retry_after", wait.String())
			c.throttle.Defer(wait)
			continue
		}

		backoff := time.Duration(attempt+1) * c.baseBackoff
		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	c.logger.WarnContext(ctx, "provider request failed", "url", c.redact(fullURL), "error", lastErr)
	return nil, lastErr
}

// do performs one attempt. wait carries the server-requested delay for 429s.
func (c *Client) do(ctx context.Context, fullURL string) ([]byte, time.Duration, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, 0, ctx.Err()
		}
		return nil, 0, crerr.Wrapf(ErrTransient, "send request: %s", c.redact(err.Error()))
	}
	defer resp.Body.Close()

	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)
	if _, err := buf.ReadFrom(io.LimitReader(resp.Body, c.maxBodyBytes)); err != nil {
		return nil, 0, crerr.Wrapf(ErrTransient, "read response body: %v", err)
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return append([]byte(nil), buf.B...), 0, nil
	}

	statusErr := &StatusError{Status: resp.StatusCode, Body: abbreviate(c.redact(buf.String()))}
	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, retryAfter(resp.Header.Get("Retry-After"), time.Now()), errors.Join(crerr.Wrap(ErrTransient, "rate limited"), statusErr)
	}
	if isRetryableStatus(resp.StatusCode) {
		return nil, 0, errors.Join(crerr.Wrap(ErrTransient, "retryable status"), statusErr)
	}
	return nil, 0, statusErr
}

func (c *Client) redact(value string) string {
	for _, s := range c.secrets {
		value = strings.ReplaceAll(value, s, "REDACTED")
	}
	return value
}

// retryAfter parses delay-seconds or an HTTP date, defaulting to a minute.
func retryAfter(header string, now time.Time) time.Duration {
	header = strings.TrimSpace(header)
	if header == "" {
		return defaultRetryAfter
	}
	d := defaultRetryAfter
	if secs, err := strconv.Atoi(header); err == nil {
		d = time.Duration(secs) * time.Second
	} else if at, err := http.ParseTime(header); err == nil {
		d = at.Sub(now)
	}
	if d <= 0 {
		d = time.Second
	}
	return min(d, maxRetryAfter)
}

func isRetryableStatus(status int) bool {
	return status == http.StatusTooManyRequests || status >= 500
}

func isCircuitFailure(err error) bool {
	return errors.Is(err, ErrTransient)
}

func abbreviate(body string) string {
	body = strings.TrimSpace(body)
	if len(body) > 256 {
		return body[:256] + "..."
	}
	return body
}
