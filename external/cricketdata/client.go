package cricketdata

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v5"
	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/cricket-fantasy/internal/domain/scorecard"
	"github.com/riskibarqy/cricket-fantasy/internal/platform/logging"
	"github.com/riskibarqy/cricket-fantasy/internal/platform/resilience"
	"github.com/riskibarqy/cricket-fantasy/internal/usecase"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"
)

const (
	defaultBaseURL        = "https://cricketdataapi.com/api"
	defaultTimeout        = 20 * time.Second
	defaultMaxAttempts    = 3
	defaultBackoffInitial = 500 * time.Millisecond
	defaultBackoffMax     = 8 * time.Second
	maxResponseBytes      = 6 << 20
)

var apiKeyParamRegex = regexp.MustCompile(`apikey=[^&\s"']+`)
var errTransient = crerr.New("cricketdata transient failure")

type ClientConfig struct {
	HTTPClient     *http.Client
	BaseURL        string
	APIKey         string
	Timeout        time.Duration
	MaxAttempts    int
	BackoffInitial time.Duration
	BackoffMax     time.Duration
	// RatePerSecond <= 0 disables client-side throttling.
	RatePerSecond  float64
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

// Client fetches match lists and scorecards. Every request goes through the
// rate limiter, the circuit breaker and a bounded exponential retry; identical
// in-flight requests are collapsed into one.
type Client struct {
	httpClient     *http.Client
	baseURL        string
	apiKey         string
	maxAttempts    int
	backoffInitial time.Duration
	backoffMax     time.Duration
	limiter        *rate.Limiter
	logger         *logging.Logger
	breaker        *resilience.CircuitBreaker
	flight         singleflight.Group
}

var _ usecase.MatchProvider = (*Client)(nil)

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	limiter := rate.NewLimiter(rate.Inf, 1)
	if cfg.RatePerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RatePerSecond), 1)
	}

	breaker := resilience.NewCircuitBreaker(cfg.CircuitBreaker.WithDefaults("cricketdata"), func(name string, from, to resilience.CircuitState) {
		logger.Warn("circuit breaker state changed", "breaker", name, "from", from, "to", to)
	})

	return &Client{
		httpClient:     httpClient,
		baseURL:        baseURL,
		apiKey:         strings.TrimSpace(cfg.APIKey),
		maxAttempts:    positiveOr(cfg.MaxAttempts, defaultMaxAttempts),
		backoffInitial: positiveDurationOr(cfg.BackoffInitial, defaultBackoffInitial),
		backoffMax:     positiveDurationOr(cfg.BackoffMax, defaultBackoffMax),
		limiter:        limiter,
		logger:         logger,
		breaker:        breaker,
	}
}

// FetchMatches lists every match the provider knows about. The payload may be
// a bare array or wrapped in {"data": [...]}.
func (c *Client) FetchMatches(ctx context.Context) ([]usecase.ExternalMatch, error) {
	raw, err := c.doJSON(ctx, "/matches", nil)
	if err != nil {
		return nil, fmt.Errorf("fetch match list: %w", err)
	}
	items, err := decodeMatchList(raw)
	if err != nil {
		return nil, err
	}

	out := make([]usecase.ExternalMatch, 0, len(items))
	for _, item := range items {
		id := strings.TrimSpace(string(item.ID))
		if id == "" {
			continue
		}
		out = append(out, usecase.ExternalMatch{
			ID:        id,
			SeriesID:  strings.TrimSpace(firstNonEmpty(string(item.SeriesID), string(item.SeriesIDSnake))),
			Name:      strings.TrimSpace(item.Name),
			Status:    item.Status,
			StartTime: strings.TrimSpace(firstNonEmpty(item.DateTime, item.DateTimeGMT, item.Date)),
		})
	}
	return out, nil
}

func (c *Client) FetchScorecard(ctx context.Context, matchID string) (scorecard.Scorecard, error) {
	matchID = strings.TrimSpace(matchID)
	if matchID == "" {
		return scorecard.Scorecard{}, fmt.Errorf("%w: match id is required", usecase.ErrInvalidInput)
	}

	raw, err := c.doJSON(ctx, "/matches/"+url.PathEscape(matchID)+"/scorecard", nil)
	if err != nil {
		return scorecard.Scorecard{}, fmt.Errorf("fetch scorecard match_id=%s: %w", matchID, err)
	}
	card, err := DecodeScorecard(raw)
	if err != nil {
		return scorecard.Scorecard{}, fmt.Errorf("match_id=%s: %w", matchID, err)
	}
	card.MatchID = matchID
	return card, nil
}

func (c *Client) doJSON(ctx context.Context, path string, query url.Values) ([]byte, error) {
	values := url.Values{}
	for key, items := range query {
		for _, item := range items {
			values.Add(key, item)
		}
	}
	if c.apiKey != "" {
		values.Set("apikey", c.apiKey)
	}

	fullURL := c.baseURL + path
	if encoded := values.Encode(); encoded != "" {
		fullURL += "?" + encoded
	}

	out, err, _ := c.flight.Do(path+"?"+values.Encode(), func() (any, error) {
		var raw []byte
		err := c.breaker.Execute(func() error {
			var reqErr error
			raw, reqErr = c.fetch(ctx, fullURL)
			return reqErr
		}, isCircuitFailure)
		return raw, err
	})
	if err != nil {
		if crerr.Is(err, resilience.ErrCircuitOpen) {
			c.logger.WarnContext(ctx, "cricketdata circuit breaker rejected request", "state", c.breaker.State())
			return nil, fmt.Errorf("%w: cricket data provider is temporarily unavailable", usecase.ErrDependencyUnavailable)
		}
		return nil, err
	}

	raw, ok := out.([]byte)
	if !ok {
		return nil, fmt.Errorf("unexpected response payload type %T", out)
	}
	return raw, nil
}

func (c *Client) fetch(ctx context.Context, fullURL string) ([]byte, error) {
	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = c.backoffInitial
	policy.MaxInterval = c.backoffMax

	raw, err := backoff.Retry(ctx,
		func() ([]byte, error) { return c.attempt(ctx, fullURL) },
		backoff.WithBackOff(policy),
		backoff.WithMaxTries(uint(c.maxAttempts)),
		backoff.WithNotify(func(err error, wait time.Duration) {
			c.logger.DebugContext(ctx, "cricketdata request retry scheduled", "url", redactAPIURL(fullURL), "wait", wait, "error", err)
		}),
	)
	if err != nil {
		c.logger.WarnContext(ctx, "cricketdata request failed", "url", redactAPIURL(fullURL), "error", err)
		return nil, err
	}
	return raw, nil
}

func (c *Client) attempt(ctx context.Context, fullURL string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, backoff.Permanent(fmt.Errorf("rate limit wait: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, backoff.Permanent(fmt.Errorf("build request: %w", err))
	}
	req.Header.Set("accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, backoff.Permanent(ctxErr)
		}
		return nil, fmt.Errorf("%w: send request: %s", errTransient, sanitizeSensitiveText(err.Error(), c.apiKey))
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: read response body: %v", errTransient, err)
	}
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return raw, nil
	}
	if isRetryableStatus(resp.StatusCode) {
		return nil, fmt.Errorf("%w: provider status=%d body=%s", errTransient, resp.StatusCode, abbreviateBody(raw))
	}
	return nil, backoff.Permanent(fmt.Errorf("provider status=%d body=%s", resp.StatusCode, abbreviateBody(raw)))
}

func sanitizeSensitiveText(value, apiKey string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return value
	}
	if apiKey != "" {
		value = strings.ReplaceAll(value, apiKey, "REDACTED")
	}
	return apiKeyParamRegex.ReplaceAllString(value, "apikey=REDACTED")
}

func isCircuitFailure(err error) bool {
	return crerr.Is(err, errTransient)
}

func isRetryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}

func redactAPIURL(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	query := parsed.Query()
	if query.Has("apikey") {
		query.Set("apikey", "REDACTED")
		parsed.RawQuery = query.Encode()
	}
	return parsed.String()
}

func abbreviateBody(body []byte) string {
	text := strings.TrimSpace(string(body))
	if len(text) <= 240 {
		return text
	}
	return text[:240] + "..."
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if strings.TrimSpace(value) != "" {
			return value
		}
	}
	return ""
}

func positiveOr(value, fallback int) int {
	if value > 0 {
		return value
	}
	return fallback
}

func positiveDurationOr(value, fallback time.Duration) time.Duration {
	if value > 0 {
		return value
	}
	return fallback
}
