package riot

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"
)

// MaxMatchCount is the largest page Match v5 will return for an ids request.
const MaxMatchCount = 100

// Client talks to the Riot Games REST API with a single API key.
// The regional host serves account and match routes; the platform host
// serves summoner, mastery and league routes.
type Client struct {
	apiKey      string
	regionalURL string
	platformURL string
	httpClient  *http.Client
	logger      *zap.Logger
	observe     func(endpoint string, statusCode int)
}

// Option configures a Client.
type Option func(*Client)

// WithRegionalURL overrides the regional routing host (account, match).
func WithRegionalURL(u string) Option {
	return func(c *Client) { c.regionalURL = u }
}

// WithPlatformURL overrides the platform host (summoner, mastery, league).
func WithPlatformURL(u string) Option {
	return func(c *Client) { c.platformURL = u }
}

// WithHTTPClient sets the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithLogger sets the logger used for request tracing.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// WithObserver registers a callback invoked once per completed request with
// the endpoint name and the HTTP status code (0 on transport failure).
func WithObserver(fn func(endpoint string, statusCode int)) Option {
	return func(c *Client) { c.observe = fn }
}

// NewClient creates a Client for the Americas region and NA1 platform unless
// overridden by options.
func NewClient(apiKey string, opts ...Option) *Client {
	c := &Client{
		apiKey:      apiKey,
		regionalURL: RIOT_AMERICAS_URL,
		platformURL: RIOT_NA1_URL,
		httpClient:  &http.Client{Timeout: 10 * time.Second},
		logger:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// RegionalURL builds the routing host for a region name such as "americas".
func RegionalURL(region string) string {
	return fmt.Sprintf("https://%s.api.riotgames.com", region)
}

// PlatformURL builds the platform host for a platform id such as "na1".
func PlatformURL(platform string) string {
	return fmt.Sprintf("https://%s.api.riotgames.com", platform)
}

// makeAPIRequest handles the HTTP boilerplate shared by every endpoint.
// op is used in error messages, endpoint labels metrics.
func (c *Client) makeAPIRequest(ctx context.Context, endpoint, op, rawURL string, result interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("%s: build request: %w", op, err)
	}
	req.Header.Set("X-Riot-Token", c.apiKey)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.record(endpoint, 0)
		return fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	c.record(endpoint, resp.StatusCode)

	c.logger.Debug("riot request",
		zap.String("endpoint", endpoint),
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", time.Since(start)),
	)

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%s: read body: %w", op, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return newAPIError(op, resp.StatusCode, body)
	}

	if err := json.Unmarshal(body, result); err != nil {
		return fmt.Errorf("%s: decode body: %w", op, err)
	}
	return nil
}

func (c *Client) record(endpoint string, statusCode int) {
	if c.observe != nil {
		c.observe(endpoint, statusCode)
	}
}

func (c *Client) GetAccountByRiotID(ctx context.Context, gameName, tagLine string) (*Account, error) {
	u := fmt.Sprintf("%s/riot/account/v1/accounts/by-riot-id/%s/%s",
		c.regionalURL, url.PathEscape(gameName), url.PathEscape(tagLine))
	op := fmt.Sprintf("fetch account for %s#%s", gameName, tagLine)

	var account Account
	if err := c.makeAPIRequest(ctx, "account", op, u, &account); err != nil {
		return nil, err
	}

	return &account, nil
}

func (c *Client) GetSummonerByPUUID(ctx context.Context, puuid string) (*Summoner, error) {
	u := fmt.Sprintf("%s/lol/summoner/v4/summoners/by-puuid/%s", c.platformURL, url.PathEscape(puuid))
	op := fmt.Sprintf("fetch summoner for puuid %s", puuid)

	var summoner Summoner
	if err := c.makeAPIRequest(ctx, "summoner", op, u, &summoner); err != nil {
		return nil, err
	}

	return &summoner, nil
}
