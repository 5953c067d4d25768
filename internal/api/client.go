// Package api is the REST client for the duty chart backend.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"dutychart/internal/metrics"
)

// TokenSource supplies the bearer token attached to every request. The
// session store implements it; tests inject a stub.
type TokenSource interface {
	AccessToken() string
}

// StaticToken is a TokenSource with a fixed token. Useful in tests and
// one-shot tools.
type StaticToken string

func (t StaticToken) AccessToken() string { return string(t) }

// Client calls the backend REST API.
type Client struct {
	baseURL    string
	tokens     TokenSource
	httpClient *http.Client
	logger     *zerolog.Logger

	redis    *redis.Client
	cacheTTL time.Duration
	limiter  *rate.Limiter
}

// NewClient constructs a client for the backend at baseURL (no trailing
// slash), authenticating via tokens.
func NewClient(baseURL string, tokens TokenSource, logger *zerolog.Logger) *Client {
	return &Client{
		baseURL:    baseURL,
		tokens:     tokens,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		logger:     logger,
	}
}

// SetTimeout replaces the default request timeout.
func (c *Client) SetTimeout(d time.Duration) {
	c.httpClient.Timeout = d
}

// UseRedisCache configures optional Redis caching for GET endpoints.
func (c *Client) UseRedisCache(redisClient *redis.Client, ttl time.Duration) {
	c.redis = redisClient
	c.cacheTTL = ttl
}

// UseRateLimit applies a client-side request rate limit.
func (c *Client) UseRateLimit(perSecond int) {
	if perSecond > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(perSecond), perSecond)
	}
}

func (c *Client) endpoint(path string, query url.Values) string {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

// do performs a request and decodes the JSON response into out (which may be
// nil). Error responses come back as *APIError.
func (c *Client) do(ctx context.Context, method, endpoint string, body, out any) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}
	}

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reqBody)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.tokens.AccessToken(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.IncAPIRequest(method, "network_error")
		return err
	}
	defer resp.Body.Close()

	metrics.IncAPIRequest(method, strconv.Itoa(resp.StatusCode))

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := decodeAPIError(resp.StatusCode, data)
		if c.logger != nil {
			c.logger.Warn().Str("method", method).Str("url", endpoint).
				Int("status", resp.StatusCode).Msg("api request failed")
		}
		return apiErr
	}

	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// doGet performs a GET, consulting the Redis cache when configured.
func (c *Client) doGet(ctx context.Context, endpoint string, out any) error {
	cacheKey := "dutychart:get:" + endpoint
	if c.readCache(ctx, cacheKey, out) {
		return nil
	}
	if err := c.do(ctx, http.MethodGet, endpoint, nil, out); err != nil {
		return err
	}
	c.writeCache(ctx, cacheKey, out)
	return nil
}

func (c *Client) readCache(ctx context.Context, key string, out any) bool {
	if c.redis == nil || c.cacheTTL <= 0 || out == nil {
		return false
	}
	data, err := c.redis.Get(ctx, key).Bytes()
	if err != nil {
		return false
	}
	if err := json.Unmarshal(data, out); err != nil {
		return false
	}
	return true
}

func (c *Client) writeCache(ctx context.Context, key string, value any) {
	if c.redis == nil || c.cacheTTL <= 0 || value == nil {
		return
	}
	data, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := c.redis.Set(ctx, key, data, c.cacheTTL).Err(); err != nil && c.logger != nil {
		c.logger.Debug().Err(err).Str("key", key).Msg("cache write failed")
	}
}

// invalidateCache drops cached GETs under the given path prefix after a write.
func (c *Client) invalidateCache(ctx context.Context, pathPrefix string) {
	if c.redis == nil {
		return
	}
	pattern := "dutychart:get:" + c.baseURL + pathPrefix + "*"
	keys, err := c.redis.Keys(ctx, pattern).Result()
	if err != nil || len(keys) == 0 {
		return
	}
	c.redis.Del(ctx, keys...)
}
