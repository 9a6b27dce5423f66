package carrierapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"shiptrack/internal/core/domain/model/carrier"
)

const defaultCacheTTL = 5 * time.Minute

// ExpressTrackingClient fetches tracking payloads from the express carrier's
// REST API. When a cache is configured, raw response bodies are cached per
// tracking number so repeated lookups within one run stay local.
type ExpressTrackingClient struct {
	client   *http.Client
	baseURL  string
	apiKey   string
	cache    Cache
	cacheTTL time.Duration
	logger   *zap.Logger
}

// NewExpressTrackingClient creates a tracking client for the API at baseURL.
// The cache is optional; pass nil to disable caching.
func NewExpressTrackingClient(baseURL, apiKey string, cache Cache, logger *zap.Logger) *ExpressTrackingClient {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExpressTrackingClient{
		client:   &http.Client{Timeout: 10 * time.Second},
		baseURL:  baseURL,
		apiKey:   apiKey,
		cache:    cache,
		cacheTTL: defaultCacheTTL,
		logger:   logger,
	}
}

// Track fetches the raw tracking payload for one tracking number.
func (c *ExpressTrackingClient) Track(ctx context.Context, trackingNumber string) (carrier.TrackResponse, error) {
	if body, ok := c.cachedBody(ctx, trackingNumber); ok {
		var cached carrier.TrackResponse
		if err := json.Unmarshal(body, &cached); err == nil {
			return cached, nil
		}
		// Unreadable cache entries fall through to a fresh fetch.
		c.logger.Warn("discarding corrupt cache entry",
			zap.String("trackingNumber", trackingNumber))
	}

	url := fmt.Sprintf("%s/track/v1/shipments/%s", c.baseURL, trackingNumber)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return carrier.TrackResponse{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("X-API-Key", c.apiKey)
	req.Header.Set("Accept", "application/json")

	start := time.Now()

	resp, err := c.client.Do(req)
	if err != nil {
		return carrier.TrackResponse{}, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	c.logger.Debug("carrier track request completed",
		zap.String("trackingNumber", trackingNumber),
		zap.Int("statusCode", resp.StatusCode),
		zap.Duration("duration", time.Since(start)))

	if resp.StatusCode != http.StatusOK {
		return carrier.TrackResponse{}, fmt.Errorf("carrier API returned status %d for %s",
			resp.StatusCode, trackingNumber)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return carrier.TrackResponse{}, fmt.Errorf("failed to read response: %w", err)
	}

	var response carrier.TrackResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return carrier.TrackResponse{}, fmt.Errorf("failed to decode response: %w", err)
	}

	c.storeBody(ctx, trackingNumber, body)

	return response, nil
}

func (c *ExpressTrackingClient) cachedBody(ctx context.Context, trackingNumber string) ([]byte, bool) {
	if c.cache == nil {
		return nil, false
	}

	body, err := c.cache.Get(ctx, cacheKey(trackingNumber))
	if err != nil {
		return nil, false
	}
	return body, true
}

// storeBody writes through to the cache. A cache failure never fails the
// lookup.
func (c *ExpressTrackingClient) storeBody(ctx context.Context, trackingNumber string, body []byte) {
	if c.cache == nil {
		return
	}

	if err := c.cache.Set(ctx, cacheKey(trackingNumber), body, c.cacheTTL); err != nil {
		c.logger.Warn("failed to cache tracking response",
			zap.String("trackingNumber", trackingNumber),
			zap.Error(err))
	}
}

func cacheKey(trackingNumber string) string {
	return "track:" + trackingNumber
}
