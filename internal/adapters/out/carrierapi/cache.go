// Package carrierapi talks to the express carrier's REST tracking API.
// Responses are cached briefly so a reconciliation run that targets the
// same tracking number twice does not hit the carrier twice.
package carrierapi

import (
	"context"
	"errors"
	"time"
)

// ErrCacheMiss is returned by Cache.Get when the key is absent.
var ErrCacheMiss = errors.New("cache miss")

// Cache stores raw tracking payloads keyed by tracking number. A TTL of 0
// means no expiration.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Close() error
}
