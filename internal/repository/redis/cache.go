package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

const (
	readingCachePrefix = "reading:"
	readingCacheTTL    = 30 * time.Minute
)

// ReadingCache keeps generated readings keyed by game session so that a
// retried generation for an unchanged table does not burn another model
// call.
type ReadingCache struct {
	client *Client
}

// NewReadingCache creates a new reading cache.
func NewReadingCache(client *Client) *ReadingCache {
	return &ReadingCache{client: client}
}

// Get retrieves a cached reading for a session. A miss returns "".
func (c *ReadingCache) Get(ctx context.Context, sessionID uuid.UUID) (string, error) {
	key := fmt.Sprintf("%s%s", readingCachePrefix, sessionID.String())

	reading, err := c.client.rdb.Get(ctx, key).Result()
	if err != nil {
		return "", nil
	}
	return reading, nil
}

// Set caches a reading for a session.
func (c *ReadingCache) Set(ctx context.Context, sessionID uuid.UUID, reading string) error {
	key := fmt.Sprintf("%s%s", readingCachePrefix, sessionID.String())
	return c.client.rdb.Set(ctx, key, reading, readingCacheTTL).Err()
}

// Invalidate removes the cached reading for a session. Called whenever
// the table changes after a reading was generated.
func (c *ReadingCache) Invalidate(ctx context.Context, sessionID uuid.UUID) error {
	key := fmt.Sprintf("%s%s", readingCachePrefix, sessionID.String())
	return c.client.rdb.Del(ctx, key).Err()
}
