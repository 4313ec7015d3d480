package scanner

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mmynk/receiptsplit/internal/models"
)

const cacheKeyPrefix = "receiptsplit:scan:"

// CachingScanner remembers scan results per image content in Redis, so
// re-uploading the same receipt does not hit the model again. Redis
// failures are logged and the wrapped scanner is used instead.
type CachingScanner struct {
	next Scanner
	rdb  redis.UniversalClient
	ttl  time.Duration
}

var _ Scanner = (*CachingScanner)(nil)

// NewCaching wraps next with a Redis-backed result cache.
func NewCaching(next Scanner, rdb redis.UniversalClient, ttl time.Duration) *CachingScanner {
	return &CachingScanner{next: next, rdb: rdb, ttl: ttl}
}

// Scan implements Scanner.
func (c *CachingScanner) Scan(ctx context.Context, img Image) (*models.ScannedBill, error) {
	key := cacheKey(img)

	raw, err := c.rdb.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var bill models.ScannedBill
		if err := json.Unmarshal(raw, &bill); err == nil {
			slog.Debug("Scan cache hit", "key", key)
			return &bill, nil
		}
		slog.Warn("Discarding corrupt scan cache entry", "key", key)
	case !errors.Is(err, redis.Nil):
		slog.Warn("Scan cache read failed", "key", key, "error", err)
	}

	bill, err := c.next.Scan(ctx, img)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(bill); err == nil {
		if err := c.rdb.Set(ctx, key, data, c.ttl).Err(); err != nil {
			slog.Warn("Scan cache write failed", "key", key, "error", err)
		}
	}
	return bill, nil
}

func cacheKey(img Image) string {
	sum := sha256.Sum256(img.Data)
	return cacheKeyPrefix + hex.EncodeToString(sum[:])
}
