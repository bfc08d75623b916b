package ai

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/resu-med/resu-med-sub000/internal/domain"
)

// cachedDelegate wraps an AIDelegate and caches successful extractions
// in Redis, keyed by a hash of the input text. Resume re-uploads are
// common enough that this saves a meaningful number of model calls.
type cachedDelegate struct {
	base domain.AIDelegate
	rdb  *redis.Client
	ttl  time.Duration
}

// NewCachedDelegate wraps base with a Redis extraction cache. If rdb is
// nil or ttl is non-positive, base is returned unmodified.
func NewCachedDelegate(base domain.AIDelegate, rdb *redis.Client, ttl time.Duration) domain.AIDelegate {
	if base == nil || rdb == nil || ttl <= 0 {
		return base
	}
	return &cachedDelegate{base: base, rdb: rdb, ttl: ttl}
}

func (c *cachedDelegate) ExtractProfile(ctx domain.Context, text string) (domain.Profile, error) {
	key := cacheKey(text)
	if raw, err := c.rdb.Get(ctx, key).Bytes(); err == nil {
		var p domain.Profile
		if jerr := json.Unmarshal(raw, &p); jerr == nil {
			slog.Debug("ai cache hit", slog.String("key", key))
			return p, nil
		}
		// Corrupt entry; fall through and overwrite.
	}

	p, err := c.base.ExtractProfile(ctx, text)
	if err != nil {
		return domain.Profile{}, err
	}
	if raw, jerr := json.Marshal(p); jerr == nil {
		if serr := c.rdb.Set(ctx, key, raw, c.ttl).Err(); serr != nil {
			slog.Warn("ai cache write failed", slog.Any("error", serr))
		}
	}
	return p, nil
}

func cacheKey(text string) string {
	sum := sha256.Sum256([]byte(text))
	return "ai:extract:" + hex.EncodeToString(sum[:])
}
