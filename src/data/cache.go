package data

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/stake-plus/truthlens/src/modality"
	"github.com/stake-plus/truthlens/src/verdict"
)

const verdictPrefix = "truthlens:verdict:"

// CachedVerdict is the value stored per input fingerprint.
type CachedVerdict struct {
	Verdict  verdict.Verdict `json:"verdict"`
	Meta     modality.Meta   `json:"meta"`
	StoredAt time.Time       `json:"stored_at"`
}

// VerdictCache memoizes verdicts in Redis keyed by modality.Fingerprint.
// A nil *VerdictCache always misses.
type VerdictCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewVerdictCache connects to the Redis instance at url.
func NewVerdictCache(url string, ttl time.Duration) (*VerdictCache, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	return &VerdictCache{rdb: redis.NewClient(opt), ttl: ttl}, nil
}

// Ping checks connectivity.
func (c *VerdictCache) Ping(ctx context.Context) error {
	if c == nil {
		return nil
	}
	return c.rdb.Ping(ctx).Err()
}

// Get returns the cached verdict for fingerprint, if any.
func (c *VerdictCache) Get(ctx context.Context, fingerprint string) (CachedVerdict, bool, error) {
	if c == nil {
		return CachedVerdict{}, false, nil
	}
	raw, err := c.rdb.Get(ctx, cacheKey(fingerprint)).Bytes()
	if errors.Is(err, redis.Nil) {
		return CachedVerdict{}, false, nil
	}
	if err != nil {
		return CachedVerdict{}, false, err
	}
	var cv CachedVerdict
	if err := json.Unmarshal(raw, &cv); err != nil {
		return CachedVerdict{}, false, err
	}
	if !cv.Verdict.Valid() {
		return CachedVerdict{}, false, nil
	}
	return cv, true, nil
}

// Put stores a verdict under fingerprint for the configured TTL.
func (c *VerdictCache) Put(ctx context.Context, fingerprint string, v verdict.Verdict, meta modality.Meta) error {
	if c == nil {
		return nil
	}
	raw, err := json.Marshal(CachedVerdict{Verdict: v, Meta: meta, StoredAt: time.Now().UTC()})
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, cacheKey(fingerprint), raw, c.ttl).Err()
}

// Close releases the Redis connection pool.
func (c *VerdictCache) Close() error {
	if c == nil {
		return nil
	}
	return c.rdb.Close()
}

func cacheKey(fingerprint string) string { return verdictPrefix + fingerprint }
