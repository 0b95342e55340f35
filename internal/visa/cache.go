// internal/visa/cache.go
package visa

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"visa-workers/internal/models"
)

const cacheKeyPrefix = "visa:eval"

// ResultCache keeps evaluation results in Redis for a short TTL.
// Keys include the catalog version, so a catalog change never serves a stale result.
type ResultCache struct {
	client redis.Cmdable
	ttl    time.Duration
}

func NewResultCache(client redis.Cmdable, ttl time.Duration) *ResultCache {
	return &ResultCache{client: client, ttl: ttl}
}

// Get returns the cached result and true on a hit. Redis errors count as a miss.
func (c *ResultCache) Get(ctx context.Context, version string, profile models.JobLaborProfile) (*models.VisaCompatibility, bool) {
	data, err := c.client.Get(ctx, CacheKey(version, profile)).Bytes()
	if err != nil {
		return nil, false
	}

	var out models.VisaCompatibility
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, false
	}
	return &out, true
}

// Set stores result under the profile's key with the configured TTL.
func (c *ResultCache) Set(ctx context.Context, version string, profile models.JobLaborProfile, result *models.VisaCompatibility) error {
	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("cache: marshal error: %w", err)
	}
	return c.client.Set(ctx, CacheKey(version, profile), data, c.ttl).Err()
}

// CacheKey builds the Redis key for a (catalog version, profile) pair.
func CacheKey(version string, profile models.JobLaborProfile) string {
	raw := strconv.FormatFloat(profile.WeeklyHours, 'f', -1, 64) + ":" +
		profile.IndustryCode + ":" +
		strconv.FormatBool(profile.IsWeekendOnly) + ":" +
		strconv.FormatBool(profile.IsDepopulationArea)
	hash := sha256.Sum256([]byte(raw))
	return fmt.Sprintf("%s:%s:%x", cacheKeyPrefix, version, hash[:8])
}

// CachedEvaluator evaluates against the store's current snapshot, going
// through the cache when one is configured.
type CachedEvaluator struct {
	store *CatalogStore
	cache *ResultCache
}

func NewCachedEvaluator(store *CatalogStore, cache *ResultCache) *CachedEvaluator {
	return &CachedEvaluator{store: store, cache: cache}
}

// Evaluate returns the compatibility result, the catalog version it was
// computed against, and whether it came from the cache.
func (e *CachedEvaluator) Evaluate(ctx context.Context, profile models.JobLaborProfile) (*models.VisaCompatibility, string, bool, error) {
	snap, err := e.store.Current()
	if err != nil {
		return nil, "", false, err
	}

	if e.cache != nil {
		if hit, ok := e.cache.Get(ctx, snap.Version, profile); ok {
			return hit, snap.Version, true, nil
		}
	}

	result := snap.Evaluator.Evaluate(profile)

	if e.cache != nil {
		// a failed write only costs a recomputation next time
		_ = e.cache.Set(ctx, snap.Version, profile, result)
	}
	return result, snap.Version, false, nil
}
