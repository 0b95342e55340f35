// internal/visa/cache_test.go
package visa

import (
	"context"
	"errors"
	"testing"
	"time"

	"visa-workers/internal/common/logger"
	"visa-workers/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupMiniRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return mr, client
}

func loadedStore(t *testing.T) *CatalogStore {
	store := NewCatalogStore(NewStaticSource(nil), logger.NewTestLogger(t))
	require.NoError(t, store.Load(context.Background()))
	return store
}

func TestCacheKey(t *testing.T) {
	p := models.JobLaborProfile{WeeklyHours: 20, IndustryCode: "I", IsWeekendOnly: true}

	assert.Equal(t, CacheKey("v1", p), CacheKey("v1", p))
	assert.NotEqual(t, CacheKey("v1", p), CacheKey("v2", p))

	q := p
	q.IsDepopulationArea = true
	assert.NotEqual(t, CacheKey("v1", p), CacheKey("v1", q))
	assert.Contains(t, CacheKey("v1", p), "visa:eval:v1:")
}

func TestResultCache_RoundTrip(t *testing.T) {
	mr, client := setupMiniRedis(t)
	cache := NewResultCache(client, time.Minute)
	ctx := context.Background()

	p := models.JobLaborProfile{WeeklyHours: 12}
	_, ok := cache.Get(ctx, "v1", p)
	assert.False(t, ok)

	want := Evaluate(p, DefaultRules())
	require.NoError(t, cache.Set(ctx, "v1", p, want))

	got, ok := cache.Get(ctx, "v1", p)
	require.True(t, ok)
	assert.Equal(t, want, got)

	mr.FastForward(2 * time.Minute)
	_, ok = cache.Get(ctx, "v1", p)
	assert.False(t, ok, "entry should expire")
}

func TestResultCache_CorruptEntryIsMiss(t *testing.T) {
	mr, client := setupMiniRedis(t)
	cache := NewResultCache(client, time.Minute)
	p := models.JobLaborProfile{}

	require.NoError(t, mr.Set(CacheKey("v1", p), "{not json"))
	_, ok := cache.Get(context.Background(), "v1", p)
	assert.False(t, ok)
}

func TestCachedEvaluator_HitAndMiss(t *testing.T) {
	_, client := setupMiniRedis(t)
	store := loadedStore(t)
	eval := NewCachedEvaluator(store, NewResultCache(client, time.Minute))
	ctx := context.Background()
	p := models.JobLaborProfile{WeeklyHours: 30, IndustryCode: "Q"}

	first, version, cached, err := eval.Evaluate(ctx, p)
	require.NoError(t, err)
	assert.False(t, cached)
	snap, _ := store.Current()
	assert.Equal(t, snap.Version, version)

	second, _, cached, err := eval.Evaluate(ctx, p)
	require.NoError(t, err)
	assert.True(t, cached)
	assert.Equal(t, first, second)
}

func TestCachedEvaluator_RedisErrorFallsThrough(t *testing.T) {
	client, mock := redismock.NewClientMock()
	store := loadedStore(t)
	eval := NewCachedEvaluator(store, NewResultCache(client, time.Minute))
	p := models.JobLaborProfile{WeeklyHours: 8}

	snap, _ := store.Current()
	key := CacheKey(snap.Version, p)
	want := Evaluate(p, DefaultRules())

	// the write after the miss is unexpected and fails too, which must be ignored
	mock.ExpectGet(key).SetErr(errors.New("connection reset"))

	got, _, cached, err := eval.Evaluate(context.Background(), p)
	require.NoError(t, err)
	assert.False(t, cached)
	assert.Equal(t, want, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCachedEvaluator_NoCache(t *testing.T) {
	eval := NewCachedEvaluator(loadedStore(t), nil)
	got, _, cached, err := eval.Evaluate(context.Background(), models.JobLaborProfile{})
	require.NoError(t, err)
	assert.False(t, cached)
	assert.Equal(t, len(DefaultRules()), got.Total())
}

func TestCachedEvaluator_Unavailable(t *testing.T) {
	store := NewCatalogStore(&fakeSource{}, logger.NewNoOpLogger())
	_, _, _, err := NewCachedEvaluator(store, nil).Evaluate(context.Background(), models.JobLaborProfile{})
	assert.Error(t, err)
}
