package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// skipIfNoRedis skips the test unless SPICEPOP_TEST_REDIS_URL is set.
func skipIfNoRedis(t *testing.T) string {
	url := os.Getenv("SPICEPOP_TEST_REDIS_URL")
	if url == "" {
		t.Skip("Skipping Redis tests: SPICEPOP_TEST_REDIS_URL not set")
	}
	return url
}

func TestRedisStore_RoundTrip(t *testing.T) {
	url := skipIfNoRedis(t)

	store, err := NewRedisStore(RedisStoreOptions{URL: url, Prefix: "spicepop-test:"})
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	ctx := context.Background()
	require.NoError(t, store.Clear(ctx))

	storedAt := time.Unix(1700000000, 123)
	require.NoError(t, store.Set(ctx, KeyProductsAll, Entry{Value: []byte(`[]`), StoredAt: storedAt}))

	got, found, err := store.Get(ctx, KeyProductsAll)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "[]", string(got.Value))
	assert.True(t, storedAt.Equal(got.StoredAt))

	require.NoError(t, store.Clear(ctx))
	_, found, err = store.Get(ctx, KeyProductsAll)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestNewRedisStore_RequiresURL(t *testing.T) {
	_, err := NewRedisStore(RedisStoreOptions{})
	assert.Error(t, err)
}
