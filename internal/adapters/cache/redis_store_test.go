package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/agroinsight-go/internal/adapters/cache"
)

// requires Redis on localhost:6379, skipped otherwise
const testRedisAddr = "localhost:6379"

func TestRedisStore_RoundTrip(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: testRedisAddr})
	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		t.Skipf("Redis not available at %s: %v", testRedisAddr, err)
	}
	store := cache.NewRedisStoreWithClient(client, "agroinsight-test:")
	t.Cleanup(func() {
		client.Del(ctx, "agroinsight-test:k", "agroinsight-test:missing")
		_ = store.Close()
	})

	require.NoError(t, store.Set(ctx, "k", map[string]int{"modal_price": 2250}, time.Minute))

	var got map[string]int
	found, err := store.Get(ctx, "k", &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, 2250, got["modal_price"])

	found, err = store.Get(ctx, "missing", &got)
	require.NoError(t, err)
	assert.False(t, found)
}
