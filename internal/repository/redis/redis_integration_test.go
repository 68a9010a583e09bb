//go:build integration

package redis_test

import (
	"context"
	"fmt"
	"testing"

	goredis "github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/Rrens/thai-travel-share/internal/domain"
	"github.com/Rrens/thai-travel-share/internal/repository/redis"
)

func newTestClient(t *testing.T) *redis.Client {
	t.Helper()
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForListeningPort("6379/tcp"),
		},
		Started: true,
	})
	require.NoError(t, err, "failed to start redis container")
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "6379/tcp")
	require.NoError(t, err)

	client := redis.NewFromClient(goredis.NewClient(&goredis.Options{
		Addr: fmt.Sprintf("%s:%s", host, port.Port()),
	}))
	require.NoError(t, client.Ping(ctx))
	t.Cleanup(func() { _ = client.Close() })

	return client
}

func TestRedis(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	t.Run("rate limiter", func(t *testing.T) {
		limiter := redis.NewRateLimiter(client, 2, 1)

		for i := 0; i < 3; i++ {
			allowed, remaining, _, err := limiter.Allow(ctx, "user-1")
			require.NoError(t, err)
			assert.True(t, allowed)
			assert.Equal(t, 2-i, remaining)
		}

		allowed, remaining, reset, err := limiter.Allow(ctx, "user-1")
		require.NoError(t, err)
		assert.False(t, allowed)
		assert.Zero(t, remaining)
		assert.False(t, reset.IsZero())

		// Other keys are independent
		allowed, _, _, err = limiter.Allow(ctx, "user-2")
		require.NoError(t, err)
		assert.True(t, allowed)
	})

	t.Run("province cache", func(t *testing.T) {
		cache := redis.NewProvinceCache(client, 0)

		miss, err := cache.Get(ctx)
		require.NoError(t, err)
		assert.Nil(t, miss)

		provinces := []domain.Province{
			{ID: 1, NameTH: "แม่ฮ่องสอน", NameEN: "Mae Hong Son", Region: "North", IsSecondaryProvince: true, TaxReductionPercentage: decimal.NewFromInt(15)},
		}
		require.NoError(t, cache.Set(ctx, provinces))

		hit, err := cache.Get(ctx)
		require.NoError(t, err)
		require.Len(t, hit, 1)
		assert.Equal(t, "แม่ฮ่องสอน", hit[0].NameTH)
		assert.True(t, hit[0].TaxReductionPercentage.Equal(decimal.NewFromInt(15)))

		require.NoError(t, cache.Invalidate(ctx))
		miss, err = cache.Get(ctx)
		require.NoError(t, err)
		assert.Nil(t, miss)
	})
}
