//go:build integration

package redis_test

import (
	"context"
	"errors"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"
	"go.uber.org/zap"

	pkgerrors "gradcheck/backend/pkg/errors"
	"gradcheck/backend/pkg/redis"
)

// newTestClient redis 컨테이너를 띄우고 Client 래퍼를 반환한다
func newTestClient(t *testing.T) *redis.Client {
	t.Helper()
	ctx := context.Background()

	container, err := tcredis.Run(ctx, "redis:7-alpine")
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	uri, err := container.ConnectionString(ctx)
	require.NoError(t, err)
	opts, err := goredis.ParseURL(uri)
	require.NoError(t, err)

	client := redis.NewFromClient(goredis.NewClient(opts), zap.NewNop())
	t.Cleanup(func() { _ = client.Close() })
	require.NoError(t, client.Ping(ctx))
	return client
}

func TestClient_Blacklist(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	require.NoError(t, client.BlacklistToken(ctx, "jti-1", time.Minute))
	require.NoError(t, client.BlacklistToken(ctx, "jti-expired", 0))

	revoked, err := client.IsBlacklisted(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	revoked, err = client.IsBlacklisted(ctx, "jti-expired")
	require.NoError(t, err)
	assert.False(t, revoked, "이미 만료된 토큰은 저장하지 않는다")
}

func TestClient_CheckRateLimit(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		allowed, remaining, ttl, err := client.CheckRateLimit(ctx, "/api/v1/auth/login:127.0.0.1", 3, time.Minute)
		require.NoError(t, err)
		assert.True(t, allowed, "%d 번째 요청은 허용", i)
		assert.Equal(t, 3-i, remaining)
		assert.Greater(t, ttl, time.Duration(0))
	}

	allowed, remaining, _, err := client.CheckRateLimit(ctx, "/api/v1/auth/login:127.0.0.1", 3, time.Minute)
	require.NoError(t, err)
	assert.False(t, allowed)
	assert.Equal(t, 0, remaining)
}

func TestClient_JSONCache(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	type payload struct {
		Status string `json:"status"`
		Total  int    `json:"total"`
	}

	var got payload
	err := client.GetJSON(ctx, "eval:u-1:t-1:r-1:v1:gfalse", &got)
	assert.True(t, errors.Is(err, pkgerrors.ErrCacheMiss))

	require.NoError(t, client.SetJSON(ctx, "eval:u-1:t-1:r-1:v1:gfalse", payload{Status: "pending", Total: 125}, time.Minute))
	require.NoError(t, client.SetJSON(ctx, "eval:u-2:t-2:r-1:v1:gfalse", payload{Status: "complete", Total: 130}, time.Minute))

	require.NoError(t, client.GetJSON(ctx, "eval:u-1:t-1:r-1:v1:gfalse", &got))
	assert.Equal(t, payload{Status: "pending", Total: 125}, got)

	// 사용자 단위 무효화
	require.NoError(t, client.DeletePattern(ctx, "eval:u-1:*"))
	err = client.GetJSON(ctx, "eval:u-1:t-1:r-1:v1:gfalse", &got)
	assert.True(t, errors.Is(err, pkgerrors.ErrCacheMiss))
	require.NoError(t, client.GetJSON(ctx, "eval:u-2:t-2:r-1:v1:gfalse", &got))

	// 요건 단위 무효화
	require.NoError(t, client.DeletePattern(ctx, "eval:*:r-1:*"))
	err = client.GetJSON(ctx, "eval:u-2:t-2:r-1:v1:gfalse", &got)
	assert.True(t, errors.Is(err, pkgerrors.ErrCacheMiss))
}
