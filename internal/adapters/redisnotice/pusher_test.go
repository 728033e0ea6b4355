package redisnotice

import (
	"context"
	"encoding/json"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/campuskit/campus-client/internal/domain/auth"
	domainnotice "github.com/campuskit/campus-client/internal/domain/notice"
	apperrors "github.com/campuskit/campus-client/internal/errors"
)

// setupTestRedis creates a Redis client for testing.
// Tests are skipped when Redis is not available.
func setupTestRedis(t *testing.T) *redis.Client {
	t.Helper()

	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}
	client := redis.NewClient(&redis.Options{Addr: addr})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		t.Skipf("Redis not available for testing at %s: %v", addr, err)
	}
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func testSession() domainauth.Snapshot {
	return domainauth.Authenticated("tok-1", domainauth.User{ID: "s1", Role: domainauth.RoleStudent})
}

func TestNewPusherValidation(t *testing.T) {
	_, err := NewPusher(nil, "notices:new", nil)
	require.Error(t, err)

	client := redis.NewClient(&redis.Options{Addr: "localhost:6379"})
	defer client.Close()
	_, err = NewPusher(client, "", nil)
	require.Error(t, err)
}

func TestSubscribeRequiresAuthenticatedSession(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "localhost:6379"})
	defer client.Close()
	pusher, err := NewPusher(client, "notices:new", nil)
	require.NoError(t, err)

	_, err = pusher.Subscribe(context.Background(), domainauth.Unauthenticated())
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
}

func TestSubscribeDeliversPublishedNotices(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	client := setupTestRedis(t)
	ctx := context.Background()
	channel := "notices:test:" + t.Name()

	pusher, err := NewPusher(client, channel, nil)
	require.NoError(t, err)

	sub, err := pusher.Subscribe(ctx, testSession())
	require.NoError(t, err)
	defer func() { _ = sub.Close() }()

	payload, err := json.Marshal(map[string]any{
		"id":        "n1",
		"title":     "Snow day",
		"target":    "all",
		"createdAt": time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	require.NoError(t, client.Publish(ctx, channel, payload).Err())

	select {
	case n, ok := <-sub.Events():
		require.True(t, ok)
		assert.Equal(t, "n1", n.ID)
		assert.Equal(t, domainnotice.TargetAll, n.Target)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for published notice")
	}
}

func TestSubscribeDropsGarbagePayloads(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	client := setupTestRedis(t)
	ctx := context.Background()
	channel := "notices:test:" + t.Name()

	pusher, err := NewPusher(client, channel, nil)
	require.NoError(t, err)

	sub, err := pusher.Subscribe(ctx, testSession())
	require.NoError(t, err)
	defer func() { _ = sub.Close() }()

	require.NoError(t, client.Publish(ctx, channel, "not json").Err())
	require.NoError(t, client.Publish(ctx, channel, `{"id":"bad","target":"everyone"}`).Err())
	good, err := json.Marshal(map[string]any{"id": "good", "title": "t", "target": "all", "createdAt": time.Now().UTC()})
	require.NoError(t, err)
	require.NoError(t, client.Publish(ctx, channel, good).Err())

	select {
	case n, ok := <-sub.Events():
		require.True(t, ok)
		assert.Equal(t, "good", n.ID)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for published notice")
	}
}

func TestCloseReleasesSubscription(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	client := setupTestRedis(t)

	pusher, err := NewPusher(client, "notices:test:"+t.Name(), nil)
	require.NoError(t, err)

	sub, err := pusher.Subscribe(context.Background(), testSession())
	require.NoError(t, err)

	require.NoError(t, sub.Close())
	require.NoError(t, sub.Close())

	_, ok := <-sub.Events()
	assert.False(t, ok)
}
