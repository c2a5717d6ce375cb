package redis

import (
	"context"
	"testing"
	"time"

	"github.com/mygroup/mygroup-backend/pkg/config"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFixedWindowAllow(t *testing.T) {
	ctx := context.Background()
	fake := newFakeCommands()
	client := &Client{cmd: fake}

	w, err := client.FixedWindowAllow(ctx, "login:ip:1.2.3.4", 2, time.Minute)
	require.NoError(t, err)
	assert.True(t, w.Allowed)
	assert.Equal(t, int64(1), w.Count)
	require.Len(t, fake.expires, 1)
	assert.Equal(t, "mg:rate_limit:login:ip:1.2.3.4", fake.expires[0])

	w, err = client.FixedWindowAllow(ctx, "login:ip:1.2.3.4", 2, time.Minute)
	require.NoError(t, err)
	assert.True(t, w.Allowed)
	assert.Equal(t, int64(2), w.Count)
	assert.Len(t, fake.expires, 1, "window must not be extended by later hits")

	fake.ttl["mg:rate_limit:login:ip:1.2.3.4"] = 20 * time.Second
	w, err = client.FixedWindowAllow(ctx, "login:ip:1.2.3.4", 2, time.Minute)
	require.NoError(t, err)
	assert.False(t, w.Allowed)
	assert.Equal(t, 20*time.Second, w.RetryAfter)
}

func TestFixedWindowRearmsMissingExpiry(t *testing.T) {
	ctx := context.Background()
	fake := newFakeCommands()
	fake.counts["mg:rate_limit:counter"] = 3
	fake.ttl["mg:rate_limit:counter"] = -1
	client := &Client{cmd: fake}

	w, err := client.FixedWindowAllow(ctx, "counter", 10, time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(4), w.Count)
	assert.Equal(t, []string{"mg:rate_limit:counter"}, fake.expires)
	assert.Equal(t, time.Minute, fake.ttl["mg:rate_limit:counter"])
}

func TestZeroClient(t *testing.T) {
	client := &Client{}
	assert.Error(t, client.Ping(context.Background()))
	_, err := client.FixedWindowAllow(context.Background(), "x", 1, time.Second)
	assert.Error(t, err)
	assert.NoError(t, client.Close())
}

func TestRateLimitKey(t *testing.T) {
	assert.Equal(t, "mg:rate_limit:scope", RateLimitKey("scope"))
	assert.Equal(t, "mg:rate_limit", RateLimitKey(" "))
}

func TestOptionsFromConfig(t *testing.T) {
	_, err := optionsFromConfig(config.RedisConfig{})
	assert.Error(t, err)

	opts, err := optionsFromConfig(config.RedisConfig{Address: "localhost:6379", DB: 2, PoolSize: 7})
	require.NoError(t, err)
	assert.Equal(t, "localhost:6379", opts.Addr)
	assert.Equal(t, 2, opts.DB)
	assert.Equal(t, 7, opts.PoolSize)

	opts, err = optionsFromConfig(config.RedisConfig{URL: "redis://:pw@cache:6380/1", ReadTimeout: time.Second})
	require.NoError(t, err)
	assert.Equal(t, "cache:6380", opts.Addr)
	assert.Equal(t, "pw", opts.Password)
	assert.Equal(t, 1, opts.DB)
	assert.Equal(t, time.Second, opts.ReadTimeout)
}

type fakeCommands struct {
	counts  map[string]int64
	ttl     map[string]time.Duration
	expires []string
}

func newFakeCommands() *fakeCommands {
	return &fakeCommands{counts: map[string]int64{}, ttl: map[string]time.Duration{}}
}

func (f *fakeCommands) Ping(context.Context) *redis.StatusCmd {
	return redis.NewStatusResult("PONG", nil)
}

func (f *fakeCommands) Incr(_ context.Context, key string) *redis.IntCmd {
	f.counts[key]++
	return redis.NewIntResult(f.counts[key], nil)
}

func (f *fakeCommands) PExpire(_ context.Context, key string, expiration time.Duration) *redis.BoolCmd {
	f.expires = append(f.expires, key)
	f.ttl[key] = expiration
	return redis.NewBoolResult(true, nil)
}

func (f *fakeCommands) PTTL(_ context.Context, key string) *redis.DurationCmd {
	ttl, ok := f.ttl[key]
	if !ok {
		ttl = -2
	}
	return redis.NewDurationResult(ttl, nil)
}
