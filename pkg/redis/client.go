package redis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mygroup/mygroup-backend/pkg/config"
	"github.com/mygroup/mygroup-backend/pkg/logger"
	"github.com/redis/go-redis/v9"
)

// All keys written by this service live under mg:.
const keyNamespace = "mg"

var errNotInitialized = errors.New("redis client not initialized")

// commands is the subset of go-redis the limiter and health check need.
type commands interface {
	Ping(ctx context.Context) *redis.StatusCmd
	Incr(ctx context.Context, key string) *redis.IntCmd
	PExpire(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd
	PTTL(ctx context.Context, key string) *redis.DurationCmd
}

// Window is the state of one fixed-window counter after a hit.
type Window struct {
	Allowed    bool
	Count      int64
	RetryAfter time.Duration
}

// Client backs the auth rate limiter and the readiness probe.
type Client struct {
	cmd  commands
	conn *redis.Client
}

// New dials Redis and fails fast when the server does not answer PING.
func New(ctx context.Context, cfg config.RedisConfig, logg *logger.Logger) (*Client, error) {
	opts, err := optionsFromConfig(cfg)
	if err != nil {
		return nil, err
	}
	conn := redis.NewClient(opts)
	if err := conn.Ping(ctx).Err(); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("ping redis at %s: %w", opts.Addr, err)
	}
	if logg != nil {
		logg.Info(logg.WithFields(ctx, map[string]any{
			"redis_addr": opts.Addr,
			"redis_db":   opts.DB,
		}), "redis.connected")
	}
	return &Client{cmd: conn, conn: conn}, nil
}

// optionsFromConfig prefers MYGROUP_REDIS_URL; pool and timeout settings fill
// whatever the URL leaves unset.
func optionsFromConfig(cfg config.RedisConfig) (*redis.Options, error) {
	if !cfg.Enabled() {
		return nil, errors.New("redis url or address is required")
	}

	opts := &redis.Options{Addr: cfg.Address, Password: cfg.Password, DB: cfg.DB}
	if url := strings.TrimSpace(cfg.URL); url != "" {
		parsed, err := redis.ParseURL(url)
		if err != nil {
			return nil, fmt.Errorf("parsing redis url: %w", err)
		}
		opts = parsed
	}

	fill := func(dst *int, v int) {
		if *dst == 0 {
			*dst = v
		}
	}
	fillDur := func(dst *time.Duration, v time.Duration) {
		if *dst == 0 {
			*dst = v
		}
	}
	fill(&opts.DB, cfg.DB)
	fill(&opts.PoolSize, cfg.PoolSize)
	fill(&opts.MinIdleConns, cfg.MinIdleConns)
	fillDur(&opts.DialTimeout, cfg.DialTimeout)
	fillDur(&opts.ReadTimeout, cfg.ReadTimeout)
	fillDur(&opts.WriteTimeout, cfg.WriteTimeout)
	return opts, nil
}

// FixedWindowAllow counts one hit against scope. The first hit opens a window
// of the given length; a counter found without an expiry gets one, so a lost
// PEXPIRE cannot lock a caller out forever.
func (c *Client) FixedWindowAllow(ctx context.Context, scope string, limit int64, window time.Duration) (Window, error) {
	if c.cmd == nil {
		return Window{}, errNotInitialized
	}
	key := RateLimitKey(scope)

	count, err := c.cmd.Incr(ctx, key).Result()
	if err != nil {
		return Window{}, fmt.Errorf("incr %s: %w", key, err)
	}

	remaining := window
	if count > 1 {
		ttl, err := c.cmd.PTTL(ctx, key).Result()
		if err != nil {
			return Window{}, fmt.Errorf("pttl %s: %w", key, err)
		}
		remaining = ttl
	}
	if remaining < 0 || count == 1 {
		if err := c.cmd.PExpire(ctx, key, window).Err(); err != nil {
			return Window{}, fmt.Errorf("pexpire %s: %w", key, err)
		}
		remaining = window
	}

	res := Window{Allowed: count <= limit, Count: count}
	if !res.Allowed {
		res.RetryAfter = remaining
	}
	return res, nil
}

// Ping reports whether the server is reachable.
func (c *Client) Ping(ctx context.Context) error {
	if c.cmd == nil {
		return errNotInitialized
	}
	return c.cmd.Ping(ctx).Err()
}

// Close releases the connection pool. Safe on a zero Client.
func (c *Client) Close() error {
	if c.conn == nil {
		return nil
	}
	return c.conn.Close()
}

// RateLimitKey namespaces a limiter scope, dropping blank segments.
func RateLimitKey(scope string) string {
	parts := []string{keyNamespace, "rate_limit"}
	if s := strings.TrimSpace(scope); s != "" {
		parts = append(parts, s)
	}
	return strings.Join(parts, ":")
}
