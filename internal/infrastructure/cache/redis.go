package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"smart-apply/internal/config"

	"github.com/redis/go-redis/v9"
)

// Redis backs every shared mutable store of the admission pipeline: rate
// counters, cooldown records, cached verdicts, resume versions and the
// per-job ranking index. Unlike a read-through cache, these stores are
// load-bearing — failures are returned to the caller, never bypassed.
type Redis struct {
	client *redis.Client
	logger *log.Logger
}

func NewRedis(cfg config.RedisConfig, logger *log.Logger) (*Redis, error) {
	host := strings.TrimSpace(cfg.Host)
	if host == "" {
		host = "localhost"
	}
	port := strings.TrimSpace(cfg.Port)
	if port == "" {
		port = "6379"
	}

	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", host, port),
		Password: strings.TrimSpace(cfg.Password),
		DB:       0,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &Redis{client: client, logger: logger}, nil
}

func (r *Redis) Close() error {
	if r == nil || r.client == nil {
		return nil
	}
	return r.client.Close()
}

func (r *Redis) Ping(ctx context.Context) error {
	if r == nil || r.client == nil {
		return errors.New("redis unavailable")
	}
	return r.client.Ping(ctx).Err()
}

// IncrWindow atomically increments a fixed-window counter. The first
// increment in a window arms the expiry; the returned remaining duration is
// the window's time to live after this increment.
func (r *Redis) IncrWindow(ctx context.Context, key string, window time.Duration) (int64, time.Duration, error) {
	count, err := r.client.Incr(ctx, key).Result()
	if err != nil {
		return 0, 0, err
	}
	if count == 1 {
		if err := r.client.Expire(ctx, key, window).Err(); err != nil {
			return count, window, err
		}
		return count, window, nil
	}

	ttl, err := r.client.TTL(ctx, key).Result()
	if err != nil {
		return count, 0, err
	}
	if ttl <= 0 {
		// Expiry was lost (e.g. a crash between INCR and EXPIRE); re-arm so
		// the counter cannot live forever.
		if err := r.client.Expire(ctx, key, window).Err(); err != nil {
			return count, window, err
		}
		ttl = window
	}
	return count, ttl, nil
}

func (r *Redis) SetTTL(ctx context.Context, key string, value string, ttl time.Duration) error {
	return r.client.Set(ctx, key, value, ttl).Err()
}

// RemainingTTL reports whether key exists and how long until it expires.
func (r *Redis) RemainingTTL(ctx context.Context, key string) (time.Duration, bool, error) {
	ttl, err := r.client.TTL(ctx, key).Result()
	if err != nil {
		return 0, false, err
	}
	if ttl <= 0 {
		return 0, false, nil
	}
	return ttl, true, nil
}

func (r *Redis) GetJSON(ctx context.Context, key string, out any) (bool, error) {
	b, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, err
	}
	if len(b) == 0 {
		return false, nil
	}
	if err := json.Unmarshal(b, out); err != nil {
		return false, err
	}
	return true, nil
}

func (r *Redis) SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error {
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, key, b, ttl).Err()
}

func (r *Redis) Current(ctx context.Context, key string) (int64, error) {
	v, err := r.client.Get(ctx, key).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		return 0, err
	}
	return v, nil
}

func (r *Redis) Bump(ctx context.Context, key string) (int64, error) {
	return r.client.Incr(ctx, key).Result()
}

func (r *Redis) AddScore(ctx context.Context, key string, member string, score float64) error {
	return r.client.ZAdd(ctx, key, redis.Z{Score: score, Member: member}).Err()
}

// TopMembers returns members best-first. n <= 0 returns the full range.
func (r *Redis) TopMembers(ctx context.Context, key string, n int64) ([]string, error) {
	stop := n - 1
	if n <= 0 {
		stop = -1
	}
	return r.client.ZRevRange(ctx, key, 0, stop).Result()
}
