package cache

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/yiqitools/stock-alerts/internal/config"
)

const (
	digestLastKey       = "digest:last"
	digestDedupeKeyPref = "digest:sent:"
)

// LastDigest records the most recently sent digest, kept for operators.
type LastDigest struct {
	Body       string    `json:"body"`
	MessageID  string    `json:"message_id"`
	AlertCount int       `json:"alert_count"`
	SentAt     time.Time `json:"sent_at"`
}

// DigestCache records sent digests and answers whether an identical body was
// already delivered inside the dedupe window. It is advisory: cache failures
// must never block a digest.
type DigestCache interface {
	RecordSent(ctx context.Context, d LastDigest, dedupeWindow time.Duration) error
	GetLast(ctx context.Context) (LastDigest, bool, error)
	WasSentRecently(ctx context.Context, body string) (bool, error)
}

type redisDigestCache struct {
	client *redis.Client
	ttl    time.Duration
}

type noopDigestCache struct{}

func NewDigestCache(cfg config.CacheConfig) (DigestCache, error) {
	if !cfg.Enabled {
		return &noopDigestCache{}, nil
	}

	client, ttl, err := newRedisClient(cfg)
	if err != nil {
		return nil, err
	}
	return &redisDigestCache{client: client, ttl: ttl}, nil
}

func NewNoopDigestCache() DigestCache {
	return &noopDigestCache{}
}

func (c *redisDigestCache) RecordSent(ctx context.Context, d LastDigest, dedupeWindow time.Duration) error {
	payload, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("encode digest cache: %w", err)
	}
	if err := c.client.Set(ctx, digestLastKey, payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	if dedupeWindow > 0 {
		key := digestDedupeKeyPref + bodyHash(d.Body)
		if err := c.client.Set(ctx, key, d.SentAt.Format(time.RFC3339), dedupeWindow).Err(); err != nil {
			return fmt.Errorf("redis set failed: %w", err)
		}
	}
	return nil
}

func (c *redisDigestCache) GetLast(ctx context.Context) (LastDigest, bool, error) {
	payload, err := c.client.Get(ctx, digestLastKey).Bytes()
	if err == redis.Nil {
		return LastDigest{}, false, nil
	}
	if err != nil {
		return LastDigest{}, false, fmt.Errorf("redis get failed: %w", err)
	}

	var d LastDigest
	if err := json.Unmarshal(payload, &d); err != nil {
		return LastDigest{}, false, fmt.Errorf("decode digest cache: %w", err)
	}
	return d, true, nil
}

func (c *redisDigestCache) WasSentRecently(ctx context.Context, body string) (bool, error) {
	err := c.client.Get(ctx, digestDedupeKeyPref+bodyHash(body)).Err()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("redis get failed: %w", err)
	}
	return true, nil
}

func bodyHash(body string) string {
	sum := sha1.Sum([]byte(body))
	return hex.EncodeToString(sum[:])
}

func (noopDigestCache) RecordSent(context.Context, LastDigest, time.Duration) error {
	return nil
}

func (noopDigestCache) GetLast(context.Context) (LastDigest, bool, error) {
	return LastDigest{}, false, nil
}

func (noopDigestCache) WasSentRecently(context.Context, string) (bool, error) {
	return false, nil
}
