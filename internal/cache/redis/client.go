package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/skillmap/engine/pkg/logger"
)

type Client struct {
	client *redis.Client
}

func NewClient(host string, port int, password string, db int) (*Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", host, port),
		Password: password,
		DB:       db,
	})

	ctx := context.Background()
	_, err := client.Ping(ctx).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	logger.Info("Redis client initialized", zap.String("addr", fmt.Sprintf("%s:%d", host, port)))

	return &Client{client: client}, nil
}

func (c *Client) Close() error {
	return c.client.Close()
}

// Get returns the cached suggestions for a session, or ok=false when the key
// is absent or expired. Reads never consume the entry.
func (c *Client) Get(ctx context.Context, sessionID string) ([]string, bool, error) {
	vals, err := c.client.LRange(ctx, suggestionKey(sessionID), 0, -1).Result()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to get suggestion cache: %w", err)
	}
	if len(vals) == 0 {
		return nil, false, nil
	}

	logger.Debug("Suggestion cache hit", zap.String("session_id", sessionID))
	return vals, true, nil
}

// Set replaces the cached suggestions for a session and resets the TTL.
func (c *Client) Set(ctx context.Context, sessionID string, suggestions []string, ttl time.Duration) error {
	if len(suggestions) == 0 {
		return nil
	}

	key := suggestionKey(sessionID)
	pipe := c.client.TxPipeline()
	pipe.Del(ctx, key)
	args := make([]interface{}, len(suggestions))
	for i, s := range suggestions {
		args[i] = s
	}
	pipe.RPush(ctx, key, args...)
	pipe.Expire(ctx, key, ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to set suggestion cache: %w", err)
	}

	logger.Debug("Suggestions cached", zap.String("session_id", sessionID), zap.Duration("ttl", ttl))
	return nil
}

// Invalidate drops the cached suggestions for a session.
func (c *Client) Invalidate(ctx context.Context, sessionID string) error {
	if err := c.client.Del(ctx, suggestionKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("failed to invalidate suggestion cache: %w", err)
	}
	return nil
}

func (c *Client) IncrementMetric(ctx context.Context, metricName string) error {
	return c.client.Incr(ctx, fmt.Sprintf("metric:%s", metricName)).Err()
}

func (c *Client) GetMetric(ctx context.Context, metricName string) (int64, error) {
	val, err := c.client.Get(ctx, fmt.Sprintf("metric:%s", metricName)).Int64()
	if err == redis.Nil {
		return 0, nil
	}
	return val, err
}

func suggestionKey(sessionID string) string {
	return fmt.Sprintf("suggestions:%s", sessionID)
}
