package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Payphone-Digital/review-platform/config"
	"github.com/Payphone-Digital/review-platform/pkg/logger"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// scanBatch is the COUNT hint used when iterating keys for pattern deletes.
const scanBatch = 100

type Client struct {
	rdb *redis.Client
}

func NewClient(cfg *config.Config) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.RedisAddress(),
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.Database,
		PoolSize:     cfg.Redis.PoolSize,
		MinIdleConns: cfg.Redis.MinIdleConns,
		DialTimeout:  cfg.Redis.DialTimeout,
		ReadTimeout:  cfg.Redis.ReadTimeout,
		WriteTimeout: cfg.Redis.WriteTimeout,
		PoolTimeout:  cfg.Redis.PoolTimeout,
	})

	client := &Client{rdb: rdb}

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx); err != nil {
		logger.GetLogger().Error("Failed to connect to Redis",
			zap.String("address", cfg.RedisAddress()),
			zap.Error(err),
		)
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logger.GetLogger().Info("Successfully connected to Redis",
		zap.String("address", cfg.RedisAddress()),
		zap.Int("database", cfg.Redis.Database),
	)

	return client, nil
}

// NewFromRedis wraps an existing go-redis client.
func NewFromRedis(rdb *redis.Client) *Client {
	return &Client{rdb: rdb}
}

func (c *Client) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

func (c *Client) Close() error {
	return c.rdb.Close()
}

// Get returns the raw value stored at key. found is false on a cache miss.
func (c *Client) Get(ctx context.Context, key string) (value []byte, found bool, err error) {
	data, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		logger.GetLogger().Error("Failed to get cache",
			zap.String("key", key),
			zap.Error(err),
		)
		return nil, false, fmt.Errorf("failed to get cache: %w", err)
	}

	logger.GetLogger().Debug("Cache hit",
		zap.String("key", key),
		zap.Int("data_size", len(data)),
	)

	return data, true, nil
}

// Set stores value at key with the given ttl.
func (c *Client) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := c.rdb.Set(ctx, key, value, ttl).Err(); err != nil {
		logger.GetLogger().Error("Failed to set cache",
			zap.String("key", key),
			zap.Duration("ttl", ttl),
			zap.Error(err),
		)
		return fmt.Errorf("failed to set cache: %w", err)
	}

	logger.GetLogger().Debug("Cache set successfully",
		zap.String("key", key),
		zap.Duration("ttl", ttl),
		zap.Int("data_size", len(value)),
	)

	return nil
}

// Version returns the counter stored at key, zero when it is unset.
func (c *Client) Version(ctx context.Context, key string) (int64, error) {
	version, err := c.rdb.Get(ctx, key).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to get version: %w", err)
	}
	return version, nil
}

// Incr bumps the counters at keys in one round trip.
func (c *Client) Incr(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}

	_, err := c.rdb.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, key := range keys {
			pipe.Incr(ctx, key)
		}
		return nil
	})
	if err != nil {
		logger.GetLogger().Error("Failed to bump versions",
			zap.Strings("keys", keys),
			zap.Error(err),
		)
		return fmt.Errorf("failed to bump versions: %w", err)
	}

	return nil
}

// SetIfVersion stores value at key only while the counter at versionKey
// still equals version. stored is false when the counter moved, including
// when it moved between the check and the write.
func (c *Client) SetIfVersion(ctx context.Context, versionKey string, version int64, key string, value []byte, ttl time.Duration) (stored bool, err error) {
	err = c.rdb.Watch(ctx, func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, versionKey).Int64()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if current != version {
			return nil
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, value, ttl)
			return nil
		})
		if err == nil {
			stored = true
		}
		return err
	}, versionKey)

	if errors.Is(err, redis.TxFailedErr) {
		logger.GetLogger().Debug("Versioned set lost the race",
			zap.String("key", key),
		)
		return false, nil
	}
	if err != nil {
		logger.GetLogger().Error("Failed to set versioned cache",
			zap.String("key", key),
			zap.String("version_key", versionKey),
			zap.Error(err),
		)
		return false, fmt.Errorf("failed to set versioned cache: %w", err)
	}

	return stored, nil
}

// Delete removes cache entries
func (c *Client) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}

	if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
		logger.GetLogger().Error("Failed to delete cache",
			zap.Strings("keys", keys),
			zap.Error(err),
		)
		return fmt.Errorf("failed to delete cache: %w", err)
	}

	logger.GetLogger().Debug("Cache deleted successfully",
		zap.Strings("keys", keys),
	)

	return nil
}

// DeleteByPattern removes cache entries matching pattern. Keys are walked
// with SCAN so large keyspaces do not block the server.
func (c *Client) DeleteByPattern(ctx context.Context, pattern string) (int, error) {
	var (
		cursor  uint64
		deleted int
	)

	for {
		keys, next, err := c.rdb.Scan(ctx, cursor, pattern, scanBatch).Result()
		if err != nil {
			return deleted, fmt.Errorf("failed to scan keys by pattern: %w", err)
		}

		if len(keys) > 0 {
			if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
				logger.GetLogger().Error("Failed to delete cache by pattern",
					zap.String("pattern", pattern),
					zap.Strings("keys", keys),
					zap.Error(err),
				)
				return deleted, fmt.Errorf("failed to delete cache by pattern: %w", err)
			}
			deleted += len(keys)
		}

		cursor = next
		if cursor == 0 {
			break
		}
	}

	logger.GetLogger().Info("Cache deleted by pattern successfully",
		zap.String("pattern", pattern),
		zap.Int("deleted_count", deleted),
	)

	return deleted, nil
}

// Exists checks if key exists
func (c *Client) Exists(ctx context.Context, key string) (bool, error) {
	result, err := c.rdb.Exists(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check key existence: %w", err)
	}
	return result > 0, nil
}

// PoolStats returns a summary of the connection pool for health reporting.
func (c *Client) PoolStats() map[string]interface{} {
	poolStats := c.rdb.PoolStats()
	return map[string]interface{}{
		"hits":        poolStats.Hits,
		"misses":      poolStats.Misses,
		"total_conns": poolStats.TotalConns,
		"idle_conns":  poolStats.IdleConns,
		"stale_conns": poolStats.StaleConns,
	}
}
