package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/hiredesk/hiredesk/internal/infrastructure/logging"
)

const (
	// OfferBoardKey is the sorted set key ranking published offers by
	// application count. a single key is enough for one deployment.
	OfferBoardKey = "hiredesk:offer_board"

	// default connection timeout
	defaultConnectTimeout = 10 * time.Second
)

var (
	ErrRedisNotConnected = errors.New("redis not connected")
	ErrBoardEmpty        = errors.New("offer board is empty")
)

// RedisConfig holds configuration for Redis connection.
type RedisConfig struct {
	URL string
}

// RedisClient wraps the go-redis client with the offer board operations.
// the board ranks published offers by how many applications they received.
type RedisClient struct {
	client *redis.Client
	logger *logging.Logger
}

// NewRedisClient creates a new Redis client from the config.
// returns nil if the URL is empty (redis disabled).
func NewRedisClient(cfg RedisConfig, logger *logging.Logger) (*RedisClient, error) {
	if cfg.URL == "" {
		logger.Info("redis disabled: no REDIS_URL configured")
		return nil, nil
	}

	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parsing redis url: %w", err)
	}

	opts.DialTimeout = defaultConnectTimeout
	opts.ReadTimeout = 3 * time.Second
	opts.WriteTimeout = 3 * time.Second
	opts.PoolSize = 50
	opts.MinIdleConns = 5

	client := redis.NewClient(opts)

	rc := &RedisClient{
		client: client,
		logger: logger.WithComponent("redis"),
	}

	return rc, nil
}

// Connect tests the connection to Redis.
func (r *RedisClient) Connect(ctx context.Context) error {
	if r.client == nil {
		return ErrRedisNotConnected
	}

	ctx, cancel := context.WithTimeout(ctx, defaultConnectTimeout)
	defer cancel()

	if err := r.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}

	r.logger.Info("redis connected")
	return nil
}

// Close closes the Redis connection.
func (r *RedisClient) Close() error {
	if r.client == nil {
		return nil
	}
	return r.client.Close()
}

// UpdateOfferScore updates the application count for an offer on the board.
// uses ZADD to upsert the score in the sorted set.
func (r *RedisClient) UpdateOfferScore(ctx context.Context, offerID string, applications float64) error {
	if r.client == nil {
		return ErrRedisNotConnected
	}

	err := r.client.ZAdd(ctx, OfferBoardKey, redis.Z{
		Score:  applications,
		Member: offerID,
	}).Err()

	if err != nil {
		r.logger.Error("failed to update offer board",
			"offer_id", offerID,
			"applications", applications,
			"error", err.Error(),
		)
		return fmt.Errorf("zadd failed: %w", err)
	}

	r.logger.Debug("offer board updated",
		"offer_id", offerID,
		"applications", applications,
	)

	return nil
}

// IncrementOfferScore bumps an offer's application count by one.
// cheaper than recounting on every submission.
func (r *RedisClient) IncrementOfferScore(ctx context.Context, offerID string) error {
	if r.client == nil {
		return ErrRedisNotConnected
	}

	if err := r.client.ZIncrBy(ctx, OfferBoardKey, 1, offerID).Err(); err != nil {
		return fmt.Errorf("zincrby failed: %w", err)
	}
	return nil
}

// GetTopOffers returns the top N offer IDs ordered by application count.
// returns offer IDs only, use these to fetch full details from postgres.
func (r *RedisClient) GetTopOffers(ctx context.Context, limit, offset int64) ([]string, error) {
	if r.client == nil {
		return nil, ErrRedisNotConnected
	}

	start := offset
	stop := offset + limit - 1

	members, err := r.client.ZRevRange(ctx, OfferBoardKey, start, stop).Result()
	if err != nil {
		r.logger.Error("failed to get top offers",
			"limit", limit,
			"offset", offset,
			"error", err.Error(),
		)
		return nil, fmt.Errorf("zrevrange failed: %w", err)
	}

	if len(members) == 0 {
		return nil, ErrBoardEmpty
	}

	return members, nil
}

// RemoveOffer removes an offer from the board.
// called when an offer is closed.
func (r *RedisClient) RemoveOffer(ctx context.Context, offerID string) error {
	if r.client == nil {
		return ErrRedisNotConnected
	}

	err := r.client.ZRem(ctx, OfferBoardKey, offerID).Err()
	if err != nil {
		return fmt.Errorf("zrem failed: %w", err)
	}

	r.logger.Debug("removed from offer board", "offer_id", offerID)
	return nil
}

// BoardSize returns the number of offers on the board.
func (r *RedisClient) BoardSize(ctx context.Context) (int64, error) {
	if r.client == nil {
		return 0, ErrRedisNotConnected
	}

	count, err := r.client.ZCard(ctx, OfferBoardKey).Result()
	if err != nil {
		return 0, fmt.Errorf("zcard failed: %w", err)
	}

	return count, nil
}

// HealthCheck verifies Redis is responding.
func (r *RedisClient) HealthCheck(ctx context.Context) error {
	if r.client == nil {
		return ErrRedisNotConnected
	}

	return r.client.Ping(ctx).Err()
}
