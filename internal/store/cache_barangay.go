package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/marzhmallo/baranex-community-connect-sub002/internal/config"
	"github.com/marzhmallo/baranex-community-connect-sub002/internal/logger"
	"github.com/marzhmallo/baranex-community-connect-sub002/models"
)

const barangayCacheKeyPrefix = "portal:barangay:"

// NewRedisClient connects to the cache and pings it.
func NewRedisClient(ctx context.Context, cfg config.ClientCache) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return client, nil
}

// cachedBarangayRepository serves FindByID through Redis and falls back to
// the wrapped repository on a miss or any cache error. FindApproval always
// reads the database: the approval flag gates sign-in and must be current.
type cachedBarangayRepository struct {
	next   BarangayRepository
	client redis.Cmdable
	ttl    time.Duration
	logger *logger.Logger
}

// NewCachedBarangayRepository wraps next with a read-through cache.
func NewCachedBarangayRepository(next BarangayRepository, client redis.Cmdable, ttl time.Duration, logger *logger.Logger) BarangayRepository {
	return &cachedBarangayRepository{next: next, client: client, ttl: ttl, logger: logger}
}

func (c *cachedBarangayRepository) FindApproval(ctx context.Context, barangayID string) (bool, error) {
	return c.next.FindApproval(ctx, barangayID)
}

func (c *cachedBarangayRepository) FindByID(ctx context.Context, barangayID string) (models.Barangay, error) {
	key := barangayCacheKeyPrefix + barangayID

	raw, err := c.client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var b models.Barangay
		if err = json.Unmarshal(raw, &b); err == nil {
			return b, nil
		}
		c.logger.Warn().Err(err).Str("barangay_id", barangayID).Msg("discarding malformed cached barangay")
	case errors.Is(err, redis.Nil):
	default:
		c.logger.Warn().Err(err).Str("barangay_id", barangayID).Msg("barangay cache unavailable")
	}

	b, err := c.next.FindByID(ctx, barangayID)
	if err != nil {
		return models.Barangay{}, err
	}

	if payload, err := json.Marshal(b); err == nil {
		if err = c.client.Set(ctx, key, payload, c.ttl).Err(); err != nil {
			c.logger.Warn().Err(err).Str("barangay_id", barangayID).Msg("error caching barangay")
		}
	}

	return b, nil
}
