package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shenikar/safewalk/internal/models"
	"github.com/shenikar/safewalk/internal/service"
)

type PlaceCache struct {
	redisClient *redis.Client
}

func NewPlaceCache(redisClient *redis.Client) service.PlaceCache {
	return &PlaceCache{redisClient: redisClient}
}

// GetPlaces пытается получить результаты поиска из Redis
func (c *PlaceCache) GetPlaces(ctx context.Context, key string) ([]*models.SafePlace, error) {
	val, err := c.redisClient.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get places from cache: %w", err)
	}

	places := make([]*models.SafePlace, 0)
	if err := json.Unmarshal(val, &places); err != nil {
		return nil, fmt.Errorf("failed to unmarshal places from cache: %w", err)
	}
	return places, nil
}

// SetPlaces сохраняет результаты поиска в Redis
func (c *PlaceCache) SetPlaces(ctx context.Context, key string, places []*models.SafePlace, ttl time.Duration) error {
	val, err := json.Marshal(places)
	if err != nil {
		return fmt.Errorf("failed to marshal places for cache: %w", err)
	}
	if err := c.redisClient.Set(ctx, key, val, ttl).Err(); err != nil {
		return fmt.Errorf("failed to set places in cache: %w", err)
	}
	return nil
}
