package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"myBookShelf/domain"

	"github.com/redis/go-redis/v9"
)

const popularTTL = 10 * time.Minute

// PopularCache keeps rendered popular-book lists in Redis. The
// underlying ranking only changes when the static snapshot is rebuilt,
// so a short TTL is purely to bound staleness across deploys.
type PopularCache struct {
	client *redis.Client
}

func NewPopularCache(client *redis.Client) *PopularCache {
	return &PopularCache{
		client: client,
	}
}

func popularKey(n, minSupport int) string {
	return fmt.Sprintf("popular:top:%d:%d", n, minSupport)
}

// Get returns the cached list, or (nil, nil) on a miss.
func (c *PopularCache) Get(ctx context.Context, n, minSupport int) ([]domain.RecommendedBook, error) {
	val, err := c.client.Get(ctx, popularKey(n, minSupport)).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get popular list from Redis: %w", err)
	}

	var books []domain.RecommendedBook
	if err := json.Unmarshal([]byte(val), &books); err != nil {
		return nil, fmt.Errorf("failed to unmarshal popular list: %w", err)
	}

	return books, nil
}

func (c *PopularCache) Set(ctx context.Context, n, minSupport int, books []domain.RecommendedBook) error {
	jsonData, err := json.Marshal(books)
	if err != nil {
		return fmt.Errorf("failed to marshal popular list: %w", err)
	}

	err = c.client.Set(ctx, popularKey(n, minSupport), jsonData, popularTTL).Err()
	if err != nil {
		return fmt.Errorf("failed to store popular list in Redis: %w", err)
	}

	return nil
}
