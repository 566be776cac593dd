package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/logiflow/team-balancer/internal/models"
)

// ResultCache is an optional process-wide cache of partition results, keyed
// by a content hash of the cleaned roster plus the solver budget. A nil redis
// client disables caching and every call computes fresh. Per-key mutexes give
// single-writer-at-a-time semantics so concurrent identical requests solve
// once.
type ResultCache struct {
	client *redis.Client
	logger *logrus.Logger

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewResultCache creates a cache service. client may be nil.
func NewResultCache(client *redis.Client, logger *logrus.Logger) *ResultCache {
	return &ResultCache{
		client: client,
		logger: logger,
		locks:  make(map[string]*sync.Mutex),
	}
}

// RosterKey produces a deterministic content hash for a roster and budget.
// Players are hashed in id order so upstream ordering does not fragment the
// cache.
func RosterKey(players []models.PlayerRecord, budget time.Duration) string {
	sorted := make([]models.PlayerRecord, len(players))
	copy(sorted, players)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })

	h := xxhash.New()
	for _, p := range sorted {
		fmt.Fprintf(h, "%s|%s|%d|%d;", p.ID, p.Position, p.SkillScore, p.BirthYear)
	}
	fmt.Fprintf(h, "budget=%d", budget.Milliseconds())
	return fmt.Sprintf("partition:%x", h.Sum64())
}

// Do returns the cached result for key, or computes, stores and returns a
// fresh one. Computation for a given key is serialized; errors from compute
// are returned without being cached.
func (c *ResultCache) Do(ctx context.Context, key string, ttl time.Duration, compute func() (*models.PartitionResult, error)) (*models.PartitionResult, error) {
	if c.client == nil {
		return compute()
	}

	if cached, err := c.get(ctx, key); err == nil {
		c.logger.WithField("cache_key", key).Debug("Returning cached partition result")
		return cached, nil
	}

	lock := c.keyLock(key)
	lock.Lock()
	defer lock.Unlock()

	// Another writer may have filled the key while we waited.
	if cached, err := c.get(ctx, key); err == nil {
		return cached, nil
	}

	result, err := compute()
	if err != nil {
		return nil, err
	}
	if err := c.set(ctx, key, result, ttl); err != nil {
		// Cache failures degrade to recomputation, never to request failure.
		c.logger.WithError(err).WithField("cache_key", key).Warn("Failed to cache partition result")
	}
	return result, nil
}

func (c *ResultCache) keyLock(key string) *sync.Mutex {
	c.mu.Lock()
	defer c.mu.Unlock()
	lock, ok := c.locks[key]
	if !ok {
		lock = &sync.Mutex{}
		c.locks[key] = lock
	}
	return lock
}

func (c *ResultCache) get(ctx context.Context, key string) (*models.PartitionResult, error) {
	data, err := c.client.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, fmt.Errorf("partition result not found in cache")
		}
		return nil, fmt.Errorf("failed to get partition result from cache: %w", err)
	}

	var result models.PartitionResult
	if err := json.Unmarshal([]byte(data), &result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal partition result: %w", err)
	}
	return &result, nil
}

func (c *ResultCache) set(ctx context.Context, key string, result *models.PartitionResult, ttl time.Duration) error {
	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to marshal partition result: %w", err)
	}
	if err := c.client.Set(ctx, key, data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to set partition result in cache: %w", err)
	}
	c.logger.WithFields(logrus.Fields{
		"cache_key":  key,
		"expiration": ttl,
	}).Debug("Cached partition result")
	return nil
}
