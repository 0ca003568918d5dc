package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"
	"trainee_portal_backend/internal/model"

	"github.com/go-redis/redis/v8"
)

const progressCacheKeyPrefix = "training-progress-"

func progressCacheKey(slug string) string {
	return progressCacheKeyPrefix + slug
}

// RedisProgressCache 本地快照缓存（Redis），ttl 为 0 时不过期
type RedisProgressCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisProgressCache(rdb *redis.Client, ttl time.Duration) *RedisProgressCache {
	return &RedisProgressCache{rdb: rdb, ttl: ttl}
}

func (c *RedisProgressCache) Load(ctx context.Context, slug string) (*model.ProgressSnapshot, error) {
	data, err := c.rdb.Get(ctx, progressCacheKey(slug)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return decodeSnapshot(data)
}

func (c *RedisProgressCache) Save(ctx context.Context, snap *model.ProgressSnapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, progressCacheKey(snap.TraineeSlug), data, c.ttl).Err()
}

func (c *RedisProgressCache) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

// MemoryProgressCache 未启用 Redis 时使用的进程内缓存
type MemoryProgressCache struct {
	mu    sync.RWMutex
	items map[string][]byte
}

func NewMemoryProgressCache() *MemoryProgressCache {
	return &MemoryProgressCache{items: make(map[string][]byte)}
}

func (c *MemoryProgressCache) Load(_ context.Context, slug string) (*model.ProgressSnapshot, error) {
	c.mu.RLock()
	data, ok := c.items[progressCacheKey(slug)]
	c.mu.RUnlock()
	if !ok {
		return nil, nil
	}
	return decodeSnapshot(data)
}

func (c *MemoryProgressCache) Save(_ context.Context, snap *model.ProgressSnapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.items[progressCacheKey(snap.TraineeSlug)] = data
	c.mu.Unlock()
	return nil
}

// Put 写入原始内容，测试损坏缓存时使用
func (c *MemoryProgressCache) Put(slug string, raw []byte) {
	c.mu.Lock()
	c.items[progressCacheKey(slug)] = raw
	c.mu.Unlock()
}

func (c *MemoryProgressCache) Ping(context.Context) error { return nil }

func decodeSnapshot(data []byte) (*model.ProgressSnapshot, error) {
	var snap model.ProgressSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("corrupt progress cache: %w", err)
	}
	if snap.TraineeSlug == "" || snap.LastUpdated.IsZero() {
		return nil, fmt.Errorf("corrupt progress cache: missing slug or timestamp")
	}
	if snap.CheckedItems == nil {
		snap.CheckedItems = map[string]bool{}
	}
	if snap.Notes == nil {
		snap.Notes = map[string]string{}
	}
	return &snap, nil
}
