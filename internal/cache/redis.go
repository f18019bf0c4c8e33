package cache

import (
	"context"
	"encoding/json"
	"log"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	profileKeyPrefix = "wastenot:profile:"
	reminderZSetKey  = "wastenot:reminders:due"
	reminderHashKey  = "wastenot:reminders:payload"
)

// RedisProfileCache is a Redis-backed ProfileCache shared across instances.
type RedisProfileCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisProfileCache creates a profile cache on an existing Redis client.
func NewRedisProfileCache(client *redis.Client, ttl time.Duration) *RedisProfileCache {
	if ttl == 0 {
		ttl = 5 * time.Minute
	}
	return &RedisProfileCache{client: client, ttl: ttl}
}

// GetName returns the cached display name for uid, if present. Redis errors
// degrade to a miss.
func (c *RedisProfileCache) GetName(ctx context.Context, uid string) (string, bool) {
	name, err := c.client.Get(ctx, profileKeyPrefix+uid).Result()
	if err != nil {
		return "", false
	}
	return name, true
}

// SetName caches the display name for uid. Failures are logged, not surfaced;
// the cache is best effort.
func (c *RedisProfileCache) SetName(ctx context.Context, uid, name string) {
	if err := c.client.Set(ctx, profileKeyPrefix+uid, name, c.ttl).Err(); err != nil {
		log.Printf("[RedisProfileCache] Failed to cache name for %s: %v", uid, err)
	}
}

// RedisReminderQueue is a Redis-backed ReminderQueue: a sorted set ordered by
// due time plus a hash carrying the payload per (inventory, item) key.
type RedisReminderQueue struct {
	client *redis.Client
}

// NewRedisReminderQueue creates a reminder queue on an existing Redis client.
func NewRedisReminderQueue(client *redis.Client) *RedisReminderQueue {
	return &RedisReminderQueue{client: client}
}

// Schedule enqueues or replaces the reminder for an item.
func (q *RedisReminderQueue) Schedule(ctx context.Context, entry ReminderEntry) error {
	payload, err := json.Marshal(entry)
	if err != nil {
		return err
	}

	key := reminderKey(entry.InventoryID, entry.ItemID)
	pipe := q.client.Pipeline()
	pipe.ZAdd(ctx, reminderZSetKey, redis.Z{
		Score:  float64(entry.DueAt.Unix()),
		Member: key,
	})
	pipe.HSet(ctx, reminderHashKey, key, payload)
	_, err = pipe.Exec(ctx)
	return err
}

// Cancel drops the pending reminder for an item, if any.
func (q *RedisReminderQueue) Cancel(ctx context.Context, inventoryID, itemID string) error {
	key := reminderKey(inventoryID, itemID)
	pipe := q.client.Pipeline()
	pipe.ZRem(ctx, reminderZSetKey, key)
	pipe.HDel(ctx, reminderHashKey, key)
	_, err := pipe.Exec(ctx)
	return err
}

// PopDue removes and returns every reminder due at or before now.
func (q *RedisReminderQueue) PopDue(ctx context.Context, now time.Time) ([]ReminderEntry, error) {
	keys, err := q.client.ZRangeByScore(ctx, reminderZSetKey, &redis.ZRangeBy{
		Min: "-inf",
		Max: strconv.FormatInt(now.Unix(), 10),
	}).Result()
	if err != nil {
		return nil, err
	}
	if len(keys) == 0 {
		return nil, nil
	}

	due := make([]ReminderEntry, 0, len(keys))
	for _, key := range keys {
		payload, err := q.client.HGet(ctx, reminderHashKey, key).Bytes()
		if err != nil {
			continue
		}
		var entry ReminderEntry
		if err := json.Unmarshal(payload, &entry); err != nil {
			log.Printf("[RedisReminderQueue] Skipping bad payload for %s: %v", key, err)
			continue
		}
		due = append(due, entry)
	}

	pipe := q.client.Pipeline()
	for _, key := range keys {
		pipe.ZRem(ctx, reminderZSetKey, key)
		pipe.HDel(ctx, reminderHashKey, key)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return due, err
	}
	return due, nil
}

var (
	_ ProfileCache  = (*RedisProfileCache)(nil)
	_ ReminderQueue = (*RedisReminderQueue)(nil)
)
