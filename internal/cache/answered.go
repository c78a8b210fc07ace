package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"questionbank/internal/metrics"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AnsweredKeyPrefix namespaces the per-student answered-question sets.
const AnsweredKeyPrefix = "answered:"

// AnsweredCache caches the ids of questions a student has answered. A nil
// *AnsweredCache is valid and behaves as an always-missing cache.
type AnsweredCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewAnsweredCache(rdb *redis.Client, ttl time.Duration) *AnsweredCache {
	if rdb == nil {
		return nil
	}
	return &AnsweredCache{rdb: rdb, ttl: ttl}
}

func key(studentID primitive.ObjectID) string {
	return AnsweredKeyPrefix + studentID.Hex()
}

// Get returns the cached ids and whether the entry existed.
func (c *AnsweredCache) Get(ctx context.Context, studentID primitive.ObjectID) ([]primitive.ObjectID, bool, error) {
	if c == nil {
		return nil, false, nil
	}
	raw, err := c.rdb.Get(ctx, key(studentID)).Bytes()
	if errors.Is(err, redis.Nil) {
		metrics.ObserveCacheLookup(metrics.CacheMiss)
		return nil, false, nil
	}
	if err != nil {
		metrics.ObserveCacheLookup(metrics.CacheError)
		return nil, false, err
	}

	var hexes []string
	if err := json.Unmarshal(raw, &hexes); err != nil {
		metrics.ObserveCacheLookup(metrics.CacheError)
		return nil, false, err
	}
	ids := make([]primitive.ObjectID, 0, len(hexes))
	for _, h := range hexes {
		id, err := primitive.ObjectIDFromHex(h)
		if err != nil {
			metrics.ObserveCacheLookup(metrics.CacheError)
			return nil, false, err
		}
		ids = append(ids, id)
	}
	metrics.ObserveCacheLookup(metrics.CacheHit)
	return ids, true, nil
}

func (c *AnsweredCache) Set(ctx context.Context, studentID primitive.ObjectID, ids []primitive.ObjectID) error {
	if c == nil {
		return nil
	}
	hexes := make([]string, len(ids))
	for i, id := range ids {
		hexes[i] = id.Hex()
	}
	payload, err := json.Marshal(hexes)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, key(studentID), payload, c.ttl).Err()
}

// Invalidate drops the student's entry; called after every new answer.
func (c *AnsweredCache) Invalidate(ctx context.Context, studentID primitive.ObjectID) error {
	if c == nil {
		return nil
	}
	return c.rdb.Del(ctx, key(studentID)).Err()
}
