package scoreboard

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"github.com/redis/go-redis/v9"
)

// RedisStore implements Store with a sorted set per maze size. Members are
// record IDs; the full record lives in a hash keyed by the same prefix.
type RedisStore struct {
	client     *redis.Client
	prefix     string
	maxEntries int
}

// NewRedisStore wraps client. Keys are namespaced under prefix, which
// defaults to "maze".
func NewRedisStore(client *redis.Client, prefix string, maxEntries int) *RedisStore {
	if prefix == "" {
		prefix = "maze"
	}
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	return &RedisStore{client: client, prefix: prefix, maxEntries: maxEntries}
}

// DialRedis connects to addr and checks the connection.
func DialRedis(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", addr, err)
	}
	return client, nil
}

func (rs *RedisStore) rankKey(size int) string {
	return fmt.Sprintf("%s:scores:%d", rs.prefix, size)
}

func (rs *RedisStore) recordKey(size int) string {
	return fmt.Sprintf("%s:records:%d", rs.prefix, size)
}

// sortScore folds score and elapsed time into one float so that a higher
// score wins and, among equal scores, a shorter time wins. Elapsed time is
// capped just under one score point.
func sortScore(rec Record) float64 {
	const scale = 1e9
	elapsed := math.Min(float64(rec.ElapsedMs), scale-1)
	return float64(rec.Score) - elapsed/scale
}

// Add stores rec and trims the set to the best maxEntries records.
func (rs *RedisStore) Add(ctx context.Context, rec Record) error {
	if err := rec.Validate(); err != nil {
		return err
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal record: %w", err)
	}

	rankKey, recordKey := rs.rankKey(rec.Size), rs.recordKey(rec.Size)
	_, err = rs.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, recordKey, rec.ID, data)
		pipe.ZAdd(ctx, rankKey, redis.Z{Score: sortScore(rec), Member: rec.ID})
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis add score: %w", err)
	}

	return rs.trim(ctx, rec.Size)
}

// trim drops records ranked below maxEntries.
func (rs *RedisStore) trim(ctx context.Context, size int) error {
	rankKey := rs.rankKey(size)
	stale, err := rs.client.ZRange(ctx, rankKey, 0, int64(-rs.maxEntries-1)).Result()
	if err != nil {
		return fmt.Errorf("redis trim scores: %w", err)
	}
	if len(stale) == 0 {
		return nil
	}
	members := make([]interface{}, len(stale))
	for i, id := range stale {
		members[i] = id
	}
	_, err = rs.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.ZRem(ctx, rankKey, members...)
		pipe.HDel(ctx, rs.recordKey(size), stale...)
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis trim scores: %w", err)
	}
	return nil
}

// Top returns up to limit records for size, best first.
func (rs *RedisStore) Top(ctx context.Context, size, limit int) ([]Record, error) {
	stop := int64(-1)
	if limit > 0 {
		stop = int64(limit - 1)
	}
	ids, err := rs.client.ZRevRange(ctx, rs.rankKey(size), 0, stop).Result()
	if err != nil {
		return nil, fmt.Errorf("redis top scores: %w", err)
	}
	if len(ids) == 0 {
		return []Record{}, nil
	}

	raw, err := rs.client.HMGet(ctx, rs.recordKey(size), ids...).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("redis load records: %w", err)
	}

	recs := make([]Record, 0, len(raw))
	for _, v := range raw {
		s, ok := v.(string)
		if !ok {
			continue
		}
		var rec Record
		if err := json.Unmarshal([]byte(s), &rec); err != nil {
			return nil, fmt.Errorf("failed to unmarshal record: %w", err)
		}
		recs = append(recs, rec)
	}
	return recs, nil
}

// Close closes the underlying client.
func (rs *RedisStore) Close() error {
	return rs.client.Close()
}
