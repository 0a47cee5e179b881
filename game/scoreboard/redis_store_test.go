package scoreboard

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSortScoreOrdering(t *testing.T) {
	high := sortScore(Record{Score: 10, ElapsedMs: 900000})
	low := sortScore(Record{Score: 9, ElapsedMs: 1})
	assert.Greater(t, high, low, "score dominates time")

	fast := sortScore(Record{Score: 5, ElapsedMs: 1000})
	slow := sortScore(Record{Score: 5, ElapsedMs: 2000})
	assert.Greater(t, fast, slow, "shorter time wins a tie")

	capped := sortScore(Record{Score: 5, ElapsedMs: 1 << 40})
	assert.Greater(t, capped, sortScore(Record{Score: 4}))
}

// TestRedisStore runs against a live server when REDIS_ADDR is set.
func TestRedisStore(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}
	ctx := context.Background()
	client, err := DialRedis(ctx, addr, os.Getenv("REDIS_PASSWORD"), 0)
	require.NoError(t, err)

	prefix := fmt.Sprintf("maze-test-%d", time.Now().UnixNano())
	store := NewRedisStore(client, prefix, 2)
	t.Cleanup(func() {
		client.Del(ctx, store.rankKey(10), store.recordKey(10))
		_ = store.Close()
	})

	require.NoError(t, store.Add(ctx, rec(10, 3, time.Second)))
	require.NoError(t, store.Add(ctx, rec(10, 8, time.Second)))
	require.NoError(t, store.Add(ctx, rec(10, 5, time.Second)))

	top, err := store.Top(ctx, 10, 0)
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, 8, top[0].Score)
	assert.Equal(t, 5, top[1].Score)

	n, err := client.HLen(ctx, store.recordKey(10)).Result()
	require.NoError(t, err)
	assert.Equal(t, int64(2), n, "trimmed records are removed from the hash")

	empty, err := store.Top(ctx, 15, 5)
	require.NoError(t, err)
	assert.Empty(t, empty)
}
