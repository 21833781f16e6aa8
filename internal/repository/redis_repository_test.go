package repository

import (
	"context"
	"testing"
	"time"

	"edulearn_backend/internal/config"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMiniRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return mr, client
}

func TestRecentQuestionCache_Remember(t *testing.T) {
	ctx := context.Background()

	t.Run("keeps newest questions within limit and refreshes ttl", func(t *testing.T) {
		mr, client := newMiniRedis(t)
		cache := NewRecentQuestionCache(client, func() config.QuizConfig {
			return config.QuizConfig{RecentQuestionLimit: 3, RecentTTLHours: 2}
		})

		require.NoError(t, cache.Remember(ctx, "u1", 7, []uint{1, 2}))
		time.Sleep(time.Millisecond)
		require.NoError(t, cache.Remember(ctx, "u1", 7, []uint{3, 4}))

		key := recentQuestionKey("u1", 7)
		members, err := mr.ZMembers(key)
		require.NoError(t, err)
		assert.Len(t, members, 3)
		assert.NotContains(t, members, "1")
		assert.Equal(t, 2*time.Hour, mr.TTL(key))

		ids, err := cache.Recent(ctx, "u1", 7)
		require.NoError(t, err)
		assert.Equal(t, []uint{4, 3, 2}, ids)
	})

	t.Run("zero limit keeps everything without expiry", func(t *testing.T) {
		mr, client := newMiniRedis(t)
		cache := NewRecentQuestionCache(client, func() config.QuizConfig { return config.QuizConfig{} })

		require.NoError(t, cache.Remember(ctx, "u2", 1, []uint{5, 6, 7}))

		key := recentQuestionKey("u2", 1)
		members, err := mr.ZMembers(key)
		require.NoError(t, err)
		assert.Len(t, members, 3)
		assert.Zero(t, mr.TTL(key))
	})

	t.Run("empty batch writes nothing", func(t *testing.T) {
		mr, client := newMiniRedis(t)
		cache := NewRecentQuestionCache(client, func() config.QuizConfig {
			return config.QuizConfig{RecentQuestionLimit: 3, RecentTTLHours: 2}
		})

		require.NoError(t, cache.Remember(ctx, "u3", 1, nil))
		assert.False(t, mr.Exists(recentQuestionKey("u3", 1)))
	})

	t.Run("users and subjects are isolated", func(t *testing.T) {
		_, client := newMiniRedis(t)
		cache := NewRecentQuestionCache(client, func() config.QuizConfig { return config.QuizConfig{RecentQuestionLimit: 10} })

		require.NoError(t, cache.Remember(ctx, "u1", 1, []uint{1}))
		require.NoError(t, cache.Remember(ctx, "u1", 2, []uint{2}))
		require.NoError(t, cache.Remember(ctx, "u2", 1, []uint{3}))

		ids, err := cache.Recent(ctx, "u1", 1)
		require.NoError(t, err)
		assert.Equal(t, []uint{1}, ids)
	})
}

func TestLeaderboardRepository_Record(t *testing.T) {
	ctx := context.Background()

	t.Run("keeps the best percentage per user", func(t *testing.T) {
		mr, client := newMiniRedis(t)
		repo := NewLeaderboardRepository(client)

		require.NoError(t, repo.Record(ctx, 3, "u1", 60))
		require.NoError(t, repo.Record(ctx, 3, "u1", 40))

		score, err := mr.ZScore(leaderboardKey(3), "u1")
		require.NoError(t, err)
		assert.Equal(t, 60.0, score)

		require.NoError(t, repo.Record(ctx, 3, "u1", 85))
		score, err = mr.ZScore(leaderboardKey(3), "u1")
		require.NoError(t, err)
		assert.Equal(t, 85.0, score)
	})

	t.Run("top ranks by percentage", func(t *testing.T) {
		_, client := newMiniRedis(t)
		repo := NewLeaderboardRepository(client)

		require.NoError(t, repo.Record(ctx, 1, "u1", 70))
		require.NoError(t, repo.Record(ctx, 1, "u2", 90))
		require.NoError(t, repo.Record(ctx, 1, "u3", 50))
		require.NoError(t, repo.Record(ctx, 2, "u4", 100))

		entries, err := repo.Top(ctx, 1, 2)
		require.NoError(t, err)
		require.Len(t, entries, 2)
		assert.Equal(t, 1, entries[0].Rank)
		assert.Equal(t, "u2", entries[0].UserID)
		assert.Equal(t, 90.0, entries[0].Percentage)
		assert.Equal(t, 2, entries[1].Rank)
		assert.Equal(t, "u1", entries[1].UserID)

		all, err := repo.Top(ctx, 1, 0)
		require.NoError(t, err)
		assert.Len(t, all, 3)
	})
}
