package repository

import (
	"context"
	"edulearn_backend/internal/model"
	"fmt"

	"github.com/go-redis/redis/v8"
)

const leaderboardPrefix = "quiz:leaderboard:" // ZSet: quiz:leaderboard:{subjectID} -> userID 以最佳百分比打分

func leaderboardKey(subjectID uint) string {
	return fmt.Sprintf("%s%d", leaderboardPrefix, subjectID)
}

type LeaderboardRepository struct {
	Client *redis.Client
}

func NewLeaderboardRepository(client *redis.Client) *LeaderboardRepository {
	return &LeaderboardRepository{Client: client}
}

// Record 只在新成绩更高时覆盖
func (r *LeaderboardRepository) Record(ctx context.Context, subjectID uint, userID string, percentage float64) error {
	return r.Client.ZAddArgs(ctx, leaderboardKey(subjectID), redis.ZAddArgs{
		GT:      true,
		Members: []redis.Z{{Score: percentage, Member: userID}},
	}).Err()
}

func (r *LeaderboardRepository) Top(ctx context.Context, subjectID uint, limit int) ([]model.LeaderboardEntry, error) {
	if limit <= 0 {
		limit = 10
	}
	results, err := r.Client.ZRevRangeWithScores(ctx, leaderboardKey(subjectID), 0, int64(limit-1)).Result()
	if err != nil {
		return nil, err
	}

	entries := make([]model.LeaderboardEntry, 0, len(results))
	for i, z := range results {
		userID, _ := z.Member.(string)
		entries = append(entries, model.LeaderboardEntry{
			Rank:       i + 1,
			UserID:     userID,
			Percentage: z.Score,
		})
	}
	return entries, nil
}
