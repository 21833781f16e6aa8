package repository

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
)

const recentQuestionPrefix = "quiz:recent:" // ZSet: quiz:recent:{subjectID}:{userID} -> questionID 按下发时间打分

func recentQuestionKey(userID string, subjectID uint) string {
	return fmt.Sprintf("%s%d:%s", recentQuestionPrefix, subjectID, userID)
}

// RecentQuestionCache 基于 Redis 有序集合的近期题目记录
type RecentQuestionCache struct {
	Client   *redis.Client
	Settings QuizSettingsFunc
}

func NewRecentQuestionCache(client *redis.Client, settings QuizSettingsFunc) *RecentQuestionCache {
	return &RecentQuestionCache{Client: client, Settings: settings}
}

func (c *RecentQuestionCache) Recent(ctx context.Context, userID string, subjectID uint) ([]uint, error) {
	members, err := c.Client.ZRevRange(ctx, recentQuestionKey(userID, subjectID), 0, -1).Result()
	if err != nil {
		return nil, err
	}

	ids := make([]uint, 0, len(members))
	for _, m := range members {
		id, err := strconv.ParseUint(m, 10, 64)
		if err != nil {
			continue
		}
		ids = append(ids, uint(id))
	}
	return ids, nil
}

func (c *RecentQuestionCache) Remember(ctx context.Context, userID string, subjectID uint, questionIDs []uint) error {
	if len(questionIDs) == 0 {
		return nil
	}
	settings := c.Settings()
	key := recentQuestionKey(userID, subjectID)
	now := float64(time.Now().UnixNano())

	members := make([]*redis.Z, len(questionIDs))
	for i, id := range questionIDs {
		members[i] = &redis.Z{Score: now, Member: strconv.FormatUint(uint64(id), 10)}
	}

	pipe := c.Client.TxPipeline()
	pipe.ZAdd(ctx, key, members...)
	if settings.RecentQuestionLimit > 0 {
		// 只保留分数最高（最近）的 limit 个
		pipe.ZRemRangeByRank(ctx, key, 0, int64(-settings.RecentQuestionLimit-1))
	}
	if ttl := settings.RecentTTL(); ttl > 0 {
		pipe.Expire(ctx, key, ttl)
	}
	_, err := pipe.Exec(ctx)
	return err
}

// SessionRecentQuestions 未启用 Redis 时，从用户最近的若干次会话推导近期题目
type SessionRecentQuestions struct {
	Sessions TestSessionStore
	Settings QuizSettingsFunc
}

func NewSessionRecentQuestions(sessions TestSessionStore, settings QuizSettingsFunc) *SessionRecentQuestions {
	return &SessionRecentQuestions{Sessions: sessions, Settings: settings}
}

func (s *SessionRecentQuestions) Recent(ctx context.Context, userID string, subjectID uint) ([]uint, error) {
	sessions, err := s.Sessions.ListRecent(ctx, userID, subjectID, s.Settings().RecentSessionWindow)
	if err != nil {
		return nil, err
	}

	seen := make(map[uint]bool)
	var ids []uint
	for _, session := range sessions {
		for _, id := range session.QuestionIDs {
			if !seen[id] {
				seen[id] = true
				ids = append(ids, id)
			}
		}
	}
	return ids, nil
}

// Remember 会话本身已落库，无需额外记录
func (s *SessionRecentQuestions) Remember(ctx context.Context, userID string, subjectID uint, questionIDs []uint) error {
	return nil
}
