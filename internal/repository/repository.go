package repository

import (
	"context"
	"edulearn_backend/internal/config"
	"edulearn_backend/internal/model"
	"errors"
)

// ErrSessionNotOpen 会话已不处于答题中（并发提交或重复提交）
var ErrSessionNotOpen = errors.New("test session is not in progress")

// QuizSettingsFunc 读取当前出题配置，配置热更新后立即生效
type QuizSettingsFunc func() config.QuizConfig

type SubjectStore interface {
	Create(ctx context.Context, subject *model.Subject) error
	FindByID(ctx context.Context, id uint) (*model.Subject, error)
	FindByName(ctx context.Context, name string) (*model.Subject, error)
	List(ctx context.Context, filter model.SubjectFilter) ([]model.Subject, error)
	Update(ctx context.Context, subject *model.Subject) error
	Delete(ctx context.Context, id uint) error
}

type CategoryStore interface {
	Create(ctx context.Context, category *model.Category) error
	FindByID(ctx context.Context, id uint) (*model.Category, error)
	List(ctx context.Context, filter model.CategoryFilter) ([]model.Category, error)
	Update(ctx context.Context, category *model.Category) error
	Delete(ctx context.Context, id uint) error
}

type TopicStore interface {
	Create(ctx context.Context, topic *model.Topic) error
	FindByID(ctx context.Context, id uint) (*model.Topic, error)
	List(ctx context.Context, filter model.TopicFilter) ([]model.Topic, error)
	Update(ctx context.Context, topic *model.Topic) error
	Delete(ctx context.Context, id uint) error
}

type QuestionStore interface {
	Create(ctx context.Context, question *model.Question) error
	CreateBatch(ctx context.Context, questions []model.Question) error
	FindByID(ctx context.Context, id uint) (*model.Question, error)
	FindByIDs(ctx context.Context, ids []uint) ([]model.Question, error)
	List(ctx context.Context, filter model.QuestionFilter, page, limit int) ([]model.Question, int64, error)
	FindActive(ctx context.Context, filter model.QuestionFilter) ([]model.Question, error)
	Update(ctx context.Context, question *model.Question) error
	Delete(ctx context.Context, id uint) error
	IncrementUsage(ctx context.Context, ids []uint) error
	StatsByTopic(ctx context.Context, subjectID uint) ([]model.TopicQuestionStat, error)
}

type TestSessionStore interface {
	Create(ctx context.Context, session *model.TestSession) error
	FindByID(ctx context.Context, id string) (*model.TestSession, error)
	ListByUser(ctx context.Context, userID string, page, limit int) ([]model.TestSession, int64, error)
	ListRecent(ctx context.Context, userID string, subjectID uint, limit int) ([]model.TestSession, error)
	Complete(ctx context.Context, session *model.TestSession, answers []model.TestAnswer, progress *model.Progress) error
}

type ProgressStore interface {
	Create(ctx context.Context, progress *model.Progress) error
	FindByID(ctx context.Context, id uint) (*model.Progress, error)
	List(ctx context.Context, userID string, filter model.ProgressFilter, page, limit int) ([]model.Progress, int64, error)
	ListAll(ctx context.Context, userID string) ([]model.Progress, error)
	Delete(ctx context.Context, id uint) error
}

// RecentQuestionStore 记录用户在某学科下最近做过的题目，Recent 按时间倒序返回
type RecentQuestionStore interface {
	Recent(ctx context.Context, userID string, subjectID uint) ([]uint, error)
	Remember(ctx context.Context, userID string, subjectID uint, questionIDs []uint) error
}

type LeaderboardStore interface {
	Record(ctx context.Context, subjectID uint, userID string, percentage float64) error
	Top(ctx context.Context, subjectID uint, limit int) ([]model.LeaderboardEntry, error)
}
