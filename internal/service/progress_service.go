package service

import (
	"bytes"
	"context"
	"edulearn_backend/internal/model"
	"edulearn_backend/internal/repository"
	"edulearn_backend/internal/util"
	"fmt"
	"sort"
	"strings"
	"time"
)

type ProgressRequest struct {
	UserID         string `json:"userId" binding:"required,max=128"`
	SubjectID      uint   `json:"subjectId"`
	TopicID        uint   `json:"topicId"`
	QuizTitle      string `json:"quizTitle" binding:"required,max=255"`
	Score          int    `json:"score" binding:"gte=0"`
	TotalQuestions int    `json:"totalQuestions" binding:"required,gt=0"`
	TimeTaken      int    `json:"timeTaken" binding:"gte=0"`
}

type ProgressService struct {
	Repo    repository.ProgressStore
	Ranking repository.LeaderboardStore // 可为 nil

	now func() time.Time
}

func NewProgressService(repo repository.ProgressStore, leaderboard repository.LeaderboardStore) *ProgressService {
	return &ProgressService{Repo: repo, Ranking: leaderboard, now: time.Now}
}

// Save 保存应用内静态测验的成绩
func (s *ProgressService) Save(ctx context.Context, req ProgressRequest) (*model.Progress, error) {
	userID := strings.TrimSpace(req.UserID)
	title := strings.TrimSpace(req.QuizTitle)
	switch {
	case userID == "":
		return nil, fmt.Errorf("%w: userId is required", util.ErrInvalidProgress)
	case title == "":
		return nil, fmt.Errorf("%w: quizTitle is required", util.ErrInvalidProgress)
	case req.TotalQuestions <= 0:
		return nil, fmt.Errorf("%w: totalQuestions must be positive", util.ErrInvalidProgress)
	case req.Score < 0 || req.Score > req.TotalQuestions:
		return nil, fmt.Errorf("%w: score must be between 0 and totalQuestions", util.ErrInvalidProgress)
	case req.TimeTaken < 0:
		return nil, fmt.Errorf("%w: timeTaken must not be negative", util.ErrInvalidProgress)
	}

	progress := &model.Progress{
		UserID:         userID,
		SubjectID:      req.SubjectID,
		TopicID:        req.TopicID,
		QuizTitle:      title,
		Score:          req.Score,
		TotalQuestions: req.TotalQuestions,
		Percentage:     percentOf(req.Score, req.TotalQuestions),
		TimeTaken:      req.TimeTaken,
		CompletedAt:    s.now(),
	}
	if err := s.Repo.Create(ctx, progress); err != nil {
		return nil, fmt.Errorf("save progress: %w", err)
	}
	return progress, nil
}

func (s *ProgressService) List(ctx context.Context, userID string, filter model.ProgressFilter, page, limit int) ([]model.Progress, int64, error) {
	return s.Repo.List(ctx, userID, filter, page, limit)
}

// Stats 汇总用户的全部成绩，并按学科分组
func (s *ProgressService) Stats(ctx context.Context, userID string) (*model.ProgressStats, error) {
	records, err := s.Repo.ListAll(ctx, userID)
	if err != nil {
		return nil, err
	}
	return summarizeProgress(records), nil
}

func summarizeProgress(records []model.Progress) *model.ProgressStats {
	stats := &model.ProgressStats{Subjects: []model.SubjectProgressStat{}}
	if len(records) == 0 {
		return stats
	}

	type acc struct {
		quizzes int
		sum     float64
		best    float64
	}
	bySubject := make(map[uint]*acc)
	var sum float64

	for i := range records {
		r := records[i]
		stats.TotalQuizzes++
		stats.TotalQuestions += r.TotalQuestions
		stats.TotalCorrect += r.Score
		sum += r.Percentage
		if r.Percentage > stats.BestPercentage {
			stats.BestPercentage = r.Percentage
		}
		if stats.LastCompletedAt == nil || r.CompletedAt.After(*stats.LastCompletedAt) {
			t := r.CompletedAt
			stats.LastCompletedAt = &t
		}

		if r.SubjectID == 0 {
			continue
		}
		a, ok := bySubject[r.SubjectID]
		if !ok {
			a = &acc{}
			bySubject[r.SubjectID] = a
		}
		a.quizzes++
		a.sum += r.Percentage
		if r.Percentage > a.best {
			a.best = r.Percentage
		}
	}

	stats.AveragePercentage = round2(sum / float64(stats.TotalQuizzes))
	for id, a := range bySubject {
		stats.Subjects = append(stats.Subjects, model.SubjectProgressStat{
			SubjectID:         id,
			Quizzes:           a.quizzes,
			AveragePercentage: round2(a.sum / float64(a.quizzes)),
			BestPercentage:    a.best,
		})
	}
	sort.Slice(stats.Subjects, func(i, j int) bool {
		return stats.Subjects[i].SubjectID < stats.Subjects[j].SubjectID
	})
	return stats
}

// Delete 只能删除自己的记录
func (s *ProgressService) Delete(ctx context.Context, userID string, id uint) error {
	progress, err := s.Repo.FindByID(ctx, id)
	if err != nil {
		return notFound(err, util.ErrProgressNotFound)
	}
	if progress.UserID != userID {
		return util.ErrPermissionDenied
	}
	if err := s.Repo.Delete(ctx, id); err != nil {
		return notFound(err, util.ErrProgressNotFound)
	}
	return nil
}

func (s *ProgressService) Export(ctx context.Context, userID string) (*bytes.Buffer, error) {
	records, err := s.Repo.ListAll(ctx, userID)
	if err != nil {
		return nil, err
	}
	return BuildProgressWorkbook(userID, records)
}

// Leaderboard 未启用 Redis 时返回空榜单
func (s *ProgressService) Leaderboard(ctx context.Context, subjectID uint, limit int) ([]model.LeaderboardEntry, error) {
	if s.Ranking == nil {
		return []model.LeaderboardEntry{}, nil
	}
	entries, err := s.Ranking.Top(ctx, subjectID, limit)
	if err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []model.LeaderboardEntry{}
	}
	return entries, nil
}
