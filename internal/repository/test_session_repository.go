package repository

import (
	"context"
	"edulearn_backend/internal/model"

	"gorm.io/gorm"
)

type TestSessionRepository struct {
	DB *gorm.DB
}

func NewTestSessionRepository(db *gorm.DB) *TestSessionRepository {
	return &TestSessionRepository{DB: db}
}

func (r *TestSessionRepository) Create(ctx context.Context, session *model.TestSession) error {
	return r.DB.WithContext(ctx).Create(session).Error
}

func (r *TestSessionRepository) FindByID(ctx context.Context, id string) (*model.TestSession, error) {
	var s model.TestSession
	err := r.DB.WithContext(ctx).Preload("Answers").Where("id = ?", id).First(&s).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *TestSessionRepository) ListByUser(ctx context.Context, userID string, page, limit int) ([]model.TestSession, int64, error) {
	var sessions []model.TestSession
	var total int64

	query := r.DB.WithContext(ctx).Model(&model.TestSession{}).Where("user_id = ?", userID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	err := query.Order("started_at desc").Offset(offset).Limit(limit).Find(&sessions).Error
	return sessions, total, err
}

func (r *TestSessionRepository) ListRecent(ctx context.Context, userID string, subjectID uint, limit int) ([]model.TestSession, error) {
	var sessions []model.TestSession
	if limit <= 0 {
		return sessions, nil
	}
	err := r.DB.WithContext(ctx).
		Where("user_id = ? AND subject_id = ?", userID, subjectID).
		Order("started_at desc").
		Limit(limit).
		Find(&sessions).Error
	return sessions, err
}

// Complete 在同一事务内结束会话、写入作答明细与成绩记录。
// 仅当会话仍处于 in_progress 时生效，否则返回 ErrSessionNotOpen。
func (r *TestSessionRepository) Complete(ctx context.Context, session *model.TestSession, answers []model.TestAnswer, progress *model.Progress) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.TestSession{}).
			Where("id = ? AND status = ?", session.ID, model.SessionInProgress).
			Updates(map[string]interface{}{
				"score":        session.Score,
				"percentage":   session.Percentage,
				"status":       session.Status,
				"completed_at": session.CompletedAt,
				"time_taken":   session.TimeTaken,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrSessionNotOpen
		}

		if len(answers) > 0 {
			if err := tx.Create(&answers).Error; err != nil {
				return err
			}
		}

		if progress != nil {
			if err := tx.Create(progress).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
