package repository

import (
	"context"
	"edulearn_backend/internal/model"

	"gorm.io/gorm"
)

type ProgressRepository struct {
	DB *gorm.DB
}

func NewProgressRepository(db *gorm.DB) *ProgressRepository {
	return &ProgressRepository{DB: db}
}

func (r *ProgressRepository) Create(ctx context.Context, progress *model.Progress) error {
	return r.DB.WithContext(ctx).Create(progress).Error
}

func (r *ProgressRepository) FindByID(ctx context.Context, id uint) (*model.Progress, error) {
	var p model.Progress
	if err := r.DB.WithContext(ctx).First(&p, id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *ProgressRepository) List(ctx context.Context, userID string, filter model.ProgressFilter, page, limit int) ([]model.Progress, int64, error) {
	var records []model.Progress
	var total int64

	query := r.DB.WithContext(ctx).Model(&model.Progress{}).Where("user_id = ?", userID)
	if filter.SubjectID > 0 {
		query = query.Where("subject_id = ?", filter.SubjectID)
	}
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	err := query.Order("completed_at desc").Offset(offset).Limit(limit).Find(&records).Error
	return records, total, err
}

func (r *ProgressRepository) ListAll(ctx context.Context, userID string) ([]model.Progress, error) {
	var records []model.Progress
	err := r.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("completed_at asc").
		Find(&records).Error
	return records, err
}

func (r *ProgressRepository) Delete(ctx context.Context, id uint) error {
	res := r.DB.WithContext(ctx).Delete(&model.Progress{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
