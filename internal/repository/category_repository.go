package repository

import (
	"context"
	"edulearn_backend/internal/model"

	"gorm.io/gorm"
)

type CategoryRepository struct {
	DB *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) *CategoryRepository {
	return &CategoryRepository{DB: db}
}

func (r *CategoryRepository) Create(ctx context.Context, category *model.Category) error {
	return r.DB.WithContext(ctx).Create(category).Error
}

func (r *CategoryRepository) FindByID(ctx context.Context, id uint) (*model.Category, error) {
	var c model.Category
	if err := r.DB.WithContext(ctx).First(&c, id).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CategoryRepository) List(ctx context.Context, filter model.CategoryFilter) ([]model.Category, error) {
	var categories []model.Category
	query := r.DB.WithContext(ctx).Model(&model.Category{})
	if filter.SubjectID > 0 {
		query = query.Where("subject_id = ?", filter.SubjectID)
	}
	if !filter.IncludeInactive {
		query = query.Where("is_active = ?", true)
	}
	err := query.Order("`order` asc, name asc").Find(&categories).Error
	return categories, err
}

// Update 保存分类，学科变化时其下主题与题目随之迁移
func (r *CategoryRepository) Update(ctx context.Context, category *model.Category) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(category).Error; err != nil {
			return err
		}
		if err := tx.Model(&model.Topic{}).
			Where("category_id = ? AND subject_id <> ?", category.ID, category.SubjectID).
			Update("subject_id", category.SubjectID).Error; err != nil {
			return err
		}
		return tx.Model(&model.Question{}).
			Where("category_id = ? AND subject_id <> ?", category.ID, category.SubjectID).
			Update("subject_id", category.SubjectID).Error
	})
}

// Delete 软删除分类及其下主题与题目
func (r *CategoryRepository) Delete(ctx context.Context, id uint) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&model.Category{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		if err := tx.Where("category_id = ?", id).Delete(&model.Topic{}).Error; err != nil {
			return err
		}
		return tx.Where("category_id = ?", id).Delete(&model.Question{}).Error
	})
}
