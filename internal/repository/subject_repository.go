package repository

import (
	"context"
	"edulearn_backend/internal/model"
	"fmt"

	"gorm.io/gorm"
)

type SubjectRepository struct {
	DB *gorm.DB
}

func NewSubjectRepository(db *gorm.DB) *SubjectRepository {
	return &SubjectRepository{DB: db}
}

func (r *SubjectRepository) Create(ctx context.Context, subject *model.Subject) error {
	return r.DB.WithContext(ctx).Create(subject).Error
}

func (r *SubjectRepository) FindByID(ctx context.Context, id uint) (*model.Subject, error) {
	var s model.Subject
	if err := r.DB.WithContext(ctx).First(&s, id).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *SubjectRepository) FindByName(ctx context.Context, name string) (*model.Subject, error) {
	var s model.Subject
	if err := r.DB.WithContext(ctx).Where("name = ?", name).First(&s).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *SubjectRepository) List(ctx context.Context, filter model.SubjectFilter) ([]model.Subject, error) {
	var subjects []model.Subject
	query := r.DB.WithContext(ctx).Model(&model.Subject{})
	if !filter.IncludeInactive {
		query = query.Where("is_active = ?", true)
	}
	if filter.Grade > 0 {
		// grade = 0 的学科对所有年级可见
		query = query.Where("grade IN ?", []int{0, filter.Grade})
	}
	err := query.Order("name asc").Find(&subjects).Error
	return subjects, err
}

func (r *SubjectRepository) Update(ctx context.Context, subject *model.Subject) error {
	return r.DB.WithContext(ctx).Save(subject).Error
}

// Delete 软删除学科，并级联软删除其下的分类、主题与题目
func (r *SubjectRepository) Delete(ctx context.Context, id uint) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// 名称带上删除标记，同名学科可以重新创建
		res := tx.Model(&model.Subject{}).Where("id = ?", id).
			Update("name", gorm.Expr("CONCAT(name, ?)", fmt.Sprintf("~deleted-%d", id)))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		if err := tx.Delete(&model.Subject{}, id).Error; err != nil {
			return err
		}
		if err := tx.Where("subject_id = ?", id).Delete(&model.Category{}).Error; err != nil {
			return err
		}
		if err := tx.Where("subject_id = ?", id).Delete(&model.Topic{}).Error; err != nil {
			return err
		}
		return tx.Where("subject_id = ?", id).Delete(&model.Question{}).Error
	})
}
