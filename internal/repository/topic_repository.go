package repository

import (
	"context"
	"edulearn_backend/internal/model"

	"gorm.io/gorm"
)

type TopicRepository struct {
	DB *gorm.DB
}

func NewTopicRepository(db *gorm.DB) *TopicRepository {
	return &TopicRepository{DB: db}
}

func (r *TopicRepository) Create(ctx context.Context, topic *model.Topic) error {
	return r.DB.WithContext(ctx).Create(topic).Error
}

func (r *TopicRepository) FindByID(ctx context.Context, id uint) (*model.Topic, error) {
	var t model.Topic
	if err := r.DB.WithContext(ctx).First(&t, id).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *TopicRepository) List(ctx context.Context, filter model.TopicFilter) ([]model.Topic, error) {
	var topics []model.Topic
	query := r.DB.WithContext(ctx).Model(&model.Topic{})
	if filter.SubjectID > 0 {
		query = query.Where("subject_id = ?", filter.SubjectID)
	}
	if filter.CategoryID > 0 {
		query = query.Where("category_id = ?", filter.CategoryID)
	}
	if !filter.IncludeInactive {
		query = query.Where("is_active = ?", true)
	}
	err := query.Order("`order` asc, name asc").Find(&topics).Error
	return topics, err
}

// Update 保存主题并同步其下题目的学科与分类
func (r *TopicRepository) Update(ctx context.Context, topic *model.Topic) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(topic).Error; err != nil {
			return err
		}
		// 换学科后旧分类失效，题目统一改用主题的分类
		if err := tx.Model(&model.Question{}).
			Where("topic_id = ? AND subject_id <> ?", topic.ID, topic.SubjectID).
			Updates(map[string]interface{}{"subject_id": topic.SubjectID, "category_id": topic.CategoryID}).Error; err != nil {
			return err
		}
		if topic.CategoryID == 0 {
			return nil
		}
		return tx.Model(&model.Question{}).
			Where("topic_id = ? AND category_id <> ?", topic.ID, topic.CategoryID).
			Update("category_id", topic.CategoryID).Error
	})
}

func (r *TopicRepository) Delete(ctx context.Context, id uint) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&model.Topic{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return tx.Where("topic_id = ?", id).Delete(&model.Question{}).Error
	})
}
