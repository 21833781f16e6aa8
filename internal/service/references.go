package service

import (
	"context"
	"edulearn_backend/internal/model"
	"edulearn_backend/internal/repository"
	"edulearn_backend/internal/util"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// referenceChecker 校验 学科/分类/主题 的归属关系，批量导入时缓存查询结果
type referenceChecker struct {
	subjects   repository.SubjectStore
	categories repository.CategoryStore
	topics     repository.TopicStore

	subjectCache  map[uint]*model.Subject
	categoryCache map[uint]*model.Category
	topicCache    map[uint]*model.Topic
}

func newReferenceChecker(subjects repository.SubjectStore, categories repository.CategoryStore, topics repository.TopicStore) *referenceChecker {
	return &referenceChecker{
		subjects:      subjects,
		categories:    categories,
		topics:        topics,
		subjectCache:  make(map[uint]*model.Subject),
		categoryCache: make(map[uint]*model.Category),
		topicCache:    make(map[uint]*model.Topic),
	}
}

// check 返回最终的分类ID：未指定分类时沿用主题所属分类
func (r *referenceChecker) check(ctx context.Context, subjectID, categoryID, topicID uint) (uint, error) {
	if subjectID == 0 {
		return 0, fmt.Errorf("%w: subjectId is required", util.ErrInvalidReference)
	}
	if _, err := r.subject(ctx, subjectID); err != nil {
		return 0, err
	}

	if categoryID > 0 {
		category, err := r.category(ctx, categoryID)
		if err != nil {
			return 0, err
		}
		if category.SubjectID != subjectID {
			return 0, fmt.Errorf("%w: category %d does not belong to subject %d", util.ErrInvalidReference, categoryID, subjectID)
		}
	}

	if topicID > 0 && r.topics != nil {
		topic, err := r.topic(ctx, topicID)
		if err != nil {
			return 0, err
		}
		if topic.SubjectID != subjectID {
			return 0, fmt.Errorf("%w: topic %d does not belong to subject %d", util.ErrInvalidReference, topicID, subjectID)
		}
		if topic.CategoryID > 0 {
			if categoryID > 0 && categoryID != topic.CategoryID {
				return 0, fmt.Errorf("%w: topic %d does not belong to category %d", util.ErrInvalidReference, topicID, categoryID)
			}
			// 沿用的分类同样必须属于该学科
			if categoryID == 0 && r.categories != nil {
				category, err := r.category(ctx, topic.CategoryID)
				if err != nil {
					return 0, err
				}
				if category.SubjectID != subjectID {
					return 0, fmt.Errorf("%w: category %d of topic %d does not belong to subject %d", util.ErrInvalidReference, topic.CategoryID, topicID, subjectID)
				}
			}
			categoryID = topic.CategoryID
		}
	}

	return categoryID, nil
}

func (r *referenceChecker) subject(ctx context.Context, id uint) (*model.Subject, error) {
	if s, ok := r.subjectCache[id]; ok {
		return s, nil
	}
	s, err := r.subjects.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: subject %d does not exist", util.ErrInvalidReference, id)
	}
	if err != nil {
		return nil, err
	}
	r.subjectCache[id] = s
	return s, nil
}

func (r *referenceChecker) category(ctx context.Context, id uint) (*model.Category, error) {
	if c, ok := r.categoryCache[id]; ok {
		return c, nil
	}
	c, err := r.categories.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: category %d does not exist", util.ErrInvalidReference, id)
	}
	if err != nil {
		return nil, err
	}
	r.categoryCache[id] = c
	return c, nil
}

func (r *referenceChecker) topic(ctx context.Context, id uint) (*model.Topic, error) {
	if t, ok := r.topicCache[id]; ok {
		return t, nil
	}
	t, err := r.topics.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: topic %d does not exist", util.ErrInvalidReference, id)
	}
	if err != nil {
		return nil, err
	}
	r.topicCache[id] = t
	return t, nil
}
