package service

import (
	"context"
	"edulearn_backend/internal/model"
	"edulearn_backend/internal/repository"
	"edulearn_backend/internal/util"
	"fmt"
	"strings"
)

type TopicRequest struct {
	SubjectID   uint   `json:"subjectId" binding:"required"`
	CategoryID  uint   `json:"categoryId"`
	Name        string `json:"name" binding:"required,max=150"`
	Description string `json:"description"`
	Order       int    `json:"order"`
	IsActive    *bool  `json:"isActive"`
}

type TopicService struct {
	Repo         repository.TopicStore
	SubjectRepo  repository.SubjectStore
	CategoryRepo repository.CategoryStore
}

func NewTopicService(repo repository.TopicStore, subjectRepo repository.SubjectStore, categoryRepo repository.CategoryStore) *TopicService {
	return &TopicService{Repo: repo, SubjectRepo: subjectRepo, CategoryRepo: categoryRepo}
}

func (s *TopicService) List(ctx context.Context, filter model.TopicFilter) ([]model.Topic, error) {
	return s.Repo.List(ctx, filter)
}

func (s *TopicService) Get(ctx context.Context, id uint) (*model.Topic, error) {
	topic, err := s.Repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, util.ErrTopicNotFound)
	}
	return topic, nil
}

func (s *TopicService) Create(ctx context.Context, req TopicRequest) (*model.Topic, error) {
	if _, err := newReferenceChecker(s.SubjectRepo, s.CategoryRepo, nil).check(ctx, req.SubjectID, req.CategoryID, 0); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", util.ErrInvalidRequest)
	}

	topic := &model.Topic{
		SubjectID:   req.SubjectID,
		CategoryID:  req.CategoryID,
		Name:        name,
		Description: req.Description,
		Order:       req.Order,
		IsActive:    boolOr(req.IsActive, true),
	}
	if err := s.Repo.Create(ctx, topic); err != nil {
		return nil, fmt.Errorf("create topic: %w", err)
	}
	return topic, nil
}

func (s *TopicService) Update(ctx context.Context, id uint, req TopicRequest) (*model.Topic, error) {
	topic, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := newReferenceChecker(s.SubjectRepo, s.CategoryRepo, nil).check(ctx, req.SubjectID, req.CategoryID, 0); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", util.ErrInvalidRequest)
	}

	topic.SubjectID = req.SubjectID
	topic.CategoryID = req.CategoryID
	topic.Name = name
	topic.Description = req.Description
	topic.Order = req.Order
	topic.IsActive = boolOr(req.IsActive, topic.IsActive)

	if err := s.Repo.Update(ctx, topic); err != nil {
		return nil, fmt.Errorf("update topic: %w", err)
	}
	return topic, nil
}

func (s *TopicService) Delete(ctx context.Context, id uint) error {
	if err := s.Repo.Delete(ctx, id); err != nil {
		return notFound(err, util.ErrTopicNotFound)
	}
	return nil
}
