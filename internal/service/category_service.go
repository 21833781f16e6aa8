package service

import (
	"context"
	"edulearn_backend/internal/model"
	"edulearn_backend/internal/repository"
	"edulearn_backend/internal/util"
	"fmt"
	"strings"
)

type CategoryRequest struct {
	SubjectID   uint   `json:"subjectId" binding:"required"`
	Name        string `json:"name" binding:"required,max=100"`
	Description string `json:"description"`
	Order       int    `json:"order"`
	IsActive    *bool  `json:"isActive"`
}

type CategoryService struct {
	Repo        repository.CategoryStore
	SubjectRepo repository.SubjectStore
}

func NewCategoryService(repo repository.CategoryStore, subjectRepo repository.SubjectStore) *CategoryService {
	return &CategoryService{Repo: repo, SubjectRepo: subjectRepo}
}

func (s *CategoryService) List(ctx context.Context, filter model.CategoryFilter) ([]model.Category, error) {
	return s.Repo.List(ctx, filter)
}

func (s *CategoryService) Get(ctx context.Context, id uint) (*model.Category, error) {
	category, err := s.Repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, util.ErrCategoryNotFound)
	}
	return category, nil
}

func (s *CategoryService) Create(ctx context.Context, req CategoryRequest) (*model.Category, error) {
	if err := s.checkSubject(ctx, req.SubjectID); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", util.ErrInvalidRequest)
	}

	category := &model.Category{
		SubjectID:   req.SubjectID,
		Name:        name,
		Description: req.Description,
		Order:       req.Order,
		IsActive:    boolOr(req.IsActive, true),
	}
	if err := s.Repo.Create(ctx, category); err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}
	return category, nil
}

func (s *CategoryService) Update(ctx context.Context, id uint, req CategoryRequest) (*model.Category, error) {
	category, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.SubjectID != category.SubjectID {
		if err := s.checkSubject(ctx, req.SubjectID); err != nil {
			return nil, err
		}
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", util.ErrInvalidRequest)
	}

	category.SubjectID = req.SubjectID
	category.Name = name
	category.Description = req.Description
	category.Order = req.Order
	category.IsActive = boolOr(req.IsActive, category.IsActive)

	if err := s.Repo.Update(ctx, category); err != nil {
		return nil, fmt.Errorf("update category: %w", err)
	}
	return category, nil
}

func (s *CategoryService) Delete(ctx context.Context, id uint) error {
	if err := s.Repo.Delete(ctx, id); err != nil {
		return notFound(err, util.ErrCategoryNotFound)
	}
	return nil
}

func (s *CategoryService) checkSubject(ctx context.Context, subjectID uint) error {
	_, err := newReferenceChecker(s.SubjectRepo, nil, nil).check(ctx, subjectID, 0, 0)
	return err
}
