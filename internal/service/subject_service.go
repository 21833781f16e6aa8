package service

import (
	"context"
	"edulearn_backend/internal/model"
	"edulearn_backend/internal/repository"
	"edulearn_backend/internal/util"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
)

type SubjectRequest struct {
	Name        string `json:"name" binding:"required,max=100"`
	Description string `json:"description"`
	Grade       int    `json:"grade" binding:"gte=0,lte=12"`
	Icon        string `json:"icon" binding:"max=255"`
	IsActive    *bool  `json:"isActive"`
}

type SubjectService struct {
	Repo repository.SubjectStore
}

func NewSubjectService(repo repository.SubjectStore) *SubjectService {
	return &SubjectService{Repo: repo}
}

func (s *SubjectService) List(ctx context.Context, filter model.SubjectFilter) ([]model.Subject, error) {
	return s.Repo.List(ctx, filter)
}

func (s *SubjectService) Get(ctx context.Context, id uint) (*model.Subject, error) {
	subject, err := s.Repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, util.ErrSubjectNotFound)
	}
	return subject, nil
}

func (s *SubjectService) Create(ctx context.Context, req SubjectRequest) (*model.Subject, error) {
	name := strings.TrimSpace(req.Name)
	if err := s.ensureUniqueName(ctx, name, 0); err != nil {
		return nil, err
	}

	subject := &model.Subject{
		Name:        name,
		Description: req.Description,
		Grade:       req.Grade,
		Icon:        req.Icon,
		IsActive:    boolOr(req.IsActive, true),
	}
	if err := s.Repo.Create(ctx, subject); err != nil {
		return nil, duplicateName(err, name)
	}
	return subject, nil
}

func (s *SubjectService) Update(ctx context.Context, id uint, req SubjectRequest) (*model.Subject, error) {
	subject, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(req.Name)
	if err := s.ensureUniqueName(ctx, name, id); err != nil {
		return nil, err
	}

	subject.Name = name
	subject.Description = req.Description
	subject.Grade = req.Grade
	subject.Icon = req.Icon
	subject.IsActive = boolOr(req.IsActive, subject.IsActive)

	if err := s.Repo.Update(ctx, subject); err != nil {
		return nil, duplicateName(err, name)
	}
	return subject, nil
}

// Delete 级联软删除分类、主题与题目
func (s *SubjectService) Delete(ctx context.Context, id uint) error {
	if err := s.Repo.Delete(ctx, id); err != nil {
		return notFound(err, util.ErrSubjectNotFound)
	}
	return nil
}

func (s *SubjectService) ensureUniqueName(ctx context.Context, name string, selfID uint) error {
	if name == "" {
		return fmt.Errorf("%w: name is required", util.ErrInvalidRequest)
	}
	existing, err := s.Repo.FindByName(ctx, name)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if existing.ID != selfID {
		return fmt.Errorf("%w: subject %q", util.ErrDuplicateName, name)
	}
	return nil
}

// duplicateName 并发创建同名学科时由唯一索引兜底
func duplicateName(err error, name string) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("%w: subject %q", util.ErrDuplicateName, name)
	}
	return fmt.Errorf("save subject: %w", err)
}

func boolOr(v *bool, def bool) bool {
	if v == nil {
		return def
	}
	return *v
}
