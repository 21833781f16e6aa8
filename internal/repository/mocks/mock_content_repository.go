package mocks

import (
	"context"

	"edulearn_backend/internal/model"

	"github.com/stretchr/testify/mock"
)

type MockSubjectStore struct {
	mock.Mock
}

func (m *MockSubjectStore) Create(ctx context.Context, subject *model.Subject) error {
	args := m.Called(ctx, subject)
	return args.Error(0)
}

func (m *MockSubjectStore) FindByID(ctx context.Context, id uint) (*model.Subject, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Subject), args.Error(1)
}

func (m *MockSubjectStore) FindByName(ctx context.Context, name string) (*model.Subject, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Subject), args.Error(1)
}

func (m *MockSubjectStore) List(ctx context.Context, filter model.SubjectFilter) ([]model.Subject, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Subject), args.Error(1)
}

func (m *MockSubjectStore) Update(ctx context.Context, subject *model.Subject) error {
	args := m.Called(ctx, subject)
	return args.Error(0)
}

func (m *MockSubjectStore) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockCategoryStore struct {
	mock.Mock
}

func (m *MockCategoryStore) Create(ctx context.Context, category *model.Category) error {
	args := m.Called(ctx, category)
	return args.Error(0)
}

func (m *MockCategoryStore) FindByID(ctx context.Context, id uint) (*model.Category, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Category), args.Error(1)
}

func (m *MockCategoryStore) List(ctx context.Context, filter model.CategoryFilter) ([]model.Category, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Category), args.Error(1)
}

func (m *MockCategoryStore) Update(ctx context.Context, category *model.Category) error {
	args := m.Called(ctx, category)
	return args.Error(0)
}

func (m *MockCategoryStore) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockTopicStore struct {
	mock.Mock
}

func (m *MockTopicStore) Create(ctx context.Context, topic *model.Topic) error {
	args := m.Called(ctx, topic)
	return args.Error(0)
}

func (m *MockTopicStore) FindByID(ctx context.Context, id uint) (*model.Topic, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Topic), args.Error(1)
}

func (m *MockTopicStore) List(ctx context.Context, filter model.TopicFilter) ([]model.Topic, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Topic), args.Error(1)
}

func (m *MockTopicStore) Update(ctx context.Context, topic *model.Topic) error {
	args := m.Called(ctx, topic)
	return args.Error(0)
}

func (m *MockTopicStore) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
