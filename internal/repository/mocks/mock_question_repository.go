package mocks

import (
	"context"

	"edulearn_backend/internal/model"

	"github.com/stretchr/testify/mock"
)

type MockQuestionStore struct {
	mock.Mock
}

func (m *MockQuestionStore) Create(ctx context.Context, question *model.Question) error {
	args := m.Called(ctx, question)
	return args.Error(0)
}

func (m *MockQuestionStore) CreateBatch(ctx context.Context, questions []model.Question) error {
	args := m.Called(ctx, questions)
	return args.Error(0)
}

func (m *MockQuestionStore) FindByID(ctx context.Context, id uint) (*model.Question, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Question), args.Error(1)
}

func (m *MockQuestionStore) FindByIDs(ctx context.Context, ids []uint) ([]model.Question, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Question), args.Error(1)
}

func (m *MockQuestionStore) List(ctx context.Context, filter model.QuestionFilter, page, limit int) ([]model.Question, int64, error) {
	args := m.Called(ctx, filter, page, limit)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]model.Question), args.Get(1).(int64), args.Error(2)
}

func (m *MockQuestionStore) FindActive(ctx context.Context, filter model.QuestionFilter) ([]model.Question, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Question), args.Error(1)
}

func (m *MockQuestionStore) Update(ctx context.Context, question *model.Question) error {
	args := m.Called(ctx, question)
	return args.Error(0)
}

func (m *MockQuestionStore) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockQuestionStore) IncrementUsage(ctx context.Context, ids []uint) error {
	args := m.Called(ctx, ids)
	return args.Error(0)
}

func (m *MockQuestionStore) StatsByTopic(ctx context.Context, subjectID uint) ([]model.TopicQuestionStat, error) {
	args := m.Called(ctx, subjectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.TopicQuestionStat), args.Error(1)
}
