package mocks

import (
	"context"

	"edulearn_backend/internal/model"

	"github.com/stretchr/testify/mock"
)

type MockTestSessionStore struct {
	mock.Mock
}

func (m *MockTestSessionStore) Create(ctx context.Context, session *model.TestSession) error {
	args := m.Called(ctx, session)
	return args.Error(0)
}

func (m *MockTestSessionStore) FindByID(ctx context.Context, id string) (*model.TestSession, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.TestSession), args.Error(1)
}

func (m *MockTestSessionStore) ListByUser(ctx context.Context, userID string, page, limit int) ([]model.TestSession, int64, error) {
	args := m.Called(ctx, userID, page, limit)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]model.TestSession), args.Get(1).(int64), args.Error(2)
}

func (m *MockTestSessionStore) ListRecent(ctx context.Context, userID string, subjectID uint, limit int) ([]model.TestSession, error) {
	args := m.Called(ctx, userID, subjectID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.TestSession), args.Error(1)
}

func (m *MockTestSessionStore) Complete(ctx context.Context, session *model.TestSession, answers []model.TestAnswer, progress *model.Progress) error {
	args := m.Called(ctx, session, answers, progress)
	return args.Error(0)
}

type MockProgressStore struct {
	mock.Mock
}

func (m *MockProgressStore) Create(ctx context.Context, progress *model.Progress) error {
	args := m.Called(ctx, progress)
	return args.Error(0)
}

func (m *MockProgressStore) FindByID(ctx context.Context, id uint) (*model.Progress, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Progress), args.Error(1)
}

func (m *MockProgressStore) List(ctx context.Context, userID string, filter model.ProgressFilter, page, limit int) ([]model.Progress, int64, error) {
	args := m.Called(ctx, userID, filter, page, limit)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]model.Progress), args.Get(1).(int64), args.Error(2)
}

func (m *MockProgressStore) ListAll(ctx context.Context, userID string) ([]model.Progress, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Progress), args.Error(1)
}

func (m *MockProgressStore) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockRecentQuestionStore struct {
	mock.Mock
}

func (m *MockRecentQuestionStore) Recent(ctx context.Context, userID string, subjectID uint) ([]uint, error) {
	args := m.Called(ctx, userID, subjectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]uint), args.Error(1)
}

func (m *MockRecentQuestionStore) Remember(ctx context.Context, userID string, subjectID uint, questionIDs []uint) error {
	args := m.Called(ctx, userID, subjectID, questionIDs)
	return args.Error(0)
}

type MockLeaderboardStore struct {
	mock.Mock
}

func (m *MockLeaderboardStore) Record(ctx context.Context, subjectID uint, userID string, percentage float64) error {
	args := m.Called(ctx, subjectID, userID, percentage)
	return args.Error(0)
}

func (m *MockLeaderboardStore) Top(ctx context.Context, subjectID uint, limit int) ([]model.LeaderboardEntry, error) {
	args := m.Called(ctx, subjectID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.LeaderboardEntry), args.Error(1)
}
