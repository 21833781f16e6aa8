package controller

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"edulearn_backend/internal/config"
	"edulearn_backend/internal/model"
	"edulearn_backend/internal/repository/mocks"
	"edulearn_backend/internal/service"
	"edulearn_backend/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func doJSON(r *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, data interface{}) util.Response {
	t.Helper()
	resp := util.Response{Data: data}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestRespondError(t *testing.T) {
	tests := []struct {
		err  error
		code int
	}{
		{util.ErrSubjectNotFound, http.StatusNotFound},
		{fmt.Errorf("wrap: %w", util.ErrNoQuestionsAvailable), http.StatusNotFound},
		{util.ErrPermissionDenied, http.StatusForbidden},
		{util.ErrSessionAlreadySubmitted, http.StatusConflict},
		{fmt.Errorf("%w: subject %q", util.ErrDuplicateName, "Maths"), http.StatusConflict},
		{util.ErrSessionExpired, http.StatusGone},
		{fmt.Errorf("question 2: %w", util.ErrInvalidQuestion), http.StatusBadRequest},
		{util.ErrInvalidFile, http.StatusBadRequest},
		{errors.New("connection reset"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			respondError(c, tt.err)
			assert.Equal(t, tt.code, w.Code)
		})
	}
}

func newQuizRouter(cfg config.QuizConfig) (*gin.Engine, *mocks.MockSubjectStore, *mocks.MockQuestionStore, *mocks.MockTestSessionStore, *mocks.MockRecentQuestionStore) {
	subjects := new(mocks.MockSubjectStore)
	questions := new(mocks.MockQuestionStore)
	sessions := new(mocks.MockTestSessionStore)
	topics := new(mocks.MockTopicStore)
	recent := new(mocks.MockRecentQuestionStore)

	settings := service.NewQuizSettings(cfg)
	svc := service.NewQuizService(questions, sessions, subjects, topics, recent, nil, settings.Get, service.NewShuffler(7))
	c := NewTestController(svc)

	r := gin.New()
	r.POST("/api/tests/start", c.Start)
	r.POST("/api/tests/:sessionId/submit", c.Submit)
	r.GET("/api/tests/:sessionId", c.Get)
	return r, subjects, questions, sessions, recent
}

func quizConfig() config.QuizConfig {
	return config.QuizConfig{DefaultQuestionCount: 5, MaxQuestionCount: 20, RecentSessionWindow: 3, RecentQuestionLimit: 50}
}

func TestTestController_Start(t *testing.T) {
	subject := &model.Subject{Name: "Physical Sciences", IsActive: true}
	subject.ID = 3

	t.Run("returns questions without answers", func(t *testing.T) {
		r, subjects, questions, sessions, recent := newQuizRouter(quizConfig())
		pool := make([]model.Question, 0, 8)
		for i := uint(1); i <= 8; i++ {
			q := model.Question{SubjectID: 3, Text: fmt.Sprintf("Q%d", i), Options: []string{"A", "B"}, CorrectAnswer: "A", IsActive: true}
			q.ID = i
			pool = append(pool, q)
		}
		subjects.On("FindByID", mock.Anything, uint(3)).Return(subject, nil)
		questions.On("FindActive", mock.Anything, mock.Anything).Return(pool, nil)
		recent.On("Recent", mock.Anything, "learner", uint(3)).Return(nil, nil)
		sessions.On("Create", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
			args.Get(1).(*model.TestSession).ID = "abc"
		}).Return(nil)
		questions.On("IncrementUsage", mock.Anything, mock.Anything).Return(nil)
		recent.On("Remember", mock.Anything, "learner", uint(3), mock.Anything).Return(nil)

		w := doJSON(r, http.MethodPost, "/api/tests/start", gin.H{"userId": "learner", "subjectId": 3})

		require.Equal(t, http.StatusCreated, w.Code)
		assert.NotContains(t, w.Body.String(), "correctAnswer")
		var data service.StartTestResponse
		decode(t, w, &data)
		assert.Equal(t, "abc", data.SessionID)
		assert.Len(t, data.Questions, 5)
	})

	t.Run("missing subject id is rejected by binding", func(t *testing.T) {
		r, _, _, _, _ := newQuizRouter(quizConfig())
		w := doJSON(r, http.MethodPost, "/api/tests/start", gin.H{"userId": "learner"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("unknown subject", func(t *testing.T) {
		r, subjects, _, _, _ := newQuizRouter(quizConfig())
		subjects.On("FindByID", mock.Anything, uint(99)).Return(nil, gorm.ErrRecordNotFound)
		w := doJSON(r, http.MethodPost, "/api/tests/start", gin.H{"userId": "learner", "subjectId": 99})
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestTestController_Submit(t *testing.T) {
	t.Run("completed session conflicts", func(t *testing.T) {
		r, _, _, sessions, _ := newQuizRouter(quizConfig())
		s := &model.TestSession{UserID: "learner", Status: model.SessionCompleted}
		s.ID = "done"
		sessions.On("FindByID", mock.Anything, "done").Return(s, nil)

		w := doJSON(r, http.MethodPost, "/api/tests/done/submit", gin.H{"userId": "learner", "answers": []gin.H{}})
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("another user's session is forbidden", func(t *testing.T) {
		r, _, _, sessions, _ := newQuizRouter(quizConfig())
		s := &model.TestSession{UserID: "owner", Status: model.SessionInProgress}
		s.ID = "open"
		sessions.On("FindByID", mock.Anything, "open").Return(s, nil)

		w := doJSON(r, http.MethodPost, "/api/tests/open/submit", gin.H{"userId": "intruder"})
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("unknown session", func(t *testing.T) {
		r, _, _, sessions, _ := newQuizRouter(quizConfig())
		sessions.On("FindByID", mock.Anything, "nope").Return(nil, gorm.ErrRecordNotFound)

		w := doJSON(r, http.MethodPost, "/api/tests/nope/submit", gin.H{"userId": "learner"})
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestTestController_GetRequiresUser(t *testing.T) {
	r, _, _, _, _ := newQuizRouter(quizConfig())
	w := doJSON(r, http.MethodGet, "/api/tests/abc", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSubjectController_Create(t *testing.T) {
	existing := &model.Subject{Name: "Mathematics"}
	existing.ID = 1

	repo := new(mocks.MockSubjectStore)
	repo.On("FindByName", mock.Anything, "Mathematics").Return(existing, nil)
	repo.On("FindByName", mock.Anything, "Geography").Return(nil, gorm.ErrRecordNotFound)
	repo.On("Create", mock.Anything, mock.AnythingOfType("*model.Subject")).Run(func(args mock.Arguments) {
		args.Get(1).(*model.Subject).ID = 2
	}).Return(nil)

	c := NewSubjectController(service.NewSubjectService(repo))
	r := gin.New()
	r.POST("/api/admin/subjects", c.Create)

	w := doJSON(r, http.MethodPost, "/api/admin/subjects", gin.H{"name": "Mathematics"})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = doJSON(r, http.MethodPost, "/api/admin/subjects", gin.H{"name": "Geography", "grade": 10})
	require.Equal(t, http.StatusCreated, w.Code)
	var created model.Subject
	decode(t, w, &created)
	assert.Equal(t, uint(2), created.ID)
	assert.True(t, created.IsActive)

	w = doJSON(r, http.MethodPost, "/api/admin/subjects", gin.H{"name": "History", "grade": 13})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestProgressController_Leaderboard(t *testing.T) {
	board := new(mocks.MockLeaderboardStore)
	board.On("Top", mock.Anything, uint(4), util.MaxLimit).Return([]model.LeaderboardEntry{{UserID: "u1", Percentage: 90}}, nil)

	c := NewProgressController(service.NewProgressService(new(mocks.MockProgressStore), board))
	r := gin.New()
	r.GET("/api/subjects/:id/leaderboard", c.Leaderboard)

	w := doJSON(r, http.MethodGet, "/api/subjects/4/leaderboard?limit=100000", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var entries []model.LeaderboardEntry
	decode(t, w, &entries)
	require.Len(t, entries, 1)
	assert.Equal(t, "u1", entries[0].UserID)

	w = doJSON(r, http.MethodGet, "/api/subjects/abc/leaderboard", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
