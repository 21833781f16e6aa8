package service

import (
	"context"
	"edulearn_backend/internal/model"
	"edulearn_backend/internal/repository"
	"edulearn_backend/internal/util"
	"edulearn_backend/pkg/logger"
	"edulearn_backend/pkg/monitoring"
	"edulearn_backend/pkg/tracing"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

type StartTestRequest struct {
	UserID     string `json:"userId" binding:"required,max=128"`
	SubjectID  uint   `json:"subjectId" binding:"required"`
	TopicID    uint   `json:"topicId"`
	CategoryID uint   `json:"categoryId"`
	Difficulty string `json:"difficulty"`
	Count      int    `json:"count" binding:"gte=0"`
}

type StartTestResponse struct {
	SessionID      string           `json:"sessionId"`
	SubjectID      uint             `json:"subjectId"`
	TotalQuestions int              `json:"totalQuestions"`
	StartedAt      time.Time        `json:"startedAt"`
	ExpiresAt      *time.Time       `json:"expiresAt,omitempty"`
	Questions      []PublicQuestion `json:"questions"`
}

type AnswerInput struct {
	QuestionID uint   `json:"questionId" binding:"required"`
	Answer     string `json:"answer"`
}

type SubmitTestRequest struct {
	UserID    string        `json:"userId" binding:"required,max=128"`
	Answers   []AnswerInput `json:"answers" binding:"dive"`
	TimeTaken int           `json:"timeTaken" binding:"gte=0"`
}

type QuestionResult struct {
	QuestionID    uint   `json:"questionId"`
	Text          string `json:"text"`
	UserAnswer    string `json:"userAnswer"`
	CorrectAnswer string `json:"correctAnswer"`
	IsCorrect     bool   `json:"isCorrect"`
	Explanation   string `json:"explanation,omitempty"`
}

type SubmitTestResponse struct {
	SessionID      string           `json:"sessionId"`
	Score          int              `json:"score"`
	TotalQuestions int              `json:"totalQuestions"`
	Percentage     float64          `json:"percentage"`
	Results        []QuestionResult `json:"results"`
}

// QuizService 出题与判分
type QuizService struct {
	Questions   repository.QuestionStore
	Sessions    repository.TestSessionStore
	Subjects    repository.SubjectStore
	Topics      repository.TopicStore
	Recent      repository.RecentQuestionStore
	Leaderboard repository.LeaderboardStore // 可为 nil
	Settings    repository.QuizSettingsFunc
	Shuffler    *Shuffler

	now func() time.Time
}

func NewQuizService(
	questions repository.QuestionStore,
	sessions repository.TestSessionStore,
	subjects repository.SubjectStore,
	topics repository.TopicStore,
	recent repository.RecentQuestionStore,
	leaderboard repository.LeaderboardStore,
	settings repository.QuizSettingsFunc,
	shuffler *Shuffler,
) *QuizService {
	return &QuizService{
		Questions:   questions,
		Sessions:    sessions,
		Subjects:    subjects,
		Topics:      topics,
		Recent:      recent,
		Leaderboard: leaderboard,
		Settings:    settings,
		Shuffler:    shuffler,
		now:         time.Now,
	}
}

// StartTest 按条件抽题并创建答题会话，优先抽取用户近期未做过的题目
func (s *QuizService) StartTest(ctx context.Context, req StartTestRequest) (*StartTestResponse, error) {
	ctx, span := tracing.Tracer.Start(ctx, "QuizService.StartTest")
	span.SetAttributes(
		attribute.String("quiz.user_id", req.UserID),
		attribute.Int64("quiz.subject_id", int64(req.SubjectID)),
	)

	resp, err := s.startTest(ctx, req)
	if err != nil {
		tracing.EndSpan(span, err)
		return nil, err
	}
	span.SetAttributes(attribute.Int("quiz.total_questions", resp.TotalQuestions))
	tracing.EndSpan(span, nil)
	return resp, nil
}

func (s *QuizService) startTest(ctx context.Context, req StartTestRequest) (*StartTestResponse, error) {
	userID := strings.TrimSpace(req.UserID)
	if userID == "" || req.SubjectID == 0 {
		return nil, fmt.Errorf("%w: userId and subjectId are required", util.ErrInvalidRequest)
	}
	if req.Count < 0 {
		return nil, fmt.Errorf("%w: count must not be negative", util.ErrInvalidRequest)
	}
	difficulty := model.Difficulty(strings.ToLower(strings.TrimSpace(req.Difficulty)))
	if difficulty != "" && !difficulty.Valid() {
		return nil, fmt.Errorf("%w: unknown difficulty %q", util.ErrInvalidRequest, req.Difficulty)
	}

	cfg := s.Settings()
	count := req.Count
	if count == 0 {
		count = cfg.DefaultQuestionCount
	}
	if count > cfg.MaxQuestionCount {
		count = cfg.MaxQuestionCount
	}

	subject, err := s.Subjects.FindByID(ctx, req.SubjectID)
	if err != nil {
		return nil, notFound(err, util.ErrSubjectNotFound)
	}
	if !subject.IsActive {
		return nil, util.ErrSubjectNotFound
	}
	if req.TopicID > 0 {
		topic, err := s.Topics.FindByID(ctx, req.TopicID)
		if err != nil {
			return nil, notFound(err, util.ErrTopicNotFound)
		}
		if !topic.IsActive || topic.SubjectID != req.SubjectID {
			return nil, util.ErrTopicNotFound
		}
	}

	pool, err := s.Questions.FindActive(ctx, model.QuestionFilter{
		SubjectID:  req.SubjectID,
		CategoryID: req.CategoryID,
		TopicID:    req.TopicID,
		Difficulty: difficulty,
	})
	if err != nil {
		return nil, fmt.Errorf("load questions: %w", err)
	}
	if len(pool) == 0 {
		return nil, util.ErrNoQuestionsAvailable
	}

	recent, err := s.Recent.Recent(ctx, userID, req.SubjectID)
	if err != nil {
		logger.Log.Warn("Failed to load recent questions",
			zap.String("userId", userID),
			zap.Uint("subjectId", req.SubjectID),
			zap.Error(err),
		)
		recent = nil
	}

	selected, recycled := s.selectQuestions(pool, recent, count)

	startedAt := s.now()
	ids := make([]uint, 0, len(selected))
	for _, q := range selected {
		ids = append(ids, q.ID)
	}
	session := &model.TestSession{
		UserID:         userID,
		SubjectID:      req.SubjectID,
		CategoryID:     req.CategoryID,
		TopicID:        req.TopicID,
		Difficulty:     difficulty,
		QuestionIDs:    ids,
		TotalQuestions: len(ids),
		Status:         model.SessionInProgress,
		StartedAt:      startedAt,
	}
	if err := s.Sessions.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("create test session: %w", err)
	}

	// 会话已创建，计数与近期记录失败只记日志
	if err := s.Questions.IncrementUsage(ctx, ids); err != nil {
		logger.Log.Warn("Failed to increment question usage", zap.String("sessionId", session.ID), zap.Error(err))
	}
	if err := s.Recent.Remember(ctx, userID, req.SubjectID, ids); err != nil {
		logger.Log.Warn("Failed to remember recent questions", zap.String("sessionId", session.ID), zap.Error(err))
	}

	subjectLabel := strconv.FormatUint(uint64(req.SubjectID), 10)
	monitoring.TestSessionsStarted.WithLabelValues(subjectLabel).Inc()
	monitoring.QuestionsServed.Add(float64(len(ids)))
	if recycled > 0 {
		monitoring.RecycledQuestions.Add(float64(recycled))
	}

	resp := &StartTestResponse{
		SessionID:      session.ID,
		SubjectID:      session.SubjectID,
		TotalQuestions: session.TotalQuestions,
		StartedAt:      startedAt,
		Questions:      make([]PublicQuestion, 0, len(selected)),
	}
	if ttl := cfg.SessionTTL(); ttl > 0 {
		expires := startedAt.Add(ttl)
		resp.ExpiresAt = &expires
	}
	for _, q := range selected {
		resp.Questions = append(resp.Questions, toPublicQuestion(q))
	}
	return resp, nil
}

// selectQuestions 先从未做过的题目中随机抽取，不足时按“最久未做”顺序补齐，最后整体打乱。
// recent 按时间倒序排列；返回值 recycled 为补齐的近期题目数量。
func (s *QuizService) selectQuestions(pool []model.Question, recent []uint, count int) ([]model.Question, int) {
	recentRank := make(map[uint]int, len(recent))
	for i, id := range recent {
		if _, ok := recentRank[id]; !ok {
			recentRank[id] = i
		}
	}

	var fresh []model.Question
	used := make([]model.Question, len(recent))
	usedSet := make([]bool, len(recent))
	for _, q := range pool {
		if rank, ok := recentRank[q.ID]; ok {
			used[rank] = q
			usedSet[rank] = true
			continue
		}
		fresh = append(fresh, q)
	}

	selected := shuffled(s.Shuffler, fresh)
	if len(selected) > count {
		selected = selected[:count]
	}

	recycled := 0
	for i := len(used) - 1; i >= 0 && len(selected) < count; i-- {
		if !usedSet[i] {
			continue
		}
		selected = append(selected, used[i])
		recycled++
	}

	return shuffled(s.Shuffler, selected), recycled
}

// SubmitTest 判分并在一个事务内写入会话结果、作答明细与成绩记录
func (s *QuizService) SubmitTest(ctx context.Context, sessionID string, req SubmitTestRequest) (*SubmitTestResponse, error) {
	ctx, span := tracing.Tracer.Start(ctx, "QuizService.SubmitTest")
	span.SetAttributes(attribute.String("quiz.session_id", sessionID))

	resp, err := s.submitTest(ctx, sessionID, req)
	if err != nil {
		tracing.EndSpan(span, err)
		return nil, err
	}
	span.SetAttributes(attribute.Float64("quiz.percentage", resp.Percentage))
	tracing.EndSpan(span, nil)
	return resp, nil
}

func (s *QuizService) submitTest(ctx context.Context, sessionID string, req SubmitTestRequest) (*SubmitTestResponse, error) {
	session, err := s.Sessions.FindByID(ctx, sessionID)
	if err != nil {
		return nil, notFound(err, util.ErrSessionNotFound)
	}
	if session.UserID != strings.TrimSpace(req.UserID) {
		return nil, util.ErrPermissionDenied
	}
	if session.Status != model.SessionInProgress {
		return nil, util.ErrSessionAlreadySubmitted
	}

	now := s.now()
	if ttl := s.Settings().SessionTTL(); ttl > 0 && now.After(session.StartedAt.Add(ttl)) {
		return nil, util.ErrSessionExpired
	}

	questions, err := s.Questions.FindByIDs(ctx, session.QuestionIDs)
	if err != nil {
		return nil, fmt.Errorf("load session questions: %w", err)
	}
	byID := make(map[uint]model.Question, len(questions))
	for _, q := range questions {
		byID[q.ID] = q
	}

	inSession := make(map[uint]bool, len(session.QuestionIDs))
	for _, id := range session.QuestionIDs {
		inSession[id] = true
	}
	submitted := make(map[uint]string, len(req.Answers))
	for _, a := range req.Answers {
		if !inSession[a.QuestionID] {
			continue
		}
		if _, dup := submitted[a.QuestionID]; dup {
			continue
		}
		submitted[a.QuestionID] = a.Answer
	}

	total := len(session.QuestionIDs)
	results := make([]QuestionResult, 0, total)
	answers := make([]model.TestAnswer, 0, len(submitted))
	score := 0
	for _, id := range session.QuestionIDs {
		q := byID[id]
		userAnswer, answered := submitted[id]
		correct := answered && isCorrectAnswer(q, userAnswer)
		if correct {
			score++
		}
		if answered {
			answers = append(answers, model.TestAnswer{
				SessionID:  session.ID,
				QuestionID: id,
				UserAnswer: userAnswer,
				IsCorrect:  correct,
			})
		}
		results = append(results, QuestionResult{
			QuestionID:    id,
			Text:          q.Text,
			UserAnswer:    userAnswer,
			CorrectAnswer: q.CorrectAnswer,
			IsCorrect:     correct,
			Explanation:   q.Explanation,
		})
	}

	percentage := percentOf(score, total)
	timeTaken := req.TimeTaken
	if timeTaken <= 0 {
		timeTaken = int(now.Sub(session.StartedAt).Seconds())
	}

	session.Status = model.SessionCompleted
	session.Score = score
	session.Percentage = percentage
	session.CompletedAt = &now
	session.TimeTaken = timeTaken

	progress := &model.Progress{
		UserID:         session.UserID,
		SubjectID:      session.SubjectID,
		TopicID:        session.TopicID,
		SessionID:      session.ID,
		QuizTitle:      s.quizTitle(ctx, session.SubjectID, session.TopicID),
		Score:          score,
		TotalQuestions: total,
		Percentage:     percentage,
		TimeTaken:      timeTaken,
		CompletedAt:    now,
	}

	if err := s.Sessions.Complete(ctx, session, answers, progress); err != nil {
		if errors.Is(err, repository.ErrSessionNotOpen) {
			return nil, util.ErrSessionAlreadySubmitted
		}
		return nil, fmt.Errorf("complete test session: %w", err)
	}

	if s.Leaderboard != nil {
		if err := s.Leaderboard.Record(ctx, session.SubjectID, session.UserID, percentage); err != nil {
			logger.Log.Warn("Failed to update leaderboard", zap.String("sessionId", session.ID), zap.Error(err))
		}
	}

	monitoring.TestSubmissions.WithLabelValues(strconv.FormatUint(uint64(session.SubjectID), 10)).Inc()
	monitoring.ScorePercentage.Observe(percentage)

	return &SubmitTestResponse{
		SessionID:      session.ID,
		Score:          score,
		TotalQuestions: total,
		Percentage:     percentage,
		Results:        results,
	}, nil
}

// quizTitle 学科名，指定主题时为“学科 – 主题”
func (s *QuizService) quizTitle(ctx context.Context, subjectID, topicID uint) string {
	title := "Quiz"
	if subject, err := s.Subjects.FindByID(ctx, subjectID); err == nil {
		title = subject.Name
	}
	if topicID > 0 && s.Topics != nil {
		if topic, err := s.Topics.FindByID(ctx, topicID); err == nil {
			title = title + " – " + topic.Name
		}
	}
	return title
}

// GetSession 仅会话所属用户可查看
func (s *QuizService) GetSession(ctx context.Context, sessionID, userID string) (*model.TestSession, error) {
	session, err := s.Sessions.FindByID(ctx, sessionID)
	if err != nil {
		return nil, notFound(err, util.ErrSessionNotFound)
	}
	if session.UserID != userID {
		return nil, util.ErrPermissionDenied
	}
	return session, nil
}

func (s *QuizService) ListSessions(ctx context.Context, userID string, page, limit int) ([]model.TestSession, int64, error) {
	return s.Sessions.ListByUser(ctx, userID, page, limit)
}

func percentOf(score, total int) float64 {
	if total <= 0 {
		return 0
	}
	return round2(float64(score) / float64(total) * 100)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
