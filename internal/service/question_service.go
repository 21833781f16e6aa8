package service

import (
	"context"
	"edulearn_backend/internal/model"
	"edulearn_backend/internal/repository"
	"edulearn_backend/internal/util"
	"edulearn_backend/pkg/logger"
	"fmt"
	"io"
	"mime/multipart"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

type QuestionRequest struct {
	SubjectID     uint     `json:"subjectId" binding:"required"`
	CategoryID    uint     `json:"categoryId"`
	TopicID       uint     `json:"topicId"`
	Type          string   `json:"type"`
	Text          string   `json:"text" binding:"required"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correctAnswer" binding:"required"`
	Explanation   string   `json:"explanation"`
	Difficulty    string   `json:"difficulty"`
	Grade         int      `json:"grade" binding:"gte=0,lte=12"`
	ImageURL      string   `json:"imageUrl"`
	IsActive      *bool    `json:"isActive"`
}

// PublicQuestion 面向学生的题目视图，不包含答案与解析
type PublicQuestion struct {
	ID         uint               `json:"id"`
	SubjectID  uint               `json:"subjectId"`
	TopicID    uint               `json:"topicId"`
	Type       model.QuestionType `json:"type"`
	Text       string             `json:"text"`
	Options    []string           `json:"options"`
	Difficulty model.Difficulty   `json:"difficulty"`
	ImageURL   string             `json:"imageUrl,omitempty"`
}

func toPublicQuestion(q model.Question) PublicQuestion {
	return PublicQuestion{
		ID:         q.ID,
		SubjectID:  q.SubjectID,
		TopicID:    q.TopicID,
		Type:       q.Type,
		Text:       q.Text,
		Options:    []string(q.Options),
		Difficulty: q.Difficulty,
		ImageURL:   q.ImageURL,
	}
}

type ImportRowError struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

type ImportResult struct {
	Imported int              `json:"imported"`
	Failed   []ImportRowError `json:"failed"`
}

type QuestionService struct {
	Repo         repository.QuestionStore
	SubjectRepo  repository.SubjectStore
	CategoryRepo repository.CategoryStore
	TopicRepo    repository.TopicStore
	Storage      *StorageService
	Settings     repository.QuizSettingsFunc
	Shuffler     *Shuffler
}

func NewQuestionService(
	repo repository.QuestionStore,
	subjectRepo repository.SubjectStore,
	categoryRepo repository.CategoryStore,
	topicRepo repository.TopicStore,
	storage *StorageService,
	settings repository.QuizSettingsFunc,
	shuffler *Shuffler,
) *QuestionService {
	return &QuestionService{
		Repo:         repo,
		SubjectRepo:  subjectRepo,
		CategoryRepo: categoryRepo,
		TopicRepo:    topicRepo,
		Storage:      storage,
		Settings:     settings,
		Shuffler:     shuffler,
	}
}

func (s *QuestionService) refs() *referenceChecker {
	return newReferenceChecker(s.SubjectRepo, s.CategoryRepo, s.TopicRepo)
}

// buildQuestion 校验并规范化请求，correctAnswer 统一保存为选项原文
func (s *QuestionService) buildQuestion(ctx context.Context, refs *referenceChecker, req QuestionRequest) (*model.Question, error) {
	q, err := normalizeQuestion(req)
	if err != nil {
		return nil, err
	}
	categoryID, err := refs.check(ctx, q.SubjectID, q.CategoryID, q.TopicID)
	if err != nil {
		return nil, err
	}
	q.CategoryID = categoryID
	return q, nil
}

func normalizeQuestion(req QuestionRequest) (*model.Question, error) {
	text := strings.TrimSpace(req.Text)
	if text == "" {
		return nil, fmt.Errorf("%w: text is required", util.ErrInvalidQuestion)
	}
	if req.Grade < 0 {
		return nil, fmt.Errorf("%w: grade must not be negative", util.ErrInvalidQuestion)
	}

	qType := model.QuestionType(strings.ToLower(strings.TrimSpace(req.Type)))
	switch qType {
	case "":
		qType = model.MultipleChoice
	case model.MultipleChoice, model.TrueFalse:
	default:
		return nil, fmt.Errorf("%w: unknown type %q", util.ErrInvalidQuestion, req.Type)
	}

	difficulty := model.Difficulty(strings.ToLower(strings.TrimSpace(req.Difficulty)))
	if difficulty == "" {
		difficulty = model.Medium
	}
	if !difficulty.Valid() {
		return nil, fmt.Errorf("%w: unknown difficulty %q", util.ErrInvalidQuestion, req.Difficulty)
	}

	options := make([]string, 0, len(req.Options))
	seen := make(map[string]bool)
	for _, o := range req.Options {
		o = strings.TrimSpace(o)
		if o == "" {
			continue
		}
		key := strings.ToLower(o)
		if seen[key] {
			return nil, fmt.Errorf("%w: duplicate option %q", util.ErrInvalidQuestion, o)
		}
		seen[key] = true
		options = append(options, o)
	}
	if qType == model.TrueFalse && len(options) == 0 {
		options = []string{"True", "False"}
	}
	if len(options) < 2 {
		return nil, fmt.Errorf("%w: at least two options are required", util.ErrInvalidQuestion)
	}

	answer := strings.TrimSpace(req.CorrectAnswer)
	if answer == "" {
		return nil, fmt.Errorf("%w: correctAnswer is required", util.ErrInvalidQuestion)
	}
	canonical := ""
	for _, o := range options {
		if strings.EqualFold(o, answer) {
			canonical = o
			break
		}
	}
	if canonical == "" {
		if idx, ok := optionLetterIndex(answer, len(options)); ok {
			canonical = options[idx]
		}
	}
	if canonical == "" {
		return nil, fmt.Errorf("%w: correctAnswer %q is not one of the options", util.ErrInvalidQuestion, answer)
	}

	return &model.Question{
		SubjectID:     req.SubjectID,
		CategoryID:    req.CategoryID,
		TopicID:       req.TopicID,
		Type:          qType,
		Text:          text,
		Options:       options,
		CorrectAnswer: canonical,
		Explanation:   strings.TrimSpace(req.Explanation),
		Difficulty:    difficulty,
		Grade:         req.Grade,
		ImageURL:      strings.TrimSpace(req.ImageURL),
		IsActive:      boolOr(req.IsActive, true),
	}, nil
}

// optionLetterIndex 解析单个字母 A..Z 为选项下标
func optionLetterIndex(answer string, n int) (int, bool) {
	if len(answer) != 1 {
		return 0, false
	}
	c := answer[0]
	if c >= 'a' && c <= 'z' {
		c -= 'a' - 'A'
	}
	if c < 'A' || c > 'Z' {
		return 0, false
	}
	idx := int(c - 'A')
	return idx, idx < n
}

// optionIndex 解析选项字母或从 0 开始的下标
func optionIndex(answer string, n int) (int, bool) {
	if idx, ok := optionLetterIndex(answer, n); ok {
		return idx, true
	}
	idx, err := strconv.Atoi(answer)
	if err != nil || idx < 0 || idx >= n {
		return 0, false
	}
	return idx, true
}

// isCorrectAnswer 先按原文比较，再按选项字母/下标比较
func isCorrectAnswer(q model.Question, answer string) bool {
	answer = strings.TrimSpace(answer)
	if answer == "" {
		return false
	}
	correct := strings.TrimSpace(q.CorrectAnswer)
	if strings.EqualFold(answer, correct) {
		return true
	}
	// 作答本身就是某个选项原文时不再按字母/下标解释
	for _, o := range q.Options {
		if strings.EqualFold(strings.TrimSpace(o), answer) {
			return false
		}
	}
	if idx, ok := optionIndex(answer, len(q.Options)); ok {
		return strings.EqualFold(strings.TrimSpace(q.Options[idx]), correct)
	}
	return false
}

func (s *QuestionService) Create(ctx context.Context, req QuestionRequest) (*model.Question, error) {
	q, err := s.buildQuestion(ctx, s.refs(), req)
	if err != nil {
		return nil, err
	}
	if err := s.Repo.Create(ctx, q); err != nil {
		return nil, fmt.Errorf("create question: %w", err)
	}
	return q, nil
}

// CreateBulk 全部校验通过后一次性写入
func (s *QuestionService) CreateBulk(ctx context.Context, reqs []QuestionRequest) ([]model.Question, error) {
	if len(reqs) == 0 {
		return nil, fmt.Errorf("%w: no questions supplied", util.ErrInvalidRequest)
	}
	refs := s.refs()
	questions := make([]model.Question, 0, len(reqs))
	for i, req := range reqs {
		q, err := s.buildQuestion(ctx, refs, req)
		if err != nil {
			return nil, fmt.Errorf("question %d: %w", i+1, err)
		}
		questions = append(questions, *q)
	}
	if err := s.Repo.CreateBatch(ctx, questions); err != nil {
		return nil, fmt.Errorf("create questions: %w", err)
	}
	return questions, nil
}

// ImportSpreadsheet 逐行校验，合法行批量写入，非法行返回行号与原因
func (s *QuestionService) ImportSpreadsheet(ctx context.Context, r io.Reader) (*ImportResult, error) {
	rows, err := ParseQuestionSheet(r)
	if err != nil {
		return nil, err
	}

	result := &ImportResult{Failed: []ImportRowError{}}
	refs := s.refs()
	var questions []model.Question
	for _, row := range rows {
		if row.Err != nil {
			result.Failed = append(result.Failed, ImportRowError{Row: row.Row, Message: row.Err.Error()})
			continue
		}
		q, err := s.buildQuestion(ctx, refs, row.Request)
		if err != nil {
			result.Failed = append(result.Failed, ImportRowError{Row: row.Row, Message: err.Error()})
			continue
		}
		questions = append(questions, *q)
	}

	if len(questions) > 0 {
		if err := s.Repo.CreateBatch(ctx, questions); err != nil {
			return nil, fmt.Errorf("import questions: %w", err)
		}
	}
	result.Imported = len(questions)

	logger.Log.Info("Question spreadsheet imported",
		zap.Int("imported", result.Imported),
		zap.Int("failed", len(result.Failed)),
	)
	return result, nil
}

func (s *QuestionService) Get(ctx context.Context, id uint) (*model.Question, error) {
	q, err := s.Repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, util.ErrQuestionNotFound)
	}
	return q, nil
}

func (s *QuestionService) List(ctx context.Context, filter model.QuestionFilter, page, limit int) ([]model.Question, int64, error) {
	return s.Repo.List(ctx, filter, page, limit)
}

func (s *QuestionService) ListPublic(ctx context.Context, filter model.QuestionFilter, page, limit int) ([]PublicQuestion, int64, error) {
	filter.IncludeInactive = false
	questions, total, err := s.Repo.List(ctx, filter, page, limit)
	if err != nil {
		return nil, 0, err
	}
	out := make([]PublicQuestion, 0, len(questions))
	for _, q := range questions {
		out = append(out, toPublicQuestion(q))
	}
	return out, total, nil
}

func (s *QuestionService) Update(ctx context.Context, id uint, req QuestionRequest) (*model.Question, error) {
	existing, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.IsActive == nil {
		req.IsActive = &existing.IsActive
	}
	q, err := s.buildQuestion(ctx, s.refs(), req)
	if err != nil {
		return nil, err
	}

	q.BaseModel = existing.BaseModel
	q.TimesUsed = existing.TimesUsed
	if q.ImageURL == "" {
		q.ImageURL = existing.ImageURL
	}
	if err := s.Repo.Update(ctx, q); err != nil {
		return nil, fmt.Errorf("update question: %w", err)
	}
	return q, nil
}

func (s *QuestionService) Delete(ctx context.Context, id uint) error {
	if err := s.Repo.Delete(ctx, id); err != nil {
		return notFound(err, util.ErrQuestionNotFound)
	}
	return nil
}

// Random 练习模式：随机抽题，不创建会话，不计入使用次数
func (s *QuestionService) Random(ctx context.Context, filter model.QuestionFilter, count int) ([]PublicQuestion, error) {
	cfg := s.Settings()
	if count <= 0 {
		count = cfg.DefaultQuestionCount
	}
	if count > cfg.MaxQuestionCount {
		count = cfg.MaxQuestionCount
	}

	if filter.SubjectID > 0 {
		subject, err := s.SubjectRepo.FindByID(ctx, filter.SubjectID)
		if err != nil {
			return nil, notFound(err, util.ErrSubjectNotFound)
		}
		if !subject.IsActive {
			return nil, util.ErrSubjectNotFound
		}
	}

	filter.IncludeInactive = false
	pool, err := s.Repo.FindActive(ctx, filter)
	if err != nil {
		return nil, err
	}
	if len(pool) == 0 {
		return nil, util.ErrNoQuestionsAvailable
	}

	picked := shuffled(s.Shuffler, pool)
	if len(picked) > count {
		picked = picked[:count]
	}
	out := make([]PublicQuestion, 0, len(picked))
	for _, q := range picked {
		out = append(out, toPublicQuestion(q))
	}
	return out, nil
}

func (s *QuestionService) Stats(ctx context.Context, subjectID uint) ([]model.TopicQuestionStat, error) {
	return s.Repo.StatsByTopic(ctx, subjectID)
}

// AttachImage 上传题目配图并更新 imageUrl
func (s *QuestionService) AttachImage(ctx context.Context, id uint, file *multipart.FileHeader) (*model.Question, error) {
	q, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if file.Size > util.MaxImageBytes {
		return nil, fmt.Errorf("%w: image exceeds %d bytes", util.ErrInvalidFile, util.MaxImageBytes)
	}
	if !util.HasAllowedExtension(file.Filename, util.AllowedImageExtensions) {
		return nil, fmt.Errorf("%w: unsupported image extension", util.ErrInvalidFile)
	}

	src, err := file.Open()
	if err != nil {
		return nil, err
	}
	defer src.Close()

	mimeType, err := util.ValidateMimeType(src, []string{util.MimeImage})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", util.ErrInvalidFile, err)
	}
	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}

	key := QuestionImageKey(q.ID, file.Filename)
	url, err := s.Storage.Upload(ctx, key, src, file.Size, mimeType)
	if err != nil {
		return nil, fmt.Errorf("upload image: %w", err)
	}

	q.ImageURL = url
	if err := s.Repo.Update(ctx, q); err != nil {
		if delErr := s.Storage.Delete(ctx, key); delErr != nil {
			logger.Log.Warn("Failed to remove orphaned image", zap.String("key", key), zap.Error(delErr))
		}
		return nil, fmt.Errorf("update question: %w", err)
	}
	return q, nil
}
