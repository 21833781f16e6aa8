package service

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"edulearn_backend/internal/config"
	"edulearn_backend/internal/model"
	"edulearn_backend/internal/repository/mocks"
	"edulearn_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

type questionMocks struct {
	questions  *mocks.MockQuestionStore
	subjects   *mocks.MockSubjectStore
	categories *mocks.MockCategoryStore
	topics     *mocks.MockTopicStore
}

func newTestQuestionService(storage *StorageService) (*QuestionService, *questionMocks) {
	m := &questionMocks{
		questions:  new(mocks.MockQuestionStore),
		subjects:   new(mocks.MockSubjectStore),
		categories: new(mocks.MockCategoryStore),
		topics:     new(mocks.MockTopicStore),
	}
	settings := NewQuizSettings(testQuizConfig())
	svc := NewQuestionService(m.questions, m.subjects, m.categories, m.topics, storage, settings.Get, NewShuffler(7))
	return svc, m
}

func (m *questionMocks) withTaxonomy() {
	maths := &model.Subject{Name: "Mathematics"}
	maths.ID = 1
	algebra := &model.Category{SubjectID: 1, Name: "Algebra"}
	algebra.ID = 3
	equations := &model.Topic{SubjectID: 1, CategoryID: 3, Name: "Equations"}
	equations.ID = 7
	foreign := &model.Topic{SubjectID: 2, Name: "Cells"}
	foreign.ID = 8

	m.subjects.On("FindByID", mock.Anything, uint(1)).Return(maths, nil)
	m.subjects.On("FindByID", mock.Anything, uint(99)).Return(nil, gorm.ErrRecordNotFound)
	m.categories.On("FindByID", mock.Anything, uint(3)).Return(algebra, nil)
	m.topics.On("FindByID", mock.Anything, uint(7)).Return(equations, nil)
	m.topics.On("FindByID", mock.Anything, uint(8)).Return(foreign, nil)
}

func TestNormalizeQuestion(t *testing.T) {
	tests := []struct {
		name        string
		req         QuestionRequest
		wantErr     bool
		wantAnswer  string
		wantOptions []string
		wantType    model.QuestionType
		wantLevel   model.Difficulty
	}{
		{
			name:        "defaults applied",
			req:         QuestionRequest{SubjectID: 1, Text: " What is 2+2? ", Options: []string{"3", " 4 ", ""}, CorrectAnswer: "4"},
			wantAnswer:  "4",
			wantOptions: []string{"3", "4"},
			wantType:    model.MultipleChoice,
			wantLevel:   model.Medium,
		},
		{
			name:        "answer matched ignoring case",
			req:         QuestionRequest{SubjectID: 1, Text: "Capital?", Options: []string{"Paris", "Rome"}, CorrectAnswer: "  paris", Difficulty: "HARD"},
			wantAnswer:  "Paris",
			wantOptions: []string{"Paris", "Rome"},
			wantType:    model.MultipleChoice,
			wantLevel:   model.Hard,
		},
		{
			name:        "answer given as option letter",
			req:         QuestionRequest{SubjectID: 1, Text: "Pick", Options: []string{"x", "y", "z"}, CorrectAnswer: "c"},
			wantAnswer:  "z",
			wantOptions: []string{"x", "y", "z"},
			wantType:    model.MultipleChoice,
			wantLevel:   model.Medium,
		},
		{
			name:        "true false gets default options",
			req:         QuestionRequest{SubjectID: 1, Type: "true_false", Text: "Sky is blue", CorrectAnswer: "true"},
			wantAnswer:  "True",
			wantOptions: []string{"True", "False"},
			wantType:    model.TrueFalse,
			wantLevel:   model.Medium,
		},
		{name: "missing text", req: QuestionRequest{SubjectID: 1, Options: []string{"a", "b"}, CorrectAnswer: "a"}, wantErr: true},
		{name: "single option", req: QuestionRequest{SubjectID: 1, Text: "q", Options: []string{"a"}, CorrectAnswer: "a"}, wantErr: true},
		{name: "duplicate options", req: QuestionRequest{SubjectID: 1, Text: "q", Options: []string{"a", "A"}, CorrectAnswer: "a"}, wantErr: true},
		{name: "answer not an option", req: QuestionRequest{SubjectID: 1, Text: "q", Options: []string{"a", "b"}, CorrectAnswer: "c"}, wantErr: true},
		{name: "letter out of range", req: QuestionRequest{SubjectID: 1, Text: "q", Options: []string{"x", "y"}, CorrectAnswer: "D"}, wantErr: true},
		{name: "unknown type", req: QuestionRequest{SubjectID: 1, Text: "q", Type: "essay", Options: []string{"a", "b"}, CorrectAnswer: "a"}, wantErr: true},
		{name: "unknown difficulty", req: QuestionRequest{SubjectID: 1, Text: "q", Difficulty: "impossible", Options: []string{"a", "b"}, CorrectAnswer: "a"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := normalizeQuestion(tt.req)
			if tt.wantErr {
				assert.ErrorIs(t, err, util.ErrInvalidQuestion)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantAnswer, q.CorrectAnswer)
			assert.Equal(t, tt.wantOptions, []string(q.Options))
			assert.Equal(t, tt.wantType, q.Type)
			assert.Equal(t, tt.wantLevel, q.Difficulty)
			assert.True(t, q.IsActive)
			assert.Equal(t, 0, q.TimesUsed)
		})
	}
}

func TestIsCorrectAnswer(t *testing.T) {
	q := model.Question{Options: []string{"Paris", "London", "Rome"}, CorrectAnswer: "London"}
	numeric := model.Question{Options: []string{"1", "2", "3"}, CorrectAnswer: "2"}

	tests := []struct {
		name     string
		question model.Question
		answer   string
		want     bool
	}{
		{"exact", q, "London", true},
		{"case and whitespace", q, "  lONDON ", true},
		{"letter", q, "B", true},
		{"lowercase letter", q, "b", true},
		{"zero based index", q, "1", true},
		{"wrong text", q, "Paris", false},
		{"wrong letter", q, "C", false},
		{"out of range index", q, "7", false},
		{"empty", q, "", false},
		{"numeric option taken literally", numeric, "1", false},
		{"numeric option exact", numeric, "2", true},
		{"numeric option letter", numeric, "B", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isCorrectAnswer(tt.question, tt.answer))
		})
	}
}

func TestQuestionService_Create(t *testing.T) {
	t.Run("inherits category from topic", func(t *testing.T) {
		svc, m := newTestQuestionService(nil)
		m.withTaxonomy()
		m.questions.On("Create", mock.Anything, mock.MatchedBy(func(q *model.Question) bool {
			return q.CategoryID == 3 && q.TopicID == 7 && q.CorrectAnswer == "4"
		})).Return(nil)

		q, err := svc.Create(ctx(), QuestionRequest{SubjectID: 1, TopicID: 7, Text: "2+2", Options: []string{"3", "4"}, CorrectAnswer: "B"})
		require.NoError(t, err)
		assert.Equal(t, uint(3), q.CategoryID)
		m.questions.AssertExpectations(t)
	})

	t.Run("topic from another subject", func(t *testing.T) {
		svc, m := newTestQuestionService(nil)
		m.withTaxonomy()

		_, err := svc.Create(ctx(), QuestionRequest{SubjectID: 1, TopicID: 8, Text: "q", Options: []string{"a", "b"}, CorrectAnswer: "a"})
		assert.ErrorIs(t, err, util.ErrInvalidReference)
		m.questions.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("missing subject", func(t *testing.T) {
		svc, m := newTestQuestionService(nil)
		m.withTaxonomy()

		_, err := svc.Create(ctx(), QuestionRequest{SubjectID: 99, Text: "q", Options: []string{"a", "b"}, CorrectAnswer: "a"})
		assert.ErrorIs(t, err, util.ErrInvalidReference)
	})
}

func TestQuestionService_CreateBulk(t *testing.T) {
	t.Run("all rows valid", func(t *testing.T) {
		svc, m := newTestQuestionService(nil)
		m.withTaxonomy()
		m.questions.On("CreateBatch", mock.Anything, mock.MatchedBy(func(qs []model.Question) bool { return len(qs) == 2 })).Return(nil)

		created, err := svc.CreateBulk(ctx(), []QuestionRequest{
			{SubjectID: 1, Text: "a", Options: []string{"x", "y"}, CorrectAnswer: "x"},
			{SubjectID: 1, Type: "true_false", Text: "b", CorrectAnswer: "False"},
		})
		require.NoError(t, err)
		assert.Len(t, created, 2)
	})

	t.Run("one invalid row rejects the batch", func(t *testing.T) {
		svc, m := newTestQuestionService(nil)
		m.withTaxonomy()

		_, err := svc.CreateBulk(ctx(), []QuestionRequest{
			{SubjectID: 1, Text: "a", Options: []string{"x", "y"}, CorrectAnswer: "x"},
			{SubjectID: 1, Text: "b", Options: []string{"x"}, CorrectAnswer: "x"},
		})
		require.Error(t, err)
		assert.ErrorIs(t, err, util.ErrInvalidQuestion)
		assert.Contains(t, err.Error(), "question 2")
		m.questions.AssertNotCalled(t, "CreateBatch", mock.Anything, mock.Anything)
	})

	t.Run("empty body", func(t *testing.T) {
		svc, _ := newTestQuestionService(nil)
		_, err := svc.CreateBulk(ctx(), nil)
		assert.ErrorIs(t, err, util.ErrInvalidRequest)
	})
}

func TestQuestionService_Update(t *testing.T) {
	svc, m := newTestQuestionService(nil)
	m.withTaxonomy()

	existing := &model.Question{SubjectID: 1, Text: "old", Options: []string{"a", "b"}, CorrectAnswer: "a", TimesUsed: 12, ImageURL: "/uploads/q.png", IsActive: false, Difficulty: model.Easy, Type: model.MultipleChoice}
	existing.ID = 5
	m.questions.On("FindByID", mock.Anything, uint(5)).Return(existing, nil)
	m.questions.On("FindByID", mock.Anything, uint(6)).Return(nil, gorm.ErrRecordNotFound)
	m.questions.On("Update", mock.Anything, mock.MatchedBy(func(q *model.Question) bool {
		return q.ID == 5 && q.TimesUsed == 12 && q.ImageURL == "/uploads/q.png" && !q.IsActive && q.Text == "new"
	})).Return(nil)

	q, err := svc.Update(ctx(), 5, QuestionRequest{SubjectID: 1, Text: "new", Options: []string{"a", "b"}, CorrectAnswer: "b"})
	require.NoError(t, err)
	assert.Equal(t, "b", q.CorrectAnswer)

	_, err = svc.Update(ctx(), 6, QuestionRequest{SubjectID: 1, Text: "new", Options: []string{"a", "b"}, CorrectAnswer: "b"})
	assert.ErrorIs(t, err, util.ErrQuestionNotFound)
}

func TestQuestionService_ListPublicHidesInactive(t *testing.T) {
	svc, m := newTestQuestionService(nil)
	q := model.Question{Text: "q", Options: []string{"a", "b"}, CorrectAnswer: "a", Explanation: "secret"}
	q.ID = 1
	m.questions.On("List", mock.Anything, model.QuestionFilter{SubjectID: 1}, 1, 20).Return([]model.Question{q}, int64(1), nil)

	list, total, err := svc.ListPublic(ctx(), model.QuestionFilter{SubjectID: 1, IncludeInactive: true}, 1, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, list, 1)
	assert.Equal(t, []string{"a", "b"}, list[0].Options)
}

func TestQuestionService_Random(t *testing.T) {
	svc, m := newTestQuestionService(nil)
	for _, id := range []uint{1, 2} {
		subject := &model.Subject{Name: "Subject", IsActive: true}
		subject.ID = id
		m.subjects.On("FindByID", mock.Anything, id).Return(subject, nil)
	}
	m.questions.On("FindActive", mock.Anything, model.QuestionFilter{SubjectID: 1}).Return(makeQuestions(1, 30), nil)
	m.questions.On("FindActive", mock.Anything, model.QuestionFilter{SubjectID: 2}).Return(nil, nil)

	list, err := svc.Random(ctx(), model.QuestionFilter{SubjectID: 1}, 0)
	require.NoError(t, err)
	assert.Len(t, list, 10)

	_, err = svc.Random(ctx(), model.QuestionFilter{SubjectID: 2}, 5)
	assert.ErrorIs(t, err, util.ErrNoQuestionsAvailable)
	m.questions.AssertNotCalled(t, "IncrementUsage", mock.Anything, mock.Anything)
}

func buildQuestionWorkbook(t *testing.T, rows [][]interface{}) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	header := []interface{}{"Subject_ID", "topic_id", "type", "question", "option_a", "option_b", "option_c", "correct_answer", "difficulty", "grade"}
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &header))
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		require.NoError(t, err)
		r := row
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &r))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf
}

func TestQuestionService_ImportSpreadsheet(t *testing.T) {
	svc, m := newTestQuestionService(nil)
	m.withTaxonomy()
	m.questions.On("CreateBatch", mock.Anything, mock.MatchedBy(func(qs []model.Question) bool {
		return len(qs) == 2 && qs[0].CorrectAnswer == "Mitochondrion" && qs[1].Type == model.TrueFalse
	})).Return(nil)

	buf := buildQuestionWorkbook(t, [][]interface{}{
		{1, 7, "", "Powerhouse of the cell?", "Nucleus", "Mitochondrion", "", "B", "easy", 10},
		{1, "", "true_false", "Cells divide by mitosis", "", "", "", "true", "", ""},
		{},
		{"abc", "", "", "Broken id", "a", "b", "", "a", "", ""},
		{1, 8, "", "Wrong topic", "a", "b", "", "a", "", ""},
	})

	result, err := svc.ImportSpreadsheet(ctx(), buf)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Imported)
	require.Len(t, result.Failed, 2)
	assert.Equal(t, 5, result.Failed[0].Row)
	assert.Contains(t, result.Failed[0].Message, "subject_id")
	assert.Equal(t, 6, result.Failed[1].Row)
	m.questions.AssertExpectations(t)
}

func TestQuestionService_ImportSpreadsheetRejectsBadFiles(t *testing.T) {
	svc, _ := newTestQuestionService(nil)

	_, err := svc.ImportSpreadsheet(ctx(), strings.NewReader("not a workbook"))
	assert.ErrorIs(t, err, util.ErrInvalidFile)

	f := excelize.NewFile()
	header := []interface{}{"question", "option_a"}
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &header))
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	_, err = svc.ImportSpreadsheet(ctx(), buf)
	assert.ErrorIs(t, err, util.ErrInvalidFile)
}

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x02\x00\x00\x00")

func TestQuestionService_AttachImage(t *testing.T) {
	dir := t.TempDir()
	storage := NewStorageService(&config.StorageConfig{Type: util.StorageLocal, LocalPath: dir, PublicURL: "/uploads"})

	t.Run("stores image and updates url", func(t *testing.T) {
		svc, m := newTestQuestionService(storage)
		q := &model.Question{Text: "q"}
		q.ID = 5
		m.questions.On("FindByID", mock.Anything, uint(5)).Return(q, nil)
		m.questions.On("Update", mock.Anything, mock.Anything).Return(nil)

		updated, err := svc.AttachImage(ctx(), 5, formFile(t, "image", "diagram.PNG", pngHeader))
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(updated.ImageURL, "/uploads/questions/5/"))
		assert.True(t, strings.HasSuffix(updated.ImageURL, ".png"))

		key := strings.TrimPrefix(updated.ImageURL, "/uploads/")
		data, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(key)))
		require.NoError(t, err)
		assert.Equal(t, pngHeader, data)
	})

	t.Run("rejects non images", func(t *testing.T) {
		svc, m := newTestQuestionService(storage)
		q := &model.Question{Text: "q"}
		q.ID = 5
		m.questions.On("FindByID", mock.Anything, uint(5)).Return(q, nil)

		_, err := svc.AttachImage(ctx(), 5, formFile(t, "image", "notes.png", []byte("plain text pretending")))
		assert.ErrorIs(t, err, util.ErrInvalidFile)

		_, err = svc.AttachImage(ctx(), 5, formFile(t, "image", "notes.txt", pngHeader))
		assert.ErrorIs(t, err, util.ErrInvalidFile)
		m.questions.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("removes upload when update fails", func(t *testing.T) {
		svc, m := newTestQuestionService(storage)
		q := &model.Question{Text: "q"}
		q.ID = 9
		m.questions.On("FindByID", mock.Anything, uint(9)).Return(q, nil)
		m.questions.On("Update", mock.Anything, mock.Anything).Return(errors.New("db down"))

		_, err := svc.AttachImage(ctx(), 9, formFile(t, "image", "a.png", pngHeader))
		require.Error(t, err)

		entries, err := os.ReadDir(filepath.Join(dir, "questions", "9"))
		require.NoError(t, err)
		assert.Empty(t, entries)
	})
}

func TestQuestionService_Stats(t *testing.T) {
	svc, m := newTestQuestionService(nil)
	stats := []model.TopicQuestionStat{{TopicID: 7, Questions: 12, TimesUsed: 40}, {TopicID: 0, Questions: 3}}
	m.questions.On("StatsByTopic", mock.Anything, uint(1)).Return(stats, nil)

	got, err := svc.Stats(ctx(), 1)
	require.NoError(t, err)
	assert.Equal(t, stats, got)
}

func TestQuestionService_RandomSkipsInactiveSubject(t *testing.T) {
	svc, m := newTestQuestionService(nil)
	hidden := &model.Subject{Name: "Archived", IsActive: false}
	hidden.ID = 4
	m.subjects.On("FindByID", mock.Anything, uint(4)).Return(hidden, nil)
	m.subjects.On("FindByID", mock.Anything, uint(5)).Return(nil, gorm.ErrRecordNotFound)

	_, err := svc.Random(ctx(), model.QuestionFilter{SubjectID: 4}, 5)
	assert.ErrorIs(t, err, util.ErrSubjectNotFound)

	_, err = svc.Random(ctx(), model.QuestionFilter{SubjectID: 5}, 5)
	assert.ErrorIs(t, err, util.ErrSubjectNotFound)
	m.questions.AssertNotCalled(t, "FindActive", mock.Anything, mock.Anything)
}

func TestQuestionService_CreateRejectsStaleTopicCategory(t *testing.T) {
	svc, m := newTestQuestionService(nil)
	maths := &model.Subject{Name: "Mathematics", IsActive: true}
	maths.ID = 1
	moved := &model.Category{SubjectID: 2, Name: "Algebra"}
	moved.ID = 5
	topic := &model.Topic{SubjectID: 1, CategoryID: 5, Name: "Equations"}
	topic.ID = 9
	m.subjects.On("FindByID", mock.Anything, uint(1)).Return(maths, nil)
	m.categories.On("FindByID", mock.Anything, uint(5)).Return(moved, nil)
	m.topics.On("FindByID", mock.Anything, uint(9)).Return(topic, nil)

	_, err := svc.Create(ctx(), QuestionRequest{
		SubjectID:     1,
		TopicID:       9,
		Text:          "Solve x + 1 = 2",
		Options:       []string{"1", "2"},
		CorrectAnswer: "1",
	})

	assert.ErrorIs(t, err, util.ErrInvalidReference)
	m.questions.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}
