package service

import (
	"testing"

	"edulearn_backend/internal/model"
	"edulearn_backend/internal/repository/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const testSeed = `
subjects:
  - name: Mathematics
    grade: 0
    questions:
      - text: "1 + 1?"
        options: ["1", "2"]
        correct_answer: "2"
    categories:
      - name: Algebra
        topics:
          - name: Equations
            questions:
              - text: "Solve 2x = 4"
                options: ["1", "2"]
                correct_answer: B
              - text: "x = x"
                type: true_false
                correct_answer: "True"
  - name: Life Sciences
    topics:
      - name: Cells
`

func TestParseSeed(t *testing.T) {
	file, err := ParseSeed([]byte(testSeed))
	require.NoError(t, err)
	require.Len(t, file.Subjects, 2)
	assert.Equal(t, "B", file.Subjects[0].Categories[0].Topics[0].Questions[0].CorrectAnswer)

	_, err = ParseSeed([]byte("subjects: []"))
	assert.Error(t, err)

	_, err = ParseSeed([]byte("subjects: [unclosed"))
	assert.Error(t, err)
}

func TestLoadSeedFileBundled(t *testing.T) {
	file, err := LoadSeedFile("../../configs/seed.yaml")
	require.NoError(t, err)
	assert.NotEmpty(t, file.Subjects)
	for _, s := range file.Subjects {
		for _, q := range s.Questions {
			_, err := normalizeQuestion(QuestionRequest{SubjectID: 1, Type: q.Type, Text: q.Text, Options: q.Options, CorrectAnswer: q.CorrectAnswer, Difficulty: q.Difficulty})
			assert.NoError(t, err, q.Text)
		}
		for _, c := range s.Categories {
			for _, tp := range c.Topics {
				for _, q := range tp.Questions {
					_, err := normalizeQuestion(QuestionRequest{SubjectID: 1, Type: q.Type, Text: q.Text, Options: q.Options, CorrectAnswer: q.CorrectAnswer, Difficulty: q.Difficulty})
					assert.NoError(t, err, q.Text)
				}
			}
		}
	}
}

func TestSeedService_Seed(t *testing.T) {
	subjects := new(mocks.MockSubjectStore)
	categories := new(mocks.MockCategoryStore)
	topics := new(mocks.MockTopicStore)
	questions := new(mocks.MockQuestionStore)

	maths := &model.Subject{Name: "Mathematics"}
	maths.ID = 1
	algebra := &model.Category{SubjectID: 1, Name: "Algebra"}
	algebra.ID = 3
	equations := &model.Topic{SubjectID: 1, CategoryID: 3, Name: "Equations"}
	equations.ID = 7
	life := &model.Subject{Name: "Life Sciences"}
	life.ID = 2

	subjects.On("FindByName", mock.Anything, "Mathematics").Return(nil, gorm.ErrRecordNotFound)
	subjects.On("FindByName", mock.Anything, "Life Sciences").Return(life, nil)
	subjects.On("Create", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		args.Get(1).(*model.Subject).ID = 1
	}).Return(nil)
	subjects.On("FindByID", mock.Anything, uint(1)).Return(maths, nil)
	categories.On("Create", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		args.Get(1).(*model.Category).ID = 3
	}).Return(nil)
	categories.On("FindByID", mock.Anything, uint(3)).Return(algebra, nil)
	topics.On("Create", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		args.Get(1).(*model.Topic).ID = 7
	}).Return(nil)
	topics.On("FindByID", mock.Anything, uint(7)).Return(equations, nil)
	questions.On("CreateBatch", mock.Anything, mock.Anything).Return(nil)

	settings := NewQuizSettings(testQuizConfig())
	svc := NewSeedService(
		NewSubjectService(subjects),
		NewCategoryService(categories, subjects),
		NewTopicService(topics, subjects, categories),
		NewQuestionService(questions, subjects, categories, topics, nil, settings.Get, NewShuffler(1)),
	)

	file, err := ParseSeed([]byte(testSeed))
	require.NoError(t, err)

	result, err := svc.Seed(ctx(), file)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Subjects)
	assert.Equal(t, 1, result.Categories)
	assert.Equal(t, 1, result.Topics)
	assert.Equal(t, 3, result.Questions)
	assert.Equal(t, []string{"Life Sciences"}, result.Skipped)
	questions.AssertNumberOfCalls(t, "CreateBatch", 2)
}
