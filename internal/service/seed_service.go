package service

import (
	"context"
	"edulearn_backend/pkg/logger"
	"errors"
	"fmt"
	"os"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
)

// SeedFile 初始题库，层级为 学科 -> 分类 -> 主题 -> 题目
type SeedFile struct {
	Subjects []SeedSubject `yaml:"subjects"`
}

type SeedSubject struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Grade       int            `yaml:"grade"`
	Icon        string         `yaml:"icon"`
	Categories  []SeedCategory `yaml:"categories"`
	Topics      []SeedTopic    `yaml:"topics"`
	Questions   []SeedQuestion `yaml:"questions"`
}

type SeedCategory struct {
	Name        string      `yaml:"name"`
	Description string      `yaml:"description"`
	Order       int         `yaml:"order"`
	Topics      []SeedTopic `yaml:"topics"`
}

type SeedTopic struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Order       int            `yaml:"order"`
	Questions   []SeedQuestion `yaml:"questions"`
}

type SeedQuestion struct {
	Type          string   `yaml:"type"`
	Text          string   `yaml:"text"`
	Options       []string `yaml:"options"`
	CorrectAnswer string   `yaml:"correct_answer"`
	Explanation   string   `yaml:"explanation"`
	Difficulty    string   `yaml:"difficulty"`
	Grade         int      `yaml:"grade"`
}

type SeedResult struct {
	Subjects   int
	Categories int
	Topics     int
	Questions  int
	Skipped    []string
}

func LoadSeedFile(path string) (*SeedFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseSeed(data)
}

func ParseSeed(data []byte) (*SeedFile, error) {
	var file SeedFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse seed file: %w", err)
	}
	if len(file.Subjects) == 0 {
		return nil, errors.New("seed file has no subjects")
	}
	return &file, nil
}

// SeedService 导入初始题库，已存在的同名学科整体跳过
type SeedService struct {
	Subjects   *SubjectService
	Categories *CategoryService
	Topics     *TopicService
	Questions  *QuestionService
}

func NewSeedService(subjects *SubjectService, categories *CategoryService, topics *TopicService, questions *QuestionService) *SeedService {
	return &SeedService{Subjects: subjects, Categories: categories, Topics: topics, Questions: questions}
}

func (s *SeedService) Seed(ctx context.Context, file *SeedFile) (*SeedResult, error) {
	result := &SeedResult{}
	for _, ss := range file.Subjects {
		_, err := s.Subjects.Repo.FindByName(ctx, ss.Name)
		if err == nil {
			result.Skipped = append(result.Skipped, ss.Name)
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return result, err
		}

		subject, err := s.Subjects.Create(ctx, SubjectRequest{
			Name:        ss.Name,
			Description: ss.Description,
			Grade:       ss.Grade,
			Icon:        ss.Icon,
		})
		if err != nil {
			return result, fmt.Errorf("subject %q: %w", ss.Name, err)
		}
		result.Subjects++

		if err := s.seedQuestions(ctx, result, subject.ID, 0, 0, ss.Questions); err != nil {
			return result, err
		}
		if err := s.seedTopics(ctx, result, subject.ID, 0, ss.Topics); err != nil {
			return result, err
		}

		for _, sc := range ss.Categories {
			category, err := s.Categories.Create(ctx, CategoryRequest{
				SubjectID:   subject.ID,
				Name:        sc.Name,
				Description: sc.Description,
				Order:       sc.Order,
			})
			if err != nil {
				return result, fmt.Errorf("category %q: %w", sc.Name, err)
			}
			result.Categories++
			if err := s.seedTopics(ctx, result, subject.ID, category.ID, sc.Topics); err != nil {
				return result, err
			}
		}

		logger.Log.Info("Seeded subject", zap.String("subject", subject.Name), zap.Uint("id", subject.ID))
	}
	return result, nil
}

func (s *SeedService) seedTopics(ctx context.Context, result *SeedResult, subjectID, categoryID uint, topics []SeedTopic) error {
	for _, st := range topics {
		topic, err := s.Topics.Create(ctx, TopicRequest{
			SubjectID:   subjectID,
			CategoryID:  categoryID,
			Name:        st.Name,
			Description: st.Description,
			Order:       st.Order,
		})
		if err != nil {
			return fmt.Errorf("topic %q: %w", st.Name, err)
		}
		result.Topics++
		if err := s.seedQuestions(ctx, result, subjectID, categoryID, topic.ID, st.Questions); err != nil {
			return err
		}
	}
	return nil
}

func (s *SeedService) seedQuestions(ctx context.Context, result *SeedResult, subjectID, categoryID, topicID uint, questions []SeedQuestion) error {
	if len(questions) == 0 {
		return nil
	}
	reqs := make([]QuestionRequest, 0, len(questions))
	for _, q := range questions {
		reqs = append(reqs, QuestionRequest{
			SubjectID:     subjectID,
			CategoryID:    categoryID,
			TopicID:       topicID,
			Type:          q.Type,
			Text:          q.Text,
			Options:       q.Options,
			CorrectAnswer: q.CorrectAnswer,
			Explanation:   q.Explanation,
			Difficulty:    q.Difficulty,
			Grade:         q.Grade,
		})
	}
	created, err := s.Questions.CreateBulk(ctx, reqs)
	if err != nil {
		return err
	}
	result.Questions += len(created)
	return nil
}
