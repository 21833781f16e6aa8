package repository

import (
	"context"
	"edulearn_backend/internal/model"

	"gorm.io/gorm"
)

const batchSize = 100

type QuestionRepository struct {
	DB *gorm.DB
}

func NewQuestionRepository(db *gorm.DB) *QuestionRepository {
	return &QuestionRepository{DB: db}
}

func (r *QuestionRepository) Create(ctx context.Context, question *model.Question) error {
	return r.DB.WithContext(ctx).Create(question).Error
}

func (r *QuestionRepository) CreateBatch(ctx context.Context, questions []model.Question) error {
	if len(questions) == 0 {
		return nil
	}
	return r.DB.WithContext(ctx).CreateInBatches(&questions, batchSize).Error
}

func (r *QuestionRepository) FindByID(ctx context.Context, id uint) (*model.Question, error) {
	var q model.Question
	if err := r.DB.WithContext(ctx).First(&q, id).Error; err != nil {
		return nil, err
	}
	return &q, nil
}

// FindByIDs 不保证返回顺序，调用方按需重排；包含已软删除的题目，
// 出题后被删除的题目仍需参与判分
func (r *QuestionRepository) FindByIDs(ctx context.Context, ids []uint) ([]model.Question, error) {
	var qs []model.Question
	if len(ids) == 0 {
		return qs, nil
	}
	err := r.DB.WithContext(ctx).Unscoped().Where("id IN ?", ids).Find(&qs).Error
	return qs, err
}

func (r *QuestionRepository) applyFilter(query *gorm.DB, filter model.QuestionFilter) *gorm.DB {
	if filter.SubjectID > 0 {
		query = query.Where("subject_id = ?", filter.SubjectID)
	}
	if filter.CategoryID > 0 {
		query = query.Where("category_id = ?", filter.CategoryID)
	}
	if filter.TopicID > 0 {
		query = query.Where("topic_id = ?", filter.TopicID)
	}
	if filter.Difficulty != "" {
		query = query.Where("difficulty = ?", filter.Difficulty)
	}
	if filter.Search != "" {
		query = query.Where("text LIKE ?", "%"+filter.Search+"%")
	}
	if !filter.IncludeInactive {
		// 停用的学科/分类/主题下的题目同样对学生隐藏
		query = query.Where("is_active = ?", true).
			Where("subject_id IN (?)", r.DB.Model(&model.Subject{}).Select("id").Where("is_active = ?", true)).
			Where("(category_id = 0 OR category_id IN (?))", r.DB.Model(&model.Category{}).Select("id").Where("is_active = ?", true)).
			Where("(topic_id = 0 OR topic_id IN (?))", r.DB.Model(&model.Topic{}).Select("id").Where("is_active = ?", true))
	}
	return query
}

func (r *QuestionRepository) List(ctx context.Context, filter model.QuestionFilter, page, limit int) ([]model.Question, int64, error) {
	var qs []model.Question
	var total int64

	query := r.applyFilter(r.DB.WithContext(ctx).Model(&model.Question{}), filter)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	err := query.Order("id desc").Offset(offset).Limit(limit).Find(&qs).Error
	return qs, total, err
}

// FindActive 返回出题候选池
func (r *QuestionRepository) FindActive(ctx context.Context, filter model.QuestionFilter) ([]model.Question, error) {
	var qs []model.Question
	filter.IncludeInactive = false
	err := r.applyFilter(r.DB.WithContext(ctx).Model(&model.Question{}), filter).
		Order("id asc").
		Find(&qs).Error
	return qs, err
}

func (r *QuestionRepository) Update(ctx context.Context, question *model.Question) error {
	// times_used 只通过 IncrementUsage 修改
	return r.DB.WithContext(ctx).Omit("times_used").Save(question).Error
}

func (r *QuestionRepository) Delete(ctx context.Context, id uint) error {
	res := r.DB.WithContext(ctx).Delete(&model.Question{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *QuestionRepository) IncrementUsage(ctx context.Context, ids []uint) error {
	if len(ids) == 0 {
		return nil
	}
	return r.DB.WithContext(ctx).
		Model(&model.Question{}).
		Where("id IN ?", ids).
		UpdateColumn("times_used", gorm.Expr("times_used + ?", 1)).Error
}

func (r *QuestionRepository) StatsByTopic(ctx context.Context, subjectID uint) ([]model.TopicQuestionStat, error) {
	var stats []model.TopicQuestionStat
	query := r.DB.WithContext(ctx).Model(&model.Question{}).
		Select("topic_id, COUNT(*) AS questions, COALESCE(SUM(times_used), 0) AS times_used")
	if subjectID > 0 {
		query = query.Where("subject_id = ?", subjectID)
	}
	err := query.Group("topic_id").Order("topic_id asc").Scan(&stats).Error
	return stats, err
}
