package model

import (
	"gorm.io/datatypes"
)

type QuestionType string

const (
	MultipleChoice QuestionType = "multiple_choice"
	TrueFalse      QuestionType = "true_false"
)

type Difficulty string

const (
	Easy   Difficulty = "easy"
	Medium Difficulty = "medium"
	Hard   Difficulty = "hard"
)

func (d Difficulty) Valid() bool {
	switch d {
	case Easy, Medium, Hard:
		return true
	}
	return false
}

// swagger:model Question
type Question struct {
	BaseModel
	SubjectID     uint                        `gorm:"index;not null" json:"subjectId"`
	CategoryID    uint                        `gorm:"index" json:"categoryId"`
	TopicID       uint                        `gorm:"index" json:"topicId"`
	Type          QuestionType                `gorm:"size:30;not null" json:"type"`
	Text          string                      `gorm:"type:text;not null" json:"text"`
	Options       datatypes.JSONSlice[string] `gorm:"type:json" json:"options"`
	CorrectAnswer string                      `gorm:"type:text;not null" json:"correctAnswer"`
	Explanation   string                      `gorm:"type:text" json:"explanation"`
	Difficulty    Difficulty                  `gorm:"size:10;index;not null" json:"difficulty"`
	Grade         int                         `gorm:"default:0" json:"grade"`
	ImageURL      string                      `gorm:"size:500" json:"imageUrl"`
	TimesUsed     int                         `gorm:"default:0" json:"timesUsed"`
	IsActive      bool                        `gorm:"not null" json:"isActive"`
}

func (Question) TableName() string {
	return "questions"
}

type QuestionFilter struct {
	SubjectID       uint
	CategoryID      uint
	TopicID         uint
	Difficulty      Difficulty
	Search          string
	IncludeInactive bool
}

// TopicQuestionStat 按主题统计题量与使用次数
type TopicQuestionStat struct {
	TopicID   uint  `json:"topicId"`
	Questions int64 `json:"questions"`
	TimesUsed int64 `json:"timesUsed"`
}
