package model

import (
	"time"

	"gorm.io/datatypes"
)

const (
	SessionInProgress = "in_progress"
	SessionCompleted  = "completed"
)

// TestSession 一次出题记录，保存下发给用户的题目顺序
// swagger:model TestSession
type TestSession struct {
	UUIDBase
	UserID         string                    `gorm:"size:128;index;not null" json:"userId"`
	SubjectID      uint                      `gorm:"index;not null" json:"subjectId"`
	CategoryID     uint                      `json:"categoryId"`
	TopicID        uint                      `json:"topicId"`
	Difficulty     Difficulty                `gorm:"size:10" json:"difficulty"`
	QuestionIDs    datatypes.JSONSlice[uint] `gorm:"type:json" json:"questionIds"`
	TotalQuestions int                       `gorm:"not null" json:"totalQuestions"`
	Score          int                       `gorm:"default:0" json:"score"`
	Percentage     float64                   `gorm:"default:0" json:"percentage"`
	Status         string                    `gorm:"size:20;index;not null" json:"status"`
	StartedAt      time.Time                 `json:"startedAt"`
	CompletedAt    *time.Time                `json:"completedAt,omitempty"`
	TimeTaken      int                       `gorm:"default:0" json:"timeTaken"` // 秒
	Answers        []TestAnswer              `gorm:"foreignKey:SessionID" json:"answers,omitempty"`
}

func (TestSession) TableName() string {
	return "test_sessions"
}

type TestAnswer struct {
	UUIDBase
	SessionID  string `gorm:"index;type:varchar(36)" json:"sessionId"`
	QuestionID uint   `gorm:"index" json:"questionId"`
	UserAnswer string `gorm:"type:text" json:"userAnswer"`
	IsCorrect  bool   `gorm:"default:false" json:"isCorrect"`
}

func (TestAnswer) TableName() string {
	return "test_answers"
}
