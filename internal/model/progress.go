package model

import "time"

// Progress 用户完成一次测验后的成绩记录
// swagger:model Progress
type Progress struct {
	BaseModel
	UserID         string    `gorm:"size:128;index;not null" json:"userId"`
	SubjectID      uint      `gorm:"index" json:"subjectId"`
	TopicID        uint      `json:"topicId"`
	SessionID      string    `gorm:"size:36" json:"sessionId,omitempty"`
	QuizTitle      string    `gorm:"size:255" json:"quizTitle"`
	Score          int       `gorm:"not null" json:"score"`
	TotalQuestions int       `gorm:"not null" json:"totalQuestions"`
	Percentage     float64   `json:"percentage"`
	TimeTaken      int       `gorm:"default:0" json:"timeTaken"`
	CompletedAt    time.Time `gorm:"index" json:"completedAt"`
}

func (Progress) TableName() string {
	return "progress"
}

type ProgressFilter struct {
	SubjectID uint
}

type ProgressStats struct {
	TotalQuizzes      int                   `json:"totalQuizzes"`
	TotalQuestions    int                   `json:"totalQuestions"`
	TotalCorrect      int                   `json:"totalCorrect"`
	AveragePercentage float64               `json:"averagePercentage"`
	BestPercentage    float64               `json:"bestPercentage"`
	LastCompletedAt   *time.Time            `json:"lastCompletedAt,omitempty"`
	Subjects          []SubjectProgressStat `json:"subjects"`
}

type SubjectProgressStat struct {
	SubjectID         uint    `json:"subjectId"`
	Quizzes           int     `json:"quizzes"`
	AveragePercentage float64 `json:"averagePercentage"`
	BestPercentage    float64 `json:"bestPercentage"`
}

type LeaderboardEntry struct {
	Rank       int     `json:"rank"`
	UserID     string  `json:"userId"`
	Percentage float64 `json:"percentage"`
}
