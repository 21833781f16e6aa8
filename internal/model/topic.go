package model

// swagger:model Topic
type Topic struct {
	BaseModel
	SubjectID   uint   `gorm:"index;not null" json:"subjectId"`
	CategoryID  uint   `gorm:"index" json:"categoryId"` // 0 表示未归类
	Name        string `gorm:"size:150;not null" json:"name"`
	Description string `gorm:"type:text" json:"description"`
	Order       int    `gorm:"default:0" json:"order"`
	IsActive    bool   `gorm:"not null" json:"isActive"`
}

func (Topic) TableName() string {
	return "topics"
}

type TopicFilter struct {
	SubjectID       uint
	CategoryID      uint
	IncludeInactive bool
}
