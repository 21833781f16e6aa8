package model

// swagger:model Subject
type Subject struct {
	BaseModel
	Name        string `gorm:"size:120;uniqueIndex;not null" json:"name"` // 删除时改名释放唯一索引
	Description string `gorm:"type:text" json:"description"`
	Grade       int    `gorm:"default:0" json:"grade"` // 0 表示适用所有年级
	Icon        string `gorm:"size:255" json:"icon"`
	IsActive    bool   `gorm:"not null" json:"isActive"`
}

func (Subject) TableName() string {
	return "subjects"
}

type SubjectFilter struct {
	Grade           int
	IncludeInactive bool
}
