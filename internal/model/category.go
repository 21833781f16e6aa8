package model

// swagger:model Category
type Category struct {
	BaseModel
	SubjectID   uint   `gorm:"index;not null" json:"subjectId"`
	Name        string `gorm:"size:100;not null" json:"name"`
	Description string `gorm:"type:text" json:"description"`
	Order       int    `gorm:"default:0" json:"order"`
	IsActive    bool   `gorm:"not null" json:"isActive"`
}

func (Category) TableName() string {
	return "categories"
}

type CategoryFilter struct {
	SubjectID       uint
	IncludeInactive bool
}
