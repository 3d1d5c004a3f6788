package models

// ProjectModel stores a user-submitted showcase entry.
type ProjectModel struct {
	Base
	Title       string      `json:"title"       gorm:"not null"`
	Description string      `json:"description" gorm:"type:text"`
	Link        string      `json:"link"`
	ImageURLs   StringArray `json:"image_urls"  gorm:"type:longtext"`
	FileURL     string      `json:"file_url"`
	UserID      string      `json:"user_id"     gorm:"type:char(36);index;not null"`
	Views       uint64      `json:"views"       gorm:"default:0"`
}

func (ProjectModel) TableName() string { return "projects" }
