package models

import "time"

// UserModel represents a registered member. Bookmarks is a set of project
// ids; membership, not order, is what matters.
type UserModel struct {
	Base
	Username      string      `json:"username"     gorm:"uniqueIndex;not null"`
	DisplayName   string      `json:"display_name"`
	Password      string      `json:"-"            gorm:"not null"`
	Avatar        string      `json:"avatar"`
	Bookmarks     StringArray `json:"bookmarks"    gorm:"type:longtext"`
	LastLoginTime *time.Time  `json:"last_login_time"`
	LastLoginIP   string      `json:"last_login_ip"`
}

func (UserModel) TableName() string { return "users" }

// UserViewsModel tracks which projects already counted toward a user's view
// totals. One row per user, keyed by the user's id; created lazily on first
// view and append-only after that.
type UserViewsModel struct {
	UserID         string      `json:"user_id"         gorm:"type:char(36);primaryKey"`
	ViewedProjects StringArray `json:"viewed_projects" gorm:"type:longtext"`
	CreatedAt      time.Time   `json:"created"`
	UpdatedAt      time.Time   `json:"modified"`
}

func (UserViewsModel) TableName() string { return "user_views" }
