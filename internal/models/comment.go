package models

// CommentModel is a single user's review of one project: text plus star
// rating. The unique index enforces at most one comment per (project, user)
// pair; the handler still pre-checks so the user sees a message instead of a
// constraint error.
type CommentModel struct {
	Base
	ProjectID string  `json:"project_id" gorm:"type:char(36);uniqueIndex:idx_project_user;not null"`
	UserID    string  `json:"user_id"    gorm:"type:char(36);uniqueIndex:idx_project_user;not null"`
	Text      string  `json:"comment"    gorm:"type:text;not null"`
	Rating    float64 `json:"rating"`
}

func (CommentModel) TableName() string { return "comments" }

// RatingModel is the legacy standalone ratings collection from before
// ratings were folded into comments. Never written anymore; the duplicate
// check still consults it so legacy raters cannot review twice.
type RatingModel struct {
	Base
	ProjectID string  `json:"project_id" gorm:"type:char(36);index;not null"`
	UserID    string  `json:"user_id"    gorm:"type:char(36);index;not null"`
	Rating    float64 `json:"rating"`
}

func (RatingModel) TableName() string { return "ratings" }
