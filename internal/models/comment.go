package models

import "time"

// Comment is owned by the comment service. PostID must have existed when the
// comment was created; nothing keeps it valid afterwards.
type Comment struct {
	ID       string    `gorm:"column:comment_id;primaryKey;size:36" json:"comment_id"`
	UserID   string    `gorm:"index;size:36;not null" json:"user_id"`
	PostID   string    `gorm:"index;size:36;not null" json:"post_id"`
	Username string    `gorm:"size:50;not null" json:"username"`
	Content  string    `gorm:"size:500;not null" json:"content"`
	Likes    int       `gorm:"not null;default:0" json:"likes"`
	Dislikes int       `gorm:"not null;default:0" json:"dislikes"`
	EditedAt time.Time `gorm:"index" json:"edited_at"`
}

func (Comment) TableName() string { return "comments" }

// Score is likes minus dislikes.
func (c Comment) Score() int { return c.Likes - c.Dislikes }

// CommentPatch lists the comment fields an edit may set.
type CommentPatch struct {
	Content *string
}

// Columns returns the column updates for the fields that are set.
func (p CommentPatch) Columns() map[string]interface{} {
	cols := make(map[string]interface{}, 1)
	if p.Content != nil {
		cols["content"] = *p.Content
	}
	return cols
}
