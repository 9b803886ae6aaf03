package models

import "time"

// PostCategory is one of a fixed set of post categories.
type PostCategory string

const (
	CategoryLifestyle        PostCategory = "Lifestyle"
	CategoryFood             PostCategory = "Food"
	CategoryTravel           PostCategory = "Travel"
	CategoryFinance          PostCategory = "Finance"
	CategoryTechnology       PostCategory = "Technology"
	CategoryBusiness         PostCategory = "Business"
	CategoryHealthAndFitness PostCategory = "Health and Fitness"
	CategoryOther            PostCategory = "Other"
)

// PostCategories lists every accepted category.
var PostCategories = []PostCategory{
	CategoryLifestyle,
	CategoryFood,
	CategoryTravel,
	CategoryFinance,
	CategoryTechnology,
	CategoryBusiness,
	CategoryHealthAndFitness,
	CategoryOther,
}

// Valid reports whether c is one of PostCategories.
func (c PostCategory) Valid() bool {
	for _, known := range PostCategories {
		if c == known {
			return true
		}
	}
	return false
}

// Post is owned by the post service. UserID is a weak reference into the
// user service and Username is a copy taken at creation time.
type Post struct {
	ID       string       `gorm:"column:post_id;primaryKey;size:36" json:"post_id"`
	UserID   string       `gorm:"index;size:36;not null" json:"user_id"`
	Username string       `gorm:"size:50;not null" json:"username"`
	Title    string       `gorm:"size:200;not null" json:"title"`
	Category PostCategory `gorm:"size:32;not null" json:"category"`
	Content  string       `gorm:"type:text;not null" json:"content"`
	Likes    int          `gorm:"not null;default:0" json:"likes"`
	Dislikes int          `gorm:"not null;default:0" json:"dislikes"`
	EditedAt time.Time    `gorm:"index" json:"edited_at"`
}

func (Post) TableName() string { return "posts" }

// Score is likes minus dislikes.
func (p Post) Score() int { return p.Likes - p.Dislikes }

// PostSummary is the post projection without content.
type PostSummary struct {
	PostID   string       `json:"post_id"`
	Username string       `json:"username"`
	Title    string       `json:"title"`
	Category PostCategory `json:"category"`
	Likes    int          `json:"likes"`
	Dislikes int          `json:"dislikes"`
	EditedAt time.Time    `json:"edited_at"`
}

// Summary projects p into a PostSummary.
func (p Post) Summary() PostSummary {
	return PostSummary{
		PostID:   p.ID,
		Username: p.Username,
		Title:    p.Title,
		Category: p.Category,
		Likes:    p.Likes,
		Dislikes: p.Dislikes,
		EditedAt: p.EditedAt,
	}
}

// PostPatch lists the post fields an edit may set. Nil fields are left alone.
type PostPatch struct {
	Title    *string
	Content  *string
	Category *PostCategory
}

// Columns returns the column updates for the fields that are set.
func (p PostPatch) Columns() map[string]interface{} {
	cols := make(map[string]interface{}, 3)
	if p.Title != nil {
		cols["title"] = *p.Title
	}
	if p.Content != nil {
		cols["content"] = *p.Content
	}
	if p.Category != nil {
		cols["category"] = *p.Category
	}
	return cols
}
