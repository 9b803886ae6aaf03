package models

import (
	"time"
	"unicode/utf8"
)

// SnippetLength is the number of runes of comment content kept in a
// trending projection.
const SnippetLength = 100

// TrendingPost is a leaderboard entry for a post.
type TrendingPost struct {
	PostID   string       `json:"post_id"`
	Username string       `json:"username"`
	Title    string       `json:"title"`
	Category PostCategory `json:"category"`
	Likes    int          `json:"likes"`
	Dislikes int          `json:"dislikes"`
	Score    int          `json:"score"`
	EditedAt time.Time    `json:"edited_at"`
}

// TrendingComment is a leaderboard entry for a comment.
type TrendingComment struct {
	CommentID string    `json:"comment_id"`
	PostID    string    `json:"post_id"`
	Username  string    `json:"username"`
	Snippet   string    `json:"snippet"`
	Likes     int       `json:"likes"`
	Dislikes  int       `json:"dislikes"`
	Score     int       `json:"score"`
	EditedAt  time.Time `json:"edited_at"`
}

// TrendingUser is a leaderboard entry for a user.
type TrendingUser struct {
	UserID    string  `json:"user_id"`
	Username  string  `json:"username"`
	FullName  *string `json:"full_name"`
	Followers int     `json:"followers"`
	Posts     int     `json:"posts"`
	Comments  int     `json:"comments"`
}

// TopCommenter is a user ranked by the number of comments they have written.
type TopCommenter struct {
	UserID       string `json:"user_id"`
	CommentCount int64  `json:"comment_count"`
}

func NewTrendingPost(p Post) TrendingPost {
	return TrendingPost{
		PostID:   p.ID,
		Username: p.Username,
		Title:    p.Title,
		Category: p.Category,
		Likes:    p.Likes,
		Dislikes: p.Dislikes,
		Score:    p.Score(),
		EditedAt: p.EditedAt,
	}
}

func NewTrendingComment(c Comment) TrendingComment {
	return TrendingComment{
		CommentID: c.ID,
		PostID:    c.PostID,
		Username:  c.Username,
		Snippet:   Snippet(c.Content, SnippetLength),
		Likes:     c.Likes,
		Dislikes:  c.Dislikes,
		Score:     c.Score(),
		EditedAt:  c.EditedAt,
	}
}

func NewTrendingUser(u User) TrendingUser {
	return TrendingUser{
		UserID:    u.ID,
		Username:  u.Username,
		FullName:  u.FullName,
		Followers: u.Followers,
		Posts:     u.Posts,
		Comments:  u.Comments,
	}
}

// Snippet returns the first n runes of s, with "..." appended when s was cut.
func Snippet(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n]) + "..."
}
