package models

// CreateUserRequest is the body of POST /users.
type CreateUserRequest struct {
	Username string  `json:"username" validate:"required,min=3,max=50"`
	Email    string  `json:"email" validate:"required,email"`
	Password string  `json:"password" validate:"required,min=8"`
	FullName *string `json:"full_name" validate:"omitempty,max=100"`
}

// UpdateUserRequest is the body of PUT /users/:id.
type UpdateUserRequest struct {
	Email    *string `json:"email" validate:"omitempty,email"`
	FullName *string `json:"full_name" validate:"omitempty,max=100"`
	Password *string `json:"password" validate:"omitempty,min=8"`
	Active   *bool   `json:"active"`
}

// CounterRequest is the body of PUT /users/:id/counters/:counter.
type CounterRequest struct {
	Delta int `json:"delta" validate:"oneof=-1 1"`
}

// CreatePostRequest is the body of POST /posts.
type CreatePostRequest struct {
	UserID   string       `json:"user_id" validate:"required"`
	Username string       `json:"username" validate:"required,min=3,max=50"`
	Title    string       `json:"title" validate:"required,min=1,max=200"`
	Category PostCategory `json:"category" validate:"omitempty,category"`
	Content  string       `json:"content" validate:"required,min=1,max=5000"`
}

// EditPostRequest is the body of PUT /posts/:userId/:id.
type EditPostRequest struct {
	Title    *string       `json:"title" validate:"omitempty,min=1,max=200"`
	Content  *string       `json:"content" validate:"omitempty,min=1,max=5000"`
	Category *PostCategory `json:"category" validate:"omitempty,category"`
}

// Patch converts the request into a PostPatch.
func (r EditPostRequest) Patch() PostPatch {
	return PostPatch{Title: r.Title, Content: r.Content, Category: r.Category}
}

// CreateCommentRequest is the body of POST /comments.
type CreateCommentRequest struct {
	UserID   string `json:"user_id" validate:"required"`
	PostID   string `json:"post_id" validate:"required"`
	Username string `json:"username" validate:"required,min=3,max=50"`
	Content  string `json:"content" validate:"required,min=1,max=500"`
}

// EditCommentRequest is the body of PUT /comments/:userId/:id.
type EditCommentRequest struct {
	Content *string `json:"content" validate:"omitempty,min=1,max=500"`
}

// Patch converts the request into a CommentPatch.
func (r EditCommentRequest) Patch() CommentPatch {
	return CommentPatch{Content: r.Content}
}

// TokenResponse is returned by a successful login.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}
