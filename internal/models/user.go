// Package models contains the entities each service owns plus the projections
// and patches exchanged between services.
package models

import "time"

// User is owned by the user service.
type User struct {
	ID             string    `gorm:"column:user_id;primaryKey;size:36" json:"user_id"`
	Username       string    `gorm:"uniqueIndex;size:50;not null" json:"username"`
	Email          string    `gorm:"uniqueIndex;size:255;not null" json:"email"`
	FullName       *string   `gorm:"size:100" json:"full_name"`
	HashedPassword string    `gorm:"not null" json:"-"`
	Followers      int       `gorm:"not null;default:0" json:"followers"`
	Posts          int       `gorm:"not null;default:0" json:"posts"`
	Comments       int       `gorm:"not null;default:0" json:"comments"`
	Active         bool      `gorm:"not null" json:"active"`
	CreatedAt      time.Time `json:"created_at"`
}

func (User) TableName() string { return "users" }

// UserPatch lists the user fields an update may set. Nil fields are left alone.
type UserPatch struct {
	Email          *string
	FullName       *string
	HashedPassword *string
	Active         *bool
}

// Columns returns the column updates for the fields that are set.
func (p UserPatch) Columns() map[string]interface{} {
	cols := make(map[string]interface{}, 4)
	if p.Email != nil {
		cols["email"] = *p.Email
	}
	if p.FullName != nil {
		cols["full_name"] = *p.FullName
	}
	if p.HashedPassword != nil {
		cols["hashed_password"] = *p.HashedPassword
	}
	if p.Active != nil {
		cols["active"] = *p.Active
	}
	return cols
}

// UserCounter names a per-user activity counter.
type UserCounter string

const (
	CounterPosts    UserCounter = "posts"
	CounterComments UserCounter = "comments"
)

// Valid reports whether c names a known counter column.
func (c UserCounter) Valid() bool {
	return c == CounterPosts || c == CounterComments
}

// Credentials is both the login body and the verification request.
type Credentials struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// VerifiedUser is returned by credential verification.
type VerifiedUser struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Active   bool   `json:"active"`
}
