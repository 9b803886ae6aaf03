package seed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"agora/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// DefaultPassword is the password of every seeded user.
const DefaultPassword = "password123"

// Options control how much data Seed creates.
type Options struct {
	Users           int
	Posts           int
	CommentsPerPost int
	Clean           bool
	Seed            int64
	// HashCost defaults to bcrypt.DefaultCost.
	HashCost int
}

// Stores are the per-service databases.
type Stores struct {
	Users    *gorm.DB
	Posts    *gorm.DB
	Comments *gorm.DB
}

// Summary reports what Seed wrote.
type Summary struct {
	Users    int
	Posts    int
	Comments int
}

const batchSize = 100

// Seed fills the stores with related fake data. The users' posts and
// comments counters match what was written.
func Seed(ctx context.Context, stores Stores, opts Options) (Summary, error) {
	if opts.Users <= 0 {
		return Summary{}, errors.New("at least one user is required")
	}
	if opts.Clean {
		if err := ClearAll(ctx, stores); err != nil {
			return Summary{}, err
		}
	}

	cost := opts.HashCost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(DefaultPassword), cost)
	if err != nil {
		return Summary{}, fmt.Errorf("hash password: %w", err)
	}

	f := NewFactory(opts.Seed)

	users := make([]models.User, opts.Users)
	for i := range users {
		users[i] = f.User(string(hashed))
	}

	posts := make([]models.Post, opts.Posts)
	for i := range posts {
		author := f.pick(len(users))
		posts[i] = f.Post(users[author])
		users[author].Posts++
	}

	comments := make([]models.Comment, 0, opts.Posts*opts.CommentsPerPost)
	for _, post := range posts {
		for j := 0; j < opts.CommentsPerPost; j++ {
			author := f.pick(len(users))
			comments = append(comments, f.Comment(users[author], post))
			users[author].Comments++
		}
	}

	if err := stores.Users.WithContext(ctx).CreateInBatches(users, batchSize).Error; err != nil {
		return Summary{}, fmt.Errorf("seed users: %w", err)
	}
	if len(posts) > 0 {
		if err := stores.Posts.WithContext(ctx).CreateInBatches(posts, batchSize).Error; err != nil {
			return Summary{}, fmt.Errorf("seed posts: %w", err)
		}
	}
	if len(comments) > 0 {
		if err := stores.Comments.WithContext(ctx).CreateInBatches(comments, batchSize).Error; err != nil {
			return Summary{}, fmt.Errorf("seed comments: %w", err)
		}
	}

	summary := Summary{Users: len(users), Posts: len(posts), Comments: len(comments)}
	slog.InfoContext(ctx, "seed complete", "users", summary.Users, "posts", summary.Posts, "comments", summary.Comments)
	return summary, nil
}

// ClearAll deletes every row from the three stores, comments first.
func ClearAll(ctx context.Context, stores Stores) error {
	steps := []struct {
		db    *gorm.DB
		model interface{}
	}{
		{stores.Comments, &models.Comment{}},
		{stores.Posts, &models.Post{}},
		{stores.Users, &models.User{}},
	}
	for _, step := range steps {
		err := step.db.WithContext(ctx).Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(step.model).Error
		if err != nil {
			return fmt.Errorf("clear %T: %w", step.model, err)
		}
	}
	return nil
}
