// Package seed creates demo data for the three entity stores. It is meant
// for development and tests only.
package seed

import (
	"fmt"
	"time"

	"agora/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"
)

// Factory builds entities with fake content. Nothing is persisted.
type Factory struct {
	faker *gofakeit.Faker
	now   time.Time
	seq   int
}

// NewFactory returns a Factory; the same seed always yields the same data
// apart from ids.
func NewFactory(seed int64) *Factory {
	return &Factory{faker: gofakeit.New(seed), now: time.Now().UTC()}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

// User builds an active user with the given password hash. Usernames and
// emails carry a sequence number so they stay unique within one run.
func (f *Factory) User(hashedPassword string) models.User {
	f.seq++
	fullName := f.faker.Name()
	return models.User{
		ID:             uuid.NewString(),
		Username:       truncate(fmt.Sprintf("%s_%d", f.faker.Username(), f.seq), 50),
		Email:          fmt.Sprintf("user%d.%s", f.seq, f.faker.Email()),
		FullName:       &fullName,
		HashedPassword: hashedPassword,
		Followers:      f.faker.Number(0, 500),
		Active:         f.faker.Number(0, 9) > 0,
		CreatedAt:      f.pastTime(),
	}
}

func (f *Factory) Post(author models.User) models.Post {
	return models.Post{
		ID:       uuid.NewString(),
		UserID:   author.ID,
		Username: author.Username,
		Title:    truncate(f.faker.Sentence(6), 200),
		Category: models.PostCategories[f.faker.Number(0, len(models.PostCategories)-1)],
		Content:  truncate(f.faker.Paragraph(2, 4, 12, "\n"), 5000),
		Likes:    f.faker.Number(0, 200),
		Dislikes: f.faker.Number(0, 40),
		EditedAt: f.pastTime(),
	}
}

func (f *Factory) Comment(author models.User, post models.Post) models.Comment {
	return models.Comment{
		ID:       uuid.NewString(),
		UserID:   author.ID,
		PostID:   post.ID,
		Username: author.Username,
		Content:  truncate(f.faker.Sentence(f.faker.Number(4, 30)), 500),
		Likes:    f.faker.Number(0, 50),
		Dislikes: f.faker.Number(0, 10),
		EditedAt: f.pastTime(),
	}
}

// pastTime is a moment within the last 90 days.
func (f *Factory) pastTime() time.Time {
	back := time.Duration(f.faker.Number(0, 90*24*60)) * time.Minute
	return f.now.Add(-back).Truncate(time.Microsecond)
}

func (f *Factory) pick(n int) int {
	return f.faker.Number(0, n-1)
}
