package repository

import (
	"context"
	"fmt"

	"agora/internal/models"
	"agora/internal/observability"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserRepository defines the interface for user data operations
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	Update(ctx context.Context, id string, patch models.UserPatch) (*models.User, error)
	AdjustFollowers(ctx context.Context, id string, delta int) (*models.User, error)
	AdjustCounter(ctx context.Context, id string, counter models.UserCounter, delta int) (*models.User, error)
	Delete(ctx context.Context, id string) error
	TopByPosts(ctx context.Context, limit int) ([]models.User, error)
	TopByFollowers(ctx context.Context, limit int) ([]models.User, error)
}

type userRepository struct {
	db  *gorm.DB
	log *observability.RepoLogger
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db, log: observability.NewRepoLogger("users")}
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	user.CreatedAt = now()

	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		if isUniqueConstraintError(err) {
			return models.NewValidationError("User already exists")
		}
		r.log.Fail(ctx, "create", err)
		return models.NewInternalError(err)
	}
	r.log.Write(ctx, "create", "user_id", user.ID)
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("user_id = ?", id).First(&user).Error; err != nil {
		return nil, notFoundOr(err, "User", id)
	}
	return &user, nil
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		return nil, notFoundOr(err, "User", username)
	}
	return &user, nil
}

func (r *userRepository) Update(ctx context.Context, id string, patch models.UserPatch) (*models.User, error) {
	cols := patch.Columns()
	if len(cols) == 0 {
		return r.GetByID(ctx, id)
	}

	res := r.db.WithContext(ctx).Model(&models.User{}).Where("user_id = ?", id).Updates(cols)
	if res.Error != nil {
		if isUniqueConstraintError(res.Error) {
			return nil, models.NewValidationError("Email already in use")
		}
		r.log.Fail(ctx, "update", res.Error)
		return nil, models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, models.NewNotFoundError("User", id)
	}
	r.log.Write(ctx, "update", "user_id", id)
	return r.GetByID(ctx, id)
}

func (r *userRepository) AdjustFollowers(ctx context.Context, id string, delta int) (*models.User, error) {
	return r.adjust(ctx, id, "followers", delta)
}

func (r *userRepository) AdjustCounter(ctx context.Context, id string, counter models.UserCounter, delta int) (*models.User, error) {
	if !counter.Valid() {
		return nil, models.NewValidationError(fmt.Sprintf("unknown counter %q", counter))
	}
	return r.adjust(ctx, id, string(counter), delta)
}

// adjust adds delta to column in one statement, never going below zero.
func (r *userRepository) adjust(ctx context.Context, id, column string, delta int) (*models.User, error) {
	expr := gorm.Expr(fmt.Sprintf("CASE WHEN %[1]s + ? < 0 THEN 0 ELSE %[1]s + ? END", column), delta, delta)
	res := r.db.WithContext(ctx).Model(&models.User{}).
		Where("user_id = ?", id).
		UpdateColumn(column, expr)
	if res.Error != nil {
		r.log.Fail(ctx, "adjust", res.Error)
		return nil, models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, models.NewNotFoundError("User", id)
	}
	return r.GetByID(ctx, id)
}

func (r *userRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("user_id = ?", id).Delete(&models.User{})
	if res.Error != nil {
		r.log.Fail(ctx, "delete", res.Error)
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("User", id)
	}
	r.log.Write(ctx, "delete", "user_id", id)
	return nil
}

func (r *userRepository) TopByPosts(ctx context.Context, limit int) ([]models.User, error) {
	return r.top(ctx, "posts DESC", limit)
}

func (r *userRepository) TopByFollowers(ctx context.Context, limit int) ([]models.User, error) {
	return r.top(ctx, "followers DESC", limit)
}

func (r *userRepository) top(ctx context.Context, order string, limit int) ([]models.User, error) {
	users := []models.User{}
	err := r.db.WithContext(ctx).
		Order(order).
		Order("user_id ASC").
		Limit(clampLimit(limit)).
		Find(&users).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return users, nil
}
