package service

import (
	"context"
	"errors"
	"log/slog"

	"agora/internal/models"
	"agora/internal/repository"
	"agora/internal/validation"

	"golang.org/x/crypto/bcrypt"
)

// errInvalidCredentials covers both unknown users and wrong passwords.
var errInvalidCredentials = models.NewUnauthorizedError("Invalid username or password")

type UserService struct {
	userRepo repository.UserRepository
	hashCost int
	// dummyHash is compared against when the username is unknown so both
	// failure paths cost one bcrypt comparison.
	dummyHash []byte
}

// NewUserService hashes passwords with bcrypt at cost. A cost of 0 uses
// bcrypt.DefaultCost.
func NewUserService(userRepo repository.UserRepository, cost int) *UserService {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	dummy, _ := bcrypt.GenerateFromPassword([]byte("agora-dummy-password"), cost)
	return &UserService{userRepo: userRepo, hashCost: cost, dummyHash: dummy}
}

func (s *UserService) hash(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), s.hashCost)
	if err != nil {
		return "", models.NewInternalError(err)
	}
	return string(hashed), nil
}

func (s *UserService) CreateUser(ctx context.Context, in models.CreateUserRequest) (*models.User, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	hashed, err := s.hash(in.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username:       in.Username,
		Email:          in.Email,
		FullName:       in.FullName,
		HashedPassword: hashed,
		Active:         true,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	slog.InfoContext(ctx, "user created", "user_id", user.ID, "username", user.Username)
	return user, nil
}

func (s *UserService) GetUser(ctx context.Context, userID string) (*models.User, error) {
	return s.userRepo.GetByID(ctx, userID)
}

func (s *UserService) UpdateUser(ctx context.Context, userID string, in models.UpdateUserRequest) (*models.User, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	patch := models.UserPatch{Email: in.Email, FullName: in.FullName, Active: in.Active}
	if in.Password != nil {
		hashed, err := s.hash(*in.Password)
		if err != nil {
			return nil, err
		}
		patch.HashedPassword = &hashed
	}
	return s.userRepo.Update(ctx, userID, patch)
}

func (s *UserService) DeleteUser(ctx context.Context, userID string) error {
	if err := s.userRepo.Delete(ctx, userID); err != nil {
		return err
	}
	// Posts and comments keep pointing at the removed id.
	slog.InfoContext(ctx, "user deleted", "user_id", userID)
	return nil
}

func (s *UserService) Follow(ctx context.Context, userID string) (*models.User, error) {
	return s.userRepo.AdjustFollowers(ctx, userID, 1)
}

func (s *UserService) Unfollow(ctx context.Context, userID string) (*models.User, error) {
	return s.userRepo.AdjustFollowers(ctx, userID, -1)
}

// AdjustCounter applies a ±1 delta to the posts or comments counter.
func (s *UserService) AdjustCounter(ctx context.Context, userID string, counter models.UserCounter, in models.CounterRequest) (*models.User, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	return s.userRepo.AdjustCounter(ctx, userID, counter, in.Delta)
}

// VerifyCredentials checks a username and password. Inactive accounts are
// still verified; rejecting them is up to the caller.
func (s *UserService) VerifyCredentials(ctx context.Context, in models.Credentials) (*models.VerifiedUser, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByUsername(ctx, in.Username)
	if err != nil {
		if models.IsCode(err, models.CodeNotFound) {
			_ = bcrypt.CompareHashAndPassword(s.dummyHash, []byte(in.Password))
			return nil, errInvalidCredentials
		}
		return nil, err
	}

	err = bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(in.Password))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return nil, errInvalidCredentials
	}
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	return &models.VerifiedUser{UserID: user.ID, Username: user.Username, Active: user.Active}, nil
}
