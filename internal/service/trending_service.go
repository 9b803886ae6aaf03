package service

import (
	"context"
	"time"

	"agora/internal/cache"
	"agora/internal/models"
	"agora/internal/repository"

	"github.com/redis/go-redis/v9"
)

// Leaderboard names, also used as cache key suffixes.
const (
	BoardPostsByScore       = "posts:score"
	BoardPostsByLikes       = "posts:likes"
	BoardPostsByDislikes    = "posts:dislikes"
	BoardCommentsByScore    = "comments:score"
	BoardCommentsByLikes    = "comments:likes"
	BoardCommentsByDislikes = "comments:dislikes"
	BoardUsersByActivity    = "users:activity"
	BoardUsersByFollowers   = "users:followers"
	BoardTopCommenters      = "users:commenters"
)

// Boards lists every leaderboard.
var Boards = []string{
	BoardPostsByScore, BoardPostsByLikes, BoardPostsByDislikes,
	BoardCommentsByScore, BoardCommentsByLikes, BoardCommentsByDislikes,
	BoardUsersByActivity, BoardUsersByFollowers, BoardTopCommenters,
}

// TrendingService builds leaderboards straight from the three entity stores.
// Each board is its own query; nothing is joined across stores.
type TrendingService struct {
	userRepo    repository.UserRepository
	postRepo    repository.PostRepository
	commentRepo repository.CommentRepository
	rdb         *redis.Client
	ttl         time.Duration
}

// NewTrendingService caches boards in rdb for ttl. A nil client or a zero ttl
// reads the stores on every call.
func NewTrendingService(
	userRepo repository.UserRepository,
	postRepo repository.PostRepository,
	commentRepo repository.CommentRepository,
	rdb *redis.Client,
	ttl time.Duration,
) *TrendingService {
	return &TrendingService{
		userRepo:    userRepo,
		postRepo:    postRepo,
		commentRepo: commentRepo,
		rdb:         rdb,
		ttl:         ttl,
	}
}

func (s *TrendingService) TopPosts(ctx context.Context, metric repository.RankMetric) ([]models.TrendingPost, error) {
	out := []models.TrendingPost{}
	err := cache.Aside(ctx, s.rdb, cache.TrendingKey("posts:"+string(metric)), &out, s.ttl, func() error {
		posts, err := s.postRepo.Top(ctx, metric, repository.DefaultRankLimit)
		if err != nil {
			return err
		}
		out = make([]models.TrendingPost, 0, len(posts))
		for _, p := range posts {
			out = append(out, models.NewTrendingPost(p))
		}
		return nil
	})
	return out, err
}

func (s *TrendingService) TopComments(ctx context.Context, metric repository.RankMetric) ([]models.TrendingComment, error) {
	out := []models.TrendingComment{}
	err := cache.Aside(ctx, s.rdb, cache.TrendingKey("comments:"+string(metric)), &out, s.ttl, func() error {
		comments, err := s.commentRepo.Top(ctx, metric, repository.DefaultRankLimit)
		if err != nil {
			return err
		}
		out = make([]models.TrendingComment, 0, len(comments))
		for _, c := range comments {
			out = append(out, models.NewTrendingComment(c))
		}
		return nil
	})
	return out, err
}

// TopUsersByActivity ranks users by their posts counter.
func (s *TrendingService) TopUsersByActivity(ctx context.Context) ([]models.TrendingUser, error) {
	return s.topUsers(ctx, BoardUsersByActivity, s.userRepo.TopByPosts)
}

func (s *TrendingService) TopUsersByFollowers(ctx context.Context) ([]models.TrendingUser, error) {
	return s.topUsers(ctx, BoardUsersByFollowers, s.userRepo.TopByFollowers)
}

func (s *TrendingService) topUsers(ctx context.Context, board string, query func(context.Context, int) ([]models.User, error)) ([]models.TrendingUser, error) {
	out := []models.TrendingUser{}
	err := cache.Aside(ctx, s.rdb, cache.TrendingKey(board), &out, s.ttl, func() error {
		users, err := query(ctx, repository.DefaultRankLimit)
		if err != nil {
			return err
		}
		out = make([]models.TrendingUser, 0, len(users))
		for _, u := range users {
			out = append(out, models.NewTrendingUser(u))
		}
		return nil
	})
	return out, err
}

// TopCommenters ranks users by how many comments the comment store holds for them.
func (s *TrendingService) TopCommenters(ctx context.Context) ([]models.TopCommenter, error) {
	out := []models.TopCommenter{}
	err := cache.Aside(ctx, s.rdb, cache.TrendingKey(BoardTopCommenters), &out, s.ttl, func() error {
		rows, err := s.commentRepo.TopCommenters(ctx, repository.DefaultRankLimit)
		if err != nil {
			return err
		}
		out = append(out[:0], rows...)
		return nil
	})
	return out, err
}

// InvalidateBoards drops every cached board from rdb.
func InvalidateBoards(ctx context.Context, rdb *redis.Client) {
	for _, board := range Boards {
		cache.Invalidate(ctx, rdb, cache.TrendingKey(board))
	}
}
