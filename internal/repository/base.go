// Package repository provides the entity stores. Each store works against the
// table its service owns and nothing else.
package repository

import (
	"errors"
	"strings"
	"time"

	"agora/internal/models"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// DefaultRankLimit is the size of every leaderboard.
const DefaultRankLimit = 10

// RankMetric selects the column a ranking query orders by.
type RankMetric string

const (
	RankByScore    RankMetric = "score"
	RankByLikes    RankMetric = "likes"
	RankByDislikes RankMetric = "dislikes"
)

func (m RankMetric) orderExpr() (string, error) {
	switch m {
	case RankByScore:
		return "(likes - dislikes) DESC", nil
	case RankByLikes:
		return "likes DESC", nil
	case RankByDislikes:
		return "dislikes DESC", nil
	default:
		return "", models.NewValidationError("unknown ranking metric " + string(m))
	}
}

// now is replaced in tests that need deterministic timestamps.
var now = func() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

func clampLimit(limit int) int {
	if limit <= 0 || limit > DefaultRankLimit {
		return DefaultRankLimit
	}
	return limit
}

func notFoundOr(err error, resource, id string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.NewNotFoundError(resource, id)
	}
	return models.NewInternalError(err)
}

// isUniqueConstraintError checks if a DB error is a unique constraint violation.
func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "unique constraint")
}
