package service

import (
	"context"
	"log/slog"

	"agora/internal/models"
	"agora/internal/observability"
)

// CommentDirectory is the part of the comment service a post delete cascades into.
type CommentDirectory interface {
	ListByPost(ctx context.Context, postID string) ([]models.Comment, error)
	Delete(ctx context.Context, userID, commentID string) error
}

// CascadeFailure records one comment the cascade could not delete.
type CascadeFailure struct {
	CommentID string
	UserID    string
	Err       error
}

// CascadeReport describes what one post-delete cascade did. Skipped is set
// when the comments could not be listed, in which case Err holds the cause.
type CascadeReport struct {
	PostID   string
	Listed   int
	Deleted  int
	Failed   int
	Skipped  bool
	Err      error
	Failures []CascadeFailure
}

// Outcome is the metric label for the report.
func (r CascadeReport) Outcome() string {
	switch {
	case r.Skipped:
		return "skipped"
	case r.Failed > 0:
		return "partial"
	default:
		return "completed"
	}
}

// Cascade removes the comments of a post that has already been deleted.
// It runs after the post delete commits and never undoes it.
type Cascade struct {
	comments CommentDirectory
}

func NewCascade(comments CommentDirectory) *Cascade {
	return &Cascade{comments: comments}
}

// Run lists the comments of postID and deletes them one at a time, each as
// its own author. A listing failure skips the cascade; a failed delete is
// recorded and the loop moves on.
func (c *Cascade) Run(ctx context.Context, postID string) CascadeReport {
	report := CascadeReport{PostID: postID}

	comments, err := c.comments.ListByPost(ctx, postID)
	if err != nil {
		report.Skipped = true
		report.Err = err
		c.finish(ctx, report)
		return report
	}
	report.Listed = len(comments)

	for _, comment := range comments {
		if err := c.comments.Delete(ctx, comment.UserID, comment.ID); err != nil {
			report.Failed++
			report.Failures = append(report.Failures, CascadeFailure{
				CommentID: comment.ID,
				UserID:    comment.UserID,
				Err:       err,
			})
			observability.CascadeCommentDeletes.WithLabelValues("failed").Inc()
			continue
		}
		report.Deleted++
		observability.CascadeCommentDeletes.WithLabelValues("deleted").Inc()
	}

	c.finish(ctx, report)
	return report
}

func (c *Cascade) finish(ctx context.Context, report CascadeReport) {
	outcome := report.Outcome()
	observability.CascadeRuns.WithLabelValues(outcome).Inc()

	attrs := []any{
		"post_id", report.PostID,
		"outcome", outcome,
		"listed", report.Listed,
		"deleted", report.Deleted,
		"failed", report.Failed,
	}
	switch outcome {
	case "completed":
		slog.InfoContext(ctx, "comment cascade finished", attrs...)
	case "skipped":
		// Orphaned comments remain until someone deletes them directly.
		slog.WarnContext(ctx, "comment cascade skipped", append(attrs, "err", report.Err)...)
	default:
		for _, f := range report.Failures {
			slog.WarnContext(ctx, "cascade could not delete comment",
				"post_id", report.PostID, "comment_id", f.CommentID, "user_id", f.UserID, "err", f.Err)
		}
		slog.WarnContext(ctx, "comment cascade partially failed", attrs...)
	}
}
