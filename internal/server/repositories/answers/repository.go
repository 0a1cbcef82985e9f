package answers

import (
	"context"

	"github.com/dmitrijs2005/edutrack/internal/server/models"
)

// Repository stores answer attempts. Rows are append-only.
type Repository interface {
	Create(ctx context.Context, attempt *models.AnswerAttempt) (*models.AnswerAttempt, error)
	Counts(ctx context.Context, userID int64) (models.AttemptCounts, error)
	// PointsEarned sums exercise points over the user's correct attempts.
	PointsEarned(ctx context.Context, userID int64) (int, error)
}
