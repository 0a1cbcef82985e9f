package progress

import (
	"context"

	"github.com/dmitrijs2005/edutrack/internal/server/models"
)

type Repository interface {
	// MarkCompleted inserts or overwrites the (user, lesson) row atomically.
	MarkCompleted(ctx context.Context, userID, lessonID int64) (*models.LessonProgress, error)
	// ForCourse lists every lesson of courseID in catalog order with the
	// user's status, defaulting to not completed where no row exists.
	ForCourse(ctx context.Context, userID, courseID int64) ([]models.LessonStatus, error)
	CountCompleted(ctx context.Context, userID int64) (int, error)
}
