package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/edutrack/internal/common"
	"github.com/dmitrijs2005/edutrack/internal/server/models"
	"github.com/dmitrijs2005/edutrack/internal/server/repositories/repomanager"
)

// ProgressService tracks lesson completion per user.
type ProgressService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewProgressService(db *sql.DB, m repomanager.RepositoryManager) *ProgressService {
	return &ProgressService{db: db, repomanager: m}
}

// MarkCompleted is idempotent: repeated calls refresh the completion date.
func (s *ProgressService) MarkCompleted(ctx context.Context, userID, lessonID int64) error {
	_, err := s.repomanager.Progress(s.db).MarkCompleted(ctx, userID, lessonID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.NewError(common.ErrorNotFound, "Lesson or user not found")
		}
		return fmt.Errorf("error marking lesson completed: %w", err)
	}
	return nil
}

// GetProgress lists every lesson of the course in catalog order. Lessons
// the user never touched are reported as not completed.
func (s *ProgressService) GetProgress(ctx context.Context, userID, courseID int64) ([]models.LessonStatus, error) {
	progress, err := s.repomanager.Progress(s.db).ForCourse(ctx, userID, courseID)
	if err != nil {
		return nil, fmt.Errorf("error fetching progress: %w", err)
	}
	return progress, nil
}
