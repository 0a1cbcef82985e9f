package services

import (
	"context"
	"database/sql"
	"fmt"
	"math"

	"github.com/dmitrijs2005/edutrack/internal/server/models"
	"github.com/dmitrijs2005/edutrack/internal/server/repositories/repomanager"
)

// StatsService derives per-user learning statistics. It never writes.
type StatsService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewStatsService(db *sql.DB, m repomanager.RepositoryManager) *StatsService {
	return &StatsService{db: db, repomanager: m}
}

func (s *StatsService) ComputeStats(ctx context.Context, userID int64) (*models.Stats, error) {
	completed, err := s.repomanager.Progress(s.db).CountCompleted(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error counting completed lessons: %w", err)
	}

	answers := s.repomanager.Answers(s.db)

	counts, err := answers.Counts(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error counting answers: %w", err)
	}

	points, err := answers.PointsEarned(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error summing points: %w", err)
	}

	return &models.Stats{
		LessonsCompleted:   completed,
		ExercisesAttempted: counts.Attempted,
		CorrectAnswers:     counts.Correct,
		Accuracy:           Accuracy(counts),
		PointsEarned:       points,
	}, nil
}

// Accuracy is the percentage of correct attempts rounded to one decimal,
// or 0 when nothing was attempted.
func Accuracy(c models.AttemptCounts) float64 {
	if c.Attempted == 0 {
		return 0
	}
	pct := float64(c.Correct) / float64(c.Attempted) * 100
	return math.Round(pct*10) / 10
}
