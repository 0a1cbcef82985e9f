package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/edutrack/internal/common"
	"github.com/dmitrijs2005/edutrack/internal/server/models"
	"github.com/dmitrijs2005/edutrack/internal/server/repositories/repomanager"
)

// GradingService grades submitted answers and records every attempt.
type GradingService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewGradingService(db *sql.DB, m repomanager.RepositoryManager) *GradingService {
	return &GradingService{db: db, repomanager: m}
}

// Submit grades answer against the exercise and appends an attempt row.
func (s *GradingService) Submit(ctx context.Context, userID, exerciseID int64, answer string) (bool, error) {
	exercise, err := s.repomanager.Catalog(s.db).GetExercise(ctx, exerciseID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return false, common.NewError(common.ErrorNotFound, "Exercise not found")
		}
		return false, fmt.Errorf("error fetching exercise: %w", err)
	}

	correct := Grade(exercise, answer)

	_, err = s.repomanager.Answers(s.db).Create(ctx, &models.AnswerAttempt{
		UserID:     userID,
		ExerciseID: exerciseID,
		Answer:     answer,
		Correct:    correct,
	})
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return false, common.NewError(common.ErrorNotFound, "User not found")
		}
		return false, fmt.Errorf("error recording answer: %w", err)
	}

	return correct, nil
}

// Grade reports whether answer is correct for e. Only multiple choice
// exercises are graded automatically: the answer must name an option of e
// that is marked correct. Every other question type grades as incorrect.
func Grade(e *models.Exercise, answer string) bool {
	if e.QuestionType != models.MultipleChoice {
		return false
	}

	optionID, err := strconv.ParseInt(strings.TrimSpace(answer), 10, 64)
	if err != nil {
		return false
	}

	option, ok := e.Option(optionID)
	return ok && option.IsCorrect
}
