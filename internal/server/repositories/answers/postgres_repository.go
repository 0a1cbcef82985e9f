package answers

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/edutrack/internal/common"
	"github.com/dmitrijs2005/edutrack/internal/dbx"
	"github.com/dmitrijs2005/edutrack/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, attempt *models.AnswerAttempt) (*models.AnswerAttempt, error) {
	query :=
		`INSERT INTO user_answers (user_id, exercise_id, answer, correct, attempted_at)
		 VALUES ($1, $2, $3, $4, now())
		 RETURNING id, attempted_at`

	err := r.db.QueryRowContext(ctx, query, attempt.UserID, attempt.ExerciseID, attempt.Answer, attempt.Correct).
		Scan(&attempt.ID, &attempt.AttemptedAt)
	if err != nil {
		if dbx.ForeignKeyViolation(err) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return attempt, nil
}

func (r *PostgresRepository) Counts(ctx context.Context, userID int64) (models.AttemptCounts, error) {
	query :=
		`SELECT COUNT(*), COUNT(*) FILTER (WHERE correct)
		 FROM user_answers
		 WHERE user_id = $1`

	var c models.AttemptCounts
	if err := r.db.QueryRowContext(ctx, query, userID).Scan(&c.Attempted, &c.Correct); err != nil {
		return models.AttemptCounts{}, fmt.Errorf("db error: %w", err)
	}
	return c, nil
}

func (r *PostgresRepository) PointsEarned(ctx context.Context, userID int64) (int, error) {
	query :=
		`SELECT COALESCE(SUM(e.points), 0)
		 FROM user_answers a
		 JOIN exercises e ON e.id = a.exercise_id
		 WHERE a.user_id = $1 AND a.correct`

	var points int
	if err := r.db.QueryRowContext(ctx, query, userID).Scan(&points); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return points, nil
}
