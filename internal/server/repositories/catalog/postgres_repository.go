package catalog

import (
	"context"
	"database/sql"
	"errors"
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

func (r *PostgresRepository) GetExercise(ctx context.Context, id int64) (*models.Exercise, error) {
	query :=
		`SELECT id, lesson_id, question_type, points
		 FROM exercises
		 WHERE id = $1`

	e := &models.Exercise{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(&e.ID, &e.LessonID, &e.QuestionType, &e.Points)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	options, err := r.options(ctx, id)
	if err != nil {
		return nil, err
	}
	e.Options = options

	return e, nil
}

func (r *PostgresRepository) options(ctx context.Context, exerciseID int64) ([]models.ExerciseOption, error) {
	query :=
		`SELECT id, exercise_id, text, is_correct
		 FROM exercise_options
		 WHERE exercise_id = $1
		 ORDER BY order_index, id`

	rows, err := r.db.QueryContext(ctx, query, exerciseID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	out := []models.ExerciseOption{}
	for rows.Next() {
		var o models.ExerciseOption
		if err := rows.Scan(&o.ID, &o.ExerciseID, &o.Text, &o.IsCorrect); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		out = append(out, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return out, nil
}
