package progress

import (
	"context"
	"database/sql"
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

func (r *PostgresRepository) MarkCompleted(ctx context.Context, userID, lessonID int64) (*models.LessonProgress, error) {
	query :=
		`INSERT INTO user_progress (user_id, lesson_id, completed, completion_date, watch_duration_seconds)
		 VALUES ($1, $2, TRUE, now(), 0)
		 ON CONFLICT (user_id, lesson_id) DO UPDATE
		 SET completed = TRUE, completion_date = EXCLUDED.completion_date
		 RETURNING user_id, lesson_id, completed, completion_date, watch_duration_seconds`

	p := &models.LessonProgress{}
	var completedAt sql.NullTime
	err := r.db.QueryRowContext(ctx, query, userID, lessonID).
		Scan(&p.UserID, &p.LessonID, &p.Completed, &completedAt, &p.WatchDurationSeconds)
	if err != nil {
		if dbx.ForeignKeyViolation(err) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	if completedAt.Valid {
		p.CompletionDate = &completedAt.Time
	}

	return p, nil
}

func (r *PostgresRepository) ForCourse(ctx context.Context, userID, courseID int64) ([]models.LessonStatus, error) {
	query :=
		`SELECT l.id, COALESCE(p.completed, FALSE), p.completion_date
		 FROM lessons l
		 LEFT JOIN user_progress p ON p.lesson_id = l.id AND p.user_id = $1
		 WHERE l.course_id = $2
		 ORDER BY l.order_index, l.id`

	rows, err := r.db.QueryContext(ctx, query, userID, courseID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	out := []models.LessonStatus{}
	for rows.Next() {
		var st models.LessonStatus
		var completedAt sql.NullTime
		if err := rows.Scan(&st.LessonID, &st.Completed, &completedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		if completedAt.Valid {
			t := completedAt.Time
			st.CompletionDate = &t
		}
		out = append(out, st)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return out, nil
}

func (r *PostgresRepository) CountCompleted(ctx context.Context, userID int64) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM user_progress WHERE user_id = $1 AND completed`, userID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}
