// Package catalog exposes the read-only exercise data used for grading.
package catalog

import (
	"context"

	"github.com/dmitrijs2005/edutrack/internal/server/models"
)

type Repository interface {
	// GetExercise returns the exercise with its options, or
	// common.ErrorNotFound.
	GetExercise(ctx context.Context, id int64) (*models.Exercise, error)
}
