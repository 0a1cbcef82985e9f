package users

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/edutrack/internal/common"
	"github.com/dmitrijs2005/edutrack/internal/server/models"
)

// Uniqueness violations reported by the storage layer. Both wrap
// common.ErrorConflict.
var (
	ErrEmailTaken    = fmt.Errorf("email taken: %w", common.ErrorConflict)
	ErrUsernameTaken = fmt.Errorf("username taken: %w", common.ErrorConflict)
)

// Repository is point access to user records. Uniqueness of email and
// username is enforced by the store itself.
type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByIDForUpdate(ctx context.Context, id int64) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	ExistsByEmailOrUsername(ctx context.Context, email, username string) (bool, error)
	EmailTakenByOther(ctx context.Context, email string, userID int64) (bool, error)
	UsernameTakenByOther(ctx context.Context, username string, userID int64) (bool, error)
	UpdateProfile(ctx context.Context, id int64, username, email string) (*models.User, error)
	UpdatePassword(ctx context.Context, id int64, passwordHash string) (int64, error)
}
