// Package services contains server-side business logic. This file implements
// AuthService: signup, login, session verification, profile and password
// changes.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/dmitrijs2005/edutrack/internal/common"
	"github.com/dmitrijs2005/edutrack/internal/dbx"
	"github.com/dmitrijs2005/edutrack/internal/server/auth"
	"github.com/dmitrijs2005/edutrack/internal/server/config"
	"github.com/dmitrijs2005/edutrack/internal/server/models"
	"github.com/dmitrijs2005/edutrack/internal/server/password"
	"github.com/dmitrijs2005/edutrack/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/edutrack/internal/server/repositories/users"
)

// MinPasswordLength applies to password changes.
const MinPasswordLength = 6

// Session is a freshly issued token together with the user it names.
type Session struct {
	Token string
	User  models.PublicUser
}

type AuthService struct {
	db                      *sql.DB
	repomanager             repomanager.RepositoryManager
	codec                   *auth.Codec
	hasher                  passwordHasher
	dummyDigest             string
	sessionValidityDuration time.Duration
	enforceVersion          bool
}

// NewAuthService constructs an AuthService using repositories and server config.
func NewAuthService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *AuthService {
	hasher := password.NewHasher(cfg.BcryptCost)

	// a fixed input of valid length cannot fail to hash
	dummy, _ := hasher.Hash("edutrack-unknown-account")

	return &AuthService{
		db:                      db,
		repomanager:             m,
		codec:                   auth.NewCodec([]byte(cfg.SecretKey)),
		hasher:                  hasher,
		dummyDigest:             dummy,
		sessionValidityDuration: cfg.SessionValidityDuration,
		enforceVersion:          cfg.EnforceCredentialVersion,
	}
}

type passwordHasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, digest string) bool
}

func (s *AuthService) Signup(ctx context.Context, username, email, plaintext string) (*Session, error) {
	if username == "" || email == "" || plaintext == "" {
		return nil, common.NewError(common.ErrorValidation, "Email, username, and password are required")
	}

	repo := s.repomanager.Users(s.db)

	exists, err := repo.ExistsByEmailOrUsername(ctx, email, username)
	if err != nil {
		return nil, fmt.Errorf("error checking existing user: %w", err)
	}
	if exists {
		return nil, common.NewError(common.ErrorConflict, "Email or username already in use")
	}

	digest, err := s.hashPassword(plaintext)
	if err != nil {
		return nil, err
	}

	user, err := repo.Create(ctx, &models.User{UserName: username, Email: email, PasswordHash: digest})
	if err != nil {
		// lost the race against a concurrent signup
		if errors.Is(err, common.ErrorConflict) {
			return nil, common.NewError(common.ErrorConflict, "Email or username already in use")
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	return s.issue(user)
}

func (s *AuthService) Login(ctx context.Context, email, plaintext string) (*Session, error) {
	if email == "" || plaintext == "" {
		return nil, common.NewError(common.ErrorValidation, "Email and password are required")
	}

	user, err := s.repomanager.Users(s.db).GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			// same bcrypt work as a wrong password, so timing does not
			// reveal whether the email is registered
			s.hasher.Verify(plaintext, s.dummyDigest)
			return nil, errBadCredentials
		}
		return nil, fmt.Errorf("error searching user: %w", err)
	}

	if !s.hasher.Verify(plaintext, user.PasswordHash) {
		return nil, errBadCredentials
	}

	return s.issue(user)
}

// VerifySession resolves a bearer token to the user it was issued for.
func (s *AuthService) VerifySession(ctx context.Context, token string) (models.PublicUser, error) {
	claims, err := s.claims(token)
	if err != nil {
		return models.PublicUser{}, err
	}

	user, err := s.sessionUser(ctx, s.repomanager.Users(s.db), claims, false)
	if err != nil {
		return models.PublicUser{}, err
	}

	return user.Public(), nil
}

func (s *AuthService) UpdateProfile(ctx context.Context, token, username, email string) (models.PublicUser, error) {
	claims, err := s.claims(token)
	if err != nil {
		return models.PublicUser{}, err
	}
	if username == "" || email == "" {
		return models.PublicUser{}, common.NewError(common.ErrorValidation, "Username and email are required")
	}

	repo := s.repomanager.Users(s.db)

	if s.enforceVersion {
		if _, err := s.sessionUser(ctx, repo, claims, false); err != nil {
			return models.PublicUser{}, err
		}
	}

	taken, err := repo.EmailTakenByOther(ctx, email, claims.UserID)
	if err != nil {
		return models.PublicUser{}, fmt.Errorf("error checking email: %w", err)
	}
	if taken {
		return models.PublicUser{}, errEmailInUse
	}

	taken, err = repo.UsernameTakenByOther(ctx, username, claims.UserID)
	if err != nil {
		return models.PublicUser{}, fmt.Errorf("error checking username: %w", err)
	}
	if taken {
		return models.PublicUser{}, errUsernameInUse
	}

	user, err := repo.UpdateProfile(ctx, claims.UserID, username, email)
	switch {
	case err == nil:
		return user.Public(), nil
	case errors.Is(err, users.ErrEmailTaken):
		return models.PublicUser{}, errEmailInUse
	case errors.Is(err, users.ErrUsernameTaken):
		return models.PublicUser{}, errUsernameInUse
	case errors.Is(err, common.ErrorNotFound):
		return models.PublicUser{}, errUserNotFound
	default:
		return models.PublicUser{}, fmt.Errorf("error updating user: %w", err)
	}
}

// ChangePassword verifies current and stores newPassword. The user row is
// locked for the duration so concurrent changes serialize.
func (s *AuthService) ChangePassword(ctx context.Context, token, current, newPassword string) error {
	claims, err := s.claims(token)
	if err != nil {
		return err
	}
	if current == "" || newPassword == "" {
		return common.NewError(common.ErrorValidation, "Current and new password are required")
	}
	if utf8.RuneCountInString(newPassword) < MinPasswordLength {
		return common.NewError(common.ErrorValidation, "Password must be at least 6 characters")
	}

	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Users(tx)

		user, err := s.sessionUser(ctx, repo, claims, true)
		if err != nil {
			return err
		}

		if !s.hasher.Verify(current, user.PasswordHash) {
			return common.NewError(common.ErrorUnauthorized, "Current password is incorrect")
		}

		digest, err := s.hashPassword(newPassword)
		if err != nil {
			return err
		}

		if _, err := repo.UpdatePassword(ctx, user.ID, digest); err != nil {
			return fmt.Errorf("error updating password: %w", err)
		}
		return nil
	})
}

var (
	errBadCredentials = common.NewError(common.ErrorUnauthorized, "Invalid email or password")
	errNoToken        = common.NewError(common.ErrorUnauthorized, "No token provided")
	errInvalidToken   = common.NewError(common.ErrorUnauthorized, "Invalid token")
	errUserNotFound   = common.NewError(common.ErrorUnauthorized, "User not found")
	errEmailInUse     = common.NewError(common.ErrorConflict, "Email is already in use")
	errUsernameInUse  = common.NewError(common.ErrorConflict, "Username is already in use")
)

func (s *AuthService) claims(token string) (*auth.Claims, error) {
	if token == "" {
		return nil, errNoToken
	}
	claims, err := s.codec.Validate(token)
	if err != nil {
		return nil, errInvalidToken
	}
	return claims, nil
}

// sessionUser loads the user named by claims. With version enforcement on,
// a session issued before the last password change is rejected.
func (s *AuthService) sessionUser(ctx context.Context, repo users.Repository, claims *auth.Claims, forUpdate bool) (*models.User, error) {
	get := repo.GetByID
	if forUpdate {
		get = repo.GetByIDForUpdate
	}

	user, err := get(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, errUserNotFound
		}
		return nil, fmt.Errorf("error searching user: %w", err)
	}

	if s.enforceVersion && claims.CredentialVersion != user.CredentialVersion {
		return nil, errInvalidToken
	}
	return user, nil
}

func (s *AuthService) hashPassword(plaintext string) (string, error) {
	digest, err := s.hasher.Hash(plaintext)
	if err != nil {
		if errors.Is(err, password.ErrTooLong) {
			return "", common.NewError(common.ErrorValidation, "Password must be at most 72 bytes")
		}
		return "", err
	}
	return digest, nil
}

func (s *AuthService) issue(user *models.User) (*Session, error) {
	token, err := s.codec.Issue(auth.Claims{
		UserID:            user.ID,
		Email:             user.Email,
		Username:          user.UserName,
		CredentialVersion: user.CredentialVersion,
	}, s.sessionValidityDuration)
	if err != nil {
		return nil, fmt.Errorf("error issuing token: %w", err)
	}
	return &Session{Token: token, User: user.Public()}, nil
}
