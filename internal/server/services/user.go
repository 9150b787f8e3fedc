// Package services implements the application services behind the HTTP
// handlers: account management and listing management.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/vpetrenko/realhome/internal/common"
	"github.com/vpetrenko/realhome/internal/dbx"
	"github.com/vpetrenko/realhome/internal/server/auth"
	sc "github.com/vpetrenko/realhome/internal/server/config"
	"github.com/vpetrenko/realhome/internal/server/models"
	"github.com/vpetrenko/realhome/internal/server/repositories/repomanager"
)

const (
	// usernameSuffixLength is the number of random base36 characters
	// appended to usernames derived from federated display names.
	usernameSuffixLength = 4

	// generatedPasswordLength is the length of the unguessable password
	// assigned to accounts created through federated signin.
	generatedPasswordLength = 16
)

type UserService struct {
	db                      *sql.DB
	repomanager             repomanager.RepositoryManager
	jwtSecret               []byte
	sessionValidityDuration time.Duration
}

func NewUserService(db *sql.DB, m repomanager.RepositoryManager, cfg *sc.Config) *UserService {
	return &UserService{
		db:                      db,
		repomanager:             m,
		jwtSecret:               []byte(cfg.SecretKey),
		sessionValidityDuration: cfg.SessionValidityDuration,
	}
}

// SessionValidityDuration reports how long issued sessions stay valid. The
// HTTP layer uses it for the cookie expiry.
func (s *UserService) SessionValidityDuration() time.Duration {
	return s.sessionValidityDuration
}

// SignUp creates an account with a hashed password. A duplicate username or
// email surfaces as common.ErrorAlreadyExists. No session is established.
func (s *UserService) SignUp(ctx context.Context, username, email, password string) error {

	if username == "" || email == "" || password == "" {
		return common.NewValidationError("username, email and password are required")
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return common.ErrorInternal
	}

	user := &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
	}

	repo := s.repomanager.Users(s.db)

	if _, err := repo.Create(ctx, user); err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return err
		}
		return fmt.Errorf("error creating user: %w", err)
	}

	return nil
}

// SignIn authenticates by email and password. An unknown email surfaces as
// common.ErrorNotFound, a password mismatch as common.ErrorUnauthorized.
// On success it returns the account and a signed session token.
func (s *UserService) SignIn(ctx context.Context, email, password string) (*models.User, string, error) {

	repo := s.repomanager.Users(s.db)

	user, err := repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, "", common.NewNotFoundError("User Not Found!")
		}
		return nil, "", common.ErrorInternal
	}

	if !auth.CheckPassword(user.PasswordHash, password) {
		return nil, "", common.ErrorUnauthorized
	}

	token, err := s.generateSessionToken(user.ID)
	if err != nil {
		return nil, "", common.ErrorInternal
	}

	return user, token, nil
}

// FederatedSignIn trusts an external identity assertion. An existing account
// with the given email gets a session directly; otherwise a new account is
// synthesized: username derived from the display name plus a random suffix,
// an unguessable generated password, avatar from the supplied photo URL.
// Lookup and creation run inside one transaction.
func (s *UserService) FederatedSignIn(ctx context.Context, email, displayName, photoURL string) (*models.User, string, error) {

	if email == "" {
		return nil, "", common.NewValidationError("email is required")
	}

	var user *models.User

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Users(tx)

		existing, err := repo.GetByEmail(ctx, email)
		if err == nil {
			user = existing
			return nil
		}
		if !errors.Is(err, common.ErrorNotFound) {
			return err
		}

		username, err := deriveUsername(displayName)
		if err != nil {
			return err
		}

		// The generated password is never revealed; it only exists so the
		// account satisfies the credential schema.
		generated, err := common.MakeRandBase36String(generatedPasswordLength)
		if err != nil {
			return err
		}
		hash, err := auth.HashPassword(generated)
		if err != nil {
			return err
		}

		user, err = repo.Create(ctx, &models.User{
			Username:     username,
			Email:        email,
			PasswordHash: hash,
			Avatar:       photoURL,
		})
		return err
	})

	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, "", err
		}
		return nil, "", common.ErrorInternal
	}

	token, err := s.generateSessionToken(user.ID)
	if err != nil {
		return nil, "", common.ErrorInternal
	}

	return user, token, nil
}

func (s *UserService) generateSessionToken(userID string) (string, error) {
	return auth.GenerateToken(userID, s.jwtSecret, s.sessionValidityDuration)
}

// deriveUsername lowercases the display name, strips spaces, and appends a
// short random suffix to dodge collisions with pre-existing usernames.
func deriveUsername(displayName string) (string, error) {
	base := strings.ToLower(strings.ReplaceAll(displayName, " ", ""))
	suffix, err := common.MakeRandBase36String(usernameSuffixLength)
	if err != nil {
		return "", err
	}
	return base + suffix, nil
}
