package service

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/Skotchmaster/shop_backend/internal/hash"
	"github.com/Skotchmaster/shop_backend/internal/logging"
	"github.com/Skotchmaster/shop_backend/internal/models"
	"github.com/Skotchmaster/shop_backend/internal/repo"
	"github.com/Skotchmaster/shop_backend/internal/tokens"
)

var (
	ErrValidation         = errors.New("validation")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

type AuthService struct {
	Repo      *repo.GormRepo
	JWTSecret []byte
}

func (s *AuthService) Register(ctx context.Context, name, email, password string) (*models.User, error) {
	l := logging.FromContext(ctx).With("svc", "auth.register")

	if name == "" || email == "" || password == "" {
		return nil, fmt.Errorf("%w: name, email and password are required", ErrValidation)
	}

	pwHash, err := hash.HashPassword(password)
	if err != nil {
		l.Error("register_failed", "reason", "cannot hash password", "error", err)
		return nil, err
	}

	user := models.User{
		Name:         name,
		Email:        email,
		PasswordHash: pwHash,
		Role:         "user",
	}
	if err := s.Repo.CreateUser(ctx, &user); err != nil {
		if errors.Is(err, repo.ErrEmailTaken) {
			l.Warn("register_failed", "reason", "email taken", "email", email)
		} else {
			l.Error("register_failed", "error", err)
		}
		return nil, err
	}

	l.Info("register_success", "user_id", user.ID)
	return &user, nil
}

// Login verifies the credentials and mints a signed access token. An
// unknown email surfaces as gorm.ErrRecordNotFound, a wrong password as
// ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *models.User, error) {
	l := logging.FromContext(ctx).With("svc", "auth.login")

	if email == "" || password == "" {
		return "", nil, fmt.Errorf("%w: email and password are required", ErrValidation)
	}

	user, err := s.Repo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			l.Warn("login_failed", "reason", "user not found")
			return "", nil, err
		}
		l.Error("login_failed", "error", err)
		return "", nil, err
	}

	if !hash.CheckPassword(user.PasswordHash, password) {
		l.Warn("login_failed", "reason", "wrong password", "user_id", user.ID)
		return "", nil, ErrInvalidCredentials
	}

	token, err := tokens.SignAccessToken(user.ID, user.Email, user.Role, s.JWTSecret)
	if err != nil {
		l.Error("login_failed", "reason", "cannot sign token", "error", err)
		return "", nil, err
	}

	l.Info("login_success", "user_id", user.ID)
	return token, user, nil
}
