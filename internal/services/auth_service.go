// internal/services/auth_service.go
package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/spicepop/storefront/internal/config"
	"github.com/spicepop/storefront/internal/models"
	"github.com/spicepop/storefront/internal/storage"
	"github.com/spicepop/storefront/internal/utils"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNotAdmin           = errors.New("admin access required")
	ErrInvalidToken       = errors.New("invalid token")
	ErrTokenExpired       = errors.New("token expired")
)

type AuthService struct {
	store storage.Storage
	cfg   *config.Config
	log   logrus.FieldLogger
}

type LoginResponse struct {
	User       *models.User `json:"user"`
	AuthHeader string       `json:"authHeader"`
	Token      string       `json:"token"`
	ExpiresIn  int          `json:"expiresIn"` // in seconds
}

func NewAuthService(store storage.Storage, cfg *config.Config, log logrus.FieldLogger) *AuthService {
	return &AuthService{
		store: store,
		cfg:   cfg,
		log:   log,
	}
}

// Login checks the credentials against the stored bcrypt hash. Only admins
// may log in; the storefront itself needs no account.
func (s *AuthService) Login(ctx context.Context, req *models.LoginRequest) (*LoginResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	user, err := s.verifyPassword(ctx, req.Username, req.Password)
	if err != nil {
		s.log.WithField("username", req.Username).Warn("Failed admin login")
		return nil, err
	}

	token, err := utils.GenerateJWT(user.ID, user.Username, user.IsAdmin, s.cfg.JWT.TokenTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	s.log.WithField("user_id", user.ID).Info("Admin logged in")

	return &LoginResponse{
		User:       user,
		AuthHeader: utils.BasicAuthHeader(req.Username, req.Password),
		Token:      token,
		ExpiresIn:  int(s.cfg.JWT.TokenTTL.Seconds()),
	}, nil
}

// AuthenticateHeader resolves a Basic or Bearer Authorization value to an
// admin user. Basic credentials are re-verified against the stored hash on
// every call.
func (s *AuthService) AuthenticateHeader(ctx context.Context, header string) (*models.User, error) {
	if username, password, ok := utils.ParseBasicAuth(header); ok {
		return s.verifyPassword(ctx, username, password)
	}

	token, ok := utils.ParseBearer(header)
	if !ok {
		return nil, ErrInvalidCredentials
	}

	claims, err := utils.ValidateJWT(token)
	if err != nil {
		if errors.Is(err, utils.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrInvalidToken
	}

	user, err := s.store.GetUser(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}
	if !user.IsAdmin {
		return nil, ErrNotAdmin
	}

	return user, nil
}

func (s *AuthService) verifyPassword(ctx context.Context, username, password string) (*models.User, error) {
	user, err := s.store.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := user.CheckPassword(password); err != nil {
		return nil, ErrInvalidCredentials
	}
	if !user.IsAdmin {
		return nil, ErrNotAdmin
	}

	return user, nil
}
