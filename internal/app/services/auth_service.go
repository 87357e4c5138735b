package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/Karthik-kushal/finalmini/internal/app/models"
	"github.com/Karthik-kushal/finalmini/internal/app/models/dto"
	"github.com/Karthik-kushal/finalmini/internal/pkg/apperrors"
	"github.com/Karthik-kushal/finalmini/internal/pkg/auth"
)

var ErrInvalidRole = apperrors.NewCustomError(apperrors.ErrValidationFailed, "role must be one of: admin, student")

// AuthService handles authentication operations
type AuthService struct {
	users      UserStore
	jwtService *auth.JWTService
	logger     zerolog.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(users UserStore, jwtService *auth.JWTService, logger zerolog.Logger) *AuthService {
	return &AuthService{
		users:      users,
		jwtService: jwtService,
		logger:     logger,
	}
}

// Register creates an account and signs the new user in
func (s *AuthService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error) {
	role := models.RoleStudent
	if req.Role != "" {
		role = models.RoleType(strings.ToLower(req.Role))
		if !role.Valid() {
			return nil, ErrInvalidRole
		}
	}

	hashedPassword, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	user := &models.User{
		FullName: strings.TrimSpace(req.FullName),
		Email:    strings.ToLower(strings.TrimSpace(req.Email)),
		Password: hashedPassword,
		Role:     role,
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			return nil, err
		}
		return nil, fmt.Errorf("user creation error: %w", err)
	}

	s.logger.Info().
		Str("userId", user.ID.String()).
		Str("role", string(user.Role)).
		Msg("User registered")

	return s.authResponse(user)
}

// Login verifies credentials. Unknown emails and wrong passwords are
// indistinguishable to the caller, in result and in bcrypt work.
func (s *AuthService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	user, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, apperrors.ErrResourceNotFound) {
			auth.CheckPassword(auth.DummyHash(), req.Password)
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("error loading user: %w", err)
	}

	if !auth.CheckPassword(user.Password, req.Password) {
		return nil, apperrors.ErrInvalidCredentials
	}

	return s.authResponse(user)
}

func (s *AuthService) authResponse(user *models.User) (*dto.AuthResponse, error) {
	accessToken, expiresIn, err := s.jwtService.GenerateAccessToken(user)
	if err != nil {
		return nil, fmt.Errorf("error generating access token: %w", err)
	}

	return &dto.AuthResponse{
		User: dto.NewUserResponse(user),
		Token: dto.TokenResponse{
			AccessToken: accessToken,
			TokenType:   "Bearer",
			ExpiresIn:   expiresIn,
		},
	}, nil
}
