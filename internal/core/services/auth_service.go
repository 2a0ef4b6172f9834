package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/webike/rentals/internal/core/domain"
	"github.com/webike/rentals/internal/core/ports"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"
)

type AuthService struct {
	userRepo ports.UserRepository
	tokens   ports.TokenService
	logger   ports.LoggerPort
	validate *validator.Validate
}

func NewAuthService(
	userRepo ports.UserRepository,
	tokens ports.TokenService,
	logger ports.LoggerPort,
	validate *validator.Validate,
) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		tokens:   tokens,
		logger:   logger,
		validate: validate,
	}
}

func (s *AuthService) Register(ctx context.Context, email, password, fullName string, isAdmin bool) (*domain.User, error) {
	user := &domain.User{
		Email:    email,
		FullName: fullName,
		IsAdmin:  isAdmin,
	}
	if err := s.validate.Struct(user); err != nil {
		return nil, fmt.Errorf("validation error: %w", err)
	}

	if _, err := s.userRepo.GetUserByEmail(ctx, email); err == nil {
		return nil, domain.ErrEmailTaken
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	user.HashedPassword = string(hashed)

	created, err := s.userRepo.CreateUser(ctx, user)
	if err != nil {
		s.logger.Error("Failed to create user", map[string]interface{}{
			"error": err.Error(),
			"email": email,
		})
		return nil, err
	}

	s.logger.Info("User registered", map[string]interface{}{
		"user_id": created.ID,
		"email":   created.Email,
	})

	return created, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.userRepo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return "", domain.ErrInvalidCredentials
		}
		return "", err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(password)) != nil {
		s.logger.Warn("Login failed", map[string]interface{}{
			"email": email,
		})
		return "", domain.ErrInvalidCredentials
	}

	token, err := s.tokens.CreateToken(user.ID)
	if err != nil {
		s.logger.Error("Failed to issue token", map[string]interface{}{
			"error":   err.Error(),
			"user_id": user.ID,
		})
		return "", err
	}

	return token, nil
}

// CurrentUser resolves a bearer token to its user record. Any token or
// lookup failure is reported as unauthenticated, never as internals.
func (s *AuthService) CurrentUser(ctx context.Context, token string) (*domain.User, error) {
	payload, err := s.tokens.VerifyToken(token)
	if err != nil {
		return nil, domain.ErrUnauthenticated
	}

	user, err := s.userRepo.GetUserByID(ctx, payload.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrUnauthenticated
		}
		return nil, err
	}

	return user, nil
}

func (s *AuthService) ListUsers(ctx context.Context, skip, limit int) ([]*domain.User, error) {
	return s.userRepo.ListUsers(ctx, skip, limit)
}
