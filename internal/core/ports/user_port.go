package ports

import (
	"context"

	"github.com/webike/rentals/internal/core/domain"
)

type UserRepository interface {
	CreateUser(ctx context.Context, user *domain.User) (*domain.User, error)
	GetUserByID(ctx context.Context, id int64) (*domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
	ListUsers(ctx context.Context, skip, limit int) ([]*domain.User, error)
}

type AuthService interface {
	Register(ctx context.Context, email, password, fullName string, isAdmin bool) (*domain.User, error)
	Login(ctx context.Context, email, password string) (string, error)
	CurrentUser(ctx context.Context, token string) (*domain.User, error)
	ListUsers(ctx context.Context, skip, limit int) ([]*domain.User, error)
}
