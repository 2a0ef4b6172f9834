package ports

import "github.com/webike/rentals/internal/core/domain"

type TokenService interface {
	CreateToken(userID int64) (string, error)
	VerifyToken(token string) (*domain.TokenPayload, error)
}
