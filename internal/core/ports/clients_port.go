package ports

import (
	"context"

	"github.com/webike/rentals/internal/core/domain"
)

// IdentityClient verifies bearer tokens against the auth service. A
// definitive rejection surfaces as domain.ErrUnauthenticated; an unreachable
// or timed-out auth service surfaces as domain.ErrDependencyUnavailable.
type IdentityClient interface {
	VerifyToken(ctx context.Context, token string) (*domain.Identity, error)
}

// InventoryClient is the rental service's view of the bike service.
//
// SyncAvailability is the reconciliation operation for the documented
// eventual-consistency gap between rental state and bike availability: it is
// attempted exactly once per state transition, never retried, and its failure
// must not abort or roll back the enclosing transition.
type InventoryClient interface {
	GetBike(ctx context.Context, bikeID int64) (*domain.BikeInfo, error)
	SyncAvailability(ctx context.Context, bikeID int64, available bool) error
	Health(ctx context.Context) (status string, err error)
}
