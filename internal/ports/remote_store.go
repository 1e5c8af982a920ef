package ports

import (
	"context"

	"github.com/bnema/robotctl/internal/domain"
)

type RemoteRoute struct {
	Origin       string
	Destination  string
	MovementJSON string
}

// RemoteStore is the authoritative backend for routes and the robot position.
type RemoteStore interface {
	SaveRoute(ctx context.Context, origin, destination domain.Place, movement domain.Movement) error
	DeleteRoute(ctx context.Context, origin, destination domain.Place) error
	ListRoutes(ctx context.Context) ([]RemoteRoute, error)
	CurrentPosition(ctx context.Context) (string, error)
	UpdateCurrentPosition(ctx context.Context, place domain.Place) error
}
