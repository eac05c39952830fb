// Package ports declares what the pickups module needs from other modules.
package ports

import (
	"context"

	"github.com/google/uuid"
)

// AwardResult is the outcome of crediting points for a delivered booking.
type AwardResult struct {
	Awarded bool
	Points  int
	Balance int
}

// PointsAwarder credits the booking owner at most once per booking. It must
// join the transaction carried by ctx.
type PointsAwarder interface {
	AwardForBooking(ctx context.Context, userID, bookingID uuid.UUID) (AwardResult, error)
}

// AgentDirectory checks delivery agent accounts.
type AgentDirectory interface {
	IsDeliveryAgent(ctx context.Context, userID uuid.UUID) (bool, error)
}
