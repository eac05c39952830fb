// Package adapter exposes the points ledger to other modules.
package adapter

import (
	"context"

	"ewaste_pickup_backend/internal/pickups/ports"
	"ewaste_pickup_backend/internal/points/service"

	"github.com/google/uuid"
)

// PickupAwarder implements pickups/ports.PointsAwarder.
type PickupAwarder struct {
	svc *service.Service
}

func NewPickupAwarder(svc *service.Service) *PickupAwarder {
	return &PickupAwarder{svc: svc}
}

func (a *PickupAwarder) AwardForBooking(ctx context.Context, userID, bookingID uuid.UUID) (ports.AwardResult, error) {
	out, err := a.svc.AwardForBooking(ctx, userID, bookingID)
	if err != nil {
		return ports.AwardResult{}, err
	}
	return ports.AwardResult{Awarded: out.Awarded, Points: out.Points, Balance: out.Balance}, nil
}

var _ ports.PointsAwarder = (*PickupAwarder)(nil)
