// Package events defines the domain events exchanged between modules.
// Bus infrastructure lives in platform/events.
package events

import (
	"ewaste_pickup_backend/platform/events"

	"github.com/google/uuid"
)

type (
	Event       = events.Event
	Bus         = events.Bus
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	BaseEvent   = events.BaseEvent
)

var NewBaseEvent = events.NewBaseEvent

// =============================================================================
// Pickup Events
// =============================================================================

// BookingCreated is published after a pickup booking is committed.
type BookingCreated struct {
	BaseEvent
	BookingID uuid.UUID `json:"bookingId"`
	UserID    uuid.UUID `json:"userId"`
	Category  string    `json:"category"`
}

func (e BookingCreated) EventName() string { return "pickups.booking.created" }

// RoutesScheduled is published after a route grouping run.
type RoutesScheduled struct {
	BaseEvent
	RouteCount   int `json:"routeCount"`
	BookingCount int `json:"bookingCount"`
}

func (e RoutesScheduled) EventName() string { return "pickups.routes.scheduled" }

// DeliveryAssigned is published when an admin assigns an agent to a booking.
type DeliveryAssigned struct {
	BaseEvent
	BookingID uuid.UUID `json:"bookingId"`
	UserID    uuid.UUID `json:"userId"`
	AgentID   uuid.UUID `json:"agentId"`
}

func (e DeliveryAssigned) EventName() string { return "pickups.delivery.assigned" }

// DeliveryStatusChanged is published when an agent moves a pickup forward.
type DeliveryStatusChanged struct {
	BaseEvent
	BookingID uuid.UUID `json:"bookingId"`
	UserID    uuid.UUID `json:"userId"`
	AgentID   uuid.UUID `json:"agentId"`
	Status    string    `json:"status"`
}

func (e DeliveryStatusChanged) EventName() string { return "pickups.delivery.status_changed" }

// =============================================================================
// Points Events
// =============================================================================

// PointsAwarded is published once per delivered booking.
type PointsAwarded struct {
	BaseEvent
	UserID    uuid.UUID `json:"userId"`
	BookingID uuid.UUID `json:"bookingId"`
	Points    int       `json:"points"`
	Balance   int       `json:"balance"`
}

func (e PointsAwarded) EventName() string { return "points.awarded" }

// PointsRedeemed is published after a gift code is issued.
type PointsRedeemed struct {
	BaseEvent
	UserID         uuid.UUID `json:"userId"`
	Points         int       `json:"points"`
	RedemptionCode string    `json:"redemptionCode"`
	Balance        int       `json:"balance"`
}

func (e PointsRedeemed) EventName() string { return "points.redeemed" }
