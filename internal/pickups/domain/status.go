// Package domain holds the pickup lifecycle rules. A booking moves along two
// independent axes: scheduling (route grouping) and fulfillment (agent work).
// The status shown to clients is derived from both.
package domain

import (
	"fmt"

	"ewaste_pickup_backend/platform/apperr"
)

// SchedulingState records whether route grouping has placed the booking on a route.
type SchedulingState string

const (
	Unscheduled SchedulingState = "unscheduled"
	Scheduled   SchedulingState = "scheduled"
)

// FulfillmentState mirrors the delivery assignment status. FulfillmentNone
// means no agent has been assigned yet.
type FulfillmentState string

const (
	FulfillmentNone FulfillmentState = "none"
	Assigned        FulfillmentState = "assigned"
	PickedUp        FulfillmentState = "picked_up"
	Delivered       FulfillmentState = "delivered"
)

// Status is the single value shown to clients.
type Status string

const (
	StatusPending   Status = "pending"
	StatusScheduled Status = "scheduled"
	StatusAssigned  Status = "assigned"
	StatusPickedUp  Status = "picked_up"
	StatusDelivered Status = "delivered"
)

var fulfillmentRank = map[FulfillmentState]int{
	FulfillmentNone: 0,
	Assigned:        1,
	PickedUp:        2,
	Delivered:       3,
}

// DisplayStatus folds both axes into one status. Fulfillment wins once an
// agent is involved.
func DisplayStatus(s SchedulingState, f FulfillmentState) Status {
	switch f {
	case Assigned:
		return StatusAssigned
	case PickedUp:
		return StatusPickedUp
	case Delivered:
		return StatusDelivered
	}
	if s == Scheduled {
		return StatusScheduled
	}
	return StatusPending
}

// ParseDeliveryTarget accepts the statuses an agent may report.
func ParseDeliveryTarget(s string) (FulfillmentState, error) {
	switch f := FulfillmentState(s); f {
	case Assigned, PickedUp, Delivered:
		return f, nil
	}
	return "", apperr.Validation("invalid status: must be one of assigned, picked_up, delivered")
}

// CheckAdvance allows forward moves and repeats of the current state.
func CheckAdvance(from, to FulfillmentState) error {
	if from == FulfillmentNone {
		return apperr.Validation("booking has no delivery assignment")
	}
	if fulfillmentRank[to] < fulfillmentRank[from] {
		return apperr.Validation(fmt.Sprintf("cannot move delivery from %s back to %s", from, to))
	}
	return nil
}

// CanReassign reports whether an admin may (re)assign an agent.
func CanReassign(f FulfillmentState) error {
	if f == Delivered {
		return apperr.Conflict("booking has already been delivered")
	}
	return nil
}

// Routable reports whether route grouping may pick the booking up.
func Routable(s SchedulingState, f FulfillmentState) bool {
	return s == Unscheduled && fulfillmentRank[f] <= fulfillmentRank[Assigned]
}
