package domain

import (
	"time"

	"github.com/google/uuid"
)

// Address is where the pickup happens. PostalCode drives route grouping.
type Address struct {
	ApartmentName string
	StreetNumber  string
	Area          string
	State         string
	PostalCode    string
}

// Booking is a pickup request.
type Booking struct {
	ID           uuid.UUID
	UserID       uuid.UUID
	CustomerName string
	Category     Category
	DeviceModel  string
	Address      Address
	ContactPhone *string
	PhotoKey     *string
	RouteID      *int
	Scheduling   SchedulingState
	Fulfillment  FulfillmentState
	CreatedAt    time.Time
	Materials    []MaterialEstimate
}

func (b Booking) Status() Status {
	return DisplayStatus(b.Scheduling, b.Fulfillment)
}

func (b Booking) IsScheduled() bool {
	return b.Scheduling == Scheduled
}

// Assignment links a booking to the delivery agent working it.
type Assignment struct {
	ID          uuid.UUID
	BookingID   uuid.UUID
	AgentID     uuid.UUID
	Status      FulfillmentState
	AssignedAt  time.Time
	CompletedAt *time.Time
}
